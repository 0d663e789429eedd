package format

import (
	"github.com/charmbracelet/log"

	"github.com/yaklabco/cssbeautify/internal/logging"
	"github.com/yaklabco/cssbeautify/pkg/beautify"
)

// logTracer reports engine events to a logger at debug level.
type logTracer struct {
	logger *log.Logger
}

// newLogTracer returns a tracer for path, or a no-op one when the logger
// would drop debug output anyway.
func newLogTracer(logger *log.Logger, path string) beautify.Tracer {
	if logger == nil || logger.GetLevel() > log.DebugLevel {
		return beautify.NopTracer{}
	}
	return &logTracer{logger: logger.With(logging.FieldPath, path)}
}

func (t *logTracer) Start(inputLen int) {
	t.logger.Debug("beautify start", logging.FieldInputLen, inputLen)
}

func (t *logTracer) Transition(from, to beautify.State, depth, pos int) {
	t.logger.Debug("transition",
		logging.FieldFrom, from.Label(depth),
		logging.FieldState, to.Label(depth),
		logging.FieldDepth, depth,
		logging.FieldOffset, pos,
	)
}

func (t *logTracer) Complete(stats beautify.Stats) {
	t.logger.Debug("beautify done",
		logging.FieldInputLen, stats.InputLen,
		logging.FieldOutputLen, stats.OutputLen,
		logging.FieldSteps, stats.Steps,
		logging.FieldTransitions, stats.Transitions,
		logging.FieldDepth, stats.MaxDepth,
	)
}
