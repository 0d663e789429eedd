package reporter

import (
	"bufio"
	"context"
	"fmt"

	"github.com/yaklabco/cssbeautify/internal/ui/pretty"
	"github.com/yaklabco/cssbeautify/pkg/runner"
)

// TextReporter writes one line per changed, skipped or failed file and a
// summary line.
type TextReporter struct {
	opts   Options
	styles *pretty.Styles
	bw     *bufio.Writer
}

// NewTextReporter creates a new text reporter.
func NewTextReporter(opts Options) *TextReporter {
	return &TextReporter{
		opts:   opts,
		styles: pretty.NewStyles(pretty.IsColorEnabled(opts.Color, opts.Writer)),
		bw:     bufio.NewWriterSize(opts.Writer, bufWriterSize),
	}
}

// Report implements Reporter.
func (r *TextReporter) Report(_ context.Context, result *runner.Result) (_ int, err error) {
	defer func() {
		if flushErr := r.bw.Flush(); err == nil {
			err = flushErr
		}
	}()

	if result == nil {
		result = &runner.Result{}
	}

	for _, file := range result.Files {
		fmt.Fprint(r.bw, r.styles.FormatOutcome(r.opts.displayPath(file.Path), file, r.opts.Verbose))
	}

	if r.opts.ShowSummary {
		fmt.Fprint(r.bw, r.styles.FormatSummaryOneLine(result.Stats, r.opts.Write))
	}

	return result.Stats.FilesChanged, nil
}
