package beautify

// Tracer receives instrumentation events from a single Run. Implementations
// are called synchronously from the rewriting goroutine.
type Tracer interface {
	// Start is called once before the first step.
	Start(inputLen int)

	// Transition is called whenever the context state or at-rule depth
	// changes. pos is the input offset (in runes) that triggered it.
	Transition(from, to State, depth, pos int)

	// Complete is called once with the final statistics.
	Complete(stats Stats)
}

// NopTracer ignores all events.
type NopTracer struct{}

func (NopTracer) Start(int)                         {}
func (NopTracer) Transition(State, State, int, int) {}
func (NopTracer) Complete(Stats)                    {}

// Stats describes a finished Run.
type Stats struct {
	// InputLen and OutputLen are measured in runes.
	InputLen  int
	OutputLen int

	// Steps is the number of dispatch steps taken by the driver loop.
	Steps int

	// Transitions counts state changes.
	Transitions int

	// MaxDepth is the deepest at-rule nesting seen.
	MaxDepth int

	// CeilingHit is set when a loop stopped at its iteration bound. It never
	// happens for well-formed or malformed input; it marks a rewriter bug.
	CeilingHit bool
}

// Result is the output of Run.
type Result struct {
	Output string
	Stats  Stats
}
