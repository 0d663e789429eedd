package beautify

// State is the grammatical context the rewriter currently occupies.
// Inside an at-rule body the same states are reused with a higher depth.
type State int

const (
	// StateRoot is between rules, at top level or inside an at-rule body.
	StateRoot State = iota

	// StateRuleStart is inside a selector, before "{".
	StateRuleStart

	// StateRuleProperty is inside a block, expecting a property name or "}".
	StateRuleProperty

	// StateRuleValue is after ":", expecting a value until ";" or "}".
	StateRuleValue

	// StateAtStart is inside an at-rule preamble, before "{" or ";".
	StateAtStart
)

func (s State) String() string {
	switch s {
	case StateRoot:
		return "root"
	case StateRuleStart:
		return "rule-start"
	case StateRuleProperty:
		return "rule-property"
	case StateRuleValue:
		return "rule-value"
	case StateAtStart:
		return "at-start"
	default:
		return "unknown"
	}
}

// Label returns the state name qualified by at-rule depth, e.g. "at-root"
// for StateRoot inside an at-rule body.
func (s State) Label(depth int) string {
	if depth == 0 || s == StateAtStart {
		return s.String()
	}
	if s == StateRoot {
		return "at-root"
	}
	return "at-" + s.String()
}
