// Package beautify reformats CSS text in a single forward pass.
//
// The rewriter reads the input once through a Cursor, tracking whether it is
// between rules, in a selector, in a property name, in a value or in an
// at-rule preamble. Spacing and indentation are injected as the cursor moves;
// everything that is not whitespace is preserved except for the value
// normalizations enabled in Settings (quotes, hex colors, leading zeros and
// zero units). Malformed input never fails: unrecognized characters pass
// through unchanged.
package beautify

import (
	"strings"
	"unicode/utf8"
)

// Beautify returns input reformatted according to s.
func Beautify(input string, s Settings) string {
	return Run(input, s, nil).Output
}

// Run is Beautify with run statistics. tr receives state transitions and may
// be nil.
func Run(input string, s Settings, tr Tracer) Result {
	if tr == nil {
		tr = NopTracer{}
	}

	c := NewCursor(input)
	r := &rewriter{c: c, s: s, tr: tr, state: StateRoot}
	r.stats.InputLen = c.Len()
	tr.Start(c.Len())

	// Each step advances or changes state, and a state change is followed by a
	// consuming step, so 2n steps always suffice.
	limit := 2*c.Len() + 2
	for !c.AtEnd() {
		if r.stats.Steps >= limit {
			r.stats.CeilingHit = true
			c.ConsumeWhile(func(*Cursor) bool { return true })
			break
		}
		r.stats.Steps++
		r.step()
	}

	out := strings.TrimSpace(c.String())
	r.stats.CeilingHit = r.stats.CeilingHit || c.CeilingHit()
	r.stats.OutputLen = utf8.RuneCountInString(out)
	tr.Complete(r.stats)

	return Result{Output: out, Stats: r.stats}
}
