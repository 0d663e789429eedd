package beautify

import (
	"strings"
	"unicode"
)

// EOF is returned by Cursor.Current and Cursor.At past the input boundaries.
const EOF rune = -1

// Cursor walks an immutable rune sequence and accumulates rewritten output.
// The output is append-only: formatting is injected as the cursor passes a
// position, never patched afterwards.
type Cursor struct {
	input []rune
	pos   int

	out  strings.Builder
	last rune

	ceiling    int
	ceilingHit bool
}

// NewCursor creates a cursor positioned at the start of input.
func NewCursor(input string) *Cursor {
	runes := []rune(input)
	c := &Cursor{
		input:   runes,
		last:    EOF,
		ceiling: 2 * len(runes),
	}
	c.out.Grow(len(input) + len(input)/4)
	return c
}

// Current returns the rune at the read position, or EOF.
func (c *Cursor) Current() rune {
	return c.At(0)
}

// At returns the rune at the given offset from the read position, or EOF when
// the offset falls outside the input.
func (c *Cursor) At(offset int) rune {
	i := c.pos + offset
	if i < 0 || i >= len(c.input) {
		return EOF
	}
	return c.input[i]
}

// Peek returns up to n runes ahead of the read position without moving it.
// With includeCurrent the window starts at the current rune, otherwise right
// after it. A negative n looks behind: the |n| runes before the read position,
// plus the current rune when includeCurrent is set.
func (c *Cursor) Peek(n int, includeCurrent bool) string {
	if n == 0 {
		return ""
	}

	var start, end int
	if n > 0 {
		start = c.pos
		if !includeCurrent {
			start++
		}
		end = start + n
	} else {
		end = c.pos
		if includeCurrent {
			end++
		}
		start = c.pos + n
	}

	start = max(start, 0)
	end = min(end, len(c.input))
	if start >= end {
		return ""
	}
	return string(c.input[start:end])
}

// HasPrefix reports whether the input at the read position starts with s.
func (c *Cursor) HasPrefix(s string) bool {
	return c.Peek(len([]rune(s)), true) == s
}

// Advance moves the read position forward by n (1 when n < 1).
func (c *Cursor) Advance(n int) {
	if n < 1 {
		n = 1
	}
	c.pos = min(c.pos+n, len(c.input))
}

// Copy appends the current rune to the output without advancing.
func (c *Cursor) Copy() {
	if r := c.Current(); r != EOF {
		c.appendRune(r)
	}
}

// CopyAndAdvance copies n runes to the output and advances past them.
func (c *Cursor) CopyAndAdvance(n int) {
	if n < 1 {
		n = 1
	}
	for range n {
		if c.AtEnd() {
			return
		}
		c.Copy()
		c.pos++
	}
}

// Append injects literal text into the output without consuming input.
func (c *Cursor) Append(text string) {
	if text == "" {
		return
	}
	c.out.WriteString(text)
	for _, r := range text {
		c.last = r
	}
}

func (c *Cursor) appendRune(r rune) {
	c.out.WriteRune(r)
	c.last = r
}

// Last returns the most recently emitted rune, or EOF if nothing was emitted.
func (c *Cursor) Last() rune {
	return c.last
}

// AtEnd reports whether the read position has passed the last rune.
func (c *Cursor) AtEnd() bool {
	return c.pos >= len(c.input)
}

// Pos returns the read position.
func (c *Cursor) Pos() int {
	return c.pos
}

// Len returns the input length in runes.
func (c *Cursor) Len() int {
	return len(c.input)
}

// SkipWhile advances without copying while pred holds. It returns the number
// of runes skipped.
func (c *Cursor) SkipWhile(pred func(*Cursor) bool) int {
	return c.scan(pred, false)
}

// ConsumeWhile copies and advances while pred holds. It returns the number of
// runes consumed.
func (c *Cursor) ConsumeWhile(pred func(*Cursor) bool) int {
	return c.scan(pred, true)
}

func (c *Cursor) scan(pred func(*Cursor) bool, copyRunes bool) int {
	n := 0
	for !c.AtEnd() && pred(c) {
		if n >= c.ceiling {
			c.ceilingHit = true
			break
		}
		if copyRunes {
			c.Copy()
		}
		c.pos++
		n++
	}
	return n
}

// CeilingHit reports whether any scan stopped at the iteration ceiling.
func (c *Cursor) CeilingHit() bool {
	return c.ceilingHit
}

// String returns the accumulated output.
func (c *Cursor) String() string {
	return c.out.String()
}

// Predicates shared by the rewriter.

func isSpace(c *Cursor) bool {
	return unicode.IsSpace(c.Current())
}

func isIdentRune(r rune) bool {
	return r == '-' || r == '_' || r == '\\' ||
		(r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') ||
		r > unicode.MaxASCII
}

func isIdent(c *Cursor) bool {
	return isIdentRune(c.Current())
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

func isHexDigit(r rune) bool {
	return isDigit(r) || (r >= 'a' && r <= 'f') || (r >= 'A' && r <= 'F')
}
