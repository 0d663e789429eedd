package beautify

import (
	"strings"
	"unicode"
)

// rewriter drives a Cursor through one input. It is created per Run and never
// shared.
type rewriter struct {
	c  *Cursor
	s  Settings
	tr Tracer

	state State

	// depth counts open at-rule bodies that contain rules.
	depth int

	// parens counts open parentheses in the current value or preamble.
	parens int

	// atName is the lowercased keyword of the at-rule being read.
	atName string

	stats Stats
}

// step dispatches on the current rune. Every call either advances the cursor
// or changes state; a state change without advancing is always followed by a
// step that consumes input.
func (r *rewriter) step() {
	if r.c.HasPrefix("/*") {
		r.comment()
		return
	}

	ch := r.c.Current()
	switch r.state {
	case StateRoot:
		r.root(ch)
	case StateRuleStart:
		r.selector(ch)
	case StateRuleProperty:
		r.property(ch)
	case StateRuleValue:
		r.value(ch)
	case StateAtStart:
		r.preamble(ch)
	}
}

func (r *rewriter) enter(next State) {
	if next == r.state {
		return
	}
	r.tr.Transition(r.state, next, r.depth, r.c.Pos())
	r.stats.Transitions++
	r.state = next
	if next == StateRuleValue || next == StateAtStart {
		r.parens = 0
	}
}

func (r *rewriter) openAt() {
	r.depth++
	r.stats.MaxDepth = max(r.stats.MaxDepth, r.depth)
	r.tr.Transition(r.state, StateRoot, r.depth, r.c.Pos())
	r.stats.Transitions++
	r.state = StateRoot
}

func (r *rewriter) closeAt() {
	r.depth--
	r.tr.Transition(r.state, StateRoot, r.depth, r.c.Pos())
	r.stats.Transitions++
}

func (r *rewriter) root(ch rune) {
	c := r.c
	switch {
	case unicode.IsSpace(ch):
		c.SkipWhile(isSpace)
	case ch == '@':
		r.enter(StateAtStart)
		c.CopyAndAdvance(1)
		start := c.Pos()
		c.ConsumeWhile(isIdent)
		r.atName = strings.ToLower(c.Peek(start-c.Pos(), false))
	case ch == '}':
		if r.depth > 0 {
			r.closeAt()
		}
		c.CopyAndAdvance(1)
		r.afterBlock(r.s.AfterRule)
	case ch == ';':
		c.CopyAndAdvance(1)
		r.afterBlock(r.s.AfterRule)
	default:
		r.enter(StateRuleStart)
	}
}

func (r *rewriter) selector(ch rune) {
	c := r.c
	switch {
	case unicode.IsSpace(ch):
		switch r.skipSpace() {
		case '{', ',', ')', ']', '>', '+', '~', EOF:
			return
		}
		if !r.lastIsSpace() {
			c.Append(" ")
		}
	case ch == ',':
		c.CopyAndAdvance(1)
		r.skipSpace()
		r.newline(r.s.AfterSelectorComma, r.depth)
	case ch == '>' || ch == '+' || ch == '~':
		if !r.lastIsSpace() && c.Last() != EOF {
			c.Append(r.s.Combinator)
		}
		c.CopyAndAdvance(1)
		r.skipSpace()
		c.Append(r.s.Combinator)
	case ch == '[':
		r.group('[', ']')
	case ch == '(':
		r.group('(', ')')
	case ch == '"' || ch == '\'':
		r.copyString()
	case ch == '{':
		if !r.lastIsSpace() && c.Last() != EOF {
			c.Append(r.s.AfterSelector)
		}
		c.CopyAndAdvance(1)
		r.enter(StateRuleProperty)
		r.startBlock()
	case ch == '}':
		r.enter(StateRoot)
	default:
		c.CopyAndAdvance(1)
	}
}

func (r *rewriter) property(ch rune) {
	c := r.c
	switch {
	case unicode.IsSpace(ch):
		switch r.skipSpace() {
		case ':', ';', '}', '{', EOF:
			return
		}
		if !r.lastIsSpace() && c.Last() != EOF {
			c.Append(" ")
		}
	case ch == '}':
		c.CopyAndAdvance(1)
		r.enter(StateRoot)
		r.afterBlock(r.s.AfterRule)
	case ch == ';':
		c.CopyAndAdvance(1)
		r.afterDeclaration()
	case ch == ':':
		c.CopyAndAdvance(1)
		r.enter(StateRuleValue)
		switch r.skipSpace() {
		case ';', '}', EOF:
		default:
			c.Append(" ")
		}
	case ch == '"' || ch == '\'':
		r.copyString()
	default:
		c.CopyAndAdvance(1)
	}
}

func (r *rewriter) value(ch rune) {
	c := r.c
	switch {
	case unicode.IsSpace(ch):
		switch r.skipSpace() {
		case ';', '}', ')', ',', EOF:
			return
		}
		if !r.lastIsSpace() && c.Last() != '(' {
			c.Append(" ")
		}
	case ch == ';':
		c.CopyAndAdvance(1)
		r.enter(StateRuleProperty)
		r.afterDeclaration()
	case ch == '}':
		if r.s.AddLastSemicolon && c.Last() != ';' {
			c.Append(";")
		}
		r.enter(StateRuleProperty)
		r.newline(r.s.AfterDeclaration, r.depth)
	case ch == ',':
		c.CopyAndAdvance(1)
		switch r.skipSpace() {
		case ';', '}', ')', EOF:
		default:
			c.Append(r.s.AfterValueComma)
		}
	case ch == '(':
		r.openParen()
	case ch == ')':
		r.closeParen()
	case ch == '"' || ch == '\'':
		r.quoted()
	case ch == '#':
		r.hexColor()
	case ch == '!':
		if !r.lastIsSpace() && c.Last() != '(' {
			c.Append(" ")
		}
		c.CopyAndAdvance(1)
		r.skipSpace()
	case r.atNumber():
		r.number()
	default:
		c.CopyAndAdvance(1)
	}
}

func (r *rewriter) preamble(ch rune) {
	c := r.c
	switch {
	case unicode.IsSpace(ch):
		switch r.skipSpace() {
		case ';', '{', ',', ')', ']', EOF:
			return
		}
		if !r.lastIsSpace() && c.Last() != '(' {
			c.Append(" ")
		}
	case ch == ',':
		c.CopyAndAdvance(1)
		switch r.skipSpace() {
		case ';', '{', EOF:
		default:
			c.Append(" ")
		}
	case ch == '(':
		r.openParen()
	case ch == ')':
		r.closeParen()
	case ch == ':' && r.parens > 0:
		c.CopyAndAdvance(1)
		switch r.skipSpace() {
		case ')', EOF:
		default:
			c.Append(" ")
		}
	case ch == '"' || ch == '\'':
		r.quoted()
	case ch == ';':
		c.CopyAndAdvance(1)
		r.enter(StateRoot)
		r.afterBlock(r.s.AfterRule)
	case ch == '{':
		r.openAtBlock()
	case ch == '}':
		r.enter(StateRoot)
	default:
		c.CopyAndAdvance(1)
	}
}

// openAtBlock handles "{" after an at-rule preamble. Bodies whose first
// structural character is ";" or "}" hold declarations (@font-face, @page)
// and are formatted like a rule; anything else nests rules one level deeper.
func (r *rewriter) openAtBlock() {
	c := r.c
	if !r.lastIsSpace() {
		c.Append(r.s.AfterSelector)
	}
	declarations := r.bodyHoldsDeclarations()
	c.CopyAndAdvance(1)

	if declarations {
		r.enter(StateRuleProperty)
		r.startBlock()
		return
	}

	r.openAt()
	switch r.skipSpace() {
	case '}', EOF:
	default:
		r.newline(r.s.AfterDeclaration, r.depth)
	}
}

// startBlock follows the "{" of a declaration block. Nothing is injected
// when the block is immediately closed.
func (r *rewriter) startBlock() {
	switch r.skipSpace() {
	case '}', EOF:
	default:
		r.newline(r.s.AfterDeclaration, r.depth+1)
	}
}

func (r *rewriter) bodyHoldsDeclarations() bool {
	c := r.c
	for i := 1; ; i++ {
		switch ch := c.At(i); ch {
		case EOF, ';', '}':
			return true
		case '{':
			return false
		case '"', '\'':
			for i++; c.At(i) != ch && c.At(i) != EOF && c.At(i) != '\n'; i++ {
				if c.At(i) == '\\' {
					i++
				}
			}
		case '/':
			if c.At(i+1) == '*' {
				for i += 2; c.At(i) != EOF && (c.At(i) != '*' || c.At(i+1) != '/'); i++ {
				}
				i++
			}
		}
	}
}

func (r *rewriter) comment() {
	c := r.c
	c.CopyAndAdvance(2)
	c.ConsumeWhile(func(c *Cursor) bool {
		return c.Current() != '*' || c.At(1) != '/'
	})
	c.CopyAndAdvance(2)

	switch r.state {
	case StateRoot:
		r.afterBlock(r.s.AfterComment)
	case StateRuleProperty:
		r.afterDeclaration()
	}
}

// afterBlock separates a closed rule, a block-less at-rule or a top-level
// comment from what follows. Before the "}" of an enclosing at-rule only a
// line break and the outer indentation are emitted.
func (r *rewriter) afterBlock(sep string) {
	switch next := r.skipSpace(); {
	case next == EOF:
	case next == '}' && r.depth > 0:
		r.newline(r.s.AfterDeclaration, r.depth-1)
	default:
		r.newline(sep, r.depth)
	}
}

// afterDeclaration separates items inside a declaration block.
func (r *rewriter) afterDeclaration() {
	switch r.skipSpace() {
	case EOF:
	case '}':
		r.newline(r.s.AfterDeclaration, r.depth)
	default:
		r.newline(r.s.AfterDeclaration, r.depth+1)
	}
}

// newline appends sep, followed by level indents when sep ends a line.
func (r *rewriter) newline(sep string, level int) {
	r.c.Append(sep)
	if level > 0 && strings.HasSuffix(sep, "\n") {
		r.c.Append(strings.Repeat(r.s.Indent, level))
	}
}

func (r *rewriter) skipSpace() rune {
	r.c.SkipWhile(isSpace)
	return r.c.Current()
}

func (r *rewriter) lastIsSpace() bool {
	return unicode.IsSpace(r.c.Last())
}

// group copies a bracketed selector part. Whitespace runs collapse to one
// space and are dropped just inside the brackets and before commas; strings
// are copied untouched.
func (r *rewriter) group(open, closing rune) {
	c := r.c
	c.CopyAndAdvance(1)
	c.SkipWhile(isSpace)

	level := 1
	for !c.AtEnd() {
		switch ch := c.Current(); {
		case ch == '"' || ch == '\'':
			r.copyString()
		case unicode.IsSpace(ch):
			switch next := r.skipSpace(); next {
			case closing, ',', EOF:
			default:
				c.Append(" ")
			}
		case ch == open:
			level++
			c.CopyAndAdvance(1)
			c.SkipWhile(isSpace)
		case ch == closing:
			level--
			c.CopyAndAdvance(1)
			if level == 0 {
				return
			}
		case ch == '{' || ch == '}':
			return
		default:
			c.CopyAndAdvance(1)
		}
	}
}

func (r *rewriter) openParen() {
	c := r.c
	if r.atRawURL() {
		c.CopyAndAdvance(1)
		escaped := false
		c.ConsumeWhile(func(c *Cursor) bool {
			if escaped {
				escaped = false
				return true
			}
			escaped = c.Current() == '\\'
			return c.Current() != ')'
		})
		c.CopyAndAdvance(1)
		return
	}

	c.CopyAndAdvance(1)
	r.parens++
	switch r.skipSpace() {
	case ')', EOF:
	default:
		c.Append(r.s.ParenPadding)
	}
}

func (r *rewriter) closeParen() {
	c := r.c
	if c.Last() != '(' && !r.lastIsSpace() {
		c.Append(r.s.ParenPadding)
	}
	c.CopyAndAdvance(1)
	r.parens = max(r.parens-1, 0)
}

// atRawURL reports whether the current "(" opens an unquoted url() argument,
// which is copied byte for byte.
func (r *rewriter) atRawURL() bool {
	c := r.c
	if !strings.EqualFold(c.Peek(-3, false), "url") || isIdentRune(c.At(-4)) {
		return false
	}
	i := 1
	for unicode.IsSpace(c.At(i)) {
		i++
	}
	return c.At(i) != '"' && c.At(i) != '\''
}

// copyString copies a quoted string verbatim, quotes included.
func (r *rewriter) copyString() {
	c := r.c
	quote := c.Current()
	c.CopyAndAdvance(1)
	r.copyStringBody(quote)
	if c.Current() == quote {
		c.CopyAndAdvance(1)
	}
}

// copyStringBody copies up to, not including, the closing quote. An
// unterminated string ends at the line break.
func (r *rewriter) copyStringBody(quote rune) {
	escaped := false
	r.c.ConsumeWhile(func(c *Cursor) bool {
		if escaped {
			escaped = false
			return true
		}
		ch := c.Current()
		escaped = ch == '\\'
		return ch != quote && ch != '\n'
	})
}

// quoted rewrites a string to the preferred quote. The original quote is kept
// when the body contains the preferred one. @charset always takes double
// quotes.
func (r *rewriter) quoted() {
	c := r.c
	orig := c.Current()

	want := r.s.Quote.Rune()
	if r.state == StateAtStart && r.atName == "charset" {
		want = '"'
	}
	if want == 0 || want == orig {
		r.copyString()
		return
	}
	if contains, closed := r.scanStringBody(orig, want); contains || !closed {
		r.copyString()
		return
	}

	c.Append(string(want))
	c.Advance(1)
	r.copyStringBody(orig)
	if c.Current() == orig {
		c.Append(string(want))
		c.Advance(1)
	}
}

// scanStringBody looks ahead over the string starting at the cursor. It
// reports whether the body holds target and whether the string is closed
// before the end of its line.
func (r *rewriter) scanStringBody(quote, target rune) (contains, closed bool) {
	c := r.c
	for i := 1; ; i++ {
		switch ch := c.At(i); ch {
		case quote:
			return contains, true
		case '\n', EOF:
			return contains, false
		case target:
			contains = true
		case '\\':
			i++
			switch c.At(i) {
			case target:
				contains = true
			case EOF:
				return contains, false
			}
		}
	}
}

// hexColor normalizes #rgb and #rrggbb literals. Anything else after "#" is
// copied unchanged.
func (r *rewriter) hexColor() {
	c := r.c
	n := 0
	for n < 7 && isHexDigit(c.At(1+n)) {
		n++
	}
	if (n != 3 && n != 6) || isIdentRune(c.At(1+n)) {
		c.CopyAndAdvance(1)
		return
	}

	digits := c.Peek(n, false)
	c.Advance(1 + n)
	c.Append("#" + NormalizeHex(digits, r.s))
}

// atNumber reports whether a numeric token starts here: a digit, or "." then
// a digit, not preceded by an identifier character or digit (a sign is
// looked through).
func (r *rewriter) atNumber() bool {
	c := r.c
	ch := c.Current()
	if !isDigit(ch) && (ch != '.' || !isDigit(c.At(1))) {
		return false
	}

	prev := c.At(-1)
	if prev == '-' || prev == '+' {
		prev = c.At(-2)
	}
	return !isIdentRune(prev) && prev != '.'
}

func (r *rewriter) number() {
	c := r.c

	i := 0
	for isDigit(c.At(i)) {
		i++
	}
	intLen := i
	if c.At(i) == '.' && isDigit(c.At(i+1)) {
		i++
		for isDigit(c.At(i)) {
			i++
		}
	}
	numLen := i

	if c.At(i) == '%' {
		i++
	} else {
		for isIdentRune(c.At(i)) {
			i++
		}
	}

	// A unit glued to more unit-like text stays, or the next pass would read
	// a different token.
	keepUnit := r.parens > 0
	if next := c.At(i); next == '%' || next == '.' || isIdentRune(next) {
		keepUnit = true
	}

	token := c.Peek(i, true)
	c.Advance(i)
	c.Append(NormalizeNumber(token[:intLen], token[intLen:numLen], token[numLen:], keepUnit, r.s))
}
