// Package verify checks that a reformatted stylesheet still says the same
// thing as its source.
//
// Both texts are tokenized with the tdewolff CSS lexer. Whitespace tokens are
// dropped and the remaining tokens are compared after canonicalization, so
// the differences a beautifier is allowed to introduce (layout, quote style,
// hex color case and length, leading zeros, zero units and a trailing
// semicolon) compare equal while any other change is reported.
package verify

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	parse "github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/css"

	"github.com/yaklabco/cssbeautify/pkg/beautify"
)

// ErrContentChanged is matched by every *MismatchError.
var ErrContentChanged = errors.New("formatting changed stylesheet content")

// MismatchError describes the first significant token that differs.
type MismatchError struct {
	// Index is the position in the significant token stream.
	Index int

	// Original and Formatted are the raw tokens, or "<EOF>" when one stream
	// ended early.
	Original  string
	Formatted string
}

func (e *MismatchError) Error() string {
	return fmt.Sprintf("%s: token %d: %q became %q", ErrContentChanged, e.Index, e.Original, e.Formatted)
}

func (e *MismatchError) Unwrap() error {
	return ErrContentChanged
}

const eofToken = "<EOF>"

// Token is a significant lexer token with its canonical form.
type Token struct {
	Type      css.TokenType
	Raw       string
	Canonical string
}

// Tokens returns the significant tokens of src.
func Tokens(src string) []Token {
	lexer := css.NewLexer(parse.NewInputString(src))

	var tokens []Token
	for {
		tt, data := lexer.Next()
		if tt == css.ErrorToken {
			break
		}
		if tt == css.WhitespaceToken {
			continue
		}

		raw := string(data)
		tokens = append(tokens, Token{Type: tt, Raw: raw, Canonical: canonical(tt, raw)})
	}

	return dropTrailingSemicolons(tokens)
}

// Equivalent checks original against formatted and returns a *MismatchError
// for the first significant difference.
func Equivalent(original, formatted string) error {
	want := Tokens(original)
	got := Tokens(formatted)

	for i := range max(len(want), len(got)) {
		wantTok := Token{Raw: eofToken, Canonical: eofToken}
		gotTok := wantTok
		if i < len(want) {
			wantTok = want[i]
		}
		if i < len(got) {
			gotTok = got[i]
		}

		if wantTok.Canonical != gotTok.Canonical {
			return &MismatchError{Index: i, Original: wantTok.Raw, Formatted: gotTok.Raw}
		}
	}

	return nil
}

func canonical(tt css.TokenType, raw string) string {
	switch tt {
	case css.StringToken:
		return "string:" + unquote(raw)
	case css.URLToken:
		return "url:" + urlBody(raw)
	case css.HashToken:
		return "hash:" + expandHex(strings.ToLower(raw[1:]))
	case css.NumberToken, css.PercentageToken, css.DimensionToken:
		return "number:" + canonicalNumber(raw)
	default:
		return raw
	}
}

func unquote(raw string) string {
	if len(raw) >= 2 && raw[len(raw)-1] == raw[0] {
		return raw[1 : len(raw)-1]
	}
	return raw[1:]
}

// urlBody returns the argument of a url() token without its padding and
// quotes, so url('x'), url( "x" ) and url(x) compare equal.
func urlBody(raw string) string {
	open := strings.IndexByte(raw, '(')
	if open < 0 {
		return raw
	}
	body := strings.TrimSpace(strings.TrimSuffix(raw[open+1:], ")"))
	if body != "" && (body[0] == '"' || body[0] == '\'') {
		return unquote(body)
	}
	return body
}

// expandHex turns a 3-digit color into its 6-digit form so that #abc and
// #aabbcc compare equal.
func expandHex(h string) string {
	if len(h) != 3 {
		return h
	}
	for i := range len(h) {
		if !strings.ContainsRune("0123456789abcdef", rune(h[i])) {
			return h
		}
	}
	return string([]byte{h[0], h[0], h[1], h[1], h[2], h[2]})
}

func canonicalNumber(raw string) string {
	i := 0
	if i < len(raw) && (raw[i] == '+' || raw[i] == '-') {
		i++
	}
	for i < len(raw) && (raw[i] >= '0' && raw[i] <= '9' || raw[i] == '.') {
		i++
	}
	num, unit := raw[:i], raw[i:]

	value, err := strconv.ParseFloat(num, 64)
	if err != nil {
		return raw
	}
	if value == 0 && beautify.IsZeroUnit(unit) {
		unit = ""
	}
	return strconv.FormatFloat(value, 'g', -1, 64) + unit
}

// dropTrailingSemicolons removes a ";" that directly precedes "}", which
// the beautifier is free to add.
func dropTrailingSemicolons(tokens []Token) []Token {
	out := tokens[:0]
	for i, tok := range tokens {
		if tok.Type == css.SemicolonToken && i+1 < len(tokens) && tokens[i+1].Type == css.RightBraceToken {
			continue
		}
		out = append(out, tok)
	}
	return out
}
