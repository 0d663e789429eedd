package beautify

import (
	"errors"
	"fmt"
	"strings"
)

// QuoteStyle selects the quote character used for rewritten strings.
type QuoteStyle string

const (
	QuoteDouble   QuoteStyle = "double"
	QuoteSingle   QuoteStyle = "single"
	QuotePreserve QuoteStyle = "preserve"
)

// Rune returns the quote character for the style, or 0 for QuotePreserve.
func (q QuoteStyle) Rune() rune {
	switch q {
	case QuoteDouble:
		return '"'
	case QuoteSingle:
		return '\''
	default:
		return 0
	}
}

// IsValid reports whether q is a known quote style.
func (q QuoteStyle) IsValid() bool {
	switch q {
	case QuoteDouble, QuoteSingle, QuotePreserve:
		return true
	default:
		return false
	}
}

// Settings is the immutable formatting configuration consumed by every rule.
// Spacing fields hold literal text; when a spacing string ends in a newline
// the current indentation is appended after it.
type Settings struct {
	// Indent is one level of indentation.
	Indent string

	// AfterSelector separates a selector or at-rule preamble from its "{".
	AfterSelector string

	// AfterSelectorComma follows each comma in a selector list.
	AfterSelectorComma string

	// AfterDeclaration follows "{" and each declaration inside a block.
	AfterDeclaration string

	// AfterRule follows a closing "}" and a block-less at-rule.
	AfterRule string

	// AfterComment follows a comment between rules.
	AfterComment string

	// AfterValueComma follows each comma inside a declaration value.
	AfterValueComma string

	// Combinator surrounds ">", "+" and "~" in selectors.
	Combinator string

	// ParenPadding is placed just inside parentheses in values and preambles.
	ParenPadding string

	// Quote is the preferred string quote.
	Quote QuoteStyle

	// ShortenHex collapses #aabbcc to #abc.
	ShortenHex bool

	// LowercaseHex lowercases hex color digits.
	LowercaseHex bool

	// RemoveLeadingZero turns 0.5 into .5.
	RemoveLeadingZero bool

	// RemoveZeroUnits turns 0px into 0.
	RemoveZeroUnits bool

	// AddLastSemicolon terminates the last declaration of a block.
	AddLastSemicolon bool
}

// DefaultSettings returns the canonical layout.
func DefaultSettings() Settings {
	return Settings{
		Indent:             "    ",
		AfterSelector:      " ",
		AfterSelectorComma: "\n",
		AfterDeclaration:   "\n",
		AfterRule:          "\n\n",
		AfterComment:       "\n",
		AfterValueComma:    " ",
		Combinator:         " ",
		ParenPadding:       "",
		Quote:              QuoteDouble,
		ShortenHex:         true,
		LowercaseHex:       true,
		RemoveLeadingZero:  true,
		RemoveZeroUnits:    true,
		AddLastSemicolon:   true,
	}
}

// ErrInvalidSettings is wrapped by every error returned from Validate.
var ErrInvalidSettings = errors.New("invalid settings")

// Validate checks that spacing fields hold only whitespace and that the quote
// style is known. The rewriter itself accepts any Settings value.
func (s Settings) Validate() error {
	var errs []error

	spacing := []struct {
		name  string
		value string
	}{
		{"indent", s.Indent},
		{"after_selector", s.AfterSelector},
		{"after_selector_comma", s.AfterSelectorComma},
		{"after_declaration", s.AfterDeclaration},
		{"after_rule", s.AfterRule},
		{"after_comment", s.AfterComment},
		{"after_value_comma", s.AfterValueComma},
		{"combinator", s.Combinator},
		{"paren_padding", s.ParenPadding},
	}
	for _, field := range spacing {
		if strings.TrimSpace(field.value) != "" {
			errs = append(errs, fmt.Errorf("%w: %s must contain only whitespace, got %q",
				ErrInvalidSettings, field.name, field.value))
		}
	}

	if !s.Quote.IsValid() {
		errs = append(errs, fmt.Errorf("%w: quote must be one of double, single, preserve, got %q",
			ErrInvalidSettings, s.Quote))
	}

	return errors.Join(errs...)
}

// zeroUnits are the length and angle units dropped from zero values.
//
//nolint:gochecknoglobals // Read-only lookup table.
var zeroUnits = map[string]bool{
	"em": true, "ex": true, "%": true, "px": true, "cm": true, "mm": true,
	"in": true, "pt": true, "pc": true, "ch": true, "rem": true, "vh": true,
	"vw": true, "vmin": true, "vmax": true,
}

// IsZeroUnit reports whether unit is dropped from zero values when
// RemoveZeroUnits is set. The comparison is case-insensitive.
func IsZeroUnit(unit string) bool {
	return zeroUnits[strings.ToLower(unit)]
}
