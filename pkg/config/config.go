// Package config defines the cssbeautify configuration types. They are plain
// data with YAML tags; discovery and merging live in internal/configloader.
package config

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/yaklabco/cssbeautify/pkg/beautify"
)

// OutputFormat selects how run results are reported.
type OutputFormat string

const (
	FormatText OutputFormat = "text"
	FormatJSON OutputFormat = "json"
	FormatDiff OutputFormat = "diff"
)

// IsValid reports whether f is a known output format.
func (f OutputFormat) IsValid() bool {
	switch f {
	case FormatText, FormatJSON, FormatDiff:
		return true
	default:
		return false
	}
}

// FormatConfig is a partial override of beautify.Settings. A nil field keeps
// the default.
type FormatConfig struct {
	// Indent is a literal indent string, a number of spaces ("2") or "tab".
	Indent *string `yaml:"indent,omitempty"`

	AfterSelector      *string `yaml:"after_selector,omitempty"`
	AfterSelectorComma *string `yaml:"after_selector_comma,omitempty"`
	AfterDeclaration   *string `yaml:"after_declaration,omitempty"`
	AfterRule          *string `yaml:"after_rule,omitempty"`
	AfterComment       *string `yaml:"after_comment,omitempty"`
	AfterValueComma    *string `yaml:"after_value_comma,omitempty"`
	Combinator         *string `yaml:"combinator,omitempty"`
	ParenPadding       *string `yaml:"paren_padding,omitempty"`

	// Quote is "double", "single" or "preserve".
	Quote *string `yaml:"quote,omitempty"`

	ShortenHex        *bool `yaml:"shorten_hex,omitempty"`
	LowercaseHex      *bool `yaml:"lowercase_hex,omitempty"`
	RemoveLeadingZero *bool `yaml:"remove_leading_zero,omitempty"`
	RemoveZeroUnits   *bool `yaml:"remove_zero_units,omitempty"`
	AddLastSemicolon  *bool `yaml:"add_last_semicolon,omitempty"`
}

// BackupsConfig controls sidecar backups when files are rewritten.
type BackupsConfig struct {
	Enabled *bool  `yaml:"enabled,omitempty"`
	Suffix  string `yaml:"suffix,omitempty"`
}

// Config is the root configuration.
type Config struct {
	// Format overrides the formatting settings.
	Format FormatConfig `yaml:"format,omitempty"`

	// Extensions lists the file extensions picked up from directories.
	Extensions []string `yaml:"extensions,omitempty"`

	// Ignore holds glob patterns for files and directories to skip.
	Ignore []string `yaml:"ignore,omitempty"`

	// Backups configures backups taken before writing.
	Backups BackupsConfig `yaml:"backups,omitempty"`

	// Verify re-tokenizes formatted output and refuses changes that alter
	// the stylesheet's content. Defaults to true.
	Verify *bool `yaml:"verify,omitempty"`

	// CLI-level options (not persisted to config files).

	// Write rewrites files in place.
	Write bool `yaml:"-"`

	// Check reports unformatted files without writing them.
	Check bool `yaml:"-"`

	// Diff prints a unified diff for every changed file.
	Diff bool `yaml:"-"`

	// Output selects the report format.
	Output OutputFormat `yaml:"-"`

	// Jobs is the number of parallel workers; 0 means one per CPU.
	Jobs int `yaml:"-"`

	// NoBackups disables backups regardless of Backups.Enabled.
	NoBackups bool `yaml:"-"`

	// NoVerify disables verification regardless of Verify.
	NoVerify bool `yaml:"-"`
}

// DefaultExtensions are the extensions formatted when none are configured.
//
//nolint:gochecknoglobals // Read-only default.
var DefaultExtensions = []string{".css"}

// NewConfig returns a Config holding the defaults.
func NewConfig() *Config {
	return &Config{
		Extensions: append([]string(nil), DefaultExtensions...),
		Backups: BackupsConfig{
			Enabled: boolPtr(true),
		},
		Verify: boolPtr(true),
		Output: FormatText,
	}
}

// BackupsEnabled reports whether backups should be taken.
func (c *Config) BackupsEnabled() bool {
	return !c.NoBackups && c.Backups.Enabled != nil && *c.Backups.Enabled
}

// VerifyEnabled reports whether formatted output should be verified.
func (c *Config) VerifyEnabled() bool {
	return !c.NoVerify && (c.Verify == nil || *c.Verify)
}

// ResolveSettings applies the format overrides to beautify.DefaultSettings.
func (c *Config) ResolveSettings() (beautify.Settings, error) {
	s := beautify.DefaultSettings()
	f := c.Format

	if f.Indent != nil {
		indent, err := ParseIndent(*f.Indent)
		if err != nil {
			return s, err
		}
		s.Indent = indent
	}

	setString(&s.AfterSelector, f.AfterSelector)
	setString(&s.AfterSelectorComma, f.AfterSelectorComma)
	setString(&s.AfterDeclaration, f.AfterDeclaration)
	setString(&s.AfterRule, f.AfterRule)
	setString(&s.AfterComment, f.AfterComment)
	setString(&s.AfterValueComma, f.AfterValueComma)
	setString(&s.Combinator, f.Combinator)
	setString(&s.ParenPadding, f.ParenPadding)

	if f.Quote != nil {
		s.Quote = beautify.QuoteStyle(strings.ToLower(*f.Quote))
	}

	setBool(&s.ShortenHex, f.ShortenHex)
	setBool(&s.LowercaseHex, f.LowercaseHex)
	setBool(&s.RemoveLeadingZero, f.RemoveLeadingZero)
	setBool(&s.RemoveZeroUnits, f.RemoveZeroUnits)
	setBool(&s.AddLastSemicolon, f.AddLastSemicolon)

	if err := s.Validate(); err != nil {
		return s, err
	}
	return s, nil
}

// ParseIndent interprets an indent setting: "tab", a count of spaces, or a
// literal whitespace string.
func ParseIndent(value string) (string, error) {
	switch strings.ToLower(value) {
	case "tab", "tabs", `\t`:
		return "\t", nil
	}

	if n, err := strconv.Atoi(value); err == nil {
		if n < 0 || n > 16 {
			return "", fmt.Errorf("%w: indent must be between 0 and 16 spaces, got %d", beautify.ErrInvalidSettings, n)
		}
		return strings.Repeat(" ", n), nil
	}

	if strings.TrimSpace(value) != "" {
		return "", fmt.Errorf("%w: indent must be a number, \"tab\" or whitespace, got %q",
			beautify.ErrInvalidSettings, value)
	}
	return value, nil
}

func setString(dst *string, src *string) {
	if src != nil {
		*dst = *src
	}
}

func setBool(dst *bool, src *bool) {
	if src != nil {
		*dst = *src
	}
}

func boolPtr(b bool) *bool {
	return &b
}
