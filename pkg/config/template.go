package config

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/yaklabco/cssbeautify/pkg/beautify"
)

// commentWrapWidth is the maximum width for wrapped comments in templates.
const commentWrapWidth = 70

// TemplateOptions controls configuration template generation.
type TemplateOptions struct {
	// Full writes every format setting with its default value. Otherwise
	// only a commented skeleton is produced.
	Full bool
}

type templateField struct {
	key   string
	doc   string
	value string
}

// formatFields documents the keys of the format section, with their defaults.
func formatFields() []templateField {
	d := beautify.DefaultSettings()
	str := strconv.Quote
	b := strconv.FormatBool

	return []templateField{
		{"indent", "One level of indentation: a number of spaces, \"tab\", or a literal whitespace string.",
			str(strconv.Itoa(len(d.Indent)))},
		{"after_selector", "Placed between a selector or at-rule preamble and its opening brace.", str(d.AfterSelector)},
		{"after_selector_comma", "Placed after each comma in a selector list.", str(d.AfterSelectorComma)},
		{"after_declaration", "Placed after an opening brace and after each declaration.", str(d.AfterDeclaration)},
		{"after_rule", "Placed after a closing brace and after at-rules without a block.", str(d.AfterRule)},
		{"after_comment", "Placed after a comment between rules.", str(d.AfterComment)},
		{"after_value_comma", "Placed after each comma inside a declaration value.", str(d.AfterValueComma)},
		{"combinator", "Placed on both sides of the >, + and ~ selector combinators.", str(d.Combinator)},
		{"paren_padding", "Placed just inside parentheses in values and at-rule preambles.", str(d.ParenPadding)},
		{"quote", "String quote style: double, single or preserve. @charset always uses double quotes.",
			string(d.Quote)},
		{"shorten_hex", "Collapse #aabbcc to #abc.", b(d.ShortenHex)},
		{"lowercase_hex", "Lowercase the digits of hex colors.", b(d.LowercaseHex)},
		{"remove_leading_zero", "Write 0.5em as .5em.", b(d.RemoveLeadingZero)},
		{"remove_zero_units", "Write 0px as 0 (outside of functions such as calc()).", b(d.RemoveZeroUnits)},
		{"add_last_semicolon", "Terminate the last declaration of every block with a semicolon.",
			b(d.AddLastSemicolon)},
	}
}

// GenerateTemplate returns the content of a new .cssbeautify.yml.
func GenerateTemplate(opts TemplateOptions) []byte {
	var buf bytes.Buffer

	buf.WriteString(DefaultTemplateHeader())
	buf.WriteString("\n\n")

	prefix := "# "
	if opts.Full {
		prefix = ""
	}

	buf.WriteString("# Formatting settings. Unset keys keep their defaults.\n")
	buf.WriteString(prefix + "format:\n")
	for _, field := range formatFields() {
		fmt.Fprintf(&buf, "%s  # %s\n", prefix, wrapComment(field.doc, commentWrapWidth, prefix+"  # "))
		fmt.Fprintf(&buf, "%s  %s: %s\n", prefix, field.key, field.value)
	}

	fmt.Fprintf(&buf, `
# File extensions formatted when a directory is given.
%sextensions:
%s  - ".css"

# Glob patterns for files and directories to skip (** is supported).
# ignore:
#   - "vendor/**"
#   - "**/*.min.css"

# Backups written next to each file before it is rewritten.
%sbackups:
%s  enabled: true
%s  suffix: %q

# Refuse to write output whose tokens differ from the input's.
%sverify: true
`, prefix, prefix, prefix, prefix, prefix, ".cssbeautify.bak", prefix)

	return buf.Bytes()
}

// wrapComment wraps text to maxWidth, continuing lines with cont.
func wrapComment(text string, maxWidth int, cont string) string {
	if len(text) <= maxWidth {
		return text
	}

	var lines []string
	line := ""
	for _, word := range strings.Fields(text) {
		switch {
		case line == "":
			line = word
		case len(line)+1+len(word) <= maxWidth:
			line += " " + word
		default:
			lines = append(lines, line)
			line = word
		}
	}
	if line != "" {
		lines = append(lines, line)
	}

	return strings.Join(lines, "\n"+cont)
}

// DefaultTemplateHeader returns the header comment of generated configs.
func DefaultTemplateHeader() string {
	return `# cssbeautify configuration
# Place this file at the root of your project as .cssbeautify.yml.`
}
