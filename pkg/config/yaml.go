package config

import (
	"bytes"
	"fmt"

	"gopkg.in/yaml.v3"
)

// yamlIndent is the indentation used when writing configuration files.
const yamlIndent = 2

// ToYAML serializes the persistent part of the configuration.
func (c *Config) ToYAML() ([]byte, error) {
	if c == nil {
		return nil, nil
	}

	var buf bytes.Buffer
	encoder := yaml.NewEncoder(&buf)
	encoder.SetIndent(yamlIndent)

	if err := encoder.Encode(c); err != nil {
		return nil, fmt.Errorf("encode config: %w", err)
	}
	if err := encoder.Close(); err != nil {
		return nil, fmt.Errorf("close encoder: %w", err)
	}

	return buf.Bytes(), nil
}

// FromYAML parses a configuration. Unknown keys are ignored; fields that are
// absent stay unset so the result can be merged over other layers.
func FromYAML(data []byte) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse yaml: %w", err)
	}
	return cfg, nil
}

// Clone returns a deep copy of c, including CLI-only fields.
func (c *Config) Clone() *Config {
	if c == nil {
		return nil
	}

	clone := *c
	clone.Format = c.Format.clone()
	clone.Extensions = cloneStrings(c.Extensions)
	clone.Ignore = cloneStrings(c.Ignore)
	clone.Backups.Enabled = cloneBool(c.Backups.Enabled)
	clone.Verify = cloneBool(c.Verify)
	return &clone
}

func (f FormatConfig) clone() FormatConfig {
	return FormatConfig{
		Indent:             cloneString(f.Indent),
		AfterSelector:      cloneString(f.AfterSelector),
		AfterSelectorComma: cloneString(f.AfterSelectorComma),
		AfterDeclaration:   cloneString(f.AfterDeclaration),
		AfterRule:          cloneString(f.AfterRule),
		AfterComment:       cloneString(f.AfterComment),
		AfterValueComma:    cloneString(f.AfterValueComma),
		Combinator:         cloneString(f.Combinator),
		ParenPadding:       cloneString(f.ParenPadding),
		Quote:              cloneString(f.Quote),
		ShortenHex:         cloneBool(f.ShortenHex),
		LowercaseHex:       cloneBool(f.LowercaseHex),
		RemoveLeadingZero:  cloneBool(f.RemoveLeadingZero),
		RemoveZeroUnits:    cloneBool(f.RemoveZeroUnits),
		AddLastSemicolon:   cloneBool(f.AddLastSemicolon),
	}
}

func cloneStrings(s []string) []string {
	if s == nil {
		return nil
	}
	return append([]string(nil), s...)
}

func cloneString(p *string) *string {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func cloneBool(p *bool) *bool {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
