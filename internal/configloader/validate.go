package configloader

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/yaklabco/cssbeautify/pkg/config"
)

// ValidationError represents a configuration validation error.
type ValidationError struct {
	// Field is the path to the invalid field (e.g., "format.quote").
	Field string

	// Value is the invalid value.
	Value any

	// Message describes the validation error.
	Message string

	// FilePath is the config file containing the error (if known).
	FilePath string

	// Line is the line number in the config file (if known).
	Line int
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	var parts []string

	if e.FilePath != "" {
		if e.Line > 0 {
			parts = append(parts, fmt.Sprintf("%s:%d", e.FilePath, e.Line))
		} else {
			parts = append(parts, e.FilePath)
		}
	}

	if e.Field != "" {
		parts = append(parts, e.Field)
	}

	parts = append(parts, e.Message)

	return strings.Join(parts, ": ")
}

// ValidationResult contains all validation findings.
type ValidationResult struct {
	// Errors are validation failures that prevent loading.
	Errors []ValidationError

	// Warnings are non-fatal issues.
	Warnings []ValidationError
}

// Valid returns true if there are no errors.
func (r *ValidationResult) Valid() bool {
	return len(r.Errors) == 0
}

// HasWarnings returns true if there are any warnings.
func (r *ValidationResult) HasWarnings() bool {
	return len(r.Warnings) > 0
}

// AllMessages returns all error and warning messages combined.
func (r *ValidationResult) AllMessages() []string {
	messages := make([]string, 0, len(r.Errors)+len(r.Warnings))
	for _, e := range r.Errors {
		messages = append(messages, "error: "+e.Error())
	}
	for _, w := range r.Warnings {
		messages = append(messages, "warning: "+w.Error())
	}
	return messages
}

// Validate checks a configuration for errors and warnings.
func Validate(cfg *config.Config) *ValidationResult {
	result := &ValidationResult{}
	if cfg == nil {
		return result
	}

	if cfg.Output != "" && !cfg.Output.IsValid() {
		result.Errors = append(result.Errors, ValidationError{
			Field:   "output",
			Value:   cfg.Output,
			Message: fmt.Sprintf("invalid output format %q; must be one of: text, json, diff", cfg.Output),
		})
	}

	if cfg.Jobs < 0 {
		result.Errors = append(result.Errors, ValidationError{
			Field:   "jobs",
			Value:   cfg.Jobs,
			Message: "jobs must be >= 0 (0 means auto)",
		})
	}

	if cfg.Write && cfg.Check {
		result.Errors = append(result.Errors, ValidationError{
			Field:   "write",
			Value:   true,
			Message: "write and check are mutually exclusive",
		})
	}

	if strings.ContainsAny(cfg.Backups.Suffix, `/\`) {
		result.Errors = append(result.Errors, ValidationError{
			Field:   "backups.suffix",
			Value:   cfg.Backups.Suffix,
			Message: "backup suffix must not contain a path separator",
		})
	}

	if _, err := cfg.ResolveSettings(); err != nil {
		result.Errors = append(result.Errors, ValidationError{
			Field:   "format",
			Value:   cfg.Format,
			Message: err.Error(),
		})
	}

	validateExtensions(cfg, result)
	validateIgnorePatterns(cfg, result)

	return result
}

func validateExtensions(cfg *config.Config, result *ValidationResult) {
	for i, ext := range cfg.Extensions {
		field := fmt.Sprintf("extensions[%d]", i)
		switch {
		case ext == "" || ext == ".":
			result.Errors = append(result.Errors, ValidationError{
				Field:   field,
				Value:   ext,
				Message: "extension must not be empty",
			})
		case !strings.HasPrefix(ext, "."):
			result.Warnings = append(result.Warnings, ValidationError{
				Field:   field,
				Value:   ext,
				Message: fmt.Sprintf("extension %q has no leading dot; it is matched as %q", ext, "."+ext),
			})
		}
	}
}

// validateIgnorePatterns checks that ignore patterns are valid globs.
func validateIgnorePatterns(cfg *config.Config, result *ValidationResult) {
	for i, pattern := range cfg.Ignore {
		// filepath.Match returns an error only for malformed patterns
		if _, err := filepath.Match(pattern, ""); err != nil {
			result.Errors = append(result.Errors, ValidationError{
				Field:   fmt.Sprintf("ignore[%d]", i),
				Value:   pattern,
				Message: fmt.Sprintf("invalid glob pattern: %v", err),
			})
		}
	}
}

// ValidateWithFile validates configuration and includes file path in errors.
func ValidateWithFile(cfg *config.Config, filePath string) *ValidationResult {
	result := Validate(cfg)

	for i := range result.Errors {
		result.Errors[i].FilePath = filePath
	}
	for i := range result.Warnings {
		result.Warnings[i].FilePath = filePath
	}

	return result
}

// IsValidFormat returns true if the output format is valid.
func IsValidFormat(f config.OutputFormat) bool {
	return f.IsValid()
}
