package reporter

import (
	"io"
	"os"
	"path/filepath"
	"strings"
)

// bufWriterSize is the buffer size for buffered output writers (64 KiB).
const bufWriterSize = 64 * 1024

// Options configures reporter behavior.
type Options struct {
	// Writer is the destination for output (typically os.Stdout).
	Writer io.Writer

	// Format specifies the output format.
	Format Format

	// Color controls colorized output.
	// Values: "auto" (default), "always", "never"
	Color string

	// Write reports outcomes in the past tense, for runs that rewrote files.
	Write bool

	// Verbose lists unchanged files as well.
	Verbose bool

	// ShowSummary displays aggregate statistics after results.
	ShowSummary bool

	// Compact disables JSON indentation.
	Compact bool

	// WorkingDir is the directory to make paths relative to.
	// If empty, paths are kept as-is (typically absolute).
	WorkingDir string
}

// DefaultOptions returns Options with sensible defaults.
func DefaultOptions() Options {
	return Options{
		Writer:      os.Stdout,
		Format:      FormatText,
		Color:       "auto",
		ShowSummary: true,
	}
}

// displayPath makes path relative to WorkingDir when that does not climb
// out of it by more than two levels.
func (o Options) displayPath(path string) string {
	if o.WorkingDir == "" || !filepath.IsAbs(path) {
		return filepath.ToSlash(path)
	}
	rel, err := filepath.Rel(o.WorkingDir, path)
	if err != nil || strings.Count(rel, "..") > 2 {
		return filepath.ToSlash(path)
	}
	return filepath.ToSlash(rel)
}
