package pretty

import (
	"fmt"
	"strings"

	"github.com/yaklabco/cssbeautify/pkg/runner"
)

func plural(n int, word string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, word)
	}
	return fmt.Sprintf("%d %ss", n, word)
}

// FormatSummaryOneLine formats run statistics as a single line.
// Example: "2 files reformatted, 5 files unchanged, 1 file skipped".
// write selects past tense ("reformatted") over conditional ("would be
// reformatted").
func (s *Styles) FormatSummaryOneLine(stats runner.Stats, write bool) string {
	if stats.FilesDiscovered == 0 {
		return s.Dim.Render("No stylesheets found") + "\n"
	}

	unchanged := stats.FilesProcessed - stats.FilesChanged - stats.FilesSkipped

	var parts []string
	if stats.FilesChanged > 0 {
		verb := "would be reformatted"
		if write {
			verb = "reformatted"
		}
		parts = append(parts, s.Changed.Render(plural(stats.FilesChanged, "file")+" "+verb))
	}
	if unchanged > 0 {
		word := "already formatted"
		if write {
			word = "unchanged"
		}
		parts = append(parts, s.Unchanged.Render(plural(unchanged, "file")+" "+word))
	}
	if stats.FilesSkipped > 0 {
		parts = append(parts, s.Warning.Render(plural(stats.FilesSkipped, "file")+" skipped"))
	}
	if stats.FilesErrored > 0 {
		parts = append(parts, s.Error.Render(plural(stats.FilesErrored, "error")))
	}

	line := strings.Join(parts, ", ")
	if stats.FilesChanged == 0 && stats.FilesSkipped == 0 && stats.FilesErrored == 0 {
		line = s.Success.Render("All stylesheets formatted") + s.Dim.Render(fmt.Sprintf(" (%s checked)", plural(stats.FilesProcessed, "file")))
	}
	return line + "\n"
}

// FormatDiffStat formats a git-style stat line.
// Example: "2 files changed, 10 insertions(+), 3 deletions(-)".
func (s *Styles) FormatDiffStat(files, insertions, deletions int) string {
	parts := []string{plural(files, "file") + " changed"}
	if insertions > 0 {
		parts = append(parts, s.DiffAdd.Render(plural(insertions, "insertion")+"(+)"))
	}
	if deletions > 0 {
		parts = append(parts, s.DiffRemove.Render(plural(deletions, "deletion")+"(-)"))
	}
	return strings.Join(parts, ", ") + "\n"
}
