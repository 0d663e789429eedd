package pretty

import (
	"fmt"

	"github.com/yaklabco/cssbeautify/pkg/runner"
)

// FormatOutcome formats one file's outcome as "path: status". Unchanged
// files return "" unless verbose is set.
func (s *Styles) FormatOutcome(displayPath string, outcome runner.FileOutcome, verbose bool) string {
	path := s.FilePath.Render(displayPath)

	if outcome.Error != nil {
		return fmt.Sprintf("%s: %s\n", path, s.Error.Render(fmt.Sprintf("error: %v", outcome.Error)))
	}

	res := outcome.Result
	if res == nil {
		return ""
	}

	switch {
	case res.Skipped:
		line := fmt.Sprintf("%s: %s", path, s.Warning.Render(res.Summary()))
		if res.VerifyErr != nil {
			line += s.Dim.Render(fmt.Sprintf(" (%v)", res.VerifyErr))
		}
		return line + "\n"
	case res.Changed:
		return fmt.Sprintf("%s: %s\n", path, s.Changed.Render(res.Summary()))
	case verbose:
		return fmt.Sprintf("%s: %s\n", path, s.Unchanged.Render(res.Summary()))
	default:
		return ""
	}
}
