package reporter

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"

	"github.com/yaklabco/cssbeautify/pkg/runner"
)

// jsonSchemaVersion is bumped when the JSON layout changes incompatibly.
const jsonSchemaVersion = "1.0.0"

// JSONOutput is the top-level JSON structure.
type JSONOutput struct {
	Version string           `json:"version"`
	Files   []JSONFileResult `json:"files"`
	Summary JSONSummary      `json:"summary"`
}

// JSONFileResult represents a single file's outcome.
type JSONFileResult struct {
	Path       string     `json:"path"`
	Status     string     `json:"status"`
	Changed    bool       `json:"changed"`
	Written    bool       `json:"written,omitempty"`
	Backup     bool       `json:"backup,omitempty"`
	SkipReason string     `json:"skipReason,omitempty"`
	Error      string     `json:"error,omitempty"`
	Stats      *JSONStats `json:"stats,omitempty"`
	Diff       string     `json:"diff,omitempty"`
}

// JSONStats mirrors the engine statistics of one file.
type JSONStats struct {
	InputLength  int `json:"inputLength"`
	OutputLength int `json:"outputLength"`
	Steps        int `json:"steps"`
	Transitions  int `json:"transitions"`
	MaxDepth     int `json:"maxDepth"`
}

// JSONSummary contains aggregate statistics.
type JSONSummary struct {
	FilesChecked int `json:"filesChecked"`
	FilesChanged int `json:"filesChanged"`
	FilesWritten int `json:"filesWritten"`
	FilesSkipped int `json:"filesSkipped"`
	FilesErrored int `json:"filesErrored"`
}

// JSONReporter formats results as JSON.
type JSONReporter struct {
	opts Options
	bw   *bufio.Writer
}

// NewJSONReporter creates a new JSON reporter.
func NewJSONReporter(opts Options) *JSONReporter {
	return &JSONReporter{
		opts: opts,
		bw:   bufio.NewWriterSize(opts.Writer, bufWriterSize),
	}
}

// Report implements Reporter.
func (r *JSONReporter) Report(_ context.Context, result *runner.Result) (_ int, err error) {
	defer func() {
		if flushErr := r.bw.Flush(); err == nil {
			err = flushErr
		}
	}()

	output := r.buildOutput(result)

	encoder := json.NewEncoder(r.bw)
	if !r.opts.Compact {
		encoder.SetIndent("", "  ")
	}

	if err := encoder.Encode(output); err != nil {
		return 0, fmt.Errorf("encode JSON: %w", err)
	}

	return output.Summary.FilesChanged, nil
}

func (r *JSONReporter) buildOutput(result *runner.Result) *JSONOutput {
	output := &JSONOutput{
		Version: jsonSchemaVersion,
		Files:   make([]JSONFileResult, 0),
	}
	if result == nil {
		return output
	}

	output.Summary = JSONSummary{
		FilesChecked: result.Stats.FilesProcessed,
		FilesChanged: result.Stats.FilesChanged,
		FilesWritten: result.Stats.FilesWritten,
		FilesSkipped: result.Stats.FilesSkipped,
		FilesErrored: result.Stats.FilesErrored,
	}

	for _, file := range result.Files {
		entry := JSONFileResult{Path: r.opts.displayPath(file.Path)}

		if file.Error != nil {
			entry.Status = "error"
			entry.Error = file.Error.Error()
			output.Files = append(output.Files, entry)
			continue
		}

		res := file.Result
		if res == nil {
			continue
		}

		entry.Changed = res.Changed
		entry.Written = res.Written
		entry.Backup = res.BackupCreated
		entry.Stats = &JSONStats{
			InputLength:  res.Stats.InputLen,
			OutputLength: res.Stats.OutputLen,
			Steps:        res.Stats.Steps,
			Transitions:  res.Stats.Transitions,
			MaxDepth:     res.Stats.MaxDepth,
		}
		if res.Diff.HasChanges() {
			entry.Diff = res.Diff.String()
		}

		switch {
		case res.Skipped:
			entry.Status = "skipped"
			entry.SkipReason = res.SkipReason
			if res.VerifyErr != nil {
				entry.SkipReason += ": " + res.VerifyErr.Error()
			}
		case res.Written:
			entry.Status = "formatted"
		case res.Changed:
			entry.Status = "changed"
		default:
			entry.Status = "unchanged"
		}

		output.Files = append(output.Files, entry)
	}

	return output
}
