// Package format runs the beautifier over files and in-memory stylesheets
// with the safety steps needed to rewrite them in place: content
// verification, change detection, backups and atomic writes.
package format

import (
	"context"
	"errors"
	"fmt"
	"os"
	"unicode/utf8"

	"github.com/yaklabco/cssbeautify/internal/logging"
	"github.com/yaklabco/cssbeautify/pkg/beautify"
	"github.com/yaklabco/cssbeautify/pkg/config"
	"github.com/yaklabco/cssbeautify/pkg/diff"
	"github.com/yaklabco/cssbeautify/pkg/fsutil"
	"github.com/yaklabco/cssbeautify/pkg/verify"
)

// Pipeline error types for categorization.
var (
	// ErrFileNotFound indicates the file does not exist.
	ErrFileNotFound = errors.New("file not found")

	// ErrPermissionDenied indicates a permission error.
	ErrPermissionDenied = errors.New("permission denied")

	// ErrInvalidEncoding indicates the input is not valid UTF-8.
	ErrInvalidEncoding = errors.New("input is not valid UTF-8")

	// ErrWriteFailure indicates a write error.
	ErrWriteFailure = errors.New("write failure")
)

// Result is the outcome of formatting one stylesheet.
type Result struct {
	// Path is the file path that was processed ("-" for stdin).
	Path string

	// Snapshot is the file state before processing (nil for content).
	Snapshot *fsutil.Snapshot

	// Original is the input as read.
	Original []byte

	// Formatted is the beautified stylesheet. It ends in a newline unless
	// it is empty.
	Formatted []byte

	// Changed is true if Formatted differs from Original.
	Changed bool

	// Diff is the unified diff between Original and Formatted when
	// requested and Changed.
	Diff *diff.FileDiff

	// Stats are the engine statistics for this file.
	Stats beautify.Stats

	// Skipped is true if the file was left alone after formatting it.
	Skipped bool

	// SkipReason explains why the file was skipped.
	SkipReason string

	// VerifyErr is the verification failure that caused a skip, if any.
	VerifyErr error

	// BackupCreated is true if a backup was created for this file.
	BackupCreated bool

	// Written is true if the file was written to disk.
	Written bool
}

// Summary returns a human-readable summary of the result.
func (r *Result) Summary() string {
	switch {
	case r.Skipped:
		return "skipped: " + r.SkipReason
	case r.Written && r.BackupCreated:
		return "formatted (backup created)"
	case r.Written:
		return "formatted"
	case r.Changed:
		return "would reformat"
	default:
		return "unchanged"
	}
}

// Options controls pipeline behavior.
type Options struct {
	// Settings are the formatting settings.
	Settings beautify.Settings

	// Write rewrites changed files in place.
	Write bool

	// Diff computes a unified diff for changed files.
	Diff bool

	// Verify re-tokenizes the output and skips files whose content would
	// change.
	Verify bool

	// Backups configures backups taken before writing.
	Backups fsutil.Backups
}

// DefaultOptions returns read-only options with verification on.
func DefaultOptions() Options {
	return Options{
		Settings: beautify.DefaultSettings(),
		Verify:   true,
		Backups:  fsutil.Backups{Enabled: true},
	}
}

// OptionsFromConfig creates Options from a resolved config.Config.
func OptionsFromConfig(cfg *config.Config) (Options, error) {
	if cfg == nil {
		return DefaultOptions(), nil
	}

	settings, err := cfg.ResolveSettings()
	if err != nil {
		return Options{}, err
	}

	return Options{
		Settings: settings,
		Write:    cfg.Write,
		Diff:     cfg.Diff || cfg.Output == config.FormatDiff,
		Verify:   cfg.VerifyEnabled(),
		Backups: fsutil.Backups{
			Enabled: cfg.BackupsEnabled(),
			Suffix:  cfg.Backups.Suffix,
		},
	}, nil
}

// ProcessFile runs the full pipeline for a single file.
//
// The pipeline performs the following steps:
//  1. Read the file and snapshot its state.
//  2. Beautify the content.
//  3. Verify the output against the input (if enabled).
//  4. Compute a diff (if requested).
//  5. Replace the file, refusing if it changed since step 1 and taking a
//     backup first (if write is enabled).
func ProcessFile(ctx context.Context, path string, opts Options) (*Result, error) {
	content, snap, err := fsutil.Read(ctx, path)
	if err != nil {
		return nil, categorizeError(err)
	}

	result, err := ProcessContent(ctx, path, content, opts)
	if err != nil {
		return nil, err
	}
	result.Snapshot = snap

	if !opts.Write || !result.Changed || result.Skipped {
		return result, nil
	}

	backedUp, err := fsutil.Replace(ctx, snap, result.Formatted, opts.Backups)
	if errors.Is(err, fsutil.ErrChangedOnDisk) {
		result.Skipped = true
		result.SkipReason = "file modified during processing"
		return result, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrWriteFailure, err)
	}
	result.BackupCreated = backedUp
	result.Written = true

	logging.FromContext(ctx).Debug("wrote file",
		logging.FieldPath, path,
		"backup", backedUp,
	)

	return result, nil
}

// ProcessContent formats in-memory content without file I/O.
func ProcessContent(ctx context.Context, path string, content []byte, opts Options) (*Result, error) {
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("processing cancelled: %w", ctx.Err())
	default:
	}

	if !utf8.Valid(content) {
		return nil, fmt.Errorf("%w: %s", ErrInvalidEncoding, path)
	}

	logger := logging.FromContext(ctx)
	input := string(content)

	run := beautify.Run(input, opts.Settings, newLogTracer(logger, path))
	formatted := run.Output
	if formatted != "" {
		formatted += "\n"
	}

	result := &Result{
		Path:      path,
		Original:  content,
		Formatted: []byte(formatted),
		Changed:   formatted != input,
		Stats:     run.Stats,
	}

	if run.Stats.CeilingHit {
		logger.Warn("formatter stopped early; the rest of the file was copied unchanged",
			logging.FieldPath, path,
			logging.FieldSteps, run.Stats.Steps,
		)
	}

	if !result.Changed {
		return result, nil
	}

	if opts.Verify {
		if err := verify.Equivalent(input, formatted); err != nil {
			result.Skipped = true
			result.SkipReason = "verification failed"
			result.VerifyErr = err
			logger.Warn("refusing to format file",
				logging.FieldPath, path,
				logging.FieldError, err,
			)
			return result, nil
		}
	}

	if opts.Diff {
		result.Diff = diff.Compute(path, input, formatted)
	}

	return result, nil
}

// categorizeError wraps an error with the appropriate pipeline error type.
func categorizeError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, fsutil.ErrNotFound) || errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("%w: %w", ErrFileNotFound, err)
	}

	if errors.Is(err, fsutil.ErrPermissionDenied) || errors.Is(err, os.ErrPermission) {
		return fmt.Errorf("%w: %w", ErrPermissionDenied, err)
	}

	return err
}

// IsPipelineError checks if an error is a known pipeline error type.
func IsPipelineError(err error) bool {
	return errors.Is(err, ErrFileNotFound) ||
		errors.Is(err, ErrPermissionDenied) ||
		errors.Is(err, ErrInvalidEncoding) ||
		errors.Is(err, ErrWriteFailure)
}
