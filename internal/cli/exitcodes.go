package cli

import (
	"errors"
	"io/fs"

	"github.com/yaklabco/cssbeautify/internal/configloader"
	"github.com/yaklabco/cssbeautify/pkg/runner"
)

// Exit codes for cssbeautify.
const (
	// ExitSuccess indicates successful execution with nothing left to do.
	ExitSuccess = 0

	// ExitUnformatted indicates --check found files that need formatting.
	ExitUnformatted = 1

	// ExitFileFailures indicates some files were skipped or could not be
	// processed.
	ExitFileFailures = 2

	// ExitInvalidUsage indicates invalid command-line usage.
	ExitInvalidUsage = 64

	// ExitConfigError indicates configuration file errors.
	ExitConfigError = 65

	// ExitInternalError indicates an internal error.
	ExitInternalError = 70

	// ExitIOError indicates file I/O errors.
	ExitIOError = 74
)

// Errors that only carry an exit status. The reporter has already told the
// user what happened, so main does not log them.
var (
	// ErrUnformatted is returned by --check when files need formatting.
	ErrUnformatted = errors.New("files need formatting")

	// ErrFileFailures is returned when files were skipped or failed.
	ErrFileFailures = errors.New("some files could not be formatted")
)

// ErrInvalidUsage marks errors caused by a bad combination of arguments.
var ErrInvalidUsage = errors.New("invalid usage")

// ExitCodeFromResult determines the exit code for a finished run.
func ExitCodeFromResult(result *runner.Result, check bool) int {
	if result == nil {
		return ExitSuccess
	}

	if result.HasErrors() {
		return ExitFileFailures
	}

	if check && result.HasChanges() {
		return ExitUnformatted
	}

	return ExitSuccess
}

// errorForExitCode maps a run exit code back to its signal error.
func errorForExitCode(code int) error {
	switch code {
	case ExitUnformatted:
		return ErrUnformatted
	case ExitFileFailures:
		return ErrFileFailures
	default:
		return nil
	}
}

// ExitCodeFromError maps an error returned by a command to an exit code.
func ExitCodeFromError(err error) int {
	var validationErr *configloader.ValidationError

	switch {
	case err == nil:
		return ExitSuccess
	case errors.Is(err, ErrUnformatted):
		return ExitUnformatted
	case errors.Is(err, ErrFileFailures):
		return ExitFileFailures
	case errors.Is(err, ErrInvalidUsage):
		return ExitInvalidUsage
	case errors.As(err, &validationErr), errors.Is(err, configloader.ErrConfigLoad):
		return ExitConfigError
	case errors.Is(err, fs.ErrNotExist), errors.Is(err, fs.ErrPermission):
		return ExitIOError
	default:
		return ExitInternalError
	}
}

// IsSilent reports whether err only carries an exit status.
func IsSilent(err error) bool {
	return errors.Is(err, ErrUnformatted) || errors.Is(err, ErrFileFailures)
}
