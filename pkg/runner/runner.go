package runner

import (
	"context"
	"fmt"
	"runtime"
	"sync"

	"github.com/yaklabco/cssbeautify/internal/logging"
	"github.com/yaklabco/cssbeautify/pkg/format"
)

// Runner formats discovered files with a shared set of pipeline options.
type Runner struct {
	// Format is passed to format.ProcessFile for every file.
	Format format.Options
}

// New creates a Runner with the given pipeline options.
func New(opts format.Options) *Runner {
	return &Runner{Format: opts}
}

// Run discovers files under opts.Paths and processes them concurrently.
// Outcomes are returned in path order regardless of completion order.
func (r *Runner) Run(ctx context.Context, opts Options) (*Result, error) {
	files, err := Discover(ctx, opts)
	if err != nil {
		return nil, err
	}

	result := &Result{Files: make([]FileOutcome, 0, len(files))}
	result.Stats.FilesDiscovered = len(files)

	logger := logging.FromContext(ctx)
	logger.Debug("discovered files", logging.FieldFilesDiscovered, len(files))

	if len(files) == 0 {
		return result, nil
	}

	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.NumCPU()
	}
	jobs = min(jobs, len(files))

	// Each worker writes only its own slots.
	outcomes := make([]FileOutcome, len(files))
	done := make([]bool, len(files))

	workCh := make(chan int)
	var wg sync.WaitGroup

	for range jobs {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range workCh {
				outcomes[idx] = r.process(ctx, files[idx])
				done[idx] = true
			}
		}()
	}

feed:
	for idx := range files {
		select {
		case <-ctx.Done():
			break feed
		case workCh <- idx:
		}
	}
	close(workCh)
	wg.Wait()

	for idx := range files {
		if done[idx] {
			result.accumulate(outcomes[idx])
		}
	}

	logger.Debug("run complete",
		logging.FieldFilesChanged, result.Stats.FilesChanged,
		logging.FieldFilesWritten, result.Stats.FilesWritten,
		logging.FieldFilesSkipped, result.Stats.FilesSkipped,
		logging.FieldFilesErrored, result.Stats.FilesErrored,
	)

	if ctx.Err() != nil {
		return result, fmt.Errorf("run cancelled: %w", ctx.Err())
	}

	return result, nil
}

func (r *Runner) process(ctx context.Context, path string) FileOutcome {
	outcome := FileOutcome{Path: path}

	res, err := format.ProcessFile(ctx, path, r.Format)
	if err != nil {
		outcome.Error = err
		logging.FromContext(ctx).Debug("file failed", logging.FieldPath, path, logging.FieldError, err)
		return outcome
	}

	outcome.Result = res
	return outcome
}
