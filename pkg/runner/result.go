package runner

import "github.com/yaklabco/cssbeautify/pkg/format"

// FileOutcome pairs a discovered path with its pipeline result.
type FileOutcome struct {
	// Path is the file path that was processed.
	Path string

	// Result is nil when Error is set.
	Result *format.Result

	// Error is set if the file could not be processed.
	Error error
}

// Stats captures aggregate information about a run.
type Stats struct {
	// FilesDiscovered is the total number of files found during discovery.
	FilesDiscovered int

	// FilesProcessed is the number of files formatted without error.
	FilesProcessed int

	// FilesChanged is the number of files whose formatting differs from
	// their content, excluding skipped files.
	FilesChanged int

	// FilesWritten is the number of files rewritten on disk.
	FilesWritten int

	// FilesSkipped is the number of files left alone after formatting,
	// because verification failed or they changed on disk.
	FilesSkipped int

	// FilesErrored is the number of files that could not be processed.
	FilesErrored int

	// BackupsCreated is the number of backups taken.
	BackupsCreated int

	// Insertions and Deletions total the diff lines, when diffs were computed.
	Insertions int
	Deletions  int
}

// Result is the overall runner result.
type Result struct {
	// Files contains the outcome for each processed file, ordered by path.
	Files []FileOutcome

	// Stats contains aggregate statistics for the run.
	Stats Stats
}

// HasChanges reports whether any file needs (or received) reformatting.
func (r *Result) HasChanges() bool {
	return r != nil && r.Stats.FilesChanged > 0
}

// HasErrors reports whether any file failed or was skipped.
func (r *Result) HasErrors() bool {
	return r != nil && (r.Stats.FilesErrored > 0 || r.Stats.FilesSkipped > 0)
}

// accumulate updates the result with a file outcome.
func (r *Result) accumulate(outcome FileOutcome) {
	r.Files = append(r.Files, outcome)

	if outcome.Error != nil {
		r.Stats.FilesErrored++
		return
	}

	res := outcome.Result
	if res == nil {
		return
	}

	r.Stats.FilesProcessed++

	switch {
	case res.Skipped:
		r.Stats.FilesSkipped++
	case res.Changed:
		r.Stats.FilesChanged++
	}
	if res.Written {
		r.Stats.FilesWritten++
	}
	if res.BackupCreated {
		r.Stats.BackupsCreated++
	}
	if res.Diff != nil {
		r.Stats.Insertions += res.Diff.Insertions
		r.Stats.Deletions += res.Diff.Deletions
	}
}
