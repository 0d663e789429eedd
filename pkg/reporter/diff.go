package reporter

import (
	"bufio"
	"context"
	"fmt"
	"strings"

	"github.com/yaklabco/cssbeautify/internal/ui/pretty"
	"github.com/yaklabco/cssbeautify/pkg/diff"
	"github.com/yaklabco/cssbeautify/pkg/runner"
)

// DiffReporter formats results as unified diffs in git style.
type DiffReporter struct {
	opts   Options
	styles *pretty.Styles
	bw     *bufio.Writer
}

// NewDiffReporter creates a new diff reporter.
func NewDiffReporter(opts Options) *DiffReporter {
	return &DiffReporter{
		opts:   opts,
		styles: pretty.NewStyles(pretty.IsColorEnabled(opts.Color, opts.Writer)),
		bw:     bufio.NewWriterSize(opts.Writer, bufWriterSize),
	}
}

// Report implements Reporter.
func (r *DiffReporter) Report(_ context.Context, result *runner.Result) (_ int, err error) {
	defer func() {
		if flushErr := r.bw.Flush(); err == nil {
			err = flushErr
		}
	}()

	if result == nil {
		return 0, nil
	}

	var files, insertions, deletions int

	for _, file := range result.Files {
		if file.Error != nil || (file.Result != nil && file.Result.Skipped) {
			fmt.Fprint(r.bw, r.styles.FormatOutcome(r.opts.displayPath(file.Path), file, false))
			continue
		}
		if file.Result == nil || !file.Result.Diff.HasChanges() {
			continue
		}

		d := *file.Result.Diff
		d.Path = r.opts.displayPath(d.Path)

		files++
		insertions += d.Insertions
		deletions += d.Deletions
		r.writeDiff(&d)
	}

	if files > 0 && r.opts.ShowSummary {
		fmt.Fprint(r.bw, r.styles.FormatDiffStat(files, insertions, deletions))
	}

	return files, nil
}

func (r *DiffReporter) writeDiff(d *diff.FileDiff) {
	fmt.Fprintln(r.bw, r.styles.DiffHeader.Render(d.GitHeader()))

	// The first two lines are the ---/+++ file headers.
	for i, line := range strings.Split(strings.TrimSuffix(d.String(), "\n"), "\n") {
		var styled string
		switch {
		case i < 2:
			styled = r.styles.DiffHeader.Render(line)
		case strings.HasPrefix(line, "@@"):
			styled = r.styles.DiffHunk.Render(line)
		case strings.HasPrefix(line, "+"):
			styled = r.styles.DiffAdd.Render(line)
		case strings.HasPrefix(line, "-"):
			styled = r.styles.DiffRemove.Render(line)
		default:
			styled = r.styles.DiffContext.Render(line)
		}
		fmt.Fprintln(r.bw, styled)
	}

	fmt.Fprintln(r.bw)
}
