// Package diff renders line-based unified diffs between a stylesheet and its
// beautified form.
package diff

import (
	"fmt"
	"strings"
)

// Op is the kind of a diff line.
type Op int

const (
	// Equal is an unchanged context line.
	Equal Op = iota

	// Insert is a line present only in the formatted text.
	Insert

	// Delete is a line present only in the original text.
	Delete
)

func (o Op) prefix() byte {
	switch o {
	case Insert:
		return '+'
	case Delete:
		return '-'
	default:
		return ' '
	}
}

// Line is a single line of a hunk, without its trailing newline.
type Line struct {
	Op   Op
	Text string
}

// Hunk is a contiguous group of changes with surrounding context.
// Start positions are 1-based.
type Hunk struct {
	OldStart, OldCount int
	NewStart, NewCount int
	Lines              []Line
}

// FileDiff is the unified diff of one file.
type FileDiff struct {
	Path       string
	Hunks      []Hunk
	Insertions int
	Deletions  int
}

// DefaultContext is the number of unchanged lines shown around a change.
const DefaultContext = 3

// Compute diffs before against after. It returns nil when the texts have the
// same lines.
func Compute(path, before, after string) *FileDiff {
	return ComputeContext(path, before, after, DefaultContext)
}

// ComputeContext is Compute with an explicit number of context lines.
func ComputeContext(path, before, after string, context int) *FileDiff {
	if before == after {
		return nil
	}

	ops := lineOps(splitLines(before), splitLines(after))

	d := &FileDiff{Path: path}
	for _, l := range ops {
		switch l.Op {
		case Insert:
			d.Insertions++
		case Delete:
			d.Deletions++
		}
	}
	if d.Insertions == 0 && d.Deletions == 0 {
		return nil
	}

	d.Hunks = hunks(ops, max(context, 0))
	return d
}

// HasChanges reports whether d holds at least one hunk.
func (d *FileDiff) HasChanges() bool {
	return d != nil && len(d.Hunks) > 0
}

// GitHeader returns the "diff --git" line for d.
func (d *FileDiff) GitHeader() string {
	if d == nil {
		return ""
	}
	path := strings.TrimPrefix(d.Path, "/")
	return fmt.Sprintf("diff --git a/%s b/%s", path, path)
}

// String renders d in unified format with a/ and b/ path prefixes.
func (d *FileDiff) String() string {
	if !d.HasChanges() {
		return ""
	}

	path := strings.TrimPrefix(d.Path, "/")

	var sb strings.Builder
	fmt.Fprintf(&sb, "--- a/%s\n+++ b/%s\n", path, path)
	for _, h := range d.Hunks {
		fmt.Fprintf(&sb, "@@ -%s +%s @@\n", hunkRange(h.OldStart, h.OldCount), hunkRange(h.NewStart, h.NewCount))
		for _, l := range h.Lines {
			sb.WriteByte(l.Op.prefix())
			sb.WriteString(l.Text)
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}

func hunkRange(start, count int) string {
	if count == 0 {
		// An empty range names the line before it.
		return fmt.Sprintf("%d,0", start-1)
	}
	if count == 1 {
		return fmt.Sprintf("%d", start)
	}
	return fmt.Sprintf("%d,%d", start, count)
}

func splitLines(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(strings.TrimSuffix(s, "\n"), "\n")
}

// lineOps aligns a and b. The common prefix and suffix are matched directly
// and only the middle goes through the LCS table.
func lineOps(a, b []string) []Line {
	pre := 0
	for pre < len(a) && pre < len(b) && a[pre] == b[pre] {
		pre++
	}
	suf := 0
	for suf < len(a)-pre && suf < len(b)-pre && a[len(a)-1-suf] == b[len(b)-1-suf] {
		suf++
	}

	ops := make([]Line, 0, len(a)+len(b))
	for _, text := range a[:pre] {
		ops = append(ops, Line{Op: Equal, Text: text})
	}
	ops = append(ops, lcsOps(a[pre:len(a)-suf], b[pre:len(b)-suf])...)
	for _, text := range a[len(a)-suf:] {
		ops = append(ops, Line{Op: Equal, Text: text})
	}
	return ops
}

func lcsOps(a, b []string) []Line {
	// table[i][j] is the LCS length of a[i:] and b[j:].
	table := make([][]int, len(a)+1)
	for i := range table {
		table[i] = make([]int, len(b)+1)
	}
	for i := len(a) - 1; i >= 0; i-- {
		for j := len(b) - 1; j >= 0; j-- {
			if a[i] == b[j] {
				table[i][j] = table[i+1][j+1] + 1
			} else {
				table[i][j] = max(table[i+1][j], table[i][j+1])
			}
		}
	}

	var ops []Line
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		switch {
		case a[i] == b[j]:
			ops = append(ops, Line{Op: Equal, Text: a[i]})
			i++
			j++
		case table[i+1][j] >= table[i][j+1]:
			ops = append(ops, Line{Op: Delete, Text: a[i]})
			i++
		default:
			ops = append(ops, Line{Op: Insert, Text: b[j]})
			j++
		}
	}
	for ; i < len(a); i++ {
		ops = append(ops, Line{Op: Delete, Text: a[i]})
	}
	for ; j < len(b); j++ {
		ops = append(ops, Line{Op: Insert, Text: b[j]})
	}
	return ops
}

// hunks groups ops into hunks. Changes separated by at most 2*context
// unchanged lines share a hunk.
func hunks(ops []Line, context int) []Hunk {
	var out []Hunk

	oldLine, newLine := 1, 1
	var cur *Hunk
	trailing := 0 // unchanged lines since the last change in cur

	for idx, l := range ops {
		if l.Op != Equal {
			if cur == nil {
				lead := leadingContext(ops, idx, context)
				cur = &Hunk{OldStart: oldLine - len(lead), NewStart: newLine - len(lead)}
				for _, c := range lead {
					cur.add(c)
				}
			}
			cur.add(l)
			trailing = 0
		} else if cur != nil {
			if trailing < context || nextChangeWithin(ops, idx, 2*context-trailing) {
				cur.add(l)
				trailing++
			} else {
				out = append(out, *cur)
				cur = nil
			}
		}

		if l.Op != Insert {
			oldLine++
		}
		if l.Op != Delete {
			newLine++
		}
	}
	if cur != nil {
		out = append(out, *cur)
	}
	return out
}

func (h *Hunk) add(l Line) {
	h.Lines = append(h.Lines, l)
	if l.Op != Insert {
		h.OldCount++
	}
	if l.Op != Delete {
		h.NewCount++
	}
}

func leadingContext(ops []Line, idx, context int) []Line {
	start := idx
	for start > 0 && idx-start < context && ops[start-1].Op == Equal {
		start--
	}
	return ops[start:idx]
}

// nextChangeWithin reports whether a change occurs within n lines from idx.
func nextChangeWithin(ops []Line, idx, n int) bool {
	for k := idx; k < len(ops) && k-idx <= n; k++ {
		if ops[k].Op != Equal {
			return true
		}
	}
	return false
}
