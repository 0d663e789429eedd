package runner

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Discover finds stylesheets matching opts. It returns a sorted,
// deduplicated list of absolute file paths.
func Discover(ctx context.Context, opts Options) ([]string, error) {
	workDir, err := resolveWorkDir(opts.WorkingDir)
	if err != nil {
		return nil, fmt.Errorf("resolve working directory: %w", err)
	}

	w := &walker{
		ctx:     ctx,
		opts:    opts,
		workDir: workDir,
		exts:    opts.extensionSet(),
		seen:    make(map[string]struct{}),
	}

	for _, inputPath := range opts.effectivePaths() {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("discovery cancelled: %w", err)
		}

		absPath := inputPath
		if !filepath.IsAbs(absPath) {
			absPath = filepath.Join(workDir, absPath)
		}
		absPath = filepath.Clean(absPath)

		info, err := os.Stat(absPath)
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", inputPath, err)
		}

		if info.IsDir() {
			w.root = absPath
			if err := w.walk(absPath); err != nil {
				return nil, err
			}
			continue
		}

		// Explicitly named files bypass the extension filter but not the
		// ignore list.
		w.root = ""
		if !w.excluded(absPath) {
			w.add(absPath)
		}
	}

	sort.Strings(w.files)
	return w.files, nil
}

type walker struct {
	ctx     context.Context
	opts    Options
	workDir string
	root    string // directory argument being walked
	exts    map[string]struct{}
	seen    map[string]struct{}
	files   []string
}

func (w *walker) add(path string) {
	if _, ok := w.seen[path]; ok {
		return
	}
	w.seen[path] = struct{}{}
	w.files = append(w.files, path)
}

func (w *walker) walk(root string) error {
	err := filepath.WalkDir(root, func(path string, entry fs.DirEntry, walkErr error) error {
		if err := w.ctx.Err(); err != nil {
			return err
		}
		if walkErr != nil {
			if os.IsPermission(walkErr) {
				return nil
			}
			return walkErr
		}

		hidden := path != root && strings.HasPrefix(entry.Name(), ".")

		if entry.IsDir() {
			if hidden || w.excluded(path) {
				return filepath.SkipDir
			}
			return nil
		}
		if hidden {
			return nil
		}

		if entry.Type()&fs.ModeSymlink != 0 {
			return w.symlink(path)
		}

		if w.matches(path) {
			w.add(path)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("walk directory %s: %w", root, err)
	}
	return nil
}

// symlink handles a symlink met during a walk. Broken links are skipped.
func (w *walker) symlink(path string) error {
	target, err := filepath.EvalSymlinks(path)
	if err != nil {
		return nil //nolint:nilerr // Broken symlinks are skipped.
	}
	info, err := os.Stat(target)
	if err != nil {
		return nil //nolint:nilerr // Inaccessible targets are skipped.
	}

	if !info.IsDir() {
		if w.matches(path) {
			w.add(path)
		}
		return nil
	}
	if !w.opts.FollowSymlinks || w.excluded(path) {
		return nil
	}
	// Walk the target: WalkDir does not descend through a symlinked root.
	return w.walk(target)
}

func (w *walker) matches(path string) bool {
	if _, ok := w.exts[strings.ToLower(filepath.Ext(path))]; !ok {
		return false
	}
	return !w.excluded(path)
}

// excluded matches path relative to the working directory and, while
// walking a directory argument, relative to that directory.
func (w *walker) excluded(path string) bool {
	if len(w.opts.ExcludeGlobs) == 0 {
		return false
	}

	rels := []string{relSlash(w.workDir, path)}
	if w.root != "" && w.root != w.workDir {
		rels = append(rels, relSlash(w.root, path))
	}

	for _, pattern := range w.opts.ExcludeGlobs {
		pattern = filepath.ToSlash(pattern)
		for _, rel := range rels {
			if rel != "." && matchGlob(rel, pattern) {
				return true
			}
		}
	}
	return false
}

func relSlash(base, path string) string {
	rel, err := filepath.Rel(base, path)
	if err != nil {
		rel = path
	}
	return filepath.ToSlash(rel)
}

func resolveWorkDir(workDir string) (string, error) {
	if workDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("get working directory: %w", err)
		}
		return wd, nil
	}
	absPath, err := filepath.Abs(workDir)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path: %w", err)
	}
	return absPath, nil
}

// matchGlob matches a slash-separated relative path against pattern.
// "**" matches any number of path segments. A pattern without a slash
// also matches the base name, so "*.min.css" works at any depth.
func matchGlob(path, pattern string) bool {
	if !strings.Contains(pattern, "/") && !strings.Contains(pattern, "**") {
		if ok, _ := filepath.Match(pattern, filepath.Base(path)); ok {
			return true
		}
	}
	return matchSegments(strings.Split(path, "/"), strings.Split(pattern, "/"))
}

func matchSegments(path, pattern []string) bool {
	for len(pattern) > 0 {
		if pattern[0] == "**" {
			rest := pattern[1:]
			if len(rest) == 0 {
				return true
			}
			for i := 0; i <= len(path); i++ {
				if matchSegments(path[i:], rest) {
					return true
				}
			}
			return false
		}

		if len(path) == 0 {
			return false
		}
		if ok, err := filepath.Match(pattern[0], path[0]); err != nil || !ok {
			return false
		}
		path, pattern = path[1:], pattern[1:]
	}
	return len(path) == 0
}
