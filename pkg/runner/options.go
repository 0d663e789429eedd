// Package runner formats many stylesheets concurrently.
package runner

import (
	"strings"

	"github.com/yaklabco/cssbeautify/pkg/config"
)

// Options controls file discovery and concurrency.
type Options struct {
	// Paths are the user-specified paths (files or directories) to process.
	// If empty, defaults to the current working directory.
	Paths []string

	// WorkingDir is the base directory used to resolve relative Paths.
	// If empty, the current process working directory is used.
	WorkingDir string

	// Extensions are the file extensions picked up from directories.
	// Defaults to DefaultExtensions(). A file named explicitly in Paths is
	// processed whatever its extension.
	Extensions []string

	// ExcludeGlobs are glob patterns, relative to WorkingDir, for files and
	// directories to skip.
	ExcludeGlobs []string

	// FollowSymlinks controls whether directory symlinks are traversed.
	FollowSymlinks bool

	// Jobs controls the maximum number of concurrent workers.
	// 0 or negative means "auto" (runtime.NumCPU()).
	Jobs int
}

// DefaultExtensions returns the default set of stylesheet extensions.
func DefaultExtensions() []string {
	return append([]string(nil), config.DefaultExtensions...)
}

// OptionsFromConfig builds discovery options for paths from cfg.
func OptionsFromConfig(cfg *config.Config, paths []string, workDir string) Options {
	opts := Options{Paths: paths, WorkingDir: workDir}
	if cfg != nil {
		opts.Extensions = cfg.Extensions
		opts.ExcludeGlobs = cfg.Ignore
		opts.Jobs = cfg.Jobs
	}
	return opts
}

// extensionSet returns the lowercased extensions, each with a leading dot.
func (o Options) extensionSet() map[string]struct{} {
	exts := o.Extensions
	if len(exts) == 0 {
		exts = DefaultExtensions()
	}

	set := make(map[string]struct{}, len(exts))
	for _, ext := range exts {
		ext = strings.ToLower(ext)
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		set[ext] = struct{}{}
	}
	return set
}

// effectivePaths returns the paths to process, defaulting to "." if empty.
func (o Options) effectivePaths() []string {
	if len(o.Paths) == 0 {
		return []string{"."}
	}
	return o.Paths
}
