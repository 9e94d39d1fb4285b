// Package filesearch expands command line paths into the source files to
// process, walking directories with .gitignore support.
package filesearch

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
)

// skipDirs are directories never descended into.
var skipDirs = map[string]bool{
	".git": true, "node_modules": true, "__pycache__": true,
	".venv": true, "venv": true, ".tox": true, ".mypy_cache": true,
	".cache": true, "build": true, "dist": true,
}

// Options configures Collect.
type Options struct {
	// Include selects files found while walking directories. Files named
	// explicitly are always kept.
	Include func(path string) bool
	// RespectGitignore skips paths ignored by the .gitignore at each
	// walked root.
	RespectGitignore bool
}

// Collect resolves paths into a sorted, de-duplicated list of files.
// A missing path is an error; directories are walked recursively.
func Collect(ctx context.Context, paths []string, opts Options) ([]string, error) {
	seen := make(map[string]bool)
	var files []string
	add := func(p string) {
		if !seen[p] {
			seen[p] = true
			files = append(files, p)
		}
	}

	for _, root := range paths {
		info, err := os.Stat(root)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			add(filepath.Clean(root))
			continue
		}
		found, err := walk(ctx, root, opts)
		if err != nil {
			return nil, fmt.Errorf("walk %s: %w", root, err)
		}
		for _, p := range found {
			add(p)
		}
	}
	sort.Strings(files)
	return files, nil
}

func walk(ctx context.Context, root string, opts Options) ([]string, error) {
	matcher := &GitignoreMatcher{}
	if opts.RespectGitignore {
		var err error
		matcher, err = NewGitignoreMatcher(filepath.Join(root, ".gitignore"))
		if err != nil {
			// Non-fatal: just won't filter gitignored files
			matcher = &GitignoreMatcher{}
		}
	}

	var files []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		rel, err := filepath.Rel(root, path)
		if err != nil || rel == "." {
			return nil
		}
		if d.IsDir() {
			if skipDirs[d.Name()] || matcher.Matches(rel, true) {
				return filepath.SkipDir
			}
			return nil
		}
		if matcher.Matches(rel, false) {
			return nil
		}
		if opts.Include == nil || opts.Include(path) {
			files = append(files, path)
		}
		return nil
	})
	return files, err
}
