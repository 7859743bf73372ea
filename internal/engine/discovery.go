package engine

import (
	"context"
	"io/fs"
	"path/filepath"
	"strings"
)

// Discover walks root and returns the files with a known language, skipping
// ignored paths. Paths are absolute and in lexical order.
func (e *Engine) Discover(ctx context.Context, root string) ([]string, error) {
	root = e.abs(root)
	var files []string

	err := filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		rel, relErr := filepath.Rel(root, p)
		if relErr != nil || rel == "." {
			return nil //nolint:nilerr // the root itself is never ignored
		}
		if isIgnored(rel, e.project.Ignore) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() || !d.Type().IsRegular() {
			return nil
		}
		if _, ok := e.LanguageFor(p); ok {
			files = append(files, p)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	e.logger.DebugContext(ctx, "discovered files", "root", root, "count", len(files))
	return files, nil
}

// Supported reports whether path has a known language and is not ignored
// relative to the engine root.
func (e *Engine) Supported(path string) bool {
	path = e.abs(path)
	if _, ok := e.LanguageFor(path); !ok {
		return false
	}
	return !e.Ignored(path)
}

// Ignored reports whether path matches an ignore glob relative to the
// engine root. Paths outside the root are never ignored.
func (e *Engine) Ignored(path string) bool {
	if e.root == "" {
		return false
	}
	rel, err := filepath.Rel(e.root, e.abs(path))
	if err != nil || rel == "." || strings.HasPrefix(rel, "..") {
		return false
	}
	return isIgnored(rel, e.project.Ignore)
}
