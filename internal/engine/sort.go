package engine

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/Trapfether/tailwind-raw-reorder/internal/config"
	"github.com/Trapfether/tailwind-raw-reorder/pkg/rewrite"
)

// FileOptions controls SortFile.
type FileOptions struct {
	// Write replaces the file when its classes change.
	Write bool
	// Language overrides detection from the file extension.
	Language string
}

// FileResult describes one sorted file.
type FileResult struct {
	Path       string
	Language   string
	Stylesheet string // empty when the built-in stylesheet was used
	Original   string
	Sorted     string
	Edits      []rewrite.Edit
	Written    bool
}

// Changed reports whether sorting changed the file.
func (r *FileResult) Changed() bool {
	return r.Original != r.Sorted
}

// SortText sorts every class list in text. path locates the stylesheet and
// need not exist.
func (e *Engine) SortText(ctx context.Context, path, lang, text string) (string, []rewrite.Edit, error) {
	env, _, err := e.resolver.Resolve(ctx, e.abs(path))
	if err != nil {
		return "", nil, err
	}
	return rewrite.Sort(text, e.Matchers(lang), env)
}

// SortSelection sorts text as a single class list. ok is false when text
// does not look like one.
func (e *Engine) SortSelection(ctx context.Context, path, lang, text string) (sorted string, ok bool, err error) {
	env, _, err := e.resolver.Resolve(ctx, e.abs(path))
	if err != nil {
		return "", false, err
	}
	sorted, ok = rewrite.Selection(text, e.Matchers(lang), env)
	return sorted, ok, nil
}

// SortFile sorts the classes in the file at path.
func (e *Engine) SortFile(ctx context.Context, path string, opts FileOptions) (*FileResult, error) {
	path = e.abs(path)

	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	content, err := os.ReadFile(path) //nolint:gosec // G304: path comes from the caller or a workspace walk
	if err != nil {
		return nil, err
	}

	lang := opts.Language
	if lang == "" {
		var ok bool
		if lang, ok = e.LanguageFor(path); !ok {
			lang = config.FallbackLanguage
		}
	}

	env, sheet, err := e.resolver.Resolve(ctx, path)
	if err != nil {
		return nil, err
	}

	sorted, edits, err := rewrite.Sort(string(content), e.Matchers(lang), env)
	if err != nil {
		return nil, fmt.Errorf("sort %s: %w", path, err)
	}

	result := &FileResult{
		Path:       path,
		Language:   lang,
		Stylesheet: sheet,
		Original:   string(content),
		Sorted:     sorted,
		Edits:      edits,
	}

	if opts.Write && result.Changed() {
		if err := os.WriteFile(path, []byte(sorted), info.Mode().Perm()); err != nil {
			return nil, fmt.Errorf("write %s: %w", path, err)
		}
		result.Written = true
	}

	e.logger.DebugContext(ctx, "sorted file", "path", path, "language", lang, "edits", len(edits), "written", result.Written)
	return result, nil
}

func (e *Engine) abs(path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	base := e.root
	if base == "" {
		if wd, err := os.Getwd(); err == nil {
			base = wd
		}
	}
	return filepath.Join(base, path)
}
