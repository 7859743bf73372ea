package engine

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"golang.org/x/sync/errgroup"
)

// RunOptions configures a workspace run.
type RunOptions struct {
	// Write replaces changed files on disk.
	Write bool
	// Language overrides detection for every file.
	Language string
}

// RunResult summarizes a workspace run.
type RunResult struct {
	Files    []*FileResult
	Errors   []FileError
	Duration time.Duration
}

// FileError is a non-fatal per-file failure.
type FileError struct {
	Path string
	Err  error
}

func (e FileError) Error() string {
	return fmt.Sprintf("%s: %v", e.Path, e.Err)
}

func (e FileError) Unwrap() error { return e.Err }

// Changed returns the files whose classes changed.
func (r *RunResult) Changed() []*FileResult {
	var out []*FileResult
	for _, f := range r.Files {
		if f.Changed() {
			out = append(out, f)
		}
	}
	return out
}

// HasErrors returns true if any file failed.
func (r *RunResult) HasErrors() bool {
	return len(r.Errors) > 0
}

// Err joins the per-file errors.
func (r *RunResult) Err() error {
	errs := make([]error, len(r.Errors))
	for i, fe := range r.Errors {
		errs[i] = fe
	}
	return errors.Join(errs...)
}

// Summary returns a human-readable summary.
func (r *RunResult) Summary() string {
	return fmt.Sprintf("Files: %d checked, %d changed, %d failed | Duration: %s",
		len(r.Files), len(r.Changed()), len(r.Errors), r.Duration.Round(time.Millisecond))
}

// Run sorts every supported file under paths. Directories are walked with
// Discover; files are sorted as given. Files are processed in parallel up to
// the configured concurrency. Per-file failures are collected in the result.
func (e *Engine) Run(ctx context.Context, paths []string, opts RunOptions) (*RunResult, error) {
	start := time.Now()

	var files []string
	for _, p := range paths {
		info, err := os.Stat(e.abs(p))
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			files = append(files, e.abs(p))
			continue
		}
		found, err := e.Discover(ctx, p)
		if err != nil {
			return nil, err
		}
		files = append(files, found...)
	}

	e.logger.InfoContext(ctx, "starting run", "files", len(files), "write", opts.Write, "concurrency", e.project.Concurrency)

	results := make([]*FileResult, len(files))
	errs := make([]error, len(files))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.project.Concurrency)
	for i, path := range files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i], errs[i] = e.SortFile(gctx, path, FileOptions{Write: opts.Write, Language: opts.Language})
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	result := &RunResult{}
	for i, path := range files {
		if errs[i] != nil {
			e.logger.WarnContext(ctx, "sort failed", "path", path, "error", errs[i])
			result.Errors = append(result.Errors, FileError{Path: path, Err: errs[i]})
			continue
		}
		result.Files = append(result.Files, results[i])
	}
	result.Duration = time.Since(start)

	e.logger.InfoContext(ctx, "run completed",
		"files", len(result.Files),
		"changed", len(result.Changed()),
		"failed", len(result.Errors),
		"duration_ms", result.Duration.Milliseconds())

	return result, nil
}
