// Package watcher sorts files as they are saved.
//
// Events are debounced per batch: a burst of saves becomes one pass over the
// changed files once the directory has been quiet for the debounce period.
// Writes the watcher makes itself are recognized by content hash and ignored.
package watcher

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/zeebo/xxh3"

	"github.com/Trapfether/tailwind-raw-reorder/internal/config"
	"github.com/Trapfether/tailwind-raw-reorder/internal/engine"
)

// DefaultDebounce is the quiet period before changed files are sorted.
const DefaultDebounce = 200 * time.Millisecond

// Result reports one sorted file.
type Result struct {
	Path string
	File *engine.FileResult
	Err  error
}

// Config holds watcher configuration options.
type Config struct {
	// Engine sorts the changed files.
	Engine *engine.Engine
	// Root is the directory watched recursively. Empty means the engine root.
	Root string
	// Debounce is the quiet period before sorting. Zero uses DefaultDebounce.
	Debounce time.Duration
	// Logger is the structured logger (optional, uses discard if nil)
	Logger *slog.Logger
}

// Watcher watches a directory tree and sorts supported files on save.
type Watcher struct {
	fsw      *fsnotify.Watcher
	engine   *engine.Engine
	root     string
	debounce time.Duration
	logger   *slog.Logger

	results chan Result
	done    chan struct{}
	wg      sync.WaitGroup
	stop    sync.Once

	mu      sync.Mutex
	written map[string]uint64 // path -> hash of the content we last wrote
}

// New creates a watcher. Start begins watching.
func New(cfg Config) (*Watcher, error) {
	if cfg.Engine == nil {
		return nil, fmt.Errorf("watcher requires an engine")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	debounce := cfg.Debounce
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	root := cfg.Root
	if root == "" {
		root = cfg.Engine.Root()
	}
	if root == "" {
		root = "."
	}
	root, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve watch root: %w", err)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating fsnotify watcher: %w", err)
	}

	return &Watcher{
		fsw:      fsw,
		engine:   cfg.Engine,
		root:     root,
		debounce: debounce,
		logger:   logger,
		results:  make(chan Result, 64),
		done:     make(chan struct{}),
		written:  make(map[string]uint64),
	}, nil
}

// Root returns the watched directory.
func (w *Watcher) Root() string { return w.root }

// Start adds the directory tree and begins processing events. The returned
// channel receives one Result per sorted file and is closed after Stop.
func (w *Watcher) Start(ctx context.Context) (<-chan Result, error) {
	if err := w.addTree(w.root); err != nil {
		return nil, err
	}

	w.wg.Add(1)
	go w.loop(ctx)

	w.logger.Info("watching", "root", w.root)
	return w.results, nil
}

// Stop terminates the watcher and releases resources. It is safe to call
// more than once.
func (w *Watcher) Stop() error {
	var err error
	w.stop.Do(func() {
		close(w.done)
		err = w.fsw.Close()
		w.wg.Wait()
		close(w.results)
	})
	return err
}

func (w *Watcher) addTree(root string) error {
	return filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if p != w.root && w.engine.Ignored(p) {
			return filepath.SkipDir
		}
		if err := w.fsw.Add(p); err != nil {
			return fmt.Errorf("watching directory %s: %w", p, err)
		}
		return nil
	})
}

func (w *Watcher) loop(ctx context.Context) {
	defer w.wg.Done()

	var (
		timer   *time.Timer
		pending = make(map[string]struct{})
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	timerC := func() <-chan time.Time {
		if timer != nil {
			return timer.C
		}
		return nil
	}

	for {
		select {
		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if !w.handleEvent(ctx, event, pending) {
				continue
			}

			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				if !timer.Stop() {
					select {
					case <-timer.C:
					default:
					}
				}
				timer.Reset(w.debounce)
			}

		case <-timerC():
			w.flush(ctx, pending)
			clear(pending)

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.logger.Warn("watch error", "error", err)

		case <-ctx.Done():
			return

		case <-w.done:
			return
		}
	}
}

// handleEvent records event and reports whether it added a file to pending.
func (w *Watcher) handleEvent(ctx context.Context, event fsnotify.Event, pending map[string]struct{}) bool {
	if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
		return false
	}
	path := event.Name

	if event.Has(fsnotify.Create) {
		if info, err := os.Stat(path); err == nil && info.IsDir() {
			if !w.engine.Ignored(path) {
				if err := w.addTree(path); err != nil {
					w.logger.Warn("watch new directory failed", "path", path, "error", err)
				}
			}
			return false
		}
	}

	if w.isStylesheetFile(path) {
		w.logger.Info("stylesheet changed", "path", path)
		w.engine.Resolver().Invalidate(ctx)
		return false
	}

	if !w.engine.Supported(path) {
		return false
	}
	if w.selfWrite(path) {
		w.logger.Debug("skipping own write", "path", path)
		return false
	}

	pending[path] = struct{}{}
	return true
}

func (w *Watcher) isStylesheetFile(path string) bool {
	project := w.engine.Project()
	if path == project.Stylesheet || path == project.RulesScript {
		return true
	}
	return slices.Contains(config.StylesheetFileNames, filepath.Base(path))
}

// selfWrite reports whether path still holds the content the watcher wrote.
func (w *Watcher) selfWrite(path string) bool {
	w.mu.Lock()
	want, ok := w.written[path]
	w.mu.Unlock()
	if !ok {
		return false
	}

	content, err := os.ReadFile(path) //nolint:gosec // G304: path comes from a watch event under the root
	if err != nil {
		return false
	}
	if xxh3.Hash(content) == want {
		return true
	}

	w.mu.Lock()
	delete(w.written, path)
	w.mu.Unlock()
	return false
}

func (w *Watcher) flush(ctx context.Context, pending map[string]struct{}) {
	paths := make([]string, 0, len(pending))
	for p := range pending {
		paths = append(paths, p)
	}
	slices.Sort(paths)

	for _, p := range paths {
		res, err := w.engine.SortFile(ctx, p, engine.FileOptions{Write: true})
		if err != nil {
			w.logger.Warn("sort failed", "path", p, "error", err)
		} else if res.Written {
			w.mu.Lock()
			w.written[p] = xxh3.HashString(res.Sorted)
			w.mu.Unlock()
		}

		select {
		case w.results <- Result{Path: p, File: res, Err: err}:
		case <-w.done:
			return
		case <-ctx.Done():
			return
		}
	}
}
