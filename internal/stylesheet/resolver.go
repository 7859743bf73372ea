package stylesheet

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/Trapfether/tailwind-raw-reorder/internal/cachemanager"
	"github.com/Trapfether/tailwind-raw-reorder/internal/config"
	rulescript "github.com/Trapfether/tailwind-raw-reorder/internal/starlark"
	"github.com/Trapfether/tailwind-raw-reorder/pkg/classorder"
)

// ErrNotFound is returned when no stylesheet applies to a file.
var ErrNotFound = errors.New("stylesheet not found")

// defaultKey caches the fallback stylesheet's env.
const defaultKey = "<default>"

// Options configures a Resolver.
type Options struct {
	// Explicit is a configured stylesheet path. It is used for every file.
	Explicit string
	// Root stops the upward search. Empty searches up to the filesystem root.
	Root string
	// RulesScript is an optional Starlark rule generator.
	RulesScript string
	// Oracle is one of the config.Oracle* modes.
	Oracle string
	// Fallback is used when no stylesheet file is found. Nil makes a missing
	// stylesheet an ErrNotFound.
	Fallback *Sheet
	// TTL bounds how long resolved paths and loaded envs are reused.
	TTL    time.Duration
	Logger *slog.Logger
}

// Resolver finds and loads the stylesheet for source files. Resolved paths
// and loaded envs are cached for Options.TTL.
type Resolver struct {
	opts   Options
	logger *slog.Logger

	paths    cachemanager.CacheManager[string]
	envCache cachemanager.CacheManager[classorder.Env]
	envs     *cachemanager.ReadThroughCache[classorder.Env, string]

	// lastSweep is the unix nano time expired entries were last removed.
	lastSweep atomic.Int64
}

// NewResolver creates a resolver.
func NewResolver(opts Options) *Resolver {
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.DiscardHandler)
	}
	if opts.TTL <= 0 {
		opts.TTL = cachemanager.DefaultExpiration
	}
	if opts.Oracle == "" {
		opts.Oracle = config.OracleAuto
	}

	r := &Resolver{
		opts:   opts,
		logger: opts.Logger,
		paths: cachemanager.NewInMemoryCacheManager[string](
			"stylesheet-path", opts.TTL, cachemanager.NoCleanup, opts.Logger),
		envCache: cachemanager.NewInMemoryCacheManager[classorder.Env](
			"stylesheet-env", opts.TTL, cachemanager.NoCleanup, opts.Logger),
	}
	r.envs = cachemanager.NewReadThroughCache(r.envCache, r.loadEnv)
	r.lastSweep.Store(time.Now().UnixNano())
	return r
}

// Resolve returns the env for filePath and the stylesheet path it came from.
// The path is empty when the fallback stylesheet is used.
func (r *Resolver) Resolve(ctx context.Context, filePath string) (classorder.Env, string, error) {
	r.sweep(ctx)

	path, err := r.resolvePath(ctx, filePath)
	if err != nil {
		return classorder.Env{}, "", err
	}

	key := path
	if key == "" {
		key = defaultKey
	}
	env, err := r.envs.Get(ctx, key, path, r.opts.TTL)
	if err != nil {
		return classorder.Env{}, "", err
	}
	return env, path, nil
}

// Invalidate drops cached state so the next Resolve reloads from disk.
func (r *Resolver) Invalidate(ctx context.Context) {
	r.paths.Flush(ctx)
	r.envCache.Flush(ctx)
}

// sweep removes expired entries at most once per TTL. The caches run without
// a janitor goroutine, so a dropped Resolver leaves nothing running.
func (r *Resolver) sweep(ctx context.Context) {
	last := r.lastSweep.Load()
	now := time.Now().UnixNano()
	if now-last < int64(r.opts.TTL) || !r.lastSweep.CompareAndSwap(last, now) {
		return
	}
	r.paths.DeleteExpired(ctx)
	r.envCache.DeleteExpired(ctx)
}

func (r *Resolver) resolvePath(ctx context.Context, filePath string) (string, error) {
	key := filePath + ":" + r.opts.Explicit
	if path, ok := r.paths.Get(ctx, key); ok {
		return path, nil
	}

	var path string
	if r.opts.Explicit != "" {
		explicit, err := filepath.Abs(r.opts.Explicit)
		if err != nil {
			return "", fmt.Errorf("resolve stylesheet path: %w", err)
		}
		if _, err := os.Stat(explicit); err != nil {
			return "", fmt.Errorf("%w: %s", ErrNotFound, explicit)
		}
		path = explicit
	} else {
		path = Find(filepath.Dir(filePath), r.opts.Root)
		if path == "" && r.opts.Fallback == nil {
			return "", fmt.Errorf("%w for %s", ErrNotFound, filePath)
		}
	}

	r.logger.DebugContext(ctx, "resolved stylesheet", "file", filePath, "stylesheet", path)
	r.paths.Set(ctx, key, path, r.opts.TTL)
	return path, nil
}

func (r *Resolver) loadEnv(ctx context.Context, path string) (classorder.Env, error) {
	sheet := r.opts.Fallback
	if path != "" {
		var err error
		if sheet, err = Load(path); err != nil {
			return classorder.Env{}, err
		}
	}

	var script *rulescript.RuleScript
	if r.opts.RulesScript != "" && r.opts.Oracle != config.OracleNative {
		var err error
		if script, err = rulescript.LoadRuleScript(r.opts.RulesScript, r.logger); err != nil {
			return classorder.Env{}, err
		}
	}

	r.logger.DebugContext(ctx, "loaded stylesheet", "stylesheet", path, "oracle", r.opts.Oracle, "rules_script", r.opts.RulesScript)
	return NewEnv(NewContext(sheet), r.opts.Oracle, script), nil
}

// Find walks up from dir looking for a stylesheet file. The search stops
// after root when root is an ancestor of dir. Returns "" when none is found.
func Find(dir, root string) string {
	dir, err := filepath.Abs(dir)
	if err != nil {
		return ""
	}
	if root != "" {
		if root, err = filepath.Abs(root); err != nil {
			root = ""
		}
	}

	for {
		for _, name := range config.StylesheetFileNames {
			candidate := filepath.Join(dir, name)
			if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
				return candidate
			}
		}
		if dir == root {
			return ""
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}
