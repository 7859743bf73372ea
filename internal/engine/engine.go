// Package engine sorts Tailwind class lists in files and workspaces.
// It ties together language detection, class patterns, stylesheet
// resolution and the document rewriter.
package engine

import (
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/Trapfether/tailwind-raw-reorder/internal/config"
	"github.com/Trapfether/tailwind-raw-reorder/internal/stylesheet"
	"github.com/Trapfether/tailwind-raw-reorder/pkg/matcher"
)

// Engine sorts classes according to a project configuration. It is safe for
// concurrent use.
type Engine struct {
	project  config.ProjectConfig
	root     string
	resolver *stylesheet.Resolver
	matchers map[string][]*matcher.Matcher
	logger   *slog.Logger
}

// Config holds engine configuration.
type Config struct {
	// Project is the loaded project configuration. Unset fields get defaults.
	Project config.ProjectConfig
	// Root is the project root. It bounds stylesheet discovery and anchors
	// ignore globs. Empty means the current directory.
	Root string
	// Resolver overrides the stylesheet resolver built from Project.
	Resolver *stylesheet.Resolver
	// Logger is the structured logger (optional, uses discard if nil)
	Logger *slog.Logger
}

// New validates the configuration and compiles every language's patterns.
func New(cfg Config) (*Engine, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	project := cfg.Project
	project.ApplyDefaults()
	if err := project.Validate(); err != nil {
		return nil, err
	}

	matchers, err := matcher.CompileAll(project.ClassRegex)
	if err != nil {
		return nil, fmt.Errorf("invalid class_regex: %w", err)
	}
	for lang, lc := range project.ClassRegex {
		if unsetLanguage(lc) {
			delete(matchers, lang)
		}
	}

	root := cfg.Root
	if root != "" {
		abs, err := filepath.Abs(root)
		if err != nil {
			return nil, fmt.Errorf("resolve root: %w", err)
		}
		root = abs
	}

	resolver := cfg.Resolver
	if resolver == nil {
		resolver = stylesheet.NewResolver(stylesheet.Options{
			Explicit:    project.Stylesheet,
			Root:        root,
			RulesScript: project.RulesScript,
			Oracle:      project.Oracle,
			Fallback:    stylesheet.Default(),
			Logger:      logger,
		})
	}

	logger.Debug("initializing engine", "root", root, "languages", len(matchers), "oracle", project.Oracle)

	return &Engine{
		project:  project,
		root:     root,
		resolver: resolver,
		matchers: matchers,
		logger:   logger,
	}, nil
}

// Project returns the effective project configuration.
func (e *Engine) Project() config.ProjectConfig { return e.project }

// Root returns the absolute project root, or "" when unset.
func (e *Engine) Root() string { return e.root }

// Resolver returns the stylesheet resolver.
func (e *Engine) Resolver() *stylesheet.Resolver { return e.resolver }

// LanguageFor returns the language id for path. ok is false when the
// extension is unknown.
func (e *Engine) LanguageFor(path string) (lang string, ok bool) {
	return config.LanguageForPath(path, e.project.Languages)
}

// Matchers returns the compiled matchers for lang. Languages without their
// own class_regex entry, or with a null or empty pattern, use the html
// patterns.
func (e *Engine) Matchers(lang string) []*matcher.Matcher {
	if m, ok := e.matchers[lang]; ok {
		return m
	}
	return e.matchers[config.FallbackLanguage]
}

// unsetLanguage reports whether a class_regex entry counts as absent: null or
// an empty pattern string. An explicit empty list still means no matchers.
func unsetLanguage(lc matcher.LanguageConfig) bool {
	switch v := lc.(type) {
	case nil:
		return true
	case matcher.Pattern:
		return v == ""
	}
	return false
}

// Languages returns the languages with configured patterns.
func (e *Engine) Languages() map[string][]*matcher.Matcher {
	return e.matchers
}
