// Package starlark runs user rule scripts that decide how classes rank.
//
// A rule script is a Starlark file defining generate_rules(candidates, ctx),
// which returns the rules the candidate classes expand to. It may also set
// prefix, either a string or a function of one class name, to override the
// stylesheet prefix.
package starlark

import (
	"errors"
	"fmt"
	"log/slog"
	"math/big"
	"os"
	"sync/atomic"

	"go.starlark.net/starlark"
	"go.starlark.net/syntax"

	"github.com/Trapfether/tailwind-raw-reorder/pkg/classorder"
)

// GenerateRulesFunc is the name of the function a rule script must define.
const GenerateRulesFunc = "generate_rules"

// PrefixGlobal is the optional prefix override a rule script may define.
const PrefixGlobal = "prefix"

// LoadError represents an error loading a rule script.
type LoadError struct {
	File    string
	Message string
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("rule script %s: %s", e.File, e.Message)
}

// RuleScript is a loaded rule script. It is safe for concurrent use.
type RuleScript struct {
	path     string
	generate starlark.Callable
	prefix   starlark.Value
	pool     *ThreadPool
	logger   *slog.Logger
	calls    atomic.Uint64
}

// LoadRuleScript executes the script at path and returns its rule generator.
func LoadRuleScript(path string, logger *slog.Logger) (*RuleScript, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, &LoadError{File: path, Message: err.Error()}
	}
	return ParseRuleScript(path, src, logger)
}

// ParseRuleScript executes src as the rule script named path.
func ParseRuleScript(path string, src []byte, logger *slog.Logger) (*RuleScript, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	pool := NewThreadPool(0, func(_ *starlark.Thread, msg string) {
		logger.Debug("rule script output", "file", path, "msg", msg)
	})
	thread := pool.Get("load:" + path)
	defer pool.Put(thread)

	globals, err := starlark.ExecFileOptions(&syntax.FileOptions{}, thread, path, src, Predeclared())
	if err != nil {
		return nil, &LoadError{File: path, Message: err.Error()}
	}
	globals.Freeze()

	fn, ok := globals[GenerateRulesFunc].(starlark.Callable)
	if !ok {
		return nil, &LoadError{File: path, Message: fmt.Sprintf("must define %s(candidates, ctx)", GenerateRulesFunc)}
	}

	s := &RuleScript{path: path, generate: fn, pool: pool, logger: logger}
	if p, ok := globals[PrefixGlobal]; ok {
		switch p.(type) {
		case starlark.String, starlark.Callable:
			s.prefix = p
		default:
			return nil, &LoadError{File: path, Message: fmt.Sprintf("%s must be a string or function, got %s", PrefixGlobal, p.Type())}
		}
	}
	return s, nil
}

// Path returns the script file.
func (s *RuleScript) Path() string { return s.path }

// GenerateRules implements classorder.RuleGenerator. Script errors are logged
// and produce no rules.
func (s *RuleScript) GenerateRules(candidates []string, ctx classorder.Context) []classorder.Rule {
	thread := s.pool.Get(fmt.Sprintf("%s#%d", s.path, s.calls.Add(1)))
	defer s.pool.Put(thread)

	result, err := starlark.Call(thread, s.generate, starlark.Tuple{StringList(candidates), NewContextValue(ctx)}, nil)
	if err != nil {
		s.logger.Warn("rule script failed", "file", s.path, "candidates", candidates, "error", errorMessage(err))
		return nil
	}

	rules, err := ToRules(result)
	if err != nil {
		s.logger.Warn("rule script returned invalid rules", "file", s.path, "candidates", candidates, "error", err)
		return nil
	}
	return rules
}

// Bind returns ctx with the script's prefix override applied. Without an
// override the stylesheet prefix is kept.
func (s *RuleScript) Bind(ctx classorder.Context) classorder.Context {
	return boundContext{base: ctx, script: s}
}

func (s *RuleScript) applyPrefix(class string, fallback classorder.Prefix) string {
	switch p := s.prefix.(type) {
	case starlark.String:
		return string(p) + class
	case starlark.Callable:
		thread := s.pool.Get(s.path + "#prefix")
		defer s.pool.Put(thread)

		v, err := starlark.Call(thread, p, starlark.Tuple{starlark.String(class)}, nil)
		if err == nil {
			if out, ok := starlark.AsString(v); ok {
				return out
			}
			err = fmt.Errorf("%s must return a string, got %s", PrefixGlobal, v.Type())
		}
		s.logger.Warn("rule script prefix failed", "file", s.path, "class", class, "error", errorMessage(err))
	}
	if fallback == nil {
		return class
	}
	return fallback.Apply(class)
}

type boundContext struct {
	base   classorder.Context
	script *RuleScript
}

func (b boundContext) Prefix() classorder.Prefix {
	var fallback classorder.Prefix
	if b.base != nil {
		fallback = b.base.Prefix()
	}
	if b.script.prefix == nil {
		if fallback == nil {
			return classorder.LiteralPrefix("")
		}
		return fallback
	}
	return classorder.PrefixFunc(func(class string) string {
		return b.script.applyPrefix(class, fallback)
	})
}

func (b boundContext) LayerOrder(layer string) *big.Int {
	if b.base == nil {
		return nil
	}
	return b.base.LayerOrder(layer)
}

func (b boundContext) Unwrap() classorder.Context { return b.base }

func errorMessage(err error) string {
	var evalErr *starlark.EvalError
	if errors.As(err, &evalErr) {
		return evalErr.Backtrace()
	}
	return err.Error()
}

var _ classorder.RuleGenerator = (*RuleScript)(nil)
