package matcher

import (
	"fmt"
	"time"

	"github.com/dlclark/regexp2"
)

// DefaultMatchTimeout bounds a single pattern match. Class patterns written
// for backtracking engines can go exponential on unlucky input.
const DefaultMatchTimeout = 2 * time.Second

const (
	patternOptions   = regexp2.IgnoreCase | regexp2.ECMAScript
	separatorOptions = regexp2.ECMAScript
)

// Matcher is the compiled form of one LanguageConfig entry.
type Matcher struct {
	// Patterns is applied in nested sequence. Empty means no matches.
	Patterns []*regexp2.Regexp
	// Separator splits a fragment into tokens; nil means whitespace.
	Separator *regexp2.Regexp
	// Replacement joins sorted tokens; nil means a single space.
	Replacement *string
}

// PatternError reports a pattern that failed to compile.
type PatternError struct {
	Pattern string
	Err     error
}

func (e *PatternError) Error() string {
	return fmt.Sprintf("invalid class pattern %q: %v", e.Pattern, e.Err)
}

func (e *PatternError) Unwrap() error {
	return e.Err
}

// Compile turns a language setting into matchers. Invalid patterns are
// configuration errors and are returned as *PatternError.
func Compile(cfg LanguageConfig) ([]*Matcher, error) {
	if cfg == nil {
		return nil, nil
	}
	return cfg.compile()
}

// CompileAll compiles every language in settings, keyed by language id.
func CompileAll(settings map[string]LanguageConfig) (map[string][]*Matcher, error) {
	out := make(map[string][]*Matcher, len(settings))
	for lang, cfg := range settings {
		matchers, err := Compile(cfg)
		if err != nil {
			return nil, fmt.Errorf("language %s: %w", lang, err)
		}
		out[lang] = matchers
	}
	return out, nil
}

func (p Pattern) compile() ([]*Matcher, error) {
	re, err := compilePattern(string(p), patternOptions)
	if err != nil {
		return nil, err
	}
	return []*Matcher{{Patterns: []*regexp2.Regexp{re}}}, nil
}

func (c Chain) compile() ([]*Matcher, error) {
	if len(c) == 0 {
		return nil, nil
	}
	patterns, err := compilePatterns(c)
	if err != nil {
		return nil, err
	}
	return []*Matcher{{Patterns: patterns}}, nil
}

func (s Structured) compile() ([]*Matcher, error) {
	patterns, err := compilePatterns(s.Regex)
	if err != nil {
		return nil, err
	}
	m := &Matcher{Patterns: patterns}

	if s.Separator != nil {
		sep, err := compilePattern(*s.Separator, separatorOptions)
		if err != nil {
			return nil, err
		}
		m.Separator = sep
	}

	switch {
	case s.Replacement != nil && *s.Replacement != "":
		rep := *s.Replacement
		m.Replacement = &rep
	case s.Separator != nil:
		rep := *s.Separator
		m.Replacement = &rep
	}

	return []*Matcher{m}, nil
}

func (l List) compile() ([]*Matcher, error) {
	var out []*Matcher
	for _, item := range l {
		if item == nil {
			continue
		}
		matchers, err := item.compile()
		if err != nil {
			return nil, err
		}
		out = append(out, matchers...)
	}
	return out, nil
}

func compilePatterns(sources []string) ([]*regexp2.Regexp, error) {
	patterns := make([]*regexp2.Regexp, 0, len(sources))
	for _, src := range sources {
		re, err := compilePattern(src, patternOptions)
		if err != nil {
			return nil, err
		}
		patterns = append(patterns, re)
	}
	return patterns, nil
}

func compilePattern(src string, opts regexp2.RegexOptions) (*regexp2.Regexp, error) {
	re, err := regexp2.Compile(src, opts)
	if err != nil {
		return nil, &PatternError{Pattern: src, Err: err}
	}
	re.MatchTimeout = DefaultMatchTimeout
	return re, nil
}
