// Package matcher compiles per-language class patterns and extracts class
// lists from source text.
//
// A language is configured with a LanguageConfig, which is one of:
//
//   - Pattern: a single pattern string
//   - Chain: patterns applied in nested sequence, each narrowing the text the
//     next one searches
//   - Structured: a chain plus an optional token separator and replacement
//   - List: several of the above, each compiled into its own Matcher
//
// Patterns use ECMAScript syntax (backreferences and lookaround included), so
// values copied from editor settings compile unchanged.
package matcher

import (
	"fmt"
	"reflect"

	"github.com/go-viper/mapstructure/v2"
)

// LanguageConfig is the class pattern setting for one language.
// A nil LanguageConfig compiles to no matchers.
type LanguageConfig interface {
	compile() ([]*Matcher, error)
}

// Pattern is a single pattern string.
type Pattern string

// Chain is an ordered list of patterns applied in nested sequence.
type Chain []string

// Structured is a chain with a custom token separator and replacement.
// Separator nil means "split on whitespace"; Replacement nil or empty falls
// back to the separator source.
type Structured struct {
	Regex       []string
	Separator   *string
	Replacement *string
}

// List holds several configs; each element yields exactly one Matcher.
type List []LanguageConfig

// ParseLanguageConfig converts a decoded settings value (YAML or JSON) into
// a LanguageConfig.
func ParseLanguageConfig(raw any) (LanguageConfig, error) {
	switch v := raw.(type) {
	case nil:
		return nil, nil
	case LanguageConfig:
		return v, nil
	case string:
		return Pattern(v), nil
	case []string:
		return Chain(v), nil
	case []any:
		if strs, ok := stringSlice(v); ok {
			return Chain(strs), nil
		}
		list := make(List, 0, len(v))
		for i, item := range v {
			cfg, err := parseListItem(item)
			if err != nil {
				return nil, fmt.Errorf("item %d: %w", i, err)
			}
			list = append(list, cfg)
		}
		return list, nil
	case map[string]any:
		return parseStructured(v)
	default:
		return nil, fmt.Errorf("unsupported class pattern value of type %T", raw)
	}
}

func parseListItem(item any) (LanguageConfig, error) {
	switch v := item.(type) {
	case string:
		return Pattern(v), nil
	case []any:
		strs, ok := stringSlice(v)
		if !ok {
			return nil, fmt.Errorf("nested pattern lists must contain only strings")
		}
		return Chain(strs), nil
	case map[string]any:
		return parseStructured(v)
	default:
		return nil, fmt.Errorf("unsupported list item of type %T", item)
	}
}

func parseStructured(m map[string]any) (Structured, error) {
	var s Structured

	switch r := m["regex"].(type) {
	case nil:
	case string:
		s.Regex = []string{r}
	case []any:
		strs, ok := stringSlice(r)
		if !ok {
			return s, fmt.Errorf("regex list must contain only strings")
		}
		s.Regex = strs
	case []string:
		s.Regex = r
	default:
		return s, fmt.Errorf("regex must be a string or a list of strings, got %T", r)
	}

	if sep, ok := m["separator"].(string); ok {
		s.Separator = &sep
	}
	if rep, ok := m["replacement"].(string); ok {
		s.Replacement = &rep
	}
	return s, nil
}

func stringSlice(items []any) ([]string, bool) {
	out := make([]string, 0, len(items))
	for _, item := range items {
		s, ok := item.(string)
		if !ok {
			return nil, false
		}
		out = append(out, s)
	}
	return out, true
}

var languageConfigType = reflect.TypeOf((*LanguageConfig)(nil)).Elem()

// DecodeHook lets mapstructure (and koanf) decode raw settings values into
// LanguageConfig fields.
func DecodeHook() mapstructure.DecodeHookFuncType {
	return func(_ reflect.Type, to reflect.Type, data any) (any, error) {
		if to != languageConfigType {
			return data, nil
		}
		return ParseLanguageConfig(data)
	}
}
