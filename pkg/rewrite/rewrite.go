// Package rewrite turns class-list extraction and sorting into text edits.
package rewrite

import (
	"slices"
	"strings"

	"github.com/dlclark/regexp2"

	"github.com/Trapfether/tailwind-raw-reorder/pkg/classorder"
	"github.com/Trapfether/tailwind-raw-reorder/pkg/matcher"
)

// Edit replaces text[Start:End] with NewText. Offsets are bytes.
type Edit struct {
	Start   int
	End     int
	NewText string
}

// Document sorts every class list the matchers find in text and returns
// one edit per fragment whose sorted form differs. Edits are ordered by
// Start; an edit overlapping an earlier one is dropped.
func Document(text string, matchers []*matcher.Matcher, oracle classorder.Oracle) ([]Edit, error) {
	var edits []Edit

	for _, m := range matchers {
		opts := classorder.Options{
			Separator:   m.Separator,
			Replacement: m.Replacement,
			Oracle:      oracle,
		}
		err := m.Extract(text, func(fragment string, offset int) {
			sorted := classorder.SortClasses(fragment, opts)
			if sorted == fragment {
				return
			}
			edits = append(edits, Edit{
				Start:   offset,
				End:     offset + len(fragment),
				NewText: sorted,
			})
		})
		if err != nil {
			return nil, err
		}
	}

	return normalize(edits), nil
}

func normalize(edits []Edit) []Edit {
	slices.SortStableFunc(edits, func(a, b Edit) int {
		return a.Start - b.Start
	})

	out := edits[:0]
	end := -1
	for _, e := range edits {
		if e.Start < end {
			continue
		}
		out = append(out, e)
		end = e.End
	}
	return out
}

// Apply returns text with edits applied. Edits must be sorted and must not
// overlap, as returned by Document.
func Apply(text string, edits []Edit) string {
	if len(edits) == 0 {
		return text
	}

	var b strings.Builder
	b.Grow(len(text))
	last := 0
	for _, e := range edits {
		b.WriteString(text[last:e.Start])
		b.WriteString(e.NewText)
		last = e.End
	}
	b.WriteString(text[last:])
	return b.String()
}

// Sort is Document followed by Apply.
func Sort(text string, matchers []*matcher.Matcher, oracle classorder.Oracle) (string, []Edit, error) {
	edits, err := Document(text, matchers, oracle)
	if err != nil {
		return "", nil, err
	}
	return Apply(text, edits), edits, nil
}

const (
	guardTemplate    = `(?:[a-zA-Z][a-zA-Z\/_\-:]+(?:\[[a-zA-Z\/_\-"'\\:\.]\])?(%s)*)+`
	defaultSeparator = `\s`
)

// Selection sorts text as a single class list, as when a user selects a
// class attribute value by hand. The first matcher whose separator makes
// text look like a class list decides the separator and replacement; with no
// matchers the whitespace defaults apply. ok is false when text does not
// look like a class list.
func Selection(text string, matchers []*matcher.Matcher, oracle classorder.Oracle) (sorted string, ok bool) {
	candidates := matchers
	if len(candidates) == 0 {
		candidates = []*matcher.Matcher{{}}
	}

	for _, m := range candidates {
		if !looksLikeClassList(text, m.Separator) {
			continue
		}
		return classorder.SortClasses(text, classorder.Options{
			Separator:   m.Separator,
			Replacement: m.Replacement,
			Oracle:      oracle,
		}), true
	}
	return text, false
}

func looksLikeClassList(text string, separator *regexp2.Regexp) bool {
	sep := defaultSeparator
	if separator != nil {
		sep = separator.String()
	}
	guard, err := regexp2.Compile(strings.Replace(guardTemplate, "%s", sep, 1), regexp2.ECMAScript)
	if err != nil {
		return false
	}
	ok, err := guard.MatchString(text)
	return err == nil && ok
}
