package classorder

import (
	"strings"

	"github.com/dlclark/regexp2"
)

// templateMarker marks fragments that contain template expressions. Those
// are left untouched since reordering could break the template.
const templateMarker = "{{"

// Options controls how a fragment is tokenized and rejoined.
type Options struct {
	// Separator splits tokens. nil splits on runs of whitespace.
	Separator *regexp2.Regexp
	// Replacement joins sorted tokens. nil joins with a single space.
	Replacement *string
	// Oracle ranks the tokens.
	Oracle Oracle
}

// SortClasses returns fragment with its class tokens in canonical order.
// Empty fragments and fragments containing a template marker are returned
// unchanged.
func SortClasses(fragment string, opts Options) string {
	if fragment == "" || strings.Contains(fragment, templateMarker) {
		return fragment
	}

	classes := Tokenize(fragment, opts.Separator)
	if opts.Oracle != nil {
		classes = SortClassList(classes, opts.Oracle)
	}

	replacement := " "
	if opts.Replacement != nil {
		replacement = *opts.Replacement
	}
	return strings.TrimFunc(strings.Join(classes, replacement), isSpace)
}

// isSpace reports whether r is whitespace as matched by \s in JavaScript
// patterns. It differs from unicode.IsSpace on U+0085 and U+FEFF.
func isSpace(r rune) bool {
	switch r {
	case '\t', '\n', '\v', '\f', '\r', ' ', 0xA0, 0x1680, 0x2028, 0x2029, 0x202F, 0x205F, 0x3000, 0xFEFF:
		return true
	}
	return r >= 0x2000 && r <= 0x200A
}

// Tokenize splits fragment on separator (whitespace when nil) and drops
// empty tokens.
func Tokenize(fragment string, separator *regexp2.Regexp) []string {
	if separator == nil {
		return strings.FieldsFunc(fragment, isSpace)
	}

	parts := split(separator, fragment)
	out := parts[:0]
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

// split divides s around matches of re. Captured groups of a match are
// spliced into the result, and an empty match at the start of a segment
// does not split. Tokens are sliced from s so invalid UTF-8 survives.
func split(re *regexp2.Regexp, s string) []string {
	runes := []rune(s)
	at := byteOffsets(s, len(runes))
	var out []string

	p, q := 0, 0
	for q < len(runes) {
		m, err := re.FindRunesMatchStartingAt(runes, q)
		if err != nil || m == nil || m.Index >= len(runes) {
			break
		}
		q = m.Index
		e := m.Index + m.Length
		if e == p {
			q++
			continue
		}

		out = append(out, s[at(p):at(q)])
		for _, g := range m.Groups()[1:] {
			if len(g.Captures) > 0 {
				out = append(out, s[at(g.Index):at(g.Index+g.Length)])
			}
		}
		p, q = e, e
	}

	return append(out, s[at(p):])
}

// byteOffsets maps rune indices of s (as []rune(s) counts them, one per
// invalid byte) to byte offsets. n is the rune count.
func byteOffsets(s string, n int) func(int) int {
	if n == len(s) {
		return func(i int) int { return i }
	}
	offsets := make([]int, 0, n+1)
	for i := range s {
		offsets = append(offsets, i)
	}
	offsets = append(offsets, len(s))
	return func(i int) int { return offsets[i] }
}
