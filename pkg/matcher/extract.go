package matcher

import (
	"strings"
	"unicode/utf8"

	"github.com/dlclark/regexp2"
)

// Match is one extracted class-list fragment. Offset is the byte offset of
// Text in the top-level text passed to Extract, at every chain depth.
type Match struct {
	Text   string
	Offset int
}

// Extract runs chain over text and calls onMatch for every fragment the last
// pattern yields, left to right. Match errors (timeouts) end extraction
// silently; use ExtractErr to observe them.
func Extract(chain []*regexp2.Regexp, text string, onMatch func(text string, offset int)) {
	_ = ExtractErr(chain, text, onMatch)
}

// ExtractErr is Extract but reports the first match error. Fragments found
// before the error have already been delivered.
func ExtractErr(chain []*regexp2.Regexp, text string, onMatch func(text string, offset int)) error {
	if len(chain) == 0 {
		return nil
	}
	return extract(chain, text, 0, onMatch)
}

// Extract runs the matcher's pattern chain over text.
func (m *Matcher) Extract(text string, onMatch func(text string, offset int)) error {
	return ExtractErr(m.Patterns, text, onMatch)
}

// Matches collects the matcher's fragments in document order.
func (m *Matcher) Matches(text string) ([]Match, error) {
	var out []Match
	err := m.Extract(text, func(t string, offset int) {
		out = append(out, Match{Text: t, Offset: offset})
	})
	return out, err
}

func extract(chain []*regexp2.Regexp, text string, base int, onMatch func(string, int)) error {
	re, tail := chain[0], chain[1:]
	idx := newRuneIndex(text)

	m, err := re.FindStringMatch(text)
	for m != nil {
		start := idx.byteOffset(m.Index)
		whole := text[start:idx.byteOffset(m.Index+m.Length)]

		value, valueStart := whole, start
		for _, g := range m.Groups()[1:] {
			if len(g.Captures) == 0 || g.Length == 0 {
				continue
			}
			gs := idx.byteOffset(g.Index)
			value = text[gs:idx.byteOffset(g.Index+g.Length)]
			if i := strings.LastIndex(whole, value); i >= 0 {
				valueStart = start + i
			} else {
				// lookaround groups can capture outside the match
				valueStart = gs
			}
			break
		}

		if len(tail) > 0 {
			if err := extract(tail, value, base+valueStart, onMatch); err != nil {
				return err
			}
		} else {
			onMatch(value, base+valueStart)
		}

		m, err = re.FindNextMatch(m)
	}
	return err
}

// runeIndex maps regexp2's rune positions back to byte offsets.
type runeIndex struct {
	offsets []int // nil when text is ASCII
}

func newRuneIndex(text string) runeIndex {
	if utf8.RuneCountInString(text) == len(text) {
		return runeIndex{}
	}
	offsets := make([]int, 0, len(text)+1)
	for i := range text {
		offsets = append(offsets, i)
	}
	offsets = append(offsets, len(text))
	return runeIndex{offsets: offsets}
}

func (r runeIndex) byteOffset(runeIdx int) int {
	if r.offsets == nil {
		return runeIdx
	}
	return r.offsets[runeIdx]
}
