package stylesheet

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseCandidate(t *testing.T) {
	tests := []struct {
		class  string
		prefix string
		want   candidate
		ok     bool
	}{
		{class: "p-4", want: candidate{variants: []string{}, utility: "p-4"}, ok: true},
		{class: "hover:md:p-4", want: candidate{variants: []string{"hover", "md"}, utility: "p-4"}, ok: true},
		{class: "-m-2", want: candidate{variants: []string{}, utility: "m-2", negative: true}, ok: true},
		{class: "!p-4", want: candidate{variants: []string{}, utility: "p-4", important: true}, ok: true},
		{class: "p-4!", want: candidate{variants: []string{}, utility: "p-4", important: true}, ok: true},
		{class: "bg-[url(a:b)]", want: candidate{variants: []string{}, utility: "bg-[url(a:b)]"}, ok: true},
		{class: "[&>*]:p-4", want: candidate{variants: []string{"[&>*]"}, utility: "p-4"}, ok: true},
		{class: "tw-p-4", prefix: "tw-", want: candidate{variants: []string{}, utility: "p-4"}, ok: true},
		{class: "-tw-m-2", prefix: "tw-", want: candidate{variants: []string{}, utility: "m-2", negative: true}, ok: true},
		{class: "tw--m-2", prefix: "tw-", want: candidate{variants: []string{}, utility: "m-2", negative: true}, ok: true},
		{class: "p-4", prefix: "tw-", ok: false},
		{class: "hover:", ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.class, func(t *testing.T) {
			got, ok := parseCandidate(tt.class, ":", tt.prefix)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestSplitOutsideBrackets(t *testing.T) {
	assert.Equal(t, []string{"a", "b", "c"}, splitOutsideBrackets("a:b:c", ":"))
	assert.Equal(t, []string{"a"}, splitOutsideBrackets("a", ":"))
	assert.Equal(t, []string{"[a:b]", "c"}, splitOutsideBrackets("[a:b]:c", ":"))
	assert.Equal(t, []string{"a", "b"}, splitOutsideBrackets("a__b", "__"))
}

func TestIsArbitraryVariant(t *testing.T) {
	assert.True(t, isArbitraryVariant("[&>*]"))
	assert.True(t, isArbitraryVariant("supports-[display:grid]"))
	assert.False(t, isArbitraryVariant("hover"))
	assert.False(t, isArbitraryVariant("[]"))
}
