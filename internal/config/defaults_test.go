package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/dlclark/regexp2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Trapfether/tailwind-raw-reorder/pkg/matcher"
)

func TestDefaultClassRegexCompiles(t *testing.T) {
	compiled, err := matcher.CompileAll(DefaultClassRegex())
	require.NoError(t, err)
	assert.NotEmpty(t, compiled[FallbackLanguage])

	for lang := range DefaultClassRegex() {
		assert.NotEmpty(t, compiled[lang], "language %s has no matchers", lang)
	}
}

// truthMatches collects the last non-empty group of every match of a
// reference pattern.
func truthMatches(t *testing.T, pattern, text string) []string {
	t.Helper()
	re := regexp2.MustCompile(pattern, regexp2.ECMAScript)

	var out []string
	m, err := re.FindStringMatch(text)
	require.NoError(t, err)
	for m != nil {
		groups := m.Groups()
		for i := len(groups) - 1; i > 0; i-- {
			if groups[i].Length > 0 {
				out = append(out, groups[i].String())
				break
			}
		}
		m, err = re.FindNextMatch(m)
		require.NoError(t, err)
	}
	return out
}

func extractAll(t *testing.T, lang, text string) []string {
	t.Helper()
	matchers, err := matcher.Compile(DefaultClassRegex()[lang])
	require.NoError(t, err)

	var out []string
	for _, m := range matchers {
		require.NoError(t, m.Extract(text, func(s string, offset int) {
			assert.Equal(t, s, text[offset:offset+len(s)])
			out = append(out, s)
		}))
	}
	return out
}

func TestDefaultClassRegex_Examples(t *testing.T) {
	tests := []struct {
		name  string
		file  string
		lang  string
		truth string
	}{
		{
			name:  "html",
			file:  "example.html",
			lang:  "html",
			truth: `class=(?:"([^"{}<>]+)"|'([^'{}<>]+)')`,
		},
		{
			name:  "javascript react",
			file:  "example.react.jsx",
			lang:  "javascriptreact",
			truth: "(?:class(?:Name)?|tw)\\s*=\\s*{?([\"'`])((?:(?:[^{}<>](?!\\1))|\\\\\\1)+[^{}<>])\\1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := os.ReadFile(filepath.Join("testdata", tt.file))
			require.NoError(t, err)
			text := string(data)

			want := truthMatches(t, tt.truth, text)
			require.NotEmpty(t, want)
			assert.Equal(t, want, extractAll(t, tt.lang, text))
		})
	}
}

func TestDefaultClassRegex_Snippets(t *testing.T) {
	tests := []struct {
		name string
		lang string
		text string
		want []string
	}{
		{
			name: "clsx call arguments",
			lang: "typescript",
			text: `const c = clsx("p-4 flex", cond && 'text-lg', ` + "`m-2`" + `)`,
			want: []string{"p-4 flex", "text-lg", "m-2"},
		},
		{
			name: "vue bound array",
			lang: "vue",
			text: `<div class="p-2 flex" :class="['text-lg mb-1', active ? 'ring' : '']"></div>`,
			want: []string{"p-2 flex", "text-lg mb-1", "ring", "''"},
		},
		{
			name: "css apply",
			lang: "css",
			text: ".btn { @apply px-4 py-2 rounded !important; }\n.card{@apply shadow p-4;}",
			want: []string{"px-4 py-2 rounded", "shadow p-4"},
		},
		{
			name: "template expression is not a class list",
			lang: "html",
			text: `<div class="{{ classes }}"></div>`,
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, extractAll(t, tt.lang, tt.text))
		})
	}
}

func TestLanguageForPath(t *testing.T) {
	tests := []struct {
		name      string
		path      string
		overrides map[string]string
		want      string
		wantOK    bool
	}{
		{name: "html", path: "/a/index.html", want: "html", wantOK: true},
		{name: "case insensitive", path: "Page.HTM", want: "html", wantOK: true},
		{name: "blade beats php", path: "views/home.blade.php", want: "blade", wantOK: true},
		{name: "plain php", path: "index.php", want: "php", wantOK: true},
		{name: "tsx", path: "src/App.tsx", want: "typescriptreact", wantOK: true},
		{name: "unknown", path: "README", wantOK: false},
		{name: "override adds extension", path: "page.svx", overrides: map[string]string{"svx": "svelte"}, want: "svelte", wantOK: true},
		{name: "override replaces default", path: "a.md", overrides: map[string]string{".md": "html"}, want: "html", wantOK: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := LanguageForPath(tt.path, tt.overrides)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestExtensionTable(t *testing.T) {
	table := ExtensionTable(map[string]string{"SVX": "svelte", ".md": "html"})

	assert.Equal(t, "svelte", table[".svx"])
	assert.Equal(t, "html", table[".md"])
	assert.Equal(t, "vue", table[".vue"])
	assert.Equal(t, "markdown", DefaultLanguages[".md"], "defaults must not be modified")
}
