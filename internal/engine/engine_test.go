package engine

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Trapfether/tailwind-raw-reorder/internal/config"
	"github.com/Trapfether/tailwind-raw-reorder/internal/testutil"
	"github.com/Trapfether/tailwind-raw-reorder/pkg/classorder"
	"github.com/Trapfether/tailwind-raw-reorder/pkg/matcher"
)

func newTestEngine(t *testing.T, root string, project config.ProjectConfig) *Engine {
	t.Helper()
	e, err := New(Config{Project: project, Root: root, Logger: testutil.NewTestLogger(t)})
	require.NoError(t, err)
	return e
}

func projectRoot(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	testutil.WriteFile(t, filepath.Join(root, "tailwind.order.yaml"), testutil.Stylesheet)
	return root
}

func TestNew_InvalidConfig(t *testing.T) {
	_, err := New(Config{Project: config.ProjectConfig{
		ClassRegex: map[string]matcher.LanguageConfig{"html": matcher.Pattern("(")},
	}})
	var patternErr *matcher.PatternError
	require.ErrorAs(t, err, &patternErr)

	_, err = New(Config{Project: config.ProjectConfig{Oracle: "magic"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid oracle")
}

func TestEngine_LanguageAndMatchers(t *testing.T) {
	e := newTestEngine(t, t.TempDir(), config.ProjectConfig{
		Languages: map[string]string{"svx": "svelte"},
	})

	lang, ok := e.LanguageFor("/x/page.svx")
	assert.True(t, ok)
	assert.Equal(t, "svelte", lang)

	_, ok = e.LanguageFor("/x/notes.txt")
	assert.False(t, ok)

	// unknown languages use the html patterns
	assert.Equal(t, e.Matchers(config.FallbackLanguage), e.Matchers("liquid"))
	assert.NotEqual(t, e.Matchers("html"), e.Matchers("css"))
}

func TestEngine_Matchers_UnsetLanguage(t *testing.T) {
	e := newTestEngine(t, t.TempDir(), config.ProjectConfig{
		ClassRegex: map[string]matcher.LanguageConfig{
			"css":    nil,
			"vue":    matcher.Pattern(""),
			"svelte": matcher.List{},
		},
	})

	html := e.Matchers(config.FallbackLanguage)
	require.NotEmpty(t, html)
	assert.Equal(t, html, e.Matchers("css"))
	assert.Equal(t, html, e.Matchers("vue"))
	assert.Empty(t, e.Matchers("svelte"), "an empty list disables the language")
}

func TestEngine_SortText(t *testing.T) {
	root := projectRoot(t)
	e := newTestEngine(t, root, config.ProjectConfig{})
	ctx := context.Background()

	tests := []struct {
		name string
		lang string
		in   string
		want string
	}{
		{
			name: "html",
			lang: "html",
			in:   `<div class="m-2 p-4 flex"><span class='hover:p-2 block'></span></div>`,
			want: `<div class="flex p-4 m-2"><span class='block hover:p-2'></span></div>`,
		},
		{
			name: "jsx",
			lang: "javascriptreact",
			in:   `<a className="p-1 flex" /> ; clsx("m-1 block", 'p-2 flex')`,
			want: `<a className="flex p-1" /> ; clsx("block m-1", 'flex p-2')`,
		},
		{
			name: "css apply",
			lang: "css",
			in:   ".x { @apply m-2 flex; }",
			want: ".x { @apply flex m-2; }",
		},
		{
			name: "templates are left alone",
			lang: "html",
			in:   `<div class="m-2 {{ extra }} flex">`,
			want: `<div class="m-2 {{ extra }} flex">`,
		},
		{
			name: "unknown classes first",
			lang: "html",
			in:   `<div class="p-4 custom flex">`,
			want: `<div class="custom flex p-4">`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, _, err := e.SortText(ctx, filepath.Join(root, "index.html"), tt.lang, tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEngine_SortText_RulesOracle(t *testing.T) {
	root := projectRoot(t)
	e := newTestEngine(t, root, config.ProjectConfig{Oracle: config.OracleRules})
	ctx := context.Background()
	file := filepath.Join(root, "index.html")

	env, _, err := e.Resolver().Resolve(ctx, file)
	require.NoError(t, err)
	_, native := env.Context.(classorder.Ranker)
	assert.False(t, native, "rules mode ranks through generated rules")
	require.NotNil(t, env.GenerateRules)

	got, _, err := e.SortText(ctx, file, "html", `<div class="m-2 peer custom flex group p-4">`)
	require.NoError(t, err)
	assert.Equal(t, `<div class="custom peer group flex p-4 m-2">`, got)
}

func TestEngine_SortSelection(t *testing.T) {
	root := projectRoot(t)
	e := newTestEngine(t, root, config.ProjectConfig{})
	ctx := context.Background()

	got, ok, err := e.SortSelection(ctx, filepath.Join(root, "a.html"), "html", "m-2 flex p-4")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "flex p-4 m-2", got)

	_, ok, err = e.SortSelection(ctx, filepath.Join(root, "a.html"), "html", "   ")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestEngine_SortFile(t *testing.T) {
	root := projectRoot(t)
	path := filepath.Join(root, "pages", "index.html")
	testutil.WriteFile(t, path, `<div class="m-2 flex"></div>`)
	require.NoError(t, os.Chmod(path, 0o600))

	e := newTestEngine(t, root, config.ProjectConfig{})
	ctx := context.Background()

	result, err := e.SortFile(ctx, path, FileOptions{})
	require.NoError(t, err)
	assert.True(t, result.Changed())
	assert.False(t, result.Written)
	assert.Equal(t, "html", result.Language)
	assert.Equal(t, filepath.Join(root, "tailwind.order.yaml"), result.Stylesheet)
	assert.Len(t, result.Edits, 1)
	assert.Equal(t, `<div class="m-2 flex"></div>`, testutil.ReadFile(t, path))

	result, err = e.SortFile(ctx, path, FileOptions{Write: true})
	require.NoError(t, err)
	assert.True(t, result.Written)
	assert.Equal(t, `<div class="flex m-2"></div>`, testutil.ReadFile(t, path))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	// sorting is idempotent
	result, err = e.SortFile(ctx, path, FileOptions{Write: true})
	require.NoError(t, err)
	assert.False(t, result.Changed())
	assert.False(t, result.Written)
}

func TestEngine_SortFile_LanguageOverride(t *testing.T) {
	root := projectRoot(t)
	path := filepath.Join(root, "styles.txt")
	testutil.WriteFile(t, path, ".a { @apply m-2 flex; }")

	e := newTestEngine(t, root, config.ProjectConfig{})
	result, err := e.SortFile(context.Background(), path, FileOptions{Language: "css"})
	require.NoError(t, err)
	assert.Equal(t, ".a { @apply flex m-2; }", result.Sorted)

	_, err = e.SortFile(context.Background(), filepath.Join(root, "missing.html"), FileOptions{})
	assert.ErrorIs(t, err, os.ErrNotExist)
}
