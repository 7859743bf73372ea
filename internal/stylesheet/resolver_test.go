package stylesheet

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/Trapfether/tailwind-raw-reorder/internal/cachemanager"
	"github.com/Trapfether/tailwind-raw-reorder/internal/config"
	rulescript "github.com/Trapfether/tailwind-raw-reorder/internal/starlark"
	"github.com/Trapfether/tailwind-raw-reorder/pkg/classorder"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestFind(t *testing.T) {
	root := t.TempDir()
	nested := filepath.Join(root, "src", "pages")
	require.NoError(t, os.MkdirAll(nested, 0o755))

	assert.Empty(t, Find(nested, root))

	writeFile(t, filepath.Join(root, ".tailwind-order.yaml"), smallSheet)
	assert.Equal(t, filepath.Join(root, ".tailwind-order.yaml"), Find(nested, root))

	// the first file name wins within a directory, the nearest directory wins overall
	writeFile(t, filepath.Join(root, "tailwind.order.yaml"), smallSheet)
	assert.Equal(t, filepath.Join(root, "tailwind.order.yaml"), Find(nested, root))
	writeFile(t, filepath.Join(root, "src", "tailwind.order.yml"), smallSheet)
	assert.Equal(t, filepath.Join(root, "src", "tailwind.order.yml"), Find(nested, root))

	// the search stops at root
	assert.Empty(t, Find(nested, filepath.Join(root, "src", "pages")))
}

func TestResolver_Discovery(t *testing.T) {
	root := t.TempDir()
	sheetPath := filepath.Join(root, "tailwind.order.yaml")
	writeFile(t, sheetPath, smallSheet)
	file := filepath.Join(root, "a", "b", "index.html")

	r := NewResolver(Options{Root: root})
	env, path, err := r.Resolve(context.Background(), file)
	require.NoError(t, err)
	assert.Equal(t, sheetPath, path)

	got := classorder.SortClassList([]string{"p-4", "flex", "btn"}, env)
	assert.Equal(t, []string{"btn", "flex", "p-4"}, got)
}

func TestResolver_NotFound(t *testing.T) {
	root := t.TempDir()
	file := filepath.Join(root, "index.html")

	_, _, err := NewResolver(Options{Root: root}).Resolve(context.Background(), file)
	assert.ErrorIs(t, err, ErrNotFound)

	_, _, err = NewResolver(Options{Explicit: filepath.Join(root, "nope.yaml")}).Resolve(context.Background(), file)
	assert.ErrorIs(t, err, ErrNotFound)

	env, path, err := NewResolver(Options{Root: root, Fallback: Default()}).Resolve(context.Background(), file)
	require.NoError(t, err)
	assert.Empty(t, path)
	assert.Equal(t, []string{"flex", "p-4"}, classorder.SortClassList([]string{"p-4", "flex"}, env))
}

func TestResolver_Explicit(t *testing.T) {
	root := t.TempDir()
	explicit := filepath.Join(root, "styles", "order.yaml")
	writeFile(t, explicit, smallSheet)
	// a nearer stylesheet is ignored when one is configured
	writeFile(t, filepath.Join(root, "app", "tailwind.order.yaml"), "layers: [{name: components}]\n")

	r := NewResolver(Options{Explicit: explicit})
	_, path, err := r.Resolve(context.Background(), filepath.Join(root, "app", "index.html"))
	require.NoError(t, err)
	assert.Equal(t, explicit, path)
}

func TestResolver_CachesUntilInvalidated(t *testing.T) {
	root := t.TempDir()
	sheetPath := filepath.Join(root, "tailwind.order.yaml")
	writeFile(t, sheetPath, smallSheet)
	file := filepath.Join(root, "index.html")
	ctx := context.Background()

	r := NewResolver(Options{Root: root})
	env, _, err := r.Resolve(ctx, file)
	require.NoError(t, err)
	assert.Equal(t, []string{"flex", "p-4"}, classorder.SortClassList([]string{"p-4", "flex"}, env))

	// p now comes before flex
	writeFile(t, sheetPath, `
layers:
  - name: components
  - name: utilities
    utilities:
      - {name: p, values: ["*"]}
      - names: [flex]
`)
	env, _, err = r.Resolve(ctx, file)
	require.NoError(t, err)
	assert.Equal(t, []string{"flex", "p-4"}, classorder.SortClassList([]string{"p-4", "flex"}, env))

	r.Invalidate(ctx)
	env, _, err = r.Resolve(ctx, file)
	require.NoError(t, err)
	assert.Equal(t, []string{"p-4", "flex"}, classorder.SortClassList([]string{"flex", "p-4"}, env))
}

func TestResolver_LoadErrorsAreNotCached(t *testing.T) {
	root := t.TempDir()
	sheetPath := filepath.Join(root, "tailwind.order.yaml")
	writeFile(t, sheetPath, "variants: [a]\n")
	file := filepath.Join(root, "index.html")

	r := NewResolver(Options{Root: root})
	_, _, err := r.Resolve(context.Background(), file)
	var loadErr *LoadError
	require.ErrorAs(t, err, &loadErr)

	writeFile(t, sheetPath, smallSheet)
	_, _, err = r.Resolve(context.Background(), file)
	require.NoError(t, err)
}

func TestResolver_RulesScript(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "tailwind.order.yaml"), smallSheet)
	script := filepath.Join(root, "rules.star")
	writeFile(t, script, `
def generate_rules(candidates, ctx):
    if candidates[0] == "brand":
        return [ctx.layer_order["utilities"] - 1]
    return ctx.default_rules(candidates)
`)
	file := filepath.Join(root, "index.html")

	r := NewResolver(Options{Root: root, RulesScript: script})
	env, _, err := r.Resolve(context.Background(), file)
	require.NoError(t, err)
	assert.Equal(t, []string{"btn", "brand", "flex"}, classorder.SortClassList([]string{"flex", "brand", "btn"}, env))

	// native mode ignores the script
	r = NewResolver(Options{Root: root, RulesScript: script, Oracle: config.OracleNative})
	env, _, err = r.Resolve(context.Background(), file)
	require.NoError(t, err)
	assert.Equal(t, []string{"brand", "btn", "flex"}, classorder.SortClassList([]string{"flex", "brand", "btn"}, env))

	writeFile(t, script, "x = 1\n")
	r = NewResolver(Options{Root: root, RulesScript: script})
	_, _, err = r.Resolve(context.Background(), file)
	var loadErr *rulescript.LoadError
	require.ErrorAs(t, err, &loadErr)
}

func TestNewEnv(t *testing.T) {
	ctx := mustContext(t, smallSheet)
	script, err := rulescript.ParseRuleScript("r.star", []byte("def generate_rules(c, ctx):\n    return None\n"), nil)
	require.NoError(t, err)

	tests := []struct {
		name       string
		oracle     string
		script     *rulescript.RuleScript
		wantRanker bool
		wantScript bool
	}{
		{name: "auto without script", oracle: config.OracleAuto, wantRanker: true},
		{name: "auto with script", oracle: config.OracleAuto, script: script, wantScript: true},
		{name: "native with script", oracle: config.OracleNative, script: script, wantRanker: true},
		{name: "rules without script", oracle: config.OracleRules},
		{name: "rules with script", oracle: config.OracleRules, script: script, wantScript: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := NewEnv(ctx, tt.oracle, tt.script)
			_, isRanker := env.Context.(classorder.Ranker)
			assert.Equal(t, tt.wantRanker, isRanker)
			_, isScript := env.GenerateRules.(*rulescript.RuleScript)
			assert.Equal(t, tt.wantScript, isScript)
		})
	}
}

func TestResolver_NoJanitor(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreTopFunction("github.com/dlclark/regexp2.runClock"))

	root := t.TempDir()
	r := NewResolver(Options{Root: root, Fallback: Default()})
	_, _, err := r.Resolve(context.Background(), filepath.Join(root, "index.html"))
	require.NoError(t, err)
}

func TestResolver_SweepsExpired(t *testing.T) {
	root := t.TempDir()
	r := NewResolver(Options{Root: root, Fallback: Default(), TTL: time.Millisecond})
	ctx := context.Background()

	_, _, err := r.Resolve(ctx, filepath.Join(root, "a.html"))
	require.NoError(t, err)
	time.Sleep(5 * time.Millisecond)

	_, _, err = r.Resolve(ctx, filepath.Join(root, "b.html"))
	require.NoError(t, err)

	paths, ok := r.paths.(*cachemanager.InMemoryCacheManager[string])
	require.True(t, ok)
	assert.Equal(t, 1, paths.Len(), "expired path dropped before the new one is stored")
}
