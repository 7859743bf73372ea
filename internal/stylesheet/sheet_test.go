package stylesheet

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const smallSheet = `
variants: [hover, md]
layers:
  - name: base
  - name: components
    utilities:
      - name: btn
  - name: utilities
    utilities:
      - names: [flex, block]
      - {name: p, values: ["*"]}
      - {name: m, values: ["*"], negative: true}
`

func TestParse(t *testing.T) {
	s, err := Parse([]byte(smallSheet))
	require.NoError(t, err)

	assert.Equal(t, DefaultSeparator, s.Separator)
	assert.Equal(t, []string{"hover", "md"}, s.Variants)
	require.Len(t, s.Layers, 3)
	assert.Equal(t, "utilities", s.Layers[2].Name)
	assert.Equal(t, []string{"flex", "block"}, s.Layers[2].Utilities[0].AllNames())
	assert.True(t, s.Layers[2].Utilities[2].Negative)
}

func TestParse_Invalid(t *testing.T) {
	manyVariants := make([]string, maxVariants+1)
	for i := range manyVariants {
		manyVariants[i] = fmt.Sprintf("v%d", i)
	}

	tests := []struct {
		name string
		yaml string
		want string
	}{
		{name: "no layers", yaml: "variants: [hover]\n", want: "no layers"},
		{name: "duplicate variant", yaml: "variants: [hover, hover]\nlayers: [{name: a}]\n", want: `duplicate variant "hover"`},
		{name: "duplicate layer", yaml: "layers: [{name: a}, {name: a}]\n", want: `duplicate layer "a"`},
		{name: "unnamed layer", yaml: "layers: [{utilities: [{name: p}]}]\n", want: "has no name"},
		{name: "unnamed utility", yaml: "layers: [{name: a, utilities: [{values: ['*']}]}]\n", want: "utility 0 has no name"},
		{name: "missing components layer", yaml: "layers: [{name: base}, {name: utilities}]\n", want: `no "components" layer`},
		{name: "values with names", yaml: "layers: [{name: a, utilities: [{names: [x, y], values: ['*']}]}]\n", want: "values need a single name"},
		{
			name: "too many variants",
			yaml: "variants: [" + strings.Join(manyVariants, ", ") + "]\nlayers: [{name: a}]\n",
			want: "at most 63",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalid)
			assert.Contains(t, err.Error(), tt.want)
		})
	}

	_, err := Parse([]byte("layers: [\n"))
	assert.Error(t, err)
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tailwind.order.yaml")
	require.NoError(t, os.WriteFile(path, []byte("prefix: tw-\nseparator: _\n"+smallSheet), 0o644))

	s, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "tw-", s.Prefix)
	assert.Equal(t, "_", s.Separator)
	assert.Len(t, s.Layers, 3)

	_, err = Load(filepath.Join(dir, "missing.yaml"))
	var loadErr *LoadError
	require.ErrorAs(t, err, &loadErr)
	assert.Equal(t, filepath.Join(dir, "missing.yaml"), loadErr.Path)

	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("variants: [a]\n"), 0o644))
	_, err = Load(bad)
	require.ErrorAs(t, err, &loadErr)
	assert.ErrorIs(t, err, ErrInvalid)
}

func TestDefault(t *testing.T) {
	s := Default()
	require.NotNil(t, s)
	assert.Equal(t, ":", s.Separator)
	assert.Equal(t, []string{"base", "components", "utilities"}, NewContext(s).Layers())
	assert.Contains(t, s.Variants, "hover")

	// the embedded source keeps its comments for init
	assert.True(t, strings.HasPrefix(string(DefaultYAML()), "# Canonical utility order"))

	out, err := s.Marshal()
	require.NoError(t, err)
	assert.Contains(t, string(out), "name: utilities")
}
