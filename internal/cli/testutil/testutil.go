// Package testutil provides test utilities for CLI testing.
package testutil

import (
	"bytes"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/Trapfether/tailwind-raw-reorder/internal/cli/output"
	intconfig "github.com/Trapfether/tailwind-raw-reorder/internal/config"
	fixtures "github.com/Trapfether/tailwind-raw-reorder/internal/testutil"
)

// SetupTestProject creates a temporary project with a config file, a
// stylesheet and a few unsorted source files. It returns the project root.
func SetupTestProject(t *testing.T) string {
	t.Helper()

	return fixtures.WriteTree(t, t.TempDir(), map[string]string{
		intconfig.ConfigFileName: "concurrency: 2\n",
		"tailwind.order.yaml":    fixtures.Stylesheet,
		"index.html":             `<div class="m-2 p-4 flex"></div>` + "\n",
		"src/app.jsx":            `export const App = () => <p className="p-2 block">hi</p>;` + "\n",
		"src/clean.html":         `<p class="flex m-2"></p>` + "\n",
		"node_modules/x/a.html":  `<p class="m-2 flex"></p>` + "\n",
	})
}

// ProjectFile returns the absolute path of a file in the test project.
func ProjectFile(root, rel string) string {
	return filepath.Join(root, filepath.FromSlash(rel))
}

// TestRenderer wraps a Renderer for testing with captured output buffers.
type TestRenderer struct {
	*output.Renderer
	Out    *bytes.Buffer
	ErrOut *bytes.Buffer
}

// NewTestRenderer creates a new test renderer with the specified mode and TTY state.
// Output is captured in buffers for inspection.
func NewTestRenderer(mode output.OutputMode, isTTY bool) *TestRenderer {
	out := &bytes.Buffer{}
	errOut := &bytes.Buffer{}
	return &TestRenderer{
		Renderer: output.NewRendererWithTTY(out, errOut, isTTY, mode),
		Out:      out,
		ErrOut:   errOut,
	}
}

// NewTestRendererText creates a new test renderer in text mode (simulated TTY).
func NewTestRendererText() *TestRenderer {
	return NewTestRenderer(output.ModeText, true)
}

// NewTestRendererMarkdown creates a new test renderer in markdown mode.
func NewTestRendererMarkdown() *TestRenderer {
	return NewTestRenderer(output.ModeMarkdown, false)
}

// Output returns the stdout output as a string.
func (tr *TestRenderer) Output() string {
	return tr.Out.String()
}

// Reset clears both output buffers.
func (tr *TestRenderer) Reset() {
	tr.Out.Reset()
	tr.ErrOut.Reset()
}

// ansiPattern matches ANSI escape codes.
var ansiPattern = regexp.MustCompile(`\x1b\[[0-9;]*[a-zA-Z]`)

// AssertNoANSI checks that a string contains no ANSI escape codes.
func AssertNoANSI(t *testing.T, s string) {
	t.Helper()
	if ansiPattern.MatchString(s) {
		t.Errorf("string contains ANSI escape codes: %q", s)
	}
}

// AssertValidMarkdown performs basic markdown validation.
// It checks for unclosed code fences and empty headers.
func AssertValidMarkdown(t *testing.T, md string) {
	t.Helper()

	if fenceCount := strings.Count(md, "```"); fenceCount%2 != 0 {
		t.Errorf("unbalanced code fences in markdown: found %d occurrences", fenceCount)
	}

	for i, line := range strings.Split(md, "\n") {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "#") && strings.TrimLeft(trimmed, "# ") == "" {
			t.Errorf("empty header at line %d: %q", i+1, line)
		}
	}
}
