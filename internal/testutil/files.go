package testutil

import (
	"os"
	"path/filepath"
	"testing"
)

// WriteFile writes content to path, creating parent directories.
func WriteFile(t testing.TB, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir %s: %v", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

// WriteTree writes files relative to root and returns root.
func WriteTree(t testing.TB, root string, files map[string]string) string {
	t.Helper()
	for rel, content := range files {
		WriteFile(t, filepath.Join(root, filepath.FromSlash(rel)), content)
	}
	return root
}

// ReadFile returns the content of path or fails the test.
func ReadFile(t testing.TB, path string) string {
	t.Helper()
	data, err := os.ReadFile(path) //nolint:gosec // test helper
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	return string(data)
}

// Stylesheet is a small stylesheet for tests: flex sorts before p-*, which
// sorts before m-*, and hover variants come last.
const Stylesheet = `
variants: [hover]
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
