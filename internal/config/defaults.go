package config

import (
	"path/filepath"
	"strings"

	"github.com/Trapfether/tailwind-raw-reorder/pkg/matcher"
)

// Default configuration values.
const (
	DefaultConcurrency = 8
	// FallbackLanguage supplies patterns for languages without their own.
	FallbackLanguage = "html"
)

// DefaultIgnore lists glob patterns skipped by workspace runs.
var DefaultIgnore = []string{
	"**/node_modules/**",
	"**/.git/**",
	"**/vendor/**",
	"**/dist/**",
	"**/build/**",
}

// StylesheetFileNames are searched for, in order, when no stylesheet is
// configured explicitly.
var StylesheetFileNames = []string{
	"tailwind.order.yaml",
	"tailwind.order.yml",
	".tailwind-order.yaml",
}

const (
	htmlClass = `(?:^|\s)class\s*=\s*(?:"([^"{}<>]+)"|'([^'{}<>]+)')`
	jsClass   = "\\b(?:class(?:Name)?|tw)\\s*=\\s*(?:\"([^\"{}<>]+)\"|'([^'{}<>]+)'|`([^`{}<>]+)`)"
	jsxClass  = "\\b(?:class(?:Name)?|tw)\\s*=\\s*\\{?(?:\"([^\"{}<>]+)\"|'([^'{}<>]+)'|`([^`{}<>]+)`)"
	vueClass  = `(?:^|\s)(?::class|v-bind:class)\s*=\s*"\[([^\]]*)\]"`
	callArgs  = `\b(?:clsx|classnames|cn|cva|twMerge|twJoin)\(([^()]*)\)`
	quoted    = "[\"'`]([^\"'`{}<>]*)[\"'`]"
	cssApply  = `@apply\s+([^;{}]+?)\s*(?:!important\s*)?;`
)

// DefaultClassRegex returns the built-in class patterns per language id.
// A fresh map is returned on every call.
func DefaultClassRegex() map[string]matcher.LanguageConfig {
	html := matcher.Pattern(htmlClass)
	js := matcher.List{matcher.Pattern(jsClass), matcher.Chain{callArgs, quoted}}
	jsx := matcher.List{matcher.Pattern(jsxClass), matcher.Chain{callArgs, quoted}}
	vue := matcher.List{html, matcher.Chain{vueClass, quoted}}
	css := matcher.Pattern(cssApply)

	return map[string]matcher.LanguageConfig{
		"html":            html,
		"php":             html,
		"blade":           html,
		"erb":             html,
		"twig":            html,
		"django-html":     html,
		"handlebars":      html,
		"markdown":        html,
		"astro":           jsx,
		"svelte":          vue,
		"vue":             vue,
		"javascript":      js,
		"typescript":      js,
		"javascriptreact": jsx,
		"typescriptreact": jsx,
		"css":             css,
		"scss":            css,
		"less":            css,
		"postcss":         css,
	}
}

// DefaultLanguages maps file extensions to language ids. Multi-part
// extensions are matched before single ones.
var DefaultLanguages = map[string]string{
	".html":      "html",
	".htm":       "html",
	".php":       "php",
	".blade.php": "blade",
	".erb":       "erb",
	".twig":      "twig",
	".hbs":       "handlebars",
	".md":        "markdown",
	".astro":     "astro",
	".svelte":    "svelte",
	".vue":       "vue",
	".js":        "javascript",
	".mjs":       "javascript",
	".cjs":       "javascript",
	".ts":        "typescript",
	".mts":       "typescript",
	".cts":       "typescript",
	".jsx":       "javascriptreact",
	".tsx":       "typescriptreact",
	".css":       "css",
	".scss":      "scss",
	".less":      "less",
	".pcss":      "postcss",
}

// LanguageForPath returns the language id for path. overrides replace or
// extend DefaultLanguages; the longest matching extension wins.
func LanguageForPath(path string, overrides map[string]string) (string, bool) {
	table := ExtensionTable(overrides)

	base := strings.ToLower(filepath.Base(path))
	best, bestLen := "", 0
	for ext, lang := range table {
		if len(ext) > bestLen && strings.HasSuffix(base, ext) {
			best, bestLen = lang, len(ext)
		}
	}
	return best, bestLen > 0
}

// ExtensionTable merges overrides into DefaultLanguages. Keys are lower-case
// extensions with a leading dot.
func ExtensionTable(overrides map[string]string) map[string]string {
	table := make(map[string]string, len(DefaultLanguages)+len(overrides))
	for ext, lang := range DefaultLanguages {
		table[ext] = lang
	}
	for ext, lang := range overrides {
		ext = strings.ToLower(ext)
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		table[ext] = lang
	}
	return table
}
