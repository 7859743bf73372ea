package engine

import (
	"path"
	"path/filepath"
	"strings"
)

// isIgnored reports whether the slash-separated relative path rel matches
// one of patterns. "**" matches any number of path segments. A pattern
// without a slash matches any single segment name.
func isIgnored(rel string, patterns []string) bool {
	rel = filepath.ToSlash(rel)
	segs := strings.Split(rel, "/")
	for _, raw := range patterns {
		p := strings.TrimSuffix(filepath.ToSlash(strings.TrimSpace(raw)), "/")
		if p == "" {
			continue
		}
		if !strings.Contains(p, "/") {
			for _, s := range segs {
				if ok, _ := path.Match(p, s); ok {
					return true
				}
			}
			continue
		}
		if matchSegments(strings.Split(p, "/"), segs) {
			return true
		}
	}
	return false
}

func matchSegments(pat, segs []string) bool {
	for len(pat) > 0 {
		if pat[0] == "**" {
			pat = pat[1:]
			if len(pat) == 0 {
				return true
			}
			for i := 0; i <= len(segs); i++ {
				if matchSegments(pat, segs[i:]) {
					return true
				}
			}
			return false
		}
		if len(segs) == 0 {
			return false
		}
		if ok, _ := path.Match(pat[0], segs[0]); !ok {
			return false
		}
		pat, segs = pat[1:], segs[1:]
	}
	return len(segs) == 0
}
