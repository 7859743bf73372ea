package stylesheet

import "strings"

// candidate is a class split into its parts.
type candidate struct {
	variants  []string
	utility   string // without prefix, negative sign or important marker
	negative  bool
	important bool
}

// parseCandidate splits class on separator outside brackets and strips the
// important marker, negative sign and prefix from the utility. ok is false
// when the prefix is required but missing.
func parseCandidate(class, separator, prefix string) (candidate, bool) {
	parts := splitOutsideBrackets(class, separator)
	c := candidate{variants: parts[:len(parts)-1]}
	u := parts[len(parts)-1]

	if strings.HasPrefix(u, "!") {
		c.important, u = true, u[1:]
	} else if strings.HasSuffix(u, "!") {
		c.important, u = true, u[:len(u)-1]
	}

	if strings.HasPrefix(u, "-") {
		c.negative, u = true, u[1:]
	}
	if prefix != "" {
		if !strings.HasPrefix(u, prefix) {
			return c, false
		}
		u = u[len(prefix):]
		if !c.negative && strings.HasPrefix(u, "-") {
			c.negative, u = true, u[1:]
		}
	}

	c.utility = u
	return c, u != ""
}

func splitOutsideBrackets(s, sep string) []string {
	if sep == "" || !strings.Contains(s, sep) {
		return []string{s}
	}

	var parts []string
	depth, start := 0, 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '[', '(':
			depth++
			continue
		case ']', ')':
			if depth > 0 {
				depth--
			}
			continue
		}
		if depth == 0 && strings.HasPrefix(s[i:], sep) {
			parts = append(parts, s[start:i])
			i += len(sep) - 1
			start = i + 1
		}
	}
	return append(parts, s[start:])
}

func isArbitrary(value string) bool {
	return len(value) > 2 && value[0] == '[' && value[len(value)-1] == ']'
}

func isArbitraryVariant(v string) bool {
	return isArbitrary(v) || strings.Contains(v, "-[")
}
