package classorder

import (
	"fmt"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"pgregory.net/rapid"
)

// genOracle draws a ranking over a small class alphabet where some classes
// stay unranked and ranks collide often.
func genOracle(rt *rapid.T) mapOracle {
	oracle := mapOracle{}
	for i := 0; i < 12; i++ {
		if rapid.Bool().Draw(rt, fmt.Sprintf("ranked%d", i)) {
			oracle[className(i)] = rapid.Int64Range(-3, 3).Draw(rt, fmt.Sprintf("rank%d", i))
		}
	}
	return oracle
}

func genClasses(rt *rapid.T) []string {
	idx := rapid.SliceOfN(rapid.IntRange(0, 11), 0, 20).Draw(rt, "classes")
	out := make([]string, len(idx))
	for i, n := range idx {
		out[i] = className(n)
	}
	return out
}

func className(i int) string {
	return fmt.Sprintf("c%d", i)
}

func TestProperty_Idempotent(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		oracle := genOracle(rt)
		fragment := strings.Join(genClasses(rt), " ")

		once := SortClasses(fragment, Options{Oracle: oracle})
		twice := SortClasses(once, Options{Oracle: oracle})
		if once != twice {
			rt.Fatalf("not idempotent: %q -> %q -> %q", fragment, once, twice)
		}
	})
}

func TestProperty_UnrankedFirst(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		oracle := genOracle(rt)
		sorted := SortClassList(genClasses(rt), oracle)

		seenRanked := false
		for _, c := range sorted {
			_, ranked := oracle[c]
			if ranked {
				seenRanked = true
			} else if seenRanked {
				rt.Fatalf("unranked %q after a ranked class in %v", c, sorted)
			}
		}
	})
}

func TestProperty_StableWithinRank(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		oracle := genOracle(rt)
		classes := genClasses(rt)
		sorted := SortClassList(classes, oracle)

		key := func(c string) string {
			if v, ok := oracle[c]; ok {
				return fmt.Sprint(v)
			}
			return "nil"
		}
		groupBy := func(list []string) map[string][]string {
			out := map[string][]string{}
			for _, c := range list {
				out[key(c)] = append(out[key(c)], c)
			}
			return out
		}

		if diff := cmp.Diff(groupBy(classes), groupBy(sorted)); diff != "" {
			rt.Fatalf("relative order changed within a rank (-input +sorted):\n%s", diff)
		}
	})
}

func TestProperty_TemplatePassthrough(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		left := rapid.String().Draw(rt, "left")
		right := rapid.String().Draw(rt, "right")
		fragment := left + "{{" + right

		if got := SortClasses(fragment, Options{Oracle: genOracle(rt)}); got != fragment {
			rt.Fatalf("template fragment changed: %q -> %q", fragment, got)
		}
	})
}
