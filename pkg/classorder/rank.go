// Package classorder sorts utility class lists by the canonical order an
// order oracle assigns to each class.
//
// Orders are arbitrary-precision integers; classes the oracle does not
// recognize have a nil order and sort before every ranked class.
package classorder

import (
	"math/big"
	"slices"
)

// RankedClass pairs a class token with its order. A nil Order means the
// class is unknown to the oracle.
type RankedClass struct {
	Class string
	Order *big.Int
}

// CompareOrder orders a before z. nil sorts first; two nils are equal.
func CompareOrder(a, z *big.Int) int {
	switch {
	case a == z:
		return 0
	case a == nil:
		return -1
	case z == nil:
		return 1
	default:
		return a.Cmp(z)
	}
}

// SortClassList ranks classes with oracle and returns them in ascending
// order. Classes with equal orders, including unranked ones, keep their
// input order. The input slice is not modified.
func SortClassList(classes []string, oracle Oracle) []string {
	ranked := oracle.ClassOrder(classes)
	slices.SortStableFunc(ranked, func(a, z RankedClass) int {
		return CompareOrder(a.Order, z.Order)
	})

	out := make([]string, len(ranked))
	for i, rc := range ranked {
		out[i] = rc.Class
	}
	return out
}
