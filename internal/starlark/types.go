package starlark

import (
	"fmt"
	"math/big"

	"go.starlark.net/starlark"

	"github.com/Trapfether/tailwind-raw-reorder/pkg/classorder"
)

// FromBigInt converts an order to a Starlark int. nil becomes None.
func FromBigInt(v *big.Int) starlark.Value {
	if v == nil {
		return starlark.None
	}
	return starlark.MakeBigInt(v)
}

// ToBigInt converts a Starlark int to an order. None yields nil.
func ToBigInt(v starlark.Value) (*big.Int, error) {
	switch val := v.(type) {
	case starlark.NoneType:
		return nil, nil
	case starlark.Int:
		return val.BigInt(), nil
	default:
		return nil, fmt.Errorf("order must be an int, got %s", v.Type())
	}
}

// StringList converts a Go string slice to a Starlark list.
func StringList(items []string) *starlark.List {
	list := make([]starlark.Value, len(items))
	for i, s := range items {
		list[i] = starlark.String(s)
	}
	return starlark.NewList(list)
}

// ToRules converts a generate_rules result to rules. Accepted shapes are
// None, an int, or a list/tuple whose items are ints or (order, text) pairs.
// Items with a None order are skipped.
func ToRules(v starlark.Value) ([]classorder.Rule, error) {
	switch val := v.(type) {
	case starlark.NoneType:
		return nil, nil
	case starlark.Int:
		return []classorder.Rule{{Order: val.BigInt()}}, nil
	case starlark.String:
		return nil, fmt.Errorf("generate_rules must return a list, got string")
	case starlark.Indexable:
		rules := make([]classorder.Rule, 0, val.Len())
		for i := 0; i < val.Len(); i++ {
			rule, err := toRule(val.Index(i))
			if err != nil {
				return nil, fmt.Errorf("item %d: %w", i, err)
			}
			if rule.Order != nil {
				rules = append(rules, rule)
			}
		}
		return rules, nil
	default:
		return nil, fmt.Errorf("generate_rules must return a list, got %s", v.Type())
	}
}

func toRule(v starlark.Value) (classorder.Rule, error) {
	if pair, ok := v.(starlark.Indexable); ok {
		if _, isString := v.(starlark.String); !isString {
			if pair.Len() != 2 {
				return classorder.Rule{}, fmt.Errorf("rule must be (order, text), got %d elements", pair.Len())
			}
			order, err := ToBigInt(pair.Index(0))
			if err != nil {
				return classorder.Rule{}, err
			}
			text, ok := starlark.AsString(pair.Index(1))
			if !ok {
				return classorder.Rule{}, fmt.Errorf("rule text must be a string, got %s", pair.Index(1).Type())
			}
			return classorder.Rule{Order: order, Text: text}, nil
		}
	}

	order, err := ToBigInt(v)
	if err != nil {
		return classorder.Rule{}, err
	}
	return classorder.Rule{Order: order}, nil
}
