package stylesheet

import (
	"fmt"
	"math/big"

	"github.com/Trapfether/tailwind-raw-reorder/pkg/classorder"
)

// Order keys are laid out as layer<<96 | variants<<32 | position. Positions
// start at 1 so a layer's base order sorts before its first utility.
const (
	variantShift = 32
	layerShift   = 96

	arbitraryVariantBit = maxVariants
)

type entry struct {
	layer    int
	position int
	utility  *Utility
	wildcard bool
	values   map[string]bool
}

// Context is the compiled form of a Sheet. It generates rules for classes
// and, through Ranker, ranks class lists itself.
type Context struct {
	sheet      *Sheet
	layerIndex map[string]int
	variants   map[string]int

	static map[string][]*entry // utilities without values
	bare   map[string][]*entry // valued utilities that accept the bare name
	valued map[string][]*entry // valued utilities by root name
}

// NewContext compiles sheet. The sheet must have been validated.
func NewContext(sheet *Sheet) *Context {
	c := &Context{
		sheet:      sheet,
		layerIndex: make(map[string]int, len(sheet.Layers)),
		variants:   make(map[string]int, len(sheet.Variants)),
		static:     make(map[string][]*entry),
		bare:       make(map[string][]*entry),
		valued:     make(map[string][]*entry),
	}

	for i, v := range sheet.Variants {
		c.variants[v] = i
	}

	for li := range sheet.Layers {
		layer := &sheet.Layers[li]
		c.layerIndex[layer.Name] = li

		for ui := range layer.Utilities {
			u := &layer.Utilities[ui]
			e := &entry{layer: li, position: ui + 1, utility: u}

			if len(u.Values) == 0 {
				for _, name := range u.AllNames() {
					c.static[name] = append(c.static[name], e)
				}
				continue
			}

			e.values = make(map[string]bool, len(u.Values))
			for _, v := range u.Values {
				if v == "*" {
					e.wildcard = true
					continue
				}
				e.values[v] = true
			}
			c.valued[u.Name] = append(c.valued[u.Name], e)
			if u.Default {
				c.bare[u.Name] = append(c.bare[u.Name], e)
			}
		}
	}
	return c
}

// Sheet returns the stylesheet the context was built from.
func (c *Context) Sheet() *Sheet { return c.sheet }

// Prefix implements classorder.Context.
func (c *Context) Prefix() classorder.Prefix {
	return classorder.LiteralPrefix(c.sheet.Prefix)
}

// LayerOrder implements classorder.Context.
func (c *Context) LayerOrder(layer string) *big.Int {
	i, ok := c.layerIndex[layer]
	if !ok {
		return nil
	}
	return orderKey(i, 0, 0)
}

// Layers returns the layer names in order.
func (c *Context) Layers() []string {
	names := make([]string, len(c.sheet.Layers))
	for i, l := range c.sheet.Layers {
		names[i] = l.Name
	}
	return names
}

// Separator returns the variant separator.
func (c *Context) Separator() string { return c.sheet.Separator }

// GenerateRules implements classorder.RuleGenerator. The context argument is
// ignored; rules always come from this stylesheet.
func (c *Context) GenerateRules(candidates []string, _ classorder.Context) []classorder.Rule {
	var out []classorder.Rule
	for _, class := range candidates {
		out = append(out, c.Rules(class)...)
	}
	return out
}

// Rules returns every rule class generates. Unknown utilities and unknown
// variants generate nothing.
func (c *Context) Rules(class string) []classorder.Rule {
	cand, ok := parseCandidate(class, c.sheet.Separator, c.sheet.Prefix)
	if !ok {
		return nil
	}

	var mask uint64
	for _, v := range cand.variants {
		if i, ok := c.variants[v]; ok {
			mask |= 1 << uint(i)
			continue
		}
		if !isArbitraryVariant(v) {
			return nil
		}
		mask |= 1 << arbitraryVariantBit
	}

	entries := c.match(cand)
	rules := make([]classorder.Rule, 0, len(entries))
	for _, e := range entries {
		rules = append(rules, classorder.Rule{
			Order: orderKey(e.layer, mask, e.position),
			Text:  fmt.Sprintf("@layer %s { .%s }", c.sheet.Layers[e.layer].Name, class),
		})
	}
	return rules
}

// match finds the utilities that generate cand. Exact names and listed
// values win over wildcards; among wildcards the longest root wins.
func (c *Context) match(cand candidate) []*entry {
	u := cand.utility
	allowed := func(e *entry) bool {
		return !cand.negative || e.utility.Negative
	}

	var explicit []*entry
	if !cand.negative {
		explicit = append(explicit, c.static[u]...)
	}
	for _, e := range c.bare[u] {
		if allowed(e) {
			explicit = append(explicit, e)
		}
	}
	for i := len(u) - 2; i > 0; i-- {
		if u[i] != '-' {
			continue
		}
		root, value := u[:i], u[i+1:]
		for _, e := range c.valued[root] {
			if allowed(e) && e.values[value] {
				explicit = append(explicit, e)
			}
		}
	}
	if len(explicit) > 0 {
		return explicit
	}

	for i := len(u) - 2; i > 0; i-- {
		if u[i] != '-' {
			continue
		}
		root, value := u[:i], u[i+1:]

		var wild, accepting []*entry
		for _, e := range c.valued[root] {
			if !allowed(e) {
				continue
			}
			accepting = append(accepting, e)
			if e.wildcard {
				wild = append(wild, e)
			}
		}
		if len(wild) > 0 {
			return wild
		}
		if isArbitrary(value) && len(accepting) > 0 {
			return accepting
		}
	}
	return nil
}

// Ranker returns the context as a classorder.Ranker.
func (c *Context) Ranker() classorder.Ranker {
	return rankingContext{c}
}

type rankingContext struct {
	*Context
}

func (r rankingContext) ClassOrder(classes []string) []classorder.RankedClass {
	parasites := classorder.ParasiteSet(r.Context)
	memo := make(map[string]*big.Int, len(classes))

	out := make([]classorder.RankedClass, 0, len(classes))
	for _, class := range classes {
		order, seen := memo[class]
		if !seen {
			order = classorder.HighestOrder(r.Rules(class))
			if order == nil && parasites[class] {
				order = r.LayerOrder(classorder.ComponentsLayer)
			}
			memo[class] = order
		}
		out = append(out, classorder.RankedClass{Class: class, Order: order})
	}
	return out
}

func orderKey(layer int, variants uint64, position int) *big.Int {
	k := new(big.Int).Lsh(big.NewInt(int64(layer)), layerShift)
	k.Or(k, new(big.Int).Lsh(new(big.Int).SetUint64(variants), variantShift))
	return k.Or(k, big.NewInt(int64(position)))
}

// LayerName returns the name of the layer an order belongs to, or "" when
// order is nil or outside the stylesheet.
func (c *Context) LayerName(order *big.Int) string {
	if order == nil {
		return ""
	}
	i := new(big.Int).Rsh(order, layerShift)
	if !i.IsInt64() || i.Int64() >= int64(len(c.sheet.Layers)) {
		return ""
	}
	return c.sheet.Layers[i.Int64()].Name
}

// ContextOf returns the stylesheet context behind ctx, looking through
// ranking and script decorators. It returns nil for foreign contexts.
func ContextOf(ctx classorder.Context) *Context {
	for ctx != nil {
		switch c := ctx.(type) {
		case *Context:
			return c
		case rankingContext:
			return c.Context
		case interface{ Unwrap() classorder.Context }:
			ctx = c.Unwrap()
		default:
			return nil
		}
	}
	return nil
}
