package classorder

import "math/big"

// Oracle assigns orders to classes. The returned slice has one entry per
// input class, in input order.
type Oracle interface {
	ClassOrder(classes []string) []RankedClass
}

// Ranker is a Context that ranks class lists itself.
type Ranker interface {
	Context
	Oracle
}

// Context describes the design system classes are ranked against.
type Context interface {
	// Prefix is the configured utility prefix.
	Prefix() Prefix
	// LayerOrder returns the base order of a layer, or nil if the layer
	// does not exist.
	LayerOrder(layer string) *big.Int
}

// Prefix turns a bare utility name into its prefixed form.
type Prefix interface {
	Apply(class string) string
}

// LiteralPrefix is prepended verbatim.
type LiteralPrefix string

func (p LiteralPrefix) Apply(class string) string { return string(p) + class }

// PrefixFunc computes the prefixed name.
type PrefixFunc func(class string) string

func (f PrefixFunc) Apply(class string) string { return f(class) }

// Rule is one generated rule for a candidate class.
type Rule struct {
	Order *big.Int
	Text  string
}

// RuleGenerator produces the rules a set of candidate classes expands to.
type RuleGenerator interface {
	GenerateRules(candidates []string, ctx Context) []Rule
}

// RuleGeneratorFunc adapts a function to RuleGenerator.
type RuleGeneratorFunc func(candidates []string, ctx Context) []Rule

func (f RuleGeneratorFunc) GenerateRules(candidates []string, ctx Context) []Rule {
	return f(candidates, ctx)
}

// ParasiteUtilities are marker classes that generate no rules of their own
// but belong at the start of the components layer.
var ParasiteUtilities = []string{"group", "peer"}

// ComponentsLayer is the layer parasite utilities are placed in.
const ComponentsLayer = "components"

// Env pairs a Context with the rule generator used when the context cannot
// rank classes itself.
type Env struct {
	Context       Context
	GenerateRules RuleGenerator
}

// ClassOrder ranks classes with the context's own ranker when it has one,
// and otherwise by generating rules one class at a time.
func (e Env) ClassOrder(classes []string) []RankedClass {
	if r, ok := e.Context.(Ranker); ok {
		return r.ClassOrder(classes)
	}
	return e.polyfill(classes)
}

func (e Env) polyfill(classes []string) []RankedClass {
	parasites := ParasiteSet(e.Context)
	out := make([]RankedClass, 0, len(classes))

	for _, class := range classes {
		var order *big.Int
		if e.GenerateRules != nil {
			order = HighestOrder(e.GenerateRules.GenerateRules([]string{class}, e.Context))
		}
		if order == nil && parasites[class] && e.Context != nil {
			order = e.Context.LayerOrder(ComponentsLayer)
		}
		out = append(out, RankedClass{Class: class, Order: order})
	}
	return out
}

// HighestOrder returns the greatest order among rules; on ties the later
// rule wins. Rules without an order are ignored.
func HighestOrder(rules []Rule) *big.Int {
	var best *big.Int
	for _, r := range rules {
		if r.Order == nil {
			continue
		}
		if best == nil || r.Order.Cmp(best) >= 0 {
			best = r.Order
		}
	}
	return best
}

// ParasiteSet returns the prefixed parasite utility names for ctx.
func ParasiteSet(ctx Context) map[string]bool {
	var prefix Prefix = LiteralPrefix("")
	if ctx != nil && ctx.Prefix() != nil {
		prefix = ctx.Prefix()
	}
	set := make(map[string]bool, len(ParasiteUtilities))
	for _, name := range ParasiteUtilities {
		set[prefix.Apply(name)] = true
	}
	return set
}
