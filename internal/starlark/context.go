package starlark

import (
	"go.starlark.net/starlark"
	"go.starlark.net/starlarkstruct"

	"github.com/Trapfether/tailwind-raw-reorder/pkg/classorder"
)

// separatorSource is implemented by contexts that know their variant separator.
type separatorSource interface {
	Separator() string
}

// layerSource is implemented by contexts that can list their layers in order.
type layerSource interface {
	Layers() []string
}

// unwrapper is implemented by contexts that decorate another context.
type unwrapper interface {
	Unwrap() classorder.Context
}

// baseContext strips decorators added by Bind so scripts see the stylesheet.
func baseContext(ctx classorder.Context) classorder.Context {
	for {
		u, ok := ctx.(unwrapper)
		if !ok {
			return ctx
		}
		ctx = u.Unwrap()
	}
}

// NewContextValue builds the ctx struct passed to generate_rules.
//
// Fields:
//   - prefix: the stylesheet prefix
//   - separator: the variant separator
//   - layers: layer names in order
//   - layer_order: dict of layer name to base order
//   - default_rules(candidates): rules the stylesheet itself generates, as
//     (order, text) tuples, when the stylesheet can generate rules
func NewContextValue(ctx classorder.Context) *starlarkstruct.Struct {
	base := baseContext(ctx)
	fields := starlark.StringDict{
		"prefix":    starlark.String(""),
		"separator": starlark.String(""),
	}
	if base == nil {
		fields["layers"] = starlark.NewList(nil)
		fields["layer_order"] = starlark.NewDict(0)
		return starlarkstruct.FromStringDict(starlarkstruct.Default, fields)
	}

	if p := base.Prefix(); p != nil {
		fields["prefix"] = starlark.String(p.Apply(""))
	}
	if s, ok := base.(separatorSource); ok {
		fields["separator"] = starlark.String(s.Separator())
	}

	var layers []string
	if l, ok := base.(layerSource); ok {
		layers = l.Layers()
	}
	order := starlark.NewDict(len(layers))
	for _, name := range layers {
		// SetKey only fails on frozen dicts or unhashable keys.
		_ = order.SetKey(starlark.String(name), FromBigInt(base.LayerOrder(name)))
	}
	fields["layers"] = StringList(layers)
	fields["layer_order"] = order

	if gen, ok := base.(classorder.RuleGenerator); ok {
		fields["default_rules"] = defaultRulesBuiltin(gen, base)
	}
	return starlarkstruct.FromStringDict(starlarkstruct.Default, fields)
}

func defaultRulesBuiltin(gen classorder.RuleGenerator, ctx classorder.Context) *starlark.Builtin {
	return starlark.NewBuiltin("default_rules", func(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
		var candidates starlark.Value
		if err := starlark.UnpackPositionalArgs(b.Name(), args, kwargs, 1, &candidates); err != nil {
			return nil, err
		}

		var names []string
		switch v := candidates.(type) {
		case starlark.String:
			names = []string{string(v)}
		case starlark.Iterable:
			iter := v.Iterate()
			defer iter.Done()
			var item starlark.Value
			for iter.Next(&item) {
				s, ok := starlark.AsString(item)
				if !ok {
					return nil, errorf(b, "candidates must be strings, got %s", item.Type())
				}
				names = append(names, s)
			}
		default:
			return nil, errorf(b, "candidates must be a string or list, got %s", candidates.Type())
		}

		rules := gen.GenerateRules(names, ctx)
		out := make([]starlark.Value, len(rules))
		for i, r := range rules {
			out[i] = starlark.Tuple{FromBigInt(r.Order), starlark.String(r.Text)}
		}
		return starlark.NewList(out), nil
	})
}
