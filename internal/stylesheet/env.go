package stylesheet

import (
	"github.com/Trapfether/tailwind-raw-reorder/internal/config"
	rulescript "github.com/Trapfether/tailwind-raw-reorder/internal/starlark"
	"github.com/Trapfether/tailwind-raw-reorder/pkg/classorder"
)

// NewEnv pairs ctx with a rule generator according to the oracle mode.
//
//   - native: the stylesheet ranks classes itself; any script is ignored.
//   - rules: classes are ranked one at a time from generated rules, using
//     the script when set and the stylesheet otherwise.
//   - auto: rules mode when a script is set, native mode otherwise.
func NewEnv(ctx *Context, oracle string, script *rulescript.RuleScript) classorder.Env {
	switch {
	case oracle == config.OracleNative || (oracle != config.OracleRules && script == nil):
		return classorder.Env{Context: ctx.Ranker(), GenerateRules: ctx}
	case script != nil:
		return classorder.Env{Context: script.Bind(ctx), GenerateRules: script}
	default:
		return classorder.Env{Context: ctx, GenerateRules: ctx}
	}
}
