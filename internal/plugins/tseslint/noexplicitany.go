package tseslint

import (
	"github.com/jeduden/lintstack/internal/rule"
	"github.com/jeduden/lintstack/internal/syntax"
)

// NoExplicitAny reports the any type in annotations.
type NoExplicitAny struct{}

func (r *NoExplicitAny) ID() string          { return Name + "/no-explicit-any" }
func (r *NoExplicitAny) Description() string { return "Disallow the any type" }

func (r *NoExplicitAny) Schema() string {
	return `[] | [close({fixToUnknown?: bool, ignoreRestArgs?: bool})]`
}

func (r *NoExplicitAny) Create(ctx *rule.Context) (rule.Visitor, error) {
	ignoreRest := rule.GetBoolOption(ctx.Options.Object(0), "ignoreRestArgs", false)

	return rule.Visit(func(n syntax.Node) error {
		if n.Text() != "any" {
			return nil
		}
		if ignoreRest && inRestParameter(n) {
			return nil
		}
		ctx.Report(n, "Unexpected any. Specify a different type.")
		return nil
	}, "predefined_type"), nil
}

// inRestParameter reports whether n is part of the type of a
// ...rest parameter.
func inRestParameter(n syntax.Node) bool {
	p := syntax.Ancestor(n, "required_parameter", "optional_parameter", "formal_parameters", "statement_block")
	if p == nil || (p.Kind() != "required_parameter" && p.Kind() != "optional_parameter") {
		return false
	}
	pat := p.Field("pattern")
	return pat != nil && pat.Kind() == "rest_pattern"
}
