package nounderscoredangle

import (
	"slices"

	"github.com/jeduden/lintstack/internal/rule"
	"github.com/jeduden/lintstack/internal/syntax"
)

func init() {
	rule.Register(&Rule{})
}

// Rule reports identifiers that start or end with an underscore in
// variable and function declarations and member accesses.
type Rule struct{}

// ID implements rule.Rule.
func (r *Rule) ID() string { return "no-underscore-dangle" }

// Description implements rule.Rule.
func (r *Rule) Description() string { return "Disallow dangling underscores in identifiers" }

// Schema implements rule.Rule.
func (r *Rule) Schema() string {
	return `[] | [close({
	allow?:                     [...string]
	allowAfterThis?:            bool
	allowAfterSuper?:           bool
	allowAfterThisConstructor?: bool
	enforceInMethodNames?:      bool
	allowFunctionParams?:       bool
})]`
}

type options struct {
	allow            []string
	afterThis        bool
	afterSuper       bool
	enforceInMethods bool
	functionParams   bool
}

// Create implements rule.Rule.
func (r *Rule) Create(ctx *rule.Context) (rule.Visitor, error) {
	obj := ctx.Options.Object(0)
	o := options{
		allow:            rule.GetStringSliceOption(obj, "allow", nil),
		afterThis:        rule.GetBoolOption(obj, "allowAfterThis", false),
		afterSuper:       rule.GetBoolOption(obj, "allowAfterSuper", false),
		enforceInMethods: rule.GetBoolOption(obj, "enforceInMethodNames", false),
		functionParams:   rule.GetBoolOption(obj, "allowFunctionParams", true),
	}

	check := func(id syntax.Node) {
		if id == nil {
			return
		}
		name := id.Text()
		if dangling(name) && !slices.Contains(o.allow, name) {
			ctx.Reportf(id, "Unexpected dangling '_' in '%s'.", name)
		}
	}

	return rule.Visit(func(n syntax.Node) error {
		switch n.Kind() {
		case "variable_declarator":
			if name := n.Field("name"); name != nil && name.Kind() == "identifier" {
				check(name)
			}
		case "function_declaration", "generator_function_declaration", "function_expression", "function":
			check(n.Field("name"))
			if !o.functionParams {
				params(n.Field("parameters"), check)
			}
		case "member_expression":
			obj := n.Field("object")
			prop := n.Field("property")
			if prop == nil || prop.Text() == "__proto__" || obj == nil {
				return nil
			}
			if (obj.Kind() == "this" && o.afterThis) || (obj.Kind() == "super" && o.afterSuper) {
				return nil
			}
			check(prop)
		case "method_definition":
			if o.enforceInMethods {
				check(n.Field("name"))
			}
		}
		return nil
	}, "variable_declarator", "function_declaration", "generator_function_declaration",
		"function_expression", "function", "member_expression", "method_definition"), nil
}

// params calls check for each plain identifier parameter.
func params(list syntax.Node, check func(syntax.Node)) {
	if list == nil {
		return
	}
	for i := 0; i < list.NumChildren(); i++ {
		p := list.Child(i)
		if p == nil || !p.Named() {
			continue
		}
		if p.Kind() == "identifier" {
			check(p)
			continue
		}
		// TypeScript wraps parameters: required_parameter(pattern: identifier)
		if pat := p.Field("pattern"); pat != nil && pat.Kind() == "identifier" {
			check(pat)
		}
	}
}

func dangling(name string) bool {
	return name != "_" && len(name) > 0 && (name[0] == '_' || name[len(name)-1] == '_')
}
