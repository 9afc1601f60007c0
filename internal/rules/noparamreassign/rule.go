package noparamreassign

import (
	"fmt"
	"regexp"
	"slices"

	"github.com/jeduden/lintstack/internal/rule"
	"github.com/jeduden/lintstack/internal/syntax"
	"github.com/jeduden/lintstack/internal/syntax/ecma"
)

func init() {
	rule.Register(&Rule{})
}

// Rule reports assignments to function parameters and, with props,
// modifications of their properties.
//
// Parameters are looked up through the enclosing functions only; a local
// variable shadowing a parameter name is not tracked.
type Rule struct{}

// ID implements rule.Rule.
func (r *Rule) ID() string { return "no-param-reassign" }

// Description implements rule.Rule.
func (r *Rule) Description() string { return "Disallow reassigning function parameters" }

// Schema implements rule.Rule.
func (r *Rule) Schema() string {
	return `[] | [close({
	props?:                               bool
	ignorePropertyModificationsFor?:      [...string]
	ignorePropertyModificationsForRegex?: [...string]
})]`
}

// Create implements rule.Rule.
func (r *Rule) Create(ctx *rule.Context) (rule.Visitor, error) {
	opts := ctx.Options.Object(0)
	props := rule.GetBoolOption(opts, "props", false)
	ignored := rule.GetStringSliceOption(opts, "ignorePropertyModificationsFor", nil)
	var ignoredRe []*regexp.Regexp
	for _, p := range rule.GetStringSliceOption(opts, "ignorePropertyModificationsForRegex", nil) {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("ignorePropertyModificationsForRegex: %w", err)
		}
		ignoredRe = append(ignoredRe, re)
	}
	ignoreProp := func(name string) bool {
		if slices.Contains(ignored, name) {
			return true
		}
		for _, re := range ignoredRe {
			if re.MatchString(name) {
				return true
			}
		}
		return false
	}

	check := func(target syntax.Node) {
		target = syntax.Unwrap(target, "parenthesized_expression")
		if target == nil {
			return
		}
		switch target.Kind() {
		case "identifier":
			if isParam(target) {
				ctx.Reportf(target, "Assignment to function parameter '%s'.", target.Text())
			}
		case "member_expression", "subscript_expression":
			if !props {
				return
			}
			base := baseObject(target)
			if base != nil && isParam(base) && !ignoreProp(base.Text()) {
				ctx.Reportf(target, "Assignment to property of function parameter '%s'.", base.Text())
			}
		case "object_pattern", "array_pattern":
			for _, id := range ecma.Bindings(target) {
				if isParam(id) {
					ctx.Reportf(id, "Assignment to function parameter '%s'.", id.Text())
				}
			}
		}
	}

	return rule.Visit(func(n syntax.Node) error {
		switch n.Kind() {
		case "assignment_expression", "augmented_assignment_expression":
			check(n.Field("left"))
		case "for_in_statement":
			if !ecma.DeclaresLoopVar(n) {
				check(n.Field("left"))
			}
		case "update_expression":
			check(n.Field("argument"))
		case "unary_expression":
			if op := n.Field("operator"); op != nil && op.Text() == "delete" {
				check(n.Field("argument"))
			}
		}
		return nil
	}, "assignment_expression", "augmented_assignment_expression", "for_in_statement",
		"update_expression", "unary_expression"), nil
}

// baseObject returns the identifier at the root of a member chain such as
// a.b[c].d, or nil.
func baseObject(n syntax.Node) syntax.Node {
	for n != nil {
		switch n.Kind() {
		case "member_expression", "subscript_expression":
			n = syntax.Unwrap(n.Field("object"), "parenthesized_expression")
		case "identifier":
			return n
		default:
			return nil
		}
	}
	return nil
}

// isParam reports whether id names a parameter of an enclosing function.
func isParam(id syntax.Node) bool {
	name := id.Text()
	for fn := syntax.Ancestor(id, ecma.FunctionKinds...); fn != nil; fn = syntax.Ancestor(fn, ecma.FunctionKinds...) {
		for _, p := range ecma.Params(fn) {
			if p.Text() == name {
				return true
			}
		}
	}
	return false
}
