package noplusplus

import (
	"strings"

	"github.com/jeduden/lintstack/internal/rule"
	"github.com/jeduden/lintstack/internal/syntax"
)

func init() {
	rule.Register(&Rule{})
}

// Rule reports the unary ++ and -- operators. With
// allowForLoopAfterthoughts they are allowed in the final expression of a
// for loop, including comma-separated lists there.
type Rule struct{}

// ID implements rule.Rule.
func (r *Rule) ID() string { return "no-plusplus" }

// Description implements rule.Rule.
func (r *Rule) Description() string { return "Disallow the unary operators ++ and --" }

// Schema implements rule.Rule.
func (r *Rule) Schema() string { return `[] | [close({allowForLoopAfterthoughts?: bool})]` }

// Create implements rule.Rule.
func (r *Rule) Create(ctx *rule.Context) (rule.Visitor, error) {
	allowAfterthoughts := rule.GetBoolOption(ctx.Options.Object(0), "allowForLoopAfterthoughts", false)

	return rule.Visit(func(n syntax.Node) error {
		if allowAfterthoughts && inAfterthought(n) {
			return nil
		}
		ctx.Reportf(n, "Unary operator '%s' used.", operator(n))
		return nil
	}, "update_expression"), nil
}

func operator(n syntax.Node) string {
	if op := n.Field("operator"); op != nil {
		return op.Text()
	}
	if strings.Contains(n.Text(), "--") {
		return "--"
	}
	return "++"
}

// inAfterthought reports whether n is the update clause of a for loop or
// one of the comma-separated expressions forming it.
func inAfterthought(n syntax.Node) bool {
	cur := n
	parent := n.Parent()
	for parent != nil && (parent.Kind() == "sequence_expression" || parent.Kind() == "parenthesized_expression") {
		cur = parent
		parent = parent.Parent()
	}
	if parent == nil || parent.Kind() != "for_statement" {
		return false
	}
	return syntax.Same(parent.Field("increment"), cur)
}
