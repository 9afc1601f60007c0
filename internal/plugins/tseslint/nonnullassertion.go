package tseslint

import (
	"github.com/jeduden/lintstack/internal/rule"
	"github.com/jeduden/lintstack/internal/syntax"
)

// NoNonNullAssertion reports the postfix ! operator.
type NoNonNullAssertion struct{}

func (r *NoNonNullAssertion) ID() string          { return Name + "/no-non-null-assertion" }
func (r *NoNonNullAssertion) Description() string { return "Disallow non-null assertions using the ! postfix operator" }
func (r *NoNonNullAssertion) Schema() string      { return `[]` }

func (r *NoNonNullAssertion) Create(ctx *rule.Context) (rule.Visitor, error) {
	return rule.Visit(func(n syntax.Node) error {
		ctx.Report(n, "Forbidden non-null assertion.")
		return nil
	}, "non_null_expression"), nil
}
