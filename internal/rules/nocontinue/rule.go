package nocontinue

import (
	"github.com/jeduden/lintstack/internal/rule"
	"github.com/jeduden/lintstack/internal/syntax"
)

func init() {
	rule.Register(&Rule{})
}

// Rule reports continue statements.
type Rule struct{}

func (r *Rule) ID() string          { return "no-continue" }
func (r *Rule) Description() string { return "Disallow continue statements" }
func (r *Rule) Schema() string      { return `[]` }

func (r *Rule) Create(ctx *rule.Context) (rule.Visitor, error) {
	return rule.Visit(func(n syntax.Node) error {
		ctx.Report(n, "Unexpected use of continue statement.")
		return nil
	}, "continue_statement"), nil
}
