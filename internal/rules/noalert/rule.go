package noalert

import (
	"github.com/jeduden/lintstack/internal/rule"
	"github.com/jeduden/lintstack/internal/syntax"
)

func init() {
	rule.Register(&Rule{})
}

var dialogs = map[string]bool{"alert": true, "confirm": true, "prompt": true}

var globals = map[string]bool{"window": true, "globalThis": true, "self": true}

// Rule reports calls to alert, confirm and prompt, directly or through a
// global object.
type Rule struct{}

// ID implements rule.Rule.
func (r *Rule) ID() string { return "no-alert" }

// Description implements rule.Rule.
func (r *Rule) Description() string { return "Disallow the use of alert, confirm, and prompt" }

// Schema implements rule.Rule.
func (r *Rule) Schema() string { return `[]` }

// Create implements rule.Rule.
func (r *Rule) Create(ctx *rule.Context) (rule.Visitor, error) {
	return rule.Visit(func(n syntax.Node) error {
		if name := callee(n.Field("function")); dialogs[name] {
			ctx.Reportf(n, "Unexpected %s.", name)
		}
		return nil
	}, "call_expression"), nil
}

func callee(fn syntax.Node) string {
	fn = syntax.Unwrap(fn, "parenthesized_expression")
	if fn == nil {
		return ""
	}
	switch fn.Kind() {
	case "identifier":
		return fn.Text()
	case "member_expression":
		obj := fn.Field("object")
		if obj != nil && obj.Kind() == "identifier" && globals[obj.Text()] {
			if p := fn.Field("property"); p != nil {
				return p.Text()
			}
		}
	}
	return ""
}
