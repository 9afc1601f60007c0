package noconsole

import (
	"slices"
	"strings"

	"github.com/jeduden/lintstack/internal/rule"
	"github.com/jeduden/lintstack/internal/syntax"
)

func init() {
	rule.Register(&Rule{})
}

// Rule reports uses of the console object, except for the methods listed
// in the allow option.
type Rule struct{}

// ID implements rule.Rule.
func (r *Rule) ID() string { return "no-console" }

// Description implements rule.Rule.
func (r *Rule) Description() string { return "Disallow the use of console" }

// Schema implements rule.Rule.
func (r *Rule) Schema() string { return `[] | [close({allow?: [...string]})]` }

// Create implements rule.Rule.
func (r *Rule) Create(ctx *rule.Context) (rule.Visitor, error) {
	allow := rule.GetStringSliceOption(ctx.Options.Object(0), "allow", nil)

	return rule.Visit(func(n syntax.Node) error {
		obj := n.Field("object")
		if obj == nil || obj.Kind() != "identifier" || obj.Text() != "console" {
			return nil
		}
		if method, ok := property(n); ok && slices.Contains(allow, method) {
			return nil
		}
		ctx.Report(n, "Unexpected console statement.")
		return nil
	}, "member_expression", "subscript_expression"), nil
}

// property returns the accessed name of console.x or console["x"].
func property(n syntax.Node) (string, bool) {
	if n.Kind() == "member_expression" {
		if p := n.Field("property"); p != nil {
			return p.Text(), true
		}
		return "", false
	}
	idx := n.Field("index")
	if idx == nil || idx.Kind() != "string" {
		return "", false
	}
	return strings.Trim(idx.Text(), `'"`), true
}
