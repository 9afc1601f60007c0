package preferdestructuring

import (
	"strings"

	"github.com/jeduden/lintstack/internal/rule"
	"github.com/jeduden/lintstack/internal/syntax"
)

func init() {
	rule.Register(&Rule{})
}

// Rule suggests destructuring for declarations and assignments that read
// one property or array element into a variable, e.g. const foo = obj.foo.
type Rule struct{}

// ID implements rule.Rule.
func (r *Rule) ID() string { return "prefer-destructuring" }

// Description implements rule.Rule.
func (r *Rule) Description() string {
	return "Require destructuring from arrays and/or objects"
}

const kinds = `close({array?: bool, object?: bool})`

// Schema implements rule.Rule.
func (r *Rule) Schema() string {
	first := `(close({VariableDeclarator?: ` + kinds + `, AssignmentExpression?: ` + kinds + `}) | ` + kinds + `)`
	return `[] | [` + first + `] | [` + first + `, close({enforceForRenamedProperties?: bool})]`
}

type enabled struct{ array, object bool }

// Create implements rule.Rule.
func (r *Rule) Create(ctx *rule.Context) (rule.Visitor, error) {
	decl := enabled{array: true, object: true}
	assign := decl
	if opts := ctx.Options.Object(0); opts != nil {
		_, hasArray := opts["array"]
		_, hasObject := opts["object"]
		if hasArray || hasObject {
			decl = read(opts)
			assign = decl
		} else {
			decl = read(object(opts["VariableDeclarator"]))
			assign = read(object(opts["AssignmentExpression"]))
		}
	}
	renamed := rule.GetBoolOption(ctx.Options.Object(1), "enforceForRenamedProperties", false)

	check := func(left, right, report syntax.Node, want enabled) {
		right = syntax.Unwrap(right, "parenthesized_expression")
		if left == nil || right == nil || left.Kind() != "identifier" {
			return
		}
		switch right.Kind() {
		case "subscript_expression":
			if obj := right.Field("object"); obj != nil && obj.Kind() == "super" {
				return
			}
			idx := right.Field("index")
			if idx == nil {
				return
			}
			if idx.Kind() == "number" {
				if want.array {
					ctx.Report(report, "Use array destructuring.")
				}
				return
			}
			if !want.object {
				return
			}
			if renamed || (idx.Kind() == "string" && unquote(idx.Text()) == left.Text()) {
				ctx.Report(report, "Use object destructuring.")
			}
		case "member_expression":
			obj, prop := right.Field("object"), right.Field("property")
			if obj == nil || prop == nil || obj.Kind() == "super" || prop.Kind() == "private_property_identifier" {
				return
			}
			if want.object && (renamed || prop.Text() == left.Text()) {
				ctx.Report(report, "Use object destructuring.")
			}
		}
	}

	return rule.Visit(func(n syntax.Node) error {
		switch n.Kind() {
		case "variable_declarator":
			check(n.Field("name"), n.Field("value"), n, decl)
		case "assignment_expression":
			check(syntax.Unwrap(n.Field("left"), "parenthesized_expression"), n.Field("right"), n, assign)
		}
		return nil
	}, "variable_declarator", "assignment_expression"), nil
}

func read(opts map[string]any) enabled {
	return enabled{
		array:  rule.GetBoolOption(opts, "array", false),
		object: rule.GetBoolOption(opts, "object", false),
	}
}

func object(v any) map[string]any {
	return rule.Options{v}.Object(0)
}

func unquote(s string) string {
	if len(s) >= 2 && strings.ContainsRune(`'"`, rune(s[0])) {
		return s[1 : len(s)-1]
	}
	return s
}
