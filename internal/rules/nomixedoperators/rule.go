package nomixedoperators

import (
	"fmt"

	"github.com/jeduden/lintstack/internal/rule"
	"github.com/jeduden/lintstack/internal/syntax"
	"github.com/jeduden/lintstack/internal/syntax/ecma"
)

func init() {
	rule.Register(&Rule{})
}

// Rule reports operators of one group mixed without parentheses, such as
// a && b || c. With allowSamePrecedence, mixing operators that bind
// equally tightly (a * b / c) is allowed.
type Rule struct{}

// ID implements rule.Rule.
func (r *Rule) ID() string { return "no-mixed-operators" }

// Description implements rule.Rule.
func (r *Rule) Description() string { return "Disallow mixed binary operators" }

const operator = `("+" | "-" | "*" | "/" | "%" | "**" | "&" | "|" | "^" | "~" | "<<" | ">>" | ">>>" | "==" | "!=" | "===" | "!==" | ">" | ">=" | "<" | "<=" | "&&" | "||" | "in" | "instanceof" | "?:" | "??")`

// Schema implements rule.Rule.
func (r *Rule) Schema() string {
	return `[] | [close({groups?: [...[...` + operator + `]], allowSamePrecedence?: bool})]`
}

// ternary stands for the conditional operator in groups.
const ternary = "?:"

var defaultGroups = [][]string{
	{"+", "-", "*", "/", "%", "**"},
	{"&", "|", "^", "~", "<<", ">>", ">>>"},
	{"==", "!=", "===", "!==", ">", ">=", "<", "<="},
	{"&&", "||"},
	{"in", "instanceof"},
}

// precedence returns how tightly op binds; higher binds tighter.
func precedence(op string) int {
	switch op {
	case ternary:
		return 3
	case "||", "??":
		return 4
	case "&&":
		return 5
	case "|":
		return 6
	case "^":
		return 7
	case "&":
		return 8
	case "==", "!=", "===", "!==":
		return 9
	case "<", "<=", ">", ">=", "in", "instanceof":
		return 10
	case "<<", ">>", ">>>":
		return 11
	case "+", "-":
		return 12
	case "*", "/", "%":
		return 13
	case "**":
		return 15
	}
	return 0
}

// Create implements rule.Rule.
func (r *Rule) Create(ctx *rule.Context) (rule.Visitor, error) {
	opts := ctx.Options.Object(0)
	groups := defaultGroups
	if raw, ok := opts["groups"].([]any); ok {
		groups = nil
		for _, g := range raw {
			members, _ := g.([]any)
			var group []string
			for _, m := range members {
				if s, ok := m.(string); ok {
					group = append(group, s)
				}
			}
			groups = append(groups, group)
		}
	}
	samePrecedence := rule.GetBoolOption(opts, "allowSamePrecedence", true)

	return rule.Visit(func(n syntax.Node) error {
		parent := n.Parent()
		if parent == nil {
			return nil
		}
		op, opTok := operatorOf(n)
		pop, popTok := operatorOf(parent)
		if op == "" || pop == "" || op == pop {
			return nil
		}
		if parent.Kind() == "ternary_expression" && !syntax.Same(parent.Field("condition"), n) {
			return nil
		}
		if !inOneGroup(groups, op, pop) {
			return nil
		}
		if samePrecedence && precedence(op) == precedence(pop) {
			return nil
		}

		left, right := opTok, popTok
		leftOp, rightOp := op, pop
		if ecma.Before(popTok.Start(), opTok.Start()) {
			left, right = popTok, opTok
			leftOp, rightOp = pop, op
		}
		msg := fmt.Sprintf("Unexpected mix of '%s' and '%s'. Use parentheses to clarify the intended order of operations.", leftOp, rightOp)
		ctx.ReportSpan(left.Start(), left.End(), msg)
		ctx.ReportSpan(right.Start(), right.End(), msg)
		return nil
	}, "binary_expression"), nil
}

// operatorOf returns the operator of a binary or conditional expression
// and its token. The token of a conditional is its "?".
func operatorOf(n syntax.Node) (string, syntax.Node) {
	switch n.Kind() {
	case "binary_expression":
		if tok := n.Field("operator"); tok != nil {
			return tok.Text(), tok
		}
	case "ternary_expression":
		for i := 0; i < n.NumChildren(); i++ {
			if c := n.Child(i); c != nil && !c.Named() && c.Text() == "?" {
				return ternary, c
			}
		}
	}
	return "", nil
}

func inOneGroup(groups [][]string, a, b string) bool {
	for _, g := range groups {
		var hasA, hasB bool
		for _, op := range g {
			hasA = hasA || op == a
			hasB = hasB || op == b
		}
		if hasA && hasB {
			return true
		}
	}
	return false
}
