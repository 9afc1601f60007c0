package noconstantcondition

import (
	"github.com/jeduden/lintstack/internal/rule"
	"github.com/jeduden/lintstack/internal/syntax"
)

func init() {
	rule.Register(&Rule{})
}

// Rule reports conditions of if statements, ternaries and (unless
// checkLoops is off) loops whose value is known without running the code.
type Rule struct{}

// ID implements rule.Rule.
func (r *Rule) ID() string { return "no-constant-condition" }

// Description implements rule.Rule.
func (r *Rule) Description() string { return "Disallow constant expressions in conditions" }

// Schema implements rule.Rule.
func (r *Rule) Schema() string {
	return `[] | [close({checkLoops?: bool | "all" | "allExceptWhileTrue" | "none"})]`
}

// loop check modes
const (
	loopsAll = iota
	loopsExceptWhileTrue
	loopsNone
)

// Create implements rule.Rule.
func (r *Rule) Create(ctx *rule.Context) (rule.Visitor, error) {
	mode := loopsAll
	switch v := ctx.Options.Object(0)["checkLoops"].(type) {
	case bool:
		if !v {
			mode = loopsNone
		}
	case string:
		switch v {
		case "allExceptWhileTrue":
			mode = loopsExceptWhileTrue
		case "none":
			mode = loopsNone
		}
	}

	return rule.Visit(func(n syntax.Node) error {
		loop := n.Kind() != "if_statement" && n.Kind() != "ternary_expression"
		if loop && mode == loopsNone {
			return nil
		}
		test := condition(n)
		if test == nil || !constant(test) {
			return nil
		}
		if mode == loopsExceptWhileTrue && n.Kind() == "while_statement" && test.Kind() == "true" {
			return nil
		}
		ctx.Report(test, "Unexpected constant condition.")
		return nil
	}, "if_statement", "while_statement", "do_statement", "for_statement", "ternary_expression"), nil
}

// condition returns the tested expression of n with parentheses removed.
func condition(n syntax.Node) syntax.Node {
	c := n.Field("condition")
	if c == nil {
		return nil
	}
	switch c.Kind() {
	case "empty_statement", ";":
		return nil
	case "expression_statement":
		c = syntax.FirstNamed(c)
	}
	return syntax.Unwrap(c, "parenthesized_expression")
}

var literals = map[string]bool{
	"true": true, "false": true, "null": true, "undefined": true,
	"number": true, "string": true, "regex": true,
	"object": true, "array": true, "class": true,
	"arrow_function": true, "function": true, "function_expression": true,
}

// constant reports whether evaluating n always yields the same truthiness.
func constant(n syntax.Node) bool {
	n = syntax.Unwrap(n, "parenthesized_expression")
	if n == nil {
		return false
	}
	if literals[n.Kind()] {
		return true
	}
	switch n.Kind() {
	case "template_string":
		for i := 0; i < n.NumChildren(); i++ {
			if c := n.Child(i); c != nil && c.Kind() == "template_substitution" {
				return false
			}
		}
		return true
	case "unary_expression":
		switch op := n.Field("operator"); {
		case op == nil:
			return false
		case op.Text() == "void" || op.Text() == "typeof":
			return true
		default:
			return constant(n.Field("argument"))
		}
	case "binary_expression":
		left, right := n.Field("left"), n.Field("right")
		op := n.Field("operator")
		if op != nil && (op.Text() == "in" || op.Text() == "instanceof") {
			return false
		}
		return constant(left) && constant(right)
	case "assignment_expression":
		return constant(n.Field("right"))
	case "sequence_expression":
		last := n.Field("right")
		if last == nil && n.NumChildren() > 0 {
			last = n.Child(n.NumChildren() - 1)
		}
		return constant(last)
	}
	return false
}
