package norestrictedsyntax

import (
	"fmt"

	"github.com/jeduden/lintstack/internal/rule"
	"github.com/jeduden/lintstack/internal/syntax"
)

func init() {
	rule.Register(&Rule{})
}

// Rule reports syntax named in its options. Selectors are ESTree node type
// names such as "ForOfStatement"; attribute and combinator selectors are
// not supported and fail rule setup.
type Rule struct{}

// ID implements rule.Rule.
func (r *Rule) ID() string { return "no-restricted-syntax" }

// Description implements rule.Rule.
func (r *Rule) Description() string { return "Disallow specified syntax" }

// Schema implements rule.Rule.
func (r *Rule) Schema() string {
	return `[...(string | close({selector!: string, message?: string}))]`
}

// selector matches one ESTree node type against the tree-sitter grammar.
type selector struct {
	kind  string
	match func(n syntax.Node) bool
}

var selectors = map[string]selector{
	"ForOfStatement":          {kind: "for_in_statement", match: loopWith("of")},
	"ForInStatement":          {kind: "for_in_statement", match: loopWith("in")},
	"ForStatement":            {kind: "for_statement"},
	"WhileStatement":          {kind: "while_statement"},
	"DoWhileStatement":        {kind: "do_statement"},
	"LabeledStatement":        {kind: "labeled_statement"},
	"WithStatement":           {kind: "with_statement"},
	"DebuggerStatement":       {kind: "debugger_statement"},
	"SwitchStatement":         {kind: "switch_statement"},
	"TryStatement":            {kind: "try_statement"},
	"ThrowStatement":          {kind: "throw_statement"},
	"SequenceExpression":      {kind: "sequence_expression"},
	"ConditionalExpression":   {kind: "ternary_expression"},
	"NewExpression":           {kind: "new_expression"},
	"YieldExpression":         {kind: "yield_expression"},
	"AwaitExpression":         {kind: "await_expression"},
	"TemplateLiteral":         {kind: "template_string"},
	"ClassDeclaration":        {kind: "class_declaration"},
	"FunctionDeclaration":     {kind: "function_declaration"},
	"ArrowFunctionExpression": {kind: "arrow_function"},
	"TSEnumDeclaration":       {kind: "enum_declaration"},
	"TSAsExpression":          {kind: "as_expression"},
	"TSNonNullExpression":     {kind: "non_null_expression"},
}

func loopWith(keyword string) func(syntax.Node) bool {
	return func(n syntax.Node) bool {
		for i := 0; i < n.NumChildren(); i++ {
			if c := n.Child(i); c != nil && !c.Named() && c.Text() == keyword {
				return true
			}
		}
		return false
	}
}

type restriction struct {
	selector
	message string
}

// Create implements rule.Rule.
func (r *Rule) Create(ctx *rule.Context) (rule.Visitor, error) {
	byKind := make(map[string][]restriction)
	var kinds []string
	for i := range ctx.Options {
		name := ctx.Options.String(i, "")
		message := ""
		if obj := ctx.Options.Object(i); obj != nil {
			name = rule.GetStringOption(obj, "selector", "")
			message = rule.GetStringOption(obj, "message", "")
		}
		sel, ok := selectors[name]
		if !ok {
			return nil, fmt.Errorf("unsupported selector %q", name)
		}
		if message == "" {
			message = fmt.Sprintf("Using '%s' is not allowed.", name)
		}
		if _, seen := byKind[sel.kind]; !seen {
			kinds = append(kinds, sel.kind)
		}
		byKind[sel.kind] = append(byKind[sel.kind], restriction{selector: sel, message: message})
	}

	return rule.Visit(func(n syntax.Node) error {
		for _, res := range byKind[n.Kind()] {
			if res.match == nil || res.match(n) {
				ctx.Report(n, res.message)
			}
		}
		return nil
	}, kinds...), nil
}
