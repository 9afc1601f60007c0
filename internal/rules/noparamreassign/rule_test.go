package noparamreassign

import (
	"testing"

	"github.com/jeduden/lintstack/internal/ruletest"
)

func TestNoParamReassign(t *testing.T) {
	const (
		assign = "Assignment to function parameter 'bar'."
		prop   = "Assignment to property of function parameter 'bar'."
	)
	props := []any{map[string]any{"props": true}}

	ruletest.Run(t, &Rule{},
		[]ruletest.Case{
			{Code: "function foo(bar) {\n  const baz = bar;\n}\n"},
			{Code: "function foo(bar) {\n  bar.prop = 'value';\n}\n"},
			{Code: "let bar = 1;\nfunction foo() {\n  bar = 2;\n}\n"},
			{Name: "loop declares its own variable", Code: "function foo(bar) {\n  for (const bar of [1]) {\n    console.log(bar);\n  }\n}\n"},
			{
				Name:    "ignored property modifications",
				Code:    "function foo(acc, item) {\n  acc[item] = 1;\n  return acc;\n}\n",
				Options: []any{map[string]any{"props": true, "ignorePropertyModificationsFor": []any{"acc"}}},
			},
			{
				Name:    "ignored by pattern",
				Code:    "const f = (accTotal) => {\n  accTotal.n += 1;\n};\n",
				Options: []any{map[string]any{"props": true, "ignorePropertyModificationsForRegex": []any{"^acc"}}},
			},
		},
		[]ruletest.Case{
			{
				Code:   "function foo(bar) {\n  bar = 13;\n}\n",
				Errors: []ruletest.Error{{Line: 2, Column: 3, Message: assign}},
			},
			{Name: "augmented", Code: "function foo(bar) {\n  bar += 13;\n}\n", Errors: []ruletest.Error{{Line: 2, Message: assign}}},
			{Name: "update", Code: "function foo(bar) {\n  bar++;\n}\n", Errors: []ruletest.Error{{Line: 2, Message: assign}}},
			{Name: "for in", Code: "function foo(bar) {\n  for (bar in baz) {}\n}\n", Errors: []ruletest.Error{{Line: 2, Column: 8}}},
			{Name: "arrow", Code: "const f = bar => {\n  bar = 1;\n};\n", Errors: []ruletest.Error{{Line: 2, Message: assign}}},
			{Name: "typed parameter", Code: "function foo(bar: number): void {\n  bar = 2;\n}\n", Errors: []ruletest.Error{{Line: 2, Message: assign}}},
			{Name: "destructured parameter", Code: "function foo({ bar }) {\n  bar = 2;\n}\n", Errors: []ruletest.Error{{Line: 2, Message: assign}}},
			{Name: "from closure", Code: "function foo(bar) {\n  return () => {\n    bar = 2;\n  };\n}\n", Errors: []ruletest.Error{{Line: 3, Column: 5}}},
			{
				Name:    "property",
				Code:    "function foo(bar) {\n  bar.prop = 'value';\n  bar.a.b++;\n  delete bar.aaa;\n}\n",
				Options: props,
				Errors:  []ruletest.Error{{Line: 2, Message: prop}, {Line: 3, Message: prop}, {Line: 4, Message: prop}},
			},
		},
	)
}
