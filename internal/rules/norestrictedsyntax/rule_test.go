package norestrictedsyntax

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeduden/lintstack/internal/lint"
	"github.com/jeduden/lintstack/internal/rule"
	"github.com/jeduden/lintstack/internal/ruletest"
)

func TestNoRestrictedSyntax(t *testing.T) {
	ruletest.Run(t, &Rule{},
		[]ruletest.Case{
			{Code: "for (const x of xs) {}\n"},
			{Code: "for (const x of xs) {}\n", Options: []any{"ForInStatement"}},
			{Code: "for (let i = 0; i < 3; i++) {}\n", Options: []any{"ForOfStatement", "ForInStatement"}},
		},
		[]ruletest.Case{
			{
				Code:    "for (const card of deck) {\n  draw(card);\n}\n",
				Options: []any{"ForOfStatement"},
				Errors:  []ruletest.Error{{Line: 1, Column: 1, Message: "Using 'ForOfStatement' is not allowed."}},
			},
			{
				Name:    "custom message",
				Code:    "for (const k in obj) {}\n",
				Options: []any{map[string]any{"selector": "ForInStatement", "message": "for..in loops iterate over the entire prototype chain."}},
				Errors:  []ruletest.Error{{Message: "for..in loops iterate over the entire prototype chain."}},
			},
			{
				Name:    "several selectors",
				Code:    "outer: while (true) {\n  with (obj) {}\n}\n",
				Options: []any{"LabeledStatement", "WithStatement", "WhileStatement"},
				Errors: []ruletest.Error{
					{Line: 1, Column: 1, Message: "Using 'LabeledStatement' is not allowed."},
					{Line: 1, Column: 8, Message: "Using 'WhileStatement' is not allowed."},
					{Line: 2, Column: 3, Message: "Using 'WithStatement' is not allowed."},
				},
				Parser: "javascript",
			},
		},
	)
}

func TestNoRestrictedSyntax_UnsupportedSelector(t *testing.T) {
	assert.Empty(t, ruletest.Lint(t, &Rule{}, ruletest.Case{Code: "for (const x of xs) {}\n"}))

	_, err := (&Rule{}).Create(ruleContext("CallExpression[callee.name='eval']"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported selector")
}

func ruleContext(opts ...any) *rule.Context {
	return rule.NewContext(lint.NewFile("a.ts", nil, nil), "no-restricted-syntax", lint.Error, opts, nil, nil, nil)
}
