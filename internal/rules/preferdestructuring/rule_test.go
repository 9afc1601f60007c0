package preferdestructuring

import (
	"testing"

	"github.com/jeduden/lintstack/internal/ruletest"
)

func TestPreferDestructuring(t *testing.T) {
	const (
		object = "Use object destructuring."
		array  = "Use array destructuring."
	)
	airbnb := []any{
		map[string]any{
			"VariableDeclarator":   map[string]any{"array": false, "object": true},
			"AssignmentExpression": map[string]any{"array": true, "object": false},
		},
		map[string]any{"enforceForRenamedProperties": false},
	}

	ruletest.Run(t, &Rule{},
		[]ruletest.Case{
			{Code: "const { foo } = object;\nconst [bar] = array;\n"},
			{Code: "const foo = object.bar;\n"},
			{Code: "const foo = object[key];\n"},
			{Code: "let foo;\nfoo += object.foo;\n"},
			{Name: "array off for declarations", Code: "const first = cards[0];\n", Options: airbnb},
			{Name: "object off for assignments", Code: "let foo;\nfoo = object.foo;\n", Options: airbnb},
			{Name: "flat form", Code: "const first = cards[0];\n", Options: []any{map[string]any{"object": true}}},
		},
		[]ruletest.Case{
			{Code: "const foo = object.foo;\n", Errors: []ruletest.Error{{Line: 1, Column: 7, Message: object}}},
			{Code: "const foo = object['foo'];\n", Errors: []ruletest.Error{{Message: object}}},
			{Code: "const first = cards[0];\n", Errors: []ruletest.Error{{Column: 7, Message: array}}},
			{Name: "assignment", Code: "let foo;\nfoo = object.foo;\n", Errors: []ruletest.Error{{Line: 2, Column: 1, Message: object}}},
			{Name: "typed declaration", Code: "const foo: string = bar.foo;\n", Errors: []ruletest.Error{{Message: object}}},
			{
				Name:    "renamed properties",
				Code:    "const foo = object.bar;\n",
				Options: []any{map[string]any{"object": true}, map[string]any{"enforceForRenamedProperties": true}},
				Errors:  []ruletest.Error{{Message: object}},
			},
			{Name: "array on for assignments", Code: "let x;\nx = list[1];\n", Options: airbnb, Errors: []ruletest.Error{{Line: 2, Message: array}}},
		},
	)
}
