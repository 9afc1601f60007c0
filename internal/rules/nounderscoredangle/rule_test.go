package nounderscoredangle

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jeduden/lintstack/internal/ruletest"
)

func TestNoUnderscoreDangle(t *testing.T) {
	ruletest.Run(t, &Rule{},
		[]ruletest.Case{
			{Code: "const foo = 1;\nfunction bar() {}\n"},
			{Code: "const _ = require('lodash');\n"},
			{Code: "const a = obj.__proto__;\n"},
			{Name: "allow list", Code: "const _id = doc._id;\n", Options: []any{map[string]any{"allow": []any{"_id"}}}},
			{Name: "after this", Code: "class A { m() { return this._secret; } }\n", Options: []any{map[string]any{"allowAfterThis": true}}},
			{Name: "method names not enforced", Code: "class A { _m() {} }\n"},
			{Name: "parameters allowed", Code: "function f(_unused: number) {}\n"},
		},
		[]ruletest.Case{
			{Code: "const _foo = 1;\n", Errors: []ruletest.Error{{Line: 1, Column: 7, Message: "Unexpected dangling '_' in '_foo'."}}},
			{Code: "let foo_ = 1;\n", Errors: []ruletest.Error{{Message: "Unexpected dangling '_' in 'foo_'."}}},
			{Code: "function _helper() {}\n", Errors: []ruletest.Error{{Column: 10, Message: "Unexpected dangling '_' in '_helper'."}}},
			{Code: "const x = obj._private;\n", Errors: []ruletest.Error{{Column: 15}}},
			{Name: "this not allowed", Code: "class A { m() { return this._secret; } }\n", Errors: []ruletest.Error{{Message: "Unexpected dangling '_' in '_secret'."}}},
			{
				Name:    "method names enforced",
				Code:    "class A { _m() {} }\n",
				Options: []any{map[string]any{"enforceInMethodNames": true}},
				Errors:  []ruletest.Error{{Column: 11, Message: "Unexpected dangling '_' in '_m'."}},
			},
			{
				Name:    "parameters enforced",
				Code:    "function f(_unused: number) {}\n",
				Options: []any{map[string]any{"allowFunctionParams": false}},
				Errors:  []ruletest.Error{{Column: 12, Message: "Unexpected dangling '_' in '_unused'."}},
			},
		},
	)
}

func TestDangling(t *testing.T) {
	assert.True(t, dangling("_a"))
	assert.True(t, dangling("a_"))
	assert.True(t, dangling("__dirname"))
	assert.False(t, dangling("_"))
	assert.False(t, dangling("a_b"))
	assert.False(t, dangling(""))
}
