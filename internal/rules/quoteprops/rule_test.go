package quoteprops

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jeduden/lintstack/internal/ruletest"
)

func TestQuoteProps(t *testing.T) {
	asNeeded := []any{"as-needed"}
	consistentAsNeeded := []any{"consistent-as-needed"}

	ruletest.Run(t, &Rule{},
		[]ruletest.Case{
			{Code: "const o = { 'a': 1, 'b-c': 2 };\n"},
			{Name: "as-needed", Code: "const o = { a: 1, 'b-c': 2, 1: 3 };\n", Options: asNeeded},
			{Name: "shorthand and methods are skipped", Code: "const o = { a, b() {}, ...rest };\n"},
			{Name: "keywords allowed quoted", Code: "const o = { 'if': 1 };\n", Options: []any{"as-needed", map[string]any{"keywords": true}}},
			{Name: "unnecessary off", Code: "const o = { 'a': 1 };\n", Options: []any{"as-needed", map[string]any{"unnecessary": false}}},
			{Name: "consistent all quoted", Code: "const o = { 'a': 1, 'b': 2 };\n", Options: []any{"consistent"}},
			{Name: "consistent none quoted", Code: "const o = { a: 1, b: 2 };\n", Options: []any{"consistent"}},
			{Name: "consistent-as-needed none quoted", Code: "const o = { a: 1, b: 2 };\n", Options: consistentAsNeeded},
			{Name: "consistent-as-needed needed quotes", Code: "const o = { 'a': 1, 'b-c': 2 };\n", Options: consistentAsNeeded},
		},
		[]ruletest.Case{
			{
				Code:   "const o = { a: 1, 'b': 2 };\n",
				Errors: []ruletest.Error{{Line: 1, Column: 13, Message: "Unquoted property 'a' found."}},
			},
			{
				Name:    "as-needed",
				Code:    "const o = { 'a': 1, 'b-c': 2, '1': 3 };\n",
				Options: asNeeded,
				Errors: []ruletest.Error{
					{Column: 13, Message: "Unnecessarily quoted property 'a' found."},
					{Column: 31, Message: "Unnecessarily quoted property '1' found."},
				},
			},
			{
				Name:    "as-needed numbers",
				Code:    "const o = { 1: 3 };\n",
				Options: []any{"as-needed", map[string]any{"numbers": true}},
				Errors:  []ruletest.Error{{Message: "Unquoted number literal '1' used as key."}},
			},
			{
				Name:    "as-needed keywords",
				Code:    "const o = { if: 1 };\n",
				Options: []any{"as-needed", map[string]any{"keywords": true}},
				Errors:  []ruletest.Error{{Message: "Unquoted reserved word 'if' used as key."}},
			},
			{
				Name:    "consistent",
				Code:    "const o = { 'a': 1, b: 2 };\n",
				Options: []any{"consistent"},
				Errors:  []ruletest.Error{{Column: 21, Message: "Inconsistently quoted property 'b' found."}},
			},
			{
				Name:    "consistent-as-needed redundant",
				Code:    "const o = { 'a': 1, 'b': 2 };\n",
				Options: consistentAsNeeded,
				Errors: []ruletest.Error{
					{Column: 13, Message: "Properties shouldn't be quoted as all quotes are redundant."},
					{Column: 21, Message: "Properties shouldn't be quoted as all quotes are redundant."},
				},
			},
			{
				Name:    "consistent-as-needed mixed",
				Code:    "const o = { 'b-c': 1, d: 2 };\n",
				Options: consistentAsNeeded,
				Errors:  []ruletest.Error{{Column: 23, Message: "Inconsistently quoted property 'd' found."}},
			},
		},
	)
}

func TestIsCanonicalNumber(t *testing.T) {
	assert.True(t, isCanonicalNumber("1"))
	assert.True(t, isCanonicalNumber("1.5"))
	assert.False(t, isCanonicalNumber("01"))
	assert.False(t, isCanonicalNumber("1e3"))
	assert.False(t, isCanonicalNumber("0x10"))
	assert.False(t, isCanonicalNumber("b"))
}
