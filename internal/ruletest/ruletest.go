// Package ruletest runs a single rule over source snippets in tests.
package ruletest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeduden/lintstack/internal/config"
	"github.com/jeduden/lintstack/internal/engine"
	"github.com/jeduden/lintstack/internal/lint"
	"github.com/jeduden/lintstack/internal/parser"
	"github.com/jeduden/lintstack/internal/rule"
	"github.com/jeduden/lintstack/internal/schema"

	// Parser adapters.
	_ "github.com/jeduden/lintstack/internal/parser/markdown"
	_ "github.com/jeduden/lintstack/internal/parser/treesitter"
)

// DefaultParser parses cases that name no parser.
const DefaultParser = "@typescript-eslint/parser"

// Case is one snippet and the findings it should produce.
type Case struct {
	Name string
	Code string
	// Filename is the path the snippet is linted as. Defaults to test.ts.
	Filename string
	Options  []any
	Settings map[string]any
	Env      []string
	Parser   string
	// ParserOptions are passed to the adapter, e.g. ecmaFeatures.jsx.
	ParserOptions map[string]any
	Errors        []Error
}

// Error is an expected finding. Zero Line or Column are not compared.
type Error struct {
	Line    int
	Column  int
	Message string
}

// Lint runs r alone over c and returns its diagnostics. The options must
// satisfy the rule's schema and no diagnostic may be an engine failure.
func Lint(t testing.TB, r rule.Rule, c Case) []lint.Diagnostic {
	t.Helper()
	require.NoError(t, schema.Validate(r.Schema(), c.Options), "options do not match the rule schema")

	reg := rule.NewRegistry()
	require.NoError(t, reg.Register(rule.CoreSource, r))

	name := c.Parser
	if name == "" {
		name = DefaultParser
	}
	require.True(t, parser.Default.Has(name), "parser %q is not registered", name)

	cfg := &config.EffectiveConfig{
		Parser:        name,
		ParserOptions: c.ParserOptions,
		Env:           c.Env,
		Settings:      c.Settings,
		Rules: map[string]config.RuleSetting{
			r.ID(): {Severity: lint.Error, Options: rule.Options(c.Options)},
		},
	}
	path := c.Filename
	if path == "" {
		path = "test.ts"
	}
	diags := engine.New(reg).LintAll(path, []byte(c.Code), cfg)
	for _, d := range diags {
		require.False(t, d.Fatal(), "%s: %s", d.Kind, d.Message)
	}
	return diags
}

// Run checks that every valid case is clean and every invalid case
// produces exactly its expected errors, in order.
func Run(t *testing.T, r rule.Rule, valid, invalid []Case) {
	t.Helper()
	for _, c := range valid {
		t.Run("valid/"+name(c), func(t *testing.T) {
			diags := Lint(t, r, c)
			assert.Empty(t, diags)
		})
	}
	for _, c := range invalid {
		t.Run("invalid/"+name(c), func(t *testing.T) {
			require.NotEmpty(t, c.Errors, "invalid case without expected errors")
			diags := Lint(t, r, c)
			require.Len(t, diags, len(c.Errors), "diagnostics: %+v", diags)
			for i, want := range c.Errors {
				got := diags[i]
				assert.Equal(t, r.ID(), got.RuleID)
				if want.Message != "" {
					assert.Equal(t, want.Message, got.Message, "error %d", i)
				}
				if want.Line != 0 {
					assert.Equal(t, want.Line, got.Line, "error %d line", i)
				}
				if want.Column != 0 {
					assert.Equal(t, want.Column, got.Column, "error %d column", i)
				}
			}
		})
	}
}

func name(c Case) string {
	if c.Name != "" {
		return c.Name
	}
	if len(c.Code) > 40 {
		return c.Code[:40]
	}
	return c.Code
}
