package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

const plusplusSchema = `[...close({allowForLoopAfterthoughts?: bool})]`

func TestValidate_EmptySchemaAcceptsAnything(t *testing.T) {
	assert.NoError(t, Validate("", []any{"anything", map[string]any{"x": 1}}))
	assert.NoError(t, Validate("  ", nil))
}

func TestValidate_ListOfObjects(t *testing.T) {
	assert.NoError(t, Validate(plusplusSchema, []any{}))
	assert.NoError(t, Validate(plusplusSchema, []any{
		map[string]any{"allowForLoopAfterthoughts": true},
	}))
}

func TestValidate_RejectsWrongType(t *testing.T) {
	err := Validate(plusplusSchema, []any{
		map[string]any{"allowForLoopAfterthoughts": "yes"},
	})
	assert.Error(t, err)
}

func TestValidate_RejectsUnknownField(t *testing.T) {
	err := Validate(plusplusSchema, []any{
		map[string]any{"allowEverything": true},
	})
	assert.Error(t, err)
}

func TestValidate_RejectsMisspelledKey(t *testing.T) {
	err := Validate(plusplusSchema, []any{
		map[string]any{"allowForLoopAfterThoughts": true},
	})
	assert.Error(t, err)
}

func TestValidate_RejectsUnknownKeyInDisjunction(t *testing.T) {
	src := `[...(int & >=0 | close({code?: int & >=0, ignoreUrls?: bool}))]`
	assert.Error(t, Validate(src, []any{map[string]any{"code": 80, "ignoreURLs": true}}))
}

func TestValidate_Disjunction(t *testing.T) {
	src := `[...(int & >=0 | close({code?: int & >=0, ignoreUrls?: bool}))]`
	assert.NoError(t, Validate(src, []any{100}))
	assert.NoError(t, Validate(src, []any{map[string]any{"code": 120, "ignoreUrls": true}}))
	assert.Error(t, Validate(src, []any{-1}))
}

func TestValidate_MapAnyKeys(t *testing.T) {
	src := `{project?: string, ...}`
	assert.NoError(t, Validate(src, map[any]any{"project": "./tsconfig.json", "extra": 1}))
	assert.Error(t, Validate(src, map[string]any{"project": 3}))
}

func TestValidate_InvalidSchema(t *testing.T) {
	assert.Error(t, Validate(`[...{`, []any{}))
	assert.Error(t, Check(`[...{`))
	assert.NoError(t, Check(plusplusSchema))
}
