// Package schema validates free-form option values against CUE schemas.
//
// Rules and parser adapters declare their options as CUE source, e.g.
//
//	[...close({allow?: [...string]})]
//
// and values decoded from configuration documents are unified against it.
package schema

import (
	"fmt"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
)

// defPath is the definition a schema is compiled under. Definitions close
// their structs, so option keys the schema does not name are rejected.
var defPath = cue.ParsePath("#Options")

// compile wraps src in a definition and returns the definition's value.
func compile(ctx *cue.Context, src string) (cue.Value, error) {
	root := ctx.CompileString("#Options: " + src)
	if err := root.Err(); err != nil {
		return cue.Value{}, fmt.Errorf("invalid schema: %w", err)
	}
	def := root.LookupPath(defPath)
	if err := def.Err(); err != nil {
		return cue.Value{}, fmt.Errorf("invalid schema: %w", err)
	}
	return def, nil
}

// Check compiles src and reports whether it is a valid CUE schema.
// An empty schema is valid.
func Check(src string) error {
	if strings.TrimSpace(src) == "" {
		return nil
	}
	_, err := compile(cuecontext.New(), src)
	return err
}

// Validate unifies value with the schema in src. An empty schema accepts
// any value. Callers pass []any{} or map[string]any{} for "no options";
// nil encodes as null and fails most schemas.
func Validate(src string, value any) error {
	if strings.TrimSpace(src) == "" {
		return nil
	}

	// cue.Context is not safe for concurrent use; one per call keeps
	// validation callable from parallel resolvers.
	ctx := cuecontext.New()
	schemaVal, err := compile(ctx, src)
	if err != nil {
		return err
	}

	dataVal := ctx.Encode(normalize(value))
	if err := dataVal.Err(); err != nil {
		return fmt.Errorf("encode value: %w", err)
	}

	merged := schemaVal.Unify(dataVal)
	if err := merged.Validate(cue.Concrete(true)); err != nil {
		return err
	}
	return nil
}

// normalize converts YAML-decoded values into shapes cue.Context.Encode
// handles: map[any]any keys become strings and nil stays nil.
func normalize(v any) any {
	switch x := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(x))
		for k, val := range x {
			out[k] = normalize(val)
		}
		return out
	case map[any]any:
		out := make(map[string]any, len(x))
		for k, val := range x {
			out[fmt.Sprint(k)] = normalize(val)
		}
		return out
	case []any:
		out := make([]any, len(x))
		for i, val := range x {
			out[i] = normalize(val)
		}
		return out
	}
	return v
}
