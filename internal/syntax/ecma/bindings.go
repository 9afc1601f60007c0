// Package ecma holds helpers over the JavaScript and TypeScript grammars
// shared by rules that reason about declarations.
package ecma

import "github.com/jeduden/lintstack/internal/syntax"

// FunctionKinds are the node kinds that open a function scope.
var FunctionKinds = []string{
	"function_declaration", "function_expression", "function", "arrow_function",
	"method_definition", "generator_function_declaration", "generator_function",
}

// IsFunction reports whether n opens a function scope.
func IsFunction(n syntax.Node) bool {
	if n == nil {
		return false
	}
	for _, k := range FunctionKinds {
		if n.Kind() == k {
			return true
		}
	}
	return false
}

// Bindings returns the identifiers a binding pattern or parameter list
// binds. Default values, types and property keys are skipped.
func Bindings(n syntax.Node) []syntax.Node {
	if n == nil {
		return nil
	}
	switch n.Kind() {
	case "identifier", "shorthand_property_identifier_pattern":
		return []syntax.Node{n}
	case "required_parameter", "optional_parameter":
		return Bindings(n.Field("pattern"))
	case "pair_pattern":
		return Bindings(n.Field("value"))
	case "assignment_pattern", "object_assignment_pattern":
		return Bindings(n.Field("left"))
	case "formal_parameters", "object_pattern", "array_pattern", "rest_pattern":
		var out []syntax.Node
		for i := 0; i < n.NumChildren(); i++ {
			if c := n.Child(i); c != nil && c.Named() {
				out = append(out, Bindings(c)...)
			}
		}
		return out
	}
	return nil
}

// Params returns the identifiers bound by the parameters of a function.
func Params(fn syntax.Node) []syntax.Node {
	if p := fn.Field("parameter"); p != nil {
		return Bindings(p)
	}
	return Bindings(fn.Field("parameters"))
}

// DeclaresLoopVar reports whether a for-in/of loop declares its own
// variable with var, let or const.
func DeclaresLoopVar(loop syntax.Node) bool {
	for i := 0; i < loop.NumChildren(); i++ {
		c := loop.Child(i)
		if c == nil || c.Named() {
			continue
		}
		switch c.Text() {
		case "var", "let", "const":
			return true
		}
	}
	return false
}

// Before reports whether a comes strictly before b.
func Before(a, b syntax.Position) bool {
	return a.Line < b.Line || (a.Line == b.Line && a.Column < b.Column)
}
