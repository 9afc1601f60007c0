package tseslint

import (
	"github.com/jeduden/lintstack/internal/rule"
	"github.com/jeduden/lintstack/internal/syntax"
	"github.com/jeduden/lintstack/internal/syntax/ecma"
)

// NoUseBeforeDefine reports references to functions, classes, variables
// and enums that appear before their declaration in the same or an
// enclosing block scope. var declarations are treated as block scoped.
type NoUseBeforeDefine struct{}

func (r *NoUseBeforeDefine) ID() string { return Name + "/no-use-before-define" }
func (r *NoUseBeforeDefine) Description() string {
	return "Disallow the use of variables before they are defined"
}

func (r *NoUseBeforeDefine) Schema() string {
	return `[] | ["nofunc" | close({
	functions?:            bool
	classes?:              bool
	variables?:            bool
	enums?:                bool
	typedefs?:             bool
	ignoreTypeReferences?: bool
	allowNamedExports?:    bool
})]`
}

type declKind int

const (
	declParam declKind = iota
	declFunction
	declClass
	declVariable
	declEnum
)

type binding struct {
	id   syntax.Node
	kind declKind
	// decl is the variable_declarator of a variable, for initializer checks.
	decl syntax.Node
}

type scopeKey struct {
	kind       string
	start, end syntax.Position
}

type useOptions struct {
	functions, classes, variables, enums bool
	ignoreTypes, allowNamedExports       bool
}

var typeContexts = []string{
	"type_annotation", "type_query", "type_arguments", "type_alias_declaration", "interface_declaration",
}

func (r *NoUseBeforeDefine) Create(ctx *rule.Context) (rule.Visitor, error) {
	o := useOptions{functions: true, classes: true, variables: true, enums: true, ignoreTypes: true}
	if ctx.Options.String(0, "") == "nofunc" {
		o.functions = false
	}
	if m := ctx.Options.Object(0); m != nil {
		o.functions = rule.GetBoolOption(m, "functions", true)
		o.classes = rule.GetBoolOption(m, "classes", true)
		o.variables = rule.GetBoolOption(m, "variables", true)
		o.enums = rule.GetBoolOption(m, "enums", true)
		o.ignoreTypes = rule.GetBoolOption(m, "ignoreTypeReferences", true)
		o.allowNamedExports = rule.GetBoolOption(m, "allowNamedExports", false)
	}

	scopes := make(map[scopeKey]map[string]binding)
	lookup := func(n syntax.Node) map[string]binding {
		k := scopeKey{n.Kind(), n.Start(), n.End()}
		s, ok := scopes[k]
		if !ok {
			s = declarations(n)
			scopes[k] = s
		}
		return s
	}

	return rule.Visit(func(n syntax.Node) error {
		if isBinding(n) {
			return nil
		}
		if o.ignoreTypes && syntax.Ancestor(n, typeContexts...) != nil {
			return nil
		}
		if p := n.Parent(); o.allowNamedExports && p != nil && p.Kind() == "export_specifier" {
			return nil
		}
		name := n.Text()
		for p := n.Parent(); p != nil; p = p.Parent() {
			if !isScope(p) {
				continue
			}
			b, ok := lookup(p)[name]
			if !ok {
				continue
			}
			if o.forbidden(n, b) {
				ctx.Reportf(n, "'%s' was used before it was defined.", name)
			}
			return nil
		}
		return nil
	}, "identifier", "shorthand_property_identifier"), nil
}

func (o useOptions) forbidden(ref syntax.Node, b binding) bool {
	if b.kind == declParam {
		return false
	}
	early := ecma.Before(ref.Start(), b.id.Start())
	if !early && !(b.kind == declVariable && inInitializer(ref, b.decl)) {
		return false
	}
	outer := !syntax.Same(functionScope(ref), functionScope(b.id))
	switch b.kind {
	case declFunction:
		return o.functions
	case declClass:
		return o.classes || !outer
	case declEnum:
		return o.enums || !outer
	}
	return o.variables || !outer
}

// inInitializer reports whether ref is read while its own declarator is
// being evaluated, e.g. const a = a + 1.
func inInitializer(ref, decl syntax.Node) bool {
	if decl == nil {
		return false
	}
	value := decl.Field("value")
	if value == nil || ecma.Before(ref.Start(), value.Start()) || ecma.Before(value.End(), ref.End()) {
		return false
	}
	return syntax.Same(functionScope(ref), functionScope(decl))
}

// functionScope returns the nearest enclosing function, or nil at the top
// level.
func functionScope(n syntax.Node) syntax.Node {
	return syntax.Ancestor(n, ecma.FunctionKinds...)
}

func isScope(n syntax.Node) bool {
	switch n.Kind() {
	case "program", "statement_block", "switch_body", "for_statement", "for_in_statement", "catch_clause":
		return true
	}
	return ecma.IsFunction(n)
}

// declarations returns the names a scope node declares directly.
func declarations(scope syntax.Node) map[string]binding {
	out := make(map[string]binding)
	add := func(id syntax.Node, kind declKind, decl syntax.Node) {
		if id == nil {
			return
		}
		if _, dup := out[id.Text()]; !dup {
			out[id.Text()] = binding{id: id, kind: kind, decl: decl}
		}
	}
	var statement func(n syntax.Node)
	statement = func(n syntax.Node) {
		if n.Kind() == "export_statement" {
			if d := n.Field("declaration"); d != nil {
				statement(d)
			}
			return
		}
		switch n.Kind() {
		case "function_declaration", "generator_function_declaration":
			add(n.Field("name"), declFunction, nil)
		case "class_declaration", "abstract_class_declaration":
			add(n.Field("name"), declClass, nil)
		case "enum_declaration":
			add(n.Field("name"), declEnum, nil)
		case "lexical_declaration", "variable_declaration":
			for i := 0; i < n.NumChildren(); i++ {
				d := n.Child(i)
				if d == nil || d.Kind() != "variable_declarator" {
					continue
				}
				for _, id := range ecma.Bindings(d.Field("name")) {
					add(id, declVariable, d)
				}
			}
		}
	}
	children := func(n syntax.Node, fn func(syntax.Node)) {
		for i := 0; i < n.NumChildren(); i++ {
			if c := n.Child(i); c != nil && c.Named() {
				fn(c)
			}
		}
	}

	switch scope.Kind() {
	case "program", "statement_block":
		children(scope, statement)
	case "switch_body":
		children(scope, func(c syntax.Node) { children(c, statement) })
	case "for_statement":
		if first := scope.Field("initializer"); first != nil {
			statement(first)
		}
	case "for_in_statement":
		if ecma.DeclaresLoopVar(scope) {
			for _, id := range ecma.Bindings(scope.Field("left")) {
				add(id, declParam, nil)
			}
		}
	case "catch_clause":
		for _, id := range ecma.Bindings(scope.Field("parameter")) {
			add(id, declParam, nil)
		}
	default:
		for _, id := range ecma.Params(scope) {
			add(id, declParam, nil)
		}
		switch scope.Kind() {
		case "function_expression", "function", "generator_function":
			add(scope.Field("name"), declParam, nil)
		}
	}
	return out
}

// isBinding reports whether id is the declared name rather than a
// reference.
func isBinding(id syntax.Node) bool {
	cur := id
	for p := cur.Parent(); p != nil; cur, p = p, p.Parent() {
		switch p.Kind() {
		case "object_pattern", "array_pattern", "rest_pattern":
			continue
		case "pair_pattern":
			if !syntax.Same(p.Field("value"), cur) {
				return false
			}
			continue
		case "assignment_pattern", "object_assignment_pattern":
			if !syntax.Same(p.Field("left"), cur) {
				return false
			}
			continue
		case "variable_declarator":
			return syntax.Same(p.Field("name"), cur)
		case "required_parameter", "optional_parameter":
			return syntax.Same(p.Field("pattern"), cur)
		case "formal_parameters":
			return true
		case "arrow_function":
			return syntax.Same(p.Field("parameter"), cur)
		case "catch_clause":
			return syntax.Same(p.Field("parameter"), cur)
		case "for_in_statement":
			return syntax.Same(p.Field("left"), cur) && ecma.DeclaresLoopVar(p)
		case "import_specifier", "import_clause", "namespace_import":
			return true
		case "export_specifier":
			return syntax.Same(p.Field("alias"), cur)
		case "function_declaration", "function_expression", "function", "generator_function_declaration",
			"generator_function", "class_declaration", "abstract_class_declaration", "class", "enum_declaration":
			return syntax.Same(p.Field("name"), cur)
		}
		return false
	}
	return false
}
