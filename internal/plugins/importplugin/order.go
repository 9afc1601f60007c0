package importplugin

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/jeduden/lintstack/internal/rule"
	"github.com/jeduden/lintstack/internal/syntax"
)

const kindSchema = `("builtin" | "external" | "internal" | "unknown" | "parent" | "sibling" | "index" | "object" | "type")`

const orderSchema = `[] | [close({
	groups?:                        [...(` + kindSchema + ` | [...` + kindSchema + `])]
	"newlines-between"?:            "ignore" | "always" | "always-and-inside-groups" | "never"
	alphabetize?:                   close({order?: "ignore" | "asc" | "desc", caseInsensitive?: bool, orderImportKind?: "ignore" | "asc" | "desc"})
	pathGroups?:                    [...{...}]
	pathGroupsExcludedImportTypes?: [...string]
	distinctGroup?:                 bool
	warnOnUnassignedImports?:       bool
})]`

var defaultGroups = []any{Builtin, External, Parent, Sibling, Index}

// Order enforces a convention in the order of import statements: by
// group, then optionally alphabetically within a group.
type Order struct{}

// ID implements rule.Rule.
func (r *Order) ID() string { return Name + "/order" }

// Description implements rule.Rule.
func (r *Order) Description() string { return "Enforce a convention in module import order" }

// Schema implements rule.Rule.
func (r *Order) Schema() string { return orderSchema }

type orderOptions struct {
	ranks           map[string]int
	alphabetize     string
	caseInsensitive bool
	newlines        string
}

func parseOrderOptions(opts map[string]any) orderOptions {
	o := orderOptions{ranks: map[string]int{}, alphabetize: "ignore", newlines: "ignore"}

	groups, _ := opts["groups"].([]any)
	if groups == nil {
		groups = defaultGroups
	}
	for i, g := range groups {
		switch g := g.(type) {
		case string:
			o.ranks[g] = i
		case []any:
			for _, member := range g {
				if s, ok := member.(string); ok {
					o.ranks[s] = i
				}
			}
		}
	}
	// omitted kinds share the last rank, except type imports, which are
	// ranked by their module kind unless "type" is a group
	for _, k := range kinds {
		if _, ok := o.ranks[k]; !ok && k != Type {
			o.ranks[k] = len(groups)
		}
	}

	if alpha, ok := opts["alphabetize"].(map[string]any); ok {
		o.alphabetize = rule.GetStringOption(alpha, "order", "ignore")
		o.caseInsensitive = rule.GetBoolOption(alpha, "caseInsensitive", false)
	}
	o.newlines = rule.GetStringOption(opts, "newlines-between", "ignore")
	return o
}

type imported struct {
	node syntax.Node
	name string
	rank int
}

// Create implements rule.Rule.
func (r *Order) Create(ctx *rule.Context) (rule.Visitor, error) {
	o := parseOrderOptions(ctx.Options.Object(0))

	c := classifier{}
	if v, ok := ctx.Setting("import/internal-regex"); ok {
		if s, ok := v.(string); ok && s != "" {
			re, err := regexp.Compile(s)
			if err != nil {
				return nil, fmt.Errorf("settings import/internal-regex: %w", err)
			}
			c.internal = re
		}
	}
	c.core = rule.GetStringSliceOption(ctx.Settings, "import/core-modules", nil)

	var imports []imported
	return rule.New(rule.Funcs{
		On: []string{"import_statement"},
		Node: func(n syntax.Node) error {
			if p := n.Parent(); p == nil || p.Kind() != "program" {
				return nil
			}
			src := n.Field("source")
			if src == nil || !hasClause(n) {
				return nil
			}
			name := strings.Trim(src.Text(), `'"`)
			kind := c.kind(name)
			if isTypeImport(n) {
				if rank, ok := o.ranks[Type]; ok {
					imports = append(imports, imported{node: n, name: name, rank: rank})
					return nil
				}
			}
			imports = append(imports, imported{node: n, name: name, rank: o.ranks[kind]})
			return nil
		},
		Finish: func() error {
			o.checkOrder(ctx, imports)
			o.checkNewlines(ctx, imports)
			return nil
		},
	}), nil
}

// less reports whether a belongs before b.
func (o orderOptions) less(a, b imported) bool {
	if a.rank != b.rank {
		return a.rank < b.rank
	}
	if o.alphabetize != "asc" && o.alphabetize != "desc" {
		return false
	}
	x, y := a.name, b.name
	if o.caseInsensitive {
		x, y = strings.ToLower(x), strings.ToLower(y)
	}
	if o.alphabetize == "desc" {
		return x > y
	}
	return x < y
}

func (o orderOptions) checkOrder(ctx *rule.Context, imports []imported) {
	for i, cur := range imports {
		for _, prev := range imports[:i] {
			if o.less(cur, prev) {
				ctx.Reportf(cur.node, "`%s` import should occur before import of `%s`", cur.name, prev.name)
				break
			}
		}
	}
}

func (o orderOptions) checkNewlines(ctx *rule.Context, imports []imported) {
	if o.newlines == "ignore" {
		return
	}
	for i := 1; i < len(imports); i++ {
		prev, cur := imports[i-1], imports[i]
		blank := blankLinesBetween(ctx, prev.node.End().Line, cur.node.Start().Line)
		sameGroup := prev.rank == cur.rank
		switch {
		case !sameGroup && o.newlines != "never" && blank == 0:
			ctx.Report(prev.node, "There should be at least one empty line between import groups")
		case !sameGroup && o.newlines == "never" && blank > 0:
			ctx.Report(prev.node, "There should be no empty line between import groups")
		case sameGroup && o.newlines != "always-and-inside-groups" && blank > 0:
			ctx.Report(prev.node, "There should be no empty line within import group")
		}
	}
}

func blankLinesBetween(ctx *rule.Context, after, before int) int {
	n := 0
	for l := after + 1; l < before; l++ {
		if strings.TrimSpace(string(ctx.File.Line(l))) == "" {
			n++
		}
	}
	return n
}

// hasClause reports whether n binds names. Side-effect imports such as
// import './polyfill' keep their position.
func hasClause(n syntax.Node) bool {
	for i := 0; i < n.NumChildren(); i++ {
		if c := n.Child(i); c != nil && c.Kind() == "import_clause" {
			return true
		}
	}
	return false
}

func isTypeImport(n syntax.Node) bool {
	for i := 0; i < n.NumChildren(); i++ {
		c := n.Child(i)
		if c == nil {
			continue
		}
		if c.Kind() == "import_clause" {
			return false
		}
		if !c.Named() && c.Text() == "type" {
			return true
		}
	}
	return false
}
