package linesbetweenclassmembers

import (
	"bytes"

	"github.com/jeduden/lintstack/internal/rule"
	"github.com/jeduden/lintstack/internal/syntax"
)

func init() {
	rule.Register(&Rule{})
}

// Rule requires or forbids a blank line between class members.
type Rule struct{}

// ID implements rule.Rule.
func (r *Rule) ID() string { return "lines-between-class-members" }

// Description implements rule.Rule.
func (r *Rule) Description() string {
	return "Require or disallow an empty line between class members"
}

// Schema implements rule.Rule.
func (r *Rule) Schema() string {
	return `[] | ["always" | "never"] | ["always" | "never", close({exceptAfterSingleLine?: bool})]`
}

const (
	always = "Expected blank line between class members."
	never  = "Unexpected blank line between class members."
)

type member struct {
	start syntax.Position
	end   syntax.Position
	node  syntax.Node
}

// Create implements rule.Rule.
func (r *Rule) Create(ctx *rule.Context) (rule.Visitor, error) {
	mode := ctx.Options.String(0, "always")
	exceptSingle := rule.GetBoolOption(ctx.Options.Object(1), "exceptAfterSingleLine", false)

	return rule.Visit(func(n syntax.Node) error {
		members := collect(n)
		for i := 1; i < len(members); i++ {
			prev, cur := members[i-1], members[i]
			if exceptSingle && prev.start.Line == prev.end.Line {
				continue
			}
			padded := hasBlankLine(ctx, prev.end.Line, cur.start.Line)
			switch {
			case mode == "always" && !padded:
				ctx.Report(cur.node, always)
			case mode == "never" && padded:
				ctx.Report(cur.node, never)
			}
		}
		return nil
	}, "class_body"), nil
}

// collect returns the members of a class body. Decorators belong to the
// member they precede; comments are not members.
func collect(body syntax.Node) []member {
	var out []member
	var decorator syntax.Node
	for i := 0; i < body.NumChildren(); i++ {
		c := body.Child(i)
		if c == nil || !c.Named() {
			continue
		}
		switch c.Kind() {
		case "comment":
			continue
		case "decorator":
			if decorator == nil {
				decorator = c
			}
			continue
		}
		m := member{start: c.Start(), end: c.End(), node: c}
		if decorator != nil {
			m.start = decorator.Start()
			decorator = nil
		}
		out = append(out, m)
	}
	return out
}

func hasBlankLine(ctx *rule.Context, after, before int) bool {
	for l := after + 1; l < before; l++ {
		if len(bytes.TrimSpace(ctx.File.Line(l))) == 0 {
			return true
		}
	}
	return false
}
