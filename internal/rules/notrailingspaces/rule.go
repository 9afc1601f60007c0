package notrailingspaces

import (
	"bytes"

	"github.com/jeduden/lintstack/internal/rule"
	"github.com/jeduden/lintstack/internal/syntax"
)

func init() {
	rule.Register(&Rule{})
}

// Rule checks that no line ends with trailing spaces or tabs. Lines
// inside template literals are left alone.
type Rule struct{}

// ID implements rule.Rule.
func (r *Rule) ID() string { return "no-trailing-spaces" }

// Description implements rule.Rule.
func (r *Rule) Description() string { return "Disallow trailing whitespace at the end of lines" }

// Schema implements rule.Rule.
func (r *Rule) Schema() string {
	return `[] | [close({skipBlankLines?: bool, ignoreComments?: bool})]`
}

// Create implements rule.Rule.
func (r *Rule) Create(ctx *rule.Context) (rule.Visitor, error) {
	opts := ctx.Options.Object(0)
	skipBlank := rule.GetBoolOption(opts, "skipBlankLines", false)
	ignoreComments := rule.GetBoolOption(opts, "ignoreComments", false)

	templates := rule.LineSet{}
	comments := rule.LineSet{}
	return rule.New(rule.Funcs{
		On: []string{"template_string", "comment"},
		Node: func(n syntax.Node) error {
			if n.Kind() == "comment" {
				comments[n.End().Line] = true
				return nil
			}
			// a line break inside the literal is part of its value
			for l := n.Start().Line; l < n.End().Line; l++ {
				templates[l] = true
			}
			return nil
		},
		Finish: func() error {
			f := ctx.File
			for ln := 1; ln <= len(f.Lines); ln++ {
				line := f.Line(ln)
				trimmed := bytes.TrimRight(line, " \t\u00a0\u3000")
				if len(trimmed) == len(line) || templates[ln] {
					continue
				}
				if skipBlank && len(trimmed) == 0 {
					continue
				}
				if ignoreComments && comments[ln] {
					continue
				}
				ctx.ReportSpan(
					syntax.Position{Line: ln, Column: len(trimmed) + 1},
					syntax.Position{Line: ln, Column: len(line) + 1},
					"Trailing spaces not allowed.")
			}
			return nil
		},
	}), nil
}
