package notabs

import (
	"bytes"

	"github.com/jeduden/lintstack/internal/rule"
	"github.com/jeduden/lintstack/internal/syntax"
)

func init() {
	rule.Register(&Rule{})
}

// Rule checks that no line contains tab characters, optionally allowing
// them in leading indentation.
type Rule struct{}

// ID implements rule.Rule.
func (r *Rule) ID() string { return "no-tabs" }

// Description implements rule.Rule.
func (r *Rule) Description() string { return "Disallow all tabs" }

// Schema implements rule.Rule.
func (r *Rule) Schema() string { return `[] | [close({allowIndentationTabs?: bool})]` }

// Create implements rule.Rule.
func (r *Rule) Create(ctx *rule.Context) (rule.Visitor, error) {
	allowIndent := rule.GetBoolOption(ctx.Options.Object(0), "allowIndentationTabs", false)

	return rule.Lines(func() error {
		f := ctx.File
		for ln := 1; ln <= len(f.Lines); ln++ {
			line := f.Line(ln)
			from := 0
			if allowIndent {
				from = len(line) - len(bytes.TrimLeft(line, " \t"))
			}
			idx := bytes.IndexByte(line[from:], '\t')
			if idx < 0 {
				continue
			}
			col := from + idx + 1
			ctx.ReportSpan(
				syntax.Position{Line: ln, Column: col},
				syntax.Position{Line: ln, Column: col + 1},
				"Unexpected tab character.")
		}
		return nil
	}), nil
}
