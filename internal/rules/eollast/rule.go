package eollast

import (
	"bytes"

	"github.com/jeduden/lintstack/internal/rule"
)

func init() {
	rule.Register(&Rule{})
}

// Rule requires (or, with "never", forbids) a newline at the end of a
// non-empty file.
type Rule struct{}

// ID implements rule.Rule.
func (r *Rule) ID() string { return "eol-last" }

// Description implements rule.Rule.
func (r *Rule) Description() string { return "Require or disallow newline at the end of files" }

// Schema implements rule.Rule.
func (r *Rule) Schema() string { return `[] | ["always" | "never" | "unix" | "windows"]` }

// Create implements rule.Rule.
func (r *Rule) Create(ctx *rule.Context) (rule.Visitor, error) {
	mode := ctx.Options.String(0, "always")

	return rule.Lines(func() error {
		src := ctx.File.Source
		if len(src) == 0 {
			return nil
		}
		hasNewline := bytes.HasSuffix(src, []byte("\n"))
		lines := ctx.File.Lines

		switch {
		case mode != "never" && !hasNewline:
			last := len(lines)
			ctx.ReportAt(last, len(lines[last-1])+1, "Newline required at end of file but not found.")
		case mode == "never" && hasNewline:
			// the newline ends the line before the empty remainder
			last := len(lines) - 1
			ctx.ReportAt(last, len(ctx.File.Line(last))+1, "Newline not allowed at end of file.")
		}
		return nil
	}), nil
}
