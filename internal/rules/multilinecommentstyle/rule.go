package multilinecommentstyle

import (
	"bytes"
	"strings"

	"github.com/jeduden/lintstack/internal/rule"
	"github.com/jeduden/lintstack/internal/syntax"
)

func init() {
	rule.Register(&Rule{})
}

// Rule enforces one style for comments spanning several lines:
// starred blocks, bare blocks, or runs of line comments.
type Rule struct{}

// ID implements rule.Rule.
func (r *Rule) ID() string { return "multiline-comment-style" }

// Description implements rule.Rule.
func (r *Rule) Description() string { return "Enforce a particular style for multiline comments" }

// Schema implements rule.Rule.
func (r *Rule) Schema() string {
	return `[] | ["starred-block" | "bare-block"] | ["separate-lines"] | ["separate-lines", close({checkJSDoc?: bool})]`
}

// Messages.
const (
	expectedBlock = "Expected a block comment instead of consecutive line comments."
	expectedLines = "Expected multiple line comments instead of a block comment."
	expectedBare  = "Expected a block comment without padding stars."
	missingStar   = "Expected a '*' at the start of each line."
	startNewline  = "Expected a linebreak after '/*'."
	endNewline    = "Expected a linebreak before '*/'."
)

// Create implements rule.Rule.
func (r *Rule) Create(ctx *rule.Context) (rule.Visitor, error) {
	style := ctx.Options.String(0, "starred-block")
	checkJSDoc := rule.GetBoolOption(ctx.Options.Object(1), "checkJSDoc", false)

	var comments []syntax.Node
	return rule.New(rule.Funcs{
		On: []string{"comment"},
		Node: func(n syntax.Node) error {
			comments = append(comments, n)
			return nil
		},
		Finish: func() error {
			c := &checker{ctx: ctx, style: style, checkJSDoc: checkJSDoc}
			c.run(comments)
			return nil
		},
	}), nil
}

type checker struct {
	ctx        *rule.Context
	style      string
	checkJSDoc bool
}

func (c *checker) run(comments []syntax.Node) {
	var group []syntax.Node
	flush := func() {
		if len(group) > 1 && c.style != "separate-lines" {
			c.ctx.ReportSpan(group[0].Start(), group[len(group)-1].End(), expectedBlock)
		}
		group = group[:0]
	}

	for _, n := range comments {
		text := n.Text()
		if !strings.HasPrefix(text, "//") {
			flush()
			c.block(n, text)
			continue
		}
		if !c.ownLine(n) || directive(strings.TrimPrefix(text, "//")) {
			flush()
			continue
		}
		if len(group) > 0 && group[len(group)-1].Start().Line+1 != n.Start().Line {
			flush()
		}
		group = append(group, n)
	}
	flush()
}

func (c *checker) block(n syntax.Node, text string) {
	if n.Start().Line == n.End().Line || !c.ownLine(n) {
		return
	}
	body := strings.TrimSuffix(strings.TrimPrefix(text, "/*"), "*/")
	if directive(body) {
		return
	}
	jsdoc := strings.HasPrefix(text, "/**")
	lines := strings.Split(body, "\n")

	switch c.style {
	case "separate-lines":
		if !jsdoc || c.checkJSDoc {
			c.ctx.Report(n, expectedLines)
		}
	case "bare-block":
		if !jsdoc && starred(lines) {
			c.ctx.Report(n, expectedBare)
		}
	default:
		if first := strings.TrimPrefix(lines[0], "*"); strings.TrimSpace(first) != "" {
			c.ctx.Report(n, startNewline)
			return
		}
		if !starred(lines) {
			c.ctx.Report(n, missingStar)
			return
		}
		if last := strings.TrimSpace(lines[len(lines)-1]); last != "" {
			c.ctx.ReportAt(n.End().Line, n.End().Column-2, endNewline)
		}
	}
}

// starred reports whether every line after the first starts with '*'.
// A final line holding only the closing delimiter's indentation counts.
func starred(lines []string) bool {
	for i, l := range lines[1:] {
		trimmed := strings.TrimSpace(l)
		if trimmed == "" && i == len(lines)-2 {
			continue
		}
		if !strings.HasPrefix(trimmed, "*") {
			return false
		}
	}
	return true
}

// ownLine reports whether only whitespace precedes n on its line.
func (c *checker) ownLine(n syntax.Node) bool {
	start := n.Start()
	line := c.ctx.File.Line(start.Line)
	return len(bytes.TrimSpace(line[:min(start.Column-1, len(line))])) == 0
}

// directive reports whether a comment body configures the linter.
func directive(body string) bool {
	body = strings.TrimSpace(body)
	return strings.HasPrefix(body, "eslint") || strings.HasPrefix(body, "global ")
}
