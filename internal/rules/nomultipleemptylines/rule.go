package nomultipleemptylines

import (
	"bytes"
	"fmt"

	"github.com/jeduden/lintstack/internal/rule"
	"github.com/jeduden/lintstack/internal/syntax"
)

func init() {
	rule.Register(&Rule{})
}

// Rule limits runs of consecutive blank lines, with separate limits for
// the start and end of the file. Lines inside template literals are not
// counted.
type Rule struct{}

// ID implements rule.Rule.
func (r *Rule) ID() string { return "no-multiple-empty-lines" }

// Description implements rule.Rule.
func (r *Rule) Description() string { return "Disallow multiple empty lines" }

// Schema implements rule.Rule.
func (r *Rule) Schema() string {
	return `[] | [close({max!: int & >=0, maxEOF?: int & >=0, maxBOF?: int & >=0})]`
}

// Create implements rule.Rule.
func (r *Rule) Create(ctx *rule.Context) (rule.Visitor, error) {
	opts := ctx.Options.Object(0)
	limit := rule.GetIntOption(opts, "max", 2)
	maxBOF := rule.GetIntOption(opts, "maxBOF", limit)
	maxEOF := rule.GetIntOption(opts, "maxEOF", limit)

	templates := rule.LineSet{}
	return rule.New(rule.Funcs{
		On: []string{"template_string"},
		Node: func(n syntax.Node) error {
			templates.Inner(n)
			return nil
		},
		Finish: func() error {
			check(ctx, templates, limit, maxBOF, maxEOF)
			return nil
		},
	}), nil
}

func isBlank(line []byte) bool {
	return len(bytes.TrimSpace(line)) == 0
}

func check(ctx *rule.Context, templates rule.LineSet, limit, maxBOF, maxEOF int) {
	f := ctx.File
	total := f.LineCount()

	// blank runs as [first, last] line pairs
	var runs [][2]int
	start := 0
	for ln := 1; ln <= total+1; ln++ {
		blank := ln <= total && isBlank(f.Line(ln)) && !templates[ln]
		switch {
		case blank && start == 0:
			start = ln
		case !blank && start != 0:
			runs = append(runs, [2]int{start, ln - 1})
			start = 0
		}
	}

	for _, run := range runs {
		size := run[1] - run[0] + 1
		switch {
		case run[0] == 1:
			if size > maxBOF {
				ctx.ReportAt(maxBOF+1, 1, fmt.Sprintf(
					"Too many blank lines at the beginning of file. Max of %d allowed.", maxBOF))
			}
		case run[1] == total:
			if size > maxEOF {
				ctx.ReportAt(run[0]+maxEOF, 1, fmt.Sprintf(
					"Too many blank lines at the end of file. Max of %d allowed.", maxEOF))
			}
		default:
			if size > limit {
				ctx.ReportAt(run[0]+limit, 1, fmt.Sprintf(
					"More than %d blank %s not allowed.", limit, plural(limit)))
			}
		}
	}
}

func plural(n int) string {
	if n == 1 {
		return "line"
	}
	return "lines"
}
