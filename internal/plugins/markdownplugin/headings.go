package markdownplugin

import (
	"strings"

	"github.com/jeduden/lintstack/internal/parser/markdown"
	"github.com/jeduden/lintstack/internal/rule"
	"github.com/jeduden/lintstack/internal/syntax"
)

// HeadingIncrement checks that heading levels only increment by one.
type HeadingIncrement struct{}

// ID implements rule.Rule.
func (r *HeadingIncrement) ID() string { return Name + "/heading-increment" }

// Description implements rule.Rule.
func (r *HeadingIncrement) Description() string {
	return "Enforce heading levels increment by one"
}

// Schema implements rule.Rule.
func (r *HeadingIncrement) Schema() string { return "[]" }

// Create implements rule.Rule.
func (r *HeadingIncrement) Create(ctx *rule.Context) (rule.Visitor, error) {
	prev := 0
	return rule.Visit(func(n syntax.Node) error {
		level, ok := markdown.HeadingLevel(n)
		if !ok {
			return nil
		}
		if prev > 0 && level > prev+1 {
			ctx.Reportf(n, "Heading level skipped from %d to %d.", prev, level)
		}
		prev = level
		return nil
	}, "Heading"), nil
}

// NoDuplicateHeadings checks that no two headings have the same text.
type NoDuplicateHeadings struct{}

// ID implements rule.Rule.
func (r *NoDuplicateHeadings) ID() string { return Name + "/no-duplicate-headings" }

// Description implements rule.Rule.
func (r *NoDuplicateHeadings) Description() string { return "Disallow duplicate headings" }

// Schema implements rule.Rule.
func (r *NoDuplicateHeadings) Schema() string {
	return `[] | [close({checkSiblingsOnly?: bool})]`
}

// Create implements rule.Rule.
func (r *NoDuplicateHeadings) Create(ctx *rule.Context) (rule.Visitor, error) {
	siblingsOnly := rule.GetBoolOption(ctx.Options.Object(0), "checkSiblingsOnly", false)

	// seen[level] holds the headings under the nearest heading of the
	// level above; with checkSiblingsOnly a new heading clears the deeper
	// levels, otherwise everything lives at level 0.
	seen := map[int]map[string]bool{}
	return rule.Visit(func(n syntax.Node) error {
		level, ok := markdown.HeadingLevel(n)
		if !ok {
			return nil
		}
		bucket := 0
		if siblingsOnly {
			bucket = level
			for l := range seen {
				if l > level {
					delete(seen, l)
				}
			}
		}
		if seen[bucket] == nil {
			seen[bucket] = map[string]bool{}
		}
		text := strings.TrimSpace(n.Text())
		if seen[bucket][text] {
			ctx.Reportf(n, "Duplicate heading %q found.", text)
			return nil
		}
		seen[bucket][text] = true
		return nil
	}, "Heading"), nil
}
