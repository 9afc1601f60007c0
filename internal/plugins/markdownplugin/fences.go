package markdownplugin

import (
	"slices"
	"strings"

	"github.com/jeduden/lintstack/internal/parser/markdown"
	"github.com/jeduden/lintstack/internal/rule"
	"github.com/jeduden/lintstack/internal/syntax"
)

// FencedCodeLanguage checks that fenced code blocks name a language,
// optionally one from an allowed list.
type FencedCodeLanguage struct{}

// ID implements rule.Rule.
func (r *FencedCodeLanguage) ID() string { return Name + "/fenced-code-language" }

// Description implements rule.Rule.
func (r *FencedCodeLanguage) Description() string {
	return "Require languages for fenced code blocks"
}

// Schema implements rule.Rule.
func (r *FencedCodeLanguage) Schema() string {
	return `[] | [close({required?: [...string]})]`
}

// Create implements rule.Rule.
func (r *FencedCodeLanguage) Create(ctx *rule.Context) (rule.Visitor, error) {
	required := rule.GetStringSliceOption(ctx.Options.Object(0), "required", nil)

	return rule.Visit(func(n syntax.Node) error {
		info, ok := markdown.FenceInfo(n)
		if !ok {
			return nil
		}
		lang, _, _ := strings.Cut(strings.TrimSpace(info), " ")
		switch {
		case lang == "":
			ctx.Report(n, "Missing code block language.")
		case len(required) > 0 && !slices.Contains(required, lang):
			ctx.Reportf(n, "Code block language %q is not allowed.", lang)
		}
		return nil
	}, "FencedCodeBlock"), nil
}
