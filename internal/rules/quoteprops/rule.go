package quoteprops

import (
	"strconv"
	"unicode"

	"github.com/jeduden/lintstack/internal/rule"
	"github.com/jeduden/lintstack/internal/syntax"
)

func init() {
	rule.Register(&Rule{})
}

// Rule requires quotes around object literal property names, in one of
// four modes: always, as-needed, consistent and consistent-as-needed.
type Rule struct{}

// ID implements rule.Rule.
func (r *Rule) ID() string { return "quote-props" }

// Description implements rule.Rule.
func (r *Rule) Description() string {
	return "Require quotes around object literal property names"
}

const modes = `("always" | "as-needed" | "consistent" | "consistent-as-needed")`

// Schema implements rule.Rule.
func (r *Rule) Schema() string {
	return `[] | [` + modes + `] | [` + modes + `, close({keywords?: bool, unnecessary?: bool, numbers?: bool})]`
}

// keywords are reserved words that need quotes in old engines.
var keywords = wordSet(
	"abstract", "boolean", "break", "byte", "case", "catch", "char", "class", "const", "continue",
	"debugger", "default", "delete", "do", "double", "else", "enum", "export", "extends", "false",
	"final", "finally", "float", "for", "function", "goto", "if", "implements", "import", "in",
	"instanceof", "int", "interface", "long", "native", "new", "null", "package", "private",
	"protected", "public", "return", "short", "static", "super", "switch", "synchronized", "this",
	"throw", "throws", "transient", "true", "try", "typeof", "var", "void", "volatile", "while", "with",
)

func wordSet(words ...string) map[string]bool {
	m := make(map[string]bool, len(words))
	for _, w := range words {
		m[w] = true
	}
	return m
}

type options struct {
	keywords    bool
	unnecessary bool
	numbers     bool
}

// key is the name of one non-computed, non-shorthand, non-method property.
type key struct {
	node   syntax.Node
	name   string
	quoted bool
	number bool
}

// Create implements rule.Rule.
func (r *Rule) Create(ctx *rule.Context) (rule.Visitor, error) {
	mode := ctx.Options.String(0, "always")
	extra := ctx.Options.Object(1)
	o := options{
		keywords:    rule.GetBoolOption(extra, "keywords", false),
		unnecessary: rule.GetBoolOption(extra, "unnecessary", true),
		numbers:     rule.GetBoolOption(extra, "numbers", false),
	}

	return rule.Visit(func(n syntax.Node) error {
		keys := collect(n)
		switch mode {
		case "always":
			for _, k := range keys {
				if !k.quoted {
					ctx.Reportf(k.node, "Unquoted property '%s' found.", k.name)
				}
			}
		case "as-needed":
			for _, k := range keys {
				o.asNeeded(ctx, k)
			}
		case "consistent":
			o.consistency(ctx, keys, false)
		case "consistent-as-needed":
			o.consistency(ctx, keys, true)
		}
		return nil
	}, "object"), nil
}

func (o options) asNeeded(ctx *rule.Context, k key) {
	switch {
	case k.quoted:
		if !isName(k.name) && !isCanonicalNumber(k.name) {
			return
		}
		if o.keywords && keywords[k.name] {
			return
		}
		if o.unnecessary && redundant(k.name, o.numbers) {
			ctx.Reportf(k.node, "Unnecessarily quoted property '%s' found.", k.name)
		}
	case o.keywords && !k.number && keywords[k.name]:
		ctx.Reportf(k.node, "Unquoted reserved word '%s' used as key.", k.name)
	case o.numbers && k.number:
		ctx.Reportf(k.node, "Unquoted number literal '%s' used as key.", k.name)
	}
}

func (o options) consistency(ctx *rule.Context, keys []key, redundancy bool) {
	var quoted, unquoted []key
	necessary := false
	keyword := ""
	for _, k := range keys {
		switch {
		case k.quoted:
			quoted = append(quoted, k)
			if redundancy {
				necessary = necessary || !redundant(k.name, false) || (o.keywords && keywords[k.name])
			}
		case o.keywords && redundancy && !k.number && keywords[k.name]:
			unquoted = append(unquoted, k)
			necessary = true
			keyword = k.name
		default:
			unquoted = append(unquoted, k)
		}
	}

	switch {
	case redundancy && len(quoted) > 0 && !necessary:
		for _, k := range quoted {
			ctx.Report(k.node, "Properties shouldn't be quoted as all quotes are redundant.")
		}
	case len(unquoted) > 0 && keyword != "":
		for _, k := range unquoted {
			ctx.Reportf(k.node, "Properties should be quoted as '%s' is a reserved word.", keyword)
		}
	case len(quoted) > 0 && len(unquoted) > 0:
		for _, k := range unquoted {
			ctx.Reportf(k.node, "Inconsistently quoted property '%s' found.", k.name)
		}
	}
}

// collect returns the keyed properties of an object literal.
func collect(obj syntax.Node) []key {
	var out []key
	for i := 0; i < obj.NumChildren(); i++ {
		p := obj.Child(i)
		if p == nil || p.Kind() != "pair" {
			continue
		}
		k := p.Field("key")
		if k == nil {
			continue
		}
		switch k.Kind() {
		case "string":
			text := k.Text()
			out = append(out, key{node: p, name: text[1 : len(text)-1], quoted: true})
		case "number":
			out = append(out, key{node: p, name: k.Text(), number: true})
		case "property_identifier":
			out = append(out, key{node: p, name: k.Text()})
		}
	}
	return out
}

// redundant reports whether the quotes around name could be dropped.
func redundant(name string, skipNumbers bool) bool {
	if isName(name) {
		return true
	}
	return !skipNumbers && isCanonicalNumber(name)
}

func isName(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		if r == '$' || r == '_' || unicode.IsLetter(r) {
			continue
		}
		if i > 0 && unicode.IsDigit(r) {
			continue
		}
		return false
	}
	return true
}

// isCanonicalNumber reports whether s is a number written the way it
// prints, so "1" and "1.5" qualify but "01" and "1e3" do not.
func isCanonicalNumber(s string) bool {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return false
	}
	return strconv.FormatFloat(f, 'f', -1, 64) == s
}
