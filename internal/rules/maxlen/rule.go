package maxlen

import (
	"bytes"
	"fmt"
	"regexp"
	"unicode/utf8"

	"github.com/jeduden/lintstack/internal/rule"
	"github.com/jeduden/lintstack/internal/syntax"
)

func init() {
	rule.Register(&Rule{})
}

const object = `close({
	code?:                   int & >=0
	tabWidth?:               int & >=0
	comments?:               int & >=0
	ignorePattern?:          string
	ignoreComments?:         bool
	ignoreTrailingComments?: bool
	ignoreUrls?:             bool
	ignoreStrings?:          bool
	ignoreTemplateLiterals?: bool
	ignoreRegExpLiterals?:   bool
})`

// The options are [code?, tabWidth?, object?] where the object may take
// the place of either number.
const optionsSchema = `[] | [int & >=0 | ` + object + `] | [int & >=0, int & >=0 | ` + object +
	`] | [int & >=0, int & >=0, ` + object + `]`

// urlRe matches a line containing a URL.
var urlRe = regexp.MustCompile(`[^:/?#]:\/\/[^?#]`)

// Rule checks that no line exceeds the configured maximum length.
// Lengths count code points, with tabs expanded to the next tab stop.
type Rule struct{}

// ID implements rule.Rule.
func (r *Rule) ID() string { return "max-len" }

// Description implements rule.Rule.
func (r *Rule) Description() string { return "Enforce a maximum line length" }

// Schema implements rule.Rule.
func (r *Rule) Schema() string { return optionsSchema }

type settings struct {
	code                   int
	tabWidth               int
	comments               int
	ignorePattern          *regexp.Regexp
	ignoreComments         bool
	ignoreTrailingComments bool
	ignoreUrls             bool
	ignoreStrings          bool
	ignoreTemplateLiterals bool
	ignoreRegExpLiterals   bool
}

func parseOptions(opts rule.Options) (settings, error) {
	s := settings{code: 80, tabWidth: 4}
	var obj map[string]any
	for i := range opts {
		switch i {
		case 0:
			s.code = opts.Int(0, s.code)
		case 1:
			s.tabWidth = opts.Int(1, s.tabWidth)
		}
		if o := opts.Object(i); o != nil {
			obj = o
		}
	}
	if obj == nil {
		return s, nil
	}

	s.code = rule.GetIntOption(obj, "code", s.code)
	s.tabWidth = rule.GetIntOption(obj, "tabWidth", s.tabWidth)
	s.comments = rule.GetIntOption(obj, "comments", 0)
	s.ignoreComments = rule.GetBoolOption(obj, "ignoreComments", false)
	s.ignoreTrailingComments = rule.GetBoolOption(obj, "ignoreTrailingComments", false) || s.ignoreComments
	s.ignoreUrls = rule.GetBoolOption(obj, "ignoreUrls", false)
	s.ignoreStrings = rule.GetBoolOption(obj, "ignoreStrings", false)
	s.ignoreTemplateLiterals = rule.GetBoolOption(obj, "ignoreTemplateLiterals", false)
	s.ignoreRegExpLiterals = rule.GetBoolOption(obj, "ignoreRegExpLiterals", false)
	if p := rule.GetStringOption(obj, "ignorePattern", ""); p != "" {
		re, err := regexp.Compile(p)
		if err != nil {
			return s, fmt.Errorf("ignorePattern: %w", err)
		}
		s.ignorePattern = re
	}
	return s, nil
}

// Create implements rule.Rule.
func (r *Rule) Create(ctx *rule.Context) (rule.Visitor, error) {
	s, err := parseOptions(ctx.Options)
	if err != nil {
		return nil, err
	}

	c := &checker{
		ctx:          ctx,
		s:            s,
		fullComments: rule.LineSet{},
		trailing:     map[int]int{},
		strings:      rule.LineSet{},
		templates:    rule.LineSet{},
		regexps:      rule.LineSet{},
	}
	return rule.New(rule.Funcs{
		On:     []string{"comment", "string", "template_string", "regex"},
		Node:   c.collect,
		Finish: c.finish,
	}), nil
}

type checker struct {
	ctx *rule.Context
	s   settings

	fullComments rule.LineSet
	// trailing maps a line to the byte offset where its trailing comment
	// starts.
	trailing  map[int]int
	strings   rule.LineSet
	templates rule.LineSet
	regexps   rule.LineSet
}

func (c *checker) collect(n syntax.Node) error {
	switch n.Kind() {
	case "string":
		c.strings.Add(n)
	case "template_string":
		c.templates.Add(n)
	case "regex":
		c.regexps.Add(n)
	case "comment":
		c.comment(n)
	}
	return nil
}

func (c *checker) comment(n syntax.Node) {
	f := c.ctx.File
	start, end := n.Start(), n.End()
	first := f.Line(start.Line)
	last := f.Line(end.Line)
	before := len(bytes.TrimSpace(first[:min(start.Column-1, len(first))])) == 0
	after := end.Column-1 >= len(bytes.TrimRight(last, " \t"))

	for l := start.Line + 1; l < end.Line; l++ {
		c.fullComments[l] = true
	}
	if start.Line != end.Line && after {
		c.fullComments[end.Line] = true
	}
	switch {
	case before && (after || start.Line != end.Line):
		c.fullComments[start.Line] = true
	case start.Line == end.Line && after:
		c.trailing[start.Line] = start.Column - 1
	}
}

func (c *checker) finish() error {
	f := c.ctx.File
	for ln := 1; ln <= f.LineCount(); ln++ {
		line := f.Line(ln)
		full := c.fullComments[ln]

		if full && c.s.ignoreComments {
			continue
		}
		if off, ok := c.trailing[ln]; ok && c.s.ignoreTrailingComments {
			line = bytes.TrimRight(line[:off], " \t")
		}
		if c.ignored(ln, line) {
			continue
		}

		length := lineLength(line, c.s.tabWidth)
		limit, what := c.s.code, "length"
		if full && c.s.comments > 0 {
			limit, what = c.s.comments, "comment length"
		}
		if length > limit {
			c.ctx.ReportSpan(
				syntax.Position{Line: ln, Column: 1},
				syntax.Position{Line: ln, Column: length + 1},
				fmt.Sprintf("This line has a %s of %d. Maximum allowed is %d.", what, length, limit))
		}
	}
	return nil
}

func (c *checker) ignored(ln int, line []byte) bool {
	switch {
	case c.s.ignoreUrls && urlRe.Match(line):
	case c.s.ignorePattern != nil && c.s.ignorePattern.Match(line):
	case c.s.ignoreStrings && c.strings[ln]:
	case c.s.ignoreTemplateLiterals && c.templates[ln]:
	case c.s.ignoreRegExpLiterals && c.regexps[ln]:
	default:
		return false
	}
	return true
}

// lineLength counts code points, expanding each tab to the next multiple
// of tabWidth.
func lineLength(line []byte, tabWidth int) int {
	n := 0
	for len(line) > 0 {
		r, size := utf8.DecodeRune(line)
		line = line[size:]
		if r == '\t' && tabWidth > 0 {
			n += tabWidth - n%tabWidth
			continue
		}
		n++
	}
	return n
}
