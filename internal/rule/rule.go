package rule

import (
	"fmt"
	"slices"

	"github.com/jeduden/lintstack/internal/lint"
	"github.com/jeduden/lintstack/internal/syntax"
)

// AllKinds subscribes a Visitor to every named node.
const AllKinds = "*"

// Rule is a single lint rule. Rules are stateless; per-file state lives in
// the Visitor returned by Create.
type Rule interface {
	ID() string
	Description() string
	// Schema is CUE source for the rule's options list. An empty schema
	// accepts any options.
	Schema() string
	Create(ctx *Context) (Visitor, error)
}

// Visitor receives the nodes of one file pass.
type Visitor interface {
	// Kinds lists the node kinds the visitor wants. AllKinds selects every
	// named node; an empty list selects none.
	Kinds() []string
	Visit(n syntax.Node) error
}

// Finisher is implemented by visitors that report after the walk, such as
// rules that inspect raw lines instead of nodes.
type Finisher interface {
	Finish() error
}

// Funcs adapts plain functions to Visitor and Finisher.
type Funcs struct {
	On     []string
	Node   func(n syntax.Node) error
	Finish func() error
}

// Lines returns a Visitor that only runs fn after the walk.
func Lines(fn func() error) Visitor {
	return &funcs{f: Funcs{Finish: fn}}
}

// Visit returns a Visitor for kinds backed by fn.
func Visit(fn func(n syntax.Node) error, kinds ...string) Visitor {
	return &funcs{f: Funcs{On: kinds, Node: fn}}
}

// New returns a Visitor built from f.
func New(f Funcs) Visitor {
	return &funcs{f: f}
}

type funcs struct{ f Funcs }

func (v *funcs) Kinds() []string { return v.f.On }

func (v *funcs) Visit(n syntax.Node) error {
	if v.f.Node == nil {
		return nil
	}
	return v.f.Node(n)
}

func (v *funcs) Finish() error {
	if v.f.Finish == nil {
		return nil
	}
	return v.f.Finish()
}

// Context is what a rule sees of one file pass.
type Context struct {
	File     *lint.File
	RuleID   string
	Severity lint.Severity
	Options  Options
	// Settings is the shared settings mapping, passed through verbatim.
	Settings map[string]any
	Env      []string

	report func(lint.Diagnostic)
}

// NewContext returns a Context that forwards findings to report.
func NewContext(f *lint.File, id string, sev lint.Severity, opts Options,
	settings map[string]any, env []string, report func(lint.Diagnostic)) *Context {
	if opts == nil {
		opts = Options{}
	}
	return &Context{
		File:     f,
		RuleID:   id,
		Severity: sev,
		Options:  opts,
		Settings: settings,
		Env:      env,
		report:   report,
	}
}

// Report records a finding spanning n.
func (c *Context) Report(n syntax.Node, msg string) {
	start, end := n.Start(), n.End()
	c.emit(start.Line, start.Column, end.Line, end.Column, msg)
}

// Reportf is Report with formatting.
func (c *Context) Reportf(n syntax.Node, format string, args ...any) {
	c.Report(n, fmt.Sprintf(format, args...))
}

// ReportAt records a finding at a single position.
func (c *Context) ReportAt(line, col int, msg string) {
	c.emit(line, col, 0, 0, msg)
}

// ReportSpan records a finding from start to end.
func (c *Context) ReportSpan(start, end syntax.Position, msg string) {
	c.emit(start.Line, start.Column, end.Line, end.Column, msg)
}

func (c *Context) emit(line, col, endLine, endCol int, msg string) {
	if c.report == nil {
		return
	}
	path := ""
	if c.File != nil {
		path = c.File.Path
	}
	c.report(lint.Diagnostic{
		File:      path,
		Line:      line,
		Column:    col,
		EndLine:   endLine,
		EndColumn: endCol,
		RuleID:    c.RuleID,
		Severity:  c.Severity,
		Message:   msg,
		Kind:      lint.KindFinding,
	})
}

// HasEnv reports whether the named environment is enabled.
func (c *Context) HasEnv(name string) bool {
	return slices.Contains(c.Env, name)
}

// Setting returns a top-level settings value.
func (c *Context) Setting(key string) (any, bool) {
	v, ok := c.Settings[key]
	return v, ok
}
