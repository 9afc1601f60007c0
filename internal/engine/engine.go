// Package engine runs rules over parsed files.
package engine

import (
	"errors"
	"fmt"
	"iter"
	"slices"

	"github.com/hashicorp/go-hclog"

	"github.com/jeduden/lintstack/internal/config"
	"github.com/jeduden/lintstack/internal/lint"
	"github.com/jeduden/lintstack/internal/parser"
	"github.com/jeduden/lintstack/internal/rule"
	"github.com/jeduden/lintstack/internal/syntax"
)

// Engine lints single files against a resolved configuration.
type Engine struct {
	rules   *rule.Registry
	parsers *parser.Registry
	logger  hclog.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the logger. The default discards output.
func WithLogger(l hclog.Logger) Option {
	return func(e *Engine) { e.logger = l }
}

// WithParsers sets the parser registry. The default is parser.Default.
func WithParsers(reg *parser.Registry) Option {
	return func(e *Engine) { e.parsers = reg }
}

// New returns an Engine running rules from rules.
func New(rules *rule.Registry, opts ...Option) *Engine {
	e := &Engine{
		rules:   rules,
		parsers: parser.Default,
		logger:  hclog.NewNullLogger(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Lint returns the diagnostics of path. Nothing runs until the sequence is
// ranged over; each range parses src again and walks the tree once.
// Diagnostics come out in walk order, so breaking out of the range stops
// the walk.
func (e *Engine) Lint(path string, src []byte, cfg *config.EffectiveConfig) iter.Seq[lint.Diagnostic] {
	return func(yield func(lint.Diagnostic) bool) {
		e.lint(path, src, cfg, yield)
	}
}

// LintAll collects every diagnostic of path.
func (e *Engine) LintAll(path string, src []byte, cfg *config.EffectiveConfig) []lint.Diagnostic {
	return slices.Collect(e.Lint(path, src, cfg))
}

// active is one rule's visitor for the current pass.
type active struct {
	id    string
	v     rule.Visitor
	all   bool
	kinds map[string]bool
}

func (a *active) wants(kind string) bool {
	return a.all || a.kinds[kind]
}

func (e *Engine) lint(path string, src []byte, cfg *config.EffectiveConfig, yield func(lint.Diagnostic) bool) {
	adapter, ok := e.parsers.Lookup(cfg.Parser)
	if !ok {
		yield(parseFailure(path, &parser.ParseError{
			Path:    path,
			Parser:  cfg.Parser,
			Line:    1,
			Column:  1,
			Message: "parser is not registered",
		}))
		return
	}

	tree, err := adapter.Parse(src, cfg.ParserOptions)
	if err != nil {
		e.logger.Debug("parse failed", "path", path, "parser", cfg.Parser, "error", err)
		yield(parseFailure(path, err))
		return
	}
	defer tree.Close()

	f := lint.NewFile(path, src, tree)

	var pending []lint.Diagnostic
	report := func(d lint.Diagnostic) { pending = append(pending, d) }
	flush := func() bool {
		for _, d := range pending {
			if !yield(d) {
				return false
			}
		}
		pending = pending[:0]
		return true
	}

	var visitors []*active
	for _, r := range e.rules.All() {
		setting, ok := cfg.Rule(r.ID())
		if !ok || !setting.Enabled() {
			continue
		}
		ctx := rule.NewContext(f, r.ID(), setting.Severity, setting.Options, cfg.Settings, cfg.Env, report)
		var v rule.Visitor
		err := contain(func() (err error) {
			v, err = r.Create(ctx)
			return err
		})
		if err == nil && v == nil {
			err = errors.New("no visitor returned")
		}
		if err != nil {
			e.logger.Warn("rule setup failed", "rule", r.ID(), "path", path, "error", err)
			pending = append(pending, ruleFailure(path, r.ID(), syntax.Position{Line: 1, Column: 1}, err))
			if !flush() {
				return
			}
			continue
		}
		visitors = append(visitors, newActive(r.ID(), v))
	}
	e.logger.Trace("linting", "path", path, "parser", cfg.Parser, "rules", len(visitors))

	var root syntax.Node
	if tree != nil {
		root = tree.Root
	}
	done := syntax.Walk(root, func(n syntax.Node) bool {
		kind := n.Kind()
		for _, a := range visitors {
			if !a.wants(kind) {
				continue
			}
			if err := contain(func() error { return a.v.Visit(n) }); err != nil {
				pending = append(pending, ruleFailure(path, a.id, n.Start(), err))
			}
		}
		return flush()
	})
	if !done {
		return
	}

	for _, a := range visitors {
		fin, ok := a.v.(rule.Finisher)
		if !ok {
			continue
		}
		if err := contain(fin.Finish); err != nil {
			pending = append(pending, ruleFailure(path, a.id, syntax.Position{Line: 1, Column: 1}, err))
		}
		if !flush() {
			return
		}
	}
}

func newActive(id string, v rule.Visitor) *active {
	a := &active{id: id, v: v, kinds: make(map[string]bool)}
	for _, k := range v.Kinds() {
		if k == rule.AllKinds {
			a.all = true
		}
		a.kinds[k] = true
	}
	return a
}

// contain runs fn and turns a panic into an error.
func contain(fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return fn()
}

func ruleFailure(path, id string, at syntax.Position, err error) lint.Diagnostic {
	return lint.Diagnostic{
		File:     path,
		Line:     at.Line,
		Column:   at.Column,
		RuleID:   id,
		Severity: lint.Error,
		Message:  fmt.Sprintf("rule %s failed: %v", id, err),
		Kind:     lint.KindInternalRuleError,
	}
}

func parseFailure(path string, err error) lint.Diagnostic {
	d := lint.Diagnostic{
		File:     path,
		Line:     1,
		Column:   1,
		Severity: lint.Error,
		Message:  "Parsing error: " + err.Error(),
		Kind:     lint.KindParseError,
	}
	var pe *parser.ParseError
	if errors.As(err, &pe) {
		if pe.Line > 0 {
			d.Line, d.Column = pe.Line, max(pe.Column, 1)
		}
		msg := pe.Message
		if msg == "" && pe.Err != nil {
			msg = pe.Err.Error()
		}
		d.Message = "Parsing error: " + msg
	}
	return d
}
