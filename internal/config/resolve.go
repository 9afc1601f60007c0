package config

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
	"sync"

	"github.com/hashicorp/go-hclog"

	"github.com/jeduden/lintstack/internal/parser"
	"github.com/jeduden/lintstack/internal/plugin"
	"github.com/jeduden/lintstack/internal/rule"
	"github.com/jeduden/lintstack/internal/schema"
)

// Resolver turns an entry Source into an EffectiveConfig. Results, including
// failures, are computed once per key and shared. Safe for concurrent use.
type Resolver struct {
	store   *Store
	rules   *rule.Registry
	parsers *parser.Registry
	plugins func(name string) (plugin.Plugin, bool)
	logger  hclog.Logger

	layers  sync.Map // entry ID -> *once[[]layer]
	results sync.Map // entry ID + matched override indices -> *once[*EffectiveConfig]
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithLogger sets the logger. The default discards output.
func WithLogger(l hclog.Logger) Option {
	return func(r *Resolver) { r.logger = l }
}

// WithParsers sets the parser registry. The default is parser.Default.
func WithParsers(reg *parser.Registry) Option {
	return func(r *Resolver) { r.parsers = reg }
}

// WithPlugins sets the plugin lookup. The default is plugin.Lookup.
func WithPlugins(lookup func(string) (plugin.Plugin, bool)) Option {
	return func(r *Resolver) { r.plugins = lookup }
}

// NewResolver returns a Resolver that loads extends through store and
// registers plugin rules into rules.
func NewResolver(store *Store, rules *rule.Registry, opts ...Option) *Resolver {
	r := &Resolver{
		store:   store,
		rules:   rules,
		parsers: parser.Default,
		plugins: plugin.Lookup,
		logger:  hclog.NewNullLogger(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

type once[T any] struct {
	once sync.Once
	val  T
	err  error
}

func loadOnce[T any](m *sync.Map, key string, fn func() (T, error)) (T, error) {
	v, _ := m.LoadOrStore(key, &once[T]{})
	e := v.(*once[T])
	e.once.Do(func() { e.val, e.err = fn() })
	return e.val, e.err
}

// Resolve computes the configuration of entry without any override blocks.
func (r *Resolver) Resolve(entry *Source) (*EffectiveConfig, error) {
	return r.ResolveFile(entry, "")
}

// ResolveFile computes the configuration entry yields for file: every source
// of the extends chain plus the override blocks whose patterns select file.
func (r *Resolver) ResolveFile(entry *Source, file string) (*EffectiveConfig, error) {
	layers, err := loadOnce(&r.layers, entry.ID, func() ([]layer, error) {
		var out []layer
		if err := r.collect(entry, nil, &out); err != nil {
			return nil, err
		}
		return out, nil
	})
	if err != nil {
		return nil, err
	}

	var key strings.Builder
	key.WriteString(entry.ID)
	active := make([]layer, 0, len(layers))
	for i, l := range layers {
		if !l.applies(file) {
			continue
		}
		active = append(active, l)
		if l.override != nil {
			key.WriteString("|")
			key.WriteString(strconv.Itoa(i))
		}
	}

	return loadOnce(&r.results, key.String(), func() (*EffectiveConfig, error) {
		return r.build(active)
	})
}

// collect appends the layers of src in depth-first, left-to-right order:
// each extended source before src itself, then src, then its override
// blocks. path holds the sources on the current traversal path.
func (r *Resolver) collect(src *Source, path []string, out *[]layer) error {
	if i := slices.Index(path, src.ID); i >= 0 {
		cycle := append(slices.Clone(path[i:]), src.ID)
		return &CyclicConfigError{Cycle: cycle}
	}
	path = append(path, src.ID)

	for _, ref := range src.Extends {
		child, err := r.store.Load(ref, src)
		if err != nil {
			return err
		}
		if err := r.collect(child, path, out); err != nil {
			return err
		}
	}

	*out = append(*out, layer{source: src})
	for i := range src.Overrides {
		*out = append(*out, layer{source: src, override: &src.Overrides[i]})
	}
	return nil
}

func (r *Resolver) build(layers []layer) (*EffectiveConfig, error) {
	acc := newEffective()
	for _, l := range layers {
		if l.override != nil {
			r.logger.Debug("applying override", "source", l.source.ID, "files", l.override.Files)
		} else {
			r.logger.Debug("applying config", "source", l.source.ID)
		}
		apply(acc, l)
	}
	if acc.Parser == "" {
		acc.Parser = parser.DefaultName
		acc.parserSource = "default"
	}
	if err := r.prepare(acc); err != nil {
		return nil, err
	}
	return acc, nil
}

// prepare loads the plugins acc names and validates everything that needs
// them: rule IDs, rule options, env names, the parser and its options.
func (r *Resolver) prepare(acc *EffectiveConfig) error {
	for _, name := range acc.Plugins {
		p, ok := r.plugins(name)
		if !ok {
			return &UnknownPluginError{Name: name, Source: acc.pluginSource[name]}
		}
		if err := plugin.Load(r.rules, p); err != nil {
			return err
		}
		r.logger.Debug("loaded plugin", "plugin", name, "version", p.PluginVersion())
	}

	for _, id := range acc.RuleIDs() {
		setting := acc.Rules[id]
		owner, ok := r.rules.Source(id)
		if !ok || (owner != rule.CoreSource && !slices.Contains(acc.Plugins, owner)) {
			return &UnknownRuleError{ID: id, Source: setting.Source}
		}
		if err := r.rules.Validate(id, setting.Options); err != nil {
			return fmt.Errorf("%s: %w", setting.Source, err)
		}
	}

	for _, name := range acc.Env {
		if KnownEnv(name) {
			continue
		}
		if prefix, _, ok := strings.Cut(name, "/"); ok && slices.Contains(acc.Plugins, prefix) {
			continue
		}
		return &MalformedConfigError{Source: acc.envSources[name], Err: fmt.Errorf("unknown environment %q", name)}
	}

	adapter, ok := r.parsers.Lookup(acc.Parser)
	if !ok {
		return &UnknownParserError{Name: acc.Parser, Source: acc.parserSource}
	}
	if err := schema.Validate(adapter.Schema(), acc.ParserOptions); err != nil {
		r.logger.Warn("parser options do not match parser schema", "parser", acc.Parser, "error", err)
	}
	return nil
}
