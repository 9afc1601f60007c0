package rule

import (
	"sync"
	"sync/atomic"

	"github.com/jeduden/lintstack/internal/schema"
)

// CoreSource attributes rules built into the binary.
const CoreSource = "core"

var catalog []Rule

// Register adds a built-in rule to the package catalog. Called from init.
func Register(r Rule) {
	catalog = append(catalog, r)
}

// All returns a copy of the catalog.
func All() []Rule {
	result := make([]Rule, len(catalog))
	copy(result, catalog)
	return result
}

// ByID returns the catalog rule with the given ID, or nil.
func ByID(id string) Rule {
	for _, r := range catalog {
		if r.ID() == id {
			return r
		}
	}
	return nil
}

// Reset clears the catalog. Used for testing.
func Reset() {
	catalog = nil
}

type entry struct {
	rule   Rule
	source string
}

// Registry maps rule IDs to implementations for one run. It accepts
// registrations until Seal; afterwards it is read-only and reads take no lock.
type Registry struct {
	mu      sync.RWMutex
	sealed  atomic.Bool
	order   []Rule
	byID    map[string]entry
	sources map[string]bool
}

// NewRegistry returns an empty registry in the loading state.
func NewRegistry() *Registry {
	return &Registry{
		byID:    make(map[string]entry),
		sources: make(map[string]bool),
	}
}

// NewCoreRegistry returns a registry seeded with the catalog under CoreSource.
func NewCoreRegistry() (*Registry, error) {
	reg := NewRegistry()
	for _, r := range All() {
		if err := reg.Register(CoreSource, r); err != nil {
			return nil, err
		}
	}
	return reg, nil
}

// Register records r under its ID. Registering an ID already owned by a
// different source fails with *DuplicateRuleError; re-registering from the
// same source is a no-op, also after Seal.
func (g *Registry) Register(source string, r Rule) error {
	if err := schema.Check(r.Schema()); err != nil {
		return &SchemaError{RuleID: r.ID(), Err: err}
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	if prev, ok := g.byID[r.ID()]; ok {
		if prev.source == source {
			return nil
		}
		return &DuplicateRuleError{ID: r.ID(), Existing: prev.source, Incoming: source}
	}
	if g.sealed.Load() {
		return ErrSealed
	}
	g.byID[r.ID()] = entry{rule: r, source: source}
	g.order = append(g.order, r)
	g.sources[source] = true
	return nil
}

// Seal moves the registry to the read-only state. Sealing twice is a no-op.
func (g *Registry) Seal() {
	g.mu.Lock()
	g.sealed.Store(true)
	g.mu.Unlock()
}

// Sealed reports whether Seal has been called.
func (g *Registry) Sealed() bool {
	return g.sealed.Load()
}

func (g *Registry) read() func() {
	if g.sealed.Load() {
		return func() {}
	}
	g.mu.RLock()
	return g.mu.RUnlock
}

// Lookup returns the rule registered under id.
func (g *Registry) Lookup(id string) (Rule, bool) {
	defer g.read()()
	e, ok := g.byID[id]
	return e.rule, ok
}

// Has reports whether id is registered.
func (g *Registry) Has(id string) bool {
	_, ok := g.Lookup(id)
	return ok
}

// Source returns the source that registered id.
func (g *Registry) Source(id string) (string, bool) {
	defer g.read()()
	e, ok := g.byID[id]
	return e.source, ok
}

// HasSource reports whether any rule was registered by source.
func (g *Registry) HasSource(source string) bool {
	defer g.read()()
	return g.sources[source]
}

// All returns the registered rules in registration order.
func (g *Registry) All() []Rule {
	defer g.read()()
	result := make([]Rule, len(g.order))
	copy(result, g.order)
	return result
}

// Len returns the number of registered rules.
func (g *Registry) Len() int {
	defer g.read()()
	return len(g.order)
}

// Validate checks opts against the schema of rule id.
func (g *Registry) Validate(id string, opts Options) error {
	r, ok := g.Lookup(id)
	if !ok {
		return &UnknownRuleError{ID: id}
	}
	if opts == nil {
		opts = Options{}
	}
	if err := schema.Validate(r.Schema(), []any(opts)); err != nil {
		return &SchemaError{RuleID: id, Err: err}
	}
	return nil
}
