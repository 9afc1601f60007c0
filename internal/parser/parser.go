// Package parser maps parser names from configuration to adapters that
// turn source text into a syntax.Tree.
package parser

import (
	"fmt"
	"sort"
	"sync"

	"github.com/jeduden/lintstack/internal/syntax"
)

// DefaultName is used when no configuration layer sets a parser.
const DefaultName = "espree"

// Adapter parses source text for one language.
type Adapter interface {
	Name() string
	// Schema is CUE source for the parser options mapping. Empty accepts
	// anything.
	Schema() string
	Parse(src []byte, opts map[string]any) (*syntax.Tree, error)
}

// Registry holds adapters by name and alias. Safe for concurrent use.
type Registry struct {
	mu       sync.RWMutex
	adapters map[string]Adapter
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{adapters: make(map[string]Adapter)}
}

// Register adds a under its name and any aliases. Later registrations
// replace earlier ones.
func (r *Registry) Register(a Adapter, aliases ...string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.adapters[a.Name()] = a
	for _, alias := range aliases {
		r.adapters[alias] = a
	}
}

// Lookup returns the adapter registered under name.
func (r *Registry) Lookup(name string) (Adapter, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	a, ok := r.adapters[name]
	return a, ok
}

// Has reports whether name is registered.
func (r *Registry) Has(name string) bool {
	_, ok := r.Lookup(name)
	return ok
}

// Names returns every registered name and alias, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.adapters))
	for name := range r.adapters {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Default is the process-wide registry. Adapters register from init.
var Default = NewRegistry()

// ParseError reports source the adapter could not parse.
type ParseError struct {
	Path    string
	Parser  string
	Line    int
	Column  int
	Message string
	Err     error
}

func (e *ParseError) Error() string {
	msg := e.Message
	if msg == "" && e.Err != nil {
		msg = e.Err.Error()
	}
	loc := e.Path
	if loc == "" {
		loc = "<input>"
	}
	return fmt.Sprintf("%s:%d:%d: parsing error (%s): %s", loc, e.Line, e.Column, e.Parser, msg)
}

func (e *ParseError) Unwrap() error { return e.Err }
