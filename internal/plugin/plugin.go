// Package plugin bundles rules and shareable configs under a plugin name.
//
// Plugins are compiled in and register themselves from init:
//
//	func init() {
//	    plugin.Register(&plugin.BuiltinPlugin{
//	        Name:       "import",
//	        Version:    "0.3.0",
//	        Constraint: "^1.0.0",
//	        Rules:      []rule.Rule{&Order{}},
//	    })
//	}
//
// A run loads the plugins its configuration names into a rule.Registry.
package plugin

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/Masterminds/semver/v3"

	"github.com/jeduden/lintstack/internal/rule"
)

// APIVersion is the rule API version plugins declare compatibility with.
const APIVersion = "1.0.0"

// ConfigPrefix marks an extends reference to a config bundled by a plugin,
// as in "plugin:import/recommended".
const ConfigPrefix = "plugin:"

// Plugin supplies rules and named configuration documents.
type Plugin interface {
	PluginName() string
	PluginVersion() string
	// VersionConstraint is a semver constraint on APIVersion.
	VersionConstraint() string
	PluginRules() []rule.Rule
	// PluginConfig returns the YAML document of a bundled config.
	PluginConfig(name string) ([]byte, bool)
	ConfigNames() []string
}

// BuiltinPlugin provides a default Plugin implementation. Plugins embed it
// or use it directly.
type BuiltinPlugin struct {
	Name       string
	Version    string
	Constraint string
	Rules      []rule.Rule
	Configs    map[string][]byte
}

func (p *BuiltinPlugin) PluginName() string    { return p.Name }
func (p *BuiltinPlugin) PluginVersion() string { return p.Version }

// VersionConstraint defaults to the current major API version.
func (p *BuiltinPlugin) VersionConstraint() string {
	if p.Constraint == "" {
		return "^" + APIVersion
	}
	return p.Constraint
}

func (p *BuiltinPlugin) PluginRules() []rule.Rule {
	out := make([]rule.Rule, len(p.Rules))
	copy(out, p.Rules)
	return out
}

func (p *BuiltinPlugin) PluginConfig(name string) ([]byte, bool) {
	doc, ok := p.Configs[name]
	return doc, ok
}

func (p *BuiltinPlugin) ConfigNames() []string {
	names := make([]string, 0, len(p.Configs))
	for name := range p.Configs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

var (
	catalogMu sync.RWMutex
	catalog   = map[string]Plugin{}
	order     []string
)

// Register adds p to the plugin catalog. Registering the same name twice
// panics; it is a programming error in an init function.
func Register(p Plugin) {
	catalogMu.Lock()
	defer catalogMu.Unlock()
	name := p.PluginName()
	if _, dup := catalog[name]; dup {
		panic(fmt.Sprintf("plugin %q registered twice", name))
	}
	catalog[name] = p
	order = append(order, name)
}

// Lookup returns the catalog plugin with the given name.
func Lookup(name string) (Plugin, bool) {
	catalogMu.RLock()
	defer catalogMu.RUnlock()
	p, ok := catalog[name]
	return p, ok
}

// All returns catalog plugins in registration order.
func All() []Plugin {
	catalogMu.RLock()
	defer catalogMu.RUnlock()
	out := make([]Plugin, 0, len(order))
	for _, name := range order {
		out = append(out, catalog[name])
	}
	return out
}

// Reset clears the catalog. Used for testing.
func Reset() {
	catalogMu.Lock()
	defer catalogMu.Unlock()
	catalog = map[string]Plugin{}
	order = nil
}

// CheckCompatible verifies that p accepts APIVersion.
func CheckCompatible(p Plugin) error {
	c, err := semver.NewConstraint(p.VersionConstraint())
	if err != nil {
		return &IncompatiblePluginError{Plugin: p.PluginName(), Constraint: p.VersionConstraint(), Err: err}
	}
	if !c.Check(semver.MustParse(APIVersion)) {
		return &IncompatiblePluginError{Plugin: p.PluginName(), Constraint: p.VersionConstraint()}
	}
	return nil
}

// Load registers the rules of p into reg under the plugin's name.
func Load(reg *rule.Registry, p Plugin) error {
	if err := CheckCompatible(p); err != nil {
		return err
	}
	for _, r := range p.PluginRules() {
		if err := reg.Register(p.PluginName(), r); err != nil {
			return fmt.Errorf("loading plugin %q: %w", p.PluginName(), err)
		}
	}
	return nil
}

// ParseConfigRef splits "plugin:<name>/<config>". Scoped plugin names keep
// their slash: "plugin:@scope/pkg/recommended" names plugin "@scope/pkg".
func ParseConfigRef(ref string) (pluginName, config string, ok bool) {
	rest, found := strings.CutPrefix(ref, ConfigPrefix)
	if !found {
		return "", "", false
	}
	i := strings.LastIndex(rest, "/")
	if i <= 0 || i == len(rest)-1 {
		return "", "", false
	}
	return rest[:i], rest[i+1:], true
}

// IncompatiblePluginError reports a plugin whose constraint rejects APIVersion.
type IncompatiblePluginError struct {
	Plugin     string
	Constraint string
	Err        error
}

func (e *IncompatiblePluginError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("plugin %q: invalid version constraint %q: %v", e.Plugin, e.Constraint, e.Err)
	}
	return fmt.Sprintf("plugin %q requires API %s, have %s", e.Plugin, e.Constraint, APIVersion)
}

func (e *IncompatiblePluginError) Unwrap() error { return e.Err }
