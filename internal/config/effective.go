package config

import (
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/jeduden/lintstack/internal/lint"
	"github.com/jeduden/lintstack/internal/rule"
)

// RuleSetting is a resolved rule with the source that last set it.
type RuleSetting struct {
	Severity lint.Severity
	Options  rule.Options
	Source   string
}

// Enabled reports whether the rule runs.
func (s RuleSetting) Enabled() bool {
	return s.Severity != lint.Off
}

// IgnorePattern is an ignore pattern and the directory it is relative to.
type IgnorePattern struct {
	Pattern string
	Dir     string

	m *matcher
}

// EffectiveConfig is the merged, validated result of resolving an extends
// chain for one file. It is shared between goroutines and never mutated
// after resolution.
type EffectiveConfig struct {
	Parser         string
	ParserOptions  map[string]any
	Plugins        []string
	Env            []string
	Settings       map[string]any
	Rules          map[string]RuleSetting
	IgnorePatterns []IgnorePattern

	parserSource string
	envSources   map[string]string
	pluginSource map[string]string
}

func newEffective() *EffectiveConfig {
	return &EffectiveConfig{
		ParserOptions: map[string]any{},
		Settings:      map[string]any{},
		Rules:         map[string]RuleSetting{},
		envSources:    map[string]string{},
		pluginSource:  map[string]string{},
	}
}

// Rule returns the setting for id.
func (c *EffectiveConfig) Rule(id string) (RuleSetting, bool) {
	s, ok := c.Rules[id]
	return s, ok
}

// RuleIDs returns the configured rule IDs, sorted.
func (c *EffectiveConfig) RuleIDs() []string {
	ids := make([]string, 0, len(c.Rules))
	for id := range c.Rules {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Ignored reports whether file matches an ignore pattern.
func (c *EffectiveConfig) Ignored(file string) bool {
	for _, p := range c.IgnorePatterns {
		rel := relativeTo(p.Dir, file)
		if rel != "" && matchAny([]*matcher{p.m}, rel, true) {
			return true
		}
	}
	return false
}

type dump struct {
	Parser         string         `yaml:"parser"`
	ParserOptions  map[string]any `yaml:"parserOptions,omitempty"`
	Plugins        []string       `yaml:"plugins,omitempty"`
	Env            []string       `yaml:"env,omitempty"`
	Settings       map[string]any `yaml:"settings,omitempty"`
	Rules          map[string]any `yaml:"rules"`
	IgnorePatterns []string       `yaml:"ignorePatterns,omitempty"`
}

// Dump renders the configuration as YAML with each rule in
// [severity, ...options] form.
func (c *EffectiveConfig) Dump() ([]byte, error) {
	d := dump{
		Parser:        c.Parser,
		ParserOptions: c.ParserOptions,
		Plugins:       c.Plugins,
		Env:           c.Env,
		Settings:      c.Settings,
		Rules:         make(map[string]any, len(c.Rules)),
	}
	for id, s := range c.Rules {
		v := []any{string(s.Severity)}
		v = append(v, s.Options...)
		d.Rules[id] = v
	}
	for _, p := range c.IgnorePatterns {
		d.IgnorePatterns = append(d.IgnorePatterns, p.Pattern)
	}
	return yaml.Marshal(d)
}
