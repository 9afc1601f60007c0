package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/jeduden/lintstack/internal/lint"
	"github.com/jeduden/lintstack/internal/rule"
)

// Source is one parsed configuration document. It is immutable after Load.
type Source struct {
	// ID is the preset name, plugin config reference, or absolute file path.
	ID string
	// Dir is the directory relative references and patterns resolve from.
	// Empty for presets and plugin configs.
	Dir string

	Extends        []string
	Parser         string
	ParserOptions  map[string]any
	Plugins        []string
	Env            []EnvEntry
	Settings       map[string]any
	Rules          map[string]RuleSpec
	Overrides      []Override
	IgnorePatterns []string
	Root           bool
}

// Override is a block of settings that applies only to matching files.
type Override struct {
	Files         []string
	ExcludedFiles []string
	Parser        string
	ParserOptions map[string]any
	Plugins       []string
	Env           []EnvEntry
	Settings      map[string]any
	Rules         map[string]RuleSpec

	files    []*matcher
	excluded []*matcher
}

// RuleSpec is a rule value: a severity, optionally followed by options.
type RuleSpec struct {
	Severity lint.Severity
	// Options is nil when the value carried only a severity.
	Options rule.Options
}

// UnmarshalYAML accepts the forms
//   - "error" / "warn" / "off" / 0 / 1 / 2
//   - ["error", ...options]
func (s *RuleSpec) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		sev, err := decodeSeverity(value)
		if err != nil {
			return err
		}
		s.Severity = sev
		s.Options = nil
		return nil
	case yaml.SequenceNode:
		if len(value.Content) == 0 {
			return fmt.Errorf("line %d: rule value must not be an empty list", value.Line)
		}
		sev, err := decodeSeverity(value.Content[0])
		if err != nil {
			return err
		}
		s.Severity = sev
		s.Options = nil
		if len(value.Content) > 1 {
			opts := make(rule.Options, 0, len(value.Content)-1)
			for _, n := range value.Content[1:] {
				var v any
				if err := n.Decode(&v); err != nil {
					return fmt.Errorf("line %d: invalid rule option: %w", n.Line, err)
				}
				opts = append(opts, normalize(v))
			}
			s.Options = opts
		}
		return nil
	}
	return fmt.Errorf("line %d: rule value must be a severity or [severity, ...options]", value.Line)
}

func decodeSeverity(n *yaml.Node) (lint.Severity, error) {
	if n.Kind != yaml.ScalarNode {
		return "", fmt.Errorf("line %d: severity must be a scalar", n.Line)
	}
	var v any
	if err := n.Decode(&v); err != nil {
		return "", fmt.Errorf("line %d: %w", n.Line, err)
	}
	sev, err := lint.ParseSeverity(v)
	if err != nil {
		return "", fmt.Errorf("line %d: %w", n.Line, err)
	}
	return sev, nil
}

// StringList accepts a single string or a list of strings.
type StringList []string

// UnmarshalYAML implements yaml.Unmarshaler.
func (l *StringList) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		if value.Tag == "!!null" {
			*l = nil
			return nil
		}
		*l = StringList{value.Value}
		return nil
	case yaml.SequenceNode:
		var items []string
		if err := value.Decode(&items); err != nil {
			return fmt.Errorf("line %d: expected a list of strings: %w", value.Line, err)
		}
		*l = items
		return nil
	}
	return fmt.Errorf("line %d: expected a string or a list of strings", value.Line)
}

// EnvEntry enables or disables a named environment.
type EnvEntry struct {
	Name    string
	Enabled bool
}

// EnvList accepts [browser, jquery] or {browser: true, node: false}.
type EnvList []EnvEntry

// UnmarshalYAML implements yaml.Unmarshaler.
func (l *EnvList) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.SequenceNode:
		var names []string
		if err := value.Decode(&names); err != nil {
			return fmt.Errorf("line %d: env must be a list of names: %w", value.Line, err)
		}
		out := make(EnvList, 0, len(names))
		for _, n := range names {
			out = append(out, EnvEntry{Name: n, Enabled: true})
		}
		*l = out
		return nil
	case yaml.MappingNode:
		out := make(EnvList, 0, len(value.Content)/2)
		for i := 0; i+1 < len(value.Content); i += 2 {
			var enabled bool
			if err := value.Content[i+1].Decode(&enabled); err != nil {
				return fmt.Errorf("line %d: env %q must be true or false", value.Content[i+1].Line, value.Content[i].Value)
			}
			out = append(out, EnvEntry{Name: value.Content[i].Value, Enabled: enabled})
		}
		*l = out
		return nil
	}
	return fmt.Errorf("line %d: env must be a list or a mapping", value.Line)
}

type document struct {
	Extends        StringList          `yaml:"extends"`
	Parser         string              `yaml:"parser"`
	ParserOptions  map[string]any      `yaml:"parserOptions"`
	Plugins        StringList          `yaml:"plugins"`
	Env            EnvList             `yaml:"env"`
	Settings       map[string]any      `yaml:"settings"`
	Rules          map[string]RuleSpec `yaml:"rules"`
	Overrides      []overrideDocument  `yaml:"overrides"`
	IgnorePatterns StringList          `yaml:"ignorePatterns"`
	Root           bool                `yaml:"root"`
}

type overrideDocument struct {
	Files         StringList          `yaml:"files"`
	ExcludedFiles StringList          `yaml:"excludedFiles"`
	Parser        string              `yaml:"parser"`
	ParserOptions map[string]any      `yaml:"parserOptions"`
	Plugins       StringList          `yaml:"plugins"`
	Env           EnvList             `yaml:"env"`
	Settings      map[string]any      `yaml:"settings"`
	Rules         map[string]RuleSpec `yaml:"rules"`
}

// Load parses a YAML or JSON configuration document. Unknown keys, duplicate
// keys and malformed rule values fail with *MalformedConfigError. Rule IDs
// are not checked here; they are validated once plugins are loaded.
func Load(id, dir string, data []byte) (*Source, error) {
	var doc document
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil && !errors.Is(err, io.EOF) {
		return nil, &MalformedConfigError{Source: id, Err: err}
	}

	src := &Source{
		ID:             id,
		Dir:            dir,
		Extends:        doc.Extends,
		Parser:         doc.Parser,
		ParserOptions:  normalizeMap(doc.ParserOptions),
		Plugins:        doc.Plugins,
		Env:            doc.Env,
		Settings:       normalizeMap(doc.Settings),
		Rules:          doc.Rules,
		IgnorePatterns: doc.IgnorePatterns,
		Root:           doc.Root,
	}
	if err := checkRuleIDs(src.Rules); err != nil {
		return nil, &MalformedConfigError{Source: id, Err: err}
	}
	for _, p := range src.IgnorePatterns {
		if _, err := compilePattern(p); err != nil {
			return nil, &MalformedConfigError{Source: id, Err: err}
		}
	}

	for i, od := range doc.Overrides {
		o, err := newOverride(od)
		if err != nil {
			return nil, &MalformedConfigError{Source: id, Err: fmt.Errorf("overrides[%d]: %w", i, err)}
		}
		src.Overrides = append(src.Overrides, o)
	}
	return src, nil
}

func newOverride(od overrideDocument) (Override, error) {
	if len(od.Files) == 0 {
		return Override{}, errors.New(`"files" is required`)
	}
	if err := checkRuleIDs(od.Rules); err != nil {
		return Override{}, err
	}
	o := Override{
		Files:         od.Files,
		ExcludedFiles: od.ExcludedFiles,
		Parser:        od.Parser,
		ParserOptions: normalizeMap(od.ParserOptions),
		Plugins:       od.Plugins,
		Env:           od.Env,
		Settings:      normalizeMap(od.Settings),
		Rules:         od.Rules,
	}
	for _, p := range od.Files {
		m, err := compilePattern(p)
		if err != nil {
			return Override{}, err
		}
		o.files = append(o.files, m)
	}
	for _, p := range od.ExcludedFiles {
		m, err := compilePattern(p)
		if err != nil {
			return Override{}, err
		}
		o.excluded = append(o.excluded, m)
	}
	return o, nil
}

func checkRuleIDs(rules map[string]RuleSpec) error {
	for id := range rules {
		if id == "" {
			return errors.New("rule identifier must not be empty")
		}
	}
	return nil
}

// Matches reports whether rel, a slash-separated path relative to the
// declaring source's directory, selects this override.
func (o *Override) Matches(rel string) bool {
	if !matchAny(o.files, rel, false) {
		return false
	}
	return !matchAny(o.excluded, rel, false)
}

// normalize converts map[any]any values produced by YAML decoding into
// map[string]any so merged settings have a single shape.
func normalize(v any) any {
	switch x := v.(type) {
	case map[string]any:
		return normalizeMap(x)
	case map[any]any:
		out := make(map[string]any, len(x))
		for k, val := range x {
			out[fmt.Sprint(k)] = normalize(val)
		}
		return out
	case []any:
		out := make([]any, len(x))
		for i, val := range x {
			out[i] = normalize(val)
		}
		return out
	}
	return v
}

func normalizeMap(m map[string]any) map[string]any {
	if m == nil {
		return nil
	}
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = normalize(v)
	}
	return out
}
