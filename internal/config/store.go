package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/jeduden/lintstack/internal/plugin"
)

// FileNames are the configuration file names Discover looks for, in order.
var FileNames = []string{".lintstackrc.yml", ".lintstackrc.yaml", ".lintstackrc.json"}

var (
	presetMu sync.RWMutex
	presets  = map[string][]byte{}
)

// RegisterPreset makes doc available to extends under name. Called from init.
func RegisterPreset(name string, doc []byte) {
	presetMu.Lock()
	defer presetMu.Unlock()
	presets[name] = doc
}

// Presets returns the registered preset names, sorted.
func Presets() []string {
	presetMu.RLock()
	defer presetMu.RUnlock()
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func lookupPreset(name string) ([]byte, bool) {
	presetMu.RLock()
	defer presetMu.RUnlock()
	doc, ok := presets[name]
	return doc, ok
}

// Store loads sources by reference and keeps each one, keyed by ID, for the
// lifetime of a run. Safe for concurrent use.
type Store struct {
	mu      sync.Mutex
	sources map[string]*Source
	plugins func(name string) (plugin.Plugin, bool)
}

// StoreOption configures a Store.
type StoreOption func(*Store)

// WithStorePlugins sets the lookup used for "plugin:" references.
func WithStorePlugins(lookup func(string) (plugin.Plugin, bool)) StoreOption {
	return func(s *Store) { s.plugins = lookup }
}

// NewStore returns an empty Store that resolves plugin configs from the
// plugin catalog.
func NewStore(opts ...StoreOption) *Store {
	s := &Store{sources: make(map[string]*Source), plugins: plugin.Lookup}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Add stores src under its ID, replacing any earlier source.
func (s *Store) Add(src *Source) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sources[src.ID] = src
}

// Load resolves an extends reference made by from (nil for a top-level
// reference):
//   - "plugin:<name>/<config>" is a config bundled by a plugin
//   - a path ("./base.yml", "/etc/lint.json", "shared.yaml") is a file
//     relative to from's directory
//   - anything else is a registered preset
func (s *Store) Load(ref string, from *Source) (*Source, error) {
	fromID, fromDir := "", ""
	if from != nil {
		fromID, fromDir = from.ID, from.Dir
	}

	if strings.HasPrefix(ref, plugin.ConfigPrefix) {
		return s.loadPluginConfig(ref, fromID)
	}
	if isPathRef(ref) {
		p := ref
		if !filepath.IsAbs(p) && fromDir != "" {
			p = filepath.Join(fromDir, p)
		}
		src, err := s.LoadFile(p)
		var missing *MissingConfigError
		if errors.As(err, &missing) && missing.From == "" {
			missing.From = fromID
		}
		return src, err
	}

	if src, ok := s.cached(ref); ok {
		return src, nil
	}
	doc, ok := lookupPreset(ref)
	if !ok {
		return nil, &MissingConfigError{Ref: ref, From: fromID}
	}
	return s.parse(ref, "", doc)
}

func (s *Store) loadPluginConfig(ref, fromID string) (*Source, error) {
	if src, ok := s.cached(ref); ok {
		return src, nil
	}
	name, cfgName, ok := plugin.ParseConfigRef(ref)
	if !ok {
		return nil, &MissingConfigError{Ref: ref, From: fromID, Err: errors.New(`expected "plugin:<name>/<config>"`)}
	}
	p, ok := s.plugins(name)
	if !ok {
		return nil, &MissingConfigError{Ref: ref, From: fromID, Err: fmt.Errorf("plugin %q not found", name)}
	}
	doc, ok := p.PluginConfig(cfgName)
	if !ok {
		return nil, &MissingConfigError{Ref: ref, From: fromID}
	}
	return s.parse(ref, "", doc)
}

// LoadFile reads the document at path. JSON files are decoded as JSON; every
// other extension as YAML.
func (s *Store) LoadFile(path string) (*Source, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolving config path: %w", err)
	}
	if src, ok := s.cached(abs); ok {
		return src, nil
	}

	data, err := os.ReadFile(abs)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, &MissingConfigError{Ref: abs}
	}
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	if strings.EqualFold(filepath.Ext(abs), ".json") {
		data, err = jsonToYAML(data)
		if err != nil {
			return nil, &MalformedConfigError{Source: abs, Err: err}
		}
	}
	return s.parse(abs, filepath.Dir(abs), data)
}

// Discover walks up from startDir looking for a configuration file. It stops
// at a directory containing .git (the repository root) or at the filesystem
// root. It returns "" when nothing is found.
func Discover(startDir string) (string, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", fmt.Errorf("resolving absolute path: %w", err)
	}

	for {
		for _, name := range FileNames {
			candidate := filepath.Join(dir, name)
			if _, err := os.Stat(candidate); err == nil {
				return candidate, nil
			}
		}

		if info, err := os.Stat(filepath.Join(dir, ".git")); err == nil && info.IsDir() {
			return "", nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", nil
		}
		dir = parent
	}
}

// Discover loads the nearest configuration file above startDir.
func (s *Store) Discover(startDir string) (*Source, error) {
	path, err := Discover(startDir)
	if err != nil {
		return nil, err
	}
	if path == "" {
		return nil, &MissingConfigError{Ref: FileNames[0], From: startDir}
	}
	return s.LoadFile(path)
}

func (s *Store) cached(id string) (*Source, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	src, ok := s.sources[id]
	return src, ok
}

func (s *Store) parse(id, dir string, data []byte) (*Source, error) {
	src, err := Load(id, dir, data)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if prev, ok := s.sources[id]; ok {
		return prev, nil
	}
	s.sources[id] = src
	return src, nil
}

func isPathRef(ref string) bool {
	if strings.HasPrefix(ref, ".") || filepath.IsAbs(ref) {
		return true
	}
	switch strings.ToLower(filepath.Ext(ref)) {
	case ".yml", ".yaml", ".json":
		return true
	}
	return false
}

// jsonToYAML re-encodes a JSON document as YAML so both formats share one
// decoder with strict field checking.
func jsonToYAML(data []byte) ([]byte, error) {
	if err := checkJSONKeys(data); err != nil {
		return nil, err
	}
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, err
	}
	if v == nil {
		return nil, nil
	}
	return yaml.Marshal(v)
}

// checkJSONKeys rejects objects that repeat a key. json.Unmarshal keeps the
// last value silently; YAML documents fail on the same input.
func checkJSONKeys(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	// one entry per open container; nil marks an array
	var stack []map[string]bool
	expectKey := func() bool {
		return len(stack) > 0 && stack[len(stack)-1] != nil
	}
	inKey := false
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
		switch t := tok.(type) {
		case json.Delim:
			switch t {
			case '{':
				stack = append(stack, map[string]bool{})
				inKey = true
				continue
			case '[':
				stack = append(stack, nil)
			case '}', ']':
				stack = stack[:len(stack)-1]
			}
		case string:
			if inKey {
				keys := stack[len(stack)-1]
				if keys[t] {
					return fmt.Errorf("duplicate key %q", t)
				}
				keys[t] = true
				inKey = false
				continue
			}
		}
		// the next token in an object is a key once a value is complete
		inKey = expectKey() && dec.More() && valueDone(tok)
	}
}

// valueDone reports whether tok finished a value, as opposed to opening a
// container.
func valueDone(tok json.Token) bool {
	d, ok := tok.(json.Delim)
	return !ok || d == '}' || d == ']'
}
