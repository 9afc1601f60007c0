package config

import (
	"path/filepath"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeduden/lintstack/internal/lint"
	"github.com/jeduden/lintstack/internal/parser"
	"github.com/jeduden/lintstack/internal/plugin"
	"github.com/jeduden/lintstack/internal/rule"
	"github.com/jeduden/lintstack/internal/syntax"
)

type stubRule struct {
	id     string
	schema string
}

func (r stubRule) ID() string                                 { return r.id }
func (r stubRule) Description() string                        { return r.id }
func (r stubRule) Schema() string                             { return r.schema }
func (r stubRule) Create(*rule.Context) (rule.Visitor, error) { return rule.Visit(nil), nil }

type stubParser struct{ name string }

func (p stubParser) Name() string   { return p.name }
func (p stubParser) Schema() string { return "" }
func (p stubParser) Parse([]byte, map[string]any) (*syntax.Tree, error) {
	return syntax.NewTree(nil, p.name, nil), nil
}

type fixture struct {
	store    *Store
	rules    *rule.Registry
	resolver *Resolver
}

func newFixture(t *testing.T, plugins ...plugin.Plugin) *fixture {
	t.Helper()
	reg := rule.NewRegistry()
	for _, r := range []rule.Rule{
		stubRule{id: "no-console", schema: `[...close({allow?: [...string]})]`},
		stubRule{id: "no-alert"},
		stubRule{id: "max-len"},
		stubRule{id: "no-plusplus", schema: `[...close({allowForLoopAfterthoughts?: bool})]`},
	} {
		require.NoError(t, reg.Register(rule.CoreSource, r))
	}

	byName := map[string]plugin.Plugin{}
	for _, p := range plugins {
		byName[p.PluginName()] = p
	}
	lookup := func(name string) (plugin.Plugin, bool) {
		p, ok := byName[name]
		return p, ok
	}

	parsers := parser.NewRegistry()
	parsers.Register(stubParser{name: parser.DefaultName})
	parsers.Register(stubParser{name: "@typescript-eslint/parser"})

	store := NewStore(WithStorePlugins(lookup))
	return &fixture{
		store:    store,
		rules:    reg,
		resolver: NewResolver(store, reg, WithParsers(parsers), WithPlugins(lookup)),
	}
}

func (f *fixture) add(t *testing.T, id, doc string) *Source {
	t.Helper()
	src, err := Load(id, "", []byte(doc))
	require.NoError(t, err)
	f.store.Add(src)
	return src
}

func (f *fixture) addIn(t *testing.T, id, dir, doc string) *Source {
	t.Helper()
	src, err := Load(id, dir, []byte(doc))
	require.NoError(t, err)
	f.store.Add(src)
	return src
}

func TestResolve_OverrideTurnsRuleOff(t *testing.T) {
	f := newFixture(t)
	f.add(t, "base", "rules:\n  no-console: error\n")
	entry := f.add(t, "entry", "extends: [base]\nrules:\n  no-console: \"off\"\n")

	cfg, err := f.resolver.Resolve(entry)
	require.NoError(t, err)
	assert.Equal(t, RuleSetting{Severity: lint.Off, Source: "entry"}, cfg.Rules["no-console"])
}

func TestResolve_SingleParserRulesSettings(t *testing.T) {
	f := newFixture(t)
	f.add(t, "base", "parser: \"@typescript-eslint/parser\"\nsettings:\n  a: 1\nrules:\n  no-alert: error\n")
	entry := f.add(t, "entry", "extends: base\nsettings:\n  b: 2\nrules:\n  max-len: warn\n")

	cfg, err := f.resolver.Resolve(entry)
	require.NoError(t, err)
	assert.Equal(t, "@typescript-eslint/parser", cfg.Parser)
	assert.Equal(t, map[string]any{"a": 1, "b": 2}, cfg.Settings)
	assert.Equal(t, []string{"max-len", "no-alert"}, cfg.RuleIDs())
	for _, id := range cfg.RuleIDs() {
		assert.True(t, f.rules.Has(id), id)
	}
}

func TestResolve_DefaultParser(t *testing.T) {
	f := newFixture(t)
	cfg, err := f.resolver.Resolve(f.add(t, "entry", "rules: {}\n"))
	require.NoError(t, err)
	assert.Equal(t, parser.DefaultName, cfg.Parser)
}

func TestResolve_DisjointPluginSetsUnion(t *testing.T) {
	f := newFixture(t,
		&plugin.BuiltinPlugin{Name: "p1"},
		&plugin.BuiltinPlugin{Name: "p2"},
	)
	f.add(t, "a", "plugins: [p1]\n")
	f.add(t, "b", "plugins: [p2]\n")
	entry := f.add(t, "entry", "extends: [a, b]\nplugins: [p1]\n")

	cfg, err := f.resolver.Resolve(entry)
	require.NoError(t, err)
	assert.Equal(t, []string{"p1", "p2"}, cfg.Plugins)
}

func TestResolve_Cycle(t *testing.T) {
	f := newFixture(t)
	f.add(t, "A", "extends: [B]\n")
	f.add(t, "B", "extends: [A]\n")
	entry, _ := f.store.Load("A", nil)

	_, err := f.resolver.Resolve(entry)
	var ce *CyclicConfigError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, []string{"A", "B", "A"}, ce.Cycle)
	assert.Equal(t, "circular extends: A -> B -> A", err.Error())
}

func TestResolve_SelfCycleDeepInChain(t *testing.T) {
	f := newFixture(t)
	f.add(t, "C", "extends: [C]\n")
	f.add(t, "B", "extends: [C]\n")
	entry := f.add(t, "A", "extends: [B]\n")

	_, err := f.resolver.Resolve(entry)
	var ce *CyclicConfigError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, []string{"C", "C"}, ce.Cycle)
}

func TestResolve_DiamondIsNotACycle(t *testing.T) {
	f := newFixture(t)
	f.add(t, "shared", "rules:\n  no-alert: error\n")
	f.add(t, "left", "extends: [shared]\n")
	f.add(t, "right", "extends: [shared]\nrules:\n  no-alert: warn\n")
	entry := f.add(t, "entry", "extends: [right, left]\n")

	cfg, err := f.resolver.Resolve(entry)
	require.NoError(t, err)
	// left re-applies shared after right, so shared's value wins.
	assert.Equal(t, RuleSetting{Severity: lint.Error, Source: "shared"}, cfg.Rules["no-alert"])
}

func TestResolve_DepthFirstLeftToRight(t *testing.T) {
	f := newFixture(t)
	f.add(t, "grandparent", "rules:\n  max-len: warn\n  no-alert: warn\n")
	f.add(t, "first", "extends: [grandparent]\nrules:\n  no-alert: error\n")
	f.add(t, "second", "rules:\n  max-len: error\n")
	entry := f.add(t, "entry", "extends: [first, second]\n")

	cfg, err := f.resolver.Resolve(entry)
	require.NoError(t, err)
	assert.Equal(t, "second", cfg.Rules["max-len"].Source)
	assert.Equal(t, lint.Error, cfg.Rules["max-len"].Severity)
	assert.Equal(t, "first", cfg.Rules["no-alert"].Source)
}

func TestResolve_SeverityOnlyKeepsOptions(t *testing.T) {
	f := newFixture(t)
	f.add(t, "base", "rules:\n  no-plusplus: [error, {allowForLoopAfterthoughts: true}]\n")
	entry := f.add(t, "entry", "extends: [base]\nrules:\n  no-plusplus: warn\n")

	cfg, err := f.resolver.Resolve(entry)
	require.NoError(t, err)
	assert.Equal(t, RuleSetting{
		Severity: lint.Warn,
		Options:  rule.Options{map[string]any{"allowForLoopAfterthoughts": true}},
		Source:   "entry",
	}, cfg.Rules["no-plusplus"])
}

func TestResolve_OffOverOffIsNoop(t *testing.T) {
	f := newFixture(t)
	f.add(t, "base", "rules:\n  no-alert: \"off\"\n")
	entry := f.add(t, "entry", "extends: [base]\nrules:\n  no-alert: 0\n")

	cfg, err := f.resolver.Resolve(entry)
	require.NoError(t, err)
	assert.Equal(t, "base", cfg.Rules["no-alert"].Source)
}

func TestResolve_DeepMergesSettingsAndParserOptions(t *testing.T) {
	f := newFixture(t)
	f.add(t, "base", `
parserOptions:
  ecmaFeatures: {jsx: true}
settings:
  import/resolver:
    node: {extensions: [".js"]}
`)
	entry := f.add(t, "entry", `
extends: [base]
parserOptions:
  ecmaFeatures: {globalReturn: true}
  project: ./tsconfig.json
settings:
  import/resolver:
    typescript: {}
`)

	cfg, err := f.resolver.Resolve(entry)
	require.NoError(t, err)

	want := map[string]any{
		"ecmaFeatures": map[string]any{"jsx": true, "globalReturn": true},
		"project":      "./tsconfig.json",
	}
	if diff := cmp.Diff(want, cfg.ParserOptions); diff != "" {
		t.Errorf("parserOptions mismatch (-want +got):\n%s", diff)
	}
	wantSettings := map[string]any{
		"import/resolver": map[string]any{
			"node":       map[string]any{"extensions": []any{".js"}},
			"typescript": map[string]any{},
		},
	}
	if diff := cmp.Diff(wantSettings, cfg.Settings); diff != "" {
		t.Errorf("settings mismatch (-want +got):\n%s", diff)
	}
}

func TestResolve_Env(t *testing.T) {
	f := newFixture(t)
	f.add(t, "base", "env: [node, browser]\n")
	entry := f.add(t, "entry", "extends: [base]\nenv:\n  node: false\n  jquery: true\n")

	cfg, err := f.resolver.Resolve(entry)
	require.NoError(t, err)
	assert.Equal(t, []string{"browser", "jquery"}, cfg.Env)
}

func TestResolve_UnknownEnv(t *testing.T) {
	f := newFixture(t)
	_, err := f.resolver.Resolve(f.add(t, "entry", "env: [martian]\n"))
	var me *MalformedConfigError
	require.ErrorAs(t, err, &me)
	assert.Equal(t, "entry", me.Source)
}

func TestResolve_DuplicateRuleAcrossPlugins(t *testing.T) {
	f := newFixture(t,
		&plugin.BuiltinPlugin{Name: "plugin-a", Rules: []rule.Rule{stubRule{id: "foo-bar"}}},
		&plugin.BuiltinPlugin{Name: "plugin-b", Rules: []rule.Rule{stubRule{id: "foo-bar"}}},
	)
	entry := f.add(t, "entry", "plugins: [plugin-a, plugin-b]\nrules:\n  foo-bar: error\n")

	_, err := f.resolver.Resolve(entry)
	var dup *rule.DuplicateRuleError
	require.ErrorAs(t, err, &dup)
	assert.Equal(t, "plugin-a", dup.Existing)
	assert.Equal(t, "plugin-b", dup.Incoming)
}

func TestResolve_PluginRules(t *testing.T) {
	f := newFixture(t, &plugin.BuiltinPlugin{Name: "import", Rules: []rule.Rule{stubRule{id: "import/order"}}})
	entry := f.add(t, "entry", "plugins: [import]\nrules:\n  import/order: error\n")

	cfg, err := f.resolver.Resolve(entry)
	require.NoError(t, err)
	assert.True(t, cfg.Rules["import/order"].Enabled())
	src, _ := f.rules.Source("import/order")
	assert.Equal(t, "import", src)
}

func TestResolve_PluginRuleWithoutPlugin(t *testing.T) {
	f := newFixture(t, &plugin.BuiltinPlugin{Name: "import", Rules: []rule.Rule{stubRule{id: "import/order"}}})
	_, err := f.resolver.Resolve(f.add(t, "with", "plugins: [import]\n"))
	require.NoError(t, err)

	// The rule is registered now, but this chain never enabled the plugin.
	_, err = f.resolver.Resolve(f.add(t, "without", "rules:\n  import/order: error\n"))
	var ue *UnknownRuleError
	require.ErrorAs(t, err, &ue)
	assert.Equal(t, "import/order", ue.ID)
}

func TestResolve_UnknownRule(t *testing.T) {
	f := newFixture(t)
	f.add(t, "base", "rules:\n  no-such-rule: error\n")
	entry := f.add(t, "entry", "extends: [base]\n")

	_, err := f.resolver.Resolve(entry)
	var ue *UnknownRuleError
	require.ErrorAs(t, err, &ue)
	assert.Equal(t, "no-such-rule", ue.ID)
	assert.Equal(t, "base", ue.Source)
}

func TestResolve_UnknownPlugin(t *testing.T) {
	f := newFixture(t)
	_, err := f.resolver.Resolve(f.add(t, "entry", "plugins: [react]\n"))
	var pe *UnknownPluginError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, "react", pe.Name)
}

func TestResolve_SchemaError(t *testing.T) {
	f := newFixture(t)
	entry := f.add(t, "entry", "rules:\n  no-console: [error, {allow: warn}]\n")

	_, err := f.resolver.Resolve(entry)
	var se *rule.SchemaError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, "no-console", se.RuleID)
	assert.Contains(t, err.Error(), "entry")
}

func TestResolve_UnknownParser(t *testing.T) {
	f := newFixture(t)
	_, err := f.resolver.Resolve(f.add(t, "entry", "parser: babel-eslint\n"))
	var pe *UnknownParserError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, "babel-eslint", pe.Name)
	assert.Equal(t, "entry", pe.Source)
}

func TestResolve_MissingExtends(t *testing.T) {
	f := newFixture(t)
	_, err := f.resolver.Resolve(f.add(t, "entry", "extends: [nowhere]\n"))
	var me *MissingConfigError
	require.ErrorAs(t, err, &me)
	assert.Equal(t, "nowhere", me.Ref)
	assert.Equal(t, "entry", me.From)
}

func TestResolve_Deterministic(t *testing.T) {
	build := func() *EffectiveConfig {
		f := newFixture(t, &plugin.BuiltinPlugin{Name: "p1"}, &plugin.BuiltinPlugin{Name: "p2"})
		f.add(t, "a", "plugins: [p1]\nsettings: {x: {y: 1}}\nrules:\n  no-alert: error\n  max-len: [warn, 100]\n")
		f.add(t, "b", "plugins: [p2]\nenv: [browser]\nrules:\n  no-console: [warn, {allow: [warn]}]\n")
		cfg, err := f.resolver.Resolve(f.add(t, "entry", "extends: [a, b]\nrules:\n  no-alert: \"off\"\n"))
		require.NoError(t, err)
		return cfg
	}

	first, second := build(), build()
	if diff := cmp.Diff(first, second, cmpopts.IgnoreUnexported(EffectiveConfig{}, IgnorePattern{})); diff != "" {
		t.Errorf("resolution not deterministic (-first +second):\n%s", diff)
	}
	d1, err := first.Dump()
	require.NoError(t, err)
	d2, err := second.Dump()
	require.NoError(t, err)
	assert.Equal(t, string(d1), string(d2))
}

func TestResolveFile_OverrideBlocks(t *testing.T) {
	dir := t.TempDir()
	f := newFixture(t)
	entry := f.addIn(t, filepath.Join(dir, ".lintstackrc.yml"), dir, `
rules:
  no-console: error
overrides:
  - files: ["*.test.ts"]
    rules:
      no-console: "off"
  - files: ["scripts/**"]
    excludedFiles: ["scripts/keep/**"]
    env: [node]
    rules:
      no-console: warn
`)

	tests := []struct {
		file string
		want lint.Severity
	}{
		{filepath.Join(dir, "src", "game.ts"), lint.Error},
		{filepath.Join(dir, "src", "game.test.ts"), lint.Off},
		{filepath.Join(dir, "scripts", "build.ts"), lint.Warn},
		{filepath.Join(dir, "scripts", "keep", "build.ts"), lint.Error},
		{filepath.Join(dir, "scripts", "deck.test.ts"), lint.Warn},
	}
	for _, tt := range tests {
		cfg, err := f.resolver.ResolveFile(entry, tt.file)
		require.NoError(t, err)
		assert.Equal(t, tt.want, cfg.Rules["no-console"].Severity, tt.file)
	}

	cfg, err := f.resolver.ResolveFile(entry, filepath.Join(dir, "scripts", "build.ts"))
	require.NoError(t, err)
	assert.Equal(t, []string{"node"}, cfg.Env)

	cfg, err = f.resolver.Resolve(entry)
	require.NoError(t, err)
	assert.Equal(t, lint.Error, cfg.Rules["no-console"].Severity)
}

func TestResolveFile_CachedPerOverrideSet(t *testing.T) {
	dir := t.TempDir()
	f := newFixture(t)
	entry := f.addIn(t, filepath.Join(dir, "cfg.yml"), dir, "overrides:\n  - files: ['*.md']\n    rules:\n      max-len: \"off\"\n")

	a, err := f.resolver.ResolveFile(entry, filepath.Join(dir, "a.ts"))
	require.NoError(t, err)
	b, err := f.resolver.ResolveFile(entry, filepath.Join(dir, "lib", "b.ts"))
	require.NoError(t, err)
	c, err := f.resolver.ResolveFile(entry, filepath.Join(dir, "README.md"))
	require.NoError(t, err)

	assert.Same(t, a, b)
	assert.NotSame(t, a, c)
}

func TestResolve_CachesErrors(t *testing.T) {
	f := newFixture(t)
	entry := f.add(t, "entry", "rules:\n  no-such-rule: error\n")

	_, err1 := f.resolver.Resolve(entry)
	_, err2 := f.resolver.Resolve(entry)
	require.Error(t, err1)
	assert.Same(t, err1, err2)
}

func TestResolve_ConcurrentCallersShareResult(t *testing.T) {
	f := newFixture(t)
	f.add(t, "base", "rules:\n  no-alert: error\n")
	entry := f.add(t, "entry", "extends: [base]\n")

	results := make([]*EffectiveConfig, 32)
	var wg sync.WaitGroup
	for i := range results {
		wg.Add(1)
		go func() {
			defer wg.Done()
			cfg, err := f.resolver.Resolve(entry)
			assert.NoError(t, err)
			results[i] = cfg
		}()
	}
	wg.Wait()
	for _, cfg := range results {
		assert.Same(t, results[0], cfg)
	}
}
