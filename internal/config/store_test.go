package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeduden/lintstack/internal/lint"
	"github.com/jeduden/lintstack/internal/plugin"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestStore_LoadFileWithRelativeExtends(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "shared", "base.yml"), "rules:\n  no-alert: error\n")
	writeFile(t, filepath.Join(dir, "app", ".lintstackrc.yml"), "extends: ../shared/base.yml\n")

	store := NewStore()
	entry, err := store.LoadFile(filepath.Join(dir, "app", ".lintstackrc.yml"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "app"), entry.Dir)

	base, err := store.Load(entry.Extends[0], entry)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "shared", "base.yml"), base.ID)

	again, err := store.LoadFile(filepath.Join(dir, "shared", "base.yml"))
	require.NoError(t, err)
	assert.Same(t, base, again)
}

func TestStore_LoadJSON(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".lintstackrc.json")
	writeFile(t, path, "{\n\t\"env\": {\"browser\": true},\n\t\"rules\": {\"no-alert\": [\"warn\"], \"max-len\": [2, 100]}\n}\n")

	src, err := NewStore().LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, lint.Warn, src.Rules["no-alert"].Severity)
	assert.Equal(t, lint.Error, src.Rules["max-len"].Severity)
	assert.EqualValues(t, 100, src.Rules["max-len"].Options.Int(0, 0))
	assert.Equal(t, []EnvEntry{{Name: "browser", Enabled: true}}, src.Env)
}

func TestStore_LoadJSON_UnknownKey(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cfg.json")
	writeFile(t, path, `{"rulse": {}}`)

	_, err := NewStore().LoadFile(path)
	var me *MalformedConfigError
	require.ErrorAs(t, err, &me)
}

func TestStore_LoadJSON_DuplicateKey(t *testing.T) {
	for name, doc := range map[string]string{
		"rule key":    `{"rules": {"no-alert": "off", "no-alert": "error"}}`,
		"top level":   `{"env": ["browser"], "env": ["node"]}`,
		"in override": `{"overrides": [{"files": ["*.ts"], "rules": {}}, {"files": ["*.js"], "files": ["*.cjs"]}]}`,
	} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "cfg.json")
			writeFile(t, path, doc)

			_, err := NewStore().LoadFile(path)
			var me *MalformedConfigError
			require.ErrorAs(t, err, &me)
			assert.Contains(t, me.Error(), "duplicate key")
		})
	}
}

func TestCheckJSONKeys_SameKeyInSiblingObjects(t *testing.T) {
	assert.NoError(t, checkJSONKeys([]byte(`{"overrides": [{"files": ["a"], "rules": {"x": [1, {"y": 2}]}}, {"files": ["b"]}], "rules": {}}`)))
}

func TestStore_MissingFile(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "cfg.yml"), "extends: ./gone.yml\n")
	store := NewStore()
	entry, err := store.LoadFile(filepath.Join(dir, "cfg.yml"))
	require.NoError(t, err)

	_, err = store.Load("./gone.yml", entry)
	var me *MissingConfigError
	require.ErrorAs(t, err, &me)
	assert.Equal(t, filepath.Join(dir, "gone.yml"), me.Ref)
	assert.Equal(t, entry.ID, me.From)
}

func TestStore_Presets(t *testing.T) {
	RegisterPreset("test:strict", []byte("rules:\n  no-alert: error\n"))
	assert.Contains(t, Presets(), "test:strict")

	src, err := NewStore().Load("test:strict", nil)
	require.NoError(t, err)
	assert.Equal(t, "test:strict", src.ID)
	assert.Empty(t, src.Dir)
	assert.Equal(t, lint.Error, src.Rules["no-alert"].Severity)

	_, err = NewStore().Load("test:lenient", nil)
	var me *MissingConfigError
	assert.ErrorAs(t, err, &me)
}

func TestStore_PluginConfig(t *testing.T) {
	p := &plugin.BuiltinPlugin{Name: "import", Configs: map[string][]byte{
		"recommended": []byte("plugins: [import]\nrules:\n  import/order: warn\n"),
	}}
	store := NewStore(WithStorePlugins(func(name string) (plugin.Plugin, bool) {
		return p, name == "import"
	}))

	src, err := store.Load("plugin:import/recommended", nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"import"}, src.Plugins)

	for _, ref := range []string{"plugin:import/strict", "plugin:react/recommended", "plugin:import"} {
		_, err := store.Load(ref, nil)
		var me *MissingConfigError
		assert.ErrorAs(t, err, &me, ref)
	}
}

func TestIsPathRef(t *testing.T) {
	assert.True(t, isPathRef("./base.yml"))
	assert.True(t, isPathRef("../shared/base"))
	assert.True(t, isPathRef("/etc/lintstack.yml"))
	assert.True(t, isPathRef("shared.json"))
	assert.False(t, isPathRef("airbnb-typescript/base"))
	assert.False(t, isPathRef("lintstack:recommended"))
}

func TestDiscover_FindsInCurrentDir(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, ".lintstackrc.yml"), "rules: {}\n")

	got, err := Discover(dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, ".lintstackrc.yml"), got)
}

func TestDiscover_FindsInParentDir(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, ".lintstackrc.json"), "{}")
	sub := filepath.Join(dir, "src", "game")
	require.NoError(t, os.MkdirAll(sub, 0o755))

	got, err := Discover(sub)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, ".lintstackrc.json"), got)
}

func TestDiscover_StopsAtGitBoundary(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, ".lintstackrc.yml"), "rules: {}\n")
	repo := filepath.Join(dir, "repo")
	require.NoError(t, os.MkdirAll(filepath.Join(repo, ".git"), 0o755))
	sub := filepath.Join(repo, "src")
	require.NoError(t, os.MkdirAll(sub, 0o755))

	got, err := Discover(sub)
	require.NoError(t, err)
	assert.Empty(t, got)

	_, err = NewStore().Discover(sub)
	var me *MissingConfigError
	assert.ErrorAs(t, err, &me)
}

func TestDiscover_PrefersYMLOverJSON(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, ".lintstackrc.json"), "{}")
	writeFile(t, filepath.Join(dir, ".lintstackrc.yml"), "rules: {}\n")

	src, err := NewStore().Discover(dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, ".lintstackrc.yml"), src.ID)
}

func TestEffectiveConfig_Ignored(t *testing.T) {
	dir := t.TempDir()
	f := newFixture(t)
	entry := f.addIn(t, filepath.Join(dir, "cfg.yml"), dir, "ignorePatterns: [dist/, '*.min.js', 'vendor/**']\n")

	cfg, err := f.resolver.Resolve(entry)
	require.NoError(t, err)

	assert.True(t, cfg.Ignored(filepath.Join(dir, "dist", "bundle.js")))
	assert.True(t, cfg.Ignored(filepath.Join(dir, "src", "jquery.min.js")))
	assert.True(t, cfg.Ignored(filepath.Join(dir, "vendor", "a", "b.ts")))
	assert.False(t, cfg.Ignored(filepath.Join(dir, "src", "main.ts")))
	assert.False(t, cfg.Ignored(filepath.Join(filepath.Dir(dir), "dist", "x.js")))
}

func TestEffectiveConfig_Dump(t *testing.T) {
	f := newFixture(t)
	cfg, err := f.resolver.Resolve(f.add(t, "entry", "env: [browser]\nrules:\n  max-len: [warn, 100]\n  no-alert: error\n"))
	require.NoError(t, err)

	out, err := cfg.Dump()
	require.NoError(t, err)
	assert.Equal(t, `parser: espree
env:
    - browser
rules:
    max-len:
        - warn
        - 100
    no-alert:
        - error
`, string(out))
}
