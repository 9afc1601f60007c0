package plugin

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeduden/lintstack/internal/rule"
)

type fooBar struct{}

func (fooBar) ID() string                                 { return "foo-bar" }
func (fooBar) Description() string                        { return "test rule" }
func (fooBar) Schema() string                             { return "" }
func (fooBar) Create(*rule.Context) (rule.Visitor, error) { return rule.Visit(nil), nil }

func TestLoad_DuplicateAcrossPlugins(t *testing.T) {
	reg := rule.NewRegistry()
	a := &BuiltinPlugin{Name: "plugin-a", Version: "1.0.0", Rules: []rule.Rule{fooBar{}}}
	b := &BuiltinPlugin{Name: "plugin-b", Version: "2.0.0", Rules: []rule.Rule{fooBar{}}}

	require.NoError(t, Load(reg, a))
	err := Load(reg, b)

	var dup *rule.DuplicateRuleError
	require.ErrorAs(t, err, &dup)
	assert.Equal(t, "plugin-a", dup.Existing)
	assert.Equal(t, "plugin-b", dup.Incoming)
}

func TestLoad_Idempotent(t *testing.T) {
	reg := rule.NewRegistry()
	p := &BuiltinPlugin{Name: "plugin-a", Rules: []rule.Rule{fooBar{}}}
	require.NoError(t, Load(reg, p))
	require.NoError(t, Load(reg, p))
	assert.Equal(t, 1, reg.Len())
	assert.True(t, reg.HasSource("plugin-a"))
}

func TestCheckCompatible(t *testing.T) {
	tests := []struct {
		constraint string
		ok         bool
	}{
		{"", true},
		{"^1.0.0", true},
		{">= 0.5.0", true},
		{"^2.0.0", false},
		{"< 1.0.0", false},
	}
	for _, tt := range tests {
		p := &BuiltinPlugin{Name: "p", Constraint: tt.constraint}
		err := CheckCompatible(p)
		if tt.ok {
			assert.NoError(t, err, "constraint %q", tt.constraint)
			continue
		}
		var ie *IncompatiblePluginError
		assert.ErrorAs(t, err, &ie, "constraint %q", tt.constraint)
	}
}

func TestCheckCompatible_InvalidConstraint(t *testing.T) {
	err := CheckCompatible(&BuiltinPlugin{Name: "p", Constraint: "not a version"})
	var ie *IncompatiblePluginError
	require.ErrorAs(t, err, &ie)
	assert.Error(t, ie.Err)
}

func TestLoad_IncompatibleRegistersNothing(t *testing.T) {
	reg := rule.NewRegistry()
	err := Load(reg, &BuiltinPlugin{Name: "future", Constraint: "^9.0.0", Rules: []rule.Rule{fooBar{}}})
	var ie *IncompatiblePluginError
	require.ErrorAs(t, err, &ie)
	assert.False(t, reg.Has("foo-bar"))
}

func TestCatalog(t *testing.T) {
	Reset()
	t.Cleanup(Reset)

	Register(&BuiltinPlugin{Name: "import"})
	Register(&BuiltinPlugin{Name: "@typescript-eslint"})

	p, ok := Lookup("import")
	require.True(t, ok)
	assert.Equal(t, "import", p.PluginName())
	_, ok = Lookup("react")
	assert.False(t, ok)

	all := All()
	require.Len(t, all, 2)
	assert.Equal(t, "@typescript-eslint", all[1].PluginName())

	assert.Panics(t, func() { Register(&BuiltinPlugin{Name: "import"}) })
}

func TestBuiltinPluginConfigs(t *testing.T) {
	p := &BuiltinPlugin{Name: "import", Configs: map[string][]byte{
		"recommended": []byte("rules: {}\n"),
		"errors":      []byte("rules: {}\n"),
	}}
	doc, ok := p.PluginConfig("recommended")
	require.True(t, ok)
	assert.Equal(t, "rules: {}\n", string(doc))
	assert.Equal(t, []string{"errors", "recommended"}, p.ConfigNames())
}

func TestParseConfigRef(t *testing.T) {
	tests := []struct {
		ref, plugin, config string
		ok                  bool
	}{
		{"plugin:import/recommended", "import", "recommended", true},
		{"plugin:@typescript-eslint/recommended", "@typescript-eslint", "recommended", true},
		{"plugin:@scope/pkg/strict", "@scope/pkg", "strict", true},
		{"plugin:import", "", "", false},
		{"plugin:import/", "", "", false},
		{"airbnb-typescript/base", "", "", false},
	}
	for _, tt := range tests {
		p, c, ok := ParseConfigRef(tt.ref)
		assert.Equal(t, tt.ok, ok, tt.ref)
		assert.Equal(t, tt.plugin, p, tt.ref)
		assert.Equal(t, tt.config, c, tt.ref)
	}
}
