// Package tseslint bundles TypeScript-specific rules under the
// "@typescript-eslint" plugin name.
package tseslint

import (
	_ "embed"

	"github.com/jeduden/lintstack/internal/plugin"
	"github.com/jeduden/lintstack/internal/rule"
)

// Name is the plugin name configuration documents refer to.
const Name = "@typescript-eslint"

//go:embed recommended.yml
var recommended []byte

func init() {
	plugin.Register(New())
}

// New returns the plugin.
func New() *plugin.BuiltinPlugin {
	return &plugin.BuiltinPlugin{
		Name:    Name,
		Version: "0.4.0",
		Rules:   []rule.Rule{&NoExplicitAny{}, &NoNonNullAssertion{}, &NoUseBeforeDefine{}},
		Configs: map[string][]byte{"recommended": recommended},
	}
}
