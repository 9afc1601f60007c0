// Package importplugin bundles module import rules under the "import"
// plugin name.
package importplugin

import (
	_ "embed"

	"github.com/jeduden/lintstack/internal/plugin"
	"github.com/jeduden/lintstack/internal/rule"
)

// Name is the plugin name configuration documents refer to.
const Name = "import"

//go:embed recommended.yml
var recommended []byte

func init() {
	plugin.Register(New())
}

// New returns the plugin.
func New() *plugin.BuiltinPlugin {
	return &plugin.BuiltinPlugin{
		Name:    Name,
		Version: "0.3.0",
		Rules:   []rule.Rule{&Order{}, &NoCycle{}},
		Configs: map[string][]byte{"recommended": recommended},
	}
}
