// Package markdownplugin bundles rules for Markdown documents parsed by
// the markdown parser adapter.
package markdownplugin

import (
	_ "embed"

	"github.com/jeduden/lintstack/internal/plugin"
	"github.com/jeduden/lintstack/internal/rule"
)

// Name is the plugin name configuration documents refer to.
const Name = "markdown"

//go:embed recommended.yml
var recommended []byte

func init() {
	plugin.Register(New())
}

// New returns the plugin.
func New() *plugin.BuiltinPlugin {
	return &plugin.BuiltinPlugin{
		Name:    Name,
		Version: "0.2.0",
		Rules:   []rule.Rule{&HeadingIncrement{}, &NoDuplicateHeadings{}, &FencedCodeLanguage{}},
		Configs: map[string][]byte{"recommended": recommended},
	}
}
