// Package presets registers the shareable configurations bundled with
// the binary.
package presets

import (
	_ "embed"

	"github.com/jeduden/lintstack/internal/config"
)

// Preset names, as written in extends.
const (
	AirbnbTypeScriptBase = "airbnb-typescript/base"
	Recommended          = "lintstack:recommended"
)

var (
	//go:embed airbnb-typescript-base.yml
	airbnbTypeScriptBase []byte

	//go:embed recommended.yml
	recommended []byte
)

func init() {
	config.RegisterPreset(AirbnbTypeScriptBase, airbnbTypeScriptBase)
	config.RegisterPreset(Recommended, recommended)
}
