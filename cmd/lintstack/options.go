package main

import (
	"fmt"
	"strings"

	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	flag "github.com/spf13/pflag"

	"github.com/jeduden/lintstack/internal/output"
)

// envPrefix selects the environment variables that set check options,
// e.g. LINTSTACK_MAX_WARNINGS=0.
const envPrefix = "LINTSTACK_"

type checkOptions struct {
	Config        string `koanf:"config"`
	Format        string `koanf:"format"`
	NoColor       bool   `koanf:"no_color"`
	Quiet         bool   `koanf:"quiet"`
	MaxWarnings   int    `koanf:"max_warnings"`
	Workers       int    `koanf:"workers"`
	StdinFilename string `koanf:"stdin_filename"`
	Watch         bool   `koanf:"watch"`
	Verbose       bool   `koanf:"verbose"`
}

var checkDefaults = map[string]any{
	"format":         "text",
	"max_warnings":   -1,
	"workers":        0,
	"stdin_filename": "<stdin>",
}

func checkFlags() *flag.FlagSet {
	fs := flag.NewFlagSet("check", flag.ContinueOnError)
	fs.StringP("config", "c", "", "Use this configuration instead of discovering one")
	fs.StringP("format", "f", "text", "Output format: "+strings.Join(output.Formats, ", "))
	fs.Bool("no-color", false, "Disable ANSI colors")
	fs.BoolP("quiet", "q", false, "Report errors only")
	fs.Int("max-warnings", -1, "Number of warnings that makes the run fail (-1 disables)")
	fs.IntP("workers", "j", 0, "Files linted in parallel (0 uses every CPU)")
	fs.String("stdin-filename", "<stdin>", "Path used for standard input")
	fs.BoolP("watch", "w", false, "Lint again whenever a file changes")
	fs.BoolP("verbose", "v", false, "Log configuration and progress to stderr")
	return fs
}

// loadCheckOptions layers defaults, LINTSTACK_* variables and the flags
// set on fs, in increasing priority.
func loadCheckOptions(fs *flag.FlagSet) (*checkOptions, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(checkDefaults, "."), nil); err != nil {
		return nil, fmt.Errorf("loading defaults: %w", err)
	}

	if err := k.Load(env.Provider(envPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, envPrefix))
	}), nil); err != nil {
		return nil, fmt.Errorf("loading environment: %w", err)
	}

	if err := k.Load(posflag.ProviderWithFlag(fs, ".", k, func(f *flag.Flag) (string, any) {
		if !f.Changed {
			return "", nil
		}
		return strings.ReplaceAll(f.Name, "-", "_"), posflag.FlagVal(fs, f)
	}), nil); err != nil {
		return nil, fmt.Errorf("loading flags: %w", err)
	}

	var o checkOptions
	if err := k.Unmarshal("", &o); err != nil {
		return nil, fmt.Errorf("decoding options: %w", err)
	}
	return &o, nil
}
