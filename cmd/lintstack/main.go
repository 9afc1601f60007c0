package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"runtime/debug"

	"github.com/hashicorp/go-hclog"
	"github.com/jedib0t/go-pretty/v6/table"
	flag "github.com/spf13/pflag"

	"github.com/jeduden/lintstack/internal/config"
	"github.com/jeduden/lintstack/internal/engine"
	"github.com/jeduden/lintstack/internal/lint"
	logpkg "github.com/jeduden/lintstack/internal/log"
	"github.com/jeduden/lintstack/internal/output"
	"github.com/jeduden/lintstack/internal/plugin"
	"github.com/jeduden/lintstack/internal/rule"

	// Parsers, rules, plugins and presets register themselves in init().
	_ "github.com/jeduden/lintstack/internal/parser/markdown"
	_ "github.com/jeduden/lintstack/internal/parser/treesitter"
	_ "github.com/jeduden/lintstack/internal/plugins/importplugin"
	_ "github.com/jeduden/lintstack/internal/plugins/markdownplugin"
	_ "github.com/jeduden/lintstack/internal/plugins/tseslint"
	_ "github.com/jeduden/lintstack/internal/presets"
	_ "github.com/jeduden/lintstack/internal/rules/eollast"
	_ "github.com/jeduden/lintstack/internal/rules/linesbetweenclassmembers"
	_ "github.com/jeduden/lintstack/internal/rules/maxlen"
	_ "github.com/jeduden/lintstack/internal/rules/multilinecommentstyle"
	_ "github.com/jeduden/lintstack/internal/rules/noalert"
	_ "github.com/jeduden/lintstack/internal/rules/noconsole"
	_ "github.com/jeduden/lintstack/internal/rules/noconstantcondition"
	_ "github.com/jeduden/lintstack/internal/rules/nocontinue"
	_ "github.com/jeduden/lintstack/internal/rules/nomixedoperators"
	_ "github.com/jeduden/lintstack/internal/rules/nomultipleemptylines"
	_ "github.com/jeduden/lintstack/internal/rules/noparamreassign"
	_ "github.com/jeduden/lintstack/internal/rules/noplusplus"
	_ "github.com/jeduden/lintstack/internal/rules/norestrictedsyntax"
	_ "github.com/jeduden/lintstack/internal/rules/notabs"
	_ "github.com/jeduden/lintstack/internal/rules/notrailingspaces"
	_ "github.com/jeduden/lintstack/internal/rules/nounderscoredangle"
	_ "github.com/jeduden/lintstack/internal/rules/preferdestructuring"
	_ "github.com/jeduden/lintstack/internal/rules/quoteprops"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

const usageText = `Usage: lintstack <command> [flags] [files...]

Commands:
  check          Lint files (default when given file arguments)
  print-config   Print the resolved configuration for a file
  rules          List the available rules
  init           Generate a starter .lintstackrc.yml
  version        Print version and exit

Global flags:
  -h, --help      Show this help

Run 'lintstack <command> --help' for more information on a command.
`

func run(args []string, stdout, stderr io.Writer) int {
	if len(args) == 0 {
		if isStdinPipe() {
			return runCheck(nil, stdout, stderr)
		}
		fmt.Fprint(stderr, usageText)
		return 0
	}

	switch args[0] {
	case "--help", "-h", "help":
		fmt.Fprint(stderr, usageText)
		return 0
	case "check":
		return runCheck(args[1:], stdout, stderr)
	case "print-config":
		return runPrintConfig(args[1:], stdout, stderr)
	case "rules":
		return runRules(args[1:], stdout, stderr)
	case "init":
		return runInit(args[1:], stderr)
	case "version":
		printVersion(stdout)
		return 0
	}
	return runCheck(args, stdout, stderr)
}

func printVersion(w io.Writer) {
	version := "(devel)"
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" {
		version = info.Main.Version
	}
	fmt.Fprintf(w, "lintstack %s\n", version)
}

// session holds what one lint pass needs. Watch mode builds a fresh one
// per pass so edited configuration files are read again.
type session struct {
	rules    *rule.Registry
	store    *config.Store
	resolver *config.Resolver
	entry    *config.Source
}

func newSession(configPath string, logger hclog.Logger) (*session, error) {
	reg, err := rule.NewCoreRegistry()
	if err != nil {
		return nil, err
	}
	store := config.NewStore()
	s := &session{
		rules:    reg,
		store:    store,
		resolver: config.NewResolver(store, reg, config.WithLogger(logger)),
	}
	if configPath != "" {
		if s.entry, err = store.LoadFile(configPath); err != nil {
			return nil, err
		}
	}
	return s, nil
}

func (s *session) runner(o *checkOptions, logger hclog.Logger) *engine.Runner {
	return &engine.Runner{
		Engine:   engine.New(s.rules, engine.WithLogger(logger)),
		Resolver: s.resolver,
		Store:    s.store,
		Rules:    s.rules,
		Entry:    s.entry,
		Workers:  o.Workers,
		Logger:   logger,
	}
}

// runCheck implements the "check" subcommand: lint files.
func runCheck(args []string, stdout, stderr io.Writer) int {
	fs := checkFlags()
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprintf(stderr, "Usage: lintstack check [flags] [files...]\n\n"+
			"Lint the given files. With no file arguments, reads from stdin if piped.\n\n"+
			"Flags:\n")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}

	o, err := loadCheckOptions(fs)
	if err != nil {
		fmt.Fprintf(stderr, "lintstack: %v\n", err)
		return 2
	}
	formatter, err := output.New(o.Format, !o.NoColor)
	if err != nil {
		fmt.Fprintf(stderr, "lintstack: %v\n", err)
		return 2
	}
	logger := logpkg.New(stderr, o.Verbose)

	files := fs.Args()
	var inputs map[string][]byte
	if len(files) == 0 {
		if !isStdinPipe() {
			return 0
		}
		if o.Watch {
			fmt.Fprintln(stderr, "lintstack: cannot watch stdin")
			return 2
		}
		src, err := io.ReadAll(os.Stdin)
		if err != nil {
			fmt.Fprintf(stderr, "lintstack: reading stdin: %v\n", err)
			return 2
		}
		files = []string{o.StdinFilename}
		inputs = map[string][]byte{o.StdinFilename: src}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	pass := func(ctx context.Context) int {
		s, err := newSession(o.Config, logger)
		if err != nil {
			fmt.Fprintf(stderr, "lintstack: %v\n", err)
			return 2
		}
		r := s.runner(o, logger)
		r.Inputs = inputs
		return report(ctx, r, files, o, formatter, stdout, stderr)
	}

	if o.Watch {
		return watch(ctx, files, o.Config, logger, pass)
	}
	return pass(ctx)
}

// report runs one pass and writes its diagnostics.
func report(ctx context.Context, r *engine.Runner, files []string, o *checkOptions,
	formatter output.Formatter, stdout, stderr io.Writer) int {
	res, err := r.Run(ctx, files)
	if res == nil {
		fmt.Fprintf(stderr, "lintstack: %v\n", err)
		return 2
	}
	for _, e := range res.Errors {
		fmt.Fprintf(stderr, "lintstack: %v\n", e)
	}

	if o.Quiet {
		res.Diagnostics = output.ErrorsOnly(res.Diagnostics)
	}
	if len(res.Diagnostics) > 0 {
		if err := formatter.Format(stdout, res.Diagnostics); err != nil {
			fmt.Fprintf(stderr, "lintstack: writing output: %v\n", err)
			return 2
		}
	}

	if err != nil {
		fmt.Fprintf(stderr, "lintstack: %v\n", err)
		return 2
	}
	code := res.ExitCode(o.MaxWarnings)
	if _, warnings := lint.Count(res.Diagnostics); code == 1 && o.MaxWarnings >= 0 && warnings > o.MaxWarnings {
		fmt.Fprintf(stderr, "lintstack: too many warnings (%d). Maximum allowed is %d.\n", warnings, o.MaxWarnings)
	}
	return code
}

// runPrintConfig implements the "print-config" subcommand.
func runPrintConfig(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("print-config", flag.ContinueOnError)
	fs.SetOutput(stderr)
	configPath := fs.StringP("config", "c", "", "Use this configuration instead of discovering one")
	verbose := fs.BoolP("verbose", "v", false, "Log each configuration layer applied")
	fs.Usage = func() {
		fmt.Fprintf(stderr, "Usage: lintstack print-config [flags] <file>\n\n"+
			"Print the configuration that applies to file, as YAML.\n\n"+
			"Flags:\n")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}
	if fs.NArg() != 1 {
		fs.Usage()
		return 2
	}
	file, err := filepath.Abs(fs.Arg(0))
	if err != nil {
		fmt.Fprintf(stderr, "lintstack: %v\n", err)
		return 2
	}

	s, err := newSession(*configPath, logpkg.New(stderr, *verbose))
	if err == nil && s.entry == nil {
		s.entry, err = s.store.Discover(filepath.Dir(file))
	}
	if err != nil {
		fmt.Fprintf(stderr, "lintstack: %v\n", err)
		return 2
	}
	cfg, err := s.resolver.ResolveFile(s.entry, file)
	if err != nil {
		fmt.Fprintf(stderr, "lintstack: %v\n", err)
		return 2
	}
	data, err := cfg.Dump()
	if err != nil {
		fmt.Fprintf(stderr, "lintstack: %v\n", err)
		return 2
	}
	_, _ = stdout.Write(data)
	return 0
}

// runRules implements the "rules" subcommand: a table of every rule the
// binary knows, core and bundled plugins alike.
func runRules(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("rules", flag.ContinueOnError)
	fs.SetOutput(stderr)
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}

	reg, err := rule.NewCoreRegistry()
	if err != nil {
		fmt.Fprintf(stderr, "lintstack: %v\n", err)
		return 2
	}
	for _, p := range plugin.All() {
		if err := plugin.Load(reg, p); err != nil {
			fmt.Fprintf(stderr, "lintstack: %v\n", err)
			return 2
		}
	}

	t := table.NewWriter()
	t.SetOutputMirror(stdout)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Rule", "Source", "Description"})
	for _, r := range reg.All() {
		source, _ := reg.Source(r.ID())
		t.AppendRow(table.Row{r.ID(), source, r.Description()})
	}
	t.Render()
	return 0
}

const configFile = ".lintstackrc.yml"

const starterConfig = `extends:
  - lintstack:recommended
parser: "@typescript-eslint/parser"
env:
  browser: true
rules:
  max-len: [warn, 100]
`

// runInit implements the "init" subcommand: generate .lintstackrc.yml.
func runInit(args []string, stderr io.Writer) int {
	fs := flag.NewFlagSet("init", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprintf(stderr, "Usage: lintstack init\n\n"+
			"Generate a starter %s in the current directory.\n", configFile)
	}
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}
	if fs.NArg() > 0 {
		fmt.Fprintln(stderr, "lintstack: init takes no arguments")
		return 2
	}

	if _, err := os.Stat(configFile); err == nil {
		fmt.Fprintf(stderr, "lintstack: %s already exists\n", configFile)
		return 2
	}
	if err := os.WriteFile(configFile, []byte(starterConfig), 0o644); err != nil {
		fmt.Fprintf(stderr, "lintstack: writing %s: %v\n", configFile, err)
		return 2
	}
	fmt.Fprintf(stderr, "lintstack: created %s\n", configFile)
	return 0
}

// isStdinPipe returns true if stdin is a pipe (not a terminal).
func isStdinPipe() bool {
	stat, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	return (stat.Mode() & os.ModeCharDevice) == 0
}
