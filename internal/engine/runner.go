package engine

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sort"

	"github.com/hashicorp/go-hclog"
	"golang.org/x/sync/errgroup"

	"github.com/jeduden/lintstack/internal/config"
	"github.com/jeduden/lintstack/internal/lint"
	"github.com/jeduden/lintstack/internal/rule"
)

// Runner drives a batch: it resolves the configuration of every file,
// seals the rule registry, then lints the files in parallel.
type Runner struct {
	Engine   *Engine
	Resolver *config.Resolver
	Store    *config.Store
	Rules    *rule.Registry
	// Entry is the configuration every file uses. When nil, each file
	// discovers its own from its directory upwards.
	Entry *config.Source
	// Inputs supplies contents for paths that are not read from disk,
	// such as standard input.
	Inputs  map[string][]byte
	Workers int
	Logger  hclog.Logger
}

// Result holds the output of a lint run.
type Result struct {
	Diagnostics []lint.Diagnostic
	Errors      []error
	// Linted and Skipped count the files linted and the files matched by
	// an ignore pattern.
	Linted  int
	Skipped int
}

type job struct {
	path string
	cfg  *config.EffectiveConfig
}

// Run lints paths. Configuration errors abort the run before any file is
// linted. Read errors are collected per file in Result.Errors. When ctx
// is cancelled, files already started finish and Run returns the partial
// result together with ctx.Err().
func (r *Runner) Run(ctx context.Context, paths []string) (*Result, error) {
	logger := r.Logger
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	res := &Result{}

	var jobs []job
	for _, path := range paths {
		cfg, err := r.resolve(path)
		if err != nil {
			return nil, err
		}
		if cfg.Ignored(absPath(path)) {
			logger.Debug("skipping ignored file", "path", path)
			res.Skipped++
			continue
		}
		jobs = append(jobs, job{path: path, cfg: cfg})
	}

	if r.Rules != nil {
		r.Rules.Seal()
	}

	workers := r.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	diags := make([][]lint.Diagnostic, len(jobs))
	errs := make([]error, len(jobs))
	linted := make([]bool, len(jobs))

	var g errgroup.Group
	g.SetLimit(workers)
	for i, j := range jobs {
		if ctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if ctx.Err() != nil {
				return nil
			}
			src, err := r.read(j.path)
			if err != nil {
				errs[i] = fmt.Errorf("reading %q: %w", j.path, err)
				return nil
			}
			diags[i] = r.Engine.LintAll(j.path, src, j.cfg)
			linted[i] = true
			logger.Debug("linted file", "path", j.path, "diagnostics", len(diags[i]))
			return nil
		})
	}
	_ = g.Wait()

	for i := range jobs {
		res.Diagnostics = append(res.Diagnostics, diags[i]...)
		if errs[i] != nil {
			res.Errors = append(res.Errors, errs[i])
		}
		if linted[i] {
			res.Linted++
		}
	}

	sort.SliceStable(res.Diagnostics, func(i, j int) bool {
		di, dj := res.Diagnostics[i], res.Diagnostics[j]
		if di.File != dj.File {
			return di.File < dj.File
		}
		if di.Line != dj.Line {
			return di.Line < dj.Line
		}
		return di.Column < dj.Column
	})

	return res, ctx.Err()
}

func (r *Runner) resolve(path string) (*config.EffectiveConfig, error) {
	entry := r.Entry
	if entry == nil {
		var err error
		entry, err = r.Store.Discover(filepath.Dir(absPath(path)))
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
	}
	cfg, err := r.Resolver.ResolveFile(entry, absPath(path))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

func (r *Runner) read(path string) ([]byte, error) {
	if src, ok := r.Inputs[path]; ok {
		return src, nil
	}
	return os.ReadFile(path)
}

func absPath(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		return abs
	}
	return filepath.Clean(path)
}

// ExitCode maps the result to a process exit status: 2 when a file could
// not be read, 1 when an error was reported or warnings exceed
// maxWarnings (ignored when negative), else 0.
func (res *Result) ExitCode(maxWarnings int) int {
	if len(res.Errors) > 0 {
		return 2
	}
	errors, warnings := lint.Count(res.Diagnostics)
	if errors > 0 {
		return 1
	}
	if maxWarnings >= 0 && warnings > maxWarnings {
		return 1
	}
	return 0
}
