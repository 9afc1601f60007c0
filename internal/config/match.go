package config

import (
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/gobwas/glob"
)

// matcher is a compiled file pattern. Patterns without a slash match the
// base name; a leading "**/" also matches at the top level.
type matcher struct {
	raw   string
	base  bool
	globs []glob.Glob
}

func compilePattern(pattern string) (*matcher, error) {
	p := strings.TrimPrefix(pattern, "./")
	p = strings.TrimSuffix(p, "/")
	if p == "" {
		return nil, fmt.Errorf("invalid pattern %q", pattern)
	}
	m := &matcher{raw: pattern, base: !strings.Contains(p, "/")}

	candidates := []string{p}
	if rest, ok := strings.CutPrefix(p, "**/"); ok {
		candidates = append(candidates, rest)
	}
	for _, c := range candidates {
		g, err := glob.Compile(c, '/')
		if err != nil {
			return nil, fmt.Errorf("invalid pattern %q: %w", pattern, err)
		}
		m.globs = append(m.globs, g)
	}
	return m, nil
}

func (m *matcher) match(rel string) bool {
	target := rel
	if m.base {
		target = path.Base(rel)
	}
	for _, g := range m.globs {
		if g.Match(target) {
			return true
		}
	}
	return false
}

// matchAny reports whether any matcher selects rel. With ancestors set, a
// pattern that selects a parent directory of rel also selects rel.
func matchAny(ms []*matcher, rel string, ancestors bool) bool {
	if rel == "" {
		return false
	}
	for _, m := range ms {
		if m.match(rel) {
			return true
		}
		if !ancestors {
			continue
		}
		for dir := path.Dir(rel); dir != "." && dir != "/"; dir = path.Dir(dir) {
			if m.match(dir) {
				return true
			}
		}
	}
	return false
}

// relativeTo returns file as a slash path relative to dir, or "" when file
// lies outside dir. An empty dir means the working directory.
func relativeTo(dir, file string) string {
	if dir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return filepath.ToSlash(file)
		}
		dir = wd
	}
	abs, err := filepath.Abs(file)
	if err != nil {
		return ""
	}
	rel, err := filepath.Rel(dir, abs)
	if err != nil {
		return ""
	}
	rel = filepath.ToSlash(rel)
	if rel == ".." || strings.HasPrefix(rel, "../") {
		return ""
	}
	return rel
}
