package importplugin

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/jeduden/lintstack/internal/parser"
	"github.com/jeduden/lintstack/internal/rule"
	"github.com/jeduden/lintstack/internal/syntax"
)

const noCycleSchema = `[] | [close({
	maxDepth?:                           int & >=1 | "∞"
	ignoreExternal?:                     bool
	allowUnsafeDynamicCyclicDependency?: bool
})]`

// defaultExtensions are tried in order when a relative specifier has no
// file extension and no import/extensions setting is present.
var defaultExtensions = []string{".ts", ".tsx", ".js", ".jsx", ".mjs", ".cjs"}

// parsers maps file extensions to the adapter used to read a dependency's
// imports.
var parsers = map[string]string{
	".ts":  "typescript",
	".tsx": "typescript",
	".js":  "javascript",
	".jsx": "javascript",
	".mjs": "javascript",
	".cjs": "javascript",
}

// NoCycle reports imports that lead back to the importing module through a
// chain of relative imports. Package imports are not followed; type-only
// imports never form a cycle.
type NoCycle struct{}

// ID implements rule.Rule.
func (r *NoCycle) ID() string { return Name + "/no-cycle" }

// Description implements rule.Rule.
func (r *NoCycle) Description() string {
	return "Forbid a module from importing a module with a dependency path back to itself"
}

// Schema implements rule.Rule.
func (r *NoCycle) Schema() string { return noCycleSchema }

// dependency is one followed import of a module.
type dependency struct {
	path      string
	specifier string
	line      int
}

// Create implements rule.Rule.
func (r *NoCycle) Create(ctx *rule.Context) (rule.Visitor, error) {
	// "∞" is not an int and keeps the default.
	maxDepth := rule.GetIntOption(ctx.Options.Object(0), "maxDepth", math.MaxInt)
	g := &graph{
		exts:  extensions(ctx.Settings),
		cache: make(map[string][]dependency),
	}
	self, err := filepath.Abs(ctx.File.Path)
	if err != nil {
		return nil, fmt.Errorf("resolving %s: %w", ctx.File.Path, err)
	}

	return rule.Visit(func(n syntax.Node) error {
		if p := n.Parent(); p == nil || p.Kind() != "program" || isTypeImport(n) {
			return nil
		}
		src := n.Field("source")
		if src == nil {
			return nil
		}
		target, ok := g.resolve(filepath.Dir(self), strings.Trim(src.Text(), `'"`))
		if !ok {
			return nil
		}
		route, found := g.cycle(self, target, maxDepth)
		if !found {
			return nil
		}
		if len(route) == 0 {
			ctx.Report(n, "Dependency cycle detected.")
			return nil
		}
		steps := make([]string, len(route))
		for i, d := range route {
			steps[i] = fmt.Sprintf("%s:%d", d.specifier, d.line)
		}
		ctx.Reportf(n, "Dependency cycle via %s", strings.Join(steps, "=>"))
		return nil
	}, "import_statement", "export_statement"), nil
}

// graph reads and caches the relative imports of modules on disk.
type graph struct {
	exts  []string
	cache map[string][]dependency
}

// cycle searches breadth first from start for an import of self. The
// returned route lists the imports followed after start.
func (g *graph) cycle(self, start string, maxDepth int) ([]dependency, bool) {
	type entry struct {
		path  string
		route []dependency
	}
	seen := map[string]bool{start: true}
	queue := []entry{{path: start}}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, dep := range g.imports(cur.path) {
			if dep.path == self {
				return cur.route, true
			}
			if seen[dep.path] || len(cur.route)+1 >= maxDepth {
				continue
			}
			seen[dep.path] = true
			route := append(append([]dependency(nil), cur.route...), dep)
			queue = append(queue, entry{path: dep.path, route: route})
		}
	}
	return nil, false
}

// imports returns the resolved relative imports of the module at path.
// Unreadable or unparsable modules have none.
func (g *graph) imports(path string) []dependency {
	if deps, ok := g.cache[path]; ok {
		return deps
	}
	g.cache[path] = nil

	adapter, ok := parser.Default.Lookup(parsers[strings.ToLower(filepath.Ext(path))])
	if !ok {
		return nil
	}
	src, err := os.ReadFile(path)
	if err != nil {
		return nil
	}
	tree, err := adapter.Parse(src, nil)
	if err != nil {
		return nil
	}
	defer tree.Close()

	var deps []dependency
	root := tree.Root
	for i := 0; i < root.NumChildren(); i++ {
		n := root.Child(i)
		if n == nil || (n.Kind() != "import_statement" && n.Kind() != "export_statement") || isTypeImport(n) {
			continue
		}
		s := n.Field("source")
		if s == nil {
			continue
		}
		spec := strings.Trim(s.Text(), `'"`)
		if target, ok := g.resolve(filepath.Dir(path), spec); ok {
			deps = append(deps, dependency{path: target, specifier: spec, line: n.Start().Line})
		}
	}
	g.cache[path] = deps
	return deps
}

// resolve maps a relative specifier to an existing file. Package
// specifiers are not resolved.
func (g *graph) resolve(dir, spec string) (string, bool) {
	if !strings.HasPrefix(spec, "./") && !strings.HasPrefix(spec, "../") && spec != "." && spec != ".." {
		return "", false
	}
	base := filepath.Join(dir, filepath.FromSlash(spec))
	candidates := []string{base}
	for _, ext := range g.exts {
		candidates = append(candidates, base+ext)
	}
	for _, ext := range g.exts {
		candidates = append(candidates, filepath.Join(base, "index"+ext))
	}
	for _, c := range candidates {
		if info, err := os.Stat(c); err == nil && !info.IsDir() {
			return c, true
		}
	}
	return "", false
}

// extensions reads the import/extensions setting, falling back to the
// node resolver's extensions and then to defaultExtensions.
func extensions(settings map[string]any) []string {
	if exts := rule.GetStringSliceOption(settings, "import/extensions", nil); len(exts) > 0 {
		return exts
	}
	if resolver, ok := settings["import/resolver"].(map[string]any); ok {
		if node, ok := resolver["node"].(map[string]any); ok {
			if exts := rule.GetStringSliceOption(node, "extensions", nil); len(exts) > 0 {
				return exts
			}
		}
	}
	return defaultExtensions
}
