// Package treesitter provides the TypeScript and JavaScript parser adapters
// backed by tree-sitter grammars.
package treesitter

import (
	"context"
	"fmt"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/javascript"
	"github.com/smacker/go-tree-sitter/typescript/tsx"
	"github.com/smacker/go-tree-sitter/typescript/typescript"

	"github.com/jeduden/lintstack/internal/parser"
	"github.com/jeduden/lintstack/internal/syntax"
)

// Parser names as they appear in configuration documents.
const (
	TypeScriptName = "@typescript-eslint/parser"
	JavaScriptName = "espree"
)

// optionsSchema mirrors the parserOptions ESLint parsers understand. Unknown
// keys are allowed because they are passed through to rules verbatim.
const optionsSchema = `{
	ecmaVersion?: int | "latest"
	sourceType?: "script" | "module" | "commonjs"
	ecmaFeatures?: {
		jsx?: bool
		globalReturn?: bool
		...
	}
	project?: string | [...string] | bool | null
	tsconfigRootDir?: string
	...
}`

func init() {
	parser.Default.Register(NewTypeScript(), "typescript")
	parser.Default.Register(NewJavaScript(), "javascript")
}

// Adapter parses with a tree-sitter grammar.
type Adapter struct {
	name string
	lang func(opts map[string]any) *sitter.Language
}

// NewTypeScript returns the TypeScript adapter. It switches to the TSX
// grammar when parserOptions.ecmaFeatures.jsx is true.
func NewTypeScript() *Adapter {
	return &Adapter{
		name: TypeScriptName,
		lang: func(opts map[string]any) *sitter.Language {
			if jsxEnabled(opts) {
				return tsx.GetLanguage()
			}
			return typescript.GetLanguage()
		},
	}
}

// NewJavaScript returns the JavaScript adapter. The grammar includes JSX.
func NewJavaScript() *Adapter {
	return &Adapter{
		name: JavaScriptName,
		lang: func(map[string]any) *sitter.Language { return javascript.GetLanguage() },
	}
}

func (a *Adapter) Name() string   { return a.name }
func (a *Adapter) Schema() string { return optionsSchema }

// Parse builds a tree for src. A tree containing ERROR or MISSING nodes is
// rejected with a *parser.ParseError at the first such node.
func (a *Adapter) Parse(src []byte, opts map[string]any) (*syntax.Tree, error) {
	p := sitter.NewParser()
	defer p.Close()
	p.SetLanguage(a.lang(opts))

	tree, err := p.ParseCtx(context.Background(), nil, src)
	if err != nil {
		return nil, &parser.ParseError{Parser: a.name, Line: 1, Column: 1, Err: err}
	}

	root := tree.RootNode()
	if bad := firstError(root); bad != nil {
		pos := point(bad.StartPoint())
		perr := &parser.ParseError{
			Parser:  a.name,
			Line:    pos.Line,
			Column:  pos.Column,
			Message: describe(bad, src),
		}
		tree.Close()
		return nil, perr
	}

	return syntax.NewTree(wrap(root, src), a.name, tree.Close), nil
}

func describe(n *sitter.Node, src []byte) string {
	if n.IsMissing() {
		return fmt.Sprintf("missing %q", n.Type())
	}
	text := snippet(n.Content(src), 20)
	if text == "" {
		return "unexpected token"
	}
	return fmt.Sprintf("unexpected token %q", text)
}

// snippet returns the first line of text cut to at most max runes.
func snippet(text string, max int) string {
	if i := strings.IndexByte(text, '\n'); i >= 0 {
		text = text[:i]
	}
	if r := []rune(text); len(r) > max {
		text = string(r[:max])
	}
	return text
}

func jsxEnabled(opts map[string]any) bool {
	switch f := opts["ecmaFeatures"].(type) {
	case map[string]any:
		b, _ := f["jsx"].(bool)
		return b
	case map[any]any:
		b, _ := f["jsx"].(bool)
		return b
	}
	return false
}
