package treesitter

import (
	sitter "github.com/smacker/go-tree-sitter"

	"github.com/jeduden/lintstack/internal/syntax"
)

// node adapts a tree-sitter node. Columns are byte offsets, made 1-based.
type node struct {
	n   *sitter.Node
	src []byte
}

func wrap(n *sitter.Node, src []byte) syntax.Node {
	if n == nil || n.IsNull() {
		return nil
	}
	return &node{n: n, src: src}
}

func (w *node) Kind() string                  { return w.n.Type() }
func (w *node) Named() bool                   { return w.n.IsNamed() }
func (w *node) Start() syntax.Position        { return point(w.n.StartPoint()) }
func (w *node) End() syntax.Position          { return point(w.n.EndPoint()) }
func (w *node) Text() string                  { return w.n.Content(w.src) }
func (w *node) Parent() syntax.Node           { return wrap(w.n.Parent(), w.src) }
func (w *node) NumChildren() int              { return int(w.n.ChildCount()) }
func (w *node) Child(i int) syntax.Node       { return wrap(w.n.Child(i), w.src) }
func (w *node) Field(name string) syntax.Node { return wrap(w.n.ChildByFieldName(name), w.src) }

func point(p sitter.Point) syntax.Position {
	return syntax.Position{Line: int(p.Row) + 1, Column: int(p.Column) + 1}
}

// firstError returns the first ERROR or MISSING node in pre-order.
func firstError(n *sitter.Node) *sitter.Node {
	if n == nil || n.IsNull() {
		return nil
	}
	if n.IsError() || n.IsMissing() {
		return n
	}
	if !n.HasError() {
		return nil
	}
	for i := 0; i < int(n.ChildCount()); i++ {
		if e := firstError(n.Child(i)); e != nil {
			return e
		}
	}
	return nil
}
