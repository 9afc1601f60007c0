// Package syntax defines the parser-neutral tree that rules walk.
//
// Parser adapters wrap their native trees (tree-sitter, goldmark) in Node
// so the engine and rules never import a concrete parser.
package syntax

// Position is a 1-based line and column in the source.
type Position struct {
	Line   int
	Column int
}

// Node is a single node of a parsed source file.
type Node interface {
	// Kind is the grammar type of the node, e.g. "call_expression" or "Heading".
	Kind() string
	// Named reports whether the node is a named grammar node rather than
	// an anonymous token such as "++" or "(".
	Named() bool
	Start() Position
	End() Position
	// Text returns the source text covered by the node.
	Text() string
	Parent() Node
	NumChildren() int
	Child(i int) Node
	// Field returns the child stored under a grammar field name, or nil.
	Field(name string) Node
}

// Tree is a parsed file. Close must be called to release parser memory.
type Tree struct {
	Root     Node
	Language string

	release func()
}

// NewTree returns a Tree rooted at root. release may be nil.
func NewTree(root Node, language string, release func()) *Tree {
	return &Tree{Root: root, Language: language, release: release}
}

// Close releases resources held by the underlying parser tree.
func (t *Tree) Close() {
	if t == nil || t.release == nil {
		return
	}
	t.release()
	t.release = nil
}
