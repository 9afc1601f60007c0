// Package markdown provides a CommonMark parser adapter backed by goldmark.
// Node kinds are goldmark kind names such as "Heading" or "FencedCodeBlock".
package markdown

import (
	"bytes"
	"sort"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"

	"github.com/jeduden/lintstack/internal/parser"
	"github.com/jeduden/lintstack/internal/syntax"
)

// Name is the parser name used in configuration documents.
const Name = "markdown"

func init() {
	parser.Default.Register(New(), "goldmark")
}

// Adapter parses Markdown. YAML front matter is skipped; positions still
// refer to the original source.
type Adapter struct{}

// New returns the Markdown adapter.
func New() *Adapter { return &Adapter{} }

func (a *Adapter) Name() string   { return Name }
func (a *Adapter) Schema() string { return "" }

// Parse never fails; CommonMark accepts every input.
func (a *Adapter) Parse(src []byte, _ map[string]any) (*syntax.Tree, error) {
	prefix, body := StripFrontMatter(src)
	root := goldmark.DefaultParser().Parse(text.NewReader(body))

	d := &document{src: body, base: len(prefix), starts: lineStarts(src)}
	return syntax.NewTree(d.wrap(root), Name, nil), nil
}

// StripFrontMatter removes YAML front matter delimited by "---\n" from the
// beginning of source. If no front matter is found, prefix is nil and
// content equals source.
func StripFrontMatter(source []byte) (prefix, content []byte) {
	delim := []byte("---\n")
	if !bytes.HasPrefix(source, delim) {
		return nil, source
	}
	rest := source[len(delim):]
	idx := bytes.Index(rest, delim)
	if idx < 0 {
		return nil, source
	}
	end := len(delim) + idx + len(delim)
	return source[:end], source[end:]
}

type document struct {
	src    []byte
	base   int
	starts []int
}

func lineStarts(src []byte) []int {
	starts := []int{0}
	for i, b := range src {
		if b == '\n' {
			starts = append(starts, i+1)
		}
	}
	return starts
}

func (d *document) position(offset int) syntax.Position {
	abs := d.base + offset
	line := sort.Search(len(d.starts), func(i int) bool { return d.starts[i] > abs })
	return syntax.Position{Line: line, Column: abs - d.starts[line-1] + 1}
}

func (d *document) wrap(n ast.Node) syntax.Node {
	if n == nil {
		return nil
	}
	return &node{n: n, d: d}
}

type node struct {
	n ast.Node
	d *document
}

func (w *node) Kind() string             { return w.n.Kind().String() }
func (w *node) Named() bool              { return true }
func (w *node) End() syntax.Position     { return w.d.position(endOffset(w.n)) }
func (w *node) Parent() syntax.Node      { return w.d.wrap(w.n.Parent()) }
func (w *node) NumChildren() int         { return w.n.ChildCount() }
func (w *node) Field(string) syntax.Node { return nil }

func (w *node) Start() syntax.Position {
	if fcb, ok := w.n.(*ast.FencedCodeBlock); ok {
		return syntax.Position{Line: w.d.fenceLine(fcb), Column: 1}
	}
	return w.d.position(startOffset(w.n))
}

func (w *node) Child(i int) syntax.Node {
	c := w.n.FirstChild()
	for ; c != nil && i > 0; i-- {
		c = c.NextSibling()
	}
	return w.d.wrap(c)
}

func (w *node) Text() string {
	var buf bytes.Buffer
	collectText(&buf, w.n, w.d.src)
	return buf.String()
}

func collectText(buf *bytes.Buffer, n ast.Node, src []byte) {
	if t, ok := n.(*ast.Text); ok {
		buf.Write(t.Segment.Value(src))
		return
	}
	if lines := blockLines(n); lines != nil && lines.Len() > 0 && n.FirstChild() == nil {
		for i := 0; i < lines.Len(); i++ {
			seg := lines.At(i)
			buf.Write(seg.Value(src))
		}
		return
	}
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		collectText(buf, c, src)
	}
}

// blockLines returns the line segments of a block node. Inline nodes
// panic on Lines, so they return nil.
func blockLines(n ast.Node) *text.Segments {
	if n.Type() == ast.TypeInline {
		return nil
	}
	return n.Lines()
}

func startOffset(n ast.Node) int {
	if t, ok := n.(*ast.Text); ok {
		return t.Segment.Start
	}
	if lines := blockLines(n); lines != nil && lines.Len() > 0 {
		return lines.At(0).Start
	}
	if fcb, ok := n.(*ast.FencedCodeBlock); ok && fcb.Info != nil {
		return fcb.Info.Segment.Start
	}
	if c := n.FirstChild(); c != nil {
		return startOffset(c)
	}
	return 0
}

func endOffset(n ast.Node) int {
	if t, ok := n.(*ast.Text); ok {
		return t.Segment.Stop
	}
	if lines := blockLines(n); lines != nil && lines.Len() > 0 {
		return lines.At(lines.Len() - 1).Stop
	}
	if c := n.LastChild(); c != nil {
		return endOffset(c)
	}
	return startOffset(n)
}

// fenceLine returns the line of the opening fence of fcb.
func (d *document) fenceLine(fcb *ast.FencedCodeBlock) int {
	if fcb.Info != nil {
		return d.position(fcb.Info.Segment.Start).Line
	}
	if lines := fcb.Lines(); lines.Len() > 0 {
		return d.position(lines.At(0).Start).Line - 1
	}
	// an empty block: scan forward from the previous block, past its
	// closing fence when it is a fenced block too
	from, skip := 0, false
	if prev := fcb.PreviousSibling(); prev != nil {
		from = endOffset(prev)
		_, skip = prev.(*ast.FencedCodeBlock)
	}
	for i := from; i < len(d.src); {
		end := len(d.src)
		if j := bytes.IndexByte(d.src[i:], '\n'); j >= 0 {
			end = i + j
		}
		line := bytes.TrimLeft(d.src[i:end], " ")
		if bytes.HasPrefix(line, []byte("```")) || bytes.HasPrefix(line, []byte("~~~")) {
			if !skip {
				return d.position(i).Line
			}
			skip = false
		}
		i = end + 1
	}
	return d.position(from).Line
}

// HeadingLevel returns the level of a Heading node from this adapter.
func HeadingLevel(n syntax.Node) (int, bool) {
	w, ok := n.(*node)
	if !ok {
		return 0, false
	}
	h, ok := w.n.(*ast.Heading)
	if !ok {
		return 0, false
	}
	return h.Level, true
}

// FenceInfo returns the info string of a FencedCodeBlock node from this
// adapter, such as "go" or "ts title=x.ts".
func FenceInfo(n syntax.Node) (string, bool) {
	w, ok := n.(*node)
	if !ok {
		return "", false
	}
	fcb, ok := w.n.(*ast.FencedCodeBlock)
	if !ok {
		return "", false
	}
	if fcb.Info == nil {
		return "", true
	}
	return string(fcb.Info.Segment.Value(w.d.src)), true
}
