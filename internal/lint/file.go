package lint

import (
	"bytes"

	"github.com/jeduden/lintstack/internal/syntax"
)

// File holds a parsed source file.
type File struct {
	Path   string
	Source []byte
	Lines  [][]byte
	Tree   *syntax.Tree
}

// NewFile returns a File for source and its parsed tree. tree may be nil
// for rules that only inspect lines.
func NewFile(path string, source []byte, tree *syntax.Tree) *File {
	return &File{
		Path:   path,
		Source: source,
		Lines:  bytes.Split(source, []byte("\n")),
		Tree:   tree,
	}
}

// LineCount returns the number of lines, not counting the empty remainder
// after a final newline.
func (f *File) LineCount() int {
	n := len(f.Lines)
	if n > 0 && len(f.Lines[n-1]) == 0 {
		n--
	}
	return n
}

// Line returns line n (1-based) without its line terminator, or nil when
// n is out of range.
func (f *File) Line(n int) []byte {
	if n < 1 || n > len(f.Lines) {
		return nil
	}
	return bytes.TrimSuffix(f.Lines[n-1], []byte("\r"))
}
