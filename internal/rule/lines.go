package rule

import "github.com/jeduden/lintstack/internal/syntax"

// LineSet records which lines nodes cover. Line rules use it to skip
// comments, strings or template literals seen during the walk.
type LineSet map[int]bool

// Add marks every line n spans.
func (s LineSet) Add(n syntax.Node) {
	for l := n.Start().Line; l <= n.End().Line; l++ {
		s[l] = true
	}
}

// Inner marks the lines strictly after n starts, up to and including
// the line it ends on. A template literal's first line keeps its code.
func (s LineSet) Inner(n syntax.Node) {
	for l := n.Start().Line + 1; l <= n.End().Line; l++ {
		s[l] = true
	}
}
