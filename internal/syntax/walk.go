package syntax

// Walk visits every named node below and including root in pre-order,
// left to right. Anonymous tokens are skipped but their named descendants
// are still visited. Returning false from fn stops the walk; Walk reports
// whether it ran to completion.
func Walk(root Node, fn func(Node) bool) bool {
	if root == nil {
		return true
	}
	stack := []Node{root}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if n.Named() && !fn(n) {
			return false
		}

		// Push children in reverse so the leftmost is visited first.
		for i := n.NumChildren() - 1; i >= 0; i-- {
			if c := n.Child(i); c != nil {
				stack = append(stack, c)
			}
		}
	}
	return true
}

// Ancestor returns the nearest ancestor of n whose kind is one of kinds,
// or nil.
func Ancestor(n Node, kinds ...string) Node {
	for p := n.Parent(); p != nil; p = p.Parent() {
		for _, k := range kinds {
			if p.Kind() == k {
				return p
			}
		}
	}
	return nil
}

// Unwrap strips enclosing nodes of the given wrapper kind, such as
// "parenthesized_expression", and returns the first named inner node.
func Unwrap(n Node, wrapper string) Node {
	for n != nil && n.Kind() == wrapper {
		inner := FirstNamed(n)
		if inner == nil {
			return n
		}
		n = inner
	}
	return n
}

// Same reports whether a and b are the same node of one tree.
func Same(a, b Node) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.Kind() == b.Kind() && a.Start() == b.Start() && a.End() == b.End()
}

// FirstNamed returns the first named child of n, or nil.
func FirstNamed(n Node) Node {
	for i := 0; i < n.NumChildren(); i++ {
		if c := n.Child(i); c != nil && c.Named() {
			return c
		}
	}
	return nil
}
