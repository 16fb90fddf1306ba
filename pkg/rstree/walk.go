package rstree

// Visitor receives paired enter/leave events during a depth-first walk.
// Enter is called pre-order, Leave post-order. A non-nil error from either
// stops the walk immediately.
type Visitor interface {
	Enter(n *Node) error
	Leave(n *Node) error
}

// Walk performs a depth-first traversal of the tree rooted at root,
// dispatching paired enter/leave events for every node in document order.
func Walk(root *Node, v Visitor) error {
	if root == nil {
		return nil
	}
	if err := v.Enter(root); err != nil {
		return err
	}
	for _, child := range root.Children {
		if err := Walk(child, v); err != nil {
			return err
		}
	}
	return v.Leave(root)
}

// FindAll returns all descendants of root (including root itself) for which
// match returns true, in document order.
func FindAll(root *Node, match func(*Node) bool) []*Node {
	var found []*Node
	var visit func(*Node)
	visit = func(n *Node) {
		if match(n) {
			found = append(found, n)
		}
		for _, c := range n.Children {
			visit(c)
		}
	}
	if root != nil {
		visit(root)
	}
	return found
}
