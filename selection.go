package pathway

// OutlineSelection is the set of nodes drawn with a highlight outline. Every
// mutation replaces the whole set at once, so a reader never observes a
// partly updated selection.
type OutlineSelection struct {
	nodes []*Node
}

// Set replaces the selection with nodes. Nil entries are dropped.
func (s *OutlineSelection) Set(nodes ...*Node) {
	next := make([]*Node, 0, len(nodes))
	for _, n := range nodes {
		if n != nil {
			next = append(next, n)
		}
	}
	s.nodes = next
}

// Clear empties the selection.
func (s *OutlineSelection) Clear() {
	s.nodes = nil
}

// Nodes returns the selected nodes. The returned slice MUST NOT be mutated by the caller.
func (s *OutlineSelection) Nodes() []*Node {
	return s.nodes
}

// Len returns the number of selected nodes.
func (s *OutlineSelection) Len() int {
	return len(s.nodes)
}

// Contains reports whether n is selected.
func (s *OutlineSelection) Contains(n *Node) bool {
	for _, sel := range s.nodes {
		if sel == n {
			return true
		}
	}
	return false
}
