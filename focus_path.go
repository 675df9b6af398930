package focus

// Path is a snapshot of the focus chain from the root scope down to the
// primary focus.
//
// Example path for a text field inside a dialog scope:
//
//	[0] ScopeNode(Root Focus Scope)
//	[1] ScopeNode(dialog)
//	[2] Node(name field)
type Path struct {
	nodes   []*Node
	version uint64 // Manager version the snapshot was taken at
}

// FocusPath returns the current focus chain. The path is empty when
// nothing is focused.
func (m *Manager) FocusPath() Path {
	p := Path{version: m.version}
	if m.primaryFocus == nil {
		return p
	}
	ancestors := m.primaryFocus.Ancestors()
	p.nodes = make([]*Node, 0, len(ancestors)+1)
	for i := len(ancestors) - 1; i >= 0; i-- {
		p.nodes = append(p.nodes, ancestors[i])
	}
	p.nodes = append(p.nodes, m.primaryFocus)
	return p
}

// Depth returns the number of nodes in the path.
func (p Path) Depth() int {
	return len(p.nodes)
}

// At returns the node at the given depth, or nil if out of range.
func (p Path) At(depth int) *Node {
	if depth < 0 || depth >= len(p.nodes) {
		return nil
	}
	return p.nodes[depth]
}

// Leaf returns the primary focus, or nil.
func (p Path) Leaf() *Node {
	if len(p.nodes) == 0 {
		return nil
	}
	return p.nodes[len(p.nodes)-1]
}

// Root returns the topmost node, or nil.
func (p Path) Root() *Node {
	if len(p.nodes) == 0 {
		return nil
	}
	return p.nodes[0]
}

// Contains returns true if n is anywhere in the path.
func (p Path) Contains(n *Node) bool {
	return p.IndexOf(n) >= 0
}

// IndexOf returns the depth of n in the path, or -1 if not found.
func (p Path) IndexOf(n *Node) int {
	for i, node := range p.nodes {
		if node == n {
			return i
		}
	}
	return -1
}

// Version returns the manager version the path was taken at. Comparing it
// with Manager.Version tells whether the snapshot is stale.
func (p Path) Version() uint64 {
	return p.version
}

// Nodes returns a copy of the path, root first.
func (p Path) Nodes() []*Node {
	out := make([]*Node, len(p.nodes))
	copy(out, p.nodes)
	return out
}
