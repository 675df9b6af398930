package focus

// ScopeNode is a Node that groups its descendants for traversal and
// remembers which of them was focused most recently, so focus can return
// to it when the scope is focused again.
type ScopeNode struct {
	Node

	// History of focused children, most recent last.
	focusedChildren []*Node
}

// NewScopeNode creates a detached scope.
func NewScopeNode(opts ...NodeOption) *ScopeNode {
	s := &ScopeNode{}
	s.Node.scope = s
	s.Node.init(opts)
	return s
}

// FocusedChild returns the most recently focused child, or nil.
func (s *ScopeNode) FocusedChild() *Node {
	if len(s.focusedChildren) == 0 {
		return nil
	}
	return s.focusedChildren[len(s.focusedChildren)-1]
}

// FocusedChildren returns a copy of the focus history, most recent last.
func (s *ScopeNode) FocusedChildren() []*Node {
	out := make([]*Node, len(s.focusedChildren))
	copy(out, s.focusedChildren)
	return out
}

// Autofocus parents node under the scope if it has no parent, then queues
// a request that focuses it at the next resolution pass, provided the scope
// still has no focused child by then.
func (s *ScopeNode) Autofocus(node *Node) error {
	if node.parent == nil && !node.isRoot() {
		if err := s.reparentChild(node); err != nil {
			return err
		}
	}
	if s.manager == nil {
		return nil
	}
	s.manager.pendingAutofocuses = append(s.manager.pendingAutofocuses, autofocusRequest{scope: s, node: node})
	s.manager.markNeedsUpdate()
	return nil
}

// doRequestFocus focuses the remembered child, drilling through nested
// scopes, or the scope itself when there is nothing to remember or
// findFirstFocus is false.
func (s *ScopeNode) doRequestFocus(findFirstFocus bool) {
	// History entries may have become unfocusable since they were recorded.
	for len(s.focusedChildren) > 0 && !s.FocusedChild().CanRequestFocus() {
		s.focusedChildren = s.focusedChildren[:len(s.focusedChildren)-1]
	}
	child := s.FocusedChild()
	if !findFirstFocus || child == nil {
		if !s.CanRequestFocus() {
			return
		}
		if s.parent == nil && !s.isRoot() {
			s.requestFocusWhenReparented = true
			return
		}
		s.setAsFocusedChildForScope()
		s.markNextFocus()
		return
	}
	child.doRequestFocus(true)
}

// removeSubtreeFromHistory drops n and every descendant whose enclosing
// scope is s.
func (s *ScopeNode) removeSubtreeFromHistory(n *Node) {
	s.removeFromHistory(n)
	for _, d := range n.Descendants() {
		if d.EnclosingScope() == s {
			s.removeFromHistory(d)
		}
	}
}

func (s *ScopeNode) removeFromHistory(n *Node) {
	for i, c := range s.focusedChildren {
		if c == n {
			s.focusedChildren = append(s.focusedChildren[:i], s.focusedChildren[i+1:]...)
			return
		}
	}
}
