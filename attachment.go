package focus

// Attachment is the handle a host uses to place its node in the focus tree.
// Only the node's most recent attachment is live; stale ones do nothing.
type Attachment struct {
	node *Node // cleared on Detach
}

// Node returns the attached node, or nil once detached.
func (a *Attachment) Node() *Node { return a.node }

// IsAttached reports whether a is the node's live attachment.
func (a *Attachment) IsAttached() bool {
	return a.node != nil && a.node.attachment == a
}

// Reparent moves the node under parent. Hosts call it on every rebuild so
// the focus tree follows the host tree. A nil parent resolves to the
// host's nearest focus node, then to the host manager's root scope.
//
// Calling Reparent on a stale attachment is a no-op.
func (a *Attachment) Reparent(parent *Node) error {
	if !a.IsAttached() {
		return nil
	}
	n := a.node
	if parent == nil && n.host != nil {
		parent = n.host.NearestFocus()
		if parent == nil {
			if m := n.host.Manager(); m != nil {
				parent = &m.rootScope.Node
			}
		}
	}
	if parent == nil {
		return contractViolation(&ContractError{Op: "reparent", Node: n.String(), Err: ErrNoParent})
	}
	return parent.reparentChild(n)
}

// Detach removes the node and its subtree from the tree. If the subtree
// holds or is about to take primary focus, focus first falls back to the
// enclosing scope's previous child. The attachment is dead afterwards.
func (a *Attachment) Detach() {
	if !a.IsAttached() {
		return
	}
	n := a.node
	// A pending request elsewhere in the tree takes over from a focus that
	// leaves with the subtree.
	if m := n.manager; m != nil && (n.contains(m.markedForFocus) || (n.HasFocus() && m.markedForFocus == nil)) {
		// Forget the subtree first so the fallback cannot land inside it.
		if scope := n.EnclosingScope(); scope != nil {
			scope.removeSubtreeFromHistory(n)
		}
		n.Unfocus(UnfocusPreviouslyFocusedChild)
	}
	if n.manager != nil {
		n.manager.markDetached(n)
	}
	if n.parent != nil {
		n.parent.removeChild(n, true)
	}
	n.attachment = nil
	a.node = nil
}
