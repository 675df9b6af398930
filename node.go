package focus

import "fmt"

// KeyEventResult is returned by a KeyEventHandler.
type KeyEventResult uint8

const (
	// KeyEventIgnored passes the event on to the next ancestor.
	KeyEventIgnored KeyEventResult = iota

	// KeyEventHandled consumes the event.
	KeyEventHandled

	// KeyEventSkipRemainingHandlers stops propagation without consuming
	// the event, so the platform sees it as unhandled.
	KeyEventSkipRemainingHandlers
)

// String returns a human-readable name for the result.
func (r KeyEventResult) String() string {
	switch r {
	case KeyEventIgnored:
		return "Ignored"
	case KeyEventHandled:
		return "Handled"
	case KeyEventSkipRemainingHandlers:
		return "SkipRemainingHandlers"
	default:
		return "Unknown"
	}
}

// KeyEventHandler reacts to a key event routed to node.
type KeyEventHandler func(node *Node, ev KeyEvent) KeyEventResult

// UnfocusDisposition selects where focus goes when a node is unfocused.
type UnfocusDisposition uint8

const (
	// UnfocusScope focuses the enclosing scope and forgets its history.
	UnfocusScope UnfocusDisposition = iota

	// UnfocusPreviouslyFocusedChild removes only the node from the scope
	// history, so focus returns to whatever was focused before it.
	UnfocusPreviouslyFocusedChild
)

// Host is the hosting component of a node: the widget or element that owns
// it. It lets an attachment find a parent when none is given.
type Host interface {
	// NearestFocus returns the closest focus node already in the tree
	// above this host, or nil if there is none.
	NearestFocus() *Node

	// Manager returns the manager of the tree the host lives in.
	Manager() *Manager
}

// Node is one focusable unit in the focus tree.
//
// Nodes enter the tree through Attach followed by Attachment.Reparent and
// leave it through Attachment.Detach or Dispose. All methods must be called
// from the UI thread.
type Node struct {
	ChangeNotifier

	debugLabel string
	onKeyEvent KeyEventHandler
	host       Host

	canRequestFocus           bool
	skipTraversal             bool
	descendantsAreFocusable   bool
	descendantsAreTraversable bool

	parent   *Node
	children []*Node
	manager  *Manager

	attachment *Attachment

	// Set when focus is requested before the node has a parent.
	requestFocusWhenReparented bool

	ancestors        []*Node
	ancestorsValid   bool
	descendants      []*Node
	descendantsValid bool

	// Non-nil when the node is the Node embedded in a ScopeNode.
	scope *ScopeNode
}

// NodeOption configures a Node at construction.
type NodeOption func(*Node)

// WithDebugLabel sets the label shown in logs and String.
func WithDebugLabel(label string) NodeOption {
	return func(n *Node) { n.debugLabel = label }
}

// WithCanRequestFocus sets the node's own focusability. Default true.
func WithCanRequestFocus(v bool) NodeOption {
	return func(n *Node) { n.canRequestFocus = v }
}

// WithSkipTraversal excludes the node from traversal. Default false.
func WithSkipTraversal(v bool) NodeOption {
	return func(n *Node) { n.skipTraversal = v }
}

// WithDescendantsAreFocusable sets whether descendants may take focus. Default true.
func WithDescendantsAreFocusable(v bool) NodeOption {
	return func(n *Node) { n.descendantsAreFocusable = v }
}

// WithDescendantsAreTraversable sets whether descendants are reachable by
// traversal. Default true.
func WithDescendantsAreTraversable(v bool) NodeOption {
	return func(n *Node) { n.descendantsAreTraversable = v }
}

// WithKeyEventHandler sets the handler called for key events on the focus chain.
func WithKeyEventHandler(h KeyEventHandler) NodeOption {
	return func(n *Node) { n.onKeyEvent = h }
}

// NewNode creates a detached node.
func NewNode(opts ...NodeOption) *Node {
	n := &Node{}
	n.init(opts)
	return n
}

func (n *Node) init(opts []NodeOption) {
	n.canRequestFocus = true
	n.descendantsAreFocusable = true
	n.descendantsAreTraversable = true
	for _, opt := range opts {
		opt(n)
	}
}

func (n *Node) String() string {
	kind := "Node"
	if n.scope != nil {
		kind = "ScopeNode"
	}
	if n.debugLabel != "" {
		return fmt.Sprintf("%s(%s)", kind, n.debugLabel)
	}
	return fmt.Sprintf("%s(%p)", kind, n)
}

// DebugLabel returns the label set with WithDebugLabel or SetDebugLabel.
func (n *Node) DebugLabel() string { return n.debugLabel }

// SetDebugLabel changes the debug label.
func (n *Node) SetDebugLabel(label string) { n.debugLabel = label }

// Host returns the host bound by the last Attach, or nil.
func (n *Node) Host() Host { return n.host }

// Manager returns the manager of the tree the node belongs to, or nil.
func (n *Node) Manager() *Manager { return n.manager }

// Parent returns the parent node, or nil.
func (n *Node) Parent() *Node { return n.parent }

// Children returns a copy of the child list in insertion order.
func (n *Node) Children() []*Node {
	out := make([]*Node, len(n.children))
	copy(out, n.children)
	return out
}

// AsScope returns the ScopeNode n belongs to, or nil if n is a plain node.
func (n *Node) AsScope() *ScopeNode { return n.scope }

// KeyEventHandler returns the node's key handler, or nil.
func (n *Node) KeyEventHandler() KeyEventHandler { return n.onKeyEvent }

// SetKeyEventHandler replaces the key handler.
func (n *Node) SetKeyEventHandler(h KeyEventHandler) { n.onKeyEvent = h }

// Ancestors returns the ancestor chain, nearest first. The slice is cached;
// callers must not modify it.
func (n *Node) Ancestors() []*Node {
	if !n.ancestorsValid {
		var out []*Node
		for p := n.parent; p != nil; p = p.parent {
			out = append(out, p)
		}
		n.ancestors = out
		n.ancestorsValid = true
	}
	return n.ancestors
}

// Descendants returns every node below n in post-order: each child's
// descendants, then the child. The slice is cached; callers must not
// modify it.
func (n *Node) Descendants() []*Node {
	if !n.descendantsValid {
		var out []*Node
		for _, c := range n.children {
			out = append(out, c.Descendants()...)
			out = append(out, c)
		}
		n.descendants = out
		n.descendantsValid = true
	}
	return n.descendants
}

// isAncestorOf reports whether n is above other in the tree.
// contains reports whether other is n or below it.
func (n *Node) contains(other *Node) bool {
	return other != nil && (other == n || n.isAncestorOf(other))
}

func (n *Node) isAncestorOf(other *Node) bool {
	for p := other.parent; p != nil; p = p.parent {
		if p == n {
			return true
		}
	}
	return false
}

// EnclosingScope returns the nearest scope above n, not counting n itself.
func (n *Node) EnclosingScope() *ScopeNode {
	for p := n.parent; p != nil; p = p.parent {
		if p.scope != nil {
			return p.scope
		}
	}
	return nil
}

// NearestScope returns n's own scope if n is a scope, else EnclosingScope.
func (n *Node) NearestScope() *ScopeNode {
	if n.scope != nil {
		return n.scope
	}
	return n.EnclosingScope()
}

// CanRequestFocus reports the effective focusability: the node's own flag,
// the enclosing scope's focusability, and every ancestor's
// descendantsAreFocusable.
func (n *Node) CanRequestFocus() bool {
	if !n.canRequestFocus {
		return false
	}
	if s := n.EnclosingScope(); s != nil && !s.CanRequestFocus() {
		return false
	}
	for _, a := range n.Ancestors() {
		if !a.descendantsAreFocusable {
			return false
		}
	}
	return true
}

// SetCanRequestFocus changes the node's own focusability. Disabling a node
// that has focus moves focus to the previously focused child of its scope.
func (n *Node) SetCanRequestFocus(v bool) {
	if v == n.canRequestFocus {
		return
	}
	n.canRequestFocus = v
	if n.HasFocus() && !v {
		n.Unfocus(UnfocusPreviouslyFocusedChild)
	}
	if n.manager != nil {
		n.manager.markPropertiesChanged(n)
	}
}

// SkipTraversal reports whether traversal passes over the node, either by
// its own flag or because an ancestor makes its descendants untraversable.
func (n *Node) SkipTraversal() bool {
	if n.skipTraversal {
		return true
	}
	for _, a := range n.Ancestors() {
		if !a.descendantsAreTraversable {
			return true
		}
	}
	return false
}

// SetSkipTraversal changes the node's own traversal flag.
func (n *Node) SetSkipTraversal(v bool) {
	if v == n.skipTraversal {
		return
	}
	n.skipTraversal = v
	if n.manager != nil {
		n.manager.markPropertiesChanged(n)
	}
}

// DescendantsAreFocusable returns the stored flag.
func (n *Node) DescendantsAreFocusable() bool { return n.descendantsAreFocusable }

// SetDescendantsAreFocusable changes whether descendants may take focus.
// If a descendant holds focus when this is turned off, focus moves out.
func (n *Node) SetDescendantsAreFocusable(v bool) {
	if v == n.descendantsAreFocusable {
		return
	}
	n.descendantsAreFocusable = v
	if !v && n.HasFocus() {
		n.Unfocus(UnfocusPreviouslyFocusedChild)
	}
	if n.manager != nil {
		n.manager.markPropertiesChanged(n)
	}
}

// DescendantsAreTraversable returns the stored flag.
func (n *Node) DescendantsAreTraversable() bool { return n.descendantsAreTraversable }

// SetDescendantsAreTraversable changes whether descendants are reachable by traversal.
func (n *Node) SetDescendantsAreTraversable(v bool) {
	if v == n.descendantsAreTraversable {
		return
	}
	n.descendantsAreTraversable = v
	if n.manager != nil {
		n.manager.markPropertiesChanged(n)
	}
}

// HasPrimaryFocus reports whether n is the resolved primary focus.
func (n *Node) HasPrimaryFocus() bool {
	return n.manager != nil && n.manager.primaryFocus == n
}

// HasFocus reports whether n is the primary focus or one of its ancestors.
func (n *Node) HasFocus() bool {
	if n.manager == nil || n.manager.primaryFocus == nil {
		return false
	}
	primary := n.manager.primaryFocus
	return primary == n || n.isAncestorOf(primary)
}

// TraversalChildren returns the children that traversal may visit.
func (n *Node) TraversalChildren() []*Node {
	if n.scope != nil && !n.CanRequestFocus() {
		return nil
	}
	if !n.descendantsAreFocusable {
		return nil
	}
	var out []*Node
	for _, c := range n.children {
		if !c.SkipTraversal() && c.CanRequestFocus() {
			out = append(out, c)
		}
	}
	return out
}

// TraversalDescendants returns the descendants that traversal may visit,
// in Descendants order.
func (n *Node) TraversalDescendants() []*Node {
	if n.scope != nil && !n.CanRequestFocus() {
		return nil
	}
	if !n.descendantsAreFocusable {
		return nil
	}
	var out []*Node
	for _, d := range n.Descendants() {
		if !d.SkipTraversal() && d.CanRequestFocus() {
			out = append(out, d)
		}
	}
	return out
}

// Attach binds the node to host and returns a new attachment. Earlier
// attachments stop being live. A nil onKeyEvent keeps the current handler.
func (n *Node) Attach(host Host, onKeyEvent KeyEventHandler) *Attachment {
	n.host = host
	if onKeyEvent != nil {
		n.onKeyEvent = onKeyEvent
	}
	n.attachment = &Attachment{node: n}
	return n.attachment
}

// Dispose detaches the node and drops its listeners. The node must not be
// used afterwards.
func (n *Node) Dispose() {
	m := n.manager
	if n.attachment != nil {
		n.attachment.Detach()
	}
	if m != nil {
		m.markDetached(n)
	}
	n.clearListeners()
}

// RequestFocus asks for n to become the primary focus at the next
// resolution pass. If n has no parent yet, the request is held and replayed
// when it is reparented. Ignored if n cannot request focus.
func (n *Node) RequestFocus() {
	n.doRequestFocus(true)
}

// RequestFocusOn requests focus for child, first parenting it under n if it
// has no parent.
func (n *Node) RequestFocusOn(child *Node) error {
	if child.parent == nil && !child.isRoot() {
		if err := n.reparentChild(child); err != nil {
			return err
		}
	}
	child.doRequestFocus(true)
	return nil
}

func (n *Node) isRoot() bool {
	return n.manager != nil && n.scope != nil && n.manager.rootScope == n.scope
}

func (n *Node) doRequestFocus(findFirstFocus bool) {
	if n.scope != nil {
		n.scope.doRequestFocus(findFirstFocus)
		return
	}
	if !n.CanRequestFocus() {
		focusLogger.Debug("requestFocus ignored: node cannot request focus", "node", n.String())
		return
	}
	if n.parent == nil {
		n.requestFocusWhenReparented = true
		return
	}
	n.setAsFocusedChildForScope()
	if n.HasPrimaryFocus() && (n.manager.markedForFocus == nil || n.manager.markedForFocus == n) {
		return
	}
	n.markNextFocus()
}

func (n *Node) markNextFocus() {
	if n.manager != nil {
		n.manager.markNextFocus(n)
		return
	}
	// Not in a managed tree: update the history and tell listeners directly.
	n.setAsFocusedChildForScope()
	n.notify()
}

// setAsFocusedChildForScope pushes n onto the history of every enclosing
// scope, each scope recording the step on the path towards n.
func (n *Node) setAsFocusedChildForScope() {
	focused := n
	for _, a := range n.Ancestors() {
		if a.scope == nil {
			continue
		}
		a.scope.removeFromHistory(focused)
		a.scope.focusedChildren = append(a.scope.focusedChildren, focused)
		focused = a
	}
}

// Unfocus gives up focus held by n or a descendant, or a pending request
// naming either. Focus moves according to disposition. No-op otherwise, and for
// nodes with no enclosing scope.
func (n *Node) Unfocus(disposition UnfocusDisposition) {
	if !n.HasFocus() && (n.manager == nil || !n.contains(n.manager.markedForFocus)) {
		return
	}
	scope := n.EnclosingScope()
	if scope == nil {
		return
	}
	var root *ScopeNode
	if n.manager != nil {
		root = n.manager.rootScope
	}

	switch disposition {
	case UnfocusScope:
		if scope.CanRequestFocus() {
			scope.focusedChildren = scope.focusedChildren[:0]
		}
		for scope != nil && !scope.CanRequestFocus() {
			scope = outerScope(scope, root)
		}
		if scope != nil {
			scope.doRequestFocus(false)
		}
	case UnfocusPreviouslyFocusedChild:
		if scope.CanRequestFocus() {
			scope.removeFromHistory(n)
		}
		for scope != nil && !scope.CanRequestFocus() {
			if outer := scope.EnclosingScope(); outer != nil {
				outer.removeFromHistory(&scope.Node)
			}
			scope = outerScope(scope, root)
		}
		if scope != nil {
			scope.doRequestFocus(true)
		}
	}
}

// outerScope steps outward from s, ending at root. Returns nil once root
// itself has been passed.
func outerScope(s, root *ScopeNode) *ScopeNode {
	if outer := s.EnclosingScope(); outer != nil {
		return outer
	}
	if s == root {
		return nil
	}
	return root
}

// notify tells listeners that the node's focus state changed. Detached
// nodes other than the root are not notified.
func (n *Node) notify() {
	if n.parent == nil && !n.isRoot() {
		return
	}
	if n.HasPrimaryFocus() {
		n.setAsFocusedChildForScope()
	}
	n.notifyListeners()
}

// reparentChild makes child the last child of n.
func (n *Node) reparentChild(child *Node) error {
	if child.parent == n {
		return nil
	}
	if child.isRoot() {
		return contractViolation(&ContractError{Op: "reparent", Node: child.String(), Parent: n.String(), Err: ErrReparentRoot})
	}
	if child == n || child.isAncestorOf(n) {
		return contractViolation(&ContractError{Op: "reparent", Node: child.String(), Parent: n.String(), Err: ErrCycle})
	}

	oldScope := child.EnclosingScope()
	oldManager := child.manager
	hadFocus := child.HasFocus()
	if child.parent != nil {
		child.parent.removeChild(child, oldScope != n.NearestScope())
	}
	n.children = append(n.children, child)
	child.parent = n
	child.invalidateAncestors()
	child.updateManager(n.manager)
	n.invalidateDescendants()
	if oldManager != nil && oldManager != n.manager {
		oldManager.markDetached(child)
	}

	if hadFocus && n.manager != nil && n.manager.primaryFocus != nil {
		// Rebuild the scope history for the unchanged focus along the new path.
		n.manager.primaryFocus.setAsFocusedChildForScope()
	}
	if child.requestFocusWhenReparented {
		child.requestFocusWhenReparented = false
		child.doRequestFocus(true)
	}
	return nil
}

// removeChild unlinks child and clears the manager of its subtree. With
// removeScopeFocus, child and its descendants are dropped from the history
// of child's scope.
func (n *Node) removeChild(child *Node, removeScopeFocus bool) {
	if removeScopeFocus {
		if scope := child.EnclosingScope(); scope != nil {
			scope.removeSubtreeFromHistory(child)
		}
	}
	for i, c := range n.children {
		if c == child {
			n.children = append(n.children[:i], n.children[i+1:]...)
			break
		}
	}
	n.invalidateDescendants()
	child.parent = nil
	child.invalidateAncestors()
	child.updateManager(nil)
}

// invalidateAncestors drops the ancestor cache of n and of every node below it.
func (n *Node) invalidateAncestors() {
	n.ancestorsValid = false
	n.ancestors = nil
	for _, c := range n.children {
		c.invalidateAncestors()
	}
}

// invalidateDescendants drops the descendant cache of n and of every node above it.
func (n *Node) invalidateDescendants() {
	for p := n; p != nil; p = p.parent {
		p.descendantsValid = false
		p.descendants = nil
	}
}

// updateManager sets the manager on n and its whole subtree.
func (n *Node) updateManager(m *Manager) {
	n.manager = m
	for _, c := range n.children {
		c.updateManager(m)
	}
}
