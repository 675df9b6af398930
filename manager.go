package focus

// autofocusRequest is a deferred request to focus node inside scope.
type autofocusRequest struct {
	scope *ScopeNode
	node  *Node
}

// valid reports whether the request may still be applied by m: the scope
// is still in m's tree, has nothing focused, and still contains node.
func (r autofocusRequest) valid(m *Manager) bool {
	return r.scope.manager == m &&
		m.rootScope.contains(&r.scope.Node) &&
		r.scope.FocusedChild() == nil &&
		r.scope.isAncestorOf(r.node)
}

// Manager owns a focus tree: its permanent root scope, the resolved
// primary focus, and the requests waiting for the next resolution pass.
//
// Focus changes are not applied when requested. Requests are recorded and
// resolved together by ApplyFocusChangesIfNeeded, which the manager
// schedules at most once per cycle on its Scheduler. Listeners on the
// manager are told when the primary focus changes.
type Manager struct {
	ChangeNotifier

	scheduler Scheduler
	rootScope *ScopeNode

	primaryFocus   *Node
	markedForFocus *Node

	// Nodes waiting for a notification, in the order they were marked.
	dirtyNodes []*Node
	dirtySet   map[*Node]struct{}

	pendingAutofocuses []autofocusRequest

	haveScheduledUpdate bool
	applyingAutofocus   bool
	buildDepth          int

	version uint64
}

// ManagerOption configures a Manager.
type ManagerOption func(*Manager)

// WithRootScopeOptions applies node options to the root scope, for example
// a debug label or a key handler that catches everything the tree ignores.
func WithRootScopeOptions(opts ...NodeOption) ManagerOption {
	return func(m *Manager) {
		m.rootScope.init(opts)
	}
}

// NewManager creates a manager that defers resolution passes to scheduler.
func NewManager(scheduler Scheduler, opts ...ManagerOption) *Manager {
	m := &Manager{
		scheduler: scheduler,
		dirtySet:  make(map[*Node]struct{}),
		rootScope: NewScopeNode(WithDebugLabel("Root Focus Scope")),
	}
	m.rootScope.manager = m

	for _, opt := range opts {
		opt(m)
	}

	return m
}

// RootScope returns the permanent root of the tree.
func (m *Manager) RootScope() *ScopeNode { return m.rootScope }

// PrimaryFocus returns the resolved focus target, or nil.
func (m *Manager) PrimaryFocus() *Node { return m.primaryFocus }

// HasPendingUpdate reports whether a resolution pass is scheduled.
func (m *Manager) HasPendingUpdate() bool { return m.haveScheduledUpdate }

// Version increments every time the primary focus changes.
func (m *Manager) Version() uint64 { return m.version }

// BeginBuild marks the start of a host build or layout phase. A resolution
// pass that fires before the matching EndBuild is deferred again.
func (m *Manager) BeginBuild() {
	m.buildDepth++
}

// EndBuild ends a phase started with BeginBuild.
func (m *Manager) EndBuild() {
	if m.buildDepth > 0 {
		m.buildDepth--
	}
}

// markNeedsUpdate schedules one resolution pass unless one is already pending.
func (m *Manager) markNeedsUpdate() {
	if m.haveScheduledUpdate || m.applyingAutofocus {
		return
	}
	m.haveScheduledUpdate = true
	m.scheduler.Schedule(m.ApplyFocusChangesIfNeeded)
}

// markPropertiesChanged queues node for notification.
func (m *Manager) markPropertiesChanged(node *Node) {
	m.markDirty(node)
	m.markNeedsUpdate()
}

// markNextFocus records node as the target of the next pass. Naming the
// current primary focus cancels any pending request instead.
func (m *Manager) markNextFocus(node *Node) {
	if m.primaryFocus == node {
		m.markedForFocus = nil
		return
	}
	m.markedForFocus = node
	m.markNeedsUpdate()
}

// markDetached drops every reference the manager holds to node and its
// subtree. This is the one change applied immediately rather than at the
// next pass; a pass is scheduled to pick the new focus.
func (m *Manager) markDetached(node *Node) {
	if node.contains(m.primaryFocus) {
		m.primaryFocus = nil
		m.markNeedsUpdate()
	}
	if node.contains(m.markedForFocus) {
		m.markedForFocus = nil
	}
	m.removeDirty(node)
	for _, d := range node.Descendants() {
		m.removeDirty(d)
	}
}

func (m *Manager) markDirty(node *Node) {
	if _, ok := m.dirtySet[node]; ok {
		return
	}
	m.dirtySet[node] = struct{}{}
	m.dirtyNodes = append(m.dirtyNodes, node)
}

func (m *Manager) removeDirty(node *Node) {
	if _, ok := m.dirtySet[node]; !ok {
		return
	}
	delete(m.dirtySet, node)
	for i, d := range m.dirtyNodes {
		if d == node {
			m.dirtyNodes = append(m.dirtyNodes[:i], m.dirtyNodes[i+1:]...)
			return
		}
	}
}

// ApplyFocusChangesIfNeeded runs the resolution pass: pending autofocus
// requests are applied in order, the pending focus request is committed,
// and every node whose focus state changed is notified once. It is normally
// run by the scheduler; hosts may call it directly outside a build phase.
func (m *Manager) ApplyFocusChangesIfNeeded() {
	m.haveScheduledUpdate = false
	if m.buildDepth > 0 {
		focusLogger.Debug("focus pass deferred: build in progress")
		m.markNeedsUpdate()
		return
	}

	previousFocus := m.primaryFocus

	m.applyingAutofocus = true
	for _, req := range m.pendingAutofocuses {
		if !req.valid(m) {
			focusLogger.Debug("autofocus dropped", "scope", req.scope.String(), "node", req.node.String())
			continue
		}
		req.node.doRequestFocus(true)
	}
	m.applyingAutofocus = false
	m.pendingAutofocuses = m.pendingAutofocuses[:0]

	if m.primaryFocus == nil && m.markedForFocus == nil {
		m.markedForFocus = &m.rootScope.Node
	}

	if m.markedForFocus != nil && m.markedForFocus != m.primaryFocus {
		var previousPath []*Node
		if m.primaryFocus != nil {
			previousPath = m.primaryFocus.Ancestors()
		}
		nextPath := m.markedForFocus.Ancestors()
		for _, n := range difference(nextPath, previousPath) {
			m.markDirty(n)
		}
		for _, n := range difference(previousPath, nextPath) {
			m.markDirty(n)
		}
		m.primaryFocus = m.markedForFocus
		m.markedForFocus = nil
	}

	if previousFocus != m.primaryFocus {
		if previousFocus != nil {
			m.markDirty(previousFocus)
		}
		if m.primaryFocus != nil {
			m.markDirty(m.primaryFocus)
		}
		m.version++
		if focusVerbose() {
			focusLogger.Debug("primary focus changed", "from", nodeLabel(previousFocus), "to", nodeLabel(m.primaryFocus))
		}
	}

	// Notifications may schedule the next pass, so work from a detached list.
	dirty := m.dirtyNodes
	m.dirtyNodes = nil
	clear(m.dirtySet)
	for _, n := range dirty {
		n.notify()
	}

	if previousFocus != m.primaryFocus {
		m.notifyListeners()
	}
}

// difference returns the nodes of a not present in b, in a's order.
func difference(a, b []*Node) []*Node {
	if len(b) == 0 {
		return a
	}
	in := make(map[*Node]struct{}, len(b))
	for _, n := range b {
		in[n] = struct{}{}
	}
	var out []*Node
	for _, n := range a {
		if _, ok := in[n]; !ok {
			out = append(out, n)
		}
	}
	return out
}

func nodeLabel(n *Node) string {
	if n == nil {
		return "<none>"
	}
	return n.String()
}
