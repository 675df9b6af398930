package focus

import "testing"

// testTree bundles a manager driven by a queue so tests decide exactly
// when the resolution pass runs.
type testTree struct {
	t       *testing.T
	queue   *QueueScheduler
	manager *Manager
}

func newTestTree(t *testing.T, opts ...ManagerOption) *testTree {
	t.Helper()
	queue := NewQueueScheduler()
	return &testTree{t: t, queue: queue, manager: NewManager(queue, opts...)}
}

func (tt *testTree) root() *Node {
	return &tt.manager.RootScope().Node
}

// node creates a plain node attached under parent (the root if nil).
func (tt *testTree) node(label string, parent *Node, opts ...NodeOption) *Node {
	tt.t.Helper()
	n := NewNode(append([]NodeOption{WithDebugLabel(label)}, opts...)...)
	tt.attach(n, parent)
	return n
}

// scope creates a scope attached under parent (the root if nil).
func (tt *testTree) scope(label string, parent *Node, opts ...NodeOption) *ScopeNode {
	tt.t.Helper()
	s := NewScopeNode(append([]NodeOption{WithDebugLabel(label)}, opts...)...)
	tt.attach(&s.Node, parent)
	return s
}

func (tt *testTree) attach(n, parent *Node) *Attachment {
	tt.t.Helper()
	if parent == nil {
		parent = tt.root()
	}
	a := n.Attach(nil, nil)
	if err := a.Reparent(parent); err != nil {
		tt.t.Fatalf("Reparent(%s) under %s: %v", n, parent, err)
	}
	return a
}

// pass runs whatever the manager scheduled and returns the task count.
func (tt *testTree) pass() int {
	return tt.queue.Flush()
}

// labels maps nodes to their debug labels for cmp.Diff.
func labels(nodes []*Node) []string {
	out := make([]string, len(nodes))
	for i, n := range nodes {
		out[i] = n.DebugLabel()
	}
	return out
}

// testHost is a Host backed by fixed values.
type testHost struct {
	nearest *Node
	manager *Manager
}

func (h *testHost) NearestFocus() *Node { return h.nearest }
func (h *testHost) Manager() *Manager   { return h.manager }

// countListener registers a listener on c and returns its call counter.
func countListener(c *ChangeNotifier) *int {
	calls := new(int)
	c.AddListener(func() { *calls++ })
	return calls
}

// assertFocusInTree fails unless the primary focus is set and reachable
// from the root scope.
func (tt *testTree) assertFocusInTree() {
	tt.t.Helper()
	primary := tt.manager.PrimaryFocus()
	if primary == nil {
		tt.t.Fatal("no primary focus")
	}
	if !tt.root().contains(primary) {
		tt.t.Fatalf("primary focus %v is not in the root's tree", primary)
	}
}
