package focus

import (
	"errors"
	"math/rand/v2"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestNode_Defaults(t *testing.T) {
	n := NewNode()

	if !n.CanRequestFocus() {
		t.Error("new node should be able to request focus")
	}
	if n.SkipTraversal() {
		t.Error("new node should not skip traversal")
	}
	if !n.DescendantsAreFocusable() || !n.DescendantsAreTraversable() {
		t.Error("descendant flags should default to true")
	}
	if n.Parent() != nil || n.Manager() != nil {
		t.Error("new node should be detached")
	}
	if n.HasFocus() || n.HasPrimaryFocus() {
		t.Error("detached node cannot have focus")
	}
}

func TestNode_String(t *testing.T) {
	if got := NewNode(WithDebugLabel("field")).String(); got != "Node(field)" {
		t.Errorf("String() = %q, want %q", got, "Node(field)")
	}
	if got := NewScopeNode(WithDebugLabel("dialog")).String(); got != "ScopeNode(dialog)" {
		t.Errorf("String() = %q, want %q", got, "ScopeNode(dialog)")
	}
}

func TestNode_ReparentBuildsTree(t *testing.T) {
	tt := newTestTree(t)
	s := tt.scope("S", nil)
	a := tt.node("A", &s.Node)
	b := tt.node("B", &s.Node)
	c := tt.node("C", a)

	if diff := cmp.Diff([]string{"A", "B"}, labels(s.Children())); diff != "" {
		t.Errorf("S children mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"A", "S", "Root Focus Scope"}, labels(c.Ancestors())); diff != "" {
		t.Errorf("C ancestors mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"C", "A", "B", "S"}, labels(tt.root().Descendants())); diff != "" {
		t.Errorf("root descendants mismatch (-want +got):\n%s", diff)
	}
	if c.Manager() != tt.manager || b.Manager() != tt.manager {
		t.Error("manager should propagate to attached nodes")
	}
	if c.EnclosingScope() != s {
		t.Errorf("C enclosing scope = %v, want S", c.EnclosingScope())
	}
	if s.NearestScope() != s {
		t.Error("a scope's nearest scope is itself")
	}
	if s.EnclosingScope() != tt.manager.RootScope() {
		t.Error("S should be enclosed by the root scope")
	}
}

func TestNode_ReparentSameParentIsNoop(t *testing.T) {
	tt := newTestTree(t)
	a := tt.node("A", nil)
	b := tt.node("B", nil)

	if err := a.attachment.Reparent(tt.root()); err != nil {
		t.Fatalf("Reparent: %v", err)
	}
	if diff := cmp.Diff([]string{"A", "B"}, labels(tt.root().Children())); diff != "" {
		t.Errorf("order changed on no-op reparent (-want +got):\n%s", diff)
	}
	_ = b
}

func TestNode_ReparentInvalidatesCaches(t *testing.T) {
	tt := newTestTree(t)
	a := tt.node("A", nil)
	b := tt.node("B", a)
	c := tt.node("C", b)
	d := tt.node("D", nil)

	// Prime the caches.
	_ = c.Ancestors()
	_ = a.Descendants()
	_ = d.Descendants()

	if err := b.attachment.Reparent(d); err != nil {
		t.Fatalf("Reparent: %v", err)
	}

	if diff := cmp.Diff([]string{"B", "D", "Root Focus Scope"}, labels(c.Ancestors())); diff != "" {
		t.Errorf("C ancestors after move (-want +got):\n%s", diff)
	}
	if len(a.Descendants()) != 0 {
		t.Errorf("A descendants = %v, want none", labels(a.Descendants()))
	}
	if diff := cmp.Diff([]string{"C", "B"}, labels(d.Descendants())); diff != "" {
		t.Errorf("D descendants (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"A", "C", "B", "D"}, labels(tt.root().Descendants())); diff != "" {
		t.Errorf("root descendants (-want +got):\n%s", diff)
	}
}

func TestNode_ReparentCycleRejected(t *testing.T) {
	tt := newTestTree(t)
	a := tt.node("A", nil)
	b := tt.node("B", a)

	err := a.attachment.Reparent(b)
	if !errors.Is(err, ErrCycle) {
		t.Fatalf("Reparent under own child: err = %v, want ErrCycle", err)
	}
	var ce *ContractError
	if !errors.As(err, &ce) || ce.Op != "reparent" {
		t.Errorf("error should be a *ContractError for reparent, got %#v", err)
	}
	if a.Parent() != tt.root() || b.Parent() != a {
		t.Error("tree must be unchanged after a rejected reparent")
	}

	if err := a.attachment.Reparent(a); !errors.Is(err, ErrCycle) {
		t.Errorf("Reparent under itself: err = %v, want ErrCycle", err)
	}
}

func TestNode_ReparentRootRejected(t *testing.T) {
	tt := newTestTree(t)
	a := tt.node("A", nil)
	root := tt.manager.RootScope()

	err := root.Attach(nil, nil).Reparent(a)
	if !errors.Is(err, ErrReparentRoot) {
		t.Errorf("err = %v, want ErrReparentRoot", err)
	}
	if root.Parent() != nil {
		t.Error("root must stay parentless")
	}
}

func TestNode_DebugAssertionsPanic(t *testing.T) {
	SetDebugAssertions(true)
	defer SetDebugAssertions(false)

	tt := newTestTree(t)
	a := tt.node("A", nil)
	b := tt.node("B", a)

	defer func() {
		r := recover()
		err, ok := r.(*ContractError)
		if !ok || !errors.Is(err, ErrCycle) {
			t.Errorf("recover() = %v, want *ContractError wrapping ErrCycle", r)
		}
	}()
	_ = a.attachment.Reparent(b)
	t.Error("Reparent should have panicked")
}

func TestNode_ReparentWithoutParentUsesHost(t *testing.T) {
	tt := newTestTree(t)
	s := tt.scope("S", nil)

	a := NewNode(WithDebugLabel("A"))
	if err := a.Attach(&testHost{nearest: &s.Node, manager: tt.manager}, nil).Reparent(nil); err != nil {
		t.Fatalf("Reparent: %v", err)
	}
	if a.Parent() != &s.Node {
		t.Errorf("A parent = %v, want S", a.Parent())
	}

	b := NewNode(WithDebugLabel("B"))
	if err := b.Attach(&testHost{manager: tt.manager}, nil).Reparent(nil); err != nil {
		t.Fatalf("Reparent: %v", err)
	}
	if b.Parent() != tt.root() {
		t.Errorf("B parent = %v, want root", b.Parent())
	}

	c := NewNode(WithDebugLabel("C"))
	if err := c.Attach(nil, nil).Reparent(nil); !errors.Is(err, ErrNoParent) {
		t.Errorf("Reparent with no host: err = %v, want ErrNoParent", err)
	}
}

func TestNode_RandomReparentsStayAcyclic(t *testing.T) {
	tt := newTestTree(t)
	rng := rand.New(rand.NewPCG(7, 11))

	nodes := []*Node{tt.root()}
	for i := range 24 {
		var n *Node
		if i%4 == 0 {
			n = &tt.scope("s", nodes[rng.IntN(len(nodes))]).Node
		} else {
			n = tt.node("n", nodes[rng.IntN(len(nodes))])
		}
		nodes = append(nodes, n)
	}

	for range 500 {
		child := nodes[1+rng.IntN(len(nodes)-1)]
		parent := nodes[rng.IntN(len(nodes))]
		wantCycle := child == parent || child.isAncestorOf(parent)

		err := child.attachment.Reparent(parent)
		if wantCycle != errors.Is(err, ErrCycle) {
			t.Fatalf("Reparent(%p under %p): err = %v, wantCycle = %v", child, parent, err, wantCycle)
		}

		for _, n := range nodes {
			seen := map[*Node]bool{n: true}
			for _, a := range n.Ancestors() {
				if seen[a] {
					t.Fatalf("cycle through %p", a)
				}
				seen[a] = true
			}
			if n.Parent() != nil {
				count := 0
				for _, c := range n.Parent().children {
					if c == n {
						count++
					}
				}
				if count != 1 {
					t.Fatalf("node listed %d times in its parent's children", count)
				}
			}
		}
	}
	if got := len(tt.root().Descendants()); got != len(nodes)-1 {
		t.Errorf("root has %d descendants, want %d", got, len(nodes)-1)
	}
}

func TestNode_EffectiveCanRequestFocus(t *testing.T) {
	tt := newTestTree(t)
	s := tt.scope("S", nil)
	group := tt.node("group", &s.Node)
	leaf := tt.node("leaf", group)

	if !leaf.CanRequestFocus() {
		t.Fatal("leaf should be focusable")
	}

	group.SetDescendantsAreFocusable(false)
	if leaf.CanRequestFocus() {
		t.Error("leaf under a group with unfocusable descendants must not be focusable")
	}
	if !group.CanRequestFocus() {
		t.Error("the group itself stays focusable")
	}
	group.SetDescendantsAreFocusable(true)

	s.SetCanRequestFocus(false)
	if leaf.CanRequestFocus() {
		t.Error("leaf in an unfocusable scope must not be focusable")
	}
}

func TestNode_EffectiveSkipTraversal(t *testing.T) {
	tt := newTestTree(t)
	group := tt.node("group", nil)
	leaf := tt.node("leaf", group)

	if leaf.SkipTraversal() {
		t.Fatal("leaf should be traversable")
	}
	group.SetDescendantsAreTraversable(false)
	if !leaf.SkipTraversal() {
		t.Error("leaf under an untraversable group should be skipped")
	}
	if group.SkipTraversal() {
		t.Error("the group itself is still traversable")
	}
}

func TestNode_TraversalChildren(t *testing.T) {
	tt := newTestTree(t)
	s := tt.scope("S", nil)
	tt.node("A", &s.Node)
	tt.node("B", &s.Node, WithSkipTraversal(true))
	tt.node("C", &s.Node, WithCanRequestFocus(false))
	d := tt.node("D", &s.Node)
	tt.node("E", d)

	if diff := cmp.Diff([]string{"A", "D"}, labels(s.TraversalChildren())); diff != "" {
		t.Errorf("TraversalChildren (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"A", "E", "D"}, labels(s.TraversalDescendants())); diff != "" {
		t.Errorf("TraversalDescendants (-want +got):\n%s", diff)
	}

	s.SetCanRequestFocus(false)
	if got := s.TraversalChildren(); len(got) != 0 {
		t.Errorf("unfocusable scope TraversalChildren = %v, want none", labels(got))
	}
	if got := s.TraversalDescendants(); len(got) != 0 {
		t.Errorf("unfocusable scope TraversalDescendants = %v, want none", labels(got))
	}
	if got := d.TraversalChildren(); len(got) != 0 {
		t.Errorf("children of an unfocusable scope are not traversable, got %v", labels(got))
	}
}

func TestNode_SetterMarksPropertiesChanged(t *testing.T) {
	tt := newTestTree(t)
	a := tt.node("A", nil)
	calls := countListener(&a.ChangeNotifier)

	a.SetSkipTraversal(true)
	a.SetSkipTraversal(true) // unchanged
	a.SetDescendantsAreTraversable(false)

	if n := tt.pass(); n != 1 {
		t.Errorf("ran %d passes, want 1", n)
	}
	if *calls != 1 {
		t.Errorf("listener called %d times, want 1", *calls)
	}
}

func TestNode_AttachReplacesAttachment(t *testing.T) {
	tt := newTestTree(t)
	a := NewNode(WithDebugLabel("A"))

	first := a.Attach(nil, nil)
	second := a.Attach(nil, nil)

	if first.IsAttached() {
		t.Error("the older attachment should no longer be live")
	}
	if !second.IsAttached() {
		t.Error("the newest attachment should be live")
	}
	if err := first.Reparent(tt.root()); err != nil {
		t.Fatalf("stale Reparent: %v", err)
	}
	if a.Parent() != nil {
		t.Error("a stale attachment must not reparent")
	}
}

func TestNode_AttachKeepsHandlerWhenNil(t *testing.T) {
	handler := func(*Node, KeyEvent) KeyEventResult { return KeyEventHandled }
	a := NewNode(WithKeyEventHandler(handler))
	a.Attach(nil, nil)

	if a.KeyEventHandler() == nil {
		t.Error("Attach with a nil handler should keep the existing one")
	}
}

func TestNode_DetachRemovesFromParent(t *testing.T) {
	tt := newTestTree(t)
	a := tt.node("A", nil)
	b := tt.node("B", a)
	att := a.attachment

	att.Detach()

	if att.IsAttached() || att.Node() != nil {
		t.Error("attachment should be dead after Detach")
	}
	if a.Parent() != nil {
		t.Error("A should have no parent after Detach")
	}
	if len(tt.root().Children()) != 0 {
		t.Error("root should have no children")
	}
	if b.Parent() != a {
		t.Error("detaching A keeps its own subtree")
	}

	att.Detach() // second call is a no-op
}
