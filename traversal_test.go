package focus

import "testing"

func TestTraversal_NextWraps(t *testing.T) {
	tt := newTestTree(t)
	a := tt.node("A", nil)
	b := tt.node("B", nil)
	c := tt.node("C", nil)
	a.RequestFocus()
	tt.pass()

	for _, want := range []*Node{b, c, a} {
		if !tt.manager.PrimaryFocus().NextFocus() {
			t.Fatal("NextFocus should move focus")
		}
		tt.pass()
		if tt.manager.PrimaryFocus() != want {
			t.Errorf("primary focus = %v, want %v", tt.manager.PrimaryFocus(), want)
		}
	}
}

func TestTraversal_PreviousWraps(t *testing.T) {
	tt := newTestTree(t)
	a := tt.node("A", nil)
	tt.node("B", nil)
	c := tt.node("C", nil)
	a.RequestFocus()
	tt.pass()

	a.PreviousFocus()
	tt.pass()
	if !c.HasPrimaryFocus() {
		t.Errorf("primary focus = %v, want C", tt.manager.PrimaryFocus())
	}
}

func TestTraversal_SkipsUntraversable(t *testing.T) {
	tt := newTestTree(t)
	a := tt.node("A", nil)
	tt.node("B", nil, WithSkipTraversal(true))
	tt.node("C", nil, WithCanRequestFocus(false))
	group := tt.node("group", nil, WithSkipTraversal(true))
	d := tt.node("D", group)
	a.RequestFocus()
	tt.pass()

	a.NextFocus()
	tt.pass()
	if !d.HasPrimaryFocus() {
		t.Errorf("primary focus = %v, want D", tt.manager.PrimaryFocus())
	}
}

func TestTraversal_NestedScopeIsOneStop(t *testing.T) {
	tt := newTestTree(t)
	a := tt.node("A", nil)
	s := tt.scope("S", nil)
	x := tt.node("X", &s.Node)
	tt.node("Y", &s.Node)
	c := tt.node("C", nil)
	a.RequestFocus()
	tt.pass()

	a.NextFocus()
	tt.pass()
	if !s.HasPrimaryFocus() {
		t.Fatalf("primary focus = %v, want S", tt.manager.PrimaryFocus())
	}

	// From the scope itself, traversal enters it.
	s.NextFocus()
	tt.pass()
	if !x.HasPrimaryFocus() {
		t.Fatalf("primary focus = %v, want X", tt.manager.PrimaryFocus())
	}

	// Leaving the scope and coming back restores X.
	c.RequestFocus()
	tt.pass()
	c.PreviousFocus()
	tt.pass()
	if !x.HasPrimaryFocus() {
		t.Errorf("primary focus = %v, want X", tt.manager.PrimaryFocus())
	}
}

func TestTraversal_SingleCandidate(t *testing.T) {
	tt := newTestTree(t)
	a := tt.node("A", nil)
	a.RequestFocus()
	tt.pass()

	if a.NextFocus() {
		t.Error("NextFocus with a single candidate should not move")
	}
	if NewNode().NextFocus() {
		t.Error("a detached node has no scope to traverse")
	}
}

func TestTraversalKeyHandler(t *testing.T) {
	tt := newTestTree(t, WithRootScopeOptions(WithKeyEventHandler(TraversalKeyHandler)))
	a := tt.node("A", nil)
	b := tt.node("B", nil)
	c := tt.node("C", nil)
	a.RequestFocus()
	tt.pass()
	d := NewDispatcher(tt.manager)

	// Two presses before the pass keep advancing from the pending target.
	d.HandleKeyEvent(KeyEvent{Key: KeyTab})
	if tt.manager.FocusTarget() != b {
		t.Errorf("FocusTarget = %v, want B", tt.manager.FocusTarget())
	}
	d.HandleKeyEvent(KeyEvent{Key: KeyTab})
	tt.pass()
	if !c.HasPrimaryFocus() {
		t.Errorf("primary focus = %v, want C", tt.manager.PrimaryFocus())
	}

	if !d.HandleKeyEvent(KeyEvent{Key: KeyTab, Mods: ModShift}) {
		t.Error("Shift+Tab should be handled")
	}
	tt.pass()
	if !b.HasPrimaryFocus() {
		t.Errorf("primary focus = %v, want B", tt.manager.PrimaryFocus())
	}

	if d.HandleKeyEvent(KeyEvent{Key: KeyTab, Action: KeyActionUp}) {
		t.Error("Tab release should be ignored")
	}
	if d.HandleKeyEvent(KeyEvent{Key: KeyEnter}) {
		t.Error("Enter should be ignored")
	}
}
