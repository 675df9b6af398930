package focus

// TraversalDirection is the direction of sequential focus movement.
type TraversalDirection uint8

const (
	TraverseNext TraversalDirection = iota
	TraversePrevious
)

// String returns a human-readable name for the direction.
func (d TraversalDirection) String() string {
	switch d {
	case TraverseNext:
		return "Next"
	case TraversePrevious:
		return "Previous"
	default:
		return "Unknown"
	}
}

// NextFocus moves focus to the next traversable node in n's nearest scope,
// wrapping to the first after the last. Returns true if focus moved.
func (n *Node) NextFocus() bool {
	return n.moveFocus(TraverseNext)
}

// PreviousFocus moves focus to the previous traversable node in n's nearest
// scope, wrapping to the last before the first. Returns true if focus moved.
func (n *Node) PreviousFocus() bool {
	return n.moveFocus(TraversePrevious)
}

func (n *Node) moveFocus(dir TraversalDirection) bool {
	scope := n.NearestScope()
	if scope == nil {
		return false
	}
	candidates := traversalCandidates(scope)
	if len(candidates) == 0 {
		return false
	}

	idx := -1
	for i, c := range candidates {
		if c == n {
			idx = i
			break
		}
	}

	var next int
	switch {
	case idx < 0 && dir == TraverseNext:
		next = 0
	case idx < 0:
		next = len(candidates) - 1
	case dir == TraverseNext:
		next = (idx + 1) % len(candidates)
	default:
		next = (idx - 1 + len(candidates)) % len(candidates)
	}

	target := candidates[next]
	if target == n {
		return false
	}
	focusLogger.Debug("traversal", "direction", dir.String(), "from", n.String(), "to", target.String())
	target.RequestFocus()
	return true
}

// traversalCandidates lists the nodes of scope that sequential traversal
// visits, in tree order. Nested scopes count as one candidate; their
// contents are reached by focusing the scope.
func traversalCandidates(scope *ScopeNode) []*Node {
	if !scope.CanRequestFocus() {
		return nil
	}
	var out []*Node
	var walk func(parent *Node)
	walk = func(parent *Node) {
		if !parent.descendantsAreFocusable {
			return
		}
		for _, c := range parent.children {
			if !c.SkipTraversal() && c.CanRequestFocus() {
				out = append(out, c)
			}
			if c.scope == nil {
				walk(c)
			}
		}
	}
	walk(&scope.Node)
	return out
}

// TraversalKeyHandler moves focus with Tab and Shift+Tab. Install it on a
// scope (typically the root) so it catches Tab presses the focused node
// ignores.
func TraversalKeyHandler(node *Node, ev KeyEvent) KeyEventResult {
	if ev.Key != KeyTab || !ev.IsDown() {
		return KeyEventIgnored
	}
	m := node.Manager()
	if m == nil {
		return KeyEventIgnored
	}
	current := m.FocusTarget()
	if current == nil {
		return KeyEventIgnored
	}

	moved := false
	if ev.Has(ModShift) {
		moved = current.PreviousFocus()
	} else {
		moved = current.NextFocus()
	}
	if !moved {
		return KeyEventIgnored
	}
	return KeyEventHandled
}

// FocusTarget returns the pending focus request if there is one, else the
// primary focus. Key handlers that move focus start from it so repeated
// presses before a pass keep advancing.
func (m *Manager) FocusTarget() *Node {
	if m.markedForFocus != nil {
		return m.markedForFocus
	}
	return m.primaryFocus
}
