package focus

// Dispatcher routes raw key events through the focus chain.
//
// Platform backends call HandleKeyEvent for every key event. The event goes
// to the early handlers, then to the primary focus and each of its
// ancestors in turn, then to the late handlers. With no primary focus the
// focus chain is empty and only the early and late handlers run. The first handler that
// returns KeyEventHandled or KeyEventSkipRemainingHandlers ends the walk.
type Dispatcher struct {
	manager *Manager
	early   []KeyEventHandler
	late    []KeyEventHandler
}

// NewDispatcher creates a dispatcher for m's tree.
func NewDispatcher(m *Manager) *Dispatcher {
	return &Dispatcher{manager: m}
}

// AddEarlyHandler registers a handler that sees events before the focus
// chain. Early handlers receive a nil node.
func (d *Dispatcher) AddEarlyHandler(h KeyEventHandler) {
	d.early = append(d.early, h)
}

// AddLateHandler registers a handler that sees events the focus chain
// ignored. Late handlers receive a nil node.
func (d *Dispatcher) AddLateHandler(h KeyEventHandler) {
	d.late = append(d.late, h)
}

// HandleKeyEvent dispatches ev and returns true if a handler consumed it.
func (d *Dispatcher) HandleKeyEvent(ev KeyEvent) bool {
	for _, h := range d.early {
		if handled, done := decide(h(nil, ev)); done {
			return handled
		}
	}

	var chain []*Node
	if primary := d.manager.PrimaryFocus(); primary != nil {
		chain = make([]*Node, 0, len(primary.Ancestors())+1)
		chain = append(chain, primary)
		chain = append(chain, primary.Ancestors()...)
	} else {
		focusLogger.Debug("key event: no primary focus", "event", ev.String())
	}
	for _, n := range chain {
		if n.onKeyEvent == nil {
			continue
		}
		result := n.onKeyEvent(n, ev)
		if handled, done := decide(result); done {
			focusLogger.Debug("key event stopped", "event", ev.String(), "node", n.String(), "result", result.String())
			return handled
		}
	}

	for _, h := range d.late {
		if handled, done := decide(h(nil, ev)); done {
			return handled
		}
	}
	return false
}

// decide maps a handler result to (handled, stop).
func decide(r KeyEventResult) (handled, stop bool) {
	switch r {
	case KeyEventHandled:
		return true, true
	case KeyEventSkipRemainingHandlers:
		return false, true
	default:
		return false, false
	}
}
