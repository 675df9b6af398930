/*
Package focus provides keyboard focus management for a retained widget tree:
a focus tree that shadows the host's widget tree, per-scope focus history,
batched resolution of focus requests, and key-event dispatch along the
focus chain.

# Overview

Every focusable widget owns a Node. Widgets that group their children for
traversal (dialogs, panels, routes) own a ScopeNode instead. The Manager
owns the root scope and decides which node is the primary focus.

Focus requests are not applied immediately. RequestFocus, Unfocus and the
property setters record what should change and ask the Manager's Scheduler
for a resolution pass. The pass runs once, after the host finished
building, commits the last request, and notifies each affected node a
single time.

# Quick Start

	// Setup, once per window
	queue := focus.NewQueueScheduler()
	manager := focus.NewManager(queue)
	dispatcher := focus.NewDispatcher(manager)

	// A widget creating its node
	node := focus.NewNode(focus.WithDebugLabel("name field"))
	attachment := node.Attach(host, func(n *focus.Node, ev focus.KeyEvent) focus.KeyEventResult {
	    if ev.Key == focus.KeyEnter {
	        submit()
	        return focus.KeyEventHandled
	    }
	    return focus.KeyEventIgnored
	})

	// On every rebuild
	attachment.Reparent(nil)

	// Frame loop
	for running {
	    for _, ev := range pollKeys() {
	        dispatcher.HandleKeyEvent(ev)
	    }
	    buildUI()
	    queue.Flush() // resolution pass
	}

	// Widget removed
	attachment.Detach()

# Scopes and history

A ScopeNode remembers the order in which its descendants were focused.
When the scope itself is asked for focus it hands focus to the most
recent entry, drilling through nested scopes. Unfocus with
UnfocusPreviouslyFocusedChild pops the caller out of that history so
focus returns to whatever held it before; UnfocusScope forgets the history
and focuses the scope.

# Key dispatch

Dispatcher.HandleKeyEvent walks the primary focus and its ancestors,
calling each node's KeyEventHandler. KeyEventHandled stops the walk and
reports the event consumed. KeyEventSkipRemainingHandlers stops the walk
but reports the event unhandled so the platform can use it.

# Backends

The backend/desktop package feeds GLFW key callbacks into a Dispatcher.
The backend/terminal package runs a tcell event loop that also serves as
the Manager's Scheduler.
*/
package focus
