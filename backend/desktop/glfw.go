// Package desktop connects a focus tree to a GLFW window.
package desktop

import (
	"github.com/go-gl/glfw/v3.3/glfw"

	"github.com/go-theft-auto/focus"
)

// Adapter feeds GLFW key input into a focus tree and runs its deferred
// resolution passes once per frame.
//
// GLFW delivers callbacks on the main thread during PollEvents or
// WaitEvents, so every focus operation stays on that thread.
type Adapter struct {
	window     *glfw.Window
	queue      *focus.QueueScheduler
	manager    *focus.Manager
	dispatcher *focus.Dispatcher
}

// NewAdapter creates a manager for window and installs key callbacks.
// The window must have been created after glfw.Init.
func NewAdapter(window *glfw.Window, opts ...focus.ManagerOption) *Adapter {
	a := &Adapter{
		window: window,
		queue:  focus.NewQueueScheduler(),
	}
	a.manager = focus.NewManager(a, opts...)
	a.dispatcher = focus.NewDispatcher(a.manager)

	// Setup callbacks
	window.SetKeyCallback(a.keyCallback)
	window.SetCharCallback(a.charCallback)

	return a
}

// Manager returns the focus manager driven by this window.
func (a *Adapter) Manager() *focus.Manager { return a.manager }

// Dispatcher returns the dispatcher key callbacks are routed through.
func (a *Adapter) Dispatcher() *focus.Dispatcher { return a.dispatcher }

// Schedule queues task for the next Flush and wakes a loop blocked in
// glfw.WaitEvents.
func (a *Adapter) Schedule(task func()) {
	a.queue.Schedule(task)
	glfw.PostEmptyEvent()
}

// Flush runs the resolution passes scheduled since the last frame.
// Call this once per frame after polling events and before drawing.
func (a *Adapter) Flush() int {
	return a.queue.Flush()
}

func (a *Adapter) keyCallback(w *glfw.Window, key glfw.Key, scancode int, action glfw.Action, mods glfw.ModifierKey) {
	ev, ok := convertKey(key, action, mods)
	if !ok {
		return
	}
	a.dispatcher.HandleKeyEvent(ev)
}

func (a *Adapter) charCallback(w *glfw.Window, char rune) {
	// Space arrives through the key callback as KeySpace.
	if char == ' ' {
		return
	}
	a.dispatcher.HandleKeyEvent(focus.KeyEvent{
		Key:    focus.KeyRune,
		Rune:   char,
		Mods:   currentMods(w),
		Action: focus.KeyActionDown,
	})
}

// convertKey maps a key callback to a focus.KeyEvent. Printable keys only
// produce an event when a command modifier is held; plain text comes from
// the char callback.
func convertKey(key glfw.Key, action glfw.Action, mods glfw.ModifierKey) (focus.KeyEvent, bool) {
	ev := focus.KeyEvent{
		Mods:   convertMods(mods),
		Action: convertAction(action),
	}

	if r, ok := printableRune(key); ok {
		if mods&(glfw.ModControl|glfw.ModAlt|glfw.ModSuper) == 0 {
			return ev, false
		}
		ev.Key = focus.KeyRune
		ev.Rune = r
		return ev, true
	}

	ev.Key = glfwKeyToKey(key)
	return ev, ev.Key != focus.KeyNone
}

func convertAction(action glfw.Action) focus.KeyAction {
	switch action {
	case glfw.Repeat:
		return focus.KeyActionRepeat
	case glfw.Release:
		return focus.KeyActionUp
	default:
		return focus.KeyActionDown
	}
}

func convertMods(mods glfw.ModifierKey) focus.ModifierKey {
	var out focus.ModifierKey
	if mods&glfw.ModShift != 0 {
		out |= focus.ModShift
	}
	if mods&glfw.ModControl != 0 {
		out |= focus.ModCtrl
	}
	if mods&glfw.ModAlt != 0 {
		out |= focus.ModAlt
	}
	if mods&glfw.ModSuper != 0 {
		out |= focus.ModSuper
	}
	return out
}

// currentMods reads modifier state for the char callback, which GLFW
// delivers without it.
func currentMods(w *glfw.Window) focus.ModifierKey {
	pressed := func(left, right glfw.Key) bool {
		return w.GetKey(left) == glfw.Press || w.GetKey(right) == glfw.Press
	}
	var mods glfw.ModifierKey
	if pressed(glfw.KeyLeftShift, glfw.KeyRightShift) {
		mods |= glfw.ModShift
	}
	if pressed(glfw.KeyLeftControl, glfw.KeyRightControl) {
		mods |= glfw.ModControl
	}
	if pressed(glfw.KeyLeftAlt, glfw.KeyRightAlt) {
		mods |= glfw.ModAlt
	}
	if pressed(glfw.KeyLeftSuper, glfw.KeyRightSuper) {
		mods |= glfw.ModSuper
	}
	return convertMods(mods)
}

// printableRune returns the lowercase rune for letter and digit keys.
func printableRune(key glfw.Key) (rune, bool) {
	switch {
	case key >= glfw.KeyA && key <= glfw.KeyZ:
		return 'a' + rune(key-glfw.KeyA), true
	case key >= glfw.Key0 && key <= glfw.Key9:
		return '0' + rune(key-glfw.Key0), true
	default:
		return 0, false
	}
}

// glfwKeyToKey maps GLFW keys to focus keys.
func glfwKeyToKey(key glfw.Key) focus.Key {
	switch key {
	case glfw.KeyTab:
		return focus.KeyTab
	case glfw.KeyLeft:
		return focus.KeyLeft
	case glfw.KeyRight:
		return focus.KeyRight
	case glfw.KeyUp:
		return focus.KeyUp
	case glfw.KeyDown:
		return focus.KeyDown
	case glfw.KeyPageUp:
		return focus.KeyPageUp
	case glfw.KeyPageDown:
		return focus.KeyPageDown
	case glfw.KeyHome:
		return focus.KeyHome
	case glfw.KeyEnd:
		return focus.KeyEnd
	case glfw.KeyInsert:
		return focus.KeyInsert
	case glfw.KeyDelete:
		return focus.KeyDelete
	case glfw.KeyBackspace:
		return focus.KeyBackspace
	case glfw.KeySpace:
		return focus.KeySpace
	case glfw.KeyEnter, glfw.KeyKPEnter:
		return focus.KeyEnter
	case glfw.KeyEscape:
		return focus.KeyEscape
	case glfw.KeyF1:
		return focus.KeyF1
	case glfw.KeyF2:
		return focus.KeyF2
	case glfw.KeyF3:
		return focus.KeyF3
	case glfw.KeyF4:
		return focus.KeyF4
	case glfw.KeyF5:
		return focus.KeyF5
	case glfw.KeyF6:
		return focus.KeyF6
	case glfw.KeyF7:
		return focus.KeyF7
	case glfw.KeyF8:
		return focus.KeyF8
	case glfw.KeyF9:
		return focus.KeyF9
	case glfw.KeyF10:
		return focus.KeyF10
	case glfw.KeyF11:
		return focus.KeyF11
	case glfw.KeyF12:
		return focus.KeyF12
	default:
		return focus.KeyNone
	}
}
