// Package terminal runs a focus tree on a tcell screen.
package terminal

import (
	"context"
	"fmt"
	"sync"

	"github.com/gdamore/tcell/v2"

	"github.com/go-theft-auto/focus"
)

// Loop owns a tcell screen and drives a focus tree from its event queue.
//
// All focus work happens on the goroutine running Run. Scheduled resolution
// passes run after the event that requested them, then the screen is
// redrawn.
type Loop struct {
	screen     tcell.Screen
	queue      *focus.QueueScheduler
	manager    *focus.Manager
	dispatcher *focus.Dispatcher
	draw       func(tcell.Screen)
	running    bool

	stopOnce sync.Once
	stopped  chan struct{}
}

// New creates a loop for screen. The screen is initialized by Run.
func New(screen tcell.Screen, opts ...focus.ManagerOption) *Loop {
	l := &Loop{
		screen:  screen,
		queue:   focus.NewQueueScheduler(),
		stopped: make(chan struct{}),
	}
	l.manager = focus.NewManager(l, opts...)
	l.dispatcher = focus.NewDispatcher(l.manager)
	return l
}

// NewScreen creates a loop on the controlling terminal.
func NewScreen(opts ...focus.ManagerOption) (*Loop, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, fmt.Errorf("open terminal: %w", err)
	}
	return New(screen, opts...), nil
}

// Manager returns the focus manager driven by this loop.
func (l *Loop) Manager() *focus.Manager { return l.manager }

// Dispatcher returns the dispatcher key events are routed through.
func (l *Loop) Dispatcher() *focus.Dispatcher { return l.dispatcher }

// Screen returns the underlying screen.
func (l *Loop) Screen() tcell.Screen { return l.screen }

// SetDraw sets the function that paints a frame. It runs on the loop
// goroutine after every batch of events; Show is called afterwards.
func (l *Loop) SetDraw(draw func(tcell.Screen)) {
	l.draw = draw
}

// Schedule queues task and wakes the loop. It must be called from the loop
// goroutine, which is where every focus operation runs, or before Run.
func (l *Loop) Schedule(task func()) {
	l.queue.Schedule(task)
	if !l.running {
		// The first frame of Run flushes the queue.
		return
	}
	// A full queue already guarantees a wakeup.
	_ = l.screen.PostEvent(tcell.NewEventInterrupt(nil))
}

// Stop asks Run to return. Safe to call from any goroutine once Run has
// started.
func (l *Loop) Stop() {
	l.stopOnce.Do(func() {
		close(l.stopped)
		_ = l.screen.PostEvent(tcell.NewEventInterrupt(nil))
	})
}

// Run initializes the screen and processes events until Stop is called or
// ctx is cancelled. It returns ctx.Err() when cancelled and nil on Stop.
func (l *Loop) Run(ctx context.Context) error {
	if err := l.screen.Init(); err != nil {
		return fmt.Errorf("init screen: %w", err)
	}
	defer l.screen.Fini()
	l.running = true
	defer func() { l.running = false }()

	finished := make(chan struct{})
	defer close(finished)
	go func() {
		select {
		case <-ctx.Done():
			l.Stop()
		case <-finished:
		}
	}()

	l.frame()
	for {
		select {
		case <-l.stopped:
			return ctx.Err()
		default:
		}

		ev := l.screen.PollEvent()
		if ev == nil {
			return ctx.Err()
		}

		switch ev := ev.(type) {
		case *tcell.EventKey:
			l.HandleKey(ev)
		case *tcell.EventResize:
			l.screen.Sync()
		case *tcell.EventInterrupt:
			// Woken by Schedule or Stop.
		}
		l.frame()
	}
}

// HandleKey converts ev and dispatches it through the focus chain.
// Returns true if a handler consumed it.
func (l *Loop) HandleKey(ev *tcell.EventKey) bool {
	kev, ok := convertKeyEvent(ev)
	if !ok {
		return false
	}
	return l.dispatcher.HandleKeyEvent(kev)
}

// frame runs pending resolution passes and repaints.
func (l *Loop) frame() {
	l.queue.Flush()
	if l.draw == nil {
		return
	}
	l.screen.Clear()
	l.draw(l.screen)
	l.screen.Show()
}

// convertKeyEvent maps a tcell key event to a focus.KeyEvent. Terminals
// report presses only, so every event is KeyActionDown.
func convertKeyEvent(ev *tcell.EventKey) (focus.KeyEvent, bool) {
	out := focus.KeyEvent{
		Mods:   convertMods(ev.Modifiers()),
		Action: focus.KeyActionDown,
	}

	k := ev.Key()
	switch {
	case k == tcell.KeyRune:
		if ev.Rune() == ' ' {
			out.Key = focus.KeySpace
			return out, true
		}
		out.Key = focus.KeyRune
		out.Rune = ev.Rune()
		return out, true
	case k == tcell.KeyBacktab:
		out.Key = focus.KeyTab
		out.Mods |= focus.ModShift
		return out, true
	}

	if key := convertKey(k); key != focus.KeyNone {
		out.Key = key
		return out, true
	}

	// Remaining control codes are Ctrl+letter chords.
	if k >= tcell.KeyCtrlA && k <= tcell.KeyCtrlZ {
		out.Key = focus.KeyRune
		out.Rune = 'a' + rune(k-tcell.KeyCtrlA)
		out.Mods |= focus.ModCtrl
		return out, true
	}
	return out, false
}

// convertKey converts tcell.Key to focus.Key.
func convertKey(k tcell.Key) focus.Key {
	switch k {
	case tcell.KeyUp:
		return focus.KeyUp
	case tcell.KeyDown:
		return focus.KeyDown
	case tcell.KeyRight:
		return focus.KeyRight
	case tcell.KeyLeft:
		return focus.KeyLeft
	case tcell.KeyPgUp:
		return focus.KeyPageUp
	case tcell.KeyPgDn:
		return focus.KeyPageDown
	case tcell.KeyHome:
		return focus.KeyHome
	case tcell.KeyEnd:
		return focus.KeyEnd
	case tcell.KeyInsert:
		return focus.KeyInsert
	case tcell.KeyDelete:
		return focus.KeyDelete
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		return focus.KeyBackspace
	case tcell.KeyTab:
		return focus.KeyTab
	case tcell.KeyEnter:
		return focus.KeyEnter
	case tcell.KeyEscape:
		return focus.KeyEscape
	case tcell.KeyF1:
		return focus.KeyF1
	case tcell.KeyF2:
		return focus.KeyF2
	case tcell.KeyF3:
		return focus.KeyF3
	case tcell.KeyF4:
		return focus.KeyF4
	case tcell.KeyF5:
		return focus.KeyF5
	case tcell.KeyF6:
		return focus.KeyF6
	case tcell.KeyF7:
		return focus.KeyF7
	case tcell.KeyF8:
		return focus.KeyF8
	case tcell.KeyF9:
		return focus.KeyF9
	case tcell.KeyF10:
		return focus.KeyF10
	case tcell.KeyF11:
		return focus.KeyF11
	case tcell.KeyF12:
		return focus.KeyF12
	default:
		return focus.KeyNone
	}
}

func convertMods(m tcell.ModMask) focus.ModifierKey {
	var out focus.ModifierKey
	if m&tcell.ModShift != 0 {
		out |= focus.ModShift
	}
	if m&tcell.ModCtrl != 0 {
		out |= focus.ModCtrl
	}
	if m&tcell.ModAlt != 0 {
		out |= focus.ModAlt
	}
	if m&tcell.ModMeta != 0 {
		out |= focus.ModSuper
	}
	return out
}
