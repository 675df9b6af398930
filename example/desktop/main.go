// Example desktop demonstrates keyboard focus in a GLFW window.
//
// Prerequisites:
//
//	Install devbox: https://www.jetify.com/devbox
//	devbox shell              # enter the dev environment (provides Go + OpenGL/X11 headers)
//	go run ./example/desktop  # run this example
//
// The window shows a row of tiles, each backed by a focus node. Tab,
// Shift+Tab and the arrow keys move focus; the focused tile is drawn bright.
// Esc closes the window.
package main

import (
	"fmt"
	"os"
	"runtime"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/glfw/v3.3/glfw"

	"github.com/go-theft-auto/focus"
	"github.com/go-theft-auto/focus/backend/desktop"
)

const (
	windowWidth  = 800
	windowHeight = 600
	windowTitle  = "focus example"
	tileCount    = 5
	tileGap      = 16
)

// tileColors are the base colors of the tiles, dimmed when unfocused.
var tileColors = [tileCount][3]float32{
	{0.90, 0.30, 0.25},
	{0.95, 0.70, 0.20},
	{0.30, 0.75, 0.35},
	{0.25, 0.55, 0.90},
	{0.65, 0.40, 0.85},
}

func init() {
	// GLFW must run on the main thread.
	runtime.LockOSThread()
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	// Initialize GLFW.
	if err := glfw.Init(); err != nil {
		return fmt.Errorf("glfw init: %w", err)
	}
	defer glfw.Terminate()

	glfw.WindowHint(glfw.ContextVersionMajor, 4)
	glfw.WindowHint(glfw.ContextVersionMinor, 1)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)

	window, err := glfw.CreateWindow(windowWidth, windowHeight, windowTitle, nil, nil)
	if err != nil {
		return fmt.Errorf("create window: %w", err)
	}
	window.MakeContextCurrent()
	glfw.SwapInterval(1) // vsync

	// Initialize OpenGL.
	if err := gl.Init(); err != nil {
		return fmt.Errorf("gl init: %w", err)
	}

	adapter := desktop.NewAdapter(window, focus.WithRootScopeOptions(
		focus.WithDebugLabel("window"),
		focus.WithKeyEventHandler(focus.TraversalKeyHandler),
	))
	root := &adapter.Manager().RootScope().Node

	tiles := make([]*focus.Node, tileCount)
	for i := range tiles {
		tiles[i] = focus.NewNode(
			focus.WithDebugLabel(fmt.Sprintf("tile %d", i+1)),
			focus.WithKeyEventHandler(arrowKeys),
		)
		if err := tiles[i].Attach(nil, nil).Reparent(root); err != nil {
			return fmt.Errorf("attach tile: %w", err)
		}
	}
	if err := adapter.Manager().RootScope().Autofocus(tiles[0]); err != nil {
		return fmt.Errorf("autofocus: %w", err)
	}

	adapter.Dispatcher().AddLateHandler(func(_ *focus.Node, ev focus.KeyEvent) focus.KeyEventResult {
		if ev.Key == focus.KeyEscape && ev.IsDown() {
			window.SetShouldClose(true)
			return focus.KeyEventHandled
		}
		return focus.KeyEventIgnored
	})
	adapter.Manager().AddListener(func() {
		if primary := adapter.Manager().PrimaryFocus(); primary != nil {
			window.SetTitle(fmt.Sprintf("%s: %s", windowTitle, primary.DebugLabel()))
		}
	})

	// Main loop.
	for !window.ShouldClose() {
		glfw.WaitEvents()
		adapter.Flush()

		w, h := window.GetFramebufferSize()
		gl.Viewport(0, 0, int32(w), int32(h))
		gl.Disable(gl.SCISSOR_TEST)
		gl.ClearColor(0.12, 0.12, 0.14, 1.0)
		gl.Clear(gl.COLOR_BUFFER_BIT)

		drawTiles(tiles, int32(w), int32(h))

		window.SwapBuffers()
	}

	return nil
}

// arrowKeys moves focus with the arrow keys, starting from any focus
// change still waiting for the next frame.
func arrowKeys(n *focus.Node, ev focus.KeyEvent) focus.KeyEventResult {
	if !ev.IsDown() {
		return focus.KeyEventIgnored
	}
	from := n
	if target := n.Manager().FocusTarget(); target != nil {
		from = target
	}
	switch ev.Key {
	case focus.KeyRight, focus.KeyDown:
		from.NextFocus()
	case focus.KeyLeft, focus.KeyUp:
		from.PreviousFocus()
	default:
		return focus.KeyEventIgnored
	}
	return focus.KeyEventHandled
}

// drawTiles fills one scissored rectangle per tile.
func drawTiles(tiles []*focus.Node, w, h int32) {
	size := (w - tileGap*int32(len(tiles)+1)) / int32(len(tiles))
	if size <= 0 {
		return
	}
	y := (h - size) / 2

	gl.Enable(gl.SCISSOR_TEST)
	for i, tile := range tiles {
		c := tileColors[i]
		scale := float32(0.35)
		if tile.HasPrimaryFocus() {
			scale = 1
		}
		x := tileGap + int32(i)*(size+tileGap)
		gl.Scissor(x, y, size, size)
		gl.ClearColor(c[0]*scale, c[1]*scale, c[2]*scale, 1)
		gl.Clear(gl.COLOR_BUFFER_BIT)
	}
	gl.Disable(gl.SCISSOR_TEST)
}
