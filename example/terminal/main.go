// Example terminal demonstrates focus traversal in a terminal.
//
//	go run ./example/terminal --items 5
//	go run ./example/terminal -v --log focus.log
//
// Tab and Shift+Tab move focus through a list of items and a nested panel
// scope. Enter on "give up focus" returns focus to the panel field that
// had it before. Esc quits.
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"

	"github.com/gdamore/tcell/v2"
	"github.com/spf13/cobra"

	"github.com/go-theft-auto/focus"
	"github.com/go-theft-auto/focus/backend/terminal"
)

var (
	itemCount int
	verbose   bool
	logPath   string
)

var rootCmd = &cobra.Command{
	Use:   "terminal",
	Short: "Focus traversal demo on a tcell screen",
	Long: `Draws a list of focusable items and a nested panel scope.

Keys:
  Tab / Shift+Tab   move focus
  Enter             activate the focused item
  Esc               quit`,
	SilenceUsage: true,
	RunE:         run,
}

func init() {
	rootCmd.Flags().IntVarP(&itemCount, "items", "n", 4, "number of top-level items")
	rootCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "log focus changes")
	rootCmd.Flags().StringVar(&logPath, "log", "", "write logs to this file instead of discarding them")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, _ []string) error {
	if itemCount < 1 {
		return fmt.Errorf("--items must be at least 1, got %d", itemCount)
	}

	// The screen owns stdout, so logs go to a file or nowhere.
	var logOut io.Writer = io.Discard
	if logPath != "" {
		f, err := os.Create(logPath)
		if err != nil {
			return fmt.Errorf("open log: %w", err)
		}
		defer f.Close()
		logOut = f
	}
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	focus.SetLogger(slog.New(slog.NewTextHandler(logOut, &slog.HandlerOptions{Level: level})))
	focus.SetVerbose(verbose)

	loop, err := terminal.NewScreen(focus.WithRootScopeOptions(
		focus.WithDebugLabel("root"),
		focus.WithKeyEventHandler(focus.TraversalKeyHandler),
	))
	if err != nil {
		return err
	}
	app, err := newApp(loop.Manager())
	if err != nil {
		return err
	}
	loop.SetDraw(app.draw)
	loop.Dispatcher().AddLateHandler(func(_ *focus.Node, ev focus.KeyEvent) focus.KeyEventResult {
		if ev.Key == focus.KeyEscape {
			loop.Stop()
			return focus.KeyEventHandled
		}
		return focus.KeyEventIgnored
	})

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()
	if err := loop.Run(ctx); err != nil && err != context.Canceled {
		return err
	}
	return nil
}

// row is one drawable line bound to a focus node.
type row struct {
	node   *focus.Node
	indent int
}

type app struct {
	manager *focus.Manager
	panel   *focus.ScopeNode
	rows    []row
	status  string
}

func newApp(m *focus.Manager) (*app, error) {
	a := &app{manager: m}
	root := &m.RootScope().Node

	for i := range itemCount {
		a.add(fmt.Sprintf("item %d", i+1), root, 0)
	}

	a.panel = focus.NewScopeNode(focus.WithDebugLabel("panel"))
	a.mustAttach(&a.panel.Node, root)
	a.rows = append(a.rows, row{node: &a.panel.Node})
	first := a.add("panel field 1", &a.panel.Node, 1)
	a.add("panel field 2", &a.panel.Node, 1)
	giveUp := a.add("give up focus", &a.panel.Node, 1)
	giveUp.SetKeyEventHandler(func(n *focus.Node, ev focus.KeyEvent) focus.KeyEventResult {
		if ev.Key != focus.KeyEnter || !ev.IsDown() {
			return focus.KeyEventIgnored
		}
		n.Unfocus(focus.UnfocusPreviouslyFocusedChild)
		return focus.KeyEventHandled
	})

	// The panel field takes focus on the first pass.
	if err := a.panel.Autofocus(first); err != nil {
		return nil, fmt.Errorf("autofocus: %w", err)
	}
	m.AddListener(func() {
		a.status = fmt.Sprintf("focus: %s (v%d)", m.PrimaryFocus(), m.Version())
	})
	return a, nil
}

func (a *app) add(label string, parent *focus.Node, indent int) *focus.Node {
	n := focus.NewNode(focus.WithDebugLabel(label), focus.WithKeyEventHandler(a.activate))
	a.mustAttach(n, parent)
	a.rows = append(a.rows, row{node: n, indent: indent})
	return n
}

func (a *app) mustAttach(n, parent *focus.Node) {
	if err := n.Attach(nil, nil).Reparent(parent); err != nil {
		panic(err)
	}
}

func (a *app) activate(n *focus.Node, ev focus.KeyEvent) focus.KeyEventResult {
	if ev.Key != focus.KeyEnter || !ev.IsDown() {
		return focus.KeyEventIgnored
	}
	a.status = "activated " + n.DebugLabel()
	return focus.KeyEventHandled
}

func (a *app) draw(s tcell.Screen) {
	normal := tcell.StyleDefault
	inChain := normal.Foreground(tcell.ColorYellow)
	primary := normal.Reverse(true)

	for y, r := range a.rows {
		style := normal
		switch {
		case r.node.HasPrimaryFocus():
			style = primary
		case r.node.HasFocus():
			style = inChain
		}
		drawText(s, 2+r.indent*2, y+1, style, r.node.DebugLabel())
	}

	path := a.manager.FocusPath()
	line := "path:"
	for _, n := range path.Nodes() {
		line += " > " + n.DebugLabel()
	}
	_, h := s.Size()
	drawText(s, 0, h-2, normal, line)
	drawText(s, 0, h-1, normal, a.status)
}

func drawText(s tcell.Screen, x, y int, style tcell.Style, text string) {
	for _, r := range text {
		s.SetContent(x, y, r, nil, style)
		x++
	}
}
