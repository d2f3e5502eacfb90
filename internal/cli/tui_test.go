package cli

import (
	"io"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/matzehuels/dirgraph/pkg/engine"
	"github.com/matzehuels/dirgraph/pkg/listing"
	"github.com/matzehuels/dirgraph/pkg/observability"
)

func aliceLister() listing.Lister {
	tree := map[string][]listing.Entry{
		"/home/alice": {
			{Name: "Documents", Key: "/home/alice/Documents", IsDir: true},
			{Name: "notes.txt", Key: "/home/alice/notes.txt", Ext: "txt"},
		},
	}
	return listing.Func(func(key string, _ bool) []listing.Entry { return tree[key] })
}

func newExploreTest(t *testing.T) (*ExploreModel, *[]string) {
	t.Helper()
	e, err := engine.New("/home/alice", engine.Options{
		Lister:      aliceLister(),
		SpawnJitter: -1,
		Logger:      log.New(io.Discard),
		Hooks:       observability.NoopGraphHooks{},
	})
	if err != nil {
		t.Fatal(err)
	}
	var opened []string
	m := NewExploreModel(e, time.Millisecond, func(p string) { opened = append(opened, p) })
	// 100×38 cells leaves a 100×37 canvas: 800×592 screen units.
	m.Update(tea.WindowSizeMsg{Width: 100, Height: 38})
	return m, &opened
}

func mouse(x, y int, action tea.MouseAction, button tea.MouseButton) tea.MouseMsg {
	return tea.MouseMsg{X: x, Y: y, Action: action, Button: button}
}

// clickCell presses and releases the left button on one cell.
func clickCell(m *ExploreModel, x, y int) tea.Cmd {
	m.Update(mouse(x, y, tea.MouseActionPress, tea.MouseButtonLeft))
	_, cmd := m.Update(mouse(x, y, tea.MouseActionRelease, tea.MouseButtonLeft))
	return cmd
}

func TestExploreResize(t *testing.T) {
	m, _ := newExploreTest(t)
	if got := m.eng.Viewport(); got != (engine.Vec{X: 800, Y: 592}) {
		t.Errorf("Viewport() = %v, want (800, 592)", got)
	}

	m.Update(tea.WindowSizeMsg{Width: 10, Height: 1})
	if got := m.eng.Viewport(); got != (engine.Vec{X: 80, Y: 16}) {
		t.Errorf("Viewport() = %v for a one-row terminal", got)
	}
}

func TestExploreClickToggles(t *testing.T) {
	m, _ := newExploreTest(t)

	// The root sits at screen (400, 296), inside cell (50, 18).
	clickCell(m, 50, 18)
	if n := m.eng.Store().NodeCount(); n != 3 {
		t.Fatalf("NodeCount() = %d after clicking the root, want 3", n)
	}
	if m.status != "expanded alice" {
		t.Errorf("status = %q", m.status)
	}

	clickCell(m, 50, 18)
	if n := m.eng.Store().NodeCount(); n != 1 || m.status != "collapsed alice" {
		t.Errorf("NodeCount() = %d status %q after second click", n, m.status)
	}
}

func TestExploreClickOpensFile(t *testing.T) {
	m, opened := newExploreTest(t)
	m.eng.Expand(m.eng.Root())

	var notes *engine.Node
	for _, n := range m.eng.Store().Nodes() {
		if n.Label == "notes.txt" {
			notes = n
		}
	}
	notes.Pos = engine.Vec{X: 80, Y: 0} // screen (480, 296), cell (60, 18)

	cmd := clickCell(m, 60, 18)
	if cmd == nil {
		t.Fatal("no command returned for a file click")
	}
	cmd()
	if len(*opened) != 1 || (*opened)[0] != "/home/alice/notes.txt" {
		t.Errorf("opened = %v", *opened)
	}
	if m.status != "opening notes.txt" {
		t.Errorf("status = %q", m.status)
	}
}

func TestExploreDragIsNotAClick(t *testing.T) {
	m, _ := newExploreTest(t)

	m.Update(mouse(50, 18, tea.MouseActionPress, tea.MouseButtonLeft))
	m.Update(mouse(55, 18, tea.MouseActionMotion, tea.MouseButtonLeft))
	m.Update(mouse(55, 18, tea.MouseActionRelease, tea.MouseButtonLeft))

	if n := m.eng.Store().NodeCount(); n != 1 {
		t.Errorf("drag expanded the root: %d nodes", n)
	}
	root, _ := m.eng.Store().Node(m.eng.Root())
	if root.Pos.X != 40 || root.Pos.Y != 0 {
		t.Errorf("root at %v after a 5-cell drag, want (40, 0)", root.Pos)
	}
	if m.eng.Mode() != engine.ModeIdle {
		t.Errorf("Mode() = %v", m.eng.Mode())
	}
}

func TestExploreWheelAndKeys(t *testing.T) {
	m, _ := newExploreTest(t)

	m.Update(mouse(0, 0, tea.MouseActionPress, tea.MouseButtonWheelUp))
	if z := m.eng.Camera().Zoom; z < 1.0999 || z > 1.1001 {
		t.Errorf("Zoom = %v after wheel up, want 1.1", z)
	}
	m.Update(mouse(0, 0, tea.MouseActionPress, tea.MouseButtonWheelDown))
	if z := m.eng.Camera().Zoom; z < 0.9999 || z > 1.0001 {
		t.Errorf("Zoom = %v after wheel down, want 1", z)
	}

	key := func(s string) tea.Cmd {
		_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)})
		return cmd
	}

	key("p")
	if m.eng.PhysicsEnabled() {
		t.Error("p did not pause physics")
	}
	key("+")
	key("+")
	key("r")
	if c := m.eng.Camera(); c.Zoom != 1 || c.Pan != (engine.Vec{}) {
		t.Errorf("camera after reset = %+v", c)
	}
	key("-")
	if z := m.eng.Camera().Zoom; z >= 1 {
		t.Errorf("Zoom = %v after -, want < 1", z)
	}

	cmd := key("q")
	if cmd == nil {
		t.Fatal("q returned no command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("q did not quit")
	}
}

func TestExploreTickAdvances(t *testing.T) {
	m, _ := newExploreTest(t)
	m.eng.Expand(m.eng.Root())
	before := m.eng.Snapshot()

	_, cmd := m.Update(tickMsg(time.Now()))
	if cmd == nil {
		t.Error("tick did not schedule the next tick")
	}
	moved := false
	for i, n := range m.eng.Snapshot().Nodes {
		if n.Pos != before.Nodes[i].Pos {
			moved = true
		}
	}
	if !moved {
		t.Error("tick did not advance the simulation")
	}
}

func TestExploreView(t *testing.T) {
	m := NewExploreModel(nil, 0, nil)
	if m.View() != "" {
		t.Error("View() before the first resize should be empty")
	}
	if m.tick != 16*time.Millisecond {
		t.Errorf("default tick = %v", m.tick)
	}

	m, _ = newExploreTest(t)
	m.eng.Expand(m.eng.Root())
	view := m.View()
	if got := strings.Count(view, "\n"); got != 37 {
		t.Errorf("View() has %d line breaks, want 37", got)
	}
	if !strings.Contains(view, "3 nodes") || !strings.Contains(view, "physics on") {
		t.Errorf("status line missing from view:\n%s", view)
	}
}
