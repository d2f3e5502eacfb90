package cli

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/dirgraph/pkg/engine"
	"github.com/matzehuels/dirgraph/pkg/graph"
)

// Status bar styles
var (
	statusStyle    = lipgloss.NewStyle().Foreground(colorGray)
	statusKeyStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	statusMsgStyle = lipgloss.NewStyle().Foreground(colorWhite)
)

const statusHelp = "drag·pan  click·open  wheel·zoom  f·fit  r·reset  p·physics  q·quit"

// =============================================================================
// ExploreModel - Interactive graph explorer
// =============================================================================

type tickMsg time.Time

// ExploreModel is the bubbletea model that hosts one engine. All engine calls
// happen inside Update, which bubbletea runs on a single goroutine.
type ExploreModel struct {
	eng  *engine.Engine
	tick time.Duration
	open func(path string)

	width, height int

	// Press bookkeeping to tell a click from a drag.
	pressed          bool
	moved            bool
	pressCol, pressR int

	status string
}

// NewExploreModel creates an explorer for e stepping every tick. open is
// called with the path of every file the user clicks.
func NewExploreModel(e *engine.Engine, tick time.Duration, open func(path string)) *ExploreModel {
	if tick <= 0 {
		tick = 16 * time.Millisecond
	}
	if open == nil {
		open = func(string) {}
	}
	return &ExploreModel{eng: e, tick: tick, open: open}
}

func (m *ExploreModel) Init() tea.Cmd {
	return m.nextTick()
}

func (m *ExploreModel) nextTick() tea.Cmd {
	return tea.Tick(m.tick, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m *ExploreModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.eng.Resize(float64(m.width)*cellW, float64(m.canvasRows())*cellH)

	case tickMsg:
		m.eng.Advance()
		return m, m.nextTick()

	case tea.KeyMsg:
		return m, m.handleKey(msg)

	case tea.MouseMsg:
		return m, m.handleMouse(msg)
	}
	return m, nil
}

func (m *ExploreModel) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "q", "ctrl+c", "esc":
		return tea.Quit
	case "p", " ":
		m.eng.SetPhysicsEnabled(!m.eng.PhysicsEnabled())
	case "r":
		m.eng.ResetCamera()
	case "f":
		m.eng.FitView(2 * cellW)
	case "+", "=":
		m.eng.Scroll(-1)
	case "-", "_":
		m.eng.Scroll(1)
	}
	return nil
}

func (m *ExploreModel) handleMouse(msg tea.MouseMsg) tea.Cmd {
	x, y := cellToScreen(msg.X, msg.Y)

	switch {
	case msg.Button == tea.MouseButtonWheelUp:
		m.eng.Scroll(-1)
	case msg.Button == tea.MouseButtonWheelDown:
		m.eng.Scroll(1)

	case msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft:
		m.eng.PointerDown(x, y)
		m.pressed, m.moved = true, false
		m.pressCol, m.pressR = msg.X, msg.Y

	case msg.Action == tea.MouseActionMotion:
		m.eng.PointerMove(x, y)
		if m.pressed && (msg.X != m.pressCol || msg.Y != m.pressR) {
			m.moved = true
		}

	case msg.Action == tea.MouseActionRelease:
		m.eng.PointerUp()
		click := m.pressed && !m.moved
		m.pressed = false
		if click {
			return m.handleEvent(m.eng.Click(x, y))
		}
	}
	return nil
}

func (m *ExploreModel) handleEvent(ev engine.Event) tea.Cmd {
	name := filepath.Base(ev.Key)
	switch ev.Kind {
	case engine.EventToggled:
		if ev.Expanded {
			m.status = "expanded " + name
		} else {
			m.status = "collapsed " + name
		}
	case engine.EventOpenRequested:
		m.status = "opening " + name
		key := ev.Key
		return func() tea.Msg {
			m.open(key)
			return nil
		}
	}
	return nil
}

// canvasRows is the height left after the status bar.
func (m *ExploreModel) canvasRows() int {
	return max(m.height-1, 1)
}

func (m *ExploreModel) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	g := graph.FromSnapshot(m.eng.Snapshot())
	cv := drawGraph(g, m.width, m.canvasRows())
	return cv.Render() + "\n" + m.statusLine(g)
}

func (m *ExploreModel) statusLine(g graph.Graph) string {
	physics := "on"
	if !m.eng.PhysicsEnabled() {
		physics = "paused"
	}
	parts := []string{
		statusKeyStyle.Render(appName),
		statusStyle.Render(fmt.Sprintf("%d nodes", len(g.Nodes))),
		statusStyle.Render(fmt.Sprintf("zoom %.2f", g.Camera.Zoom)),
		statusStyle.Render("physics " + physics),
	}
	if m.status != "" {
		parts = append(parts, statusMsgStyle.Render(m.status))
	} else {
		parts = append(parts, StyleDim.Render(statusHelp))
	}
	line := strings.Join(parts, StyleDim.Render(" · "))
	return lipgloss.NewStyle().MaxWidth(m.width).Render(line)
}
