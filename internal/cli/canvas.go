package cli

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/dirgraph/pkg/engine"
	"github.com/matzehuels/dirgraph/pkg/graph"
)

// Terminal cells stand in for pixels at a fixed size so the engine's
// world-scale constants read the same as on a desktop canvas.
const (
	cellW = 8.0
	cellH = 16.0
)

// Canvas glyphs.
const (
	glyphEdge       = '·'
	glyphNode       = '█'
	glyphSmallNode  = '●'
	glyphUnexpanded = '+'
	hoverScale      = 1.2
)

var (
	edgeColor  = string(colorDim)
	labelColor = string(colorGray)
	hoverColor = string(colorWhite)
)

// cellToScreen maps a terminal cell to the screen point at its centre.
func cellToScreen(col, row int) (float64, float64) {
	return (float64(col) + 0.5) * cellW, (float64(row) + 0.5) * cellH
}

// screenToCell maps a screen point to the cell containing it.
func screenToCell(x, y float64) (int, int) {
	return int(math.Floor(x / cellW)), int(math.Floor(y / cellH))
}

// =============================================================================
// canvas - Cell Grid
// =============================================================================

// canvas is a grid of glyphs, each with an optional foreground colour.
type canvas struct {
	cols, rows int
	glyphs     [][]rune
	colors     [][]string
}

func newCanvas(cols, rows int) *canvas {
	cols, rows = max(cols, 0), max(rows, 0)
	c := &canvas{cols: cols, rows: rows, glyphs: make([][]rune, rows), colors: make([][]string, rows)}
	for r := range rows {
		c.glyphs[r] = []rune(strings.Repeat(" ", cols))
		c.colors[r] = make([]string, cols)
	}
	return c
}

func (c *canvas) set(col, row int, g rune, color string) {
	if col < 0 || row < 0 || col >= c.cols || row >= c.rows {
		return
	}
	c.glyphs[row][col] = g
	c.colors[row][col] = color
}

// line draws a Bresenham line between two cells.
func (c *canvas) line(c0, r0, c1, r1 int, g rune, color string) {
	dc, dr := abs(c1-c0), -abs(r1-r0)
	sc, sr := 1, 1
	if c0 > c1 {
		sc = -1
	}
	if r0 > r1 {
		sr = -1
	}
	err := dc + dr
	for {
		c.set(c0, r0, g, color)
		if c0 == c1 && r0 == r1 {
			return
		}
		e2 := 2 * err
		if e2 >= dr {
			err += dr
			c0 += sc
		}
		if e2 <= dc {
			err += dc
			r0 += sr
		}
	}
}

// text writes s centred on col.
func (c *canvas) text(col, row int, s string, color string) {
	runes := []rune(s)
	start := col - len(runes)/2
	for i, r := range runes {
		c.set(start+i, row, r, color)
	}
}

// Lines returns the grid as plain text.
func (c *canvas) Lines() []string {
	out := make([]string, c.rows)
	for r, row := range c.glyphs {
		out[r] = string(row)
	}
	return out
}

// Render returns the grid with colours applied, one styled run per colour
// change.
func (c *canvas) Render() string {
	var b strings.Builder
	for r := range c.rows {
		if r > 0 {
			b.WriteByte('\n')
		}
		start := 0
		for col := 1; col <= c.cols; col++ {
			if col < c.cols && c.colors[r][col] == c.colors[r][start] {
				continue
			}
			run := string(c.glyphs[r][start:col])
			if color := c.colors[r][start]; color != "" {
				run = lipgloss.NewStyle().Foreground(lipgloss.Color(color)).Render(run)
			}
			b.WriteString(run)
			start = col
		}
	}
	return b.String()
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// =============================================================================
// Graph Drawing
// =============================================================================

// drawGraph rasterizes a snapshot onto a cols×rows canvas. Edges go first,
// then nodes in insertion order so later nodes stack on top.
func drawGraph(g graph.Graph, cols, rows int) *canvas {
	cv := newCanvas(cols, rows)
	cam := engine.Camera{Pan: engine.Vec{X: g.Camera.PanX, Y: g.Camera.PanY}, Zoom: g.Camera.Zoom}
	vw, vh := g.Viewport.Width, g.Viewport.Height
	toScreen := func(n graph.Node) engine.Vec {
		return cam.WorldToScreen(engine.Vec{X: n.X, Y: n.Y}, vw, vh)
	}

	byID := make(map[uint64]graph.Node, len(g.Nodes))
	for _, n := range g.Nodes {
		byID[n.ID] = n
	}
	for _, e := range g.Edges {
		from, to := toScreen(byID[e.From]), toScreen(byID[e.To])
		c0, r0 := screenToCell(from.X, from.Y)
		c1, r1 := screenToCell(to.X, to.Y)
		cv.line(c0, r0, c1, r1, glyphEdge, edgeColor)
	}

	for _, n := range g.Nodes {
		drawNode(cv, n, toScreen(n), cam.Zoom)
	}
	return cv
}

func drawNode(cv *canvas, n graph.Node, s engine.Vec, zoom float64) {
	r := n.Radius * zoom
	if n.Hovered {
		r *= hoverScale
	}
	color := n.Color

	minCol, minRow := screenToCell(s.X-r, s.Y-r)
	maxCol, maxRow := screenToCell(s.X+r, s.Y+r)
	minCol, minRow = max(minCol, 0), max(minRow, 0)
	maxCol, maxRow = min(maxCol, cv.cols-1), min(maxRow, cv.rows-1)
	centreCol, centreRow := screenToCell(s.X, s.Y)
	filled := false
	bottom := centreRow
	for row := minRow; row <= maxRow; row++ {
		for col := minCol; col <= maxCol; col++ {
			x, y := cellToScreen(col, row)
			if (x-s.X)*(x-s.X)+(y-s.Y)*(y-s.Y) <= r*r {
				cv.set(col, row, glyphNode, color)
				filled = true
				bottom = max(bottom, row)
			}
		}
	}
	if !filled {
		cv.set(centreCol, centreRow, glyphSmallNode, color)
	}
	if n.Unexpanded() {
		cv.set(centreCol, centreRow, glyphUnexpanded, color)
	}

	lc := labelColor
	if n.Hovered {
		lc = hoverColor
	}
	cv.text(centreCol, bottom+1, n.DisplayLabel(), lc)
}
