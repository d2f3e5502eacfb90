package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/dirgraph/pkg/graph"
	"github.com/matzehuels/dirgraph/pkg/render"
)

// Options configures node-link diagram rendering.
type Options struct {
	// Keys attaches each node's full path as a tooltip.
	Keys bool

	// Background is the canvas colour. Empty means transparent.
	Background string
}

// ToDOT converts a graph to Graphviz DOT with every node pinned at its
// world position. World y grows downwards like the screen, so it is negated
// for Graphviz.
func ToDOT(g graph.Graph, opts Options) string {
	bg := opts.Background
	if bg == "" {
		bg = "transparent"
	}

	var buf bytes.Buffer
	buf.WriteString("graph G {\n")
	buf.WriteString("  inputscale=72;\n")
	buf.WriteString("  splines=false;\n")
	buf.WriteString("  forcelabels=true;\n")
	fmt.Fprintf(&buf, "  bgcolor=%q;\n", bg)
	buf.WriteString("  node [shape=circle, style=filled, fixedsize=true, fontsize=10, fontcolor=\"#cdd6f4\", penwidth=0];\n")
	buf.WriteString("  edge [color=\"#585b70\", penwidth=1.5];\n")
	buf.WriteString("\n")

	for i := range g.Nodes {
		n := &g.Nodes[i]
		fmt.Fprintf(&buf, "  n%d [%s];\n", n.ID, strings.Join(fmtAttrs(n, opts), ", "))
	}

	buf.WriteString("\n")
	for _, e := range g.Edges {
		fmt.Fprintf(&buf, "  n%d -- n%d;\n", e.From, e.To)
	}

	buf.WriteString("}\n")
	return buf.String()
}

func fmtAttrs(n *graph.Node, opts Options) []string {
	diameter := 2 * n.Radius / 72
	if n.Hovered {
		diameter *= 1.2
	}
	attrs := []string{
		`label=""`,
		fmt.Sprintf("xlabel=%q", n.DisplayLabel()),
		fmt.Sprintf("pos=\"%s,%s!\"", fmtCoord(n.X), fmtCoord(-n.Y)),
		fmt.Sprintf("width=%s", fmtCoord(diameter)),
		fmt.Sprintf("fillcolor=%q", n.Color),
	}
	if n.Unexpanded() {
		attrs = append(attrs, "style=\"filled,dashed\"", "penwidth=1.5", "color=\"#cdd6f4\"")
	}
	if opts.Keys {
		attrs = append(attrs, fmt.Sprintf("tooltip=%q", n.Key))
	}
	return attrs
}

func fmtCoord(v float64) string {
	if v == 0 {
		v = 0 // no "-0.00"
	}
	return strconv.FormatFloat(v, 'f', 2, 64)
}

// RenderSVG renders a DOT graph to SVG using Graphviz's neato engine, which
// honours pinned positions.
// Returns the SVG bytes ready for display or further conversion with [render.ToPDF] or [render.ToPNG].
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()
	gv.SetLayout(graphviz.NEATO)

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	newSvg := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)

	return svgTagRe.ReplaceAll(svg, []byte(newSvg))
}

// RenderPDF renders a DOT graph as PDF via SVG conversion.
//
// Requires librsvg: brew install librsvg (macOS), apt install librsvg2-bin (Linux).
func RenderPDF(ctx context.Context, dot string) ([]byte, error) {
	svg, err := RenderSVG(ctx, dot)
	if err != nil {
		return nil, err
	}
	return render.ToPDF(ctx, svg)
}

// RenderPNG renders a DOT graph as PNG via SVG conversion.
//
// A scale of 2.0 produces a 2x resolution image suitable for high-DPI displays.
//
// Requires librsvg: brew install librsvg (macOS), apt install librsvg2-bin (Linux).
func RenderPNG(ctx context.Context, dot string, scale float64) ([]byte, error) {
	svg, err := RenderSVG(ctx, dot)
	if err != nil {
		return nil, err
	}
	return render.ToPNG(ctx, svg, scale)
}
