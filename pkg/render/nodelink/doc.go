// Package nodelink renders graph snapshots as node-link diagrams.
//
// # Overview
//
// Positions come from the force simulation, not from Graphviz: every node
// is emitted with a pinned pos attribute and the graph is laid out with
// neato, which keeps pinned nodes in place and only routes edges. The
// result matches what the interactive views showed at export time.
//
// # Usage
//
//	dot := nodelink.ToDOT(g, nodelink.Options{})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// For PDF or PNG output:
//
//	pdf, err := nodelink.RenderPDF(ctx, dot)
//	png, err := nodelink.RenderPNG(ctx, dot, 2.0)  // 2x scale
//
// # Styling
//
// Nodes are filled circles sized from the node radius and coloured by
// category. Labels are truncated to [graph.LabelMaxRunes]. Directories that
// have not been expanded get a dashed outline; with [Options.Keys] the full
// path is attached as a tooltip.
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// rendering. PDF and PNG conversion requires librsvg (rsvg-convert).
package nodelink
