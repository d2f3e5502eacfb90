// Package render provides static rendering of graph snapshots.
//
// # Overview
//
// The interactive views draw snapshots themselves (the terminal explorer
// rasterizes into cells, remote clients draw the JSON frames). This package
// covers the headless path used by `dirgraph export`:
//
//   - Node-link diagrams with pinned positions (in [nodelink] subpackage)
//   - Generic format conversion (SVG to PDF/PNG)
//
// # Format Conversion
//
// The [ToPDF] and [ToPNG] functions convert any SVG to other formats using
// the external rsvg-convert tool (from librsvg).
//
//	svg, err := nodelink.RenderSVG(ctx, dot)
//	pdf, err := render.ToPDF(ctx, svg)
//	png, err := render.ToPNG(ctx, svg, 2.0)  // 2x scale
//
// [nodelink]: github.com/matzehuels/dirgraph/pkg/render/nodelink
package render
