package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/matzehuels/dirgraph/pkg/engine"
	"github.com/matzehuels/dirgraph/pkg/errors"
	"github.com/matzehuels/dirgraph/pkg/graph"
	"github.com/matzehuels/dirgraph/pkg/render"
	"github.com/matzehuels/dirgraph/pkg/render/nodelink"
)

// Export formats.
const (
	formatJSON = "json"
	formatDOT  = "dot"
	formatSVG  = "svg"
	formatPNG  = "png"
	formatPDF  = "pdf"
)

var exportFormats = []string{formatJSON, formatDOT, formatSVG, formatPNG, formatPDF}

const (
	defaultSteps   = 300  // physics steps before the snapshot is taken
	defaultWidth   = 1200 // viewport width in pixels
	defaultHeight  = 900  // viewport height in pixels
	defaultPadding = 40   // fit-view padding in pixels
	defaultScale   = 2.0  // PNG scale factor
)

// exportOpts holds the command-line flags for the export command.
type exportOpts struct {
	output  string   // output file path, stdout when empty
	format  string   // json, dot, svg, png or pdf
	expand  []string // directories to expand after the root, in order
	steps   int      // physics steps
	width   float64  // viewport width
	height  float64  // viewport height
	keys    bool     // attach full paths as tooltips (dot, svg)
	scale   float64  // PNG scale factor
	padding float64  // fit-view padding
}

// exportCommand creates the export command that settles a graph headlessly
// and writes it to a file.
func (c *CLI) exportCommand() *cobra.Command {
	opts := exportOpts{
		format:  formatSVG,
		steps:   defaultSteps,
		width:   defaultWidth,
		height:  defaultHeight,
		scale:   defaultScale,
		padding: defaultPadding,
	}

	cmd := &cobra.Command{
		Use:   "export [dir]",
		Short: "Settle a directory graph and write it to a file",
		Long: `Build the graph of a directory without a display, let the physics settle
and write the result.

The root is always expanded. Each --expand path is expanded afterwards in the
order given; a path must already be in the graph when its turn comes, so list
parents before children.`,
		Example: `  # SVG of the current directory
  dirgraph export -o graph.svg

  # JSON snapshot with two levels open
  dirgraph export ~/src -f json --expand ~/src/pkg --expand ~/src/pkg/engine`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := errors.ValidateFormat(opts.format, exportFormats...)
			if err != nil {
				return err
			}
			opts.format = format
			if opts.steps < 0 {
				return errors.New(errors.ErrCodeInvalidInput, "steps must not be negative")
			}
			return c.runExport(cmd.Context(), args, &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default stdout)")
	cmd.Flags().StringVarP(&opts.format, "format", "f", opts.format, "output format: svg (default), json, dot, png, pdf")
	cmd.Flags().StringArrayVar(&opts.expand, "expand", nil, "directory to expand after the root (repeatable)")
	cmd.Flags().IntVar(&opts.steps, "steps", opts.steps, "physics steps before export")
	cmd.Flags().Float64Var(&opts.width, "width", opts.width, "viewport width")
	cmd.Flags().Float64Var(&opts.height, "height", opts.height, "viewport height")
	cmd.Flags().BoolVar(&opts.keys, "keys", false, "attach full paths as tooltips (dot, svg)")
	cmd.Flags().Float64Var(&opts.scale, "scale", opts.scale, "PNG scale factor")
	cmd.Flags().Float64Var(&opts.padding, "padding", opts.padding, "margin around the graph")

	return cmd
}

func (c *CLI) runExport(ctx context.Context, args []string, opts *exportOpts) error {
	logger := loggerFromContext(ctx)

	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	root, err := c.resolveRoot(args)
	if err != nil {
		return err
	}
	e, err := c.newEngine(cfg, root)
	if err != nil {
		return err
	}

	snap, err := settle(ctx, e, opts)
	if err != nil {
		return err
	}
	logger.Infof("Settled graph: %d nodes, %d edges", len(snap.Nodes), len(snap.Edges))

	data, err := encodeExport(ctx, snap, opts)
	if err != nil {
		return err
	}
	logger.Debugf("Generated %s: %d bytes", opts.format, len(data))

	out, err := openOutput(opts.output)
	if err != nil {
		return err
	}
	defer out.Close()
	if _, err := out.Write(data); err != nil {
		return err
	}
	if opts.output != "" {
		printSuccess("Exported %s", opts.format)
		printFile(opts.output)
	}
	return nil
}

// settle expands the requested directories, runs the simulation and frames
// the result.
func settle(ctx context.Context, e *engine.Engine, opts *exportOpts) (engine.Snapshot, error) {
	logger := loggerFromContext(ctx)

	e.Resize(opts.width, opts.height)
	e.Expand(e.Root())
	for _, p := range opts.expand {
		id, err := findNode(e, p)
		if err != nil {
			return engine.Snapshot{}, err
		}
		e.Expand(id)
	}

	prog := newProgress(logger)
	spinner := newSpinner(ctx, os.Stderr, fmt.Sprintf("Simulating 0/%d steps", opts.steps))
	spinner.Start()
	for i := range opts.steps {
		if i%50 == 0 {
			if spinner.Cancelled() {
				spinner.Stop()
				return engine.Snapshot{}, ctx.Err()
			}
			spinner.SetMessage(fmt.Sprintf("Simulating %d/%d steps", i, opts.steps))
		}
		e.Advance()
	}
	spinner.Stop()
	prog.done(fmt.Sprintf("Simulated %d steps", opts.steps))

	e.FitView(opts.padding)
	return e.Snapshot(), nil
}

// findNode returns the node whose key is path.
func findNode(e *engine.Engine, path string) (engine.NodeID, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return 0, errors.Wrap(errors.ErrCodeInvalidPath, err, "resolve %s", path)
	}
	for _, n := range e.Store().Nodes() {
		if n.Key == abs {
			return n.ID, nil
		}
	}
	return 0, errors.New(errors.ErrCodeNotFound, "%s is not in the graph (expand its parent first)", abs)
}

// encodeExport renders snap in the requested format.
func encodeExport(ctx context.Context, snap engine.Snapshot, opts *exportOpts) ([]byte, error) {
	if opts.format == formatJSON {
		return graph.MarshalSnapshot(snap)
	}

	if (opts.format == formatPNG || opts.format == formatPDF) && !render.Available() {
		return nil, errors.New(errors.ErrCodeUnsupported, "%s export needs rsvg-convert (librsvg) on PATH", opts.format)
	}

	dot := nodelink.ToDOT(graph.FromSnapshot(snap), nodelink.Options{Keys: opts.keys})
	switch opts.format {
	case formatDOT:
		return []byte(dot), nil
	case formatSVG:
		return nodelink.RenderSVG(ctx, dot)
	case formatPNG:
		return nodelink.RenderPNG(ctx, dot, opts.scale)
	case formatPDF:
		return nodelink.RenderPDF(ctx, dot)
	default:
		return nil, errors.New(errors.ErrCodeInvalidFormat, "unknown format: %s", opts.format)
	}
}

// =============================================================================
// Output Helpers
// =============================================================================

type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }

// openOutput opens path for writing, or stdout when path is empty.
func openOutput(path string) (io.WriteCloser, error) {
	if path == "" {
		return nopCloser{os.Stdout}, nil
	}
	return os.Create(path)
}
