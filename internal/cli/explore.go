package cli

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

// exploreCommand creates the explore command for browsing a directory in the
// terminal.
func (c *CLI) exploreCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "explore [dir]",
		Short: "Explore a directory as a live graph in the terminal",
		Long: `Explore a directory as a live force-directed graph in the terminal.

Click a directory to expand or collapse it and click a file to open it with
the system handler. Drag a node to move it, drag empty space to pan and use
the mouse wheel or +/- to zoom.`,
		Example: `  # Explore the current directory
  dirgraph explore

  # Explore a directory including dotfiles
  dirgraph explore ~/src --hidden`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runExplore(cmd.Context(), args)
		},
	}
	return cmd
}

func (c *CLI) runExplore(ctx context.Context, args []string) error {
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
	e.Expand(e.Root())

	m := NewExploreModel(e, cfg.Tick(), func(path string) { openFile(logger, path) })
	p := tea.NewProgram(m,
		tea.WithContext(ctx),
		tea.WithAltScreen(),
		tea.WithMouseAllMotion(),
	)

	// The alt screen owns the terminal until the program exits.
	defer c.quietLogger()()

	if _, err := p.Run(); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return err
	}
	return nil
}
