package cli

import (
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/matzehuels/dirgraph/pkg/buildinfo"
	"github.com/matzehuels/dirgraph/pkg/engine"
	"github.com/matzehuels/dirgraph/pkg/errors"
	"github.com/matzehuels/dirgraph/pkg/listing"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "dirgraph"

	// configFile is the config file name inside the config directory.
	configFile = "config.toml"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	// Fs is the filesystem graphs and the config file are read from.
	Fs afero.Fs

	logOut     io.Writer // where Logger writes outside the explorer
	configPath string
	hidden     bool
}

// New creates a new CLI instance with a default logger over the host
// filesystem.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		Fs:     afero.NewOsFs(),
		logOut: w,
	}
}

// quietLogger discards log output until the returned func is called, which
// restores the writer the CLI was created with.
func (c *CLI) quietLogger() (restore func()) {
	out := c.logOut
	if out == nil {
		out = os.Stderr
	}
	c.Logger.SetOutput(io.Discard)
	return func() { c.Logger.SetOutput(out) }
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "Dirgraph explores a directory tree as a live force-directed graph",
		Long: `Dirgraph renders a directory as an interactive node graph. Directories
expand and collapse on click, files open with the system handler, and a
physics simulation keeps the layout readable.`,
		Version:       buildinfo.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			registerHooks(c.Logger)
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/dirgraph/config.toml)")
	root.PersistentFlags().BoolVar(&c.hidden, "hidden", false, "include hidden entries")

	root.AddCommand(c.exploreCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.exportCommand())
	root.AddCommand(c.configCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Engine Factory
// =============================================================================

// loadConfig reads the config file and applies flag overrides.
func (c *CLI) loadConfig() (Config, error) {
	path, err := c.resolveConfigPath()
	if err != nil {
		return Config{}, err
	}
	cfg, err := LoadConfig(c.Fs, path)
	if err != nil {
		return Config{}, err
	}
	if c.hidden {
		cfg.Graph.ShowHidden = true
	}
	c.Logger.Debug("config loaded", "path", path, "hidden", cfg.Graph.ShowHidden)
	return cfg, nil
}

// newEngine builds an engine rooted at root from cfg.
func (c *CLI) newEngine(cfg Config, root string) (*engine.Engine, error) {
	e, err := engine.New(root, engine.Options{
		Lister:        listing.NewFSLister(c.Fs),
		IncludeHidden: cfg.Graph.ShowHidden,
		Params:        cfg.Params(),
		MinZoom:       cfg.Camera.MinZoom,
		MaxZoom:       cfg.Camera.MaxZoom,
		ZoomStep:      cfg.Camera.ZoomStep,
		Logger:        c.Logger,
	})
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "build engine")
	}
	return e, nil
}

// resolveRoot turns the optional directory argument into an absolute path
// to an existing directory. No argument means the working directory.
func (c *CLI) resolveRoot(args []string) (string, error) {
	dir := "."
	if len(args) > 0 {
		dir = args[0]
	}
	if err := errors.ValidateRootPath(dir); err != nil {
		return "", err
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeInvalidPath, err, "resolve %s", dir)
	}
	fi, err := c.Fs.Stat(abs)
	if os.IsNotExist(err) {
		return "", errors.New(errors.ErrCodeFileNotFound, "no such directory: %s", abs)
	}
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeInvalidPath, err, "stat %s", abs)
	}
	if !fi.IsDir() {
		return "", errors.New(errors.ErrCodeInvalidPath, "not a directory: %s", abs)
	}
	return abs, nil
}

// =============================================================================
// Paths
// =============================================================================

// resolveConfigPath returns --config or the default config file path.
func (c *CLI) resolveConfigPath() (string, error) {
	if c.configPath != "" {
		return c.configPath, nil
	}
	dir, err := configDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, configFile), nil
}

// configDir returns the config directory using XDG standard (~/.config/dirgraph/).
func configDir() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName), nil
}
