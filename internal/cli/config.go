package cli

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/matzehuels/dirgraph/pkg/engine"
	"github.com/matzehuels/dirgraph/pkg/errors"
)

// =============================================================================
// Config - config.toml
// =============================================================================

// Config is the on-disk configuration. Every field has a default, so a
// partial file only overrides what it names.
type Config struct {
	Graph   GraphConfig   `toml:"graph"`
	Physics PhysicsConfig `toml:"physics"`
	Camera  CameraConfig  `toml:"camera"`
	View    ViewConfig    `toml:"view"`
	Serve   ServeConfig   `toml:"serve"`
}

// GraphConfig controls what the lister returns.
type GraphConfig struct {
	ShowHidden bool `toml:"show_hidden"`
}

// PhysicsConfig mirrors engine.Params.
type PhysicsConfig struct {
	Repulsion  float64 `toml:"repulsion"`
	SpringK    float64 `toml:"spring_k"`
	RestLength float64 `toml:"rest_length"`
	Damping    float64 `toml:"damping"`
	MaxSpeed   float64 `toml:"max_speed"`
	Center     float64 `toml:"center"`
}

// CameraConfig holds the zoom limits.
type CameraConfig struct {
	MinZoom  float64 `toml:"min_zoom"`
	MaxZoom  float64 `toml:"max_zoom"`
	ZoomStep float64 `toml:"zoom_step"`
}

// ViewConfig controls the simulation clock of interactive hosts.
type ViewConfig struct {
	TickMS int `toml:"tick_ms"`
}

// ServeConfig configures the serve command.
type ServeConfig struct {
	Addr string `toml:"addr"`
}

// DefaultConfig returns the built-in configuration.
func DefaultConfig() Config {
	p := engine.DefaultParams()
	return Config{
		Physics: PhysicsConfig{
			Repulsion:  p.Repulsion,
			SpringK:    p.SpringK,
			RestLength: p.RestLength,
			Damping:    p.Damping,
			MaxSpeed:   p.MaxSpeed,
			Center:     p.Center,
		},
		Camera: CameraConfig{
			MinZoom:  engine.DefaultMinZoom,
			MaxZoom:  engine.DefaultMaxZoom,
			ZoomStep: engine.DefaultZoomStep,
		},
		View:  ViewConfig{TickMS: 16},
		Serve: ServeConfig{Addr: "127.0.0.1:7878"},
	}
}

// Params returns the physics section as engine parameters.
func (c Config) Params() engine.Params {
	return engine.Params{
		Repulsion:  c.Physics.Repulsion,
		SpringK:    c.Physics.SpringK,
		RestLength: c.Physics.RestLength,
		Damping:    c.Physics.Damping,
		MaxSpeed:   c.Physics.MaxSpeed,
		Center:     c.Physics.Center,
	}
}

// Tick returns the simulation step interval.
func (c Config) Tick() time.Duration {
	return time.Duration(c.View.TickMS) * time.Millisecond
}

// Validate checks every section.
func (c Config) Validate() error {
	if err := c.Params().Validate(); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "physics")
	}
	cam := c.Camera
	if cam.MinZoom <= 0 || cam.MaxZoom < cam.MinZoom {
		return errors.New(errors.ErrCodeInvalidConfig, "camera: zoom range [%g, %g] is invalid", cam.MinZoom, cam.MaxZoom)
	}
	if cam.ZoomStep <= 1 {
		return errors.New(errors.ErrCodeInvalidConfig, "camera: zoom_step must be greater than 1, got %g", cam.ZoomStep)
	}
	if c.View.TickMS <= 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "view: tick_ms must be positive, got %d", c.View.TickMS)
	}
	if err := errors.ValidateListenAddr(c.Serve.Addr); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "serve")
	}
	return nil
}

// =============================================================================
// Loading & Writing
// =============================================================================

// LoadConfig reads path from fs over the defaults. A missing file yields the
// defaults; a malformed file, an unknown key or an invalid value is an
// INVALID_CONFIG error.
func LoadConfig(fs afero.Fs, path string) (Config, error) {
	cfg := DefaultConfig()
	data, err := afero.ReadFile(fs, path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return cfg, errors.Wrap(errors.ErrCodeInvalidConfig, err, "read %s", path)
	}

	md, err := toml.Decode(string(data), &cfg)
	if err != nil {
		return DefaultConfig(), errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return DefaultConfig(), errors.New(errors.ErrCodeInvalidConfig, "%s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	if err := cfg.Validate(); err != nil {
		return DefaultConfig(), fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// WriteConfig encodes cfg to path on fs, creating parent directories. An existing
// file is only replaced when overwrite is set.
func WriteConfig(fs afero.Fs, path string, cfg Config, overwrite bool) error {
	if !overwrite {
		if _, err := fs.Stat(path); err == nil {
			return errors.New(errors.ErrCodeInvalidInput, "%s already exists (use --force to overwrite)", path)
		}
	}
	data, err := encodeConfig(cfg)
	if err != nil {
		return err
	}
	if err := fs.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	if err := afero.WriteFile(fs, path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

func encodeConfig(cfg Config) ([]byte, error) {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
		return nil, fmt.Errorf("encode config: %w", err)
	}
	return buf.Bytes(), nil
}

// =============================================================================
// Config Command
// =============================================================================

// configCommand creates the config command with init and show subcommands.
func (c *CLI) configCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the configuration file",
		Long: `Manage the dirgraph configuration file.

The file lives at $XDG_CONFIG_HOME/dirgraph/config.toml (or
~/.config/dirgraph/config.toml) unless --config names another path.`,
	}
	cmd.AddCommand(c.configInitCommand())
	cmd.AddCommand(c.configShowCommand())
	cmd.AddCommand(c.configPathCommand())
	return cmd
}

func (c *CLI) configInitCommand() *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write the default configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := c.resolveConfigPath()
			if err != nil {
				return err
			}
			if err := WriteConfig(c.Fs, path, DefaultConfig(), force); err != nil {
				return err
			}
			printSuccess("Wrote default configuration")
			printFile(path)
			return nil
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")
	return cmd
}

func (c *CLI) configShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			data, err := encodeConfig(cfg)
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}
}

func (c *CLI) configPathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the configuration file path",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := c.resolveConfigPath()
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	}
}
