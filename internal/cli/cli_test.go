package cli

import (
	"bytes"
	"context"
	"io"
	"math"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/spf13/afero"

	"github.com/matzehuels/dirgraph/pkg/errors"
	"github.com/matzehuels/dirgraph/pkg/graph"
	"github.com/matzehuels/dirgraph/pkg/observability"
)

// newTestCLI returns a CLI over an in-memory tree:
//
//	/home/alice/
//	  Documents/
//	    cv.pdf
//	    work/
//	  notes.txt
//	  .profile
func newTestCLI(t *testing.T) *CLI {
	t.Helper()
	fs := afero.NewMemMapFs()
	for _, dir := range []string{"/home/alice/Documents/work"} {
		if err := fs.MkdirAll(dir, 0o755); err != nil {
			t.Fatal(err)
		}
	}
	for _, f := range []string{"/home/alice/Documents/cv.pdf", "/home/alice/notes.txt", "/home/alice/.profile"} {
		if err := afero.WriteFile(fs, f, []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	t.Cleanup(observability.Reset)
	// RootCommand resets configPath to the flag default.
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	return &CLI{
		Logger:     log.New(io.Discard),
		Fs:         fs,
		configPath: filepath.Join(t.TempDir(), "config.toml"),
	}
}

func TestRootCommand(t *testing.T) {
	root := New(io.Discard, LogInfo).RootCommand()

	want := []string{"completion", "config", "explore", "export", "serve"}
	var got []string
	for _, cmd := range root.Commands() {
		got = append(got, cmd.Name())
	}
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Errorf("subcommands = %v, want %v", got, want)
	}
	for _, flag := range []string{"config", "hidden"} {
		if root.PersistentFlags().Lookup(flag) == nil {
			t.Errorf("missing --%s", flag)
		}
	}
}

func TestResolveRoot(t *testing.T) {
	c := newTestCLI(t)

	tests := []struct {
		name string
		arg  string
		want string
		code errors.Code
	}{
		{"Directory", "/home/alice", "/home/alice", ""},
		{"Cleaned", "/home/alice/Documents/../", "/home/alice", ""},
		{"Missing", "/home/bob", "", errors.ErrCodeFileNotFound},
		{"File", "/home/alice/notes.txt", "", errors.ErrCodeInvalidPath},
		{"Blank", "  ", "", errors.ErrCodeInvalidPath},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := c.resolveRoot([]string{tt.arg})
			if tt.code != "" {
				if !errors.Is(err, tt.code) {
					t.Errorf("resolveRoot(%q) error = %v, want %s", tt.arg, err, tt.code)
				}
				return
			}
			if err != nil || got != tt.want {
				t.Errorf("resolveRoot(%q) = %q, %v, want %q", tt.arg, got, err, tt.want)
			}
		})
	}
}

func TestLoadConfigHiddenFlag(t *testing.T) {
	c := newTestCLI(t)
	cfg, err := c.loadConfig()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Graph.ShowHidden {
		t.Error("hidden shown without the flag")
	}

	c.hidden = true
	cfg, _ = c.loadConfig()
	if !cfg.Graph.ShowHidden {
		t.Error("--hidden not applied")
	}

	e, err := c.newEngine(cfg, "/home/alice")
	if err != nil {
		t.Fatal(err)
	}
	e.Expand(e.Root())
	if n := e.Store().NodeCount(); n != 4 {
		t.Errorf("NodeCount() = %d with hidden entries, want 4", n)
	}
}

func TestNewEngineRejectsBadConfig(t *testing.T) {
	c := newTestCLI(t)
	cfg := DefaultConfig()
	cfg.Physics.Damping = 0
	if _, err := c.newEngine(cfg, "/home/alice"); !errors.Is(err, errors.ErrCodeInvalidConfig) {
		t.Errorf("newEngine() error = %v, want INVALID_CONFIG", err)
	}
}

func TestSettle(t *testing.T) {
	c := newTestCLI(t)
	e, err := c.newEngine(DefaultConfig(), "/home/alice")
	if err != nil {
		t.Fatal(err)
	}
	opts := &exportOpts{
		steps:   50,
		width:   defaultWidth,
		height:  defaultHeight,
		padding: defaultPadding,
		expand:  []string{"/home/alice/Documents"},
	}

	snap, err := settle(context.Background(), e, opts)
	if err != nil {
		t.Fatalf("settle() error = %v", err)
	}
	if len(snap.Nodes) != 5 || len(snap.Edges) != 4 {
		t.Errorf("snapshot has %d nodes, %d edges, want 5 and 4", len(snap.Nodes), len(snap.Edges))
	}
	for _, n := range snap.Nodes {
		if math.IsNaN(n.Pos.X) || math.IsNaN(n.Pos.Y) {
			t.Errorf("%s has a non-finite position", n.Label)
		}
	}

	opts.expand = []string{"/home/alice/Documents/work/deeper"}
	e, _ = c.newEngine(DefaultConfig(), "/home/alice")
	if _, err := settle(context.Background(), e, opts); !errors.Is(err, errors.ErrCodeNotFound) {
		t.Errorf("settle() with an absent path error = %v, want NOT_FOUND", err)
	}
}

func TestSettleCancelled(t *testing.T) {
	c := newTestCLI(t)
	e, _ := c.newEngine(DefaultConfig(), "/home/alice")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := settle(ctx, e, &exportOpts{steps: 10, width: 100, height: 100}); err != context.Canceled {
		t.Errorf("settle() error = %v, want context.Canceled", err)
	}
}

func TestEncodeExport(t *testing.T) {
	c := newTestCLI(t)
	e, _ := c.newEngine(DefaultConfig(), "/home/alice")
	snap, err := settle(context.Background(), e, &exportOpts{steps: 5, width: 800, height: 600})
	if err != nil {
		t.Fatal(err)
	}

	data, err := encodeExport(context.Background(), snap, &exportOpts{format: formatJSON})
	if err != nil {
		t.Fatalf("json: %v", err)
	}
	g, err := graph.ReadGraph(bytes.NewReader(data))
	if err != nil || len(g.Nodes) != 3 {
		t.Errorf("json decodes to %d nodes, %v", len(g.Nodes), err)
	}

	data, err = encodeExport(context.Background(), snap, &exportOpts{format: formatDOT, keys: true})
	if err != nil {
		t.Fatalf("dot: %v", err)
	}
	if !strings.HasPrefix(string(data), "graph G {") || !strings.Contains(string(data), "/home/alice/notes.txt") {
		t.Errorf("dot output:\n%s", data)
	}

	if _, err := encodeExport(context.Background(), snap, &exportOpts{format: "gif"}); !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("gif error = %v, want INVALID_FORMAT", err)
	}
}

func TestExportCommandValidatesFlags(t *testing.T) {
	tests := []struct {
		name string
		args []string
		code errors.Code
	}{
		{"BadFormat", []string{"export", "/home/alice", "-f", "bmp"}, errors.ErrCodeInvalidFormat},
		{"NegativeSteps", []string{"export", "/home/alice", "--steps", "-1"}, errors.ErrCodeInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestCLI(t)
			root := c.RootCommand()
			root.SetArgs(tt.args)
			root.SetOut(io.Discard)
			root.SetErr(io.Discard)
			if err := root.Execute(); !errors.Is(err, tt.code) {
				t.Errorf("Execute() error = %v, want %s", err, tt.code)
			}
		})
	}
}

func TestExportCommandWritesFile(t *testing.T) {
	c := newTestCLI(t)
	out := filepath.Join(t.TempDir(), "graph.json")

	root := c.RootCommand()
	root.SetArgs([]string{"export", "/home/alice", "-f", "JSON", "--steps", "20", "-o", out})
	if err := root.Execute(); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	g, err := graph.ReadGraphFile(out)
	if err != nil {
		t.Fatalf("ReadGraphFile() error = %v", err)
	}
	if len(g.Nodes) != 3 || g.Nodes[0].Label != "alice" {
		t.Errorf("exported %d nodes, first %q", len(g.Nodes), g.Nodes[0].Label)
	}
}

func TestConfigCommands(t *testing.T) {
	c := newTestCLI(t)
	path := c.configPath

	run := func(args ...string) (string, error) {
		var buf bytes.Buffer
		root := c.RootCommand()
		root.SetArgs(append(args, "--config", path))
		root.SetOut(&buf)
		root.SetErr(io.Discard)
		err := root.Execute()
		return buf.String(), err
	}

	if out, err := run("config", "path"); err != nil || strings.TrimSpace(out) != path {
		t.Errorf("config path = %q, %v", out, err)
	}
	if _, err := run("config", "init"); err != nil {
		t.Fatalf("config init: %v", err)
	}
	if _, err := c.Fs.Stat(path); err != nil {
		t.Fatalf("config file not written to the CLI filesystem: %v", err)
	}
	if _, err := run("config", "init"); err == nil {
		t.Error("second config init should refuse to overwrite")
	}
	if _, err := run("config", "init", "--force"); err != nil {
		t.Errorf("config init --force: %v", err)
	}

	out, err := run("config", "show")
	if err != nil {
		t.Fatalf("config show: %v", err)
	}
	for _, section := range []string{"[graph]", "[physics]", "[camera]", "[view]", "[serve]", "rest_length = 120.0"} {
		if !strings.Contains(out, section) {
			t.Errorf("config show missing %q:\n%s", section, out)
		}
	}
}
