package engine

import (
	"math"
	"testing"
)

func TestNewRejectsInvalidParams(t *testing.T) {
	p := DefaultParams()
	p.Damping = 1.5
	if _, err := New("/", Options{Params: p}); err == nil {
		t.Error("New() accepted damping 1.5")
	}
}

func TestOptionsDefaults(t *testing.T) {
	o := Options{}.withDefaults()
	if o.Params != DefaultParams() {
		t.Errorf("Params = %+v", o.Params)
	}
	if o.MinZoom != DefaultMinZoom || o.MaxZoom != DefaultMaxZoom || o.ZoomStep != DefaultZoomStep {
		t.Errorf("zoom = %v/%v/%v", o.MinZoom, o.MaxZoom, o.ZoomStep)
	}
	if o.SpawnRadius != DefaultSpawnRadius || o.SpawnJitter != DefaultSpawnJitter {
		t.Errorf("spawn = %v/%v", o.SpawnRadius, o.SpawnJitter)
	}
	if o.Logger == nil || o.Hooks == nil {
		t.Error("Logger and Hooks should default")
	}

	if got := (Options{SpawnJitter: -1}).withDefaults().SpawnJitter; got != 0 {
		t.Errorf("negative SpawnJitter -> %v, want 0", got)
	}
}

func TestNewEngineState(t *testing.T) {
	e := newTestEngine(t, aliceTree())
	if e.Store().NodeCount() != 1 || e.Store().EdgeCount() != 0 {
		t.Errorf("fresh engine has %d nodes, %d edges", e.Store().NodeCount(), e.Store().EdgeCount())
	}
	if e.Mode() != ModeIdle || !e.PhysicsEnabled() {
		t.Errorf("mode %v physics %v", e.Mode(), e.PhysicsEnabled())
	}
	if e.Camera().Zoom != 1 || e.Camera().Pan != (Vec{}) {
		t.Errorf("camera = %+v", e.Camera())
	}
	if e.Params() != DefaultParams() {
		t.Errorf("Params = %+v", e.Params())
	}
}

func TestResize(t *testing.T) {
	e := newTestEngine(t, aliceTree())
	e.Resize(1024, 768)
	if e.Viewport() != (Vec{1024, 768}) {
		t.Errorf("Viewport = %v", e.Viewport())
	}
	e.Resize(0, 100)
	e.Resize(-5, -5)
	if e.Viewport() != (Vec{1024, 768}) {
		t.Errorf("non-positive resize applied: %v", e.Viewport())
	}
}

func TestExpandCollapseIgnoreUnknown(t *testing.T) {
	hooks := &recordingHooks{}
	e := newTestEngine(t, aliceTree())
	e.hooks = hooks
	e.Expand(999)
	e.Collapse(999)
	e.Collapse(e.Root())
	if hooks.expanded != "" || hooks.removed != 0 {
		t.Errorf("hooks fired for no-ops: %+v", hooks)
	}
}

func TestPhysicsToggle(t *testing.T) {
	e := newTestEngine(t, aliceTree())
	e.Expand(e.Root())
	before := e.Snapshot()

	e.SetPhysicsEnabled(false)
	for range 10 {
		e.Advance()
	}
	after := e.Snapshot()
	for i := range before.Nodes {
		if before.Nodes[i].Pos != after.Nodes[i].Pos {
			t.Fatalf("%s moved while paused", before.Nodes[i].Label)
		}
	}

	e.SetPhysicsEnabled(true)
	e.Advance()
	moved := false
	for i, n := range e.Snapshot().Nodes {
		if n.Pos != before.Nodes[i].Pos {
			moved = true
		}
	}
	if !moved {
		t.Error("nothing moved after resuming")
	}
}

func TestResetCamera(t *testing.T) {
	e := newTestEngine(t, aliceTree())
	e.Scroll(-1)
	e.PointerDown(0, 0)
	e.PointerMove(50, 50)
	e.PointerUp()

	e.ResetCamera()
	if c := e.Camera(); c.Zoom != 1 || c.Pan != (Vec{}) {
		t.Errorf("camera after reset = %+v", c)
	}
}

func TestFitView(t *testing.T) {
	e := newTestEngine(t, aliceTree())
	e.Expand(e.Root())
	docs := findByLabel(t, e.Store(), "Documents")
	notes := findByLabel(t, e.Store(), "notes.txt")
	docs.Pos = Vec{1000, 0}
	notes.Pos = Vec{-1000, 0}

	e.FitView(20)
	c := e.Camera()
	if c.Zoom >= 1 || c.Zoom < c.MinZoom {
		t.Errorf("Zoom = %v, want zoomed out within limits", c.Zoom)
	}
	for _, n := range e.Store().Nodes() {
		for _, edge := range []Vec{n.Pos.Sub(Vec{n.Radius, n.Radius}), n.Pos.Add(Vec{n.Radius, n.Radius})} {
			s := c.WorldToScreen(edge, 800, 600)
			if s.X < 19.999 || s.X > 780.001 || s.Y < 0 || s.Y > 600 {
				t.Errorf("%s edge at screen %v outside the padded viewport", n.Label, s)
			}
		}
	}
}

func TestFitViewSingleNodeClampsZoom(t *testing.T) {
	e := newTestEngine(t, aliceTree())
	e.FitView(0)
	if c := e.Camera(); c.Zoom != DefaultMaxZoom || math.Abs(c.Pan.X) > 1e-9 {
		t.Errorf("camera = %+v, want max zoom centred on root", c)
	}
}

func TestSnapshot(t *testing.T) {
	e := newTestEngine(t, aliceTree())
	e.Expand(e.Root())
	e.Scroll(-1)

	snap := e.Snapshot()
	if len(snap.Nodes) != 3 || len(snap.Edges) != 2 {
		t.Fatalf("snapshot has %d nodes, %d edges", len(snap.Nodes), len(snap.Edges))
	}
	if snap.Nodes[0].ID != e.Root() || snap.Nodes[0].Label != "alice" || !snap.Nodes[0].Expanded {
		t.Errorf("first node = %+v, want expanded root", snap.Nodes[0])
	}
	if snap.Camera.Zoom != e.Camera().Zoom || snap.Viewport != (Vec{800, 600}) || snap.Mode != ModeIdle {
		t.Errorf("snapshot camera/viewport/mode = %+v/%v/%v", snap.Camera, snap.Viewport, snap.Mode)
	}
	for _, v := range snap.Nodes[1:] {
		switch v.Label {
		case "Documents":
			if !v.IsDir || v.Category != CategoryDirectory || v.Radius != DirRadius {
				t.Errorf("Documents view = %+v", v)
			}
		case "notes.txt":
			if v.IsDir || v.Category != CategoryText || v.Radius != FileRadius {
				t.Errorf("notes.txt view = %+v", v)
			}
		default:
			t.Errorf("unexpected node %q", v.Label)
		}
	}

	// Snapshots are copies.
	snap.Nodes[0].Pos = Vec{999, 999}
	snap.Edges[0] = Edge{}
	if n, _ := e.Store().Node(e.Root()); n.Pos == (Vec{999, 999}) {
		t.Error("snapshot node aliases the store")
	}
	if e.Store().Edges()[0] == (Edge{}) {
		t.Error("snapshot edges alias the store")
	}

	if _, ok := snap.Node(12345); ok {
		t.Error("Snapshot.Node(unknown) found a node")
	}
}

func TestSnapshotMode(t *testing.T) {
	e := newTestEngine(t, aliceTree())
	e.PointerDown(400, 300)
	if e.Snapshot().Mode != ModeDragging {
		t.Errorf("Mode = %v", e.Snapshot().Mode)
	}
}

func TestTruncateLabel(t *testing.T) {
	tests := []struct {
		in   string
		max  int
		want string
	}{
		{"notes.txt", 18, "notes.txt"},
		{"exactly-eighteen-x", 18, "exactly-eighteen-x"},
		{"a-very-long-file-name.txt", 18, "a-very-long-file-…"},
		{"日本語のファイル名です", 5, "日本語の…"},
		{"anything", 0, "anything"},
	}
	for _, tt := range tests {
		if got := TruncateLabel(tt.in, tt.max); got != tt.want {
			t.Errorf("TruncateLabel(%q, %d) = %q, want %q", tt.in, tt.max, got, tt.want)
		}
	}
}

func TestCategoryFor(t *testing.T) {
	tests := []struct {
		isDir bool
		ext   string
		want  Category
	}{
		{true, "", CategoryDirectory},
		{true, "rs", CategoryDirectory},
		{false, "rs", CategoryRust},
		{false, "RS", CategoryOther},
		{false, "py", CategoryPython},
		{false, "png", CategoryImage},
		{false, "txt", CategoryText},
		{false, "", CategoryOther},
		{false, "xyz", CategoryOther},
	}
	for _, tt := range tests {
		if got := CategoryFor(tt.isDir, tt.ext); got != tt.want {
			t.Errorf("CategoryFor(%v, %q) = %v, want %v", tt.isDir, tt.ext, got, tt.want)
		}
	}
	if CategoryDirectory.Hex() == CategoryOther.Hex() {
		t.Error("directory and other share a colour")
	}
}
