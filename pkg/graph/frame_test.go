package graph

import (
	"encoding/json"
	"testing"

	"github.com/matzehuels/dirgraph/pkg/engine"
)

func TestInputApply(t *testing.T) {
	e := testEngine(t)

	steps := []struct {
		in    Input
		check func(t *testing.T, ev engine.Event)
	}{
		{Input{Type: InputResize, Width: 1000, Height: 500}, func(t *testing.T, _ engine.Event) {
			if e.Viewport() != (engine.Vec{X: 1000, Y: 500}) {
				t.Errorf("Viewport = %v", e.Viewport())
			}
		}},
		{Input{Type: InputScroll, Delta: -1}, func(t *testing.T, _ engine.Event) {
			if z := e.Camera().Zoom; z < 1.09 || z > 1.11 {
				t.Errorf("Zoom = %v", z)
			}
		}},
		{Input{Type: InputReset}, func(t *testing.T, _ engine.Event) {
			if e.Camera().Zoom != 1 {
				t.Errorf("Zoom = %v after reset", e.Camera().Zoom)
			}
		}},
		{Input{Type: InputDown, X: 10, Y: 10}, func(t *testing.T, _ engine.Event) {
			if e.Mode() != engine.ModePanning {
				t.Errorf("Mode = %v", e.Mode())
			}
		}},
		{Input{Type: InputMove, X: 20, Y: 10}, func(t *testing.T, _ engine.Event) {
			if e.Camera().Pan.X != -10 {
				t.Errorf("Pan = %v", e.Camera().Pan)
			}
		}},
		{Input{Type: InputUp}, func(t *testing.T, _ engine.Event) {
			if e.Mode() != engine.ModeIdle {
				t.Errorf("Mode = %v", e.Mode())
			}
		}},
		{Input{Type: InputReset}, nil},
		{Input{Type: InputClick, X: 500, Y: 250}, func(t *testing.T, ev engine.Event) {
			if ev.Kind != engine.EventToggled || ev.Expanded {
				t.Errorf("click on root = %+v, want collapse", ev)
			}
		}},
		{Input{Type: InputPhysics, Enabled: false}, func(t *testing.T, _ engine.Event) {
			if e.PhysicsEnabled() {
				t.Error("physics still enabled")
			}
		}},
		{Input{Type: InputFit, Padding: 10}, func(t *testing.T, _ engine.Event) {
			if e.Camera().Zoom != engine.DefaultMaxZoom {
				t.Errorf("Zoom = %v after fitting a single node", e.Camera().Zoom)
			}
		}},
	}

	for _, st := range steps {
		ev, err := st.in.Apply(e)
		if err != nil {
			t.Fatalf("Apply(%s): %v", st.in.Type, err)
		}
		if st.in.Type != InputClick && ev.Kind != engine.EventNone {
			t.Errorf("Apply(%s) event = %v", st.in.Type, ev.Kind)
		}
		if st.check != nil {
			st.check(t, ev)
		}
	}
}

func TestInputApplyUnknown(t *testing.T) {
	e := testEngine(t)
	if _, err := (Input{Type: "teleport"}).Apply(e); err == nil {
		t.Error("expected error for unknown input type")
	}
}

func TestUnmarshalInput(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		want    Input
		wantErr bool
	}{
		{"Click", `{"type":"click","x":3,"y":4}`, Input{Type: InputClick, X: 3, Y: 4}, false},
		{"Physics", `{"type":"physics","enabled":true}`, Input{Type: InputPhysics, Enabled: true}, false},
		{"MissingType", `{"x":1}`, Input{}, true},
		{"Malformed", `{"type":`, Input{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := UnmarshalInput([]byte(tt.data))
			if (err != nil) != tt.wantErr {
				t.Fatalf("UnmarshalInput() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("UnmarshalInput() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestFrames(t *testing.T) {
	e := testEngine(t)

	f := SnapshotFrame(7, e.Snapshot())
	if f.Type != FrameSnapshot || f.Seq != 7 || f.Graph == nil || len(f.Graph.Nodes) != 3 {
		t.Errorf("SnapshotFrame = %+v", f)
	}

	ev := EventFrame(8, engine.Event{Kind: engine.EventOpenRequested, Node: 2, Key: "/home/alice/notes.txt"})
	if ev.Event == nil || ev.Event.Kind != "open" || ev.Event.Key != "/home/alice/notes.txt" {
		t.Errorf("EventFrame = %+v", ev)
	}

	data, err := json.Marshal(ErrorFrame(9, errString("boom")))
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != `{"type":"error","seq":9,"error":"boom"}` {
		t.Errorf("ErrorFrame JSON = %s", data)
	}
}

type errString string

func (e errString) Error() string { return string(e) }
