package graph

import (
	"encoding/json"
	"fmt"

	"github.com/matzehuels/dirgraph/pkg/engine"
)

// Label length used by renderers before truncating with an ellipsis.
const LabelMaxRunes = 18

// =============================================================================
// Graph - Snapshot Serialization
// =============================================================================

// Graph is the canonical serialization format for engine snapshots.
// Used for the serve API, websocket frames, and `export -f json`.
//
// Nodes keep the engine's insertion order so a consumer drawing them in
// sequence gets the same stacking as the terminal renderer.
type Graph struct {
	Nodes    []Node `json:"nodes"`
	Edges    []Edge `json:"edges"`
	Camera   Camera `json:"camera"`
	Viewport Size   `json:"viewport"`
	Mode     string `json:"mode,omitempty"`
}

// =============================================================================
// Node - Positioned Filesystem Entry
// =============================================================================

// Node is one positioned entry. Label is the full entry name; renderers
// shorten it with [engine.TruncateLabel].
type Node struct {
	ID       uint64  `json:"id"`
	Label    string  `json:"label"`
	Key      string  `json:"key"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Radius   float64 `json:"radius"`
	Category string  `json:"category"`
	Color    string  `json:"color"`
	Dir      bool    `json:"dir,omitempty"`
	Expanded bool    `json:"expanded,omitempty"`
	Hovered  bool    `json:"hovered,omitempty"`
}

// DisplayLabel returns the label shortened for drawing.
func (n *Node) DisplayLabel() string {
	return engine.TruncateLabel(n.Label, LabelMaxRunes)
}

// Unexpanded reports whether the node is a directory whose children have not
// been loaded yet. Renderers mark these.
func (n *Node) Unexpanded() bool { return n.Dir && !n.Expanded }

// =============================================================================
// Edge - Parent to Child Link
// =============================================================================

// Edge links a directory to one of its children by node ID.
type Edge struct {
	From uint64 `json:"from"`
	To   uint64 `json:"to"`
}

// Camera is the view transform at snapshot time.
type Camera struct {
	PanX float64 `json:"pan_x"`
	PanY float64 `json:"pan_y"`
	Zoom float64 `json:"zoom"`
}

// Size is a viewport size in screen units.
type Size struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// =============================================================================
// Snapshot ↔ Graph Conversion
// =============================================================================

// FromSnapshot converts an engine snapshot to its serialization format.
func FromSnapshot(s engine.Snapshot) Graph {
	out := Graph{
		Nodes:    make([]Node, len(s.Nodes)),
		Edges:    make([]Edge, len(s.Edges)),
		Camera:   Camera{PanX: s.Camera.Pan.X, PanY: s.Camera.Pan.Y, Zoom: s.Camera.Zoom},
		Viewport: Size{Width: s.Viewport.X, Height: s.Viewport.Y},
		Mode:     s.Mode.String(),
	}
	for i, n := range s.Nodes {
		out.Nodes[i] = nodeFromView(n)
	}
	for i, e := range s.Edges {
		out.Edges[i] = Edge{From: uint64(e.From), To: uint64(e.To)}
	}
	return out
}

// Validate checks that every edge joins two nodes present in the graph and
// that node IDs are unique.
func (g Graph) Validate() error {
	ids := make(map[uint64]bool, len(g.Nodes))
	for _, n := range g.Nodes {
		if ids[n.ID] {
			return fmt.Errorf("duplicate node id %d", n.ID)
		}
		ids[n.ID] = true
	}
	for _, e := range g.Edges {
		if !ids[e.From] || !ids[e.To] {
			return fmt.Errorf("edge %d→%d references a missing node", e.From, e.To)
		}
	}
	return nil
}

// Node returns the node with the given ID.
func (g Graph) Node(id uint64) (Node, bool) {
	for _, n := range g.Nodes {
		if n.ID == id {
			return n, true
		}
	}
	return Node{}, false
}

// UnmarshalGraph deserializes JSON bytes to a Graph.
func UnmarshalGraph(data []byte) (Graph, error) {
	var g Graph
	if err := json.Unmarshal(data, &g); err != nil {
		return Graph{}, err
	}
	return g, nil
}

// =============================================================================
// Internal Helpers
// =============================================================================

// nodeFromView is the single point of conversion for engine node views.
func nodeFromView(v engine.NodeView) Node {
	return Node{
		ID:       uint64(v.ID),
		Label:    v.Label,
		Key:      v.Key,
		X:        v.Pos.X,
		Y:        v.Pos.Y,
		Radius:   v.Radius,
		Category: string(v.Category),
		Color:    v.Category.Hex(),
		Dir:      v.IsDir,
		Expanded: v.Expanded,
		Hovered:  v.Hovered,
	}
}
