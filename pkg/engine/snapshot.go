package engine

// NodeView is the render-facing copy of a node.
type NodeView struct {
	ID       NodeID
	Label    string
	Key      string
	Pos      Vec
	Radius   float64
	Category Category
	IsDir    bool
	Expanded bool
	Hovered  bool
}

// CameraView is the render-facing copy of the camera.
type CameraView struct {
	Pan  Vec
	Zoom float64
}

// Snapshot is a read-only copy of the engine state, taken between mutations.
// Nodes are in insertion order, so later nodes draw on top.
type Snapshot struct {
	Nodes    []NodeView
	Edges    []Edge
	Camera   CameraView
	Viewport Vec
	Mode     Mode
}

// Snapshot copies the current state for a renderer. It never mutates the
// engine.
func (e *Engine) Snapshot() Snapshot {
	nodes := e.store.Nodes()
	views := make([]NodeView, len(nodes))
	for i, n := range nodes {
		views[i] = NodeView{
			ID:       n.ID,
			Label:    n.Label,
			Key:      n.Key,
			Pos:      n.Pos,
			Radius:   n.Radius,
			Category: n.Category,
			IsDir:    n.IsDir,
			Expanded: n.Expanded,
			Hovered:  e.hasHovered && e.hovered == n.ID,
		}
	}
	return Snapshot{
		Nodes:    views,
		Edges:    e.store.Edges(),
		Camera:   CameraView{Pan: e.camera.Pan, Zoom: e.camera.Zoom},
		Viewport: e.viewport,
		Mode:     e.ctl.mode,
	}
}

// Node returns the view of a node by ID.
func (s Snapshot) Node(id NodeID) (NodeView, bool) {
	for _, n := range s.Nodes {
		if n.ID == id {
			return n, true
		}
	}
	return NodeView{}, false
}

// TruncateLabel shortens a label to at most max runes, ending with an
// ellipsis when cut.
func TruncateLabel(s string, max int) string {
	r := []rune(s)
	if len(r) <= max || max < 1 {
		return s
	}
	return string(r[:max-1]) + "…"
}
