package engine

// Mode is the state of the interaction controller.
type Mode int

const (
	// ModeIdle: no pointer gesture in progress.
	ModeIdle Mode = iota
	// ModePanning: the pointer went down on empty space and drags the camera.
	ModePanning
	// ModeDragging: the pointer went down on a node and moves it.
	ModeDragging
)

// String returns the mode name.
func (m Mode) String() string {
	switch m {
	case ModeIdle:
		return "idle"
	case ModePanning:
		return "panning"
	case ModeDragging:
		return "dragging"
	default:
		return "unknown"
	}
}

// EventKind tags the outcome of a click.
type EventKind int

const (
	// EventNone: the click did not hit a node.
	EventNone EventKind = iota
	// EventToggled: a directory node was expanded or collapsed.
	EventToggled
	// EventOpenRequested: a file node was clicked; the host should open Key.
	EventOpenRequested
)

// String returns the event kind name.
func (k EventKind) String() string {
	switch k {
	case EventNone:
		return "none"
	case EventToggled:
		return "toggled"
	case EventOpenRequested:
		return "open"
	default:
		return "unknown"
	}
}

// Event is the outward intent produced by a click. Node is set for toggles
// and open requests; Key only for open requests. Expanded reports the
// directory's state after a toggle.
type Event struct {
	Kind     EventKind
	Node     NodeID
	Key      string
	Expanded bool
}

// controller is the pointer state machine. Only the fields of the current
// mode are meaningful; leaving a mode clears them.
type controller struct {
	mode Mode

	// ModePanning
	startPointer Vec // screen space
	startPan     Vec

	// ModeDragging
	node       NodeID
	grabOffset Vec // pointer world position minus node centre at grab time
}

func (c *controller) reset() { *c = controller{} }

// held returns the node under a drag, if any.
func (c *controller) held() (NodeID, bool) {
	return c.node, c.mode == ModeDragging
}

func (e *Engine) pointerWorld(x, y float64) Vec {
	return e.camera.ScreenToWorld(x, y, e.viewport.X, e.viewport.Y)
}

// PointerDown starts a gesture at screen point (x, y): a node drag when the
// point hits a node, a camera pan otherwise. Ignored while a gesture is
// already active.
func (e *Engine) PointerDown(x, y float64) {
	if e.ctl.mode != ModeIdle {
		return
	}
	w := e.pointerWorld(x, y)
	if id, ok := NodeAt(e.store, w); ok {
		n, _ := e.store.Node(id)
		e.ctl = controller{mode: ModeDragging, node: id, grabOffset: w.Sub(n.Pos)}
		return
	}
	e.ctl = controller{mode: ModePanning, startPointer: Vec{x, y}, startPan: e.camera.Pan}
}

// PointerMove continues the active gesture. While dragging, the node follows
// the pointer, keeping the grab offset, and its velocity is zeroed. While
// panning, the camera moves by the pointer delta scaled by 1/zoom. While
// idle, it only updates the hovered node.
func (e *Engine) PointerMove(x, y float64) {
	switch e.ctl.mode {
	case ModeDragging:
		n, ok := e.store.Node(e.ctl.node)
		if !ok {
			// Collapsed away mid-gesture.
			e.ctl.reset()
			return
		}
		n.Pos = e.pointerWorld(x, y).Sub(e.ctl.grabOffset)
		n.Vel = Vec{}
	case ModePanning:
		delta := Vec{x, y}.Sub(e.ctl.startPointer)
		e.camera.Pan = e.ctl.startPan.Sub(delta.Scale(1 / e.camera.Zoom))
	default:
		e.hover(x, y)
	}
}

// PointerUp ends the active gesture and returns to idle. Physics resumes for
// a released node on the next Advance.
func (e *Engine) PointerUp() {
	e.ctl.reset()
}

// Click handles a press and release without an intervening drag. A click on
// a directory toggles it; a click on a file requests that the host open it.
// Clicks only count while idle; during a drag or pan they are ignored. The
// controller state is not changed.
func (e *Engine) Click(x, y float64) Event {
	if e.ctl.mode != ModeIdle {
		return Event{Kind: EventNone}
	}
	id, ok := NodeAt(e.store, e.pointerWorld(x, y))
	if !ok {
		return Event{Kind: EventNone}
	}
	n, _ := e.store.Node(id)
	if !n.IsDir {
		e.hooks.OnOpenRequested(n.Key)
		return Event{Kind: EventOpenRequested, Node: id, Key: n.Key}
	}
	if n.Expanded {
		e.Collapse(id)
	} else {
		e.Expand(id)
	}
	return Event{Kind: EventToggled, Node: id, Expanded: n.Expanded}
}

// Scroll zooms the camera; a negative delta zooms in. It never affects the
// controller state.
func (e *Engine) Scroll(delta float64) {
	e.camera.Scroll(delta)
}

// Mode returns the current controller state.
func (e *Engine) Mode() Mode { return e.ctl.mode }

func (e *Engine) hover(x, y float64) {
	e.hovered, e.hasHovered = NodeAt(e.store, e.pointerWorld(x, y))
}
