package engine

import (
	"math"
	"math/rand/v2"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/dirgraph/pkg/listing"
	"github.com/matzehuels/dirgraph/pkg/observability"
)

// Options configures an [Engine]. Zero fields take the defaults.
type Options struct {
	// Lister supplies directory children.
	Lister listing.Lister

	// IncludeHidden lists dotfiles too.
	IncludeHidden bool

	// Params are the simulation constants. The zero value selects
	// DefaultParams; anything else must pass Params.Validate.
	Params Params

	// Zoom limits and per-scroll factor.
	MinZoom  float64
	MaxZoom  float64
	ZoomStep float64

	// Placement of new children. A negative SpawnJitter disables jitter.
	SpawnRadius float64
	SpawnJitter float64

	// Rand drives placement jitter; nil seeds randomly.
	Rand *rand.Rand

	// Logger receives debug logs of structural changes.
	Logger *log.Logger

	// Hooks receives graph events. Nil uses the registered global hooks.
	Hooks observability.GraphHooks
}

func (o Options) withDefaults() Options {
	if o.Params == (Params{}) {
		o.Params = DefaultParams()
	}
	if o.MinZoom == 0 {
		o.MinZoom = DefaultMinZoom
	}
	if o.MaxZoom == 0 {
		o.MaxZoom = DefaultMaxZoom
	}
	if o.ZoomStep == 0 {
		o.ZoomStep = DefaultZoomStep
	}
	if o.SpawnRadius == 0 {
		o.SpawnRadius = DefaultSpawnRadius
	}
	switch {
	case o.SpawnJitter == 0:
		o.SpawnJitter = DefaultSpawnJitter
	case o.SpawnJitter < 0:
		o.SpawnJitter = 0
	}
	if o.Logger == nil {
		o.Logger = log.Default()
	}
	if o.Hooks == nil {
		o.Hooks = observability.Graph()
	}
	return o
}

// Engine is the interactive graph: it owns the store, the simulation
// parameters, the camera, the pointer controller and the viewport size.
//
// Every method runs synchronously and returns before the next call can be
// made; the caller serializes all access.
type Engine struct {
	store   *Store
	params  Params
	camera  Camera
	ctl     controller
	physics bool

	viewport   Vec
	hovered    NodeID
	hasHovered bool

	logger *log.Logger
	hooks  observability.GraphHooks
}

// New creates an engine whose graph holds a single unexpanded root node for
// rootKey. It fails only when opts.Params are invalid.
func New(rootKey string, opts Options) (*Engine, error) {
	opts = opts.withDefaults()
	if err := opts.Params.Validate(); err != nil {
		return nil, err
	}

	e := &Engine{
		store: NewStore(StoreConfig{
			Lister:        opts.Lister,
			IncludeHidden: opts.IncludeHidden,
			SpawnRadius:   opts.SpawnRadius,
			SpawnJitter:   opts.SpawnJitter,
			Rand:          opts.Rand,
		}),
		params:  opts.Params,
		camera:  NewCamera(opts.MinZoom, opts.MaxZoom, opts.ZoomStep),
		physics: true,
		logger:  opts.Logger,
		hooks:   opts.Hooks,
	}
	e.store.AddRoot(rootKey)
	return e, nil
}

// Root returns the root node ID.
func (e *Engine) Root() NodeID {
	id, _ := e.store.Root()
	return id
}

// Store exposes the graph store for read access and tests.
func (e *Engine) Store() *Store { return e.store }

// Camera returns a copy of the camera.
func (e *Engine) Camera() Camera { return e.camera }

// Params returns the simulation constants.
func (e *Engine) Params() Params { return e.params }

// Resize sets the viewport size in screen units. Non-positive sizes are
// ignored.
func (e *Engine) Resize(width, height float64) {
	if width > 0 && height > 0 {
		e.viewport = Vec{width, height}
	}
}

// Viewport returns the viewport size.
func (e *Engine) Viewport() Vec { return e.viewport }

// Expand materializes the children of a directory node. Unknown, file and
// already expanded nodes are ignored.
func (e *Engine) Expand(id NodeID) {
	n, ok := e.store.Node(id)
	if !ok {
		return
	}
	start := time.Now()
	added, ok := e.store.Expand(id)
	if !ok {
		return
	}
	elapsed := time.Since(start)
	e.logger.Debug("expanded", "key", n.Key, "children", added, "nodes", e.store.NodeCount(), "took", elapsed)
	e.hooks.OnExpand(n.Key, added, elapsed)
}

// Collapse removes the subtree below an expanded node. Unknown and collapsed
// nodes are ignored.
func (e *Engine) Collapse(id NodeID) {
	n, ok := e.store.Node(id)
	if !ok {
		return
	}
	removed, ok := e.store.Collapse(id)
	if !ok {
		return
	}
	if e.hasHovered {
		if _, live := e.store.Node(e.hovered); !live {
			e.hasHovered = false
		}
	}
	if held, dragging := e.ctl.held(); dragging {
		if _, live := e.store.Node(held); !live {
			e.ctl.reset()
		}
	}
	e.logger.Debug("collapsed", "key", n.Key, "removed", removed, "nodes", e.store.NodeCount())
	e.hooks.OnCollapse(n.Key, removed)
}

// Advance runs one physics step unless physics is paused.
func (e *Engine) Advance() {
	if !e.physics {
		return
	}
	held, ok := e.ctl.held()
	Step(e.store, e.params, held, ok)
}

// SetPhysicsEnabled pauses or resumes the simulation.
func (e *Engine) SetPhysicsEnabled(on bool) { e.physics = on }

// PhysicsEnabled reports whether Advance moves nodes.
func (e *Engine) PhysicsEnabled() bool { return e.physics }

// ResetCamera centres the camera on the origin at zoom 1.
func (e *Engine) ResetCamera() { e.camera.Reset() }

// FitView pans and zooms so every node fits inside the viewport with padding
// screen units on each side. The zoom stays within the camera limits.
func (e *Engine) FitView(padding float64) {
	nodes := e.store.Nodes()
	if len(nodes) == 0 || e.viewport.X <= 0 || e.viewport.Y <= 0 {
		e.camera.Reset()
		return
	}
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, n := range nodes {
		minX = math.Min(minX, n.Pos.X-n.Radius)
		minY = math.Min(minY, n.Pos.Y-n.Radius)
		maxX = math.Max(maxX, n.Pos.X+n.Radius)
		maxY = math.Max(maxY, n.Pos.Y+n.Radius)
	}
	w := math.Max(e.viewport.X-2*padding, 1)
	h := math.Max(e.viewport.Y-2*padding, 1)
	zoom := math.Min(w/math.Max(maxX-minX, 1), h/math.Max(maxY-minY, 1))

	e.camera.Pan = Vec{(minX + maxX) / 2, (minY + maxY) / 2}
	e.camera.Zoom = e.camera.clamp(zoom)
}
