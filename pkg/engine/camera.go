package engine

import "math"

// Zoom defaults.
const (
	DefaultMinZoom  = 0.1
	DefaultMaxZoom  = 5.0
	DefaultZoomStep = 1.1
)

// Camera maps between screen space (pixels, origin top-left) and world
// space. Pan is the world point shown at the viewport centre.
type Camera struct {
	Pan  Vec
	Zoom float64

	MinZoom float64
	MaxZoom float64
	Step    float64 // Factor applied per zoom-in scroll tick, > 1
}

// NewCamera returns a camera at the origin with zoom 1 and the given limits.
// Invalid limits fall back to the defaults.
func NewCamera(minZoom, maxZoom, step float64) Camera {
	if !(minZoom > 0) || !(maxZoom >= minZoom) || math.IsInf(maxZoom, 0) {
		minZoom, maxZoom = DefaultMinZoom, DefaultMaxZoom
	}
	if !(step > 1) || math.IsInf(step, 0) {
		step = DefaultZoomStep
	}
	c := Camera{MinZoom: minZoom, MaxZoom: maxZoom, Step: step}
	c.Reset()
	return c
}

// Reset centres the camera on the origin at zoom 1 (clamped to the limits).
func (c *Camera) Reset() {
	c.Pan = Vec{}
	c.Zoom = c.clamp(1)
}

// ScreenToWorld converts a screen point to world space for a viewport of
// size vw×vh.
func (c Camera) ScreenToWorld(sx, sy, vw, vh float64) Vec {
	return Vec{
		X: (sx-vw/2)/c.Zoom + c.Pan.X,
		Y: (sy-vh/2)/c.Zoom + c.Pan.Y,
	}
}

// WorldToScreen is the inverse of ScreenToWorld.
func (c Camera) WorldToScreen(w Vec, vw, vh float64) Vec {
	return Vec{
		X: (w.X-c.Pan.X)*c.Zoom + vw/2,
		Y: (w.Y-c.Pan.Y)*c.Zoom + vh/2,
	}
}

// ZoomBy multiplies the zoom by factor and clamps it to [MinZoom, MaxZoom].
func (c *Camera) ZoomBy(factor float64) {
	if !(factor > 0) || math.IsInf(factor, 0) {
		return
	}
	c.Zoom = c.clamp(c.Zoom * factor)
}

// Scroll applies one wheel event: a negative delta zooms in by Step, a
// positive delta zooms out by 1/Step, zero does nothing.
func (c *Camera) Scroll(delta float64) {
	switch {
	case delta < 0:
		c.ZoomBy(c.Step)
	case delta > 0:
		c.ZoomBy(1 / c.Step)
	}
}

func (c Camera) clamp(z float64) float64 {
	return math.Min(math.Max(z, c.MinZoom), c.MaxZoom)
}

// NodeAt returns the node whose disc contains the world point w. Nodes are
// tested in reverse insertion order, so the most recently added node wins
// when discs overlap.
func NodeAt(s *Store, w Vec) (NodeID, bool) {
	for i := len(s.order) - 1; i >= 0; i-- {
		n := s.nodes[s.order[i]]
		if w.Sub(n.Pos).Len2() <= n.Radius*n.Radius {
			return n.ID, true
		}
	}
	return 0, false
}
