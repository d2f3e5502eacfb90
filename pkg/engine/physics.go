package engine

import (
	"fmt"
	"math"
)

// Params holds the force-directed simulation constants.
type Params struct {
	Repulsion  float64 // Pairwise repulsion strength
	SpringK    float64 // Edge spring constant
	RestLength float64 // Edge rest length in world units
	Damping    float64 // Velocity retained per step, in (0, 1)
	MaxSpeed   float64 // Per-step speed clamp
	Center     float64 // Pull toward the origin per unit of distance
}

// DefaultParams returns the tuned simulation constants.
func DefaultParams() Params {
	return Params{
		Repulsion:  8000,
		SpringK:    0.02,
		RestLength: 120,
		Damping:    0.85,
		MaxSpeed:   8,
		Center:     0.001,
	}
}

// Validate rejects constants that would let the simulation gain energy or
// produce unbounded motion.
func (p Params) Validate() error {
	for name, v := range map[string]float64{
		"repulsion":   p.Repulsion,
		"spring_k":    p.SpringK,
		"rest_length": p.RestLength,
		"center":      p.Center,
	} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%s must be finite, got %v", name, v)
		}
	}
	if !(p.Damping > 0 && p.Damping < 1) {
		return fmt.Errorf("damping must be in (0, 1), got %v", p.Damping)
	}
	if !(p.MaxSpeed > 0) || math.IsInf(p.MaxSpeed, 0) {
		return fmt.Errorf("max_speed must be positive and finite, got %v", p.MaxSpeed)
	}
	return nil
}

// Step advances the simulation by one tick, updating positions and
// velocities in place. held is the node under a drag gesture (ignored when
// hasHeld is false): its velocity is zeroed and its position left to the
// drag.
//
// Forces are accumulated for every node first and applied afterwards, so the
// result does not depend on iteration order. Distances are floored at 1 to
// avoid the singularity of coincident nodes.
func Step(s *Store, p Params, held NodeID, hasHeld bool) {
	nodes := s.Nodes()
	n := len(nodes)
	if n == 0 {
		return
	}

	index := make(map[NodeID]int, n)
	for i, node := range nodes {
		index[node.ID] = i
	}
	force := make([]Vec, n)

	// Repulsion between all pairs
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			d := nodes[i].Pos.Sub(nodes[j].Pos)
			dist := math.Max(d.Len(), 1)
			f := d.Scale(p.Repulsion / (dist * dist) / dist)
			force[i] = force[i].Add(f)
			force[j] = force[j].Sub(f)
		}
	}

	// Spring attraction along edges
	for _, e := range s.edges {
		fi, ok1 := index[e.From]
		ti, ok2 := index[e.To]
		if !ok1 || !ok2 {
			continue
		}
		d := nodes[ti].Pos.Sub(nodes[fi].Pos)
		dist := math.Max(d.Len(), 1)
		f := d.Scale(p.SpringK * (dist - p.RestLength) / dist)
		force[fi] = force[fi].Add(f)
		force[ti] = force[ti].Sub(f)
	}

	// Centering gravity
	for i, node := range nodes {
		force[i] = force[i].Sub(node.Pos.Scale(p.Center))
	}

	for i, node := range nodes {
		if hasHeld && node.ID == held {
			node.Vel = Vec{}
			continue
		}
		node.Vel = node.Vel.Add(force[i]).Scale(p.Damping)
		if speed := node.Vel.Len(); speed > p.MaxSpeed {
			node.Vel = node.Vel.Scale(p.MaxSpeed / speed)
		}
		node.Pos = node.Pos.Add(node.Vel)
	}
}
