package engine

import "math"

// NodeID identifies a node for the lifetime of an engine. IDs are allocated
// monotonically and never reused, even after the node is removed.
type NodeID uint64

// Vec is a 2D vector in world or screen space.
type Vec struct {
	X, Y float64
}

// Add returns v+o.
func (v Vec) Add(o Vec) Vec { return Vec{v.X + o.X, v.Y + o.Y} }

// Sub returns v-o.
func (v Vec) Sub(o Vec) Vec { return Vec{v.X - o.X, v.Y - o.Y} }

// Scale returns v*s.
func (v Vec) Scale(s float64) Vec { return Vec{v.X * s, v.Y * s} }

// Len returns the Euclidean length of v.
func (v Vec) Len() float64 { return math.Hypot(v.X, v.Y) }

// Len2 returns the squared length of v.
func (v Vec) Len2() float64 { return v.X*v.X + v.Y*v.Y }

// Node radii in world units.
const (
	RootRadius = 28.0
	DirRadius  = 22.0
	FileRadius = 14.0
)

// Node is a file or directory materialized in the graph.
//
// The zero value is not usable; nodes are created by [Store.AddRoot] and
// [Store.Expand] only.
type Node struct {
	ID       NodeID
	Label    string // Display name (last path element)
	Key      string // Lister key, the filesystem path
	IsDir    bool
	Expanded bool // Directories only: children currently exist in the store

	// ParentID is meaningful only when HasParent is true. The root is the
	// only node without a parent.
	ParentID  NodeID
	HasParent bool

	Pos      Vec
	Vel      Vec
	Radius   float64
	Category Category
}

// Edge connects a directory node to one of its immediate children.
type Edge struct {
	From NodeID
	To   NodeID
}
