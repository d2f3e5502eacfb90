package engine

import (
	"errors"
	"math"
	"math/rand/v2"
	"path/filepath"
	"slices"

	"github.com/matzehuels/dirgraph/pkg/listing"
)

var (
	// ErrInvalidEdgeEndpoint is returned by [Store.Validate] when an edge
	// references a node that is no longer live.
	ErrInvalidEdgeEndpoint = errors.New("invalid edge endpoint")

	// ErrMissingParentEdge is returned by [Store.Validate] when a non-root
	// node has no edge from its parent.
	ErrMissingParentEdge = errors.New("missing parent edge")

	// ErrMultipleParents is returned by [Store.Validate] when a node has more
	// than one incoming edge or an edge from a node other than its parent.
	ErrMultipleParents = errors.New("node has more than one parent")

	// ErrCollapsedWithChildren is returned by [Store.Validate] when a node
	// that is not expanded still has children in the store.
	ErrCollapsedWithChildren = errors.New("collapsed node has children")

	// ErrIDReused is returned by [Store.Validate] when a live node has an ID
	// at or above the next-ID counter.
	ErrIDReused = errors.New("node ID not allocated by the store")
)

// Spawn placement defaults for new children.
const (
	DefaultSpawnRadius = 120.0
	DefaultSpawnJitter = 20.0
)

// StoreConfig configures a [Store].
type StoreConfig struct {
	// Lister supplies directory children. A nil Lister lists every directory
	// as empty.
	Lister listing.Lister

	// IncludeHidden is passed through to the lister.
	IncludeHidden bool

	// SpawnRadius is the base distance of new children from their parent.
	SpawnRadius float64

	// SpawnJitter bounds the random radial offset added to SpawnRadius.
	// Distinct, slightly perturbed start positions keep the simulation out
	// of symmetric configurations.
	SpawnJitter float64

	// Rand drives the jitter. Nil uses a randomly seeded source.
	Rand *rand.Rand
}

func (c StoreConfig) withDefaults() StoreConfig {
	if c.Lister == nil {
		c.Lister = listing.Func(func(string, bool) []listing.Entry { return nil })
	}
	if c.SpawnRadius <= 0 {
		c.SpawnRadius = DefaultSpawnRadius
	}
	if c.SpawnJitter < 0 {
		c.SpawnJitter = 0
	}
	if c.Rand == nil {
		c.Rand = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return c
}

// Store owns the nodes and edges of the graph, allocates node identities and
// performs the structural mutations (expand and collapse).
//
// Nodes are indexed by ID and also kept in insertion order; hit-testing walks
// that order backwards so the most recently added node wins overlaps. A
// per-node children index backs collapse.
//
// The zero value is not usable - use NewStore.
type Store struct {
	cfg      StoreConfig
	nodes    map[NodeID]*Node
	order    []NodeID
	children map[NodeID][]NodeID
	edges    []Edge
	nextID   NodeID
	root     NodeID
	hasRoot  bool
}

// NewStore creates an empty store.
func NewStore(cfg StoreConfig) *Store {
	return &Store{
		cfg:      cfg.withDefaults(),
		nodes:    make(map[NodeID]*Node),
		children: make(map[NodeID][]NodeID),
	}
}

func (s *Store) allocID() NodeID {
	id := s.nextID
	s.nextID++
	return id
}

// AddRoot creates the root directory node for key at the world origin and
// returns its ID. The root is created once; later calls return the existing
// root unchanged.
func (s *Store) AddRoot(key string) NodeID {
	if s.hasRoot {
		return s.root
	}
	id := s.allocID()
	s.insert(&Node{
		ID:       id,
		Label:    labelFor(key),
		Key:      key,
		IsDir:    true,
		Radius:   RootRadius,
		Category: CategoryDirectory,
	})
	s.root = id
	s.hasRoot = true
	return id
}

// Root returns the root node ID and whether a root exists.
func (s *Store) Root() (NodeID, bool) { return s.root, s.hasRoot }

// Expand materializes the immediate children of a directory node and returns
// how many were added. It reports false, changing nothing, when id is
// unknown, not a directory, or already expanded.
//
// Children are placed on a circle around the parent's current position, one
// evenly spaced angular slot per sibling, at SpawnRadius plus a random offset
// in [-SpawnJitter, SpawnJitter). The whole batch is committed at once.
//
// A failed or empty listing still marks the node expanded; retrying needs a
// collapse first.
func (s *Store) Expand(id NodeID) (int, bool) {
	parent, ok := s.nodes[id]
	if !ok || !parent.IsDir || parent.Expanded {
		return 0, false
	}

	entries := s.cfg.Lister.List(parent.Key, s.cfg.IncludeHidden)
	batch := make([]*Node, 0, len(entries))
	for i, e := range entries {
		angle := float64(i) / float64(len(entries)) * 2 * math.Pi
		dist := s.cfg.SpawnRadius + s.jitter()
		radius := FileRadius
		if e.IsDir {
			radius = DirRadius
		}
		batch = append(batch, &Node{
			Label:     e.Name,
			Key:       e.Key,
			IsDir:     e.IsDir,
			ParentID:  id,
			HasParent: true,
			Pos:       parent.Pos.Add(Vec{math.Cos(angle) * dist, math.Sin(angle) * dist}),
			Radius:    radius,
			Category:  CategoryFor(e.IsDir, e.Ext),
		})
	}

	for _, n := range batch {
		n.ID = s.allocID()
		s.insert(n)
		s.edges = append(s.edges, Edge{From: id, To: n.ID})
	}
	parent.Expanded = true
	return len(batch), true
}

func (s *Store) jitter() float64 {
	if s.cfg.SpawnJitter == 0 {
		return 0
	}
	return (s.cfg.Rand.Float64()*2 - 1) * s.cfg.SpawnJitter
}

// Collapse removes every descendant of id together with all edges touching
// a removed node, and marks id not expanded. id itself stays. It returns the
// number of nodes removed, or false when id is unknown or not expanded.
func (s *Store) Collapse(id NodeID) (int, bool) {
	n, ok := s.nodes[id]
	if !ok || !n.Expanded {
		return 0, false
	}

	doomed := s.descendantSet(id)
	for nid := range doomed {
		delete(s.nodes, nid)
		delete(s.children, nid)
	}
	delete(s.children, id)
	s.order = slices.DeleteFunc(s.order, func(nid NodeID) bool { return doomed[nid] })
	s.edges = slices.DeleteFunc(s.edges, func(e Edge) bool { return doomed[e.From] || doomed[e.To] })
	n.Expanded = false
	return len(doomed), true
}

// Descendants returns the IDs of every node below id, in breadth-first order.
// Returns nil for unknown IDs and leaves.
func (s *Store) Descendants(id NodeID) []NodeID {
	var out []NodeID
	queue := slices.Clone(s.children[id])
	for len(queue) > 0 {
		nid := queue[0]
		queue = queue[1:]
		out = append(out, nid)
		queue = append(queue, s.children[nid]...)
	}
	return out
}

func (s *Store) descendantSet(id NodeID) map[NodeID]bool {
	set := make(map[NodeID]bool)
	for _, nid := range s.Descendants(id) {
		set[nid] = true
	}
	return set
}

func (s *Store) insert(n *Node) {
	s.nodes[n.ID] = n
	s.order = append(s.order, n.ID)
	if n.HasParent {
		s.children[n.ParentID] = append(s.children[n.ParentID], n.ID)
	}
}

// Node returns the live node with the given ID. The pointer refers to the
// stored node, so position changes affect the graph.
func (s *Store) Node(id NodeID) (*Node, bool) {
	n, ok := s.nodes[id]
	return n, ok
}

// Nodes returns all live nodes in insertion order. The pointers refer to the
// stored nodes.
func (s *Store) Nodes() []*Node {
	out := make([]*Node, len(s.order))
	for i, id := range s.order {
		out[i] = s.nodes[id]
	}
	return out
}

// Edges returns a copy of all edges in insertion order.
func (s *Store) Edges() []Edge { return slices.Clone(s.edges) }

// Children returns the IDs of id's immediate children. The returned slice
// should not be modified.
func (s *Store) Children(id NodeID) []NodeID { return s.children[id] }

// NodeCount returns the number of live nodes.
func (s *Store) NodeCount() int { return len(s.nodes) }

// EdgeCount returns the number of live edges.
func (s *Store) EdgeCount() int { return len(s.edges) }

// NextID returns the ID the next created node will receive.
func (s *Store) NextID() NodeID { return s.nextID }

// Validate checks the structural invariants and returns the first violation:
//
//   - every edge joins two live nodes
//   - every non-root node has exactly one incoming edge, from its parent
//   - a node that is not expanded has no children
//   - every live ID was allocated by this store
func (s *Store) Validate() error {
	incoming := make(map[NodeID][]NodeID, len(s.nodes))
	for _, e := range s.edges {
		if _, ok := s.nodes[e.From]; !ok {
			return ErrInvalidEdgeEndpoint
		}
		if _, ok := s.nodes[e.To]; !ok {
			return ErrInvalidEdgeEndpoint
		}
		incoming[e.To] = append(incoming[e.To], e.From)
	}
	for id, n := range s.nodes {
		if id >= s.nextID {
			return ErrIDReused
		}
		in := incoming[id]
		if !n.HasParent {
			if len(in) != 0 {
				return ErrMultipleParents
			}
		} else {
			if len(in) == 0 {
				return ErrMissingParentEdge
			}
			if len(in) > 1 || in[0] != n.ParentID {
				return ErrMultipleParents
			}
		}
		if !n.Expanded && len(s.children[id]) > 0 {
			return ErrCollapsedWithChildren
		}
	}
	return nil
}

func labelFor(key string) string {
	base := filepath.Base(key)
	if base == "." || base == string(filepath.Separator) || base == "" {
		return key
	}
	return base
}
