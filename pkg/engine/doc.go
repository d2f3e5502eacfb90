// Package engine implements the interactive node-graph visualization engine
// behind dirgraph.
//
// The engine renders a filesystem subtree as a force-directed graph. It owns
// every piece of mutable state and exposes it through a single [Engine] value:
//
//   - [Store]: nodes, edges, identity allocation and the lazy expand/collapse
//     of directory nodes
//   - [Params] and [Step]: one tick of the force-directed simulation
//   - [Camera]: pan/zoom and screen ↔ world transforms
//   - the interaction controller: pointer events become node drags, camera
//     pans, or click intents
//   - [Snapshot]: a read-only copy of the state for renderers
//
// # Usage
//
//	e := engine.New("/home/alice", engine.Options{Lister: listing.NewOSLister()})
//	e.Resize(1280, 720)
//	e.Expand(e.Root())
//
//	// once per frame
//	e.Advance()
//	snap := e.Snapshot()
//
//	// input
//	e.PointerDown(x, y)
//	e.PointerMove(x, y)
//	e.PointerUp()
//	if ev := e.Click(x, y); ev.Kind == engine.EventOpenRequested {
//	    open(ev.Key)
//	}
//
// # Lazy Expansion
//
// Children of a directory exist only after an explicit [Engine.Expand] or a
// click on the directory node. Expansion is never recursive, which keeps the
// O(n²) physics step bounded by what the user chose to open.
//
// # Concurrency
//
// An Engine is not safe for concurrent use. Hosts serialize every call (the
// TUI does so inside its update loop, the HTTP host through one session
// goroutine).
package engine
