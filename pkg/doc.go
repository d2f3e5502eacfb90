// Package pkg provides the core libraries for dirgraph, a live node-graph
// view of a directory tree.
//
// # Overview
//
// dirgraph shows a directory as a force-directed graph: directories expand
// into their children on click, collapse back into a single node on a second
// click, and files ask the host to open them. The pkg directory is organized
// into these areas:
//
//  1. [engine] - Graph store, physics, camera and pointer interaction
//  2. [listing] - Directory listings over an afero filesystem
//  3. [graph] - Serialization types for snapshots, inputs and frames
//  4. [session] - A single-owner engine loop shared by many subscribers
//  5. [render] - Headless rendering (DOT, SVG, PNG, PDF)
//
// # Architecture
//
// The typical data flow through dirgraph:
//
//	Filesystem
//	     ↓
//	[listing] package (sorted entries, hidden filter)
//	     ↓
//	[engine] package (expand/collapse, physics step, pointer events)
//	     ↓
//	Snapshot → terminal canvas, [graph] JSON frames, or [render/nodelink]
//
// # Quick Start
//
// Build an engine over the working directory and settle it:
//
//	import (
//	    "github.com/matzehuels/dirgraph/pkg/engine"
//	    "github.com/matzehuels/dirgraph/pkg/listing"
//	)
//
//	e, _ := engine.New("/home/alice", engine.Options{
//	    Lister: listing.NewOSLister(),
//	})
//	e.Resize(1200, 800)
//	e.Expand(e.Root())
//	for range 300 {
//	    e.Advance()
//	}
//	snap := e.Snapshot()
//
// # Main Packages
//
// [engine] - The interactive core. A [engine.Store] holds nodes and
// parent-child edges; Expand lists a directory and spawns its children
// around it, Collapse removes the whole subtree. Advance runs one physics
// step (pairwise repulsion, spring edges, centre pull, damping and a speed
// cap). The camera maps world to screen space and zooms about the viewport centre.
// Pointer input runs a small Idle/Panning/Dragging state machine; a click
// yields an [engine.Event].
//
// [listing] - Turns a directory into sorted entries, directories first.
// Unreadable directories list as empty and are reported through
// [observability].
//
// [graph] - JSON node-link format for snapshots plus the websocket wire
// types (Input, Frame, Event) used by `dirgraph serve`.
//
// [session] - Runs the engine on one goroutine, ticks the simulation and
// fans snapshot frames out to subscribers.
//
// [render/nodelink] - Pinned-position Graphviz diagrams of a snapshot.
//
// [errors] - Structured errors with codes shared by the CLI and the server.
//
// [observability] - Hooks for expand, collapse, listing and client events.
//
// # Testing
//
// Run tests:
//
//	go test ./pkg/...                    # All tests
//	go test ./pkg/engine/...             # Specific package
//	go test -run Example                 # Examples only
//
// [engine]: https://pkg.go.dev/github.com/matzehuels/dirgraph/pkg/engine
// [listing]: https://pkg.go.dev/github.com/matzehuels/dirgraph/pkg/listing
// [graph]: https://pkg.go.dev/github.com/matzehuels/dirgraph/pkg/graph
// [session]: https://pkg.go.dev/github.com/matzehuels/dirgraph/pkg/session
// [render]: https://pkg.go.dev/github.com/matzehuels/dirgraph/pkg/render
// [render/nodelink]: https://pkg.go.dev/github.com/matzehuels/dirgraph/pkg/render/nodelink
// [errors]: https://pkg.go.dev/github.com/matzehuels/dirgraph/pkg/errors
// [observability]: https://pkg.go.dev/github.com/matzehuels/dirgraph/pkg/observability
package pkg
