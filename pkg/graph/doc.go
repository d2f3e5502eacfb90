// Package graph provides serialization types for engine snapshots and the
// messages exchanged with remote renderers.
//
// This package defines the canonical wire format for dirgraph's graph data,
// used for `export -f json`, the serve API and its websocket stream.
//
// # Architecture
//
// The package sits at the serialization boundary between the engine and
// external consumers:
//
//   - [Graph], [Frame], [Input]: Serialization types (this package)
//   - pkg/engine.Snapshot: Read-only engine state
//
// Use [FromSnapshot] to convert a snapshot and [Input.Apply] to feed a remote
// event back into an engine.
//
// # Graph Serialization
//
// Graphs use a node-link JSON format with positions and colours resolved:
//
//	{
//	  "nodes": [
//	    {"id": 0, "label": "alice", "key": "/home/alice", "x": 0, "y": 0,
//	     "radius": 28, "category": "directory", "color": "#89b4fa",
//	     "dir": true, "expanded": true}
//	  ],
//	  "edges": [{"from": 0, "to": 1}],
//	  "camera": {"pan_x": 0, "pan_y": 0, "zoom": 1},
//	  "viewport": {"width": 800, "height": 600}
//	}
//
// Common operations:
//
//	data, _ := graph.MarshalSnapshot(e.Snapshot())  // Snapshot → []byte
//	graph.WriteSnapshotFile(e.Snapshot(), "g.json") // Snapshot → File
//	g, _ := graph.ReadGraphFile("g.json")           // File → Graph
//
// # Frames
//
// The websocket stream sends [Frame] values discriminated by Type
// ("snapshot", "event", "error") and receives [Input] values.
//
// # Concurrency
//
// All functions are safe for concurrent use. [Input.Apply] mutates the
// engine and must run wherever the engine's owner serializes access.
package graph
