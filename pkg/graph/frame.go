package graph

import (
	"encoding/json"
	"fmt"

	"github.com/matzehuels/dirgraph/pkg/engine"
)

// =============================================================================
// Input - Remote Pointer and View Commands
// =============================================================================

// Input types accepted from remote renderers.
const (
	InputDown    = "down"
	InputMove    = "move"
	InputUp      = "up"
	InputClick   = "click"
	InputScroll  = "scroll"
	InputResize  = "resize"
	InputFit     = "fit"
	InputReset   = "reset"
	InputPhysics = "physics"
)

// Input is one event sent by a remote renderer. Only the fields relevant to
// Type are read:
//
//	down, move, click  X, Y (screen units)
//	scroll             Delta (negative zooms in)
//	resize             Width, Height
//	fit                Padding
//	physics            Enabled
type Input struct {
	Type    string  `json:"type"`
	X       float64 `json:"x,omitempty"`
	Y       float64 `json:"y,omitempty"`
	Delta   float64 `json:"delta,omitempty"`
	Width   float64 `json:"width,omitempty"`
	Height  float64 `json:"height,omitempty"`
	Padding float64 `json:"padding,omitempty"`
	Enabled bool    `json:"enabled,omitempty"`
}

// Apply feeds the input to e and returns the click outcome (EventNone for
// anything but a click). Unknown types are rejected without touching e.
func (in Input) Apply(e *engine.Engine) (engine.Event, error) {
	switch in.Type {
	case InputDown:
		e.PointerDown(in.X, in.Y)
	case InputMove:
		e.PointerMove(in.X, in.Y)
	case InputUp:
		e.PointerUp()
	case InputClick:
		return e.Click(in.X, in.Y), nil
	case InputScroll:
		e.Scroll(in.Delta)
	case InputResize:
		e.Resize(in.Width, in.Height)
	case InputFit:
		e.FitView(in.Padding)
	case InputReset:
		e.ResetCamera()
	case InputPhysics:
		e.SetPhysicsEnabled(in.Enabled)
	default:
		return engine.Event{}, fmt.Errorf("unknown input type %q", in.Type)
	}
	return engine.Event{Kind: engine.EventNone}, nil
}

// UnmarshalInput decodes one input message.
func UnmarshalInput(data []byte) (Input, error) {
	var in Input
	if err := json.Unmarshal(data, &in); err != nil {
		return Input{}, fmt.Errorf("unmarshal input: %w", err)
	}
	if in.Type == "" {
		return Input{}, fmt.Errorf("input must have a type")
	}
	return in, nil
}

// =============================================================================
// Event - Click Outcome
// =============================================================================

// Event is the serialized form of [engine.Event].
type Event struct {
	Kind     string `json:"kind"`
	Node     uint64 `json:"node,omitempty"`
	Key      string `json:"key,omitempty"`
	Expanded bool   `json:"expanded,omitempty"`
}

// FromEvent converts an engine event.
func FromEvent(ev engine.Event) Event {
	return Event{
		Kind:     ev.Kind.String(),
		Node:     uint64(ev.Node),
		Key:      ev.Key,
		Expanded: ev.Expanded,
	}
}

// =============================================================================
// Frame - Server to Client Message
// =============================================================================

// Frame types pushed to remote renderers.
const (
	FrameSnapshot = "snapshot"
	FrameEvent    = "event"
	FrameError    = "error"
)

// Frame is a discriminated union; check Type to see which field is set.
type Frame struct {
	Type  string `json:"type"`
	Seq   uint64 `json:"seq"`
	Graph *Graph `json:"graph,omitempty"`
	Event *Event `json:"event,omitempty"`
	Error string `json:"error,omitempty"`
}

// SnapshotFrame wraps a snapshot.
func SnapshotFrame(seq uint64, s engine.Snapshot) Frame {
	g := FromSnapshot(s)
	return Frame{Type: FrameSnapshot, Seq: seq, Graph: &g}
}

// EventFrame wraps a click outcome.
func EventFrame(seq uint64, ev engine.Event) Frame {
	e := FromEvent(ev)
	return Frame{Type: FrameEvent, Seq: seq, Event: &e}
}

// ErrorFrame reports a rejected input.
func ErrorFrame(seq uint64, err error) Frame {
	return Frame{Type: FrameError, Seq: seq, Error: err.Error()}
}
