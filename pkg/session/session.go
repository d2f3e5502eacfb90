// Package session runs a live graph engine for remote renderers.
//
// A [Session] owns one [engine.Engine] and is the only goroutine that touches
// it. It advances the simulation on a fixed tick, pushes a snapshot frame to
// every subscriber after each step, and runs queued commands (inputs,
// snapshot requests, subscription changes) between steps.
//
// # Usage
//
//	sess := session.New(e, session.Options{Tick: 16 * time.Millisecond})
//	go sess.Run(ctx)
//
//	// From any goroutine:
//	ev, err := sess.Apply(ctx, graph.Input{Type: graph.InputClick, X: 400, Y: 300})
//	snap, err := sess.Snapshot(ctx)
//
//	// Stream frames:
//	sub, err := sess.Subscribe(ctx)
//	defer sub.Close()
//	for f := range sub.Frames() { ... }
//
// Slow subscribers miss frames rather than stall the simulation: each has a
// small buffer and a full buffer drops the frame.
package session

import (
	"context"
	"errors"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/dirgraph/pkg/engine"
	"github.com/matzehuels/dirgraph/pkg/graph"
)

// Sentinel errors for session operations.
var (
	// ErrClosed is returned when the session loop has stopped.
	ErrClosed = errors.New("session closed")
)

// DefaultTick is the simulation step interval.
const DefaultTick = 16 * time.Millisecond

// subscriberBuffer is the number of frames queued per subscriber.
const subscriberBuffer = 8

// Options configures a [Session].
type Options struct {
	// Tick is the interval between physics steps. Defaults to DefaultTick.
	Tick time.Duration

	// Logger receives debug logs. Defaults to log.Default().
	Logger *log.Logger
}

// Session serializes all access to one engine on its Run goroutine.
type Session struct {
	ID string

	eng    *engine.Engine
	tick   time.Duration
	logger *log.Logger

	cmds chan func()
	done chan struct{}

	// Owned by the Run goroutine.
	seq  uint64
	subs map[string]chan graph.Frame
}

// New creates a session around e. Call Run to start it.
func New(e *engine.Engine, opts Options) *Session {
	if opts.Tick <= 0 {
		opts.Tick = DefaultTick
	}
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	return &Session{
		ID:     uuid.NewString(),
		eng:    e,
		tick:   opts.Tick,
		logger: opts.Logger,
		cmds:   make(chan func()),
		done:   make(chan struct{}),
		subs:   make(map[string]chan graph.Frame),
	}
}

// Run steps the simulation until ctx is cancelled, then closes every
// subscriber and returns ctx.Err().
func (s *Session) Run(ctx context.Context) error {
	ticker := time.NewTicker(s.tick)
	defer ticker.Stop()
	defer s.shutdown()

	s.logger.Debug("session started", "id", s.ID, "tick", s.tick)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case fn := <-s.cmds:
			fn()
		case <-ticker.C:
			s.eng.Advance()
			if len(s.subs) > 0 {
				s.broadcast(graph.SnapshotFrame(s.nextSeq(), s.eng.Snapshot()))
			}
		}
	}
}

func (s *Session) shutdown() {
	close(s.done)
	for id, ch := range s.subs {
		close(ch)
		delete(s.subs, id)
	}
	s.logger.Debug("session stopped", "id", s.ID)
}

func (s *Session) nextSeq() uint64 {
	s.seq++
	return s.seq
}

func (s *Session) broadcast(f graph.Frame) {
	for _, ch := range s.subs {
		select {
		case ch <- f:
		default:
		}
	}
}

// Do runs fn on the session goroutine with exclusive access to the engine
// and waits for it to finish. fn must not call back into the session.
func (s *Session) Do(ctx context.Context, fn func(e *engine.Engine)) error {
	finished := make(chan struct{})
	cmd := func() {
		defer close(finished)
		fn(s.eng)
	}
	select {
	case s.cmds <- cmd:
	case <-s.done:
		return ErrClosed
	case <-ctx.Done():
		return ctx.Err()
	}
	<-finished
	return nil
}

// Snapshot returns the current engine state.
func (s *Session) Snapshot(ctx context.Context) (engine.Snapshot, error) {
	var snap engine.Snapshot
	err := s.Do(ctx, func(e *engine.Engine) { snap = e.Snapshot() })
	return snap, err
}

// Apply feeds a remote input to the engine. A click that produced an event
// is also broadcast to every subscriber as an event frame.
func (s *Session) Apply(ctx context.Context, in graph.Input) (engine.Event, error) {
	var (
		ev     engine.Event
		oneErr error
	)
	err := s.Do(ctx, func(e *engine.Engine) {
		ev, oneErr = in.Apply(e)
		if oneErr == nil && ev.Kind != engine.EventNone {
			s.broadcast(graph.EventFrame(s.nextSeq(), ev))
		}
	})
	if err != nil {
		return engine.Event{}, err
	}
	return ev, oneErr
}

// Subscription is a stream of frames from a session.
type Subscription struct {
	ID     string
	frames chan graph.Frame
	sess   *Session
}

// Frames returns the frame channel. It is closed by Close or when the
// session stops.
func (sub *Subscription) Frames() <-chan graph.Frame { return sub.frames }

// Close stops the subscription. It is safe to call more than once and after
// the session has stopped.
func (sub *Subscription) Close() {
	_ = sub.sess.Do(context.Background(), func(*engine.Engine) {
		if ch, ok := sub.sess.subs[sub.ID]; ok {
			close(ch)
			delete(sub.sess.subs, sub.ID)
		}
	})
}

// Reject reports a refused input to this subscriber alone as an error frame.
// The frame takes the next session sequence number; like any frame it is
// dropped when the subscriber's buffer is full.
func (sub *Subscription) Reject(ctx context.Context, cause error) error {
	return sub.sess.Do(ctx, func(*engine.Engine) {
		ch, ok := sub.sess.subs[sub.ID]
		if !ok {
			return
		}
		select {
		case ch <- graph.ErrorFrame(sub.sess.nextSeq(), cause):
		default:
		}
	})
}

// Subscribe registers a new frame stream. The first frame is the current
// snapshot.
func (s *Session) Subscribe(ctx context.Context) (*Subscription, error) {
	sub := &Subscription{
		ID:     uuid.NewString(),
		frames: make(chan graph.Frame, subscriberBuffer),
		sess:   s,
	}
	err := s.Do(ctx, func(e *engine.Engine) {
		s.subs[sub.ID] = sub.frames
		sub.frames <- graph.SnapshotFrame(s.nextSeq(), e.Snapshot())
	})
	if err != nil {
		return nil, err
	}
	return sub, nil
}

// Subscribers returns the number of active subscriptions.
func (s *Session) Subscribers(ctx context.Context) (int, error) {
	var n int
	err := s.Do(ctx, func(*engine.Engine) { n = len(s.subs) })
	return n, err
}
