package cli

import (
	"bytes"
	"context"
	"strings"
	"sync"
	"testing"
	"time"
)

// syncBuffer is a bytes.Buffer safe for the spinner goroutine.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestSpinnerProgressMessages(t *testing.T) {
	var out syncBuffer
	s := newSpinner(context.Background(), &out, "Simulating 0/300 steps")
	s.Start()
	time.Sleep(4 * spinnerInterval)
	s.SetMessage("Simulating 150/300 steps")
	time.Sleep(4 * spinnerInterval)
	s.Stop()

	got := out.String()
	for _, want := range []string{"0/300", "150/300"} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q: %q", want, got)
		}
	}
	if !strings.HasSuffix(got, "\r") {
		t.Errorf("line not cleared on stop: %q", got)
	}
}

func TestSpinnerStop(t *testing.T) {
	t.Run("Idempotent", func(t *testing.T) {
		s := newSpinner(context.Background(), &syncBuffer{}, "x")
		s.Start()
		s.Stop()
		s.Stop()
	})

	t.Run("WithoutStart", func(t *testing.T) {
		var out syncBuffer
		s := newSpinner(context.Background(), &out, "x")
		s.Stop()
		s.Start()
		if out.String() != "" {
			t.Errorf("stopped spinner wrote %q", out.String())
		}
	})
}

func TestSpinnerCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	s := newSpinner(ctx, &syncBuffer{}, "Simulating")
	s.Start()
	if s.Cancelled() {
		t.Fatal("Cancelled() before cancel")
	}
	cancel()
	if !s.Cancelled() {
		t.Error("Cancelled() = false after cancel")
	}

	done := make(chan struct{})
	go func() {
		s.Stop()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Stop() hung after cancel")
	}

	s = newSpinner(context.Background(), &syncBuffer{}, "x")
	s.Start()
	s.Stop()
	if s.Cancelled() {
		t.Error("Stop() alone should not count as cancellation")
	}
}
