package engine

import (
	"io"
	"math"
	"math/rand/v2"
	"path"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/dirgraph/pkg/listing"
	"github.com/matzehuels/dirgraph/pkg/observability"
)

// fakeTree is an in-memory directory listing keyed by path.
type fakeTree map[string][]listing.Entry

func (f fakeTree) List(key string, _ bool) []listing.Entry {
	return f[key]
}

func dir(parent, name string) listing.Entry {
	return listing.Entry{Name: name, Key: path.Join(parent, name), IsDir: true}
}

func file(parent, name string) listing.Entry {
	return listing.Entry{Name: name, Key: path.Join(parent, name), Ext: listing.Ext(name)}
}

// aliceTree is the home directory used by the scenario tests.
func aliceTree() fakeTree {
	return fakeTree{
		"/home/alice": {
			dir("/home/alice", "Documents"),
			file("/home/alice", "notes.txt"),
		},
		"/home/alice/Documents": {
			dir("/home/alice/Documents", "work"),
			file("/home/alice/Documents", "cv.pdf"),
			file("/home/alice/Documents", "photo.png"),
		},
		"/home/alice/Documents/work": {
			file("/home/alice/Documents/work", "plan.md"),
		},
	}
}

func newTestEngine(t *testing.T, lister listing.Lister) *Engine {
	t.Helper()
	e, err := New("/home/alice", Options{
		Lister: lister,
		Rand:   rand.New(rand.NewPCG(1, 2)),
		Logger: log.New(io.Discard),
		Hooks:  observability.NoopGraphHooks{},
	})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	e.Resize(800, 600)
	return e
}

func findByLabel(t *testing.T, s *Store, label string) *Node {
	t.Helper()
	for _, n := range s.Nodes() {
		if n.Label == label {
			return n
		}
	}
	t.Fatalf("no node labelled %q", label)
	return nil
}

func approx(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func finite(v Vec) bool {
	return !math.IsNaN(v.X) && !math.IsNaN(v.Y) && !math.IsInf(v.X, 0) && !math.IsInf(v.Y, 0)
}

func mustValidate(t *testing.T, s *Store) {
	t.Helper()
	if err := s.Validate(); err != nil {
		t.Fatalf("Validate() = %v", err)
	}
}
