// Package observability provides hooks for metrics, tracing, and logging.
//
// Libraries in dirgraph emit events through the registered hooks instead of
// depending on a logging or metrics backend. The CLI registers hooks backed by
// its structured logger at startup; everything else sees no-op defaults.
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetGraphHooks(&myGraphHooks{})
//	    observability.SetListingHooks(&myListingHooks{})
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	start := time.Now()
//	entries := lister.List(key, hidden)
//	observability.Graph().OnExpand(key, len(entries), time.Since(start))
package observability

import (
	"sync"
	"time"
)

// =============================================================================
// Graph Hooks
// =============================================================================

// GraphHooks receives structural events from the graph engine.
type GraphHooks interface {
	// OnExpand records a directory expansion and how many children it produced.
	OnExpand(key string, children int, duration time.Duration)

	// OnCollapse records a collapse and how many descendant nodes were removed.
	OnCollapse(key string, removed int)

	// OnOpenRequested records a click on a file node.
	OnOpenRequested(key string)
}

// =============================================================================
// Listing Hooks
// =============================================================================

// ListingHooks receives events from directory listing.
type ListingHooks interface {
	// OnListError records a listing that degraded to an empty result.
	OnListError(key string, err error)
}

// =============================================================================
// Session Hooks
// =============================================================================

// SessionHooks receives events from remote rendering sessions.
type SessionHooks interface {
	// OnClientConnect records a renderer attaching to a session.
	OnClientConnect(clientID string)

	// OnClientDisconnect records a renderer detaching. err is nil on a clean close.
	OnClientDisconnect(clientID string, err error)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopGraphHooks is a no-op implementation of GraphHooks.
type NoopGraphHooks struct{}

func (NoopGraphHooks) OnExpand(string, int, time.Duration) {}
func (NoopGraphHooks) OnCollapse(string, int)              {}
func (NoopGraphHooks) OnOpenRequested(string)              {}

// NoopListingHooks is a no-op implementation of ListingHooks.
type NoopListingHooks struct{}

func (NoopListingHooks) OnListError(string, error) {}

// NoopSessionHooks is a no-op implementation of SessionHooks.
type NoopSessionHooks struct{}

func (NoopSessionHooks) OnClientConnect(string)           {}
func (NoopSessionHooks) OnClientDisconnect(string, error) {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	graphHooks   GraphHooks   = NoopGraphHooks{}
	listingHooks ListingHooks = NoopListingHooks{}
	sessionHooks SessionHooks = NoopSessionHooks{}
	hooksMu      sync.RWMutex
)

// SetGraphHooks registers custom graph hooks.
// This should be called once at application startup before any engine is built.
func SetGraphHooks(h GraphHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		graphHooks = h
	}
}

// SetListingHooks registers custom listing hooks.
func SetListingHooks(h ListingHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		listingHooks = h
	}
}

// SetSessionHooks registers custom session hooks.
func SetSessionHooks(h SessionHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		sessionHooks = h
	}
}

// Graph returns the registered graph hooks.
func Graph() GraphHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return graphHooks
}

// Listing returns the registered listing hooks.
func Listing() ListingHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return listingHooks
}

// Session returns the registered session hooks.
func Session() SessionHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return sessionHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	graphHooks = NoopGraphHooks{}
	listingHooks = NoopListingHooks{}
	sessionHooks = NoopSessionHooks{}
}
