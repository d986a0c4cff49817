package restclient

import (
	"context"
	"sync"
	"time"
)

// inFlightEntry represents one in-flight request shared between the owner
// and any coalesced waiters.
type inFlightEntry struct {
	mu   sync.Mutex
	body string
	err  error
	done chan struct{}
}

// InFlightTracker coalesces identical concurrent read requests so only one
// transport call is made; the other callers wait for the owner's result.
type InFlightTracker struct {
	mu      sync.Mutex
	entries map[string]*inFlightEntry
}

// NewInFlightTracker returns an in-memory de-duplication tracker.
func NewInFlightTracker() *InFlightTracker {
	return &InFlightTracker{
		entries: make(map[string]*inFlightEntry),
	}
}

// getOrCreate returns an existing entry (owner=false) or registers a new
// one (owner=true). The owner must call complete with its result.
func (t *InFlightTracker) getOrCreate(key string) (*inFlightEntry, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if entry, exists := t.entries[key]; exists {
		return entry, false
	}

	entry := &inFlightEntry{done: make(chan struct{})}
	t.entries[key] = entry
	return entry, true
}

// complete publishes the owner's result and releases waiters. The entry
// lingers briefly so stragglers that already fetched it still resolve.
func (t *InFlightTracker) complete(key string, body string, err error) {
	t.mu.Lock()
	entry, exists := t.entries[key]
	t.mu.Unlock()

	if !exists {
		return
	}

	entry.mu.Lock()
	entry.body = body
	entry.err = err
	close(entry.done)
	entry.mu.Unlock()

	time.AfterFunc(100*time.Millisecond, func() {
		t.mu.Lock()
		delete(t.entries, key)
		t.mu.Unlock()
	})
}

// wait blocks until the owning request completes or the context cancels.
func (e *inFlightEntry) wait(ctx context.Context) (string, error) {
	select {
	case <-e.done:
		e.mu.Lock()
		body, err := e.body, e.err
		e.mu.Unlock()
		return body, err
	case <-ctx.Done():
		return "", ctx.Err()
	}
}
