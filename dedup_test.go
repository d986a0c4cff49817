package restclient

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

func TestInFlightTrackerOwnership(t *testing.T) {
	tracker := NewInFlightTracker()

	_, owner := tracker.getOrCreate("key")
	if !owner {
		t.Error("Expected first caller to own the entry")
	}

	_, owner = tracker.getOrCreate("key")
	if owner {
		t.Error("Expected second caller to join the existing entry")
	}

	_, owner = tracker.getOrCreate("other")
	if !owner {
		t.Error("Expected distinct key to create a new entry")
	}
}

func TestInFlightTrackerCompleteReleasesWaiters(t *testing.T) {
	tracker := NewInFlightTracker()

	entry, _ := tracker.getOrCreate("key")

	var wg sync.WaitGroup
	results := make([]string, 3)
	for i := 0; i < 3; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			body, err := entry.wait(context.Background())
			if err != nil {
				t.Errorf("wait returned error: %v", err)
			}
			results[idx] = body
		}(i)
	}

	tracker.complete("key", "shared result", nil)
	wg.Wait()

	for i, body := range results {
		if body != "shared result" {
			t.Errorf("Waiter %d: expected 'shared result', got '%s'", i, body)
		}
	}
}

func TestInFlightTrackerCompletePropagatesError(t *testing.T) {
	tracker := NewInFlightTracker()
	entry, _ := tracker.getOrCreate("key")

	wantErr := errors.New("boom")
	tracker.complete("key", "", wantErr)

	_, err := entry.wait(context.Background())
	if !errors.Is(err, wantErr) {
		t.Errorf("Expected owner error to propagate, got %v", err)
	}
}

func TestInFlightTrackerWaitCancellation(t *testing.T) {
	tracker := NewInFlightTracker()
	entry, _ := tracker.getOrCreate("key")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := entry.wait(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got %v", err)
	}
}

func TestInFlightTrackerEntryExpiry(t *testing.T) {
	tracker := NewInFlightTracker()

	tracker.getOrCreate("key")
	tracker.complete("key", "done", nil)

	time.Sleep(150 * time.Millisecond)

	_, owner := tracker.getOrCreate("key")
	if !owner {
		t.Error("Expected completed entry to expire so a fresh request owns the key")
	}
}

func TestInFlightTrackerCompleteUnknownKey(t *testing.T) {
	tracker := NewInFlightTracker()

	// Must not panic
	tracker.complete("never-registered", "", nil)
}
