package restclient

import (
	"context"
	"time"
)

// Gate is the serialization primitive wrapped around every outbound
// request. Acquire blocks until ownership is obtained and reports false
// when the wait was cancelled; the caller must then produce no result.
// Release must be safe to call when the gate is not held.
type Gate interface {
	Acquire(ctx context.Context) bool
	Release()
}

// unrestrictedGate admits every caller immediately. Used when no
// inter-request delay is configured.
type unrestrictedGate struct{}

func (unrestrictedGate) Acquire(ctx context.Context) bool { return true }

func (unrestrictedGate) Release() {}

// serialGate admits one caller at a time and holds each new owner for a
// fixed delay before letting the request proceed, spacing outbound
// requests at least delay apart. Waiters queue on a capacity-1 channel,
// which the runtime services in FIFO order.
type serialGate struct {
	sem   chan struct{}
	delay time.Duration
}

func newSerialGate(delay time.Duration) *serialGate {
	return &serialGate{
		sem:   make(chan struct{}, 1),
		delay: delay,
	}
}

// Acquire obtains exclusive ownership and then waits out the configured
// delay while holding it. Cancellation during either phase releases any
// partial ownership and returns false.
func (g *serialGate) Acquire(ctx context.Context) bool {
	select {
	case g.sem <- struct{}{}:
	case <-ctx.Done():
		return false
	}

	if g.delay <= 0 {
		return true
	}

	timer := time.NewTimer(g.delay)
	defer timer.Stop()

	select {
	case <-timer.C:
		return true
	case <-ctx.Done():
		g.Release()
		return false
	}
}

// Release frees the gate. Releasing an unheld gate is a no-op so the
// cancellation path can unwind unconditionally.
func (g *serialGate) Release() {
	select {
	case <-g.sem:
	default:
	}
}
