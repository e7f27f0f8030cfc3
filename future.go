package rearm

import (
	"context"
	"sync"

	"github.com/ansel1/merry"
)

// A Future is the one-shot result of a dispatch.  It settles exactly
// once: resolved with the controller when the terminal state
// classifies as success, rejected with the controller's Err
// otherwise.
type Future struct {
	done chan struct{}
	once sync.Once
	ctrl *Controller
	err  error
}

// Done returns a channel which is closed when the future settles.
func (f *Future) Done() <-chan struct{} {
	return f.done
}

// Wait blocks until the future settles or the context is done.  On
// settlement it returns the controller and the classification error,
// which is nil for success-classified outcomes.  The controller is
// returned for rejected futures too, so callers can inspect status
// and headers.
func (f *Future) Wait(ctx context.Context) (*Controller, error) {
	select {
	case <-f.done:
		return f.ctrl, f.err
	case <-ctx.Done():
		return nil, merry.Prepend(ctx.Err(), "awaiting dispatch")
	}
}

// settle records the outcome and releases waiters.  Settling is
// idempotent: only the first terminal outcome is recorded, later calls
// are ignored.
func (f *Future) settle(c *Controller) {
	f.once.Do(func() {
		f.ctrl = c
		f.err = c.Err()
		close(f.done)
	})
}

// settled reports whether the future has already been settled.
func (f *Future) settled() bool {
	select {
	case <-f.done:
		return true
	default:
		return false
	}
}

// Future registers a future in the completion-observer slot, replacing
// any previous registration, and dispatches the request with the
// descriptor's stored body.
//
// The returned future settles exactly once.  Calling Future again
// while the dispatch is still in flight returns ErrInFlight rather
// than dispatching a second time; re-dispatching requires the prior
// dispatch to finish (or an Abort) first.
func (c *Controller) Future() (*Future, error) {
	f := &Future{done: make(chan struct{})}

	c.mu.Lock()
	if c.inFlight {
		c.mu.Unlock()
		return nil, ErrInFlight.Here()
	}
	c.slot = observer{kind: slotFuture, fut: f}
	c.mu.Unlock()

	if err := c.Dispatch(nil); err != nil {
		c.ClearObserver()
		return nil, err
	}
	return f, nil
}
