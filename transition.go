package pathway

import (
	"context"
	"sync"
)

// Transition is the completion handle of one navigation request. It settles
// exactly once: with a nil error when the camera arrives, ErrSuperseded when
// a newer request replaces it, or ErrDisposed when the controller shuts down.
type Transition struct {
	index     int
	immediate bool

	done chan struct{}
	once sync.Once
	err  error
}

func newTransition(index int, immediate bool) *Transition {
	return &Transition{index: index, immediate: immediate, done: make(chan struct{})}
}

func (t *Transition) settle(err error) bool {
	settled := false
	t.once.Do(func() {
		t.err = err
		close(t.done)
		settled = true
	})
	return settled
}

// Index returns the requested waypoint index.
func (t *Transition) Index() int {
	return t.index
}

// Immediate reports whether the request skipped animation.
func (t *Transition) Immediate() bool {
	return t.immediate
}

// Done returns a channel closed when the transition settles.
func (t *Transition) Done() <-chan struct{} {
	return t.done
}

// Settled reports whether the transition has settled.
func (t *Transition) Settled() bool {
	select {
	case <-t.done:
		return true
	default:
		return false
	}
}

// Err returns the settlement error. It is nil while pending and after a
// successful arrival.
func (t *Transition) Err() error {
	select {
	case <-t.done:
		return t.err
	default:
		return nil
	}
}

// Wait blocks until the transition settles or ctx is done.
func (t *Transition) Wait(ctx context.Context) error {
	select {
	case <-t.done:
		return t.err
	case <-ctx.Done():
		return ctx.Err()
	}
}
