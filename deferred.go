package pullstream

// deferred is a one-shot settlement slot backing a single pending request.
// It is settled exactly once: the settling side must first take exclusive
// ownership of the slot (by removing its request from the wait queue, or by
// being the request's creator on a synchronous path), so double settlement is
// prevented by ownership transfer rather than detected at runtime.
type deferred[T, R any] struct {
	settled chan struct{}
	step    Step[T, R]
	err     error
}

func newDeferred[T, R any]() *deferred[T, R] {
	return &deferred[T, R]{settled: make(chan struct{})}
}

// resolve delivers a successful iteration outcome and wakes the awaiting caller.
func (d *deferred[T, R]) resolve(s Step[T, R]) {
	d.step = s
	close(d.settled)
}

// reject delivers a failure and wakes the awaiting caller.
func (d *deferred[T, R]) reject(err error) {
	d.err = err
	close(d.settled)
}
