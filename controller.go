package pullstream

// Controller is the producer-facing handle bound to a Stream. The initializer
// receives it at construction and may call its methods synchronously during
// that phase or later from the producer's own flow of control.
//
// Methods are not safe for concurrent use with each other: the producer is
// assumed to be a single logical thread of control. They are safe to call
// concurrently with the consumer side (Next/Return) and with cancellation.
//
// Once a completion is recorded, all Controller methods become no-ops; the
// first completion always wins.
type Controller[T, R any] struct {
	s *Stream[T, R]
}

// Yield pushes one item to the consumer side: it is handed to the oldest
// pending Next directly, or buffered (subject to capacity and eviction policy)
// when nobody is waiting. Yield after completion or cancellation is ignored.
func (c *Controller[T, R]) Yield(v T) { c.s.yield(v) }

// Return completes the stream with a final value. Already-buffered items are
// still handed out before the completion becomes observable.
func (c *Controller[T, R]) Return(v R) { c.s.complete(completion[R]{value: v}) }

// Fail completes the stream with an error. A nil err is recorded as
// ErrProducerFailure so the error completion always carries a reason.
func (c *Controller[T, R]) Fail(err error) {
	if err == nil {
		err = ErrProducerFailure
	}
	c.s.complete(completion[R]{err: err})
}
