package pullstream

import (
	"context"

	"github.com/ygrebnov/errorc"
)

// watchCancellation observes the stream's cancellation signal until the stream
// reaches a terminal phase on its own.
func (s *Stream[T, R]) watchCancellation(ctx context.Context) {
	select {
	case <-ctx.Done():
		s.forceCancel(ctx)
	case <-s.terminated:
	}
}

// forceCancel transitions the stream into the cancelled terminal phase:
// every queued request is rejected with the cancellation error, buffered items
// are dropped (cancellation overrides drain-before-done), and the teardown is
// started best-effort if it has not run yet. Its outcome never overrides the
// cancellation error already delivered.
//
// Cancellation after the stream completed is a no-op: nothing is owed.
func (s *Stream[T, R]) forceCancel(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.phase.terminal() {
		return
	}

	s.cancelErr = cancellationError(ctx)
	s.discardBufferedLocked()
	for _, r := range s.waiters.takeAll() {
		r.d.reject(s.cancelErr)
	}
	s.ins.pending.Set(0)

	s.phase = phaseCancelled
	s.ins.cancellations.Add(1)
	s.beginCleanupLocked()
	close(s.terminated)
}

func cancellationError(ctx context.Context) error {
	cause := context.Cause(ctx)
	if cause == nil {
		cause = context.Canceled
	}
	return errorc.With(ErrCancelled, errorc.String("cause", cause.Error()))
}
