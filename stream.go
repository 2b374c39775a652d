package pullstream

import (
	"context"
	"iter"
	"sync"
	"time"
)

// Step is the outcome of one consumer request.
// When Done is false, Value holds the next item.
// When Done is true, Final holds the stream's return value if this request
// observed the real completion; bystander requests see the zero value.
type Step[T, R any] struct {
	Done  bool
	Value T
	Final R
}

// CleanupFunc is the producer-supplied teardown. It runs exactly once, on its
// own goroutine, the first time the stream enters a terminal transition.
type CleanupFunc func() error

// Init is the producer-supplied initializer. It is invoked synchronously by
// New with the stream's Controller and returns the teardown to run at
// termination (nil for none).
type Init[T, R any] func(*Controller[T, R]) CleanupFunc

// Stream converts a push-style producer into a pull-style sequence of items.
// The producer drives it through a Controller (Yield/Fail/Return); a single
// consumer pulls through Next and may terminate early through Return.
//
// All state transitions are serialized behind one mutex: consumer calls,
// producer calls, cleanup settlement, and cancellation may come from different
// goroutines, but each observes and replaces the state atomically.
type Stream[T, R any] struct {
	// noCopy prevents accidental copying of the stream.
	nc noCopy

	mu      sync.Mutex
	phase   phase
	items   *itemQueue[T]
	waiters waitQueue[T, R]

	// completion is recorded at most once (first completion wins) and merged
	// with the cleanup outcome when cleanup settles. claimed marks that some
	// request owns the real completion; everyone else pending at finalization
	// is a bystander.
	completionSet bool
	claimed       bool
	completion    completion[R]

	cleanup cleanupRunner

	// cancelErr is set when the external cancellation signal fires; it is
	// replayed to every subsequent request and never overridden by cleanup.
	cancelErr error

	drainOnReturn bool

	// terminated is closed on reaching a terminal phase; it releases the
	// cancellation watcher goroutine.
	terminated chan struct{}

	ins instruments
}

// noCopy is a vet-recognized marker to discourage copying types with this field embedded.
// It works with the "-copylocks" analyzer via the presence of Lock/Unlock methods.
type noCopy struct{}

func (*noCopy) Lock()   {}
func (*noCopy) Unlock() {}

// New constructs a Stream and runs init synchronously with its Controller.
//
// Semantics:
//   - ctx is the stream's cancellation signal. If it is already done, init is
//     never invoked and the stream starts cancelled.
//   - init may drive the stream through Controller calls before returning;
//     if it reaches a terminal-bound state during that synchronous phase, the
//     returned teardown starts right after installation, not lazily.
//   - Invalid options and a nil init are reported synchronously.
func New[T, R any](ctx context.Context, init Init[T, R], opts ...Option) (*Stream[T, R], error) {
	if init == nil {
		return nil, ErrNilInitializer
	}

	cfg := defaultConfig()
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}
	if err := validateConfig(&cfg); err != nil {
		return nil, err
	}

	if ctx == nil {
		ctx = context.Background()
	}

	s := &Stream[T, R]{
		items:         newItemQueue[T](cfg.Capacity, cfg.Eviction),
		drainOnReturn: cfg.DrainOnReturn,
		terminated:    make(chan struct{}),
		ins:           newInstruments(cfg.Metrics),
	}

	if ctx.Err() != nil {
		// Cancelled before construction finished: the initializer must never run.
		s.mu.Lock()
		s.cancelErr = cancellationError(ctx)
		s.phase = phaseCancelled
		s.ins.cancellations.Add(1)
		close(s.terminated)
		s.mu.Unlock()
		return s, nil
	}

	fn := init(&Controller[T, R]{s: s})

	s.mu.Lock()
	if s.cleanup.install(fn) {
		s.launchCleanupLocked()
	}
	s.mu.Unlock()

	go s.watchCancellation(ctx)
	return s, nil
}

// Next pulls the next iteration outcome. It returns a buffered item
// immediately when one exists, otherwise it queues behind earlier requests and
// suspends until the producer yields, the stream completes, or ctx ends.
//
// A ctx expiry abandons only this request: the request is withdrawn from the
// wait queue without consuming a value. If settlement was already in flight,
// the settled outcome is honored instead of the ctx error.
func (s *Stream[T, R]) Next(ctx context.Context) (Step[T, R], error) {
	if ctx == nil {
		ctx = context.Background()
	}

	s.mu.Lock()
	switch s.phase {
	case phaseBuffered:
		v, _ := s.items.pop()
		if s.items.len() == 0 {
			s.phase = phaseIdle
		}
		s.ins.buffered.Set(int64(s.items.len()))
		s.mu.Unlock()
		return Step[T, R]{Value: v}, nil

	case phaseDrainingBuffered:
		// Buffered items win over the pending completion.
		v, _ := s.items.pop()
		s.ins.buffered.Set(int64(s.items.len()))
		if s.items.len() == 0 {
			s.phase = phaseCleaningUp
			if s.cleanup.settled {
				s.finalizeLocked()
			}
		}
		s.mu.Unlock()
		return Step[T, R]{Value: v}, nil

	case phaseIdle:
		r := s.enqueueLocked(reqNext)
		s.phase = phaseAwaiting
		s.mu.Unlock()
		return s.await(ctx, r)

	case phaseAwaiting, phaseDrainingAwaiting:
		r := s.enqueueLocked(reqNext)
		s.mu.Unlock()
		return s.await(ctx, r)

	case phaseCleaningUp:
		r := s.enqueueLocked(reqNext)
		if !s.claimed {
			// First arrival during cleanup observes the real completion.
			r.owner = true
			s.claimed = true
		}
		s.mu.Unlock()
		return s.await(ctx, r)

	case phaseComplete:
		c := s.completion
		s.mu.Unlock()
		return stepFromCompletion[T](c)

	case phaseCancelled:
		err := s.cancelErr
		s.mu.Unlock()
		return Step[T, R]{}, err
	}

	p := s.phase
	s.mu.Unlock()
	panic(Namespace + ": Next in unknown phase " + p.String())
}

// Return requests early termination with the given final value.
//
// Semantics:
//   - Requests already queued by Next are honored, in order, before cleanup
//     starts; Return never skips ahead of them.
//   - Already-buffered items are discarded by default; with WithDrainOnReturn
//     they are drained (by further Next calls) before the stream finalizes.
//   - If a completion is already recorded, the first one wins and this call
//     settles from it like any other request.
func (s *Stream[T, R]) Return(ctx context.Context, v R) (Step[T, R], error) {
	if ctx == nil {
		ctx = context.Background()
	}

	s.mu.Lock()
	switch s.phase {
	case phaseIdle:
		r := s.beginConsumerReturnLocked(v, phaseCleaningUp)
		s.mu.Unlock()
		return s.await(ctx, r)

	case phaseBuffered:
		if s.drainOnReturn {
			r := s.beginConsumerReturnLocked(v, phaseDrainingBuffered)
			s.mu.Unlock()
			return s.await(ctx, r)
		}
		s.discardBufferedLocked()
		r := s.beginConsumerReturnLocked(v, phaseCleaningUp)
		s.mu.Unlock()
		return s.await(ctx, r)

	case phaseAwaiting, phaseDrainingAwaiting:
		// Queue behind the outstanding Next requests; the completion is
		// recorded only once they are all honored.
		r := s.enqueueLocked(reqReturn)
		r.final = v
		s.phase = phaseDrainingAwaiting
		s.mu.Unlock()
		return s.await(ctx, r)

	case phaseDrainingBuffered:
		// A completion is already pending; the consumer gave up on the
		// remaining buffered items.
		s.discardBufferedLocked()
		r := s.enqueueLocked(reqReturn)
		if !s.claimed {
			r.owner = true
			s.claimed = true
		}
		s.phase = phaseCleaningUp
		if s.cleanup.settled {
			s.finalizeLocked()
		}
		s.mu.Unlock()
		return s.await(ctx, r)

	case phaseCleaningUp:
		r := s.enqueueLocked(reqReturn)
		if !s.claimed {
			r.owner = true
			s.claimed = true
		}
		s.mu.Unlock()
		return s.await(ctx, r)

	case phaseComplete:
		c := s.completion
		s.mu.Unlock()
		return stepFromCompletion[T](c)

	case phaseCancelled:
		err := s.cancelErr
		s.mu.Unlock()
		return Step[T, R]{}, err
	}

	p := s.phase
	s.mu.Unlock()
	panic(Namespace + ": Return in unknown phase " + p.String())
}

// All returns a range-over-func iterator pulling from the stream. Iteration
// stops at the first done outcome; an error outcome is yielded once with the
// zero item value. Breaking out of the range body issues a consumer Return, so
// the producer's teardown still runs.
func (s *Stream[T, R]) All(ctx context.Context) iter.Seq2[T, error] {
	return func(yield func(T, error) bool) {
		for {
			step, err := s.Next(ctx)
			if err != nil {
				var zero T
				yield(zero, err)
				return
			}
			if step.Done {
				return
			}
			if !yield(step.Value, nil) {
				var zero R
				_, _ = s.Return(ctx, zero)
				return
			}
		}
	}
}

// Len returns the number of buffered, not yet consumed items. Observational only.
func (s *Stream[T, R]) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.items.len()
}

// Pending returns the number of queued consumer requests. Observational only.
func (s *Stream[T, R]) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.waiters.len()
}

// producer-side transitions

func (s *Stream[T, R]) yield(v T) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch s.phase {
	case phaseIdle:
		s.items.push(v)
		s.phase = phaseBuffered
		s.ins.yields.Add(1)
		s.ins.buffered.Set(int64(s.items.len()))

	case phaseBuffered:
		if s.items.push(v) {
			s.ins.evictions.Add(1)
		}
		s.ins.yields.Add(1)
		s.ins.buffered.Set(int64(s.items.len()))

	case phaseAwaiting, phaseDrainingAwaiting:
		// The head of the wait queue is always a Next request here; a queued
		// Return triggers as soon as it reaches the head, below.
		r := s.waiters.popFront()
		s.ins.pending.Set(int64(s.waiters.len()))
		s.ins.yields.Add(1)
		r.d.resolve(Step[T, R]{Value: v})
		if head := s.waiters.front(); head != nil && head.kind == reqReturn {
			s.adoptReturnLocked(head)
		} else if s.waiters.len() == 0 {
			s.phase = phaseIdle
		}

	case phaseDrainingBuffered, phaseCleaningUp, phaseComplete, phaseCancelled:
		// A completion is pending or delivered; late yields are ignored.

	default:
		panic(Namespace + ": yield in unknown phase " + s.phase.String())
	}
}

func (s *Stream[T, R]) complete(c completion[R]) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch s.phase {
	case phaseIdle:
		s.setCompletionLocked(c)
		s.phase = phaseCleaningUp
		s.beginCleanupLocked()

	case phaseBuffered:
		// Cleanup starts in the background; the completion becomes observable
		// only after the buffered items drain.
		s.setCompletionLocked(c)
		s.phase = phaseDrainingBuffered
		s.beginCleanupLocked()

	case phaseAwaiting, phaseDrainingAwaiting:
		// The oldest waiting request owns the completion; everyone else queued
		// becomes a bystander at finalization.
		s.setCompletionLocked(c)
		s.waiters.front().owner = true
		s.claimed = true
		s.phase = phaseCleaningUp
		s.beginCleanupLocked()

	case phaseDrainingBuffered, phaseCleaningUp, phaseComplete, phaseCancelled:
		// First completion wins.

	default:
		panic(Namespace + ": complete in unknown phase " + s.phase.String())
	}
}

// internal helpers, all called with s.mu held

func (s *Stream[T, R]) setCompletionLocked(c completion[R]) {
	s.completionSet = true
	s.completion = c
}

// adoptReturnLocked fires a queued consumer Return that reached the head of
// the wait queue: every earlier Next has been honored, so its completion is
// recorded now and cleanup starts.
func (s *Stream[T, R]) adoptReturnLocked(r *request[T, R]) {
	s.setCompletionLocked(completion[R]{value: r.final})
	r.owner = true
	s.claimed = true
	s.phase = phaseCleaningUp
	s.beginCleanupLocked()
}

// beginConsumerReturnLocked records a consumer-initiated completion when no
// earlier requests are outstanding, and moves to next (cleaning-up, or
// draining-buffered under WithDrainOnReturn).
func (s *Stream[T, R]) beginConsumerReturnLocked(v R, next phase) *request[T, R] {
	s.setCompletionLocked(completion[R]{value: v})
	r := s.enqueueLocked(reqReturn)
	r.final = v
	r.owner = true
	s.claimed = true
	s.phase = next
	s.beginCleanupLocked()
	return r
}

func (s *Stream[T, R]) discardBufferedLocked() {
	if n := s.items.clear(); n > 0 {
		s.ins.discarded.Add(int64(n))
	}
	s.ins.buffered.Set(0)
}

func (s *Stream[T, R]) enqueueLocked(kind requestKind) *request[T, R] {
	r := &request[T, R]{kind: kind, d: newDeferred[T, R]()}
	s.waiters.push(r)
	s.ins.pending.Set(int64(s.waiters.len()))
	return r
}

func (s *Stream[T, R]) beginCleanupLocked() {
	if s.cleanup.begin() {
		s.launchCleanupLocked()
	}
}

// launchCleanupLocked runs the teardown on its own goroutine. A nil teardown
// settles synchronously.
func (s *Stream[T, R]) launchCleanupLocked() {
	fn := s.cleanup.fn
	if fn == nil {
		s.settleCleanupLocked(nil)
		return
	}
	go func() {
		start := time.Now()
		err := fn()
		s.ins.cleanupTime.Record(time.Since(start))
		s.mu.Lock()
		s.settleCleanupLocked(err)
		s.mu.Unlock()
	}()
}

// settleCleanupLocked memoizes the teardown outcome, merges it into the
// pending completion, and finalizes unless buffered items still must drain.
func (s *Stream[T, R]) settleCleanupLocked(err error) {
	s.cleanup.finish(err)

	if s.phase == phaseCancelled {
		// The cancellation error was already delivered; the teardown outcome
		// must not override it.
		return
	}

	s.completion = s.completion.merge(err)

	switch s.phase {
	case phaseCleaningUp:
		s.finalizeLocked()
	case phaseDrainingBuffered:
		// Finalization happens once the last buffered item is consumed.
	default:
		panic(Namespace + ": cleanup settled in phase " + s.phase.String())
	}
}

// finalizeLocked delivers the merged completion: the owning request settles
// from it, bystanders resolve with a bare done outcome, and the stream becomes
// complete, replaying the stored completion to all future requests.
func (s *Stream[T, R]) finalizeLocked() {
	for _, r := range s.waiters.takeAll() {
		if r.owner {
			settleFromCompletion(r.d, s.completion)
		} else {
			r.d.resolve(Step[T, R]{Done: true})
		}
	}
	s.ins.pending.Set(0)
	s.phase = phaseComplete
	s.ins.completions.Add(1)
	close(s.terminated)
}

// await suspends the caller until its request settles or ctx ends.
func (s *Stream[T, R]) await(ctx context.Context, r *request[T, R]) (Step[T, R], error) {
	select {
	case <-r.d.settled:
		return r.d.step, r.d.err
	case <-ctx.Done():
		if s.withdraw(r) {
			return Step[T, R]{}, ctx.Err()
		}
		// Settlement was already in flight; honor it so no value is lost.
		<-r.d.settled
		return r.d.step, r.d.err
	}
}

// withdraw removes an abandoned request from the wait queue. It reports false
// when the request has already been taken for settlement.
func (s *Stream[T, R]) withdraw(r *request[T, R]) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.waiters.remove(r) {
		return false
	}
	s.ins.pending.Set(int64(s.waiters.len()))

	if r.owner {
		// The completion is unclaimed again; a later request may observe it.
		r.owner = false
		s.claimed = false
	}

	switch s.phase {
	case phaseAwaiting, phaseDrainingAwaiting:
		if head := s.waiters.front(); head != nil && head.kind == reqReturn {
			// Every Next ahead of the queued Return is gone; it fires now,
			// exactly as it would when a yield drains the last one.
			s.adoptReturnLocked(head)
			return true
		}
		switch {
		case s.waiters.len() == 0:
			s.phase = phaseIdle
		case s.waiters.hasReturn():
			s.phase = phaseDrainingAwaiting
		default:
			s.phase = phaseAwaiting
		}
	case phaseDrainingBuffered, phaseCleaningUp:
		// A pending-on-cleanup entry was abandoned; nothing else to adjust.
	}

	return true
}

func settleFromCompletion[T, R any](d *deferred[T, R], c completion[R]) {
	if c.err != nil {
		d.reject(c.err)
		return
	}
	d.resolve(Step[T, R]{Done: true, Final: c.value})
}

func stepFromCompletion[T, R any](c completion[R]) (Step[T, R], error) {
	if c.err != nil {
		return Step[T, R]{}, c.err
	}
	return Step[T, R]{Done: true, Final: c.value}, nil
}
