// Package pullstream turns a push-style event source (callbacks, timers,
// device events) into a pull-style sequence with bounded memory, deterministic
// ordering, exactly-once teardown, and cooperative cancellation.
//
// Construction
//   - New(ctx, init, opts ...Option): runs init synchronously with a Controller
//     bound to the new stream. init returns the CleanupFunc to run at
//     termination (nil for none). ctx is the stream's cancellation signal.
//
// Defaults
// Unless overridden, the following defaults apply to a newly created stream:
//   - Capacity: 0 (unbounded item buffer)
//   - Eviction: DropOldest
//   - DrainOnReturn: false (consumer Return discards buffered items)
//   - Metrics: noop provider
//
// Ordering
// Consumer requests are satisfied strictly in the order they were issued,
// including the completion: a Return issued after outstanding Next calls does
// not start cleanup until those are honored. Cancellation is the one exception
// and rejects every pending request together.
//
// Completion and cleanup
// The first completion wins, whether it comes from the producer (Return/Fail),
// the consumer (Return), or cancellation. The teardown runs exactly once; its
// outcome is merged into the completion (a teardown failure replaces a pending
// return value, and aggregates with a pending error) and memoized for replay
// to every later request.
//
// Concurrency
// Producer and consumer may live on different goroutines; every transition is
// serialized behind a single mutex. The producer itself is assumed to be one
// logical thread of control: Controller methods must not race each other.
// One consumer side at a time; there is no fan-out.
package pullstream
