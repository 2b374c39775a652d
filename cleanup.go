package pullstream

import "errors"

// completion is the final outcome a stream settles to: a return value when err
// is nil, an error otherwise. It is recorded once per stream; the first
// completion always wins.
type completion[R any] struct {
	value R
	err   error
}

// merge folds the cleanup outcome into a pending completion:
//   - cleanup succeeded: the pending completion is unchanged;
//   - cleanup failed while a return value was pending: the failure replaces it;
//   - cleanup failed while an error was pending: both errors are aggregated,
//     neither is dropped.
func (c completion[R]) merge(cleanupErr error) completion[R] {
	if cleanupErr == nil {
		return c
	}
	if c.err == nil {
		var zero R
		return completion[R]{value: zero, err: cleanupErr}
	}
	return completion[R]{err: errors.Join(c.err, cleanupErr)}
}

// cleanupRunner tracks exactly-once execution of the producer-supplied
// teardown. Fields are guarded by the owning Stream's mutex; the teardown
// itself runs on its own goroutine, outside the lock, and its outcome is
// memoized for replay to every pending and future request.
//
// Construction is two-phase: the teardown is only known once the initializer
// returns, but the initializer may already have driven the stream into a
// terminal-bound state. begin requests made before install are parked and
// honored at install time.
type cleanupRunner struct {
	fn func() error

	installed    bool
	pendingStart bool
	started      bool
	settled      bool
	err          error
}

// install records the teardown returned by the initializer (nil means no-op)
// and reports whether a start parked during the synchronous construction phase
// must be launched now.
func (c *cleanupRunner) install(fn func() error) (startNow bool) {
	c.installed = true
	c.fn = fn
	if c.pendingStart {
		c.pendingStart = false
		return c.begin()
	}
	return false
}

// begin requests the teardown to run. It reports whether the caller must
// launch it now; false means it already ran, or the teardown is not installed
// yet and the start has been parked until install.
func (c *cleanupRunner) begin() (startNow bool) {
	if c.started || c.settled {
		return false
	}
	if !c.installed {
		c.pendingStart = true
		return false
	}
	c.started = true
	return true
}

// finish memoizes the teardown outcome.
func (c *cleanupRunner) finish(err error) {
	c.settled = true
	c.err = err
}
