package pullstream

import "errors"

const Namespace = "pullstream"

var (
	ErrCancelled = errors.New(Namespace + ": stream cancelled")

	ErrInvalidConfig = errors.New(Namespace + ": invalid configuration")

	ErrNilInitializer = errors.New(Namespace + ": initializer must not be nil")

	// ErrProducerFailure substitutes for a nil error passed to Controller.Fail,
	// so an error completion always carries a non-nil reason.
	ErrProducerFailure = errors.New(Namespace + ": producer signalled failure without an error")
)
