package pullstream

import (
	"github.com/ygrebnov/errorc"

	"github.com/ygrebnov/pullstream/metrics"
)

// config holds Stream configuration.
type config struct {
	// Capacity defines the maximum number of buffered, not yet consumed items.
	// Zero (default) means the item buffer grows without bound.
	Capacity int

	// Eviction defines which item is discarded when a yield would exceed Capacity.
	// Default: DropOldest.
	Eviction EvictionPolicy

	// DrainOnReturn makes a consumer-side Return drain already-buffered items
	// before cleanup instead of discarding them.
	// Default: false (discard).
	DrainOnReturn bool

	// Metrics supplies the instrument provider used to record stream activity.
	// Default: metrics.NewNoopProvider().
	Metrics metrics.Provider
}

// defaultConfig centralizes default values for config.
// These defaults form the base every New call builds options on top of.
func defaultConfig() config {
	return config{
		Capacity:      0, // unbounded buffer
		Eviction:      DropOldest,
		DrainOnReturn: false,
		Metrics:       metrics.NewNoopProvider(),
	}
}

// validateConfig performs lightweight invariants checks.
// It returns nil for all currently valid states; reserved for future validation expansions.
func validateConfig(_ *config) error {
	// Capacity == 0 -> unbounded; >0 -> bounded with eviction.
	// Option constructors reject invalid inputs before this point.
	return nil
}

// Option configures a Stream. Invalid inputs are reported as errors from New
// rather than panicking.
type Option func(*config) error

// WithCapacity bounds the item buffer to n items (must be > 0).
// When a yield would exceed the bound, the configured eviction policy applies.
func WithCapacity(n int) Option {
	return func(cfg *config) error {
		if n <= 0 {
			return errorc.With(ErrInvalidConfig, errorc.String("", "WithCapacity requires n > 0"))
		}
		cfg.Capacity = n
		return nil
	}
}

// WithEvictionPolicy selects which item is discarded when the bounded item
// buffer is full (default DropOldest). Only meaningful together with WithCapacity.
func WithEvictionPolicy(p EvictionPolicy) Option {
	return func(cfg *config) error {
		if !p.valid() {
			return errorc.With(ErrInvalidConfig, errorc.String("policy", p.String()))
		}
		cfg.Eviction = p
		return nil
	}
}

// WithDrainOnReturn makes a consumer-side Return wait for already-buffered items
// to be consumed before starting cleanup, instead of discarding them (the default).
func WithDrainOnReturn() Option {
	return func(cfg *config) error { cfg.DrainOnReturn = true; return nil }
}

// WithMetrics wires an instrument provider recording stream activity
// (yields, evictions, pending requests, cleanup duration).
func WithMetrics(p metrics.Provider) Option {
	return func(cfg *config) error {
		if p == nil {
			return errorc.With(ErrInvalidConfig, errorc.String("", "WithMetrics requires a non-nil provider"))
		}
		cfg.Metrics = p
		return nil
	}
}
