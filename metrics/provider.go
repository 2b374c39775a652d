package metrics

import "time"

// Provider constructs instruments used to record stream activity.
// Implementations must be safe for concurrent use.
//
// Keep this interface minimal and stable. If new capabilities are needed
// later, introduce separate optional interfaces rather than expanding this
// surface.
type Provider interface {
	Counter(name string, opts ...InstrumentOption) Counter
	Gauge(name string, opts ...InstrumentOption) Gauge
	Timer(name string, opts ...InstrumentOption) Timer
}

// Counter records monotonic counts (items yielded, evictions, completions).
// Methods must be safe for concurrent use.
type Counter interface {
	Add(n int64)
}

// Gauge records a current level (buffered items, pending requests).
// Methods must be safe for concurrent use.
type Gauge interface {
	Set(v int64)
}

// Timer records durations (cleanup execution time).
// Methods must be safe for concurrent use.
type Timer interface {
	Record(d time.Duration)
}

// InstrumentConfig carries optional instrument metadata. It is advisory only;
// implementations may ignore it.
type InstrumentConfig struct {
	Description string
	Unit        string
}

// InstrumentOption mutates InstrumentConfig.
type InstrumentOption func(*InstrumentConfig)

// WithDescription sets an advisory description for the instrument.
func WithDescription(desc string) InstrumentOption {
	return func(c *InstrumentConfig) { c.Description = desc }
}

// WithUnit sets an advisory unit for the instrument (e.g., "1", "seconds").
func WithUnit(unit string) InstrumentOption {
	return func(c *InstrumentConfig) { c.Unit = unit }
}
