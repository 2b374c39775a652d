package metrics

import (
	"sync"
	"sync/atomic"
	"time"
)

// BasicProvider is a simple in-memory implementation of Provider.
// It is concurrency-safe and suitable for tests, examples, and lightweight
// apps. Instruments are created on demand by name and reused for the same
// name. Instrument options are stored for potential introspection only.
type BasicProvider struct {
	mu       sync.RWMutex
	counters map[string]*BasicCounter
	gauges   map[string]*BasicGauge
	timers   map[string]*BasicTimer
	meta     map[string]InstrumentConfig
}

// NewBasicProvider constructs a new BasicProvider.
func NewBasicProvider() *BasicProvider {
	return &BasicProvider{
		counters: make(map[string]*BasicCounter),
		gauges:   make(map[string]*BasicGauge),
		timers:   make(map[string]*BasicTimer),
		meta:     make(map[string]InstrumentConfig),
	}
}

// applyOptions builds InstrumentConfig from options.
func applyOptions(opts []InstrumentOption) InstrumentConfig {
	var cfg InstrumentConfig
	for _, o := range opts {
		if o != nil {
			o(&cfg)
		}
	}
	return cfg
}

// Counter returns the monotonic counter instrument for the given name (created once).
func (p *BasicProvider) Counter(name string, opts ...InstrumentOption) Counter {
	p.mu.RLock()
	c, ok := p.counters[name]
	p.mu.RUnlock()
	if ok {
		return c
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	// re-check after acquiring write lock
	if c, ok = p.counters[name]; ok {
		return c
	}
	p.meta[name] = applyOptions(opts)
	c = &BasicCounter{}
	p.counters[name] = c
	return c
}

// Gauge returns the gauge instrument for the given name (created once).
func (p *BasicProvider) Gauge(name string, opts ...InstrumentOption) Gauge {
	p.mu.RLock()
	g, ok := p.gauges[name]
	p.mu.RUnlock()
	if ok {
		return g
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if g, ok = p.gauges[name]; ok {
		return g
	}
	p.meta[name] = applyOptions(opts)
	g = &BasicGauge{}
	p.gauges[name] = g
	return g
}

// Timer returns the timer instrument for the given name (created once).
func (p *BasicProvider) Timer(name string, opts ...InstrumentOption) Timer {
	p.mu.RLock()
	t, ok := p.timers[name]
	p.mu.RUnlock()
	if ok {
		return t
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if t, ok = p.timers[name]; ok {
		return t
	}
	p.meta[name] = applyOptions(opts)
	t = &BasicTimer{}
	p.timers[name] = t
	return t
}

// BasicCounter is a thread-safe monotonic counter.
type BasicCounter struct {
	val atomic.Int64
}

// Add increments the counter by n.
func (c *BasicCounter) Add(n int64) { c.val.Add(n) }

// Snapshot returns the current value.
func (c *BasicCounter) Snapshot() int64 { return c.val.Load() }

// BasicGauge is a thread-safe gauge holding the most recently set level.
type BasicGauge struct {
	val atomic.Int64
}

// Set replaces the current value with v.
func (g *BasicGauge) Set(v int64) { g.val.Store(v) }

// Snapshot returns the current value.
func (g *BasicGauge) Snapshot() int64 { return g.val.Load() }

// BasicTimer is a thread-safe duration aggregator tracking count, total, min,
// and max. It does not maintain buckets; it is intended as a lightweight,
// general-purpose aggregator.
type BasicTimer struct {
	mu    sync.Mutex
	count int64
	total time.Duration
	min   time.Duration
	max   time.Duration
}

// Record adds a measurement.
func (t *BasicTimer) Record(d time.Duration) {
	t.mu.Lock()
	if t.count == 0 {
		t.min, t.max = d, d
	} else {
		if d < t.min {
			t.min = d
		}
		if d > t.max {
			t.max = d
		}
	}
	t.count++
	t.total += d
	t.mu.Unlock()
}

// TimerSnapshot is an immutable snapshot of a BasicTimer.
type TimerSnapshot struct {
	Count int64
	Total time.Duration
	Min   time.Duration
	Max   time.Duration
	Mean  time.Duration
}

// Snapshot returns a copy of the timer state at the time of call.
func (t *BasicTimer) Snapshot() TimerSnapshot {
	t.mu.Lock()
	s := TimerSnapshot{Count: t.count, Total: t.total, Min: t.min, Max: t.max}
	t.mu.Unlock()
	if s.Count > 0 {
		s.Mean = s.Total / time.Duration(s.Count)
	}
	return s
}
