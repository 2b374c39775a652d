package pullstream

import "github.com/ygrebnov/pullstream/metrics"

// instruments bundles the measurements the stream records. All instruments
// come from the configured provider; the default provider discards everything.
type instruments struct {
	yields        metrics.Counter
	evictions     metrics.Counter
	discarded     metrics.Counter
	completions   metrics.Counter
	cancellations metrics.Counter

	buffered metrics.Gauge
	pending  metrics.Gauge

	cleanupTime metrics.Timer
}

func newInstruments(p metrics.Provider) instruments {
	return instruments{
		yields: p.Counter("pullstream.items.yielded", metrics.WithUnit("1")),
		evictions: p.Counter("pullstream.items.evicted",
			metrics.WithDescription("items dropped by the eviction policy of a bounded buffer")),
		discarded: p.Counter("pullstream.items.discarded",
			metrics.WithDescription("buffered items dropped by consumer return or cancellation")),
		completions:   p.Counter("pullstream.completions"),
		cancellations: p.Counter("pullstream.cancellations"),
		buffered:      p.Gauge("pullstream.items.buffered"),
		pending:       p.Gauge("pullstream.requests.pending"),
		cleanupTime: p.Timer("pullstream.cleanup.duration",
			metrics.WithUnit("seconds")),
	}
}
