package metrics

import "time"

// NoopProvider returns no-op instruments. It is the default provider.
// All methods are safe for concurrent use and perform no work.
type NoopProvider struct{}

// NewNoopProvider constructs a Provider that discards all measurements.
func NewNoopProvider() NoopProvider { return NoopProvider{} }

func (NoopProvider) Counter(_ string, _ ...InstrumentOption) Counter { return noopCounter{} }

func (NoopProvider) Gauge(_ string, _ ...InstrumentOption) Gauge { return noopGauge{} }

func (NoopProvider) Timer(_ string, _ ...InstrumentOption) Timer { return noopTimer{} }

type noopCounter struct{}

func (noopCounter) Add(_ int64) {}

type noopGauge struct{}

func (noopGauge) Set(_ int64) {}

type noopTimer struct{}

func (noopTimer) Record(_ time.Duration) {}
