package pullstream

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/ygrebnov/pullstream/metrics"
)

func TestInstruments_RecordStreamActivity(t *testing.T) {
	p := metrics.NewBasicProvider()
	var ctrl *Controller[int, string]
	s, err := New[int, string](context.Background(), func(c *Controller[int, string]) CleanupFunc {
		ctrl = c
		return func() error { time.Sleep(time.Millisecond); return nil }
	}, WithCapacity(1), WithMetrics(p))
	require.NoError(t, err)

	ctrl.Yield(1)
	ctrl.Yield(2) // evicts 1
	ctrl.Return("done")

	step, err := s.Next(context.Background())
	require.NoError(t, err)
	require.Equal(t, 2, step.Value)

	step, err = s.Next(context.Background())
	require.NoError(t, err)
	require.True(t, step.Done)

	yielded, ok := p.Counter("pullstream.items.yielded").(*metrics.BasicCounter)
	require.True(t, ok)
	require.Equal(t, int64(2), yielded.Snapshot())

	evicted := p.Counter("pullstream.items.evicted").(*metrics.BasicCounter)
	require.Equal(t, int64(1), evicted.Snapshot())

	completions := p.Counter("pullstream.completions").(*metrics.BasicCounter)
	require.Equal(t, int64(1), completions.Snapshot())

	buffered := p.Gauge("pullstream.items.buffered").(*metrics.BasicGauge)
	require.Equal(t, int64(0), buffered.Snapshot())

	cleanup := p.Timer("pullstream.cleanup.duration").(*metrics.BasicTimer)
	require.Equal(t, int64(1), cleanup.Snapshot().Count)
}

func TestInstruments_CancellationCounted(t *testing.T) {
	p := metrics.NewBasicProvider()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	s, err := New[int, string](ctx, noopInit[int, string](), WithMetrics(p))
	require.NoError(t, err)
	_, err = s.Next(context.Background())
	require.ErrorIs(t, err, ErrCancelled)

	cancellations := p.Counter("pullstream.cancellations").(*metrics.BasicCounter)
	require.Equal(t, int64(1), cancellations.Snapshot())
}
