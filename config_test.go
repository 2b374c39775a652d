package pullstream

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ygrebnov/pullstream/metrics"
)

func noopInit[T, R any]() Init[T, R] {
	return func(_ *Controller[T, R]) CleanupFunc { return nil }
}

func TestNew_NilInitializer(t *testing.T) {
	_, err := New[int, string](context.Background(), nil)
	require.ErrorIs(t, err, ErrNilInitializer)
}

func TestNew_InvalidCapacity(t *testing.T) {
	for _, n := range []int{0, -1, -100} {
		_, err := New[int, string](context.Background(), noopInit[int, string](), WithCapacity(n))
		require.ErrorIs(t, err, ErrInvalidConfig, "capacity %d", n)
	}
}

func TestNew_InvalidEvictionPolicy(t *testing.T) {
	_, err := New[int, string](context.Background(), noopInit[int, string](),
		WithEvictionPolicy(EvictionPolicy(9)))
	require.ErrorIs(t, err, ErrInvalidConfig)
}

func TestNew_NilMetricsProvider(t *testing.T) {
	_, err := New[int, string](context.Background(), noopInit[int, string](), WithMetrics(nil))
	require.ErrorIs(t, err, ErrInvalidConfig)
}

func TestNew_NilOptionIsSkipped(t *testing.T) {
	s, err := New[int, string](context.Background(), noopInit[int, string](), nil, WithCapacity(4))
	require.NoError(t, err)
	require.NotNil(t, s)
}

func TestNew_ValidOptions(t *testing.T) {
	s, err := New[int, string](context.Background(), noopInit[int, string](),
		WithCapacity(8),
		WithEvictionPolicy(DropNewest),
		WithDrainOnReturn(),
		WithMetrics(metrics.NewBasicProvider()),
	)
	require.NoError(t, err)
	require.NotNil(t, s)
}

func TestEvictionPolicy_String(t *testing.T) {
	require.Equal(t, "drop-oldest", DropOldest.String())
	require.Equal(t, "drop-newest", DropNewest.String())
	require.Equal(t, "eviction-policy(9)", EvictionPolicy(9).String())
}
