package pullstream

import (
	"context"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

func TestStress_ProducerConsumerOrdering(t *testing.T) {
	const total = 1000

	var ctrl *Controller[int, string]
	s, err := New[int, string](context.Background(), func(c *Controller[int, string]) CleanupFunc {
		ctrl = c
		return nil
	})
	require.NoError(t, err)

	var g errgroup.Group
	g.Go(func() error {
		for i := 0; i < total; i++ {
			ctrl.Yield(i)
		}
		ctrl.Return("done")
		return nil
	})

	var got []int
	g.Go(func() error {
		for {
			step, nerr := s.Next(context.Background())
			if nerr != nil {
				return nerr
			}
			if step.Done {
				return nil
			}
			got = append(got, step.Value)
		}
	})

	require.NoError(t, g.Wait())
	require.Len(t, got, total)
	for i, v := range got {
		require.Equal(t, i, v, "values must arrive in emission order")
	}

	step, err := s.Next(context.Background())
	require.NoError(t, err)
	require.Equal(t, "done", step.Final)
}

func TestStress_ReturnRacesWithConsumption(t *testing.T) {
	var cleanups atomic.Int32

	var ctrl *Controller[int, string]
	s, err := New[int, string](context.Background(), func(c *Controller[int, string]) CleanupFunc {
		ctrl = c
		return func() error { cleanups.Add(1); return nil }
	})
	require.NoError(t, err)

	var g errgroup.Group
	g.Go(func() error {
		for i := 0; ; i++ {
			s.mu.Lock()
			done := s.phase.terminal() || s.completionSet
			s.mu.Unlock()
			if done {
				return nil
			}
			ctrl.Yield(i)
		}
	})
	g.Go(func() error {
		for i := 0; i < 100; i++ {
			if _, nerr := s.Next(context.Background()); nerr != nil {
				return nerr
			}
		}
		_, nerr := s.Return(context.Background(), "stop")
		return nerr
	})

	require.NoError(t, g.Wait())
	require.Equal(t, int32(1), cleanups.Load())

	step, err := s.Next(context.Background())
	require.NoError(t, err)
	require.True(t, step.Done)
}

func TestStress_CancellationUnderLoad(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	var ctrl *Controller[int, string]
	s, err := New[int, string](ctx, func(c *Controller[int, string]) CleanupFunc {
		ctrl = c
		return nil
	})
	require.NoError(t, err)

	var g errgroup.Group
	stop := make(chan struct{})
	g.Go(func() error {
		for i := 0; ; i++ {
			select {
			case <-stop:
				return nil
			default:
				ctrl.Yield(i)
			}
		}
	})
	g.Go(func() error {
		defer close(stop)
		for {
			_, nerr := s.Next(context.Background())
			if nerr != nil {
				require.ErrorIs(t, nerr, ErrCancelled)
				return nil
			}
		}
	})

	cancel()
	require.NoError(t, g.Wait())

	_, err = s.Next(context.Background())
	require.ErrorIs(t, err, ErrCancelled)
}
