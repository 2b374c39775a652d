package pullstream

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCompletionMerge_CleanupSucceeds(t *testing.T) {
	c := completion[int]{value: 42}
	require.Equal(t, c, c.merge(nil))

	errProducer := errors.New("producer")
	c = completion[int]{err: errProducer}
	require.Equal(t, c, c.merge(nil))
}

func TestCompletionMerge_FailureReplacesValue(t *testing.T) {
	errCleanup := errors.New("cleanup")
	merged := completion[int]{value: 42}.merge(errCleanup)
	require.ErrorIs(t, merged.err, errCleanup)
	require.Zero(t, merged.value)
}

func TestCompletionMerge_FailureAggregatesWithError(t *testing.T) {
	errProducer := errors.New("producer")
	errCleanup := errors.New("cleanup")
	merged := completion[int]{err: errProducer}.merge(errCleanup)
	require.ErrorIs(t, merged.err, errProducer)
	require.ErrorIs(t, merged.err, errCleanup)
}

func TestCleanupRunner_BeginBeforeInstallIsParked(t *testing.T) {
	var r cleanupRunner
	require.False(t, r.begin(), "teardown unknown yet; start must be parked")
	require.False(t, r.started)

	require.True(t, r.install(func() error { return nil }), "parked start launches at install")
	require.True(t, r.started)
}

func TestCleanupRunner_BeginAfterInstall(t *testing.T) {
	var r cleanupRunner
	require.False(t, r.install(nil))
	require.True(t, r.begin())
	require.False(t, r.begin(), "second begin must not relaunch")

	r.finish(nil)
	require.True(t, r.settled)
	require.False(t, r.begin(), "begin after settlement is a no-op")
}
