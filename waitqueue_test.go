package pullstream

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestWaitQueue_FIFO(t *testing.T) {
	var q waitQueue[int, string]
	a := &request[int, string]{kind: reqNext, d: newDeferred[int, string]()}
	b := &request[int, string]{kind: reqNext, d: newDeferred[int, string]()}
	c := &request[int, string]{kind: reqReturn, d: newDeferred[int, string]()}

	q.push(a)
	q.push(b)
	q.push(c)
	require.Equal(t, 3, q.len())
	require.True(t, q.hasReturn())
	require.Same(t, a, q.front())

	require.Same(t, a, q.popFront())
	require.Same(t, b, q.popFront())
	require.Same(t, c, q.popFront())
	require.Nil(t, q.popFront())
	require.Nil(t, q.front())
}

func TestWaitQueue_RemovePreservesOrder(t *testing.T) {
	var q waitQueue[int, string]
	a := &request[int, string]{kind: reqNext, d: newDeferred[int, string]()}
	b := &request[int, string]{kind: reqReturn, d: newDeferred[int, string]()}
	c := &request[int, string]{kind: reqNext, d: newDeferred[int, string]()}
	q.push(a)
	q.push(b)
	q.push(c)

	require.True(t, q.remove(b))
	require.False(t, q.remove(b), "a removed request is gone")
	require.False(t, q.hasReturn())

	require.Same(t, a, q.popFront())
	require.Same(t, c, q.popFront())
}

func TestWaitQueue_TakeAllTransfersOwnership(t *testing.T) {
	var q waitQueue[int, string]
	a := &request[int, string]{kind: reqNext, d: newDeferred[int, string]()}
	b := &request[int, string]{kind: reqNext, d: newDeferred[int, string]()}
	q.push(a)
	q.push(b)

	reqs := q.takeAll()
	require.Equal(t, []*request[int, string]{a, b}, reqs)
	require.Equal(t, 0, q.len())
	require.False(t, q.remove(a))
}
