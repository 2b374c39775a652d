package pullstream

import "fmt"

// EvictionPolicy selects which item a bounded item buffer discards when a
// yield would exceed its capacity.
type EvictionPolicy uint8

const (
	// DropOldest discards the least recently yielded item (default).
	DropOldest EvictionPolicy = iota
	// DropNewest discards the item being yielded.
	DropNewest
)

func (p EvictionPolicy) valid() bool { return p == DropOldest || p == DropNewest }

func (p EvictionPolicy) String() string {
	switch p {
	case DropOldest:
		return "drop-oldest"
	case DropNewest:
		return "drop-newest"
	}
	return fmt.Sprintf("eviction-policy(%d)", uint8(p))
}

// itemQueue is a FIFO buffer of yielded, not yet consumed items.
// capacity == 0 means unbounded. Not safe for concurrent use; the owning
// Stream serializes access.
type itemQueue[T any] struct {
	items    []T
	head     int
	capacity int
	policy   EvictionPolicy
}

func newItemQueue[T any](capacity int, policy EvictionPolicy) *itemQueue[T] {
	return &itemQueue[T]{capacity: capacity, policy: policy}
}

// push appends v, applying the eviction policy when the buffer is at capacity.
// It reports whether an item (v itself under DropNewest) was discarded.
func (q *itemQueue[T]) push(v T) (evicted bool) {
	if q.capacity > 0 && q.len() == q.capacity {
		if q.policy == DropNewest {
			return true
		}
		q.pop() // DropOldest
		evicted = true
	}
	q.items = append(q.items, v)
	return evicted
}

// pop removes and returns the oldest item. ok is false when the buffer is empty.
func (q *itemQueue[T]) pop() (v T, ok bool) {
	if q.head == len(q.items) {
		return v, false
	}
	v = q.items[q.head]
	var zero T
	q.items[q.head] = zero // release the reference
	q.head++
	q.compact()
	return v, true
}

func (q *itemQueue[T]) len() int { return len(q.items) - q.head }

// clear discards all buffered items and returns how many were dropped.
func (q *itemQueue[T]) clear() int {
	n := q.len()
	q.items = nil
	q.head = 0
	return n
}

// compact reclaims consumed slots once they dominate the backing slice.
func (q *itemQueue[T]) compact() {
	if q.head == len(q.items) {
		q.items = q.items[:0]
		q.head = 0
		return
	}
	if q.head > len(q.items)/2 && q.head >= 32 {
		n := copy(q.items, q.items[q.head:])
		clearTail(q.items[n:])
		q.items = q.items[:n]
		q.head = 0
	}
}

func clearTail[T any](s []T) {
	var zero T
	for i := range s {
		s[i] = zero
	}
}
