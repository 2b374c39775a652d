package pullstream

// requestKind distinguishes the two consumer-side operations a queued request
// may represent.
type requestKind uint8

const (
	// reqNext waits for the next item or the completion.
	reqNext requestKind = iota
	// reqReturn asks for early termination once all earlier requests are honored.
	reqReturn
)

// request is one pending consumer call queued behind the stream's state.
type request[T, R any] struct {
	kind requestKind

	// final carries the value a reqReturn wants the stream to settle to.
	final R

	// owner marks the single request that observes the real completion value;
	// all other requests pending at finalization are bystanders and resolve
	// with a bare done outcome.
	owner bool

	d *deferred[T, R]
}

// waitQueue is an unbounded FIFO of pending consumer requests.
// Not safe for concurrent use; the owning Stream serializes access.
type waitQueue[T, R any] struct {
	reqs []*request[T, R]
}

func (q *waitQueue[T, R]) push(r *request[T, R]) {
	q.reqs = append(q.reqs, r)
}

// popFront removes and returns the oldest request, or nil when empty.
func (q *waitQueue[T, R]) popFront() *request[T, R] {
	if len(q.reqs) == 0 {
		return nil
	}
	r := q.reqs[0]
	q.reqs[0] = nil
	q.reqs = q.reqs[1:]
	return r
}

// front returns the oldest request without removing it, or nil when empty.
func (q *waitQueue[T, R]) front() *request[T, R] {
	if len(q.reqs) == 0 {
		return nil
	}
	return q.reqs[0]
}

// remove deletes r from the queue preserving order. It reports whether r was
// still queued; a false return means r has already been taken for settlement.
func (q *waitQueue[T, R]) remove(r *request[T, R]) bool {
	for i, cur := range q.reqs {
		if cur == r {
			q.reqs = append(q.reqs[:i], q.reqs[i+1:]...)
			return true
		}
	}
	return false
}

// takeAll empties the queue and transfers ownership of every request to the
// caller, which becomes responsible for settling each exactly once.
func (q *waitQueue[T, R]) takeAll() []*request[T, R] {
	reqs := q.reqs
	q.reqs = nil
	return reqs
}

func (q *waitQueue[T, R]) len() int { return len(q.reqs) }

// hasReturn reports whether an early-termination request is queued.
func (q *waitQueue[T, R]) hasReturn() bool {
	for _, r := range q.reqs {
		if r.kind == reqReturn {
			return true
		}
	}
	return false
}
