package pullstream

import "fmt"

// phase is the closed set of states a Stream moves through. Every transition
// site switches exhaustively over it; an unknown phase is a programming error
// and panics.
type phase uint8

const (
	// phaseIdle: no buffered items, no pending requests, still open.
	phaseIdle phase = iota
	// phaseBuffered: item buffer non-empty, no pending requests.
	phaseBuffered
	// phaseAwaiting: pending requests queued, item buffer empty, still open.
	phaseAwaiting
	// phaseDrainingBuffered: completion recorded while items remained buffered;
	// items are handed out before the completion becomes observable.
	phaseDrainingBuffered
	// phaseDrainingAwaiting: a consumer Return is queued behind outstanding
	// Next requests; completion is deferred until those are honored.
	phaseDrainingAwaiting
	// phaseCleaningUp: cleanup is running; new requests queue behind its outcome.
	phaseCleaningUp
	// phaseComplete: terminal; the stored completion replays to every request.
	phaseComplete
	// phaseCancelled: terminal; every request fails with the cancellation error.
	phaseCancelled
)

func (p phase) String() string {
	switch p {
	case phaseIdle:
		return "idle"
	case phaseBuffered:
		return "buffered"
	case phaseAwaiting:
		return "awaiting"
	case phaseDrainingBuffered:
		return "draining-buffered"
	case phaseDrainingAwaiting:
		return "draining-awaiting"
	case phaseCleaningUp:
		return "cleaning-up"
	case phaseComplete:
		return "complete"
	case phaseCancelled:
		return "cancelled"
	}
	return fmt.Sprintf("phase(%d)", uint8(p))
}

// terminal reports whether no further transitions are possible.
func (p phase) terminal() bool { return p == phaseComplete || p == phaseCancelled }
