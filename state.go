package audiobridge

// State is the session lifecycle state, mirrored after the host audio
// context states the transport reports.
//
// Transitions are driven by external events only, never by the data path,
// and every transition is idempotent: re-applying the current state's own
// trigger is a no-op, not an error.
//
//	Closed ──open──▶ Suspended ──resume──▶ Running
//	                     ▲  ─────suspend────┘
//	Running/Suspended ⇄ Interrupted   (interruption begin/end)
//	any ──close──▶ Closed             (terminal)
type State int32

const (
	// StateClosed is both the initial and the terminal state. A closed
	// session performs no transfers and cannot be reopened.
	StateClosed State = iota

	// StateSuspended means the session is open but the host is not
	// rendering. The guest may keep writing; the ring absorbs what fits.
	StateSuspended

	// StateRunning means the host render callback is actively pulling.
	StateRunning

	// StateInterrupted means an external audio interruption (OS audio
	// session loss, backgrounded page) holds the stream. Not an error:
	// the data path treats it as paused.
	StateInterrupted
)

// String returns the lowercase state name used by host audio contexts.
func (s State) String() string {
	switch s {
	case StateClosed:
		return "closed"
	case StateSuspended:
		return "suspended"
	case StateRunning:
		return "running"
	case StateInterrupted:
		return "interrupted"
	default:
		return "unknown"
	}
}
