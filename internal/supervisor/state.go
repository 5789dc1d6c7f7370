// internal/supervisor/state.go
package supervisor

// State is the source connection state. Owned by the supervisor goroutine.
type State int

const (
	Disconnected State = iota
	Connected
)

func (s State) String() string {
	if s == Connected {
		return "connected"
	}
	return "disconnected"
}

// Cause classifies why a link went (or stayed) down.
type Cause string

const (
	CauseConnect Cause = "connect" // dial or socket setup failed
	CauseProbe   Cause = "probe"   // liveness probe failed
	CauseWait    Cause = "wait"    // readiness wait failed
	CauseClosed  Cause = "closed"  // orderly remote close
	CauseRead    Cause = "read"    // read failed
)

// LinkError carries the cause of a link failure.
type LinkError struct {
	Cause Cause
	Err   error
}

func (e *LinkError) Error() string {
	return string(e.Cause) + ": " + e.Err.Error()
}

func (e *LinkError) Unwrap() error { return e.Err }

// Code is the numeric cause published in the status block.
func (e *LinkError) Code() uint16 {
	switch e.Cause {
	case CauseConnect:
		return 1
	case CauseProbe:
		return 2
	case CauseWait:
		return 3
	case CauseClosed:
		return 4
	case CauseRead:
		return 5
	default:
		return 0xFFFF
	}
}
