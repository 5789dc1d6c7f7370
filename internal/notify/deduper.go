// internal/notify/deduper.go
package notify

// Flags is the deduper's whole memory.
//
// LossNotified is true only while disconnected and after a Lost or Failed
// event was emitted for the current episode. It resets when a connect succeeds.
type Flags struct {
	EverConnected bool
	LossNotified  bool
}

// Deduper turns raw connection transitions into at most one event per episode.
// Pure state: no IO, no clock.
type Deduper struct {
	flags Flags
}

// Flags returns a copy of the current flags.
func (d *Deduper) Flags() Flags {
	return d.flags
}

// Connected records a successful connect.
// Returns Started on the first ever connect, Restored after a notified loss, otherwise KindNone.
func (d *Deduper) Connected() Kind {
	if !d.flags.EverConnected {
		d.flags.EverConnected = true
		d.flags.LossNotified = false
		return KindStarted
	}
	if d.flags.LossNotified {
		d.flags.LossNotified = false
		return KindRestored
	}
	// Connect without a pending loss: nothing to announce.
	return KindNone
}

// Disconnected records a teardown of an established connection.
// Returns Lost once per episode.
func (d *Deduper) Disconnected() Kind {
	if d.flags.LossNotified {
		return KindNone
	}
	d.flags.LossNotified = true
	return KindLost
}

// ConnectFailed records a failed connect attempt.
// Returns Failed only for the first failure of an episode that was not yet
// announced, and only once the relay has been connected before.
func (d *Deduper) ConnectFailed() Kind {
	if !d.flags.EverConnected || d.flags.LossNotified {
		return KindNone
	}
	d.flags.LossNotified = true
	return KindFailed
}
