// internal/writer/tracker.go
package writer

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/tamzrod/ais-forwarder/internal/logger"
	"github.com/tamzrod/ais-forwarder/internal/status"
	"github.com/tamzrod/ais-forwarder/internal/supervisor"
)

type linkEvent struct {
	state supervisor.State
	err   error
}

// Tracker owns the link status snapshot and pushes it through a StatusWriter.
// It implements supervisor.Listener; all snapshot state is touched only by Run.
type Tracker struct {
	sw  StatusWriter
	log *zap.Logger

	// seconds ticker period
	tick time.Duration

	mu      sync.Mutex
	pending []linkEvent
	wake    chan struct{}
}

func NewTracker(sw StatusWriter, log *zap.Logger) *Tracker {
	return &Tracker{
		sw:   sw,
		log:  logger.OrNop(log).Named("status"),
		tick: time.Second,
		wake: make(chan struct{}, 1),
	}
}

// LinkState queues a transition for Run. Never blocks.
func (t *Tracker) LinkState(state supervisor.State, err error) {
	t.mu.Lock()
	t.pending = append(t.pending, linkEvent{state: state, err: err})
	t.mu.Unlock()

	select {
	case t.wake <- struct{}{}:
	default:
	}
}

func (t *Tracker) drain() []linkEvent {
	t.mu.Lock()
	defer t.mu.Unlock()
	evs := t.pending
	t.pending = nil
	return evs
}

// Run keeps the snapshot until ctx is done.
func (t *Tracker) Run(ctx context.Context) error {
	snap := status.Snapshot{Health: status.HealthUnknown}

	secTicker := time.NewTicker(t.tick)
	defer secTicker.Stop()

	// Full block write on start (identity re-assert).
	t.write(snap, "start")

	for {
		select {
		case <-ctx.Done():
			return nil

		case <-t.wake:
			for _, ev := range t.drain() {
				if apply(&snap, ev) {
					t.write(snap, "transition")
				}
			}

		case <-secTicker.C:
			// Tick 1 Hz while not OK.
			if snap.Health != status.HealthOK && snap.SecondsInError < status.CounterMax {
				snap.SecondsInError++
				t.write(snap, "seconds tick")
			}
		}
	}
}

func (t *Tracker) write(snap status.Snapshot, what string) {
	if err := t.sw.WriteStatus(snap); err != nil {
		t.log.Warn("status write failed", zap.String("on", what), zap.Error(err))
	}
}

// apply folds one transition into snap and reports whether anything changed.
func apply(snap *status.Snapshot, ev linkEvent) bool {
	prev := *snap

	if ev.state == supervisor.Connected {
		// Recovery / OK
		snap.Health = status.HealthOK
		snap.LastErrorCode = 0
		snap.SecondsInError = 0
		return *snap != prev
	}

	// A loss episode starts only when leaving OK; repeated connect
	// failures keep the current episode.
	if snap.Health == status.HealthOK && snap.LossEpisodes < status.CounterMax {
		snap.LossEpisodes++
	}
	snap.Health = status.HealthError
	snap.LastErrorCode = errorCode(ev.err)

	// NOTE: seconds_in_error increments on the 1Hz ticker only.
	return *snap != prev
}

// errorCode extracts a best-effort uint16 code from an error without assuming concrete types.
// If the error does not expose a code, returns 0xFFFF.
func errorCode(err error) uint16 {
	if err == nil {
		return 0
	}

	type coder interface{ Code() uint16 }

	var c coder
	if errors.As(err, &c) {
		return c.Code()
	}
	return 0xFFFF
}
