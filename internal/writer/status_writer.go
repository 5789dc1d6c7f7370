// internal/writer/status_writer.go
package writer

import (
	"errors"
	"fmt"
	"strings"

	"github.com/tamzrod/ais-forwarder/internal/status"
)

// StatusWriter is the delivery-only contract for link status.
// It receives a snapshot and writes it verbatim.
// No logic, no interpretation.
type StatusWriter interface {
	WriteStatus(s status.Snapshot) error
}

// linkStatusWriter is the concrete implementation used by the relay.
type linkStatusWriter struct {
	plan StatusPlan
	cli  endpointClient

	needFull bool
	last     status.Snapshot
}

// NewStatusWriter builds the writer for plan over cli.
// The first successful write is always a full block.
func NewStatusWriter(plan StatusPlan, cli endpointClient) (StatusWriter, error) {
	if cli == nil {
		return nil, fmt.Errorf("status writer: missing client for endpoint %s", plan.Endpoint)
	}
	if int(plan.BaseSlot)*status.SlotsPerBlock+status.SlotsPerBlock > 65536 {
		return nil, fmt.Errorf("status writer: base slot %d out of range", plan.BaseSlot)
	}
	return &linkStatusWriter{
		plan:     plan,
		cli:      cli,
		needFull: true,
		last:     status.Snapshot{Health: status.HealthUnknown},
	}, nil
}

// WriteStatus delivers a link status snapshot into status memory.
// On any write failure, the next call will re-assert the full block.
func (sw *linkStatusWriter) WriteStatus(s status.Snapshot) error {
	baseAddr := sw.baseAddr()

	// ------------------------------------------------------------
	// Full block write (identity re-assert)
	// ------------------------------------------------------------
	if sw.needFull {
		regs := status.Encode(s, sw.plan.DeviceName)

		if err := sw.cli.WriteRegisters(sw.plan.UnitID, baseAddr, regs); err != nil {
			sw.needFull = true
			return fmt.Errorf("status writer: full block write failed: %w", err)
		}

		sw.needFull = false
		sw.last = s
		return nil
	}

	var errs []string

	slots := []struct {
		name string
		slot uint16
		prev *uint16
		next uint16
	}{
		{"health", status.SlotHealthCode, &sw.last.Health, s.Health},
		{"last_error", status.SlotLastErrorCode, &sw.last.LastErrorCode, s.LastErrorCode},
		{"seconds_in_error", status.SlotSecondsInError, &sw.last.SecondsInError, s.SecondsInError},
		{"loss_episodes", status.SlotLossEpisodes, &sw.last.LossEpisodes, s.LossEpisodes},
	}

	for _, sl := range slots {
		if *sl.prev == sl.next {
			continue
		}
		if err := sw.cli.WriteRegisters(sw.plan.UnitID, baseAddr+sl.slot, []uint16{sl.next}); err != nil {
			errs = append(errs, fmt.Sprintf("slot%d %s write failed: %v", sl.slot, sl.name, err))
			continue
		}
		*sl.prev = sl.next
	}

	if len(errs) > 0 {
		// Any partial failure introduces doubt. Re-assert on next write.
		sw.needFull = true
		return errors.New("status writer: " + strings.Join(errs, " | "))
	}

	return nil
}

func (sw *linkStatusWriter) baseAddr() uint16 {
	// Each relay owns a fixed SlotsPerBlock block.
	return sw.plan.BaseSlot * status.SlotsPerBlock
}
