// internal/writer/builder.go
package writer

import (
	cfg "github.com/tamzrod/ais-forwarder/internal/config"
	wmodbus "github.com/tamzrod/ais-forwarder/internal/writer/modbus"
)

// BuildPlan converts the status mirror config into a StatusPlan.
// Returns false when the mirror is not configured.
// Assumes config has already passed validation and normalization.
func BuildPlan(c cfg.StatusMirrorConfig) (StatusPlan, bool) {
	if c.Endpoint == "" {
		return StatusPlan{}, false
	}
	return StatusPlan{
		Endpoint:   c.Endpoint,
		UnitID:     c.UnitID,
		BaseSlot:   c.BaseSlot,
		DeviceName: c.DeviceName,
	}, true
}

// Build wires the Modbus endpoint client and the status writer for the mirror.
// The returned close func releases the endpoint connection.
func Build(c cfg.StatusMirrorConfig) (StatusWriter, func() error, error) {
	plan, ok := BuildPlan(c)
	if !ok {
		return nil, nil, nil
	}

	cli, err := wmodbus.NewEndpointClient(wmodbus.Config{
		Endpoint: plan.Endpoint,
		Timeout:  c.Timeout,
	})
	if err != nil {
		return nil, nil, err
	}

	sw, err := NewStatusWriter(plan, cli)
	if err != nil {
		_ = cli.Close()
		return nil, nil, err
	}
	return sw, cli.Close, nil
}
