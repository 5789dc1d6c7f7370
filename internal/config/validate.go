// internal/config/validate.go
package config

import (
	"fmt"
	"time"
)

// statusBlockSize mirrors status.SlotsPerBlock; the highest block must end inside the register space.
const statusBlockSize = 20

// Validate checks configuration correctness.
// It performs declarative validation only.
// It MUST NOT mutate configuration.
func Validate(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("config: nil config")
	}

	// ------------------------------------------------------------
	// SOURCE / DESTINATION
	// ------------------------------------------------------------

	if cfg.Source.Host == "" {
		return fmt.Errorf("source.host is required")
	}
	if err := port("source.port", cfg.Source.Port); err != nil {
		return err
	}
	if err := positive(map[string]time.Duration{
		"source.connect_timeout":    cfg.Source.ConnectTimeout,
		"source.read_timeout":       cfg.Source.ReadTimeout,
		"source.keepalive.idle":     cfg.Source.KeepAlive.Idle,
		"source.keepalive.interval": cfg.Source.KeepAlive.Interval,
	}); err != nil {
		return err
	}
	if cfg.Source.KeepAlive.Count <= 0 {
		return fmt.Errorf("source.keepalive.count must be > 0 (got %d)", cfg.Source.KeepAlive.Count)
	}

	if cfg.Destination.Host == "" {
		return fmt.Errorf("destination.host is required")
	}
	if err := port("destination.port", cfg.Destination.Port); err != nil {
		return err
	}

	// ------------------------------------------------------------
	// FILTER
	// ------------------------------------------------------------

	if len(cfg.Filter.Prefixes) == 0 {
		return fmt.Errorf("filter.prefixes must list at least one prefix")
	}
	for i, p := range cfg.Filter.Prefixes {
		if p == "" {
			return fmt.Errorf("filter.prefixes[%d] is empty", i)
		}
	}
	if cfg.Filter.MaxPending <= 0 {
		return fmt.Errorf("filter.max_pending must be > 0 (got %d)", cfg.Filter.MaxPending)
	}

	// ------------------------------------------------------------
	// HEALTH TIMING
	// ------------------------------------------------------------

	if err := positive(map[string]time.Duration{
		"health.interval":       cfg.Health.Interval,
		"health.read_wait":      cfg.Health.ReadWait,
		"health.retry_interval": cfg.Health.RetryInterval,
	}); err != nil {
		return err
	}
	// A readiness wait must never postpone a due probe by a whole interval.
	if cfg.Health.ReadWait >= cfg.Health.Interval {
		return fmt.Errorf(
			"health.read_wait (%s) must be shorter than health.interval (%s)",
			cfg.Health.ReadWait,
			cfg.Health.Interval,
		)
	}

	// ------------------------------------------------------------
	// NOTIFY
	// ------------------------------------------------------------

	if cfg.Notify.QueueSize <= 0 {
		return fmt.Errorf("notify.queue_size must be > 0 (got %d)", cfg.Notify.QueueSize)
	}
	if cfg.Notify.Timeout <= 0 {
		return fmt.Errorf("notify.timeout must be > 0")
	}
	if cfg.Notify.Syslog && cfg.Notify.SyslogTag == "" {
		return fmt.Errorf("notify.syslog_tag is required when notify.syslog is enabled")
	}
	if cfg.Notify.MQTT.Broker != "" && cfg.Notify.MQTT.Topic == "" {
		return fmt.Errorf("notify.mqtt.topic is required when notify.mqtt.broker is set")
	}
	if cfg.Notify.NATS.URL != "" && cfg.Notify.NATS.Subject == "" {
		return fmt.Errorf("notify.nats.subject is required when notify.nats.url is set")
	}

	// ------------------------------------------------------------
	// STATUS MIRROR (OPT-IN)
	// ------------------------------------------------------------

	sm := cfg.StatusMirror
	if sm.Endpoint != "" {
		// device_name sanity (ASCII only)
		for i := 0; i < len(sm.DeviceName); i++ {
			if sm.DeviceName[i] > 0x7F {
				return fmt.Errorf("status_mirror.device_name must contain ASCII characters only")
			}
		}

		end := (int(sm.BaseSlot) + 1) * statusBlockSize
		if end > 65536 {
			return fmt.Errorf(
				"status_mirror.base_slot %d out of range: block would end at register %d",
				sm.BaseSlot,
				end-1,
			)
		}

		if sm.Timeout <= 0 {
			return fmt.Errorf("status_mirror.timeout must be > 0")
		}
	}

	// ------------------------------------------------------------
	// LOG
	// ------------------------------------------------------------

	switch cfg.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log.level %q is not one of debug, info, warn, error", cfg.Log.Level)
	}
	switch cfg.Log.Encoding {
	case "console", "json":
	default:
		return fmt.Errorf("log.encoding %q is not one of console, json", cfg.Log.Encoding)
	}

	return nil
}

func port(key string, p int) error {
	if p < 1 || p > 65535 {
		return fmt.Errorf("%s must be in 1..65535 (got %d)", key, p)
	}
	return nil
}

func positive(durations map[string]time.Duration) error {
	for key, d := range durations {
		if d <= 0 {
			return fmt.Errorf("%s must be > 0 (got %s)", key, d)
		}
	}
	return nil
}
