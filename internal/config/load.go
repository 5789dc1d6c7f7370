// internal/config/load.go
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes every environment override, e.g. AISFWD_SOURCE_HOST.
const EnvPrefix = "AISFWD"

// flagKeys maps command-line flags onto config keys.
var flagKeys = map[string]string{
	"source-host":    "source.host",
	"source-port":    "source.port",
	"dest-host":      "destination.host",
	"dest-port":      "destination.port",
	"notify-target":  "notify.target",
	"log-level":      "log.level",
	"metrics-listen": "metrics.listen",
}

// AddFlags registers the override flags on fs.
// Flag defaults are never applied; only flags set by the user override.
func AddFlags(fs *pflag.FlagSet) {
	fs.String("source-host", "", "AIS source host")
	fs.Int("source-port", 0, "AIS source TCP port")
	fs.String("dest-host", "", "UDP destination host")
	fs.Int("dest-port", 0, "UDP destination port")
	fs.String("notify-target", "", "desktop user receiving notifications")
	fs.String("log-level", "", "log level (debug, info, warn, error)")
	fs.String("metrics-listen", "", "address serving /metrics, e.g. :9109")
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("source.host", "")
	v.SetDefault("source.port", 39150)
	v.SetDefault("source.connect_timeout", 5*time.Second)
	v.SetDefault("source.read_timeout", 5*time.Second)
	v.SetDefault("source.keepalive.idle", 10*time.Second)
	v.SetDefault("source.keepalive.interval", 5*time.Second)
	v.SetDefault("source.keepalive.count", 3)

	v.SetDefault("destination.host", "")
	v.SetDefault("destination.port", 10170)

	v.SetDefault("filter.prefixes", []string{"!AIVDM", "!AIVDO"})
	v.SetDefault("filter.max_pending", 64*1024)

	v.SetDefault("health.interval", 5*time.Second)
	v.SetDefault("health.read_wait", 2*time.Second)
	v.SetDefault("health.retry_interval", 10*time.Second)

	v.SetDefault("notify.target", "")
	v.SetDefault("notify.syslog", true)
	v.SetDefault("notify.desktop", true)
	v.SetDefault("notify.syslog_tag", "ais-forwarder")
	v.SetDefault("notify.queue_size", 16)
	v.SetDefault("notify.timeout", 5*time.Second)
	v.SetDefault("notify.mqtt.broker", "")
	v.SetDefault("notify.mqtt.topic", "ais-forwarder/events")
	v.SetDefault("notify.mqtt.client_id", "ais-forwarder")
	v.SetDefault("notify.nats.url", "")
	v.SetDefault("notify.nats.subject", "ais.forwarder.events")

	v.SetDefault("journal.path", "")

	v.SetDefault("status_mirror.endpoint", "")
	v.SetDefault("status_mirror.unit_id", 1)
	v.SetDefault("status_mirror.base_slot", 0)
	v.SetDefault("status_mirror.device_name", "AIS-FWD")
	v.SetDefault("status_mirror.timeout", 2*time.Second)

	v.SetDefault("metrics.listen", "")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.encoding", "console")
}

// Load layers defaults, the YAML file at path (optional), AISFWD_* environment
// variables and the flags in fs (optional), in increasing precedence.
// The result is neither validated nor normalized.
func Load(path string, fs *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
		var doc map[string]any
		if err := yaml.Unmarshal(raw, &doc); err != nil {
			return nil, fmt.Errorf("config: parse %s: %w", path, err)
		}
		if err := v.MergeConfigMap(doc); err != nil {
			return nil, fmt.Errorf("config: merge %s: %w", path, err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if fs != nil {
		for name, key := range flagKeys {
			f := fs.Lookup(name)
			if f == nil {
				continue
			}
			if err := v.BindPFlag(key, f); err != nil {
				return nil, fmt.Errorf("config: bind --%s: %w", name, err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config: decode: %w", err)
	}
	return &cfg, nil
}
