// internal/config/config.go
package config

import "time"

type Config struct {
	Source       SourceConfig       `mapstructure:"source"`
	Destination  DestinationConfig  `mapstructure:"destination"`
	Filter       FilterConfig       `mapstructure:"filter"`
	Health       HealthConfig       `mapstructure:"health"`
	Notify       NotifyConfig       `mapstructure:"notify"`
	Journal      JournalConfig      `mapstructure:"journal"`
	StatusMirror StatusMirrorConfig `mapstructure:"status_mirror"`
	Metrics      MetricsConfig      `mapstructure:"metrics"`
	Log          LogConfig          `mapstructure:"log"`
}

// ---- SOURCE ----

type SourceConfig struct {
	Host           string          `mapstructure:"host"`
	Port           int             `mapstructure:"port"`
	ConnectTimeout time.Duration   `mapstructure:"connect_timeout"`
	ReadTimeout    time.Duration   `mapstructure:"read_timeout"`
	KeepAlive      KeepAliveConfig `mapstructure:"keepalive"`
}

type KeepAliveConfig struct {
	Idle     time.Duration `mapstructure:"idle"`
	Interval time.Duration `mapstructure:"interval"`
	Count    int           `mapstructure:"count"`
}

// ---- DESTINATION ----

type DestinationConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
}

// ---- FILTER ----

type FilterConfig struct {
	Prefixes   []string `mapstructure:"prefixes"`
	MaxPending int      `mapstructure:"max_pending"` // bytes kept while waiting for a delimiter
}

// ---- HEALTH ----

type HealthConfig struct {
	Interval      time.Duration `mapstructure:"interval"`
	ReadWait      time.Duration `mapstructure:"read_wait"`
	RetryInterval time.Duration `mapstructure:"retry_interval"`
}

// ---- NOTIFY ----

type NotifyConfig struct {
	Target    string        `mapstructure:"target"` // desktop user; empty = current session
	Syslog    bool          `mapstructure:"syslog"`
	Desktop   bool          `mapstructure:"desktop"`
	SyslogTag string        `mapstructure:"syslog_tag"`
	QueueSize int           `mapstructure:"queue_size"`
	Timeout   time.Duration `mapstructure:"timeout"`
	MQTT      MQTTConfig    `mapstructure:"mqtt"`
	NATS      NATSConfig    `mapstructure:"nats"`
}

type MQTTConfig struct {
	Broker   string `mapstructure:"broker"` // empty disables
	Topic    string `mapstructure:"topic"`
	ClientID string `mapstructure:"client_id"`
}

type NATSConfig struct {
	URL     string `mapstructure:"url"` // empty disables
	Subject string `mapstructure:"subject"`
}

// ---- JOURNAL ----

type JournalConfig struct {
	Path string `mapstructure:"path"` // empty disables
}

// ---- STATUS MIRROR ----

// StatusMirrorConfig places the link status block on a Modbus TCP endpoint (opt-in).
type StatusMirrorConfig struct {
	Endpoint   string        `mapstructure:"endpoint"`
	UnitID     uint8         `mapstructure:"unit_id"`
	BaseSlot   uint16        `mapstructure:"base_slot"`
	DeviceName string        `mapstructure:"device_name"`
	Timeout    time.Duration `mapstructure:"timeout"`
}

// ---- METRICS / LOG ----

type MetricsConfig struct {
	Listen string `mapstructure:"listen"` // empty disables
}

type LogConfig struct {
	Level    string `mapstructure:"level"`
	Encoding string `mapstructure:"encoding"`
}
