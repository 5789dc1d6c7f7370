// internal/config/load_test.go
package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
)

func writeFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "aisfwd.yaml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("", nil)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if cfg.Source.Port != 39150 || cfg.Destination.Port != 10170 {
		t.Fatalf("ports: got source=%d dest=%d", cfg.Source.Port, cfg.Destination.Port)
	}
	if len(cfg.Filter.Prefixes) != 2 || cfg.Filter.Prefixes[0] != "!AIVDM" || cfg.Filter.Prefixes[1] != "!AIVDO" {
		t.Fatalf("prefixes: got %v", cfg.Filter.Prefixes)
	}
	if cfg.Health.Interval != 5*time.Second || cfg.Health.ReadWait != 2*time.Second || cfg.Health.RetryInterval != 10*time.Second {
		t.Fatalf("health: got %+v", cfg.Health)
	}
	if cfg.Source.KeepAlive.Count != 3 || cfg.Source.KeepAlive.Idle != 10*time.Second {
		t.Fatalf("keepalive: got %+v", cfg.Source.KeepAlive)
	}
	if !cfg.Notify.Syslog || !cfg.Notify.Desktop || cfg.Notify.QueueSize != 16 {
		t.Fatalf("notify: got %+v", cfg.Notify)
	}
	if cfg.StatusMirror.UnitID != 1 || cfg.StatusMirror.DeviceName != "AIS-FWD" {
		t.Fatalf("status mirror: got %+v", cfg.StatusMirror)
	}
}

func TestLoad_File(t *testing.T) {
	path := writeFile(t, `
source:
  host: 10.0.0.5
  keepalive:
    idle: 30s
destination:
  host: 127.0.0.1
  port: 2000
filter:
  prefixes: ["!AIVDM"]
health:
  interval: 3s
status_mirror:
  endpoint: plc:502
  base_slot: 4
`)

	cfg, err := Load(path, nil)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if cfg.Source.Host != "10.0.0.5" || cfg.Source.Port != 39150 {
		t.Fatalf("source: got %+v", cfg.Source)
	}
	if cfg.Source.KeepAlive.Idle != 30*time.Second || cfg.Source.KeepAlive.Interval != 5*time.Second {
		t.Fatalf("keepalive: got %+v", cfg.Source.KeepAlive)
	}
	if cfg.Destination.Port != 2000 {
		t.Fatalf("dest port: got %d", cfg.Destination.Port)
	}
	if len(cfg.Filter.Prefixes) != 1 {
		t.Fatalf("prefixes: got %v", cfg.Filter.Prefixes)
	}
	if cfg.Health.Interval != 3*time.Second {
		t.Fatalf("interval: got %s", cfg.Health.Interval)
	}
	if cfg.StatusMirror.Endpoint != "plc:502" || cfg.StatusMirror.BaseSlot != 4 {
		t.Fatalf("status mirror: got %+v", cfg.StatusMirror)
	}
}

func TestLoad_Precedence(t *testing.T) {
	path := writeFile(t, `
source:
  host: from-file
  port: 1000
destination:
  host: from-file
log:
  level: warn
`)
	t.Setenv("AISFWD_SOURCE_HOST", "from-env")
	t.Setenv("AISFWD_LOG_LEVEL", "error")

	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	AddFlags(fs)
	if err := fs.Parse([]string{"--source-host", "from-flag", "--dest-port", "3000"}); err != nil {
		t.Fatalf("parse flags: %v", err)
	}

	cfg, err := Load(path, fs)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if cfg.Source.Host != "from-flag" {
		t.Fatalf("flag should win over env: got %q", cfg.Source.Host)
	}
	if cfg.Log.Level != "error" {
		t.Fatalf("env should win over file: got %q", cfg.Log.Level)
	}
	if cfg.Source.Port != 1000 {
		t.Fatalf("unset flag must not override file: got %d", cfg.Source.Port)
	}
	if cfg.Destination.Host != "from-file" || cfg.Destination.Port != 3000 {
		t.Fatalf("destination: got %+v", cfg.Destination)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml"), nil); err == nil {
		t.Fatalf("expected error for missing file")
	}
}

func TestLoad_BadYAML(t *testing.T) {
	path := writeFile(t, "source: [unterminated\n")
	if _, err := Load(path, nil); err == nil {
		t.Fatalf("expected parse error")
	}
}
