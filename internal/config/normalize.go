// internal/config/normalize.go
package config

// deviceNameMaxChars matches the status block's device name capacity.
const deviceNameMaxChars = 16

// Normalize applies post-validation normalization.
// It is allowed to mutate configuration.
// It MUST be called only after Validate().
func Normalize(cfg *Config) {
	if cfg == nil {
		return
	}

	// ------------------------------------------------------------
	// PREFIXES: drop duplicates, keep first-seen order
	// ------------------------------------------------------------

	seen := make(map[string]struct{}, len(cfg.Filter.Prefixes))
	prefixes := cfg.Filter.Prefixes[:0]
	for _, p := range cfg.Filter.Prefixes {
		if _, dup := seen[p]; dup {
			continue
		}
		seen[p] = struct{}{}
		prefixes = append(prefixes, p)
	}
	cfg.Filter.Prefixes = prefixes

	// ------------------------------------------------------------
	// STATUS MIRROR (OPT-IN)
	// ------------------------------------------------------------

	if cfg.StatusMirror.Endpoint == "" {
		return
	}

	// Normalize device_name:
	// - ASCII already validated
	// - Truncate to max 16 characters
	if len(cfg.StatusMirror.DeviceName) > deviceNameMaxChars {
		cfg.StatusMirror.DeviceName = cfg.StatusMirror.DeviceName[:deviceNameMaxChars]
	}
}
