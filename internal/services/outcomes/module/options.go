package module

import (
	"time"

	"ordersnag/internal/platform/config"
)

// Options configures the outcomes module
type Options struct {
	BufferSize  int
	FlushEvery  time.Duration
	RecentLimit int
}

// FromConfig reads OUTCOMES_* values from process config/env
func FromConfig(cfg config.Conf) Options {
	oc := cfg.Prefix("OUTCOMES_")
	return Options{
		BufferSize:  oc.MayInt("BUFFER", 256),
		FlushEvery:  oc.MayDuration("FLUSH_EVERY", 5*time.Second),
		RecentLimit: oc.MayInt("RECENT_LIMIT", 500),
	}
}
