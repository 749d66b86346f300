package module

import (
	"time"

	"ordersnag/internal/core/scoring"
	"ordersnag/internal/platform/config"
)

// Options configures the pipeline module
type Options struct {
	Workers      int
	QueueSize    int
	DedupeWindow time.Duration

	ConfidenceFloor float64
	TriggerDeadline time.Duration

	Scoring scoring.Config
}

// FromConfig reads PIPELINE_* values from process config/env
func FromConfig(cfg config.Conf) Options {
	pc := cfg.Prefix("PIPELINE_")
	sc := scoring.DefaultConfig()
	sc.ReferenceMaxDistanceKm = pc.MayFloat64("REF_DISTANCE_KM", sc.ReferenceMaxDistanceKm)
	sc.ConfidenceFloor = pc.MayFloat64("SCORE_FLOOR", sc.ConfidenceFloor)

	return Options{
		Workers:         pc.MayInt("WORKERS", 4),
		QueueSize:       pc.MayInt("QUEUE", 64),
		DedupeWindow:    pc.MayDuration("DEDUPE_WINDOW", 90*time.Second),
		ConfidenceFloor: pc.MayFloat64("INSPECT_FLOOR", 0.7),
		TriggerDeadline: pc.MayDuration("TRIGGER_DEADLINE", 2*time.Second),
		Scoring:         sc,
	}
}
