// Package scoring turns an order signal plus a platform policy into a decision.
// The evaluation order is fixed: hard economic gate, then priority gates, then
// the weighted score. Nothing outside the configured amount band can ever be
// auto-accepted, however favorable the other heuristics look
package scoring

import (
	"ordersnag/internal/core/notif"
)

// Verdict is the terminal classification of one order signal
type Verdict string

// Verdicts
const (
	VerdictAutoAccept Verdict = "auto_accept"
	VerdictAskUser    Verdict = "ask_user"
	VerdictReject     Verdict = "reject"
)

// Policy is the per-platform acceptance configuration consumed by Score.
// Amounts are integer cents. Invariants: MinAmountCents <= MaxAmountCents,
// PriorityTier >= 0
type Policy struct {
	Platform             string
	Enabled              bool
	MinAmountCents       int64
	MaxAmountCents       int64
	AutoAccept           bool
	PriorityTier         int
	AcceptMediumPriority bool
}

// ScoreBundle holds the four independent component scores, each in [0,1]
type ScoreBundle struct {
	// HighEarning positions the amount inside the policy's band
	HighEarning float64
	// LowDistance is the inverse of estimated distance; 1.0 when no estimate
	LowDistance float64
	// BusyTime is the time-of-day congestion weight
	BusyTime float64
	// LowPriority inverts the platform label: LOW scores 1.0, MEDIUM 0.5,
	// HIGH 0.0. Lower platform-reported priority is easier and safer to
	// fulfill, so under this convention it scores HIGHER. The inversion is
	// deliberate; do not "fix" it
	LowPriority float64
}

// Mean returns the arithmetic mean of the four components
func (b ScoreBundle) Mean() float64 {
	return (b.HighEarning + b.LowDistance + b.BusyTime + b.LowPriority) / 4
}

// AllAtLeast reports whether every component meets the floor
func (b ScoreBundle) AllAtLeast(floor float64) bool {
	return b.HighEarning >= floor &&
		b.LowDistance >= floor &&
		b.BusyTime >= floor &&
		b.LowPriority >= floor
}

// Decision carries the verdict plus the scores and the policy snapshot that
// produced it, for audit and explainability. Terminal once the executor
// consumes it
type Decision struct {
	Verdict Verdict
	Scores  ScoreBundle
	Policy  Policy
}

// Config holds the tunable constants of the engine. The reference distance
// and busy-time table are configuration, not derived values; defaults are
// documented next to the test fixtures
type Config struct {
	// ReferenceMaxDistanceKm is where LowDistance bottoms out at 0
	ReferenceMaxDistanceKm float64
	// ConfidenceFloor gates auto-acceptance (mean and per-component checks)
	ConfidenceFloor float64
	// BusyWeights maps the wall-clock hour of capture to a congestion weight
	BusyWeights [24]float64
}

// DefaultConfig returns the documented defaults: 8 km reference distance,
// 0.6 confidence floor, and meal-window busy weights
func DefaultConfig() Config {
	return Config{
		ReferenceMaxDistanceKm: 8.0,
		ConfidenceFloor:        0.6,
		BusyWeights:            defaultBusyWeights,
	}
}

// Engine scores order signals against platform policies. Stateless and safe
// for concurrent use
type Engine struct {
	cfg Config
}

// NewEngine constructs an Engine; zero-valued config fields fall back to the
// defaults
func NewEngine(cfg Config) *Engine {
	if cfg.ReferenceMaxDistanceKm <= 0 {
		cfg.ReferenceMaxDistanceKm = 8.0
	}
	if cfg.ConfidenceFloor <= 0 {
		cfg.ConfidenceFloor = 0.6
	}
	var zero [24]float64
	if cfg.BusyWeights == zero {
		cfg.BusyWeights = defaultBusyWeights
	}
	return &Engine{cfg: cfg}
}

// Score evaluates one signal against one policy snapshot.
// The policy is taken by value: a mid-decision settings change never affects
// an in-flight evaluation
func (e *Engine) Score(sig notif.OrderSignal, pol Policy) Decision {
	if !pol.Enabled {
		return Decision{Verdict: VerdictReject, Policy: pol}
	}
	if sig.AmountCents < pol.MinAmountCents || sig.AmountCents > pol.MaxAmountCents {
		return Decision{Verdict: VerdictReject, Policy: pol}
	}

	b := ScoreBundle{
		HighEarning: e.highEarning(sig.AmountCents, pol),
		LowDistance: e.lowDistance(sig.DistanceKm),
		BusyTime:    e.cfg.BusyWeights[sig.CapturedAt.Hour()],
		LowPriority: lowPriority(sig.Priority),
	}

	verdict := VerdictAskUser
	switch sig.Priority {
	case notif.PriorityHigh:
		// HIGH forces a prompt unless every component clears the floor
		// under an auto-accepting policy
		if pol.AutoAccept && b.AllAtLeast(e.cfg.ConfidenceFloor) {
			verdict = VerdictAutoAccept
		}
	case notif.PriorityMedium:
		if pol.AcceptMediumPriority && pol.AutoAccept && b.Mean() >= e.cfg.ConfidenceFloor {
			verdict = VerdictAutoAccept
		}
	default:
		if pol.AutoAccept && b.Mean() >= e.cfg.ConfidenceFloor {
			verdict = VerdictAutoAccept
		}
	}

	return Decision{Verdict: verdict, Scores: b, Policy: pol}
}

func (e *Engine) highEarning(cents int64, pol Policy) float64 {
	span := pol.MaxAmountCents - pol.MinAmountCents
	if span <= 0 {
		// degenerate band; the hard gate already proved amount == min
		return 1.0
	}
	return clamp01(float64(cents-pol.MinAmountCents) / float64(span))
}

func (e *Engine) lowDistance(km *float64) float64 {
	if km == nil {
		return 1.0
	}
	return clamp01(1.0 - *km/e.cfg.ReferenceMaxDistanceKm)
}

func lowPriority(p notif.Priority) float64 {
	switch p {
	case notif.PriorityHigh:
		return 0.0
	case notif.PriorityMedium:
		return 0.5
	default:
		return 1.0
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
