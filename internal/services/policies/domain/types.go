// Package domain defines the policies service types
package domain

import (
	"time"

	"ordersnag/internal/core/scoring"
	perr "ordersnag/internal/platform/errors"
)

// PlatformPolicy is one platform's acceptance configuration.
// Keyed by platform name (unique). Mutated only through the settings surface;
// the pipeline reads immutable snapshots
type PlatformPolicy struct {
	Platform             string    `json:"platform"`
	Enabled              bool      `json:"enabled"`
	MinAmountCents       int64     `json:"min_amount_cents"`
	MaxAmountCents       int64     `json:"max_amount_cents"`
	AutoAccept           bool      `json:"auto_accept"`
	PriorityTier         int       `json:"priority_tier"`
	AcceptMediumPriority bool      `json:"accept_medium_priority"`
	UpdatedAt            time.Time `json:"updated_at"`
}

// Validate enforces the policy invariants
func (p PlatformPolicy) Validate() error {
	if p.Platform == "" {
		return perr.InvalidArgf("policy: platform name required")
	}
	if p.MinAmountCents < 0 {
		return perr.InvalidArgf("policy: min amount must be >= 0")
	}
	if p.MinAmountCents > p.MaxAmountCents {
		return perr.InvalidArgf("policy: min amount %d exceeds max %d", p.MinAmountCents, p.MaxAmountCents)
	}
	if p.PriorityTier < 0 {
		return perr.InvalidArgf("policy: priority tier must be >= 0")
	}
	return nil
}

// Scoring converts the stored policy into the engine's input form
func (p PlatformPolicy) Scoring() scoring.Policy {
	return scoring.Policy{
		Platform:             p.Platform,
		Enabled:              p.Enabled,
		MinAmountCents:       p.MinAmountCents,
		MaxAmountCents:       p.MaxAmountCents,
		AutoAccept:           p.AutoAccept,
		PriorityTier:         p.PriorityTier,
		AcceptMediumPriority: p.AcceptMediumPriority,
	}
}

// Disabled is the snapshot handed out for unconfigured platforms; it scores
// straight to reject
func Disabled(platform string) scoring.Policy {
	return scoring.Policy{Platform: platform, Enabled: false}
}
