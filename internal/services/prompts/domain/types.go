// Package domain defines the prompts service types and ports
package domain

import (
	"context"
	"time"

	"ordersnag/internal/core/scoring"
)

// Reply is the resolution of a confirmation prompt
type Reply string

// Replies
const (
	ReplyAccepted Reply = "accepted"
	ReplyRejected Reply = "rejected"
	ReplyTimedOut Reply = "timed_out"
)

// Prompt is one pending confirmation shown to the user surface.
// Carries the decision and scores for explainability
type Prompt struct {
	ID            string              `json:"id"`
	Platform      string              `json:"platform"`
	SourcePackage string              `json:"source_package"`
	AmountCents   int64               `json:"amount_cents"`
	Verdict       scoring.Verdict     `json:"verdict"`
	Scores        scoring.ScoreBundle `json:"scores"`
	CreatedAt     time.Time           `json:"created_at"`
	Deadline      time.Time           `json:"deadline"`
}

// ConfirmPort is the blocking await surface consumed by the pipeline.
// Ask resolves to exactly one Reply: the user's answer, or ReplyTimedOut when
// the order expiry window lapses first
type ConfirmPort interface {
	Ask(ctx context.Context, p Prompt) (Reply, error)
}

// RegistryPort is the admin surface over pending prompts
type RegistryPort interface {
	// Pending lists unresolved prompts ordered by creation time
	Pending() []Prompt

	// Resolve answers a pending prompt; unknown or already resolved ids
	// return a conflict
	Resolve(id string, accept bool) error
}
