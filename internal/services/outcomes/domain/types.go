// Package domain defines the outcomes service types
package domain

import (
	"time"

	"ordersnag/internal/core/scoring"
)

// DecisionPath records how one notification left the pipeline
type DecisionPath string

// Decision paths
const (
	PathAutoAccepted   DecisionPath = "auto_accepted"
	PathUserAccepted   DecisionPath = "user_accepted"
	PathUserRejected   DecisionPath = "user_rejected"
	PathRejected       DecisionPath = "rejected"
	PathParseFailed    DecisionPath = "parse_failed"
	PathNoControl      DecisionPath = "no_control"
	PathInspectFailed  DecisionPath = "inspect_failed"
	PathTriggerFailed  DecisionPath = "trigger_failed"
	PathConfirmTimeout DecisionPath = "confirm_timeout"
	PathSuperseded     DecisionPath = "superseded"
)

// ExecutionOutcome is the terminal record of one processed notification.
// Owned by the executor for the duration of one pipeline run, then handed
// here for persistence
type ExecutionOutcome struct {
	NotificationID string
	Platform       string
	SourcePackage  string
	AmountCents    int64

	Verdict   scoring.Verdict
	Scores    scoring.ScoreBundle
	Path      DecisionPath
	Attempted bool
	Succeeded bool
	Reason    string

	RecordedAt time.Time
}
