// Package domain defines the pipeline service types and ports
package domain

import (
	"context"

	"ordersnag/internal/core/notif"
	"ordersnag/internal/core/scoring"
)

// State is one step of the executor state machine
type State string

// Executor states. Done and Failed are terminal per notification; the
// executor holds no cross-notification state beyond the inspector's cache
const (
	StateIdle                 State = "idle"
	StateInspecting           State = "inspecting"
	StateReady                State = "ready"
	StateExecuting            State = "executing"
	StateAwaitingConfirmation State = "awaiting_confirmation"
	StateDone                 State = "done"
	StateFailed               State = "failed"
)

// SourcePort delivers raw notifications. The feed is at-least-once;
// duplicates are tolerated and suppressed before scoring
type SourcePort interface {
	// Stream returns a channel of notifications that closes when the
	// source drains or ctx is cancelled
	Stream(ctx context.Context) (<-chan notif.Notification, error)
}

// PolicyViewPort is the slice of the policy module the pipeline consumes:
// cached snapshots on the hot path, never storage reads
type PolicyViewPort interface {
	// Snapshot returns the scoring view for a platform; unconfigured
	// platforms come back disabled
	Snapshot(platform string) scoring.Policy
}

// PipelinePort is the control surface exposed to the binary
type PipelinePort interface {
	// Submit enqueues one notification; false means it was dropped
	// (duplicate within the dedupe window, or queue full)
	Submit(n notif.Notification) bool
}
