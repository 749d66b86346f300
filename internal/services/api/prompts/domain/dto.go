// Package domain holds DTOs for the prompts http surface
package domain

import (
	prdom "ordersnag/internal/services/prompts/domain"
)

// ReplyInput answers a pending confirmation prompt
// accept is a pointer so a missing field fails validation instead of
// silently reading as a rejection
type ReplyInput struct {
	Accept *bool `json:"accept" validate:"required" example:"true"`
}

// ReplyOutput acknowledges the resolution
type ReplyOutput struct {
	ID       string `json:"id"       example:"2f6c1f0e-8f4e-4f3b-9a1d-0c6c2b7a9e01"`
	Resolved bool   `json:"resolved" example:"true"`
}

// PendingOutput wraps the prompts awaiting a reply
type PendingOutput struct {
	Prompts []prdom.Prompt `json:"prompts"`
}
