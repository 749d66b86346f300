// Package domain holds DTOs for the policies http surface
package domain

import (
	poldom "ordersnag/internal/services/policies/domain"
)

// UpsertInput creates or replaces the policy for the platform named in the path
type UpsertInput struct {
	Enabled              bool  `json:"enabled"                example:"true"`
	MinAmountCents       int64 `json:"min_amount_cents"       validate:"min=0"           example:"800"`
	MaxAmountCents       int64 `json:"max_amount_cents"       validate:"min=0"           example:"15000"`
	AutoAccept           bool  `json:"auto_accept"            example:"true"`
	PriorityTier         int   `json:"priority_tier"          validate:"min=0"           example:"1"`
	AcceptMediumPriority bool  `json:"accept_medium_priority" example:"false"`
}

// Policy applies the input on top of the path platform
func (in UpsertInput) Policy(platform string) poldom.PlatformPolicy {
	return poldom.PlatformPolicy{
		Platform:             platform,
		Enabled:              in.Enabled,
		MinAmountCents:       in.MinAmountCents,
		MaxAmountCents:       in.MaxAmountCents,
		AutoAccept:           in.AutoAccept,
		PriorityTier:         in.PriorityTier,
		AcceptMediumPriority: in.AcceptMediumPriority,
	}
}

// ListOutput wraps the stored policies
type ListOutput struct {
	Policies []poldom.PlatformPolicy `json:"policies"`
}
