package domain

import (
	"context"

	"ordersnag/internal/core/scoring"
)

// ReaderPort is the read surface exposed to other modules
type ReaderPort interface {
	// Get returns the stored policy for a platform or ErrorCodePolicyMissing
	Get(ctx context.Context, platform string) (PlatformPolicy, error)

	// List returns all stored policies ordered by platform name
	List(ctx context.Context) ([]PlatformPolicy, error)

	// Snapshot returns the scoring view for a platform from the in-memory
	// cache without touching storage; unconfigured platforms come back
	// disabled. This is the pipeline's hot path
	Snapshot(platform string) scoring.Policy
}

// WriterPort is the mutation surface exposed to the settings API
type WriterPort interface {
	// Upsert validates and stores a policy, then refreshes the cache
	Upsert(ctx context.Context, p PlatformPolicy) (PlatformPolicy, error)

	// Delete removes a platform's policy; deleting an absent policy is a no-op
	Delete(ctx context.Context, platform string) error
}
