package domain

import (
	"context"

	"ordersnag/internal/core/uiprobe"
)

// ScreenPort is the screen/UI access provider. Both calls may fail
// (permission revoked, app backgrounded); failures map to pipeline outcomes,
// never to a panic escaping the pipeline
type ScreenPort interface {
	// Snapshot captures the foreign app's current screen state
	Snapshot(ctx context.Context, sourcePackage string) (Capture, error)

	// Trigger invokes a previously located control; false means the
	// invocation did not take effect
	Trigger(ctx context.Context, h uiprobe.Handle) (bool, error)
}

// InspectorPort is the search surface exposed to the pipeline
type InspectorPort interface {
	// Inspect locates the accept control for a source package, consulting
	// the result cache unless bypass is set. Concurrent calls for the same
	// package serialize; different packages proceed in parallel
	Inspect(ctx context.Context, sourcePackage string, bypass bool) (InspectionResult, error)
}
