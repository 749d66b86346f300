// Package domain defines the inspector service types and ports
package domain

import (
	"image"
	"time"

	"ordersnag/internal/core/uiprobe"
)

// InspectionResult is the outcome of one accept-control search.
// Cached per source package; entries older than the TTL are stale because the
// foreign app's screen content changes between notifications even when its
// layout class does not
type InspectionResult struct {
	Found       bool
	Target      uiprobe.Handle
	Confidence  float64
	Path        uiprobe.MatchPath
	InspectedAt time.Time
}

// Capture is one snapshot of a foreign app's screen: the accessibility tree
// plus a grayscale frame for the image fallback. Either part may be nil when
// the provider cannot produce it
type Capture struct {
	Tree   *uiprobe.Node
	Screen *image.Gray
}
