// Package notif turns raw platform notifications into structured order signals.
// Parsing is pure pattern extraction over normalized text; platform variance
// lives in the platformpack table, not here
package notif

import (
	"fmt"
	"time"
)

// Priority is the platform-reported urgency label for an order
type Priority string

// Priority tiers, ordered by severity
const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// Notification is one raw event from the notification source.
// The feed is at-least-once; duplicates are expected and deduplicated upstream
// of scoring via DedupeKey
type Notification struct {
	ID            string
	SourcePackage string
	Title         string
	Text          string
	PostedAt      time.Time
}

// DedupeKey identifies a notification for duplicate suppression.
// Two deliveries of the same platform event share package, post time, and body
func (n Notification) DedupeKey() string {
	return fmt.Sprintf("%s|%d|%s|%s", n.SourcePackage, n.PostedAt.UnixMilli(), n.Title, n.Text)
}

// OrderSignal is the parsed, ephemeral form of one order notification.
// Produced once per captured notification and consumed once by scoring;
// the core does not retain it
type OrderSignal struct {
	NotificationID string
	Platform       string
	SourcePackage  string

	// AmountCents is the guaranteed payout in integer cents
	AmountCents int64

	// DistanceKm and EtaMinutes are nil when the text carries no estimate
	DistanceKm *float64
	EtaMinutes *int

	Priority   Priority
	CapturedAt time.Time
}
