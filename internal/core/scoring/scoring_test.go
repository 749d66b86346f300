package scoring

import (
	"testing"
	"time"

	"ordersnag/internal/core/notif"
)

func ptr[T any](v T) *T { return &v }

// noon sits in the lunch peak of the default busy table
var noon = time.Date(2025, 6, 2, 12, 30, 0, 0, time.UTC)

func basePolicy() Policy {
	return Policy{
		Platform:             "doordash",
		Enabled:              true,
		MinAmountCents:       10000,
		MaxAmountCents:       50000,
		AutoAccept:           true,
		PriorityTier:         0,
		AcceptMediumPriority: true,
	}
}

func TestScore_DisabledPolicyRejects(t *testing.T) {
	e := NewEngine(DefaultConfig())
	pol := basePolicy()
	pol.Enabled = false

	d := e.Score(notif.OrderSignal{AmountCents: 25000, Priority: notif.PriorityLow, CapturedAt: noon}, pol)
	if d.Verdict != VerdictReject {
		t.Fatalf("verdict = %q, want reject", d.Verdict)
	}
}

func TestScore_AmountBandIsHardGate(t *testing.T) {
	e := NewEngine(DefaultConfig())
	pol := basePolicy()

	for _, cents := range []int64{0, 9999, 50001, 1000000} {
		d := e.Score(notif.OrderSignal{
			AmountCents: cents,
			Priority:    notif.PriorityLow,
			DistanceKm:  ptr(0.5),
			CapturedAt:  noon,
		}, pol)
		if d.Verdict != VerdictReject {
			t.Fatalf("amount %d: verdict = %q, want reject regardless of other fields", cents, d.Verdict)
		}
	}
}

func TestScore_FavorableLowPriorityAutoAccepts(t *testing.T) {
	e := NewEngine(DefaultConfig())

	d := e.Score(notif.OrderSignal{
		AmountCents: 25000,
		Priority:    notif.PriorityLow,
		DistanceKm:  ptr(2.0),
		CapturedAt:  noon,
	}, basePolicy())
	if d.Verdict != VerdictAutoAccept {
		t.Fatalf("verdict = %q, want auto_accept (mean %v)", d.Verdict, d.Scores.Mean())
	}
	if d.Scores.LowDistance != 0.75 {
		t.Fatalf("low distance = %v", d.Scores.LowDistance)
	}
	if d.Scores.LowPriority != 1.0 {
		t.Fatalf("low priority = %v", d.Scores.LowPriority)
	}
}

func TestScore_HighPriorityForcesPrompt(t *testing.T) {
	e := NewEngine(DefaultConfig())

	// HIGH zeroes the LowPriority component, so the all-components floor can
	// never pass and the verdict stays ask_user even on a generous signal
	d := e.Score(notif.OrderSignal{
		AmountCents: 30000,
		Priority:    notif.PriorityHigh,
		DistanceKm:  ptr(1.0),
		CapturedAt:  noon,
	}, basePolicy())
	if d.Verdict != VerdictAskUser {
		t.Fatalf("verdict = %q, want ask_user", d.Verdict)
	}
	if d.Scores.LowPriority != 0.0 {
		t.Fatalf("low priority = %v", d.Scores.LowPriority)
	}
}

func TestScore_MediumWithoutOptInForcesPrompt(t *testing.T) {
	e := NewEngine(DefaultConfig())
	pol := basePolicy()
	pol.AcceptMediumPriority = false

	d := e.Score(notif.OrderSignal{
		AmountCents: 45000,
		Priority:    notif.PriorityMedium,
		DistanceKm:  ptr(0.5),
		CapturedAt:  noon,
	}, pol)
	if d.Verdict != VerdictAskUser {
		t.Fatalf("verdict = %q, want ask_user", d.Verdict)
	}
}

func TestScore_AutoAcceptOffNeverAutoAccepts(t *testing.T) {
	e := NewEngine(DefaultConfig())
	pol := basePolicy()
	pol.AutoAccept = false

	d := e.Score(notif.OrderSignal{
		AmountCents: 45000,
		Priority:    notif.PriorityLow,
		DistanceKm:  ptr(0.5),
		CapturedAt:  noon,
	}, pol)
	if d.Verdict != VerdictAskUser {
		t.Fatalf("verdict = %q, want ask_user", d.Verdict)
	}
}

func TestScore_MissingDistanceScoresFull(t *testing.T) {
	e := NewEngine(DefaultConfig())

	d := e.Score(notif.OrderSignal{
		AmountCents: 25000,
		Priority:    notif.PriorityLow,
		CapturedAt:  noon,
	}, basePolicy())
	if d.Scores.LowDistance != 1.0 {
		t.Fatalf("low distance = %v, want 1.0 when no estimate", d.Scores.LowDistance)
	}
}

func TestScore_OvernightDragsMeanBelowFloor(t *testing.T) {
	e := NewEngine(DefaultConfig())
	threeAM := time.Date(2025, 6, 2, 3, 0, 0, 0, time.UTC)

	// HE 0.25, LD 0.25, BT 0.3, LP 1.0 -> mean 0.45
	d := e.Score(notif.OrderSignal{
		AmountCents: 20000,
		Priority:    notif.PriorityLow,
		DistanceKm:  ptr(6.0),
		CapturedAt:  threeAM,
	}, basePolicy())
	if d.Verdict != VerdictAskUser {
		t.Fatalf("verdict = %q, want ask_user (mean %v)", d.Verdict, d.Scores.Mean())
	}
	if d.Scores.BusyTime != 0.3 {
		t.Fatalf("busy time = %v", d.Scores.BusyTime)
	}
}

func TestScore_PolicySnapshotCarried(t *testing.T) {
	e := NewEngine(DefaultConfig())
	pol := basePolicy()

	d := e.Score(notif.OrderSignal{AmountCents: 25000, Priority: notif.PriorityLow, CapturedAt: noon}, pol)
	if d.Policy != pol {
		t.Fatalf("decision must carry the policy snapshot it scored against")
	}
}

func TestScore_DegenerateBand(t *testing.T) {
	e := NewEngine(DefaultConfig())
	pol := basePolicy()
	pol.MinAmountCents = 25000
	pol.MaxAmountCents = 25000

	d := e.Score(notif.OrderSignal{AmountCents: 25000, Priority: notif.PriorityLow, CapturedAt: noon}, pol)
	if d.Scores.HighEarning != 1.0 {
		t.Fatalf("high earning = %v, want 1.0 for zero-width band", d.Scores.HighEarning)
	}
}
