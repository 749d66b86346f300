package service

import (
	"context"
	"testing"
	"time"

	perr "ordersnag/internal/platform/errors"
	"ordersnag/internal/services/prompts/domain"
)

func TestAsk_ResolvedAccept(t *testing.T) {
	svc := New(Config{Deadline: 5 * time.Second})

	got := make(chan domain.Reply, 1)
	go func() {
		r, err := svc.Ask(context.Background(), domain.Prompt{ID: "p1", Platform: "doordash"})
		if err != nil {
			t.Errorf("Ask: %v", err)
		}
		got <- r
	}()

	// wait until the prompt is visible
	deadline := time.Now().Add(2 * time.Second)
	for len(svc.Pending()) == 0 {
		if time.Now().After(deadline) {
			t.Fatal("prompt never became pending")
		}
		time.Sleep(5 * time.Millisecond)
	}

	if err := svc.Resolve("p1", true); err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if r := <-got; r != domain.ReplyAccepted {
		t.Fatalf("reply = %q", r)
	}
}

func TestAsk_DeadlineTimesOut(t *testing.T) {
	svc := New(Config{Deadline: 30 * time.Millisecond})

	r, err := svc.Ask(context.Background(), domain.Prompt{ID: "p1"})
	if err != nil {
		t.Fatalf("Ask: %v", err)
	}
	if r != domain.ReplyTimedOut {
		t.Fatalf("reply = %q, want timed_out", r)
	}
	if len(svc.Pending()) != 0 {
		t.Fatal("timed-out prompt must leave the registry")
	}
}

func TestResolve_UnknownPrompt(t *testing.T) {
	svc := New(Config{})

	err := svc.Resolve("nope", true)
	if !perr.IsCode(err, perr.ErrorCodeNotFound) {
		t.Fatalf("err = %v, want not found", err)
	}
}

func TestResolve_SecondReplyConflicts(t *testing.T) {
	svc := New(Config{Deadline: 5 * time.Second})

	done := make(chan struct{})
	go func() {
		_, _ = svc.Ask(context.Background(), domain.Prompt{ID: "p1"})
		close(done)
	}()

	deadline := time.Now().Add(2 * time.Second)
	for len(svc.Pending()) == 0 {
		if time.Now().After(deadline) {
			t.Fatal("prompt never became pending")
		}
		time.Sleep(5 * time.Millisecond)
	}

	if err := svc.Resolve("p1", false); err != nil {
		t.Fatalf("first Resolve: %v", err)
	}
	if err := svc.Resolve("p1", true); err == nil {
		t.Fatal("second Resolve must fail")
	}
	<-done
}

func TestAsk_ContextCancelReadsTimedOut(t *testing.T) {
	svc := New(Config{Deadline: 5 * time.Second})

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()

	r, err := svc.Ask(ctx, domain.Prompt{ID: "p1"})
	if err == nil {
		t.Fatal("expected ctx error")
	}
	if r != domain.ReplyTimedOut {
		t.Fatalf("reply = %q", r)
	}
}

func TestPending_Ordered(t *testing.T) {
	svc := New(Config{Deadline: 5 * time.Second})

	for _, id := range []string{"a", "b", "c"} {
		id := id
		go func() { _, _ = svc.Ask(context.Background(), domain.Prompt{ID: id}) }()
		// stagger so CreatedAt ordering is deterministic
		deadline := time.Now().Add(2 * time.Second)
		for {
			if time.Now().After(deadline) {
				t.Fatal("prompt never became pending")
			}
			found := false
			for _, p := range svc.Pending() {
				if p.ID == id {
					found = true
				}
			}
			if found {
				break
			}
			time.Sleep(2 * time.Millisecond)
		}
		time.Sleep(2 * time.Millisecond)
	}

	got := svc.Pending()
	if len(got) != 3 || got[0].ID != "a" || got[1].ID != "b" || got[2].ID != "c" {
		t.Fatalf("pending order = %+v", got)
	}
}
