// Package service implements the confirmation prompt registry: a pending
// prompt is a promise the HTTP surface resolves and the pipeline awaits, with
// an explicit deadline that resolves to timed-out
package service

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	perr "ordersnag/internal/platform/errors"
	"ordersnag/internal/platform/logger"
	"ordersnag/internal/services/prompts/domain"
)

// Config for the prompts service
type Config struct {
	// Deadline is the order expiry window granted for a user reply
	Deadline time.Duration
}

// Service implements domain.ConfirmPort and domain.RegistryPort
type Service struct {
	cfg Config

	mu      sync.Mutex
	pending map[string]*pendingPrompt
}

type pendingPrompt struct {
	prompt domain.Prompt
	reply  chan domain.Reply // buffered(1); closed never, resolved once
}

// New constructs a new prompts service
func New(cfg Config) *Service {
	if cfg.Deadline <= 0 {
		cfg.Deadline = 25 * time.Second
	}
	return &Service{cfg: cfg, pending: make(map[string]*pendingPrompt)}
}

// Ask implements domain.ConfirmPort. Blocks until the prompt is resolved,
// the deadline lapses, or ctx is cancelled (cancellation reads as timed-out;
// the pipeline treats both as "no confident answer")
func (s *Service) Ask(ctx context.Context, p domain.Prompt) (domain.Reply, error) {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	p.CreatedAt = time.Now()
	p.Deadline = p.CreatedAt.Add(s.cfg.Deadline)

	pp := &pendingPrompt{prompt: p, reply: make(chan domain.Reply, 1)}

	s.mu.Lock()
	s.pending[p.ID] = pp
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		delete(s.pending, p.ID)
		s.mu.Unlock()
	}()

	logger.C(ctx).Info().
		Str("prompt", p.ID).
		Str("platform", p.Platform).
		Int64("amount_cents", p.AmountCents).
		Msg("awaiting confirmation")

	timer := time.NewTimer(time.Until(p.Deadline))
	defer timer.Stop()

	select {
	case r := <-pp.reply:
		return r, nil
	case <-timer.C:
		return domain.ReplyTimedOut, nil
	case <-ctx.Done():
		return domain.ReplyTimedOut, ctx.Err()
	}
}

// Pending implements domain.RegistryPort
func (s *Service) Pending() []domain.Prompt {
	s.mu.Lock()
	out := make([]domain.Prompt, 0, len(s.pending))
	for _, pp := range s.pending {
		out = append(out, pp.prompt)
	}
	s.mu.Unlock()

	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out
}

// Resolve implements domain.RegistryPort
func (s *Service) Resolve(id string, accept bool) error {
	s.mu.Lock()
	pp, ok := s.pending[id]
	if ok {
		// remove immediately so a second reply conflicts instead of racing
		delete(s.pending, id)
	}
	s.mu.Unlock()

	if !ok {
		return perr.NotFoundf("prompt %q not pending", id)
	}

	r := domain.ReplyRejected
	if accept {
		r = domain.ReplyAccepted
	}
	pp.reply <- r
	return nil
}
