// Package service provides the policies service implementation
package service

import (
	"context"
	"sync"

	"ordersnag/internal/core/scoring"
	"ordersnag/internal/modkit/repokit"
	"ordersnag/internal/platform/logger"
	"ordersnag/internal/services/policies/domain"
	"ordersnag/internal/services/policies/repo"
)

// Service implements domain.ReaderPort and domain.WriterPort.
// All reads on the decision path go through an in-memory snapshot cache; the
// database is touched only by the settings surface and the initial warm
type Service struct {
	DB     repokit.TxRunner
	Binder repokit.Binder[repo.Storage]

	mu    sync.RWMutex
	cache map[string]domain.PlatformPolicy
}

// New constructs a new policies service with a cold cache; call Warm before
// serving decisions
func New(db repokit.TxRunner, b repokit.Binder[repo.Storage]) *Service {
	return &Service{DB: db, Binder: b, cache: make(map[string]domain.PlatformPolicy)}
}

// Warm loads every stored policy into the snapshot cache
func (s *Service) Warm(ctx context.Context) error {
	var all []domain.PlatformPolicy
	err := s.DB.Tx(ctx, func(q repokit.Queryer) error {
		var err error
		all, err = s.Binder.Bind(q).List(ctx)
		return err
	})
	if err != nil {
		return err
	}

	next := make(map[string]domain.PlatformPolicy, len(all))
	for _, p := range all {
		next[p.Platform] = p
	}

	s.mu.Lock()
	s.cache = next
	s.mu.Unlock()

	logger.Named("policies").Debug().Int("count", len(next)).Msg("policy cache warmed")
	return nil
}

// Get implements domain.ReaderPort
func (s *Service) Get(ctx context.Context, platform string) (domain.PlatformPolicy, error) {
	var out domain.PlatformPolicy
	err := s.DB.Tx(ctx, func(q repokit.Queryer) error {
		var err error
		out, err = s.Binder.Bind(q).Get(ctx, platform)
		return err
	})
	return out, err
}

// List implements domain.ReaderPort
func (s *Service) List(ctx context.Context) ([]domain.PlatformPolicy, error) {
	var out []domain.PlatformPolicy
	err := s.DB.Tx(ctx, func(q repokit.Queryer) error {
		var err error
		out, err = s.Binder.Bind(q).List(ctx)
		return err
	})
	return out, err
}

// Snapshot implements domain.ReaderPort. Unconfigured platforms come back
// disabled so the engine rejects them; an in-flight decision keeps the
// snapshot it was handed even if settings change underneath it
func (s *Service) Snapshot(platform string) scoring.Policy {
	s.mu.RLock()
	p, ok := s.cache[platform]
	s.mu.RUnlock()

	if !ok {
		return domain.Disabled(platform)
	}
	return p.Scoring()
}

// Upsert implements domain.WriterPort
func (s *Service) Upsert(ctx context.Context, p domain.PlatformPolicy) (domain.PlatformPolicy, error) {
	if err := p.Validate(); err != nil {
		return domain.PlatformPolicy{}, err
	}

	var out domain.PlatformPolicy
	err := s.DB.Tx(ctx, func(q repokit.Queryer) error {
		var err error
		out, err = s.Binder.Bind(q).Upsert(ctx, p)
		return err
	})
	if err != nil {
		return domain.PlatformPolicy{}, err
	}

	s.mu.Lock()
	s.cache[out.Platform] = out
	s.mu.Unlock()

	return out, nil
}

// Delete implements domain.WriterPort
func (s *Service) Delete(ctx context.Context, platform string) error {
	err := s.DB.Tx(ctx, func(q repokit.Queryer) error {
		return s.Binder.Bind(q).Delete(ctx, platform)
	})
	if err != nil {
		return err
	}

	s.mu.Lock()
	delete(s.cache, platform)
	s.mu.Unlock()

	return nil
}
