// Package repo provides the Postgres repository for platform policies
package repo

import (
	"context"
	"strings"

	"ordersnag/internal/modkit/repokit"
	perr "ordersnag/internal/platform/errors"
	"ordersnag/internal/services/policies/domain"
)

type binder struct{}

// NewPG constructs a new repo binder for Postgres
func NewPG() repokit.Binder[Storage] { return binder{} }

// Bind implements repokit.Binder
func (binder) Bind(q repokit.Queryer) Storage { return &pg{q: q} }

// Storage defines the policies repository
type Storage interface {
	Get(ctx context.Context, platform string) (domain.PlatformPolicy, error)
	List(ctx context.Context) ([]domain.PlatformPolicy, error)
	Upsert(ctx context.Context, p domain.PlatformPolicy) (domain.PlatformPolicy, error)
	Delete(ctx context.Context, platform string) error
}

type pg struct{ q repokit.Queryer }

const policyCols = `
	platform,
	enabled,
	min_amount_cents,
	max_amount_cents,
	auto_accept,
	priority_tier,
	accept_medium_priority,
	updated_at`

func (s *pg) Get(ctx context.Context, platform string) (domain.PlatformPolicy, error) {
	row := s.q.QueryRow(ctx, `
		SELECT `+policyCols+`
		FROM platform_policies
		WHERE platform = $1
	`, platform)

	var p domain.PlatformPolicy
	if err := scanPolicy(row, &p); err != nil {
		// pgx surfaces an empty result as a scan error
		if strings.Contains(err.Error(), "no rows") {
			return domain.PlatformPolicy{}, perr.PolicyMissingf("no policy for platform %q", platform)
		}
		return domain.PlatformPolicy{}, err
	}
	return p, nil
}

func (s *pg) List(ctx context.Context) ([]domain.PlatformPolicy, error) {
	rows, err := s.q.Query(ctx, `
		SELECT `+policyCols+`
		FROM platform_policies
		ORDER BY platform
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.PlatformPolicy
	for rows.Next() {
		var p domain.PlatformPolicy
		if err := scanPolicy(rows, &p); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (s *pg) Upsert(ctx context.Context, p domain.PlatformPolicy) (domain.PlatformPolicy, error) {
	row := s.q.QueryRow(ctx, `
		INSERT INTO platform_policies (
			platform, enabled, min_amount_cents, max_amount_cents,
			auto_accept, priority_tier, accept_medium_priority, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, now())
		ON CONFLICT (platform) DO UPDATE SET
			enabled                = EXCLUDED.enabled,
			min_amount_cents       = EXCLUDED.min_amount_cents,
			max_amount_cents       = EXCLUDED.max_amount_cents,
			auto_accept            = EXCLUDED.auto_accept,
			priority_tier          = EXCLUDED.priority_tier,
			accept_medium_priority = EXCLUDED.accept_medium_priority,
			updated_at             = now()
		RETURNING `+policyCols+`
	`, p.Platform, p.Enabled, p.MinAmountCents, p.MaxAmountCents,
		p.AutoAccept, p.PriorityTier, p.AcceptMediumPriority)

	var out domain.PlatformPolicy
	if err := scanPolicy(row, &out); err != nil {
		return domain.PlatformPolicy{}, err
	}
	return out, nil
}

func (s *pg) Delete(ctx context.Context, platform string) error {
	_, err := s.q.Exec(ctx, `DELETE FROM platform_policies WHERE platform = $1`, platform)
	return err
}

// scanner is satisfied by both Row and Rows
type scanner interface{ Scan(dest ...any) error }

func scanPolicy(r scanner, p *domain.PlatformPolicy) error {
	return r.Scan(
		&p.Platform,
		&p.Enabled,
		&p.MinAmountCents,
		&p.MaxAmountCents,
		&p.AutoAccept,
		&p.PriorityTier,
		&p.AcceptMediumPriority,
		&p.UpdatedAt,
	)
}
