// Package repo provides persistence for execution outcomes: rows in Postgres
// for the admin surface, wide events in ClickHouse for analysis
package repo

import (
	"context"

	"github.com/google/uuid"

	"ordersnag/internal/core/scoring"
	"ordersnag/internal/modkit/repokit"
	"ordersnag/internal/platform/store"
	"ordersnag/internal/services/outcomes/domain"
)

type binder struct{}

// NewPG constructs a new repo binder for Postgres
func NewPG() repokit.Binder[Storage] { return binder{} }

// Bind implements repokit.Binder
func (binder) Bind(q repokit.Queryer) Storage { return &pg{q: q} }

// Storage defines the outcomes repository
type Storage interface {
	Insert(ctx context.Context, o domain.ExecutionOutcome) error
	Recent(ctx context.Context, limit int) ([]domain.ExecutionOutcome, error)
}

type pg struct{ q repokit.Queryer }

func (s *pg) Insert(ctx context.Context, o domain.ExecutionOutcome) error {
	_, err := s.q.Exec(ctx, `
		INSERT INTO execution_outcomes (
			id, notification_id, platform, source_package, amount_cents,
			verdict, decision_path, attempted, succeeded, reason,
			score_high_earning, score_low_distance, score_busy_time, score_low_priority,
			recorded_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
	`,
		uuid.NewString(), o.NotificationID, o.Platform, o.SourcePackage, o.AmountCents,
		string(o.Verdict), string(o.Path), o.Attempted, o.Succeeded, o.Reason,
		o.Scores.HighEarning, o.Scores.LowDistance, o.Scores.BusyTime, o.Scores.LowPriority,
		o.RecordedAt,
	)
	return err
}

func (s *pg) Recent(ctx context.Context, limit int) ([]domain.ExecutionOutcome, error) {
	rows, err := s.q.Query(ctx, `
		SELECT
			notification_id, platform, source_package, amount_cents,
			verdict, decision_path, attempted, succeeded, reason,
			score_high_earning, score_low_distance, score_busy_time, score_low_priority,
			recorded_at
		FROM execution_outcomes
		ORDER BY recorded_at DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.ExecutionOutcome
	for rows.Next() {
		var o domain.ExecutionOutcome
		var verdict, path string
		if err := rows.Scan(
			&o.NotificationID, &o.Platform, &o.SourcePackage, &o.AmountCents,
			&verdict, &path, &o.Attempted, &o.Succeeded, &o.Reason,
			&o.Scores.HighEarning, &o.Scores.LowDistance, &o.Scores.BusyTime, &o.Scores.LowPriority,
			&o.RecordedAt,
		); err != nil {
			return nil, err
		}
		o.Verdict, o.Path = scoring.Verdict(verdict), domain.DecisionPath(path)
		out = append(out, o)
	}
	return out, rows.Err()
}

// CHWriter batches decision events into ClickHouse
type CHWriter struct{ ch store.Clickhouse }

// NewCH constructs a ClickHouse writer; a nil seam disables it
func NewCH(ch store.Clickhouse) *CHWriter { return &CHWriter{ch: ch} }

var chCols = []string{
	"recorded_at", "notification_id", "platform", "source_package",
	"amount_cents", "verdict", "decision_path", "attempted", "succeeded",
	"score_high_earning", "score_low_distance", "score_busy_time", "score_low_priority",
}

// InsertBatch writes one batch of decision events
func (w *CHWriter) InsertBatch(ctx context.Context, batch []domain.ExecutionOutcome) error {
	if w == nil || w.ch == nil || len(batch) == 0 {
		return nil
	}
	rows := make([][]any, 0, len(batch))
	for _, o := range batch {
		rows = append(rows, []any{
			o.RecordedAt, o.NotificationID, o.Platform, o.SourcePackage,
			o.AmountCents, string(o.Verdict), string(o.Path), o.Attempted, o.Succeeded,
			o.Scores.HighEarning, o.Scores.LowDistance, o.Scores.BusyTime, o.Scores.LowPriority,
		})
	}
	return w.ch.Insert(ctx, "decision_events", chCols, rows)
}
