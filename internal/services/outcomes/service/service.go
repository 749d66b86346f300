// Package service implements the outcomes sink: a buffered, fire-and-forget
// writer that lands each outcome in Postgres and batches decision events
// into ClickHouse
package service

import (
	"context"
	"sync"
	"time"

	"ordersnag/internal/modkit/repokit"
	"ordersnag/internal/platform/logger"
	"ordersnag/internal/services/outcomes/domain"
	"ordersnag/internal/services/outcomes/repo"
)

// Config for the outcomes service
type Config struct {
	// BufferSize bounds the in-flight queue; Record drops (with a log line)
	// once it is full rather than stalling the pipeline
	BufferSize int
	// FlushEvery is the ClickHouse batch interval
	FlushEvery time.Duration
	// RecentLimit caps Recent() reads
	RecentLimit int
}

// Service implements domain.SinkPort and domain.ReaderPort
type Service struct {
	DB     repokit.TxRunner
	Binder repokit.Binder[repo.Storage]
	Events *repo.CHWriter
	Cfg    Config

	queue chan domain.ExecutionOutcome

	startOnce sync.Once
	done      chan struct{}
	wg        sync.WaitGroup
}

// New constructs a new outcomes service; call Start before recording
func New(db repokit.TxRunner, b repokit.Binder[repo.Storage], events *repo.CHWriter, cfg Config) *Service {
	if cfg.BufferSize <= 0 {
		cfg.BufferSize = 256
	}
	if cfg.FlushEvery <= 0 {
		cfg.FlushEvery = 5 * time.Second
	}
	if cfg.RecentLimit <= 0 {
		cfg.RecentLimit = 500
	}
	return &Service{
		DB:     db,
		Binder: b,
		Events: events,
		Cfg:    cfg,
		queue:  make(chan domain.ExecutionOutcome, cfg.BufferSize),
		done:   make(chan struct{}),
	}
}

// Record implements domain.SinkPort. Never blocks; the pipeline must not
// wait on persistence
func (s *Service) Record(o domain.ExecutionOutcome) {
	if o.RecordedAt.IsZero() {
		o.RecordedAt = time.Now()
	}
	select {
	case s.queue <- o:
	default:
		logger.Named("outcomes").Warn().
			Str("notification", o.NotificationID).
			Msg("outcome queue full, dropping record")
	}
}

// Recent implements domain.ReaderPort
func (s *Service) Recent(ctx context.Context, limit int) ([]domain.ExecutionOutcome, error) {
	if limit <= 0 || limit > s.Cfg.RecentLimit {
		limit = s.Cfg.RecentLimit
	}
	var out []domain.ExecutionOutcome
	err := s.DB.Tx(ctx, func(q repokit.Queryer) error {
		var err error
		out, err = s.Binder.Bind(q).Recent(ctx, limit)
		return err
	})
	return out, err
}

// Start launches the background flusher
func (s *Service) Start(ctx context.Context) {
	s.startOnce.Do(func() {
		s.wg.Add(1)
		go s.flushLoop(ctx)
	})
}

// Close drains the queue and stops the flusher
func (s *Service) Close() {
	close(s.done)
	s.wg.Wait()
}

func (s *Service) flushLoop(ctx context.Context) {
	defer s.wg.Done()

	log := logger.Named("outcomes")
	tick := time.NewTicker(s.Cfg.FlushEvery)
	defer tick.Stop()

	var pending []domain.ExecutionOutcome

	flush := func() {
		if len(pending) == 0 {
			return
		}
		if err := s.Events.InsertBatch(ctx, pending); err != nil {
			log.Warn().Err(err).Int("events", len(pending)).Msg("clickhouse batch failed")
		}
		pending = pending[:0]
	}

	for {
		select {
		case o := <-s.queue:
			s.persist(ctx, o)
			pending = append(pending, o)
		case <-tick.C:
			flush()
		case <-s.done:
			for {
				select {
				case o := <-s.queue:
					s.persist(ctx, o)
					pending = append(pending, o)
				default:
					flush()
					return
				}
			}
		case <-ctx.Done():
			flush()
			return
		}
	}
}

func (s *Service) persist(ctx context.Context, o domain.ExecutionOutcome) {
	err := s.DB.Tx(ctx, func(q repokit.Queryer) error {
		return s.Binder.Bind(q).Insert(ctx, o)
	})
	if err != nil {
		logger.Named("outcomes").Warn().Err(err).
			Str("notification", o.NotificationID).
			Msg("outcome insert failed")
	}
}
