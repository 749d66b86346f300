// Package service implements the notification pipeline: dedupe, a bounded
// queue feeding worker tasks, scoring against policy snapshots, and the
// executor state machine
package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"ordersnag/internal/core/notif"
	"ordersnag/internal/core/scoring"
	"ordersnag/internal/platform/logger"
	outdom "ordersnag/internal/services/outcomes/domain"
	"ordersnag/internal/services/pipeline/domain"
)

// Config for the pipeline service
type Config struct {
	// Workers is the number of concurrent notification tasks
	Workers int
	// QueueSize bounds the intake; bursts beyond it drop with a log line
	QueueSize int
	// DedupeWindow suppresses repeat deliveries of the same notification
	DedupeWindow time.Duration
}

// Service implements domain.PipelinePort
type Service struct {
	parser   *notif.Parser
	engine   *scoring.Engine
	policies domain.PolicyViewPort
	exec     *Executor
	sink     outdom.SinkPort
	cfg      Config

	queue chan notif.Notification
	now   func() time.Time

	// seen is the dedupe window: key -> last delivery
	seenMu sync.Mutex
	seen   map[string]time.Time

	// orders tracks the latest sequence per order key; an in-flight
	// execution superseded by a newer duplicate completes, but its outcome
	// is ignored in favor of the latest
	ordMu  sync.Mutex
	orders map[string]uint64
	seq    uint64

	wg sync.WaitGroup
}

// New constructs the pipeline service
func New(parser *notif.Parser, engine *scoring.Engine, policies domain.PolicyViewPort, exec *Executor, sink outdom.SinkPort, cfg Config) *Service {
	if cfg.Workers <= 0 {
		cfg.Workers = 4
	}
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = 64
	}
	if cfg.DedupeWindow <= 0 {
		cfg.DedupeWindow = 90 * time.Second
	}
	return &Service{
		parser:   parser,
		engine:   engine,
		policies: policies,
		exec:     exec,
		sink:     sink,
		cfg:      cfg,
		queue:    make(chan notif.Notification, cfg.QueueSize),
		now:      time.Now,
		seen:     make(map[string]time.Time),
		orders:   make(map[string]uint64),
	}
}

// Run consumes the source until it drains or ctx is cancelled, then waits for
// in-flight work. Blocking; the binary runs it on its own goroutine
func (s *Service) Run(ctx context.Context, src domain.SourcePort) error {
	stream, err := src.Stream(ctx)
	if err != nil {
		return err
	}

	s.startWorkers(ctx)

	for {
		select {
		case n, ok := <-stream:
			if !ok {
				close(s.queue)
				s.wg.Wait()
				return nil
			}
			s.Submit(n)
		case <-ctx.Done():
			close(s.queue)
			s.wg.Wait()
			return ctx.Err()
		}
	}
}

// Start launches the workers without a source; Submit feeds them directly.
// Used by tests and embedded setups
func (s *Service) Start(ctx context.Context) { s.startWorkers(ctx) }

// Drain closes the intake and waits for in-flight work
func (s *Service) Drain() {
	close(s.queue)
	s.wg.Wait()
}

func (s *Service) startWorkers(ctx context.Context) {
	for i := 0; i < s.cfg.Workers; i++ {
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			for n := range s.queue {
				s.process(ctx, n)
			}
		}()
	}
}

// Submit implements domain.PipelinePort
func (s *Service) Submit(n notif.Notification) bool {
	if s.duplicate(n) {
		logger.Named("pipeline").Debug().
			Str("package", n.SourcePackage).
			Msg("duplicate notification suppressed")
		return false
	}
	select {
	case s.queue <- n:
		return true
	default:
		logger.Named("pipeline").Warn().
			Str("package", n.SourcePackage).
			Msg("intake queue full, dropping notification")
		return false
	}
}

// duplicate records the delivery and reports whether the same tuple arrived
// within the dedupe window
func (s *Service) duplicate(n notif.Notification) bool {
	key := n.DedupeKey()
	now := s.now()

	s.seenMu.Lock()
	defer s.seenMu.Unlock()

	if at, ok := s.seen[key]; ok && now.Sub(at) < s.cfg.DedupeWindow {
		return true
	}
	s.seen[key] = now

	// opportunistic sweep keeps the window map bounded under bursts
	if len(s.seen) > 1024 {
		for k, at := range s.seen {
			if now.Sub(at) >= s.cfg.DedupeWindow {
				delete(s.seen, k)
			}
		}
	}
	return false
}

// process runs one notification end to end. Every failure is converted into
// an outcome or a log line at this boundary
func (s *Service) process(ctx context.Context, n notif.Notification) {
	log := logger.Named("pipeline")

	sig, err := s.parser.Parse(n)
	if err != nil {
		if errors.Is(err, notif.ErrUnknownPlatform) {
			log.Debug().Str("package", n.SourcePackage).Msg("unrecognized source package, dropped")
			return
		}
		// unparsable amount: reject without scoring, silently recorded
		s.sink.Record(outdom.ExecutionOutcome{
			NotificationID: n.ID,
			SourcePackage:  n.SourcePackage,
			Verdict:        scoring.VerdictReject,
			Path:           outdom.PathParseFailed,
			Reason:         err.Error(),
		})
		return
	}

	pol := s.policies.Snapshot(sig.Platform)
	dec := s.engine.Score(sig, pol)

	seq, key := s.claimOrder(orderKey(n))
	res := s.exec.Execute(ctx, sig, dec)

	if !s.latest(key, seq) {
		log.Info().
			Str("package", sig.SourcePackage).
			Str("path", string(res.Outcome.Path)).
			Msg("outcome superseded by a newer decision, ignored")
		return
	}
	s.sink.Record(res.Outcome)
}

// orderKey identifies the underlying order across duplicate deliveries.
// Post time is excluded on purpose: redeliveries carry fresh timestamps
func orderKey(n notif.Notification) string {
	return n.SourcePackage + "|" + n.Title + "|" + n.Text
}

func (s *Service) claimOrder(key string) (uint64, string) {
	s.ordMu.Lock()
	defer s.ordMu.Unlock()
	s.seq++
	s.orders[key] = s.seq
	return s.seq, key
}

// latest reports whether seq is still the newest claim for key and, when it
// is, releases the entry; the superseding run drops stale entries the same
// way when it completes, so the map stays bounded over a long-lived process
func (s *Service) latest(key string, seq uint64) bool {
	s.ordMu.Lock()
	defer s.ordMu.Unlock()
	if s.orders[key] != seq {
		return false
	}
	delete(s.orders, key)
	return true
}
