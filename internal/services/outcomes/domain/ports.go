package domain

import "context"

// SinkPort is the fire-and-forget recording surface. Record never blocks the
// pipeline; writes happen on a background flusher
type SinkPort interface {
	Record(o ExecutionOutcome)
}

// ReaderPort exposes recent outcomes to the admin surface
type ReaderPort interface {
	Recent(ctx context.Context, limit int) ([]ExecutionOutcome, error)
}
