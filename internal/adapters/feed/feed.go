// Package feed adapts a notification listener stream into the pipeline's
// source port. The companion listener process (or a replay file) emits one
// JSON object per line
package feed

import (
	"bufio"
	"context"
	"encoding/json"
	"io"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"ordersnag/internal/core/notif"
	"ordersnag/internal/platform/logger"
)

const maxLineBytes = 256 * 1024

// envelope is the wire form of one posted notification
type envelope struct {
	ID         string `json:"id"`
	Package    string `json:"package"`
	Title      string `json:"title"`
	Text       string `json:"text"`
	PostedAtMs int64  `json:"posted_at_ms"`
}

func (e envelope) notification(now time.Time) notif.Notification {
	n := notif.Notification{
		ID:            e.ID,
		SourcePackage: e.Package,
		Title:         e.Title,
		Text:          e.Text,
		PostedAt:      now,
	}
	if n.ID == "" {
		n.ID = uuid.NewString()
	}
	if e.PostedAtMs > 0 {
		n.PostedAt = time.UnixMilli(e.PostedAtMs).UTC()
	}
	return n
}

// Reader streams notifications from a single line-delimited JSON reader.
// Useful for replay files and tests; the socket source builds on it
type Reader struct {
	src io.Reader
	log logger.Logger

	// unstamped counts lines without posted_at_ms. Their PostedAt falls back
	// to receive time, which differs per delivery, so duplicate suppression
	// cannot fire for that producer; supersede tracking still catches the
	// redeliveries downstream
	unstamped atomic.Int64
	warnOnce  sync.Once
}

// NewReader wraps an open stream
func NewReader(src io.Reader) *Reader {
	return &Reader{src: src, log: *logger.Named("feed")}
}

// Stream implements the pipeline source port. The returned channel closes
// when the underlying reader drains or ctx is cancelled; malformed lines are
// counted and skipped
func (f *Reader) Stream(ctx context.Context) (<-chan notif.Notification, error) {
	out := make(chan notif.Notification)
	go func() {
		defer close(out)
		f.pump(ctx, f.src, out)
	}()
	return out, nil
}

func (f *Reader) pump(ctx context.Context, src io.Reader, out chan<- notif.Notification) {
	sc := bufio.NewScanner(src)
	sc.Buffer(make([]byte, 64*1024), maxLineBytes)

	var lines, bad int
	for sc.Scan() {
		line := sc.Bytes()
		if len(line) == 0 {
			continue
		}
		lines++

		var env envelope
		if err := json.Unmarshal(line, &env); err != nil {
			bad++
			f.log.Debug().Int("line", lines).Err(err).Msg("skipping malformed feed line")
			continue
		}
		if env.Package == "" {
			bad++
			continue
		}
		if env.PostedAtMs <= 0 {
			f.unstamped.Add(1)
			f.warnOnce.Do(func() {
				f.log.Warn().
					Str("package", env.Package).
					Msg("feed line lacks posted_at_ms; duplicate suppression degraded for this producer")
			})
		}

		select {
		case out <- env.notification(time.Now().UTC()):
		case <-ctx.Done():
			return
		}
	}
	if err := sc.Err(); err != nil && ctx.Err() == nil {
		f.log.Warn().Err(err).Msg("feed stream ended with error")
	}
	f.log.Info().
		Int("lines", lines).
		Int("malformed", bad).
		Int64("unstamped", f.unstamped.Load()).
		Msg("feed stream drained")
}
