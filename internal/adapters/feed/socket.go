package feed

import (
	"context"
	"errors"
	"net"
	"os"
	"sync"

	"ordersnag/internal/core/notif"
	"ordersnag/internal/platform/logger"
)

// Socket accepts listener connections on a unix socket and merges their
// line streams into one notification channel. The listener reconnects after
// crashes, so accepted connections come and go over the process lifetime
type Socket struct {
	path string
	log  logger.Logger
}

// NewSocket builds a socket source for the given path
func NewSocket(path string) *Socket {
	return &Socket{path: path, log: *logger.Named("feed")}
}

// Stream implements the pipeline source port. Binding failures surface
// immediately; per-connection errors only end that connection
func (s *Socket) Stream(ctx context.Context) (<-chan notif.Notification, error) {
	// a stale socket file from a previous run blocks the bind
	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, err
	}

	var lc net.ListenConfig
	ln, err := lc.Listen(ctx, "unix", s.path)
	if err != nil {
		return nil, err
	}
	s.log.Info().Str("path", s.path).Msg("feed socket listening")

	out := make(chan notif.Notification)
	go s.accept(ctx, ln, out)
	return out, nil
}

func (s *Socket) accept(ctx context.Context, ln net.Listener, out chan notif.Notification) {
	defer close(out)

	var wg sync.WaitGroup
	defer wg.Wait()

	go func() {
		<-ctx.Done()
		_ = ln.Close()
	}()

	rd := &Reader{log: s.log}
	for {
		conn, err := ln.Accept()
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			s.log.Warn().Err(err).Msg("feed accept failed")
			return
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			defer func() { _ = conn.Close() }()
			rd.pump(ctx, conn, out)
		}()
	}
}
