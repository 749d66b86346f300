// Package service implements the inspector: signature search behind a
// recency-bounded per-package cache
package service

import (
	"container/list"
	"context"
	"sync"
	"time"

	"ordersnag/internal/core/platformpack"
	"ordersnag/internal/core/uiprobe"
	perr "ordersnag/internal/platform/errors"
	"ordersnag/internal/platform/logger"
	"ordersnag/internal/services/inspector/domain"
)

// Config for the inspector service
type Config struct {
	// TTL bounds how long a cached result stays fresh
	TTL time.Duration
	// Capacity bounds the cache; least-recently-used entries are evicted.
	// Small on purpose: the set of concurrently relevant delivery apps is
	// small
	Capacity int
	// Patches are grayscale references for the image fallback, keyed by
	// source package. Packages without patches skip the fallback
	Patches map[string][]uiprobe.Patch
}

// Service implements domain.InspectorPort
type Service struct {
	screen  domain.ScreenPort
	pack    *platformpack.Pack
	matcher *uiprobe.Matcher
	cfg     Config

	now func() time.Time

	// mu guards the cache maps and the per-package lock table only; it is
	// never held across a snapshot capture or a trigger
	mu    sync.Mutex
	cache map[string]*list.Element
	lru   *list.List
	locks map[string]*sync.Mutex
}

type entry struct {
	pkg string
	res domain.InspectionResult
}

// New constructs the inspector service
func New(screen domain.ScreenPort, pack *platformpack.Pack, cfg Config) *Service {
	if screen == nil {
		panic("inspector: nil ScreenPort")
	}
	if pack == nil {
		panic("inspector: nil platform pack")
	}
	if cfg.TTL <= 0 {
		cfg.TTL = 3 * time.Second
	}
	if cfg.Capacity <= 0 {
		cfg.Capacity = 8
	}
	return &Service{
		screen:  screen,
		pack:    pack,
		matcher: uiprobe.NewMatcher(),
		cfg:     cfg,
		now:     time.Now,
		cache:   make(map[string]*list.Element),
		lru:     list.New(),
		locks:   make(map[string]*sync.Mutex),
	}
}

// Inspect implements domain.InspectorPort.
// The capture-search-store region is serialized per package: concurrent
// inspections against the same app's screen would race each other's
// mutations. Different packages run fully in parallel
func (s *Service) Inspect(ctx context.Context, pkg string, bypass bool) (domain.InspectionResult, error) {
	lock := s.packageLock(pkg)
	lock.Lock()
	defer lock.Unlock()

	if !bypass {
		if res, ok := s.cached(pkg); ok {
			return res, nil
		}
	}

	snap, err := s.screen.Snapshot(ctx, pkg)
	if err != nil {
		return domain.InspectionResult{}, perr.Wrap(err, perr.ErrorCodeInspection, "snapshot failed")
	}

	res := s.search(pkg, snap)
	s.store(pkg, res)

	logger.C(ctx).Debug().
		Str("package", pkg).
		Bool("found", res.Found).
		Float64("confidence", res.Confidence).
		Str("path", string(res.Path)).
		Msg("inspection completed")

	return res, nil
}

// search runs the tree path first, then the image fallback
func (s *Service) search(pkg string, snap domain.Capture) domain.InspectionResult {
	res := domain.InspectionResult{InspectedAt: s.now()}

	plat, ok := s.pack.ForPackage(pkg)
	if !ok {
		return res
	}

	if snap.Tree != nil {
		if m, hit := s.matcher.FindInTree(snap.Tree, plat); hit {
			res.Found, res.Target, res.Confidence, res.Path = true, m.Handle, m.Confidence, m.Path
			return res
		}
	}

	if snap.Screen != nil {
		if m, hit := s.matcher.FindInImage(snap.Screen, s.cfg.Patches[pkg]); hit {
			res.Found, res.Target, res.Confidence, res.Path = true, m.Handle, m.Confidence, m.Path
		}
	}
	return res
}

func (s *Service) packageLock(pkg string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.locks[pkg]
	if !ok {
		l = &sync.Mutex{}
		s.locks[pkg] = l
	}
	return l
}

func (s *Service) cached(pkg string) (domain.InspectionResult, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	el, ok := s.cache[pkg]
	if !ok {
		return domain.InspectionResult{}, false
	}
	e := el.Value.(*entry)
	if s.now().Sub(e.res.InspectedAt) >= s.cfg.TTL {
		// stale entries are dropped, not served
		s.lru.Remove(el)
		delete(s.cache, pkg)
		return domain.InspectionResult{}, false
	}
	s.lru.MoveToFront(el)
	return e.res, true
}

func (s *Service) store(pkg string, res domain.InspectionResult) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if el, ok := s.cache[pkg]; ok {
		el.Value.(*entry).res = res
		s.lru.MoveToFront(el)
		return
	}
	s.cache[pkg] = s.lru.PushFront(&entry{pkg: pkg, res: res})

	for s.lru.Len() > s.cfg.Capacity {
		oldest := s.lru.Back()
		s.lru.Remove(oldest)
		delete(s.cache, oldest.Value.(*entry).pkg)
	}
}
