// Package module provides the outcomes module
package module

import (
	"context"
	"net/http"

	"ordersnag/internal/modkit"
	"ordersnag/internal/modkit/httpkit"
	"ordersnag/internal/services/outcomes/domain"
	"ordersnag/internal/services/outcomes/repo"
	"ordersnag/internal/services/outcomes/service"
)

// Ports exposed by the outcomes module
type Ports struct {
	Sink   domain.SinkPort
	Reader domain.ReaderPort
}

// Module implements modkit.Module
type Module struct {
	deps  modkit.Deps
	svc   *service.Service
	ports Ports
}

// New constructs a new outcomes module
func New(deps modkit.Deps) *Module {
	opts := FromConfig(deps.Cfg)

	svc := service.New(deps.PG, repo.NewPG(), repo.NewCH(deps.CH), service.Config{
		BufferSize:  opts.BufferSize,
		FlushEvery:  opts.FlushEvery,
		RecentLimit: opts.RecentLimit,
	})

	m := &Module{deps: deps, svc: svc}
	m.ports = Ports{Sink: svc, Reader: svc}
	return m
}

// Start launches the background flusher
func (m *Module) Start(ctx context.Context) { m.svc.Start(ctx) }

// Close drains and stops the flusher
func (m *Module) Close() { m.svc.Close() }

// Name implements modkit.Module
func (m *Module) Name() string { return "outcomes" }

// Ports implements modkit.Module
func (m *Module) Ports() any { return m.ports }

// Prefix implements modkit.Module
func (m *Module) Prefix() string { return "" }

// Middlewares implements modkit.Module
func (m *Module) Middlewares() []func(http.Handler) http.Handler { return nil }

// MountRoutes implements modkit.Module
func (m *Module) MountRoutes(r httpkit.Router) {}
