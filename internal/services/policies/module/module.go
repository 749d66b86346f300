// Package module provides the policies module
package module

import (
	"context"
	"net/http"

	"ordersnag/internal/modkit"
	"ordersnag/internal/modkit/httpkit"
	"ordersnag/internal/services/policies/domain"
	"ordersnag/internal/services/policies/repo"
	"ordersnag/internal/services/policies/service"
)

// Ports exposed by the policies module
type Ports struct {
	Reader domain.ReaderPort
	Writer domain.WriterPort
}

// Module implements modkit.Module
type Module struct {
	deps  modkit.Deps
	svc   *service.Service
	ports Ports
}

// New constructs a new policies module
func New(deps modkit.Deps) *Module {
	svc := service.New(deps.PG, repo.NewPG())

	m := &Module{deps: deps, svc: svc}
	m.ports = Ports{Reader: svc, Writer: svc}
	return m
}

// Warm loads the snapshot cache; call once at startup before serving
func (m *Module) Warm(ctx context.Context) error { return m.svc.Warm(ctx) }

// Name implements modkit.Module
func (m *Module) Name() string { return "policies" }

// Ports implements modkit.Module
func (m *Module) Ports() any { return m.ports }

// Prefix implements modkit.Module
func (m *Module) Prefix() string { return "" }

// Middlewares implements modkit.Module
func (m *Module) Middlewares() []func(http.Handler) http.Handler { return nil }

// MountRoutes implements modkit.Module
func (m *Module) MountRoutes(r httpkit.Router) {}
