// Package module provides the inspector module
package module

import (
	"net/http"

	"ordersnag/internal/core/platformpack"
	"ordersnag/internal/modkit"
	"ordersnag/internal/modkit/httpkit"
	"ordersnag/internal/services/inspector/domain"
	"ordersnag/internal/services/inspector/service"
)

// Ports exposed by the inspector module
type Ports struct {
	Inspector domain.InspectorPort
	Screen    domain.ScreenPort
}

// Inject declares the required port for this module: the screen provider is
// an external collaborator wired in by the binary
type Inject struct {
	Screen domain.ScreenPort
}

// Module implements modkit.Module
type Module struct {
	deps  modkit.Deps
	ports Ports
}

// New constructs a new inspector module
func New(deps modkit.Deps, opts ...modkit.Option) *Module {
	b := modkit.Build(append([]modkit.Option{
		modkit.WithName("inspector"),
	}, opts...)...)

	var injected Inject
	if p, ok := b.Ports.(Inject); ok {
		injected = p
	}
	if injected.Screen == nil {
		panic("inspector module requires a Screen port (device bridge)")
	}

	cfg := FromConfig(deps.Cfg)

	svc := service.New(injected.Screen, platformpack.MustLoad(), service.Config{
		TTL:      cfg.TTL,
		Capacity: cfg.Capacity,
		Patches:  cfg.Patches,
	})

	m := &Module{deps: deps}
	m.ports = Ports{Inspector: svc, Screen: injected.Screen}
	return m
}

// Name implements modkit.Module
func (m *Module) Name() string { return "inspector" }

// Ports implements modkit.Module
func (m *Module) Ports() any { return m.ports }

// Prefix implements modkit.Module
func (m *Module) Prefix() string { return "" }

// Middlewares implements modkit.Module
func (m *Module) Middlewares() []func(http.Handler) http.Handler { return nil }

// MountRoutes implements modkit.Module
func (m *Module) MountRoutes(r httpkit.Router) {}
