// Package module provides the prompts module
package module

import (
	"net/http"
	"time"

	"ordersnag/internal/modkit"
	"ordersnag/internal/modkit/httpkit"
	"ordersnag/internal/platform/config"
	"ordersnag/internal/services/prompts/domain"
	"ordersnag/internal/services/prompts/service"
)

// Ports exposed by the prompts module
type Ports struct {
	Confirm  domain.ConfirmPort
	Registry domain.RegistryPort
}

// Module implements modkit.Module
type Module struct {
	deps  modkit.Deps
	ports Ports
}

// New constructs a new prompts module
func New(deps modkit.Deps) *Module {
	svc := service.New(FromConfig(deps.Cfg))

	m := &Module{deps: deps}
	m.ports = Ports{Confirm: svc, Registry: svc}
	return m
}

// FromConfig reads PROMPTS_* values from process config/env
func FromConfig(cfg config.Conf) service.Config {
	pc := cfg.Prefix("PROMPTS_")
	return service.Config{Deadline: pc.MayDuration("DEADLINE", 25*time.Second)}
}

// Name implements modkit.Module
func (m *Module) Name() string { return "prompts" }

// Ports implements modkit.Module
func (m *Module) Ports() any { return m.ports }

// Prefix implements modkit.Module
func (m *Module) Prefix() string { return "" }

// Middlewares implements modkit.Module
func (m *Module) Middlewares() []func(http.Handler) http.Handler { return nil }

// MountRoutes implements modkit.Module
func (m *Module) MountRoutes(r httpkit.Router) {}
