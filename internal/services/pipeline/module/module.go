// Package module provides the pipeline module
package module

import (
	"context"
	"net/http"

	"ordersnag/internal/core/notif"
	"ordersnag/internal/core/platformpack"
	"ordersnag/internal/core/scoring"
	"ordersnag/internal/modkit"
	"ordersnag/internal/modkit/httpkit"
	insdom "ordersnag/internal/services/inspector/domain"
	outdom "ordersnag/internal/services/outcomes/domain"
	"ordersnag/internal/services/pipeline/domain"
	"ordersnag/internal/services/pipeline/service"
	prdom "ordersnag/internal/services/prompts/domain"
)

// Inject declares the ports this module consumes from its siblings and from
// the binary's adapters
type Inject struct {
	Source    domain.SourcePort
	Inspector insdom.InspectorPort
	Screen    insdom.ScreenPort
	Confirm   prdom.ConfirmPort
	Policies  domain.PolicyViewPort
	Sink      outdom.SinkPort
}

// Ports exposed by the pipeline module
type Ports struct {
	Pipeline domain.PipelinePort
}

// Module implements modkit.Module
type Module struct {
	deps   modkit.Deps
	svc    *service.Service
	source domain.SourcePort
	ports  Ports
}

// New constructs a new pipeline module
func New(deps modkit.Deps, opts ...modkit.Option) *Module {
	b := modkit.Build(append([]modkit.Option{
		modkit.WithName("pipeline"),
	}, opts...)...)

	var in Inject
	if p, ok := b.Ports.(Inject); ok {
		in = p
	}
	switch {
	case in.Source == nil:
		panic("pipeline module requires a Source port (notification feed)")
	case in.Inspector == nil:
		panic("pipeline module requires an Inspector port")
	case in.Screen == nil:
		panic("pipeline module requires a Screen port")
	case in.Confirm == nil:
		panic("pipeline module requires a Confirm port (prompts)")
	case in.Policies == nil:
		panic("pipeline module requires a Policies snapshot port")
	case in.Sink == nil:
		panic("pipeline module requires an outcome Sink port")
	}

	cfg := FromConfig(deps.Cfg)

	exec := service.NewExecutor(in.Inspector, in.Screen, in.Confirm, cfg.ConfidenceFloor, cfg.TriggerDeadline)
	svc := service.New(
		notif.NewParser(platformpack.MustLoad()),
		scoring.NewEngine(cfg.Scoring),
		in.Policies,
		exec,
		in.Sink,
		service.Config{
			Workers:      cfg.Workers,
			QueueSize:    cfg.QueueSize,
			DedupeWindow: cfg.DedupeWindow,
		},
	)

	m := &Module{deps: deps, svc: svc, source: in.Source}
	m.ports = Ports{Pipeline: svc}
	return m
}

// Run consumes the feed until ctx is cancelled or the source drains
func (m *Module) Run(ctx context.Context) error { return m.svc.Run(ctx, m.source) }

// Name implements modkit.Module
func (m *Module) Name() string { return "pipeline" }

// Ports implements modkit.Module
func (m *Module) Ports() any { return m.ports }

// Prefix implements modkit.Module
func (m *Module) Prefix() string { return "" }

// Middlewares implements modkit.Module
func (m *Module) Middlewares() []func(http.Handler) http.Handler { return nil }

// MountRoutes implements modkit.Module
func (m *Module) MountRoutes(r httpkit.Router) {}
