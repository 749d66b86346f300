// ordersnag-agent runs the full decision pipeline on device: notification
// feed in, policy scoring, accept-control inspection, trigger execution,
// plus the local confirmation/admin HTTP surface
package main

import (
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"

	"ordersnag/internal/modkit"
	"ordersnag/internal/modkit/module"
	"ordersnag/internal/platform/config"
	"ordersnag/internal/platform/logger"
	phttp "ordersnag/internal/platform/net/http"
	"ordersnag/internal/platform/store"

	"ordersnag/internal/adapters/device"
	"ordersnag/internal/adapters/feed"

	"ordersnag/internal/services/api"
	inspectormod "ordersnag/internal/services/inspector/module"
	outcomesmod "ordersnag/internal/services/outcomes/module"
	pipelinedom "ordersnag/internal/services/pipeline/domain"
	pipelinemod "ordersnag/internal/services/pipeline/module"
	policiesmod "ordersnag/internal/services/policies/module"
	promptsmod "ordersnag/internal/services/prompts/module"
)

func main() {
	root := config.New()
	agentCfg := root.Prefix("AGENT_")
	pgCfg := root.Prefix("SERVICE_PGSQL_")
	chCfg := root.Prefix("SERVICE_CLICKHOUSE_")

	l := logger.Get()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	st, err := store.Open(ctx, store.Config{
		AppName: "ordersnag",
		PG: store.PGConfig{
			Enabled:     true,
			URL:         pgCfg.MustString("DBURL"),
			MaxConns:    int32(pgCfg.MayInt("MAX_CONNS", 4)),
			SlowQueryMs: pgCfg.MayInt("SLOW_MS", 500),
			LogSQL:      pgCfg.MayBool("LOG_SQL", false),
		},
		CH: store.CHConfig{
			Enabled: chCfg.MayBool("ENABLED", false),
			URL:     chCfg.MayString("DBURL", ""),
			Role:    "agent",
		},
	}, store.WithLogger(*l))
	if err != nil {
		l.Panic().Err(err).Msg("store.Open failed")
	}
	defer func() {
		if err := st.Close(context.Background()); err != nil {
			l.Error().Err(err).Msg("failed to close store")
		}
	}()

	deps := modkit.Deps{
		Log: *l,
		Cfg: root,
		PG:  st.PG,
		CH:  st.CH,
	}

	// worker modules
	policies := policiesmod.New(deps)
	if err := policies.Warm(ctx); err != nil {
		l.Panic().Err(err).Msg("policy warm failed")
	}
	prompts := promptsmod.New(deps)
	outcomes := outcomesmod.New(deps)
	outcomes.Start(ctx)
	defer outcomes.Close()

	// device bridge client feeds the inspector
	screen := device.NewClient(device.Options{
		BaseURL: agentCfg.MayString("BRIDGE_URL", ""),
		Timeout: agentCfg.MayDuration("BRIDGE_TIMEOUT", 0),
	})
	inspector := inspectormod.New(deps, modkit.WithPorts(inspectormod.Inject{
		Screen: screen,
	}))

	for _, m := range []module.Module{policies, prompts, outcomes, inspector} {
		module.Register(m.Name(), m.Ports())
	}

	polPorts := module.MustPortsOf[policiesmod.Ports](policies)
	prPorts := module.MustPortsOf[promptsmod.Ports](prompts)
	outPorts := module.MustPortsOf[outcomesmod.Ports](outcomes)
	insPorts := module.MustPortsOf[inspectormod.Ports](inspector)

	pipeline := pipelinemod.New(deps, modkit.WithPorts(pipelinemod.Inject{
		Source:    notificationSource(agentCfg, l),
		Inspector: insPorts.Inspector,
		Screen:    insPorts.Screen,
		Confirm:   prPorts.Confirm,
		Policies:  polPorts.Reader,
		Sink:      outPorts.Sink,
	}))
	module.Register(pipeline.Name(), pipeline.Ports())

	// local confirmation/admin surface
	srv := phttp.NewServer(agentCfg)
	api.Mount(srv.Router(), api.Options{
		Config:         agentCfg,
		Store:          st,
		Logger:         l,
		EnableSwagger:  agentCfg.MayBool("SWAGGER", false),
		EnableProfiler: agentCfg.MayBool("PROFILER", false),
		Policies:       polPorts,
		Outcomes:       outPorts,
		Prompts:        prPorts.Registry,
	})

	go func() {
		if err := srv.Run(ctx); err != nil {
			l.Error().Err(err).Msg("http server stopped")
			stop()
		}
	}()
	defer func() {
		if err := srv.Shutdown(context.Background()); err != nil {
			l.Error().Err(err).Msg("http shutdown failed")
		}
	}()

	if err := pipeline.Run(ctx); err != nil && ctx.Err() == nil {
		l.Fatal().Err(err).Msg("pipeline failed")
	}
	l.Info().Msg("agent shutting down")
}

// notificationSource picks the feed: a replay file (or stdin with "-") when
// AGENT_FEED_FILE is set, otherwise the listener's unix socket
func notificationSource(cfg config.Conf, l *logger.Logger) pipelinedom.SourcePort {
	if path := cfg.MayString("FEED_FILE", ""); path != "" {
		var src io.Reader = os.Stdin
		if path != "-" {
			f, err := os.Open(path)
			if err != nil {
				l.Panic().Err(err).Str("path", path).Msg("feed file unreadable")
			}
			src = f
		}
		return feed.NewReader(src)
	}
	return feed.NewSocket(cfg.MayString("FEED_SOCKET", "/run/ordersnag/feed.sock"))
}
