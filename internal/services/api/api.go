// Package api provides the local HTTP surface for the agent
package api

import (
	"ordersnag/internal/platform/config"
	perr "ordersnag/internal/platform/errors"
	"ordersnag/internal/platform/logger"
	phttp "ordersnag/internal/platform/net/http"
	"ordersnag/internal/platform/store"

	"ordersnag/internal/modkit"
	"ordersnag/internal/modkit/httpkit"
	"ordersnag/internal/modkit/module"
	"ordersnag/internal/modkit/swaggerkit"

	apimeta "ordersnag/internal/services/api/meta/module"
	apioutcomes "ordersnag/internal/services/api/outcomes/module"
	apipolicies "ordersnag/internal/services/api/policies/module"
	apiprompts "ordersnag/internal/services/api/prompts/module"

	// Worker modules owning the ports the API fronts
	outcomesmod "ordersnag/internal/services/outcomes/module"
	policiesmod "ordersnag/internal/services/policies/module"
	prdom "ordersnag/internal/services/prompts/domain"
)

// Options are the API options
type Options struct {
	Config         config.Conf
	Store          *store.Store
	Logger         *logger.Logger
	EnableSwagger  bool
	EnableProfiler bool

	// Policies carries the worker module's ports when the caller already
	// runs one (the agent does, its pipeline shares the snapshot cache).
	// Zero means Mount constructs its own worker module
	Policies policiesmod.Ports

	// Outcomes carries the reader when the caller runs the flusher.
	// Nil means Mount constructs a read-only worker module
	Outcomes outcomesmod.Ports

	// Prompts is the live pending-prompt registry. Nil skips the prompt
	// routes entirely; a standalone admin process has no prompts to answer
	Prompts prdom.RegistryPort
}

// Mount mounts the API service onto the given router
func Mount(r phttp.Router, opt Options) {
	// shared deps for modules
	deps := modkit.Deps{
		Cfg: opt.Config,
		PG:  opt.Store.PG,
		CH:  opt.Store.CH,
	}
	if opt.Logger != nil {
		deps.Log = *opt.Logger
	}

	mods := []module.Module{
		apimeta.New(deps),
	}

	// Front the worker policies module; construct one here unless the
	// caller injected the ports of a module it already runs
	polPorts := opt.Policies
	if polPorts.Reader == nil || polPorts.Writer == nil {
		worker := policiesmod.New(deps)
		polPorts = module.MustPortsOf[policiesmod.Ports](worker)
		mods = append(mods, worker)
	}
	mods = append(mods, apipolicies.New(deps, modkit.WithPorts(polPorts)))

	outPorts := opt.Outcomes
	if outPorts.Reader == nil {
		worker := outcomesmod.New(deps)
		outPorts = module.MustPortsOf[outcomesmod.Ports](worker)
		mods = append(mods, worker)
	}
	mods = append(mods, apioutcomes.New(deps, modkit.WithPorts(apioutcomes.Ports{
		Reader: outPorts.Reader,
	})))

	if opt.Prompts != nil {
		mods = append(mods, apiprompts.New(deps, modkit.WithPorts(apiprompts.Ports{
			Registry: opt.Prompts,
		})))
	}

	// versioned API with a common middleware stack; a configured static
	// token gates the whole surface
	mw := httpkit.CommonStack()
	if token := opt.Config.MayString("ADMIN_TOKEN", ""); token != "" {
		mw = append(mw, httpkit.Auth(httpkit.NewPortFunc(func(got string) (string, string, error) {
			if got != token {
				return "", "", perr.Unauthorizedf("bad admin token")
			}
			return "admin", "", nil
		})))
	}

	httpkit.MountAPIV1(r, mw, func(api httpkit.Router) {
		// Swagger + profiler
		swaggerkit.Mount(r, opt.EnableSwagger)
		phttp.MountProfiler(r, "/debug", opt.EnableProfiler)

		for _, m := range mods {
			// register each module's ports under its own name (for cross-module lookups)
			module.Register(m.Name(), m.Ports())

			// mount module routes under its Prefix()
			m.MountRoutes(api)
		}
	})
}
