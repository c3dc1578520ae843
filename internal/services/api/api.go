// Package api provides the HTTP API over the reconciled collection
package api

import (
	"depotmap/internal/platform/config"
	"depotmap/internal/platform/logger"
	phttp "depotmap/internal/platform/net/http"

	"depotmap/internal/modkit"
	"depotmap/internal/modkit/httpkit"
	"depotmap/internal/modkit/module"
	"depotmap/internal/modkit/swaggerkit"

	"depotmap/internal/core/depot"
	assignmod "depotmap/internal/services/assign/module"
	recdom "depotmap/internal/services/reconcile/domain"
)

// Options are the API options
type Options struct {
	Config        config.Conf
	Logger        *logger.Logger
	Pack          *depot.Pack
	Result        *recdom.Result
	EnableSwagger bool
}

// Mount mounts the API service onto the given router
func Mount(r phttp.Router, opt Options) {
	deps := modkit.Deps{
		Log: opt.Logger,
		Cfg: opt.Config,
	}

	mods := []module.Module{
		assignmod.New(deps, opt.Pack, opt.Result),
	}

	// versioned API with a common middleware stack
	httpkit.MountAPIV1(r, httpkit.CommonStack(), func(api httpkit.Router) {
		swaggerkit.Mount(r, opt.EnableSwagger)

		for _, m := range mods {
			// register each module's ports under its own name (for cross-module lookups)
			module.Register(m.Name(), m.Ports())

			// mount module routes under its Prefix()
			m.MountRoutes(api)
		}
	})
}
