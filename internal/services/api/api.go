// Package api provides the HTTP API for the application
package api

import (
	"context"
	"errors"

	"grantdir/internal/core/listing"
	"grantdir/internal/platform/config"
	"grantdir/internal/platform/logger"
	phttp "grantdir/internal/platform/net/http"
	"grantdir/internal/platform/net/middleware"

	"grantdir/internal/modkit"
	"grantdir/internal/modkit/httpkit"
	"grantdir/internal/modkit/module"
	"grantdir/internal/modkit/swaggerkit"

	agenciesmod "grantdir/internal/services/api/agencies/module"
	canonicalmod "grantdir/internal/services/api/canonical/module"
	grantsmod "grantdir/internal/services/api/grants/module"
	metamod "grantdir/internal/services/api/meta/module"
)

// Options are the API options
type Options struct {
	// Config is the CORE_API_ scoped config
	Config         config.Conf
	Deps           modkit.Deps
	Logger         *logger.Logger
	EnableSwagger  bool
	EnableProfiler bool
}

type closer interface {
	Close(ctx context.Context) error
}

// Mount mounts the API service onto the given router
// the returned func flushes module buffers and should run on shutdown
func Mount(r phttp.Router, opt Options) func(context.Context) error {
	deps := opt.Deps
	deps.Cfg = opt.Config

	// answered before routing, group middleware only runs once a route matched
	r.Use(middleware.Heartbeat("/health"), middleware.StripSlashes())

	// listing modules first, their ports feed the agency page and canonical routes
	grants := grantsmod.New(deps)
	jobs := grantsmod.NewJobs(deps)
	grantsPort := module.MustPortsOf[grantsmod.Ports](grants)
	jobsPort := module.MustPortsOf[grantsmod.Ports](jobs)

	mods := []module.Module{
		metamod.New(deps),
		grants,
		jobs,
		agenciesmod.New(deps, modkit.WithPorts(agenciesmod.Ports{Listings: grantsPort})),
	}
	canonical := []module.Module{
		canonicalmod.New(deps, listing.KindGrant, modkit.WithPorts(canonicalmod.Ports{Listings: grantsPort})),
		canonicalmod.New(deps, listing.KindJob, modkit.WithPorts(canonicalmod.Ports{Listings: jobsPort})),
	}

	stack := httpkit.Stack(httpkit.StackOptions{
		CORSOrigins: opt.Config.MayCSV("CORS_ORIGINS", nil),
		RateLimit: middleware.RateLimitOptions{
			RPS:   opt.Config.MayFloat64("RATE_LIMIT_RPS", 0),
			Burst: opt.Config.MayInt("RATE_LIMIT_BURST", 0),
		},
		Observe: deps.Metrics.Middleware,
		Slow:    opt.Config.MayDuration("SLOW_REQUEST", 0),
		Timeout: opt.Config.MayDuration("REQUEST_TIMEOUT", 0),
	})

	// swagger, profiler, and prometheus live outside the api scope
	swaggerkit.Mount(r, opt.EnableSwagger, swaggerkit.Options{
		TitleSuffix: opt.Config.MayString("DOCS_TITLE_SUFFIX", ""),
	})
	phttp.MountProfiler(r, "/debug", opt.EnableProfiler)
	if deps.Metrics != nil {
		r.Handle("/metrics", deps.Metrics.Handler())
	}

	httpkit.Mount(r, "/api", stack, func(api httpkit.Router) {
		for _, m := range mods {
			m.MountRoutes(api)
		}
	})

	// canonical listing pages are served at the site root
	httpkit.Mount(r, "", stack, func(g httpkit.Router) {
		for _, m := range canonical {
			m.MountRoutes(g)
		}
	})

	if opt.Logger != nil {
		opt.Logger.Info().
			Int("modules", len(mods)+len(canonical)).
			Bool("swagger", opt.EnableSwagger).
			Bool("profiler", opt.EnableProfiler).
			Msg("api mounted")
	}

	return func(ctx context.Context) error {
		var errs []error
		for _, m := range mods {
			if c, ok := m.(closer); ok {
				if err := c.Close(ctx); err != nil {
					errs = append(errs, err)
				}
			}
		}
		return errors.Join(errs...)
	}
}
