// Package modkit builds api modules from shared deps and options
package modkit

import (
	"grantdir/internal/core/geo"
	"grantdir/internal/modkit/repokit"
	"grantdir/internal/platform/cache"
	"grantdir/internal/platform/config"
	"grantdir/internal/platform/logger"
	"grantdir/internal/platform/metrics"
	"grantdir/internal/platform/scheduler"
	"grantdir/internal/platform/store"
)

// Deps are the shared dependencies every module constructor receives
// a zero Deps is usable, modules fall back for the optional stores
type Deps struct {
	Log logger.Logger
	Cfg config.Conf

	// DB is the listing backend; modules fall back to an empty result when it is nil
	DB repokit.Source
	// CH is the analytics sink, nil when disabled
	CH repokit.Analytics

	// Geo is the shared read only state table resolver
	Geo *geo.Resolver

	Cache   cache.Cache
	Metrics *metrics.Metrics
	Sched   *scheduler.Scheduler

	// Probes are readiness checks by name, e.g. pg, ch, redis
	Probes map[string]store.Pinger
}

// Resolver returns Geo, or a resolver over the built in US table when unset
func (d Deps) Resolver() *geo.Resolver {
	if d.Geo != nil {
		return d.Geo
	}
	return geo.NewResolver(geo.MustTable(geo.USStates()))
}
