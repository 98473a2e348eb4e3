// Package module wires listing search into the API using modkit
package module

import (
	"context"

	"grantdir/internal/core/listing"
	modkit "grantdir/internal/modkit"
	"grantdir/internal/modkit/httpkit"
	"grantdir/internal/platform/logger"
	"grantdir/internal/platform/store/tabular"
	grantshttp "grantdir/internal/services/api/grants/http"
	grantsrepo "grantdir/internal/services/api/grants/repo"
	grantssvc "grantdir/internal/services/api/grants/service"
)

// Module serves search, detail and facets for one listing kind
type Module struct {
	modkit.Base

	svc    grantssvc.Service
	events *grantsrepo.Events
}

// New constructs the grants module
func New(deps modkit.Deps, opts ...modkit.Option) modkit.Module {
	return build(deps, listing.KindGrant, FromConfig(deps.Cfg, listing.KindGrant), true, opts)
}

// NewJobs constructs the jobs module over the jobs tables
func NewJobs(deps modkit.Deps, opts ...modkit.Option) modkit.Module {
	return build(deps, listing.KindJob, FromConfig(deps.Cfg, listing.KindJob), false, opts)
}

// NewWith constructs a listing module with explicit options
func NewWith(deps modkit.Deps, kind listing.Kind, o Options, opts ...modkit.Option) *Module {
	return build(deps, kind, o, kind == listing.KindGrant, opts)
}

func build(deps modkit.Deps, kind listing.Kind, o Options, locked bool, opts []modkit.Option) *Module {
	b := modkit.Build(append([]modkit.Option{
		modkit.WithName(kind.Plural()),
		modkit.WithPrefix(kind.Base()),
	}, opts...)...)

	src := deps.DB
	if src == nil {
		src = tabular.NewDisabled(*logger.Named(kind.Plural()))
	}

	events := grantsrepo.NewEvents(deps.CH, grantsrepo.EventOptions{Table: o.EventsTable})
	svcOpts := grantssvc.Options{
		Kind:           kind,
		Geo:            deps.Resolver(),
		Metrics:        deps.Metrics,
		Cache:          deps.Cache,
		FacetTTL:       o.FacetTTL,
		FacetScanLimit: o.FacetScanLimit,
	}
	if events != nil {
		svcOpts.Events = events
	}
	repo := grantsrepo.NewTabular(grantsrepo.Tables{Listings: o.Tables, Categories: o.CategoryTable})
	svc := grantssvc.New(src, repo, svcOpts)

	if deps.Sched != nil && o.FacetWarmSpec != "" {
		if err := deps.Sched.Add("facets-"+kind.Plural(), o.FacetWarmSpec, svc.WarmFacets); err != nil {
			logger.Named(kind.Plural()).Warn().Err(err).Str("spec", o.FacetWarmSpec).Msg("facet warm job not scheduled")
		}
	}

	m := &Module{svc: svc, events: events}
	m.Base = b.Base(func(r httpkit.Router) { grantshttp.Register(r, svc, locked) })
	m.Expose(adaptListingPort{svc: svc})
	return m
}

// Close flushes pending search events
func (m *Module) Close(ctx context.Context) error { return m.events.Close(ctx) }
