// Package module wires the agency index into the API using modkit
package module

import (
	modkit "grantdir/internal/modkit"
	"grantdir/internal/modkit/httpkit"
	"grantdir/internal/platform/logger"
	"grantdir/internal/platform/store/tabular"
	"grantdir/internal/services/api/agencies/domain"
	ahttp "grantdir/internal/services/api/agencies/http"
	arepo "grantdir/internal/services/api/agencies/repo"
	asvc "grantdir/internal/services/api/agencies/service"
)

// Module serves the agency index and agency pages
type Module struct {
	modkit.Base

	svc asvc.Service
}

// Ports declares the injected port this module needs
type Ports struct {
	// Listings is the grant search used for agency pages
	Listings domain.ListingSearcher
}

// New constructs the agencies module; a Ports value with Listings must be injected
func New(deps modkit.Deps, opts ...modkit.Option) modkit.Module {
	b := modkit.Build(append([]modkit.Option{
		modkit.WithName("agencies"),
		modkit.WithPrefix("/agencies"),
	}, opts...)...)

	injected, _ := modkit.Injected[Ports](b)
	if injected.Listings == nil {
		panic("agencies module requires a Listings port (from grants)")
	}

	o := FromConfig(deps.Cfg)
	src := deps.DB
	if src == nil {
		src = tabular.NewDisabled(*logger.Named("agencies"))
	}
	svc := asvc.New(src, arepo.NewTabular(o.Table), asvc.Options{
		Listings: injected.Listings,
		Metrics:  deps.Metrics,
	})

	m := &Module{svc: svc}
	m.Base = b.Base(func(r httpkit.Router) { ahttp.Register(r, svc) })
	m.Expose(domain.ServicePort(svc))
	return m
}
