package module

import (
	"context"

	"grantdir/internal/core/filters"
	"grantdir/internal/core/listing"
	"grantdir/internal/services/api/grants/domain"
	grantssvc "grantdir/internal/services/api/grants/service"
)

// Ports is the cross module surface of a listing module
type Ports interface {
	domain.ServicePort
}

type adaptListingPort struct{ svc grantssvc.Service }

var _ Ports = adaptListingPort{}

// Kind reports the listing kind
func (a adaptListingPort) Kind() listing.Kind { return a.svc.Kind() }

// Search runs a filtered listing query
func (a adaptListingPort) Search(ctx context.Context, f filters.FilterState) (domain.SearchResult, error) {
	return a.svc.Search(ctx, f)
}

// Get resolves one listing by id
func (a adaptListingPort) Get(ctx context.Context, id string) (listing.Listing, error) {
	return a.svc.Get(ctx, id)
}

// Facets returns the filter options
func (a adaptListingPort) Facets(ctx context.Context) (domain.FacetSet, error) {
	return a.svc.Facets(ctx)
}
