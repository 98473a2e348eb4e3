package domain

import (
	"context"

	"grantdir/internal/core/filters"
	"grantdir/internal/core/listing"
)

// ServicePort is consumed by handlers and other modules
type ServicePort interface {
	Kind() listing.Kind
	Search(ctx context.Context, f filters.FilterState) (SearchResult, error)
	Get(ctx context.Context, id string) (listing.Listing, error)
	Facets(ctx context.Context) (FacetSet, error)
}

// EventSink records searches; implementations must not block the caller
type EventSink interface {
	Record(ctx context.Context, ev SearchEvent)
}
