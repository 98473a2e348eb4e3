package domain

import (
	"context"

	"grantdir/internal/core/filters"
	"grantdir/internal/core/listing"
)

// ServicePort is consumed by handlers and other modules
type ServicePort interface {
	List(ctx context.Context, in ListInput) (AgencyPage, error)
	Get(ctx context.Context, slug string, in DetailInput) (AgencyDetail, error)
}

// ListingSearcher is the listing search this module borrows from the grants module
type ListingSearcher interface {
	Search(ctx context.Context, f filters.FilterState) (listing.Page, error)
}
