// Package domain holds DTOs for listing search http and service contracts
package domain

import (
	"grantdir/internal/core/filters"
	"grantdir/internal/core/listing"
)

// SearchInput is the query string contract of the search endpoints
type SearchInput = filters.Query

// SearchResult is one page of listings
// on the wire the items sit under the plural kind, e.g. {"grants": [...], "total": 3}
type SearchResult = listing.Page

// FacetSet is the filter option set for one listing kind
type FacetSet = listing.FacetSet

// LockedSearch is a search page pinned to a route parameter along with its facets
type LockedSearch struct {
	Results SearchResult        `json:"results"`
	Facets  FacetSet            `json:"facets"`
	Filters filters.FilterState `json:"filters"`
}

// Category is one row of the controlled category table
type Category struct {
	Code  string `json:"code"  example:"ENV"`
	Slug  string `json:"slug"  example:"environment"`
	Label string `json:"label" example:"Environment"`
}

// SearchEvent is one recorded search for analytics
type SearchEvent struct {
	Kind      listing.Kind
	Filters   filters.FilterState
	Total     int
	ElapsedMs int64
	Table     string
	RequestID string
}
