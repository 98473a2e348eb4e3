// Package paths builds canonical, SEO friendly URLs for listings and agencies
package paths

import (
	"net/url"
	"strings"

	"grantdir/internal/core/geo"
	"grantdir/internal/core/listing"
	"grantdir/internal/core/slug"
)

// untitled fills the final segment when neither title nor id carry any slug text
const untitled = "untitled"

// Builder derives paths using an injected geography resolver
type Builder struct {
	geo *geo.Resolver
}

// NewBuilder binds a Builder to r
func NewBuilder(r *geo.Resolver) Builder {
	if r == nil {
		panic("paths.Builder requires a non nil geo.Resolver")
	}
	return Builder{geo: r}
}

// Jurisdiction classifies l from its state and city text
func (b Builder) Jurisdiction(l listing.Listing) geo.Jurisdiction {
	return b.geo.InferJurisdiction(l.State, l.City)
}

// ListingPath returns the canonical path for l, including ?id= when l has an id
// it is a pure function of kind, title, id, state, and city
func (b Builder) ListingPath(l listing.Listing) string {
	p := b.ListingPrefix(l)
	if id := strings.TrimSpace(l.ID); id != "" {
		p += "?id=" + url.QueryEscape(id)
	}
	return p
}

// ListingPrefix is ListingPath without the id query
func (b Builder) ListingPrefix(l listing.Listing) string {
	ts := slug.TitleSlug(l.Title, l.ID)
	if ts == "" {
		ts = untitled
	}
	j := b.Jurisdiction(l)
	base := l.Kind.Base()
	switch j.Level {
	case geo.LevelState:
		return base + "/state/" + url.PathEscape(j.StateCode) + "/" + ts
	case geo.LevelLocal:
		return base + "/local/" + url.PathEscape(j.StateCode) + "/" + j.CitySlug + "/" + ts
	default:
		return base + "/federal/" + ts
	}
}

// Decorate fills the derived Path and Jurisdiction fields on l
func (b Builder) Decorate(l listing.Listing) listing.Listing {
	l.Jurisdiction = b.Jurisdiction(l)
	l.Path = b.ListingPath(l)
	return l
}

// AgencyPath returns /agencies/{slug}
func AgencyPath(agencySlug string) string {
	return "/agencies/" + agencySlug
}

// NeedsRedirect compares a requested path and id against the canonical path for l
// a request is canonical only when the path matches and it carries the same id
func (b Builder) NeedsRedirect(requestPath, requestID string, l listing.Listing) (canonical string, redirect bool) {
	canonical = b.ListingPath(l)
	if strings.TrimSuffix(requestPath, "/") != b.ListingPrefix(l) {
		return canonical, true
	}
	if id := strings.TrimSpace(l.ID); id != "" && requestID != id {
		return canonical, true
	}
	return canonical, false
}

// ShortIDFromSlug extracts the trailing short id token of a title slug segment
func ShortIDFromSlug(segment string) string {
	segment = strings.Trim(segment, "-")
	if i := strings.LastIndexByte(segment, '-'); i >= 0 {
		return segment[i+1:]
	}
	return segment
}
