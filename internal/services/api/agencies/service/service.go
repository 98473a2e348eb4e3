// Package service contains the agency index and agency page workflows
package service

import (
	"context"

	"grantdir/internal/core/filters"
	"grantdir/internal/core/listing"
	"grantdir/internal/modkit/repokit"
	perr "grantdir/internal/platform/errors"
	"grantdir/internal/platform/logger"
	"grantdir/internal/platform/metrics"
	"grantdir/internal/platform/store/tabular"
	"grantdir/internal/services/api/agencies/domain"
	"grantdir/internal/services/api/agencies/repo"
)

// Service defines the agency service contract
type Service interface {
	domain.ServicePort
}

// Options configures a Svc
type Options struct {
	// Listings runs the grant search for an agency page, nil leaves pages without grants
	Listings domain.ListingSearcher
	Metrics  *metrics.Metrics
}

// Svc implements the agency service
type Svc struct {
	Repo   repo.Repo
	binder repokit.Binder[repo.Repo]
	src    repokit.Source

	listings domain.ListingSearcher
	metrics  *metrics.Metrics
}

var _ Service = (*Svc)(nil)

// New constructs an agency service
func New(src repokit.Source, binder repokit.Binder[repo.Repo], opt Options) *Svc {
	if binder == nil {
		panic("agencies.Service requires a non nil Repo binder")
	}
	return &Svc{
		Repo:     repokit.MustBind(binder, src),
		binder:   binder,
		src:      src,
		listings: opt.Listings,
		metrics:  opt.Metrics,
	}
}

// List pages the agency index by name
// backend failures answer with an empty page
func (s *Svc) List(ctx context.Context, in domain.ListInput) (domain.AgencyPage, error) {
	f := filters.FilterState{Page: in.Page, PageSize: in.PageSize}.Normalize()
	out := domain.AgencyPage{Agencies: []listing.Agency{}, Page: f.Page, PageSize: f.PageSize}

	rows, total, err := s.Repo.List(ctx, in.Q, f.Offset(), f.PageSize)
	if err != nil {
		s.fail(ctx, "list", err)
		return out, nil
	}
	out.Agencies = rows
	out.Total = total
	return out, nil
}

// Get resolves an agency by slug, code, or name and pages its grants
func (s *Svc) Get(ctx context.Context, slug string, in domain.DetailInput) (domain.AgencyDetail, error) {
	a, ok, err := s.Repo.Resolve(ctx, slug)
	if err != nil {
		s.fail(ctx, "resolve", err)
		return domain.AgencyDetail{}, perr.NotFoundf("agency %q not found", slug)
	}
	if !ok {
		return domain.AgencyDetail{}, perr.NotFoundf("agency %q not found", slug)
	}

	f := filters.FilterState{Agency: a.Slug, Page: in.Page, PageSize: in.PageSize}.Normalize()
	out := domain.AgencyDetail{
		Agency:   a,
		Grants:   []listing.Listing{},
		Page:     f.Page,
		PageSize: f.PageSize,
	}
	if s.listings == nil {
		return out, nil
	}
	page, err := s.listings.Search(ctx, f)
	if err != nil {
		return out, nil
	}
	out.Grants = page.Items
	out.Total = page.Total
	return out, nil
}

func (s *Svc) fail(ctx context.Context, op string, err error) {
	if tabular.IsNotConfigured(err) {
		return
	}
	s.metrics.BackendError(s.src.Name(), "agencies."+op)
	logger.C(ctx).Error().Err(err).Str("op", op).Stringer("code", perr.CodeOf(err)).Msg("agency query failed")
}
