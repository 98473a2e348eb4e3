// Package service contains listing search, detail, and facet workflows
package service

import (
	"context"
	"strings"
	"time"

	"grantdir/internal/core/filters"
	"grantdir/internal/core/geo"
	"grantdir/internal/core/listing"
	"grantdir/internal/core/paths"
	"grantdir/internal/core/slug"
	"grantdir/internal/modkit/repokit"
	"grantdir/internal/platform/cache"
	perr "grantdir/internal/platform/errors"
	"grantdir/internal/platform/logger"
	"grantdir/internal/platform/metrics"
	pnet "grantdir/internal/platform/net"
	"grantdir/internal/platform/store/tabular"
	"grantdir/internal/services/api/grants/domain"
	"grantdir/internal/services/api/grants/repo"

	"github.com/google/uuid"
)

// Service defines the listing service contract
type Service interface {
	domain.ServicePort
	// WarmFacets rebuilds the cached facet set
	WarmFacets(ctx context.Context) error
}

// Options tunes a Svc; zero values pick defaults
type Options struct {
	Kind    listing.Kind
	Geo     *geo.Resolver
	Metrics *metrics.Metrics
	Events  domain.EventSink

	// Cache stores built facet sets, nil keeps them per process only
	Cache    cache.Cache
	FacetTTL time.Duration
	// FacetScanLimit bounds how many rows a facet build reads
	FacetScanLimit int
	// FacetPageSize is the scan page size
	FacetPageSize int
}

// Svc implements the listing service
type Svc struct {
	Repo   repo.Repo
	binder repokit.Binder[repo.Repo]
	src    repokit.Source

	kind    listing.Kind
	tr      Translator
	paths   paths.Builder
	geo     *geo.Resolver
	metrics *metrics.Metrics
	events  domain.EventSink
	facets  *cache.Loader[domain.FacetSet]

	scanLimit int
	scanPage  int
}

var _ Service = (*Svc)(nil)

// New constructs a listing service
func New(src repokit.Source, binder repokit.Binder[repo.Repo], opt Options) *Svc {
	if binder == nil {
		panic("listing.Service requires a non nil Repo binder")
	}
	if opt.Kind == "" {
		opt.Kind = listing.KindGrant
	}
	if opt.Geo == nil {
		opt.Geo = geo.NewResolver(geo.MustTable(geo.USStates()))
	}
	if opt.FacetTTL <= 0 {
		opt.FacetTTL = 15 * time.Minute
	}
	if opt.FacetScanLimit <= 0 {
		opt.FacetScanLimit = 50000
	}
	if opt.FacetPageSize <= 0 {
		opt.FacetPageSize = 1000
	}

	s := &Svc{
		Repo:      repokit.MustBind(binder, src),
		binder:    binder,
		src:       src,
		kind:      opt.Kind,
		tr:        NewTranslator(opt.Geo),
		paths:     paths.NewBuilder(opt.Geo),
		geo:       opt.Geo,
		metrics:   opt.Metrics,
		events:    opt.Events,
		facets:    cache.NewLoader[domain.FacetSet](opt.Cache, opt.FacetTTL),
		scanLimit: opt.FacetScanLimit,
		scanPage:  opt.FacetPageSize,
	}
	s.facets.OnLookup = func(hit bool) { s.metrics.CacheLookup("facets", hit) }
	return s
}

// Kind reports the listing kind this service reads
func (s *Svc) Kind() listing.Kind { return s.kind }

// Search runs one filtered, paged listing query
// backend failures are logged and answered with an empty page, never an error
func (s *Svc) Search(ctx context.Context, f filters.FilterState) (domain.SearchResult, error) {
	start := time.Now()
	f = f.Normalize()
	empty := listing.EmptyPage(s.kind, f.Page, f.PageSize)

	var cats []domain.Category
	raw := false
	if f.Category != "" {
		c, err := s.Repo.Categories(ctx, f.Category)
		switch {
		case tabular.IsMissingTable(err):
			raw = true
		case err != nil:
			s.fail(ctx, "categories", f, err)
			return empty, nil
		case len(c) == 0:
			// an unknown category selects nothing rather than everything
			s.finish(ctx, f, empty, "", start)
			return empty, nil
		}
		cats = c
	}

	q := repokit.Query{
		Where:  s.tr.Where(f, cats, raw),
		Order:  Order(),
		Offset: f.Offset(),
		Limit:  f.PageSize,
		Count:  true,
	}
	res, table, err := s.Repo.Listings(ctx, q)
	if err != nil {
		s.fail(ctx, "search", f, err)
		return empty, nil
	}

	page := empty
	page.Items = make([]listing.Listing, 0, len(res.Rows))
	for _, row := range res.Rows {
		page.Items = append(page.Items, s.toListing(row))
	}
	page.Total = res.Total
	page.TotalPages = listing.TotalPages(res.Total, f.PageSize)
	s.finish(ctx, f, page, table, start)
	return page, nil
}

// Get resolves one listing by full id, or by short id prefix when id is not a UUID
func (s *Svc) Get(ctx context.Context, id string) (listing.Listing, error) {
	id = strings.TrimSpace(id)
	var where tabular.Pred
	if u, err := uuid.Parse(id); err == nil {
		where = tabular.Eq(repo.ColID, u.String())
	} else {
		sid := slug.ShortID(id)
		if sid == "" {
			return listing.Listing{}, perr.NotFoundf("%s not found", s.kind)
		}
		where = tabular.ILike(repo.ColID, tabular.EscapeLike(sid)+"%")
	}

	res, _, err := s.Repo.Listings(ctx, repokit.Query{Where: []tabular.Pred{where}, Order: Order(), Limit: 1})
	if err != nil {
		if !tabular.IsNotConfigured(err) {
			s.metrics.BackendError(s.src.Name(), "get")
			logger.C(ctx).Error().Err(err).Str("kind", string(s.kind)).Str("id", id).Msg("listing lookup failed")
		}
		return listing.Listing{}, perr.NotFoundf("%s not found", s.kind)
	}
	if len(res.Rows) == 0 {
		return listing.Listing{}, perr.NotFoundf("%s not found", s.kind)
	}
	return s.toListing(res.Rows[0]), nil
}

// toListing normalizes one row, backfilling agency and category display fields
func (s *Svc) toListing(row repokit.Row) listing.Listing {
	l := listing.Listing{
		ID:            repo.Text(row[repo.ColID]),
		Kind:          s.kind,
		Title:         repo.Text(row[repo.ColTitle]),
		Category:      repo.Text(row[repo.ColCategory]),
		CategoryCode:  repo.Text(row[repo.ColCategoryCode]),
		CategoryLabel: repo.Text(row[repo.ColCategoryLabel]),
		AgencyName:    repo.Text(row[repo.ColAgencyName]),
		AgencyCode:    repo.Text(row[repo.ColAgencyCode]),
		AgencySlug:    repo.Text(row[repo.ColAgencySlug]),
		State:         repo.Text(row[repo.ColState]),
		City:          repo.Text(row[repo.ColCity]),
		FundingAmount: repo.Text(row[repo.ColFundingAmount]),
		Salary:        repo.Text(row[repo.ColSalary]),
		OpenDate:      repo.Time(row[repo.ColOpenDate]),
		CloseDate:     repo.Time(row[repo.ColCloseDate]),
		ScrapedAt:     repo.Time(row[repo.ColScrapedAt]),
		ApplyLink:     repo.Text(row[repo.ColApplyLink]),
		Summary:       repo.Text(row[repo.ColSummary]),
		Description:   repo.Text(row[repo.ColDescription]),
		Eligibility:   repo.Text(row[repo.ColEligibility]),
	}
	agency := repo.Text(row[repo.ColAgency])
	if l.AgencyName == "" {
		l.AgencyName = agency
	}
	l.AgencySlug = slug.DeriveAgencySlug(l.AgencySlug, l.AgencyCode, l.AgencyName, agency)
	if l.CategoryLabel == "" {
		l.CategoryLabel = l.Category
	}
	return s.paths.Decorate(l)
}

// fail logs a backend failure with the attempted filters
// an unconfigured backend has already logged once and stays quiet here
func (s *Svc) fail(ctx context.Context, op string, f filters.FilterState, err error) {
	s.metrics.Search(string(s.kind), metrics.Error, 0)
	if tabular.IsNotConfigured(err) {
		return
	}
	s.metrics.BackendError(s.src.Name(), op)
	logger.C(ctx).Error().Err(err).
		Str("kind", string(s.kind)).
		Str("op", op).
		Stringer("code", perr.CodeOf(err)).
		Interface("filters", f).
		Msg("listing query failed")
}

func (s *Svc) finish(ctx context.Context, f filters.FilterState, p listing.Page, table string, start time.Time) {
	elapsed := time.Since(start)
	outcome := metrics.OK
	if p.Total == 0 {
		outcome = metrics.Empty
	}
	s.metrics.Search(string(s.kind), outcome, elapsed)
	if s.events != nil {
		s.events.Record(ctx, domain.SearchEvent{
			Kind:      s.kind,
			Filters:   f,
			Total:     p.Total,
			ElapsedMs: elapsed.Milliseconds(),
			Table:     table,
			RequestID: pnet.RequestID(ctx),
		})
	}
}
