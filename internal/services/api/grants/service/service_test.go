package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"grantdir/internal/core/filters"
	"grantdir/internal/core/geo"
	"grantdir/internal/core/listing"
	"grantdir/internal/platform/cache"
	perr "grantdir/internal/platform/errors"
	"grantdir/internal/platform/store/tabular"
	"grantdir/internal/services/api/grants/domain"
	"grantdir/internal/services/api/grants/repo"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

const (
	idCA1 = "a1111111-0000-4000-8000-000000000001"
	idCA2 = "b2222222-0000-4000-8000-000000000002"
	idCA3 = "c3333333-0000-4000-8000-000000000003"
	idFed = "d4444444-0000-4000-8000-000000000004"
	idTX  = "e5555555-0000-4000-8000-000000000005"
)

func seed() *tabular.Memory {
	m := tabular.NewMemory()
	m.Put("grants",
		tabular.Row{
			"id": idCA1, "title": "Coastal Restoration", "state": "CA", "city": "Statewide",
			"scraped_at": t0.Add(3 * time.Hour), "apply_link": "https://apply.example/1",
			"category": "Environment", "category_code": "ENV",
			"agency": "Dept of Fish and Wildlife", "agency_code": "CDFW",
		},
		tabular.Row{
			"id": idCA2, "title": "Urban Forest Grants", "state": "California", "city": "Los Angeles",
			"scraped_at": t0.Add(2 * time.Hour), "apply_link": nil,
			"category": "Environment", "category_code": "ENV",
			"agency_name": "CAL FIRE", "agency_code": "CAL-FIRE",
		},
		tabular.Row{
			"id": idCA3, "title": "Library Modernization", "state": "ca", "city": "",
			"scraped_at": t0.Add(1 * time.Hour), "apply_link": "",
			"category": "Education", "category_code": "EDU", "category_label": "Education & Libraries",
			"agency_name": "California State Library", "agency_slug": "ca-state-library",
		},
		tabular.Row{
			"id": idFed, "title": "Research Fellowships", "state": "", "city": nil,
			"scraped_at": t0, "apply_link": "https://apply.example/4",
			"summary": "National research support", "category": "Science",
			"agency_name": "National Science Foundation", "agency_code": "NSF",
		},
		tabular.Row{
			"id": idTX, "title": "Rural Broadband", "state": "Texas", "city": "Austin",
			"scraped_at": t0.Add(-time.Hour), "apply_link": "https://apply.example/5",
			"category":    "Infrastructure",
			"agency_name": "Texas Broadband Office",
		},
	)
	m.Put("categories",
		tabular.Row{"code": "ENV", "slug": "environment", "label": "Environment"},
		tabular.Row{"code": "EDU", "slug": "education", "label": "Education & Libraries"},
	)
	return m
}

func newSvc(t *testing.T, src tabular.Backend, opt Options) *Svc {
	t.Helper()
	return New(src, repo.NewTabular(repo.Tables{Listings: []string{"grants_view", "grants"}}), opt)
}

func ids(p listing.Page) []string {
	out := make([]string, 0, len(p.Items))
	for _, l := range p.Items {
		out = append(out, l.ID)
	}
	return out
}

func TestSearch_PaginatesNewestFirst(t *testing.T) {
	s := newSvc(t, seed(), Options{})
	ctx := context.Background()

	want := []string{idCA1, idCA2, idCA3}
	for page := 1; page <= 3; page++ {
		res, err := s.Search(ctx, filters.FilterState{State: "CA", Page: page, PageSize: 1})
		require.NoError(t, err)
		require.Len(t, res.Items, 1)
		assert.Equal(t, want[page-1], res.Items[0].ID, "page %d", page)
		assert.Equal(t, 3, res.Total)
		assert.Equal(t, 3, res.TotalPages)
		assert.Equal(t, 1, res.PageSize)
		assert.Equal(t, page, res.Page)
	}
}

func TestSearch_ClampsPagination(t *testing.T) {
	s := newSvc(t, seed(), Options{})
	res, err := s.Search(context.Background(), filters.FilterState{Page: -4, PageSize: 500})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Page)
	assert.Equal(t, filters.MaxPageSize, res.PageSize)
	assert.Equal(t, 5, res.Total)
}

func TestSearch_UnresolvedCategoryIsEmpty(t *testing.T) {
	s := newSvc(t, seed(), Options{})
	res, err := s.Search(context.Background(), filters.FilterState{Category: "underwater basket weaving"})
	require.NoError(t, err)
	assert.Equal(t, 0, res.Total)
	assert.Empty(t, res.Items)
	assert.Equal(t, listing.KindGrant, res.Kind)
}

func TestSearch_CategoryBySlugAndLabel(t *testing.T) {
	s := newSvc(t, seed(), Options{})
	ctx := context.Background()

	res, err := s.Search(ctx, filters.FilterState{Category: "environment"})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{idCA1, idCA2}, ids(res))

	res, err = s.Search(ctx, filters.FilterState{Category: "libraries"})
	require.NoError(t, err)
	assert.Equal(t, []string{idCA3}, ids(res))
}

func TestSearch_CategoryWithoutTableFallsBackToText(t *testing.T) {
	m := seed()
	s := New(m, repo.NewTabular(repo.Tables{Listings: []string{"grants"}, Categories: "no_such_table"}), Options{})
	res, err := s.Search(context.Background(), filters.FilterState{Category: "infra"})
	require.NoError(t, err)
	assert.Equal(t, []string{idTX}, ids(res))
}

func TestSearch_ApplyLinkFilter(t *testing.T) {
	s := newSvc(t, seed(), Options{})
	ctx := context.Background()

	with, err := s.Search(ctx, filters.FilterState{HasApplyLink: true})
	require.NoError(t, err)
	assert.NotContains(t, ids(with), idCA2)
	assert.NotContains(t, ids(with), idCA3)
	assert.Equal(t, 3, with.Total)

	without, err := s.Search(ctx, filters.FilterState{})
	require.NoError(t, err)
	assert.Contains(t, ids(without), idCA2)
}

func TestSearch_KeywordMatchesSummary(t *testing.T) {
	s := newSvc(t, seed(), Options{})
	res, err := s.Search(context.Background(), filters.FilterState{Query: "RESEARCH SUPPORT"})
	require.NoError(t, err)
	assert.Equal(t, []string{idFed}, ids(res))
}

func TestSearch_Jurisdiction(t *testing.T) {
	s := newSvc(t, seed(), Options{})
	ctx := context.Background()

	fed, err := s.Search(ctx, filters.FilterState{Jurisdiction: geo.LevelFederal})
	require.NoError(t, err)
	assert.Equal(t, []string{idFed}, ids(fed))

	local, err := s.Search(ctx, filters.FilterState{Jurisdiction: geo.LevelLocal})
	require.NoError(t, err)
	assert.Equal(t, []string{idCA2, idTX}, ids(local))

	// state level keeps every listing in the state, statewide or not
	st, err := s.Search(ctx, filters.FilterState{Jurisdiction: geo.LevelState, State: "California"})
	require.NoError(t, err)
	assert.Equal(t, []string{idCA1, idCA2, idCA3}, ids(st))

	nonFed, err := s.Search(ctx, filters.FilterState{Jurisdiction: geo.LevelState})
	require.NoError(t, err)
	assert.NotContains(t, ids(nonFed), idFed)
	assert.Len(t, nonFed.Items, 4)
}

func TestSearch_FederalStateValue(t *testing.T) {
	s := newSvc(t, seed(), Options{})
	res, err := s.Search(context.Background(), filters.FilterState{State: "Nationwide"})
	require.NoError(t, err)
	assert.Equal(t, []string{idFed}, ids(res))
}

func TestSearch_StateJurisdictionExcludesFederalState(t *testing.T) {
	s := newSvc(t, seed(), Options{})
	for _, state := range []string{"federal", "Nationwide"} {
		res, err := s.Search(context.Background(), filters.FilterState{State: state, Jurisdiction: geo.LevelState})
		require.NoError(t, err)
		assert.Empty(t, res.Items, state)
		assert.Zero(t, res.Total, state)
	}
}

func TestSearch_Agency(t *testing.T) {
	s := newSvc(t, seed(), Options{})
	ctx := context.Background()

	cases := map[string][]string{
		"nsf":                 {idFed},
		"Science Foundation":  {idFed},
		"cal fire":            {idCA2},
		"ca-state-library":    {idCA3},
		"dept-of-fish":        {idCA1},
		"nobody at all, inc.": {},
	}
	for in, want := range cases {
		res, err := s.Search(ctx, filters.FilterState{Agency: in})
		require.NoError(t, err, in)
		assert.ElementsMatch(t, want, ids(res), in)
	}
}

func TestSearch_NormalizesRows(t *testing.T) {
	s := newSvc(t, seed(), Options{})
	res, err := s.Search(context.Background(), filters.FilterState{State: "CA", PageSize: 10})
	require.NoError(t, err)
	require.Len(t, res.Items, 3)

	ca1 := res.Items[0]
	assert.Equal(t, "Dept of Fish and Wildlife", ca1.AgencyName)
	assert.Equal(t, "cdfw", ca1.AgencySlug)
	assert.Equal(t, "Environment", ca1.CategoryLabel)
	assert.Equal(t, "/grants/state/CA/coastal-restoration-a1111111?id="+idCA1, ca1.Path)
	assert.Equal(t, geo.StateLevel("CA"), ca1.Jurisdiction)

	ca2 := res.Items[1]
	assert.Equal(t, "cal-fire", ca2.AgencySlug)
	assert.Equal(t, geo.Local("CA", "los-angeles"), ca2.Jurisdiction)

	ca3 := res.Items[2]
	assert.Equal(t, "ca-state-library", ca3.AgencySlug)
	assert.Equal(t, "Education & Libraries", ca3.CategoryLabel)
}

type failing struct{ err error }

func (f failing) Name() string { return "failing" }
func (f failing) Select(context.Context, tabular.Query) (tabular.Result, error) {
	return tabular.Result{}, f.err
}

func TestSearch_BackendErrorYieldsEmptyPage(t *testing.T) {
	s := newSvc(t, failing{err: errors.New("connection reset")}, Options{})
	res, err := s.Search(context.Background(), filters.FilterState{Query: "x", Page: 2})
	require.NoError(t, err)
	assert.Equal(t, 0, res.Total)
	assert.Empty(t, res.Items)
	assert.Equal(t, 2, res.Page)
	assert.Equal(t, filters.DefaultPageSize, res.PageSize)
}

func TestSearch_DisabledBackend(t *testing.T) {
	s := newSvc(t, tabular.NewDisabled(zerolog.Nop()), Options{})
	res, err := s.Search(context.Background(), filters.FilterState{})
	require.NoError(t, err)
	assert.Equal(t, 0, res.Total)

	fs, err := s.Facets(context.Background())
	require.NoError(t, err)
	require.Len(t, fs.States, 1)
	assert.Equal(t, listing.FederalFacetValue, fs.States[0].Value)
}

func TestGet(t *testing.T) {
	s := newSvc(t, seed(), Options{})
	ctx := context.Background()

	l, err := s.Get(ctx, idTX)
	require.NoError(t, err)
	assert.Equal(t, "Rural Broadband", l.Title)
	assert.Equal(t, "/grants/local/TX/austin/rural-broadband-e5555555?id="+idTX, l.Path)

	l, err = s.Get(ctx, "E5555555")
	require.NoError(t, err)
	assert.Equal(t, idTX, l.ID)

	_, err = s.Get(ctx, "ffffffff-0000-4000-8000-000000000000")
	assert.True(t, perr.IsCode(err, perr.ErrorCodeNotFound))

	_, err = s.Get(ctx, "   ")
	assert.True(t, perr.IsCode(err, perr.ErrorCodeNotFound))
}

type recorder struct{ got []domain.SearchEvent }

func (r *recorder) Record(_ context.Context, ev domain.SearchEvent) { r.got = append(r.got, ev) }

func TestSearch_RecordsEvents(t *testing.T) {
	rec := &recorder{}
	s := newSvc(t, seed(), Options{Events: rec})
	_, err := s.Search(context.Background(), filters.FilterState{State: "TX"})
	require.NoError(t, err)
	require.Len(t, rec.got, 1)
	assert.Equal(t, "grants", rec.got[0].Table)
	assert.Equal(t, 1, rec.got[0].Total)
	assert.Equal(t, "TX", rec.got[0].Filters.State)
}

func TestFacets_SynthesizesFederalFirst(t *testing.T) {
	s := newSvc(t, seed(), Options{})
	fs, err := s.Facets(context.Background())
	require.NoError(t, err)

	require.NotEmpty(t, fs.States)
	assert.Equal(t, listing.Facet{Label: listing.FederalFacetLabel, Value: listing.FederalFacetValue, Count: 1}, fs.States[0])
	federal := 0
	for _, f := range fs.States {
		if f.Value == listing.FederalFacetValue {
			federal++
		}
	}
	assert.Equal(t, 1, federal)
	assert.Equal(t, []listing.Facet{
		fs.States[0],
		{Label: "California", Value: "CA", Count: 3},
		{Label: "Texas", Value: "TX", Count: 1},
	}, fs.States)

	assert.Equal(t, []listing.Facet{
		{Label: "Education & Libraries", Value: "EDU", Count: 1},
		{Label: "Environment", Value: "ENV", Count: 2},
		{Label: "Infrastructure", Value: "infrastructure", Count: 1},
		{Label: "Science", Value: "science", Count: 1},
	}, fs.Categories)

	var agencyValues []string
	for _, f := range fs.Agencies {
		agencyValues = append(agencyValues, f.Value)
	}
	assert.Equal(t, []string{"cal-fire", "ca-state-library", "cdfw", "nsf", "texas-broadband-office"}, agencyValues)
}

func TestFacets_NaturalFederalStaysSorted(t *testing.T) {
	m := seed()
	m.Put("grants", tabular.Row{"id": "f6666666", "title": "Nationwide Fund", "state": "Nationwide"})
	s := newSvc(t, m, Options{})

	fs, err := s.Facets(context.Background())
	require.NoError(t, err)
	var labels []string
	for _, f := range fs.States {
		labels = append(labels, f.Label)
	}
	assert.Equal(t, []string{"California", listing.FederalFacetLabel, "Texas"}, labels)
}

func TestFacets_NaturalFederalCountsBlankStates(t *testing.T) {
	m := seed()
	m.Put("grants", tabular.Row{"id": "f6666666", "title": "Nationwide Fund", "state": "Nationwide"})
	s := newSvc(t, m, Options{})
	ctx := context.Background()

	fs, err := s.Facets(ctx)
	require.NoError(t, err)
	var federal listing.Facet
	for _, f := range fs.States {
		if f.Value == listing.FederalFacetValue {
			federal = f
		}
	}

	// the blank state row and the nationwide row both land under the federal filter
	page, err := s.Search(ctx, filters.FilterState{State: listing.FederalFacetValue})
	require.NoError(t, err)
	assert.Equal(t, 2, page.Total)
	assert.Equal(t, page.Total, federal.Count)
}

func TestFacets_NoStatesStillOffersFederal(t *testing.T) {
	m := tabular.NewMemory()
	m.Put("grants", tabular.Row{"id": "x1", "title": "Orphan", "category": "Misc"})
	s := newSvc(t, m, Options{})

	fs, err := s.Facets(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []listing.Facet{{Label: listing.FederalFacetLabel, Value: listing.FederalFacetValue, Count: 1}}, fs.States)

	empty := tabular.NewMemory()
	empty.Put("grants")
	fs, err = newSvc(t, empty, Options{}).Facets(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []listing.Facet{{Label: listing.FederalFacetLabel, Value: listing.FederalFacetValue, Count: 0}}, fs.States)
	assert.Empty(t, fs.Categories)
}

func TestFacets_CachedUntilWarmed(t *testing.T) {
	m := seed()
	s := newSvc(t, m, Options{Cache: cache.NewMemory(), FacetPageSize: 2})
	ctx := context.Background()

	first, err := s.Facets(ctx)
	require.NoError(t, err)

	m.Put("grants", tabular.Row{"id": "g7777777", "title": "New", "state": "Oregon"})
	cached, err := s.Facets(ctx)
	require.NoError(t, err)
	assert.Equal(t, first, cached)

	require.NoError(t, s.WarmFacets(ctx))
	warmed, err := s.Facets(ctx)
	require.NoError(t, err)
	assert.Len(t, warmed.States, len(first.States)+1)
}

func TestFacets_ScanLimit(t *testing.T) {
	s := newSvc(t, seed(), Options{FacetScanLimit: 2, FacetPageSize: 2})
	fs, err := s.Facets(context.Background())
	require.NoError(t, err)
	total := 0
	for _, f := range fs.Categories {
		total += f.Count
	}
	assert.Equal(t, 2, total)
}

func TestNewPanicsOnNil(t *testing.T) {
	assert.Panics(t, func() { New(nil, repo.NewTabular(repo.Tables{}), Options{}) })
	assert.Panics(t, func() { New(tabular.NewMemory(), nil, Options{}) })
}
