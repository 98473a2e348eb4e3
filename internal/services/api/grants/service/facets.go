package service

import (
	"context"
	"sort"
	"strings"

	"grantdir/internal/core/listing"
	"grantdir/internal/core/slug"
	"grantdir/internal/modkit/repokit"
	"grantdir/internal/platform/logger"
	"grantdir/internal/platform/metrics"
	"grantdir/internal/platform/store/tabular"
	"grantdir/internal/services/api/grants/domain"
	"grantdir/internal/services/api/grants/repo"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// FacetKey is the cache key for the facet set of kind
func FacetKey(kind listing.Kind) string { return "facets:" + string(kind) }

// Facets returns the category, state, and agency options for the listing kind
// a failed build degrades to the synthesized federal option alone
func (s *Svc) Facets(ctx context.Context) (domain.FacetSet, error) {
	fs, err := s.facets.Get(ctx, FacetKey(s.kind), s.buildFacets)
	if err != nil {
		if !tabular.IsNotConfigured(err) {
			logger.C(ctx).Error().Err(err).Str("kind", string(s.kind)).Msg("facet build failed")
		}
		return fallbackFacets(0), nil
	}
	return fs, nil
}

// WarmFacets rebuilds and stores the facet set regardless of what is cached
func (s *Svc) WarmFacets(ctx context.Context) error {
	_, err := s.facets.Refresh(ctx, FacetKey(s.kind), s.buildFacets)
	return err
}

func fallbackFacets(federalCount int) domain.FacetSet {
	return domain.FacetSet{
		Categories: []listing.Facet{},
		States:     []listing.Facet{federalFacet(federalCount)},
		Agencies:   []listing.Facet{},
	}
}

func federalFacet(n int) listing.Facet {
	return listing.Facet{Label: listing.FederalFacetLabel, Value: listing.FederalFacetValue, Count: n}
}

func (s *Svc) buildFacets(ctx context.Context) (domain.FacetSet, error) {
	cats, states, agencies := newTally(), newTally(), newTally()

	q := repokit.Query{
		Columns: repo.FacetColumns,
		Order:   []tabular.Order{tabular.Asc(repo.ColID)},
		Limit:   s.scanPage,
	}
	for scanned := 0; scanned < s.scanLimit; {
		q.Offset = scanned
		res, _, err := s.Repo.Listings(ctx, q)
		if err != nil {
			s.metrics.FacetBuild(string(s.kind), metrics.Error)
			return domain.FacetSet{}, err
		}
		for _, row := range res.Rows {
			s.tallyRow(row, cats, states, agencies)
		}
		scanned += len(res.Rows)
		if len(res.Rows) < s.scanPage {
			break
		}
	}

	out := domain.FacetSet{
		Categories: cats.sorted(),
		States:     states.sorted(),
		Agencies:   agencies.sorted(),
	}

	// the federal count always matches what the federal filter returns, blank states included
	n, err := s.federalCount(ctx)
	if err != nil {
		s.metrics.FacetBuild(string(s.kind), metrics.Error)
		return domain.FacetSet{}, err
	}
	if _, natural := states.byKey[listing.FederalFacetValue]; natural {
		for i := range out.States {
			if out.States[i].Value == listing.FederalFacetValue {
				out.States[i].Count = n
			}
		}
	} else {
		out.States = append([]listing.Facet{federalFacet(n)}, out.States...)
	}

	s.metrics.FacetBuild(string(s.kind), metrics.OK)
	return out, nil
}

func (s *Svc) federalCount(ctx context.Context) (int, error) {
	res, _, err := s.Repo.Listings(ctx, repokit.Query{Where: []tabular.Pred{FederalPred()}, CountOnly: true})
	if err != nil {
		return 0, err
	}
	return res.Total, nil
}

func (s *Svc) tallyRow(row repokit.Row, cats, states, agencies *tally) {
	category := repo.Text(row[repo.ColCategory])
	code := repo.Text(row[repo.ColCategoryCode])
	catValue := code
	if catValue == "" {
		catValue = slug.Slugify(category)
	}
	catLabel := firstNonEmpty(repo.Text(row[repo.ColCategoryLabel]), category, code)
	cats.add(catValue, catLabel)

	if st := repo.Text(row[repo.ColState]); st != "" {
		if info, ok := s.geo.FindStateInfo(st); ok {
			states.add(info.Code, info.Name)
		} else if s.geo.IsFederalJurisdictionValue(st) {
			states.add(listing.FederalFacetValue, listing.FederalFacetLabel)
		} else if c, ok := s.geo.NormalizeStateCode(st); ok {
			states.add(c, st)
		} else {
			states.add(st, st)
		}
	}

	agency := repo.Text(row[repo.ColAgency])
	name := firstNonEmpty(repo.Text(row[repo.ColAgencyName]), agency)
	agencyCode := repo.Text(row[repo.ColAgencyCode])
	agencies.add(
		slug.DeriveAgencySlug(repo.Text(row[repo.ColAgencySlug]), agencyCode, name, agency),
		firstNonEmpty(name, agencyCode),
	)
}

// tally counts facet values deduplicated by case folded value
type tally struct {
	byKey map[string]*listing.Facet
}

func newTally() *tally { return &tally{byKey: map[string]*listing.Facet{}} }

func (t *tally) add(value, label string) {
	value = strings.TrimSpace(value)
	if value == "" {
		return
	}
	key := strings.ToLower(value)
	if f, ok := t.byKey[key]; ok {
		f.Count++
		return
	}
	if label = strings.TrimSpace(label); label == "" {
		label = value
	}
	t.byKey[key] = &listing.Facet{Label: label, Value: value, Count: 1}
}

// sorted orders by label with a case insensitive English collation, value breaks ties
func (t *tally) sorted() []listing.Facet {
	out := make([]listing.Facet, 0, len(t.byKey))
	for _, f := range t.byKey {
		out = append(out, *f)
	}
	col := collate.New(language.English, collate.IgnoreCase)
	sort.SliceStable(out, func(i, j int) bool {
		if c := col.CompareString(out[i].Label, out[j].Label); c != 0 {
			return c < 0
		}
		return out[i].Value < out[j].Value
	})
	return out
}

func firstNonEmpty(vs ...string) string {
	for _, v := range vs {
		if v != "" {
			return v
		}
	}
	return ""
}
