// Package repo provides tabular access for listings and categories
package repo

import (
	"context"
	"strings"

	"grantdir/internal/core/slug"
	"grantdir/internal/modkit/repokit"
	"grantdir/internal/platform/store/tabular"
	"grantdir/internal/services/api/grants/domain"
)

// Listing columns
const (
	ColID            = "id"
	ColTitle         = "title"
	ColCategory      = "category"
	ColCategoryCode  = "category_code"
	ColCategoryLabel = "category_label"
	ColAgency        = "agency"
	ColAgencyName    = "agency_name"
	ColAgencyCode    = "agency_code"
	ColAgencySlug    = "agency_slug"
	ColState         = "state"
	ColCity          = "city"
	ColFundingAmount = "funding_amount"
	ColSalary        = "salary"
	ColOpenDate      = "open_date"
	ColCloseDate     = "close_date"
	ColScrapedAt     = "scraped_at"
	ColApplyLink     = "apply_link"
	ColSummary       = "summary"
	ColDescription   = "description"
	ColEligibility   = "eligibility"
)

// FacetColumns is the projection the facet scan reads
var FacetColumns = []string{
	ColCategory, ColCategoryCode, ColCategoryLabel,
	ColState,
	ColAgency, ColAgencyName, ColAgencyCode, ColAgencySlug,
}

// maxCategoryMatches bounds the fuzzy label lookup
const maxCategoryMatches = 50

// Tables names the relations one listing kind reads
type Tables struct {
	// Listings are tried in order until one exists, e.g. a view then its base table
	Listings []string
	// Categories is the controlled category table
	Categories string
}

// Repo is the minimal persistence surface for listing search
type Repo interface {
	// Listings runs q over the first existing listing table and reports which one answered
	Listings(ctx context.Context, q repokit.Query) (repokit.Result, string, error)
	// Categories resolves free text or a slug to controlled categories
	// an exact slug or code match wins; otherwise labels are matched as substrings
	Categories(ctx context.Context, text string) ([]domain.Category, error)
}

type (
	// Tabular is a binder that binds the repo to a tabular source
	Tabular struct{ tables Tables }
	// queries implements the Repo interface
	queries struct {
		src    repokit.Source
		tables Tables
	}
)

// NewTabular returns a binder for the given table set
func NewTabular(t Tables) repokit.Binder[Repo] {
	if t.Categories == "" {
		t.Categories = "categories"
	}
	return Tabular{tables: t}
}

// Bind wires a Source to the repo
func (b Tabular) Bind(src repokit.Source) Repo { return &queries{src: src, tables: b.tables} }

func (r *queries) Listings(ctx context.Context, q repokit.Query) (repokit.Result, string, error) {
	return repokit.FirstTable(ctx, r.src, r.tables.Listings, q)
}

func (r *queries) Categories(ctx context.Context, text string) ([]domain.Category, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, nil
	}
	cols := []string{"code", "slug", "label"}

	exact := tabular.Query{
		Table:   r.tables.Categories,
		Columns: cols,
		Where: []tabular.Pred{tabular.Or(
			tabular.Eq("slug", slug.Slugify(text)),
			tabular.ILike("code", tabular.EscapeLike(text)),
		)},
		Order: []tabular.Order{tabular.Asc("code")},
	}
	res, err := r.src.Select(ctx, exact)
	if err != nil {
		return nil, err
	}
	if len(res.Rows) == 0 {
		fuzzy := exact
		fuzzy.Where = []tabular.Pred{tabular.ILike("label", tabular.Contains(text))}
		fuzzy.Limit = maxCategoryMatches
		if res, err = r.src.Select(ctx, fuzzy); err != nil {
			return nil, err
		}
	}

	out := make([]domain.Category, 0, len(res.Rows))
	for _, row := range res.Rows {
		c := domain.Category{
			Code:  Text(row["code"]),
			Slug:  Text(row["slug"]),
			Label: Text(row["label"]),
		}
		if c.Code == "" && c.Label == "" {
			continue
		}
		out = append(out, c)
	}
	return out, nil
}
