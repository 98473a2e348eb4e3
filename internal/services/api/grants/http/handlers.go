// Package http provides http transport for listing search
package http

import (
	stdhttp "net/http"

	"grantdir/internal/core/filters"
	"grantdir/internal/modkit/httpkit"
	perr "grantdir/internal/platform/errors"
	"grantdir/internal/services/api/grants/domain"
	svc "grantdir/internal/services/api/grants/service"

	"github.com/go-chi/chi/v5"
	"golang.org/x/sync/errgroup"
)

// SearchAliases are accepted alternate query keys
var SearchAliases = httpkit.QueryOptions{Aliases: map[string]string{
	"q":            "keyword",
	"page_size":    "pageSize",
	"hasApplyLink": "has_apply_link",
}}

// Register mounts listing endpoints on the given router
// locked routes pin one filter to a path parameter and return facets alongside
func Register(r httpkit.Router, s svc.Service, locked bool) {
	h := &handlers{svc: s}

	// filtered, paged search
	httpkit.GetQuery[domain.SearchInput](r, "/search", h.search, SearchAliases)

	// filter options
	httpkit.Get(r, "/facets", h.facets)

	if locked {
		httpkit.GetQuery[domain.SearchInput](r, "/state/{code}", h.byState, SearchAliases)
		httpkit.GetQuery[domain.SearchInput](r, "/category/{slug}", h.byCategory, SearchAliases)
	}

	// detail by full or short id
	httpkit.Get(r, "/{id}", h.get)
}

type handlers struct{ svc svc.Service }

// swagger:route GET /grants/search Grants grantsSearch
// @Summary Search listings
// @Tags Grants
// @Produce json
// @Param keyword query string false "Keyword matched against title, summary, description"
// @Param category query string false "Category slug, code, or label"
// @Param state query string false "State code, name, or federal"
// @Param city query string false "City substring"
// @Param agency query string false "Agency name, code, or slug"
// @Param has_apply_link query bool false "Only listings with an application link"
// @Param jurisdiction query string false "federal, state, or local"
// @Param page query int false "Page, default 1"
// @Param pageSize query int false "Page size, 1..50, default 20"
// @Success 200 {object} domain.SearchResult "ok"
// @Router /grants/search [get]
func (h *handlers) search(r *stdhttp.Request, in domain.SearchInput) (any, error) {
	return h.svc.Search(r.Context(), in.Filters())
}

// swagger:route GET /grants/facets Grants grantsFacets
// @Summary Category, state, and agency filter options
// @Tags Grants
// @Produce json
// @Success 200 {object} domain.FacetSet "ok"
// @Router /grants/facets [get]
func (h *handlers) facets(r *stdhttp.Request) (any, error) {
	return h.svc.Facets(r.Context())
}

// swagger:route GET /grants/state/{code} Grants grantsByState
// @Summary Listings for one state with facets
// @Tags Grants
// @Produce json
// @Param code path string true "State code or name"
// @Success 200 {object} domain.LockedSearch "ok"
// @Router /grants/state/{code} [get]
func (h *handlers) byState(r *stdhttp.Request, in domain.SearchInput) (any, error) {
	f := in.Filters().With(filters.FieldState, chi.URLParam(r, "code"))
	return h.lockedSearch(r, f)
}

// swagger:route GET /grants/category/{slug} Grants grantsByCategory
// @Summary Listings for one category with facets
// @Tags Grants
// @Produce json
// @Param slug path string true "Category slug"
// @Success 200 {object} domain.LockedSearch "ok"
// @Router /grants/category/{slug} [get]
func (h *handlers) byCategory(r *stdhttp.Request, in domain.SearchInput) (any, error) {
	f := in.Filters().With(filters.FieldCategory, chi.URLParam(r, "slug"))
	return h.lockedSearch(r, f)
}

// lockedSearch fetches the result page and the facets concurrently
func (h *handlers) lockedSearch(r *stdhttp.Request, f filters.FilterState) (any, error) {
	f = f.Normalize()
	out := domain.LockedSearch{Filters: f}
	g, ctx := errgroup.WithContext(r.Context())
	g.Go(func() (err error) {
		out.Results, err = h.svc.Search(ctx, f)
		return err
	})
	g.Go(func() (err error) {
		out.Facets, err = h.svc.Facets(ctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// swagger:route GET /grants/{id} Grants grantsGet
// @Summary Listing detail with canonical path
// @Tags Grants
// @Produce json
// @Param id path string true "Full UUID or short id"
// @Success 200 {object} listing.Listing "ok"
// @Failure 404 {object} httpkit.Envelope "not found"
// @Router /grants/{id} [get]
func (h *handlers) get(r *stdhttp.Request) (any, error) {
	id := chi.URLParam(r, "id")
	if id == "" {
		return nil, perr.NotFoundf("listing not found")
	}
	return h.svc.Get(r.Context(), id)
}
