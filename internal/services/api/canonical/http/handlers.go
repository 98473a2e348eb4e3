// Package http serves the canonical, human readable listing routes
package http

import (
	"context"
	stdhttp "net/http"

	"grantdir/internal/core/listing"
	"grantdir/internal/core/paths"
	"grantdir/internal/modkit/httpkit"

	"github.com/go-chi/chi/v5"
)

// Resolver finds one listing by full or short id
type Resolver interface {
	Get(ctx context.Context, id string) (listing.Listing, error)
}

// Register mounts the federal, state, and local listing routes
// each resolves the listing and either returns it or 301s to its canonical path
func Register(r httpkit.Router, res Resolver, b paths.Builder) {
	h := &handlers{res: res, paths: b}

	httpkit.Get(r, "/federal/{slug}", h.show)
	httpkit.Get(r, "/state/{code}/{slug}", h.show)
	httpkit.Get(r, "/local/{code}/{city}/{slug}", h.show)
}

type handlers struct {
	res   Resolver
	paths paths.Builder
}

// swagger:route GET /grants/state/{code}/{slug} Canonical canonicalState
// @Summary Listing at its canonical path
// @Description Resolves by ?id= or the short id at the end of the slug; 301 when the path is not canonical
// @Tags Canonical
// @Produce json
// @Param code path string true "State code"
// @Param slug path string true "Title slug ending in the short id"
// @Param id query string false "Listing id"
// @Success 200 {object} listing.Listing "ok"
// @Success 301 "moved to the canonical path"
// @Failure 404 {object} httpkit.Envelope "not found"
// @Router /grants/state/{code}/{slug} [get]
func (h *handlers) show(r *stdhttp.Request) (any, error) {
	requestID := r.URL.Query().Get("id")
	id := requestID
	if id == "" {
		id = paths.ShortIDFromSlug(chi.URLParam(r, "slug"))
	}
	l, err := h.res.Get(r.Context(), id)
	if err != nil {
		return nil, err
	}
	if to, redirect := h.paths.NeedsRedirect(r.URL.EscapedPath(), requestID, l); redirect {
		return httpkit.Redirect(to, stdhttp.StatusMovedPermanently), nil
	}
	return l, nil
}
