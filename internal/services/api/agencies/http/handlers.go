// Package http provides http transport for agencies
package http

import (
	stdhttp "net/http"

	"grantdir/internal/modkit/httpkit"
	"grantdir/internal/services/api/agencies/domain"
	svc "grantdir/internal/services/api/agencies/service"

	"github.com/go-chi/chi/v5"
)

// Register mounts agency endpoints on the given router
func Register(r httpkit.Router, s svc.Service) {
	h := &handlers{svc: s}

	httpkit.GetQuery[domain.ListInput](r, "/", h.list)
	httpkit.GetQuery[domain.DetailInput](r, "/{slug}", h.get)
}

type handlers struct{ svc svc.Service }

// swagger:route GET /agencies Agencies agenciesList
// @Summary Agency index
// @Tags Agencies
// @Produce json
// @Param q query string false "Name, code, or slug substring"
// @Param page query int false "Page, default 1"
// @Param pageSize query int false "Page size, 1..50, default 20"
// @Success 200 {object} domain.AgencyPage "ok"
// @Router /agencies [get]
func (h *handlers) list(r *stdhttp.Request, in domain.ListInput) (any, error) {
	return h.svc.List(r.Context(), in)
}

// swagger:route GET /agencies/{slug} Agencies agenciesGet
// @Summary Agency with its grants
// @Tags Agencies
// @Produce json
// @Param slug path string true "Agency slug, code, or name"
// @Success 200 {object} domain.AgencyDetail "ok"
// @Failure 404 {object} httpkit.Envelope "not found"
// @Router /agencies/{slug} [get]
func (h *handlers) get(r *stdhttp.Request, in domain.DetailInput) (any, error) {
	return h.svc.Get(r.Context(), chi.URLParam(r, "slug"), in)
}
