// Package http provides http transport for assignment
package http

import (
	stdhttp "net/http"

	"github.com/go-chi/chi/v5"

	"depotmap/internal/modkit/httpkit"
	"depotmap/internal/platform/logger"
	"depotmap/internal/services/assign/domain"
	svc "depotmap/internal/services/assign/service"
)

// Register mounts assignment endpoints on the given router
func Register(r httpkit.Router, s *svc.Service) {
	h := &handlers{svc: s}

	httpkit.Get(r, "/areas", h.areas)
	httpkit.Get(r, "/areas/summary", h.summary)
	httpkit.PatchJSON[domain.ReassignInput](r, "/areas/{areaID}/depot", h.reassign)
	httpkit.Get(r, "/depots", h.depots)
	httpkit.Get(r, "/report", h.report)
	r.Get("/export.csv", h.exportCSV)
}

type handlers struct{ svc *svc.Service }

// @Summary Reconciled area collection
// @Tags Areas
// @Produce json
// @Success 200 {object} any "GeoJSON FeatureCollection"
// @Router /areas [get]
func (h *handlers) areas(r *stdhttp.Request) (any, error) {
	return h.svc.Collection(), nil
}

// @Summary Per-depot assignment counts
// @Tags Areas
// @Produce json
// @Success 200 {object} domain.Summary "ok"
// @Router /areas/summary [get]
func (h *handlers) summary(r *stdhttp.Request) (any, error) {
	return h.svc.Summary(), nil
}

// @Summary Reassign one in-scope area to a depot
// @Tags Areas
// @Accept json
// @Produce json
// @Param areaID path string true "Area ID"
// @Param payload body domain.ReassignInput true "New depot"
// @Success 200 {object} domain.AreaRow "ok"
// @Failure 403 {object} httpkit.Envelope "area is out of scope"
// @Router /areas/{areaID}/depot [patch]
func (h *handlers) reassign(r *stdhttp.Request, in domain.ReassignInput) (any, error) {
	areaID := chi.URLParam(r, "areaID")
	return h.svc.Reassign(r.Context(), areaID, in.DepotCode)
}

// @Summary Canonical depot set with map pins
// @Tags Depots
// @Produce json
// @Success 200 {array} domain.DepotInfo "ok"
// @Router /depots [get]
func (h *handlers) depots(r *stdhttp.Request) (any, error) {
	return h.svc.Depots(), nil
}

// @Summary Warning report from the last regeneration
// @Tags Report
// @Produce json
// @Success 200 {object} any "ok"
// @Router /report [get]
func (h *handlers) report(r *stdhttp.Request) (any, error) {
	return h.svc.Report(), nil
}

// @Summary Export current assignments as CSV
// @Tags Export
// @Produce text/csv
// @Success 200 {string} string "csv body"
// @Router /export.csv [get]
func (h *handlers) exportCSV(w stdhttp.ResponseWriter, r *stdhttp.Request) {
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="depot_assignments.csv"`)
	if err := h.svc.ExportCSV(w); err != nil {
		// headers are already out, nothing to do for the client but log
		logger.C(r.Context()).Error().Err(err).Msg("csv export failed mid-stream")
	}
}
