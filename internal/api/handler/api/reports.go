// internal/api/handler/api/reports.go
package api

import (
	"net/http"

	"github.com/quantfold/fxlab/internal/api/response"
	"github.com/quantfold/fxlab/internal/app"
)

// ReportsHandler serves archived backtest reports.
type ReportsHandler struct {
	app *app.App
}

// NewReportsHandler creates a new reports handler.
func NewReportsHandler(a *app.App) *ReportsHandler {
	return &ReportsHandler{app: a}
}

// List returns the archived report ids for a symbol.
func (h *ReportsHandler) List(w http.ResponseWriter, r *http.Request) {
	symbol := r.PathValue("symbol")
	ids, err := h.app.Reports.List(r.Context(), symbol)
	if err != nil {
		response.Error(w, http.StatusInternalServerError, err)
		return
	}
	response.JSON(w, http.StatusOK, map[string]any{
		"symbol":  symbol,
		"reports": ids,
	})
}

// Get returns one archived report.
func (h *ReportsHandler) Get(w http.ResponseWriter, r *http.Request) {
	report, err := h.app.Reports.Load(r.Context(), r.PathValue("symbol"), r.PathValue("id"))
	if err != nil {
		response.Error(w, http.StatusNotFound, err)
		return
	}
	response.JSON(w, http.StatusOK, report)
}
