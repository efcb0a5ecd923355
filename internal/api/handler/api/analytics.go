// internal/api/handler/api/analytics.go
package api

import (
	"encoding/json"
	"net/http"

	"github.com/quantfold/fxlab/internal/analytics"
	"github.com/quantfold/fxlab/internal/api/response"
	"github.com/quantfold/fxlab/internal/app"
	"github.com/quantfold/fxlab/internal/core"
)

// AnalyticsHandler serves performance analytics over the loaded trade
// history.
type AnalyticsHandler struct {
	app *app.App
}

// NewAnalyticsHandler creates a new analytics handler.
func NewAnalyticsHandler(a *app.App) *AnalyticsHandler {
	return &AnalyticsHandler{app: a}
}

// LoadTrades replaces the trade history from a JSON array body.
func (h *AnalyticsHandler) LoadTrades(w http.ResponseWriter, r *http.Request) {
	var trades []analytics.Trade
	if err := json.NewDecoder(r.Body).Decode(&trades); err != nil {
		response.Error(w, http.StatusBadRequest,
			core.WrapError(core.ErrConfigInvalid, err))
		return
	}

	if err := h.app.LoadTrades(r.Context(), trades); err != nil {
		response.Error(w, http.StatusInternalServerError, err)
		return
	}

	response.JSON(w, http.StatusOK, map[string]any{
		"loaded": len(trades),
	})
}

// Overall returns the aggregate performance metrics.
func (h *AnalyticsHandler) Overall(w http.ResponseWriter, r *http.Request) {
	h.app.Metrics.RecordAnalyticsQuery("overall")
	m, ok := h.app.Analytics.OverallMetrics()
	if !ok {
		response.Error(w, http.StatusNotFound, core.ErrNoData)
		return
	}
	response.JSON(w, http.StatusOK, m)
}

// Patterns returns the per-group breakdown and correlations.
func (h *AnalyticsHandler) Patterns(w http.ResponseWriter, r *http.Request) {
	h.app.Metrics.RecordAnalyticsQuery("patterns")
	m, ok := h.app.Analytics.PatternAnalysis()
	if !ok {
		response.Error(w, http.StatusNotFound, core.ErrNoData)
		return
	}
	response.JSON(w, http.StatusOK, m)
}

// Risk returns the risk metrics.
func (h *AnalyticsHandler) Risk(w http.ResponseWriter, r *http.Request) {
	h.app.Metrics.RecordAnalyticsQuery("risk")
	m, ok := h.app.Analytics.RiskMetrics()
	if !ok {
		response.Error(w, http.StatusNotFound, core.ErrNoData)
		return
	}
	response.JSON(w, http.StatusOK, m)
}

// Suggestions returns the optimization suggestions.
func (h *AnalyticsHandler) Suggestions(w http.ResponseWriter, r *http.Request) {
	h.app.Metrics.RecordAnalyticsQuery("suggestions")
	m, ok := h.app.Analytics.OptimizationSuggestions()
	if !ok {
		response.Error(w, http.StatusNotFound, core.ErrNoData)
		return
	}
	response.JSON(w, http.StatusOK, m)
}
