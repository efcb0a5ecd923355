// internal/api/handler/api/watchlist.go
package api

import (
	"encoding/json"
	"net/http"

	"github.com/quantfold/fxlab/internal/api/response"
	"github.com/quantfold/fxlab/internal/app"
	"github.com/quantfold/fxlab/internal/core"
)

// WatchlistHandler handles watchlist API requests.
type WatchlistHandler struct {
	app *app.App
}

// NewWatchlistHandler creates a new watchlist handler.
func NewWatchlistHandler(a *app.App) *WatchlistHandler {
	return &WatchlistHandler{app: a}
}

// List returns the watchlist symbols.
func (h *WatchlistHandler) List(w http.ResponseWriter, r *http.Request) {
	symbols := h.app.Watchlist.List()
	response.JSON(w, http.StatusOK, map[string]any{
		"symbols": symbols,
		"count":   len(symbols),
	})
}

// Add adds a symbol to the watchlist.
func (h *WatchlistHandler) Add(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Symbol string `json:"symbol"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest,
			core.WrapError(core.ErrConfigInvalid, err))
		return
	}
	if req.Symbol == "" {
		response.Error(w, http.StatusBadRequest,
			core.WrapError(core.ErrConfigMissing, nil))
		return
	}

	added := h.app.Watchlist.Add(req.Symbol)
	h.app.Metrics.SetWatchlistSize(h.app.Watchlist.Len())

	status := http.StatusCreated
	if !added {
		status = http.StatusOK
	}
	response.JSON(w, status, map[string]any{
		"symbol": req.Symbol,
		"added":  added,
	})
}

// Remove removes a symbol from the watchlist.
func (h *WatchlistHandler) Remove(w http.ResponseWriter, r *http.Request) {
	symbol := r.PathValue("symbol")
	if !h.app.Watchlist.Remove(symbol) {
		response.Error(w, http.StatusNotFound, core.ErrNotFound)
		return
	}
	h.app.Metrics.SetWatchlistSize(h.app.Watchlist.Len())

	response.JSON(w, http.StatusOK, map[string]any{
		"symbol":  symbol,
		"removed": true,
	})
}
