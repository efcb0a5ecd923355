// internal/api/handler/api/backtest.go
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/quantfold/fxlab/internal/api/job"
	"github.com/quantfold/fxlab/internal/api/response"
	"github.com/quantfold/fxlab/internal/app"
	"github.com/quantfold/fxlab/internal/backtest"
	"github.com/quantfold/fxlab/internal/core"
)

const backtestTimeout = 5 * time.Minute

// BacktestRequest is the request body for starting a backtest. Omitted
// tuning fields fall back to the configured service defaults.
type BacktestRequest struct {
	Symbol         string   `json:"symbol"`
	Timeframe      string   `json:"timeframe,omitempty"`
	Start          string   `json:"start"`
	End            string   `json:"end"`
	Provider       string   `json:"provider,omitempty"`
	InitialBalance *float64 `json:"initial_balance,omitempty"`
	RiskPerTrade   *float64 `json:"risk_per_trade,omitempty"`
	MaxPositions   *int     `json:"max_positions,omitempty"`
}

// BacktestHandler handles backtest API requests.
type BacktestHandler struct {
	app *app.App
}

// NewBacktestHandler creates a new backtest handler.
func NewBacktestHandler(a *app.App) *BacktestHandler {
	return &BacktestHandler{app: a}
}

// Create starts a new backtest job.
func (h *BacktestHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req BacktestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest,
			core.WrapError(core.ErrBacktestInvalid, err))
		return
	}

	if req.Symbol == "" || req.Start == "" || req.End == "" {
		response.Error(w, http.StatusBadRequest,
			core.WrapError(core.ErrConfigMissing, nil))
		return
	}

	start, err := parseDate(req.Start)
	if err != nil {
		response.Error(w, http.StatusBadRequest,
			core.WrapError(core.ErrBacktestInvalid, err))
		return
	}
	end, err := parseDate(req.End)
	if err != nil {
		response.Error(w, http.StatusBadRequest,
			core.WrapError(core.ErrBacktestInvalid, err))
		return
	}

	cfg, err := h.app.BacktestConfig(req.Symbol, req.Timeframe, start, end)
	if err != nil {
		response.Error(w, http.StatusBadRequest, err)
		return
	}
	if req.InitialBalance != nil {
		cfg.InitialBalance = *req.InitialBalance
	}
	if req.RiskPerTrade != nil {
		cfg.RiskPerTrade = *req.RiskPerTrade
	}
	if req.MaxPositions != nil {
		cfg.MaxPositions = *req.MaxPositions
	}
	if err := cfg.Validate(); err != nil {
		response.Error(w, http.StatusBadRequest, err)
		return
	}

	if _, err := h.app.Provider(req.Provider); err != nil {
		response.Error(w, http.StatusBadRequest,
			core.WrapError(core.ErrConfigInvalid, err))
		return
	}

	j := h.app.Jobs.Create("backtest")
	jobID := j.ID
	status := j.Status

	go h.runBacktest(jobID, req.Provider, cfg)

	response.JSON(w, http.StatusAccepted, map[string]any{
		"job_id": jobID,
		"status": status,
	})
}

// runBacktest executes the backtest and updates job status.
func (h *BacktestHandler) runBacktest(jobID, provider string, cfg backtest.Config) {
	jobs := h.app.Jobs

	jobs.Update(jobID, func(j *job.Job) {
		j.Status = job.StatusRunning
	})
	h.app.Metrics.SetJobsActive(jobs.Active())

	ctx, cancel := context.WithTimeout(context.Background(), backtestTimeout)
	defer cancel()
	report, path, err := h.app.RunBacktest(ctx, provider, jobID, cfg)

	if err != nil {
		jobs.Update(jobID, func(j *job.Job) {
			j.Status = job.StatusFailed
			var coreErr *core.Error
			if errors.As(err, &coreErr) {
				j.Error = coreErr
			} else {
				j.Error = core.WrapError(core.ErrBacktestFailed, err)
			}
		})
		h.app.Metrics.SetJobsActive(jobs.Active())
		return
	}

	jobs.Update(jobID, func(j *job.Job) {
		j.Status = job.StatusComplete
		j.Progress = 100
		j.Result = map[string]any{
			"report":      report,
			"report_path": path,
		}
	})
	h.app.Metrics.SetJobsActive(jobs.Active())
}

// GetStatus returns the status of a backtest job.
func (h *BacktestHandler) GetStatus(w http.ResponseWriter, r *http.Request) {
	j, err := h.app.Jobs.Get(r.PathValue("id"))
	if err != nil {
		response.Error(w, http.StatusNotFound, err)
		return
	}

	resp := map[string]any{
		"job_id":   j.ID,
		"status":   j.Status,
		"progress": j.Progress,
	}

	if j.Status == job.StatusComplete {
		resp["result"] = j.Result
	}
	if j.Status == job.StatusFailed && j.Error != nil {
		resp["error"] = map[string]string{
			"code":    j.Error.Code,
			"message": j.Error.Message,
		}
	}

	response.JSON(w, http.StatusOK, resp)
}

// parseDate accepts a date or an RFC 3339 timestamp.
func parseDate(s string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, s)
}
