// Package api exposes the service over HTTP: backtest jobs, analytics
// queries, watchlist management, archived reports, and operational
// endpoints.
package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	handler "github.com/quantfold/fxlab/internal/api/handler/api"
	"github.com/quantfold/fxlab/internal/api/middleware"
	"github.com/quantfold/fxlab/internal/api/response"
	"github.com/quantfold/fxlab/internal/app"
	"github.com/quantfold/fxlab/internal/metrics"
)

const (
	readTimeout     = 15 * time.Second
	writeTimeout    = 30 * time.Second
	idleTimeout     = 60 * time.Second
	shutdownTimeout = 10 * time.Second
)

// Server is the HTTP front of the service.
type Server struct {
	app  *app.App
	log  *zap.Logger
	http *http.Server
}

// NewServer builds the server and its routes from an assembled app.
func NewServer(a *app.App) *Server {
	log := a.Logger().Named("api")
	cfg := a.Config()

	s := &Server{
		app: a,
		log: log,
	}

	s.http = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      s.routes(),
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
		IdleTimeout:  idleTimeout,
	}

	return s
}

func (s *Server) routes() http.Handler {
	cfg := s.app.Config()

	backtests := handler.NewBacktestHandler(s.app)
	analytics := handler.NewAnalyticsHandler(s.app)
	watch := handler.NewWatchlistHandler(s.app)
	reports := handler.NewReportsHandler(s.app)

	mux := http.NewServeMux()

	mux.HandleFunc("POST /api/backtest", backtests.Create)
	mux.HandleFunc("GET /api/backtest/{id}", backtests.GetStatus)

	mux.HandleFunc("POST /api/analytics/trades", analytics.LoadTrades)
	mux.HandleFunc("GET /api/analytics/overall", analytics.Overall)
	mux.HandleFunc("GET /api/analytics/patterns", analytics.Patterns)
	mux.HandleFunc("GET /api/analytics/risk", analytics.Risk)
	mux.HandleFunc("GET /api/analytics/suggestions", analytics.Suggestions)

	mux.HandleFunc("GET /api/watchlist", watch.List)
	mux.HandleFunc("POST /api/watchlist", watch.Add)
	mux.HandleFunc("DELETE /api/watchlist/{symbol}", watch.Remove)

	mux.HandleFunc("GET /api/reports/{symbol}", reports.List)
	mux.HandleFunc("GET /api/reports/{symbol}/{id}", reports.Get)

	mux.HandleFunc("GET /api/health", s.health)

	// Protected API routes, wrapped in auth + observability middleware.
	var api http.Handler = mux
	api = middleware.APIKeyAuth(cfg.Server.APIKey)(api)
	api = metrics.HTTPMiddleware(s.app.Metrics)(api)
	api = metrics.LoggingMiddleware(s.log)(api)

	root := http.NewServeMux()
	root.Handle("/api/", api)
	if cfg.Metrics.Enabled {
		root.Handle("GET "+cfg.Metrics.Path, promhttp.HandlerFor(
			s.app.Metrics.Registry,
			promhttp.HandlerOpts{},
		))
	}

	return root
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	response.JSON(w, http.StatusOK, map[string]any{
		"status":        "ok",
		"provider":      s.app.Config().Provider.Default,
		"signal_source": s.app.Source.Name(),
		"trades_loaded": s.app.Analytics.Count(),
		"watchlist":     s.app.Watchlist.Len(),
	})
}

// Handler returns the assembled route tree, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.http.Handler
}

// Start runs the server until the listener fails or Shutdown is called.
func (s *Server) Start() error {
	s.log.Info("server listening", zap.String("addr", s.http.Addr))
	if err := s.http.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown drains in-flight requests and stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, shutdownTimeout)
	defer cancel()
	s.log.Info("server shutting down")
	return s.http.Shutdown(ctx)
}
