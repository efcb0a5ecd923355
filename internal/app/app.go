// Package app wires the service together: market data providers, the
// signal source, the backtest runner, analytics, storage, and metrics,
// all built from a single Config.
package app

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/quantfold/fxlab/internal/analytics"
	"github.com/quantfold/fxlab/internal/api/job"
	"github.com/quantfold/fxlab/internal/backtest"
	"github.com/quantfold/fxlab/internal/config"
	"github.com/quantfold/fxlab/internal/core"
	"github.com/quantfold/fxlab/internal/llm/factory"
	"github.com/quantfold/fxlab/internal/marketdata"
	"github.com/quantfold/fxlab/internal/marketdata/binance"
	"github.com/quantfold/fxlab/internal/marketdata/yahoo"
	"github.com/quantfold/fxlab/internal/metrics"
	"github.com/quantfold/fxlab/internal/signal"
	"github.com/quantfold/fxlab/internal/storage/archive"
	"github.com/quantfold/fxlab/internal/storage/trades"
	"github.com/quantfold/fxlab/internal/watchlist"
)

// tradeStoreSize caps the in-memory trade history; old trades are
// evicted oldest-first.
const tradeStoreSize = 100000

// App holds the assembled service dependencies.
type App struct {
	cfg *config.Config
	log *zap.Logger

	Providers *marketdata.Registry
	Source    signal.Source
	Analytics *analytics.Engine
	Trades    trades.Store
	Reports   *archive.Reports
	Watchlist *watchlist.Store
	Metrics   *metrics.Registry
	Jobs      *job.Store
}

// New assembles the application from a validated config. A nil logger
// disables logging.
func New(cfg *config.Config, log *zap.Logger) (*App, error) {
	if log == nil {
		log = zap.NewNop()
	}

	providers := marketdata.NewRegistry()
	providers.Register(yahoo.New())
	providers.Register(binance.New())

	source, err := buildSource(cfg, log)
	if err != nil {
		return nil, err
	}

	reports, err := buildReports(cfg)
	if err != nil {
		return nil, err
	}

	symbols := make([]string, 0, len(cfg.Watchlist))
	for _, item := range cfg.Watchlist {
		symbols = append(symbols, item.Symbol)
	}
	wl := watchlist.New(symbols...)

	reg := metrics.NewRegistry()
	reg.SetWatchlistSize(wl.Len())

	jobs := job.NewStore(cfg.Server.MaxJobs, time.Duration(cfg.Server.JobTTLHours)*time.Hour)

	return &App{
		cfg:       cfg,
		log:       log,
		Providers: providers,
		Source:    source,
		Analytics: analytics.NewEngine(log),
		Trades:    trades.NewMemoryStore(tradeStoreSize),
		Reports:   reports,
		Watchlist: wl,
		Metrics:   reg,
		Jobs:      jobs,
	}, nil
}

// Config returns the config the app was built from.
func (a *App) Config() *config.Config {
	return a.cfg
}

// Logger returns the app logger.
func (a *App) Logger() *zap.Logger {
	return a.log
}

func buildSource(cfg *config.Config, log *zap.Logger) (signal.Source, error) {
	switch cfg.Signal.Source {
	case "llm":
		provider, err := factory.New(cfg.LLM)
		if err != nil {
			return nil, err
		}
		return signal.NewLLM(provider, log), nil
	default:
		return signal.NewTechnical(log), nil
	}
}

func buildReports(cfg *config.Config) (*archive.Reports, error) {
	var backend archive.Storage
	switch cfg.Archive.Type {
	case "s3":
		s3, err := archive.NewS3(archive.S3Config{
			Bucket:    cfg.Archive.S3.Bucket,
			Endpoint:  cfg.Archive.S3.Endpoint,
			Region:    cfg.Archive.S3.Region,
			AccessKey: cfg.Archive.S3.AccessKey,
			SecretKey: cfg.Archive.S3.SecretKey,
			Prefix:    cfg.Archive.S3.Prefix,
		})
		if err != nil {
			return nil, err
		}
		backend = s3
	default:
		fs, err := archive.NewLocalFS(cfg.Archive.Path)
		if err != nil {
			return nil, err
		}
		backend = fs
	}
	return archive.NewReports(backend), nil
}

// Provider resolves a provider by name, falling back to the configured
// default when name is empty.
func (a *App) Provider(name string) (marketdata.Provider, error) {
	if name == "" {
		name = a.cfg.Provider.Default
	}
	p, ok := a.Providers.Get(name)
	if !ok {
		return nil, core.WrapError(core.ErrNotFound, fmt.Errorf("unknown provider %q", name))
	}
	return p, nil
}

// BacktestConfig builds a run config from service defaults plus the
// requested symbol and range. Timeframe falls back to the configured
// default when empty.
func (a *App) BacktestConfig(symbol, timeframe string, start, end time.Time) (backtest.Config, error) {
	if timeframe == "" {
		timeframe = a.cfg.Backtest.Timeframe
	}
	tf, err := core.ParseTimeframe(timeframe)
	if err != nil {
		return backtest.Config{}, core.WrapError(core.ErrBacktestInvalid, err)
	}
	return backtest.Config{
		Symbol:         symbol,
		Timeframe:      tf,
		Start:          start,
		End:            end,
		InitialBalance: a.cfg.Backtest.InitialBalance,
		RiskPerTrade:   a.cfg.Backtest.RiskPerTrade,
		MaxPositions:   a.cfg.Backtest.MaxPositions,
	}, nil
}

// RunBacktest executes a backtest against the named provider, archives
// the report under the given id, and records metrics. The returned path
// is empty when archiving is disabled.
func (a *App) RunBacktest(ctx context.Context, providerName, id string, cfg backtest.Config) (*backtest.Report, string, error) {
	provider, err := a.Provider(providerName)
	if err != nil {
		return nil, "", err
	}

	started := time.Now()
	runner := backtest.New(provider, &countingSource{source: a.Source, metrics: a.Metrics}, a.log)
	result, err := runner.Run(ctx, cfg)
	elapsed := time.Since(started).Seconds()
	if err != nil {
		a.Metrics.RecordBacktest("error", elapsed)
		return nil, "", err
	}
	a.Metrics.RecordBacktest("ok", elapsed)

	report := backtest.GenerateReport(result)

	path := ""
	if a.Reports != nil {
		path, err = a.Reports.Save(ctx, cfg.Symbol, id, report)
		if err != nil {
			// The run itself succeeded; log and return the report anyway.
			a.log.Warn("failed to archive report",
				zap.String("symbol", cfg.Symbol),
				zap.String("id", id),
				zap.Error(err),
			)
			return report, "", nil
		}
		a.Metrics.RecordReportArchived(a.cfg.Archive.Type)
	}

	return report, path, nil
}

// countingSource wraps a signal source and counts evaluations by
// outcome: ok, no_signal, or error.
type countingSource struct {
	source  signal.Source
	metrics *metrics.Registry
}

func (s *countingSource) Name() string {
	return s.source.Name()
}

func (s *countingSource) Evaluate(ctx context.Context, candles []core.Candle) (*core.Analysis, error) {
	analysis, err := s.source.Evaluate(ctx, candles)
	switch {
	case err != nil:
		s.metrics.RecordSignalEvaluation(s.source.Name(), "error")
	case analysis == nil:
		s.metrics.RecordSignalEvaluation(s.source.Name(), "no_signal")
	default:
		s.metrics.RecordSignalEvaluation(s.source.Name(), "ok")
	}
	return analysis, err
}

// LoadTrades replaces the trade history used by analytics.
func (a *App) LoadTrades(ctx context.Context, list []analytics.Trade) error {
	if err := a.Trades.Replace(ctx, list); err != nil {
		return err
	}
	a.Analytics.LoadTrades(list)
	a.Metrics.SetTradesLoaded(len(list))
	a.log.Info("trades loaded", zap.Int("count", len(list)))
	return nil
}
