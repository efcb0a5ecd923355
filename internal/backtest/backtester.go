package backtest

import (
	"context"
	"math"
	"time"

	"go.uber.org/zap"

	"github.com/quantfold/fxlab/internal/core"
)

// CandleProvider defines the interface for fetching historical candles.
// Implementations must return core.ErrNoData when the range is empty.
type CandleProvider interface {
	Fetch(ctx context.Context, symbol string, tf core.Timeframe, start, end time.Time) ([]core.Candle, error)
}

// SignalSource evaluates a candle history and returns a structured verdict.
type SignalSource interface {
	Name() string
	Evaluate(ctx context.Context, candles []core.Candle) (*core.Analysis, error)
}

// Runner replays historical candles against a signal source, tracking
// simulated positions and a running balance.
type Runner struct {
	provider CandleProvider
	source   SignalSource
	log      *zap.Logger
}

// New creates a Runner. A nil logger disables logging.
func New(provider CandleProvider, source SignalSource, log *zap.Logger) *Runner {
	if log == nil {
		log = zap.NewNop()
	}
	return &Runner{
		provider: provider,
		source:   source,
		log:      log.Named("backtest"),
	}
}

// Run executes one backtest. The pass is strictly sequential: for each
// candle open positions are evaluated for exit first (stop-loss before
// take-profit, close price only), then the signal source is queried for a
// new entry unless MaxPositions is reached. Remaining positions are
// force-closed at the final close price. Errors from the provider or the
// signal source abort the run; no partial result is returned.
func (r *Runner) Run(ctx context.Context, cfg Config) (*Result, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	candles, err := r.provider.Fetch(ctx, cfg.Symbol, cfg.Timeframe, cfg.Start, cfg.End)
	if err != nil {
		return nil, core.WrapError(core.ErrBacktestFailed, err)
	}
	if len(candles) == 0 {
		return nil, core.ErrNoData
	}
	if !ascending(candles) {
		return nil, core.WrapError(core.ErrNoData, errUnorderedSeries)
	}

	r.log.Info("starting run",
		zap.String("symbol", cfg.Symbol),
		zap.String("timeframe", string(cfg.Timeframe)),
		zap.Int("candles", len(candles)),
	)

	result := &Result{
		Symbol:         cfg.Symbol,
		Timeframe:      cfg.Timeframe,
		Start:          cfg.Start,
		End:            cfg.End,
		InitialBalance: cfg.InitialBalance,
	}

	balance := cfg.InitialBalance
	var open []*Position

	for i := 1; i < len(candles); i++ {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		candle := candles[i]
		price := candle.Close

		// Exits first. Stop-loss is checked before take-profit so the
		// same-candle tie-break is deterministic; only the close price is
		// examined, the intrabar path is unknowable from OHLC.
		remaining := open[:0]
		for _, p := range open {
			switch {
			case p.StopHit(price):
				p.Close(price, candle.Time, core.ExitStopLoss)
			case p.TargetHit(price):
				p.Close(price, candle.Time, core.ExitTakeProfit)
			}
			if p.IsClosed() {
				result.Positions = append(result.Positions, *p)
				balance += p.PnL
			} else {
				remaining = append(remaining, p)
			}
		}
		open = remaining

		// Room constraint: exits still apply above, but no new entry is
		// evaluated on this candle.
		if len(open) >= cfg.MaxPositions {
			continue
		}

		analysis, err := r.source.Evaluate(ctx, candles[:i+1])
		if err != nil {
			return nil, core.WrapError(core.ErrSignalFailed, err)
		}
		if analysis == nil || analysis.Confidence < entryConfidence {
			continue
		}

		stopDistance := math.Abs(price - analysis.StopLoss)
		if stopDistance <= 0 {
			continue
		}
		size := balance * cfg.RiskPerTrade / stopDistance
		if size <= 0 {
			continue
		}

		pos := NewPosition(cfg.Symbol, analysis.Trend.Direction(),
			price, analysis.StopLoss, analysis.TargetPrice, size, candle.Time)
		open = append(open, pos)

		r.log.Debug("opened position",
			zap.String("direction", string(pos.Direction)),
			zap.Float64("entry", pos.EntryPrice),
			zap.Float64("size", pos.Size),
		)
	}

	// Force-close survivors at the final close.
	last := candles[len(candles)-1]
	for _, p := range open {
		p.Close(last.Close, last.Time, core.ExitEndOfTest)
		result.Positions = append(result.Positions, *p)
		balance += p.PnL
	}

	result.FinalBalance = balance
	result.CalculateMetrics()

	r.log.Info("run complete",
		zap.Int("trades", result.TotalTrades),
		zap.Float64("total_pnl", result.TotalPnL),
		zap.Float64("win_rate", result.WinRate),
	)

	return result, nil
}

func ascending(candles []core.Candle) bool {
	for i := 1; i < len(candles); i++ {
		if candles[i].Time.Before(candles[i-1].Time) {
			return false
		}
	}
	return true
}
