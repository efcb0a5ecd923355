package backtest

import (
	"errors"
	"time"

	"github.com/quantfold/fxlab/internal/core"
)

// Entry confidence threshold: the runner only opens positions when the
// signal source reports at least this much confidence.
const entryConfidence = 0.7

var (
	errSymbolRequired = errors.New("symbol is required")
	errRiskOutOfRange = errors.New("risk per trade must be in (0, 1]")
	errMaxPositions   = errors.New("max positions must be at least 1")
	errBalance        = errors.New("initial balance must be positive")

	errUnorderedSeries = errors.New("candle series is not time-ascending")
)

// Config holds the parameters of a single backtest run
type Config struct {
	Symbol         string
	Timeframe      core.Timeframe
	Start          time.Time
	End            time.Time
	InitialBalance float64
	RiskPerTrade   float64 // fraction of balance risked per position, (0, 1]
	MaxPositions   int     // concurrent open position cap, >= 1
}

// Defaults returns the service-wide backtest defaults for a symbol.
func Defaults(symbol string) Config {
	return Config{
		Symbol:         symbol,
		Timeframe:      core.Timeframe1h,
		InitialBalance: 10000,
		RiskPerTrade:   0.02,
		MaxPositions:   5,
	}
}

// Validate checks the run preconditions.
func (c Config) Validate() error {
	if c.Symbol == "" {
		return core.WrapError(core.ErrBacktestInvalid, errSymbolRequired)
	}
	if !c.Start.Before(c.End) {
		return core.ErrInvalidRange
	}
	if c.RiskPerTrade <= 0 || c.RiskPerTrade > 1 {
		return core.WrapError(core.ErrBacktestInvalid, errRiskOutOfRange)
	}
	if c.MaxPositions < 1 {
		return core.WrapError(core.ErrBacktestInvalid, errMaxPositions)
	}
	if c.InitialBalance <= 0 {
		return core.WrapError(core.ErrBacktestInvalid, errBalance)
	}
	return nil
}

// Result holds the complete backtest output. Positions appear in close
// order; the curves and summary scalars are derived by CalculateMetrics.
type Result struct {
	Symbol         string
	Timeframe      core.Timeframe
	Start          time.Time
	End            time.Time
	InitialBalance float64
	FinalBalance   float64

	Positions []Position

	TotalTrades   int
	WinningTrades int
	LosingTrades  int
	TotalPnL      float64
	WinRate       float64 // percentage
	ProfitFactor  float64 // +Inf when there are no losing trades
	AvgWin        float64
	AvgLoss       float64
	LargestWin    float64
	LargestLoss   float64
	MaxDrawdown   float64

	EquityCurve   []float64
	DrawdownCurve []float64
}
