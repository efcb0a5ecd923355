// Package analytics derives performance metrics from closed trade
// histories. The engine holds one immutable snapshot at a time; LoadTrades
// replaces it wholesale so concurrent readers never observe partial state.
package analytics

import (
	"math"
	"sync/atomic"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/quantfold/fxlab/internal/core"
)

// Trade is an externally supplied, already-closed historical trade.
type Trade struct {
	EntryTime   time.Time       `json:"entry_time"`
	ExitTime    time.Time       `json:"exit_time"`
	Symbol      string          `json:"symbol"`
	Direction   core.Direction  `json:"type"`
	EntryPrice  float64         `json:"entry_price"`
	ExitPrice   float64         `json:"exit_price"`
	PnL         float64         `json:"pnl"`
	Size        float64         `json:"size"`
	StopLoss    float64         `json:"stop_loss"`
	TargetPrice float64         `json:"target_price"`
	ExitReason  core.ExitReason `json:"exit_reason"`
}

// DurationHours is the holding time in hours, 0 when either timestamp is
// missing.
func (t Trade) DurationHours() float64 {
	if t.EntryTime.IsZero() || t.ExitTime.IsZero() {
		return 0
	}
	return t.ExitTime.Sub(t.EntryTime).Hours()
}

// RiskReward is the planned reward/risk ratio. For longs reward is
// target-entry and risk is entry-stop; for shorts the signs invert.
// NaN when the risk leg is zero.
func (t Trade) RiskReward() float64 {
	var reward, risk float64
	if t.Direction == core.DirectionShort {
		reward = t.EntryPrice - t.TargetPrice
		risk = t.StopLoss - t.EntryPrice
	} else {
		reward = t.TargetPrice - t.EntryPrice
		risk = t.EntryPrice - t.StopLoss
	}
	if risk == 0 {
		return math.NaN()
	}
	return reward / risk
}

// snapshot is an immutable view over one loaded trade set with the
// derived columns precomputed.
type snapshot struct {
	trades      []Trade
	pnls        []float64
	durations   []float64 // hours, aligned with trades
	riskRewards []float64 // NaN where undefined
}

func newSnapshot(trades []Trade) *snapshot {
	s := &snapshot{
		trades:      make([]Trade, len(trades)),
		pnls:        make([]float64, len(trades)),
		durations:   make([]float64, len(trades)),
		riskRewards: make([]float64, len(trades)),
	}
	copy(s.trades, trades)
	for i, t := range s.trades {
		s.pnls[i] = t.PnL
		s.durations[i] = t.DurationHours()
		s.riskRewards[i] = t.RiskReward()
	}
	return s
}

// validRiskRewards filters out NaN ratios so they never enter aggregates.
func (s *snapshot) validRiskRewards() []float64 {
	out := make([]float64, 0, len(s.riskRewards))
	for _, rr := range s.riskRewards {
		if !math.IsNaN(rr) {
			out = append(out, rr)
		}
	}
	return out
}

// Engine computes read-only metrics queries over the loaded trade set.
type Engine struct {
	snap atomic.Pointer[snapshot]
	log  *zap.Logger
}

// NewEngine creates an empty analytics engine. A nil logger disables
// logging.
func NewEngine(log *zap.Logger) *Engine {
	if log == nil {
		log = zap.NewNop()
	}
	e := &Engine{log: log.Named("analytics")}
	return e
}

// LoadTrades atomically replaces the engine's trade set. The previous set
// is discarded, not merged.
func (e *Engine) LoadTrades(trades []Trade) {
	e.snap.Store(newSnapshot(trades))
	e.log.Info("trades loaded", zap.Int("count", len(trades)))
}

// Count returns the number of loaded trades.
func (e *Engine) Count() int {
	s := e.snap.Load()
	if s == nil {
		return 0
	}
	return len(s.trades)
}

// snapshotOrNil returns the current snapshot, nil when nothing is loaded
// or the set is empty.
func (e *Engine) snapshotOrNil() *snapshot {
	s := e.snap.Load()
	if s == nil || len(s.trades) == 0 {
		return nil
	}
	return s
}

// round rounds half away from zero, mapping non-finite input to 0 so the
// query results stay total and serializable.
func round(v float64, places int32) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	f, _ := decimal.NewFromFloat(v).Round(places).Float64()
	return f
}
