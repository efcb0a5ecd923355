package analytics

import (
	"math"

	"github.com/montanaflynn/stats"

	"github.com/quantfold/fxlab/internal/core"
)

// GroupStats aggregates P&L over one group of trades.
type GroupStats struct {
	Count   int     `json:"count"`
	MeanPnL float64 `json:"mean_pnl"`
	SumPnL  float64 `json:"sum_pnl"`
}

// DirectionStats extends GroupStats with the mean holding time.
type DirectionStats struct {
	GroupStats
	AvgDurationHours float64 `json:"avg_duration_hours"`
}

// Correlations holds Pearson coefficients between trade attributes and
// P&L. 0 when a coefficient is undefined.
type Correlations struct {
	RiskRewardPnL float64 `json:"risk_reward_pnl"`
	DurationPnL   float64 `json:"duration_pnl"`
}

// PatternAnalysis is the result shape of the trading-pattern query.
type PatternAnalysis struct {
	Hourly       map[int]GroupStats                `json:"hourly"`
	Weekday      map[string]GroupStats             `json:"weekday"`
	ByDirection  map[core.Direction]DirectionStats `json:"by_direction"`
	ByExitReason map[core.ExitReason]GroupStats    `json:"by_exit_reason"`
	Correlations Correlations                      `json:"correlations"`
}

// PatternAnalysis groups P&L by entry hour, weekday, direction and exit
// reason, and correlates risk-reward and duration against P&L. The
// second return is false when no trades are loaded.
func (e *Engine) PatternAnalysis() (*PatternAnalysis, bool) {
	s := e.snapshotOrNil()
	if s == nil {
		return nil, false
	}

	hourly := make(map[int]*groupAcc)
	weekday := make(map[string]*groupAcc)
	byDirection := make(map[core.Direction]*groupAcc)
	byReason := make(map[core.ExitReason]*groupAcc)

	for i, t := range s.trades {
		accumulate(hourly, t.EntryTime.Hour(), t.PnL, s.durations[i])
		accumulate(weekday, t.EntryTime.Weekday().String(), t.PnL, s.durations[i])
		accumulate(byDirection, t.Direction, t.PnL, s.durations[i])
		accumulate(byReason, t.ExitReason, t.PnL, s.durations[i])
	}

	result := &PatternAnalysis{
		Hourly:       finalize(hourly),
		Weekday:      finalize(weekday),
		ByDirection:  finalizeDirections(byDirection),
		ByExitReason: finalize(byReason),
		Correlations: Correlations{
			RiskRewardPnL: round(riskRewardCorrelation(s), 2),
			DurationPnL:   round(pearsonOrZero(s.durations, s.pnls), 2),
		},
	}
	return result, true
}

type groupAcc struct {
	count    int
	sum      float64
	duration float64
}

func accumulate[K comparable](m map[K]*groupAcc, key K, pnl, duration float64) {
	acc, ok := m[key]
	if !ok {
		acc = &groupAcc{}
		m[key] = acc
	}
	acc.count++
	acc.sum += pnl
	acc.duration += duration
}

func (a *groupAcc) stats() GroupStats {
	return GroupStats{
		Count:   a.count,
		MeanPnL: round(a.sum/float64(a.count), 2),
		SumPnL:  round(a.sum, 2),
	}
}

func finalize[K comparable](m map[K]*groupAcc) map[K]GroupStats {
	out := make(map[K]GroupStats, len(m))
	for key, acc := range m {
		out[key] = acc.stats()
	}
	return out
}

func finalizeDirections(m map[core.Direction]*groupAcc) map[core.Direction]DirectionStats {
	out := make(map[core.Direction]DirectionStats, len(m))
	for key, acc := range m {
		out[key] = DirectionStats{
			GroupStats:       acc.stats(),
			AvgDurationHours: round(acc.duration/float64(acc.count), 2),
		}
	}
	return out
}

// riskRewardCorrelation correlates risk-reward with P&L over the trades
// whose ratio is defined.
func riskRewardCorrelation(s *snapshot) float64 {
	var rr, pnl []float64
	for i, v := range s.riskRewards {
		if math.IsNaN(v) {
			continue
		}
		rr = append(rr, v)
		pnl = append(pnl, s.pnls[i])
	}
	return pearsonOrZero(rr, pnl)
}

func pearsonOrZero(x, y []float64) float64 {
	if len(x) < 2 {
		return 0
	}
	r, err := stats.Pearson(x, y)
	if err != nil || math.IsNaN(r) {
		return 0
	}
	return r
}
