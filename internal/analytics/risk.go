package analytics

import (
	"math"

	"github.com/montanaflynn/stats"
)

// DistributionStats summarizes a value distribution.
type DistributionStats struct {
	Mean   float64 `json:"mean"`
	Median float64 `json:"median"`
	Std    float64 `json:"std"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
}

// RiskMetrics is the result shape of the risk query. VaR values are the
// 5th/1st percentile of the P&L distribution; CVaR is the mean of the
// tail at or below the corresponding VaR.
type RiskMetrics struct {
	VaR95           float64           `json:"var_95"`
	VaR99           float64           `json:"var_99"`
	CVaR95          float64           `json:"cvar_95"`
	CVaR99          float64           `json:"cvar_99"`
	AvgRiskPerTrade float64           `json:"risk_per_trade"`
	RiskReward      DistributionStats `json:"risk_reward_stats"`
}

// RiskMetrics computes the loss-distribution risk query. The second
// return is false when no trades are loaded.
func (e *Engine) RiskMetrics() (*RiskMetrics, bool) {
	s := e.snapshotOrNil()
	if s == nil {
		return nil, false
	}

	var95 := percentileOrZero(s.pnls, 5)
	var99 := percentileOrZero(s.pnls, 1)

	var riskSum float64
	for _, t := range s.trades {
		riskSum += math.Abs(t.EntryPrice - t.StopLoss)
	}

	rr := s.validRiskRewards()

	return &RiskMetrics{
		VaR95:           round(var95, 2),
		VaR99:           round(var99, 2),
		CVaR95:          round(tailMean(s.pnls, var95), 2),
		CVaR99:          round(tailMean(s.pnls, var99), 2),
		AvgRiskPerTrade: round(riskSum/float64(len(s.trades)), 5),
		RiskReward:      distribution(rr),
	}, true
}

// tailMean is the mean of values at or below the threshold, 0 when the
// tail is empty.
func tailMean(xs []float64, threshold float64) float64 {
	var sum float64
	var n int
	for _, x := range xs {
		if x <= threshold {
			sum += x
			n++
		}
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}

func distribution(xs []float64) DistributionStats {
	var d DistributionStats
	if len(xs) == 0 {
		return d
	}
	if v, err := stats.Mean(xs); err == nil {
		d.Mean = round(v, 2)
	}
	if v, err := stats.Median(xs); err == nil {
		d.Median = round(v, 2)
	}
	if v, err := stats.StandardDeviation(xs); err == nil {
		d.Std = round(v, 2)
	}
	if v, err := stats.Min(xs); err == nil {
		d.Min = round(v, 2)
	}
	if v, err := stats.Max(xs); err == nil {
		d.Max = round(v, 2)
	}
	return d
}

func percentileOrZero(xs []float64, percent float64) float64 {
	v, err := stats.Percentile(xs, percent)
	if err != nil || math.IsNaN(v) {
		return 0
	}
	return v
}
