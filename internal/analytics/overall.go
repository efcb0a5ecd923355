package analytics

import (
	"math"

	"github.com/montanaflynn/stats"
)

// Annualization factor for Sharpe/Sortino, assuming ~252 trading days.
const annualization = 252

// PeriodStats is the resampled P&L table row for one day or month.
type PeriodStats struct {
	PnL     float64 `json:"pnl"`
	Trades  int     `json:"trades"`
	WinRate float64 `json:"win_rate"`
}

// OverallMetrics is the result shape of the overall performance query.
// ProfitFactor is nil when there are no losing trades.
type OverallMetrics struct {
	TotalTrades      int      `json:"total_trades"`
	WinningTrades    int      `json:"winning_trades"`
	LosingTrades     int      `json:"losing_trades"`
	WinRate          float64  `json:"win_rate"`
	ProfitFactor     *float64 `json:"profit_factor"`
	TotalPnL         float64  `json:"total_pnl"`
	SharpeRatio      float64  `json:"sharpe_ratio"`
	SortinoRatio     float64  `json:"sortino_ratio"`
	MaxDrawdown      float64  `json:"max_drawdown"`
	AvgWinner        float64  `json:"avg_winner"`
	AvgLoser         float64  `json:"avg_loser"`
	AvgDurationHours float64  `json:"avg_duration_hours"`
	MaxDurationHours float64  `json:"max_duration_hours"`
	MinDurationHours float64  `json:"min_duration_hours"`

	Daily   map[string]PeriodStats `json:"daily"`
	Monthly map[string]PeriodStats `json:"monthly"`
}

// OverallMetrics computes the overall performance query. The second
// return is false when no trades are loaded.
func (e *Engine) OverallMetrics() (*OverallMetrics, bool) {
	s := e.snapshotOrNil()
	if s == nil {
		return nil, false
	}

	var wins, losses []float64
	var grossProfit, grossLoss, totalPnL float64
	for _, pnl := range s.pnls {
		totalPnL += pnl
		switch {
		case pnl > 0:
			wins = append(wins, pnl)
			grossProfit += pnl
		case pnl < 0:
			losses = append(losses, pnl)
			grossLoss += -pnl
		}
	}

	total := len(s.pnls)
	m := &OverallMetrics{
		TotalTrades:   total,
		WinningTrades: len(wins),
		LosingTrades:  len(losses),
		WinRate:       round(float64(len(wins))/float64(total)*100, 2),
		TotalPnL:      round(totalPnL, 2),
		SharpeRatio:   round(sharpe(s.pnls), 2),
		SortinoRatio:  round(sortino(s.pnls), 2),
		MaxDrawdown:   round(maxDrawdown(s.pnls), 2),
		AvgWinner:     round(meanOrZero(wins), 2),
		AvgLoser:      round(meanOrZero(losses), 2),
		Daily:         resample(s.trades, "2006-01-02"),
		Monthly:       resample(s.trades, "2006-01"),
	}

	if grossLoss > 0 {
		pf := round(grossProfit/grossLoss, 2)
		m.ProfitFactor = &pf
	}

	if avg, err := stats.Mean(s.durations); err == nil {
		m.AvgDurationHours = round(avg, 2)
	}
	if max, err := stats.Max(s.durations); err == nil {
		m.MaxDurationHours = round(max, 2)
	}
	if min, err := stats.Min(s.durations); err == nil {
		m.MinDurationHours = round(min, 2)
	}

	return m, true
}

// sharpe is the annualized mean/std of per-trade P&L, 0 with fewer than
// two samples or zero variance.
func sharpe(pnls []float64) float64 {
	if len(pnls) < 2 {
		return 0
	}
	mean, err := stats.Mean(pnls)
	if err != nil {
		return 0
	}
	std, err := stats.StandardDeviation(pnls)
	if err != nil || std == 0 {
		return 0
	}
	return math.Sqrt(annualization) * mean / std
}

// sortino is like sharpe but penalizes only downside deviation.
func sortino(pnls []float64) float64 {
	if len(pnls) < 2 {
		return 0
	}
	var negatives []float64
	for _, p := range pnls {
		if p < 0 {
			negatives = append(negatives, p)
		}
	}
	if len(negatives) == 0 {
		return 0
	}
	mean, err := stats.Mean(pnls)
	if err != nil {
		return 0
	}
	downside, err := stats.StandardDeviation(negatives)
	if err != nil || downside == 0 {
		return 0
	}
	return math.Sqrt(annualization) * mean / downside
}

// maxDrawdown is the largest running-peak-to-trough drop over the
// cumulative P&L series, in load order.
func maxDrawdown(pnls []float64) float64 {
	var equity, maxDD float64
	peak := math.Inf(-1)
	for _, pnl := range pnls {
		equity += pnl
		if equity > peak {
			peak = equity
		}
		if dd := peak - equity; dd > maxDD {
			maxDD = dd
		}
	}
	return maxDD
}

// resample groups trades by their exit time formatted with layout and
// aggregates P&L, count and win rate per bucket. Trades without an exit
// timestamp are skipped. Only periods containing at least one trade
// appear in the result; quiet calendar days or months are absent rather
// than zero-filled.
func resample(trades []Trade, layout string) map[string]PeriodStats {
	type bucket struct {
		pnl   float64
		count int
		wins  int
	}
	buckets := make(map[string]*bucket)
	for _, t := range trades {
		if t.ExitTime.IsZero() {
			continue
		}
		key := t.ExitTime.Format(layout)
		b, ok := buckets[key]
		if !ok {
			b = &bucket{}
			buckets[key] = b
		}
		b.pnl += t.PnL
		b.count++
		if t.PnL > 0 {
			b.wins++
		}
	}

	out := make(map[string]PeriodStats, len(buckets))
	for key, b := range buckets {
		out[key] = PeriodStats{
			PnL:     round(b.pnl, 2),
			Trades:  b.count,
			WinRate: round(float64(b.wins)/float64(b.count)*100, 2),
		}
	}
	return out
}

func meanOrZero(xs []float64) float64 {
	m, err := stats.Mean(xs)
	if err != nil {
		return 0
	}
	return m
}
