package backtest

import (
	"math"
)

// CalculateMetrics derives the summary scalars and equity/drawdown curves
// from the closed position list. An empty list leaves everything at zero.
func (r *Result) CalculateMetrics() {
	if len(r.Positions) == 0 {
		return
	}

	r.TotalTrades = len(r.Positions)

	var grossProfit, grossLoss float64
	var wins, losses []float64
	for _, p := range r.Positions {
		r.TotalPnL += p.PnL
		switch {
		case p.PnL > 0:
			wins = append(wins, p.PnL)
			grossProfit += p.PnL
		case p.PnL < 0:
			losses = append(losses, p.PnL)
			grossLoss += -p.PnL
		}
	}

	r.WinningTrades = len(wins)
	r.LosingTrades = len(losses)
	r.WinRate = float64(r.WinningTrades) / float64(r.TotalTrades) * 100

	if grossLoss > 0 {
		r.ProfitFactor = grossProfit / grossLoss
	} else {
		r.ProfitFactor = math.Inf(1)
	}

	r.AvgWin = mean(wins)
	r.AvgLoss = mean(losses)
	if len(wins) > 0 {
		r.LargestWin = maxOf(wins)
	}
	if len(losses) > 0 {
		r.LargestLoss = minOf(losses)
	}

	// Equity curve is cumulative P&L in close order; drawdown is the
	// running peak minus current equity.
	r.EquityCurve = make([]float64, len(r.Positions))
	r.DrawdownCurve = make([]float64, len(r.Positions))
	var equity, peak float64
	peak = math.Inf(-1)
	for i, p := range r.Positions {
		equity += p.PnL
		r.EquityCurve[i] = equity
		if equity > peak {
			peak = equity
		}
		dd := peak - equity
		r.DrawdownCurve[i] = dd
		if dd > r.MaxDrawdown {
			r.MaxDrawdown = dd
		}
	}
}

func mean(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	var sum float64
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}

func maxOf(xs []float64) float64 {
	m := xs[0]
	for _, x := range xs[1:] {
		if x > m {
			m = x
		}
	}
	return m
}

func minOf(xs []float64) float64 {
	m := xs[0]
	for _, x := range xs[1:] {
		if x < m {
			m = x
		}
	}
	return m
}
