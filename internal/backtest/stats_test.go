package backtest

import (
	"math"
	"testing"
	"time"

	"github.com/quantfold/fxlab/internal/core"
)

func closedLong(entry, exit, size float64) Position {
	t0 := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	p := NewPosition("EURUSD", core.DirectionLong, entry, entry-0.005, entry+0.005, size, t0)
	p.Close(exit, t0.Add(2*time.Hour), core.ExitTakeProfit)
	return *p
}

func TestCalculateMetrics_Empty(t *testing.T) {
	r := &Result{}
	r.CalculateMetrics()

	if r.TotalTrades != 0 || r.WinRate != 0 || r.ProfitFactor != 0 || r.MaxDrawdown != 0 {
		t.Error("empty result should keep zero defaults")
	}
	if len(r.EquityCurve) != 0 {
		t.Error("empty result should have no equity curve")
	}
}

func TestCalculateMetrics_Scenario(t *testing.T) {
	// Entries 1.1000/1.1010/1.1020, exits 1.1050/1.0990/1.1080, 10000 units
	// each: P&Ls +50, -20, +60.
	r := &Result{Positions: []Position{
		closedLong(1.1000, 1.1050, 10000),
		closedLong(1.1010, 1.0990, 10000),
		closedLong(1.1020, 1.1080, 10000),
	}}
	r.CalculateMetrics()

	if r.TotalTrades != 3 || r.WinningTrades != 2 || r.LosingTrades != 1 {
		t.Fatalf("counts = %d/%d/%d", r.TotalTrades, r.WinningTrades, r.LosingTrades)
	}
	if math.Abs(r.WinRate-100.0*2/3) > 1e-9 {
		t.Errorf("WinRate = %f", r.WinRate)
	}
	if math.Abs(r.ProfitFactor-5.5) > 1e-6 {
		t.Errorf("ProfitFactor = %f, want 5.5", r.ProfitFactor)
	}
	// Peak 50 after trade one, trough 30 after trade two.
	if math.Abs(r.MaxDrawdown-20) > 1e-6 {
		t.Errorf("MaxDrawdown = %f, want 20", r.MaxDrawdown)
	}
	if math.Abs(r.LargestWin-60) > 1e-6 || math.Abs(r.LargestLoss-(-20)) > 1e-6 {
		t.Errorf("largest win/loss = %f/%f", r.LargestWin, r.LargestLoss)
	}
	if math.Abs(r.AvgWin-55) > 1e-6 || math.Abs(r.AvgLoss-(-20)) > 1e-6 {
		t.Errorf("avg win/loss = %f/%f", r.AvgWin, r.AvgLoss)
	}
}

func TestCalculateMetrics_AllWinners(t *testing.T) {
	r := &Result{Positions: []Position{
		closedLong(1.1000, 1.1050, 10000),
		closedLong(1.1010, 1.1060, 10000),
	}}
	r.CalculateMetrics()

	if !math.IsInf(r.ProfitFactor, 1) {
		t.Errorf("ProfitFactor = %f, want +Inf", r.ProfitFactor)
	}
	if r.WinRate != 100 {
		t.Errorf("WinRate = %f, want 100", r.WinRate)
	}
	if r.MaxDrawdown != 0 {
		t.Errorf("MaxDrawdown = %f, want 0 for non-decreasing equity", r.MaxDrawdown)
	}
}

func TestCalculateMetrics_EquityCurveInvariant(t *testing.T) {
	r := &Result{Positions: []Position{
		closedLong(1.1000, 1.1050, 10000),
		closedLong(1.1010, 1.0990, 10000),
		closedLong(1.1020, 1.1080, 10000),
	}}
	r.CalculateMetrics()

	last := r.EquityCurve[len(r.EquityCurve)-1]
	if math.Abs(last-r.TotalPnL) > 1e-9 {
		t.Errorf("equity_curve[-1] = %f, total_pnl = %f", last, r.TotalPnL)
	}
	for _, dd := range r.DrawdownCurve {
		if dd < 0 {
			t.Errorf("drawdown %f < 0", dd)
		}
	}
}

func TestCalculateMetrics_FirstTradeLoss(t *testing.T) {
	// A losing first trade is its own running peak: drawdown starts at 0.
	r := &Result{Positions: []Position{
		closedLong(1.1010, 1.0990, 10000),
		closedLong(1.1000, 1.1050, 10000),
	}}
	r.CalculateMetrics()

	if r.DrawdownCurve[0] != 0 {
		t.Errorf("drawdown[0] = %f, want 0", r.DrawdownCurve[0])
	}
}
