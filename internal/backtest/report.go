package backtest

import (
	"math"
	"time"

	"github.com/shopspring/decimal"
)

// Summary holds the scalar metrics of a report. Money and percentage
// fields are rounded to 2 decimals, prices to 5. ProfitFactor is nil when
// the run had no losing trades (the factor is infinite).
type Summary struct {
	TotalTrades           int      `json:"total_trades"`
	WinningTrades         int      `json:"winning_trades"`
	LosingTrades          int      `json:"losing_trades"`
	WinRate               float64  `json:"win_rate"`
	ProfitFactor          *float64 `json:"profit_factor"`
	TotalPnL              float64  `json:"total_pnl"`
	MaxDrawdown           float64  `json:"max_drawdown"`
	AvgWin                float64  `json:"avg_win"`
	AvgLoss               float64  `json:"avg_loss"`
	LargestWin            float64  `json:"largest_win"`
	LargestLoss           float64  `json:"largest_loss"`
	AvgTradeDurationHours float64  `json:"avg_trade_duration_hours"`
}

// TradeEntry is one closed position in report form.
type TradeEntry struct {
	EntryTime   string  `json:"entry_time"`
	ExitTime    string  `json:"exit_time,omitempty"`
	Symbol      string  `json:"symbol"`
	Type        string  `json:"type"`
	EntryPrice  float64 `json:"entry_price"`
	ExitPrice   float64 `json:"exit_price"`
	StopLoss    float64 `json:"stop_loss"`
	TargetPrice float64 `json:"target_price"`
	PnL         float64 `json:"pnl"`
	ExitReason  string  `json:"exit_reason"`
}

// Report is the externally visible, JSON-serializable shape of a Result.
type Report struct {
	Summary       Summary      `json:"summary"`
	Trades        []TradeEntry `json:"trades"`
	EquityCurve   []float64    `json:"equity_curve"`
	DrawdownCurve []float64    `json:"drawdown_curve"`
}

// GenerateReport shapes a Result for serialization. It is a pure,
// read-only transform.
func GenerateReport(r *Result) *Report {
	report := &Report{
		Summary: Summary{
			TotalTrades:           r.TotalTrades,
			WinningTrades:         r.WinningTrades,
			LosingTrades:          r.LosingTrades,
			WinRate:               Round(r.WinRate, 2),
			ProfitFactor:          roundFinite(r.ProfitFactor, 2),
			TotalPnL:              Round(r.TotalPnL, 2),
			MaxDrawdown:           Round(r.MaxDrawdown, 2),
			AvgWin:                Round(r.AvgWin, 2),
			AvgLoss:               Round(r.AvgLoss, 2),
			LargestWin:            Round(r.LargestWin, 2),
			LargestLoss:           Round(r.LargestLoss, 2),
			AvgTradeDurationHours: Round(avgDurationHours(r.Positions), 2),
		},
		Trades:        make([]TradeEntry, 0, len(r.Positions)),
		EquityCurve:   r.EquityCurve,
		DrawdownCurve: r.DrawdownCurve,
	}

	for _, p := range r.Positions {
		entry := TradeEntry{
			EntryTime:   p.EntryTime.Format(time.RFC3339),
			Symbol:      p.Symbol,
			Type:        string(p.Direction),
			EntryPrice:  Round(p.EntryPrice, 5),
			ExitPrice:   Round(p.ExitPrice, 5),
			StopLoss:    Round(p.StopLoss, 5),
			TargetPrice: Round(p.TargetPrice, 5),
			PnL:         Round(p.PnL, 2),
			ExitReason:  string(p.ExitReason),
		}
		if !p.ExitTime.IsZero() {
			entry.ExitTime = p.ExitTime.Format(time.RFC3339)
		}
		report.Trades = append(report.Trades, entry)
	}

	return report
}

// avgDurationHours is the mean holding time of closed positions in hours,
// 0 when no position has both timestamps.
func avgDurationHours(positions []Position) float64 {
	var total float64
	var n int
	for _, p := range positions {
		if p.ExitTime.IsZero() || p.EntryTime.IsZero() {
			continue
		}
		total += p.ExitTime.Sub(p.EntryTime).Hours()
		n++
	}
	if n == 0 {
		return 0
	}
	return total / float64(n)
}

// Round rounds half away from zero to the given number of decimals.
func Round(v float64, places int32) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return v
	}
	f, _ := decimal.NewFromFloat(v).Round(places).Float64()
	return f
}

// roundFinite rounds like Round but maps non-finite values to nil so the
// result stays JSON-serializable.
func roundFinite(v float64, places int32) *float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	f := Round(v, places)
	return &f
}
