package analytics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quantfold/fxlab/internal/core"
)

// tailSet builds 100 trades: 20 losers of -10 and 80 winners of +5, so
// both the 5th and the 1st percentile of the P&L distribution fall on
// the -10 plateau regardless of interpolation details.
func tailSet() []Trade {
	trades := make([]Trade, 0, 100)
	entry := baseTime()
	for i := 0; i < 20; i++ {
		trades = append(trades, tradeAt(entry.Add(time.Duration(i)*time.Hour), core.DirectionLong, -10))
	}
	for i := 0; i < 80; i++ {
		trades = append(trades, tradeAt(entry.Add(time.Duration(20+i)*time.Hour), core.DirectionLong, 5))
	}
	return trades
}

func TestRiskMetrics_VaRAndCVaR(t *testing.T) {
	e := NewEngine(nil)
	e.LoadTrades(tailSet())

	m, ok := e.RiskMetrics()
	require.True(t, ok)

	assert.InDelta(t, -10, m.VaR95, 1e-9)
	assert.InDelta(t, -10, m.VaR99, 1e-9)
	// Every P&L at or below -10 is exactly -10.
	assert.InDelta(t, -10, m.CVaR95, 1e-9)
	assert.InDelta(t, -10, m.CVaR99, 1e-9)
}

func TestRiskMetrics_RiskPerTradeAndRatioStats(t *testing.T) {
	e := NewEngine(nil)
	e.LoadTrades(tailSet())

	m, ok := e.RiskMetrics()
	require.True(t, ok)

	// tradeAt uses entry 1.1000 and stop 1.0950: 50 pips risked, and a
	// constant 2:1 planned ratio.
	assert.InDelta(t, 0.005, m.AvgRiskPerTrade, 1e-9)
	assert.InDelta(t, 2.0, m.RiskReward.Mean, 1e-9)
	assert.InDelta(t, 2.0, m.RiskReward.Median, 1e-9)
	assert.Equal(t, 0.0, m.RiskReward.Std)
	assert.InDelta(t, 2.0, m.RiskReward.Min, 1e-9)
	assert.InDelta(t, 2.0, m.RiskReward.Max, 1e-9)
}

func TestRiskMetrics_UndefinedRatiosExcluded(t *testing.T) {
	degenerate := tradeAt(baseTime(), core.DirectionLong, 10)
	degenerate.StopLoss = degenerate.EntryPrice

	e := NewEngine(nil)
	e.LoadTrades([]Trade{degenerate, tradeAt(baseTime(), core.DirectionLong, 5)})

	m, ok := e.RiskMetrics()
	require.True(t, ok)
	// The defined trade rates 2:1; the degenerate one is excluded rather
	// than poisoning the aggregate with NaN.
	assert.InDelta(t, 2.0, m.RiskReward.Mean, 1e-9)
}
