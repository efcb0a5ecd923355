package backtest

import (
	"encoding/json"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quantfold/fxlab/internal/core"
)

func sampleResult() *Result {
	r := &Result{Positions: []Position{
		closedLong(1.1000, 1.1050, 10000),
		closedLong(1.1010, 1.0990, 10000),
		closedLong(1.1020, 1.1080, 10000),
	}}
	r.CalculateMetrics()
	return r
}

func TestGenerateReport_Summary(t *testing.T) {
	report := GenerateReport(sampleResult())

	assert.Equal(t, 3, report.Summary.TotalTrades)
	assert.Equal(t, 2, report.Summary.WinningTrades)
	assert.InDelta(t, 66.67, report.Summary.WinRate, 1e-9)
	require.NotNil(t, report.Summary.ProfitFactor)
	assert.InDelta(t, 5.5, *report.Summary.ProfitFactor, 1e-9)
	assert.InDelta(t, 90, report.Summary.TotalPnL, 1e-9)
	assert.InDelta(t, 20, report.Summary.MaxDrawdown, 1e-9)
	assert.InDelta(t, 2, report.Summary.AvgTradeDurationHours, 1e-9)
}

func TestGenerateReport_Trades(t *testing.T) {
	report := GenerateReport(sampleResult())

	require.Len(t, report.Trades, 3)
	tr := report.Trades[0]
	assert.Equal(t, "long", tr.Type)
	assert.Equal(t, 1.1, tr.EntryPrice)
	assert.Equal(t, 1.105, tr.ExitPrice)
	assert.Equal(t, 50.0, tr.PnL)
	assert.Equal(t, "take_profit", tr.ExitReason)

	// Timestamps are RFC3339.
	_, err := time.Parse(time.RFC3339, tr.EntryTime)
	assert.NoError(t, err)
	_, err = time.Parse(time.RFC3339, tr.ExitTime)
	assert.NoError(t, err)
}

func TestGenerateReport_InfiniteProfitFactor(t *testing.T) {
	r := &Result{Positions: []Position{closedLong(1.1000, 1.1050, 10000)}}
	r.CalculateMetrics()
	require.True(t, math.IsInf(r.ProfitFactor, 1))

	report := GenerateReport(r)
	assert.Nil(t, report.Summary.ProfitFactor, "infinite profit factor serializes as null")

	// The whole report must stay JSON-serializable.
	_, err := json.Marshal(report)
	assert.NoError(t, err)
}

func TestGenerateReport_Empty(t *testing.T) {
	r := &Result{}
	r.CalculateMetrics()
	report := GenerateReport(r)

	assert.Equal(t, 0, report.Summary.TotalTrades)
	assert.Equal(t, 0.0, report.Summary.AvgTradeDurationHours)
	assert.Empty(t, report.Trades)
}

func TestGenerateReport_CurvesPassThrough(t *testing.T) {
	result := sampleResult()
	report := GenerateReport(result)

	assert.Equal(t, result.EquityCurve, report.EquityCurve)
	assert.Equal(t, result.DrawdownCurve, report.DrawdownCurve)
}

func TestRound(t *testing.T) {
	assert.Equal(t, 1.1, Round(1.10004, 2))
	assert.Equal(t, 1.10004, Round(1.100044, 5))
	assert.Equal(t, 66.67, Round(66.666666, 2))
	assert.Equal(t, -20.0, Round(-19.999999999, 2))
	assert.True(t, math.IsInf(Round(math.Inf(1), 2), 1))
}

func TestGenerateReport_OpenPositionOmitsExitTime(t *testing.T) {
	t0 := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	p := NewPosition("EURUSD", core.DirectionLong, 1.1, 1.09, 1.12, 10000, t0)
	r := &Result{Positions: []Position{*p}}
	r.CalculateMetrics()

	report := GenerateReport(r)
	require.Len(t, report.Trades, 1)
	assert.Empty(t, report.Trades[0].ExitTime)
	assert.Equal(t, 0.0, report.Summary.AvgTradeDurationHours)
}
