// internal/storage/archive/reports_test.go
package archive

import (
	"context"
	"errors"
	"testing"

	"github.com/quantfold/fxlab/internal/backtest"
	"github.com/quantfold/fxlab/internal/core"
)

func testReport() *backtest.Report {
	return &backtest.Report{
		Summary: backtest.Summary{
			TotalTrades:   3,
			WinningTrades: 2,
			LosingTrades:  1,
			WinRate:       66.67,
			TotalPnL:      90,
		},
		EquityCurve:   []float64{50, 30, 90},
		DrawdownCurve: []float64{0, 20, 0},
	}
}

func TestReportPath(t *testing.T) {
	got := ReportPath("EURUSD", "abc-123")
	want := "reports/EURUSD/abc-123.json"
	if got != want {
		t.Errorf("ReportPath = %q, want %q", got, want)
	}
}

func TestReports_SaveAndLoad(t *testing.T) {
	fs, err := NewLocalFS(t.TempDir())
	if err != nil {
		t.Fatalf("NewLocalFS: %v", err)
	}
	reports := NewReports(fs)
	ctx := context.Background()

	p, err := reports.Save(ctx, "EURUSD", "run-1", testReport())
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if p != "reports/EURUSD/run-1.json" {
		t.Errorf("unexpected path: %s", p)
	}

	got, err := reports.Load(ctx, "EURUSD", "run-1")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.Summary.TotalTrades != 3 {
		t.Errorf("total_trades = %d, want 3", got.Summary.TotalTrades)
	}
	if len(got.EquityCurve) != 3 {
		t.Errorf("equity curve length = %d, want 3", len(got.EquityCurve))
	}
}

func TestReports_LoadMissing(t *testing.T) {
	fs, _ := NewLocalFS(t.TempDir())
	reports := NewReports(fs)

	_, err := reports.Load(context.Background(), "EURUSD", "nope")
	if !errors.Is(err, core.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestReports_List(t *testing.T) {
	fs, _ := NewLocalFS(t.TempDir())
	reports := NewReports(fs)
	ctx := context.Background()

	reports.Save(ctx, "EURUSD", "run-1", testReport())
	reports.Save(ctx, "EURUSD", "run-2", testReport())
	reports.Save(ctx, "GBPJPY", "run-3", testReport())

	ids, err := reports.List(ctx, "EURUSD")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(ids) != 2 {
		t.Errorf("expected 2 reports for EURUSD, got %d", len(ids))
	}

	ids, _ = reports.List(ctx, "USDJPY")
	if len(ids) != 0 {
		t.Errorf("expected no reports for USDJPY, got %d", len(ids))
	}
}
