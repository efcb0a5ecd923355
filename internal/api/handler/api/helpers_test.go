// internal/api/handler/api/helpers_test.go
package api

import (
	"context"
	"testing"
	"time"

	"github.com/quantfold/fxlab/internal/app"
	"github.com/quantfold/fxlab/internal/config"
	"github.com/quantfold/fxlab/internal/core"
)

// fakeProvider serves a canned candle series.
type fakeProvider struct {
	candles []core.Candle
	err     error
}

func (f *fakeProvider) Name() string { return "fake" }

func (f *fakeProvider) Fetch(ctx context.Context, symbol string, tf core.Timeframe, start, end time.Time) ([]core.Candle, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.candles, nil
}

func testApp(t *testing.T) *app.App {
	t.Helper()
	cfg := config.Defaults()
	cfg.Archive.Path = t.TempDir()
	a, err := app.New(cfg, nil)
	if err != nil {
		t.Fatalf("app.New failed: %v", err)
	}
	return a
}

// series returns n ascending hourly candles with a mild uptrend.
func series(n int) []core.Candle {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	candles := make([]core.Candle, n)
	price := 1.1000
	for i := range candles {
		candles[i] = core.Candle{
			Symbol:    "EURUSD",
			Timeframe: core.Timeframe1h,
			Open:      price,
			High:      price + 0.0015,
			Low:       price - 0.0010,
			Close:     price + 0.0005,
			Volume:    1000,
			Time:      base.Add(time.Duration(i) * time.Hour),
		}
		price += 0.0005
	}
	return candles
}
