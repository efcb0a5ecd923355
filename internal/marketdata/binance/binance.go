// Package binance fetches historical candles from the Binance
// public klines API. Useful for crypto pairs like BTCUSDT.
package binance

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/quantfold/fxlab/internal/core"
)

const defaultBaseURL = "https://api.binance.com"

// Binance implements the Binance provider
type Binance struct {
	client  *http.Client
	baseURL string
}

// New creates a new Binance provider
func New() *Binance {
	return NewWithBaseURL(defaultBaseURL)
}

// NewWithBaseURL creates a Binance provider against a custom endpoint,
// used in tests
func NewWithBaseURL(baseURL string) *Binance {
	return &Binance{
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
		baseURL: baseURL,
	}
}

func (b *Binance) Name() string {
	return "binance"
}

// Fetch fetches historical OHLCV data from Binance
func (b *Binance) Fetch(ctx context.Context, symbol string, tf core.Timeframe, start, end time.Time) ([]core.Candle, error) {
	url := fmt.Sprintf("%s/api/v3/klines?symbol=%s&interval=%s&startTime=%d&endTime=%d&limit=1000",
		b.baseURL, symbol, b.toInterval(tf), start.UnixMilli(), end.UnixMilli())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, core.WrapError(core.ErrProviderFailed, fmt.Errorf("creating request: %w", err))
	}
	req.Header.Set("Accept", "application/json")

	resp, err := b.client.Do(req)
	if err != nil {
		return nil, core.WrapError(core.ErrProviderFailed, fmt.Errorf("fetching history: %w", err))
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, core.WrapError(core.ErrProviderFailed, fmt.Errorf("unexpected status: %d", resp.StatusCode))
	}

	var klines [][]any
	if err := json.NewDecoder(resp.Body).Decode(&klines); err != nil {
		return nil, core.WrapError(core.ErrProviderFailed, fmt.Errorf("decoding response: %w", err))
	}

	candles := make([]core.Candle, 0, len(klines))
	for _, k := range klines {
		if len(k) < 6 {
			continue
		}

		openTime, _ := k[0].(float64)
		openStr, _ := k[1].(string)
		highStr, _ := k[2].(string)
		lowStr, _ := k[3].(string)
		closeStr, _ := k[4].(string)
		volumeStr, _ := k[5].(string)

		open, _ := strconv.ParseFloat(openStr, 64)
		high, _ := strconv.ParseFloat(highStr, 64)
		low, _ := strconv.ParseFloat(lowStr, 64)
		close, _ := strconv.ParseFloat(closeStr, 64)
		volume, _ := strconv.ParseFloat(volumeStr, 64)

		candles = append(candles, core.Candle{
			Symbol:    symbol,
			Timeframe: tf,
			Open:      open,
			High:      high,
			Low:       low,
			Close:     close,
			Volume:    int64(volume),
			Time:      time.UnixMilli(int64(openTime)).UTC(),
		})
	}

	if len(candles) == 0 {
		return nil, core.WrapError(core.ErrNoData, fmt.Errorf("no data for symbol: %s", symbol))
	}

	return candles, nil
}

func (b *Binance) toInterval(tf core.Timeframe) string {
	switch tf {
	case core.Timeframe1m, core.Timeframe5m, core.Timeframe15m:
		return string(tf)
	case core.Timeframe1h, core.Timeframe4h:
		return string(tf)
	case core.Timeframe1d:
		return "1d"
	default:
		return "1d"
	}
}
