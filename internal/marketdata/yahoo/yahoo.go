// Package yahoo fetches historical candles from the Yahoo Finance
// chart API.
package yahoo

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"regexp"
	"time"

	"github.com/quantfold/fxlab/internal/core"
)

const defaultBaseURL = "https://query1.finance.yahoo.com/v8/finance/chart"

// validSymbol matches pairs like EURUSD, tickers like AAPL, and
// already-suffixed Yahoo symbols like EURUSD=X or 0700.HK
var validSymbol = regexp.MustCompile(`^[A-Za-z0-9]{1,10}(=X|\.[A-Za-z]{1,4})?$`)

// validateSymbol checks if a symbol has valid format
func validateSymbol(symbol string) error {
	if symbol == "" {
		return fmt.Errorf("symbol cannot be empty")
	}
	if len(symbol) > 20 {
		return fmt.Errorf("symbol too long: %s", symbol)
	}
	if !validSymbol.MatchString(symbol) {
		return fmt.Errorf("invalid symbol format: %s", symbol)
	}
	return nil
}

// Yahoo implements the Yahoo Finance provider
type Yahoo struct {
	client  *http.Client
	baseURL string
}

// New creates a new Yahoo provider
func New() *Yahoo {
	return NewWithBaseURL(defaultBaseURL)
}

// NewWithBaseURL creates a Yahoo provider against a custom endpoint,
// used in tests
func NewWithBaseURL(baseURL string) *Yahoo {
	return &Yahoo{
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
		baseURL: baseURL,
	}
}

func (y *Yahoo) Name() string {
	return "yahoo"
}

// toYahooSymbol converts internal symbol format to Yahoo format.
// Bare currency pairs get the =X suffix: EURUSD -> EURUSD=X
func (y *Yahoo) toYahooSymbol(symbol string) string {
	if forexPair.MatchString(symbol) {
		return symbol + "=X"
	}
	return symbol
}

// forexPair matches a six-letter currency pair without a suffix
var forexPair = regexp.MustCompile(`^[A-Z]{6}$`)

// Fetch fetches historical OHLCV data
func (y *Yahoo) Fetch(ctx context.Context, symbol string, tf core.Timeframe, start, end time.Time) ([]core.Candle, error) {
	if err := validateSymbol(symbol); err != nil {
		return nil, core.WrapError(core.ErrProviderFailed, err)
	}
	yahooSymbol := y.toYahooSymbol(symbol)
	yahooInterval := y.toYahooInterval(tf)

	url := fmt.Sprintf("%s/%s?interval=%s&period1=%d&period2=%d",
		y.baseURL, yahooSymbol, yahooInterval, start.Unix(), end.Unix())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, core.WrapError(core.ErrProviderFailed, fmt.Errorf("creating request: %w", err))
	}
	req.Header.Set("Accept", "application/json")

	resp, err := y.client.Do(req)
	if err != nil {
		return nil, core.WrapError(core.ErrProviderFailed, fmt.Errorf("fetching history: %w", err))
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, core.WrapError(core.ErrProviderFailed, fmt.Errorf("unexpected status: %d", resp.StatusCode))
	}

	var result chartResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, core.WrapError(core.ErrProviderFailed, fmt.Errorf("decoding response: %w", err))
	}

	if result.Chart.Error != nil {
		return nil, core.WrapError(core.ErrProviderFailed,
			fmt.Errorf("yahoo error: %s", result.Chart.Error.Description))
	}

	if len(result.Chart.Result) == 0 {
		return nil, core.WrapError(core.ErrNoData, fmt.Errorf("no data for symbol: %s", symbol))
	}

	r := result.Chart.Result[0]
	if len(r.Indicators.Quote) == 0 {
		return nil, core.WrapError(core.ErrNoData, fmt.Errorf("no quote data for symbol: %s", symbol))
	}

	timestamps := r.Timestamp
	quotes := r.Indicators.Quote[0]

	// Yahoo sometimes returns quote arrays shorter than the timestamp
	// list; bound the pass by the shortest series.
	n := len(timestamps)
	for _, series := range [][]*float64{quotes.Open, quotes.High, quotes.Low, quotes.Close} {
		if len(series) < n {
			n = len(series)
		}
	}

	candles := make([]core.Candle, 0, n)
	for i := 0; i < n; i++ {
		ts := timestamps[i]
		if quotes.Open[i] == nil || quotes.High[i] == nil || quotes.Low[i] == nil || quotes.Close[i] == nil {
			continue // Skip missing data
		}
		var volume int64
		if i < len(quotes.Volume) && quotes.Volume[i] != nil {
			volume = int64(*quotes.Volume[i])
		}
		candles = append(candles, core.Candle{
			Symbol:    symbol,
			Timeframe: tf,
			Open:      *quotes.Open[i],
			High:      *quotes.High[i],
			Low:       *quotes.Low[i],
			Close:     *quotes.Close[i],
			Volume:    volume,
			Time:      time.Unix(ts, 0).UTC(),
		})
	}

	if len(candles) == 0 {
		return nil, core.WrapError(core.ErrNoData, fmt.Errorf("no data for symbol: %s", symbol))
	}

	return candles, nil
}

// toYahooInterval maps a timeframe to a chart API interval. Yahoo has
// no 4h bars, so those requests fall back to hourly.
func (y *Yahoo) toYahooInterval(tf core.Timeframe) string {
	switch tf {
	case core.Timeframe1m, core.Timeframe5m, core.Timeframe15m:
		return string(tf)
	case core.Timeframe1h, core.Timeframe4h:
		return "1h"
	case core.Timeframe1d:
		return "1d"
	default:
		return "1d"
	}
}

// Yahoo API response types
type chartResponse struct {
	Chart struct {
		Result []chartResult `json:"result"`
		Error  *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

type chartResult struct {
	Meta       chartMeta  `json:"meta"`
	Timestamp  []int64    `json:"timestamp"`
	Indicators indicators `json:"indicators"`
}

type chartMeta struct {
	Currency           string  `json:"currency"`
	Symbol             string  `json:"symbol"`
	RegularMarketPrice float64 `json:"regularMarketPrice"`
	RegularMarketTime  int64   `json:"regularMarketTime"`
}

type indicators struct {
	Quote []quoteIndicator `json:"quote"`
}

type quoteIndicator struct {
	Open   []*float64 `json:"open"`
	High   []*float64 `json:"high"`
	Low    []*float64 `json:"low"`
	Close  []*float64 `json:"close"`
	Volume []*float64 `json:"volume"`
}
