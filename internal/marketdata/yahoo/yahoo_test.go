package yahoo

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/quantfold/fxlab/internal/core"
	"github.com/quantfold/fxlab/internal/marketdata"
)

func TestYahoo_ImplementsProvider(t *testing.T) {
	var _ marketdata.Provider = (*Yahoo)(nil)
}

func TestYahoo_Name(t *testing.T) {
	y := New()
	if y.Name() != "yahoo" {
		t.Errorf("expected 'yahoo', got '%s'", y.Name())
	}
}

func TestYahoo_ToYahooSymbol(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"EURUSD", "EURUSD=X"},
		{"GBPJPY", "GBPJPY=X"},
		{"EURUSD=X", "EURUSD=X"}, // already suffixed
		{"AAPL", "AAPL"},
		{"0700.HK", "0700.HK"},
	}

	y := New()
	for _, tc := range tests {
		got := y.toYahooSymbol(tc.input)
		if got != tc.expected {
			t.Errorf("toYahooSymbol(%s) = %s, want %s", tc.input, got, tc.expected)
		}
	}
}

func TestYahoo_ToYahooInterval(t *testing.T) {
	tests := []struct {
		input    core.Timeframe
		expected string
	}{
		{core.Timeframe1m, "1m"},
		{core.Timeframe15m, "15m"},
		{core.Timeframe1h, "1h"},
		{core.Timeframe4h, "1h"}, // no 4h bars on Yahoo
		{core.Timeframe1d, "1d"},
	}

	y := New()
	for _, tc := range tests {
		got := y.toYahooInterval(tc.input)
		if got != tc.expected {
			t.Errorf("toYahooInterval(%s) = %s, want %s", tc.input, got, tc.expected)
		}
	}
}

func TestYahoo_ValidateSymbol(t *testing.T) {
	valid := []string{"EURUSD", "EURUSD=X", "AAPL", "600519.SH"}
	for _, s := range valid {
		if err := validateSymbol(s); err != nil {
			t.Errorf("validateSymbol(%s) unexpected error: %v", s, err)
		}
	}

	invalid := []string{"", "EUR/USD", "EURUSD=X=X", "averyveryverylongsymbol"}
	for _, s := range invalid {
		if err := validateSymbol(s); err == nil {
			t.Errorf("validateSymbol(%q) expected error", s)
		}
	}
}

func chartBody(timestamps []int64, opens, highs, lows, closes, volumes []string) string {
	join := func(vals []string) string {
		out := ""
		for i, v := range vals {
			if i > 0 {
				out += ","
			}
			out += v
		}
		return out
	}
	return fmt.Sprintf(`{"chart":{"result":[{"meta":{"symbol":"EURUSD=X","currency":"USD"},
		"timestamp":[%s],
		"indicators":{"quote":[{"open":[%s],"high":[%s],"low":[%s],"close":[%s],"volume":[%s]}]}}],
		"error":null}}`,
		join(int64Strings(timestamps)), join(opens), join(highs), join(lows), join(closes), join(volumes))
}

func int64Strings(vals []int64) []string {
	out := make([]string, len(vals))
	for i, v := range vals {
		out[i] = fmt.Sprintf("%d", v)
	}
	return out
}

func TestYahoo_Fetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/EURUSD=X" {
			t.Errorf("expected path /EURUSD=X, got %s", r.URL.Path)
		}
		if got := r.URL.Query().Get("interval"); got != "1h" {
			t.Errorf("expected interval=1h, got %s", got)
		}
		fmt.Fprint(w, chartBody(
			[]int64{1709553600, 1709557200, 1709560800},
			[]string{"1.0850", "null", "1.0862"},
			[]string{"1.0860", "null", "1.0870"},
			[]string{"1.0845", "null", "1.0858"},
			[]string{"1.0855", "null", "1.0866"},
			[]string{"0", "null", "0"},
		))
	}))
	defer srv.Close()

	y := NewWithBaseURL(srv.URL)
	candles, err := y.Fetch(context.Background(), "EURUSD", core.Timeframe1h, time.Unix(1709553600, 0), time.Unix(1709564400, 0))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// the null bar is skipped
	if len(candles) != 2 {
		t.Fatalf("expected 2 candles, got %d", len(candles))
	}
	if candles[0].Close != 1.0855 {
		t.Errorf("expected first close 1.0855, got %v", candles[0].Close)
	}
	if candles[0].Symbol != "EURUSD" {
		t.Errorf("expected internal symbol preserved, got %s", candles[0].Symbol)
	}
	if candles[1].Time != time.Unix(1709560800, 0).UTC() {
		t.Errorf("unexpected second candle time: %v", candles[1].Time)
	}
}

func TestYahoo_FetchRaggedArrays(t *testing.T) {
	// Yahoo has been seen returning quote arrays shorter than the
	// timestamp list; the trailing bars are dropped rather than read
	// out of range.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, chartBody(
			[]int64{1709553600, 1709557200, 1709560800},
			[]string{"1.0850", "1.0855"},
			[]string{"1.0860", "1.0865"},
			[]string{"1.0845", "1.0850"},
			[]string{"1.0855", "1.0860"},
			[]string{"0"},
		))
	}))
	defer srv.Close()

	y := NewWithBaseURL(srv.URL)
	candles, err := y.Fetch(context.Background(), "EURUSD", core.Timeframe1h, time.Unix(1709553600, 0), time.Unix(1709564400, 0))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(candles) != 2 {
		t.Fatalf("expected 2 candles, got %d", len(candles))
	}
	if candles[1].Close != 1.0860 {
		t.Errorf("expected second close 1.0860, got %v", candles[1].Close)
	}
	if candles[1].Volume != 0 {
		t.Errorf("expected zero volume for missing entry, got %d", candles[1].Volume)
	}
}

func TestYahoo_FetchNoData(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"chart":{"result":[],"error":null}}`)
	}))
	defer srv.Close()

	y := NewWithBaseURL(srv.URL)
	_, err := y.Fetch(context.Background(), "EURUSD", core.Timeframe1h, time.Now().Add(-time.Hour), time.Now())
	if !errors.Is(err, core.ErrNoData) {
		t.Errorf("expected ErrNoData, got %v", err)
	}
}

func TestYahoo_FetchAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"chart":{"result":null,"error":{"code":"Not Found","description":"No data found"}}}`)
	}))
	defer srv.Close()

	y := NewWithBaseURL(srv.URL)
	_, err := y.Fetch(context.Background(), "EURUSD", core.Timeframe1h, time.Now().Add(-time.Hour), time.Now())
	if !errors.Is(err, core.ErrProviderFailed) {
		t.Errorf("expected ErrProviderFailed, got %v", err)
	}
}

func TestYahoo_FetchBadStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	y := NewWithBaseURL(srv.URL)
	_, err := y.Fetch(context.Background(), "EURUSD", core.Timeframe1h, time.Now().Add(-time.Hour), time.Now())
	if !errors.Is(err, core.ErrProviderFailed) {
		t.Errorf("expected ErrProviderFailed, got %v", err)
	}
}

func TestYahoo_FetchInvalidSymbol(t *testing.T) {
	y := New()
	_, err := y.Fetch(context.Background(), "EUR/USD", core.Timeframe1h, time.Now().Add(-time.Hour), time.Now())
	if !errors.Is(err, core.ErrProviderFailed) {
		t.Errorf("expected ErrProviderFailed, got %v", err)
	}
}
