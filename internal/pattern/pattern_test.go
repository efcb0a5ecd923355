package pattern

import (
	"testing"
	"time"

	"github.com/quantfold/fxlab/internal/core"
)

func candle(open, high, low, close float64) core.Candle {
	return core.Candle{
		Symbol:    "EURUSD",
		Timeframe: core.Timeframe1h,
		Open:      open,
		High:      high,
		Low:       low,
		Close:     close,
		Time:      time.Now(),
	}
}

// flat is a doji-free filler candle that matches no pattern
func flat(price float64) core.Candle {
	return candle(price, price+0.0010, price-0.0010, price+0.0005)
}

func names(matches []Match) []string {
	out := make([]string, len(matches))
	for i, m := range matches {
		out[i] = m.Name
	}
	return out
}

func contains(matches []Match, name string) bool {
	for _, m := range matches {
		if m.Name == name {
			return true
		}
	}
	return false
}

func TestDetect_Hammer(t *testing.T) {
	candles := []core.Candle{
		// long lower wick, tiny upper wick
		candle(1.1000, 1.1012, 1.0970, 1.1010),
		flat(1.1010),
	}

	matches := Detect(candles)
	if !contains(matches, Hammer) {
		t.Fatalf("expected hammer, got %v", names(matches))
	}

	for _, m := range matches {
		if m.Name == Hammer {
			if m.Trend != core.TrendBullish {
				t.Errorf("hammer trend = %s, want BULLISH", m.Trend)
			}
			if m.Confidence != 0.7 {
				t.Errorf("hammer confidence = %f, want 0.7", m.Confidence)
			}
			if m.Index != 0 {
				t.Errorf("hammer index = %d, want 0", m.Index)
			}
		}
	}
}

func TestDetect_HangingMan(t *testing.T) {
	candles := []core.Candle{
		// long upper wick, tiny lower wick
		candle(1.1000, 1.1025, 1.0988, 1.0990),
		flat(1.0990),
	}

	matches := Detect(candles)
	if !contains(matches, HangingMan) {
		t.Fatalf("expected hanging_man, got %v", names(matches))
	}
}

func TestDetect_BullishEngulfing(t *testing.T) {
	candles := []core.Candle{
		candle(1.1010, 1.1012, 1.0998, 1.1000), // bearish
		candle(1.0995, 1.1022, 1.0993, 1.1020), // bullish, engulfs previous body
		flat(1.1020),
	}

	matches := Detect(candles)

	found := false
	for _, m := range matches {
		if m.Name == Engulfing && m.Trend == core.TrendBullish {
			found = true
			if m.Confidence != 0.6 {
				t.Errorf("engulfing confidence = %f, want 0.6", m.Confidence)
			}
			if m.Index != 1 {
				t.Errorf("engulfing index = %d, want 1", m.Index)
			}
		}
	}
	if !found {
		t.Fatalf("expected bullish engulfing, got %v", names(matches))
	}
}

func TestDetect_BearishEngulfing(t *testing.T) {
	candles := []core.Candle{
		candle(1.1000, 1.1012, 1.0998, 1.1010), // bullish
		candle(1.1015, 1.1017, 1.0993, 1.0995), // bearish, engulfs previous body
		flat(1.0995),
	}

	matches := Detect(candles)

	found := false
	for _, m := range matches {
		if m.Name == Engulfing && m.Trend == core.TrendBearish {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected bearish engulfing, got %v", names(matches))
	}
}

func TestDetect_ThreeWhiteSoldiers(t *testing.T) {
	candles := []core.Candle{
		candle(1.1000, 1.1012, 1.0999, 1.1010),
		candle(1.1008, 1.1022, 1.1007, 1.1020),
		candle(1.1018, 1.1032, 1.1017, 1.1030),
		flat(1.1030),
	}

	matches := Detect(candles)

	found := false
	for _, m := range matches {
		if m.Name == ThreeWhiteSoldiers {
			found = true
			if m.Confidence != 0.9 {
				t.Errorf("confidence = %f, want 0.9", m.Confidence)
			}
			if m.Index != 2 {
				t.Errorf("index = %d, want 2", m.Index)
			}
		}
	}
	if !found {
		t.Fatalf("expected three_white_soldiers, got %v", names(matches))
	}
}

func TestDetect_ThreeBlackCrows(t *testing.T) {
	candles := []core.Candle{
		candle(1.1030, 1.1031, 1.1018, 1.1020),
		candle(1.1022, 1.1023, 1.1008, 1.1010),
		candle(1.1012, 1.1013, 1.0998, 1.1000),
		flat(1.1000),
	}

	matches := Detect(candles)
	if !contains(matches, ThreeBlackCrows) {
		t.Fatalf("expected three_black_crows, got %v", names(matches))
	}
}

func TestDetect_LastCandleExcluded(t *testing.T) {
	// The hammer sits on the final bar, which is still forming
	candles := []core.Candle{
		flat(1.1000),
		candle(1.1000, 1.1012, 1.0970, 1.1010),
	}

	matches := Detect(candles)
	if contains(matches, Hammer) {
		t.Errorf("expected no hammer on the final bar, got %v", names(matches))
	}
}

func TestDetect_Empty(t *testing.T) {
	if got := Detect(nil); len(got) != 0 {
		t.Errorf("expected no matches, got %v", names(got))
	}
	if got := Detect([]core.Candle{flat(1.1)}); len(got) != 0 {
		t.Errorf("expected no matches for single candle, got %v", names(got))
	}
}
