// Package pattern detects candlestick patterns in a candle series.
package pattern

import (
	"math"

	"github.com/quantfold/fxlab/internal/core"
)

// Pattern names
const (
	Hammer             = "hammer"
	HangingMan         = "hanging_man"
	Engulfing          = "engulfing"
	ThreeWhiteSoldiers = "three_white_soldiers"
	ThreeBlackCrows    = "three_black_crows"
)

// weights maps trend and pattern name to a confidence weight
var weights = map[core.Trend]map[string]float64{
	core.TrendBullish: {
		Hammer:             0.7,
		Engulfing:          0.6,
		ThreeWhiteSoldiers: 0.9,
	},
	core.TrendBearish: {
		HangingMan:      0.7,
		Engulfing:       0.6,
		ThreeBlackCrows: 0.9,
	},
}

// Match is a single detected pattern occurrence.
type Match struct {
	Name       string
	Trend      core.Trend
	Confidence float64
	Index      int // position of the completing candle in the input series
}

// Detect scans the series in time order and returns every pattern
// occurrence. The final candle is excluded so patterns are only
// reported on completed bars.
func Detect(candles []core.Candle) []Match {
	var matches []Match

	for i := 0; i < len(candles)-1; i++ {
		cur := candles[i]

		body := cur.Body()
		upperWick := cur.High - math.Max(cur.Open, cur.Close)
		lowerWick := math.Min(cur.Open, cur.Close) - cur.Low

		if lowerWick > math.Abs(body)*2 && upperWick < math.Abs(body)*0.5 {
			matches = append(matches, match(Hammer, core.TrendBullish, i))
		}

		if upperWick > math.Abs(body)*2 && lowerWick < math.Abs(body)*0.5 {
			matches = append(matches, match(HangingMan, core.TrendBearish, i))
		}

		if i > 0 {
			prev := candles[i-1]
			prevBody := prev.Body()

			if prevBody < 0 && body > 0 && cur.Open < prev.Close && cur.Close > prev.Open {
				matches = append(matches, match(Engulfing, core.TrendBullish, i))
			}
			if prevBody > 0 && body < 0 && cur.Open > prev.Close && cur.Close < prev.Open {
				matches = append(matches, match(Engulfing, core.TrendBearish, i))
			}
		}

		if i >= 2 {
			if threeSoldiers(candles[i-2 : i+1]) {
				matches = append(matches, match(ThreeWhiteSoldiers, core.TrendBullish, i))
			}
			if threeCrows(candles[i-2 : i+1]) {
				matches = append(matches, match(ThreeBlackCrows, core.TrendBearish, i))
			}
		}
	}

	return matches
}

// threeSoldiers reports three consecutive bullish candles with rising opens
func threeSoldiers(window []core.Candle) bool {
	for _, c := range window {
		if !c.Bullish() {
			return false
		}
	}
	return window[1].Open > window[0].Open && window[2].Open > window[1].Open
}

// threeCrows reports three consecutive bearish candles with falling opens
func threeCrows(window []core.Candle) bool {
	for _, c := range window {
		if c.Body() >= 0 {
			return false
		}
	}
	return window[1].Open < window[0].Open && window[2].Open < window[1].Open
}

func match(name string, trend core.Trend, index int) Match {
	return Match{
		Name:       name,
		Trend:      trend,
		Confidence: weights[trend][name],
		Index:      index,
	}
}
