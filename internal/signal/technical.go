package signal

import (
	"context"
	"math"
	"time"

	"go.uber.org/zap"

	"github.com/quantfold/fxlab/internal/core"
	"github.com/quantfold/fxlab/internal/indicator"
	"github.com/quantfold/fxlab/internal/pattern"
)

const (
	trendPeriod = 20 // SMA/EMA lookback for trend detection
	levelWindow = 20 // rolling window for support/resistance
	levelCount  = 3  // extremes averaged into each level

	// Confidence sums the weights of the last few trend-aligned
	// patterns, then normalizes by 1 + sentimentWeight. The sentiment
	// feed itself is not wired, so only the divisor remains.
	recentPatterns  = 3
	sentimentWeight = 0.3

	// Fraction of the distance to the opposing level used as target.
	targetFraction = 0.8
)

// Technical is a rule-based signal source built on moving averages,
// support/resistance levels, and candlestick patterns.
type Technical struct {
	log *zap.Logger
}

// NewTechnical creates the rule-based source. A nil logger disables
// logging.
func NewTechnical(log *zap.Logger) *Technical {
	if log == nil {
		log = zap.NewNop()
	}
	return &Technical{log: log.Named("signal.technical")}
}

func (t *Technical) Name() string {
	return "technical"
}

// Evaluate analyzes the candle history. It returns a nil analysis when
// the history is shorter than the trend lookback.
func (t *Technical) Evaluate(ctx context.Context, candles []core.Candle) (*core.Analysis, error) {
	if len(candles) <= trendPeriod {
		return nil, nil
	}

	closes := make([]float64, len(candles))
	highs := make([]float64, len(candles))
	lows := make([]float64, len(candles))
	for i, c := range candles {
		closes[i] = c.Close
		highs[i] = c.High
		lows[i] = c.Low
	}

	sma, _ := indicator.Last(indicator.SMA(closes, trendPeriod))
	ema, _ := indicator.Last(indicator.EMA(closes, trendPeriod))
	price := closes[len(closes)-1]

	trend := core.TrendBearish
	if price > sma && price > ema {
		trend = core.TrendBullish
	}

	support, _ := indicator.Support(lows, levelWindow, levelCount)
	resistance, _ := indicator.Resistance(highs, levelWindow, levelCount)

	// Rolling levels lag a strong move. When the opposing level sits
	// on the wrong side of price there is no tradable setup.
	entry := price
	if trend == core.TrendBullish && resistance <= entry {
		t.log.Debug("resistance below price, skipping", zap.Float64("price", entry))
		return nil, nil
	}
	if trend == core.TrendBearish && support >= entry {
		t.log.Debug("support above price, skipping", zap.Float64("price", entry))
		return nil, nil
	}

	var target, stop float64
	if trend == core.TrendBullish {
		target = entry + (resistance-entry)*targetFraction
		stop = support
	} else {
		target = entry - (entry-support)*targetFraction
		stop = resistance
	}

	risk := math.Abs(entry - stop)
	reward := math.Abs(target - entry)
	rr := 0.0
	if risk > 0 {
		rr = reward / risk
	}

	confidence, signals := patternConfidence(pattern.Detect(candles), trend)

	t.log.Debug("evaluated",
		zap.String("trend", string(trend)),
		zap.Float64("confidence", confidence),
		zap.Strings("patterns", signals),
	)

	return &core.Analysis{
		Symbol:      candles[0].Symbol,
		Trend:       trend,
		Confidence:  confidence,
		EntryPrice:  entry,
		StopLoss:    stop,
		TargetPrice: target,
		Support:     support,
		Resistance:  resistance,
		RiskReward:  rr,
		Patterns:    signals,
		Source:      t.Name(),
		GeneratedAt: time.Now().UTC(),
	}, nil
}

// patternConfidence sums the weights of the most recent patterns that
// agree with the trend, normalized and capped to [0, 1].
func patternConfidence(matches []pattern.Match, trend core.Trend) (float64, []string) {
	if len(matches) > recentPatterns {
		matches = matches[len(matches)-recentPatterns:]
	}

	var confidence float64
	var signals []string
	for _, m := range matches {
		if m.Trend == trend {
			confidence += m.Confidence
			signals = append(signals, m.Name)
		}
	}

	confidence /= 1 + sentimentWeight
	if confidence > 1 {
		confidence = 1
	}
	return confidence, signals
}
