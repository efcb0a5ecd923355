package core

import "time"

// Timeframe identifies the candle bucket size
type Timeframe string

const (
	Timeframe1m  Timeframe = "1m"
	Timeframe5m  Timeframe = "5m"
	Timeframe15m Timeframe = "15m"
	Timeframe1h  Timeframe = "1h"
	Timeframe4h  Timeframe = "4h"
	Timeframe1d  Timeframe = "1d"
)

// ParseTimeframe validates a timeframe string. The empty string maps to
// the 1h default.
func ParseTimeframe(s string) (Timeframe, error) {
	if s == "" {
		return Timeframe1h, nil
	}
	switch tf := Timeframe(s); tf {
	case Timeframe1m, Timeframe5m, Timeframe15m, Timeframe1h, Timeframe4h, Timeframe1d:
		return tf, nil
	}
	return "", ErrInvalidRange
}

// Duration returns the bucket length of the timeframe.
// Unknown timeframes default to one hour.
func (tf Timeframe) Duration() time.Duration {
	switch tf {
	case Timeframe1m:
		return time.Minute
	case Timeframe5m:
		return 5 * time.Minute
	case Timeframe15m:
		return 15 * time.Minute
	case Timeframe1h:
		return time.Hour
	case Timeframe4h:
		return 4 * time.Hour
	case Timeframe1d:
		return 24 * time.Hour
	}
	return time.Hour
}

// Candle represents one OHLCV bar
type Candle struct {
	Symbol    string
	Timeframe Timeframe
	Open      float64
	High      float64
	Low       float64
	Close     float64
	Volume    int64
	Time      time.Time
}

// IsValid checks the candle has a symbol and consistent prices
func (c Candle) IsValid() bool {
	return c.Symbol != "" && c.High >= c.Low && !c.Time.IsZero()
}

// Bullish reports whether the candle closed above its open
func (c Candle) Bullish() bool {
	return c.Close > c.Open
}

// Body returns the signed candle body (close minus open)
func (c Candle) Body() float64 {
	return c.Close - c.Open
}

// Direction represents the side of a simulated position
type Direction string

const (
	DirectionLong  Direction = "long"
	DirectionShort Direction = "short"
)

// ExitReason explains why a position was closed
type ExitReason string

const (
	ExitStopLoss   ExitReason = "stop_loss"
	ExitTakeProfit ExitReason = "take_profit"
	ExitEndOfTest  ExitReason = "end_of_test"
)

// Trend represents the direction a signal source expects the market to move
type Trend string

const (
	TrendBullish Trend = "BULLISH"
	TrendBearish Trend = "BEARISH"
)

// Direction maps a trend onto the position side it implies
func (t Trend) Direction() Direction {
	if t == TrendBullish {
		return DirectionLong
	}
	return DirectionShort
}

// Analysis is the structured verdict of a signal source over a candle history
type Analysis struct {
	Symbol      string    `json:"symbol"`
	Trend       Trend     `json:"trend"`
	Confidence  float64   `json:"confidence"` // [0, 1]
	EntryPrice  float64   `json:"entry_price"`
	StopLoss    float64   `json:"stop_loss"`
	TargetPrice float64   `json:"target_price"`
	Support     float64   `json:"support"`
	Resistance  float64   `json:"resistance"`
	RiskReward  float64   `json:"risk_reward"`
	Patterns    []string  `json:"patterns,omitempty"`
	Source      string    `json:"source"`
	GeneratedAt time.Time `json:"generated_at"`
}

// IsValid checks the analysis satisfies the signal-source contract
func (a Analysis) IsValid() bool {
	if a.Trend != TrendBullish && a.Trend != TrendBearish {
		return false
	}
	if a.Confidence < 0 || a.Confidence > 1 {
		return false
	}
	return a.StopLoss > 0 && a.TargetPrice > 0
}
