package backtest

import (
	"time"

	"github.com/google/uuid"
	"github.com/quantfold/fxlab/internal/core"
)

// Position is a simulated trade. It is open until Close is called,
// after which the exit fields are immutable.
type Position struct {
	ID          string
	Symbol      string
	Direction   core.Direction
	EntryPrice  float64
	EntryTime   time.Time
	StopLoss    float64
	TargetPrice float64
	Size        float64

	ExitPrice  float64
	ExitTime   time.Time
	ExitReason core.ExitReason
	PnL        float64
}

// NewPosition opens a position. Size must be positive.
func NewPosition(symbol string, dir core.Direction, entry, stop, target, size float64, entryTime time.Time) *Position {
	return &Position{
		ID:          uuid.NewString(),
		Symbol:      symbol,
		Direction:   dir,
		EntryPrice:  entry,
		StopLoss:    stop,
		TargetPrice: target,
		Size:        size,
		EntryTime:   entryTime,
	}
}

// IsClosed reports whether the position has been closed.
func (p *Position) IsClosed() bool {
	return p.ExitReason != ""
}

// CalcPnL returns the profit-or-loss the position would realize at exitPrice.
func (p *Position) CalcPnL(exitPrice float64) float64 {
	if p.Direction == core.DirectionLong {
		return (exitPrice - p.EntryPrice) * p.Size
	}
	return (p.EntryPrice - exitPrice) * p.Size
}

// StopHit reports whether price touches the stop-loss level.
// Longs stop out below entry, shorts above.
func (p *Position) StopHit(price float64) bool {
	if p.Direction == core.DirectionLong {
		return price <= p.StopLoss
	}
	return price >= p.StopLoss
}

// TargetHit reports whether price touches the target level.
func (p *Position) TargetHit(price float64) bool {
	if p.Direction == core.DirectionLong {
		return price >= p.TargetPrice
	}
	return price <= p.TargetPrice
}

// Close closes the position at the given price and realizes P&L.
// Closing an already-closed position is a no-op.
func (p *Position) Close(exitPrice float64, exitTime time.Time, reason core.ExitReason) {
	if p.IsClosed() {
		return
	}
	p.ExitPrice = exitPrice
	p.ExitTime = exitTime
	p.ExitReason = reason
	p.PnL = p.CalcPnL(exitPrice)
}

// Duration returns how long the position was held, 0 if still open.
func (p *Position) Duration() time.Duration {
	if !p.IsClosed() || p.ExitTime.IsZero() {
		return 0
	}
	return p.ExitTime.Sub(p.EntryTime)
}

// IsWin reports whether the closed position was profitable.
func (p *Position) IsWin() bool {
	return p.PnL > 0
}
