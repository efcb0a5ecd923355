// internal/storage/trades/interface.go
package trades

import (
	"context"
	"time"

	"github.com/quantfold/fxlab/internal/analytics"
	"github.com/quantfold/fxlab/internal/core"
)

// Store defines the interface for trade history persistence.
type Store interface {
	// Replace swaps the stored trade set wholesale.
	Replace(ctx context.Context, trades []analytics.Trade) error

	// Append adds trades to the stored set.
	Append(ctx context.Context, trades []analytics.Trade) error

	// List retrieves trades matching the filter, in insertion order.
	List(ctx context.Context, filter ListFilter) ([]analytics.Trade, error)

	// Count returns the number of trades matching the filter.
	Count(ctx context.Context, filter ListFilter) (int, error)
}

// ListFilter defines criteria for listing trades.
type ListFilter struct {
	Symbol     string
	Direction  core.Direction
	ExitReason core.ExitReason
	From       time.Time
	To         time.Time
	Limit      int
	Offset     int
}
