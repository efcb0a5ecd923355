// internal/storage/trades/memory.go
package trades

import (
	"context"
	"sync"

	"github.com/quantfold/fxlab/internal/analytics"
)

// MemoryStore is an in-memory trade store.
type MemoryStore struct {
	trades  []analytics.Trade
	maxSize int
	mu      sync.RWMutex
}

// NewMemoryStore creates a new in-memory store with max capacity.
// Appends past capacity evict the oldest trades.
func NewMemoryStore(maxSize int) *MemoryStore {
	return &MemoryStore{
		trades:  make([]analytics.Trade, 0, maxSize),
		maxSize: maxSize,
	}
}

// Replace swaps the stored trade set wholesale.
func (m *MemoryStore) Replace(ctx context.Context, trades []analytics.Trade) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.trades = make([]analytics.Trade, len(trades))
	copy(m.trades, trades)
	m.trim()
	return nil
}

// Append adds trades to the stored set.
func (m *MemoryStore) Append(ctx context.Context, trades []analytics.Trade) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.trades = append(m.trades, trades...)
	m.trim()
	return nil
}

// trim drops the oldest trades past capacity. Callers hold the lock.
func (m *MemoryStore) trim() {
	if m.maxSize > 0 && len(m.trades) > m.maxSize {
		m.trades = m.trades[len(m.trades)-m.maxSize:]
	}
}

// List returns trades matching the filter.
func (m *MemoryStore) List(ctx context.Context, filter ListFilter) ([]analytics.Trade, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var result []analytics.Trade
	for _, t := range m.trades {
		if matches(t, filter) {
			result = append(result, t)
		}
	}

	if filter.Offset >= len(result) {
		return []analytics.Trade{}, nil
	}
	if filter.Offset > 0 {
		result = result[filter.Offset:]
	}
	if filter.Limit > 0 && filter.Limit < len(result) {
		result = result[:filter.Limit]
	}

	return result, nil
}

// Count returns the count of matching trades.
func (m *MemoryStore) Count(ctx context.Context, filter ListFilter) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	count := 0
	for _, t := range m.trades {
		if matches(t, filter) {
			count++
		}
	}
	return count, nil
}

func matches(t analytics.Trade, filter ListFilter) bool {
	if filter.Symbol != "" && t.Symbol != filter.Symbol {
		return false
	}
	if filter.Direction != "" && t.Direction != filter.Direction {
		return false
	}
	if filter.ExitReason != "" && t.ExitReason != filter.ExitReason {
		return false
	}
	if !filter.From.IsZero() && t.ExitTime.Before(filter.From) {
		return false
	}
	if !filter.To.IsZero() && t.ExitTime.After(filter.To) {
		return false
	}
	return true
}
