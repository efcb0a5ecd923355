// Package marketdata defines the candle provider contract and a
// registry for looking up providers by name.
package marketdata

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/quantfold/fxlab/internal/core"
)

// Provider fetches historical candles for a symbol.
type Provider interface {
	// Name returns the provider identifier, e.g. "yahoo".
	Name() string

	// Fetch returns candles in ascending time order for the half-open
	// window [start, end). An empty window yields core.ErrNoData.
	Fetch(ctx context.Context, symbol string, tf core.Timeframe, start, end time.Time) ([]core.Candle, error)
}

// Registry manages market data providers
type Registry struct {
	mu        sync.RWMutex
	providers map[string]Provider
}

// NewRegistry creates a new provider registry
func NewRegistry() *Registry {
	return &Registry{
		providers: make(map[string]Provider),
	}
}

// Register adds a provider to the registry
func (r *Registry) Register(p Provider) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.providers[p.Name()] = p
}

// Get retrieves a provider by name
func (r *Registry) Get(name string) (Provider, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.providers[name]
	return p, ok
}

// Names returns the registered provider names in sorted order
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.providers))
	for name := range r.providers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
