// Package watchlist tracks the symbols the service watches, seeded
// from configuration and mutable at runtime.
package watchlist

import (
	"sort"
	"sync"
)

// Store is a concurrency-safe symbol set.
type Store struct {
	mu      sync.RWMutex
	symbols map[string]struct{}
}

// New creates a store seeded with the given symbols.
func New(symbols ...string) *Store {
	s := &Store{symbols: make(map[string]struct{}, len(symbols))}
	for _, sym := range symbols {
		if sym != "" {
			s.symbols[sym] = struct{}{}
		}
	}
	return s
}

// List returns the watched symbols in sorted order.
func (s *Store) List() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]string, 0, len(s.symbols))
	for sym := range s.symbols {
		out = append(out, sym)
	}
	sort.Strings(out)
	return out
}

// Add inserts a symbol. Returns false if it was already present.
func (s *Store) Add(symbol string) bool {
	if symbol == "" {
		return false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.symbols[symbol]; ok {
		return false
	}
	s.symbols[symbol] = struct{}{}
	return true
}

// Remove deletes a symbol. Returns false if it was not present.
func (s *Store) Remove(symbol string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.symbols[symbol]; !ok {
		return false
	}
	delete(s.symbols, symbol)
	return true
}

// Contains reports whether a symbol is watched.
func (s *Store) Contains(symbol string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok := s.symbols[symbol]
	return ok
}

// Len returns the number of watched symbols.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.symbols)
}
