// Package store holds the process-wide symbol caches: the last simulated
// price per symbol and the stored price averages. Nothing here is persisted.
package store

import (
	"fmt"
	"strings"
	"sync"

	"MarketSandbox/internal/calculator"
)

// PriceCache maps case-normalized symbols to a price. It is safe for
// concurrent use.
type PriceCache struct {
	mu     sync.RWMutex
	prices map[string]float64
}

// NewPriceCache returns an empty cache.
func NewPriceCache() *PriceCache {
	return &PriceCache{prices: make(map[string]float64)}
}

// Key normalizes a symbol the way the cache stores it.
func Key(symbol string) string {
	return strings.ToUpper(strings.TrimSpace(symbol))
}

// Get returns the stored price, or false for an unknown symbol.
func (c *PriceCache) Get(symbol string) (float64, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	p, ok := c.prices[Key(symbol)]
	return p, ok
}

// Set stores price under symbol, replacing any previous value.
func (c *PriceCache) Set(symbol string, price float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.prices[Key(symbol)] = price
}

// All returns a copy of every stored price.
func (c *PriceCache) All() map[string]float64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make(map[string]float64, len(c.prices))
	for k, v := range c.prices {
		out[k] = v
	}
	return out
}

// Formatted returns every stored price rendered with the given decimals.
func (c *PriceCache) Formatted(decimals int) map[string]string {
	if decimals < 0 {
		decimals = 0
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make(map[string]string, len(c.prices))
	for k, v := range c.prices {
		out[k] = fmt.Sprintf("%.*f", decimals, v)
	}
	return out
}

// Len reports how many symbols are stored.
func (c *PriceCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.prices)
}

// Clear removes every entry.
func (c *PriceCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	clear(c.prices)
}

// ComputeAndStore averages prices and stores the mean under symbol. Empty
// input stores nothing and returns false.
func (c *PriceCache) ComputeAndStore(symbol string, prices []float64) (float64, bool) {
	avg, ok := calculator.Mean(prices)
	if !ok {
		return 0, false
	}
	c.Set(symbol, avg)
	return avg, true
}

// BulkComputeAndStore averages every non-empty list under one lock and
// returns the stored means keyed by normalized symbol.
func (c *PriceCache) BulkComputeAndStore(items map[string][]float64) map[string]float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make(map[string]float64, len(items))
	for sym, prices := range items {
		avg, ok := calculator.Mean(prices)
		if !ok {
			continue
		}
		k := Key(sym)
		c.prices[k] = avg
		out[k] = avg
	}
	return out
}
