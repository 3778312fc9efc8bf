package collector

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"MarketSandbox/internal/model"
	"MarketSandbox/internal/store"
)

// MockSource returns fixed histories for development and testing.
type MockSource struct {
	Data map[string][]float64
}

func (m *MockSource) Name() string { return "mock" }

func (m *MockSource) History(symbol string) (*model.History, error) {
	values, ok := m.Data[store.Key(symbol)]
	if !ok {
		return nil, fmt.Errorf("mock %s: %w", symbol, ErrNotFound)
	}
	h := &model.History{Ticker: store.Key(symbol), Points: make([]model.PricePoint, len(values))}
	for i, v := range values {
		h.Points[i] = model.PricePoint{Date: fmt.Sprintf("day-%d", i+1), Value: v}
	}
	return h, nil
}

func (m *MockSource) Latest(symbol string) (float64, error) {
	values := m.Data[store.Key(symbol)]
	if len(values) == 0 {
		return 0, fmt.Errorf("mock %s: %w", symbol, ErrNotFound)
	}
	return values[len(values)-1], nil
}

// Collector resolves current and historical prices for a symbol from the
// last simulated prices, the imported history and static fallback quotes.
type Collector struct {
	Source Source
	Prices *store.PriceCache
	Quotes map[string]float64
	Logger *zap.Logger
}

// NewCollector creates a new Collector. quotes are keyed by ticker.
func NewCollector(src Source, prices *store.PriceCache, quotes map[string]float64, logger *zap.Logger) *Collector {
	q := make(map[string]float64, len(quotes))
	for k, v := range quotes {
		q[store.Key(k)] = v
	}
	return &Collector{Source: src, Prices: prices, Quotes: q, Logger: logger}
}

// CurrentPrice returns the last simulated price, else the latest imported
// value, else the fallback quote.
func (c *Collector) CurrentPrice(symbol string) (float64, error) {
	if p, ok := c.Prices.Get(symbol); ok {
		return p, nil
	}
	if c.Source != nil {
		v, err := c.Source.Latest(symbol)
		if err == nil && v > 0 {
			return v, nil
		}
		if err != nil && !errors.Is(err, ErrNotFound) {
			c.Logger.Warn("latest value lookup failed, using fallback quote",
				zap.String("symbol", store.Key(symbol)), zap.String("source", c.Source.Name()), zap.Error(err))
		}
	}
	if q, ok := c.Quotes[store.Key(symbol)]; ok {
		return q, nil
	}
	return 0, fmt.Errorf("no price for %s: %w", store.Key(symbol), ErrNotFound)
}

// Closes returns the imported history values for symbol.
func (c *Collector) Closes(symbol string) ([]float64, error) {
	if c.Source == nil {
		return nil, fmt.Errorf("no history source: %w", ErrNotFound)
	}
	h, err := c.Source.History(symbol)
	if err != nil {
		return nil, fmt.Errorf("load history: %w", err)
	}
	return h.Values(), nil
}
