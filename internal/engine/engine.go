package engine

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"MarketSandbox/internal/collector"
	"MarketSandbox/internal/graph"
	"MarketSandbox/internal/model"
	"MarketSandbox/internal/publisher"
	"MarketSandbox/internal/simulator"
	"MarketSandbox/internal/store"
)

// Engine runs simulations on behalf of the HTTP handlers and the scheduler,
// recording last prices and announcing results.
type Engine struct {
	LastPrices *store.PriceCache
	Collector  *collector.Collector
	Publisher  publisher.Publisher
	Logger     *zap.Logger
}

func New(lastPrices *store.PriceCache, col *collector.Collector, pub publisher.Publisher, logger *zap.Logger) *Engine {
	return &Engine{LastPrices: lastPrices, Collector: col, Publisher: pub, Logger: logger}
}

// SimulateSymbol simulates one path and stores its final price as the
// symbol's last price.
func (e *Engine) SimulateSymbol(ctx context.Context, symbol string, cfg model.SimulationConfig) (model.PricePath, error) {
	path, err := simulator.Simulate(cfg)
	if err != nil {
		return model.PricePath{}, err
	}
	key := store.Key(symbol)
	e.LastPrices.Set(key, path.FinalPrice)
	e.publish(ctx, publisher.NewEvent(publisher.KindSimulation, key, path))
	return path, nil
}

// SimulatePortfolio simulates a basket. Entries flagged with useHistory[i]
// take their price history from the collector.
func (e *Engine) SimulatePortfolio(ctx context.Context, start float64, entries []model.PortfolioEntry, useHistory []bool) (model.PortfolioResult, error) {
	for i := range entries {
		if i >= len(useHistory) || !useHistory[i] {
			continue
		}
		if entries[i].Symbol == "" {
			return model.PortfolioResult{}, &simulator.ConfigError{Index: i, Reason: "use_history requires a symbol"}
		}
		closes, err := e.Collector.Closes(entries[i].Symbol)
		if err != nil {
			return model.PortfolioResult{}, fmt.Errorf("entry %d: %w", i, err)
		}
		entries[i].History = closes
	}

	res, err := simulator.SimulatePortfolio(start, entries)
	if err != nil {
		return model.PortfolioResult{}, err
	}
	e.publish(ctx, publisher.NewEvent(publisher.KindPortfolio, "", model.PricePath{
		Prices: res.Series, FinalPrice: res.FinalValue, ChangeRate: res.ChangeRate,
	}))
	return res, nil
}

// Graph generates a smoothed noisy series.
func (e *Engine) Graph(initial []float64, cfg model.GraphConfig) (model.GraphResult, error) {
	return graph.Generate(initial, cfg)
}

// Tick simulates one session for every ticker, starting from its current
// price, and returns the new last prices. Failures are logged per ticker.
func (e *Engine) Tick(ctx context.Context, tickers []string, base model.SimulationConfig) map[string]float64 {
	logger := e.Logger.With(zap.String("method", "Tick"))
	out := make(map[string]float64, len(tickers))
	for _, t := range tickers {
		if ctx.Err() != nil {
			break
		}
		p0, err := e.Collector.CurrentPrice(t)
		if err != nil {
			logger.Warn("no starting price", zap.String("symbol", t), zap.Error(err))
			continue
		}
		cfg := base
		cfg.InitialPrice = p0
		cfg.Seed = nil
		path, err := simulator.Simulate(cfg)
		if err != nil {
			logger.Error("simulate tick", zap.String("symbol", t), zap.Error(err))
			continue
		}
		key := store.Key(t)
		e.LastPrices.Set(key, path.FinalPrice)
		out[key] = path.FinalPrice
		e.publish(ctx, publisher.NewEvent(publisher.KindTick, key, path))
	}
	logger.Info("tick done", zap.Int("symbols", len(out)))
	return out
}

func (e *Engine) publish(ctx context.Context, evt publisher.Event) {
	if err := e.Publisher.Publish(ctx, evt); err != nil {
		e.Logger.Warn("publish event failed",
			zap.String("kind", evt.Kind), zap.String("event_id", evt.ID), zap.Error(err))
	}
}

// Companies prices every watchlist entry at its current price, falling back
// to the entry's own price.
func (e *Engine) Companies(watchlist []model.Company) []model.Company {
	out := make([]model.Company, len(watchlist))
	for i, c := range watchlist {
		out[i] = c
		if p, err := e.Collector.CurrentPrice(c.Ticker); err == nil && p > 0 {
			out[i].Price = p
		}
	}
	return out
}
