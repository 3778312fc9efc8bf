package simulator

import (
	"fmt"
	"strings"

	"MarketSandbox/internal/calculator"
	"MarketSandbox/internal/model"
)

// StartingPrice resolves an entry's P0: the mean of History when History is
// non-nil, otherwise Price.
func StartingPrice(index int, e model.PortfolioEntry) (float64, error) {
	if e.History != nil {
		avg, ok := calculator.Mean(e.History)
		if !ok {
			return 0, &ConfigError{Index: index, Reason: "price history is empty"}
		}
		return avg, nil
	}
	if e.Price == nil {
		return 0, &ConfigError{Index: index, Reason: "either price or price history is required"}
	}
	return *e.Price, nil
}

// SimulatePortfolio simulates every entry and sums the paths weighted by
// shares. All entries must produce paths of the same length.
func SimulatePortfolio(start float64, entries []model.PortfolioEntry) (model.PortfolioResult, error) {
	if len(entries) == 0 {
		return model.PortfolioResult{}, &ConfigError{Index: -1, Reason: "no entries"}
	}

	components := make([]model.Component, 0, len(entries))
	for i, e := range entries {
		p0, err := StartingPrice(i, e)
		if err != nil {
			return model.PortfolioResult{}, err
		}
		cfg := e.Config
		cfg.InitialPrice = p0

		path, err := Simulate(cfg)
		if err != nil {
			return model.PortfolioResult{}, fmt.Errorf("portfolio entry %d: %w", i, err)
		}
		if i > 0 && len(path.Prices) != len(components[0].Prices) {
			return model.PortfolioResult{}, &LengthMismatchError{
				Index: i,
				Want:  len(components[0].Prices),
				Got:   len(path.Prices),
			}
		}

		components = append(components, model.Component{
			PricePath: path,
			Symbol:    entrySymbol(i, e.Symbol),
			Shares:    e.Shares,
		})
	}

	series := make([]float64, len(components[0].Prices))
	for _, c := range components {
		for t, p := range c.Prices {
			series[t] += p * c.Shares
		}
	}

	final := series[len(series)-1]
	rate := 0.0
	if start > 0 {
		rate = (final - start) / start
	}
	return model.PortfolioResult{
		Start:      start,
		FinalValue: final,
		ChangeRate: rate,
		Series:     series,
		Components: components,
	}, nil
}

func entrySymbol(index int, symbol string) string {
	if s := strings.ToUpper(strings.TrimSpace(symbol)); s != "" {
		return s
	}
	return fmt.Sprintf("ASSET%d", index+1)
}
