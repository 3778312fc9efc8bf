// Package simulator builds synthetic price paths and share-weighted
// portfolio curves.
package simulator

import (
	"math"

	"MarketSandbox/internal/model"
	"MarketSandbox/internal/noise"
)

const (
	MaxSteps = 1_000_000
	MinNu    = 1
	MaxNu    = 200
)

// TrendBias is the per-step log bias of the up/down trends (about 25bp).
var TrendBias = math.Log(1.0025)

// Validate checks cfg against the accepted parameter ranges.
func Validate(cfg model.SimulationConfig) error {
	switch {
	case !(cfg.InitialPrice > 0):
		return invalid("initial_price", "must be positive, got %v", cfg.InitialPrice)
	case !(cfg.Volatility > 0):
		return invalid("sigma", "must be positive, got %v", cfg.Volatility)
	case !(cfg.ClipLimit > 0):
		return invalid("clip_limit", "must be positive, got %v", cfg.ClipLimit)
	case cfg.Steps < 1:
		return invalid("n_steps", "must be at least 1, got %d", cfg.Steps)
	case cfg.Steps > MaxSteps:
		return invalid("n_steps", "must be at most %d, got %d", MaxSteps, cfg.Steps)
	case cfg.Nu < MinNu || cfg.Nu > MaxNu:
		return invalid("nu", "must be within [%d, %d], got %d", MinNu, MaxNu, cfg.Nu)
	case math.IsNaN(cfg.Drift) || math.IsInf(cfg.Drift, 0):
		return invalid("mu", "must be finite")
	case cfg.ReferencePrice != nil && !(*cfg.ReferencePrice > 0):
		return invalid("reference_price", "must be positive, got %v", *cfg.ReferencePrice)
	}
	switch cfg.Trend {
	case "", model.TrendStandard, model.TrendUp, model.TrendDown:
	default:
		return invalid("trend", "unknown trend %q", cfg.Trend)
	}
	return nil
}

// Simulate builds one multiplicative price path in log space. Identical
// configs with the same seed give identical paths. A drift so large that a
// price overflows or underflows to zero is reported as a ValidationError.
func Simulate(cfg model.SimulationConfig) (model.PricePath, error) {
	if err := Validate(cfg); err != nil {
		return model.PricePath{}, err
	}

	n := float64(cfg.Steps)
	drift := cfg.Drift / n
	vol := cfg.Volatility / math.Sqrt(n)
	switch cfg.Trend {
	case model.TrendUp:
		drift += TrendBias
	case model.TrendDown:
		drift -= TrendBias
	}

	shocks := noise.Seeded(cfg.Seed).StudentT(cfg.Steps, cfg.Nu, vol)

	prices := make([]float64, cfg.Steps)
	price := cfg.InitialPrice
	for i, e := range shocks {
		price *= math.Exp(drift + clip(e, cfg.ClipLimit))
		if !(price > 0) || math.IsInf(price, 1) {
			return model.PricePath{}, invalid("mu", "price leaves the representable range at step %d", i+1)
		}
		prices[i] = price
	}

	ref := cfg.InitialPrice
	if cfg.ReferencePrice != nil {
		ref = *cfg.ReferencePrice
	}
	final := prices[len(prices)-1]
	return model.PricePath{
		Prices:     prices,
		FinalPrice: final,
		ChangeRate: (final - ref) / ref,
	}, nil
}

func clip(v, limit float64) float64 {
	if v > limit {
		return limit
	}
	if v < -limit {
		return -limit
	}
	return v
}
