// Package graph generates smoothed noisy series for auxiliary charts.
package graph

import (
	"math"

	"MarketSandbox/internal/calculator"
	"MarketSandbox/internal/model"
	"MarketSandbox/internal/noise"
	"MarketSandbox/internal/simulator"
)

const MaxPoints = 1_000_000

// DefaultConfig returns the settings used when a request leaves them out.
func DefaultConfig() model.GraphConfig {
	return model.GraphConfig{
		Points:       100,
		Distribution: model.DistNormal,
		Nu:           5,
		Scale:        1,
		Trend:        model.GraphFlat,
		Window:       5,
		Alpha:        0.3,
	}
}

// Validate checks cfg against the accepted parameter ranges.
func Validate(cfg model.GraphConfig) error {
	switch {
	case cfg.Points < 0 || cfg.Points > MaxPoints:
		return &simulator.ValidationError{Field: "points", Reason: "must be within [0, 1000000]"}
	case !(cfg.Scale >= 0):
		return &simulator.ValidationError{Field: "scale", Reason: "must be non-negative"}
	case !(cfg.ShockProb >= 0 && cfg.ShockProb <= 1):
		return &simulator.ValidationError{Field: "shock_prob", Reason: "must be within [0, 1]"}
	case cfg.Window < 1:
		return &simulator.ValidationError{Field: "window", Reason: "must be at least 1"}
	case cfg.UseEMA && !(cfg.Alpha > 0 && cfg.Alpha < 1):
		return &simulator.ValidationError{Field: "alpha", Reason: "must be strictly between 0 and 1"}
	}
	switch cfg.Distribution {
	case "", model.DistNormal:
	case model.DistStudentT:
		if cfg.Nu < simulator.MinNu || cfg.Nu > simulator.MaxNu {
			return &simulator.ValidationError{Field: "nu", Reason: "must be within [1, 200]"}
		}
	default:
		return &simulator.ValidationError{Field: "distribution", Reason: "unknown distribution " + string(cfg.Distribution)}
	}
	switch cfg.Trend {
	case "", model.GraphFlat, model.GraphUp, model.GraphDown, model.GraphRandom:
	default:
		return &simulator.ValidationError{Field: "trend", Reason: "unknown trend " + string(cfg.Trend)}
	}
	return nil
}

// Generate produces a noisy series around a running average seeded by the
// mean of initial. An empty initial sample yields a nil Average and no error.
//
// Emitted values are |raw|: excursions below zero are reflected because the
// series stands for a price-like quantity.
func Generate(initial []float64, cfg model.GraphConfig) (model.GraphResult, error) {
	settings := echo(cfg, 0)
	avg, ok := calculator.Mean(initial)
	if !ok {
		return model.GraphResult{
			Innovations: []float64{},
			Values:      []float64{},
			Baseline:    []float64{},
			Settings:    settings,
		}, nil
	}
	if err := Validate(cfg); err != nil {
		return model.GraphResult{}, err
	}

	sampler := noise.Seeded(cfg.Seed)
	rng := sampler.Rand()

	sign := 0
	switch cfg.Trend {
	case model.GraphUp:
		sign = 1
	case model.GraphDown:
		sign = -1
	case model.GraphRandom:
		sign = 1
		if rng.IntN(2) == 0 {
			sign = -1
		}
	}
	settings.Sign = sign
	signedDrift := float64(sign) * cfg.Drift

	innovations := make([]float64, 0, cfg.Points)
	values := make([]float64, 0, cfg.Points)
	baseline := make([]float64, 0, cfg.Points+1)
	baseline = append(baseline, avg)

	current := avg
	ema := avg
	sma := calculator.NewRollingMean(cfg.Window)
	for i := 0; i < cfg.Points; i++ {
		var e float64
		if cfg.Distribution == model.DistStudentT {
			e = sampler.NextStudentT(cfg.Nu) * cfg.Scale
		} else {
			e = sampler.NextNormal() * cfg.Scale
		}
		if cfg.ShockProb > 0 && rng.Float64() < cfg.ShockProb {
			e *= cfg.ShockScale
		}

		v := math.Abs(current + signedDrift + e)
		innovations = append(innovations, e)
		values = append(values, v)

		if cfg.UseEMA {
			ema = calculator.NextEMA(ema, v, cfg.Alpha)
			current = ema
		} else {
			current = sma.Push(v)
		}
		baseline = append(baseline, current)
	}

	return model.GraphResult{
		Average:     &current,
		Innovations: innovations,
		Values:      values,
		Baseline:    baseline,
		Settings:    settings,
	}, nil
}

func echo(cfg model.GraphConfig, sign int) model.GraphSettings {
	dist := cfg.Distribution
	if dist == "" {
		dist = model.DistNormal
	}
	trend := cfg.Trend
	if trend == "" {
		trend = model.GraphFlat
	}
	return model.GraphSettings{
		Trend:        trend,
		Sign:         sign,
		Drift:        cfg.Drift,
		Window:       cfg.Window,
		UseEMA:       cfg.UseEMA,
		Alpha:        cfg.Alpha,
		Distribution: dist,
	}
}
