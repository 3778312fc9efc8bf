package simulator

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"MarketSandbox/internal/model"
)

func priceOf(v float64) *float64 { return &v }

func TestSimulatePortfolio_TwoIdenticalAssetsDouble(t *testing.T) {
	cfg := baseConfig()
	cfg.Seed = seedOf(77)
	single, err := Simulate(cfg)
	require.NoError(t, err)

	entries := []model.PortfolioEntry{
		{Symbol: "aaa", Price: priceOf(100), Shares: 1, Config: cfg},
		{Symbol: "bbb", Price: priceOf(100), Shares: 1, Config: cfg},
	}
	res, err := SimulatePortfolio(200, entries)
	require.NoError(t, err)

	require.Len(t, res.Series, cfg.Steps)
	for i, v := range res.Series {
		require.Equal(t, 2*single.Prices[i], v, "step %d", i)
	}
	assert.Equal(t, res.Series[len(res.Series)-1], res.FinalValue)
	assert.InDelta(t, (res.FinalValue-200)/200, res.ChangeRate, 1e-15)
	require.Len(t, res.Components, 2)
	assert.Equal(t, "AAA", res.Components[0].Symbol)
	assert.Equal(t, single.Prices, res.Components[1].Prices)
}

func TestSimulatePortfolio_SharesWeighting(t *testing.T) {
	a := baseConfig()
	a.Seed = seedOf(1)
	b := baseConfig()
	b.Seed = seedOf(2)

	res, err := SimulatePortfolio(1000, []model.PortfolioEntry{
		{Price: priceOf(50), Shares: 3, Config: a},
		{Price: priceOf(20), Shares: 0.5, Config: b},
	})
	require.NoError(t, err)
	for i := range res.Series {
		want := res.Components[0].Prices[i]*3 + res.Components[1].Prices[i]*0.5
		require.InDelta(t, want, res.Series[i], 1e-9)
	}
	assert.Equal(t, "ASSET1", res.Components[0].Symbol)
	assert.Equal(t, "ASSET2", res.Components[1].Symbol)
}

func TestSimulatePortfolio_LengthMismatch(t *testing.T) {
	a := baseConfig()
	b := baseConfig()
	b.Steps = a.Steps + 1

	_, err := SimulatePortfolio(100, []model.PortfolioEntry{
		{Price: priceOf(10), Shares: 1, Config: a},
		{Price: priceOf(10), Shares: 1, Config: b},
	})
	var lm *LengthMismatchError
	require.True(t, errors.As(err, &lm), "got %v", err)
	assert.Equal(t, 1, lm.Index)
	assert.Equal(t, a.Steps, lm.Want)
	assert.Equal(t, b.Steps, lm.Got)
}

func TestSimulatePortfolio_ConfigErrors(t *testing.T) {
	cfg := baseConfig()
	tests := []struct {
		name    string
		entries []model.PortfolioEntry
	}{
		{"no entries", nil},
		{"no price", []model.PortfolioEntry{{Shares: 1, Config: cfg}}},
		{"empty history", []model.PortfolioEntry{{History: []float64{}, Price: priceOf(10), Shares: 1, Config: cfg}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := SimulatePortfolio(100, tt.entries)
			var ce *ConfigError
			require.True(t, errors.As(err, &ce), "got %v", err)
		})
	}
}

func TestSimulatePortfolio_HistoryAveragedAsStart(t *testing.T) {
	cfg := baseConfig()
	cfg.Seed = seedOf(9)

	fromHistory, err := SimulatePortfolio(0, []model.PortfolioEntry{
		{History: []float64{90, 110}, Shares: 1, Config: cfg},
	})
	require.NoError(t, err)
	fromPrice, err := SimulatePortfolio(0, []model.PortfolioEntry{
		{Price: priceOf(100), Shares: 1, Config: cfg},
	})
	require.NoError(t, err)

	assert.Equal(t, fromPrice.Series, fromHistory.Series)
	assert.Zero(t, fromHistory.ChangeRate, "non-positive start yields zero change rate")
}

func TestSimulatePortfolio_ValidationPropagates(t *testing.T) {
	cfg := baseConfig()
	cfg.Volatility = 0
	_, err := SimulatePortfolio(100, []model.PortfolioEntry{{Price: priceOf(10), Shares: 1, Config: cfg}})
	var ve *ValidationError
	require.True(t, errors.As(err, &ve))
}
