package strategy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"MarketSandbox/internal/model"
)

var sampleCompanies = []model.Company{
	{Ticker: "MSFT", Name: "Microsoft", Price: 420},
	{Ticker: "AAPL", Name: "Apple", Price: 200},
	{Ticker: "TSLA", Name: "Tesla", Price: 250},
	{Ticker: "NVDA", Name: "NVIDIA", Price: 900},
}

func TestGenerateTrades_SellThenBuyThenHold(t *testing.T) {
	conf := map[string]float64{"MSFT": 0.8, "AAPL": 0.6, "TSLA": 0.2, "NVDA": 0.4}
	plan := GenerateTrades(1000, map[string]int64{"TSLA": 2}, sampleCompanies, conf, DefaultLimits())

	require.Len(t, plan.Orders, 4)
	assert.Equal(t, model.Order{Ticker: "TSLA", Company: "Tesla", Side: model.SideSell, SharesDelta: -2, TradeValue: 500, Price: 250, Confidence: 0.2}, plan.Orders[0])
	assert.Equal(t, model.Order{Ticker: "AAPL", Company: "Apple", Side: model.SideBuy, SharesDelta: 1, TradeValue: 200, Price: 200, Confidence: 0.6}, plan.Orders[1])
	assert.Equal(t, model.SideHold, plan.Orders[2].Side)
	assert.Equal(t, "MSFT", plan.Orders[2].Ticker)
	assert.Equal(t, "NVDA", plan.Orders[3].Ticker)

	assert.Equal(t, 1000.0, plan.InitialWallet)
	assert.Equal(t, 1300.0, plan.FinalWallet)
	assert.Equal(t, map[string]int64{"TSLA": 2}, plan.InitialHoldings)
	assert.Equal(t, map[string]int64{"TSLA": 0, "AAPL": 1}, plan.FinalHoldings)
	assert.Equal(t, PlanNotes, plan.Notes)
}

func TestGenerateTrades_CompanyCap(t *testing.T) {
	plan := GenerateTrades(10000, nil, sampleCompanies[1:2], map[string]float64{"AAPL": 1}, DefaultLimits())

	require.Len(t, plan.Orders, 1)
	assert.Equal(t, int64(12), plan.Orders[0].SharesDelta)
	assert.Equal(t, 2400.0, plan.Orders[0].TradeValue)
	assert.Equal(t, 7600.0, plan.FinalWallet)
}

func TestGenerateTrades_MissingConfidenceHolds(t *testing.T) {
	plan := GenerateTrades(5000, map[string]int64{"MSFT": 3}, sampleCompanies, nil, DefaultLimits())

	// A missing confidence counts as 0, which is below the sell threshold.
	require.Len(t, plan.Orders, 4)
	assert.Equal(t, model.SideSell, plan.Orders[0].Side)
	for _, o := range plan.Orders[1:] {
		assert.Equal(t, model.SideHold, o.Side)
		assert.Zero(t, o.SharesDelta)
	}
	assert.Equal(t, 6260.0, plan.FinalWallet)
}

func TestGenerateTrades_UnknownHoldingKept(t *testing.T) {
	plan := GenerateTrades(0, map[string]int64{"GOOG": 5}, sampleCompanies, map[string]float64{"GOOG": 0}, DefaultLimits())

	assert.Equal(t, int64(5), plan.FinalHoldings["GOOG"])
	assert.Zero(t, plan.FinalWallet)
	for _, o := range plan.Orders {
		assert.Equal(t, model.SideHold, o.Side)
	}
}

func TestGenerateTrades_DoesNotMutateInput(t *testing.T) {
	holdings := map[string]int64{"TSLA": 4}
	GenerateTrades(100, holdings, sampleCompanies, map[string]float64{"TSLA": 0.1}, DefaultLimits())
	assert.Equal(t, int64(4), holdings["TSLA"])
}

func TestGenerateTrades_NeverOverspends(t *testing.T) {
	conf := map[string]float64{"MSFT": 0.9, "AAPL": 0.9, "TSLA": 0.9, "NVDA": 0.9}
	lim := DefaultLimits()
	lim.MaxCompanyShare = 1
	plan := GenerateTrades(1500, nil, sampleCompanies, conf, lim)

	assert.GreaterOrEqual(t, plan.FinalWallet, 0.0)
	spent := 0.0
	for _, o := range plan.Orders {
		spent += o.TradeValue
	}
	assert.InDelta(t, 1500, spent+plan.FinalWallet, 1e-9)
}
