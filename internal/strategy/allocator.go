package strategy

import (
	"sort"

	"github.com/shopspring/decimal"

	"MarketSandbox/internal/model"
)

const PlanNotes = "Heuristic simulation based on per-ticker confidence. Not financial advice."

// Limits bounds one allocation round.
type Limits struct {
	MaxCompanyShare   float64 // cap per buy, as a share of the initial wallet
	MinBuyConfidence  float64
	MaxSellConfidence float64 // holdings below this are sold in full
}

func DefaultLimits() Limits {
	return Limits{MaxCompanyShare: 0.25, MinBuyConfidence: 0.5, MaxSellConfidence: 0.3}
}

const cents = 2

// GenerateTrades plans sells first, then confidence-weighted whole-share buys,
// then a hold order for every company left untouched. Tickers without a
// confidence count as 0. Holdings of unknown or unpriced companies are kept.
func GenerateTrades(wallet float64, holdings map[string]int64, companies []model.Company, confidences map[string]float64, lim Limits) model.TradePlan {
	initial := decimal.NewFromFloat(wallet)
	current := initial

	final := make(map[string]int64, len(holdings))
	initialHoldings := make(map[string]int64, len(holdings))
	for k, v := range holdings {
		final[k] = v
		initialHoldings[k] = v
	}

	byTicker := make(map[string]model.Company, len(companies))
	for _, c := range companies {
		byTicker[c.Ticker] = c
	}

	var orders []model.Order
	touched := make(map[string]bool)

	held := make([]string, 0, len(holdings))
	for t := range holdings {
		held = append(held, t)
	}
	sort.Strings(held)

	for _, ticker := range held {
		shares := holdings[ticker]
		if shares <= 0 {
			continue
		}
		c, ok := byTicker[ticker]
		if !ok || c.Price <= 0 {
			continue
		}
		conf := confidences[ticker]
		if conf >= lim.MaxSellConfidence {
			continue
		}
		value := decimal.NewFromFloat(c.Price).Mul(decimal.NewFromInt(shares))
		current = current.Add(value)
		final[ticker] = 0
		touched[ticker] = true
		orders = append(orders, order(c, model.SideSell, -shares, value, conf))
	}

	var candidates []model.Company
	totalWeight := 0.0
	for _, c := range companies {
		if conf := confidences[c.Ticker]; conf >= lim.MinBuyConfidence && c.Price > 0 {
			candidates = append(candidates, c)
			totalWeight += conf
		}
	}

	if current.IsPositive() && totalWeight > 0 {
		companyCap := initial.Mul(decimal.NewFromFloat(lim.MaxCompanyShare))
		for _, c := range candidates {
			conf := confidences[c.Ticker]
			weight := decimal.NewFromFloat(conf / totalWeight)

			target := decimal.Min(current.Mul(weight), companyCap, current)
			if !target.IsPositive() {
				continue
			}
			price := decimal.NewFromFloat(c.Price)
			shares := target.Div(price).Floor().IntPart()
			if shares <= 0 {
				continue
			}
			value := price.Mul(decimal.NewFromInt(shares))
			if value.GreaterThan(current) {
				continue
			}
			current = current.Sub(value)
			final[c.Ticker] += shares
			touched[c.Ticker] = true
			orders = append(orders, order(c, model.SideBuy, shares, value, conf))
		}
	}

	for _, c := range companies {
		if touched[c.Ticker] {
			continue
		}
		orders = append(orders, order(c, model.SideHold, 0, decimal.Zero, confidences[c.Ticker]))
	}

	return model.TradePlan{
		InitialWallet:   wallet,
		FinalWallet:     current.Round(cents).InexactFloat64(),
		InitialHoldings: initialHoldings,
		FinalHoldings:   final,
		Orders:          orders,
		Notes:           PlanNotes,
	}
}

func order(c model.Company, side model.Side, delta int64, value decimal.Decimal, conf float64) model.Order {
	return model.Order{
		Ticker:      c.Ticker,
		Company:     c.Name,
		Side:        side,
		SharesDelta: delta,
		TradeValue:  value.Round(cents).InexactFloat64(),
		Price:       c.Price,
		Confidence:  conf,
	}
}
