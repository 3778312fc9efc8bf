package model

// PortfolioEntry is one asset of a basket. The starting price comes from
// History (averaged) when it is non-nil, otherwise from Price.
type PortfolioEntry struct {
	Symbol  string
	Price   *float64
	History []float64
	Shares  float64
	Config  SimulationConfig
}

// Component is a simulated path tagged with its symbol and share count.
type Component struct {
	PricePath
	Symbol string  `json:"symbol"`
	Shares float64 `json:"shares"`
}

// PortfolioResult is the share-weighted aggregation of all components.
type PortfolioResult struct {
	Start      float64     `json:"portfolio_start"`
	FinalValue float64     `json:"portfolio_final_value"`
	ChangeRate float64     `json:"portfolio_change_rate"`
	Series     []float64   `json:"portfolio_series"`
	Components []Component `json:"components"`
}
