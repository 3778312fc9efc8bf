package model

// Side is the direction of a planned order.
type Side string

const (
	SideBuy  Side = "buy"
	SideSell Side = "sell"
	SideHold Side = "hold"
)

// Company is a tradable ticker with its current per-share price.
type Company struct {
	Ticker string  `json:"ticker"`
	Name   string  `json:"name"`
	Price  float64 `json:"price"`
}

// Order is one line of a trade plan. SharesDelta is negative for sells.
type Order struct {
	Ticker      string  `json:"ticker"`
	Company     string  `json:"company"`
	Side        Side    `json:"side"`
	SharesDelta int64   `json:"sharesDelta"`
	TradeValue  float64 `json:"tradeValue"`
	Price       float64 `json:"price"`
	Confidence  float64 `json:"confidence"`
}

// TradePlan is the outcome of one allocation round.
type TradePlan struct {
	InitialWallet   float64          `json:"initialWallet"`
	FinalWallet     float64          `json:"finalWallet"`
	InitialHoldings map[string]int64 `json:"initialHoldings"`
	FinalHoldings   map[string]int64 `json:"finalHoldings"`
	Orders          []Order          `json:"orders"`
	Notes           string           `json:"notes"`
}
