package model

// Trend selects the constant per-step log bias applied to a price path.
type Trend string

const (
	TrendStandard Trend = "standard"
	TrendUp       Trend = "up"
	TrendDown     Trend = "down"
)

// SimulationConfig describes one single-asset price path.
type SimulationConfig struct {
	InitialPrice float64 // P0
	Drift        float64 // daily mu
	Volatility   float64 // daily sigma
	Steps        int
	Nu           int     // Student-t degrees of freedom
	ClipLimit    float64 // per-step innovation bound
	Seed         *uint64
	Trend        Trend

	// ReferencePrice overrides P0 as the base of ChangeRate when set.
	ReferencePrice *float64
}

// PricePath is the output of a single-asset simulation.
type PricePath struct {
	Prices     []float64 `json:"prices"`
	FinalPrice float64   `json:"final_price"`
	ChangeRate float64   `json:"change_rate"`
}

// PathSummary holds indicator values computed over a simulated path.
type PathSummary struct {
	High float64 `json:"high"`
	Low  float64 `json:"low"`
	SMA  float64 `json:"sma"`
	RSI  float64 `json:"rsi"`
}
