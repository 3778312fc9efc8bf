package model

// GraphTrend selects the sign applied to the per-step drift of a smoothed series.
type GraphTrend string

const (
	GraphFlat   GraphTrend = "flat"
	GraphUp     GraphTrend = "up"
	GraphDown   GraphTrend = "down"
	GraphRandom GraphTrend = "random"
)

// Distribution is the innovation family used by a sampler.
type Distribution string

const (
	DistNormal   Distribution = "normal"
	DistStudentT Distribution = "student_t"
)

// GraphConfig configures the smoothed noisy series generator.
type GraphConfig struct {
	Points       int          `json:"points"`
	Distribution Distribution `json:"distribution"`
	Nu           int          `json:"nu"`
	Scale        float64      `json:"scale"`
	Trend        GraphTrend   `json:"trend"`
	Drift        float64      `json:"drift"`
	ShockProb    float64      `json:"shock_prob"`
	ShockScale   float64      `json:"shock_scale"`
	Seed         *uint64      `json:"seed"`
	Window       int          `json:"window"`
	UseEMA       bool         `json:"use_ema"`
	Alpha        float64      `json:"alpha"`
}

// GraphSettings echoes the settings a series was generated with.
type GraphSettings struct {
	Trend        GraphTrend   `json:"trend"`
	Sign         int          `json:"sign"`
	Drift        float64      `json:"drift"`
	Window       int          `json:"window"`
	UseEMA       bool         `json:"use_ema"`
	Alpha        float64      `json:"alpha"`
	Distribution Distribution `json:"distribution"`
}

// GraphResult is the generated series. Average is nil when there was no
// initial sample to seed the baseline.
type GraphResult struct {
	Average     *float64      `json:"average"`
	Innovations []float64     `json:"innovations"`
	Values      []float64     `json:"values"`
	Baseline    []float64     `json:"baseline"`
	Settings    GraphSettings `json:"settings"`
}
