package server

import (
	"net/url"
	"strconv"
	"strings"

	"MarketSandbox/internal/model"
)

// queryParams reads typed query parameters, keeping the first parse error.
type queryParams struct {
	q   url.Values
	err error
}

func (p *queryParams) has(name string) bool {
	return p.q.Get(name) != ""
}

func (p *queryParams) float(name string, def float64) float64 {
	raw := p.q.Get(name)
	if raw == "" || p.err != nil {
		return def
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		p.err = badRequest("query parameter %s: not a number", name)
		return def
	}
	return v
}

func (p *queryParams) int(name string, def int) int {
	raw := p.q.Get(name)
	if raw == "" || p.err != nil {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		p.err = badRequest("query parameter %s: not an integer", name)
		return def
	}
	return v
}

func (p *queryParams) bool(name string, def bool) bool {
	raw := p.q.Get(name)
	if raw == "" || p.err != nil {
		return def
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		p.err = badRequest("query parameter %s: not a boolean", name)
		return def
	}
	return v
}

func (p *queryParams) seed(name string) *uint64 {
	raw := p.q.Get(name)
	if raw == "" || p.err != nil {
		return nil
	}
	v, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		p.err = badRequest("query parameter %s: not a non-negative integer", name)
		return nil
	}
	return &v
}

// parseTrend accepts the front end's bullish/bearish labels as aliases.
func parseTrend(raw string) model.Trend {
	switch t := strings.ToLower(strings.TrimSpace(raw)); t {
	case "":
		return model.TrendStandard
	case "bullish":
		return model.TrendUp
	case "bearish":
		return model.TrendDown
	default:
		return model.Trend(t)
	}
}

// simParams is the echo of the parameters a single-symbol run used.
type simParams struct {
	MuDaily    float64     `json:"mu_daily"`
	SigmaDaily float64     `json:"sigma_daily"`
	Steps      int         `json:"n_steps"`
	Nu         int         `json:"nu"`
	ClipLimit  float64     `json:"clip_limit"`
	UseStartP0 bool        `json:"useStartP0"`
	StartP0    float64     `json:"startP0"`
	Seed       *uint64     `json:"seed"`
	Trend      model.Trend `json:"trend"`
}

// simulationQuery parses the single-symbol parameters. price is left at 0
// when absent so the caller can resolve it.
func (h *Handler) simulationQuery(q url.Values) (model.SimulationConfig, simParams, error) {
	p := &queryParams{q: q}
	d := h.Defaults
	sp := simParams{
		MuDaily:    p.float("mu_daily", d.Drift),
		SigmaDaily: p.float("sigma_daily", d.Volatility),
		Steps:      p.int("n_steps", d.Steps),
		Nu:         p.int("nu", d.Nu),
		ClipLimit:  p.float("clip_limit", d.ClipLimit),
		UseStartP0: p.bool("useStartP0", false),
		StartP0:    p.float("startP0", 100),
		Seed:       p.seed("seed"),
		Trend:      parseTrend(q.Get("trend")),
	}
	cfg := model.SimulationConfig{
		InitialPrice: p.float("price", 0),
		Drift:        sp.MuDaily,
		Volatility:   sp.SigmaDaily,
		Steps:        sp.Steps,
		Nu:           sp.Nu,
		ClipLimit:    sp.ClipLimit,
		Seed:         sp.Seed,
		Trend:        sp.Trend,
	}
	if sp.UseStartP0 {
		ref := sp.StartP0
		cfg.ReferencePrice = &ref
	}
	return cfg, sp, p.err
}
