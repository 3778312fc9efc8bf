package server

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"MarketSandbox/internal/calculator"
	"MarketSandbox/internal/collector"
	"MarketSandbox/internal/graph"
	"MarketSandbox/internal/model"
	"MarketSandbox/internal/simulator"
	"MarketSandbox/internal/store"
)

type simulateResponse struct {
	RunID      string            `json:"run_id"`
	Symbol     string            `json:"symbol"`
	FinalPrice float64           `json:"final_price"`
	ChangeRate float64           `json:"change_rate"`
	Prices     []float64         `json:"prices"`
	Summary    model.PathSummary `json:"summary"`
	Params     simParams         `json:"params"`
}

// resolveSymbolConfig parses the query and fills a missing price with the
// symbol's current price.
func (h *Handler) resolveSymbolConfig(r *http.Request, symbol string) (model.SimulationConfig, simParams, error) {
	cfg, sp, err := h.simulationQuery(r.URL.Query())
	if err != nil {
		return cfg, sp, err
	}
	if r.URL.Query().Get("price") == "" {
		p, err := h.Engine.Collector.CurrentPrice(symbol)
		if err != nil {
			if errors.Is(err, collector.ErrNotFound) {
				return cfg, sp, badRequest("price is required for unknown symbol %s", symbol)
			}
			return cfg, sp, err
		}
		cfg.InitialPrice = p
	}
	return cfg, sp, nil
}

func (h *Handler) SimulateSymbol(w http.ResponseWriter, r *http.Request) {
	runID := uuid.NewString()
	symbol := store.Key(chi.URLParam(r, "symbol"))
	logger := h.methodLogger(r, "SimulateSymbol").With(zap.String("run_id", runID), zap.String("symbol", symbol))

	cfg, sp, err := h.resolveSymbolConfig(r, symbol)
	if err != nil {
		writeError(w, logger, err)
		return
	}
	path, err := h.Engine.SimulateSymbol(r.Context(), symbol, cfg)
	if err != nil {
		writeError(w, logger, err)
		return
	}
	logger.Info("simulated", zap.Int("steps", cfg.Steps), zap.Float64("final_price", path.FinalPrice))

	writeJSON(w, http.StatusOK, simulateResponse{
		RunID:      runID,
		Symbol:     symbol,
		FinalPrice: path.FinalPrice,
		ChangeRate: path.ChangeRate,
		Prices:     path.Prices,
		Summary:    calculator.Summarize(path.Prices),
		Params:     sp,
	})
}

func (h *Handler) SimulateSymbolChart(w http.ResponseWriter, r *http.Request) {
	symbol := store.Key(chi.URLParam(r, "symbol"))
	logger := h.methodLogger(r, "SimulateSymbolChart").With(zap.String("symbol", symbol))

	cfg, _, err := h.resolveSymbolConfig(r, symbol)
	if err != nil {
		writeError(w, logger, err)
		return
	}
	path, err := simulator.Simulate(cfg)
	if err != nil {
		writeError(w, logger, err)
		return
	}

	key := ""
	if cfg.Seed != nil && r.URL.Query().Get("price") != "" {
		key = "path|" + symbol + "|" + r.URL.Query().Encode()
	}
	img, err := h.Charts.Path(key, symbol, path)
	if err != nil {
		writeError(w, logger, err)
		return
	}
	writePNG(w, img)
}

func (h *Handler) LastPrice(w http.ResponseWriter, r *http.Request) {
	symbol := store.Key(chi.URLParam(r, "symbol"))
	p, ok := h.Engine.LastPrices.Get(symbol)
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"detail": "No last price for symbol"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"symbol": symbol, "price": p})
}

func (h *Handler) AllLastPrices(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, h.Engine.LastPrices.All())
}

func (h *Handler) ClearLastPrices(w http.ResponseWriter, _ *http.Request) {
	h.Engine.LastPrices.Clear()
	writeJSON(w, http.StatusOK, map[string]string{"status": "cleared"})
}

// portfolioItem is one basket entry as sent by clients. Omitted numeric
// fields take the single-symbol defaults.
type portfolioItem struct {
	Symbol     string    `json:"symbol"`
	Price      *float64  `json:"price"`
	History    []float64 `json:"history"`
	UseHistory bool      `json:"use_history"`
	MuDaily    *float64  `json:"mu_daily"`
	SigmaDaily *float64  `json:"sigma_daily"`
	UseStartP0 bool      `json:"useStartP0"`
	StartP0    *float64  `json:"startP0"`
	Steps      *int      `json:"n_steps"`
	Nu         *int      `json:"nu"`
	ClipLimit  *float64  `json:"clip_limit"`
	Seed       *uint64   `json:"seed"`
	Trend      string    `json:"trend"`
}

type portfolioRequest struct {
	Start   float64         `json:"portfolio_start"`
	Count   int             `json:"count"`
	Configs []portfolioItem `json:"configs"`
	Shares  []float64       `json:"shares"`
}

func pick[T any](v *T, def T) T {
	if v != nil {
		return *v
	}
	return def
}

func (h *Handler) portfolioEntries(req portfolioRequest) ([]model.PortfolioEntry, []bool, error) {
	if req.Count != len(req.Configs) || req.Count != len(req.Shares) {
		return nil, nil, badRequest("count mismatch with configs/shares")
	}
	d := h.Defaults
	entries := make([]model.PortfolioEntry, len(req.Configs))
	useHistory := make([]bool, len(req.Configs))
	for i, c := range req.Configs {
		cfg := model.SimulationConfig{
			Drift:      pick(c.MuDaily, d.Drift),
			Volatility: pick(c.SigmaDaily, d.Volatility),
			Steps:      pick(c.Steps, d.Steps),
			Nu:         pick(c.Nu, d.Nu),
			ClipLimit:  pick(c.ClipLimit, d.ClipLimit),
			Seed:       c.Seed,
			Trend:      parseTrend(c.Trend),
		}
		if c.UseStartP0 {
			ref := pick(c.StartP0, 100)
			cfg.ReferencePrice = &ref
		}
		entries[i] = model.PortfolioEntry{
			Symbol:  c.Symbol,
			Price:   c.Price,
			History: c.History,
			Shares:  req.Shares[i],
			Config:  cfg,
		}
		useHistory[i] = c.UseHistory
	}
	return entries, useHistory, nil
}

func (h *Handler) runPortfolio(r *http.Request, body []byte) (model.PortfolioResult, bool, error) {
	var req portfolioRequest
	if err := decodeJSON(body, &req); err != nil {
		return model.PortfolioResult{}, false, err
	}
	entries, useHistory, err := h.portfolioEntries(req)
	if err != nil {
		return model.PortfolioResult{}, false, err
	}
	seeded := len(entries) > 0
	for i, e := range entries {
		if e.Config.Seed == nil || useHistory[i] {
			seeded = false
		}
	}
	res, err := h.Engine.SimulatePortfolio(r.Context(), req.Start, entries, useHistory)
	return res, seeded, err
}

func (h *Handler) SimulatePortfolio(w http.ResponseWriter, r *http.Request) {
	logger := h.methodLogger(r, "SimulatePortfolio")
	body, err := readBody(w, r)
	if err != nil {
		writeError(w, logger, err)
		return
	}
	res, _, err := h.runPortfolio(r, body)
	if err != nil {
		writeError(w, logger, err)
		return
	}
	logger.Info("portfolio simulated", zap.Int("components", len(res.Components)), zap.Float64("final_value", res.FinalValue))
	writeJSON(w, http.StatusOK, res)
}

func (h *Handler) SimulatePortfolioChart(w http.ResponseWriter, r *http.Request) {
	logger := h.methodLogger(r, "SimulatePortfolioChart")
	body, err := readBody(w, r)
	if err != nil {
		writeError(w, logger, err)
		return
	}
	res, seeded, err := h.runPortfolio(r, body)
	if err != nil {
		writeError(w, logger, err)
		return
	}
	key := ""
	if seeded {
		key = "portfolio|" + digest(body)
	}
	img, err := h.Charts.Portfolio(key, res)
	if err != nil {
		writeError(w, logger, err)
		return
	}
	writePNG(w, img)
}

type graphRequest struct {
	Initial []float64         `json:"initial"`
	Config  model.GraphConfig `json:"config"`
}

func (h *Handler) runGraph(body []byte) (model.GraphResult, bool, error) {
	req := graphRequest{Config: graph.DefaultConfig()}
	if err := decodeJSON(body, &req); err != nil {
		return model.GraphResult{}, false, err
	}
	res, err := h.Engine.Graph(req.Initial, req.Config)
	return res, req.Config.Seed != nil, err
}

func (h *Handler) Graph(w http.ResponseWriter, r *http.Request) {
	logger := h.methodLogger(r, "Graph")
	body, err := readBody(w, r)
	if err != nil {
		writeError(w, logger, err)
		return
	}
	res, _, err := h.runGraph(body)
	if err != nil {
		writeError(w, logger, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *Handler) GraphChart(w http.ResponseWriter, r *http.Request) {
	logger := h.methodLogger(r, "GraphChart")
	body, err := readBody(w, r)
	if err != nil {
		writeError(w, logger, err)
		return
	}
	res, seeded, err := h.runGraph(body)
	if err != nil {
		writeError(w, logger, err)
		return
	}
	if res.Average == nil {
		writeError(w, logger, badRequest("initial samples are empty"))
		return
	}
	key := ""
	if seeded {
		key = "graph|" + digest(body)
	}
	img, err := h.Charts.Graph(key, res)
	if err != nil {
		writeError(w, logger, err)
		return
	}
	writePNG(w, img)
}

func readBody(w http.ResponseWriter, r *http.Request) ([]byte, error) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		return nil, badRequest("read body: %v", err)
	}
	return body, nil
}

func digest(body []byte) string {
	sum := sha256.Sum256(body)
	return hex.EncodeToString(sum[:])
}
