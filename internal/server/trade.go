package server

import (
	"net/http"

	"go.uber.org/zap"

	"MarketSandbox/internal/model"
	"MarketSandbox/internal/strategy"
)

func (h *Handler) Confidences(w http.ResponseWriter, r *http.Request) {
	all, err := h.Confidence.All(r.Context())
	if err != nil {
		writeError(w, h.methodLogger(r, "Confidences"), err)
		return
	}
	writeJSON(w, http.StatusOK, all)
}

type impactRequest struct {
	Impacts map[string]float64 `json:"impacts"`
}

func (h *Handler) ApplyImpact(w http.ResponseWriter, r *http.Request) {
	logger := h.methodLogger(r, "ApplyImpact")
	var req impactRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, logger, err)
		return
	}
	if len(req.Impacts) == 0 {
		writeError(w, logger, badRequest("impacts must not be empty"))
		return
	}
	updated, err := h.Confidence.ApplyImpacts(r.Context(), req.Impacts)
	if err != nil {
		writeError(w, logger, err)
		return
	}
	logger.Info("confidences updated", zap.Int("tickers", len(updated)))
	writeJSON(w, http.StatusOK, updated)
}

type tradeRequest struct {
	Wallet   float64          `json:"wallet"`
	Holdings map[string]int64 `json:"holdings"`
}

// Trade plans against a caller supplied account. Nothing is committed.
func (h *Handler) Trade(w http.ResponseWriter, r *http.Request) {
	logger := h.methodLogger(r, "Trade")
	var req tradeRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, logger, err)
		return
	}
	if req.Wallet < 0 {
		writeError(w, logger, badRequest("wallet must be non-negative"))
		return
	}
	for t, n := range req.Holdings {
		if n < 0 {
			writeError(w, logger, badRequest("holdings for %s must be non-negative", t))
			return
		}
	}
	conf, err := h.Confidence.All(r.Context())
	if err != nil {
		writeError(w, logger, err)
		return
	}
	companies := h.Engine.Companies(h.Watchlist)
	writeJSON(w, http.StatusOK, strategy.GenerateTrades(req.Wallet, req.Holdings, companies, conf, strategy.DefaultLimits()))
}

type accountResponse struct {
	model.AccountState
	Value float64 `json:"value"`
}

func (h *Handler) Account(w http.ResponseWriter, _ *http.Request) {
	prices := make(map[string]float64, len(h.Watchlist))
	for _, c := range h.Engine.Companies(h.Watchlist) {
		prices[c.Ticker] = c.Price
	}
	writeJSON(w, http.StatusOK, accountResponse{AccountState: h.Fund.GetState(), Value: h.Fund.Value(prices)})
}

func (h *Handler) AccountTrade(w http.ResponseWriter, r *http.Request) {
	logger := h.methodLogger(r, "AccountTrade")
	plan, err := h.Trader.RunTradeNow()
	if err != nil {
		writeError(w, logger, err)
		return
	}
	writeJSON(w, http.StatusOK, plan)
}
