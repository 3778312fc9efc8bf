package server

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"MarketSandbox/internal/calculator"
	"MarketSandbox/internal/store"
)

type numbersRequest struct {
	Numbers []float64 `json:"numbers"`
}

type pricesRequest struct {
	Prices []float64 `json:"prices"`
}

type bulkRequest struct {
	Items map[string][]float64 `json:"items"`
}

// Average answers {"average": null} for an empty list.
func (h *Handler) Average(w http.ResponseWriter, r *http.Request) {
	var req numbersRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, h.methodLogger(r, "Average"), err)
		return
	}
	var avg *float64
	if v, ok := calculator.Mean(req.Numbers); ok {
		avg = &v
	}
	writeJSON(w, http.StatusOK, map[string]*float64{"average": avg})
}

func (h *Handler) StoreAverage(w http.ResponseWriter, r *http.Request) {
	symbol := store.Key(chi.URLParam(r, "symbol"))
	logger := h.methodLogger(r, "StoreAverage").With(zap.String("symbol", symbol))

	var req pricesRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, logger, err)
		return
	}
	avg, ok := h.Averages.ComputeAndStore(symbol, req.Prices)
	if !ok {
		writeError(w, logger, badRequest("Empty prices"))
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"symbol": symbol, "average": avg})
}

func (h *Handler) BulkAverages(w http.ResponseWriter, r *http.Request) {
	var req bulkRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, h.methodLogger(r, "BulkAverages"), err)
		return
	}
	writeJSON(w, http.StatusOK, h.Averages.BulkComputeAndStore(req.Items))
}

func (h *Handler) GetAverage(w http.ResponseWriter, r *http.Request) {
	symbol := store.Key(chi.URLParam(r, "symbol"))
	avg, ok := h.Averages.Get(symbol)
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"detail": "Symbol not found"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"symbol": symbol, "average": avg})
}

// AllAverages returns raw values, or strings with a fixed number of
// decimals when ?decimals is given.
func (h *Handler) AllAverages(w http.ResponseWriter, r *http.Request) {
	raw := r.URL.Query().Get("decimals")
	if raw == "" {
		writeJSON(w, http.StatusOK, h.Averages.All())
		return
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		writeError(w, h.methodLogger(r, "AllAverages"), badRequest("decimals must be a non-negative integer"))
		return
	}
	writeJSON(w, http.StatusOK, h.Averages.Formatted(n))
}

func (h *Handler) ClearAverages(w http.ResponseWriter, _ *http.Request) {
	h.Averages.Clear()
	writeJSON(w, http.StatusOK, map[string]string{"status": "cleared"})
}

type historyResponse struct {
	Ticker     string `json:"ticker"`
	Data       any    `json:"data"`
	Count      int    `json:"count"`
	SourceFile string `json:"source_file"`
}

func (h *Handler) History(w http.ResponseWriter, r *http.Request) {
	symbol := store.Key(chi.URLParam(r, "symbol"))
	logger := h.methodLogger(r, "History").With(zap.String("symbol", symbol))
	if h.Source == nil {
		writeError(w, logger, unavailable("history source"))
		return
	}
	hist, err := h.Source.History(symbol)
	if err != nil {
		writeError(w, logger, err)
		return
	}
	writeJSON(w, http.StatusOK, historyResponse{
		Ticker:     hist.Ticker,
		Data:       hist.Points,
		Count:      len(hist.Points),
		SourceFile: hist.SourceFile,
	})
}

func (h *Handler) LatestValue(w http.ResponseWriter, r *http.Request) {
	symbol := store.Key(chi.URLParam(r, "symbol"))
	logger := h.methodLogger(r, "LatestValue").With(zap.String("symbol", symbol))
	if h.Source == nil {
		writeError(w, logger, unavailable("history source"))
		return
	}
	v, err := h.Source.Latest(symbol)
	if err != nil {
		writeError(w, logger, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ticker": symbol, "latest": v})
}
