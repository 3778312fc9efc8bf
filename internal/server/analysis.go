package server

import (
	"net/http"
	"strings"

	"go.uber.org/zap"

	"MarketSandbox/internal/analysis"
	"MarketSandbox/internal/store"
)

type summarizeRequest struct {
	Text     string `json:"text"`
	Language string `json:"language"`
	Size     string `json:"summary_size"`
}

type textRequest struct {
	Ticker string `json:"ticker"`
	Text   string `json:"text"`
}

type applyResponse struct {
	Ticker     string              `json:"ticker"`
	Prediction analysis.Prediction `json:"prediction"`
	Confidence float64             `json:"confidence"`
}

func (h *Handler) Summarize(w http.ResponseWriter, r *http.Request) {
	logger := h.methodLogger(r, "Summarize")
	if h.Analyzer == nil {
		writeError(w, logger, unavailable("analyzer"))
		return
	}
	var req summarizeRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, logger, err)
		return
	}
	if req.Size != "" && !analysis.ValidSize(req.Size) {
		writeError(w, logger, badRequest("summary_size must be short, medium or long"))
		return
	}
	summary, err := h.Analyzer.Summarize(r.Context(), req.Text, req.Language, req.Size)
	if err != nil {
		writeError(w, logger, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"summary": summary})
}

func (h *Handler) Predict(w http.ResponseWriter, r *http.Request) {
	logger := h.methodLogger(r, "Predict")
	if h.Analyzer == nil {
		writeError(w, logger, unavailable("analyzer"))
		return
	}
	var req textRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, logger, err)
		return
	}
	pred, err := h.Analyzer.Predict(r.Context(), req.Text)
	if err != nil {
		writeError(w, logger, err)
		return
	}
	writeJSON(w, http.StatusOK, pred)
}

// ApplyAnalysis scores text and feeds the score into the ticker's
// confidence. A degraded prediction leaves the confidence untouched.
func (h *Handler) ApplyAnalysis(w http.ResponseWriter, r *http.Request) {
	logger := h.methodLogger(r, "ApplyAnalysis")
	if h.Analyzer == nil {
		writeError(w, logger, unavailable("analyzer"))
		return
	}
	var req textRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, logger, err)
		return
	}
	ticker := store.Key(req.Ticker)
	if ticker == "" {
		writeError(w, logger, badRequest("ticker is required"))
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		writeError(w, logger, badRequest("text is required"))
		return
	}
	logger = logger.With(zap.String("ticker", ticker))

	pred, err := h.Analyzer.Predict(r.Context(), req.Text)
	if err != nil {
		writeError(w, logger, err)
		return
	}
	if pred.Degraded {
		writeJSON(w, http.StatusBadGateway, map[string]string{"detail": pred.Explanation})
		return
	}
	updated, err := h.Confidence.ApplyImpacts(r.Context(), map[string]float64{ticker: pred.Score})
	if err != nil {
		writeError(w, logger, err)
		return
	}
	logger.Info("analysis applied", zap.Float64("score", pred.Score), zap.Float64("confidence", updated[ticker]))
	writeJSON(w, http.StatusOK, applyResponse{Ticker: ticker, Prediction: pred, Confidence: updated[ticker]})
}
