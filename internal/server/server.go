package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"MarketSandbox/internal/analysis"
	"MarketSandbox/internal/chart"
	"MarketSandbox/internal/collector"
	"MarketSandbox/internal/confidence"
	"MarketSandbox/internal/engine"
	"MarketSandbox/internal/fund"
	"MarketSandbox/internal/model"
	"MarketSandbox/internal/simulator"
	"MarketSandbox/internal/store"
)

const maxBodyBytes = 1 << 20

var (
	errBadRequest  = errors.New("bad request")
	errUnavailable = errors.New("service not configured")
)

// Trader commits a trade plan against the demo account.
type Trader interface {
	RunTradeNow() (model.TradePlan, error)
}

// Handler serves the HTTP API. Analyzer may be nil, in which case the
// analysis routes answer 503.
type Handler struct {
	Logger     *zap.Logger
	Engine     *engine.Engine
	Averages   *store.PriceCache
	Source     collector.Source
	Confidence *confidence.Updater
	Fund       *fund.Manager
	Trader     Trader
	Analyzer   *analysis.Analyzer
	Charts     *chart.Renderer
	Watchlist  []model.Company
	// Defaults fills single-symbol query parameters the client leaves out.
	Defaults model.SimulationConfig
}

// NewRouter wires every route onto a chi router.
func NewRouter(h *Handler) chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(h.Logger))
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/simulate", func(r chi.Router) {
		r.Get("/last", h.AllLastPrices)
		r.Delete("/last", h.ClearLastPrices)
		r.Get("/last/{symbol}", h.LastPrice)
		r.Post("/{symbol}", h.SimulateSymbol)
		r.Get("/{symbol}/chart", h.SimulateSymbolChart)
	})
	r.Post("/simulate_portfolio", h.SimulatePortfolio)
	r.Post("/simulate_portfolio/chart", h.SimulatePortfolioChart)
	r.Post("/graph", h.Graph)
	r.Post("/graph/chart", h.GraphChart)

	r.Post("/average", h.Average)
	r.Route("/averages", func(r chi.Router) {
		r.Get("/", h.AllAverages)
		r.Delete("/", h.ClearAverages)
		r.Post("/bulk", h.BulkAverages)
		r.Post("/{symbol}", h.StoreAverage)
		r.Get("/{symbol}", h.GetAverage)
	})

	r.Get("/data/{symbol}", h.History)
	r.Get("/data/{symbol}/latest", h.LatestValue)

	r.Route("/api", func(r chi.Router) {
		r.Get("/confidences", h.Confidences)
		r.Post("/confidences/impact", h.ApplyImpact)
		r.Post("/trade", h.Trade)
		r.Get("/account", h.Account)
		r.Post("/account/trade", h.AccountTrade)
		r.Post("/analysis/summarize", h.Summarize)
		r.Post("/analysis/predict", h.Predict)
		r.Post("/analysis/apply", h.ApplyAnalysis)
	})

	return r
}

// NewServer wraps handler in an http.Server with sane timeouts.
func NewServer(addr string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      90 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
}

func requestLogger(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)
			logger.Info("request",
				zap.String("request_id", middleware.GetReqID(r.Context())),
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Int("bytes", ww.BytesWritten()),
				zap.Duration("duration", time.Since(start)),
			)
		})
	}
}

// writeJSON encodes v before any header is written, so a value that cannot
// be encoded answers 500 instead of an empty 200.
func writeJSON(w http.ResponseWriter, status int, v any) {
	body, err := json.Marshal(v)
	if err != nil {
		status = http.StatusInternalServerError
		body, _ = json.Marshal(map[string]string{"detail": "encode response: " + err.Error()})
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(append(body, '\n'))
}

func writePNG(w http.ResponseWriter, img []byte) {
	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(img)
}

// statusFor maps domain errors onto HTTP status codes.
func statusFor(err error) int {
	var (
		verr *simulator.ValidationError
		cerr *simulator.ConfigError
		lerr *simulator.LengthMismatchError
	)
	switch {
	case errors.As(err, &verr), errors.As(err, &cerr), errors.As(err, &lerr), errors.Is(err, errBadRequest),
		errors.Is(err, confidence.ErrInvalidImpact):
		return http.StatusBadRequest
	case errors.Is(err, collector.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, errUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// writeError answers with {"detail": ...}. Server errors are logged and
// their detail hidden.
func writeError(w http.ResponseWriter, logger *zap.Logger, err error) {
	status := statusFor(err)
	detail := err.Error()
	if status >= http.StatusInternalServerError && status != http.StatusServiceUnavailable {
		logger.Error("request failed", zap.Error(err))
		detail = http.StatusText(status)
	}
	writeJSON(w, status, map[string]string{"detail": detail})
}

type requestError struct {
	msg  string
	kind error
}

func (e *requestError) Error() string { return e.msg }
func (e *requestError) Unwrap() error { return e.kind }

func badRequest(format string, args ...any) error {
	return &requestError{msg: fmt.Sprintf(format, args...), kind: errBadRequest}
}

func unavailable(what string) error {
	return &requestError{msg: what + " is not configured", kind: errUnavailable}
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return badRequest("decode body: %v", err)
	}
	return nil
}

func decodeJSON(body []byte, dst any) error {
	if err := json.Unmarshal(body, dst); err != nil {
		return badRequest("decode body: %v", err)
	}
	return nil
}

func (h *Handler) methodLogger(r *http.Request, method string) *zap.Logger {
	return h.Logger.With(zap.String("method", method), zap.String("request_id", middleware.GetReqID(r.Context())))
}
