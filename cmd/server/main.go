package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"MarketSandbox/internal/analysis"
	"MarketSandbox/internal/chart"
	"MarketSandbox/internal/collector"
	"MarketSandbox/internal/config"
	"MarketSandbox/internal/confidence"
	"MarketSandbox/internal/engine"
	"MarketSandbox/internal/fund"
	"MarketSandbox/internal/logger"
	"MarketSandbox/internal/model"
	"MarketSandbox/internal/publisher"
	"MarketSandbox/internal/scheduler"
	"MarketSandbox/internal/server"
	"MarketSandbox/internal/store"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "MarketSandbox: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfgPath := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		cfgPath = v
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("config validation: %w", err)
	}

	log, err := logger.New(cfg.Log.Level)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer func() { _ = log.Sync() }()
	log.Info("MarketSandbox starting", zap.String("config", cfgPath))

	// Confidence store
	var confStore confidence.Store
	if cfg.Database.SQLitePath != "" {
		ss, err := confidence.NewSQLiteStore(cfg.Database.SQLitePath, log)
		if err != nil {
			log.Warn("init sqlite store failed, using memory", zap.Error(err))
			confStore = confidence.NewMemoryStore()
		} else {
			confStore = ss
		}
	} else {
		confStore = confidence.NewMemoryStore()
	}
	defer confStore.Close()

	// Event publisher
	var pub publisher.Publisher = publisher.NewNoopPublisher()
	if cfg.RabbitMQ.URL != "" {
		ap, err := publisher.NewAMQPPublisher(cfg.RabbitMQ.URL, cfg.RabbitMQ.Queue, log)
		if err != nil {
			log.Warn("connect rabbitmq failed, events disabled", zap.Error(err))
		} else {
			pub = ap
		}
	}
	defer pub.Close()

	fm, err := fund.NewManager(cfg.Account.StateFile, cfg.Account.InitialWallet, log)
	if err != nil {
		return fmt.Errorf("init fund manager: %w", err)
	}

	watchlist := make([]model.Company, len(cfg.Watchlist))
	quotes := make(map[string]float64, len(cfg.Watchlist))
	for i, c := range cfg.Watchlist {
		watchlist[i] = model.Company{Ticker: c.Ticker, Name: c.Name, Price: c.Price}
		quotes[c.Ticker] = c.Price
	}

	src := collector.NewCSVSource(cfg.Data.CSVDir)
	lastPrices := store.NewPriceCache()
	col := collector.NewCollector(src, lastPrices, quotes, log)
	eng := engine.New(lastPrices, col, pub, log)

	defaults := model.SimulationConfig{
		InitialPrice: cfg.Simulation.StartPrice,
		Drift:        cfg.Simulation.MuDaily,
		Volatility:   cfg.Simulation.SigmaDaily,
		Steps:        cfg.Simulation.Steps,
		Nu:           cfg.Simulation.Nu,
		ClipLimit:    cfg.Simulation.ClipLimit,
		Trend:        model.TrendStandard,
	}
	updater := confidence.NewUpdater(confStore)

	var analyzer *analysis.Analyzer
	if cfg.OpenAI.APIKey != "" {
		analyzer = analysis.NewAnalyzer(analysis.NewOpenAICompleter(cfg.OpenAI.APIKey, cfg.OpenAI.Model), log)
	} else {
		log.Info("OPENAI_API_KEY not set, analysis routes disabled")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sched := scheduler.NewScheduler(ctx, eng, fm, updater, watchlist, defaults, log)
	if err := sched.RegisterAll(cfg.Schedule.TickCron, cfg.Schedule.TradeCron); err != nil {
		return fmt.Errorf("register cron tasks: %w", err)
	}
	sched.Start()
	defer sched.Stop()

	if os.Getenv("RUN_ON_START") == "true" {
		log.Info("RUN_ON_START enabled, executing tick task now")
		go sched.RunTickNow()
	}

	h := &server.Handler{
		Logger:     log,
		Engine:     eng,
		Averages:   store.NewPriceCache(),
		Source:     src,
		Confidence: updater,
		Fund:       fm,
		Trader:     sched,
		Analyzer:   analyzer,
		Charts:     chart.NewRenderer(cfg.Chart.CacheTTL),
		Watchlist:  watchlist,
		Defaults:   defaults,
	}
	srv := server.NewServer(cfg.Server.Addr, server.NewRouter(h))

	errCh := make(chan error, 1)
	go func() {
		log.Info("http server listening", zap.String("addr", cfg.Server.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	select {
	case sig := <-sigCh:
		log.Info("shutdown signal received", zap.String("signal", sig.String()))
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	}

	cancel()
	shutdownCtx, stop := context.WithTimeout(context.Background(), 10*time.Second)
	defer stop()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Warn("http shutdown", zap.Error(err))
	}
	log.Info("MarketSandbox stopped")
	return nil
}
