package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"MarketSandbox/internal/confidence"
	"MarketSandbox/internal/engine"
	"MarketSandbox/internal/fund"
	"MarketSandbox/internal/model"
	"MarketSandbox/internal/publisher"
	"MarketSandbox/internal/strategy"
)

// Scheduler manages the market tick and auto-trade cron jobs.
type Scheduler struct {
	Cron       *cron.Cron
	Engine     *engine.Engine
	Fund       *fund.Manager
	Confidence *confidence.Updater
	Watchlist  []model.Company
	Session    model.SimulationConfig
	Logger     *zap.Logger
	Ctx        context.Context
}

// NewScheduler creates a new Scheduler. session is the per-tick path config;
// its InitialPrice is replaced by each ticker's current price.
func NewScheduler(ctx context.Context, eng *engine.Engine, fm *fund.Manager, conf *confidence.Updater, watchlist []model.Company, session model.SimulationConfig, logger *zap.Logger) *Scheduler {
	return &Scheduler{
		Cron:       cron.New(cron.WithSeconds()),
		Engine:     eng,
		Fund:       fm,
		Confidence: conf,
		Watchlist:  watchlist,
		Session:    session,
		Logger:     logger,
		Ctx:        ctx,
	}
}

// RegisterAll registers the tick and trade jobs.
func (s *Scheduler) RegisterAll(tickCron, tradeCron string) error {
	if _, err := s.Cron.AddFunc(tickCron, s.tickTask); err != nil {
		return fmt.Errorf("register tick task: %w", err)
	}
	if _, err := s.Cron.AddFunc(tradeCron, s.tradeTask); err != nil {
		return fmt.Errorf("register trade task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	s.Logger.Info("scheduler started", zap.Int("jobs", len(s.Cron.Entries())))
}

// Stop stops the cron scheduler and waits for running jobs.
func (s *Scheduler) Stop() {
	<-s.Cron.Stop().Done()
	s.Logger.Info("scheduler stopped")
}

// RunTickNow executes the tick task immediately (for RUN_ON_START).
func (s *Scheduler) RunTickNow() {
	s.tickTask()
}

// RunTradeNow executes the trade task immediately and returns the committed plan.
func (s *Scheduler) RunTradeNow() (model.TradePlan, error) {
	return s.trade()
}

func (s *Scheduler) tickTask() {
	s.Logger.Info("running tick task")
	tickers := make([]string, len(s.Watchlist))
	for i, c := range s.Watchlist {
		tickers[i] = c.Ticker
	}
	s.Engine.Tick(s.Ctx, tickers, s.Session)
}

func (s *Scheduler) tradeTask() {
	s.Logger.Info("running trade task")
	if _, err := s.trade(); err != nil {
		s.Logger.Error("trade task", zap.Error(err))
	}
}

func (s *Scheduler) trade() (model.TradePlan, error) {
	conf, err := s.Confidence.All(s.Ctx)
	if err != nil {
		return model.TradePlan{}, fmt.Errorf("load confidences: %w", err)
	}
	companies := s.Engine.Companies(s.Watchlist)

	plan, err := s.Fund.Trade(func(wallet float64, holdings map[string]int64) model.TradePlan {
		return strategy.GenerateTrades(wallet, holdings, companies, conf, strategy.DefaultLimits())
	})
	if err != nil {
		return model.TradePlan{}, err
	}

	evt := publisher.Event{
		ID:         uuid.NewString(),
		Kind:       publisher.KindTrade,
		FinalPrice: plan.FinalWallet,
		Timestamp:  time.Now().UTC(),
	}
	if plan.InitialWallet > 0 {
		evt.ChangeRate = (plan.FinalWallet - plan.InitialWallet) / plan.InitialWallet
	}
	if err := s.Engine.Publisher.Publish(s.Ctx, evt); err != nil {
		s.Logger.Warn("publish trade event", zap.Error(err))
	}
	return plan, nil
}
