package fund

import (
	"fmt"
	"maps"
	"sync"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"MarketSandbox/internal/model"
)

const cents = 2

// Manager owns the demo account with concurrency safety.
type Manager struct {
	mu       sync.Mutex
	state    *model.AccountState
	filePath string
	logger   *zap.Logger
}

// NewManager creates a Manager, loading or initializing state from disk.
// A fresh account starts with initialWallet in cash.
func NewManager(filePath string, initialWallet float64, logger *zap.Logger) (*Manager, error) {
	state, err := LoadState(filePath)
	if err != nil {
		return nil, err
	}

	if state.UpdatedAt.IsZero() && state.Wallet == 0 && len(state.Holdings) == 0 {
		state.Wallet = initialWallet
	}

	m := &Manager{state: state, filePath: filePath, logger: logger}
	if err := m.save(); err != nil {
		return nil, err
	}
	return m, nil
}

// GetState returns a copy of the current account state.
func (m *Manager) GetState() model.AccountState {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.snapshot()
}

// Trade builds a plan against the current account with plan and commits its
// final wallet and holdings. The lock is held across planning so concurrent
// trades never plan from the same starting state.
func (m *Manager) Trade(plan func(wallet float64, holdings map[string]int64) model.TradePlan) (model.TradePlan, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	p := plan(m.state.Wallet, maps.Clone(m.state.Holdings))
	wallet := decimal.NewFromFloat(p.FinalWallet).Round(cents)
	if wallet.IsNegative() {
		return model.TradePlan{}, fmt.Errorf("plan overspends wallet: %s", wallet.StringFixed(cents))
	}

	prev := m.snapshot()
	m.state.Wallet = wallet.InexactFloat64()
	m.state.Holdings = make(map[string]int64, len(p.FinalHoldings))
	for k, v := range p.FinalHoldings {
		if v > 0 {
			m.state.Holdings[k] = v
		}
	}
	m.state.Trades++

	if err := m.save(); err != nil {
		*m.state = prev
		return model.TradePlan{}, fmt.Errorf("save account state: %w", err)
	}
	m.logger.Info("account trade committed",
		zap.Float64("wallet_before", prev.Wallet), zap.Float64("wallet_after", m.state.Wallet),
		zap.Int("orders", len(p.Orders)))
	return p, nil
}

// Reset restores the account to wallet in cash and no holdings.
func (m *Manager) Reset(wallet float64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.state.Wallet = wallet
	m.state.Holdings = map[string]int64{}
	m.state.Trades = 0
	return m.save()
}

// Value marks the account to market with prices, rounded to cents; holdings
// without a price count as 0.
func (m *Manager) Value(prices map[string]float64) float64 {
	m.mu.Lock()
	defer m.mu.Unlock()

	total := decimal.NewFromFloat(m.state.Wallet)
	for t, n := range m.state.Holdings {
		total = total.Add(decimal.NewFromFloat(prices[t]).Mul(decimal.NewFromInt(n)))
	}
	return total.Round(cents).InexactFloat64()
}

func (m *Manager) snapshot() model.AccountState {
	s := *m.state
	s.Holdings = maps.Clone(m.state.Holdings)
	return s
}

func (m *Manager) save() error {
	return SaveState(m.filePath, m.state)
}
