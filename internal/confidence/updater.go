package confidence

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"

	"MarketSandbox/internal/store"
)

const (
	DefaultConfidence = 0.5
	BaseWeight        = 0.6
	ImpactWeight      = 0.4
	MaxImpact         = 10.0
)

// ErrInvalidImpact marks an impact map that cannot be applied: a NaN score,
// or two tickers that name the same company once normalized.
var ErrInvalidImpact = errors.New("invalid impact")

// Updater blends impact scores into stored confidences.
type Updater struct {
	mu    sync.Mutex
	store Store
}

func NewUpdater(s Store) *Updater {
	return &Updater{store: s}
}

// Blend returns the confidence after one impact score is applied to old.
// The impact is clamped to [-MaxImpact, MaxImpact] and mapped onto [0, 1].
func Blend(old, impact float64) float64 {
	impact = math.Max(-MaxImpact, math.Min(MaxImpact, impact))
	norm := (impact + MaxImpact) / (2 * MaxImpact)
	return math.Max(0, math.Min(1, BaseWeight*old+ImpactWeight*norm))
}

// ApplyImpacts updates the confidence of each ticker in impacts and returns
// the new values of those tickers only. Unknown tickers start at
// DefaultConfidence.
func (u *Updater) ApplyImpacts(ctx context.Context, impacts map[string]float64) (map[string]float64, error) {
	u.mu.Lock()
	defer u.mu.Unlock()

	existing, err := u.store.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("load confidences: %w", err)
	}

	updated := make(map[string]float64, len(impacts))
	for ticker, impact := range impacts {
		if math.IsNaN(impact) {
			return nil, fmt.Errorf("impact for %s is NaN: %w", ticker, ErrInvalidImpact)
		}
		key := store.Key(ticker)
		if _, dup := updated[key]; dup {
			return nil, fmt.Errorf("ticker %s given more than once: %w", key, ErrInvalidImpact)
		}
		old, ok := existing[key]
		if !ok {
			old = DefaultConfidence
		}
		updated[key] = Blend(old, impact)
	}

	if err := u.store.PutAll(ctx, updated); err != nil {
		return nil, fmt.Errorf("save confidences: %w", err)
	}
	return updated, nil
}

// All returns every stored confidence.
func (u *Updater) All(ctx context.Context) (map[string]float64, error) {
	return u.store.All(ctx)
}
