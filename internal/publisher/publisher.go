package publisher

import (
	"context"
	"time"

	"github.com/google/uuid"

	"MarketSandbox/internal/model"
)

// Event kinds.
const (
	KindSimulation = "simulation"
	KindPortfolio  = "portfolio"
	KindTick       = "tick"
	KindTrade      = "trade"
)

// Event announces a finished simulation or account change.
type Event struct {
	ID         string    `json:"id"`
	Kind       string    `json:"kind"`
	Symbol     string    `json:"symbol,omitempty"`
	FinalPrice float64   `json:"final_price"`
	ChangeRate float64   `json:"change_rate"`
	Steps      int       `json:"steps"`
	Timestamp  time.Time `json:"timestamp"`
}

// NewEvent stamps a fresh id and time on an event built from path.
func NewEvent(kind, symbol string, path model.PricePath) Event {
	return Event{
		ID:         uuid.NewString(),
		Kind:       kind,
		Symbol:     symbol,
		FinalPrice: path.FinalPrice,
		ChangeRate: path.ChangeRate,
		Steps:      len(path.Prices),
		Timestamp:  time.Now().UTC(),
	}
}

// Publisher delivers events to downstream consumers.
type Publisher interface {
	Publish(ctx context.Context, evt Event) error
	Close() error
}

// NoopPublisher drops every event. Used when no broker is configured.
type NoopPublisher struct{}

func NewNoopPublisher() *NoopPublisher { return &NoopPublisher{} }

func (NoopPublisher) Publish(context.Context, Event) error { return nil }
func (NoopPublisher) Close() error                        { return nil }
