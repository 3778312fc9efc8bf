package collector

import (
	"errors"

	"MarketSandbox/internal/model"
)

// ErrNotFound is returned when a source holds no data for a symbol.
var ErrNotFound = errors.New("history not found")

// Source provides imported price history per symbol.
type Source interface {
	History(symbol string) (*model.History, error)
	Latest(symbol string) (float64, error)
	Name() string
}
