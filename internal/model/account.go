package model

import "time"

// AccountState is the persisted demo trading account.
type AccountState struct {
	Wallet    float64          `json:"wallet"`
	Holdings  map[string]int64 `json:"holdings"`
	Trades    int              `json:"trades"`
	UpdatedAt time.Time        `json:"updated_at"`
}
