package fund

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"MarketSandbox/internal/model"
)

// LoadState reads a persisted account. A missing file yields an empty
// account with no wallet set, which NewManager funds.
func LoadState(filePath string) (*model.AccountState, error) {
	state := &model.AccountState{}
	f, err := os.Open(filePath)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("open account state: %w", err)
	default:
		defer f.Close()
		if err := json.NewDecoder(f).Decode(state); err != nil {
			return nil, fmt.Errorf("decode account state %s: %w", filePath, err)
		}
	}
	if state.Holdings == nil {
		state.Holdings = make(map[string]int64)
	}
	return state, nil
}

// SaveState stamps state and replaces filePath atomically, so a crash never
// leaves a truncated account behind.
func SaveState(filePath string, state *model.AccountState) error {
	state.UpdatedAt = time.Now().UTC()

	dir := filepath.Dir(filePath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create state dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, filepath.Base(filePath)+".*")
	if err != nil {
		return fmt.Errorf("create temp state: %w", err)
	}
	defer os.Remove(tmp.Name())

	enc := json.NewEncoder(tmp)
	enc.SetIndent("", "  ")
	if err := enc.Encode(state); err != nil {
		tmp.Close()
		return fmt.Errorf("encode account state: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp state: %w", err)
	}
	return os.Rename(tmp.Name(), filePath)
}
