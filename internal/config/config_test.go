package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, 0.02, cfg.Simulation.SigmaDaily)
	assert.Equal(t, 390, cfg.Simulation.Steps)
	assert.Equal(t, 5, cfg.Simulation.Nu)
	assert.Len(t, cfg.Watchlist, len(DefaultWatchlist))
	assert.Equal(t, 10*time.Minute, cfg.Chart.CacheTTL)
}

func TestLoad_FileAndEnvOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	body := `
server:
  addr: ":9000"
simulation:
  n_steps: 50
watchlist:
  - ticker: " goog "
    name: Alphabet
    price: 150
chart:
  cache_ttl: 30s
`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	t.Setenv("HTTP_ADDR", ":7000")
	t.Setenv("OPENAI_MODEL", "gpt-4o")
	t.Setenv("INITIAL_WALLET", "2500")

	cfg, err := Load(path)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, ":7000", cfg.Server.Addr)
	assert.Equal(t, 50, cfg.Simulation.Steps)
	assert.Equal(t, "gpt-4o", cfg.OpenAI.Model)
	assert.Equal(t, 2500.0, cfg.Account.InitialWallet)
	assert.Equal(t, 30*time.Second, cfg.Chart.CacheTTL)
	require.Len(t, cfg.Watchlist, 1)
	assert.Equal(t, "GOOG", cfg.Watchlist[0].Ticker)
}

func TestLoad_BadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server: [unclosed"), 0o644))
	_, err := Load(path)
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"nu too large", func(c *Config) { c.Simulation.Nu = 201 }},
		{"negative clip", func(c *Config) { c.Simulation.ClipLimit = -1 }},
		{"empty ticker", func(c *Config) { c.Watchlist[0].Ticker = "" }},
		{"duplicate ticker", func(c *Config) { c.Watchlist[1].Ticker = c.Watchlist[0].Ticker }},
		{"zero price", func(c *Config) { c.Watchlist[0].Price = 0 }},
		{"negative wallet", func(c *Config) { c.Account.InitialWallet = -5 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
			require.NoError(t, err)
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}
