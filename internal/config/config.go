package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Company is one watchlist entry. Price is the fallback quote used when no
// simulated or imported price is known.
type Company struct {
	Ticker string  `yaml:"ticker"`
	Name   string  `yaml:"name"`
	Price  float64 `yaml:"price"`
}

// Config holds all application configuration.
type Config struct {
	Server struct {
		Addr string `yaml:"addr"`
	} `yaml:"server"`
	Log struct {
		Level string `yaml:"level"`
	} `yaml:"log"`
	Simulation struct {
		MuDaily    float64 `yaml:"mu_daily"`
		SigmaDaily float64 `yaml:"sigma_daily"`
		Steps      int     `yaml:"n_steps"`
		Nu         int     `yaml:"nu"`
		ClipLimit  float64 `yaml:"clip_limit"`
		StartPrice float64 `yaml:"start_price"`
	} `yaml:"simulation"`
	Watchlist []Company `yaml:"watchlist"`
	Schedule  struct {
		TickCron  string `yaml:"tick_cron"`
		TradeCron string `yaml:"trade_cron"`
	} `yaml:"schedule"`
	Account struct {
		StateFile     string  `yaml:"state_file"`
		InitialWallet float64 `yaml:"initial_wallet"`
	} `yaml:"account"`
	Database struct {
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"database"`
	Data struct {
		CSVDir string `yaml:"csv_dir"`
	} `yaml:"data"`
	OpenAI struct {
		APIKey string `yaml:"api_key"`
		Model  string `yaml:"model"`
	} `yaml:"openai"`
	RabbitMQ struct {
		URL   string `yaml:"url"`
		Queue string `yaml:"queue"`
	} `yaml:"rabbitmq"`
	Chart struct {
		CacheTTL time.Duration `yaml:"cache_ttl"`
	} `yaml:"chart"`
}

// DefaultWatchlist is used when the config file names no companies.
var DefaultWatchlist = []Company{
	{Ticker: "MSFT", Name: "Microsoft", Price: 420},
	{Ticker: "AAPL", Name: "Apple", Price: 200},
	{Ticker: "TSLA", Name: "Tesla", Price: 250},
	{Ticker: "NVDA", Name: "NVIDIA", Price: 900},
}

// Load reads config from a YAML file, then applies environment variable overrides.
// A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	overrides := []struct {
		env string
		dst *string
	}{
		{"HTTP_ADDR", &cfg.Server.Addr},
		{"LOG_LEVEL", &cfg.Log.Level},
		{"OPENAI_API_KEY", &cfg.OpenAI.APIKey},
		{"OPENAI_MODEL", &cfg.OpenAI.Model},
		{"RABBITMQ_URL", &cfg.RabbitMQ.URL},
		{"SQLITE_PATH", &cfg.Database.SQLitePath},
		{"DATA_DIR", &cfg.Data.CSVDir},
		{"ACCOUNT_STATE_FILE", &cfg.Account.StateFile},
		{"CRON_TICK", &cfg.Schedule.TickCron},
		{"CRON_TRADE", &cfg.Schedule.TradeCron},
	}
	for _, o := range overrides {
		if v := os.Getenv(o.env); v != "" {
			*o.dst = v
		}
	}
	if v := os.Getenv("INITIAL_WALLET"); v != "" {
		var wallet float64
		if _, err := fmt.Sscanf(v, "%f", &wallet); err == nil {
			cfg.Account.InitialWallet = wallet
		}
	}

	cfg.applyDefaults()
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Server.Addr == "" {
		c.Server.Addr = ":8080"
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Simulation.MuDaily == 0 {
		c.Simulation.MuDaily = 0.0005
	}
	if c.Simulation.SigmaDaily == 0 {
		c.Simulation.SigmaDaily = 0.02
	}
	if c.Simulation.Steps == 0 {
		c.Simulation.Steps = 390
	}
	if c.Simulation.Nu == 0 {
		c.Simulation.Nu = 5
	}
	if c.Simulation.ClipLimit == 0 {
		c.Simulation.ClipLimit = 0.05
	}
	if c.Simulation.StartPrice == 0 {
		c.Simulation.StartPrice = 100
	}
	if len(c.Watchlist) == 0 {
		c.Watchlist = append([]Company(nil), DefaultWatchlist...)
	}
	for i := range c.Watchlist {
		c.Watchlist[i].Ticker = strings.ToUpper(strings.TrimSpace(c.Watchlist[i].Ticker))
	}
	if c.Schedule.TickCron == "" {
		c.Schedule.TickCron = "0 */5 * * * *"
	}
	if c.Schedule.TradeCron == "" {
		c.Schedule.TradeCron = "0 0 22 * * 1-5"
	}
	if c.Account.StateFile == "" {
		c.Account.StateFile = "data/account_state.json"
	}
	if c.Account.InitialWallet == 0 {
		c.Account.InitialWallet = 10000
	}
	if c.Database.SQLitePath == "" {
		c.Database.SQLitePath = "data/market_sandbox.db"
	}
	if c.Data.CSVDir == "" {
		c.Data.CSVDir = "data/csv"
	}
	if c.OpenAI.Model == "" {
		c.OpenAI.Model = "gpt-4o-mini"
	}
	if c.RabbitMQ.Queue == "" {
		c.RabbitMQ.Queue = "simulation_events"
	}
	if c.Chart.CacheTTL == 0 {
		c.Chart.CacheTTL = 10 * time.Minute
	}
}

// Validate checks that all fields hold usable values.
func (c *Config) Validate() error {
	if c.Simulation.SigmaDaily <= 0 {
		return fmt.Errorf("simulation.sigma_daily must be positive")
	}
	if c.Simulation.Steps < 1 {
		return fmt.Errorf("simulation.n_steps must be at least 1")
	}
	if c.Simulation.Nu < 1 || c.Simulation.Nu > 200 {
		return fmt.Errorf("simulation.nu must be within [1, 200]")
	}
	if c.Simulation.ClipLimit < 0 {
		return fmt.Errorf("simulation.clip_limit must not be negative")
	}
	if c.Simulation.StartPrice <= 0 {
		return fmt.Errorf("simulation.start_price must be positive")
	}
	seen := make(map[string]bool, len(c.Watchlist))
	for i, co := range c.Watchlist {
		if co.Ticker == "" {
			return fmt.Errorf("watchlist[%d].ticker is required", i)
		}
		if seen[co.Ticker] {
			return fmt.Errorf("watchlist ticker %s is duplicated", co.Ticker)
		}
		seen[co.Ticker] = true
		if co.Price <= 0 {
			return fmt.Errorf("watchlist[%d].price must be positive", i)
		}
	}
	if c.Account.InitialWallet < 0 {
		return fmt.Errorf("account.initial_wallet must not be negative")
	}
	if c.Chart.CacheTTL < 0 {
		return fmt.Errorf("chart.cache_ttl must not be negative")
	}
	return nil
}
