package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config holds all application configuration.
type Config struct {
	Server struct {
		Port string `yaml:"port"`
	} `yaml:"server"`
	Database struct {
		URL string `yaml:"url"`
	} `yaml:"database"`
	Provider struct {
		APIKey  string `yaml:"api_key"`
		BaseURL string `yaml:"base_url"`
	} `yaml:"provider"`
	Schedule struct {
		RefreshCron string `yaml:"refresh_cron"`
	} `yaml:"schedule"`
	Forecast struct {
		DefaultMonths   int `yaml:"default_months"`
		MaxMonths       int `yaml:"max_months"`
		DefaultLookback int `yaml:"default_lookback"`
	} `yaml:"forecast"`
	FI struct {
		SafeWithdrawalRatePct float64 `yaml:"safe_withdrawal_rate_pct"`
	} `yaml:"fi"`
}

// Load reads config from a YAML file, then applies environment variable
// overrides and defaults. A missing file is fine; env vars alone can carry
// the config.
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

	// Environment variable overrides
	if v := os.Getenv("PORT"); v != "" {
		cfg.Server.Port = v
	}
	if v := os.Getenv("DATABASE_URL"); v != "" {
		cfg.Database.URL = v
	}
	if v := os.Getenv("PROVIDER_API_KEY"); v != "" {
		cfg.Provider.APIKey = v
	}
	if v := os.Getenv("PROVIDER_BASE_URL"); v != "" {
		cfg.Provider.BaseURL = v
	}
	if v := os.Getenv("REFRESH_CRON"); v != "" {
		cfg.Schedule.RefreshCron = v
	}
	if v := os.Getenv("SAFE_WITHDRAWAL_RATE"); v != "" {
		if swr, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.FI.SafeWithdrawalRatePct = swr
		}
	}

	// Defaults
	if cfg.Server.Port == "" {
		cfg.Server.Port = "8080"
	}
	if cfg.Schedule.RefreshCron == "" {
		cfg.Schedule.RefreshCron = "0 3 * * *" // nightly at 03:00
	}
	if cfg.Forecast.DefaultMonths == 0 {
		cfg.Forecast.DefaultMonths = 12
	}
	if cfg.Forecast.MaxMonths == 0 {
		cfg.Forecast.MaxMonths = 60
	}
	if cfg.FI.SafeWithdrawalRatePct == 0 {
		cfg.FI.SafeWithdrawalRatePct = 4.0
	}

	return cfg, nil
}

// Validate checks that all required fields are set.
func (c *Config) Validate() error {
	if c.Database.URL == "" {
		return fmt.Errorf("database.url is required")
	}
	if c.FI.SafeWithdrawalRatePct <= 0 || c.FI.SafeWithdrawalRatePct > 20 {
		return fmt.Errorf("fi.safe_withdrawal_rate_pct must be in (0, 20]")
	}
	if c.Forecast.DefaultMonths < 1 || c.Forecast.DefaultMonths > c.Forecast.MaxMonths {
		return fmt.Errorf("forecast.default_months must be between 1 and forecast.max_months")
	}
	return nil
}
