package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds all application configuration.
type Config struct {
	DataDir string `yaml:"data_dir"`
	Tickers struct {
		Reits []string `yaml:"reits"`
		Etfs  []string `yaml:"etfs"`
	} `yaml:"tickers"`
	Provider struct {
		BaseURL     string `yaml:"base_url"`
		HistoryDays int    `yaml:"history_days"`
	} `yaml:"provider"`
	Schedule struct {
		Cron         string `yaml:"cron"`
		SkipWeekends bool   `yaml:"skip_weekends"`
	} `yaml:"schedule"`
	Database struct {
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"database"`
	Telegram struct {
		BotToken string `yaml:"bot_token"`
		ChatID   string `yaml:"chat_id"`
	} `yaml:"telegram"`
	Proxy string `yaml:"proxy"`
}

// Load reads config from a YAML file, then applies environment variable overrides.
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
	if v := os.Getenv("DATA_DIR"); v != "" {
		cfg.DataDir = v
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		cfg.Database.SQLitePath = v
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		cfg.Proxy = v
	}
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		cfg.Telegram.BotToken = v
	}
	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
		cfg.Telegram.ChatID = v
	}
	if v := os.Getenv("CRON_SCHEDULE"); v != "" {
		cfg.Schedule.Cron = v
	}
	if v := os.Getenv("SKIP_WEEKENDS"); v != "" {
		cfg.Schedule.SkipWeekends = v == "true" || v == "1"
	}

	// Defaults
	if cfg.DataDir == "" {
		cfg.DataDir = "public/data"
	}
	if len(cfg.Tickers.Reits) == 0 {
		cfg.Tickers.Reits = []string{"AGNC", "NLY", "ARR", "ORC", "TWO"}
	}
	if len(cfg.Tickers.Etfs) == 0 {
		cfg.Tickers.Etfs = []string{
			"JEPI", "QYLD", "XYLD", "DIVO", "SPYD", "SDIV", "PGX",
			"SPHD", "DRIP", "REM", "MORT", "IWM", "EWZ", "HDVB",
		}
	}
	if cfg.Provider.BaseURL == "" {
		cfg.Provider.BaseURL = "https://query1.finance.yahoo.com"
	}
	if cfg.Provider.HistoryDays == 0 {
		cfg.Provider.HistoryDays = 180
	}

	return cfg, nil
}

// Validate checks that all required fields are set.
func (c *Config) Validate() error {
	if len(c.Tickers.Reits) == 0 && len(c.Tickers.Etfs) == 0 {
		return fmt.Errorf("tickers: at least one of reits/etfs must be non-empty")
	}
	if c.Provider.HistoryDays <= 0 {
		return fmt.Errorf("provider.history_days must be positive")
	}
	if c.DataDir == "" {
		return fmt.Errorf("data_dir is required")
	}
	return nil
}
