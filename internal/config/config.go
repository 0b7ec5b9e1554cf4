package config

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds the application configuration.
type Config struct {
	// Telegram delivery
	TelegramToken  string `mapstructure:"telegram_token"`   // Bot token from BotFather
	TelegramChatID int64  `mapstructure:"telegram_chat_id"` // Destination chat
	// Polling
	PollInterval time.Duration `mapstructure:"poll_interval"` // Time between poll cycles
	FetchTimeout time.Duration `mapstructure:"fetch_timeout"` // Per-page fetch timeout
	// Notification delivery
	NotifyTimeout time.Duration `mapstructure:"notify_timeout"` // Per-message send timeout
	PaceMin       time.Duration `mapstructure:"pace_min"`       // Lower bound of the randomized delay between sends
	PaceMax       time.Duration `mapstructure:"pace_max"`       // Upper bound of the randomized delay between sends
	// Storage
	StoreDriver string `mapstructure:"store_driver"` // "sqlite3" or "postgres"
	StoreDSN    string `mapstructure:"store_dsn"`    // File path (sqlite3) or DSN (postgres)
	// Logging
	LogLevel  string `mapstructure:"log_level"`  // "DEBUG", "INFO", "WARN", "ERROR"
	LogFormat string `mapstructure:"log_format"` // "text" or "json"
}

// LoadConfig loads configuration from file, environment variables, and defaults using Viper.
// Telegram credentials are deliberately not validated here: only the run
// command needs them, and the targets subcommands must work without.
func LoadConfig(configPath string) (*Config, error) {
	v := viper.New()

	v.SetDefault("telegram_token", "")
	v.SetDefault("telegram_chat_id", 0)
	v.SetDefault("poll_interval", time.Minute)
	v.SetDefault("fetch_timeout", 20*time.Second)
	v.SetDefault("notify_timeout", 20*time.Second)
	v.SetDefault("pace_min", 500*time.Millisecond)
	v.SetDefault("pace_max", 1500*time.Millisecond)
	v.SetDefault("store_driver", "sqlite3")
	v.SetDefault("store_dsn", "adwatch.db")
	v.SetDefault("log_level", "INFO")
	v.SetDefault("log_format", "text")

	v.SetEnvPrefix("ADWATCH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("adwatch")
		v.SetConfigType("toml")
		v.AddConfigPath("/etc/adwatch/")
		v.AddConfigPath("$HOME/.adwatch")
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			log.Printf("Info: No config file found, using defaults and environment variables.")
		} else {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshalling config: %w", err)
	}

	// --- Validation ---
	if cfg.PollInterval <= 0 {
		return nil, errors.New("poll_interval must be a positive duration")
	}
	if cfg.FetchTimeout <= 0 {
		return nil, errors.New("fetch_timeout must be a positive duration")
	}
	if cfg.NotifyTimeout <= 0 {
		return nil, errors.New("notify_timeout must be a positive duration")
	}
	if cfg.PaceMin < 0 {
		return nil, errors.New("pace_min cannot be negative")
	}
	if cfg.PaceMax < cfg.PaceMin {
		return nil, fmt.Errorf("pace_max (%v) must be greater than or equal to pace_min (%v)", cfg.PaceMax, cfg.PaceMin)
	}
	if cfg.StoreDriver != "sqlite3" && cfg.StoreDriver != "postgres" {
		return nil, fmt.Errorf("invalid store_driver %q: must be 'sqlite3' or 'postgres'", cfg.StoreDriver)
	}
	if cfg.StoreDSN == "" {
		return nil, errors.New("store_dsn must be set")
	}

	validLevels := map[string]bool{"DEBUG": true, "INFO": true, "WARN": true, "ERROR": true}
	if _, ok := validLevels[strings.ToUpper(cfg.LogLevel)]; !ok {
		return nil, fmt.Errorf("invalid log_level %q: must be one of DEBUG, INFO, WARN, ERROR", cfg.LogLevel)
	}
	validFormats := map[string]bool{"text": true, "json": true}
	if _, ok := validFormats[strings.ToLower(cfg.LogFormat)]; !ok {
		return nil, fmt.Errorf("invalid log_format %q: must be 'text' or 'json'", cfg.LogFormat)
	}

	return &cfg, nil
}
