// Package config provides configuration management for the evaluator.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/spf13/viper"

	apperrors "rentab/internal/errors"
	"rentab/internal/scenario"
)

// Config holds all application configuration.
type Config struct {
	Assumptions AssumptionsConfig `mapstructure:"assumptions"`
	Defaults    scenario.Scenario `mapstructure:"defaults"`
	Server      ServerConfig      `mapstructure:"server"`
	Sweep       SweepConfig       `mapstructure:"sweep"`
	Log         LogConfig         `mapstructure:"log"`
	UI          UIConfig          `mapstructure:"ui"`
}

// AssumptionsConfig holds market conventions applied by the shells.
type AssumptionsConfig struct {
	NotaryFeesPercent float64 `mapstructure:"notary_fees_percent"`
}

// ServerConfig holds HTTP API configuration.
type ServerConfig struct {
	Addr      string        `mapstructure:"addr"`
	RedisAddr string        `mapstructure:"redis_addr"` // empty uses the in-memory cache
	CacheTTL  time.Duration `mapstructure:"cache_ttl"`
	RateLimit float64       `mapstructure:"rate_limit"` // requests per second, 0 disables
	RateBurst int           `mapstructure:"rate_burst"`
}

// SweepConfig holds sensitivity grid configuration.
type SweepConfig struct {
	Workers int `mapstructure:"workers"` // 0 uses runtime.NumCPU()
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level      string `mapstructure:"level"`
	File       bool   `mapstructure:"file"`
	FilePath   string `mapstructure:"file_path"`
	MaxSize    int    `mapstructure:"max_size"` // megabytes
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAge     int    `mapstructure:"max_age"` // days
}

// UIConfig holds terminal output configuration.
type UIConfig struct {
	ColorEnabled bool `mapstructure:"color_enabled"`
}

// DefaultConfigDir returns the default configuration directory.
func DefaultConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".config/rentab"
	}
	return filepath.Join(home, ".config", "rentab")
}

// Default returns the configuration used when no file overrides it.
func Default() *Config {
	return &Config{
		Assumptions: AssumptionsConfig{NotaryFeesPercent: scenario.DefaultNotaryFeesPercent},
		Defaults:    scenario.Default(),
		Server: ServerConfig{
			Addr:     ":8080",
			CacheTTL: time.Hour,
		},
		Log: LogConfig{
			Level:      "info",
			File:       false,
			FilePath:   filepath.Join(DefaultConfigDir(), "logs", "rentab.log"),
			MaxSize:    100,
			MaxBackups: 7,
			MaxAge:     30,
		},
		UI: UIConfig{ColorEnabled: true},
	}
}

// Load loads configuration from the specified directory.
// If configDir is empty, uses the default config directory. A commented
// template is written on first run and defaults are used for that run.
func Load(configDir string) (*Config, error) {
	if configDir == "" {
		configDir = DefaultConfigDir()
	}

	cfg := Default()

	if err := loadConfigFile(configDir, "config", cfg); err != nil {
		return nil, fmt.Errorf("loading config.toml: %w", err)
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

func loadConfigFile(configDir, name string, target *Config) error {
	v := viper.New()
	v.SetConfigName(name)
	v.SetConfigType("toml")
	v.AddConfigPath(configDir)

	setDefaults(v, target)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return createTemplateConfig(configDir, name)
		}
		return err
	}

	return v.Unmarshal(target)
}

func setDefaults(v *viper.Viper, cfg *Config) {
	d := cfg.Defaults
	v.SetDefault("assumptions.notary_fees_percent", cfg.Assumptions.NotaryFeesPercent)

	v.SetDefault("defaults.age", d.Age)
	v.SetDefault("defaults.monthly_revenue", d.MonthlyRevenue)
	v.SetDefault("defaults.down_payment", d.DownPayment)
	v.SetDefault("defaults.annual_rate", d.AnnualRate)
	v.SetDefault("defaults.duration", d.Duration)
	v.SetDefault("defaults.purchase_price", d.PurchasePrice)
	v.SetDefault("defaults.notary_fees_included", d.NotaryFeesIncluded)
	v.SetDefault("defaults.works_cost", d.WorksCost)
	v.SetDefault("defaults.monthly_rent", d.MonthlyRent)
	v.SetDefault("defaults.property_tax", d.PropertyTax)
	v.SetDefault("defaults.condo_fees", d.CondoFees)
	v.SetDefault("defaults.management_fee_percent", d.ManagementFeePercent)

	v.SetDefault("server.addr", cfg.Server.Addr)
	v.SetDefault("server.cache_ttl", cfg.Server.CacheTTL)
	v.SetDefault("server.rate_burst", cfg.Server.RateBurst)
	v.SetDefault("log.level", cfg.Log.Level)
	v.SetDefault("log.file_path", cfg.Log.FilePath)
	v.SetDefault("log.max_size", cfg.Log.MaxSize)
	v.SetDefault("log.max_backups", cfg.Log.MaxBackups)
	v.SetDefault("log.max_age", cfg.Log.MaxAge)
	v.SetDefault("ui.color_enabled", cfg.UI.ColorEnabled)
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("RENTAB_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("RENTAB_SERVER_ADDR"); v != "" {
		cfg.Server.Addr = v
	}
	if v := os.Getenv("RENTAB_REDIS_ADDR"); v != "" {
		cfg.Server.RedisAddr = v
	}
	if v := os.Getenv("RENTAB_NOTARY_FEES_PERCENT"); v != "" {
		if pct, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Assumptions.NotaryFeesPercent = pct
		}
	}
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Assumptions.NotaryFeesPercent < 0 || c.Assumptions.NotaryFeesPercent > 100 {
		return apperrors.NewConfigError("assumptions.notary_fees_percent", "must be between 0 and 100")
	}

	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return apperrors.NewConfigError("log.level", fmt.Sprintf("unknown level %q", c.Log.Level))
	}

	if c.Server.Addr == "" {
		return apperrors.NewConfigError("server.addr", "must not be empty")
	}
	if c.Server.CacheTTL < 0 {
		return apperrors.NewConfigError("server.cache_ttl", "must not be negative")
	}
	if c.Server.RateLimit < 0 {
		return apperrors.NewConfigError("server.rate_limit", "must not be negative")
	}
	if c.Server.RateLimit > 0 && c.Server.RateBurst < 1 {
		return apperrors.NewConfigError("server.rate_burst", "must be at least 1 when rate_limit is set")
	}
	if c.Sweep.Workers < 0 {
		return apperrors.NewConfigError("sweep.workers", "must not be negative")
	}

	if err := c.Defaults.Validate(); err != nil {
		return apperrors.Wrap(apperrors.NewConfigError("defaults", err.Error()), "scenario defaults")
	}

	return nil
}
