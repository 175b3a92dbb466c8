// Package config defines the configuration structures for the SciText-Prep
// pipeline.  No I/O or parsing logic lives here — only plain data types and
// validation.
package config

import (
	"fmt"
	"time"
)

// LogConfig holds structured-logging tunables.
type LogConfig struct {
	Level      string `mapstructure:"level"` // "debug" | "info" | "warn" | "error"
	Format     string `mapstructure:"format"` // "json" | "console"
	OutputPath string `mapstructure:"output_path"`
}

// ResolverConfig holds the external chemical lookup parameters.
type ResolverConfig struct {
	BaseURL        string        `mapstructure:"base_url"`
	LookupTimeout  time.Duration `mapstructure:"lookup_timeout"`
	LookupAttempts int           `mapstructure:"lookup_attempts"`
	RetryBackoff   time.Duration `mapstructure:"retry_backoff"`
}

// RedisConfig holds the optional cross-session lookup cache parameters.
type RedisConfig struct {
	Enabled      bool          `mapstructure:"enabled"`
	Addr         string        `mapstructure:"addr"`
	Password     string        `mapstructure:"password"`
	DB           int           `mapstructure:"db"`
	DialTimeout  time.Duration `mapstructure:"dial_timeout"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	KeyPrefix    string        `mapstructure:"key_prefix"`
	DefaultTTL   time.Duration `mapstructure:"default_ttl"`
}

// PipelineConfig holds normalization-run behaviour.
type PipelineConfig struct {
	RemoveAbbreviations bool `mapstructure:"remove_abbreviations"`
	Save                bool `mapstructure:"save"`
	SaveFreq            int  `mapstructure:"save_freq"`
}

// HistoryConfig holds the session persistence location.
type HistoryConfig struct {
	Dir string `mapstructure:"dir"`
}

// MetricsConfig holds the prometheus exposition settings.
type MetricsConfig struct {
	Enabled    bool   `mapstructure:"enabled"`
	Namespace  string `mapstructure:"namespace"`
	ListenAddr string `mapstructure:"listen_addr"`
}

// Config is the root configuration object.
type Config struct {
	Log      LogConfig      `mapstructure:"log"`
	Resolver ResolverConfig `mapstructure:"resolver"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Pipeline PipelineConfig `mapstructure:"pipeline"`
	History  HistoryConfig  `mapstructure:"history"`
	Metrics  MetricsConfig  `mapstructure:"metrics"`
}

// Validate checks cross-field consistency after defaults are applied.
func (c *Config) Validate() error {
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log.level must be one of debug|info|warn|error, got %q", c.Log.Level)
	}
	switch c.Log.Format {
	case "json", "console":
	default:
		return fmt.Errorf("log.format must be json or console, got %q", c.Log.Format)
	}
	if c.Resolver.BaseURL == "" {
		return fmt.Errorf("resolver.base_url must not be empty")
	}
	if c.Resolver.LookupTimeout <= 0 {
		return fmt.Errorf("resolver.lookup_timeout must be positive, got %s", c.Resolver.LookupTimeout)
	}
	if c.Resolver.LookupAttempts < 1 {
		return fmt.Errorf("resolver.lookup_attempts must be at least 1, got %d", c.Resolver.LookupAttempts)
	}
	if c.Redis.Enabled && c.Redis.Addr == "" {
		return fmt.Errorf("redis.addr must not be empty when redis is enabled")
	}
	if c.Pipeline.SaveFreq < 1 {
		return fmt.Errorf("pipeline.save_freq must be at least 1, got %d", c.Pipeline.SaveFreq)
	}
	if c.Pipeline.Save && c.History.Dir == "" {
		return fmt.Errorf("history.dir must not be empty when pipeline.save is enabled")
	}
	if c.Metrics.Enabled && c.Metrics.ListenAddr == "" {
		return fmt.Errorf("metrics.listen_addr must not be empty when metrics are enabled")
	}
	return nil
}
