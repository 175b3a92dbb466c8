package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// envPrefix is the environment variable prefix used by all settings.
const envPrefix = "SCITEXT"

// newViper builds a pre-configured Viper instance: YAML file type, SCITEXT_
// env prefix, automatic env binding, and a key replacer that maps "." → "_"
// so that nested keys like "resolver.base_url" resolve to
// "SCITEXT_RESOLVER_BASE_URL".
func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	// The only boolean default that is on rather than off.
	v.SetDefault("pipeline.remove_abbreviations", true)
	// Registering every key lets Unmarshal see env-only overrides; real
	// default values are applied afterwards by ApplyDefaults.
	for _, key := range []string{
		"log.level", "log.format", "log.output_path",
		"resolver.base_url", "resolver.lookup_timeout", "resolver.lookup_attempts", "resolver.retry_backoff",
		"redis.enabled", "redis.addr", "redis.password", "redis.db",
		"redis.dial_timeout", "redis.read_timeout", "redis.write_timeout",
		"redis.key_prefix", "redis.default_ttl",
		"pipeline.save", "pipeline.save_freq",
		"history.dir",
		"metrics.enabled", "metrics.namespace", "metrics.listen_addr",
	} {
		v.SetDefault(key, nil)
	}
	return v
}

// Load reads the YAML file at configPath, merges any SCITEXT_* environment
// variable overrides, applies defaults for unset fields, and validates the
// result.
func Load(configPath string) (*Config, error) {
	v := newViper()
	v.SetConfigFile(configPath)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("config: failed to read config file %q: %w", configPath, err)
	}

	return unmarshalAndFinalize(v)
}

// LoadFromEnv builds a Config entirely from SCITEXT_* environment
// variables, with no config file required.
func LoadFromEnv() (*Config, error) {
	return unmarshalAndFinalize(newViper())
}

// unmarshalAndFinalize unmarshals viper state into a Config struct, applies
// defaults, and validates the result.
func unmarshalAndFinalize(v *viper.Viper) (*Config, error) {
	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("config: failed to unmarshal configuration: %w", err)
	}

	ApplyDefaults(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: validation failed: %w", err)
	}

	return cfg, nil
}

// MustLoad is a convenience wrapper around Load that panics on any error.
// Intended for main(), where a config-load failure is always fatal.
func MustLoad(configPath string) *Config {
	cfg, err := Load(configPath)
	if err != nil {
		panic(fmt.Sprintf("config: MustLoad failed: %v", err))
	}
	return cfg
}
