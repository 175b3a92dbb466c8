package config

import "time"

// Default values applied to unset fields.
const (
	DefaultLogLevel  = "info"
	DefaultLogFormat = "console"

	DefaultResolverBaseURL = "https://pubchem.ncbi.nlm.nih.gov/rest/pug"
	DefaultLookupTimeout   = 10 * time.Second
	DefaultLookupAttempts  = 10
	DefaultRetryBackoff    = 100 * time.Millisecond

	DefaultRedisDialTimeout  = 5 * time.Second
	DefaultRedisReadTimeout  = 3 * time.Second
	DefaultRedisWriteTimeout = 3 * time.Second
	DefaultRedisKeyPrefix    = "scitext:entity:"
	DefaultRedisTTL          = 30 * 24 * time.Hour

	DefaultSaveFreq   = 100
	DefaultHistoryDir = "preprocessor_files"

	DefaultMetricsNamespace = "scitext"
	DefaultMetricsAddr      = ":9090"
)

// ApplyDefaults fills every zero-valued field with its default.  Booleans
// keep their zero value; only RemoveAbbreviations defaults to on, which the
// loader handles via viper's SetDefault.
func ApplyDefaults(cfg *Config) {
	if cfg.Log.Level == "" {
		cfg.Log.Level = DefaultLogLevel
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = DefaultLogFormat
	}

	if cfg.Resolver.BaseURL == "" {
		cfg.Resolver.BaseURL = DefaultResolverBaseURL
	}
	if cfg.Resolver.LookupTimeout == 0 {
		cfg.Resolver.LookupTimeout = DefaultLookupTimeout
	}
	if cfg.Resolver.LookupAttempts == 0 {
		cfg.Resolver.LookupAttempts = DefaultLookupAttempts
	}
	if cfg.Resolver.RetryBackoff == 0 {
		cfg.Resolver.RetryBackoff = DefaultRetryBackoff
	}

	if cfg.Redis.DialTimeout == 0 {
		cfg.Redis.DialTimeout = DefaultRedisDialTimeout
	}
	if cfg.Redis.ReadTimeout == 0 {
		cfg.Redis.ReadTimeout = DefaultRedisReadTimeout
	}
	if cfg.Redis.WriteTimeout == 0 {
		cfg.Redis.WriteTimeout = DefaultRedisWriteTimeout
	}
	if cfg.Redis.KeyPrefix == "" {
		cfg.Redis.KeyPrefix = DefaultRedisKeyPrefix
	}
	if cfg.Redis.DefaultTTL == 0 {
		cfg.Redis.DefaultTTL = DefaultRedisTTL
	}

	if cfg.Pipeline.SaveFreq == 0 {
		cfg.Pipeline.SaveFreq = DefaultSaveFreq
	}
	if cfg.History.Dir == "" {
		cfg.History.Dir = DefaultHistoryDir
	}

	if cfg.Metrics.Namespace == "" {
		cfg.Metrics.Namespace = DefaultMetricsNamespace
	}
	if cfg.Metrics.ListenAddr == "" {
		cfg.Metrics.ListenAddr = DefaultMetricsAddr
	}
}
