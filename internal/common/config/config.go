package config

import "fmt"

// Config is the main client configuration struct.
type Config struct {
	App           AppConfig           `mapstructure:"app"`
	API           APIConfig           `mapstructure:"api"`
	Cache         CacheConfig         `mapstructure:"cache"`
	Redis         RedisConfig         `mapstructure:"redis"`
	Logging       LoggingConfig       `mapstructure:"logging"`
	Observability ObservabilityConfig `mapstructure:"observability"`
}

// --- Core App Config ---

type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

// APIConfig holds settings for the backend REST surface.
type APIConfig struct {
	BaseURL       string `mapstructure:"base_url"`
	Token         string `mapstructure:"token"`
	Timeout       int    `mapstructure:"timeout"`        // milliseconds
	UploadTimeout int    `mapstructure:"upload_timeout"` // milliseconds, resume uploads carry large payloads
	MaxRetries    int    `mapstructure:"max_retries"`    // read retries on transport failure
	RetryDelay    int    `mapstructure:"retry_delay"`    // milliseconds, initial backoff delay
}

// CacheConfig holds settings for the keyed query cache.
type CacheConfig struct {
	Backend       string `mapstructure:"backend"`         // "memory" or "redis"
	TTL           int    `mapstructure:"ttl"`             // milliseconds, default entry TTL
	StatusListTTL int    `mapstructure:"status_list_ttl"` // milliseconds, static reference data
}

type RedisConfig struct {
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}

// ObservabilityConfig holds metrics and tracing settings.
type ObservabilityConfig struct {
	MetricsAddress string `mapstructure:"metrics_address"`
	JaegerEndpoint string `mapstructure:"jaeger_endpoint"`
	TracingEnabled bool   `mapstructure:"tracing_enabled"`
}

// Validate checks critical configuration fields.
func (c *Config) Validate() error {
	if c.API.BaseURL == "" {
		return fmt.Errorf("api.base_url is required")
	}
	switch c.Cache.Backend {
	case "memory", "redis":
	default:
		return fmt.Errorf("cache.backend must be \"memory\" or \"redis\", got %q", c.Cache.Backend)
	}
	if c.Cache.Backend == "redis" && c.Redis.Address == "" {
		return fmt.Errorf("redis.address is required when cache.backend is redis")
	}
	return nil
}
