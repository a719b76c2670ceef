// Package config loads the gateway's process configuration from a config
// file and environment variables via spf13/viper; command-line flags are
// not bound to it.
package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config is the gateway's enumerated process configuration.
type Config struct {
	VectorHost     string `mapstructure:"vector_host"`
	VectorPort     int    `mapstructure:"vector_port"`
	VectorDim      int    `mapstructure:"vector_dim"`
	EmbeddingModel string `mapstructure:"embedding_model"`
	EmbeddingDim   int    `mapstructure:"embedding_dim"`
	CompletionModel string `mapstructure:"completion_model"`
	RegistryURL    string `mapstructure:"registry_url"`

	// EmbeddingRateLimitPerSecond caps the sustained rate of outbound
	// embedding/completion calls across all callers; <= 0 disables limiting.
	EmbeddingRateLimitPerSecond float64 `mapstructure:"embedding_rate_limit_per_second"`
	EmbeddingRateLimitBurst     int     `mapstructure:"embedding_rate_limit_burst"`

	ProbeIntervalSeconds       int `mapstructure:"probe_interval_s"`
	DefaultCallTimeoutSeconds  int `mapstructure:"default_call_timeout_s"`
	ClassificationTimeoutSeconds int `mapstructure:"classification_timeout_s"`
	SyncConcurrency            int `mapstructure:"sync_concurrency"`
	SyncQueueDepth             int `mapstructure:"sync_queue_depth"`

	SkillThresholdDefault   float64 `mapstructure:"skill_threshold_default"`
	ToolThresholdDefault    float64 `mapstructure:"tool_threshold_default"`
	IncludeSchemaTokenCap   int     `mapstructure:"include_schema_token_cap"`

	HTTPAddr string `mapstructure:"http_addr"`
}

// ProbeInterval returns ProbeIntervalSeconds as a time.Duration.
func (c *Config) ProbeInterval() time.Duration {
	return time.Duration(c.ProbeIntervalSeconds) * time.Second
}

// DefaultCallTimeout returns DefaultCallTimeoutSeconds as a time.Duration.
func (c *Config) DefaultCallTimeout() time.Duration {
	return time.Duration(c.DefaultCallTimeoutSeconds) * time.Second
}

// ClassificationTimeout returns ClassificationTimeoutSeconds as a time.Duration.
func (c *Config) ClassificationTimeout() time.Duration {
	return time.Duration(c.ClassificationTimeoutSeconds) * time.Second
}

// Provider exposes the loaded config plus a way to reload it.
type Provider interface {
	GetConfig() *Config
	Reload() error
}

type viperProvider struct {
	v   *viper.Viper
	cfg *Config
}

// defaults are applied before any file/env override: probe_interval_s=30,
// default_call_timeout_s=30, classification_timeout_s=3, sync_concurrency=5,
// sync_queue_depth=100, embedding_rate_limit_per_second=10,
// embedding_rate_limit_burst=5, skill_threshold_default=0.4,
// tool_threshold_default=0.3, include_schema_token_cap≈5000 tokens.
func defaults(v *viper.Viper) {
	v.SetDefault("vector_host", "localhost")
	v.SetDefault("vector_port", 5432)
	v.SetDefault("vector_dim", 1536)
	v.SetDefault("embedding_model", "text-embedding-3-small")
	v.SetDefault("embedding_dim", 1536)
	v.SetDefault("completion_model", "gpt-4o-mini")
	v.SetDefault("embedding_rate_limit_per_second", 10.0)
	v.SetDefault("embedding_rate_limit_burst", 5)
	v.SetDefault("probe_interval_s", 30)
	v.SetDefault("default_call_timeout_s", 30)
	v.SetDefault("classification_timeout_s", 3)
	v.SetDefault("sync_concurrency", 5)
	v.SetDefault("sync_queue_depth", 100)
	v.SetDefault("skill_threshold_default", 0.4)
	v.SetDefault("tool_threshold_default", 0.3)
	v.SetDefault("include_schema_token_cap", 5000)
	v.SetDefault("http_addr", ":8080")
}

// NewProvider builds a Provider that reads configPath (if non-empty) and
// $GATEWAY_* environment variables over the defaults above; an environment
// variable takes precedence over the same key in the file.
func NewProvider(configPath string) (Provider, error) {
	v := viper.New()
	defaults(v)

	v.SetEnvPrefix("gateway")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, err
		}
	}

	p := &viperProvider{v: v}
	if err := p.Reload(); err != nil {
		return nil, err
	}
	return p, nil
}

func (p *viperProvider) GetConfig() *Config {
	return p.cfg
}

func (p *viperProvider) Reload() error {
	var cfg Config
	if err := p.v.Unmarshal(&cfg); err != nil {
		return err
	}
	p.cfg = &cfg
	return nil
}
