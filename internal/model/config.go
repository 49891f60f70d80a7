package model

import "time"

// Config is the complete runtime configuration.
type Config struct {
	LLM         LLMConfig         `yaml:"llm" mapstructure:"llm"`
	Embedding   EmbeddingConfig   `yaml:"embedding" mapstructure:"embedding"`
	Retrieval   RetrievalConfig   `yaml:"retrieval" mapstructure:"retrieval"`
	Cache       CacheConfig       `yaml:"cache" mapstructure:"cache"`
	Concurrency ConcurrencyConfig `yaml:"concurrency" mapstructure:"concurrency"`
	Policy      []ModelRule       `yaml:"policy" mapstructure:"policy"`
	Output      OutputConfig      `yaml:"output" mapstructure:"output"`
}

// LLMConfig configures the generative (claim-producing) provider.
type LLMConfig struct {
	Provider  string `yaml:"provider" mapstructure:"provider"` // openai, anthropic, ollama
	Model     string `yaml:"model" mapstructure:"model"`
	APIKey    string `yaml:"api_key,omitempty" mapstructure:"api_key"`
	BaseURL   string `yaml:"base_url,omitempty" mapstructure:"base_url"`
	Timeout   int    `yaml:"timeout" mapstructure:"timeout"` // seconds
	MaxTokens int    `yaml:"max_tokens" mapstructure:"max_tokens"`

	// Proxy settings for provider HTTP clients
	HTTPProxy  string `yaml:"http_proxy,omitempty" mapstructure:"http_proxy"`
	HTTPSProxy string `yaml:"https_proxy,omitempty" mapstructure:"https_proxy"`
	NoProxy    string `yaml:"no_proxy,omitempty" mapstructure:"no_proxy"`
}

// EmbeddingConfig configures the embedding provider.
type EmbeddingConfig struct {
	Provider string `yaml:"provider" mapstructure:"provider"` // openai, ollama
	Model    string `yaml:"model" mapstructure:"model"`
	APIKey   string `yaml:"api_key,omitempty" mapstructure:"api_key"`
	BaseURL  string `yaml:"base_url,omitempty" mapstructure:"base_url"`
	Timeout  int    `yaml:"timeout" mapstructure:"timeout"` // seconds
}

// RetrievalConfig bounds the evidence scan.
type RetrievalConfig struct {
	Limit    int     `yaml:"limit" mapstructure:"limit"`         // Max chunks returned
	MinScore float64 `yaml:"min_score" mapstructure:"min_score"` // Cosine similarity floor
}

// CacheConfig configures the in-memory embedding cache.
type CacheConfig struct {
	Enabled         bool          `yaml:"enabled" mapstructure:"enabled"`
	TTL             time.Duration `yaml:"ttl" mapstructure:"ttl"`
	CleanupInterval time.Duration `yaml:"cleanup_interval" mapstructure:"cleanup_interval"`
}

// ConcurrencyConfig bounds parallelism in batch processing.
type ConcurrencyConfig struct {
	BatchWorkers      int     `yaml:"batch_workers" mapstructure:"batch_workers"`
	ProviderRateLimit float64 `yaml:"provider_rate_limit" mapstructure:"provider_rate_limit"` // requests/second per host
	ProviderRateBurst int     `yaml:"provider_rate_burst" mapstructure:"provider_rate_burst"`
}

// ModelRule is one entry of the ordered model-selection policy.
// Empty fields match anything; the first matching rule wins and the
// zero rule at the end acts as the fallback.
type ModelRule struct {
	Tenant    string `yaml:"tenant,omitempty" mapstructure:"tenant"`
	TaskClass string `yaml:"task_class,omitempty" mapstructure:"task_class"` // "embedding" or "generation"
	Persona   string `yaml:"persona,omitempty" mapstructure:"persona"`
	Provider  string `yaml:"provider" mapstructure:"provider"`
	Model     string `yaml:"model" mapstructure:"model"`
}

// OutputConfig controls CLI rendering.
type OutputConfig struct {
	Verbose bool `yaml:"verbose" mapstructure:"verbose"`
	Debug   bool `yaml:"debug" mapstructure:"debug"`
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		LLM: LLMConfig{
			Provider:  "openai",
			Model:     "gpt-4o-mini",
			Timeout:   30,
			MaxTokens: 1500,
		},
		Embedding: EmbeddingConfig{
			Provider: "openai",
			Model:    "text-embedding-3-small",
			Timeout:  30,
		},
		Retrieval: RetrievalConfig{
			Limit:    8,
			MinScore: 0.3,
		},
		Cache: CacheConfig{
			Enabled:         true,
			TTL:             15 * time.Minute,
			CleanupInterval: 5 * time.Minute,
		},
		Concurrency: ConcurrencyConfig{
			BatchWorkers:      4,
			ProviderRateLimit: 5,
			ProviderRateBurst: 5,
		},
		Output: OutputConfig{},
	}
}
