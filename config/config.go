package config

import (
	"strings"
	"time"
)

// Supported LLM providers.
const (
	ProviderOpenAI           = "OpenAI"
	ProviderOpenAICompatible = "OpenAI-Compatible"
	ProviderOpenRouter       = "OpenRouter"
	ProviderAnthropic        = "Anthropic"
	ProviderClaudeCompatible = "Claude-Compatible"
	ProviderGemini           = "Gemini"
)

// ChartConfig controls chart rendering.
type ChartConfig struct {
	Width          int   `json:"width" mapstructure:"width"`
	Height         int   `json:"height" mapstructure:"height"`
	HeatmapMaxVars int   `json:"heatmapMaxVars" mapstructure:"heatmapMaxVars"` // Columns per correlation heatmap page
	ClusterSeed    int64 `json:"clusterSeed" mapstructure:"clusterSeed"`
	ClusterInit    int   `json:"clusterInit" mapstructure:"clusterInit"` // K-means restarts
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Addr           string   `json:"addr" mapstructure:"addr"`
	AllowedOrigins []string `json:"allowedOrigins" mapstructure:"allowedOrigins"`
	SessionTTLMin  int      `json:"sessionTtlMinutes" mapstructure:"sessionTtlMinutes"` // 0 keeps idle sessions
}

// Config structure
type Config struct {
	LLMProvider           string       `json:"llmProvider" mapstructure:"llmProvider"`
	APIKey                string       `json:"apiKey" mapstructure:"apiKey"`
	BaseURL               string       `json:"baseUrl" mapstructure:"baseUrl"`
	ModelName             string       `json:"modelName" mapstructure:"modelName"`
	MaxTokens             int          `json:"maxTokens" mapstructure:"maxTokens"`
	RequestTimeoutSeconds int          `json:"requestTimeoutSeconds" mapstructure:"requestTimeoutSeconds"` // 0 waits forever
	Language              string       `json:"language" mapstructure:"language"`
	DataCacheDir          string       `json:"dataCacheDir" mapstructure:"dataCacheDir"`
	LogDir                string       `json:"logDir" mapstructure:"logDir"`
	DetailedLog           bool         `json:"detailedLog" mapstructure:"detailedLog"`
	ParseDates            bool         `json:"parseDates" mapstructure:"parseDates"`
	Chart                 ChartConfig  `json:"chart" mapstructure:"chart"`
	Server                ServerConfig `json:"server" mapstructure:"server"`
}

// Default returns the configuration used when no config file exists.
func Default() Config {
	return Config{
		LLMProvider: ProviderOpenRouter,
		ModelName:   "x-ai/grok-4-fast:free",
		MaxTokens:   4096,
		Language:    "English",
		Chart: ChartConfig{
			Width:          800,
			Height:         600,
			HeatmapMaxVars: 10,
			ClusterInit:    10,
		},
		Server: ServerConfig{
			Addr:           "127.0.0.1:8088",
			AllowedOrigins: []string{"*"},
			SessionTTLMin:  60,
		},
	}
}

// Validate clamps out-of-range values back to their defaults.
func (c *Config) Validate() {
	def := Default()
	if c.LLMProvider == "" {
		c.LLMProvider = def.LLMProvider
	}
	if c.MaxTokens <= 0 {
		c.MaxTokens = def.MaxTokens
	}
	if c.RequestTimeoutSeconds < 0 {
		c.RequestTimeoutSeconds = 0
	}
	if c.Language == "" {
		c.Language = def.Language
	}
	if c.Chart.Width < 200 {
		c.Chart.Width = def.Chart.Width
	}
	if c.Chart.Height < 150 {
		c.Chart.Height = def.Chart.Height
	}
	if c.Chart.HeatmapMaxVars <= 0 {
		c.Chart.HeatmapMaxVars = def.Chart.HeatmapMaxVars
	}
	if c.Chart.ClusterInit <= 0 {
		c.Chart.ClusterInit = def.Chart.ClusterInit
	}
	if c.Server.Addr == "" {
		c.Server.Addr = def.Server.Addr
	}
	if c.Server.SessionTTLMin < 0 {
		c.Server.SessionTTLMin = 0
	}
}

// RequestTimeout returns the remote model timeout; zero means none.
func (c Config) RequestTimeout() time.Duration {
	return time.Duration(c.RequestTimeoutSeconds) * time.Second
}

// Redacted returns a copy that is safe to print.
func (c Config) Redacted() Config {
	if c.APIKey != "" {
		if len(c.APIKey) > 8 {
			c.APIKey = c.APIKey[:4] + strings.Repeat("*", len(c.APIKey)-8) + c.APIKey[len(c.APIKey)-4:]
		} else {
			c.APIKey = strings.Repeat("*", len(c.APIKey))
		}
	}
	return c
}

// ProviderKeyEnv names the conventional environment variable holding the API
// key for a provider.
func ProviderKeyEnv(provider string) []string {
	switch provider {
	case ProviderOpenRouter:
		return []string{"OPENROUTER_API_KEY", "OPENAI_API_KEY"}
	case ProviderOpenAI, ProviderOpenAICompatible:
		return []string{"OPENAI_API_KEY"}
	case ProviderAnthropic, ProviderClaudeCompatible:
		return []string{"ANTHROPIC_API_KEY"}
	case ProviderGemini:
		return []string{"GEMINI_API_KEY", "GOOGLE_API_KEY"}
	}
	return nil
}
