package config

import "github.com/tagforge/tagforge/internal/domain"

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server    ServerConfig    `mapstructure:"server" validate:"required"`
	Providers ProvidersConfig `mapstructure:"providers"`
	Redis     RedisConfig     `mapstructure:"redis"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port" validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
}

// ProvidersConfig holds the per-provider API credentials. Every key is
// optional: a missing key degrades that single method to a 503 response
// rather than preventing startup.
type ProvidersConfig struct {
	AnthropicAPIKey string `mapstructure:"anthropic_api_key"`
	OpenAIAPIKey    string `mapstructure:"openai_api_key"`
	GoogleAIAPIKey  string `mapstructure:"google_ai_api_key"`
}

// RedisConfig holds the connection settings for the shared response cache
// and the rate limiter. An empty URL disables both: the cache always misses
// and every request is admitted.
type RedisConfig struct {
	URL string `mapstructure:"url" validate:"omitempty,uri"`
}

// CredentialFor returns the API key for the given method, or "" when the
// method's provider is not configured.
func (p ProvidersConfig) CredentialFor(method domain.Method) string {
	switch method {
	case domain.MethodClaude:
		return p.AnthropicAPIKey
	case domain.MethodGPT5:
		return p.OpenAIAPIKey
	case domain.MethodGemini:
		return p.GoogleAIAPIKey
	}
	return ""
}
