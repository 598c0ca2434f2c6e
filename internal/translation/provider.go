package translation

import (
	"fmt"
	"time"
)

// Provider names
const (
	ProviderTencent = "tencent"
	ProviderOpenAI  = "openai"
	ProviderGemini  = "gemini"
)

// Config holds configuration for translation providers
type Config struct {
	Provider string        // Provider name: "tencent", "openai" or "gemini"
	Timeout  time.Duration // Per-call timeout, 0 for none
	Breaker  bool          // Wrap the provider in a circuit breaker

	// Tencent Cloud settings
	TencentSecretID  string
	TencentSecretKey string
	TencentRegion    string

	// OpenAI settings
	OpenAIKey   string
	OpenAIModel string

	// Gemini settings
	GeminiKey   string
	GeminiModel string
}

// DefaultProviderConfig returns default configuration
func DefaultProviderConfig() *Config {
	return &Config{
		Provider:    ProviderTencent,
		Timeout:     30 * time.Second,
		Breaker:     true,
		OpenAIModel: "gpt-4o-mini",
		GeminiModel: "gemini-2.0-flash",
	}
}

// NewProvider creates the translation provider named in the configuration
func NewProvider(config *Config) (Port, error) {
	if config == nil {
		config = DefaultProviderConfig()
	}

	var (
		port Port
		err  error
	)

	switch config.Provider {
	case ProviderTencent, "":
		port, err = NewTencentProvider(config)
	case ProviderOpenAI:
		port, err = NewOpenAIProvider(config)
	case ProviderGemini:
		port, err = NewGeminiProvider(config)
	default:
		return nil, fmt.Errorf("unknown translation provider: %s", config.Provider)
	}
	if err != nil {
		return nil, err
	}

	if config.Breaker {
		port = NewBreakerPort(port, DefaultBreakerSettings())
	}

	return port, nil
}
