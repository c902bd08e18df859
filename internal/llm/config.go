package llm

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Provider names accepted in SKILLPILOT_LLM_PROVIDER.
const (
	ProviderAnthropic  = "anthropic"
	ProviderOpenAI     = "openai"
	ProviderGemini     = "gemini"
	ProviderOpenRouter = "openrouter"
	ProviderMock       = "mock"
)

// Config selects the model that reviews week submissions and bounds each
// review call. Only the section for Provider is read.
type Config struct {
	Provider string

	Anthropic  AnthropicConfig
	OpenAI     OpenAIConfig
	Gemini     GeminiConfig
	OpenRouter OpenRouterConfig
	Retry      RetryConfig

	// Timeout bounds one review call, retries included.
	Timeout time.Duration
}

type AnthropicConfig struct {
	APIKey string
	Model  string
}

// OpenAIConfig also serves any OpenAI-compatible gateway through BaseURL.
type OpenAIConfig struct {
	APIKey  string
	Model   string
	BaseURL string
}

type GeminiConfig struct {
	APIKey string
	Model  string
}

type OpenRouterConfig struct {
	APIKey  string
	Model   string
	BaseURL string
}

// RetryConfig is the exponential backoff applied to transient vendor errors.
type RetryConfig struct {
	MaxAttempts int
	InitialWait time.Duration
	MaxWait     time.Duration
	Multiplier  float64
}

// vendor maps a provider name to its settings in Config. vendorKey is the
// vendor's own API key variable, read when no provider is named.
type vendor struct {
	name      string
	vendorKey string
	fields    func(*Config) (key, model, baseURL *string)
}

// vendors is in discovery order.
var vendors = []vendor{
	{ProviderGemini, "GEMINI_API_KEY", func(c *Config) (*string, *string, *string) {
		return &c.Gemini.APIKey, &c.Gemini.Model, nil
	}},
	{ProviderOpenAI, "OPENAI_API_KEY", func(c *Config) (*string, *string, *string) {
		return &c.OpenAI.APIKey, &c.OpenAI.Model, &c.OpenAI.BaseURL
	}},
	{ProviderAnthropic, "ANTHROPIC_API_KEY", func(c *Config) (*string, *string, *string) {
		return &c.Anthropic.APIKey, &c.Anthropic.Model, nil
	}},
	{ProviderOpenRouter, "OPENROUTER_API_KEY", func(c *Config) (*string, *string, *string) {
		return &c.OpenRouter.APIKey, &c.OpenRouter.Model, &c.OpenRouter.BaseURL
	}},
}

func lookupVendor(name string) (vendor, bool) {
	for _, v := range vendors {
		if v.name == name {
			return v, true
		}
	}
	return vendor{}, false
}

// envName returns SKILLPILOT_<PROVIDER>_<suffix>.
func envName(provider, suffix string) string {
	return "SKILLPILOT_" + strings.ToUpper(provider) + "_" + suffix
}

// DefaultConfig picks small, cheap models: a review is one short rubric
// verdict per submission.
func DefaultConfig() Config {
	return Config{
		Provider:   ProviderAnthropic,
		Anthropic:  AnthropicConfig{Model: "claude-haiku"},
		OpenAI:     OpenAIConfig{Model: "gpt-4o-mini"},
		Gemini:     GeminiConfig{Model: "gemini-flash"},
		OpenRouter: OpenRouterConfig{Model: "google/gemini-2.0-flash-exp"},
		Retry: RetryConfig{
			MaxAttempts: 3,
			InitialWait: time.Second,
			MaxWait:     10 * time.Second,
			Multiplier:  2,
		},
		Timeout: 30 * time.Second,
	}
}

// ConfigFromEnv overlays the SKILLPILOT_* variables on DefaultConfig. Every
// vendor reads SKILLPILOT_<VENDOR>_API_KEY and _MODEL; OpenAI and OpenRouter
// also read _BASE_URL. Unparseable timeouts and attempt counts are ignored.
func ConfigFromEnv() Config {
	cfg := DefaultConfig()
	if p := os.Getenv("SKILLPILOT_LLM_PROVIDER"); p != "" {
		cfg.Provider = p
	}

	for _, v := range vendors {
		key, model, baseURL := v.fields(&cfg)
		setFromEnv(key, envName(v.name, "API_KEY"))
		setFromEnv(model, envName(v.name, "MODEL"))
		if baseURL != nil {
			setFromEnv(baseURL, envName(v.name, "BASE_URL"))
		}
	}

	if d, err := time.ParseDuration(os.Getenv("SKILLPILOT_LLM_TIMEOUT")); err == nil && d > 0 {
		cfg.Timeout = d
	}
	if n, err := strconv.Atoi(os.Getenv("SKILLPILOT_LLM_MAX_ATTEMPTS")); err == nil && n > 0 {
		cfg.Retry.MaxAttempts = n
	}
	return cfg
}

func setFromEnv(dst *string, name string) {
	if v := os.Getenv(name); v != "" {
		*dst = v
	}
}

// DiscoverConfig returns a Config for the first vendor whose own API key
// variable is set, trying Gemini, OpenAI, Anthropic and OpenRouter in turn.
func DiscoverConfig() (Config, bool) {
	for _, v := range vendors {
		k := os.Getenv(v.vendorKey)
		if k == "" {
			continue
		}
		cfg := DefaultConfig()
		cfg.Provider = v.name
		key, _, _ := v.fields(&cfg)
		*key = k
		return cfg, true
	}
	return Config{}, false
}

// ResolveConfig picks the reviewer's model configuration. An explicit
// SKILLPILOT_LLM_PROVIDER wins; otherwise the first vendor key set wins.
func ResolveConfig() (Config, error) {
	if os.Getenv("SKILLPILOT_LLM_PROVIDER") != "" {
		cfg := ConfigFromEnv()
		return cfg, cfg.Validate()
	}
	if cfg, ok := DiscoverConfig(); ok {
		return cfg, nil
	}
	keys := make([]string, len(vendors))
	for i, v := range vendors {
		keys[i] = v.vendorKey
	}
	return Config{}, fmt.Errorf("no reviewer model configured: set SKILLPILOT_LLM_PROVIDER or one of %s", strings.Join(keys, ", "))
}

// Validate checks that the selected provider is known and has an API key.
func (c Config) Validate() error {
	if c.Provider == ProviderMock {
		return nil
	}
	v, ok := lookupVendor(c.Provider)
	if !ok {
		return fmt.Errorf("unknown LLM provider: %q", c.Provider)
	}
	if key, _, _ := v.fields(&c); *key == "" {
		return fmt.Errorf("%s is required for the %s provider", envName(c.Provider, "API_KEY"), c.Provider)
	}
	return nil
}
