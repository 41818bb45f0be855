package config

import (
	"fmt"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config is the typed view over all configuration sources.
type Config struct {
	Addr      string
	APIPrefix string
	DBPath    string

	LLM   LLMConfig
	Image ImageConfig

	MockMode           bool
	RateLimitPerMinute int
	TokenTTLHours      int
	Debug              bool
}

// LLMConfig selects and authenticates the text generation backend.
type LLMConfig struct {
	Provider string // "openai", "yandex"
	Model    string
	APIKey   string
	BaseURL  string

	YandexAPIKey string
}

// ImageConfig is the env-level fallback for image generation; runtime
// settings live in the image_settings table.
type ImageConfig struct {
	OpenRouterAPIKey string
	Model            string
}

// Load reads .env, an optional config.yaml, and the environment, in that
// order of increasing precedence. A missing file is not an error.
func Load() (Config, error) {
	// no .env is the common case in production
	_ = godotenv.Load()

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return Config{}, fmt.Errorf("read config.yaml: %w", err)
		}
	}

	viper.SetDefault("addr", ":8000")
	viper.SetDefault("api_prefix", "/api")
	viper.SetDefault("db_path", "studio.db")
	viper.SetDefault("llm_provider", "openai")
	viper.SetDefault("llm_model", "gpt-3.5-turbo")
	viper.SetDefault("image_model", "google/gemini-3-pro-image-preview")
	viper.SetDefault("rate_limit_per_minute", 10)
	viper.SetDefault("token_ttl_hours", 24)

	cfg := Config{
		Addr:      viper.GetString("addr"),
		APIPrefix: viper.GetString("api_prefix"),
		DBPath:    viper.GetString("db_path"),
		LLM: LLMConfig{
			Provider:     viper.GetString("llm_provider"),
			Model:        viper.GetString("llm_model"),
			APIKey:       viper.GetString("openai_api_key"),
			BaseURL:      viper.GetString("llm_base_url"),
			YandexAPIKey: viper.GetString("yandex_api_key"),
		},
		Image: ImageConfig{
			OpenRouterAPIKey: viper.GetString("openrouter_api_key"),
			Model:            viper.GetString("image_model"),
		},
		MockMode:           viper.GetBool("mock_mode"),
		RateLimitPerMinute: viper.GetInt("rate_limit_per_minute"),
		TokenTTLHours:      viper.GetInt("token_ttl_hours"),
		Debug:              viper.GetBool("debug"),
	}

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	switch c.LLM.Provider {
	case "openai", "yandex":
	default:
		return fmt.Errorf("llm provider %s not supported", c.LLM.Provider)
	}
	if c.RateLimitPerMinute <= 0 {
		return fmt.Errorf("rate_limit_per_minute must be positive")
	}
	return nil
}

// HasProvider reports whether any real LLM backend is usable. Without one the
// generator falls back to mock output rather than failing.
func (c Config) HasProvider() bool {
	if c.MockMode {
		return false
	}
	if c.LLM.Provider == "yandex" {
		return c.LLM.YandexAPIKey != ""
	}
	return c.LLM.APIKey != ""
}
