// Package config loads process configuration from an optional YAML file,
// environment variables, and defaults.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config holds everything the process needs to wire itself up.
type Config struct {
	Provider        string `mapstructure:"provider"` // "anthropic" or "gemini"
	Model           string `mapstructure:"model"`    // empty = provider default
	AnthropicAPIKey string `mapstructure:"anthropic_api_key"`
	GeminiAPIKey    string `mapstructure:"gemini_api_key"`

	MaxTokens       int `mapstructure:"max_tokens"`
	MaxToolRounds   int `mapstructure:"max_tool_rounds"`
	HistoryCapacity int `mapstructure:"history_capacity"`

	RetrievalURL string `mapstructure:"retrieval_url"`
	Addr         string `mapstructure:"addr"`
	LogLevel     string `mapstructure:"log_level"`
}

// Load reads configuration. Path may be empty, in which case only defaults
// and environment variables apply. Environment variables use the COURSECHAT_
// prefix (e.g. COURSECHAT_ANTHROPIC_API_KEY), with plain ANTHROPIC_API_KEY
// and GEMINI_API_KEY also honored for convenience.
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetDefault("provider", "anthropic")
	v.SetDefault("model", "")
	v.SetDefault("max_tokens", 800)
	v.SetDefault("max_tool_rounds", 2)
	v.SetDefault("history_capacity", 2)
	v.SetDefault("retrieval_url", "http://localhost:8100")
	v.SetDefault("addr", ":8000")
	v.SetDefault("log_level", "info")

	v.SetEnvPrefix("COURSECHAT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	_ = v.BindEnv("anthropic_api_key", "COURSECHAT_ANTHROPIC_API_KEY", "ANTHROPIC_API_KEY")
	_ = v.BindEnv("gemini_api_key", "COURSECHAT_GEMINI_API_KEY", "GEMINI_API_KEY")

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	return cfg, cfg.validate()
}

func (c Config) validate() error {
	switch c.Provider {
	case "anthropic", "gemini":
	default:
		return fmt.Errorf("unknown provider %q", c.Provider)
	}
	if c.MaxToolRounds < 1 {
		return fmt.Errorf("max_tool_rounds must be at least 1, got %d", c.MaxToolRounds)
	}
	if c.HistoryCapacity < 1 {
		return fmt.Errorf("history_capacity must be at least 1, got %d", c.HistoryCapacity)
	}
	return nil
}
