package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config represents the application configuration
type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	Chat    ChatConfig    `mapstructure:"chat"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// ServerConfig holds chatbot backend connection settings
type ServerConfig struct {
	URL     string        `mapstructure:"url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// ChatConfig holds per-turn chat settings
type ChatConfig struct {
	Model         string `mapstructure:"model"`
	HistoryWindow int    `mapstructure:"history_window"`
	RAGEnabled    bool   `mapstructure:"rag_enabled"`
	WebEnabled    bool   `mapstructure:"web_enabled"`
}

// LoggingConfig holds logging-related configuration
type LoggingConfig struct {
	Level string `mapstructure:"level"`
	File  string `mapstructure:"file"`
}

// Defaults matching the reference deployment.
const (
	DefaultServerURL      = "http://localhost:5000"
	DefaultRequestTimeout = 130 * time.Second
	DefaultModel          = "llama3.2:1b"
	DefaultHistoryWindow  = 6
)

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.url", DefaultServerURL)
	v.SetDefault("server.timeout", DefaultRequestTimeout)
	v.SetDefault("chat.model", DefaultModel)
	v.SetDefault("chat.history_window", DefaultHistoryWindow)
	v.SetDefault("chat.rag_enabled", false)
	v.SetDefault("chat.web_enabled", false)
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.file", "")
}

// Load reads configuration from the optional config file, OPSCHAT_*
// environment variables, and defaults, in increasing precedence of
// env over file over defaults.
func Load(cfgFile string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("OPSCHAT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	} else {
		v.SetConfigName("opschat")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.config/opschat")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("failed to read config file: %w", err)
			}
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if cfg.Server.Timeout <= 0 {
		cfg.Server.Timeout = DefaultRequestTimeout
	}
	if cfg.Chat.HistoryWindow <= 0 {
		cfg.Chat.HistoryWindow = DefaultHistoryWindow
	}

	return cfg, nil
}
