package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"

	"github.com/quantfold/fxlab/internal/core"
)

type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Provider  ProviderConfig  `mapstructure:"provider"`
	Signal    SignalConfig    `mapstructure:"signal"`
	LLM       LLMConfig       `mapstructure:"llm"`
	Backtest  BacktestConfig  `mapstructure:"backtest"`
	Archive   ArchiveConfig   `mapstructure:"archive"`
	Watchlist []WatchlistItem `mapstructure:"watchlist"`
	Metrics   MetricsConfig   `mapstructure:"metrics"`
	Log       LogConfig       `mapstructure:"log"`
}

type ServerConfig struct {
	Host        string `mapstructure:"host"`
	Port        int    `mapstructure:"port"`
	APIKey      string `mapstructure:"api_key"`
	JobTTLHours int    `mapstructure:"job_ttl_hours"`
	MaxJobs     int    `mapstructure:"max_jobs"`
}

type ProviderConfig struct {
	Default string `mapstructure:"default"` // "yahoo" or "binance"
}

type SignalConfig struct {
	Source string `mapstructure:"source"` // "technical" or "llm"
}

type LLMConfig struct {
	Provider string       `mapstructure:"provider"`
	Claude   ClaudeConfig `mapstructure:"claude"`
	OpenAI   OpenAIConfig `mapstructure:"openai"`
}

type ClaudeConfig struct {
	APIKey string `mapstructure:"api_key"`
	Model  string `mapstructure:"model"`
}

type OpenAIConfig struct {
	APIKey string `mapstructure:"api_key"`
	Model  string `mapstructure:"model"`
}

type BacktestConfig struct {
	InitialBalance float64 `mapstructure:"initial_balance"`
	RiskPerTrade   float64 `mapstructure:"risk_per_trade"`
	MaxPositions   int     `mapstructure:"max_positions"`
	Timeframe      string  `mapstructure:"timeframe"`
}

type ArchiveConfig struct {
	Type string   `mapstructure:"type"` // "localfs" or "s3"
	Path string   `mapstructure:"path"` // For localfs
	S3   S3Config `mapstructure:"s3"`   // For S3
}

type S3Config struct {
	Bucket    string `mapstructure:"bucket"`
	Endpoint  string `mapstructure:"endpoint"`
	Region    string `mapstructure:"region"`
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`
	Prefix    string `mapstructure:"prefix"`
}

type WatchlistItem struct {
	Symbol string `mapstructure:"symbol"`
	Name   string `mapstructure:"name"`
}

type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

// Load reads configuration from file
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)

	// Support environment variable overrides: FXLAB_SERVER_PORT etc.
	v.SetEnvPrefix("FXLAB")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		return nil, core.WrapError(core.ErrConfigInvalid, fmt.Errorf("reading config: %w", err))
	}

	// Expand ${VAR} references in string values
	for _, key := range v.AllKeys() {
		val := v.GetString(key)
		if strings.HasPrefix(val, "${") && strings.HasSuffix(val, "}") {
			envKey := strings.TrimSuffix(strings.TrimPrefix(val, "${"), "}")
			v.Set(key, os.Getenv(envKey))
		}
	}

	cfg := Defaults()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, core.WrapError(core.ErrConfigInvalid, fmt.Errorf("unmarshaling config: %w", err))
	}

	return cfg, nil
}

// Defaults returns a config with sensible defaults
func Defaults() *Config {
	return &Config{
		Server: ServerConfig{
			Host:        "0.0.0.0",
			Port:        8080,
			JobTTLHours: 1,
			MaxJobs:     100,
		},
		Provider: ProviderConfig{
			Default: "yahoo",
		},
		Signal: SignalConfig{
			Source: "technical",
		},
		Backtest: BacktestConfig{
			InitialBalance: 10000,
			RiskPerTrade:   0.02,
			MaxPositions:   5,
			Timeframe:      "1h",
		},
		Archive: ArchiveConfig{
			Type: "localfs",
			Path: "data/reports",
		},
		Metrics: MetricsConfig{
			Enabled: true,
			Path:    "/metrics",
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return core.WrapError(core.ErrConfigInvalid,
			fmt.Errorf("port must be between 1 and 65535, got %d", c.Server.Port))
	}

	switch c.Provider.Default {
	case "yahoo", "binance":
	default:
		return core.WrapError(core.ErrConfigInvalid,
			fmt.Errorf("unknown provider: %s", c.Provider.Default))
	}

	switch c.Signal.Source {
	case "technical", "llm":
	default:
		return core.WrapError(core.ErrConfigInvalid,
			fmt.Errorf("unknown signal source: %s", c.Signal.Source))
	}
	if c.Signal.Source == "llm" && c.LLM.Provider == "" {
		return core.WrapError(core.ErrConfigMissing,
			fmt.Errorf("llm provider required when signal source is llm"))
	}

	if c.Backtest.RiskPerTrade <= 0 || c.Backtest.RiskPerTrade > 1 {
		return core.WrapError(core.ErrConfigInvalid,
			fmt.Errorf("risk_per_trade must be in (0, 1], got %f", c.Backtest.RiskPerTrade))
	}
	if c.Backtest.InitialBalance <= 0 {
		return core.WrapError(core.ErrConfigInvalid,
			fmt.Errorf("initial_balance must be positive, got %f", c.Backtest.InitialBalance))
	}
	if c.Backtest.MaxPositions < 1 {
		return core.WrapError(core.ErrConfigInvalid,
			fmt.Errorf("max_positions must be at least 1, got %d", c.Backtest.MaxPositions))
	}

	if c.LLM.Provider != "" {
		switch c.LLM.Provider {
		case "claude":
			if c.LLM.Claude.APIKey == "" {
				return core.WrapError(core.ErrConfigMissing,
					fmt.Errorf("claude api_key required when provider is claude"))
			}
		case "openai":
			if c.LLM.OpenAI.APIKey == "" {
				return core.WrapError(core.ErrConfigMissing,
					fmt.Errorf("openai api_key required when provider is openai"))
			}
		default:
			return core.WrapError(core.ErrConfigInvalid,
				fmt.Errorf("unknown LLM provider: %s", c.LLM.Provider))
		}
	}

	switch c.Archive.Type {
	case "", "localfs", "s3":
	default:
		return core.WrapError(core.ErrConfigInvalid,
			fmt.Errorf("unknown archive type: %s", c.Archive.Type))
	}

	return nil
}
