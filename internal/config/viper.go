// Package config provides Viper-based hierarchical configuration management
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// Supported text-generation providers.
const (
	ProviderHuggingFace = "huggingface"
	ProviderGemini      = "gemini"
)

// Default models per provider.
const (
	DefaultHuggingFaceModel = "meta-llama/Llama-3.2-3B-Instruct:together"
	DefaultGeminiModel      = "gemini-2.0-flash"
)

// Config represents the complete application configuration
type Config struct {
	Log    LogConfig    `mapstructure:"log" yaml:"log"`
	Input  InputConfig  `mapstructure:"input" yaml:"input"`
	Output OutputConfig `mapstructure:"output" yaml:"output"`
	AI     AIConfig     `mapstructure:"ai" yaml:"ai"`
}

// LogConfig controls the logrus adapter.
type LogConfig struct {
	Level      string `mapstructure:"level" yaml:"level" validate:"oneof=trace debug info warn warning error"`
	Format     string `mapstructure:"format" yaml:"format" validate:"oneof=text json"`
	File       string `mapstructure:"file" yaml:"file"`
	MaxSizeMB  int    `mapstructure:"max_size_mb" yaml:"max_size_mb" validate:"min=1,max=1024"`
	MaxBackups int    `mapstructure:"max_backups" yaml:"max_backups" validate:"min=0,max=100"`
}

// InputConfig describes the customer dataset.
type InputConfig struct {
	File      string `mapstructure:"file" yaml:"file" validate:"required"`
	Delimiter string `mapstructure:"delimiter" yaml:"delimiter"`
	Sheet     string `mapstructure:"sheet" yaml:"sheet"`
}

// OutputConfig describes the enriched JSON artifact.
type OutputConfig struct {
	File   string `mapstructure:"file" yaml:"file" validate:"required"`
	Indent int    `mapstructure:"indent" yaml:"indent" validate:"min=1,max=8"`
}

// AIConfig configures the remote text-generation capability.
type AIConfig struct {
	Provider       string  `mapstructure:"provider" yaml:"provider" validate:"oneof=huggingface gemini"`
	Offline        bool    `mapstructure:"offline" yaml:"offline"`
	HFToken        string  `mapstructure:"hf_token" yaml:"-"`       // Never serialize credentials
	GeminiAPIKey   string  `mapstructure:"gemini_api_key" yaml:"-"` // Never serialize credentials
	Model          string  `mapstructure:"model" yaml:"model"`
	HFModelID      string  `mapstructure:"hf_model_id" yaml:"hf_model_id"` // Hugging Face only
	BaseURL        string  `mapstructure:"base_url" yaml:"base_url" validate:"required,url"`
	Language       string  `mapstructure:"language" yaml:"language" validate:"required"`
	TimeoutSeconds int     `mapstructure:"timeout_seconds" yaml:"timeout_seconds" validate:"min=1,max=300"`
	MaxTokens      int     `mapstructure:"max_tokens" yaml:"max_tokens" validate:"min=1,max=4096"`
	Temperature    float64 `mapstructure:"temperature" yaml:"temperature" validate:"min=0,max=2"`
	TopP           float64 `mapstructure:"top_p" yaml:"top_p" validate:"gt=0,max=1"`
}

// Credential returns the trimmed credential of the selected provider.
func (a AIConfig) Credential() string {
	if a.Provider == ProviderGemini {
		return strings.TrimSpace(a.GeminiAPIKey)
	}
	return strings.TrimSpace(a.HFToken)
}

// Enabled reports whether remote generation should be attempted at all.
func (a AIConfig) Enabled() bool {
	return !a.Offline && a.Credential() != ""
}

// ResolvedModel returns the configured model or the provider default.
// HFModelID is ignored unless the provider is huggingface.
func (a AIConfig) ResolvedModel() string {
	if m := strings.TrimSpace(a.Model); m != "" {
		return m
	}
	if a.Provider == ProviderGemini {
		return DefaultGeminiModel
	}
	if m := strings.TrimSpace(a.HFModelID); m != "" {
		return m
	}
	return DefaultHuggingFaceModel
}

// InitializeConfig initializes Viper configuration with hierarchical loading
func InitializeConfig() (*Config, error) {
	return LoadConfig("")
}

// LoadConfig loads configuration from defaults, an optional config file,
// and the environment. An explicit configFile must exist.
func LoadConfig(configFile string) (*Config, error) {
	v := viper.New()

	// 1. Set defaults
	setDefaults(v)

	// 2. Config file locations
	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("$HOME/.sdw-news")
		v.AddConfigPath(".sdw-news")
		v.AddConfigPath(".")
	}

	// 3. Environment variables
	v.SetEnvPrefix("SDW")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// 4. Read config file (optional unless explicitly given)
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" {
			return nil, fmt.Errorf("failed to read config file %s: %w", configFile, err)
		}
		if !errors.As(err, &notFound) {
			fmt.Fprintf(os.Stderr, "Warning: error reading config file %s: %v\n", v.ConfigFileUsed(), err)
		}
	}

	// 5. Unprefixed variables kept for compatibility with existing .env files
	bindings := map[string][]string{
		"ai.hf_token":       {"HF_API_TOKEN"},
		"ai.gemini_api_key": {"GEMINI_API_KEY"},
		"ai.model":          {"SDW_AI_MODEL"},
		"ai.hf_model_id":    {"HF_MODEL_ID"},
		"log.level":         {"SDW_LOG_LEVEL", "LOG_LEVEL"},
		"log.format":        {"SDW_LOG_FORMAT", "LOG_FORMAT"},
	}
	for key, envs := range bindings {
		if err := v.BindEnv(append([]string{key}, envs...)...); err != nil {
			return nil, fmt.Errorf("failed to bind %s: %w", key, err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	config.Log.Level = strings.ToLower(config.Log.Level)
	config.Log.Format = strings.ToLower(config.Log.Format)
	config.AI.Provider = strings.ToLower(strings.TrimSpace(config.AI.Provider))

	// 6. Validate configuration
	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Log defaults
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
	v.SetDefault("log.file", "")
	v.SetDefault("log.max_size_mb", 10)
	v.SetDefault("log.max_backups", 3)

	// Input defaults
	v.SetDefault("input.file", "SDW2023.csv")
	v.SetDefault("input.delimiter", ",")
	v.SetDefault("input.sheet", "")

	// Output defaults
	v.SetDefault("output.file", "output_users_with_news.json")
	v.SetDefault("output.indent", 4)

	// AI defaults
	v.SetDefault("ai.provider", ProviderHuggingFace)
	v.SetDefault("ai.offline", false)
	v.SetDefault("ai.hf_model_id", "")
	v.SetDefault("ai.base_url", "https://router.huggingface.co/v1")
	v.SetDefault("ai.language", "English")
	v.SetDefault("ai.timeout_seconds", 30)
	v.SetDefault("ai.max_tokens", 140)
	v.SetDefault("ai.temperature", 0.7)
	v.SetDefault("ai.top_p", 0.9)
}

// validateConfig validates the configuration values
func validateConfig(config *Config) error {
	if err := validator.New().Struct(config); err != nil {
		return err
	}

	if _, err := logrus.ParseLevel(config.Log.Level); err != nil {
		return fmt.Errorf("invalid log level: %s", config.Log.Level)
	}

	if len([]rune(config.Input.Delimiter)) != 1 {
		return fmt.Errorf("input delimiter must be a single character, got: %q", config.Input.Delimiter)
	}

	return nil
}
