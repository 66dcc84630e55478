// Package config loads pdfgrid configuration from defaults, an optional
// YAML file, and PDFGRID_-prefixed environment variables, with hot reload
// on file changes. Credentials reference environment variables with
// ${ENV_VAR} syntax and are resolved at read time, never stored resolved.
package config

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v2"
)

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host      string `mapstructure:"host" yaml:"host"`
	Port      string `mapstructure:"port" yaml:"port"`
	OutputDir string `mapstructure:"output_dir" yaml:"output_dir"`
}

// ModelConfig holds the model-assisted extraction settings. An empty
// resolved API key disables the strategy.
type ModelConfig struct {
	APIKey         string  `mapstructure:"api_key" yaml:"api_key"`
	BaseURL        string  `mapstructure:"base_url" yaml:"base_url"`
	Model          string  `mapstructure:"model" yaml:"model"`
	TimeoutSeconds int     `mapstructure:"timeout_seconds" yaml:"timeout_seconds"`
	Temperature    float64 `mapstructure:"temperature" yaml:"temperature"`
}

// ExternalConfig holds the external extraction service settings. An empty
// resolved URL or key disables the strategy.
type ExternalConfig struct {
	APIURL              string  `mapstructure:"api_url" yaml:"api_url"`
	APIKey              string  `mapstructure:"api_key" yaml:"api_key"`
	TimeoutSeconds      int     `mapstructure:"timeout_seconds" yaml:"timeout_seconds"`
	PollIntervalSeconds float64 `mapstructure:"poll_interval_seconds" yaml:"poll_interval_seconds"`
	IncludeMetadata     bool    `mapstructure:"include_metadata" yaml:"include_metadata"`
}

// UploadConfig holds upload handling limits.
type UploadConfig struct {
	MaxFileSizeMB int64 `mapstructure:"max_file_size_mb" yaml:"max_file_size_mb"`
}

// Config is the complete pdfgrid configuration.
type Config struct {
	Server   ServerConfig   `mapstructure:"server" yaml:"server"`
	Model    ModelConfig    `mapstructure:"model" yaml:"model"`
	External ExternalConfig `mapstructure:"external" yaml:"external"`
	Uploads  UploadConfig   `mapstructure:"uploads" yaml:"uploads"`
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:      "127.0.0.1",
			Port:      "8080",
			OutputDir: "outputs",
		},
		Model: ModelConfig{
			APIKey:         "${OPENAI_API_KEY}",
			BaseURL:        "https://api.openai.com/v1",
			Model:          "gpt-4.1-mini",
			TimeoutSeconds: 60,
			Temperature:    0.1,
		},
		External: ExternalConfig{
			APIURL:              "${EXTRACT_API_URL}",
			APIKey:              "${EXTRACT_API_KEY}",
			TimeoutSeconds:      300,
			PollIntervalSeconds: 2.5,
			IncludeMetadata:     false,
		},
		Uploads: UploadConfig{
			MaxFileSizeMB: 50,
		},
	}
}

// Manager handles loading and hot-reloading configuration.
type Manager struct {
	mu        sync.RWMutex
	config    *Config
	callbacks []func(*Config)
}

// NewManager creates a config manager and loads initial config.
func NewManager(cfgFile string) (*Manager, error) {
	cm := &Manager{
		callbacks: make([]func(*Config), 0),
	}

	if err := cm.initViper(cfgFile); err != nil {
		return nil, err
	}

	cfg, err := cm.load()
	if err != nil {
		return nil, err
	}
	cm.config = cfg

	return cm, nil
}

// initViper sets up viper with defaults and config file.
func (cm *Manager) initViper(cfgFile string) error {
	defaults := DefaultConfig()
	viper.SetDefault("server", defaults.Server)
	viper.SetDefault("model", defaults.Model)
	viper.SetDefault("external", defaults.External)
	viper.SetDefault("uploads", defaults.Uploads)

	// Environment variables with PDFGRID_ prefix
	viper.SetEnvPrefix("PDFGRID")
	viper.AutomaticEnv()

	// Config file
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
		viper.AddConfigPath("$HOME/.pdfgrid")
	}

	// Try to read config file (not required)
	if err := viper.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if !errors.As(err, &configFileNotFoundError) {
			return fmt.Errorf("error reading config file: %w", err)
		}
	}

	return nil
}

// load parses the current viper state into a Config struct.
func (cm *Manager) load() (*Config, error) {
	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return &cfg, nil
}

// Get returns the current configuration (thread-safe).
func (cm *Manager) Get() *Config {
	cm.mu.RLock()
	defer cm.mu.RUnlock()
	return cm.config
}

// OnChange registers a callback for config changes.
func (cm *Manager) OnChange(fn func(*Config)) {
	cm.mu.Lock()
	defer cm.mu.Unlock()
	cm.callbacks = append(cm.callbacks, fn)
}

// WatchConfig enables hot-reloading of configuration.
func (cm *Manager) WatchConfig() {
	viper.OnConfigChange(func(e fsnotify.Event) {
		cfg, err := cm.load()
		if err != nil {
			return
		}

		cm.mu.Lock()
		cm.config = cfg
		callbacks := make([]func(*Config), len(cm.callbacks))
		copy(callbacks, cm.callbacks)
		cm.mu.Unlock()

		for _, fn := range callbacks {
			fn(cfg)
		}
	})
	viper.WatchConfig()
}

// ResolveEnvVars expands ${ENV_VAR} references in a string.
func ResolveEnvVars(value string) string {
	if value == "" {
		return value
	}
	pattern := regexp.MustCompile(`\$\{([^}]+)\}`)
	return pattern.ReplaceAllStringFunc(value, func(match string) string {
		varName := match[2 : len(match)-1]
		return os.Getenv(varName)
	})
}

// ResolvedModelKey returns the model API key with env references expanded.
func (c *Config) ResolvedModelKey() string {
	return ResolveEnvVars(c.Model.APIKey)
}

// ResolvedExternal returns the external service URL and key with env
// references expanded.
func (c *Config) ResolvedExternal() (url, key string) {
	return ResolveEnvVars(c.External.APIURL), ResolveEnvVars(c.External.APIKey)
}

// MaxFileSizeBytes returns the upload size cap in bytes.
func (c *Config) MaxFileSizeBytes() int64 {
	return c.Uploads.MaxFileSizeMB << 20
}

// WriteDefault writes the default configuration to the specified path.
func WriteDefault(path string) error {
	cfg := DefaultConfig()
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	header := []byte(`# pdfgrid configuration
# Credentials use ${ENV_VAR} syntax to reference environment variables
# Set these in your shell: export OPENAI_API_KEY=xxx EXTRACT_API_URL=... EXTRACT_API_KEY=xxx

`)
	return os.WriteFile(path, append(header, data...), 0o644)
}
