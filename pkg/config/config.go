// Package config provides configuration management for the heap-browser
// service.
package config

import (
	"bytes"
	"fmt"
	"os"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
type Config struct {
	Browser BrowserConfig `mapstructure:"browser"`
	Server  ServerConfig  `mapstructure:"server"`
	Log     LogConfig     `mapstructure:"log"`
}

// BrowserConfig tunes tree materialization thresholds.
type BrowserConfig struct {
	// MaxFields is the largest field count rendered directly.
	MaxFields int `mapstructure:"max_fields"`
	// MaxReferences is the largest reference count rendered directly.
	MaxReferences int `mapstructure:"max_references"`
	// MaxArrayItems is the largest element count rendered directly.
	MaxArrayItems int `mapstructure:"max_array_items"`
	// CollapseUnit is the base container size for collapsed views.
	CollapseUnit int `mapstructure:"collapse_unit"`
	// UnitLimit is the item count beyond which the container unit grows.
	UnitLimit int `mapstructure:"unit_limit"`
	// SampleThreshold is the item count beyond which views are sampled.
	SampleThreshold int `mapstructure:"sample_threshold"`
	// MaxReferers caps the merged-reference accumulator.
	MaxReferers int `mapstructure:"max_referers"`
}

// ServerConfig holds the browse server configuration.
type ServerConfig struct {
	Port         int `mapstructure:"port"`
	MaxSnapshots int `mapstructure:"max_snapshots"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level      string `mapstructure:"level"`
	OutputPath string `mapstructure:"output_path"`
	Format     string `mapstructure:"format"` // json or text
}

// Load reads configuration from the specified file path.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	// Set default values
	setDefaults(v)

	// Determine config file path
	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		// Look for config in standard locations
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
		v.AddConfigPath("/etc/heap-browser")
	}

	// Read config file
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			// Config file not found, use defaults
			fmt.Println("Config file not found, using defaults")
		} else if os.IsNotExist(err) {
			fmt.Printf("Config file %s not found, using defaults\n", configPath)
		} else {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	// Allow environment variables to override config
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// LoadFromReader loads configuration from raw content (useful for testing).
func LoadFromReader(configType string, content []byte) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigType(configType)
	if err := v.ReadConfig(bytes.NewReader(content)); err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

// setDefaults sets default configuration values.
func setDefaults(v *viper.Viper) {
	// Browser defaults
	v.SetDefault("browser.max_fields", 100)
	v.SetDefault("browser.max_references", 100)
	v.SetDefault("browser.max_array_items", 2000)
	v.SetDefault("browser.collapse_unit", 500)
	v.SetDefault("browser.unit_limit", 5000)
	v.SetDefault("browser.sample_threshold", 100000)
	v.SetDefault("browser.max_referers", 1000000)

	// Server defaults
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.max_snapshots", 3)

	// Log defaults
	v.SetDefault("log.level", "info")
	v.SetDefault("log.output_path", "./logs")
	v.SetDefault("log.format", "text")
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Browser.MaxFields < 1 {
		return fmt.Errorf("max_fields must be at least 1")
	}
	if c.Browser.MaxReferences < 1 {
		return fmt.Errorf("max_references must be at least 1")
	}
	if c.Browser.CollapseUnit < 1 {
		return fmt.Errorf("collapse_unit must be at least 1")
	}
	if c.Browser.SampleThreshold < c.Browser.UnitLimit {
		return fmt.Errorf("sample_threshold must not be below unit_limit")
	}
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}
	if c.Server.MaxSnapshots < 1 {
		return fmt.Errorf("max_snapshots must be at least 1")
	}
	return nil
}
