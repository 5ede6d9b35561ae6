// File: internal/config/config.go
package config

import (
	"fmt"
	"time"

	"github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"
)

// Interface defines the contract for accessing application configuration.
// This allows for dependency injection and mocking in tests.
type Interface interface {
	Logger() LoggerConfig
	Backend() BackendConfig
	Replay() ReplayConfig
	Capture() CaptureConfig

	// Backend Setters
	SetBackendDragThreshold(px float64)

	// Replay Setters
	SetReplayFormat(format string)
	SetReplayPretty(bool)

	// Capture Setters
	SetCaptureHeadless(bool)
	SetCaptureTimeout(d time.Duration)
}

// Config holds the entire application configuration.
type Config struct {
	LoggerCfg  LoggerConfig  `mapstructure:"logger" yaml:"logger"`
	BackendCfg BackendConfig `mapstructure:"backend" yaml:"backend"`
	ReplayCfg  ReplayConfig  `mapstructure:"replay" yaml:"replay"`
	CaptureCfg CaptureConfig `mapstructure:"capture" yaml:"capture"`
}

// --- Interface Method Implementations (Getters) ---

func (c *Config) Logger() LoggerConfig   { return c.LoggerCfg }
func (c *Config) Backend() BackendConfig { return c.BackendCfg }
func (c *Config) Replay() ReplayConfig   { return c.ReplayCfg }
func (c *Config) Capture() CaptureConfig { return c.CaptureCfg }

// --- Interface Method Implementations (Setters) ---

func (c *Config) SetBackendDragThreshold(px float64) { c.BackendCfg.DragThreshold = px }

func (c *Config) SetReplayFormat(format string) { c.ReplayCfg.Format = format }
func (c *Config) SetReplayPretty(b bool)        { c.ReplayCfg.Pretty = b }

func (c *Config) SetCaptureHeadless(b bool)         { c.CaptureCfg.Headless = b }
func (c *Config) SetCaptureTimeout(d time.Duration) { c.CaptureCfg.Timeout = d }

// LoggerConfig holds all the configuration for the logger.
type LoggerConfig struct {
	Level       string      `mapstructure:"level" yaml:"level"`
	Format      string      `mapstructure:"format" yaml:"format"`
	AddSource   bool        `mapstructure:"add_source" yaml:"add_source"`
	ServiceName string      `mapstructure:"service_name" yaml:"service_name"`
	LogFile     string      `mapstructure:"log_file" yaml:"log_file"`
	MaxSize     int         `mapstructure:"max_size" yaml:"max_size"`
	MaxBackups  int         `mapstructure:"max_backups" yaml:"max_backups"`
	MaxAge      int         `mapstructure:"max_age" yaml:"max_age"`
	Compress    bool        `mapstructure:"compress" yaml:"compress"`
	Colors      ColorConfig `mapstructure:"colors" yaml:"colors"`
}

// ColorConfig defines the color codes for different log levels.
type ColorConfig struct {
	Debug  string `mapstructure:"debug" yaml:"debug"`
	Info   string `mapstructure:"info" yaml:"info"`
	Warn   string `mapstructure:"warn" yaml:"warn"`
	Error  string `mapstructure:"error" yaml:"error"`
	DPanic string `mapstructure:"dpanic" yaml:"dpanic"`
	Panic  string `mapstructure:"panic" yaml:"panic"`
	Fatal  string `mapstructure:"fatal" yaml:"fatal"`
}

// BackendConfig tunes the input backend.
type BackendConfig struct {
	// DragThreshold is the pointer displacement, in CSS pixels, that turns a
	// press into a drag.
	DragThreshold float64 `mapstructure:"drag_threshold" yaml:"drag_threshold"`
}

// ReplayConfig controls how replay traces are written.
type ReplayConfig struct {
	Format string `mapstructure:"format" yaml:"format"`
	Pretty bool   `mapstructure:"pretty" yaml:"pretty"`
}

// CaptureConfig configures the Chrome session used to capture native drags.
type CaptureConfig struct {
	Headless bool          `mapstructure:"headless" yaml:"headless"`
	Timeout  time.Duration `mapstructure:"timeout" yaml:"timeout"`
	ExecPath string        `mapstructure:"exec_path" yaml:"exec_path"`
}

// Supported trace formats.
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// DefaultDragThreshold matches the slop browsers allow before starting a native drag.
const DefaultDragThreshold = 4.0

// NewDefaultConfig creates a new configuration struct populated with default values.
func NewDefaultConfig() *Config {
	v := viper.New()
	SetDefaults(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		// This should not happen with defaults, but good to be safe.
		panic(fmt.Sprintf("failed to unmarshal default config: %v", err))
	}
	return &cfg
}

// SetDefaults initializes default values for various configuration parameters.
func SetDefaults(v *viper.Viper) {
	// -- Logger --
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "console")
	v.SetDefault("logger.add_source", false)
	v.SetDefault("logger.service_name", "dndreplay")
	v.SetDefault("logger.log_file", "")
	v.SetDefault("logger.max_size", 100)
	v.SetDefault("logger.max_backups", 5)
	v.SetDefault("logger.max_age", 30)
	v.SetDefault("logger.compress", true)

	// -- Backend --
	v.SetDefault("backend.drag_threshold", DefaultDragThreshold)

	// -- Replay --
	v.SetDefault("replay.format", FormatJSON)
	v.SetDefault("replay.pretty", true)

	// -- Capture --
	v.SetDefault("capture.headless", true)
	v.SetDefault("capture.timeout", "2m")
	v.SetDefault("capture.exec_path", "")
}

// NewConfigFromViper creates a new configuration instance from a viper object.
func NewConfigFromViper(v *viper.Viper) (*Config, error) {
	var cfg Config

	// The browser binary is machine specific, so it is commonly set from the environment.
	_ = v.BindEnv("capture.exec_path", "DNDREPLAY_CHROME_PATH")

	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	if err := cfg.expandPaths(); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

// expandPaths resolves a leading ~ in the configured file paths.
func (c *Config) expandPaths() error {
	for _, p := range []*string{&c.LoggerCfg.LogFile, &c.CaptureCfg.ExecPath} {
		expanded, err := homedir.Expand(*p)
		if err != nil {
			return fmt.Errorf("failed to expand path %q: %w", *p, err)
		}
		*p = expanded
	}
	return nil
}

// Validate checks the configuration for required fields and sane values.
func (c *Config) Validate() error {
	if err := c.BackendCfg.Validate(); err != nil {
		return fmt.Errorf("backend configuration invalid: %w", err)
	}
	if err := c.ReplayCfg.Validate(); err != nil {
		return fmt.Errorf("replay configuration invalid: %w", err)
	}
	if c.CaptureCfg.Timeout <= 0 {
		return fmt.Errorf("capture.timeout must be a positive duration")
	}
	return nil
}

// Validate checks the backend configuration.
func (b *BackendConfig) Validate() error {
	if b.DragThreshold < 0 {
		return fmt.Errorf("backend.drag_threshold must not be negative, got %v", b.DragThreshold)
	}
	return nil
}

// Validate checks the replay configuration.
func (r *ReplayConfig) Validate() error {
	switch r.Format {
	case FormatJSON, FormatYAML:
		return nil
	default:
		return fmt.Errorf("replay.format must be %q or %q, got %q", FormatJSON, FormatYAML, r.Format)
	}
}
