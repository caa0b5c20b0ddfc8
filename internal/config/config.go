// Package config provides configuration loading and validation for the resume form.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/jonathan/resume-form/internal/client"
	"github.com/jonathan/resume-form/internal/form"
	"github.com/jonathan/resume-form/internal/imagecapture"
	"gopkg.in/yaml.v3"
)

// Duration is a time.Duration that reads from strings such as "30m" in both
// JSON and YAML files.
type Duration time.Duration

// UnmarshalText parses a Go duration string.
func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(strings.TrimSpace(string(text)))
	if err != nil {
		return err
	}
	*d = Duration(parsed)
	return nil
}

// MarshalText formats the duration as a Go duration string.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

// Config represents the application configuration that can be loaded from a
// JSON or YAML file. All fields are optional in the file; missing values use
// defaults, and environment variables override both.
type Config struct {
	Port           int      `json:"port,omitempty" yaml:"port,omitempty" validate:"min=1,max=65535"`
	ServiceURL     string   `json:"service_url,omitempty" yaml:"service_url,omitempty" validate:"required,url"`
	SessionTTL     Duration `json:"session_ttl,omitempty" yaml:"session_ttl,omitempty" validate:"gt=0"`
	NoticeDuration Duration `json:"notice_duration,omitempty" yaml:"notice_duration,omitempty" validate:"gt=0"`
	MaxImageBytes  int64    `json:"max_image_bytes,omitempty" yaml:"max_image_bytes,omitempty" validate:"min=1024"`
	Verbose        bool     `json:"verbose,omitempty" yaml:"verbose,omitempty"`
}

// Defaults returns the configuration used when nothing else is set.
func Defaults() Config {
	return Config{
		Port:           8080,
		ServiceURL:     client.DefaultBaseURL,
		SessionTTL:     Duration(30 * time.Minute),
		NoticeDuration: Duration(form.DefaultNoticeDuration),
		MaxImageBytes:  imagecapture.DefaultMaxBytes,
	}
}

// LoadConfig loads configuration from a JSON or YAML file, chosen by extension.
// Returns an error if the file cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	// Resolve path relative to current directory if not absolute
	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config YAML: %w", err)
		}
	default:
		if err := json.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config JSON: %w", err)
		}
	}

	return &cfg, nil
}

// Load builds the effective configuration: defaults, then the file at path
// (if any), then environment overrides. The result is validated.
func Load(path string) (*Config, error) {
	cfg := Defaults()
	if path != "" {
		fileCfg, err := LoadConfig(path)
		if err != nil {
			return nil, err
		}
		cfg = fileCfg.MergeWithDefaults(cfg)
	}
	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks that the configuration has valid values.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("config error: %w", err)
	}
	if !strings.HasPrefix(c.ServiceURL, "http://") && !strings.HasPrefix(c.ServiceURL, "https://") {
		return fmt.Errorf("config error: 'service_url' must be an http(s) URL")
	}
	return nil
}

// MergeWithDefaults returns a new Config with zero fields filled from defaults.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	if result.Port == 0 {
		result.Port = defaults.Port
	}
	if result.ServiceURL == "" {
		result.ServiceURL = defaults.ServiceURL
	}
	if result.SessionTTL == 0 {
		result.SessionTTL = defaults.SessionTTL
	}
	if result.NoticeDuration == 0 {
		result.NoticeDuration = defaults.NoticeDuration
	}
	if result.MaxImageBytes == 0 {
		result.MaxImageBytes = defaults.MaxImageBytes
	}

	// Bool fields: cannot distinguish unset from false, so we don't merge

	return result
}

// ApplyEnv overrides fields from environment variables when they are set.
func (c *Config) ApplyEnv() error {
	if v := os.Getenv("RESUME_SERVICE_URL"); v != "" {
		c.ServiceURL = v
	}
	if v := os.Getenv("PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid PORT %q: %w", v, err)
		}
		c.Port = port
	}
	if v := os.Getenv("SESSION_TTL"); v != "" {
		if err := c.SessionTTL.UnmarshalText([]byte(v)); err != nil {
			return fmt.Errorf("invalid SESSION_TTL %q: %w", v, err)
		}
	}
	if v := os.Getenv("NOTICE_DURATION"); v != "" {
		if err := c.NoticeDuration.UnmarshalText([]byte(v)); err != nil {
			return fmt.Errorf("invalid NOTICE_DURATION %q: %w", v, err)
		}
	}
	if v := os.Getenv("MAX_IMAGE_BYTES"); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid MAX_IMAGE_BYTES %q: %w", v, err)
		}
		c.MaxImageBytes = n
	}
	return nil
}

// FormOptions returns the controller options described by the configuration.
func (c *Config) FormOptions() *form.Options {
	return &form.Options{
		NoticeDuration: time.Duration(c.NoticeDuration),
		Image: &imagecapture.Options{
			MaxBytes:     c.MaxImageBytes,
			AllowedTypes: imagecapture.DefaultAllowedTypes,
		},
	}
}
