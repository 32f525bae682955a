package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/eugenenazirov/env-registry/internal/environment"
)

const (
	defaultPort           = "8080"
	defaultRateLimitRPS   = 25.0
	defaultRateLimitBurst = 50
)

// EnvironmentDefinition declares one extra (or overriding) environment in
// the YAML file. DisplayName and BaseURL are mandatory; Settings is free-form.
type EnvironmentDefinition struct {
	DisplayName string            `yaml:"display_name"`
	BaseURL     string            `yaml:"base_url"`
	Settings    map[string]string `yaml:"settings"`
}

// Config aggregates runtime configuration resolved from multiple sources.
// Precedence: CLI flags > YAML config > Environment variables > Defaults
type Config struct {
	Environment          environment.ID                           `yaml:"environment"`
	Environments         map[environment.ID]EnvironmentDefinition `yaml:"environments"`
	Port                 string                                   `yaml:"port"`
	ShutdownGracePeriod  time.Duration                            `yaml:"shutdown_grace_period"`
	ReadHeaderTimeout    time.Duration                            `yaml:"read_header_timeout"`
	WriteTimeout         time.Duration                            `yaml:"write_timeout"`
	IdleTimeout          time.Duration                            `yaml:"idle_timeout"`
	EnableRequestLogging bool                                     `yaml:"enable_request_logging"`
	RateLimitRPS         float64                                  `yaml:"-"`
	RateLimitBurst       int                                      `yaml:"-"`
}

// yamlConfig represents the YAML configuration file structure.
type yamlConfig struct {
	Environment          string                           `yaml:"environment"`
	Environments         map[string]EnvironmentDefinition `yaml:"environments"`
	Port                 string                           `yaml:"port"`
	ShutdownGracePeriod  string                           `yaml:"shutdown_grace_period"`
	ReadHeaderTimeout    string                           `yaml:"read_header_timeout"`
	WriteTimeout         string                           `yaml:"write_timeout"`
	IdleTimeout          string                           `yaml:"idle_timeout"`
	EnableRequestLogging bool                             `yaml:"enable_request_logging"`
	RateLimit            yamlRateLimit                    `yaml:"rate_limit"`
}

// yamlRateLimit represents the rate limit section in YAML.
type yamlRateLimit struct {
	RPS   float64 `yaml:"rps"`
	Burst int     `yaml:"burst"`
}

// CLIOverrides holds command-line flag overrides.
type CLIOverrides struct {
	ConfigFile     string
	Environment    *string
	Port           *string
	RateLimitRPS   *float64
	RateLimitBurst *int
}

// Load extracts configuration from multiple sources with precedence:
// CLI flags > YAML config > Environment variables > Defaults.
// The selected environment has no default: if neither flag, YAML, nor the
// APP_ENV variable names one, loading fails.
func Load(overrides *CLIOverrides) (Config, error) {
	cfg := defaultConfig()

	// Load from YAML file if specified
	if overrides != nil && overrides.ConfigFile != "" {
		yamlCfg, err := loadFromFile(overrides.ConfigFile)
		if err != nil {
			return Config{}, fmt.Errorf("load YAML config: %w", err)
		}
		applyYAMLConfig(&cfg, yamlCfg)
	}

	// Apply environment variables (override YAML)
	applyEnvConfig(&cfg)

	// Apply CLI overrides (highest precedence)
	if overrides != nil {
		applyCLIOverrides(&cfg, overrides)
	}

	// Validate final configuration
	if err := validateConfig(cfg); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// defaultConfig returns a Config with default values. The environment is
// deliberately left unset: selection is explicit, never defaulted.
func defaultConfig() Config {
	return Config{
		Port:                 defaultPort,
		ShutdownGracePeriod:  10 * time.Second,
		ReadHeaderTimeout:    5 * time.Second,
		WriteTimeout:         15 * time.Second,
		IdleTimeout:          60 * time.Second,
		EnableRequestLogging: true,
		RateLimitRPS:         defaultRateLimitRPS,
		RateLimitBurst:       defaultRateLimitBurst,
	}
}

// loadFromFile loads configuration from a YAML file.
func loadFromFile(path string) (*yamlConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	var yamlCfg yamlConfig
	if err := yaml.Unmarshal(data, &yamlCfg); err != nil {
		return nil, fmt.Errorf("parse YAML: %w", err)
	}

	return &yamlCfg, nil
}

// applyYAMLConfig applies YAML configuration to the Config struct.
func applyYAMLConfig(cfg *Config, yamlCfg *yamlConfig) {
	if env := strings.TrimSpace(yamlCfg.Environment); env != "" {
		cfg.Environment = environment.ID(env)
	}

	if len(yamlCfg.Environments) > 0 {
		cfg.Environments = make(map[environment.ID]EnvironmentDefinition, len(yamlCfg.Environments))
		for id, def := range yamlCfg.Environments {
			cfg.Environments[environment.ID(id)] = def
		}
	}

	if yamlCfg.Port != "" {
		cfg.Port = yamlCfg.Port
	}

	if yamlCfg.ShutdownGracePeriod != "" {
		if d, err := time.ParseDuration(yamlCfg.ShutdownGracePeriod); err == nil {
			cfg.ShutdownGracePeriod = d
		}
	}

	if yamlCfg.ReadHeaderTimeout != "" {
		if d, err := time.ParseDuration(yamlCfg.ReadHeaderTimeout); err == nil {
			cfg.ReadHeaderTimeout = d
		}
	}

	if yamlCfg.WriteTimeout != "" {
		if d, err := time.ParseDuration(yamlCfg.WriteTimeout); err == nil {
			cfg.WriteTimeout = d
		}
	}

	if yamlCfg.IdleTimeout != "" {
		if d, err := time.ParseDuration(yamlCfg.IdleTimeout); err == nil {
			cfg.IdleTimeout = d
		}
	}

	cfg.EnableRequestLogging = yamlCfg.EnableRequestLogging

	if yamlCfg.RateLimit.RPS >= 0 {
		cfg.RateLimitRPS = yamlCfg.RateLimit.RPS
	}

	if yamlCfg.RateLimit.Burst >= 0 {
		cfg.RateLimitBurst = yamlCfg.RateLimit.Burst
	}
}

// applyEnvConfig applies environment variable configuration.
func applyEnvConfig(cfg *Config) {
	if env := strings.TrimSpace(os.Getenv("APP_ENV")); env != "" {
		cfg.Environment = environment.ID(env)
	}

	if port := strings.TrimSpace(os.Getenv("PORT")); port != "" {
		cfg.Port = port
	}

	if rps := strings.TrimSpace(os.Getenv("RATE_LIMIT_RPS")); rps != "" {
		if value, err := strconv.ParseFloat(rps, 64); err == nil && value >= 0 {
			cfg.RateLimitRPS = value
		}
	}

	if burst := strings.TrimSpace(os.Getenv("RATE_LIMIT_BURST")); burst != "" {
		if value, err := strconv.Atoi(burst); err == nil && value >= 0 {
			cfg.RateLimitBurst = value
		}
	}
}

// applyCLIOverrides applies command-line flag overrides.
func applyCLIOverrides(cfg *Config, overrides *CLIOverrides) {
	if overrides.Environment != nil && *overrides.Environment != "" {
		cfg.Environment = environment.ID(strings.TrimSpace(*overrides.Environment))
	}

	if overrides.Port != nil && *overrides.Port != "" {
		cfg.Port = *overrides.Port
	}

	if overrides.RateLimitRPS != nil && *overrides.RateLimitRPS >= 0 {
		cfg.RateLimitRPS = *overrides.RateLimitRPS
	}

	if overrides.RateLimitBurst != nil && *overrides.RateLimitBurst >= 0 {
		cfg.RateLimitBurst = *overrides.RateLimitBurst
	}
}

// validateConfig validates the final configuration.
func validateConfig(cfg Config) error {
	if cfg.Environment == "" {
		return fmt.Errorf("environment must be selected via --env flag, YAML, or APP_ENV")
	}
	for id, def := range cfg.Environments {
		if strings.TrimSpace(string(id)) == "" {
			return fmt.Errorf("environment definitions must have a non-empty identifier")
		}
		if strings.TrimSpace(def.DisplayName) == "" {
			return fmt.Errorf("environment %q must declare display_name", id)
		}
		if strings.TrimSpace(def.BaseURL) == "" {
			return fmt.Errorf("environment %q must declare base_url", id)
		}
	}
	if cfg.RateLimitRPS < 0 {
		return fmt.Errorf("RATE_LIMIT_RPS must be >= 0")
	}
	if cfg.RateLimitBurst < 0 {
		return fmt.Errorf("RATE_LIMIT_BURST must be >= 0")
	}
	return nil
}
