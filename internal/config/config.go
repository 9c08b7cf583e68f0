// Package config handles configuration loading for FinScope.
// It supports YAML config files with environment variable overrides.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config represents the complete application configuration.
type Config struct {
	DART     DARTConfig     `mapstructure:"dart"     yaml:"dart"`
	Analysis AnalysisConfig `mapstructure:"analysis" yaml:"analysis"`
	API      APIConfig      `mapstructure:"api"      yaml:"api"`
	Logging  LoggingConfig  `mapstructure:"logging"  yaml:"logging"`
}

// DARTConfig holds DART Open API client settings.
type DARTConfig struct {
	APIKey           string `mapstructure:"api_key"            yaml:"api_key"`
	BaseURL          string `mapstructure:"base_url"           yaml:"base_url"`
	ReportCode       string `mapstructure:"report_code"        yaml:"report_code"` // 11011: 사업보고서
	CacheTTLDays     int    `mapstructure:"cache_ttl_days"     yaml:"cache_ttl_days"`
	TimeoutSec       int    `mapstructure:"timeout_sec"        yaml:"timeout_sec"`
	MaxSearchResults int    `mapstructure:"max_search_results" yaml:"max_search_results"`
}

// AnalysisConfig holds KPI/weakness analysis defaults.
type AnalysisConfig struct {
	DefaultYear     int    `mapstructure:"default_year"     yaml:"default_year"`
	DefaultIndustry string `mapstructure:"default_industry" yaml:"default_industry"`
}

// APIConfig holds HTTP API server settings.
type APIConfig struct {
	Host        string   `mapstructure:"host"         yaml:"host"`
	Port        int      `mapstructure:"port"         yaml:"port"`
	CORSOrigins []string `mapstructure:"cors_origins" yaml:"cors_origins"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"  yaml:"level"`  // "debug", "info", "warn", "error"
	Format string `mapstructure:"format" yaml:"format"` // "text" or "json"
}

// Addr returns the host:port listen address for the API server.
func (c APIConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// Load reads the configuration from file and environment variables.
// Config file search order:
//  1. ./config/config.yaml (project root)
//  2. ~/.finscope/config.yaml (home directory)
//  3. /etc/finscope/config.yaml (system)
//
// Environment variables override config file values.
// Format: FINSCOPE_<SECTION>_<KEY>, e.g., FINSCOPE_DART_API_KEY
func Load() (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./config")
	v.AddConfigPath(filepath.Join(homeDir(), ".finscope"))
	v.AddConfigPath("/etc/finscope")

	v.SetEnvPrefix("FINSCOPE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Read config file (not required to exist)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found — that's fine, use defaults + env vars
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	overrideFromEnv(&cfg)

	return &cfg, nil
}

// LoadFromFile reads configuration from a specific file path.
func LoadFromFile(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigFile(path)
	v.SetEnvPrefix("FINSCOPE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file %s: %w", path, err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	overrideFromEnv(&cfg)
	return &cfg, nil
}

// setDefaults sets sensible defaults for all config values.
func setDefaults(v *viper.Viper) {
	// DART defaults
	v.SetDefault("dart.base_url", "https://opendart.fss.or.kr/api")
	v.SetDefault("dart.report_code", "11011") // 사업보고서
	v.SetDefault("dart.cache_ttl_days", 1)
	v.SetDefault("dart.timeout_sec", 30)
	v.SetDefault("dart.max_search_results", 20)

	// Analysis defaults: analyze the last completed fiscal year.
	v.SetDefault("analysis.default_year", time.Now().Year()-1)
	v.SetDefault("analysis.default_industry", "은행업")

	// API defaults
	v.SetDefault("api.host", "0.0.0.0")
	v.SetDefault("api.port", 5001)
	v.SetDefault("api.cors_origins", []string{"*"})

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "text")
}

// overrideFromEnv explicitly reads sensitive keys from environment variables.
func overrideFromEnv(cfg *Config) {
	if key := os.Getenv("FINSCOPE_DART_API_KEY"); key != "" {
		cfg.DART.APIKey = key
	}
	// Plain DART_API_KEY is what the DART docs suggest; honor it as a fallback.
	if key := os.Getenv("DART_API_KEY"); key != "" && cfg.DART.APIKey == "" {
		cfg.DART.APIKey = key
	}
}

// homeDir returns the user's home directory.
func homeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return home
}
