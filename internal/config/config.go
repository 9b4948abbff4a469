package config

import (
	"errors"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
type Config struct {
	LogLevel          string        `mapstructure:"LOG_LEVEL"`
	DBURL             string        `mapstructure:"DB_URL"`
	GithubToken       string        `mapstructure:"GITHUB_TOKEN"`
	LibrariesIOAPIKey string        `mapstructure:"LIBRARIES_IO_API_KEY"`
	MaxAttempts       uint          `mapstructure:"MAX_ATTEMPTS"`
	RetryDelay        time.Duration `mapstructure:"RETRY_DELAY"`
	HTTPTimeout       time.Duration `mapstructure:"HTTP_TIMEOUT"`
	UserAgent         string        `mapstructure:"USER_AGENT"`
	LibrariesIOURL    string        `mapstructure:"LIBRARIES_IO_URL"`
	GithubAPIURL      string        `mapstructure:"GITHUB_API_URL"`
	NPMRegistryURL    string        `mapstructure:"NPM_REGISTRY_URL"`
	NPMWebURL         string        `mapstructure:"NPM_WEB_URL"`
	PyPIURL           string        `mapstructure:"PYPI_URL"`
	HTTPAddr          string        `mapstructure:"HTTP_ADDR"`
}

// flagKeys maps command line flags onto configuration keys. Flags win over the
// environment when set explicitly.
var flagKeys = map[string]string{
	"log-level":    "LOG_LEVEL",
	"db-url":       "DB_URL",
	"max-attempts": "MAX_ATTEMPTS",
	"retry-delay":  "RETRY_DELAY",
	"addr":         "HTTP_ADDR",
}

// LoadConfig reads configuration from flags, the environment and an optional .env file.
func LoadConfig(flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()

	// Set default values
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("DB_URL", "")
	v.SetDefault("GITHUB_TOKEN", "")
	v.SetDefault("LIBRARIES_IO_API_KEY", "")
	v.SetDefault("MAX_ATTEMPTS", 5)
	v.SetDefault("RETRY_DELAY", "30s")
	v.SetDefault("HTTP_TIMEOUT", "30s")
	v.SetDefault("USER_AGENT", "package-metadata-fetcher")
	v.SetDefault("LIBRARIES_IO_URL", "https://libraries.io/api")
	v.SetDefault("GITHUB_API_URL", "https://api.github.com/")
	v.SetDefault("NPM_REGISTRY_URL", "https://skimdb.npmjs.com/registry")
	v.SetDefault("NPM_WEB_URL", "https://www.npmjs.com")
	v.SetDefault("PYPI_URL", "https://pypi.python.org")
	v.SetDefault("HTTP_ADDR", ":8080")

	// Load from .env file if it exists
	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	_ = v.ReadInConfig() // Ignore error if file not found

	// Bind environment variables
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if flags != nil {
		for name, key := range flagKeys {
			if f := flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, err
				}
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	// Validate required fields
	if cfg.DBURL == "" {
		return nil, errors.New("DB_URL is a required configuration field")
	}
	if cfg.MaxAttempts == 0 {
		return nil, errors.New("MAX_ATTEMPTS must be at least 1")
	}
	if cfg.RetryDelay < 0 {
		return nil, errors.New("RETRY_DELAY must not be negative")
	}

	return &cfg, nil
}
