// Package config provides Viper-based hierarchical configuration management
package config

import (
	"fmt"
	"strings"

	"fjacquet/finledger/internal/logging"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment variable override.
const EnvPrefix = "LEDGER"

// Config represents the complete application configuration
type Config struct {
	Log struct {
		Level  string `mapstructure:"level" yaml:"level"`
		Format string `mapstructure:"format" yaml:"format"`
	} `mapstructure:"log" yaml:"log"`

	Database struct {
		Path          string `mapstructure:"path" yaml:"path"`
		BusyTimeoutMS int    `mapstructure:"busy_timeout_ms" yaml:"busy_timeout_ms"`
	} `mapstructure:"database" yaml:"database"`

	CSV struct {
		Delimiter string `mapstructure:"delimiter" yaml:"delimiter"`
	} `mapstructure:"csv" yaml:"csv"`

	Import struct {
		DateColumn        string `mapstructure:"date_column" yaml:"date_column"`
		DescriptionColumn string `mapstructure:"description_column" yaml:"description_column"`
		AmountColumn      string `mapstructure:"amount_column" yaml:"amount_column"`
		SourceAccount     string `mapstructure:"source_account" yaml:"source_account"`
		Strict            bool   `mapstructure:"strict" yaml:"strict"`
	} `mapstructure:"import" yaml:"import"`

	Rules struct {
		DryRunLimit int `mapstructure:"dry_run_limit" yaml:"dry_run_limit"`
		BatchSize   int `mapstructure:"batch_size" yaml:"batch_size"`
	} `mapstructure:"rules" yaml:"rules"`

	Posting struct {
		Limit int `mapstructure:"limit" yaml:"limit"`
	} `mapstructure:"posting" yaml:"posting"`

	Closures struct {
		Enforce bool `mapstructure:"enforce" yaml:"enforce"`
	} `mapstructure:"closures" yaml:"closures"`
}

// InitializeConfig loads configuration from defaults, an optional config file
// and LEDGER_* environment variables, in increasing order of precedence. When
// configFile is empty the standard locations are searched.
func InitializeConfig(configFile string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("$HOME/.finledger")
		v.AddConfigPath(".finledger")
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			if configFile != "" {
				return nil, fmt.Errorf("failed to read config file %s: %w", configFile, err)
			}
			fmt.Printf("Warning: error reading config file %s: %v\n", v.ConfigFileUsed(), err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	v.SetDefault("database.path", "finledger.db")
	v.SetDefault("database.busy_timeout_ms", 5000)

	v.SetDefault("csv.delimiter", ",")

	v.SetDefault("import.date_column", "date")
	v.SetDefault("import.description_column", "description")
	v.SetDefault("import.amount_column", "amount")
	v.SetDefault("import.source_account", "Checking")
	v.SetDefault("import.strict", false)

	v.SetDefault("rules.dry_run_limit", 1000)
	v.SetDefault("rules.batch_size", 1000)

	v.SetDefault("posting.limit", 10000)

	v.SetDefault("closures.enforce", true)
}

func validateConfig(config *Config) error {
	if _, err := logrus.ParseLevel(config.Log.Level); err != nil {
		return fmt.Errorf("invalid log level: %s", config.Log.Level)
	}

	if config.Log.Format != "text" && config.Log.Format != "json" {
		return fmt.Errorf("invalid log format: %s (must be 'text' or 'json')", config.Log.Format)
	}

	if strings.TrimSpace(config.Database.Path) == "" {
		return fmt.Errorf("database.path must not be empty")
	}

	if config.Database.BusyTimeoutMS < 0 {
		return fmt.Errorf("database.busy_timeout_ms must not be negative, got: %d", config.Database.BusyTimeoutMS)
	}

	if len([]rune(config.CSV.Delimiter)) != 1 {
		return fmt.Errorf("CSV delimiter must be a single character, got: %s", config.CSV.Delimiter)
	}

	if config.Rules.DryRunLimit < 1 {
		return fmt.Errorf("rules.dry_run_limit must be positive, got: %d", config.Rules.DryRunLimit)
	}

	if config.Rules.BatchSize < 1 {
		return fmt.Errorf("rules.batch_size must be positive, got: %d", config.Rules.BatchSize)
	}

	if config.Posting.Limit < 1 {
		return fmt.Errorf("posting.limit must be positive, got: %d", config.Posting.Limit)
	}

	return nil
}

// Delimiter returns the configured CSV delimiter as a rune.
func (c *Config) Delimiter() rune {
	for _, r := range c.CSV.Delimiter {
		return r
	}
	return ','
}

// NewLogger builds the application logger from the log section.
func (c *Config) NewLogger() logging.Logger {
	return logging.NewLogrusAdapter(c.Log.Level, c.Log.Format)
}
