// Package config provides Viper-based hierarchical configuration management.
package config

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// Config represents the complete application configuration.
type Config struct {
	Log struct {
		Level  string `mapstructure:"level" yaml:"level"`
		Format string `mapstructure:"format" yaml:"format"`
	} `mapstructure:"log" yaml:"log"`

	Tax struct {
		Year int `mapstructure:"year" yaml:"year"`
	} `mapstructure:"tax" yaml:"tax"`

	TXF struct {
		AppName          string `mapstructure:"app_name" yaml:"app_name"`
		ReceiptThreshold string `mapstructure:"receipt_threshold" yaml:"receipt_threshold"`
		OrgNameLimit     int    `mapstructure:"org_name_limit" yaml:"org_name_limit"`
	} `mapstructure:"txf" yaml:"txf"`

	Mappings struct {
		File string `mapstructure:"file" yaml:"file"`
	} `mapstructure:"mappings" yaml:"mappings"`
}

// ReceiptThreshold returns the receipt threshold as a decimal. Validation
// guarantees the configured string parses.
func (c *Config) ReceiptThreshold() decimal.Decimal {
	d, err := decimal.NewFromString(c.TXF.ReceiptThreshold)
	if err != nil {
		return decimal.NewFromInt(250)
	}
	return d
}

// InitializeConfig initializes Viper configuration with hierarchical loading:
// defaults, then an optional config file, then MONARCH_TXF_* environment
// variables.
func InitializeConfig() (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("$HOME/.monarch-txf")
	v.AddConfigPath(".monarch-txf")
	v.AddConfigPath(".")

	v.SetEnvPrefix("MONARCH_TXF")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			// Log the error but don't fail - continue with defaults and env vars
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

// setDefaults sets default configuration values.
func setDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	// A tax year of 0 disables the tax-year advisory.
	v.SetDefault("tax.year", 0)

	v.SetDefault("txf.app_name", "monarch-txf")
	v.SetDefault("txf.receipt_threshold", "250.00")
	v.SetDefault("txf.org_name_limit", 64)

	v.SetDefault("mappings.file", "")
}

// validateConfig validates the configuration values.
func validateConfig(config *Config) error {
	if _, err := logrus.ParseLevel(config.Log.Level); err != nil {
		return fmt.Errorf("invalid log level: %s", config.Log.Level)
	}

	if config.Log.Format != "text" && config.Log.Format != "json" {
		return fmt.Errorf("invalid log format: %s (must be 'text' or 'json')", config.Log.Format)
	}

	threshold, err := decimal.NewFromString(config.TXF.ReceiptThreshold)
	if err != nil {
		return fmt.Errorf("invalid receipt threshold: %s", config.TXF.ReceiptThreshold)
	}
	if threshold.IsNegative() {
		return fmt.Errorf("receipt threshold must not be negative: %s", config.TXF.ReceiptThreshold)
	}

	if config.TXF.OrgNameLimit < 1 {
		return fmt.Errorf("org name limit must be at least 1: %d", config.TXF.OrgNameLimit)
	}

	return nil
}
