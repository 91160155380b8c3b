// Copyright AGNTCY Contributors (https://github.com/agntcy)
// SPDX-License-Identifier: Apache-2.0

package logging

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
)

const (
	DefaultEnvPrefix = "CUSTOMER_IMPORT_LOGGER"
	DefaultLogLevel  = "INFO"
	DefaultLogFormat = formatText
)

// Config controls where and how the importer writes its logs.
type Config struct {
	// LogFile receives the logs instead of stderr when set.
	LogFile string `json:"log_file,omitempty" mapstructure:"log_file"`

	// LogLevel accepts slog level names with optional offsets, e.g. "warn" or "info+2".
	LogLevel slog.Level `json:"log_level" mapstructure:"log_level"`

	// LogFormat is "text" or "json".
	LogFormat string `json:"log_format,omitempty" mapstructure:"log_format"`
}

// Validate rejects log formats the handler does not support.
func (c *Config) Validate() error {
	switch strings.ToLower(c.LogFormat) {
	case formatText, formatJSON:
		return nil
	default:
		return fmt.Errorf("unsupported log format %q, supported: %s, %s", c.LogFormat, formatText, formatJSON)
	}
}

// LoadConfig reads the logger configuration from CUSTOMER_IMPORT_LOGGER_* variables.
// Empty variables count as unset.
func LoadConfig() (*Config, error) {
	v := viper.NewWithOptions(
		viper.KeyDelimiter("."),
		viper.EnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_")),
	)

	v.SetEnvPrefix(DefaultEnvPrefix)
	v.AllowEmptyEnv(false)
	v.AutomaticEnv()

	_ = v.BindEnv("log_file")

	_ = v.BindEnv("log_level")
	v.SetDefault("log_level", DefaultLogLevel)

	_ = v.BindEnv("log_format")
	v.SetDefault("log_format", DefaultLogFormat)

	config := &Config{}

	// slog.Level decodes itself from its name.
	if err := v.Unmarshal(config, viper.DecodeHook(mapstructure.TextUnmarshallerHookFunc())); err != nil {
		return nil, fmt.Errorf("failed to load logger configuration: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid logger configuration: %w", err)
	}

	return config, nil
}
