// Copyright AGNTCY Contributors (https://github.com/agntcy)
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
	v1 "github.com/sphereio/customer-import/api/v1"
)

const (
	DefaultEnvPrefix = "CUSTOMER_IMPORT"

	// DefaultBatchSize is the number of records handed to one batch.
	DefaultBatchSize = 100
)

// FeedFormat represents the encoding of the customer feed.
type FeedFormat string

const (
	// FeedFormatJSON is a JSON array of customer objects, or a stream of objects.
	FeedFormatJSON FeedFormat = "json"

	// FeedFormatNDJSON is one customer object per line.
	FeedFormatNDJSON FeedFormat = "ndjson"

	// FeedFormatCSV is a header row followed by one customer per row.
	FeedFormatCSV FeedFormat = "csv"
)

// ClientInterface defines the remote API operations used by importers.
// This allows for easier testing and mocking.
type ClientInterface interface {
	SaveCustomer(ctx context.Context, draft *v1.CustomerDraft) (*v1.Customer, error)
	ProcessCustomerGroups(ctx context.Context, handler func([]v1.CustomerGroup) error) error
	CreateCustomerGroup(ctx context.Context, draft v1.CustomerGroupDraft) (*v1.CustomerGroup, error)
}

// ImporterConfig holds the defaults applied to every imported customer.
type ImporterConfig struct {
	// DefaultShippingAddress is the address index used when a record has none.
	DefaultShippingAddress *int `json:"default_shipping_address,omitempty" mapstructure:"default_shipping_address"`

	// DefaultBillingAddress is the address index used when a record has none.
	DefaultBillingAddress *int `json:"default_billing_address,omitempty" mapstructure:"default_billing_address"`
}

// Config contains configuration for an import operation.
type Config struct {
	FeedFormat FeedFormat `json:"feed_format,omitempty" mapstructure:"feed_format"` // Feed encoding
	FeedPath   string     `json:"feed_path,omitempty"   mapstructure:"feed_path"`   // Path of the feed file, "-" for stdin
	BatchSize  int        `json:"batch_size,omitempty"  mapstructure:"batch_size"`  // Records per batch (default: 100)
	Limit      int        `json:"limit,omitempty"       mapstructure:"limit"`       // Number of records to import (default: 0 for all)
	DryRun     bool       `json:"dry_run,omitempty"     mapstructure:"dry_run"`     // If true, validate without importing

	Importer ImporterConfig `json:"importer" mapstructure:"importer"`

	// Stdin is read when FeedPath is "-"; nil means os.Stdin.
	Stdin io.Reader `json:"-" mapstructure:"-"`
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.FeedFormat == "" {
		return errors.New("feed format is required")
	}

	if c.FeedPath == "" {
		return errors.New("feed path is required")
	}

	if c.BatchSize <= 0 {
		c.BatchSize = DefaultBatchSize // Set default batch size
	}

	if c.Limit < 0 {
		return fmt.Errorf("limit must not be negative: %d", c.Limit)
	}

	if idx := c.Importer.DefaultShippingAddress; idx != nil && *idx < 0 {
		return fmt.Errorf("default shipping address index must not be negative: %d", *idx)
	}

	if idx := c.Importer.DefaultBillingAddress; idx != nil && *idx < 0 {
		return fmt.Errorf("default billing address index must not be negative: %d", *idx)
	}

	return nil
}

// LoadConfig reads the import configuration from CUSTOMER_IMPORT_* environment
// variables. An unset feed format stays empty so callers can infer it.
func LoadConfig() (*Config, error) {
	v := viper.NewWithOptions(
		viper.KeyDelimiter("."),
		viper.EnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_")),
	)

	v.SetEnvPrefix(DefaultEnvPrefix)
	v.AllowEmptyEnv(false)
	v.AutomaticEnv()

	_ = v.BindEnv("feed_format")

	_ = v.BindEnv("feed_path")
	v.SetDefault("feed_path", "")

	_ = v.BindEnv("batch_size")
	v.SetDefault("batch_size", DefaultBatchSize)

	_ = v.BindEnv("limit")
	v.SetDefault("limit", 0)

	_ = v.BindEnv("dry_run")
	v.SetDefault("dry_run", false)

	// No defaults: unset indices must stay nil.
	_ = v.BindEnv("importer.default_shipping_address")
	_ = v.BindEnv("importer.default_billing_address")

	decodeHooks := mapstructure.ComposeDecodeHookFunc(
		mapstructure.TextUnmarshallerHookFunc(),
		mapstructure.StringToTimeDurationHookFunc(),
	)

	config := &Config{}
	if err := v.Unmarshal(config, viper.DecodeHook(decodeHooks)); err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	return config, nil
}
