// Copyright AGNTCY Contributors (https://github.com/agntcy)
// SPDX-License-Identifier: Apache-2.0

package client

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
)

const (
	DefaultEnvPrefix = "CUSTOMER_IMPORT_CLIENT"

	DefaultAPIURL         = "https://api.sphere.io"
	DefaultAuthURL        = "https://auth.sphere.io"
	DefaultTimeout        = 30 * time.Second
	DefaultMaxConcurrency = 20
	DefaultRateBurst      = 1
)

var DefaultConfig = Config{
	APIURL:         DefaultAPIURL,
	AuthURL:        DefaultAuthURL,
	Timeout:        DefaultTimeout,
	MaxConcurrency: DefaultMaxConcurrency,
	RateBurst:      DefaultRateBurst,
}

type Config struct {
	APIURL       string   `json:"api_url,omitempty"       mapstructure:"api_url"`
	AuthURL      string   `json:"auth_url,omitempty"      mapstructure:"auth_url"`
	ProjectKey   string   `json:"project_key,omitempty"   mapstructure:"project_key"`
	ClientID     string   `json:"client_id,omitempty"     mapstructure:"client_id"`
	ClientSecret string   `json:"client_secret,omitempty" mapstructure:"client_secret"`
	Scopes       []string `json:"scopes,omitempty"        mapstructure:"scopes"`

	Timeout time.Duration `json:"timeout,omitempty" mapstructure:"timeout"`

	// MaxConcurrency bounds the number of requests in flight at once.
	MaxConcurrency int `json:"max_concurrency,omitempty" mapstructure:"max_concurrency"`

	// RateLimit is the sustained requests per second; zero disables limiting.
	RateLimit float64 `json:"rate_limit,omitempty" mapstructure:"rate_limit"`
	RateBurst int     `json:"rate_burst,omitempty" mapstructure:"rate_burst"`
}

// HasCredentials reports whether OAuth2 client credentials are configured.
func (c *Config) HasCredentials() bool {
	return c.AuthURL != "" && c.ClientID != "" && c.ClientSecret != ""
}

// Validate checks required fields and fills in defaults.
func (c *Config) Validate() error {
	if c.APIURL == "" {
		return errors.New("api url is required")
	}

	if c.ProjectKey == "" {
		return errors.New("project key is required")
	}

	if c.Timeout <= 0 {
		c.Timeout = DefaultTimeout
	}

	if c.MaxConcurrency <= 0 {
		c.MaxConcurrency = DefaultMaxConcurrency
	}

	if c.RateLimit < 0 {
		return fmt.Errorf("rate limit must not be negative: %v", c.RateLimit)
	}

	if c.RateBurst <= 0 {
		c.RateBurst = DefaultRateBurst
	}

	return nil
}

func LoadConfig() (*Config, error) {
	v := viper.NewWithOptions(
		viper.KeyDelimiter("."),
		viper.EnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_")),
	)

	v.SetEnvPrefix(DefaultEnvPrefix)
	v.AllowEmptyEnv(true)
	v.AutomaticEnv()

	_ = v.BindEnv("api_url")
	v.SetDefault("api_url", DefaultAPIURL)

	_ = v.BindEnv("auth_url")
	v.SetDefault("auth_url", DefaultAuthURL)

	_ = v.BindEnv("project_key")
	v.SetDefault("project_key", "")

	_ = v.BindEnv("client_id")
	v.SetDefault("client_id", "")

	_ = v.BindEnv("client_secret")
	v.SetDefault("client_secret", "")

	_ = v.BindEnv("scopes")
	v.SetDefault("scopes", []string{})

	_ = v.BindEnv("timeout")
	v.SetDefault("timeout", DefaultTimeout)

	_ = v.BindEnv("max_concurrency")
	v.SetDefault("max_concurrency", DefaultMaxConcurrency)

	_ = v.BindEnv("rate_limit")
	v.SetDefault("rate_limit", 0)

	_ = v.BindEnv("rate_burst")
	v.SetDefault("rate_burst", DefaultRateBurst)

	decodeHooks := mapstructure.ComposeDecodeHookFunc(
		mapstructure.TextUnmarshallerHookFunc(),
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
	)

	config := &Config{}
	if err := v.Unmarshal(config, viper.DecodeHook(decodeHooks)); err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	return config, nil
}
