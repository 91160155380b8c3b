// Copyright AGNTCY Contributors (https://github.com/agntcy)
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"slices"

	"github.com/sphereio/customer-import/client"
)

var (
	clientConfig = loadClientConfig(client.LoadConfig)
	logLevel     string
)

// loadClientConfig returns the loaded client configuration, or a copy of the
// defaults when loading fails.
func loadClientConfig(load func() (*client.Config, error)) *client.Config {
	if cfg, err := load(); err == nil {
		return cfg
	}

	cfg := client.DefaultConfig
	cfg.Scopes = slices.Clone(cfg.Scopes)

	return &cfg
}

func init() {

	// set flags
	flags := RootCmd.PersistentFlags()
	flags.StringVar(&clientConfig.APIURL, "api-url", clientConfig.APIURL, "commercetools API URL")
	flags.StringVar(&clientConfig.AuthURL, "auth-url", clientConfig.AuthURL, "commercetools auth URL (for client credentials authentication)")
	flags.StringVar(&clientConfig.ProjectKey, "project-key", clientConfig.ProjectKey, "Project key")
	flags.StringVar(&clientConfig.ClientID, "client-id", clientConfig.ClientID, "API client ID")
	flags.StringVar(&clientConfig.ClientSecret, "client-secret", clientConfig.ClientSecret, "API client secret")
	flags.StringSliceVar(&clientConfig.Scopes, "scopes", clientConfig.Scopes, "OAuth2 scopes (default: manage_project:<project-key>)")
	flags.DurationVar(&clientConfig.Timeout, "timeout", clientConfig.Timeout, "Timeout of a single API request")
	flags.IntVar(&clientConfig.MaxConcurrency, "max-concurrency", clientConfig.MaxConcurrency, "Maximum number of API requests in flight")
	flags.Float64Var(&clientConfig.RateLimit, "rate-limit", clientConfig.RateLimit, "Maximum API requests per second (0 = unlimited)")
	flags.IntVar(&clientConfig.RateBurst, "rate-burst", clientConfig.RateBurst, "Burst size of the API rate limit")
	flags.StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn, error (overrides CUSTOMER_IMPORT_LOGGER_LOG_LEVEL)")
}
