// Copyright AGNTCY Contributors (https://github.com/agntcy)
// SPDX-License-Identifier: Apache-2.0

package client

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
)

type Option func(*options) error

type options struct {
	config     *Config
	httpClient *http.Client
}

func WithEnvConfig() Option {
	return func(opts *options) error {
		var err error

		opts.config, err = LoadConfig()

		return err
	}
}

func WithConfig(config *Config) Option {
	return func(opts *options) error {
		opts.config = config

		return nil
	}
}

// WithHTTPClient overrides the transport used for API calls. Authentication is
// not applied on top of a caller supplied client.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(opts *options) error {
		opts.httpClient = httpClient

		return nil
	}
}

func withAuth(ctx context.Context) Option {
	return func(o *options) error {
		if o.config == nil {
			return errors.New("config is required: use WithConfig() or WithEnvConfig()")
		}

		if o.httpClient != nil {
			return nil
		}

		if !o.config.HasCredentials() {
			// No credentials - plain client (for development/testing only)
			o.httpClient = &http.Client{}

			return nil
		}

		scopes := o.config.Scopes
		if len(scopes) == 0 {
			scopes = []string{"manage_project:" + o.config.ProjectKey}
		}

		cc := clientcredentials.Config{
			ClientID:     o.config.ClientID,
			ClientSecret: o.config.ClientSecret,
			TokenURL:     strings.TrimRight(o.config.AuthURL, "/") + "/oauth/token",
			Scopes:       scopes,
			AuthStyle:    oauth2.AuthStyleInHeader,
		}

		// NOTE: token source must live for the entire client lifetime, not just the initialization phase
		o.httpClient = cc.Client(ctx) //nolint:contextcheck

		return nil
	}
}
