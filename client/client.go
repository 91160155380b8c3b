// Copyright AGNTCY Contributors (https://github.com/agntcy)
// SPDX-License-Identifier: Apache-2.0

package client

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-resty/resty/v2"
	jsoniter "github.com/json-iterator/go"
	"github.com/sphereio/customer-import/utils/logging"
	"golang.org/x/sync/semaphore"
	"golang.org/x/time/rate"
)

var logger = logging.Logger("client")

var jsonCodec = jsoniter.ConfigCompatibleWithStandardLibrary

// Client talks to the project scoped endpoints of the remote commerce API.
//
// Client is safe for concurrent use. The number of requests in flight is
// bounded by Config.MaxConcurrency and, when configured, paced by
// Config.RateLimit.
type Client struct {
	config  *Config
	http    *resty.Client
	sem     *semaphore.Weighted
	limiter *rate.Limiter
}

func New(ctx context.Context, opts ...Option) (*Client, error) {
	// Load options
	options := &options{}
	for _, opt := range opts {
		if err := opt(options); err != nil {
			return nil, fmt.Errorf("failed to load options: %w", err)
		}
	}

	if options.config == nil {
		return nil, errors.New("config is required: use WithConfig() or WithEnvConfig()")
	}

	if err := options.config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid client configuration: %w", err)
	}

	if err := withAuth(ctx)(options); err != nil {
		return nil, fmt.Errorf("failed to setup authentication: %w", err)
	}

	baseURL := strings.TrimRight(options.config.APIURL, "/") + "/" + options.config.ProjectKey

	httpClient := resty.NewWithClient(options.httpClient).
		SetBaseURL(baseURL).
		SetTimeout(options.config.Timeout).
		SetHeader("Accept", "application/json").
		SetJSONMarshaler(jsonCodec.Marshal).
		SetJSONUnmarshaler(jsonCodec.Unmarshal)

	var limiter *rate.Limiter
	if options.config.RateLimit > 0 {
		limiter = rate.NewLimiter(rate.Limit(options.config.RateLimit), options.config.RateBurst)
	}

	logger.Debug("Created API client",
		"base_url", baseURL,
		"max_concurrency", options.config.MaxConcurrency,
		"rate_limit", options.config.RateLimit,
		"authenticated", options.config.HasCredentials())

	return &Client{
		config:  options.config,
		http:    httpClient,
		sem:     semaphore.NewWeighted(int64(options.config.MaxConcurrency)),
		limiter: limiter,
	}, nil
}

// Close releases idle connections held by the underlying transport.
func (c *Client) Close() error {
	if c.http != nil {
		c.http.GetClient().CloseIdleConnections()
	}

	return nil
}

// request describes a single API call.
type request struct {
	method string
	path   string
	query  map[string]string
	body   any
	result any
}

// do executes req once the concurrency and rate limits admit it.
// Non-2xx responses are returned as *RemoteError.
func (c *Client) do(ctx context.Context, req request) error {
	if err := c.sem.Acquire(ctx, 1); err != nil {
		return fmt.Errorf("failed to acquire request slot: %w", err)
	}
	defer c.sem.Release(1)

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return fmt.Errorf("rate limiter: %w", err)
		}
	}

	r := c.http.R().SetContext(ctx)

	if len(req.query) > 0 {
		r.SetQueryParams(req.query)
	}

	if req.body != nil {
		r.SetHeader("Content-Type", "application/json").SetBody(req.body)
	}

	if req.result != nil {
		r.SetResult(req.result)
	}

	resp, err := r.Execute(req.method, req.path)
	if err != nil {
		return fmt.Errorf("%s %s failed: %w", req.method, req.path, err)
	}

	if resp.IsError() {
		remoteErr := newRemoteError(resp.StatusCode(), resp.Body())

		logger.Debug("API call failed",
			"method", req.method,
			"path", req.path,
			"status", resp.StatusCode(),
			"kind", remoteErr.Kind.String())

		return remoteErr
	}

	return nil
}
