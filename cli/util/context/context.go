// Copyright AGNTCY Contributors (https://github.com/agntcy)
// SPDX-License-Identifier: Apache-2.0

package context

import (
	"context"

	"github.com/sphereio/customer-import/client"
)

type clientContextKeyType string

const clientContextKey clientContextKeyType = "CustomerImportClient"

// SetClientForContext stores the remote API client in ctx.
func SetClientForContext(ctx context.Context, c *client.Client) context.Context {
	return context.WithValue(ctx, clientContextKey, c)
}

// GetClientFromContext returns the client stored by SetClientForContext.
func GetClientFromContext(ctx context.Context) (*client.Client, bool) {
	cli, ok := ctx.Value(clientContextKey).(*client.Client)

	return cli, ok
}
