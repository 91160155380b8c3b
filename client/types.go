// Copyright AGNTCY Contributors (https://github.com/agntcy)
// SPDX-License-Identifier: Apache-2.0

package client

import (
	"context"
	"net/http"

	v1 "github.com/sphereio/customer-import/api/v1"
)

// CreateType creates a custom type. The importer passes custom field values
// through unchanged; this call exists to set such types up.
func (c *Client) CreateType(ctx context.Context, draft v1.TypeDraft) (*v1.Type, error) {
	var created v1.Type

	err := c.do(ctx, request{
		method: http.MethodPost,
		path:   "/types",
		body:   draft,
		result: &created,
	})
	if err != nil {
		return nil, err
	}

	return &created, nil
}
