// Copyright AGNTCY Contributors (https://github.com/agntcy)
// SPDX-License-Identifier: Apache-2.0

package client

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	v1 "github.com/sphereio/customer-import/api/v1"
)

// customerGroupPageSize is the number of groups requested per page.
const customerGroupPageSize = 500

// ProcessCustomerGroups pages through every customer group and hands each
// page to handler. Iteration stops at the first handler error.
func (c *Client) ProcessCustomerGroups(ctx context.Context, handler func(page []v1.CustomerGroup) error) error {
	if handler == nil {
		return errors.New("page handler is nil")
	}

	offset := 0

	for {
		var page v1.PagedQueryResponse[v1.CustomerGroup]

		err := c.do(ctx, request{
			method: http.MethodGet,
			path:   "/customer-groups",
			query: map[string]string{
				"limit":     strconv.Itoa(customerGroupPageSize),
				"offset":    strconv.Itoa(offset),
				"sort":      "id asc",
				"withTotal": "false",
			},
			result: &page,
		})
		if err != nil {
			return fmt.Errorf("failed to fetch customer groups at offset %d: %w", offset, err)
		}

		if len(page.Results) > 0 {
			if err := handler(page.Results); err != nil {
				return err
			}
		}

		// If we got fewer results than requested, we've reached the end
		if len(page.Results) < customerGroupPageSize {
			return nil
		}

		offset += len(page.Results)
	}
}

// CreateCustomerGroup creates a customer group.
func (c *Client) CreateCustomerGroup(ctx context.Context, draft v1.CustomerGroupDraft) (*v1.CustomerGroup, error) {
	if draft.GroupName == "" {
		return nil, errors.New("customer group name is required")
	}

	var group v1.CustomerGroup

	err := c.do(ctx, request{
		method: http.MethodPost,
		path:   "/customer-groups",
		body:   draft,
		result: &group,
	})
	if err != nil {
		return nil, err
	}

	return &group, nil
}
