// Copyright AGNTCY Contributors (https://github.com/agntcy)
// SPDX-License-Identifier: Apache-2.0

package client

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	v1 "github.com/sphereio/customer-import/api/v1"
)

// SaveCustomer creates a new customer from draft. A draft whose email is
// already registered fails with a conflict, see IsConflict.
func (c *Client) SaveCustomer(ctx context.Context, draft *v1.CustomerDraft) (*v1.Customer, error) {
	if draft == nil {
		return nil, errors.New("customer draft is nil")
	}

	var result v1.CustomerSignInResult

	err := c.do(ctx, request{
		method: http.MethodPost,
		path:   "/customers",
		body:   draft,
		result: &result,
	})
	if err != nil {
		return nil, err
	}

	return &result.Customer, nil
}

// FetchCustomerByEmail returns all customers registered with email.
func (c *Client) FetchCustomerByEmail(ctx context.Context, email string) ([]v1.Customer, error) {
	var page v1.PagedQueryResponse[v1.Customer]

	err := c.do(ctx, request{
		method: http.MethodGet,
		path:   "/customers",
		query: map[string]string{
			"where": "email=" + strconv.Quote(email),
		},
		result: &page,
	})
	if err != nil {
		return nil, err
	}

	return page.Results, nil
}
