// Copyright AGNTCY Contributors (https://github.com/agntcy)
// SPDX-License-Identifier: Apache-2.0

package customer

import "errors"

var (
	// ErrUpdateNotSupported is recorded for customers that already exist remotely.
	ErrUpdateNotSupported = errors.New("updating customers is not implement yet")

	// ErrCustomerGroup wraps failures to resolve a record's customer group.
	ErrCustomerGroup = errors.New("customer group could not be resolved")
)
