// Copyright AGNTCY Contributors (https://github.com/agntcy)
// SPDX-License-Identifier: Apache-2.0

// Package testdata holds the customer feeds used by the end-to-end suites.
package testdata

import (
	_ "embed"
)

// CustomersJSON has six customers: four valid ones across two customer
// groups, one without email, and one with an invalid country code.
//
//go:embed customers.json
var CustomersJSON []byte

// CustomersCSV has the customers of CustomersJSON that are valid, encoded
// with dotted columns.
//
//go:embed customers.csv
var CustomersCSV []byte

// CustomersNDJSON has three customers of which the second line is malformed.
//
//go:embed customers.ndjson
var CustomersNDJSON []byte
