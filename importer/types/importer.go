// Copyright AGNTCY Contributors (https://github.com/agntcy)
// SPDX-License-Identifier: Apache-2.0

package types

import (
	"context"

	"github.com/sphereio/customer-import/importer/config"
	"github.com/sphereio/customer-import/importer/customer"
)

// Importer defines the interface for importing customers from a feed.
type Importer interface {
	// Run executes the import operation for the given configuration
	Run(ctx context.Context, cfg config.Config) (*ImportResult, error)
}

// ImportResult summarizes the outcome of an import operation.
type ImportResult struct {
	TotalRecords  int
	Batches       int
	ImportedCount int
	ValidCount    int // dry-run only
	FailedCount   int
	Errors        []error

	// Summary is the per record report of the run; nil in dry-run mode.
	Summary *customer.Report
}
