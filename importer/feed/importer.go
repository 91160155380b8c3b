// Copyright AGNTCY Contributors (https://github.com/agntcy)
// SPDX-License-Identifier: Apache-2.0

package feed

import (
	"context"
	"errors"
	"fmt"

	"github.com/sphereio/customer-import/importer/config"
	"github.com/sphereio/customer-import/importer/customer"
	"github.com/sphereio/customer-import/importer/pipeline"
	"github.com/sphereio/customer-import/importer/types"
)

// Importer implements the types.Importer interface for a customer feed using
// a pipeline architecture.
type Importer struct {
	client     config.ClientInterface
	newFetcher func(path string) *Fetcher
}

func newImporterFunc(newFetcher func(path string) *Fetcher) func(config.ClientInterface, config.Config) (types.Importer, error) {
	return func(client config.ClientInterface, cfg config.Config) (types.Importer, error) {
		if client == nil && !cfg.DryRun {
			return nil, errors.New("client is required unless running in dry-run mode")
		}

		return &Importer{
			client:     client,
			newFetcher: newFetcher,
		}, nil
	}
}

// Run executes the import operation for the feed using a pipeline:
// - Normal mode: Three-stage pipeline (Fetcher -> Batcher -> Pusher)
// - Dry-run mode: Two-stage pipeline (Fetcher -> Validator).
func (i *Importer) Run(ctx context.Context, cfg config.Config) (*types.ImportResult, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid import configuration: %w", err)
	}

	fetcher := i.newFetcher(cfg.FeedPath)
	if cfg.Stdin != nil {
		fetcher.stdin = cfg.Stdin
	}

	pipelineConfig := pipeline.Config{
		BatchSize: cfg.BatchSize,
		Limit:     cfg.Limit,
	}

	// Create and run the appropriate pipeline based on dry-run mode
	if cfg.DryRun {
		pipelineResult, err := pipeline.NewDryRun(fetcher, pipelineConfig).Run(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to run pipeline: %w", err)
		}

		return newImportResult(pipelineResult, nil), nil
	}

	customers := customer.New(i.client, cfg.Importer)

	pipelineResult, err := pipeline.New(fetcher, pipeline.NewBatchPusher(customers), pipelineConfig).Run(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to run pipeline: %w", err)
	}

	report := customers.SummaryReport()

	return newImportResult(pipelineResult, &report), nil
}

// newImportResult converts a pipeline result to an import result.
func newImportResult(result *pipeline.Result, summary *customer.Report) *types.ImportResult {
	return &types.ImportResult{
		TotalRecords:  result.TotalRecords,
		Batches:       result.Batches,
		ImportedCount: result.ImportedCount,
		ValidCount:    result.ValidCount,
		FailedCount:   result.FailedCount,
		Errors:        result.Errors,
		Summary:       summary,
	}
}
