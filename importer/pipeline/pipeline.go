// Copyright AGNTCY Contributors (https://github.com/agntcy)
// SPDX-License-Identifier: Apache-2.0

package pipeline

import (
	"context"
	"fmt"
	"sync"

	"github.com/sphereio/customer-import/importer/config"
	"github.com/sphereio/customer-import/importer/validator"
)

const defaultValidatorWorkers = 5

// Fetcher is an interface for fetching records from a customer feed.
// Each feed format implements this interface.
type Fetcher interface {
	// Fetch reads records from the feed and sends them to the output channel.
	// It should close both channels when done and stop when ctx is cancelled.
	Fetch(ctx context.Context) (<-chan validator.Raw, <-chan error)
}

// Pusher is an interface for importing batches of records into the remote API.
type Pusher interface {
	// Push imports every batch from inputCh, one batch at a time, and reports
	// one outcome per batch. Batch level failures are sent to the error channel.
	Push(ctx context.Context, inputCh <-chan []validator.Raw) (<-chan BatchOutcome, <-chan error)
}

// Config contains configuration for the pipeline.
type Config struct {
	// BatchSize is the number of records handed to the pusher at once.
	BatchSize int

	// Limit stops the pipeline after this many records (0 for all).
	Limit int

	// ValidatorWorkers is the number of concurrent workers for dry-run validation.
	ValidatorWorkers int
}

func (c *Config) setDefaults() {
	if c.BatchSize <= 0 {
		c.BatchSize = config.DefaultBatchSize
	}

	if c.ValidatorWorkers <= 0 {
		c.ValidatorWorkers = defaultValidatorWorkers
	}
}

// Result contains the results of the pipeline execution.
type Result struct {
	TotalRecords  int
	Batches       int
	ImportedCount int
	ValidCount    int
	FailedCount   int
	Errors        []error
	mu            sync.Mutex
}

func (r *Result) addError(err error) {
	r.mu.Lock()
	r.Errors = append(r.Errors, err)
	r.mu.Unlock()
}

// Pipeline reads a feed, splits it into batches and imports them in order.
type Pipeline struct {
	fetcher Fetcher
	pusher  Pusher
	config  Config
}

// New creates a new pipeline instance.
func New(fetcher Fetcher, pusher Pusher, config Config) *Pipeline {
	config.setDefaults()

	return &Pipeline{
		fetcher: fetcher,
		pusher:  pusher,
		config:  config,
	}
}

// Run executes the pipeline: fetch, batch, push.
func (p *Pipeline) Run(ctx context.Context) (*Result, error) {
	result := &Result{}

	// The fetcher is stopped on its own once the limit is reached; batches
	// already handed out still finish.
	fetchCtx, cancelFetch := context.WithCancel(ctx)
	defer cancelFetch()

	// Stage 1: Fetch records
	fetchedCh, fetchErrCh := p.fetcher.Fetch(fetchCtx)

	// Stage 2: Limit and batch records
	limitedCh := runLimitStage(ctx, cancelFetch, p.config.Limit, fetchedCh, result)
	batchCh := runBatchStage(ctx, p.config.BatchSize, limitedCh)

	// Stage 3: Push batches
	outcomeCh, pushErrCh := p.pusher.Push(ctx, batchCh)

	var wg sync.WaitGroup

	// Fetch errors, push errors, and outcome counting
	wg.Add(3) //nolint:mnd

	// Collect fetch errors
	go func() {
		defer wg.Done()

		for err := range fetchErrCh {
			if err != nil {
				result.addError(fmt.Errorf("fetch error: %w", err))
			}
		}
	}()

	// Collect batch errors
	go func() {
		defer wg.Done()

		for err := range pushErrCh {
			if err != nil {
				result.addError(err)
			}
		}
	}()

	// Track batch outcomes
	go func() {
		defer wg.Done()

		for outcome := range outcomeCh {
			result.mu.Lock()

			result.Batches++
			result.ImportedCount += outcome.Imported
			result.FailedCount += outcome.Rejected + len(outcome.Failures)

			for _, failure := range outcome.Failures {
				result.Errors = append(result.Errors, failureError(failure.Customer, failure.Err))
			}

			result.mu.Unlock()
		}
	}()

	wg.Wait()

	return result, nil
}

// DryRunPipeline represents a two-stage pipeline for dry-run mode (fetch and validate only).
type DryRunPipeline struct {
	fetcher Fetcher
	config  Config
}

// NewDryRun creates a new dry-run pipeline instance that only fetches and validates.
func NewDryRun(fetcher Fetcher, config Config) *DryRunPipeline {
	config.setDefaults()

	return &DryRunPipeline{
		fetcher: fetcher,
		config:  config,
	}
}

// Run executes the dry-run pipeline with only fetch and validate stages.
func (p *DryRunPipeline) Run(ctx context.Context) (*Result, error) {
	result := &Result{}

	fetchCtx, cancelFetch := context.WithCancel(ctx)
	defer cancelFetch()

	// Stage 1: Fetch records
	fetchedCh, fetchErrCh := p.fetcher.Fetch(fetchCtx)

	// Stage 2: Validate records
	limitedCh := runLimitStage(ctx, cancelFetch, p.config.Limit, fetchedCh, result)
	validateErrCh := runValidateStage(ctx, p.config.ValidatorWorkers, limitedCh, result)

	var wg sync.WaitGroup

	// Fetch errors and validation errors
	wg.Add(2) //nolint:mnd

	// Collect fetch errors
	go func() {
		defer wg.Done()

		for err := range fetchErrCh {
			if err != nil {
				result.addError(fmt.Errorf("fetch error: %w", err))
			}
		}
	}()

	// Collect validation errors
	go func() {
		defer wg.Done()

		for err := range validateErrCh {
			if err != nil {
				result.addError(err)
			}
		}
	}()

	wg.Wait()

	return result, nil
}

// runLimitStage counts records and stops the fetcher once limit records were
// passed on. A limit of zero passes everything.
func runLimitStage(ctx context.Context, stopFetch context.CancelFunc, limit int, inputCh <-chan validator.Raw, result *Result) <-chan validator.Raw {
	outputCh := make(chan validator.Raw)

	go func() {
		defer close(outputCh)

		count := 0

		for raw := range inputCh {
			result.mu.Lock()
			result.TotalRecords++
			result.mu.Unlock()

			select {
			case outputCh <- raw:
			case <-ctx.Done():
				return
			}

			count++

			if limit > 0 && count >= limit {
				stopFetch()

				return
			}
		}
	}()

	return outputCh
}

// runBatchStage groups records into batches of size. The last batch may be smaller.
func runBatchStage(ctx context.Context, size int, inputCh <-chan validator.Raw) <-chan []validator.Raw {
	outputCh := make(chan []validator.Raw)

	go func() {
		defer close(outputCh)

		batch := make([]validator.Raw, 0, size)

		for raw := range inputCh {
			batch = append(batch, raw)

			if len(batch) < size {
				continue
			}

			select {
			case outputCh <- batch:
			case <-ctx.Done():
				return
			}

			batch = make([]validator.Raw, 0, size)
		}

		if len(batch) > 0 {
			select {
			case outputCh <- batch:
			case <-ctx.Done():
			}
		}
	}()

	return outputCh
}

// runValidateStage validates records with concurrent workers.
func runValidateStage(ctx context.Context, numWorkers int, inputCh <-chan validator.Raw, result *Result) <-chan error {
	errCh := make(chan error)

	var wg sync.WaitGroup

	// Start validator workers
	for range numWorkers {
		wg.Add(1)

		go func() {
			defer wg.Done()

			for {
				select {
				case <-ctx.Done():
					return
				case raw, ok := <-inputCh:
					if !ok {
						return
					}

					if _, err := validator.Validate(raw); err != nil {
						result.mu.Lock()
						result.FailedCount++
						result.mu.Unlock()

						select {
						case errCh <- failureError(raw, err):
						case <-ctx.Done():
							return
						}

						continue
					}

					result.mu.Lock()
					result.ValidCount++
					result.mu.Unlock()
				}
			}
		}()
	}

	// Close error channel when all workers are done
	go func() {
		wg.Wait()
		close(errCh)
	}()

	return errCh
}

// failureError names the customer a record level error belongs to.
func failureError(raw validator.Raw, err error) error {
	if email, ok := raw["email"].(string); ok && email != "" {
		return fmt.Errorf("customer %s: %w", email, err)
	}

	return fmt.Errorf("customer without email: %w", err)
}
