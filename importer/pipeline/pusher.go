// Copyright AGNTCY Contributors (https://github.com/agntcy)
// SPDX-License-Identifier: Apache-2.0

package pipeline

import (
	"context"
	"fmt"

	"github.com/sphereio/customer-import/importer/customer"
	"github.com/sphereio/customer-import/importer/validator"
	"github.com/sphereio/customer-import/utils/logging"
)

var logger = logging.Logger("importer/pipeline")

// BatchProcessor imports one batch of records and keeps a running summary.
type BatchProcessor interface {
	ProcessBatch(ctx context.Context, records []validator.Raw, onComplete func()) error
	SummaryReport() customer.Report
}

// BatchOutcome describes what happened to one batch.
type BatchOutcome struct {
	// Records is the number of records in the batch.
	Records int

	// Imported is the number of records saved.
	Imported int

	// Rejected is the number of records not attempted because the batch failed.
	Rejected int

	// Failures lists the records of the batch that failed individually.
	Failures []customer.Failure
}

// BatchPusher is a Pusher that hands batches to a BatchProcessor strictly one
// after another: a batch is only submitted once the previous one completed.
type BatchPusher struct {
	processor BatchProcessor
}

// NewBatchPusher creates a new BatchPusher.
func NewBatchPusher(processor BatchProcessor) *BatchPusher {
	return &BatchPusher{processor: processor}
}

// Push imports batches from inputCh in order.
func (p *BatchPusher) Push(ctx context.Context, inputCh <-chan []validator.Raw) (<-chan BatchOutcome, <-chan error) {
	outcomeCh := make(chan BatchOutcome)
	errCh := make(chan error)

	go func() {
		defer close(outcomeCh)
		defer close(errCh)

		number := 0

		for batch := range inputCh {
			number++

			outcome, err := p.pushBatch(ctx, batch)
			if err != nil {
				logger.Warn("Failed to process batch", "batch", number, "records", len(batch), "error", err)

				select {
				case errCh <- fmt.Errorf("batch %d: %w", number, err):
				case <-ctx.Done():
					return
				}
			}

			select {
			case outcomeCh <- outcome:
			case <-ctx.Done():
				return
			}
		}
	}()

	return outcomeCh, errCh
}

// pushBatch processes one batch and waits for its completion callback.
func (p *BatchPusher) pushBatch(ctx context.Context, batch []validator.Raw) (BatchOutcome, error) {
	before := p.processor.SummaryReport()

	done := make(chan struct{})

	err := p.processor.ProcessBatch(ctx, batch, func() { close(done) })

	<-done

	after := p.processor.SummaryReport()

	outcome := BatchOutcome{
		Records:  len(batch),
		Imported: after.SuccessfulImports - before.SuccessfulImports,
		Failures: after.Errors[len(before.Errors):],
	}

	if err != nil {
		outcome.Rejected = len(batch) - outcome.Imported - len(outcome.Failures)
	}

	logger.Debug("Pushed batch",
		"records", outcome.Records,
		"imported", outcome.Imported,
		"failed", len(outcome.Failures)+outcome.Rejected)

	return outcome, err
}
