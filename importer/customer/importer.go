// Copyright AGNTCY Contributors (https://github.com/agntcy)
// SPDX-License-Identifier: Apache-2.0

// Package customer imports customer records into the remote API and keeps a
// summary of every record's outcome.
package customer

import (
	"context"
	"fmt"

	v1 "github.com/sphereio/customer-import/api/v1"
	"github.com/sphereio/customer-import/client"
	"github.com/sphereio/customer-import/importer/config"
	"github.com/sphereio/customer-import/importer/metrics"
	"github.com/sphereio/customer-import/importer/resolver"
	"github.com/sphereio/customer-import/importer/validator"
	"github.com/sphereio/customer-import/utils/logging"
)

var logger = logging.Logger("importer/customer")

// Importer validates, enriches and saves customers.
//
// One Importer serves one run. Records of a batch are imported concurrently,
// but batches must not be processed concurrently.
type Importer struct {
	client  config.ClientInterface
	config  config.ImporterConfig
	groups  *resolver.CustomerGroups
	summary summary
}

// New creates an importer saving customers through client.
func New(client config.ClientInterface, cfg config.ImporterConfig) *Importer {
	return &Importer{
		client: client,
		config: cfg,
		groups: resolver.NewCustomerGroups(client),
	}
}

// CustomerGroups returns the customer group cache used by the importer.
func (i *Importer) CustomerGroups() *resolver.CustomerGroups {
	return i.groups
}

// SummaryReport returns a snapshot of the outcomes recorded so far.
func (i *Importer) SummaryReport() Report {
	return i.summary.snapshot()
}

// ImportRecord imports a single customer. The outcome is always recorded in
// the summary; the returned error only informs the caller.
func (i *Importer) ImportRecord(ctx context.Context, raw validator.Raw) (*v1.CustomerDraft, error) {
	return i.importRecord(ctx, raw, nil)
}

// importRecord imports raw. Records naming a group in failedGroups fail with
// that group's error instead of creating it again.
func (i *Importer) importRecord(ctx context.Context, raw validator.Raw, failedGroups map[string]error) (*v1.CustomerDraft, error) {
	record, err := validator.Validate(raw)
	if err != nil {
		i.fail(raw, err, metrics.OutcomeInvalid)

		return nil, err
	}

	draft := newDraft(record)
	draft.Password = generatePassword()

	if draft.DefaultShippingAddress == nil && i.config.DefaultShippingAddress != nil {
		idx := *i.config.DefaultShippingAddress
		draft.DefaultShippingAddress = &idx
	}

	if draft.DefaultBillingAddress == nil && i.config.DefaultBillingAddress != nil {
		idx := *i.config.DefaultBillingAddress
		draft.DefaultBillingAddress = &idx
	}

	if record.CustomerGroup != "" {
		if groupErr, failed := failedGroups[record.CustomerGroup]; failed {
			err = fmt.Errorf("%w: %w", ErrCustomerGroup, groupErr)
			i.fail(raw, err, metrics.OutcomeFailed)

			return nil, err
		}

		id, ok, groupErr := i.groups.ResolveOne(ctx, record.CustomerGroup)
		if groupErr != nil {
			err = fmt.Errorf("%w: %w", ErrCustomerGroup, groupErr)
			i.fail(raw, err, metrics.OutcomeFailed)

			return nil, err
		}

		if ok {
			ref := resolver.BuildReference(id)
			draft.CustomerGroup = &ref
		}
	}

	if _, err := i.client.SaveCustomer(ctx, draft); err != nil {
		if client.IsConflict(err) {
			logger.Debug("Customer already exists", "email", draft.Email, "error", err)
			i.fail(raw, ErrUpdateNotSupported, metrics.OutcomeConflict)

			return nil, ErrUpdateNotSupported
		}

		i.fail(raw, err, metrics.OutcomeFailed)

		return nil, err
	}

	i.summary.addInserted(draft.Email)
	metrics.RecordProcessed(metrics.OutcomeInserted)

	logger.Debug("Imported customer", "email", draft.Email)

	return draft, nil
}

func (i *Importer) fail(raw validator.Raw, err error, outcome string) {
	i.summary.addFailure(raw, err)
	metrics.RecordProcessed(outcome)

	logger.Debug("Failed to import customer", "outcome", outcome, "error", err)
}
