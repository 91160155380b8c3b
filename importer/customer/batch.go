// Copyright AGNTCY Contributors (https://github.com/agntcy)
// SPDX-License-Identifier: Apache-2.0

package customer

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/sphereio/customer-import/importer/metrics"
	"github.com/sphereio/customer-import/importer/validator"
)

// ProcessBatch imports every record of the batch concurrently and calls
// onComplete exactly once when all of them settled.
//
// Customer groups named by the batch are loaded and created before any record
// is imported, so a new group is created once no matter how many records
// reference it. A group that cannot be created fails only the records naming
// it. The returned error is non-nil only when the existing groups could not be
// loaded, in which case no record is imported.
func (i *Importer) ProcessBatch(ctx context.Context, records []validator.Raw, onComplete func()) error {
	start := time.Now()

	defer func() {
		metrics.BatchProcessed(len(records), time.Since(start))

		if onComplete != nil {
			onComplete()
		}
	}()

	if len(records) == 0 {
		return nil
	}

	if err := i.groups.Preload(ctx); err != nil {
		return fmt.Errorf("failed to preload customer groups: %w", err)
	}

	failedGroups := i.groups.ResolveMany(ctx, groupNames(records))
	for name, err := range failedGroups {
		logger.Warn("Failed to create customer group", "name", name, "error", err)
	}

	var wg sync.WaitGroup

	for _, raw := range records {
		wg.Add(1)

		go func() {
			defer wg.Done()

			// Failures are recorded in the summary.
			_, _ = i.importRecord(ctx, raw, failedGroups)
		}()
	}

	wg.Wait()

	logger.Debug("Processed batch", "records", len(records), "elapsed", time.Since(start))

	return nil
}

// groupNames returns the distinct non-empty customer group names of records.
func groupNames(records []validator.Raw) []string {
	seen := make(map[string]struct{})
	names := make([]string, 0)

	for _, raw := range records {
		name := validator.CustomerGroup(raw)
		if name == "" {
			continue
		}

		if _, ok := seen[name]; ok {
			continue
		}

		seen[name] = struct{}{}
		names = append(names, name)
	}

	return names
}
