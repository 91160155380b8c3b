// Copyright AGNTCY Contributors (https://github.com/agntcy)
// SPDX-License-Identifier: Apache-2.0

package factory

import (
	"fmt"
	"sort"
	"sync"

	"github.com/sphereio/customer-import/importer/config"
	"github.com/sphereio/customer-import/importer/types"
)

// ImporterFunc is a function that creates an Importer instance.
type ImporterFunc func(client config.ClientInterface, cfg config.Config) (types.Importer, error)

var (
	importers = make(map[config.FeedFormat]ImporterFunc)
	mu        sync.RWMutex
)

// Register registers a function that creates an Importer instance for a given feed format.
// It panics if the same feed format is registered twice to prevent duplications at compile-time.
func Register(format config.FeedFormat, fn ImporterFunc) {
	mu.Lock()
	defer mu.Unlock()

	if _, exists := importers[format]; exists {
		panic(fmt.Sprintf("importer already registered for feed format: %s", format))
	}

	importers[format] = fn
}

// Create creates a new Importer instance for the given client and configuration.
func Create(client config.ClientInterface, cfg config.Config) (types.Importer, error) {
	mu.RLock()

	constructor, exists := importers[cfg.FeedFormat]

	mu.RUnlock()

	if !exists {
		return nil, fmt.Errorf("unsupported feed format: %s", cfg.FeedFormat)
	}

	return constructor(client, cfg)
}

// RegisteredFormats returns all registered feed formats in sorted order.
func RegisteredFormats() []config.FeedFormat {
	mu.RLock()
	defer mu.RUnlock()

	formats := make([]config.FeedFormat, 0, len(importers))
	for f := range importers {
		formats = append(formats, f)
	}

	sort.Slice(formats, func(i, j int) bool { return formats[i] < formats[j] })

	return formats
}

// IsRegistered checks if a feed format is registered.
func IsRegistered(format config.FeedFormat) bool {
	mu.RLock()
	defer mu.RUnlock()

	_, exists := importers[format]

	return exists
}

// Reset clears all registered importers. This is primarily useful for testing.
func Reset() {
	mu.Lock()
	defer mu.Unlock()

	importers = make(map[config.FeedFormat]ImporterFunc)
}
