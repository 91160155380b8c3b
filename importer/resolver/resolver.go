// Copyright AGNTCY Contributors (https://github.com/agntcy)
// SPDX-License-Identifier: Apache-2.0

// Package resolver maps customer group names to remote ids, creating groups
// that do not exist yet.
package resolver

import (
	"context"
	"errors"
	"fmt"
	"sync"

	v1 "github.com/sphereio/customer-import/api/v1"
	"github.com/sphereio/customer-import/importer/metrics"
	"github.com/sphereio/customer-import/utils/logging"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
)

var logger = logging.Logger("importer/resolver")

// Client is the subset of the remote API the resolver needs.
type Client interface {
	ProcessCustomerGroups(ctx context.Context, handler func([]v1.CustomerGroup) error) error
	CreateCustomerGroup(ctx context.Context, draft v1.CustomerGroupDraft) (*v1.CustomerGroup, error)
}

// CustomerGroups caches customer group name to id for the lifetime of a run.
// Entries are only ever added. It is safe for concurrent use.
type CustomerGroups struct {
	client Client

	mu     sync.RWMutex
	groups map[string]string // map[name]id
	loaded bool

	inflight singleflight.Group
}

// NewCustomerGroups creates an empty cache backed by client.
func NewCustomerGroups(client Client) *CustomerGroups {
	return &CustomerGroups{
		client: client,
		groups: make(map[string]string),
	}
}

// Preload pages through every existing customer group once and caches it.
// It does nothing when the cache already holds entries.
func (c *CustomerGroups) Preload(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.loaded || len(c.groups) > 0 {
		return nil
	}

	pages := 0

	err := c.client.ProcessCustomerGroups(ctx, func(groups []v1.CustomerGroup) error {
		pages++

		for _, group := range groups {
			if _, exists := c.groups[group.Name]; !exists {
				c.groups[group.Name] = group.ID
			}
		}

		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to load customer groups: %w", err)
	}

	c.loaded = true

	logger.Debug("Loaded customer groups", "count", len(c.groups), "pages", pages)

	return nil
}

// ResolveMany creates every distinct, non-empty name not yet cached.
// Creates for different names run concurrently and one failure does not stop
// the others. It returns the failures keyed by name, or nil.
func (c *CustomerGroups) ResolveMany(ctx context.Context, names []string) map[string]error {
	missing := c.missing(names)
	if len(missing) == 0 {
		return nil
	}

	var (
		mu       sync.Mutex
		failures map[string]error
	)

	// Goroutines never return an error so a failing name cannot cancel siblings.
	var g errgroup.Group

	for _, name := range missing {
		g.Go(func() error {
			if _, _, err := c.ResolveOne(ctx, name); err != nil {
				mu.Lock()

				if failures == nil {
					failures = make(map[string]error)
				}

				failures[name] = err

				mu.Unlock()
			}

			return nil
		})
	}

	_ = g.Wait()

	return failures
}

// ResolveOne returns the id for name, creating the group when it is not cached.
// An empty name resolves to ("", false, nil). Concurrent calls for the same
// new name share a single create.
func (c *CustomerGroups) ResolveOne(ctx context.Context, name string) (string, bool, error) {
	if name == "" {
		return "", false, nil
	}

	if id, ok := c.Lookup(name); ok {
		return id, true, nil
	}

	v, err, _ := c.inflight.Do(name, func() (any, error) {
		// Another call may have finished creating it.
		if id, ok := c.Lookup(name); ok {
			return id, nil
		}

		group, err := c.client.CreateCustomerGroup(ctx, v1.CustomerGroupDraft{GroupName: name})
		if err != nil {
			metrics.CustomerGroupCreated(false)

			return "", fmt.Errorf("failed to create customer group %q: %w", name, err)
		}

		if group == nil || group.ID == "" {
			metrics.CustomerGroupCreated(false)

			return "", fmt.Errorf("failed to create customer group %q: %w", name, errEmptyGroup)
		}

		metrics.CustomerGroupCreated(true)

		return c.store(name, group.ID), nil
	})
	if err != nil {
		return "", false, err
	}

	id, _ := v.(string)

	return id, true, nil
}

// Lookup returns the cached id for name.
func (c *CustomerGroups) Lookup(name string) (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	id, ok := c.groups[name]

	return id, ok
}

// Len returns the number of cached groups.
func (c *CustomerGroups) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return len(c.groups)
}

// Seed adds known groups to the cache. Existing entries are kept.
func (c *CustomerGroups) Seed(groups map[string]string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for name, id := range groups {
		if _, exists := c.groups[name]; !exists {
			c.groups[name] = id
		}
	}
}

// BuildReference returns the reference payload for the group with id.
func BuildReference(id string) v1.ResourceIdentifier {
	return v1.CustomerGroupReference(id)
}

var errEmptyGroup = errors.New("remote returned no group id")

// store caches id for name unless an id is already present, and returns the
// id that ends up cached.
func (c *CustomerGroups) store(name, id string) string {
	c.mu.Lock()
	defer c.mu.Unlock()

	if existing, ok := c.groups[name]; ok {
		return existing
	}

	c.groups[name] = id

	return id
}

// missing returns the distinct non-empty names that are not cached, in input order.
func (c *CustomerGroups) missing(names []string) []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	seen := make(map[string]struct{}, len(names))
	missing := make([]string, 0, len(names))

	for _, name := range names {
		if name == "" {
			continue
		}

		if _, ok := seen[name]; ok {
			continue
		}

		seen[name] = struct{}{}

		if _, ok := c.groups[name]; !ok {
			missing = append(missing, name)
		}
	}

	return missing
}
