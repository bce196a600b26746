// Copyright (c) 2025-2026 Powiatowy Inspektorat Weterynarii w Piszu
// SPDX-License-Identifier: GPL-3.0-or-later

package cache

import (
	"context"

	"github.com/piwpisz/bip-go/internal/store"
)

const menuItemsKey = "all_menu_items"

// menuLister is the store surface the menu cache depends on.
type menuLister interface {
	GetActiveMenuItems(ctx context.Context) ([]store.MenuItem, error)
}

// MenuCache serves the full resolvable menu set from memory. A single key
// holds the whole list; any menu mutation invalidates it wholesale.
type MenuCache struct {
	cache   *SimpleCache
	queries menuLister
}

// NewMenuCache creates a menu cache backed by the given store.
func NewMenuCache(queries menuLister, cache *SimpleCache) *MenuCache {
	return &MenuCache{
		cache:   cache,
		queries: queries,
	}
}

// Items returns all active, non-hidden menu items, loading from the database
// on a cache miss. Callers must not mutate the returned slice.
func (c *MenuCache) Items(ctx context.Context) ([]store.MenuItem, error) {
	if val, ok := c.cache.Get(menuItemsKey); ok {
		return val.([]store.MenuItem), nil
	}

	items, err := c.queries.GetActiveMenuItems(ctx)
	if err != nil {
		return nil, err
	}

	c.cache.Set(menuItemsKey, items)
	return items, nil
}

// Invalidate drops the cached menu set. The next Items call reloads it.
func (c *MenuCache) Invalidate() {
	c.cache.Delete(menuItemsKey)
}

// Stats exposes the underlying cache statistics.
func (c *MenuCache) Stats() Stats {
	return c.cache.Stats()
}
