// Copyright (c) 2025-2026 Powiatowy Inspektorat Weterynarii w Piszu
// SPDX-License-Identifier: GPL-3.0-or-later

package cache

import (
	"context"
	"database/sql"
	"errors"

	"github.com/piwpisz/bip-go/internal/store"
)

const (
	settingsKey      = "all_settings"
	settingKeyPrefix = "setting:"
)

// settingsReader is the store surface the settings cache depends on.
type settingsReader interface {
	GetSetting(ctx context.Context, key string) (string, error)
	ListSettings(ctx context.Context) ([]store.SiteSetting, error)
}

// SettingsCache serves site settings from memory. The full map and individual
// keys are cached independently; a missing key is cached as absent so repeated
// lookups of unset settings stay off the database.
type SettingsCache struct {
	cache   *SimpleCache
	queries settingsReader
}

// settingValue distinguishes "cached as missing" from "not cached".
type settingValue struct {
	value string
	found bool
}

// NewSettingsCache creates a settings cache backed by the given store.
func NewSettingsCache(queries settingsReader, cache *SimpleCache) *SettingsCache {
	return &SettingsCache{
		cache:   cache,
		queries: queries,
	}
}

// Get returns a single setting value. The second return is false when the
// setting does not exist.
func (c *SettingsCache) Get(ctx context.Context, key string) (string, bool, error) {
	cacheKey := settingKeyPrefix + key
	if val, ok := c.cache.Get(cacheKey); ok {
		sv := val.(settingValue)
		return sv.value, sv.found, nil
	}

	value, err := c.queries.GetSetting(ctx, key)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			c.cache.Set(cacheKey, settingValue{})
			return "", false, nil
		}
		return "", false, err
	}

	c.cache.Set(cacheKey, settingValue{value: value, found: true})
	return value, true, nil
}

// All returns every setting as a map.
func (c *SettingsCache) All(ctx context.Context) (map[string]string, error) {
	if val, ok := c.cache.Get(settingsKey); ok {
		return val.(map[string]string), nil
	}

	settings, err := c.queries.ListSettings(ctx)
	if err != nil {
		return nil, err
	}

	m := make(map[string]string, len(settings))
	for _, s := range settings {
		m[s.Key] = s.Value
	}

	c.cache.Set(settingsKey, m)
	return m, nil
}

// Invalidate drops the full settings map and the given per-key entries.
// With no keys it drops every cached setting.
func (c *SettingsCache) Invalidate(keys ...string) {
	c.cache.Delete(settingsKey)
	if len(keys) == 0 {
		c.cache.DeleteByPrefix(settingKeyPrefix)
		return
	}
	for _, key := range keys {
		c.cache.Delete(settingKeyPrefix + key)
	}
}
