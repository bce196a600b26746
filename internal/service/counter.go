// Copyright (c) 2025-2026 Powiatowy Inspektorat Weterynarii w Piszu
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"log/slog"
	"sync"
)

// viewWriter is the store surface the counter flushes through.
type viewWriter interface {
	AddArticleViews(ctx context.Context, id, delta int64) error
}

// ViewCounter accumulates article view hits in memory and writes them out in
// batches, keeping hot articles from hammering the database on every request.
type ViewCounter struct {
	store viewWriter

	mu      sync.Mutex
	pending map[int64]int64
}

// NewViewCounter creates an empty counter.
func NewViewCounter(store viewWriter) *ViewCounter {
	return &ViewCounter{
		store:   store,
		pending: make(map[int64]int64),
	}
}

// Record notes one view of an article. Safe for concurrent use.
func (c *ViewCounter) Record(articleID int64) {
	c.mu.Lock()
	c.pending[articleID]++
	c.mu.Unlock()
}

// Pending returns the number of articles with unflushed views.
func (c *ViewCounter) Pending() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.pending)
}

// Flush writes all pending deltas to storage. A delta that fails to write is
// re-queued so the next flush retries it.
func (c *ViewCounter) Flush(ctx context.Context) error {
	c.mu.Lock()
	batch := c.pending
	c.pending = make(map[int64]int64)
	c.mu.Unlock()

	var firstErr error
	for id, delta := range batch {
		if err := c.store.AddArticleViews(ctx, id, delta); err != nil {
			slog.Error("flushing view counter", "article_id", id, "delta", delta, "error", err)
			c.mu.Lock()
			c.pending[id] += delta
			c.mu.Unlock()
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}
