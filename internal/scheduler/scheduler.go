// Copyright (c) 2025-2026 Powiatowy Inspektorat Weterynarii w Piszu
// SPDX-License-Identifier: GPL-3.0-or-later

package scheduler

import (
	"context"
	"log/slog"

	"github.com/robfig/cron/v3"

	"github.com/piwpisz/bip-go/internal/cache"
	"github.com/piwpisz/bip-go/internal/service"
)

// Scheduler runs background maintenance jobs: flushing buffered view
// counts and keeping the menu cache warm.
type Scheduler struct {
	counter *service.ViewCounter
	menus   *cache.MenuCache
	cron    *cron.Cron
	logger  *slog.Logger
}

// New creates a new scheduler instance.
func New(counter *service.ViewCounter, menus *cache.MenuCache, logger *slog.Logger) *Scheduler {
	return &Scheduler{
		counter: counter,
		menus:   menus,
		cron:    cron.New(),
		logger:  logger,
	}
}

// Start registers the jobs and begins the cron loop.
func (s *Scheduler) Start() error {
	// Flush accumulated article view counts every minute.
	_, err := s.cron.AddFunc("* * * * *", func() {
		if err := s.counter.Flush(context.Background()); err != nil {
			s.logger.Error("failed to flush view counters", "error", err)
		}
	})
	if err != nil {
		return err
	}

	// Re-warm the menu cache hourly so the first request after an
	// expiry does not pay the load.
	_, err = s.cron.AddFunc("0 * * * *", func() {
		if _, err := s.menus.Items(context.Background()); err != nil {
			s.logger.Error("failed to warm menu cache", "error", err)
		}
	})
	if err != nil {
		return err
	}

	s.cron.Start()
	s.logger.Info("scheduler started", "jobs", len(s.cron.Entries()))
	return nil
}

// Stop gracefully stops the scheduler, flushing any pending view counts.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()

	if err := s.counter.Flush(context.Background()); err != nil {
		s.logger.Error("failed to flush view counters on shutdown", "error", err)
	}
	s.logger.Info("scheduler stopped")
}
