// Copyright (c) 2025-2026 Powiatowy Inspektorat Weterynarii w Piszu
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/piwpisz/bip-go/internal/cache"
	"github.com/piwpisz/bip-go/internal/render"
	"github.com/piwpisz/bip-go/internal/service"
	"github.com/piwpisz/bip-go/internal/store"
	"github.com/piwpisz/bip-go/internal/testutil"
	"github.com/piwpisz/bip-go/web"
)

// testEnv bundles everything a handler test needs.
type testEnv struct {
	db        *sql.DB
	queries   *store.Queries
	menus     *service.MenuService
	menuCache *cache.MenuCache
	settings  *cache.SettingsCache
	counter   *service.ViewCounter
	router    chi.Router
}

// newTestEnv wires a frontend handler against a fresh database.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db := testutil.TestDB(t)
	queries := store.New(db)

	menuCache := cache.NewMenuCache(queries, cache.New(time.Minute))
	settingsCache := cache.NewSettingsCache(queries, cache.New(time.Minute))
	menus := service.NewMenuService(menuCache)
	resolver := service.NewPathResolver(queries, menus, settingsCache, true)
	counter := service.NewViewCounter(queries)

	renderer, err := render.New(render.Config{
		TemplatesFS: web.Templates,
		SiteName:    "BIP Test",
	})
	if err != nil {
		t.Fatalf("render.New: %v", err)
	}

	fh := NewFrontendHandler(FrontendConfig{
		Queries:  queries,
		Resolver: resolver,
		Menus:    menus,
		Settings: settingsCache,
		Renderer: renderer,
		Counter:  counter,
		AppURL:   "https://bip.example.pl",
		Logger:   testutil.TestLogger(),
	})

	router := chi.NewRouter()
	fh.Routes(router)

	return &testEnv{
		db:        db,
		queries:   queries,
		menus:     menus,
		menuCache: menuCache,
		settings:  settingsCache,
		counter:   counter,
		router:    router,
	}
}

func (e *testEnv) mustMenuItem(t *testing.T, arg store.CreateMenuItemParams) store.MenuItem {
	t.Helper()
	arg.IsActive = true
	item, err := e.queries.CreateMenuItem(context.Background(), arg)
	if err != nil {
		t.Fatalf("CreateMenuItem: %v", err)
	}
	e.menuCache.Invalidate()
	return item
}

func (e *testEnv) mustArticle(t *testing.T, arg store.CreateArticleParams) store.Article {
	t.Helper()
	if arg.Status == "" {
		arg.Status = store.StatusPublished
	}
	if arg.Status == store.StatusPublished && !arg.PublishedAt.Valid {
		arg.PublishedAt = sql.NullTime{Time: time.Now(), Valid: true}
	}
	article, err := e.queries.CreateArticle(context.Background(), arg)
	if err != nil {
		t.Fatalf("CreateArticle: %v", err)
	}
	return article
}
