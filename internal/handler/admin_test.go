// Copyright (c) 2025-2026 Powiatowy Inspektorat Weterynarii w Piszu
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/piwpisz/bip-go/internal/auth"
	"github.com/piwpisz/bip-go/internal/cache"
	"github.com/piwpisz/bip-go/internal/middleware"
	"github.com/piwpisz/bip-go/internal/session"
	"github.com/piwpisz/bip-go/internal/store"
	"github.com/piwpisz/bip-go/internal/testutil"
)

// adminEnv wires the authenticated admin API against a fresh database.
type adminEnv struct {
	queries   *store.Queries
	menuCache *cache.MenuCache
	server    *httptest.Server
	client    *http.Client
}

func newCookieJar(t *testing.T) http.CookieJar {
	t.Helper()
	jar, err := cookiejar.New(nil)
	if err != nil {
		t.Fatalf("cookiejar.New: %v", err)
	}
	return jar
}

func newAdminEnv(t *testing.T) *adminEnv {
	t.Helper()

	db := testutil.TestDB(t)
	queries := store.New(db)
	logger := testutil.TestLogger()

	menuCache := cache.NewMenuCache(queries, cache.New(time.Minute))
	settingsCache := cache.NewSettingsCache(queries, cache.New(time.Minute))

	sm := session.New(db, true)
	lp := middleware.NewLoginProtection(middleware.DefaultLoginProtectionConfig())

	authHandler := NewAuthHandler(queries, sm, lp, logger)
	adminHandler := NewAdminHandler(queries, menuCache, settingsCache, logger)

	r := chi.NewRouter()
	r.Use(sm.LoadAndSave)
	r.Route("/admin/api", func(r chi.Router) {
		r.Post("/login", authHandler.Login)
		r.Post("/logout", authHandler.Logout)
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAuth(sm))
			r.Use(middleware.LoadUser(sm, queries))
			r.Get("/me", authHandler.Me)
			adminHandler.Routes(r)
		})
	})

	server := httptest.NewServer(r)
	t.Cleanup(server.Close)

	jar := newCookieJar(t)
	return &adminEnv{
		queries:   queries,
		menuCache: menuCache,
		server:    server,
		client:    &http.Client{Jar: jar},
	}
}

func (e *adminEnv) mustUser(t *testing.T, email, password string) store.User {
	t.Helper()
	hash, err := auth.HashPassword(password)
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	user, err := e.queries.CreateUser(context.Background(), store.CreateUserParams{
		Email: email, PasswordHash: hash,
		FirstName: "Anna", LastName: "Nowak", Role: "admin",
	})
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	return user
}

func (e *adminEnv) postJSON(t *testing.T, path string, body any) *http.Response {
	t.Helper()
	raw, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshaling request: %v", err)
	}
	resp, err := e.client.Post(e.server.URL+path, "application/json", bytes.NewReader(raw))
	if err != nil {
		t.Fatalf("POST %s: %v", path, err)
	}
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func (e *adminEnv) login(t *testing.T, email, password string) *http.Response {
	t.Helper()
	return e.postJSON(t, "/admin/api/login", map[string]string{
		"email": email, "password": password,
	})
}

func TestAdminLogin(t *testing.T) {
	env := newAdminEnv(t)
	env.mustUser(t, "admin@example.com", "tajne-haslo-123")

	resp := env.login(t, "admin@example.com", "tajne-haslo-123")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("login status = %d, want 200", resp.StatusCode)
	}

	// The session cookie must now open protected routes.
	me, err := env.client.Get(env.server.URL + "/admin/api/me")
	if err != nil {
		t.Fatalf("GET /admin/api/me: %v", err)
	}
	defer me.Body.Close()
	if me.StatusCode != http.StatusOK {
		t.Errorf("me status = %d, want 200", me.StatusCode)
	}
}

func TestAdminLoginWrongPassword(t *testing.T) {
	env := newAdminEnv(t)
	env.mustUser(t, "admin@example.com", "tajne-haslo-123")

	resp := env.login(t, "admin@example.com", "zle-haslo")
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("login status = %d, want 401", resp.StatusCode)
	}
}

func TestAdminRequiresAuth(t *testing.T) {
	env := newAdminEnv(t)

	resp, err := env.client.Get(env.server.URL + "/admin/api/articles/")
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", resp.StatusCode)
	}
}

func TestAdminCreateMenuItemInvalidatesCache(t *testing.T) {
	env := newAdminEnv(t)
	env.mustUser(t, "admin@example.com", "tajne-haslo-123")
	env.login(t, "admin@example.com", "tajne-haslo-123")

	// Warm the cache with the empty tree.
	if _, err := env.menuCache.Items(context.Background()); err != nil {
		t.Fatalf("warming cache: %v", err)
	}

	resp := env.postJSON(t, "/admin/api/menu/", map[string]any{
		"title": "Ogłoszenia", "display_mode": "list", "is_active": true,
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("create status = %d, want 200", resp.StatusCode)
	}

	items, err := env.menuCache.Items(context.Background())
	if err != nil {
		t.Fatalf("Items: %v", err)
	}
	if len(items) != 1 {
		t.Errorf("cached menu items = %d, want 1 after invalidation", len(items))
	}
	if len(items) == 1 && items[0].Slug != "ogloszenia" {
		t.Errorf("slug = %q, want generated ogloszenia", items[0].Slug)
	}
}

func TestAdminCreateArticleValidation(t *testing.T) {
	env := newAdminEnv(t)
	env.mustUser(t, "admin@example.com", "tajne-haslo-123")
	env.login(t, "admin@example.com", "tajne-haslo-123")

	resp := env.postJSON(t, "/admin/api/articles/", map[string]any{
		"body": "treść bez tytułu",
	})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", resp.StatusCode)
	}
}

func TestAdminAccountLockout(t *testing.T) {
	env := newAdminEnv(t)
	env.mustUser(t, "admin@example.com", "tajne-haslo-123")

	var last *http.Response
	for i := 0; i < 6; i++ {
		last = env.login(t, "admin@example.com", "zle-haslo")
	}
	if last.StatusCode != http.StatusTooManyRequests {
		t.Errorf("status after repeated failures = %d, want 429", last.StatusCode)
	}
}
