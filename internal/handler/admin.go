// Copyright (c) 2025-2026 Powiatowy Inspektorat Weterynarii w Piszu
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/piwpisz/bip-go/internal/cache"
	"github.com/piwpisz/bip-go/internal/middleware"
	"github.com/piwpisz/bip-go/internal/store"
	"github.com/piwpisz/bip-go/internal/util"
)

// AdminHandler serves the back-office JSON API. Every write that affects
// public rendering invalidates the matching cache.
type AdminHandler struct {
	queries       *store.Queries
	menuCache     *cache.MenuCache
	settingsCache *cache.SettingsCache
	logger        *slog.Logger
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(queries *store.Queries, menuCache *cache.MenuCache, settingsCache *cache.SettingsCache, logger *slog.Logger) *AdminHandler {
	return &AdminHandler{
		queries:       queries,
		menuCache:     menuCache,
		settingsCache: settingsCache,
		logger:        logger,
	}
}

// Routes registers the admin API routes on an authenticated router.
func (h *AdminHandler) Routes(r chi.Router) {
	r.Route("/articles", func(r chi.Router) {
		r.Get("/", h.ListArticles)
		r.Post("/", h.CreateArticle)
		r.Get("/{id}", h.GetArticle)
		r.Put("/{id}", h.UpdateArticle)
		r.Delete("/{id}", h.DeleteArticle)
	})
	r.Route("/menu", func(r chi.Router) {
		r.Get("/", h.ListMenuItems)
		r.Post("/", h.CreateMenuItem)
		r.Put("/{id}", h.UpdateMenuItem)
		r.Delete("/{id}", h.DeleteMenuItem)
	})
	r.Route("/settings", func(r chi.Router) {
		r.Get("/", h.ListSettings)
		r.Put("/{key}", h.UpdateSetting)
	})
	r.Post("/pages", h.CreatePage)
	r.Get("/cache", h.CacheStats)
}

type articleRequest struct {
	Title             string `json:"title"`
	Slug              string `json:"slug"`
	Body              string `json:"body"`
	Excerpt           string `json:"excerpt"`
	Status            string `json:"status"`
	MenuItemID        *int64 `json:"menu_item_id"`
	ResponsiblePerson string `json:"responsible_person"`
}

func (req *articleRequest) validate() string {
	if req.Title == "" {
		return "Tytuł jest wymagany"
	}
	if req.Slug == "" {
		req.Slug = util.Slugify(req.Title)
	}
	if !util.IsValidSlug(req.Slug) {
		return "Nieprawidłowy slug"
	}
	if req.Status == "" {
		req.Status = store.StatusDraft
	}
	if req.Status != store.StatusDraft && req.Status != store.StatusPublished {
		return "Nieprawidłowy status"
	}
	return ""
}

// ListArticles returns all articles regardless of status.
func (h *AdminHandler) ListArticles(w http.ResponseWriter, r *http.Request) {
	articles, err := h.queries.ListAllArticles(r.Context())
	if err != nil {
		h.storageError(w, "listing articles", err)
		return
	}
	writeJSONSuccess(w, map[string]any{"articles": articles})
}

// GetArticle returns a single article by id.
func (h *AdminHandler) GetArticle(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	article, err := h.queries.GetArticleByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			writeJSONError(w, http.StatusNotFound, "Artykuł nie istnieje")
			return
		}
		h.storageError(w, "getting article", err)
		return
	}
	writeJSONSuccess(w, map[string]any{"article": article})
}

// CreateArticle creates an article. Publishing stamps the publication time
// and the acting user.
func (h *AdminHandler) CreateArticle(w http.ResponseWriter, r *http.Request) {
	var req articleRequest
	if err := decodeJSON(r, &req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "Nieprawidłowe dane wejściowe")
		return
	}
	if msg := req.validate(); msg != "" {
		writeJSONError(w, http.StatusBadRequest, msg)
		return
	}

	actor := actorID(r)
	params := store.CreateArticleParams{
		Title:             req.Title,
		Slug:              req.Slug,
		Body:              req.Body,
		Excerpt:           nullString(req.Excerpt),
		Status:            req.Status,
		MenuItemID:        nullInt64(req.MenuItemID),
		ResponsiblePerson: nullString(req.ResponsiblePerson),
		CreatedBy:         actor,
	}
	if req.Status == store.StatusPublished {
		params.PublishedBy = actor
		params.PublishedAt = sql.NullTime{Time: time.Now(), Valid: true}
	}

	article, err := h.queries.CreateArticle(r.Context(), params)
	if err != nil {
		h.storageError(w, "creating article", err)
		return
	}
	writeJSONSuccess(w, map[string]any{"article": article})
}

// UpdateArticle rewrites an article. A draft crossing into published gets a
// fresh publication stamp; an already published article keeps its original.
func (h *AdminHandler) UpdateArticle(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}

	current, err := h.queries.GetArticleByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			writeJSONError(w, http.StatusNotFound, "Artykuł nie istnieje")
			return
		}
		h.storageError(w, "getting article", err)
		return
	}

	var req articleRequest
	if err := decodeJSON(r, &req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "Nieprawidłowe dane wejściowe")
		return
	}
	if msg := req.validate(); msg != "" {
		writeJSONError(w, http.StatusBadRequest, msg)
		return
	}

	actor := actorID(r)
	params := store.UpdateArticleParams{
		ID:                id,
		Title:             req.Title,
		Slug:              req.Slug,
		Body:              req.Body,
		Excerpt:           nullString(req.Excerpt),
		Status:            req.Status,
		MenuItemID:        nullInt64(req.MenuItemID),
		ResponsiblePerson: nullString(req.ResponsiblePerson),
		UpdatedBy:         actor,
		PublishedBy:       current.PublishedBy,
		PublishedAt:       current.PublishedAt,
	}
	if req.Status == store.StatusPublished && current.Status != store.StatusPublished {
		params.PublishedBy = actor
		params.PublishedAt = sql.NullTime{Time: time.Now(), Valid: true}
	}

	if err := h.queries.UpdateArticle(r.Context(), params); err != nil {
		h.storageError(w, "updating article", err)
		return
	}
	writeJSONSuccess(w, nil)
}

// DeleteArticle removes an article.
func (h *AdminHandler) DeleteArticle(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	if err := h.queries.DeleteArticle(r.Context(), id); err != nil {
		h.storageError(w, "deleting article", err)
		return
	}
	writeJSONSuccess(w, nil)
}

type menuItemRequest struct {
	Title        string `json:"title"`
	Slug         string `json:"slug"`
	ParentID     *int64 `json:"parent_id"`
	SortOrder    int64  `json:"sort_order"`
	DisplayMode  string `json:"display_mode"`
	ShowExcerpts bool   `json:"show_excerpts"`
	IsActive     bool   `json:"is_active"`
	Hidden       bool   `json:"hidden"`
}

func (req *menuItemRequest) validate() string {
	if req.Title == "" {
		return "Tytuł jest wymagany"
	}
	if req.Slug == "" {
		req.Slug = util.Slugify(req.Title)
	}
	if !util.IsValidSlug(req.Slug) {
		return "Nieprawidłowy slug"
	}
	switch req.DisplayMode {
	case "", store.DisplayModeList, store.DisplayModeArticle, store.DisplayModeSingle:
	default:
		return "Nieprawidłowy tryb wyświetlania"
	}
	return ""
}

// ListMenuItems returns all menu items, including inactive and hidden ones.
func (h *AdminHandler) ListMenuItems(w http.ResponseWriter, r *http.Request) {
	items, err := h.queries.ListMenuItems(r.Context())
	if err != nil {
		h.storageError(w, "listing menu items", err)
		return
	}
	writeJSONSuccess(w, map[string]any{"menu_items": items})
}

// CreateMenuItem creates a menu item and invalidates the menu cache.
func (h *AdminHandler) CreateMenuItem(w http.ResponseWriter, r *http.Request) {
	var req menuItemRequest
	if err := decodeJSON(r, &req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "Nieprawidłowe dane wejściowe")
		return
	}
	if msg := req.validate(); msg != "" {
		writeJSONError(w, http.StatusBadRequest, msg)
		return
	}

	item, err := h.queries.CreateMenuItem(r.Context(), store.CreateMenuItemParams{
		Title:        req.Title,
		Slug:         req.Slug,
		ParentID:     nullInt64(req.ParentID),
		SortOrder:    req.SortOrder,
		DisplayMode:  nullString(req.DisplayMode),
		ShowExcerpts: req.ShowExcerpts,
		IsActive:     req.IsActive,
		Hidden:       req.Hidden,
	})
	if err != nil {
		h.storageError(w, "creating menu item", err)
		return
	}

	h.menuCache.Invalidate()
	writeJSONSuccess(w, map[string]any{"menu_item": item})
}

// UpdateMenuItem rewrites a menu item and invalidates the menu cache.
func (h *AdminHandler) UpdateMenuItem(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}

	var req menuItemRequest
	if err := decodeJSON(r, &req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "Nieprawidłowe dane wejściowe")
		return
	}
	if msg := req.validate(); msg != "" {
		writeJSONError(w, http.StatusBadRequest, msg)
		return
	}

	if err := h.queries.UpdateMenuItem(r.Context(), store.UpdateMenuItemParams{
		ID:           id,
		Title:        req.Title,
		Slug:         req.Slug,
		ParentID:     nullInt64(req.ParentID),
		SortOrder:    req.SortOrder,
		DisplayMode:  nullString(req.DisplayMode),
		ShowExcerpts: req.ShowExcerpts,
		IsActive:     req.IsActive,
		Hidden:       req.Hidden,
	}); err != nil {
		h.storageError(w, "updating menu item", err)
		return
	}

	h.menuCache.Invalidate()
	writeJSONSuccess(w, nil)
}

// DeleteMenuItem removes a menu item and invalidates the menu cache.
func (h *AdminHandler) DeleteMenuItem(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	if err := h.queries.DeleteMenuItem(r.Context(), id); err != nil {
		h.storageError(w, "deleting menu item", err)
		return
	}

	h.menuCache.Invalidate()
	writeJSONSuccess(w, nil)
}

// ListSettings returns all site settings.
func (h *AdminHandler) ListSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := h.queries.ListSettings(r.Context())
	if err != nil {
		h.storageError(w, "listing settings", err)
		return
	}
	writeJSONSuccess(w, map[string]any{"settings": settings})
}

type settingRequest struct {
	Value string `json:"value"`
}

// UpdateSetting upserts a single setting and invalidates its cache entry.
func (h *AdminHandler) UpdateSetting(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")
	if key == "" {
		writeJSONError(w, http.StatusBadRequest, "Klucz jest wymagany")
		return
	}

	var req settingRequest
	if err := decodeJSON(r, &req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "Nieprawidłowe dane wejściowe")
		return
	}

	if err := h.queries.UpsertSetting(r.Context(), store.UpsertSettingParams{
		Key:       key,
		Value:     req.Value,
		UpdatedBy: actorID(r),
	}); err != nil {
		h.storageError(w, "updating setting", err)
		return
	}

	h.settingsCache.Invalidate(key)
	writeJSONSuccess(w, nil)
}

type pageRequest struct {
	Title  string `json:"title"`
	Slug   string `json:"slug"`
	Body   string `json:"body"`
	Status string `json:"status"`
}

// CreatePage creates a static page.
func (h *AdminHandler) CreatePage(w http.ResponseWriter, r *http.Request) {
	var req pageRequest
	if err := decodeJSON(r, &req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "Nieprawidłowe dane wejściowe")
		return
	}
	if req.Title == "" {
		writeJSONError(w, http.StatusBadRequest, "Tytuł jest wymagany")
		return
	}
	if req.Slug == "" {
		req.Slug = util.Slugify(req.Title)
	}
	if !util.IsValidSlug(req.Slug) {
		writeJSONError(w, http.StatusBadRequest, "Nieprawidłowy slug")
		return
	}
	if req.Status == "" {
		req.Status = store.StatusDraft
	}

	params := store.CreatePageParams{
		Title:     req.Title,
		Slug:      req.Slug,
		Body:      req.Body,
		Status:    req.Status,
		CreatedBy: actorID(r),
	}
	if req.Status == store.StatusPublished {
		params.PublishedAt = sql.NullTime{Time: time.Now(), Valid: true}
	}

	page, err := h.queries.CreatePage(r.Context(), params)
	if err != nil {
		h.storageError(w, "creating page", err)
		return
	}
	writeJSONSuccess(w, map[string]any{"page": page})
}

// CacheStats reports hit and miss counters for the content caches.
func (h *AdminHandler) CacheStats(w http.ResponseWriter, r *http.Request) {
	writeJSONSuccess(w, map[string]any{
		"menu": h.menuCache.Stats(),
	})
}

func (h *AdminHandler) storageError(w http.ResponseWriter, op string, err error) {
	h.logger.Error(op, "error", err)
	writeJSONError(w, http.StatusServiceUnavailable, "Baza danych niedostępna")
}

func idParam(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		writeJSONError(w, http.StatusBadRequest, "Nieprawidłowy identyfikator")
		return 0, false
	}
	return id, true
}

func actorID(r *http.Request) sql.NullInt64 {
	if user, ok := middleware.UserFromContext(r.Context()); ok {
		return sql.NullInt64{Int64: user.ID, Valid: true}
	}
	return sql.NullInt64{}
}

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

func nullInt64(v *int64) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: *v, Valid: true}
}
