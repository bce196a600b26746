// Copyright (c) 2025-2026 Powiatowy Inspektorat Weterynarii w Piszu
// SPDX-License-Identifier: GPL-3.0-or-later

// Package handler provides HTTP handlers for the application.
package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/piwpisz/bip-go/internal/cache"
	"github.com/piwpisz/bip-go/internal/render"
	"github.com/piwpisz/bip-go/internal/seo"
	"github.com/piwpisz/bip-go/internal/service"
	"github.com/piwpisz/bip-go/internal/store"
	"github.com/piwpisz/bip-go/internal/uikit"
)

// FrontendHandler serves the public portal routes.
type FrontendHandler struct {
	queries  *store.Queries
	resolver *service.PathResolver
	menus    *service.MenuService
	settings *cache.SettingsCache
	renderer *render.Renderer
	counter  *service.ViewCounter
	appURL   string
	logger   *slog.Logger
}

// FrontendConfig holds the collaborators of the frontend handler.
type FrontendConfig struct {
	Queries  *store.Queries
	Resolver *service.PathResolver
	Menus    *service.MenuService
	Settings *cache.SettingsCache
	Renderer *render.Renderer
	Counter  *service.ViewCounter
	AppURL   string
	Logger   *slog.Logger
}

// NewFrontendHandler creates a new FrontendHandler.
func NewFrontendHandler(cfg FrontendConfig) *FrontendHandler {
	return &FrontendHandler{
		queries:  cfg.Queries,
		resolver: cfg.Resolver,
		menus:    cfg.Menus,
		settings: cfg.Settings,
		renderer: cfg.Renderer,
		counter:  cfg.Counter,
		appURL:   cfg.AppURL,
		logger:   cfg.Logger,
	}
}

// Routes registers the public routes. Every content path funnels through
// Resolve; the path shape decides what gets rendered.
func (h *FrontendHandler) Routes(r chi.Router) {
	r.Get("/", h.Resolve)
	r.Get("/sitemap.xml", h.Sitemap)
	r.Get("/menu/{id}", h.Resolve)
	r.Get("/{slug}", h.Resolve)
	r.Get("/{parentSlug}/{childSlug}", h.Resolve)
	r.NotFound(h.NotFound)
}

// Resolve classifies the request path and renders the resolved content.
func (h *FrontendHandler) Resolve(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	res, err := h.resolver.Resolve(ctx, r.URL.Path, r.URL.Query())
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNotFound):
			h.renderNotFound(w, r)
		case errors.Is(err, service.ErrStorageUnavailable):
			h.logger.Error("resolving path", "path", r.URL.Path, "error", err)
			h.renderError(w, r, http.StatusServiceUnavailable,
				"Baza danych niedostępna", "Prosimy spróbować ponownie za chwilę.")
		default:
			h.logger.Error("resolving path", "path", r.URL.Path, "error", err)
			h.renderError(w, r, http.StatusInternalServerError,
				"Błąd serwera", "Wystąpił nieoczekiwany błąd.")
		}
		return
	}

	switch res.Mode {
	case service.ModeRedirect:
		http.Redirect(w, r, res.RedirectTo, http.StatusMovedPermanently)
	case service.ModeHomepage:
		h.renderHome(w, r, res)
	case service.ModeArticle:
		h.renderArticle(w, r, res)
	case service.ModePage:
		h.renderStaticPage(w, r, res)
	case service.ModeList:
		h.renderList(w, r, res)
	default:
		h.renderNotFound(w, r)
	}
}

// NotFound renders the 404 page.
func (h *FrontendHandler) NotFound(w http.ResponseWriter, r *http.Request) {
	h.renderNotFound(w, r)
}

// Sitemap serves the sitemap of published content.
func (h *FrontendHandler) Sitemap(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	articles, err := h.queries.ListPublishedArticles(ctx)
	if err != nil {
		h.logger.Error("listing articles for sitemap", "error", err)
		http.Error(w, "Service Unavailable", http.StatusServiceUnavailable)
		return
	}
	pages, err := h.queries.ListPublishedPages(ctx)
	if err != nil {
		h.logger.Error("listing pages for sitemap", "error", err)
		http.Error(w, "Service Unavailable", http.StatusServiceUnavailable)
		return
	}

	out, err := seo.Sitemap(h.appURL, articles, pages)
	if err != nil {
		h.logger.Error("building sitemap", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/xml; charset=utf-8")
	w.Write(out)
}

func (h *FrontendHandler) renderHome(w http.ResponseWriter, r *http.Request, res *service.Resolution) {
	data := h.baseData(r, res)
	data.Data = struct {
		Article    *store.Article
		RecentNews []store.Article
	}{res.Article, res.RecentNews}

	if res.Article != nil {
		h.counter.Record(res.Article.ID)
	}
	h.render(w, r, "home", data)
}

func (h *FrontendHandler) renderArticle(w http.ResponseWriter, r *http.Request, res *service.Resolution) {
	ctx := r.Context()

	view, err := service.NewArticleView(ctx, *res.Article, h.queries)
	if err != nil {
		h.logger.Error("building article view", "article_id", res.Article.ID, "error", err)
		h.renderError(w, r, http.StatusServiceUnavailable,
			"Baza danych niedostępna", "Prosimy spróbować ponownie za chwilę.")
		return
	}

	h.counter.Record(res.Article.ID)

	data := h.baseData(r, res)
	data.Title = res.Article.Title
	data.Preview = res.Preview
	data.Data = view
	h.render(w, r, "page", data)
}

func (h *FrontendHandler) renderStaticPage(w http.ResponseWriter, r *http.Request, res *service.Resolution) {
	data := h.baseData(r, res)
	data.Title = res.StaticPage.Title
	data.Data = res.StaticPage
	h.render(w, r, "static-page", data)
}

func (h *FrontendHandler) renderList(w http.ResponseWriter, r *http.Request, res *service.Resolution) {
	// Articles in a list link through the section root so the resolver can
	// claim them back on click.
	rootSlug := res.MenuItem.Slug
	if res.Parent != nil {
		rootSlug = res.Parent.Slug
	}

	pagination := uikit.BuildPagination(res.CurrentPage, res.TotalCount, service.ListPageSize, r.URL.Path)

	data := h.baseData(r, res)
	data.Title = res.MenuItem.Title
	data.Pagination = &pagination
	data.Data = struct {
		MenuTitle        string
		Articles         []store.Article
		ArticleURLPrefix string
		ShowExcerpts     bool
	}{
		MenuTitle:        res.MenuItem.Title,
		Articles:         res.Articles,
		ArticleURLPrefix: "/" + rootSlug + "/",
		ShowExcerpts:     true,
	}
	h.render(w, r, "articles-list", data)
}

func (h *FrontendHandler) renderNotFound(w http.ResponseWriter, r *http.Request) {
	h.renderError(w, r, http.StatusNotFound,
		"Strona nie znaleziona", "Strona o podanym adresie nie istnieje lub została usunięta.")
}

func (h *FrontendHandler) renderError(w http.ResponseWriter, r *http.Request, status int, heading, message string) {
	data := h.baseDataBare(r)
	data.Title = heading
	data.Data = struct {
		Heading string
		Message string
	}{heading, message}

	if err := h.renderer.Render(w, status, "error", data); err != nil {
		h.logger.Error("rendering error page", "error", err)
		http.Error(w, heading, status)
	}
}

func (h *FrontendHandler) render(w http.ResponseWriter, r *http.Request, name string, data render.TemplateData) {
	if err := h.renderer.Render(w, http.StatusOK, name, data); err != nil {
		h.logger.Error("rendering template", "template", name, "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}

// baseData fills the fields every frontend template expects.
func (h *FrontendHandler) baseData(r *http.Request, res *service.Resolution) render.TemplateData {
	data := h.baseDataBare(r)
	data.Breadcrumbs = res.Breadcrumbs
	return data
}

// baseDataBare builds template data without a resolution, for error pages.
// The menu and site name are cached, so a rendering path that reaches this
// point rarely touches the database again.
func (h *FrontendHandler) baseDataBare(r *http.Request) render.TemplateData {
	ctx := r.Context()
	data := render.TemplateData{CurrentPath: r.URL.Path}

	tree, err := h.menus.Tree(ctx)
	if err != nil {
		h.logger.Error("loading menu tree", "error", err)
	} else {
		data.Menu = tree
	}

	if name, ok, err := h.settings.Get(ctx, store.SettingSiteName); err == nil && ok && name != "" {
		data.SiteName = name
	}

	return data
}
