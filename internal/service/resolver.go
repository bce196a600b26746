// Copyright (c) 2025-2026 Powiatowy Inspektorat Weterynarii w Piszu
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/piwpisz/bip-go/internal/cache"
	"github.com/piwpisz/bip-go/internal/store"
	"github.com/piwpisz/bip-go/internal/uikit"
)

// ListPageSize is the number of articles per list page.
const ListPageSize = 10

// RecentNewsCount is how many recent articles the homepage shows.
const RecentNewsCount = 5

// Mode classifies what a resolved path should render.
type Mode int

const (
	// ModeHomepage renders the home article (possibly absent) with recent news.
	ModeHomepage Mode = iota
	// ModeArticle renders a single article.
	ModeArticle
	// ModePage renders a static page.
	ModePage
	// ModeList renders a paginated article list for a menu item.
	ModeList
	// ModeRedirect issues a permanent redirect to RedirectTo.
	ModeRedirect
)

// Resolution is the outcome of classifying a request path.
type Resolution struct {
	Mode        Mode
	Article     *store.Article
	StaticPage  *store.Page
	Articles    []store.Article
	RecentNews  []store.Article
	MenuItem    *MenuNode
	Parent      *MenuNode
	CurrentPage int
	TotalPages  int
	TotalCount  int64
	RedirectTo  string
	Breadcrumbs []uikit.Breadcrumb
	// Preview marks a draft article served through the fallback for
	// menu items without published content.
	Preview bool
}

// ResolverStore is the storage surface the resolver reads from. Implemented
// by *store.Queries.
type ResolverStore interface {
	GetPublishedArticleBySlug(ctx context.Context, slug string) (store.Article, error)
	ListArticlesByMenuItem(ctx context.Context, arg store.ListArticlesByMenuItemParams) ([]store.Article, error)
	ListAnyArticlesByMenuItem(ctx context.Context, menuItemID, limit int64) ([]store.Article, error)
	CountArticlesByMenuItem(ctx context.Context, menuItemID int64) (int64, error)
	GetFirstPublishedArticle(ctx context.Context) (store.Article, error)
	ListRecentArticles(ctx context.Context, limit int64) ([]store.Article, error)
	GetMenuItemByID(ctx context.Context, id int64) (store.MenuItem, error)
	GetPublishedPageBySlug(ctx context.Context, slug string) (store.Page, error)
}

// PathResolver classifies request paths into content modes. Rules are tried
// in a fixed order; the first one that produces a resolution wins, and a rule
// that does not apply falls through to the next.
type PathResolver struct {
	store           ResolverStore
	menus           *MenuService
	settings        *cache.SettingsCache
	previewFallback bool
	rules           []resolveRule
}

type resolveRule struct {
	name string
	fn   func(ctx context.Context, rc *resolveContext) (*Resolution, error)
}

// resolveContext carries per-request state through the rule chain.
type resolveContext struct {
	path  string
	query url.Values
	page  int
	tree  []MenuNode
}

// NewPathResolver wires the resolver with its collaborators. previewFallback
// lets menu items without published content serve their newest draft.
func NewPathResolver(st ResolverStore, menus *MenuService, settings *cache.SettingsCache, previewFallback bool) *PathResolver {
	r := &PathResolver{
		store:           st,
		menus:           menus,
		settings:        settings,
		previewFallback: previewFallback,
	}
	r.rules = []resolveRule{
		{"homepage", r.resolveHomepage},
		{"news-article", r.resolveNewsArticle},
		{"menu-list", r.resolveMenuList},
		{"menu-single", r.resolveMenuSingle},
		{"direct-slug", r.resolveDirectSlug},
		{"hierarchical", r.resolveHierarchical},
		{"menu-id", r.resolveMenuID},
	}
	return r
}

// Resolve classifies a path. It returns ErrNotFound when no rule matches and
// ErrStorageUnavailable when the database fails mid-resolution.
func (r *PathResolver) Resolve(ctx context.Context, path string, query url.Values) (*Resolution, error) {
	path = normalizePath(path)

	tree, err := r.menus.Tree(ctx)
	if err != nil {
		return nil, storageErr(err)
	}

	rc := &resolveContext{
		path:  path,
		query: query,
		page:  parsePage(query),
		tree:  tree,
	}

	for _, rule := range r.rules {
		res, err := rule.fn(ctx, rc)
		if err != nil {
			return nil, fmt.Errorf("rule %s: %w", rule.name, err)
		}
		if res != nil {
			return res, nil
		}
	}
	return nil, ErrNotFound
}

// resolveHomepage handles the bare root path. The home article comes from the
// home_page setting, or failing that the oldest published article. A homepage
// without an article still renders.
func (r *PathResolver) resolveHomepage(ctx context.Context, rc *resolveContext) (*Resolution, error) {
	if rc.path != "/" {
		return nil, nil
	}

	var article *store.Article
	slug, ok, err := r.settings.Get(ctx, store.SettingHomePage)
	if err != nil {
		return nil, storageErr(err)
	}
	if ok && slug != "" {
		a, err := r.store.GetPublishedArticleBySlug(ctx, slug)
		switch {
		case err == nil:
			article = &a
		case !errors.Is(err, sql.ErrNoRows):
			return nil, storageErr(err)
		}
	} else {
		a, err := r.store.GetFirstPublishedArticle(ctx)
		switch {
		case err == nil:
			article = &a
		case !errors.Is(err, sql.ErrNoRows):
			return nil, storageErr(err)
		}
	}

	recent, err := r.store.ListRecentArticles(ctx, RecentNewsCount)
	if err != nil {
		return nil, storageErr(err)
	}

	return &Resolution{
		Mode:        ModeHomepage,
		Article:     article,
		RecentNews:  recent,
		Breadcrumbs: BuildBreadcrumbs("/", rc.query, rc.tree, ""),
	}, nil
}

// resolveNewsArticle handles /aktualnosci/{slug}. A miss on the article slug
// falls through so hierarchical rules can still claim the path.
func (r *PathResolver) resolveNewsArticle(ctx context.Context, rc *resolveContext) (*Resolution, error) {
	slug, ok := strings.CutPrefix(rc.path, "/"+NewsRootSlug+"/")
	if !ok || slug == "" {
		return nil, nil
	}

	article, err := r.store.GetPublishedArticleBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, storageErr(err)
	}

	crumbs := []uikit.Breadcrumb{
		{Label: HomeLabel, URL: "/"},
		{Label: "Aktualności", URL: "/" + NewsRootSlug},
	}
	if article.MenuItemID.Valid {
		if root := FindRootBySlug(rc.tree, NewsRootSlug); root != nil {
			for i := range root.Children {
				if root.Children[i].ID == article.MenuItemID.Int64 {
					crumbs = append(crumbs, uikit.Breadcrumb{
						Label: root.Children[i].Title,
						URL:   "/" + NewsRootSlug + "?kategoria=" + url.QueryEscape(root.Children[i].Slug),
					})
					break
				}
			}
		}
	}
	crumbs = append(crumbs, uikit.Breadcrumb{Label: article.Title, Active: true})

	return &Resolution{
		Mode:        ModeArticle,
		Article:     &article,
		Breadcrumbs: crumbs,
	}, nil
}

// resolveMenuList handles flat paths naming a menu item in list mode. Roots
// take precedence; a slug matching no root is tried against every root's
// children, where an unset mode already means list.
func (r *PathResolver) resolveMenuList(ctx context.Context, rc *resolveContext) (*Resolution, error) {
	slug, ok := flatSlug(rc.path)
	if !ok {
		return nil, nil
	}

	if root := FindRootBySlug(rc.tree, slug); root != nil {
		if EffectiveRootMode(root.MenuItem) != store.DisplayModeList {
			return nil, nil
		}
		return r.listResolution(ctx, rc, root, nil)
	}

	for i := range rc.tree {
		parent := &rc.tree[i]
		if child := FindChildBySlug(parent, slug); child != nil &&
			EffectiveChildMode(child.MenuItem) == store.DisplayModeList {
			return r.listResolution(ctx, rc, child, parent)
		}
	}
	return nil, nil
}

// resolveMenuSingle handles flat paths naming a root menu item in single
// article mode. No published article is terminal: either the draft preview
// fallback applies or the visitor gets a 404.
func (r *PathResolver) resolveMenuSingle(ctx context.Context, rc *resolveContext) (*Resolution, error) {
	slug, ok := flatSlug(rc.path)
	if !ok {
		return nil, nil
	}

	root := FindRootBySlug(rc.tree, slug)
	if root == nil {
		return nil, nil
	}
	switch EffectiveRootMode(root.MenuItem) {
	case store.DisplayModeArticle, store.DisplayModeSingle:
	default:
		return nil, nil
	}

	articles, err := r.store.ListArticlesByMenuItem(ctx, store.ListArticlesByMenuItemParams{
		MenuItemID: root.ID, Limit: 1, Offset: 0,
	})
	if err != nil {
		return nil, storageErr(err)
	}

	preview := false
	if len(articles) == 0 && r.previewFallback {
		articles, err = r.store.ListAnyArticlesByMenuItem(ctx, root.ID, 1)
		if err != nil {
			return nil, storageErr(err)
		}
		preview = len(articles) > 0
	}
	if len(articles) == 0 {
		return nil, ErrNotFound
	}

	article := articles[0]
	return &Resolution{
		Mode:     ModeArticle,
		Article:  &article,
		MenuItem: root,
		Preview:  preview,
		Breadcrumbs: []uikit.Breadcrumb{
			{Label: HomeLabel, URL: "/"},
			{Label: article.Title, Active: true},
		},
	}, nil
}

// resolveDirectSlug handles flat paths that match no menu item: first as an
// article slug, then as a static page slug.
func (r *PathResolver) resolveDirectSlug(ctx context.Context, rc *resolveContext) (*Resolution, error) {
	slug, ok := flatSlug(rc.path)
	if !ok {
		return nil, nil
	}

	article, err := r.store.GetPublishedArticleBySlug(ctx, slug)
	if err == nil {
		return &Resolution{
			Mode:    ModeArticle,
			Article: &article,
			Breadcrumbs: []uikit.Breadcrumb{
				{Label: HomeLabel, URL: "/"},
				{Label: article.Title, Active: true},
			},
		}, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, storageErr(err)
	}

	page, err := r.store.GetPublishedPageBySlug(ctx, slug)
	if err == nil {
		return &Resolution{
			Mode:       ModePage,
			StaticPage: &page,
			Breadcrumbs: []uikit.Breadcrumb{
				{Label: HomeLabel, URL: "/"},
				{Label: page.Title, Active: true},
			},
		}, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, storageErr(err)
	}
	return nil, nil
}

// resolveHierarchical handles /{parentSlug}/{childSlug}. A child in list mode
// (or with no mode set) renders a scoped list; otherwise the child slug is
// tried as an article.
func (r *PathResolver) resolveHierarchical(ctx context.Context, rc *resolveContext) (*Resolution, error) {
	parentSlug, childSlug, ok := splitHierarchical(rc.path)
	if !ok || strings.Contains(childSlug, "/") {
		return nil, nil
	}

	parent := FindRootBySlug(rc.tree, parentSlug)

	if parent != nil {
		if child := FindChildBySlug(parent, childSlug); child != nil &&
			EffectiveChildMode(child.MenuItem) == store.DisplayModeList {
			return r.listResolution(ctx, rc, child, parent)
		}
	}

	article, err := r.store.GetPublishedArticleBySlug(ctx, childSlug)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, storageErr(err)
	}

	crumbs := []uikit.Breadcrumb{{Label: HomeLabel, URL: "/"}}
	if parent != nil {
		crumbs = append(crumbs, uikit.Breadcrumb{Label: parent.Title, URL: "/" + parent.Slug})

		// Category crumb: prefer the article's own menu item, fall back
		// to the child slug.
		var sub *MenuNode
		if article.MenuItemID.Valid {
			if m := FindByID(rc.tree, article.MenuItemID.Int64); m != nil && m.Parent != nil {
				sub = m.Node
			}
		}
		if sub == nil {
			sub = FindChildBySlug(parent, childSlug)
		}
		if sub != nil {
			crumbs = append(crumbs, uikit.Breadcrumb{
				Label: sub.Title,
				URL:   "/" + parent.Slug + "/" + sub.Slug,
			})
		}
	}
	crumbs = append(crumbs, uikit.Breadcrumb{Label: article.Title, Active: true})

	return &Resolution{
		Mode:        ModeArticle,
		Article:     &article,
		Parent:      parent,
		Breadcrumbs: crumbs,
	}, nil
}

// resolveMenuID handles the legacy /menu/{id} endpoint. An item without
// published articles, or one not in article mode, redirects permanently to
// its slug path. A non-numeric id falls through and ends at 404.
func (r *PathResolver) resolveMenuID(ctx context.Context, rc *resolveContext) (*Resolution, error) {
	rest, ok := strings.CutPrefix(rc.path, "/menu/")
	if !ok {
		return nil, nil
	}
	id, err := strconv.ParseInt(rest, 10, 64)
	if err != nil || id <= 0 {
		return nil, nil
	}

	item, err := r.store.GetMenuItemByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, storageErr(err)
	}

	count, err := r.store.CountArticlesByMenuItem(ctx, item.ID)
	if err != nil {
		return nil, storageErr(err)
	}
	if count == 0 {
		return &Resolution{Mode: ModeRedirect, RedirectTo: "/" + item.Slug}, nil
	}

	if item.Mode() != store.DisplayModeArticle {
		return &Resolution{Mode: ModeRedirect, RedirectTo: "/" + item.Slug}, nil
	}

	articles, err := r.store.ListArticlesByMenuItem(ctx, store.ListArticlesByMenuItemParams{
		MenuItemID: item.ID, Limit: 1, Offset: 0,
	})
	if err != nil {
		return nil, storageErr(err)
	}
	if len(articles) == 0 {
		return nil, ErrNotFound
	}

	article := articles[0]
	return &Resolution{
		Mode:    ModeArticle,
		Article: &article,
		Breadcrumbs: []uikit.Breadcrumb{
			{Label: HomeLabel, URL: "/"},
			{Label: article.Title, Active: true},
		},
	}, nil
}

// listResolution paginates a menu item's published articles. A page past the
// end yields an empty list, never an error.
func (r *PathResolver) listResolution(ctx context.Context, rc *resolveContext, item, parent *MenuNode) (*Resolution, error) {
	offset := int64(rc.page-1) * ListPageSize

	articles, err := r.store.ListArticlesByMenuItem(ctx, store.ListArticlesByMenuItemParams{
		MenuItemID: item.ID, Limit: ListPageSize, Offset: offset,
	})
	if err != nil {
		return nil, storageErr(err)
	}
	total, err := r.store.CountArticlesByMenuItem(ctx, item.ID)
	if err != nil {
		return nil, storageErr(err)
	}

	crumbs := []uikit.Breadcrumb{{Label: HomeLabel, URL: "/"}}
	if parent != nil {
		crumbs = append(crumbs, uikit.Breadcrumb{Label: parent.Title, URL: "/" + parent.Slug})
	}
	crumbs = append(crumbs, uikit.Breadcrumb{Label: item.Title, Active: true})

	return &Resolution{
		Mode:        ModeList,
		Articles:    articles,
		MenuItem:    item,
		Parent:      parent,
		CurrentPage: rc.page,
		TotalPages:  uikit.CalculateTotalPages(int(total), ListPageSize),
		TotalCount:  total,
		Breadcrumbs: crumbs,
	}, nil
}

// flatSlug extracts the single segment of a flat path.
func flatSlug(path string) (string, bool) {
	slug := strings.TrimPrefix(path, "/")
	if slug == "" || strings.Contains(slug, "/") {
		return "", false
	}
	return slug, true
}

// normalizePath strips a trailing slash from non-root paths.
func normalizePath(path string) string {
	if path == "" {
		return "/"
	}
	if len(path) > 1 {
		path = strings.TrimRight(path, "/")
		if path == "" {
			return "/"
		}
	}
	return path
}

// parsePage reads the page query parameter, defaulting to 1 on anything
// malformed or non-positive.
func parsePage(query url.Values) int {
	raw := query.Get("page")
	if raw == "" {
		return 1
	}
	page, err := strconv.Atoi(raw)
	if err != nil || page < 1 {
		return 1
	}
	return page
}

func storageErr(err error) error {
	return fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
}
