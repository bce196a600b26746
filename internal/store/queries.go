// Copyright (c) 2025-2026 Powiatowy Inspektorat Weterynarii w Piszu
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"time"
)

// DBTX is the subset of database/sql used by Queries, satisfied by both
// *sql.DB and *sql.Tx.
type DBTX interface {
	ExecContext(context.Context, string, ...any) (sql.Result, error)
	QueryContext(context.Context, string, ...any) (*sql.Rows, error)
	QueryRowContext(context.Context, string, ...any) *sql.Row
}

// Queries provides typed access to the portal schema.
type Queries struct {
	db DBTX
}

// New creates a Queries instance bound to the given database handle.
func New(db DBTX) *Queries {
	return &Queries{db: db}
}

// WithTx returns Queries bound to the given transaction.
func (q *Queries) WithTx(tx *sql.Tx) *Queries {
	return &Queries{db: tx}
}

const menuItemColumns = `id, title, slug, parent_id, sort_order, display_mode,
	show_excerpts, is_active, hidden, created_at, updated_at`

func scanMenuItem(row interface{ Scan(...any) error }) (MenuItem, error) {
	var m MenuItem
	err := row.Scan(&m.ID, &m.Title, &m.Slug, &m.ParentID, &m.SortOrder,
		&m.DisplayMode, &m.ShowExcerpts, &m.IsActive, &m.Hidden,
		&m.CreatedAt, &m.UpdatedAt)
	return m, err
}

// GetActiveMenuItems returns all resolvable menu entries, roots first, each
// group ordered by sort order then id. This ordering is load-bearing: the
// tree builder relies on it.
func (q *Queries) GetActiveMenuItems(ctx context.Context) ([]MenuItem, error) {
	rows, err := q.db.QueryContext(ctx, `
		SELECT `+menuItemColumns+`
		FROM menu_items
		WHERE is_active = 1 AND hidden = 0
		ORDER BY (parent_id IS NULL) DESC, sort_order ASC, id ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []MenuItem
	for rows.Next() {
		m, err := scanMenuItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, m)
	}
	return items, rows.Err()
}

// GetMenuItemByID looks up an active menu item regardless of its hidden flag.
// The numeric /menu/{id} endpoint uses this, matching the legacy behavior of
// resolving hidden-but-active items by id.
func (q *Queries) GetMenuItemByID(ctx context.Context, id int64) (MenuItem, error) {
	row := q.db.QueryRowContext(ctx, `
		SELECT `+menuItemColumns+`
		FROM menu_items
		WHERE id = ? AND is_active = 1`, id)
	return scanMenuItem(row)
}

// ListMenuItems returns every menu item for the admin API.
func (q *Queries) ListMenuItems(ctx context.Context) ([]MenuItem, error) {
	rows, err := q.db.QueryContext(ctx, `
		SELECT `+menuItemColumns+`
		FROM menu_items
		ORDER BY (parent_id IS NULL) DESC, sort_order ASC, id ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []MenuItem
	for rows.Next() {
		m, err := scanMenuItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, m)
	}
	return items, rows.Err()
}

// CreateMenuItemParams holds fields for menu item creation.
type CreateMenuItemParams struct {
	Title        string
	Slug         string
	ParentID     sql.NullInt64
	SortOrder    int64
	DisplayMode  sql.NullString
	ShowExcerpts bool
	IsActive     bool
	Hidden       bool
}

// CreateMenuItem inserts a menu item and returns it.
func (q *Queries) CreateMenuItem(ctx context.Context, arg CreateMenuItemParams) (MenuItem, error) {
	now := time.Now()
	res, err := q.db.ExecContext(ctx, `
		INSERT INTO menu_items (title, slug, parent_id, sort_order, display_mode,
			show_excerpts, is_active, hidden, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		arg.Title, arg.Slug, arg.ParentID, arg.SortOrder, arg.DisplayMode,
		arg.ShowExcerpts, arg.IsActive, arg.Hidden, now, now)
	if err != nil {
		return MenuItem{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return MenuItem{}, err
	}
	row := q.db.QueryRowContext(ctx,
		`SELECT `+menuItemColumns+` FROM menu_items WHERE id = ?`, id)
	return scanMenuItem(row)
}

// UpdateMenuItemParams holds fields for menu item updates.
type UpdateMenuItemParams struct {
	ID           int64
	Title        string
	Slug         string
	ParentID     sql.NullInt64
	SortOrder    int64
	DisplayMode  sql.NullString
	ShowExcerpts bool
	IsActive     bool
	Hidden       bool
}

// UpdateMenuItem rewrites a menu item row.
func (q *Queries) UpdateMenuItem(ctx context.Context, arg UpdateMenuItemParams) error {
	_, err := q.db.ExecContext(ctx, `
		UPDATE menu_items
		SET title = ?, slug = ?, parent_id = ?, sort_order = ?, display_mode = ?,
			show_excerpts = ?, is_active = ?, hidden = ?, updated_at = ?
		WHERE id = ?`,
		arg.Title, arg.Slug, arg.ParentID, arg.SortOrder, arg.DisplayMode,
		arg.ShowExcerpts, arg.IsActive, arg.Hidden, time.Now(), arg.ID)
	return err
}

// DeleteMenuItem removes a menu item.
func (q *Queries) DeleteMenuItem(ctx context.Context, id int64) error {
	_, err := q.db.ExecContext(ctx, `DELETE FROM menu_items WHERE id = ?`, id)
	return err
}

const articleColumns = `id, title, slug, body, excerpt, status, menu_item_id,
	responsible_person, created_by, published_by, updated_by, published_at,
	created_at, updated_at, view_count`

func scanArticle(row interface{ Scan(...any) error }) (Article, error) {
	var a Article
	err := row.Scan(&a.ID, &a.Title, &a.Slug, &a.Body, &a.Excerpt, &a.Status,
		&a.MenuItemID, &a.ResponsiblePerson, &a.CreatedBy, &a.PublishedBy,
		&a.UpdatedBy, &a.PublishedAt, &a.CreatedAt, &a.UpdatedAt, &a.ViewCount)
	return a, err
}

func (q *Queries) queryArticles(ctx context.Context, query string, args ...any) ([]Article, error) {
	rows, err := q.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var articles []Article
	for rows.Next() {
		a, err := scanArticle(rows)
		if err != nil {
			return nil, err
		}
		articles = append(articles, a)
	}
	return articles, rows.Err()
}

// GetPublishedArticleBySlug returns the published article with the given slug.
func (q *Queries) GetPublishedArticleBySlug(ctx context.Context, slug string) (Article, error) {
	row := q.db.QueryRowContext(ctx, `
		SELECT `+articleColumns+`
		FROM articles
		WHERE slug = ? AND status = 'published'`, slug)
	return scanArticle(row)
}

// GetArticleByID returns an article regardless of status.
func (q *Queries) GetArticleByID(ctx context.Context, id int64) (Article, error) {
	row := q.db.QueryRowContext(ctx,
		`SELECT `+articleColumns+` FROM articles WHERE id = ?`, id)
	return scanArticle(row)
}

// ListArticlesByMenuItemParams selects a page of articles under a menu item.
type ListArticlesByMenuItemParams struct {
	MenuItemID int64
	Limit      int64
	Offset     int64
}

// ListArticlesByMenuItem returns published articles assigned to a menu item,
// newest publication first.
func (q *Queries) ListArticlesByMenuItem(ctx context.Context, arg ListArticlesByMenuItemParams) ([]Article, error) {
	return q.queryArticles(ctx, `
		SELECT `+articleColumns+`
		FROM articles
		WHERE menu_item_id = ? AND status = 'published'
		ORDER BY published_at DESC, created_at DESC
		LIMIT ? OFFSET ?`, arg.MenuItemID, arg.Limit, arg.Offset)
}

// ListAnyArticlesByMenuItem returns articles of any status for a menu item.
// Backs the draft preview fallback, which only needs the newest one.
func (q *Queries) ListAnyArticlesByMenuItem(ctx context.Context, menuItemID, limit int64) ([]Article, error) {
	return q.queryArticles(ctx, `
		SELECT `+articleColumns+`
		FROM articles
		WHERE menu_item_id = ?
		ORDER BY published_at DESC, created_at DESC
		LIMIT ?`, menuItemID, limit)
}

// CountArticlesByMenuItem counts published articles under a menu item.
func (q *Queries) CountArticlesByMenuItem(ctx context.Context, menuItemID int64) (int64, error) {
	var count int64
	err := q.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM articles
		WHERE menu_item_id = ? AND status = 'published'`, menuItemID).Scan(&count)
	return count, err
}

// GetFirstPublishedArticle returns the published article with the lowest id.
// Homepage fallback when no home_page setting exists.
func (q *Queries) GetFirstPublishedArticle(ctx context.Context) (Article, error) {
	row := q.db.QueryRowContext(ctx, `
		SELECT `+articleColumns+`
		FROM articles
		WHERE status = 'published'
		ORDER BY id ASC
		LIMIT 1`)
	return scanArticle(row)
}

// ListRecentArticles returns the most recently published articles.
func (q *Queries) ListRecentArticles(ctx context.Context, limit int64) ([]Article, error) {
	return q.queryArticles(ctx, `
		SELECT `+articleColumns+`
		FROM articles
		WHERE status = 'published'
		ORDER BY published_at DESC, created_at DESC
		LIMIT ?`, limit)
}

// ListPublishedArticles returns all published articles, newest update first.
// Used by the sitemap.
func (q *Queries) ListPublishedArticles(ctx context.Context) ([]Article, error) {
	return q.queryArticles(ctx, `
		SELECT `+articleColumns+`
		FROM articles
		WHERE status = 'published'
		ORDER BY updated_at DESC`)
}

// ListAllArticles returns every article for the admin API.
func (q *Queries) ListAllArticles(ctx context.Context) ([]Article, error) {
	return q.queryArticles(ctx, `
		SELECT `+articleColumns+`
		FROM articles
		ORDER BY updated_at DESC`)
}

// CreateArticleParams holds fields for article creation.
type CreateArticleParams struct {
	Title             string
	Slug              string
	Body              string
	Excerpt           sql.NullString
	Status            string
	MenuItemID        sql.NullInt64
	ResponsiblePerson sql.NullString
	CreatedBy         sql.NullInt64
	PublishedBy       sql.NullInt64
	PublishedAt       sql.NullTime
}

// CreateArticle inserts an article and returns it.
func (q *Queries) CreateArticle(ctx context.Context, arg CreateArticleParams) (Article, error) {
	now := time.Now()
	res, err := q.db.ExecContext(ctx, `
		INSERT INTO articles (title, slug, body, excerpt, status, menu_item_id,
			responsible_person, created_by, published_by, published_at,
			created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		arg.Title, arg.Slug, arg.Body, arg.Excerpt, arg.Status, arg.MenuItemID,
		arg.ResponsiblePerson, arg.CreatedBy, arg.PublishedBy, arg.PublishedAt,
		now, now)
	if err != nil {
		return Article{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return Article{}, err
	}
	return q.GetArticleByID(ctx, id)
}

// UpdateArticleParams holds fields for article updates.
type UpdateArticleParams struct {
	ID                int64
	Title             string
	Slug              string
	Body              string
	Excerpt           sql.NullString
	Status            string
	MenuItemID        sql.NullInt64
	ResponsiblePerson sql.NullString
	UpdatedBy         sql.NullInt64
	PublishedBy       sql.NullInt64
	PublishedAt       sql.NullTime
}

// UpdateArticle rewrites an article row.
func (q *Queries) UpdateArticle(ctx context.Context, arg UpdateArticleParams) error {
	_, err := q.db.ExecContext(ctx, `
		UPDATE articles
		SET title = ?, slug = ?, body = ?, excerpt = ?, status = ?,
			menu_item_id = ?, responsible_person = ?, updated_by = ?,
			published_by = ?, published_at = ?, updated_at = ?
		WHERE id = ?`,
		arg.Title, arg.Slug, arg.Body, arg.Excerpt, arg.Status,
		arg.MenuItemID, arg.ResponsiblePerson, arg.UpdatedBy,
		arg.PublishedBy, arg.PublishedAt, time.Now(), arg.ID)
	return err
}

// DeleteArticle removes an article.
func (q *Queries) DeleteArticle(ctx context.Context, id int64) error {
	_, err := q.db.ExecContext(ctx, `DELETE FROM articles WHERE id = ?`, id)
	return err
}

// AddArticleViews adds a view-counter delta to an article. Deltas are
// accumulated in memory and flushed periodically.
func (q *Queries) AddArticleViews(ctx context.Context, id, delta int64) error {
	_, err := q.db.ExecContext(ctx,
		`UPDATE articles SET view_count = view_count + ? WHERE id = ?`, delta, id)
	return err
}

const pageColumns = `id, title, slug, body, status, created_by, published_at,
	created_at, updated_at`

func scanPage(row interface{ Scan(...any) error }) (Page, error) {
	var p Page
	err := row.Scan(&p.ID, &p.Title, &p.Slug, &p.Body, &p.Status, &p.CreatedBy,
		&p.PublishedAt, &p.CreatedAt, &p.UpdatedAt)
	return p, err
}

// GetPublishedPageBySlug returns the published static page with the given slug.
func (q *Queries) GetPublishedPageBySlug(ctx context.Context, slug string) (Page, error) {
	row := q.db.QueryRowContext(ctx, `
		SELECT `+pageColumns+`
		FROM pages
		WHERE slug = ? AND status = 'published'`, slug)
	return scanPage(row)
}

// ListPublishedPages returns all published static pages for the sitemap.
func (q *Queries) ListPublishedPages(ctx context.Context) ([]Page, error) {
	rows, err := q.db.QueryContext(ctx, `
		SELECT `+pageColumns+`
		FROM pages
		WHERE status = 'published'
		ORDER BY updated_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var pages []Page
	for rows.Next() {
		p, err := scanPage(rows)
		if err != nil {
			return nil, err
		}
		pages = append(pages, p)
	}
	return pages, rows.Err()
}

// CreatePageParams holds fields for page creation.
type CreatePageParams struct {
	Title       string
	Slug        string
	Body        string
	Status      string
	CreatedBy   sql.NullInt64
	PublishedAt sql.NullTime
}

// CreatePage inserts a static page and returns it.
func (q *Queries) CreatePage(ctx context.Context, arg CreatePageParams) (Page, error) {
	now := time.Now()
	res, err := q.db.ExecContext(ctx, `
		INSERT INTO pages (title, slug, body, status, created_by, published_at,
			created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		arg.Title, arg.Slug, arg.Body, arg.Status, arg.CreatedBy,
		arg.PublishedAt, now, now)
	if err != nil {
		return Page{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return Page{}, err
	}
	row := q.db.QueryRowContext(ctx,
		`SELECT `+pageColumns+` FROM pages WHERE id = ?`, id)
	return scanPage(row)
}

// GetSetting returns the value of a single site setting.
func (q *Queries) GetSetting(ctx context.Context, key string) (string, error) {
	var value string
	err := q.db.QueryRowContext(ctx,
		`SELECT setting_value FROM site_settings WHERE setting_key = ?`, key).Scan(&value)
	return value, err
}

// ListSettings returns all site settings.
func (q *Queries) ListSettings(ctx context.Context) ([]SiteSetting, error) {
	rows, err := q.db.QueryContext(ctx, `
		SELECT setting_key, setting_value, updated_by, updated_at
		FROM site_settings
		ORDER BY setting_key`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var settings []SiteSetting
	for rows.Next() {
		var s SiteSetting
		if err := rows.Scan(&s.Key, &s.Value, &s.UpdatedBy, &s.UpdatedAt); err != nil {
			return nil, err
		}
		settings = append(settings, s)
	}
	return settings, rows.Err()
}

// UpsertSettingParams holds fields for setting writes.
type UpsertSettingParams struct {
	Key       string
	Value     string
	UpdatedBy sql.NullInt64
}

// UpsertSetting inserts or replaces a site setting.
func (q *Queries) UpsertSetting(ctx context.Context, arg UpsertSettingParams) error {
	_, err := q.db.ExecContext(ctx, `
		INSERT INTO site_settings (setting_key, setting_value, updated_by, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(setting_key) DO UPDATE SET
			setting_value = excluded.setting_value,
			updated_by = excluded.updated_by,
			updated_at = excluded.updated_at`,
		arg.Key, arg.Value, arg.UpdatedBy, time.Now())
	return err
}

const userColumns = `id, email, password_hash, first_name, last_name, role,
	created_at, updated_at`

func scanUser(row interface{ Scan(...any) error }) (User, error) {
	var u User
	err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.FirstName, &u.LastName,
		&u.Role, &u.CreatedAt, &u.UpdatedAt)
	return u, err
}

// GetUserByEmail returns the user with the given email.
func (q *Queries) GetUserByEmail(ctx context.Context, email string) (User, error) {
	row := q.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE email = ?`, email)
	return scanUser(row)
}

// GetUserByID returns the user with the given id.
func (q *Queries) GetUserByID(ctx context.Context, id int64) (User, error) {
	row := q.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = ?`, id)
	return scanUser(row)
}

// CreateUserParams holds fields for user creation.
type CreateUserParams struct {
	Email        string
	PasswordHash string
	FirstName    string
	LastName     string
	Role         string
}

// CreateUser inserts a user and returns it.
func (q *Queries) CreateUser(ctx context.Context, arg CreateUserParams) (User, error) {
	now := time.Now()
	res, err := q.db.ExecContext(ctx, `
		INSERT INTO users (email, password_hash, first_name, last_name, role,
			created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		arg.Email, arg.PasswordHash, arg.FirstName, arg.LastName, arg.Role, now, now)
	if err != nil {
		return User{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return User{}, err
	}
	return q.GetUserByID(ctx, id)
}
