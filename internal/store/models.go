// Copyright (c) 2025-2026 Powiatowy Inspektorat Weterynarii w Piszu
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"database/sql"
	"time"
)

// Article statuses.
const (
	StatusDraft     = "draft"
	StatusPublished = "published"
)

// Menu display modes. An empty/NULL mode is intentionally valid: it means
// "single article" for a root item and "list" for a submenu item.
const (
	DisplayModeList    = "list"
	DisplayModeArticle = "article"
	DisplayModeSingle  = "single"
)

// Well-known site setting keys.
const (
	SettingHomePage = "home_page"
	SettingSiteName = "site_name"
)

// MenuItem is a navigational node, optionally nested one level under a root.
type MenuItem struct {
	ID           int64
	Title        string
	Slug         string
	ParentID     sql.NullInt64
	SortOrder    int64
	DisplayMode  sql.NullString
	ShowExcerpts bool
	IsActive     bool
	Hidden       bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// IsRoot reports whether the item sits at the top level of the menu.
func (m MenuItem) IsRoot() bool {
	return !m.ParentID.Valid
}

// Mode returns the raw display mode, empty when unset.
func (m MenuItem) Mode() string {
	if m.DisplayMode.Valid {
		return m.DisplayMode.String
	}
	return ""
}

// Article is the primary content entity of the portal.
type Article struct {
	ID                int64
	Title             string
	Slug              string
	Body              string
	Excerpt           sql.NullString
	Status            string
	MenuItemID        sql.NullInt64
	ResponsiblePerson sql.NullString
	CreatedBy         sql.NullInt64
	PublishedBy       sql.NullInt64
	UpdatedBy         sql.NullInt64
	PublishedAt       sql.NullTime
	CreatedAt         time.Time
	UpdatedAt         time.Time
	ViewCount         int64
}

// IsPublished reports whether the article is visible to anonymous visitors.
func (a Article) IsPublished() bool {
	return a.Status == StatusPublished
}

// Page is a static content page, resolvable by slug and listed in the sitemap.
type Page struct {
	ID          int64
	Title       string
	Slug        string
	Body        string
	Status      string
	CreatedBy   sql.NullInt64
	PublishedAt sql.NullTime
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// SiteSetting is a single key/value configuration row.
type SiteSetting struct {
	Key       string
	Value     string
	UpdatedBy sql.NullInt64
	UpdatedAt time.Time
}

// User is an admin back-office account.
type User struct {
	ID           int64
	Email        string
	PasswordHash string
	FirstName    string
	LastName     string
	Role         string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// FullName returns the user's display name for the article metryczka.
func (u User) FullName() string {
	switch {
	case u.FirstName != "" && u.LastName != "":
		return u.FirstName + " " + u.LastName
	case u.FirstName != "":
		return u.FirstName
	default:
		return u.LastName
	}
}
