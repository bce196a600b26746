// Copyright (c) 2025-2026 Powiatowy Inspektorat Weterynarii w Piszu
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/piwpisz/bip-go/internal/uikit"
	"github.com/piwpisz/bip-go/internal/util"
)

// HomeLabel is the first breadcrumb entry on every page.
const HomeLabel = "Strona główna"

// NewsRootSlug is the root menu slug carrying the news section. Its category
// views are addressed with the kategoria query parameter.
const NewsRootSlug = "aktualnosci"

// BuildBreadcrumbs derives the breadcrumb trail for a path. It is a pure
// function of its inputs: the trail always starts at home, exactly the last
// entry is active, and articleTitle (when non-empty) wins over a structural
// match as the final entry.
func BuildBreadcrumbs(path string, query url.Values, tree []MenuNode, articleTitle string) []uikit.Breadcrumb {
	crumbs := []uikit.Breadcrumb{{Label: HomeLabel, URL: "/"}}

	if path == "/" {
		crumbs[0].Active = true
		return crumbs
	}

	if parentSlug, childSlug, ok := splitHierarchical(path); ok {
		if root := FindRootBySlug(tree, parentSlug); root != nil {
			crumbs = append(crumbs, uikit.Breadcrumb{Label: root.Title, URL: "/" + root.Slug})

			if child := FindChildBySlug(root, childSlug); child != nil {
				if articleTitle != "" {
					crumbs = append(crumbs,
						uikit.Breadcrumb{Label: child.Title, URL: "/" + root.Slug + "/" + child.Slug},
						uikit.Breadcrumb{Label: articleTitle, Active: true})
				} else {
					crumbs = append(crumbs, uikit.Breadcrumb{Label: child.Title, Active: true})
				}
				return crumbs
			}

			// No submenu match: a direct article under the root.
			label := articleTitle
			if label == "" {
				label = util.FormatSlugTitle(childSlug)
			}
			return append(crumbs, uikit.Breadcrumb{Label: label, Active: true})
		}
	}

	if match := findByPath(tree, path, query); match != nil {
		if match.Parent != nil {
			crumbs = append(crumbs,
				uikit.Breadcrumb{Label: match.Parent.Title, URL: "/" + match.Parent.Slug},
				uikit.Breadcrumb{Label: match.Node.Title, Active: true})
		} else {
			crumbs = append(crumbs, uikit.Breadcrumb{Label: match.Node.Title, Active: true})
		}
		return crumbs
	}

	// Slug-derived fallback. For hierarchical paths under an unknown root
	// only the final segment is formatted.
	slug := strings.TrimPrefix(path, "/")
	if _, child, ok := splitHierarchical(path); ok {
		slug = child
	}
	if slug != "" {
		crumbs = append(crumbs, uikit.Breadcrumb{Label: util.FormatSlugTitle(slug), Active: true})
	}
	return crumbs
}

// splitHierarchical matches /{parent}/{rest} paths. The rest may itself
// contain slashes.
func splitHierarchical(path string) (parent, child string, ok bool) {
	trimmed := strings.TrimPrefix(path, "/")
	parent, child, found := strings.Cut(trimmed, "/")
	if !found || parent == "" || child == "" {
		return "", "", false
	}
	return parent, child, true
}

// findByPath locates the menu node a flat path refers to. Children are
// checked before their root, so a child slug shadows an identical root slug.
// A bare root slug matches only when the request carries no query parameters,
// except for the news root, where the kategoria parameter selects a child.
func findByPath(tree []MenuNode, path string, query url.Values) *MenuMatch {
	menuID := parseMenuIDPath(path)

	for i := range tree {
		root := &tree[i]

		if menuID != 0 {
			if root.ID == menuID {
				return &MenuMatch{Node: root}
			}
			for j := range root.Children {
				if root.Children[j].ID == menuID {
					return &MenuMatch{Node: &root.Children[j], Parent: root}
				}
			}
		}

		if len(root.Children) > 0 {
			if root.Slug == NewsRootSlug && path == "/"+NewsRootSlug {
				if kategoria := query.Get("kategoria"); kategoria != "" {
					if child := FindChildBySlug(root, kategoria); child != nil {
						return &MenuMatch{Node: child, Parent: root}
					}
				}
			}

			for j := range root.Children {
				if "/"+root.Children[j].Slug == path {
					return &MenuMatch{Node: &root.Children[j], Parent: root}
				}
			}
		}

		if "/"+root.Slug == path && len(query) == 0 {
			return &MenuMatch{Node: root}
		}
	}
	return nil
}

// parseMenuIDPath extracts the id from /menu/{id} paths, 0 otherwise.
func parseMenuIDPath(path string) int64 {
	rest, ok := strings.CutPrefix(path, "/menu/")
	if !ok {
		return 0
	}
	id, err := strconv.ParseInt(rest, 10, 64)
	if err != nil || id <= 0 {
		return 0
	}
	return id
}
