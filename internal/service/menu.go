// Copyright (c) 2025-2026 Powiatowy Inspektorat Weterynarii w Piszu
// SPDX-License-Identifier: GPL-3.0-or-later

// Package service provides the menu tree, path resolution and breadcrumb
// logic behind the public portal.
package service

import (
	"context"
	"fmt"
	"sort"

	"github.com/piwpisz/bip-go/internal/cache"
	"github.com/piwpisz/bip-go/internal/store"
)

// MenuNode is a menu item decorated with its direct children. The menu is at
// most two levels deep: roots and their children.
type MenuNode struct {
	store.MenuItem
	Children []MenuNode
}

// MenuMatch is the result of an id lookup in the tree. Parent is nil when the
// match is a root item.
type MenuMatch struct {
	Node   *MenuNode
	Parent *MenuNode
}

// MenuService builds and queries the menu tree from the cached flat item set.
type MenuService struct {
	menuCache *cache.MenuCache
}

// NewMenuService creates a menu service on top of the given cache.
func NewMenuService(menuCache *cache.MenuCache) *MenuService {
	return &MenuService{menuCache: menuCache}
}

// Tree returns the current two-level menu structure.
func (s *MenuService) Tree(ctx context.Context) ([]MenuNode, error) {
	items, err := s.menuCache.Items(ctx)
	if err != nil {
		return nil, err
	}
	return BuildStructure(items), nil
}

// BuildStructure partitions a flat item list into roots with attached
// children. Roots keep the flat list's order; children are sorted by sort
// order then id.
func BuildStructure(flat []store.MenuItem) []MenuNode {
	var roots []MenuNode
	childrenByParent := make(map[int64][]store.MenuItem)

	for _, item := range flat {
		if item.IsRoot() {
			roots = append(roots, MenuNode{MenuItem: item})
		} else {
			childrenByParent[item.ParentID.Int64] = append(childrenByParent[item.ParentID.Int64], item)
		}
	}

	for i := range roots {
		kids := childrenByParent[roots[i].ID]
		sort.SliceStable(kids, func(a, b int) bool {
			if kids[a].SortOrder != kids[b].SortOrder {
				return kids[a].SortOrder < kids[b].SortOrder
			}
			return kids[a].ID < kids[b].ID
		})
		for _, kid := range kids {
			roots[i].Children = append(roots[i].Children, MenuNode{MenuItem: kid})
		}
	}

	return roots
}

// FindRootBySlug scans root items only. Child slugs never match here; callers
// needing a child walk root.Children themselves.
func FindRootBySlug(tree []MenuNode, slug string) *MenuNode {
	for i := range tree {
		if tree[i].Slug == slug {
			return &tree[i]
		}
	}
	return nil
}

// FindChildBySlug scans the direct children of a root.
func FindChildBySlug(root *MenuNode, slug string) *MenuNode {
	if root == nil {
		return nil
	}
	for i := range root.Children {
		if root.Children[i].Slug == slug {
			return &root.Children[i]
		}
	}
	return nil
}

// FindByID scans roots and their children. A child match carries its owning
// root as Parent.
func FindByID(tree []MenuNode, id int64) *MenuMatch {
	for i := range tree {
		if tree[i].ID == id {
			return &MenuMatch{Node: &tree[i]}
		}
		for j := range tree[i].Children {
			if tree[i].Children[j].ID == id {
				return &MenuMatch{Node: &tree[i].Children[j], Parent: &tree[i]}
			}
		}
	}
	return nil
}

// EffectiveRootMode returns the display mode of a root-level item. An unset
// mode means a single article here.
func EffectiveRootMode(item store.MenuItem) string {
	mode := item.Mode()
	if mode == "" {
		return store.DisplayModeArticle
	}
	return mode
}

// EffectiveChildMode returns the display mode of a submenu item. An unset
// mode means a list here, not a single article. The asymmetry with root
// items is intentional and load-bearing for existing content.
func EffectiveChildMode(item store.MenuItem) string {
	mode := item.Mode()
	if mode == "" {
		return store.DisplayModeList
	}
	return mode
}

// ItemURL computes the canonical link target for a root menu item. Items in
// article mode link through the numeric endpoint; everything else links by
// slug. Child URLs are composed separately as /{parentSlug}/{childSlug}.
func ItemURL(item store.MenuItem) string {
	if item.Mode() == store.DisplayModeArticle {
		return fmt.Sprintf("/menu/%d", item.ID)
	}
	return "/" + item.Slug
}

// ChildURL computes the link target for a submenu item under its parent.
func ChildURL(parent, child store.MenuItem) string {
	return "/" + parent.Slug + "/" + child.Slug
}
