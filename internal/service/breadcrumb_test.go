// Copyright (c) 2025-2026 Powiatowy Inspektorat Weterynarii w Piszu
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"net/url"
	"testing"

	"github.com/piwpisz/bip-go/internal/uikit"
)

func assertTrail(t *testing.T, got []uikit.Breadcrumb, labels ...string) {
	t.Helper()
	if len(got) != len(labels) {
		t.Fatalf("trail %v, want labels %v", got, labels)
	}
	for i, label := range labels {
		if got[i].Label != label {
			t.Errorf("crumb[%d].Label = %q, want %q", i, got[i].Label, label)
		}
		wantActive := i == len(labels)-1
		if got[i].Active != wantActive {
			t.Errorf("crumb[%d].Active = %v, want %v", i, got[i].Active, wantActive)
		}
	}
	if got[0].URL != "/" {
		t.Errorf("crumb[0].URL = %q, want /", got[0].URL)
	}
}

func TestBreadcrumbsHome(t *testing.T) {
	got := BuildBreadcrumbs("/", nil, testTree(), "")
	assertTrail(t, got, HomeLabel)
}

func TestBreadcrumbsRootItem(t *testing.T) {
	got := BuildBreadcrumbs("/o-nas", url.Values{}, testTree(), "")
	assertTrail(t, got, HomeLabel, "O nas")
}

func TestBreadcrumbsRootSkippedWithQueryParams(t *testing.T) {
	// A root slug with query parameters is not a structural match; the
	// trail falls back to the formatted slug.
	got := BuildBreadcrumbs("/o-nas", url.Values{"page": {"2"}}, testTree(), "")
	assertTrail(t, got, HomeLabel, "O Nas")
}

func TestBreadcrumbsChildBeforeRoot(t *testing.T) {
	tree := testTree()
	// Flat child slug resolves to parent+child even though a root scan
	// would miss it.
	got := BuildBreadcrumbs("/psy", url.Values{}, tree, "")
	assertTrail(t, got, HomeLabel, "Aktualności", "Psy")
}

func TestBreadcrumbsKategoriaParam(t *testing.T) {
	got := BuildBreadcrumbs("/aktualnosci", url.Values{"kategoria": {"psy"}}, testTree(), "")
	assertTrail(t, got, HomeLabel, "Aktualności", "Psy")
}

func TestBreadcrumbsHierarchicalSubmenu(t *testing.T) {
	got := BuildBreadcrumbs("/aktualnosci/psy", url.Values{}, testTree(), "")
	assertTrail(t, got, HomeLabel, "Aktualności", "Psy")
}

func TestBreadcrumbsHierarchicalArticleUnderSubmenu(t *testing.T) {
	got := BuildBreadcrumbs("/aktualnosci/psy", url.Values{}, testTree(), "Wścieklizna u lisów")
	assertTrail(t, got, HomeLabel, "Aktualności", "Psy", "Wścieklizna u lisów")
}

func TestBreadcrumbsHierarchicalArticleNoSubmenu(t *testing.T) {
	got := BuildBreadcrumbs("/aktualnosci/wazny-komunikat", url.Values{}, testTree(), "Ważny komunikat")
	assertTrail(t, got, HomeLabel, "Aktualności", "Ważny komunikat")
}

func TestBreadcrumbsHierarchicalUnknownParent(t *testing.T) {
	got := BuildBreadcrumbs("/nieznany/wpis-testowy", url.Values{}, testTree(), "")
	assertTrail(t, got, HomeLabel, "Wpis Testowy")
}

func TestBreadcrumbsMenuIDPath(t *testing.T) {
	got := BuildBreadcrumbs("/menu/2", url.Values{}, testTree(), "")
	assertTrail(t, got, HomeLabel, "O nas")

	got = BuildBreadcrumbs("/menu/9", url.Values{}, testTree(), "")
	assertTrail(t, got, HomeLabel, "Aktualności", "Psy")
}

func TestBreadcrumbsSlugFallback(t *testing.T) {
	got := BuildBreadcrumbs("/nieistniejaca-strona", url.Values{}, testTree(), "")
	assertTrail(t, got, HomeLabel, "Nieistniejaca Strona")
}
