// Copyright (c) 2025-2026 Powiatowy Inspektorat Weterynarii w Piszu
// SPDX-License-Identifier: GPL-3.0-or-later

package seo

import (
	"strings"
	"testing"
	"time"

	"github.com/piwpisz/bip-go/internal/store"
)

func TestSitemap(t *testing.T) {
	updated := time.Date(2026, 2, 14, 10, 0, 0, 0, time.UTC)
	articles := []store.Article{
		{Slug: "nabor-na-stanowisko", UpdatedAt: updated},
	}
	pages := []store.Page{
		{Slug: "deklaracja-dostepnosci", UpdatedAt: updated},
	}

	out, err := Sitemap("https://bip.example.pl/", articles, pages)
	if err != nil {
		t.Fatalf("Sitemap: %v", err)
	}
	s := string(out)

	if !strings.HasPrefix(s, xmlHeader()) {
		t.Errorf("missing XML declaration, got prefix %q", s[:40])
	}
	for _, want := range []string{
		`xmlns="http://www.sitemaps.org/schemas/sitemap/0.9"`,
		"<loc>https://bip.example.pl/</loc>",
		"<loc>https://bip.example.pl/aktualnosci/nabor-na-stanowisko</loc>",
		"<loc>https://bip.example.pl/deklaracja-dostepnosci</loc>",
		"<lastmod>2026-02-14</lastmod>",
	} {
		if !strings.Contains(s, want) {
			t.Errorf("sitemap missing %q", want)
		}
	}
	if strings.Contains(s, "bip.example.pl//") {
		t.Errorf("base URL trailing slash not trimmed:\n%s", s)
	}
}

func TestSitemapEmpty(t *testing.T) {
	out, err := Sitemap("https://bip.example.pl", nil, nil)
	if err != nil {
		t.Fatalf("Sitemap: %v", err)
	}
	// Only the homepage entry.
	if got := strings.Count(string(out), "<url>"); got != 1 {
		t.Errorf("url entries = %d, want 1", got)
	}
}

func xmlHeader() string {
	return "<?xml version="
}
