// Copyright (c) 2025-2026 Powiatowy Inspektorat Weterynarii w Piszu
// SPDX-License-Identifier: GPL-3.0-or-later

// Package seo generates the sitemap for search engines.
package seo

import (
	"encoding/xml"
	"strings"

	"github.com/piwpisz/bip-go/internal/store"
)

const sitemapNS = "http://www.sitemaps.org/schemas/sitemap/0.9"

type urlSet struct {
	XMLName xml.Name   `xml:"urlset"`
	XMLNS   string     `xml:"xmlns,attr"`
	URLs    []urlEntry `xml:"url"`
}

type urlEntry struct {
	Loc        string `xml:"loc"`
	LastMod    string `xml:"lastmod,omitempty"`
	ChangeFreq string `xml:"changefreq,omitempty"`
}

// Sitemap renders the sitemap XML for the published content set. appURL is
// the site's absolute base URL without a trailing slash.
func Sitemap(appURL string, articles []store.Article, pages []store.Page) ([]byte, error) {
	appURL = strings.TrimRight(appURL, "/")

	set := urlSet{XMLNS: sitemapNS}
	set.URLs = append(set.URLs, urlEntry{Loc: appURL + "/", ChangeFreq: "daily"})

	for _, a := range articles {
		set.URLs = append(set.URLs, urlEntry{
			Loc:     appURL + "/aktualnosci/" + a.Slug,
			LastMod: a.UpdatedAt.Format("2006-01-02"),
		})
	}
	for _, p := range pages {
		set.URLs = append(set.URLs, urlEntry{
			Loc:     appURL + "/" + p.Slug,
			LastMod: p.UpdatedAt.Format("2006-01-02"),
		})
	}

	out, err := xml.MarshalIndent(set, "", "  ")
	if err != nil {
		return nil, err
	}
	return append([]byte(xml.Header), out...), nil
}
