// Copyright (c) 2025-2026 Powiatowy Inspektorat Weterynarii w Piszu
// SPDX-License-Identifier: GPL-3.0-or-later

package render

import (
	"net/http/httptest"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/piwpisz/bip-go/internal/uikit"
	"github.com/piwpisz/bip-go/web"
)

func newTestRenderer(t *testing.T) *Renderer {
	t.Helper()
	r, err := New(Config{TemplatesFS: web.Templates, SiteName: "BIP Test"})
	require.NoError(t, err)
	return r
}

func TestRenderTitleSuffix(t *testing.T) {
	r := newTestRenderer(t)

	rec := httptest.NewRecorder()
	err := r.Render(rec, 200, "error", TemplateData{
		Title: "Strona nie znaleziona",
		Data:  struct{ Heading, Message string }{"Strona nie znaleziona", "Brak strony."},
	})
	require.NoError(t, err)

	body := rec.Body.String()
	assert.Contains(t, body, "<title>Strona nie znaleziona - BIP Test</title>")
	assert.Contains(t, body, "Brak strony.")
}

func TestRenderDefaultsTitleToSiteName(t *testing.T) {
	r := newTestRenderer(t)

	rec := httptest.NewRecorder()
	err := r.Render(rec, 200, "home", TemplateData{
		Data: struct {
			Article    any
			RecentNews any
		}{},
	})
	require.NoError(t, err)
	assert.Contains(t, rec.Body.String(), "<title>BIP Test</title>")
}

func TestRenderUnknownTemplate(t *testing.T) {
	r := newTestRenderer(t)

	rec := httptest.NewRecorder()
	err := r.Render(rec, 200, "nie-ma-takiego", TemplateData{})
	require.Error(t, err)
	assert.Zero(t, rec.Body.Len(), "nothing may be written on a render failure")
}

func TestRenderSanitizesBody(t *testing.T) {
	r := newTestRenderer(t)

	rec := httptest.NewRecorder()
	err := r.Render(rec, 200, "static-page", TemplateData{
		Title: "Kontakt",
		Data: struct {
			Title string
			Body  string
		}{"Kontakt", `<p>Dane</p><script>alert(1)</script>`},
	})
	require.NoError(t, err)

	body := rec.Body.String()
	assert.Contains(t, body, "<p>Dane</p>")
	assert.NotContains(t, body, "<script>")
}

func TestTruncateCountsRunes(t *testing.T) {
	r := newTestRenderer(t)
	truncate := r.templateFuncs()["truncate"].(func(string, int) string)

	assert.Equal(t, "Ogłos...", truncate("Ogłoszenia urzędowe", 5))
	assert.Equal(t, "żółć", truncate("żółć", 4), "string at the limit stays whole")
	assert.True(t, utf8.ValidString(truncate("ąęśćżźńół", 3)))
}

func TestRenderBreadcrumbs(t *testing.T) {
	r := newTestRenderer(t)

	rec := httptest.NewRecorder()
	err := r.Render(rec, 200, "error", TemplateData{
		Breadcrumbs: []uikit.Breadcrumb{
			{Label: "Strona główna", URL: "/"},
			{Label: "Ogłoszenia", Active: true},
		},
		Data: struct{ Heading, Message string }{"x", "y"},
	})
	require.NoError(t, err)

	body := rec.Body.String()
	assert.Contains(t, body, `<a href="/">Strona główna</a>`)
	assert.Contains(t, body, `<li aria-current="page">Ogłoszenia</li>`)
}
