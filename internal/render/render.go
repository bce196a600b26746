// Copyright (c) 2025-2026 Powiatowy Inspektorat Weterynarii w Piszu
// SPDX-License-Identifier: GPL-3.0-or-later

// Package render parses the embedded frontend templates and executes them
// against request data.
package render

import (
	"bytes"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/microcosm-cc/bluemonday"

	"github.com/piwpisz/bip-go/internal/service"
	"github.com/piwpisz/bip-go/internal/uikit"
)

// Renderer holds the parsed template set.
type Renderer struct {
	templates map[string]*template.Template
	policy    *bluemonday.Policy
	siteName  string
}

// Config holds renderer configuration.
type Config struct {
	TemplatesFS fs.FS
	SiteName    string
}

// New creates a Renderer with all page templates parsed against the base
// layout.
func New(cfg Config) (*Renderer, error) {
	r := &Renderer{
		templates: make(map[string]*template.Template),
		policy:    bluemonday.UGCPolicy(),
		siteName:  cfg.SiteName,
	}
	if err := r.parseTemplates(cfg.TemplatesFS); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *Renderer) parseTemplates(templatesFS fs.FS) error {
	pages, err := fs.Glob(templatesFS, "templates/pages/*.html")
	if err != nil {
		return fmt.Errorf("globbing page templates: %w", err)
	}

	for _, page := range pages {
		name := strings.TrimSuffix(filepath.Base(page), ".html")

		tmpl, err := template.New("").Funcs(r.templateFuncs()).ParseFS(templatesFS,
			"templates/layouts/base.html", page)
		if err != nil {
			return fmt.Errorf("parsing template %s: %w", name, err)
		}
		r.templates[name] = tmpl
	}
	return nil
}

func (r *Renderer) templateFuncs() template.FuncMap {
	return template.FuncMap{
		"formatDate": func(t time.Time) string {
			return t.Format("02.01.2006")
		},
		"formatDateTime": func(t time.Time) string {
			return t.Format("02.01.2006 15:04")
		},
		"sanitize": func(s string) template.HTML {
			return template.HTML(r.policy.Sanitize(s))
		},
		"truncate": func(s string, length int) string {
			runes := []rune(s)
			if len(runes) <= length {
				return s
			}
			return string(runes[:length]) + "..."
		},
		"add": func(a, b int) int { return a + b },
		"sub": func(a, b int) int { return a - b },
		"menuURL": func(n service.MenuNode) string {
			return service.ItemURL(n.MenuItem)
		},
		"childURL": func(parent, child service.MenuNode) string {
			return service.ChildURL(parent.MenuItem, child.MenuItem)
		},
	}
}

// TemplateData holds data passed to templates.
type TemplateData struct {
	Title       string
	SiteName    string
	CurrentPath string
	CurrentYear int
	Breadcrumbs []uikit.Breadcrumb
	Menu        []service.MenuNode
	Pagination  *uikit.Pagination
	Preview     bool
	Data        any
}

// Render executes a page template. Output is buffered so a template error
// never leaves a half-written response.
func (r *Renderer) Render(w http.ResponseWriter, status int, name string, data TemplateData) error {
	tmpl, ok := r.templates[name]
	if !ok {
		return fmt.Errorf("template %s not found", name)
	}

	data.CurrentYear = time.Now().Year()
	if data.SiteName == "" {
		data.SiteName = r.siteName
	}
	if data.Title == "" {
		data.Title = data.SiteName
	} else {
		data.Title = data.Title + " - " + data.SiteName
	}

	buf := new(bytes.Buffer)
	if err := tmpl.ExecuteTemplate(buf, "base", data); err != nil {
		return fmt.Errorf("executing template %s: %w", name, err)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, err := buf.WriteTo(w)
	return err
}
