// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package render provides HTML template rendering for the public
// storefront. Every page template is paired with the shared layout and
// rendered into a buffer first, so a template error never leaves a
// half-written response and the result can be cached.
package render

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"arvix/internal/models"
)

//go:embed templates/*.html
var templateFS embed.FS

// NavDepth is how many levels below a root category the navigation shows.
const NavDepth = 2

// PageData holds everything the layout and page templates read.
type PageData struct {
	Title       string
	Description string
	Path        string
	Nav         []NavItem
	Header      models.HeaderSettings
	Footer      models.FooterSettings
	Data        any
}

// NavItem is one entry of the category navigation.
type NavItem struct {
	Name     string
	URL      string
	Children []NavItem
}

// Renderer holds the parsed page templates.
type Renderer struct {
	templates map[string]*template.Template
}

var funcMap = template.FuncMap{
	"deref": func(s *string) string {
		if s == nil {
			return ""
		}
		return *s
	},
	"date":       formatDate,
	"videoEmbed": VideoEmbedURL,
	"stars": func(n int) string {
		n = max(0, min(n, 5))
		return strings.Repeat("★", n) + strings.Repeat("☆", 5-n)
	},
	"uuidEq": func(ptr *uuid.UUID, val uuid.UUID) bool {
		return ptr != nil && *ptr == val
	},
	"year": func() int { return time.Now().Year() },
}

// New parses every page template paired with layout.html.
func New() (*Renderer, error) {
	r := &Renderer{templates: make(map[string]*template.Template)}

	pages, err := fs.Glob(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("glob templates: %w", err)
	}

	for _, page := range pages {
		name := strings.TrimSuffix(strings.TrimPrefix(page, "templates/"), ".html")
		if name == "layout" {
			continue
		}
		tmpl, err := template.New("layout.html").Funcs(funcMap).ParseFS(templateFS, "templates/layout.html", page)
		if err != nil {
			return nil, fmt.Errorf("parse template %s: %w", name, err)
		}
		r.templates[name] = tmpl
	}

	return r, nil
}

// Has reports whether a page template exists.
func (rn *Renderer) Has(name string) bool {
	_, ok := rn.templates[name]
	return ok
}

// Bytes renders a page into memory.
func (rn *Renderer) Bytes(name string, data *PageData) ([]byte, error) {
	tmpl, ok := rn.templates[name]
	if !ok {
		return nil, fmt.Errorf("template %q not found", name)
	}
	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "layout.html", data); err != nil {
		return nil, fmt.Errorf("execute %s: %w", name, err)
	}
	return buf.Bytes(), nil
}

// WriteHTML sends rendered HTML with the given status.
func WriteHTML(w http.ResponseWriter, status int, body []byte) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	w.Write(body)
}

// BuildNav converts the category tree into navigation entries. Inactive
// categories are skipped and nothing deeper than NavDepth levels below a
// root is included.
func BuildNav(tree []models.Category) []NavItem {
	return buildNav(tree, 0)
}

func buildNav(cats []models.Category, depth int) []NavItem {
	items := make([]NavItem, 0, len(cats))
	for _, c := range cats {
		if !c.IsActive {
			continue
		}
		item := NavItem{Name: c.Name, URL: "/categories/" + c.Slug}
		if depth < NavDepth {
			item.Children = buildNav(c.Children, depth+1)
		}
		items = append(items, item)
	}
	return items
}

// VideoEmbedURL turns a YouTube or Vimeo watch link into its embeddable
// player URL. Unknown links are returned unchanged.
func VideoEmbedURL(raw string) string {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return raw
	}
	host := strings.TrimPrefix(u.Hostname(), "www.")
	switch host {
	case "youtube.com", "m.youtube.com":
		if id := u.Query().Get("v"); id != "" {
			return "https://www.youtube-nocookie.com/embed/" + url.PathEscape(id)
		}
		if rest, ok := strings.CutPrefix(u.Path, "/shorts/"); ok && rest != "" {
			return "https://www.youtube-nocookie.com/embed/" + url.PathEscape(rest)
		}
	case "youtu.be":
		if id := strings.Trim(u.Path, "/"); id != "" {
			return "https://www.youtube-nocookie.com/embed/" + url.PathEscape(id)
		}
	case "vimeo.com":
		if id := strings.Trim(u.Path, "/"); id != "" && !strings.Contains(id, "/") {
			return "https://player.vimeo.com/video/" + url.PathEscape(id)
		}
	}
	return raw
}

var monthsTR = [...]string{"Ocak", "Şubat", "Mart", "Nisan", "Mayıs", "Haziran",
	"Temmuz", "Ağustos", "Eylül", "Ekim", "Kasım", "Aralık"}

// formatDate prints a date the Turkish way, e.g. "5 Mart 2026".
func formatDate(v any) string {
	var t time.Time
	switch d := v.(type) {
	case time.Time:
		t = d
	case *time.Time:
		if d == nil {
			return ""
		}
		t = *d
	default:
		return ""
	}
	return fmt.Sprintf("%d %s %d", t.Day(), monthsTR[t.Month()-1], t.Year())
}
