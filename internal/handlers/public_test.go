package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestNotFoundAPIIsJSON(t *testing.T) {
	pb := &Public{}
	rec := httptest.NewRecorder()
	pb.NotFound(rec, httptest.NewRequest(http.MethodGet, "/api/nope", nil))
	if rec.Code != http.StatusNotFound || !strings.Contains(rec.Header().Get("Content-Type"), "application/json") {
		t.Errorf("status %d, content type %q", rec.Code, rec.Header().Get("Content-Type"))
	}
}

func TestPublicPages(t *testing.T) {
	env := newTestEnv(t)

	tests := []struct {
		path   string
		status int
		want   string
	}{
		{"/", http.StatusOK, "<html"},
		{"/faq", http.StatusOK, "<html"},
		{"/blog", http.StatusOK, "<html"},
		{"/about", http.StatusOK, "<html"},
		{"/cart", http.StatusOK, "<html"},
		{"/blog/" + uniqueSlug("missing"), http.StatusNotFound, "<html"},
	}

	handlers := map[string]http.HandlerFunc{
		"/":      env.Public.Home(),
		"/faq":   env.Public.FAQ(),
		"/blog":  env.Public.BlogList(),
		"/about": env.Public.ContentPage(),
		"/cart":  env.Public.Cart(),
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			h, ok := handlers[tt.path]
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			if !ok {
				h = env.Public.BlogPost()
				req = withChiURLParam(req, "slug", strings.TrimPrefix(tt.path, "/blog/"))
			}
			rec := httptest.NewRecorder()
			h(rec, req)
			if rec.Code != tt.status {
				t.Fatalf("status = %d, want %d", rec.Code, tt.status)
			}
			if !strings.Contains(strings.ToLower(rec.Body.String()), tt.want) {
				t.Errorf("body does not contain %q", tt.want)
			}
		})
	}
}

func TestCategoryPage(t *testing.T) {
	env := newTestEnv(t)
	c := createCategory(t, env, map[string]any{"name": "Fonksiyonel", "slug": uniqueSlug("fonksiyonel")})

	req := withChiURLParam(httptest.NewRequest(http.MethodGet, "/categories/"+c.Slug, nil), "slug", c.Slug)
	rec := httptest.NewRecorder()
	env.Public.Category()(rec, req)
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "Fonksiyonel") {
		t.Errorf("status %d", rec.Code)
	}

	createCategory(t, env, map[string]any{"name": "Gizli", "slug": c.Slug + "-gizli", "isActive": false})
	req = withChiURLParam(httptest.NewRequest(http.MethodGet, "/categories/"+c.Slug+"-gizli", nil), "slug", c.Slug+"-gizli")
	rec = httptest.NewRecorder()
	env.Public.Category()(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Errorf("inactive category status = %d, want 404", rec.Code)
	}
}
