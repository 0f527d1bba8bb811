package render

import (
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"arvix/internal/models"
)

func mustNew(t *testing.T) *Renderer {
	t.Helper()
	rn, err := New()
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return rn
}

func TestNew_ParsesEveryPage(t *testing.T) {
	rn := mustNew(t)
	for _, name := range []string{"home", "category", "product", "blog_list", "blog_post", "faq", "page", "cart", "not_found", "error"} {
		if !rn.Has(name) {
			t.Errorf("template %q not parsed", name)
		}
	}
	if rn.Has("layout") {
		t.Error("layout should not be a page")
	}
	if _, err := rn.Bytes("missing", &PageData{}); err == nil {
		t.Error("expected error for unknown template")
	}
}

func TestBuildNav_CapsDepthAndSkipsInactive(t *testing.T) {
	tree := []models.Category{{
		Name: "Kardiyo", Slug: "kardiyo", IsActive: true,
		Children: []models.Category{{
			Name: "Koşu Bandı", Slug: "kosu-bandi", IsActive: true,
			Children: []models.Category{{
				Name: "Ticari", Slug: "ticari", IsActive: true,
				Children: []models.Category{{Name: "Derin", Slug: "derin", IsActive: true}},
			}},
		}, {
			Name: "Gizli", Slug: "gizli", IsActive: false,
		}},
	}}

	nav := BuildNav(tree)
	if len(nav) != 1 || nav[0].URL != "/categories/kardiyo" {
		t.Fatalf("nav = %+v", nav)
	}
	if len(nav[0].Children) != 1 {
		t.Fatalf("inactive child should be skipped: %+v", nav[0].Children)
	}
	level2 := nav[0].Children[0].Children
	if len(level2) != 1 || level2[0].Name != "Ticari" {
		t.Fatalf("level 2 = %+v", level2)
	}
	if level2[0].Children != nil {
		t.Errorf("level 3 should be cut, got %+v", level2[0].Children)
	}
}

func TestVideoEmbedURL(t *testing.T) {
	tests := map[string]string{
		"https://www.youtube.com/watch?v=abc123":  "https://www.youtube-nocookie.com/embed/abc123",
		"https://youtu.be/abc123":                 "https://www.youtube-nocookie.com/embed/abc123",
		"https://youtube.com/shorts/xyz":          "https://www.youtube-nocookie.com/embed/xyz",
		"https://vimeo.com/76979871":              "https://player.vimeo.com/video/76979871",
		"https://cdn.example.com/video/intro.mp4": "https://cdn.example.com/video/intro.mp4",
	}
	for in, want := range tests {
		if got := VideoEmbedURL(in); got != want {
			t.Errorf("VideoEmbedURL(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestFormatDate(t *testing.T) {
	d := time.Date(2026, time.March, 5, 10, 0, 0, 0, time.UTC)
	if got := formatDate(d); got != "5 Mart 2026" {
		t.Errorf("formatDate = %q", got)
	}
	if got := formatDate(&d); got != "5 Mart 2026" {
		t.Errorf("formatDate(ptr) = %q", got)
	}
	var nilTime *time.Time
	if got := formatDate(nilTime); got != "" {
		t.Errorf("formatDate(nil) = %q", got)
	}
}

func TestRenderProductPage(t *testing.T) {
	rn := mustNew(t)
	root := &models.Category{ID: uuid.New(), Name: "Kardiyo", Slug: "kardiyo"}
	cat := &models.Category{ID: uuid.New(), Name: "Koşu Bandı", Slug: "kosu-bandi", Parent: root}
	desc := "Ticari <koşu> bandı"
	p := &models.Product{
		ID: uuid.New(), Name: "X100", Slug: "x100", Description: &desc, Category: cat,
		Images: []models.ProductImage{{URL: "/api/files/products/x100.webp"}},
		Videos: []models.ProductVideo{{URL: "https://youtu.be/abc"}},
	}

	out, err := rn.Bytes("product", &PageData{
		Title:  p.DisplayName(),
		Nav:    BuildNav([]models.Category{{Name: "Kardiyo", Slug: "kardiyo", IsActive: true}}),
		Header: models.HeaderSettings{Phone: "+90 212 000 00 00"},
		Data:   ProductData{Product: p, Breadcrumb: cat.Breadcrumb()},
	})
	if err != nil {
		t.Fatalf("Bytes: %v", err)
	}
	html := string(out)
	for _, want := range []string{
		"<title>X100 | Arvix Premium</title>",
		`href="/categories/kosu-bandi"`,
		`src="/api/files/products/x100.webp"`,
		`data-category="kosu-bandi"`,
		"youtube-nocookie.com/embed/abc",
		"Ticari &lt;koşu&gt; bandı",
		"+90 212 000 00 00",
	} {
		if !strings.Contains(html, want) {
			t.Errorf("product page missing %q", want)
		}
	}
}

func TestRenderHomeFallsBackToHero(t *testing.T) {
	rn := mustNew(t)
	out, err := rn.Bytes("home", &PageData{Data: HomeData{Home: models.DefaultHome()}})
	if err != nil {
		t.Fatalf("Bytes: %v", err)
	}
	if !strings.Contains(string(out), models.DefaultHome().HeroTitle) {
		t.Error("hero title missing when there are no slides")
	}
}
