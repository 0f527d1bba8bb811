// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/errgroup"

	"arvix/internal/catalog"
	"arvix/internal/markdown"
	"arvix/internal/models"
	"arvix/internal/render"
	"arvix/internal/store"
)

const (
	// homePostCount is how many recent posts the home page lists.
	homePostCount = 3
	// excerptLength is the rune limit of generated blog excerpts.
	excerptLength = 200
)

// Public groups handlers for the server-rendered storefront.
type Public struct {
	renderer     *render.Renderer
	catalog      *catalog.Service
	settings     SettingsStore
	slides       ContentStore[models.Slide]
	blog         BlogStore
	faqs         ContentStore[models.FAQ]
	testimonials ContentStore[models.Testimonial]
}

// NewPublic creates the Public handler group.
func NewPublic(renderer *render.Renderer, svc *catalog.Service, stores Stores) *Public {
	return &Public{
		renderer:     renderer,
		catalog:      svc,
		settings:     stores.Settings,
		slides:       stores.Slides,
		blog:         stores.Blog,
		faqs:         stores.FAQs,
		testimonials: stores.Testimonials,
	}
}

// page is what a page builder works with: the request, the layout data
// to fill in, and the shared data every page loads.
type page struct {
	r        *http.Request
	data     *render.PageData
	settings models.SiteSettings
	tree     []models.Category
}

// builder fills p.data for one page and returns the template name.
type builder func(ctx context.Context, p *page) (string, error)

// contentPage maps a settings-driven page to its key and fallback title.
type contentPage struct {
	key   string
	title string
}

var contentPages = map[string]contentPage{
	"/about":                 {models.SettingAbout, "Hakkımızda"},
	"/contact":               {models.SettingContact, "İletişim"},
	"/brand":                 {models.SettingBrand, "Markamız"},
	"/architecture-planning": {models.SettingArchitecture, "Mimari Planlama"},
}

// serve wraps a builder with the shared layout data and error pages.
func (pb *Public) serve(build builder) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		p, err := pb.load(ctx, r)
		if err != nil {
			pb.fail(w, r, err)
			return
		}
		name, err := build(ctx, p)
		if err != nil {
			pb.fail(w, r, err)
			return
		}
		body, err := pb.renderer.Bytes(name, p.data)
		if err != nil {
			pb.fail(w, r, err)
			return
		}
		render.WriteHTML(w, http.StatusOK, body)
	}
}

// load fetches the settings and category tree every layout needs.
func (pb *Public) load(ctx context.Context, r *http.Request) (*page, error) {
	p := &page{r: r}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		p.settings, err = pb.settings.All(gctx)
		return err
	})
	g.Go(func() error {
		tree, err := pb.catalog.Tree(gctx)
		p.tree = catalog.PruneInactive(tree)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	p.data = &render.PageData{
		Path:   r.URL.Path,
		Nav:    render.BuildNav(p.tree),
		Header: models.Merge(p.settings, models.SettingHeader, models.HeaderSettings{}),
		Footer: models.Merge(p.settings, models.SettingFooter, models.FooterSettings{}),
	}
	return p, nil
}

// fail renders the not-found page for missing records and the error page
// for everything else.
func (pb *Public) fail(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, store.ErrNotFound) {
		pb.NotFound(w, r)
		return
	}
	slog.Error("render page failed",
		"path", r.URL.Path,
		"request_id", chimw.GetReqID(r.Context()),
		"error", err,
	)
	body, rerr := pb.renderer.Bytes("error", &render.PageData{Title: "Hata", Path: r.URL.Path})
	if rerr != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	render.WriteHTML(w, http.StatusInternalServerError, body)
}

// NotFound answers unknown routes: JSON under /api/, a page elsewhere.
func (pb *Public) NotFound(w http.ResponseWriter, r *http.Request) {
	if strings.HasPrefix(r.URL.Path, "/api/") {
		writeError(w, http.StatusNotFound, "Not found")
		return
	}

	data := &render.PageData{Title: "Sayfa bulunamadı", Path: r.URL.Path}
	if p, err := pb.load(r.Context(), r); err == nil {
		p.data.Title = data.Title
		data = p.data
	}
	body, err := pb.renderer.Bytes("not_found", data)
	if err != nil {
		http.NotFound(w, r)
		return
	}
	render.WriteHTML(w, http.StatusNotFound, body)
}

// Home renders the landing page.
func (pb *Public) Home() http.HandlerFunc {
	return pb.serve(func(ctx context.Context, p *page) (string, error) {
		data := render.HomeData{
			Home:       models.Merge(p.settings, models.SettingHome, models.DefaultHome()),
			Categories: p.tree,
		}

		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() (err error) {
			data.Slides, err = pb.slides.List(gctx, true)
			return err
		})
		g.Go(func() (err error) {
			data.Featured, err = pb.catalog.Products(gctx, catalog.ProductQuery{Featured: true})
			return err
		})
		g.Go(func() (err error) {
			data.Testimonials, err = pb.testimonials.List(gctx, true)
			return err
		})
		g.Go(func() error {
			posts, err := pb.blog.List(gctx, true)
			if err != nil {
				return err
			}
			data.Posts = postCards(posts[:min(len(posts), homePostCount)])
			return nil
		})
		if err := g.Wait(); err != nil {
			return "", err
		}

		p.data.Description = data.Home.HeroSubtitle
		p.data.Data = data
		return "home", nil
	})
}

// Category renders /categories/{slug} with its subcategories and products.
func (pb *Public) Category() http.HandlerFunc {
	return pb.serve(func(ctx context.Context, p *page) (string, error) {
		c, err := pb.catalog.CategoryBySlug(ctx, chi.URLParam(p.r, "slug"))
		if err != nil {
			return "", err
		}
		if c, err = pb.catalog.PublicCategory(ctx, c); err != nil {
			return "", err
		}

		products, err := pb.catalog.Products(ctx, catalog.ProductQuery{CategoryID: &c.ID})
		if err != nil {
			return "", err
		}

		p.data.Title = c.Name
		p.data.Description = deref(c.Description)
		p.data.Data = render.CategoryData{
			Category:   c,
			Breadcrumb: c.Breadcrumb(),
			Products:   products,
		}
		return "category", nil
	})
}

// Product renders /products/{slug}.
func (pb *Public) Product() http.HandlerFunc {
	return pb.serve(func(ctx context.Context, p *page) (string, error) {
		prod, err := pb.catalog.ProductBySlug(ctx, chi.URLParam(p.r, "slug"))
		if err != nil {
			return "", err
		}
		if err := pb.catalog.PublicProduct(ctx, prod); err != nil {
			return "", err
		}

		var crumbs []models.Category
		if prod.Category != nil {
			crumbs = prod.Category.Breadcrumb()
		}
		p.data.Title = prod.DisplayName()
		p.data.Description = deref(prod.Description)
		p.data.Data = render.ProductData{Product: prod, Breadcrumb: crumbs}
		return "product", nil
	})
}

// BlogList renders /blog.
func (pb *Public) BlogList() http.HandlerFunc {
	return pb.serve(func(ctx context.Context, p *page) (string, error) {
		posts, err := pb.blog.List(ctx, true)
		if err != nil {
			return "", err
		}
		p.data.Title = "Blog"
		p.data.Data = render.BlogListData{Posts: postCards(posts)}
		return "blog_list", nil
	})
}

// BlogPost renders /blog/{slug}. Drafts are not found.
func (pb *Public) BlogPost() http.HandlerFunc {
	return pb.serve(func(ctx context.Context, p *page) (string, error) {
		post, err := pb.blog.FindBySlug(ctx, chi.URLParam(p.r, "slug"), true)
		if err != nil {
			return "", err
		}
		body, err := markdown.ToHTML(post.Content)
		if err != nil {
			return "", err
		}
		p.data.Title = post.Title
		p.data.Description = excerpt(post)
		p.data.Data = render.BlogPostData{Post: post, Body: body}
		return "blog_post", nil
	})
}

// FAQ renders /faq.
func (pb *Public) FAQ() http.HandlerFunc {
	return pb.serve(func(ctx context.Context, p *page) (string, error) {
		faqs, err := pb.faqs.List(ctx, true)
		if err != nil {
			return "", err
		}
		p.data.Title = "Sıkça Sorulan Sorular"
		p.data.Data = render.FAQData{FAQs: faqs}
		return "faq", nil
	})
}

// ContentPage renders one of the settings-driven pages (about, contact,
// brand, architecture planning), chosen by request path.
func (pb *Public) ContentPage() http.HandlerFunc {
	return pb.serve(func(_ context.Context, p *page) (string, error) {
		cp, ok := contentPages[p.r.URL.Path]
		if !ok {
			return "", store.ErrNotFound
		}
		doc := models.Merge(p.settings, cp.key, models.ContentPage{Title: cp.title})
		if doc.Title == "" {
			doc.Title = cp.title
		}
		p.data.Title = doc.Title
		p.data.Description = doc.Intro
		p.data.Data = render.ContentData{Page: doc, ContactForm: cp.key == models.SettingContact}
		return "page", nil
	})
}

// ContentPaths lists the paths ContentPage serves.
func ContentPaths() []string {
	paths := make([]string, 0, len(contentPages))
	for path := range contentPages {
		paths = append(paths, path)
	}
	return paths
}

// Cart renders /cart. The cart itself lives in the browser.
func (pb *Public) Cart() http.HandlerFunc {
	return pb.serve(func(_ context.Context, p *page) (string, error) {
		p.data.Title = "Teklif Sepeti"
		return "cart", nil
	})
}

func postCards(posts []models.BlogPost) []render.PostCard {
	cards := make([]render.PostCard, len(posts))
	for i, post := range posts {
		cards[i] = render.PostCard{Post: post, Excerpt: excerpt(&post)}
	}
	return cards
}

// excerpt prefers the author's excerpt and falls back to the start of
// the rendered text.
func excerpt(post *models.BlogPost) string {
	if post.Excerpt != nil && strings.TrimSpace(*post.Excerpt) != "" {
		return *post.Excerpt
	}
	return markdown.Excerpt(post.Content, excerptLength)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
