// Package router sets up all HTTP routes and middleware chains for the
// Arvix storefront. It organizes routes into public pages, the public
// JSON API and the admin API, each with its own middleware stack.
package router

import (
	"io/fs"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"arvix/internal/handlers"
	"arvix/internal/metrics"
	"arvix/internal/middleware"
	"arvix/web"
)

const (
	// requestTimeout bounds ordinary requests.
	requestTimeout = 30 * time.Second
	// uploadTimeout bounds POST /api/upload, where image conversion runs.
	uploadTimeout = 2 * time.Minute
)

// Deps is everything the route table needs.
type Deps struct {
	Sessions middleware.SessionGetter
	API      *handlers.API
	Auth     *handlers.Auth
	Public   *handlers.Public
	Metrics  *metrics.Metrics

	// Secure marks the site as served over TLS (HSTS, secure cookies).
	Secure      bool
	CORSOrigins []string

	// Rate limiters for the unauthenticated write endpoints. Nil disables.
	LoginLimiter *middleware.RateLimiter
	FormLimiter  *middleware.RateLimiter
}

// New creates and returns the configured Chi router with all middleware
// and route groups wired up.
func New(d Deps) chi.Router {
	r := chi.NewRouter()

	// Global middleware, applied to every request.
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)
	r.Use(middleware.Metrics(d.Metrics))
	r.Use(middleware.SecureHeaders(d.Secure))
	if len(d.CORSOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   d.CORSOrigins,
			AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Content-Type", middleware.CSRFHeaderName, "X-Request-ID"},
			ExposedHeaders:   []string{"X-Request-ID"},
			AllowCredentials: true,
			MaxAge:           300,
		}))
	}
	r.Use(middleware.LoadSession(d.Sessions))

	r.NotFound(d.Public.NotFound)

	// Health check and metrics, no auth.
	r.Get("/health", healthHandler)
	if d.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", d.Metrics.Handler())
	}

	static, _ := fs.Sub(web.StaticFS, "static")
	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(static))))

	// Storefront pages.
	r.Group(func(r chi.Router) {
		r.Use(chimw.Timeout(requestTimeout))
		r.Get("/", d.Public.Home())
		r.Get("/categories/{slug}", d.Public.Category())
		r.Get("/products/{slug}", d.Public.Product())
		r.Get("/blog", d.Public.BlogList())
		r.Get("/blog/{slug}", d.Public.BlogPost())
		r.Get("/faq", d.Public.FAQ())
		r.Get("/cart", d.Public.Cart())
		page := d.Public.ContentPage()
		for _, path := range handlers.ContentPaths() {
			r.Get(path, page)
		}
	})

	r.Route("/api", func(r chi.Router) {
		mountPublicAPI(r, d)

		// Admin API: a session and a matching CSRF token on every write.
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAuth)
			r.Use(middleware.NewCSRF(d.Secure))
			mountAdminAPI(r, d)
		})
	})

	return r
}

// mountPublicAPI registers the read endpoints, the customer forms and the
// login endpoints.
func mountPublicAPI(r chi.Router, d Deps) {
	api := d.API

	r.Group(func(r chi.Router) {
		r.Use(chimw.Timeout(requestTimeout))

		r.Get("/categories", api.ListCategories)
		r.Get("/products", api.ListProducts)
		r.Get("/settings", api.GetSettings)
		r.Get("/slides", api.Slides().List)
		r.Get("/blog", api.Blog().List)
		r.Get("/faq", api.FAQs().List)
		r.Get("/testimonials", api.Testimonials().List)
		r.Get("/files/*", api.ServeFile)
		r.Head("/files/*", api.ServeFile)

		r.Group(func(r chi.Router) {
			if d.FormLimiter != nil {
				r.Use(d.FormLimiter.Middleware)
			}
			r.Post("/contact", api.SubmitContact)
			r.Post("/quote", api.SubmitQuote)
		})

		r.Get("/auth", d.Auth.Status)
		r.Delete("/auth", d.Auth.Logout)
		r.Group(func(r chi.Router) {
			if d.LoginLimiter != nil {
				r.Use(d.LoginLimiter.Middleware)
			}
			r.Post("/auth", d.Auth.Login)
		})
	})
}

// mountAdminAPI registers the catalog, content and inbox writes.
func mountAdminAPI(r chi.Router, d Deps) {
	api := d.API

	r.With(chimw.Timeout(uploadTimeout)).Post("/upload", api.Upload)

	r.Group(func(r chi.Router) {
		r.Use(chimw.Timeout(requestTimeout))

		r.Post("/categories", api.CreateCategory)
		r.Put("/categories", api.UpdateCategory)
		r.Delete("/categories", api.DeleteCategory)
		r.Put("/categories/reorder", api.ReorderCategories)

		r.Post("/products", api.CreateProduct)
		r.Put("/products", api.UpdateProduct)
		r.Delete("/products", api.DeleteProduct)
		r.Put("/products/images", api.SyncProductImages)

		r.Put("/settings", api.PutSettings)
		r.Delete("/settings", api.DeleteSettings)
		r.Delete("/files/*", api.DeleteFile)

		mountContent(r, "/slides", api.Slides())
		mountContent(r, "/blog", api.Blog())
		mountContent(r, "/faq", api.FAQs())
		mountContent(r, "/testimonials", api.Testimonials())

		r.Get("/contact-messages", api.ListMessages)
		r.Put("/contact-messages", api.UpdateMessage)
		r.Delete("/contact-messages", api.DeleteMessage)

		r.Get("/quotes", api.ListQuotes)
		r.Put("/quotes", api.UpdateQuote)
		r.Delete("/quotes", api.DeleteQuote)

		r.Get("/admin/stats", api.AdminStats)
		r.Get("/auth/totp.png", d.Auth.TOTPQRCode)
	})
}

// mountContent registers the writes of one content type. Its list is public.
func mountContent(r chi.Router, path string, routes handlers.ContentRoutes) {
	r.Post(path, routes.Create)
	r.Put(path, routes.Update)
	r.Delete(path, routes.Delete)
}

// healthHandler returns a simple JSON health check response.
func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}
