// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package handlers contains the HTTP handlers for the Arvix storefront.
// Handlers are grouped by concern (JSON API, auth, public pages) and
// receive their dependencies through the handler struct.
package handlers

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"

	"arvix/internal/catalog"
	"arvix/internal/media"
	"arvix/internal/metrics"
	"arvix/internal/models"
	"arvix/internal/storage"
)

// SettingsStore is the key to JSON document store.
type SettingsStore interface {
	List(ctx context.Context) ([]models.SiteSetting, error)
	All(ctx context.Context) (models.SiteSettings, error)
	Get(ctx context.Context, key string) (*models.SiteSetting, error)
	Set(ctx context.Context, key string, value json.RawMessage, version int) (*models.SiteSetting, error)
	SetMany(ctx context.Context, settings []models.SiteSetting) error
	Delete(ctx context.Context, key string) error
}

// ContentStore is the storage shape shared by slides, blog posts, FAQs
// and testimonials. activeOnly hides inactive or unpublished records.
type ContentStore[T any] interface {
	List(ctx context.Context, activeOnly bool) ([]T, error)
	FindByID(ctx context.Context, id uuid.UUID) (*T, error)
	Create(ctx context.Context, v *T) (*T, error)
	Update(ctx context.Context, v *T) (*T, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// BlogStore adds slug lookups to the content store.
type BlogStore interface {
	ContentStore[models.BlogPost]
	FindBySlug(ctx context.Context, slug string, publishedOnly bool) (*models.BlogPost, error)
}

// MessageStore holds contact form submissions.
type MessageStore interface {
	List(ctx context.Context, status models.InquiryStatus) ([]models.ContactMessage, error)
	Create(ctx context.Context, m *models.ContactMessage) (*models.ContactMessage, error)
	SetStatus(ctx context.Context, id uuid.UUID, status models.InquiryStatus) (*models.ContactMessage, error)
	Delete(ctx context.Context, id uuid.UUID) error
	CountPending(ctx context.Context) (int, error)
}

// QuoteStore holds quote requests submitted from the cart.
type QuoteStore interface {
	List(ctx context.Context, status models.InquiryStatus) ([]models.QuoteRequest, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.QuoteRequest, error)
	Create(ctx context.Context, q *models.QuoteRequest) (*models.QuoteRequest, error)
	SetStatus(ctx context.Context, id uuid.UUID, status models.InquiryStatus) (*models.QuoteRequest, error)
	Delete(ctx context.Context, id uuid.UUID) error
	CountPending(ctx context.Context) (int, error)
}

// Counter reports a row count.
type Counter interface {
	Count(ctx context.Context) (int, error)
}

// QuoteNotifier delivers the sales notification for a new quote.
type QuoteNotifier interface {
	NotifyQuote(ctx context.Context, q *models.QuoteRequest) error
}

// Stores bundles the repositories the JSON API reads and writes.
type Stores struct {
	Settings     SettingsStore
	Slides       ContentStore[models.Slide]
	Blog         BlogStore
	FAQs         ContentStore[models.FAQ]
	Testimonials ContentStore[models.Testimonial]
	Messages     MessageStore
	Quotes       QuoteStore
	Categories   Counter
	Products     Counter
}

// API groups the JSON endpoints under /api.
type API struct {
	catalog   *catalog.Service
	stores    Stores
	ingestor  *media.Ingestor
	files     storage.Backend
	notifier  QuoteNotifier
	metrics   *metrics.Metrics
	maxUpload int64

	slides       *resource[models.Slide]
	blog         *resource[models.BlogPost]
	faqs         *resource[models.FAQ]
	testimonials *resource[models.Testimonial]
}

// NewAPI creates the JSON API handler group. files serves /api/files and
// is usually the same chain the ingestor writes to. notifier and m may be nil.
func NewAPI(svc *catalog.Service, stores Stores, ingestor *media.Ingestor, files storage.Backend, notifier QuoteNotifier, m *metrics.Metrics, maxUpload int64) *API {
	return &API{
		catalog:   svc,
		stores:    stores,
		ingestor:  ingestor,
		files:     files,
		notifier:  notifier,
		metrics:   m,
		maxUpload: maxUpload,

		slides:       slideResource(stores.Slides),
		blog:         blogResource(stores.Blog),
		faqs:         faqResource(stores.FAQs),
		testimonials: testimonialResource(stores.Testimonials),
	}
}
