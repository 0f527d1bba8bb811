// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// handler_test.go provides shared test infrastructure for handler tests:
// in-memory fakes for unit tests and a database-backed environment for
// integration tests, which are skipped when PostgreSQL is unavailable.
package handlers

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"slices"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"arvix/internal/catalog"
	"arvix/internal/database"
	"arvix/internal/middleware"
	"arvix/internal/models"
	"arvix/internal/render"
	"arvix/internal/session"
	"arvix/internal/store"
)

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// testDB opens a connection to the test PostgreSQL and runs migrations.
func testDB(t *testing.T) *sql.DB {
	t.Helper()

	host := envOr("POSTGRES_HOST", "localhost")
	port := envOr("POSTGRES_PORT", "5432")
	user := envOr("POSTGRES_USER", "arvix")
	pass := envOr("POSTGRES_PASSWORD", "changeme")
	name := envOr("POSTGRES_DB", "arvix")
	dsn := "postgres://" + user + ":" + pass + "@" + host + ":" + port + "/" + name + "?sslmode=disable"

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		t.Skipf("skipping: cannot open DB: %v", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		t.Skipf("skipping: DB not reachable: %v", err)
	}

	if err := database.Migrate(db); err != nil {
		db.Close()
		t.Fatalf("migrate: %v", err)
	}
	goose.SetBaseFS(nil)

	t.Cleanup(func() { db.Close() })
	return db
}

// testEnv holds handler groups wired to a real database.
type testEnv struct {
	DB     *sql.DB
	API    *API
	Public *Public
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db := testDB(t)
	renderer, err := render.New()
	if err != nil {
		t.Fatalf("render.New: %v", err)
	}

	categories := store.NewCategoryStore(db)
	products := store.NewProductStore(db)
	svc := catalog.New(categories, products)
	stores := Stores{
		Settings:     store.NewSiteSettingStore(db),
		Slides:       store.NewSlideStore(db),
		Blog:         store.NewBlogStore(db),
		FAQs:         store.NewFAQStore(db),
		Testimonials: store.NewTestimonialStore(db),
		Messages:     store.NewMessageStore(db),
		Quotes:       store.NewQuoteStore(db),
		Categories:   categories,
		Products:     products,
	}

	return &testEnv{
		DB:     db,
		API:    NewAPI(svc, stores, nil, nil, nil, nil, 10<<20),
		Public: NewPublic(renderer, svc, stores),
	}
}

// uniqueSlug returns a slug that cannot collide with seed data or other tests.
func uniqueSlug(prefix string) string {
	return prefix + "-" + uuid.NewString()[:8]
}

// jsonRequest builds a request with a JSON body.
func jsonRequest(t *testing.T, method, target string, body any) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if raw, ok := body.(string); ok {
			buf.WriteString(raw)
		} else if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", "application/json")
	return req
}

// asAdmin marks the request as coming from a signed-in admin.
func asAdmin(r *http.Request) *http.Request {
	sess := &session.Data{Username: "admin", CreatedAt: time.Now()}
	return r.WithContext(middleware.WithSession(r.Context(), sess))
}

// withChiURLParam adds a chi URL parameter to a request.
func withChiURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// decodeBody unmarshals a recorded JSON response.
func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(rec.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
	return v
}

// --- in-memory fakes ---

type memSettings struct {
	mu    sync.Mutex
	items map[string]models.SiteSetting
}

func newMemSettings() *memSettings {
	return &memSettings{items: map[string]models.SiteSetting{}}
}

func (m *memSettings) List(_ context.Context) ([]models.SiteSetting, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.SiteSetting, 0, len(m.items))
	for _, st := range m.items {
		out = append(out, st)
	}
	slices.SortFunc(out, func(a, b models.SiteSetting) int { return strings.Compare(a.Key, b.Key) })
	return out, nil
}

func (m *memSettings) All(ctx context.Context) (models.SiteSettings, error) {
	list, _ := m.List(ctx)
	out := models.SiteSettings{}
	for _, st := range list {
		out[st.Key] = st.Value
	}
	return out, nil
}

func (m *memSettings) Get(_ context.Context, key string) (*models.SiteSetting, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	st, ok := m.items[key]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &st, nil
}

func (m *memSettings) Set(_ context.Context, key string, value json.RawMessage, version int) (*models.SiteSetting, error) {
	value, err := store.NormalizeValue(value)
	if err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	st := models.SiteSetting{Key: key, Value: value, Version: max(version, 1), UpdatedAt: time.Now()}
	m.items[key] = st
	return &st, nil
}

func (m *memSettings) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.items[key]; !ok {
		return store.ErrNotFound
	}
	delete(m.items, key)
	return nil
}

func (m *memSettings) SetMany(ctx context.Context, settings []models.SiteSetting) error {
	for _, st := range settings {
		if _, err := m.Set(ctx, st.Key, st.Value, st.Version); err != nil {
			return err
		}
	}
	return nil
}

// memContent is a ContentStore over a slice, with accessors for the id
// and active flag of T.
type memContent[T any] struct {
	mu     sync.Mutex
	items  []T
	id     func(*T) *uuid.UUID
	active func(*T) bool
}

func (m *memContent[T]) List(_ context.Context, activeOnly bool) ([]T, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []T{}
	for i := range m.items {
		if !activeOnly || m.active(&m.items[i]) {
			out = append(out, m.items[i])
		}
	}
	return out, nil
}

func (m *memContent[T]) FindByID(_ context.Context, id uuid.UUID) (*T, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.items {
		if *m.id(&m.items[i]) == id {
			v := m.items[i]
			return &v, nil
		}
	}
	return nil, store.ErrNotFound
}

func (m *memContent[T]) Create(_ context.Context, v *T) (*T, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	*m.id(v) = uuid.New()
	m.items = append(m.items, *v)
	out := *v
	return &out, nil
}

func (m *memContent[T]) Update(_ context.Context, v *T) (*T, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.items {
		if *m.id(&m.items[i]) == *m.id(v) {
			m.items[i] = *v
			out := *v
			return &out, nil
		}
	}
	return nil, store.ErrNotFound
}

func (m *memContent[T]) Delete(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.items {
		if *m.id(&m.items[i]) == id {
			m.items = slices.Delete(m.items, i, i+1)
			return nil
		}
	}
	return store.ErrNotFound
}

func newMemFAQs(items ...models.FAQ) *memContent[models.FAQ] {
	return &memContent[models.FAQ]{
		items:  items,
		id:     func(v *models.FAQ) *uuid.UUID { return &v.ID },
		active: func(v *models.FAQ) bool { return v.IsActive },
	}
}

type memBlog struct {
	*memContent[models.BlogPost]
}

func newMemBlog(items ...models.BlogPost) *memBlog {
	return &memBlog{&memContent[models.BlogPost]{
		items:  items,
		id:     func(v *models.BlogPost) *uuid.UUID { return &v.ID },
		active: func(v *models.BlogPost) bool { return v.IsPublished },
	}}
}

func (m *memBlog) FindBySlug(_ context.Context, slug string, publishedOnly bool) (*models.BlogPost, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range m.items {
		if p.Slug == slug && (p.IsPublished || !publishedOnly) {
			return &p, nil
		}
	}
	return nil, store.ErrNotFound
}

type memMessages struct {
	items []models.ContactMessage
}

func (m *memMessages) List(_ context.Context, status models.InquiryStatus) ([]models.ContactMessage, error) {
	out := []models.ContactMessage{}
	for _, msg := range m.items {
		if status == "" || msg.Status == status {
			out = append(out, msg)
		}
	}
	return out, nil
}

func (m *memMessages) Create(_ context.Context, msg *models.ContactMessage) (*models.ContactMessage, error) {
	msg.ID = uuid.New()
	msg.Status = models.InquiryPending
	m.items = append(m.items, *msg)
	return msg, nil
}

func (m *memMessages) SetStatus(_ context.Context, id uuid.UUID, status models.InquiryStatus) (*models.ContactMessage, error) {
	for i := range m.items {
		if m.items[i].ID == id {
			m.items[i].Status = status
			return &m.items[i], nil
		}
	}
	return nil, store.ErrNotFound
}

func (m *memMessages) Delete(_ context.Context, id uuid.UUID) error {
	for i := range m.items {
		if m.items[i].ID == id {
			m.items = slices.Delete(m.items, i, i+1)
			return nil
		}
	}
	return store.ErrNotFound
}

func (m *memMessages) CountPending(_ context.Context) (int, error) {
	n := 0
	for _, msg := range m.items {
		if msg.Status == models.InquiryPending {
			n++
		}
	}
	return n, nil
}

type memQuotes struct {
	items []models.QuoteRequest
}

func (m *memQuotes) List(_ context.Context, status models.InquiryStatus) ([]models.QuoteRequest, error) {
	out := []models.QuoteRequest{}
	for _, q := range m.items {
		if status == "" || q.Status == status {
			out = append(out, q)
		}
	}
	return out, nil
}

func (m *memQuotes) FindByID(_ context.Context, id uuid.UUID) (*models.QuoteRequest, error) {
	for i := range m.items {
		if m.items[i].ID == id {
			return &m.items[i], nil
		}
	}
	return nil, store.ErrNotFound
}

func (m *memQuotes) Create(_ context.Context, q *models.QuoteRequest) (*models.QuoteRequest, error) {
	q.ID = uuid.New()
	q.Status = models.InquiryPending
	m.items = append(m.items, *q)
	return q, nil
}

func (m *memQuotes) SetStatus(_ context.Context, id uuid.UUID, status models.InquiryStatus) (*models.QuoteRequest, error) {
	for i := range m.items {
		if m.items[i].ID == id {
			m.items[i].Status = status
			return &m.items[i], nil
		}
	}
	return nil, store.ErrNotFound
}

func (m *memQuotes) Delete(_ context.Context, id uuid.UUID) error {
	for i := range m.items {
		if m.items[i].ID == id {
			m.items = slices.Delete(m.items, i, i+1)
			return nil
		}
	}
	return store.ErrNotFound
}

func (m *memQuotes) CountPending(_ context.Context) (int, error) {
	n := 0
	for _, q := range m.items {
		if q.Status == models.InquiryPending {
			n++
		}
	}
	return n, nil
}

type fixedCount int

func (c fixedCount) Count(context.Context) (int, error) { return int(c), nil }

// fakeNotifier records quotes and returns err.
type fakeNotifier struct {
	err   error
	calls []*models.QuoteRequest
}

func (f *fakeNotifier) NotifyQuote(_ context.Context, q *models.QuoteRequest) error {
	f.calls = append(f.calls, q)
	return f.err
}

// memCategories serves the catalog reads from a flat list. Writes are
// not implemented.
type memCategories struct {
	catalog.CategoryRepository
	flat []models.Category
}

func (m *memCategories) List(context.Context) ([]models.Category, error) {
	return slices.Clone(m.flat), nil
}

func (m *memCategories) Tree(context.Context) ([]models.Category, error) {
	return store.BuildTree(m.flat), nil
}

func (m *memCategories) FlatTree(context.Context) ([]models.Category, error) {
	return store.Flatten(store.BuildTree(m.flat)), nil
}

func (m *memCategories) ListByParent(_ context.Context, parentID *uuid.UUID) ([]models.Category, error) {
	var out []models.Category
	for _, c := range m.flat {
		if (parentID == nil && c.ParentID == nil) || (parentID != nil && c.ParentID != nil && *c.ParentID == *parentID) {
			out = append(out, c)
		}
	}
	return out, nil
}

func (m *memCategories) FindByID(_ context.Context, id uuid.UUID) (*models.Category, error) {
	for _, c := range m.flat {
		if c.ID == id {
			return &c, nil
		}
	}
	return nil, store.ErrNotFound
}

func (m *memCategories) FindBySlug(_ context.Context, slug string) (*models.Category, error) {
	for _, c := range m.flat {
		if c.Slug == slug {
			node, _ := store.Subtree(m.flat, c.ID, 2)
			return &node, nil
		}
	}
	return nil, store.ErrNotFound
}

// memProducts serves product reads from a fixed list.
type memProducts struct {
	catalog.ProductRepository
	items []models.Product
}

func (m *memProducts) List(_ context.Context, f store.ProductFilter) ([]models.Product, error) {
	var out []models.Product
	for _, p := range m.items {
		if f.ActiveOnly && !p.IsActive {
			continue
		}
		if f.CategoryID != nil && p.CategoryID != *f.CategoryID {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

func (m *memProducts) FindBySlug(_ context.Context, slug string) (*models.Product, error) {
	for _, p := range m.items {
		if p.Slug == slug {
			return &p, nil
		}
	}
	return nil, store.ErrNotFound
}

// newMemCatalogAPI returns an API whose catalog reads come from memory.
func newMemCatalogAPI(cats []models.Category, products []models.Product) *API {
	svc := catalog.New(&memCategories{flat: cats}, &memProducts{items: products})
	return NewAPI(svc, Stores{}, nil, nil, nil, nil, 1<<20)
}

// newMemAPI returns an API over in-memory stores. The catalog service is
// not wired; tests using it need newMemCatalogAPI or the database.
func newMemAPI(notifier QuoteNotifier) (*API, Stores) {
	stores := Stores{
		Settings:     newMemSettings(),
		Slides:       &memContent[models.Slide]{id: func(v *models.Slide) *uuid.UUID { return &v.ID }, active: func(v *models.Slide) bool { return v.IsActive }},
		Blog:         newMemBlog(),
		FAQs:         newMemFAQs(),
		Testimonials: &memContent[models.Testimonial]{id: func(v *models.Testimonial) *uuid.UUID { return &v.ID }, active: func(v *models.Testimonial) bool { return v.IsActive }},
		Messages:     &memMessages{},
		Quotes:       &memQuotes{},
		Categories:   fixedCount(3),
		Products:     fixedCount(7),
	}
	return NewAPI(nil, stores, nil, nil, notifier, nil, 1<<20), stores
}
