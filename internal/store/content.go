// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"arvix/internal/models"
)

// Stores for the editorial collections shown around the catalog. Each one
// follows the same shape: List, FindByID, Create, Update (whole record),
// Delete. Callers wanting partial updates load, overlay and save.

// SlideStore manages home page carousel slides.
type SlideStore struct {
	db *sql.DB
}

// NewSlideStore returns a new SlideStore.
func NewSlideStore(db *sql.DB) *SlideStore {
	return &SlideStore{db: db}
}

const slideColumns = `id, title, subtitle, image, link, button_text, is_active, sort_order, created_at, updated_at`

func scanSlide(scanner interface{ Scan(...any) error }) (*models.Slide, error) {
	var sl models.Slide
	err := scanner.Scan(&sl.ID, &sl.Title, &sl.Subtitle, &sl.Image, &sl.Link, &sl.ButtonText,
		&sl.IsActive, &sl.Order, &sl.CreatedAt, &sl.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &sl, nil
}

// List returns slides in display order, optionally only active ones.
func (s *SlideStore) List(ctx context.Context, activeOnly bool) ([]models.Slide, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+slideColumns+` FROM slides
		WHERE is_active OR NOT $1
		ORDER BY sort_order, created_at, id`, activeOnly)
	if err != nil {
		return nil, fmt.Errorf("list slides: %w", err)
	}
	defer rows.Close()

	items := []models.Slide{}
	for rows.Next() {
		sl, err := scanSlide(rows)
		if err != nil {
			return nil, fmt.Errorf("scan slide: %w", err)
		}
		items = append(items, *sl)
	}
	return items, rows.Err()
}

// FindByID retrieves a slide or ErrNotFound.
func (s *SlideStore) FindByID(ctx context.Context, id uuid.UUID) (*models.Slide, error) {
	sl, err := scanSlide(s.db.QueryRowContext(ctx, `SELECT `+slideColumns+` FROM slides WHERE id = $1`, id))
	return sl, wrapFind("slide", err)
}

// Create inserts a new slide.
func (s *SlideStore) Create(ctx context.Context, sl *models.Slide) (*models.Slide, error) {
	row := s.db.QueryRowContext(ctx, `
		INSERT INTO slides (title, subtitle, image, link, button_text, is_active, sort_order)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING `+slideColumns,
		sl.Title, nullIfEmpty(sl.Subtitle), sl.Image, nullIfEmpty(sl.Link), nullIfEmpty(sl.ButtonText),
		sl.IsActive, sl.Order)
	created, err := scanSlide(row)
	if err != nil {
		return nil, fmt.Errorf("create slide: %w", classify(err))
	}
	return created, nil
}

// Update saves every field of sl.
func (s *SlideStore) Update(ctx context.Context, sl *models.Slide) (*models.Slide, error) {
	row := s.db.QueryRowContext(ctx, `
		UPDATE slides SET title = $1, subtitle = $2, image = $3, link = $4, button_text = $5,
			is_active = $6, sort_order = $7, updated_at = NOW()
		WHERE id = $8
		RETURNING `+slideColumns,
		sl.Title, nullIfEmpty(sl.Subtitle), sl.Image, nullIfEmpty(sl.Link), nullIfEmpty(sl.ButtonText),
		sl.IsActive, sl.Order, sl.ID)
	updated, err := scanSlide(row)
	return updated, wrapWrite("update slide", err)
}

// Delete removes a slide.
func (s *SlideStore) Delete(ctx context.Context, id uuid.UUID) error {
	return deleteByID(ctx, s.db, "slides", id)
}

// BlogStore manages blog posts.
type BlogStore struct {
	db *sql.DB
}

// NewBlogStore returns a new BlogStore.
func NewBlogStore(db *sql.DB) *BlogStore {
	return &BlogStore{db: db}
}

const blogColumns = `id, title, slug, excerpt, content, image, author, is_published, published_at, created_at, updated_at`

func scanBlogPost(scanner interface{ Scan(...any) error }) (*models.BlogPost, error) {
	var p models.BlogPost
	err := scanner.Scan(&p.ID, &p.Title, &p.Slug, &p.Excerpt, &p.Content, &p.Image, &p.Author,
		&p.IsPublished, &p.PublishedAt, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// List returns posts newest first, optionally only published ones.
func (s *BlogStore) List(ctx context.Context, publishedOnly bool) ([]models.BlogPost, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+blogColumns+` FROM blog_posts
		WHERE is_published OR NOT $1
		ORDER BY COALESCE(published_at, created_at) DESC, id`, publishedOnly)
	if err != nil {
		return nil, fmt.Errorf("list blog posts: %w", err)
	}
	defer rows.Close()

	items := []models.BlogPost{}
	for rows.Next() {
		p, err := scanBlogPost(rows)
		if err != nil {
			return nil, fmt.Errorf("scan blog post: %w", err)
		}
		items = append(items, *p)
	}
	return items, rows.Err()
}

// FindBySlug retrieves a post by slug. Drafts are hidden when publishedOnly is set.
func (s *BlogStore) FindBySlug(ctx context.Context, slug string, publishedOnly bool) (*models.BlogPost, error) {
	p, err := scanBlogPost(s.db.QueryRowContext(ctx, `
		SELECT `+blogColumns+` FROM blog_posts
		WHERE slug = $1 AND (is_published OR NOT $2)`, slug, publishedOnly))
	return p, wrapFind("blog post", err)
}

// FindByID retrieves a post or ErrNotFound.
func (s *BlogStore) FindByID(ctx context.Context, id uuid.UUID) (*models.BlogPost, error) {
	p, err := scanBlogPost(s.db.QueryRowContext(ctx, `SELECT `+blogColumns+` FROM blog_posts WHERE id = $1`, id))
	return p, wrapFind("blog post", err)
}

// Create inserts a post. Publishing without a date stamps the current time.
func (s *BlogStore) Create(ctx context.Context, p *models.BlogPost) (*models.BlogPost, error) {
	row := s.db.QueryRowContext(ctx, `
		INSERT INTO blog_posts (title, slug, excerpt, content, image, author, is_published, published_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, CASE WHEN $7 THEN COALESCE($8, NOW()) ELSE $8 END)
		RETURNING `+blogColumns,
		p.Title, p.Slug, nullIfEmpty(p.Excerpt), p.Content, nullIfEmpty(p.Image), nullIfEmpty(p.Author),
		p.IsPublished, p.PublishedAt)
	created, err := scanBlogPost(row)
	if err != nil {
		return nil, fmt.Errorf("create blog post: %w", classify(err))
	}
	return created, nil
}

// Update saves every field of p.
func (s *BlogStore) Update(ctx context.Context, p *models.BlogPost) (*models.BlogPost, error) {
	row := s.db.QueryRowContext(ctx, `
		UPDATE blog_posts SET title = $1, slug = $2, excerpt = $3, content = $4, image = $5,
			author = $6, is_published = $7,
			published_at = CASE WHEN $7 THEN COALESCE($8, NOW()) ELSE $8 END,
			updated_at = NOW()
		WHERE id = $9
		RETURNING `+blogColumns,
		p.Title, p.Slug, nullIfEmpty(p.Excerpt), p.Content, nullIfEmpty(p.Image), nullIfEmpty(p.Author),
		p.IsPublished, p.PublishedAt, p.ID)
	updated, err := scanBlogPost(row)
	return updated, wrapWrite("update blog post", err)
}

// Delete removes a post.
func (s *BlogStore) Delete(ctx context.Context, id uuid.UUID) error {
	return deleteByID(ctx, s.db, "blog_posts", id)
}

// FAQStore manages frequently asked questions.
type FAQStore struct {
	db *sql.DB
}

// NewFAQStore returns a new FAQStore.
func NewFAQStore(db *sql.DB) *FAQStore {
	return &FAQStore{db: db}
}

const faqColumns = `id, question, answer, is_active, sort_order, created_at, updated_at`

func scanFAQ(scanner interface{ Scan(...any) error }) (*models.FAQ, error) {
	var f models.FAQ
	if err := scanner.Scan(&f.ID, &f.Question, &f.Answer, &f.IsActive, &f.Order, &f.CreatedAt, &f.UpdatedAt); err != nil {
		return nil, err
	}
	return &f, nil
}

// List returns questions in display order, optionally only active ones.
func (s *FAQStore) List(ctx context.Context, activeOnly bool) ([]models.FAQ, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+faqColumns+` FROM faqs
		WHERE is_active OR NOT $1
		ORDER BY sort_order, created_at, id`, activeOnly)
	if err != nil {
		return nil, fmt.Errorf("list faqs: %w", err)
	}
	defer rows.Close()

	items := []models.FAQ{}
	for rows.Next() {
		f, err := scanFAQ(rows)
		if err != nil {
			return nil, fmt.Errorf("scan faq: %w", err)
		}
		items = append(items, *f)
	}
	return items, rows.Err()
}

// FindByID retrieves a question or ErrNotFound.
func (s *FAQStore) FindByID(ctx context.Context, id uuid.UUID) (*models.FAQ, error) {
	f, err := scanFAQ(s.db.QueryRowContext(ctx, `SELECT `+faqColumns+` FROM faqs WHERE id = $1`, id))
	return f, wrapFind("faq", err)
}

// Create inserts a question.
func (s *FAQStore) Create(ctx context.Context, f *models.FAQ) (*models.FAQ, error) {
	row := s.db.QueryRowContext(ctx, `
		INSERT INTO faqs (question, answer, is_active, sort_order)
		VALUES ($1, $2, $3, $4)
		RETURNING `+faqColumns,
		f.Question, f.Answer, f.IsActive, f.Order)
	created, err := scanFAQ(row)
	if err != nil {
		return nil, fmt.Errorf("create faq: %w", classify(err))
	}
	return created, nil
}

// Update saves every field of f.
func (s *FAQStore) Update(ctx context.Context, f *models.FAQ) (*models.FAQ, error) {
	row := s.db.QueryRowContext(ctx, `
		UPDATE faqs SET question = $1, answer = $2, is_active = $3, sort_order = $4, updated_at = NOW()
		WHERE id = $5
		RETURNING `+faqColumns,
		f.Question, f.Answer, f.IsActive, f.Order, f.ID)
	updated, err := scanFAQ(row)
	return updated, wrapWrite("update faq", err)
}

// Delete removes a question.
func (s *FAQStore) Delete(ctx context.Context, id uuid.UUID) error {
	return deleteByID(ctx, s.db, "faqs", id)
}

// TestimonialStore manages customer testimonials.
type TestimonialStore struct {
	db *sql.DB
}

// NewTestimonialStore returns a new TestimonialStore.
func NewTestimonialStore(db *sql.DB) *TestimonialStore {
	return &TestimonialStore{db: db}
}

const testimonialColumns = `id, name, company, content, image, rating, is_active, sort_order, created_at, updated_at`

func scanTestimonial(scanner interface{ Scan(...any) error }) (*models.Testimonial, error) {
	var t models.Testimonial
	err := scanner.Scan(&t.ID, &t.Name, &t.Company, &t.Content, &t.Image, &t.Rating,
		&t.IsActive, &t.Order, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// List returns testimonials in display order, optionally only active ones.
func (s *TestimonialStore) List(ctx context.Context, activeOnly bool) ([]models.Testimonial, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+testimonialColumns+` FROM testimonials
		WHERE is_active OR NOT $1
		ORDER BY sort_order, created_at, id`, activeOnly)
	if err != nil {
		return nil, fmt.Errorf("list testimonials: %w", err)
	}
	defer rows.Close()

	items := []models.Testimonial{}
	for rows.Next() {
		t, err := scanTestimonial(rows)
		if err != nil {
			return nil, fmt.Errorf("scan testimonial: %w", err)
		}
		items = append(items, *t)
	}
	return items, rows.Err()
}

// FindByID retrieves a testimonial or ErrNotFound.
func (s *TestimonialStore) FindByID(ctx context.Context, id uuid.UUID) (*models.Testimonial, error) {
	t, err := scanTestimonial(s.db.QueryRowContext(ctx, `SELECT `+testimonialColumns+` FROM testimonials WHERE id = $1`, id))
	return t, wrapFind("testimonial", err)
}

// Create inserts a testimonial.
func (s *TestimonialStore) Create(ctx context.Context, t *models.Testimonial) (*models.Testimonial, error) {
	row := s.db.QueryRowContext(ctx, `
		INSERT INTO testimonials (name, company, content, image, rating, is_active, sort_order)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING `+testimonialColumns,
		t.Name, nullIfEmpty(t.Company), t.Content, nullIfEmpty(t.Image), t.Rating, t.IsActive, t.Order)
	created, err := scanTestimonial(row)
	if err != nil {
		return nil, fmt.Errorf("create testimonial: %w", classify(err))
	}
	return created, nil
}

// Update saves every field of t.
func (s *TestimonialStore) Update(ctx context.Context, t *models.Testimonial) (*models.Testimonial, error) {
	row := s.db.QueryRowContext(ctx, `
		UPDATE testimonials SET name = $1, company = $2, content = $3, image = $4, rating = $5,
			is_active = $6, sort_order = $7, updated_at = NOW()
		WHERE id = $8
		RETURNING `+testimonialColumns,
		t.Name, nullIfEmpty(t.Company), t.Content, nullIfEmpty(t.Image), t.Rating, t.IsActive, t.Order, t.ID)
	updated, err := scanTestimonial(row)
	return updated, wrapWrite("update testimonial", err)
}

// Delete removes a testimonial.
func (s *TestimonialStore) Delete(ctx context.Context, id uuid.UUID) error {
	return deleteByID(ctx, s.db, "testimonials", id)
}

// wrapFind passes ErrNotFound through bare and wraps anything else.
func wrapFind(what string, err error) error {
	if err == nil {
		return nil
	}
	if err = classify(err); errors.Is(err, ErrNotFound) {
		return err
	}
	return fmt.Errorf("find %s: %w", what, err)
}

// wrapWrite is wrapFind for RETURNING writes, keeping constraint errors typed.
func wrapWrite(op string, err error) error {
	if err == nil {
		return nil
	}
	if err = classify(err); errors.Is(err, ErrNotFound) {
		return err
	}
	return fmt.Errorf("%s: %w", op, err)
}

// deleteByID removes one row from table. table is always a constant.
func deleteByID(ctx context.Context, db *sql.DB, table string, id uuid.UUID) error {
	res, err := db.ExecContext(ctx, `DELETE FROM `+table+` WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete from %s: %w", table, err)
	}
	return expectAffected(res)
}
