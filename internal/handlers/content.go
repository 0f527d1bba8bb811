// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"arvix/internal/middleware"
	"arvix/internal/models"
	"arvix/internal/slug"
	"arvix/internal/store"
)

// ContentRoutes is the CRUD handler set of one content type.
type ContentRoutes struct {
	List   http.HandlerFunc
	Create http.HandlerFunc
	Update http.HandlerFunc
	Delete http.HandlerFunc
}

// resource serves list/create/update/delete for a flat content type.
type resource[T any] struct {
	store    ContentStore[T]
	defaults func() T
	setID    func(*T, uuid.UUID)
	visible  func(*T) bool
	prepare  func(*T)
	bySlug   func(ctx context.Context, slug string, activeOnly bool) (*T, error)
}

func (rs *resource[T]) routes() ContentRoutes {
	return ContentRoutes{List: rs.list, Create: rs.create, Update: rs.update, Delete: rs.remove}
}

// list returns active records. Admins see hidden ones with all=true and
// can fetch any single record by id.
func (rs *resource[T]) list(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	admin := middleware.IsAdmin(ctx)
	activeOnly := !(admin && flag(r, "all"))

	if s := r.URL.Query().Get("slug"); s != "" && rs.bySlug != nil {
		v, err := rs.bySlug(ctx, s, !admin)
		if err != nil {
			writeFailure(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, v)
		return
	}

	if r.URL.Query().Has("id") {
		id, err := queryID(r, "id")
		if err != nil {
			writeFailure(w, r, err)
			return
		}
		v, err := rs.store.FindByID(ctx, id)
		if err == nil && !admin && !rs.visible(v) {
			err = store.ErrNotFound
		}
		if err != nil {
			writeFailure(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, v)
		return
	}

	items, err := rs.store.List(ctx, activeOnly)
	if err != nil {
		writeFailure(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (rs *resource[T]) create(w http.ResponseWriter, r *http.Request) {
	v := rs.defaults()
	if err := decodeJSON(w, r, &v); err != nil {
		writeFailure(w, r, err)
		return
	}
	rs.prepare(&v)
	if err := validateStruct(&v); err != nil {
		writeFailure(w, r, err)
		return
	}
	created, err := rs.store.Create(r.Context(), &v)
	if err != nil {
		writeFailure(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// update loads the record and decodes the body over it, so fields the
// client leaves out keep their stored values.
func (rs *resource[T]) update(w http.ResponseWriter, r *http.Request) {
	body, err := readBody(w, r)
	if err != nil {
		writeFailure(w, r, err)
		return
	}
	id, err := targetID(r, body)
	if err != nil {
		writeFailure(w, r, err)
		return
	}
	current, err := rs.store.FindByID(r.Context(), id)
	if err != nil {
		writeFailure(w, r, err)
		return
	}
	if err := decodeInto(body, current); err != nil {
		writeFailure(w, r, err)
		return
	}
	rs.setID(current, id)
	rs.prepare(current)
	if err := validateStruct(current); err != nil {
		writeFailure(w, r, err)
		return
	}
	updated, err := rs.store.Update(r.Context(), current)
	if err != nil {
		writeFailure(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (rs *resource[T]) remove(w http.ResponseWriter, r *http.Request) {
	id, err := queryID(r, "id")
	if err != nil {
		writeFailure(w, r, err)
		return
	}
	if err := rs.store.Delete(r.Context(), id); err != nil {
		writeFailure(w, r, err)
		return
	}
	writeOK(w)
}

// Slides returns the handlers for /api/slides.
func (a *API) Slides() ContentRoutes { return a.slides.routes() }

// Blog returns the handlers for /api/blog. GET also accepts ?slug=<s>;
// drafts are only found by admins.
func (a *API) Blog() ContentRoutes { return a.blog.routes() }

// FAQs returns the handlers for /api/faq.
func (a *API) FAQs() ContentRoutes { return a.faqs.routes() }

// Testimonials returns the handlers for /api/testimonials.
func (a *API) Testimonials() ContentRoutes { return a.testimonials.routes() }

func trimPtr(s *string) {
	if s != nil {
		*s = strings.TrimSpace(*s)
	}
}

func slideResource(s ContentStore[models.Slide]) *resource[models.Slide] {
	return &resource[models.Slide]{
		store:    s,
		defaults: func() models.Slide { return models.Slide{IsActive: true} },
		setID:    func(v *models.Slide, id uuid.UUID) { v.ID = id },
		visible:  func(v *models.Slide) bool { return v.IsActive },
		prepare: func(v *models.Slide) {
			v.Title = strings.TrimSpace(v.Title)
			v.Image = strings.TrimSpace(v.Image)
			trimPtr(v.Subtitle)
			trimPtr(v.Link)
			trimPtr(v.ButtonText)
		},
	}
}

func blogResource(s BlogStore) *resource[models.BlogPost] {
	rs := &resource[models.BlogPost]{
		store:    s,
		defaults: func() models.BlogPost { return models.BlogPost{} },
		setID:    func(v *models.BlogPost, id uuid.UUID) { v.ID = id },
		visible:  func(v *models.BlogPost) bool { return v.IsPublished },
		prepare: func(v *models.BlogPost) {
			v.Title = strings.TrimSpace(v.Title)
			v.Slug = strings.TrimSpace(v.Slug)
			if v.Slug == "" {
				v.Slug = slug.Generate(v.Title)
			}
			trimPtr(v.Excerpt)
			trimPtr(v.Author)
			trimPtr(v.Image)
		},
	}
	if s != nil {
		rs.bySlug = s.FindBySlug
	}
	return rs
}

func faqResource(s ContentStore[models.FAQ]) *resource[models.FAQ] {
	return &resource[models.FAQ]{
		store:    s,
		defaults: func() models.FAQ { return models.FAQ{IsActive: true} },
		setID:    func(v *models.FAQ, id uuid.UUID) { v.ID = id },
		visible:  func(v *models.FAQ) bool { return v.IsActive },
		prepare: func(v *models.FAQ) {
			v.Question = strings.TrimSpace(v.Question)
			v.Answer = strings.TrimSpace(v.Answer)
		},
	}
}

func testimonialResource(s ContentStore[models.Testimonial]) *resource[models.Testimonial] {
	return &resource[models.Testimonial]{
		store:    s,
		defaults: func() models.Testimonial { return models.Testimonial{IsActive: true, Rating: 5} },
		setID:    func(v *models.Testimonial, id uuid.UUID) { v.ID = id },
		visible:  func(v *models.Testimonial) bool { return v.IsActive },
		prepare: func(v *models.Testimonial) {
			v.Name = strings.TrimSpace(v.Name)
			v.Content = strings.TrimSpace(v.Content)
			trimPtr(v.Company)
			trimPtr(v.Image)
		},
	}
}
