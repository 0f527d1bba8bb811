// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"net/http"

	"arvix/internal/catalog"
	"arvix/internal/middleware"
	"arvix/internal/models"
	"arvix/internal/store"
)

// ListProducts handles GET /api/products. slug=<s> or id=<id> return one
// product with all media; categoryId, categorySlug and featured=true filter
// a listing. Hidden products are only visible to admins, and admin
// listings include them with all=true.
func (a *API) ListProducts(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	q := r.URL.Query()
	admin := middleware.IsAdmin(ctx)

	if q.Get("slug") != "" || q.Has("id") {
		var (
			p   *models.Product
			err error
		)
		if s := q.Get("slug"); s != "" {
			p, err = a.catalog.ProductBySlug(ctx, s)
		} else {
			id, idErr := queryID(r, "id")
			if idErr != nil {
				writeFailure(w, r, idErr)
				return
			}
			p, err = a.catalog.ProductByID(ctx, id)
		}
		if err == nil && !admin {
			err = a.catalog.PublicProduct(ctx, p)
		}
		if err != nil {
			writeFailure(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, p)
		return
	}

	pq := catalog.ProductQuery{
		CategorySlug:    q.Get("categorySlug"),
		Featured:        flag(r, "featured"),
		IncludeInactive: admin && flag(r, "all"),
	}
	if q.Has("categoryId") {
		id, err := queryID(r, "categoryId")
		if err != nil {
			writeFailure(w, r, err)
			return
		}
		pq.CategoryID = &id
	}

	list, err := a.catalog.Products(ctx, pq)
	if err != nil {
		writeFailure(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

// CreateProduct handles POST /api/products. Images come either as an
// ordered images array or as a single image shorthand.
func (a *API) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var in catalog.ProductInput
	if err := decodeJSON(w, r, &in); err != nil {
		writeFailure(w, r, err)
		return
	}
	p, err := a.catalog.CreateProduct(r.Context(), in)
	if err != nil {
		writeFailure(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, p)
}

// UpdateProduct handles PUT /api/products. Sending images (or image)
// replaces the whole image set; leaving both out keeps it.
func (a *API) UpdateProduct(w http.ResponseWriter, r *http.Request) {
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
	var in catalog.ProductInput
	if err := decodeInto(body, &in); err != nil {
		writeFailure(w, r, err)
		return
	}
	p, err := a.catalog.UpdateProduct(r.Context(), id, in)
	if err != nil {
		writeFailure(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// SyncProductImages handles PUT /api/products/images?id=<id>. The body is
// the desired ordered image list; entries carrying an id keep that row.
func (a *API) SyncProductImages(w http.ResponseWriter, r *http.Request) {
	id, err := queryID(r, "id")
	if err != nil {
		writeFailure(w, r, err)
		return
	}
	var images []store.ImageInput
	if err := decodeJSON(w, r, &images); err != nil {
		writeFailure(w, r, err)
		return
	}
	for i := range images {
		if err := validateStruct(&images[i]); err != nil {
			writeFailure(w, r, err)
			return
		}
	}
	out, err := a.catalog.SyncProductImages(r.Context(), id, images)
	if err != nil {
		writeFailure(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

// DeleteProduct handles DELETE /api/products?id=<id>.
func (a *API) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	id, err := queryID(r, "id")
	if err != nil {
		writeFailure(w, r, err)
		return
	}
	if err := a.catalog.DeleteProduct(r.Context(), id); err != nil {
		writeFailure(w, r, err)
		return
	}
	writeOK(w)
}
