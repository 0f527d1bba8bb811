// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"net/http"

	"github.com/google/uuid"

	"arvix/internal/catalog"
	"arvix/internal/middleware"
	"arvix/internal/models"
	"arvix/internal/store"
)

// ListCategories handles GET /api/categories. The query selects the view:
// slug=<s>, id=<id>, tree=true, flatten=true or parentId=<id|root>.
// Without any of them every category is listed flat. Callers without an
// admin session never see inactive categories or anything below one.
func (a *API) ListCategories(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	q := r.URL.Query()
	admin := middleware.IsAdmin(ctx)

	switch {
	case q.Get("slug") != "" || q.Has("id"):
		var (
			c   *models.Category
			err error
		)
		if s := q.Get("slug"); s != "" {
			c, err = a.catalog.CategoryBySlug(ctx, s)
		} else {
			id, idErr := queryID(r, "id")
			if idErr != nil {
				writeFailure(w, r, idErr)
				return
			}
			c, err = a.catalog.CategoryByID(ctx, id)
		}
		if err == nil && !admin {
			c, err = a.catalog.PublicCategory(ctx, c)
		}
		if err != nil {
			writeFailure(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, c)

	case flag(r, "tree"):
		tree, err := a.catalog.Tree(ctx)
		if err != nil {
			writeFailure(w, r, err)
			return
		}
		if !admin {
			tree = catalog.PruneInactive(tree)
		}
		writeJSON(w, http.StatusOK, tree)

	case flag(r, "flatten"):
		flat, err := a.catalog.FlatTree(ctx)
		if err == nil && !admin {
			flat, err = a.publicOnly(r, flat)
		}
		if err != nil {
			writeFailure(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, flat)

	default:
		var f catalog.ParentFilter
		if q.Has("parentId") {
			switch raw := q.Get("parentId"); raw {
			case "", "root", "null":
				f.Root = true
			default:
				id, err := uuid.Parse(raw)
				if err != nil {
					writeFailure(w, r, badRequest("parentId must be a valid id or root"))
					return
				}
				f.ParentID = &id
			}
		}
		list, err := a.catalog.Categories(ctx, f)
		if err == nil && !admin {
			list, err = a.publicOnly(r, list)
		}
		if err != nil {
			writeFailure(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, list)
	}
}

// publicOnly drops hidden categories from a flat listing.
func (a *API) publicOnly(r *http.Request, cats []models.Category) ([]models.Category, error) {
	hidden, err := a.catalog.HiddenCategories(r.Context())
	if err != nil {
		return nil, err
	}
	return hidden.Filter(cats), nil
}

// CreateCategory handles POST /api/categories.
func (a *API) CreateCategory(w http.ResponseWriter, r *http.Request) {
	var in catalog.CategoryInput
	if err := decodeJSON(w, r, &in); err != nil {
		writeFailure(w, r, err)
		return
	}
	c, err := a.catalog.CreateCategory(r.Context(), in)
	if err != nil {
		writeFailure(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, c)
}

// UpdateCategory handles PUT /api/categories. The id comes from the query
// string or the body; only the fields present in the body change.
func (a *API) UpdateCategory(w http.ResponseWriter, r *http.Request) {
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
	var in catalog.CategoryInput
	if err := decodeInto(body, &in); err != nil {
		writeFailure(w, r, err)
		return
	}
	c, err := a.catalog.UpdateCategory(r.Context(), id, in)
	if err != nil {
		writeFailure(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

// DeleteCategory handles DELETE /api/categories?id=<id>. Descendant
// categories and all of their products go with it.
func (a *API) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	id, err := queryID(r, "id")
	if err != nil {
		writeFailure(w, r, err)
		return
	}
	if err := a.catalog.DeleteCategory(r.Context(), id); err != nil {
		writeFailure(w, r, err)
		return
	}
	writeOK(w)
}

// ReorderCategories handles PUT /api/categories/reorder with a body of
// [{id, parentId, order}].
func (a *API) ReorderCategories(w http.ResponseWriter, r *http.Request) {
	var items []store.ReorderItem
	if err := decodeJSON(w, r, &items); err != nil {
		writeFailure(w, r, err)
		return
	}
	if len(items) == 0 {
		writeFailure(w, r, badRequest("at least one item is required"))
		return
	}
	for i := range items {
		if err := validateStruct(&items[i]); err != nil {
			writeFailure(w, r, err)
			return
		}
	}
	if err := a.catalog.ReorderCategories(r.Context(), items); err != nil {
		writeFailure(w, r, err)
		return
	}
	writeOK(w)
}
