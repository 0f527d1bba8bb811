// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package catalog implements the category tree and product operations on
// top of the store package: input validation, defaults, and the image
// shorthand rule. Storage errors from the store taxonomy pass through
// unchanged so callers can map them.
package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"arvix/internal/models"
	"arvix/internal/slug"
	"arvix/internal/store"
)

// ValidationError reports a missing or malformed input field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func invalid(field, msg string) error {
	return &ValidationError{Field: field, Message: msg}
}

// CategoryRepository is the storage the service needs for categories.
type CategoryRepository interface {
	Tree(ctx context.Context) ([]models.Category, error)
	FlatTree(ctx context.Context) ([]models.Category, error)
	List(ctx context.Context) ([]models.Category, error)
	ListByParent(ctx context.Context, parentID *uuid.UUID) ([]models.Category, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Category, error)
	FindBySlug(ctx context.Context, slug string) (*models.Category, error)
	Create(ctx context.Context, c *models.Category) (*models.Category, error)
	Update(ctx context.Context, id uuid.UUID, p store.CategoryPatch) (*models.Category, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Reorder(ctx context.Context, items []store.ReorderItem) error
	NextSortOrder(ctx context.Context, parentID *uuid.UUID) (int, error)
}

// ProductRepository is the storage the service needs for products.
type ProductRepository interface {
	List(ctx context.Context, f store.ProductFilter) ([]models.Product, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
	FindBySlug(ctx context.Context, slug string) (*models.Product, error)
	Create(ctx context.Context, p *models.Product, images []store.ImageInput, videos []store.VideoInput) (*models.Product, error)
	Update(ctx context.Context, id uuid.UUID, p store.ProductPatch) (*models.Product, error)
	SyncImages(ctx context.Context, productID uuid.UUID, images []store.ImageInput) ([]models.ProductImage, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// Service is the catalog entry point used by HTTP handlers and pages.
type Service struct {
	categories CategoryRepository
	products   ProductRepository
}

// New creates a catalog service over the given repositories.
func New(categories CategoryRepository, products ProductRepository) *Service {
	return &Service{categories: categories, products: products}
}

// OptionalID is a JSON field that distinguishes "absent" from "null".
// Set is true whenever the key appeared in the document. The strings ""
// and "root" are read as null.
type OptionalID struct {
	Set bool
	ID  *uuid.UUID
}

// UnmarshalJSON implements json.Unmarshaler.
func (o *OptionalID) UnmarshalJSON(b []byte) error {
	o.Set = true
	o.ID = nil
	if bytes.Equal(b, []byte("null")) {
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return invalid("parentId", "must be a string id or null")
	}
	if s == "" || s == "root" {
		return nil
	}
	id, err := uuid.Parse(s)
	if err != nil {
		return invalid("parentId", "must be a valid id")
	}
	o.ID = &id
	return nil
}

// MarshalJSON implements json.Marshaler.
func (o OptionalID) MarshalJSON() ([]byte, error) {
	return json.Marshal(o.ID)
}

// requireText trims *v in place and rejects a nil or blank value.
func requireText(field string, v *string) error {
	if v == nil || strings.TrimSpace(*v) == "" {
		return invalid(field, "is required")
	}
	*v = strings.TrimSpace(*v)
	return nil
}

// checkSlug validates a slug that is being set.
func checkSlug(v *string) error {
	if err := requireText("slug", v); err != nil {
		return err
	}
	if !slug.Valid(*v) {
		return invalid("slug", fmt.Sprintf("must be lowercase letters, digits and single hyphens (try %q)", slug.Generate(*v)))
	}
	return nil
}
