// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package catalog

import (
	"context"

	"github.com/google/uuid"

	"arvix/internal/models"
	"arvix/internal/store"
)

// CategoryInput is the body of a category create or update. Pointer
// fields left nil are not changed on update.
type CategoryInput struct {
	ID          *uuid.UUID `json:"id"`
	Name        *string    `json:"name"`
	Slug        *string    `json:"slug"`
	OldName     *string    `json:"oldName"`
	Description *string    `json:"description"`
	Image       *string    `json:"image"`
	IsActive    *bool      `json:"isActive"`
	Order       *int       `json:"order"`
	ParentID    OptionalID `json:"parentId"`
}

// ParentFilter selects which categories a flat listing returns.
type ParentFilter struct {
	// Root limits the listing to categories without a parent.
	Root bool
	// ParentID limits the listing to direct children of one category.
	ParentID *uuid.UUID
}

// Tree returns every root category with its full descendant tree.
func (s *Service) Tree(ctx context.Context) ([]models.Category, error) {
	return s.categories.Tree(ctx)
}

// FlatTree returns the tree flattened depth-first with Depth set.
func (s *Service) FlatTree(ctx context.Context) ([]models.Category, error) {
	return s.categories.FlatTree(ctx)
}

// CategoryBySlug returns one category, two levels of children and its ancestors.
func (s *Service) CategoryBySlug(ctx context.Context, slug string) (*models.Category, error) {
	return s.categories.FindBySlug(ctx, slug)
}

// CategoryByID returns one category without children.
func (s *Service) CategoryByID(ctx context.Context, id uuid.UUID) (*models.Category, error) {
	return s.categories.FindByID(ctx, id)
}

// Categories returns a flat listing, optionally filtered by parent.
func (s *Service) Categories(ctx context.Context, f ParentFilter) ([]models.Category, error) {
	switch {
	case f.Root:
		return s.categories.ListByParent(ctx, nil)
	case f.ParentID != nil:
		return s.categories.ListByParent(ctx, f.ParentID)
	default:
		return s.categories.List(ctx)
	}
}

// CreateCategory validates and stores a new category. Without an explicit
// order it is placed after its last sibling; without isActive it is active.
func (s *Service) CreateCategory(ctx context.Context, in CategoryInput) (*models.Category, error) {
	if err := requireText("name", in.Name); err != nil {
		return nil, err
	}
	if err := checkSlug(in.Slug); err != nil {
		return nil, err
	}
	if err := checkOrder(in.Order); err != nil {
		return nil, err
	}

	c := &models.Category{
		Name:        *in.Name,
		Slug:        *in.Slug,
		OldName:     in.OldName,
		Description: in.Description,
		Image:       in.Image,
		IsActive:    true,
		ParentID:    in.ParentID.ID,
	}
	if in.IsActive != nil {
		c.IsActive = *in.IsActive
	}
	if in.Order != nil {
		c.Order = *in.Order
	} else {
		next, err := s.categories.NextSortOrder(ctx, c.ParentID)
		if err != nil {
			return nil, err
		}
		c.Order = next
	}

	return s.categories.Create(ctx, c)
}

// UpdateCategory applies the supplied subset of fields to category id.
func (s *Service) UpdateCategory(ctx context.Context, id uuid.UUID, in CategoryInput) (*models.Category, error) {
	if in.Name != nil {
		if err := requireText("name", in.Name); err != nil {
			return nil, err
		}
	}
	if in.Slug != nil {
		if err := checkSlug(in.Slug); err != nil {
			return nil, err
		}
	}
	if err := checkOrder(in.Order); err != nil {
		return nil, err
	}

	return s.categories.Update(ctx, id, store.CategoryPatch{
		Name:        in.Name,
		Slug:        in.Slug,
		OldName:     in.OldName,
		Description: in.Description,
		Image:       in.Image,
		IsActive:    in.IsActive,
		Order:       in.Order,
		SetParent:   in.ParentID.Set,
		ParentID:    in.ParentID.ID,
	})
}

// DeleteCategory removes a category with all descendants and their products.
func (s *Service) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	return s.categories.Delete(ctx, id)
}

func checkOrder(order *int) error {
	if order != nil && *order < 0 {
		return invalid("order", "must not be negative")
	}
	return nil
}

// ReorderCategories moves and reorders many categories at once.
func (s *Service) ReorderCategories(ctx context.Context, items []store.ReorderItem) error {
	if len(items) == 0 {
		return invalid("items", "must not be empty")
	}
	seen := make(map[uuid.UUID]bool, len(items))
	for _, it := range items {
		if it.ID == uuid.Nil {
			return invalid("id", "is required")
		}
		if seen[it.ID] {
			return invalid("id", "appears more than once")
		}
		seen[it.ID] = true
		if it.ParentID != nil && *it.ParentID == it.ID {
			return store.ErrCycle
		}
	}
	return s.categories.Reorder(ctx, items)
}
