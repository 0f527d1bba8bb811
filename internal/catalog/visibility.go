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

// Hidden is the set of categories the storefront must not show: every
// inactive category and everything below one.
type Hidden map[uuid.UUID]bool

// HiddenCategories computes the Hidden set from a flat category list.
func HiddenCategories(flat []models.Category) Hidden {
	parents := store.NewParentMap(flat)
	var inactive []uuid.UUID
	for _, c := range flat {
		if !c.IsActive {
			inactive = append(inactive, c.ID)
		}
	}

	hidden := make(Hidden)
	if len(inactive) == 0 {
		return hidden
	}
	for _, c := range flat {
		for _, id := range inactive {
			if parents.IsDescendant(c.ID, id) {
				hidden[c.ID] = true
				break
			}
		}
	}
	return hidden
}

// Filter drops hidden categories from a flat list.
func (h Hidden) Filter(cats []models.Category) []models.Category {
	out := make([]models.Category, 0, len(cats))
	for _, c := range cats {
		if !h[c.ID] {
			out = append(out, c)
		}
	}
	return out
}

// PruneInactive removes inactive nodes, with their whole subtrees, from a
// category tree. The input is not modified.
func PruneInactive(tree []models.Category) []models.Category {
	out := make([]models.Category, 0, len(tree))
	for _, c := range tree {
		if !c.IsActive {
			continue
		}
		if c.Children != nil {
			c.Children = PruneInactive(c.Children)
		}
		out = append(out, c)
	}
	return out
}

// HiddenCategories loads the current Hidden set.
func (s *Service) HiddenCategories(ctx context.Context) (Hidden, error) {
	flat, err := s.categories.List(ctx)
	if err != nil {
		return nil, err
	}
	return HiddenCategories(flat), nil
}

// PublicCategory returns c as the storefront may show it: inactive
// descendants pruned, or store.ErrNotFound when c itself is hidden.
func (s *Service) PublicCategory(ctx context.Context, c *models.Category) (*models.Category, error) {
	hidden, err := s.HiddenCategories(ctx)
	if err != nil {
		return nil, err
	}
	if hidden[c.ID] {
		return nil, store.ErrNotFound
	}
	c.Children = PruneInactive(c.Children)
	return c, nil
}

// PublicProduct returns store.ErrNotFound unless p is active and its
// category is visible.
func (s *Service) PublicProduct(ctx context.Context, p *models.Product) error {
	if !p.IsActive {
		return store.ErrNotFound
	}
	hidden, err := s.HiddenCategories(ctx)
	if err != nil {
		return err
	}
	if hidden[p.CategoryID] {
		return store.ErrNotFound
	}
	return nil
}
