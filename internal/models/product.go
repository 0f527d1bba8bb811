// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"github.com/google/uuid"
)

// Product is a catalog item. It always belongs to exactly one category.
type Product struct {
	ID             uuid.UUID `json:"id"`
	Name           string    `json:"name"`
	Slug           string    `json:"slug"`
	OldName        *string   `json:"oldName,omitempty"`
	NewName        *string   `json:"newName,omitempty"`
	Description    *string   `json:"description,omitempty"`
	Specifications *string   `json:"specifications,omitempty"`
	IsActive       bool      `json:"isActive"`
	IsFeatured     bool      `json:"isFeatured"`
	Order          int       `json:"order"`
	CategoryID     uuid.UUID `json:"categoryId"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`

	// Category is loaded for slug lookups and category-slug listings.
	Category *Category     `json:"category,omitempty"`
	Images   []ProductImage `json:"images"`
	Videos   []ProductVideo `json:"videos,omitzero"`
}

// DisplayName prefers the rebranded name when one is set.
func (p *Product) DisplayName() string {
	if p.NewName != nil && *p.NewName != "" {
		return *p.NewName
	}
	return p.Name
}

// Thumbnail returns the URL of the first image, or "" if there is none.
func (p *Product) Thumbnail() string {
	if len(p.Images) == 0 {
		return ""
	}
	return p.Images[0].URL
}

// ProductImage is one ordered image of a product.
type ProductImage struct {
	ID        uuid.UUID `json:"id"`
	ProductID uuid.UUID `json:"productId"`
	URL       string    `json:"url"`
	Alt       *string   `json:"alt,omitempty"`
	Order     int       `json:"order"`
}

// ProductVideo is one ordered video link of a product.
type ProductVideo struct {
	ID        uuid.UUID `json:"id"`
	ProductID uuid.UUID `json:"productId"`
	URL       string    `json:"url"`
	Title     *string   `json:"title,omitempty"`
	Order     int       `json:"order"`
}
