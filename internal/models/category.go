// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"github.com/google/uuid"
)

// Category is a node in the product category tree. Root categories have
// a nil ParentID. Slugs are unique across the whole tree.
type Category struct {
	ID          uuid.UUID  `json:"id"`
	Name        string     `json:"name"`
	Slug        string     `json:"slug"`
	OldName     *string    `json:"oldName,omitempty"`
	Description *string    `json:"description,omitempty"`
	Image       *string    `json:"image,omitempty"`
	IsActive    bool       `json:"isActive"`
	Order       int        `json:"order"`
	ParentID    *uuid.UUID `json:"parentId"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`

	// Virtual fields populated by store methods.
	Parent       *Category  `json:"parent,omitempty"`
	Children     []Category `json:"children,omitzero"`
	Depth        int        `json:"depth"`
	ProductCount int        `json:"productCount"`
	ChildCount   int        `json:"childCount"`
}

// IsRoot reports whether the category sits at the top of the tree.
func (c *Category) IsRoot() bool {
	return c.ParentID == nil
}

// Breadcrumb returns the chain from the outermost loaded ancestor down to c.
func (c *Category) Breadcrumb() []Category {
	var chain []Category
	for cur := c; cur != nil; cur = cur.Parent {
		chain = append([]Category{*cur}, chain...)
	}
	return chain
}
