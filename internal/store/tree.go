// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"github.com/google/uuid"

	"arvix/internal/models"
)

// BuildTree assembles nested categories from a flat list. The input order
// is kept among siblings, so callers pass rows already sorted by
// (sort_order, created_at). Depth is not capped. Nodes that are not
// reachable from a root (only possible with corrupt parent pointers) are
// dropped rather than looping.
func BuildTree(flat []models.Category) []models.Category {
	byParent := groupByParent(flat)
	var roots []models.Category
	for _, c := range flat {
		if c.ParentID == nil {
			roots = append(roots, c)
		}
	}
	return attach(roots, byParent, 0, -1, make(map[uuid.UUID]bool))
}

// Subtree returns the node with the given ID from flat, with children
// attached down to maxDepth levels below it. A negative maxDepth means
// unlimited. The second return value is false if the node is absent.
func Subtree(flat []models.Category, id uuid.UUID, maxDepth int) (models.Category, bool) {
	for _, c := range flat {
		if c.ID == id {
			nodes := attach([]models.Category{c}, groupByParent(flat), 0, maxDepth, make(map[uuid.UUID]bool))
			return nodes[0], true
		}
	}
	return models.Category{}, false
}

// Flatten walks a category tree depth-first (pre-order), returning every
// node with its Depth kept and Children stripped. Used for parent selectors.
func Flatten(tree []models.Category) []models.Category {
	result := make([]models.Category, 0, len(tree))
	flattenInto(tree, &result)
	return result
}

func flattenInto(cats []models.Category, result *[]models.Category) {
	for _, c := range cats {
		children := c.Children
		c.Children = nil
		*result = append(*result, c)
		if len(children) > 0 {
			flattenInto(children, result)
		}
	}
}

func groupByParent(flat []models.Category) map[uuid.UUID][]models.Category {
	byParent := make(map[uuid.UUID][]models.Category)
	for _, c := range flat {
		if c.ParentID != nil {
			byParent[*c.ParentID] = append(byParent[*c.ParentID], c)
		}
	}
	return byParent
}

// attach sets Depth and Children recursively. maxDepth < 0 is unlimited.
// Leaves get a non-nil empty Children slice so JSON renders [].
func attach(nodes []models.Category, byParent map[uuid.UUID][]models.Category, depth, maxDepth int, seen map[uuid.UUID]bool) []models.Category {
	out := make([]models.Category, 0, len(nodes))
	for _, c := range nodes {
		if seen[c.ID] {
			continue
		}
		seen[c.ID] = true
		c.Depth = depth
		if maxDepth < 0 || depth < maxDepth {
			c.Children = attach(byParent[c.ID], byParent, depth+1, maxDepth, seen)
		} else {
			c.Children = []models.Category{}
		}
		out = append(out, c)
	}
	return out
}

// ParentMap indexes each category's parent by ID.
type ParentMap map[uuid.UUID]*uuid.UUID

// NewParentMap builds a ParentMap from a flat list.
func NewParentMap(flat []models.Category) ParentMap {
	m := make(ParentMap, len(flat))
	for _, c := range flat {
		m[c.ID] = c.ParentID
	}
	return m
}

// IsDescendant reports whether candidate is id itself or lies anywhere
// below id. Walking up from candidate is bounded by the map size, so a
// corrupt loop terminates.
func (m ParentMap) IsDescendant(candidate, id uuid.UUID) bool {
	cur := &candidate
	for steps := 0; cur != nil && steps <= len(m); steps++ {
		if *cur == id {
			return true
		}
		cur = m[*cur]
	}
	return false
}

// HasCycle reports whether any node is its own ancestor.
func (m ParentMap) HasCycle() bool {
	for id, parent := range m {
		if parent != nil && m.IsDescendant(*parent, id) {
			return true
		}
	}
	return false
}
