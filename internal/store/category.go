// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"arvix/internal/models"
)

// CategoryStore manages the category tree in the database.
type CategoryStore struct {
	db *sql.DB
}

// NewCategoryStore returns a new CategoryStore.
func NewCategoryStore(db *sql.DB) *CategoryStore {
	return &CategoryStore{db: db}
}

const categoryColumns = `id, name, slug, old_name, description, image, is_active, sort_order, parent_id, created_at, updated_at`

// categoryCounts is appended to selects over alias c.
const categoryCounts = `,
	(SELECT COUNT(*) FROM products p WHERE p.category_id = c.id) AS product_count,
	(SELECT COUNT(*) FROM categories ch WHERE ch.parent_id = c.id) AS child_count`

// categoryOrder is the sibling order used everywhere a list is returned.
const categoryOrder = `ORDER BY c.sort_order, c.created_at, c.id`

// treeLock serialises parent changes so two concurrent moves cannot
// build a loop that neither transaction sees on its own.
const treeLock = `SELECT pg_advisory_xact_lock(hashtext('categories_tree'))`

func scanCategory(scanner interface{ Scan(...any) error }) (*models.Category, error) {
	var c models.Category
	err := scanner.Scan(
		&c.ID, &c.Name, &c.Slug, &c.OldName, &c.Description, &c.Image,
		&c.IsActive, &c.Order, &c.ParentID, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func scanCategoryWithCounts(scanner interface{ Scan(...any) error }) (models.Category, error) {
	var c models.Category
	err := scanner.Scan(
		&c.ID, &c.Name, &c.Slug, &c.OldName, &c.Description, &c.Image,
		&c.IsActive, &c.Order, &c.ParentID, &c.CreatedAt, &c.UpdatedAt,
		&c.ProductCount, &c.ChildCount,
	)
	return c, err
}

func (s *CategoryStore) query(ctx context.Context, where string, args ...any) ([]models.Category, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+prefixed("c", categoryColumns)+categoryCounts+` FROM categories c `+where+` `+categoryOrder,
		args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []models.Category{}
	for rows.Next() {
		c, err := scanCategoryWithCounts(rows)
		if err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		items = append(items, c)
	}
	return items, rows.Err()
}

// List returns every category in sibling order, with product and child counts.
func (s *CategoryStore) List(ctx context.Context) ([]models.Category, error) {
	items, err := s.query(ctx, "")
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return items, nil
}

// Tree returns every category as a nested forest of roots.
func (s *CategoryStore) Tree(ctx context.Context) ([]models.Category, error) {
	flat, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	return BuildTree(flat), nil
}

// FlatTree returns categories in depth-first display order with Depth set,
// for indented parent selectors.
func (s *CategoryStore) FlatTree(ctx context.Context) ([]models.Category, error) {
	tree, err := s.Tree(ctx)
	if err != nil {
		return nil, err
	}
	return Flatten(tree), nil
}

// ListByParent returns the direct children of parentID, or the roots when
// parentID is nil.
func (s *CategoryStore) ListByParent(ctx context.Context, parentID *uuid.UUID) ([]models.Category, error) {
	var (
		items []models.Category
		err   error
	)
	if parentID == nil {
		items, err = s.query(ctx, `WHERE c.parent_id IS NULL`)
	} else {
		items, err = s.query(ctx, `WHERE c.parent_id = $1`, *parentID)
	}
	if err != nil {
		return nil, fmt.Errorf("list categories by parent: %w", err)
	}
	return items, nil
}

// FindByID retrieves a single category without children.
func (s *CategoryStore) FindByID(ctx context.Context, id uuid.UUID) (*models.Category, error) {
	items, err := s.query(ctx, `WHERE c.id = $1`, id)
	if err != nil {
		return nil, fmt.Errorf("find category by id: %w", err)
	}
	if len(items) == 0 {
		return nil, ErrNotFound
	}
	return &items[0], nil
}

// subtreeDepth is how many levels below a slug lookup are attached.
const subtreeDepth = 2

// FindBySlug retrieves a category with its children and grandchildren
// attached, and its ancestor chain linked through Parent.
func (s *CategoryStore) FindBySlug(ctx context.Context, slug string) (*models.Category, error) {
	rows, err := s.db.QueryContext(ctx, `
		WITH RECURSIVE sub AS (
			SELECT `+categoryColumns+`, 0 AS lvl FROM categories WHERE slug = $1
			UNION ALL
			SELECT `+prefixed("ch", categoryColumns)+`, sub.lvl + 1
			FROM categories ch JOIN sub ON ch.parent_id = sub.id
			WHERE sub.lvl < $2
		)
		SELECT `+prefixed("c", categoryColumns)+categoryCounts+`
		FROM sub c
		`+categoryOrder, slug, subtreeDepth)
	if err != nil {
		return nil, fmt.Errorf("find category by slug: %w", err)
	}
	defer rows.Close()

	var flat []models.Category
	for rows.Next() {
		c, err := scanCategoryWithCounts(rows)
		if err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		flat = append(flat, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("find category by slug: %w", err)
	}

	var rootID uuid.UUID
	for _, c := range flat {
		if c.Slug == slug {
			rootID = c.ID
		}
	}
	node, ok := Subtree(flat, rootID, subtreeDepth)
	if !ok {
		return nil, ErrNotFound
	}
	if err := s.linkAncestors(ctx, &node); err != nil {
		return nil, err
	}
	return &node, nil
}

// maxAncestors bounds the upward walk so a corrupt loop cannot spin.
const maxAncestors = 32

// Ancestors returns the chain above id, nearest parent first.
func (s *CategoryStore) Ancestors(ctx context.Context, id uuid.UUID) ([]models.Category, error) {
	rows, err := s.db.QueryContext(ctx, `
		WITH RECURSIVE up AS (
			SELECT `+categoryColumns+`, 0 AS lvl FROM categories WHERE id = $1
			UNION ALL
			SELECT `+prefixed("p", categoryColumns)+`, up.lvl + 1
			FROM categories p JOIN up ON p.id = up.parent_id
			WHERE up.lvl < $2
		)
		SELECT `+categoryColumns+` FROM up WHERE lvl > 0 ORDER BY lvl`, id, maxAncestors)
	if err != nil {
		return nil, fmt.Errorf("category ancestors: %w", err)
	}
	defer rows.Close()

	var chain []models.Category
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		chain = append(chain, *c)
	}
	return chain, rows.Err()
}

// linkAncestors loads the parent chain of c and links it through Parent.
func (s *CategoryStore) linkAncestors(ctx context.Context, c *models.Category) error {
	if c.ParentID == nil {
		return nil
	}
	chain, err := s.Ancestors(ctx, c.ID)
	if err != nil {
		return err
	}
	cur := c
	for i := range chain {
		cur.Parent = &chain[i]
		cur = cur.Parent
	}
	return nil
}

// Create inserts a new category. A nil ParentID makes it a root.
func (s *CategoryStore) Create(ctx context.Context, c *models.Category) (*models.Category, error) {
	row := s.db.QueryRowContext(ctx, `
		INSERT INTO categories (name, slug, old_name, description, image, is_active, sort_order, parent_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING `+categoryColumns,
		c.Name, c.Slug, nullIfEmpty(c.OldName), nullIfEmpty(c.Description), nullIfEmpty(c.Image),
		c.IsActive, c.Order, c.ParentID,
	)
	result, err := scanCategory(row)
	if err != nil {
		return nil, fmt.Errorf("create category: %w", classify(err))
	}
	result.Children = []models.Category{}
	return result, nil
}

// CategoryPatch lists the fields an update may change. Nil pointers are
// left alone. SetParent distinguishes "move to root" (ParentID nil) from
// "parent not mentioned".
type CategoryPatch struct {
	Name        *string
	Slug        *string
	OldName     *string
	Description *string
	Image       *string
	IsActive    *bool
	Order       *int
	SetParent   bool
	ParentID    *uuid.UUID
}

// Update applies a patch. Moving a category under itself or one of its
// descendants fails with ErrCycle.
func (s *CategoryStore) Update(ctx context.Context, id uuid.UUID, p CategoryPatch) (*models.Category, error) {
	var (
		sets []string
		args []any
	)
	set := func(col string, v any) {
		args = append(args, v)
		sets = append(sets, fmt.Sprintf("%s = $%d", col, len(args)))
	}
	if p.Name != nil {
		set("name", *p.Name)
	}
	if p.Slug != nil {
		set("slug", *p.Slug)
	}
	if p.OldName != nil {
		set("old_name", nullIfEmpty(p.OldName))
	}
	if p.Description != nil {
		set("description", nullIfEmpty(p.Description))
	}
	if p.Image != nil {
		set("image", nullIfEmpty(p.Image))
	}
	if p.IsActive != nil {
		set("is_active", *p.IsActive)
	}
	if p.Order != nil {
		set("sort_order", *p.Order)
	}
	if p.SetParent {
		set("parent_id", p.ParentID)
	}
	sets = append(sets, "updated_at = clock_timestamp()")
	args = append(args, id)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if p.SetParent && p.ParentID != nil {
		if *p.ParentID == id {
			return nil, ErrCycle
		}
		if _, err := tx.ExecContext(ctx, treeLock); err != nil {
			return nil, fmt.Errorf("lock category tree: %w", err)
		}
		var inSubtree bool
		err := tx.QueryRowContext(ctx, `
			WITH RECURSIVE sub AS (
				SELECT id FROM categories WHERE id = $1
				UNION
				SELECT c.id FROM categories c JOIN sub ON c.parent_id = sub.id
			)
			SELECT EXISTS (SELECT 1 FROM sub WHERE id = $2)`, id, *p.ParentID).Scan(&inSubtree)
		if err != nil {
			return nil, fmt.Errorf("check category subtree: %w", err)
		}
		if inSubtree {
			return nil, ErrCycle
		}
	}

	row := tx.QueryRowContext(ctx,
		fmt.Sprintf(`UPDATE categories SET %s WHERE id = $%d RETURNING `+categoryColumns,
			strings.Join(sets, ", "), len(args)),
		args...)
	result, err := scanCategory(row)
	if err != nil {
		return nil, fmt.Errorf("update category: %w", classify(err))
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit category update: %w", err)
	}
	return result, nil
}

// Delete removes a category. Descendant categories and every product
// attached to the removed subtree go with it (ON DELETE CASCADE).
func (s *CategoryStore) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM categories WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete category: %w", classify(err))
	}
	return expectAffected(res)
}

// ReorderItem represents a single item in a reorder request.
type ReorderItem struct {
	ID       uuid.UUID  `json:"id" validate:"required"`
	ParentID *uuid.UUID `json:"parentId"`
	Order    int        `json:"order" validate:"min=0"`
}

// Reorder updates sort_order and parent_id for many categories at once.
// The resulting tree is checked for loops before anything is written.
func (s *CategoryStore) Reorder(ctx context.Context, items []ReorderItem) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, treeLock); err != nil {
		return fmt.Errorf("lock category tree: %w", err)
	}

	parents, err := loadParents(ctx, tx)
	if err != nil {
		return err
	}
	for _, item := range items {
		if _, ok := parents[item.ID]; !ok {
			return fmt.Errorf("reorder category %s: %w", item.ID, ErrNotFound)
		}
		parents[item.ID] = item.ParentID
	}
	if parents.HasCycle() {
		return ErrCycle
	}

	stmt, err := tx.PrepareContext(ctx, `
		UPDATE categories SET parent_id = $1, sort_order = $2, updated_at = clock_timestamp()
		WHERE id = $3`)
	if err != nil {
		return fmt.Errorf("prepare reorder: %w", err)
	}
	defer stmt.Close()

	for _, item := range items {
		if _, err := stmt.ExecContext(ctx, item.ParentID, item.Order, item.ID); err != nil {
			return fmt.Errorf("reorder category %s: %w", item.ID, classify(err))
		}
	}

	return tx.Commit()
}

func loadParents(ctx context.Context, tx *sql.Tx) (ParentMap, error) {
	rows, err := tx.QueryContext(ctx, `SELECT id, parent_id FROM categories`)
	if err != nil {
		return nil, fmt.Errorf("load category parents: %w", err)
	}
	defer rows.Close()

	parents := make(ParentMap)
	for rows.Next() {
		var (
			id     uuid.UUID
			parent *uuid.UUID
		)
		if err := rows.Scan(&id, &parent); err != nil {
			return nil, fmt.Errorf("scan category parent: %w", err)
		}
		parents[id] = parent
	}
	return parents, rows.Err()
}

// NextSortOrder returns the next sort_order value for a given parent.
func (s *CategoryStore) NextSortOrder(ctx context.Context, parentID *uuid.UUID) (int, error) {
	var maxOrder sql.NullInt64
	var err error
	if parentID == nil {
		err = s.db.QueryRowContext(ctx, `SELECT MAX(sort_order) FROM categories WHERE parent_id IS NULL`).Scan(&maxOrder)
	} else {
		err = s.db.QueryRowContext(ctx, `SELECT MAX(sort_order) FROM categories WHERE parent_id = $1`, *parentID).Scan(&maxOrder)
	}
	if err != nil {
		return 0, fmt.Errorf("next category sort order: %w", err)
	}
	if maxOrder.Valid {
		return int(maxOrder.Int64) + 1, nil
	}
	return 0, nil
}

// Count returns the total number of categories.
func (s *CategoryStore) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM categories`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count categories: %w", err)
	}
	return n, nil
}

// prefixed qualifies every column in a comma list with alias.
func prefixed(alias, columns string) string {
	parts := strings.Split(columns, ",")
	for i, p := range parts {
		parts[i] = alias + "." + strings.TrimSpace(p)
	}
	return strings.Join(parts, ", ")
}
