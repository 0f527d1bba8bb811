// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"arvix/internal/models"
)

// ProductStore manages products and their ordered media.
type ProductStore struct {
	db   *sql.DB
	cats *CategoryStore
}

// NewProductStore returns a new ProductStore.
func NewProductStore(db *sql.DB) *ProductStore {
	return &ProductStore{db: db, cats: NewCategoryStore(db)}
}

const productColumns = `id, name, slug, old_name, new_name, description, specifications,
	is_active, is_featured, sort_order, category_id, created_at, updated_at`

const productOrder = `ORDER BY p.sort_order, p.created_at, p.id`

func scanProduct(scanner interface{ Scan(...any) error }, extra ...any) (*models.Product, error) {
	var p models.Product
	dest := []any{
		&p.ID, &p.Name, &p.Slug, &p.OldName, &p.NewName, &p.Description, &p.Specifications,
		&p.IsActive, &p.IsFeatured, &p.Order, &p.CategoryID, &p.CreatedAt, &p.UpdatedAt,
	}
	if err := scanner.Scan(append(dest, extra...)...); err != nil {
		return nil, err
	}
	p.Images = []models.ProductImage{}
	return &p, nil
}

// ProductFilter narrows a product listing. Zero values mean "no filter".
type ProductFilter struct {
	CategoryID   *uuid.UUID
	CategorySlug string
	FeaturedOnly bool
	ActiveOnly   bool
}

// List returns products matching f in display order. Each product carries
// only its first image, and its owning category without ancestors.
func (s *ProductStore) List(ctx context.Context, f ProductFilter) ([]models.Product, error) {
	var (
		conds []string
		args  []any
	)
	if f.CategoryID != nil {
		args = append(args, *f.CategoryID)
		conds = append(conds, fmt.Sprintf("p.category_id = $%d", len(args)))
	}
	if f.CategorySlug != "" {
		args = append(args, f.CategorySlug)
		conds = append(conds, fmt.Sprintf("c.slug = $%d", len(args)))
	}
	if f.FeaturedOnly {
		conds = append(conds, "p.is_featured")
	}
	if f.ActiveOnly {
		conds = append(conds, "p.is_active")
	}
	where := ""
	if len(conds) > 0 {
		where = "WHERE " + strings.Join(conds, " AND ")
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT `+prefixed("p", productColumns)+`,
		       `+prefixed("c", categoryColumns)+`,
		       fi.id, fi.url, fi.alt, fi.sort_order
		FROM products p
		JOIN categories c ON c.id = p.category_id
		LEFT JOIN LATERAL (
			SELECT i.id, i.url, i.alt, i.sort_order
			FROM product_images i
			WHERE i.product_id = p.id
			ORDER BY i.sort_order, i.id
			LIMIT 1
		) fi ON TRUE
		`+where+`
		`+productOrder, args...)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	items := []models.Product{}
	for rows.Next() {
		var (
			c        models.Category
			imgID    uuid.NullUUID
			imgURL   sql.NullString
			imgAlt   *string
			imgOrder sql.NullInt64
		)
		p, err := scanProduct(rows,
			&c.ID, &c.Name, &c.Slug, &c.OldName, &c.Description, &c.Image,
			&c.IsActive, &c.Order, &c.ParentID, &c.CreatedAt, &c.UpdatedAt,
			&imgID, &imgURL, &imgAlt, &imgOrder,
		)
		if err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		p.Category = &c
		if imgID.Valid {
			p.Images = append(p.Images, models.ProductImage{
				ID:        imgID.UUID,
				ProductID: p.ID,
				URL:       imgURL.String,
				Alt:       imgAlt,
				Order:     int(imgOrder.Int64),
			})
		}
		items = append(items, *p)
	}
	return items, rows.Err()
}

// FindBySlug returns a product with every image and video attached and its
// category linked up to the root.
func (s *ProductStore) FindBySlug(ctx context.Context, slug string) (*models.Product, error) {
	return s.find(ctx, `slug = $1`, slug)
}

// FindByID is FindBySlug keyed on the primary key.
func (s *ProductStore) FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	return s.find(ctx, `id = $1`, id)
}

func (s *ProductStore) find(ctx context.Context, where string, arg any) (*models.Product, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+productColumns+` FROM products WHERE `+where, arg)
	p, err := scanProduct(row)
	if err != nil {
		if err = classify(err); errors.Is(err, ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("find product: %w", err)
	}

	if p.Images, err = s.images(ctx, s.db, p.ID); err != nil {
		return nil, err
	}
	if p.Videos, err = s.videos(ctx, s.db, p.ID); err != nil {
		return nil, err
	}

	cat, err := s.cats.FindByID(ctx, p.CategoryID)
	if err != nil {
		return nil, fmt.Errorf("load product category: %w", err)
	}
	if err := s.cats.linkAncestors(ctx, cat); err != nil {
		return nil, err
	}
	p.Category = cat
	return p, nil
}

// queryer is satisfied by both *sql.DB and *sql.Tx.
type queryer interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

func (s *ProductStore) images(ctx context.Context, q queryer, productID uuid.UUID) ([]models.ProductImage, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT id, product_id, url, alt, sort_order
		FROM product_images WHERE product_id = $1
		ORDER BY sort_order, id`, productID)
	if err != nil {
		return nil, fmt.Errorf("list product images: %w", err)
	}
	defer rows.Close()

	images := []models.ProductImage{}
	for rows.Next() {
		var img models.ProductImage
		if err := rows.Scan(&img.ID, &img.ProductID, &img.URL, &img.Alt, &img.Order); err != nil {
			return nil, fmt.Errorf("scan product image: %w", err)
		}
		images = append(images, img)
	}
	return images, rows.Err()
}

func (s *ProductStore) videos(ctx context.Context, q queryer, productID uuid.UUID) ([]models.ProductVideo, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT id, product_id, url, title, sort_order
		FROM product_videos WHERE product_id = $1
		ORDER BY sort_order, id`, productID)
	if err != nil {
		return nil, fmt.Errorf("list product videos: %w", err)
	}
	defer rows.Close()

	videos := []models.ProductVideo{}
	for rows.Next() {
		var v models.ProductVideo
		if err := rows.Scan(&v.ID, &v.ProductID, &v.URL, &v.Title, &v.Order); err != nil {
			return nil, fmt.Errorf("scan product video: %w", err)
		}
		videos = append(videos, v)
	}
	return videos, rows.Err()
}

// ImageInput is one entry of an ordered image list. ID is only meaningful
// to SyncImages, where it identifies an existing row to keep.
type ImageInput struct {
	ID  *uuid.UUID `json:"id,omitempty"`
	URL string     `json:"url" validate:"required"`
	Alt *string    `json:"alt,omitempty"`
}

// VideoInput is one entry of an ordered video list.
type VideoInput struct {
	URL   string  `json:"url" validate:"required"`
	Title *string `json:"title,omitempty"`
}

// Create inserts a product with its images and videos in one transaction.
// List position becomes sort order.
func (s *ProductStore) Create(ctx context.Context, p *models.Product, images []ImageInput, videos []VideoInput) (*models.Product, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	row := tx.QueryRowContext(ctx, `
		INSERT INTO products (name, slug, old_name, new_name, description, specifications,
		                      is_active, is_featured, sort_order, category_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING `+productColumns,
		p.Name, p.Slug, nullIfEmpty(p.OldName), nullIfEmpty(p.NewName),
		nullIfEmpty(p.Description), nullIfEmpty(p.Specifications),
		p.IsActive, p.IsFeatured, p.Order, p.CategoryID,
	)
	created, err := scanProduct(row)
	if err != nil {
		return nil, fmt.Errorf("create product: %w", classify(err))
	}

	if err := replaceImages(ctx, tx, created.ID, images); err != nil {
		return nil, err
	}
	if err := replaceVideos(ctx, tx, created.ID, videos); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit product create: %w", err)
	}
	return s.FindByID(ctx, created.ID)
}

// ProductPatch lists the fields an update may change. Nil means unchanged.
// A non-nil Images or Videos replaces the whole ordered set; an empty
// slice clears it.
type ProductPatch struct {
	Name           *string
	Slug           *string
	OldName        *string
	NewName        *string
	Description    *string
	Specifications *string
	IsActive       *bool
	IsFeatured     *bool
	Order          *int
	CategoryID     *uuid.UUID
	Images         *[]ImageInput
	Videos         *[]VideoInput
}

// Update applies a patch. Field and media changes commit together or not at all.
func (s *ProductStore) Update(ctx context.Context, id uuid.UUID, p ProductPatch) (*models.Product, error) {
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
	if p.NewName != nil {
		set("new_name", nullIfEmpty(p.NewName))
	}
	if p.Description != nil {
		set("description", nullIfEmpty(p.Description))
	}
	if p.Specifications != nil {
		set("specifications", nullIfEmpty(p.Specifications))
	}
	if p.IsActive != nil {
		set("is_active", *p.IsActive)
	}
	if p.IsFeatured != nil {
		set("is_featured", *p.IsFeatured)
	}
	if p.Order != nil {
		set("sort_order", *p.Order)
	}
	if p.CategoryID != nil {
		set("category_id", *p.CategoryID)
	}
	sets = append(sets, "updated_at = NOW()")
	args = append(args, id)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		fmt.Sprintf(`UPDATE products SET %s WHERE id = $%d`, strings.Join(sets, ", "), len(args)),
		args...)
	if err != nil {
		return nil, fmt.Errorf("update product: %w", classify(err))
	}
	if err := expectAffected(res); err != nil {
		return nil, err
	}

	if p.Images != nil {
		if err := replaceImages(ctx, tx, id, *p.Images); err != nil {
			return nil, err
		}
	}
	if p.Videos != nil {
		if err := replaceVideos(ctx, tx, id, *p.Videos); err != nil {
			return nil, err
		}
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit product update: %w", err)
	}
	return s.FindByID(ctx, id)
}

func replaceImages(ctx context.Context, tx *sql.Tx, productID uuid.UUID, images []ImageInput) error {
	if _, err := tx.ExecContext(ctx, `DELETE FROM product_images WHERE product_id = $1`, productID); err != nil {
		return fmt.Errorf("clear product images: %w", err)
	}
	for i, img := range images {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO product_images (product_id, url, alt, sort_order)
			VALUES ($1, $2, $3, $4)`,
			productID, img.URL, nullIfEmpty(img.Alt), i,
		); err != nil {
			return fmt.Errorf("insert product image: %w", classify(err))
		}
	}
	return nil
}

func replaceVideos(ctx context.Context, tx *sql.Tx, productID uuid.UUID, videos []VideoInput) error {
	if _, err := tx.ExecContext(ctx, `DELETE FROM product_videos WHERE product_id = $1`, productID); err != nil {
		return fmt.Errorf("clear product videos: %w", err)
	}
	for i, v := range videos {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO product_videos (product_id, url, title, sort_order)
			VALUES ($1, $2, $3, $4)`,
			productID, v.URL, nullIfEmpty(v.Title), i,
		); err != nil {
			return fmt.Errorf("insert product video: %w", classify(err))
		}
	}
	return nil
}

// SyncImages reconciles the stored image set with images by ID: rows
// named in the list are updated in place, entries without a known ID are
// inserted, and rows missing from the list are deleted. Row IDs of kept
// images are stable across the call.
func (s *ProductStore) SyncImages(ctx context.Context, productID uuid.UUID, images []ImageInput) ([]models.ProductImage, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	var locked uuid.UUID
	if err := tx.QueryRowContext(ctx,
		`SELECT id FROM products WHERE id = $1 FOR UPDATE`, productID,
	).Scan(&locked); err != nil {
		if err = classify(err); errors.Is(err, ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("lock product: %w", err)
	}

	current, err := s.images(ctx, tx, productID)
	if err != nil {
		return nil, err
	}
	plan := diffImages(current, images)

	for _, id := range plan.remove {
		if _, err := tx.ExecContext(ctx, `DELETE FROM product_images WHERE id = $1`, id); err != nil {
			return nil, fmt.Errorf("delete product image: %w", err)
		}
	}
	for _, u := range plan.update {
		if _, err := tx.ExecContext(ctx, `
			UPDATE product_images SET url = $1, alt = $2, sort_order = $3 WHERE id = $4`,
			u.URL, nullIfEmpty(u.Alt), u.Order, u.ID,
		); err != nil {
			return nil, fmt.Errorf("update product image: %w", err)
		}
	}
	for _, n := range plan.insert {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO product_images (product_id, url, alt, sort_order) VALUES ($1, $2, $3, $4)`,
			productID, n.URL, nullIfEmpty(n.Alt), n.Order,
		); err != nil {
			return nil, fmt.Errorf("insert product image: %w", err)
		}
	}

	result, err := s.images(ctx, tx, productID)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit image sync: %w", err)
	}
	return result, nil
}

type imagePlan struct {
	remove []uuid.UUID
	update []models.ProductImage
	insert []models.ProductImage
}

// diffImages computes the writes that turn current into want. Position in
// want becomes sort order. An ID that is unknown or repeated is treated as new.
func diffImages(current []models.ProductImage, want []ImageInput) imagePlan {
	known := make(map[uuid.UUID]bool, len(current))
	for _, img := range current {
		known[img.ID] = true
	}

	var plan imagePlan
	kept := make(map[uuid.UUID]bool)
	for i, w := range want {
		img := models.ProductImage{URL: w.URL, Alt: w.Alt, Order: i}
		if w.ID != nil && known[*w.ID] && !kept[*w.ID] {
			img.ID = *w.ID
			kept[img.ID] = true
			plan.update = append(plan.update, img)
			continue
		}
		plan.insert = append(plan.insert, img)
	}
	for _, img := range current {
		if !kept[img.ID] {
			plan.remove = append(plan.remove, img.ID)
		}
	}
	return plan
}

// Delete removes a product; its images and videos cascade.
func (s *ProductStore) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	return expectAffected(res)
}

// Count returns the total number of products.
func (s *ProductStore) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM products`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count products: %w", err)
	}
	return n, nil
}
