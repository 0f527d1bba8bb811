// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package catalog

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"arvix/internal/models"
	"arvix/internal/store"
)

// ProductInput is the body of a product create or update. Images may be
// given as an ordered `images` array or a single `image` URL; when both
// are present the array wins.
type ProductInput struct {
	ID             *uuid.UUID          `json:"id"`
	Name           *string             `json:"name"`
	Slug           *string             `json:"slug"`
	OldName        *string             `json:"oldName"`
	NewName        *string             `json:"newName"`
	Description    *string             `json:"description"`
	Specifications *string             `json:"specifications"`
	IsActive       *bool               `json:"isActive"`
	IsFeatured     *bool               `json:"isFeatured"`
	Order          *int                `json:"order"`
	CategoryID     *uuid.UUID          `json:"categoryId"`
	Images         *[]store.ImageInput `json:"images"`
	Image          *string             `json:"image"`
	Videos         *[]store.VideoInput `json:"videos"`
}

// imageSet resolves the images/image pair into the set to write. A nil
// result means the input did not mention images. An empty `image`
// shorthand clears the set.
func (in ProductInput) imageSet() (*[]store.ImageInput, error) {
	if in.Images != nil {
		set := *in.Images
		for i := range set {
			set[i].URL = strings.TrimSpace(set[i].URL)
			if set[i].URL == "" {
				return nil, invalid("images", "every image needs a url")
			}
		}
		return &set, nil
	}
	if in.Image != nil {
		set := []store.ImageInput{}
		if url := strings.TrimSpace(*in.Image); url != "" {
			set = append(set, store.ImageInput{URL: url})
		}
		return &set, nil
	}
	return nil, nil
}

func (in ProductInput) videoSet() (*[]store.VideoInput, error) {
	if in.Videos == nil {
		return nil, nil
	}
	set := *in.Videos
	for i := range set {
		set[i].URL = strings.TrimSpace(set[i].URL)
		if set[i].URL == "" {
			return nil, invalid("videos", "every video needs a url")
		}
	}
	return &set, nil
}

// ProductQuery selects a product listing. Exactly one of CategoryID,
// CategorySlug or Featured is normally set; none lists everything.
type ProductQuery struct {
	CategoryID   *uuid.UUID
	CategorySlug string
	Featured     bool
	// IncludeInactive lists hidden products too (admin views).
	IncludeInactive bool
}

// Products lists products in display order with their first image.
// Unless IncludeInactive is set, products in hidden categories are left out.
func (s *Service) Products(ctx context.Context, q ProductQuery) ([]models.Product, error) {
	list, err := s.products.List(ctx, store.ProductFilter{
		CategoryID:   q.CategoryID,
		CategorySlug: q.CategorySlug,
		FeaturedOnly: q.Featured,
		ActiveOnly:   !q.IncludeInactive,
	})
	if err != nil || q.IncludeInactive {
		return list, err
	}

	hidden, err := s.HiddenCategories(ctx)
	if err != nil {
		return nil, err
	}
	out := list[:0]
	for _, p := range list {
		if !hidden[p.CategoryID] {
			out = append(out, p)
		}
	}
	return out, nil
}

// ProductBySlug returns a product with all media and its category chain.
func (s *Service) ProductBySlug(ctx context.Context, slug string) (*models.Product, error) {
	return s.products.FindBySlug(ctx, slug)
}

// ProductByID is ProductBySlug keyed on id.
func (s *Service) ProductByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	return s.products.FindByID(ctx, id)
}

// CreateProduct validates and stores a new product with its media.
func (s *Service) CreateProduct(ctx context.Context, in ProductInput) (*models.Product, error) {
	if err := requireText("name", in.Name); err != nil {
		return nil, err
	}
	if err := checkSlug(in.Slug); err != nil {
		return nil, err
	}
	if in.CategoryID == nil || *in.CategoryID == uuid.Nil {
		return nil, invalid("categoryId", "is required")
	}
	images, err := in.imageSet()
	if err != nil {
		return nil, err
	}
	videos, err := in.videoSet()
	if err != nil {
		return nil, err
	}

	p := &models.Product{
		Name:           *in.Name,
		Slug:           *in.Slug,
		OldName:        in.OldName,
		NewName:        in.NewName,
		Description:    in.Description,
		Specifications: in.Specifications,
		IsActive:       true,
		CategoryID:     *in.CategoryID,
	}
	if in.IsActive != nil {
		p.IsActive = *in.IsActive
	}
	if in.IsFeatured != nil {
		p.IsFeatured = *in.IsFeatured
	}
	if in.Order != nil {
		p.Order = *in.Order
	}

	var imageList []store.ImageInput
	if images != nil {
		imageList = *images
	}
	var videoList []store.VideoInput
	if videos != nil {
		videoList = *videos
	}
	return s.products.Create(ctx, p, imageList, videoList)
}

// UpdateProduct applies the supplied subset of fields. Any images input
// replaces the whole image set.
func (s *Service) UpdateProduct(ctx context.Context, id uuid.UUID, in ProductInput) (*models.Product, error) {
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
	if in.CategoryID != nil && *in.CategoryID == uuid.Nil {
		return nil, invalid("categoryId", "must be a valid id")
	}
	images, err := in.imageSet()
	if err != nil {
		return nil, err
	}
	videos, err := in.videoSet()
	if err != nil {
		return nil, err
	}

	return s.products.Update(ctx, id, store.ProductPatch{
		Name:           in.Name,
		Slug:           in.Slug,
		OldName:        in.OldName,
		NewName:        in.NewName,
		Description:    in.Description,
		Specifications: in.Specifications,
		IsActive:       in.IsActive,
		IsFeatured:     in.IsFeatured,
		Order:          in.Order,
		CategoryID:     in.CategoryID,
		Images:         images,
		Videos:         videos,
	})
}

// SyncProductImages reconciles a product's images by id instead of
// replacing them wholesale.
func (s *Service) SyncProductImages(ctx context.Context, id uuid.UUID, images []store.ImageInput) ([]models.ProductImage, error) {
	for i := range images {
		images[i].URL = strings.TrimSpace(images[i].URL)
		if images[i].URL == "" {
			return nil, invalid("images", "every image needs a url")
		}
	}
	return s.products.SyncImages(ctx, id, images)
}

// DeleteProduct removes a product and its media rows.
func (s *Service) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	return s.products.Delete(ctx, id)
}
