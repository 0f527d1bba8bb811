package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"arvix/internal/models"
)

func TestBlogStore_PublishStampsDate(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	s := NewBlogStore(db)

	draft, err := s.Create(ctx, &models.BlogPost{Title: "Taslak", Slug: uniqueSlug("test-post"), Content: "# Başlık"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	t.Cleanup(func() { s.Delete(ctx, draft.ID) })

	if draft.PublishedAt != nil {
		t.Errorf("draft PublishedAt = %v, want nil", draft.PublishedAt)
	}
	if _, err := s.FindBySlug(ctx, draft.Slug, true); !errors.Is(err, ErrNotFound) {
		t.Errorf("draft visible publicly: err = %v", err)
	}

	draft.IsPublished = true
	published, err := s.Update(ctx, draft)
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if published.PublishedAt == nil || time.Since(*published.PublishedAt) > time.Minute {
		t.Errorf("PublishedAt = %v, want now", published.PublishedAt)
	}
	if _, err := s.FindBySlug(ctx, draft.Slug, true); err != nil {
		t.Errorf("published post not found: %v", err)
	}
}

func TestTestimonialStore_RatingCheck(t *testing.T) {
	db := testDB(t)
	s := NewTestimonialStore(db)

	_, err := s.Create(context.Background(), &models.Testimonial{Name: "X", Content: "Y", Rating: 9})
	if !errors.Is(err, ErrInvalidValue) {
		t.Errorf("err = %v, want ErrInvalidValue", err)
	}
}

func TestSlideStore_ActiveFilter(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	s := NewSlideStore(db)

	hidden, err := s.Create(ctx, &models.Slide{Title: "Gizli", Image: "/api/files/slides/x.webp"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	t.Cleanup(func() { s.Delete(ctx, hidden.ID) })

	active, err := s.List(ctx, true)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	for _, sl := range active {
		if sl.ID == hidden.ID {
			t.Error("inactive slide listed as active")
		}
	}

	all, err := s.List(ctx, false)
	if err != nil {
		t.Fatalf("List all: %v", err)
	}
	found := false
	for _, sl := range all {
		found = found || sl.ID == hidden.ID
	}
	if !found {
		t.Error("inactive slide missing from full list")
	}
}
