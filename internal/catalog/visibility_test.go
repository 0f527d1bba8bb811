// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package catalog

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"arvix/internal/models"
	"arvix/internal/store"
)

// listCategories serves a fixed flat list.
type listCategories struct {
	CategoryRepository
	flat []models.Category
}

func (l *listCategories) List(context.Context) ([]models.Category, error) {
	return l.flat, nil
}

// listProducts serves a fixed product list, honouring ActiveOnly.
type listProducts struct {
	ProductRepository
	items []models.Product
}

func (l *listProducts) List(_ context.Context, f store.ProductFilter) ([]models.Product, error) {
	var out []models.Product
	for _, p := range l.items {
		if !f.ActiveOnly || p.IsActive {
			out = append(out, p)
		}
	}
	return out, nil
}

// visibilityFixture is root(active) > mid(inactive) > leaf(active), plus
// a second active root.
func visibilityFixture() (flat []models.Category, root, mid, leaf, other uuid.UUID) {
	root, mid, leaf, other = uuid.New(), uuid.New(), uuid.New(), uuid.New()
	flat = []models.Category{
		{ID: root, Slug: "kardiyo", IsActive: true},
		{ID: mid, Slug: "kosu-bantlari", IsActive: false, ParentID: &root},
		{ID: leaf, Slug: "katlanir", IsActive: true, ParentID: &mid},
		{ID: other, Slug: "agirlik", IsActive: true},
	}
	return
}

func TestHiddenCategories(t *testing.T) {
	flat, root, mid, leaf, other := visibilityFixture()
	hidden := HiddenCategories(flat)

	for id, want := range map[uuid.UUID]bool{root: false, mid: true, leaf: true, other: false} {
		if hidden[id] != want {
			t.Errorf("hidden[%s] = %v, want %v", id, hidden[id], want)
		}
	}
	if got := hidden.Filter(flat); len(got) != 2 {
		t.Errorf("Filter kept %d categories, want 2", len(got))
	}
}

func TestHiddenCategories_AllActive(t *testing.T) {
	flat := []models.Category{{ID: uuid.New(), IsActive: true}}
	if hidden := HiddenCategories(flat); len(hidden) != 0 {
		t.Errorf("hidden = %v, want empty", hidden)
	}
}

func TestPruneInactive(t *testing.T) {
	flat, root, _, _, other := visibilityFixture()
	tree := store.BuildTree(flat)

	pruned := PruneInactive(tree)
	if len(pruned) != 2 || pruned[0].ID != root || pruned[1].ID != other {
		t.Fatalf("roots = %+v", pruned)
	}
	if len(pruned[0].Children) != 0 {
		t.Errorf("inactive subtree kept: %+v", pruned[0].Children)
	}
	if len(tree[0].Children) != 1 {
		t.Error("input tree was modified")
	}
}

func TestPublicCategory(t *testing.T) {
	flat, root, mid, leaf, _ := visibilityFixture()
	svc := New(&listCategories{flat: flat}, &fakeProducts{})
	ctx := context.Background()

	for _, id := range []uuid.UUID{mid, leaf} {
		if _, err := svc.PublicCategory(ctx, &models.Category{ID: id}); !errors.Is(err, store.ErrNotFound) {
			t.Errorf("PublicCategory(%s): err = %v, want ErrNotFound", id, err)
		}
	}

	node, _ := store.Subtree(flat, root, 2)
	c, err := svc.PublicCategory(ctx, &node)
	if err != nil {
		t.Fatalf("PublicCategory(root): %v", err)
	}
	if len(c.Children) != 0 {
		t.Errorf("children = %+v, want inactive child pruned", c.Children)
	}
}

func TestProducts_SkipsHiddenCategories(t *testing.T) {
	flat, root, mid, leaf, _ := visibilityFixture()
	products := &listProducts{items: []models.Product{
		{Slug: "visible", IsActive: true, CategoryID: root},
		{Slug: "under-inactive", IsActive: true, CategoryID: mid},
		{Slug: "under-inactive-parent", IsActive: true, CategoryID: leaf},
		{Slug: "inactive", IsActive: false, CategoryID: root},
	}}
	svc := New(&listCategories{flat: flat}, products)
	ctx := context.Background()

	list, err := svc.Products(ctx, ProductQuery{})
	if err != nil {
		t.Fatalf("Products: %v", err)
	}
	if len(list) != 1 || list[0].Slug != "visible" {
		t.Errorf("public list = %+v, want only the visible product", list)
	}

	list, err = svc.Products(ctx, ProductQuery{IncludeInactive: true})
	if err != nil {
		t.Fatalf("Products(all): %v", err)
	}
	if len(list) != 4 {
		t.Errorf("admin list has %d products, want 4", len(list))
	}

	if err := svc.PublicProduct(ctx, &products.items[2]); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("PublicProduct under inactive parent: err = %v, want ErrNotFound", err)
	}
	if err := svc.PublicProduct(ctx, &products.items[0]); err != nil {
		t.Errorf("PublicProduct visible: %v", err)
	}
}
