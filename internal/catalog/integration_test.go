// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package catalog

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"testing"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"arvix/internal/database"
	"arvix/internal/store"
)

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// testService returns a service over a migrated PostgreSQL database.
// Skipped when the database is unavailable.
func testService(t *testing.T) (*Service, *sql.DB) {
	t.Helper()

	dsn := "postgres://" + envOr("POSTGRES_USER", "arvix") + ":" + envOr("POSTGRES_PASSWORD", "changeme") +
		"@" + envOr("POSTGRES_HOST", "localhost") + ":" + envOr("POSTGRES_PORT", "5432") +
		"/" + envOr("POSTGRES_DB", "arvix") + "?sslmode=disable"

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		t.Skipf("skipping integration test: cannot open DB: %v", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		t.Skipf("skipping integration test: DB not reachable: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		db.Close()
		t.Fatalf("failed to run migrations: %v", err)
	}
	goose.SetBaseFS(nil)
	t.Cleanup(func() { db.Close() })

	return New(store.NewCategoryStore(db), store.NewProductStore(db)), db
}

func TestKardiyoScenario(t *testing.T) {
	svc, db := testService(t)
	ctx := context.Background()

	// The scenario uses fixed slugs; clear leftovers from the seed or a previous run.
	db.Exec(`DELETE FROM categories WHERE slug IN ('kardiyo', 'kardiyo-kosu-bandi')`)
	t.Cleanup(func() { db.Exec(`DELETE FROM categories WHERE slug = 'kardiyo'`) })

	root, err := svc.CreateCategory(ctx, CategoryInput{Name: ptr("Kardiyo"), Slug: ptr("kardiyo")})
	if err != nil {
		t.Fatalf("create root: %v", err)
	}
	child, err := svc.CreateCategory(ctx, CategoryInput{
		Name:     ptr("Koşu Bandı"),
		Slug:     ptr("kardiyo-kosu-bandi"),
		ParentID: OptionalID{Set: true, ID: &root.ID},
	})
	if err != nil {
		t.Fatalf("create child: %v", err)
	}

	tree, err := svc.Tree(ctx)
	if err != nil {
		t.Fatalf("Tree: %v", err)
	}
	var found bool
	for _, n := range tree {
		if n.ID != root.ID {
			continue
		}
		found = true
		if n.Name != "Kardiyo" || len(n.Children) != 1 || n.Children[0].Slug != "kardiyo-kosu-bandi" {
			t.Errorf("root node = %+v", n)
		}
	}
	if !found {
		t.Fatal("Kardiyo missing from tree")
	}

	_, err = svc.CreateCategory(ctx, CategoryInput{Name: ptr("Dup"), Slug: ptr("kardiyo-kosu-bandi")})
	if !errors.Is(err, store.ErrConflict) {
		t.Errorf("duplicate slug: err = %v, want ErrConflict", err)
	}

	if err := svc.DeleteCategory(ctx, root.ID); err != nil {
		t.Fatalf("DeleteCategory: %v", err)
	}
	if _, err := svc.CategoryBySlug(ctx, child.Slug); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("child after cascade: err = %v, want ErrNotFound", err)
	}
}
