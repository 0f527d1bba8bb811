package database

import "testing"

func TestParseSeed_EmbeddedCatalog(t *testing.T) {
	data, err := ParseSeed(seedCatalog)
	if err != nil {
		t.Fatalf("ParseSeed: %v", err)
	}
	if len(data.Categories) == 0 {
		t.Fatal("embedded seed has no categories")
	}

	// Slugs must be globally unique, regardless of depth.
	seen := map[string]bool{}
	var walk func([]SeedCategory, int)
	maxDepth := 0
	walk = func(cats []SeedCategory, depth int) {
		if depth > maxDepth {
			maxDepth = depth
		}
		for _, c := range cats {
			if c.Name == "" || c.Slug == "" {
				t.Errorf("seed category %+v missing name or slug", c)
			}
			if seen[c.Slug] {
				t.Errorf("duplicate seed slug %q", c.Slug)
			}
			seen[c.Slug] = true
			walk(c.Children, depth+1)
		}
	}
	walk(data.Categories, 0)

	if maxDepth != 2 {
		t.Errorf("seed depth = %d, want 2 (root, sub, sub-sub)", maxDepth)
	}
	if _, ok := data.Settings["home"]; !ok {
		t.Error("seed should provide default home settings")
	}
}

func TestParseSeed_Invalid(t *testing.T) {
	if _, err := ParseSeed([]byte("categories: [")); err == nil {
		t.Error("expected error for malformed YAML")
	}
}

func TestSeed_Idempotent(t *testing.T) {
	db, err := Connect(testDSN())
	if err != nil {
		t.Skipf("skipping: DB not available: %v", err)
	}
	defer db.Close()

	if err := Migrate(db); err != nil {
		t.Fatalf("Migrate: %v", err)
	}
	if err := Seed(db); err != nil {
		t.Fatalf("first Seed: %v", err)
	}

	var before int
	db.QueryRow("SELECT COUNT(*) FROM categories").Scan(&before)

	if err := Seed(db); err != nil {
		t.Fatalf("second Seed: %v", err)
	}

	var after int
	db.QueryRow("SELECT COUNT(*) FROM categories").Scan(&after)
	if before != after {
		t.Errorf("second Seed changed category count: %d -> %d", before, after)
	}
}
