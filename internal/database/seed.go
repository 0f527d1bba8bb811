package database

import (
	"database/sql"
	_ "embed"
	"encoding/json"
	"fmt"
	"log/slog"

	"gopkg.in/yaml.v3"
)

//go:embed seed/catalog.yaml
var seedCatalog []byte

// SeedCategory is one node of the seed tree.
type SeedCategory struct {
	Name     string         `yaml:"name"`
	Slug     string         `yaml:"slug"`
	Children []SeedCategory `yaml:"children"`
}

// SeedData is the parsed seed file.
type SeedData struct {
	Categories []SeedCategory  `yaml:"categories"`
	Settings   map[string]any `yaml:"settings"`
}

// ParseSeed decodes a YAML seed document.
func ParseSeed(raw []byte) (*SeedData, error) {
	var data SeedData
	if err := yaml.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("parse seed: %w", err)
	}
	return &data, nil
}

// Seed populates the database with the embedded development catalog.
// It is a no-op if any category already exists. Settings are inserted
// only for keys that are absent, so admin edits are never overwritten.
func Seed(db *sql.DB) error {
	data, err := ParseSeed(seedCatalog)
	if err != nil {
		return err
	}

	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM categories").Scan(&count); err != nil {
		return fmt.Errorf("seed check categories: %w", err)
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("seed begin: %w", err)
	}
	defer tx.Rollback()

	inserted := 0
	if count == 0 {
		for i, c := range data.Categories {
			n, err := seedCategory(tx, c, nil, i)
			if err != nil {
				return err
			}
			inserted += n
		}
	}

	for key, value := range data.Settings {
		raw, err := json.Marshal(value)
		if err != nil {
			return fmt.Errorf("seed marshal setting %s: %w", key, err)
		}
		if _, err := tx.Exec(`
			INSERT INTO site_settings (key, value) VALUES ($1, $2)
			ON CONFLICT (key) DO NOTHING`, key, string(raw)); err != nil {
			return fmt.Errorf("seed setting %s: %w", key, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("seed commit: %w", err)
	}

	if inserted == 0 {
		slog.Info("catalog already seeded, skipping categories")
	} else {
		slog.Info("database seeded with development catalog", "categories", inserted)
	}
	return nil
}

// seedCategory inserts c and its subtree, returning the number of rows written.
func seedCategory(tx *sql.Tx, c SeedCategory, parentID *string, order int) (int, error) {
	var id string
	err := tx.QueryRow(`
		INSERT INTO categories (name, slug, parent_id, sort_order)
		VALUES ($1, $2, $3, $4)
		RETURNING id`, c.Name, c.Slug, parentID, order,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("seed category %s: %w", c.Slug, err)
	}

	n := 1
	for i, child := range c.Children {
		m, err := seedCategory(tx, child, &id, i)
		if err != nil {
			return 0, err
		}
		n += m
	}
	return n, nil
}
