// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"arvix/internal/models"
)

// SiteSettingStore manages the key to JSON document settings table.
type SiteSettingStore struct {
	db *sql.DB
}

// NewSiteSettingStore returns a new SiteSettingStore backed by the given database.
func NewSiteSettingStore(db *sql.DB) *SiteSettingStore {
	return &SiteSettingStore{db: db}
}

// ErrInvalidJSON is returned when a setting value is not a JSON document.
var ErrInvalidJSON = errors.New("setting value is not valid JSON")

// NormalizeValue validates raw and unwraps a JSON string whose content is
// itself an object or array, so `"{\"a\":1}"` is stored as {"a":1}.
// Any other valid JSON value is stored as given.
func NormalizeValue(raw json.RawMessage) (json.RawMessage, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || !json.Valid(raw) {
		return nil, ErrInvalidJSON
	}
	if raw[0] != '"' {
		return raw, nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, ErrInvalidJSON
	}
	inner := strings.TrimSpace(s)
	if (strings.HasPrefix(inner, "{") || strings.HasPrefix(inner, "[")) && json.Valid([]byte(inner)) {
		return json.RawMessage(inner), nil
	}
	return raw, nil
}

const settingColumns = `key, value, version, updated_at`

func scanSetting(scanner interface{ Scan(...any) error }) (*models.SiteSetting, error) {
	var (
		st  models.SiteSetting
		raw []byte
	)
	if err := scanner.Scan(&st.Key, &raw, &st.Version, &st.UpdatedAt); err != nil {
		return nil, err
	}
	st.Value = json.RawMessage(raw)
	return &st, nil
}

// List returns every stored setting ordered by key.
func (s *SiteSettingStore) List(ctx context.Context) ([]models.SiteSetting, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+settingColumns+` FROM site_settings ORDER BY key`)
	if err != nil {
		return nil, fmt.Errorf("list settings: %w", err)
	}
	defer rows.Close()

	items := []models.SiteSetting{}
	for rows.Next() {
		st, err := scanSetting(rows)
		if err != nil {
			return nil, fmt.Errorf("scan setting: %w", err)
		}
		items = append(items, *st)
	}
	return items, rows.Err()
}

// All returns every setting as a convenience map.
func (s *SiteSettingStore) All(ctx context.Context) (models.SiteSettings, error) {
	items, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	settings := make(models.SiteSettings, len(items))
	for _, st := range items {
		settings[st.Key] = st.Value
	}
	return settings, nil
}

// Get returns a single setting by key, or ErrNotFound.
func (s *SiteSettingStore) Get(ctx context.Context, key string) (*models.SiteSetting, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+settingColumns+` FROM site_settings WHERE key = $1`, key)
	st, err := scanSetting(row)
	if err != nil {
		if err = classify(err); errors.Is(err, ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("get setting %s: %w", key, err)
	}
	return st, nil
}

// Set upserts a single setting. The previous value for key is replaced whole.
// A version below 1 is stored as 1.
func (s *SiteSettingStore) Set(ctx context.Context, key string, value json.RawMessage, version int) (*models.SiteSetting, error) {
	value, err := NormalizeValue(value)
	if err != nil {
		return nil, err
	}
	row := s.db.QueryRowContext(ctx, `
		INSERT INTO site_settings (key, value, version, updated_at)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (key)
		DO UPDATE SET value = EXCLUDED.value, version = EXCLUDED.version, updated_at = EXCLUDED.updated_at
		RETURNING `+settingColumns,
		key, string(value), max(version, 1),
	)
	st, err := scanSetting(row)
	if err != nil {
		return nil, fmt.Errorf("set setting %s: %w", key, classify(err))
	}
	return st, nil
}

// SetMany upserts several settings in a single transaction.
func (s *SiteSettingStore) SetMany(ctx context.Context, settings []models.SiteSetting) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO site_settings (key, value, version, updated_at)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (key)
		DO UPDATE SET value = EXCLUDED.value, version = EXCLUDED.version, updated_at = EXCLUDED.updated_at`)
	if err != nil {
		return fmt.Errorf("prepare settings upsert: %w", err)
	}
	defer stmt.Close()

	for _, st := range settings {
		value, err := NormalizeValue(st.Value)
		if err != nil {
			return fmt.Errorf("setting %s: %w", st.Key, err)
		}
		if _, err := stmt.ExecContext(ctx, st.Key, string(value), max(st.Version, 1)); err != nil {
			return fmt.Errorf("set setting %s: %w", st.Key, err)
		}
	}

	return tx.Commit()
}

// Delete removes a setting.
func (s *SiteSettingStore) Delete(ctx context.Context, key string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM site_settings WHERE key = $1`, key)
	if err != nil {
		return fmt.Errorf("delete setting %s: %w", key, err)
	}
	return expectAffected(res)
}
