// Copyright (c) 2025-2026 Avamark Digital
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"time"

	"github.com/avamark/portal-go/internal/model"
)

const settingColumns = `id, key, value, category, description, updated_at`

func scanSetting(row interface{ Scan(...any) error }) (model.SiteSetting, error) {
	var s model.SiteSetting
	err := row.Scan(&s.ID, &s.Key, &s.Value, &s.Category, &s.Description, &s.UpdatedAt)
	return s, err
}

// UpsertSettingParams holds a key/value setting. Writing an existing key
// replaces its value, category and description; exactly one row per key.
type UpsertSettingParams struct {
	Key         string
	Value       string
	Category    string
	Description string
}

// UpsertSetting inserts or replaces a setting by key.
func (q *Queries) UpsertSetting(ctx context.Context, arg UpsertSettingParams) (model.SiteSetting, error) {
	if arg.Category == "" {
		arg.Category = "general"
	}
	_, err := q.db.ExecContext(ctx, `
		INSERT INTO site_settings (key, value, category, description, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET
			value = excluded.value,
			category = excluded.category,
			description = excluded.description,
			updated_at = excluded.updated_at`,
		arg.Key, arg.Value, arg.Category, arg.Description, time.Now().UTC(),
	)
	if err != nil {
		return model.SiteSetting{}, err
	}
	return q.GetSettingByKey(ctx, arg.Key)
}

// GetSettingByKey returns a setting by key.
func (q *Queries) GetSettingByKey(ctx context.Context, key string) (model.SiteSetting, error) {
	row := q.db.QueryRowContext(ctx, `SELECT `+settingColumns+` FROM site_settings WHERE key = ?`, key)
	return scanSetting(row)
}

// ListSettings returns all settings ordered by key.
func (q *Queries) ListSettings(ctx context.Context) ([]model.SiteSetting, error) {
	return q.listSettingsWhere(ctx, `SELECT `+settingColumns+` FROM site_settings ORDER BY key ASC`)
}

// ListSettingsByCategory returns settings in a category.
func (q *Queries) ListSettingsByCategory(ctx context.Context, category string) ([]model.SiteSetting, error) {
	return q.listSettingsWhere(ctx,
		`SELECT `+settingColumns+` FROM site_settings WHERE category = ? ORDER BY key ASC`, category)
}

func (q *Queries) listSettingsWhere(ctx context.Context, query string, args ...any) ([]model.SiteSetting, error) {
	rows, err := q.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var settings []model.SiteSetting
	for rows.Next() {
		s, err := scanSetting(rows)
		if err != nil {
			return nil, err
		}
		settings = append(settings, s)
	}
	return settings, rows.Err()
}

// DeleteSetting removes a setting by key.
func (q *Queries) DeleteSetting(ctx context.Context, key string) error {
	res, err := q.db.ExecContext(ctx, `DELETE FROM site_settings WHERE key = ?`, key)
	if err != nil {
		return err
	}
	return requireRowAffected(res)
}
