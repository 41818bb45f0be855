package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"marketing_content_studio/content"
)

const defaultImageModel = "google/gemini-3-pro-image-preview"

// ImageSettings returns the singleton settings row, creating the disabled
// default on first access.
func (s *Store) ImageSettings(ctx context.Context) (content.ImageSettings, error) {
	var out content.ImageSettings
	var apiKey sql.NullString
	var enabled int
	err := s.db.QueryRowContext(ctx,
		`SELECT id, api_key, model, enabled, updated_at FROM image_settings LIMIT 1`).
		Scan(&out.ID, &apiKey, &out.Model, &enabled, &out.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		now := time.Now().UTC()
		res, err := s.db.ExecContext(ctx,
			`INSERT INTO image_settings (api_key, model, enabled, updated_at) VALUES (NULL, ?, 0, ?)`,
			defaultImageModel, now)
		if err != nil {
			return content.ImageSettings{}, err
		}
		id, err := res.LastInsertId()
		if err != nil {
			return content.ImageSettings{}, err
		}
		return content.ImageSettings{ID: id, Model: defaultImageModel, UpdatedAt: now}, nil
	}
	if err != nil {
		return content.ImageSettings{}, err
	}
	out.APIKey = apiKey.String
	out.Enabled = enabled != 0
	return out, nil
}

// ImageSettingsUpdate carries optional changes; nil means unchanged.
type ImageSettingsUpdate struct {
	APIKey  *string
	Model   *string
	Enabled *bool
}

// UpdateImageSettings applies partial changes and returns the new state.
func (s *Store) UpdateImageSettings(ctx context.Context, upd ImageSettingsUpdate) (content.ImageSettings, error) {
	current, err := s.ImageSettings(ctx)
	if err != nil {
		return content.ImageSettings{}, err
	}
	if upd.APIKey != nil {
		current.APIKey = *upd.APIKey
	}
	if upd.Model != nil {
		current.Model = *upd.Model
	}
	if upd.Enabled != nil {
		current.Enabled = *upd.Enabled
	}
	current.UpdatedAt = time.Now().UTC()

	var apiKey any
	if current.APIKey != "" {
		apiKey = current.APIKey
	}
	enabled := 0
	if current.Enabled {
		enabled = 1
	}
	_, err = s.db.ExecContext(ctx,
		`UPDATE image_settings SET api_key = ?, model = ?, enabled = ?, updated_at = ? WHERE id = ?`,
		apiKey, current.Model, enabled, current.UpdatedAt, current.ID)
	if err != nil {
		return content.ImageSettings{}, err
	}
	return current, nil
}
