package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"marketing_content_studio/content"
)

// BrandVoices lists every stored guideline.
func (s *Store) BrandVoices(ctx context.Context) ([]content.BrandVoice, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, channel, content, examples, updated_at FROM brand_voice ORDER BY channel`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []content.BrandVoice{}
	for rows.Next() {
		var bv content.BrandVoice
		var examples sql.NullString
		if err := rows.Scan(&bv.ID, &bv.Channel, &bv.Content, &examples, &bv.UpdatedAt); err != nil {
			return nil, err
		}
		if examples.Valid && examples.String != "" {
			if err := json.Unmarshal([]byte(examples.String), &bv.Examples); err != nil {
				return nil, err
			}
		}
		out = append(out, bv)
	}
	return out, rows.Err()
}

// UpsertBrandVoice creates or replaces the guideline for a channel.
func (s *Store) UpsertBrandVoice(ctx context.Context, channel, text string, examples []string) (content.BrandVoice, error) {
	var examplesJSON any
	if examples != nil {
		b, err := json.Marshal(examples)
		if err != nil {
			return content.BrandVoice{}, err
		}
		examplesJSON = string(b)
	}
	now := time.Now().UTC()
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO brand_voice (channel, content, examples, updated_at) VALUES (?, ?, ?, ?)
		 ON CONFLICT(channel) DO UPDATE SET content = excluded.content, examples = excluded.examples, updated_at = excluded.updated_at`,
		channel, text, examplesJSON, now)
	if err != nil {
		return content.BrandVoice{}, err
	}

	var bv content.BrandVoice
	var stored sql.NullString
	err = s.db.QueryRowContext(ctx,
		`SELECT id, channel, content, examples, updated_at FROM brand_voice WHERE channel = ?`, channel).
		Scan(&bv.ID, &bv.Channel, &bv.Content, &stored, &bv.UpdatedAt)
	if err != nil {
		return content.BrandVoice{}, err
	}
	if stored.Valid && stored.String != "" {
		_ = json.Unmarshal([]byte(stored.String), &bv.Examples)
	}
	return bv, nil
}

// BrandVoiceFor returns the guideline text for a channel, falling back to the
// "general" entry, then to empty. Satisfies generator.BrandVoiceSource.
func (s *Store) BrandVoiceFor(ctx context.Context, channel string) (string, error) {
	lookup := func(ch string) (string, error) {
		var text string
		err := s.db.QueryRowContext(ctx,
			`SELECT content FROM brand_voice WHERE channel = ?`, ch).Scan(&text)
		if errors.Is(err, sql.ErrNoRows) {
			return "", ErrNotFound
		}
		return text, err
	}
	if channel != "" {
		if text, err := lookup(channel); err == nil {
			return text, nil
		} else if !errors.Is(err, ErrNotFound) {
			return "", err
		}
	}
	text, err := lookup("general")
	if errors.Is(err, ErrNotFound) {
		return "", nil
	}
	return text, err
}

// AddBrandVoiceExample stores one raw style sample.
func (s *Store) AddBrandVoiceExample(ctx context.Context, userID int64, channel, text string) (content.BrandVoiceExample, error) {
	now := time.Now().UTC()
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO brand_voice_examples (user_id, channel, original_text, created_at) VALUES (?, ?, ?, ?)`,
		userID, channel, text, now)
	if err != nil {
		return content.BrandVoiceExample{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return content.BrandVoiceExample{}, err
	}
	return content.BrandVoiceExample{ID: id, Channel: channel, OriginalText: text, CreatedAt: now}, nil
}

// BrandVoiceExamples lists samples, optionally filtered by channel, newest
// first.
func (s *Store) BrandVoiceExamples(ctx context.Context, channel string) ([]content.BrandVoiceExample, error) {
	query := `SELECT id, channel, original_text, created_at FROM brand_voice_examples`
	args := []any{}
	if channel != "" {
		query += ` WHERE channel = ?`
		args = append(args, channel)
	}
	query += ` ORDER BY created_at DESC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []content.BrandVoiceExample{}
	for rows.Next() {
		var ex content.BrandVoiceExample
		if err := rows.Scan(&ex.ID, &ex.Channel, &ex.OriginalText, &ex.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, ex)
	}
	return out, rows.Err()
}

// BrandVoiceExamplesByID fetches specific samples for analysis.
func (s *Store) BrandVoiceExamplesByID(ctx context.Context, channel string, ids []int64) ([]string, error) {
	examples, err := s.BrandVoiceExamples(ctx, channel)
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		texts := make([]string, len(examples))
		for i, ex := range examples {
			texts[i] = ex.OriginalText
		}
		return texts, nil
	}
	want := make(map[int64]bool, len(ids))
	for _, id := range ids {
		want[id] = true
	}
	var texts []string
	for _, ex := range examples {
		if want[ex.ID] {
			texts = append(texts, ex.OriginalText)
		}
	}
	return texts, nil
}

// DeleteBrandVoiceExample removes one sample.
func (s *Store) DeleteBrandVoiceExample(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM brand_voice_examples WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return requireRow(res)
}
