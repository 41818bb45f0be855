package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"marketing_content_studio/content"
)

// SaveGeneration stores a completed generation round and returns its id.
func (s *Store) SaveGeneration(ctx context.Context, userID int64, req content.GenerateRequest, variants map[string][]content.ChannelResult) (int64, error) {
	channelsJSON, err := json.Marshal(req.Channels)
	if err != nil {
		return 0, err
	}
	variantsJSON, err := json.Marshal(variants)
	if err != nil {
		return 0, err
	}
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO generations (user_id, description, channels, variants, num_variants, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		userID, req.Description, string(channelsJSON), string(variantsJSON), req.NumVariants, time.Now().UTC())
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// History lists the user's generations, newest first.
func (s *Store) History(ctx context.Context, userID int64, limit, offset int) ([]content.Generation, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, description, channels, variants, num_variants, is_saved, created_at
		 FROM generations WHERE user_id = ? ORDER BY created_at DESC LIMIT ? OFFSET ?`,
		userID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []content.Generation{}
	for rows.Next() {
		var g content.Generation
		var channelsJSON, variantsJSON string
		var saved int
		if err := rows.Scan(&g.ID, &g.Description, &channelsJSON, &variantsJSON, &g.NumVariants, &saved, &g.CreatedAt); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(channelsJSON), &g.Channels); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(variantsJSON), &g.Variants); err != nil {
			return nil, err
		}
		g.IsSaved = saved != 0
		out = append(out, g)
	}
	return out, rows.Err()
}

// Generation fetches one generation owned by the user.
func (s *Store) Generation(ctx context.Context, userID, id int64) (content.Generation, error) {
	var g content.Generation
	var channelsJSON, variantsJSON string
	var saved int
	err := s.db.QueryRowContext(ctx,
		`SELECT id, description, channels, variants, num_variants, is_saved, created_at
		 FROM generations WHERE id = ? AND user_id = ?`, id, userID).
		Scan(&g.ID, &g.Description, &channelsJSON, &variantsJSON, &g.NumVariants, &saved, &g.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return content.Generation{}, ErrNotFound
	}
	if err != nil {
		return content.Generation{}, err
	}
	if err := json.Unmarshal([]byte(channelsJSON), &g.Channels); err != nil {
		return content.Generation{}, err
	}
	if err := json.Unmarshal([]byte(variantsJSON), &g.Variants); err != nil {
		return content.Generation{}, err
	}
	g.IsSaved = saved != 0
	return g, nil
}

// MarkGenerationSaved flips the saved flag.
func (s *Store) MarkGenerationSaved(ctx context.Context, userID, id int64) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE generations SET is_saved = 1 WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return err
	}
	return requireRow(res)
}

// DeleteGeneration removes one generation owned by the user.
func (s *Store) DeleteGeneration(ctx context.Context, userID, id int64) error {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM generations WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
