package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"marketing_content_studio/content"
)

// CalendarFilter narrows ListScheduledPosts. Zero values mean "no filter".
type CalendarFilter struct {
	Start  time.Time
	End    time.Time
	Status content.PostStatus
}

// CreateScheduledPost persists a new calendar entry in scheduled status.
func (s *Store) CreateScheduledPost(ctx context.Context, userID int64, post content.ScheduledPost) (content.ScheduledPost, error) {
	if err := post.Content.Validate(); err != nil {
		return content.ScheduledPost{}, err
	}
	contentJSON, err := json.Marshal(post.Content)
	if err != nil {
		return content.ScheduledPost{}, err
	}
	now := time.Now().UTC()
	status := post.Status
	if status == "" {
		status = content.StatusScheduled
	}
	var genID any
	if post.GenerationID != 0 {
		genID = post.GenerationID
	}
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO scheduled_posts (user_id, generation_id, channel, content, scheduled_date, timezone, status, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		userID, genID, post.Channel, string(contentJSON), post.ScheduledDate.UTC(), post.Timezone, status, now, now)
	if err != nil {
		return content.ScheduledPost{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return content.ScheduledPost{}, err
	}
	post.ID = id
	post.Status = status
	post.CreatedAt = now
	return post, nil
}

// ListScheduledPosts returns the user's calendar ordered by scheduled date.
func (s *Store) ListScheduledPosts(ctx context.Context, userID int64, filter CalendarFilter) ([]content.ScheduledPost, error) {
	query := `SELECT id, generation_id, channel, content, scheduled_date, timezone, status, created_at
		 FROM scheduled_posts WHERE user_id = ?`
	args := []any{userID}
	if !filter.Start.IsZero() {
		query += ` AND scheduled_date >= ?`
		args = append(args, filter.Start.UTC())
	}
	if !filter.End.IsZero() {
		query += ` AND scheduled_date <= ?`
		args = append(args, filter.End.UTC())
	}
	if filter.Status != "" {
		query += ` AND status = ?`
		args = append(args, filter.Status)
	}
	query += ` ORDER BY scheduled_date`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []content.ScheduledPost{}
	for rows.Next() {
		post, err := scanScheduledPost(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, post)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanScheduledPost(row rowScanner) (content.ScheduledPost, error) {
	var post content.ScheduledPost
	var genID sql.NullInt64
	var contentJSON string
	if err := row.Scan(&post.ID, &genID, &post.Channel, &contentJSON, &post.ScheduledDate, &post.Timezone, &post.Status, &post.CreatedAt); err != nil {
		return content.ScheduledPost{}, err
	}
	if genID.Valid {
		post.GenerationID = genID.Int64
	}
	if err := json.Unmarshal([]byte(contentJSON), &post.Content); err != nil {
		return content.ScheduledPost{}, fmt.Errorf("%w: post %d: %v", ErrMalformedContent, post.ID, err)
	}
	if post.Content.Body == "" {
		return content.ScheduledPost{}, fmt.Errorf("%w: post %d: empty body", ErrMalformedContent, post.ID)
	}
	return post, nil
}

// ScheduledPost fetches one entry owned by the user.
func (s *Store) ScheduledPost(ctx context.Context, userID, id int64) (content.ScheduledPost, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, generation_id, channel, content, scheduled_date, timezone, status, created_at
		 FROM scheduled_posts WHERE id = ? AND user_id = ?`, id, userID)
	post, err := scanScheduledPost(row)
	if errors.Is(err, sql.ErrNoRows) {
		return content.ScheduledPost{}, ErrNotFound
	}
	return post, err
}

// ScheduledPostUpdate carries optional field changes; nil means unchanged.
type ScheduledPostUpdate struct {
	ScheduledDate *time.Time
	Timezone      *string
	Status        *content.PostStatus
}

// UpdateScheduledPost applies partial changes to one entry.
func (s *Store) UpdateScheduledPost(ctx context.Context, userID, id int64, upd ScheduledPostUpdate) (content.ScheduledPost, error) {
	post, err := s.ScheduledPost(ctx, userID, id)
	if err != nil {
		return content.ScheduledPost{}, err
	}
	if upd.ScheduledDate != nil {
		post.ScheduledDate = upd.ScheduledDate.UTC()
	}
	if upd.Timezone != nil {
		post.Timezone = *upd.Timezone
	}
	if upd.Status != nil {
		post.Status = *upd.Status
	}
	_, err = s.db.ExecContext(ctx,
		`UPDATE scheduled_posts SET scheduled_date = ?, timezone = ?, status = ?, updated_at = ?
		 WHERE id = ? AND user_id = ?`,
		post.ScheduledDate, post.Timezone, post.Status, time.Now().UTC(), id, userID)
	if err != nil {
		return content.ScheduledPost{}, err
	}
	return post, nil
}

// DeleteScheduledPost removes one entry owned by the user.
func (s *Store) DeleteScheduledPost(ctx context.Context, userID, id int64) error {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM scheduled_posts WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return err
	}
	return requireRow(res)
}

// PublishDuePosts flips every scheduled post whose date has passed to
// published, returning how many changed. Called by the cron publisher.
func (s *Store) PublishDuePosts(ctx context.Context, now time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`UPDATE scheduled_posts SET status = ?, updated_at = ?
		 WHERE status = ? AND scheduled_date <= ?`,
		content.StatusPublished, now.UTC(), content.StatusScheduled, now.UTC())
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
