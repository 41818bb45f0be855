package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"marketing_content_studio/content"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestUserLifecycle(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	user, err := s.CreateUser(ctx, "a@b.ru", "secret123", "")
	require.NoError(t, err)
	assert.Equal(t, RoleUser, user.Role)

	_, err = s.CreateUser(ctx, "a@b.ru", "other", "")
	assert.ErrorIs(t, err, ErrEmailTaken)

	got, err := s.Authenticate(ctx, "a@b.ru", "secret123")
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)

	_, err = s.Authenticate(ctx, "a@b.ru", "wrong")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = s.Authenticate(ctx, "nobody@b.ru", "secret123")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestTokens(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	user, err := s.CreateUser(ctx, "a@b.ru", "secret123", "")
	require.NoError(t, err)

	token, err := s.IssueToken(ctx, user.ID, time.Hour)
	require.NoError(t, err)

	got, err := s.UserByToken(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)

	_, err = s.UserByToken(ctx, "bogus")
	assert.ErrorIs(t, err, ErrNotFound)

	expired, err := s.IssueToken(ctx, user.ID, -time.Minute)
	require.NoError(t, err)
	_, err = s.UserByToken(ctx, expired)
	assert.ErrorIs(t, err, ErrNotFound)
}

func testGeneration() (content.GenerateRequest, map[string][]content.ChannelResult) {
	req := content.GenerateRequest{
		Description: "Онлайн-курс по Go",
		Channels:    []string{content.ChannelTelegram},
		NumVariants: 1,
	}
	variants := map[string][]content.ChannelResult{
		content.ChannelTelegram: {{Body: "Пост", Score: 8, Hashtags: []string{"#go"}}},
	}
	return req, variants
}

func TestGenerationHistory(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	user, err := s.CreateUser(ctx, "a@b.ru", "secret123", "")
	require.NoError(t, err)

	req, variants := testGeneration()
	id, err := s.SaveGeneration(ctx, user.ID, req, variants)
	require.NoError(t, err)

	history, err := s.History(ctx, user.ID, 10, 0)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, id, history[0].ID)
	assert.Equal(t, variants, history[0].Variants)
	assert.False(t, history[0].IsSaved)

	require.NoError(t, s.MarkGenerationSaved(ctx, user.ID, id))
	gen, err := s.Generation(ctx, user.ID, id)
	require.NoError(t, err)
	assert.True(t, gen.IsSaved)

	// Another user cannot touch it.
	assert.ErrorIs(t, s.DeleteGeneration(ctx, user.ID+1, id), ErrNotFound)

	require.NoError(t, s.DeleteGeneration(ctx, user.ID, id))
	_, err = s.Generation(ctx, user.ID, id)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestBrandVoiceFallback(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	voice, err := s.BrandVoiceFor(ctx, content.ChannelVK)
	require.NoError(t, err)
	assert.Empty(t, voice, "nothing stored yet")

	_, err = s.UpsertBrandVoice(ctx, "general", "Общий стиль.", nil)
	require.NoError(t, err)
	_, err = s.UpsertBrandVoice(ctx, content.ChannelVK, "Стиль ВК.", []string{"пример"})
	require.NoError(t, err)

	voice, err = s.BrandVoiceFor(ctx, content.ChannelVK)
	require.NoError(t, err)
	assert.Equal(t, "Стиль ВК.", voice)

	// Channels without their own entry fall back to general.
	voice, err = s.BrandVoiceFor(ctx, content.ChannelZen)
	require.NoError(t, err)
	assert.Equal(t, "Общий стиль.", voice)

	// Upsert replaces rather than duplicates.
	_, err = s.UpsertBrandVoice(ctx, content.ChannelVK, "Новый стиль ВК.", nil)
	require.NoError(t, err)
	voices, err := s.BrandVoices(ctx)
	require.NoError(t, err)
	assert.Len(t, voices, 2)
}

func TestBrandVoiceExamples(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	user, err := s.CreateUser(ctx, "a@b.ru", "secret123", "")
	require.NoError(t, err)

	first, err := s.AddBrandVoiceExample(ctx, user.ID, content.ChannelVK, "Первый пример")
	require.NoError(t, err)
	_, err = s.AddBrandVoiceExample(ctx, user.ID, content.ChannelZen, "Другой канал")
	require.NoError(t, err)

	examples, err := s.BrandVoiceExamples(ctx, content.ChannelVK)
	require.NoError(t, err)
	require.Len(t, examples, 1)
	assert.Equal(t, "Первый пример", examples[0].OriginalText)

	texts, err := s.BrandVoiceExamplesByID(ctx, content.ChannelVK, []int64{first.ID})
	require.NoError(t, err)
	assert.Equal(t, []string{"Первый пример"}, texts)

	require.NoError(t, s.DeleteBrandVoiceExample(ctx, first.ID))
	assert.ErrorIs(t, s.DeleteBrandVoiceExample(ctx, first.ID), ErrNotFound)
}

func TestScheduledPosts(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	user, err := s.CreateUser(ctx, "a@b.ru", "secret123", "")
	require.NoError(t, err)

	_, err = s.CreateScheduledPost(ctx, user.ID, content.ScheduledPost{
		Channel:       content.ChannelTelegram,
		Content:       content.ChannelResult{},
		ScheduledDate: time.Now().Add(time.Hour),
		Timezone:      "Europe/Moscow",
	})
	assert.ErrorIs(t, err, content.ErrEmptyBody, "empty body never reaches the calendar")

	post, err := s.CreateScheduledPost(ctx, user.ID, content.ScheduledPost{
		Channel:       content.ChannelTelegram,
		Content:       content.ChannelResult{Body: "Пост", Score: 8},
		ScheduledDate: time.Now().Add(-time.Minute),
		Timezone:      "Europe/Moscow",
	})
	require.NoError(t, err)
	assert.Equal(t, content.StatusScheduled, post.Status)

	posts, err := s.ListScheduledPosts(ctx, user.ID, CalendarFilter{})
	require.NoError(t, err)
	require.Len(t, posts, 1)

	n, err := s.PublishDuePosts(ctx, time.Now())
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	got, err := s.ScheduledPost(ctx, user.ID, post.ID)
	require.NoError(t, err)
	assert.Equal(t, content.StatusPublished, got.Status)

	// Already published entries are not swept again.
	n, err = s.PublishDuePosts(ctx, time.Now())
	require.NoError(t, err)
	assert.Zero(t, n)

	cancelled := content.StatusCancelled
	updated, err := s.UpdateScheduledPost(ctx, user.ID, post.ID, ScheduledPostUpdate{Status: &cancelled})
	require.NoError(t, err)
	assert.Equal(t, content.StatusCancelled, updated.Status)

	require.NoError(t, s.DeleteScheduledPost(ctx, user.ID, post.ID))
	_, err = s.ScheduledPost(ctx, user.ID, post.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestImageSettingsDefaults(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	settings, err := s.ImageSettings(ctx)
	require.NoError(t, err)
	assert.False(t, settings.Enabled)
	assert.Equal(t, "google/gemini-3-pro-image-preview", settings.Model)
	assert.Empty(t, settings.APIKey)

	key := "sk-or-v1-abcdef"
	enabled := true
	updated, err := s.UpdateImageSettings(ctx, ImageSettingsUpdate{APIKey: &key, Enabled: &enabled})
	require.NoError(t, err)
	assert.True(t, updated.Enabled)
	assert.Equal(t, key, updated.APIKey)

	// Partial update leaves the other fields alone.
	model := "another/model"
	updated, err = s.UpdateImageSettings(ctx, ImageSettingsUpdate{Model: &model})
	require.NoError(t, err)
	assert.Equal(t, key, updated.APIKey)
	assert.Equal(t, "another/model", updated.Model)
	assert.True(t, updated.Enabled)
}
