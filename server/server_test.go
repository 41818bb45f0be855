package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"marketing_content_studio/config"
	"marketing_content_studio/content"
	"marketing_content_studio/generator"
	"marketing_content_studio/media"
	"marketing_content_studio/store"
)

type testEnv struct {
	srv   *httptest.Server
	store *store.Store
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	st, err := store.Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	agent, err := generator.NewAgent(generator.MockLLM{}, st, true)
	require.NoError(t, err)

	cfg := config.Config{
		APIPrefix:          "/api",
		RateLimitPerMinute: 1000,
		TokenTTLHours:      24,
	}
	images := media.NewGenerator(st, zap.NewNop(), "", "test/model", true)

	s, err := New(st, agent, images, zap.NewNop(), cfg)
	require.NoError(t, err)

	srv := httptest.NewServer(s.Routes())
	t.Cleanup(srv.Close)
	return &testEnv{srv: srv, store: st}
}

func (e *testEnv) request(t *testing.T, method, path, token string, body any) *http.Response {
	t.Helper()
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequest(method, e.srv.URL+path, reader)
	require.NoError(t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	return resp
}

func decodeBody(t *testing.T, resp *http.Response, v any) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(v))
}

func (e *testEnv) login(t *testing.T, email, password string) string {
	t.Helper()
	resp := e.request(t, http.MethodPost, "/api/login", "", map[string]string{
		"email": email, "password": password,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var out struct {
		AccessToken string `json:"access_token"`
	}
	decodeBody(t, resp, &out)
	return out.AccessToken
}

func (e *testEnv) registerAndLogin(t *testing.T) string {
	t.Helper()
	resp := e.request(t, http.MethodPost, "/api/register", "", map[string]string{
		"email": "user@test.ru", "password": "secret123",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()
	return e.login(t, "user@test.ru", "secret123")
}

func (e *testEnv) adminToken(t *testing.T) string {
	t.Helper()
	_, err := e.store.CreateUser(context.Background(), "admin@test.ru", "secret123", store.RoleAdmin)
	require.NoError(t, err)
	return e.login(t, "admin@test.ru", "secret123")
}

func TestAuthFlow(t *testing.T) {
	env := newTestEnv(t)
	token := env.registerAndLogin(t)

	resp := env.request(t, http.MethodGet, "/api/me", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var me store.User
	decodeBody(t, resp, &me)
	assert.Equal(t, "user@test.ru", me.Email)
	assert.Equal(t, store.RoleUser, me.Role)
}

func TestUnauthenticatedRejected(t *testing.T) {
	env := newTestEnv(t)

	resp := env.request(t, http.MethodGet, "/api/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	var body map[string]string
	decodeBody(t, resp, &body)
	assert.Equal(t, "Could not validate credentials", body["detail"])

	resp = env.request(t, http.MethodGet, "/api/me", "bogus-token", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()
}

func TestWrongPassword(t *testing.T) {
	env := newTestEnv(t)
	env.registerAndLogin(t)

	resp := env.request(t, http.MethodPost, "/api/login", "", map[string]string{
		"email": "user@test.ru", "password": "wrong",
	})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	var body map[string]string
	decodeBody(t, resp, &body)
	assert.Equal(t, "Incorrect email or password", body["detail"])
}

func TestAdminOnlyEndpoints(t *testing.T) {
	env := newTestEnv(t)
	userToken := env.registerAndLogin(t)

	resp := env.request(t, http.MethodGet, "/api/brandvoice", userToken, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	var body map[string]string
	decodeBody(t, resp, &body)
	assert.Equal(t, "Not enough permissions", body["detail"])

	adminToken := env.adminToken(t)
	resp = env.request(t, http.MethodGet, "/api/brandvoice", adminToken, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()
}

func TestGenerateAndHistory(t *testing.T) {
	env := newTestEnv(t)
	token := env.registerAndLogin(t)

	resp := env.request(t, http.MethodPost, "/api/generate", token, content.GenerateRequest{
		Description: "Онлайн-курс по маркетингу со скидкой",
		Channels:    []string{content.ChannelTelegram, content.ChannelVK},
		NumVariants: 2,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out generateResp
	decodeBody(t, resp, &out)
	assert.NotZero(t, out.GenerationID)
	require.Len(t, out.Results, 2)
	assert.Len(t, out.Results[content.ChannelTelegram], 2)

	resp = env.request(t, http.MethodGet, "/api/history", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var history []content.Generation
	decodeBody(t, resp, &history)
	require.Len(t, history, 1)
	assert.Equal(t, out.GenerationID, history[0].ID)
}

func TestGenerateRejectsUnknownChannel(t *testing.T) {
	env := newTestEnv(t)
	token := env.registerAndLogin(t)

	resp := env.request(t, http.MethodPost, "/api/generate", token, content.GenerateRequest{
		Description: "Достаточно длинное описание продукта",
		Channels:    []string{"Twitter"},
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()
}

func TestGenerateStreamEvents(t *testing.T) {
	env := newTestEnv(t)
	token := env.registerAndLogin(t)

	resp := env.request(t, http.MethodPost, "/api/generate/stream", token, content.GenerateRequest{
		Description: "Онлайн-курс по маркетингу со скидкой",
		Channels:    []string{content.ChannelTelegram},
		NumVariants: 1,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	defer resp.Body.Close()
	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	body := string(raw)
	assert.Contains(t, body, "event: channel_complete")
	assert.Contains(t, body, `"channel":"Telegram"`)
	assert.Contains(t, body, "event: done")
	assert.Contains(t, body, "generation_id")
}

func TestImproveInvalidAction(t *testing.T) {
	env := newTestEnv(t)
	token := env.registerAndLogin(t)

	resp := env.request(t, http.MethodPost, "/api/improve/translate", token, map[string]string{
		"text": "Достаточно длинный текст", "channel": content.ChannelVK,
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	var body map[string]string
	decodeBody(t, resp, &body)
	assert.Contains(t, body["detail"], "shorten, emoji, tone, cta")
}

func TestImproveMockPath(t *testing.T) {
	env := newTestEnv(t)
	token := env.registerAndLogin(t)

	resp := env.request(t, http.MethodPost, "/api/improve/emoji", token, map[string]string{
		"text": "Достаточно длинный текст", "channel": content.ChannelVK,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var out improveResp
	decodeBody(t, resp, &out)
	assert.Equal(t, "emoji", out.Action)
	assert.Equal(t, "Достаточно длинный текст", out.OriginalText)
	assert.NotEqual(t, out.OriginalText, out.ImprovedText)
}

func TestExportCSV(t *testing.T) {
	env := newTestEnv(t)
	token := env.registerAndLogin(t)

	resp := env.request(t, http.MethodPost, "/api/export/csv", token, exportReq{
		Items: []content.ExportItem{
			{Channel: content.ChannelTelegram, Result: content.ChannelResult{Body: "Пост", Score: 8}},
		},
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	defer resp.Body.Close()
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "content_export.csv")

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	lines := strings.Split(string(raw), "\n")
	assert.Len(t, lines, 2)
}

func TestExportUnknownFormat(t *testing.T) {
	env := newTestEnv(t)
	token := env.registerAndLogin(t)

	resp := env.request(t, http.MethodPost, "/api/export/xlsx", token, exportReq{
		Items: []content.ExportItem{
			{Channel: content.ChannelVK, Result: content.ChannelResult{Body: "Пост"}},
		},
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()
}

func TestCalendarFlow(t *testing.T) {
	env := newTestEnv(t)
	token := env.registerAndLogin(t)

	resp := env.request(t, http.MethodPost, "/api/calendar", token, scheduleReq{
		Channel:  content.ChannelTelegram,
		Content:  content.ChannelResult{Body: "Запланированный пост", Score: 8},
		Date:     "2100-05-01",
		Time:     "09:30",
		Timezone: "Europe/Moscow",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var post content.ScheduledPost
	decodeBody(t, resp, &post)
	assert.Equal(t, content.StatusScheduled, post.Status)

	resp = env.request(t, http.MethodGet, "/api/calendar", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var posts []content.ScheduledPost
	decodeBody(t, resp, &posts)
	require.Len(t, posts, 1)

	resp = env.request(t, http.MethodDelete, "/api/calendar/1", token, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()
}

func TestCalendarRejectsPastDate(t *testing.T) {
	env := newTestEnv(t)
	token := env.registerAndLogin(t)

	resp := env.request(t, http.MethodPost, "/api/calendar", token, scheduleReq{
		Channel: content.ChannelTelegram,
		Content: content.ChannelResult{Body: "Пост"},
		Date:    "2020-01-01",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()
}

func TestImageSettingsMaskedOnUpdate(t *testing.T) {
	env := newTestEnv(t)
	token := env.adminToken(t)

	resp := env.request(t, http.MethodPut, "/api/image-settings", token, map[string]any{
		"api_key": "sk-or-v1-1234567890abcdef",
		"enabled": true,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var settings content.ImageSettings
	decodeBody(t, resp, &settings)
	assert.Equal(t, "sk-or-v1-1...", settings.APIKey)
	assert.True(t, settings.Enabled)
}

func TestGenerateImageMock(t *testing.T) {
	env := newTestEnv(t)
	token := env.registerAndLogin(t)

	resp := env.request(t, http.MethodPost, "/api/media/generate-image", token, map[string]string{
		"prompt": "уютная кофейня", "channel": content.ChannelVK,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var img media.Image
	decodeBody(t, resp, &img)
	assert.Contains(t, img.URL, "placehold.co")
	assert.Equal(t, "уютная кофейня", img.Prompt)
}

func TestHealth(t *testing.T) {
	env := newTestEnv(t)
	resp, err := http.Get(env.srv.URL + "/health")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()
}
