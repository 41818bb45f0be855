// Package client is the Go consumer of the studio API: request plumbing with
// bearer auth, local draft persistence, and per-variant improve serialization.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"marketing_content_studio/content"
)

// ErrUnauthorized is returned for any 401; the stored token is already
// evicted by the time the caller sees it.
var ErrUnauthorized = errors.New("unauthorized")

// TokenStore persists the bearer token between runs.
type TokenStore interface {
	Token() string
	SetToken(token string) error
	ClearToken() error
}

type Client struct {
	baseURL string
	http    *http.Client
	tokens  TokenStore
}

func New(baseURL string, tokens TokenStore) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 180 * time.Second},
		tokens:  tokens,
	}
}

type apiError struct {
	Detail string `json:"detail"`
}

// do is the single place requests are composed and 401s are handled: the
// token is attached when present, and an unauthorized response evicts it
// before the error reaches the caller.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token := c.tokens.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		_ = c.tokens.ClearToken()
		return ErrUnauthorized
	}
	if resp.StatusCode >= 400 {
		var apiErr apiError
		if err := json.NewDecoder(resp.Body).Decode(&apiErr); err == nil && apiErr.Detail != "" {
			return fmt.Errorf("api error %d: %s", resp.StatusCode, apiErr.Detail)
		}
		return fmt.Errorf("api error %d", resp.StatusCode)
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// --- Auth ---

type tokenResp struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type User struct {
	ID    int64  `json:"id"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

func (c *Client) Register(ctx context.Context, email, password string) (User, error) {
	var user User
	err := c.do(ctx, http.MethodPost, "/api/register", credentials{Email: email, Password: password}, &user)
	return user, err
}

// Login authenticates and stores the received token.
func (c *Client) Login(ctx context.Context, email, password string) error {
	var resp tokenResp
	if err := c.do(ctx, http.MethodPost, "/api/login", credentials{Email: email, Password: password}, &resp); err != nil {
		return err
	}
	return c.tokens.SetToken(resp.AccessToken)
}

func (c *Client) Logout() error {
	return c.tokens.ClearToken()
}

func (c *Client) Me(ctx context.Context) (User, error) {
	var user User
	err := c.do(ctx, http.MethodGet, "/api/me", nil, &user)
	return user, err
}

// --- Generation ---

type GenerateResponse struct {
	Results      map[string][]content.ChannelResult `json:"results"`
	GenerationID int64                              `json:"generation_id"`
}

func (c *Client) Generate(ctx context.Context, req content.GenerateRequest) (GenerateResponse, error) {
	var resp GenerateResponse
	err := c.do(ctx, http.MethodPost, "/api/generate", req, &resp)
	return resp, err
}

func (c *Client) History(ctx context.Context, limit, offset int) ([]content.Generation, error) {
	var out []content.Generation
	path := fmt.Sprintf("/api/history?limit=%d&offset=%d", limit, offset)
	err := c.do(ctx, http.MethodGet, path, nil, &out)
	return out, err
}

func (c *Client) SaveGeneration(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodPost, fmt.Sprintf("/api/history/%d/save", id), nil, nil)
}

func (c *Client) DeleteGeneration(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/api/history/%d", id), nil, nil)
}

// --- Calendar ---

type schedulePayload struct {
	GenerationID int64                 `json:"generation_id,omitempty"`
	Channel      string                `json:"channel"`
	Content      content.ChannelResult `json:"content"`
	Date         string                `json:"date"`
	Time         string                `json:"time,omitempty"`
	Timezone     string                `json:"timezone,omitempty"`
}

// CreateScheduledPost submits a composed post to the calendar. The instant is
// broken back into the wall-clock date and time of the post's zone, which is
// what the API validates against.
func (c *Client) CreateScheduledPost(ctx context.Context, post content.ScheduledPost) (content.ScheduledPost, error) {
	loc, err := time.LoadLocation(post.Timezone)
	if err != nil {
		return content.ScheduledPost{}, fmt.Errorf("unknown timezone %q: %w", post.Timezone, err)
	}
	local := post.ScheduledDate.In(loc)

	var created content.ScheduledPost
	err = c.do(ctx, http.MethodPost, "/api/calendar", schedulePayload{
		GenerationID: post.GenerationID,
		Channel:      post.Channel,
		Content:      post.Content,
		Date:         local.Format("2006-01-02"),
		Time:         local.Format("15:04"),
		Timezone:     post.Timezone,
	}, &created)
	return created, err
}

func (c *Client) Calendar(ctx context.Context) ([]content.ScheduledPost, error) {
	var out []content.ScheduledPost
	err := c.do(ctx, http.MethodGet, "/api/calendar", nil, &out)
	return out, err
}

func (c *Client) DeleteScheduledPost(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/api/calendar/%d", id), nil, nil)
}

// --- Improve ---

type ImproveResponse struct {
	OriginalText string `json:"original_text"`
	ImprovedText string `json:"improved_text"`
	Action       string `json:"action"`
}

type improvePayload struct {
	Text       string `json:"text"`
	Channel    string `json:"channel"`
	TargetTone string `json:"target_tone,omitempty"`
}

func (c *Client) Improve(ctx context.Context, action content.ImproveAction, text, channel, targetTone string) (ImproveResponse, error) {
	var resp ImproveResponse
	err := c.do(ctx, http.MethodPost, "/api/improve/"+string(action),
		improvePayload{Text: text, Channel: channel, TargetTone: targetTone}, &resp)
	return resp, err
}
