// Package media generates marketing images through the OpenRouter
// chat-completions API, falling back to placeholder images whenever no key
// is configured or the upstream call fails.
package media

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"time"

	"go.uber.org/zap"

	"marketing_content_studio/content"
)

const openRouterURL = "https://openrouter.ai/api/v1/chat/completions"

// ErrInsufficientCredits signals an OpenRouter 402 response.
var ErrInsufficientCredits = errors.New("insufficient credits on the OpenRouter account")

// Image is the result of one generation call.
type Image struct {
	URL    string `json:"image_url"`
	Prompt string `json:"prompt"`
}

// SettingsSource yields the stored image settings. Backed by
// Store.ImageSettings in the server.
type SettingsSource interface {
	ImageSettings(ctx context.Context) (content.ImageSettings, error)
}

// Generator turns image prompts into image URLs.
type Generator struct {
	settings SettingsSource
	client   *http.Client
	log      *zap.Logger

	fallbackKey string
	model       string
	mock        bool
}

func NewGenerator(settings SettingsSource, log *zap.Logger, fallbackKey, model string, mock bool) *Generator {
	return &Generator{
		settings:    settings,
		client:      &http.Client{Timeout: 120 * time.Second},
		log:         log,
		fallbackKey: fallbackKey,
		model:       model,
		mock:        mock,
	}
}

// Generate produces one image for the prompt. Stored settings win over the
// environment key; a disabled toggle, a missing key, or any upstream error
// yields the placeholder instead of failing the request.
func (g *Generator) Generate(ctx context.Context, prompt, channel string) (Image, error) {
	if g.mock {
		return MockImage(prompt), nil
	}

	apiKey := ""
	model := g.model
	enabled := true
	if g.settings != nil {
		stored, err := g.settings.ImageSettings(ctx)
		if err != nil {
			g.log.Warn("read image settings", zap.Error(err))
		} else if stored.APIKey != "" {
			apiKey = stored.APIKey
			if stored.Model != "" {
				model = stored.Model
			}
			enabled = stored.Enabled
		}
	}
	if apiKey == "" {
		apiKey = g.fallbackKey
	}
	if apiKey == "" || !enabled {
		return MockImage(prompt), nil
	}

	img, err := g.generate(ctx, prompt, channel, apiKey, model)
	if err != nil {
		g.log.Warn("image generation failed, using placeholder",
			zap.String("channel", channel), zap.Error(err))
		return MockImage(prompt), nil
	}
	return img, nil
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type imageRequest struct {
	Model      string        `json:"model"`
	Modalities []string      `json:"modalities"`
	Messages   []chatMessage `json:"messages"`
}

type imageResponse struct {
	Choices []struct {
		Message struct {
			Content json.RawMessage `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

var (
	base64ImageRe = regexp.MustCompile(`data:image/[^;]+;base64,[A-Za-z0-9+/=]+`)
	imageURLRe    = regexp.MustCompile(`https?://[^\s"']+\.(png|jpg|jpeg|gif|webp)`)
)

func (g *Generator) generate(ctx context.Context, prompt, channel, apiKey, model string) (Image, error) {
	enhanced := fmt.Sprintf(
		"Generate a professional marketing image: %s. Style: modern, high quality, for %s social media.",
		prompt, channel)

	payload, err := json.Marshal(imageRequest{
		Model:      model,
		Modalities: []string{"image", "text"},
		Messages:   []chatMessage{{Role: "user", Content: enhanced}},
	})
	if err != nil {
		return Image{}, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, openRouterURL, bytes.NewReader(payload))
	if err != nil {
		return Image{}, err
	}
	req.Header.Set("Authorization", "Bearer "+apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		return Image{}, fmt.Errorf("call openrouter: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusPaymentRequired {
		return Image{}, ErrInsufficientCredits
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return Image{}, fmt.Errorf("image generation failed: status %d: %s", resp.StatusCode, body)
	}

	var decoded imageResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return Image{}, fmt.Errorf("decode openrouter response: %w", err)
	}
	if len(decoded.Choices) == 0 {
		return Image{}, errors.New("no image in response")
	}

	imageURL := extractImageURL(decoded.Choices[0].Message.Content)
	if imageURL == "" {
		return Image{}, errors.New("no image in response")
	}
	return Image{URL: imageURL, Prompt: prompt}, nil
}

// extractImageURL handles both content shapes OpenRouter returns: a plain
// string carrying a data URI or link, and a part list with image_url or
// image entries.
func extractImageURL(raw json.RawMessage) string {
	var text string
	if err := json.Unmarshal(raw, &text); err == nil {
		if m := base64ImageRe.FindString(text); m != "" {
			return m
		}
		return imageURLRe.FindString(text)
	}

	var parts []struct {
		Type     string `json:"type"`
		ImageURL struct {
			URL string `json:"url"`
		} `json:"image_url"`
		Image json.RawMessage `json:"image"`
	}
	if err := json.Unmarshal(raw, &parts); err != nil {
		return ""
	}
	for _, part := range parts {
		switch part.Type {
		case "image_url":
			if part.ImageURL.URL != "" {
				return part.ImageURL.URL
			}
		case "image":
			var s string
			if err := json.Unmarshal(part.Image, &s); err == nil {
				return s
			}
			var obj struct {
				URL string `json:"url"`
			}
			if err := json.Unmarshal(part.Image, &obj); err == nil {
				return obj.URL
			}
		}
	}
	return ""
}

// MockImage returns a deterministic placeholder for the prompt.
func MockImage(prompt string) Image {
	label := prompt
	if runes := []rune(label); len(runes) > 20 {
		label = string(runes[:20])
	}
	return Image{
		URL:    "https://placehold.co/800x600/667eea/white?text=" + url.QueryEscape(label),
		Prompt: prompt,
	}
}
