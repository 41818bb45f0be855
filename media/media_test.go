package media

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"marketing_content_studio/content"
)

func TestExtractImageURLFromString(t *testing.T) {
	raw, _ := json.Marshal("Вот картинка: data:image/png;base64,iVBORw0KGgoAAA== готово")
	assert.Equal(t, "data:image/png;base64,iVBORw0KGgoAAA==", extractImageURL(raw))

	raw, _ = json.Marshal("см. https://cdn.example.com/pic.png и текст")
	assert.Equal(t, "https://cdn.example.com/pic.png", extractImageURL(raw))

	raw, _ = json.Marshal("никакой картинки здесь нет")
	assert.Empty(t, extractImageURL(raw))
}

func TestExtractImageURLFromParts(t *testing.T) {
	raw := []byte(`[{"type": "image_url", "image_url": {"url": "https://x.test/a.png"}}]`)
	assert.Equal(t, "https://x.test/a.png", extractImageURL(raw))

	raw = []byte(`[{"type": "image", "image": "data:image/png;base64,AAAA"}]`)
	assert.Equal(t, "data:image/png;base64,AAAA", extractImageURL(raw))

	raw = []byte(`[{"type": "image", "image": {"url": "https://x.test/b.png"}}]`)
	assert.Equal(t, "https://x.test/b.png", extractImageURL(raw))
}

func TestMockImage(t *testing.T) {
	img := MockImage("уютная кофейня в центре города с видом на парк")
	assert.Contains(t, img.URL, "placehold.co")
	assert.Equal(t, "уютная кофейня в центре города с видом на парк", img.Prompt)

	// The label is cut at 20 characters without splitting a letter.
	assert.NotContains(t, img.URL, "%EF%BF%BD")
}

type fixedSettings struct {
	settings content.ImageSettings
}

func (f fixedSettings) ImageSettings(context.Context) (content.ImageSettings, error) {
	return f.settings, nil
}

func TestGenerateDisabledFallsBackToMock(t *testing.T) {
	g := NewGenerator(fixedSettings{content.ImageSettings{
		APIKey:    "sk-or-configured",
		Model:     "some/model",
		Enabled:   false,
		UpdatedAt: time.Now(),
	}}, zap.NewNop(), "", "fallback/model", false)

	img, err := g.Generate(context.Background(), "прототип", content.ChannelVK)
	require.NoError(t, err)
	assert.Contains(t, img.URL, "placehold.co")
}

func TestGenerateNoKeyFallsBackToMock(t *testing.T) {
	g := NewGenerator(fixedSettings{content.ImageSettings{Enabled: true}}, zap.NewNop(), "", "m", false)

	img, err := g.Generate(context.Background(), "прототип", content.ChannelVK)
	require.NoError(t, err)
	assert.Contains(t, img.URL, "placehold.co")
}

func TestGenerateMockMode(t *testing.T) {
	g := NewGenerator(nil, zap.NewNop(), "real-key", "m", true)
	img, err := g.Generate(context.Background(), "прототип", content.ChannelVK)
	require.NoError(t, err)
	assert.Contains(t, img.URL, "placehold.co")
}
