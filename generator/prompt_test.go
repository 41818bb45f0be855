package generator

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"marketing_content_studio/content"
)

func baseRequest() content.GenerateRequest {
	return content.GenerateRequest{
		Description: "Онлайн-курс по маркетингу со скидкой 30%",
		Channels:    []string{content.ChannelTelegram, content.ChannelVK},
		NumVariants: 2,
		Goal:        content.GoalSales,
		Tone:        content.ToneFriendly,
	}
}

func TestBuildGeneratePrompt(t *testing.T) {
	p := BuildGeneratePrompt(baseRequest(), "")

	assert.Contains(t, p.System, "SMM-специалист")
	assert.Contains(t, p.User, "ЦЕЛЬ: Продажа")
	assert.Contains(t, p.User, "ТОН: Дружелюбный")
	assert.Contains(t, p.User, "Telegram, VK")
	assert.Contains(t, p.User, "Онлайн-курс по маркетингу")
	assert.Contains(t, p.User, "Стиль бренда: Профессиональный, но дружелюбный стиль.")
	assert.Equal(t, 0.8, p.Temperature)
	assert.Equal(t, 4000, p.MaxTokens)
}

func TestBuildGeneratePromptOptionalFields(t *testing.T) {
	req := baseRequest()
	req.Audience = "мамы 25-35"
	req.Offer = "скидка 30% до пятницы"
	req.Format = content.FormatStory

	p := BuildGeneratePrompt(req, "Дерзко и коротко.")

	assert.Contains(t, p.User, "ЦА: мамы 25-35")
	assert.Contains(t, p.User, "Оффер: скидка 30% до пятницы")
	assert.Contains(t, p.User, "ФОРМАТ: История")
	assert.Contains(t, p.User, "Стиль бренда: Дерзко и коротко.")
}

func TestBuildGeneratePromptShortFormatOmitted(t *testing.T) {
	req := baseRequest()
	req.Format = content.FormatShort
	p := BuildGeneratePrompt(req, "")
	assert.NotContains(t, p.User, "ФОРМАТ:")
}

func TestBuildChannelPrompt(t *testing.T) {
	p := BuildChannelPrompt(baseRequest(), "", content.ChannelTelegram)

	assert.Contains(t, p.User, "Сгенерируй текст ТОЛЬКО для канала: Telegram")
	assert.Equal(t, 2000, p.MaxTokens)
}

func TestAgentMockGenerate(t *testing.T) {
	agent, err := NewAgent(nil, nil, true)
	require.NoError(t, err)

	req := baseRequest()
	results, err := agent.Generate(context.Background(), req)
	require.NoError(t, err)

	require.Len(t, results, 2)
	for _, ch := range req.Channels {
		variants := results[ch]
		require.Len(t, variants, req.NumVariants, "channel %s", ch)
		for _, v := range variants {
			assert.NotEmpty(t, v.Body)
			assert.Greater(t, v.Score, 0.0)
		}
	}
}

func TestAgentRequiresLLMOutsideMock(t *testing.T) {
	_, err := NewAgent(nil, nil, false)
	assert.Error(t, err)
}

type failingLLM struct{}

func (failingLLM) Complete(context.Context, Prompt) (string, error) {
	return "", assert.AnError
}

func TestAgentGenerateDegradesToMock(t *testing.T) {
	agent, err := NewAgent(failingLLM{}, nil, false)
	require.NoError(t, err)

	req := baseRequest()
	results, err := agent.Generate(context.Background(), req)
	require.NoError(t, err)
	require.Len(t, results, len(req.Channels))
	for _, ch := range req.Channels {
		assert.NotEmpty(t, results[ch])
	}
}

func TestGenerateStreamEmitsEveryChannel(t *testing.T) {
	agent, err := NewAgent(MockLLM{}, nil, true)
	require.NoError(t, err)

	req := baseRequest()
	seen := map[string]int{}
	for event := range agent.GenerateStream(context.Background(), req) {
		seen[event.Channel] = len(event.Variants)
	}

	require.Len(t, seen, len(req.Channels))
	for _, ch := range req.Channels {
		assert.Equal(t, req.NumVariants, seen[ch], "channel %s", ch)
	}
}
