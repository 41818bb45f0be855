package generator

import (
	"encoding/json"
	"fmt"

	"marketing_content_studio/content"
)

const audiencePromptTemplate = `Проанализируй целевую аудиторию для продукта: %s
%s
Верни JSON (только JSON, без markdown):
{
  "age_range": "25-34",
  "gender": "смешанная",
  "interests": ["..."],
  "pains": ["..."],
  "triggers": ["..."],
  "channels": ["Telegram", "VK"],
  "content_preferences": ["..."]
}

Требования:
- Каналы выбирай из: Директ, Telegram, Email, VK, Дзен
- Боли и триггеры — конкретные, применимые в рекламных текстах`

func BuildAudiencePrompt(product, description string) Prompt {
	extra := ""
	if description != "" {
		extra = fmt.Sprintf("\nОписание: %s\n", description)
	}
	return Prompt{
		System:      "Ты — маркетинговый аналитик. Составляешь точные портреты целевой аудитории.",
		User:        fmt.Sprintf(audiencePromptTemplate, product, extra),
		Temperature: 0.5,
		MaxTokens:   1500,
	}
}

// ParseAudience decodes the analysis, degrading to the mock portrait when the
// model returned something unusable.
func ParseAudience(raw, product string) content.AudienceAnalysis {
	var out content.AudienceAnalysis
	if err := json.Unmarshal([]byte(StripFences(raw)), &out); err != nil {
		return MockAudience(product)
	}
	if out.AgeRange == "" {
		out.AgeRange = "25-44"
	}
	return out
}
