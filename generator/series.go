package generator

import (
	"encoding/json"
	"fmt"

	"marketing_content_studio/content"
)

const seriesPromptTemplate = `Создай серию из %d постов на тему: %s

Канал: %s
Цель: %s
Тон: %s

Верни JSON-массив:
[
  {
    "headline": "Заголовок поста",
    "body": "Текст поста...",
    "cta": "Призыв к действию",
    "hashtags": ["#хештег1", "#хештег2"],
    "score": 8.5,
    "improvements": ["рекомендация"]
  }
]

Требования:
- Каждый пост должен быть уникальным, но связанным общей темой
- Создавай последовательную историю/нарратив
- Каждый пост должен иметь свой уникальный угол/аспект темы
- Включай продающие хештеги
- Оценка качества (score) от 1 до 10`

func BuildSeriesPrompt(topic, channel string, count int, goal content.Goal, tone content.Tone) Prompt {
	return Prompt{
		System:      "Ты — профессиональный контент-маркетолог. Создаёшь серии вовлекающих постов.",
		User:        fmt.Sprintf(seriesPromptTemplate, count, topic, channel, goal, tone),
		Temperature: 0.8,
		MaxTokens:   4000,
	}
}

// ParseSeries decodes a JSON array of posts, padding or truncating to count.
func ParseSeries(raw string, count int) []content.ChannelResult {
	cleaned := StripFences(raw)

	var items []json.RawMessage
	if err := json.Unmarshal([]byte(cleaned), &items); err != nil {
		items = []json.RawMessage{json.RawMessage(cleaned)}
	}

	posts := make([]content.ChannelResult, 0, count)
	for _, item := range items {
		if len(posts) == count {
			break
		}
		var s string
		if err := json.Unmarshal(item, &s); err == nil {
			posts = append(posts, content.ChannelResult{Body: s, Score: 7.0})
			continue
		}
		var v rawVariant
		if err := json.Unmarshal(item, &v); err == nil {
			posts = append(posts, v.toResult())
		}
	}
	for len(posts) < count {
		posts = append(posts, content.ChannelResult{
			Body:  fmt.Sprintf("Пост %d", len(posts)+1),
			Score: 5.0,
		})
	}
	return posts
}
