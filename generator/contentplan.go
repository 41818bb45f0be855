package generator

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"marketing_content_studio/content"
)

const contentPlanPromptTemplate = `Создай контент-план на %d дней для продукта: %s

Каналы: %s
Цель: %s

Верни JSON-массив:
[
  {
    "day": 1,
    "topic": "Тема поста",
    "channel": "Telegram",
    "headline": "Заголовок",
    "body": "Текст поста...",
    "cta": "Призыв к действию",
    "hashtags": ["#хештег"],
    "score": 8.0
  }
]

Требования:
- Каждый день один пост
- Чередуй каналы если их несколько
- Разнообразие тем: проблемы → решения → кейсы → новости → вовлечение
- Продающий тон, но не навязчивый
- Включай призывы к действию
- Оценка качества (score) от 1 до 10`

func BuildContentPlanPrompt(product string, days int, channels []string, goal content.Goal) Prompt {
	return Prompt{
		System:      "Ты — профессиональный SMM-стратег. Создаёшь продающие контент-планы.",
		User:        fmt.Sprintf(contentPlanPromptTemplate, days, product, strings.Join(channels, ", "), goal),
		Temperature: 0.7,
		MaxTokens:   6000,
	}
}

type rawPlanItem struct {
	Day     int    `json:"day"`
	Topic   string `json:"topic"`
	Channel string `json:"channel"`
	rawVariant
}

// ParseContentPlan decodes the plan, assigning dates from now forward and
// filling missing days/channels by rotation.
func ParseContentPlan(raw string, days int, channels []string, now time.Time) []content.ContentPlanItem {
	cleaned := StripFences(raw)

	var rows []rawPlanItem
	if err := json.Unmarshal([]byte(cleaned), &rows); err != nil {
		return MockContentPlan("", days, channels, now)
	}

	items := make([]content.ContentPlanItem, 0, days)
	for i, row := range rows {
		if len(items) == days {
			break
		}
		day := row.Day
		if day == 0 {
			day = i + 1
		}
		channel := row.Channel
		if !content.ValidChannel(channel) {
			channel = channels[i%len(channels)]
		}
		items = append(items, content.ContentPlanItem{
			Day:     day,
			Date:    now.AddDate(0, 0, day-1).Format("2006-01-02"),
			Topic:   row.Topic,
			Channel: channel,
			Draft:   row.toResult(),
		})
	}
	for len(items) < days {
		i := len(items)
		items = append(items, content.ContentPlanItem{
			Day:     i + 1,
			Date:    now.AddDate(0, 0, i).Format("2006-01-02"),
			Topic:   planTopics[i%len(planTopics)],
			Channel: channels[i%len(channels)],
			Draft:   content.ChannelResult{Body: "Черновик поста", Score: 5.0},
		})
	}
	return items
}
