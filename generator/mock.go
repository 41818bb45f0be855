package generator

import (
	"context"
	"fmt"
	"strings"
	"time"

	"marketing_content_studio/content"
)

// MockLLM returns canned JSON so the whole pipeline can run without network
// access. Useful in tests and when no provider key is configured.
type MockLLM struct{}

func (MockLLM) Complete(_ context.Context, prompt Prompt) (string, error) {
	// Echo a minimal valid shape for every known channel; ParseResults will
	// pick only the requested ones.
	var sb strings.Builder
	sb.WriteString("{")
	for i, ch := range content.Channels {
		if i > 0 {
			sb.WriteString(",")
		}
		fmt.Fprintf(&sb, `%q: [{"body": "Мок-текст для %s", "score": 7.0}]`, ch, ch)
	}
	sb.WriteString("}")
	return sb.String(), nil
}

// MockResults builds deterministic per-channel variants without any model
// call. Shapes mirror what each channel's real output looks like.
func MockResults(req content.GenerateRequest) map[string][]content.ChannelResult {
	out := make(map[string][]content.ChannelResult, len(req.Channels))
	for _, ch := range req.Channels {
		out[ch] = MockChannelResults(ch, req.NumVariants)
	}
	return out
}

func MockChannelResults(channel string, numVariants int) []content.ChannelResult {
	variants := make([]content.ChannelResult, 0, numVariants)
	for i := 0; i < numVariants; i++ {
		switch channel {
		case content.ChannelDirect:
			variants = append(variants, content.ChannelResult{
				Headline:     fmt.Sprintf("Скидка %d%%!", 20+i*10),
				Body:         fmt.Sprintf("Только сегодня. Вариант %d", i+1),
				CTA:          "Заказать",
				Score:        8.0 + float64(i)*0.5,
				Improvements: []string{"Добавьте дедлайн"},
			})
		case content.ChannelTelegram:
			variants = append(variants, content.ChannelResult{
				Body:         fmt.Sprintf("🔥 Вариант %d! Отличные новости!\n\nПодробности по ссылке 👇", i+1),
				Hashtags:     []string{"#акция", "#скидки"},
				CTA:          "Подробнее",
				Score:        8.5 + float64(i)*0.3,
				Improvements: []string{"Добавьте эмодзи"},
			})
		case content.ChannelEmail:
			variants = append(variants, content.ChannelResult{
				Headline:     fmt.Sprintf("Вариант %d: Эксклюзивное предложение", i+1),
				Body:         "Уважаемый клиент! Рады предложить вам...",
				CTA:          "Получить",
				Score:        7.5 + float64(i)*0.5,
				Improvements: []string{"Персонализируйте"},
			})
		case content.ChannelVK:
			variants = append(variants, content.ChannelResult{
				Body:         fmt.Sprintf("🎉 Вариант %d для подписчиков!\n\nПишите в комментариях! 👇", i+1),
				Hashtags:     []string{"#акция", "#длясвоих"},
				CTA:          "Участвовать",
				Score:        8.0 + float64(i)*0.4,
				Improvements: []string{"Добавьте вопрос"},
			})
		case content.ChannelZen:
			variants = append(variants, content.ChannelResult{
				Headline:     fmt.Sprintf("Вариант %d: Заголовок, который привлекает внимание", i+1),
				Body:         "Это длинный текст для Яндекс.Дзен. Здесь подробно рассказываем о преимуществах продукта.\n\nОсобенности:\n• Первое преимущество\n• Второе преимущество\n\nЗакажите прямо сейчас!",
				ImagePrompt:  fmt.Sprintf("Professional marketing image, product showcase, modern style, variant %d", i+1),
				Hashtags:     []string{"#продукт", "#преимущества"},
				CTA:          "Подробнее",
				Score:        8.5 + float64(i)*0.3,
				Improvements: []string{"Добавьте личную историю"},
			})
		default:
			variants = append(variants, content.ChannelResult{
				Body:  fmt.Sprintf("Вариант %d для %s", i+1, channel),
				Score: 7.0,
			})
		}
	}
	return variants
}

// MockSeries mirrors the series shape without a model call.
func MockSeries(topic, channel string, count int) []content.ChannelResult {
	posts := make([]content.ChannelResult, 0, count)
	for i := 0; i < count; i++ {
		cta := "Подробнее в следующем посте!"
		if i == count-1 {
			cta = "Подпишись!"
		}
		posts = append(posts, content.ChannelResult{
			Headline:     fmt.Sprintf("Пост %d: %s", i+1, truncate(topic, 30)),
			Body:         fmt.Sprintf("Содержание поста %d на тему «%s».", i+1, topic),
			CTA:          cta,
			Hashtags:     []string{"#контент", fmt.Sprintf("#часть%d", i+1)},
			Score:        8.0,
			Improvements: []string{"Добавьте больше деталей"},
		})
	}
	return posts
}

var planTopics = []string{
	"Знакомство с продуктом",
	"Проблемы клиентов",
	"Решение",
	"Кейс успеха",
	"Ответы на вопросы",
	"Новости компании",
	"Специальное предложение",
}

// MockContentPlan builds a rotating-channel plan starting today.
func MockContentPlan(product string, days int, channels []string, now time.Time) []content.ContentPlanItem {
	items := make([]content.ContentPlanItem, 0, days)
	for i := 0; i < days; i++ {
		topic := planTopics[i%len(planTopics)]
		items = append(items, content.ContentPlanItem{
			Day:     i + 1,
			Date:    now.AddDate(0, 0, i).Format("2006-01-02"),
			Topic:   topic,
			Channel: channels[i%len(channels)],
			Draft: content.ChannelResult{
				Headline: fmt.Sprintf("%s — %s", topic, truncate(product, 20)),
				Body:     fmt.Sprintf("Текст поста на тему: %s. Продукт: %s", topic, product),
				CTA:      "Узнать подробнее",
				Hashtags: []string{"#контент", "#маркетинг"},
				Score:    7.5,
			},
		})
	}
	return items
}

// MockAudience is the fixed analysis used when no provider is configured.
func MockAudience(product string) content.AudienceAnalysis {
	return content.AudienceAnalysis{
		AgeRange:           "25-44",
		Gender:             "смешанная",
		Interests:          []string{"покупки онлайн", "скидки и акции"},
		Pains:              []string{"нехватка времени", "страх переплатить"},
		Triggers:           []string{"ограниченное предложение", "социальное доказательство"},
		Channels:           []string{content.ChannelTelegram, content.ChannelVK},
		ContentPreferences: []string{"короткие посты", "видео-обзоры"},
	}
}

// MockHashtags derives tags from the longest words of the text.
func MockHashtags(text string, count int) (tags, selling []string) {
	half := count / 2
	if half < 1 {
		half = 1
	}
	for _, w := range strings.Fields(strings.ToLower(text)) {
		if len([]rune(w)) > 4 && len(tags) < half {
			tags = append(tags, "#"+strings.Trim(w, ".,!?"))
		}
	}
	if len(tags) == 0 {
		tags = []string{"#контент", "#маркетинг"}
	}
	selling = []string{"#купитьсейчас", "#акция", "#скидки", "#хитпродаж", "#успей"}
	if len(selling) > half {
		selling = selling[:half]
	}
	return tags, selling
}

// MockImprove applies a trivial local rewrite for each action.
func MockImprove(text string, action content.ImproveAction, targetTone string) string {
	switch action {
	case content.ImproveShorten:
		words := strings.Fields(text)
		if len(words) > 10 {
			return strings.Join(words[:len(words)/2], " ") + "..."
		}
		return text
	case content.ImproveEmoji:
		return "🔥 " + text + " ✨"
	case content.ImproveTone:
		if targetTone == "" {
			targetTone = "экспертный"
		}
		return fmt.Sprintf("[%s тон] %s", targetTone, text)
	case content.ImproveCTA:
		if !strings.Contains(text, "!") {
			return text + " Закажите сейчас!"
		}
		return text
	}
	return text
}
