package generator

import (
	"fmt"
	"strings"

	"marketing_content_studio/content"
)

const systemPrompt = `Ты — профессиональный SMM-специалист и маркетолог с 10-летним опытом. Создаёшь продающие тексты для российских маркетинговых каналов.

ПРИНЦИПЫ:
- Пиши на русском, естественно и живо
- Используй триггеры: срочность, эксклюзивность, страх упустить
- Всегда включай призыв к действию (CTA)
- Оценивай качество текста от 1 до 10
- Давай 1-2 рекомендации по улучшению
- Всегда добавляй продающие хештеги для Telegram, VK, Дзен

ФОРМАТЫ:

ЯНДЕКС.ДИРЕКТ: заголовок до 35 символов | текст до 81 символа. Лаконично, цифры, выгода.

TELEGRAM: до 800 символов, 2-4 эмодзи, живой стиль, в конце хештеги. Дружелюбно.

EMAIL: тема до 50 символов, текст до 500 символов. Вежливо, персонализированно.

VK: до 500 символов, эмодзи, вопросы к аудитории, хештеги. Разговорный стиль.

ДЗЕН: заголовок интригующий до 80 символов, текст-лонгрид 500-1500 символов, подзаголовки, промпт для изображения, хештеги.`

var formatInstructions = map[content.PostFormat]string{
	content.FormatShort:     "ФОРМАТ: Короткий пост до 200 слов. Лаконично, по делу, один ключевой месседж.",
	content.FormatLongread:  "ФОРМАТ: Лонгрид 500-1000 слов. Развёрнутый материал с подзаголовками, примерами, выводами.",
	content.FormatCaseStudy: "ФОРМАТ: Кейс. Структура: Проблема → Решение → Результат. Цифры, факты, доказательства.",
	content.FormatStory:     "ФОРМАТ: История. Завязка → Развитие → Кульминация → Финал. Эмоции, личный опыт.",
}

var goalInstructions = map[content.Goal]string{
	content.GoalSales:        "ЦЕЛЬ: Продажа. Фокус на выгоде, скидках, ограничении времени, CTA на покупку.",
	content.GoalAwareness:    "ЦЕЛЬ: Узнаваемость. Фокус на уникальности, эмоциях, истории бренда.",
	content.GoalEngagement:   "ЦЕЛЬ: Вовлечение. Фокус на вопросах, интерактиве, обсуждении.",
	content.GoalAnnouncement: "ЦЕЛЬ: Анонс. Фокус на что/где/когда, почему важно участвовать.",
}

var toneInstructions = map[content.Tone]string{
	content.ToneFormal:   "ТОН: Формальный, профессиональный.",
	content.ToneFriendly: "ТОН: Дружелюбный, тёплый.",
	content.ToneBold:     "ТОН: Дерзкий, смелый, с юмором.",
	content.ToneExpert:   "ТОН: Экспертный, авторитетный, с фактами.",
}

const defaultBrandVoice = "Профессиональный, но дружелюбный стиль."

// BuildGeneratePrompt composes the user message for a generation round.
// brandVoice may be empty; the default style note is substituted.
func BuildGeneratePrompt(req content.GenerateRequest, brandVoice string) Prompt {
	if brandVoice == "" {
		brandVoice = defaultBrandVoice
	}

	variantsHint := "вариант"
	if req.NumVariants > 1 {
		variantsHint = fmt.Sprintf("по %d варианта", req.NumVariants)
	}

	goal, ok := goalInstructions[req.Goal]
	if !ok {
		goal = goalInstructions[content.GoalSales]
	}
	tone, ok := toneInstructions[req.Tone]
	if !ok {
		tone = toneInstructions[content.ToneFriendly]
	}

	var sb strings.Builder
	sb.WriteString(goal)
	sb.WriteString("\n")
	sb.WriteString(tone)
	if req.Audience != "" {
		fmt.Fprintf(&sb, "\nЦА: %s", req.Audience)
	}
	if req.Offer != "" {
		fmt.Fprintf(&sb, "\nОффер: %s", req.Offer)
	}
	if req.Format != "" && req.Format != content.FormatShort {
		if instr, ok := formatInstructions[req.Format]; ok {
			sb.WriteString("\n")
			sb.WriteString(instr)
		}
	}

	fmt.Fprintf(&sb, "\n\nСтиль бренда: %s\n", brandVoice)
	fmt.Fprintf(&sb, "\nЗАДАЧА: Сгенерируй %s текста для каналов: %s\n", variantsHint, strings.Join(req.Channels, ", "))
	fmt.Fprintf(&sb, "\nПродукт/акция:\n%s\n", req.Description)

	sb.WriteString(`
ВЕРНИ JSON (только JSON, без markdown):
{
  "Директ": [
    {"headline": "...", "body": "...", "cta": "...", "score": 8.5, "improvements": ["..."]}
  ],
  "Telegram": [
    {"body": "...", "hashtags": ["#..."], "cta": "...", "score": 9.0, "improvements": ["..."]}
  ],
  "Email": [
    {"headline": "тема", "body": "...", "cta": "...", "score": 8.0, "improvements": ["..."]}
  ],
  "VK": [
    {"body": "...", "hashtags": ["#..."], "cta": "...", "score": 8.5, "improvements": ["..."]}
  ],
  "Дзен": [
    {"headline": "интригующий заголовок", "body": "лонгрид текст...", "image_prompt": "описание для картинки", "hashtags": ["#..."], "cta": "...", "score": 8.5, "improvements": ["..."]}
  ]
}
`)
	fmt.Fprintf(&sb, `
Важно:
- Верни только запрошенные каналы
- Для каждого канала ровно %d вариант(а) в массиве
- score от 1 до 10
- improvements — 1-2 рекомендации
- Варианты должны отличаться!
- Для Telegram, VK, Дзен обязательно добавь 3-5 продающих хештегов
- Для Дзен добавь image_prompt — описание для генерации картинки`, req.NumVariants)

	return Prompt{
		System:      systemPrompt,
		User:        sb.String(),
		Temperature: 0.8,
		MaxTokens:   4000,
	}
}

// BuildChannelPrompt narrows a generation prompt to a single channel for the
// streaming path, where channels complete one at a time.
func BuildChannelPrompt(req content.GenerateRequest, brandVoice, channel string) Prompt {
	p := BuildGeneratePrompt(req, brandVoice)
	p.User = fmt.Sprintf("%s\n\nСгенерируй текст ТОЛЬКО для канала: %s", p.User, channel)
	p.MaxTokens = 2000
	return p
}
