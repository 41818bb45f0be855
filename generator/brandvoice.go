package generator

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
)

const analyzePromptTemplate = `Проанализируй следующие примеры текстов и создай детальный гайдлайн по стилю бренда.

Примеры текстов:
%s

Верни JSON со следующей структурой (только JSON, без markdown):
{
  "tone": "описание тона коммуникации",
  "vocabulary": ["типичные слова и фразы"],
  "sentence_structure": "особенности построения предложений",
  "emoji_usage": "как используются эмодзи",
  "cta_style": "типичный стиль призывов к действию",
  "length_preference": "предпочтительная длина текстов",
  "key_phrases": ["ключевые фразы бренда"],
  "avoid": ["чего следует избегать"],
  "summary": "краткое резюме стиля в 2-3 предложениях"
}`

// StyleGuideline is the structured result of brand voice inference.
type StyleGuideline struct {
	Tone              string   `json:"tone"`
	Vocabulary        []string `json:"vocabulary"`
	SentenceStructure string   `json:"sentence_structure"`
	EmojiUsage        string   `json:"emoji_usage"`
	CTAStyle          string   `json:"cta_style"`
	LengthPreference  string   `json:"length_preference"`
	KeyPhrases        []string `json:"key_phrases"`
	Avoid             []string `json:"avoid"`
	Summary           string   `json:"summary"`
}

// AnalyzeBrandVoice infers a style guideline from raw text examples. The
// rendered guideline text is what gets stored as the channel's brand voice.
func (a *Agent) AnalyzeBrandVoice(ctx context.Context, examples []string) (string, error) {
	if len(examples) == 0 {
		return "", fmt.Errorf("at least one example is required")
	}
	if a.mock {
		return "Тон: дружелюбный. Короткие предложения, умеренные эмодзи, прямые CTA.", nil
	}

	var sb strings.Builder
	for i, ex := range examples {
		if i > 0 {
			sb.WriteString("\n\n---\n\n")
		}
		fmt.Fprintf(&sb, "Пример %d:\n%s", i+1, ex)
	}

	raw, err := a.llm.Complete(ctx, Prompt{
		System:      "Ты — эксперт по бренд-коммуникациям. Анализируешь стиль текстов и создаёшь гайдлайны.",
		User:        fmt.Sprintf(analyzePromptTemplate, sb.String()),
		Temperature: 0.3,
		MaxTokens:   2000,
	})
	if err != nil {
		return "", err
	}

	cleaned := StripFences(raw)
	var g StyleGuideline
	if err := json.Unmarshal([]byte(cleaned), &g); err != nil {
		// Non-JSON output is still a usable freeform guideline.
		return cleaned, nil
	}
	return g.Render(), nil
}

// Render flattens the guideline into the prompt-ready text form.
func (g StyleGuideline) Render() string {
	var sb strings.Builder
	write := func(label, value string) {
		if value != "" {
			fmt.Fprintf(&sb, "%s: %s\n", label, value)
		}
	}
	write("Тон", g.Tone)
	if len(g.Vocabulary) > 0 {
		write("Лексика", strings.Join(g.Vocabulary, ", "))
	}
	write("Структура предложений", g.SentenceStructure)
	write("Эмодзи", g.EmojiUsage)
	write("Стиль CTA", g.CTAStyle)
	write("Длина", g.LengthPreference)
	if len(g.KeyPhrases) > 0 {
		write("Ключевые фразы", strings.Join(g.KeyPhrases, ", "))
	}
	if len(g.Avoid) > 0 {
		write("Избегать", strings.Join(g.Avoid, ", "))
	}
	write("Резюме", g.Summary)
	return strings.TrimSpace(sb.String())
}
