package generator

import (
	"context"
	"fmt"
	"strings"

	"marketing_content_studio/content"
)

var actionPrompts = map[content.ImproveAction]string{
	content.ImproveShorten: `Сократи текст, сохранив главный смысл и CTA.
Убери лишние слова, сделай текст лаконичнее.
Оставь только ключевые моменты.
Верни ТОЛЬКО сокращённый текст без объяснений.`,

	content.ImproveEmoji: `Добавь 2-4 подходящих эмодзи в текст.
Расставь эмодзи органично, не перегружай.
Эмодзи должны соответствовать контексту.
Верни ТОЛЬКО текст с эмодзи без объяснений.`,

	content.ImproveTone: `Измени тон текста на %s.
Перепиши текст, сохраняя смысл, но изменив стиль.
Верни ТОЛЬКО переписанный текст без объяснений.`,

	content.ImproveCTA: `Улучши призыв к действию (CTA) в тексте.
Сделай CTA более убедительным и конкретным.
Добавь срочность или выгоду, если уместно.
Верни ТОЛЬКО текст с улучшенным CTA без объяснений.`,
}

// ValidImproveAction reports whether the path parameter names a known action.
func ValidImproveAction(action string) bool {
	_, ok := actionPrompts[content.ImproveAction(action)]
	return ok
}

// Improve rewrites a single variant's body. Only the text comes back; the
// caller treats any previously computed score/improvements as stale.
func (a *Agent) Improve(ctx context.Context, text, channel string, action content.ImproveAction, targetTone string) (string, error) {
	if a.mock {
		return MockImprove(text, action, targetTone), nil
	}

	instr, ok := actionPrompts[action]
	if !ok {
		return "", fmt.Errorf("unknown improve action: %s", action)
	}
	if action == content.ImproveTone {
		tone := targetTone
		if tone == "" {
			tone = string(content.ToneExpert)
		}
		instr = fmt.Sprintf(instr, tone)
	}

	var sb strings.Builder
	sb.WriteString(instr)
	if constraint := content.ChannelConstraints[channel]; constraint != "" {
		fmt.Fprintf(&sb, "\n\nОграничения канала: %s", constraint)
	}
	fmt.Fprintf(&sb, "\n\nИсходный текст:\n%s", text)

	raw, err := a.llm.Complete(ctx, Prompt{
		System:      "Ты — профессиональный копирайтер. Улучшаешь маркетинговые тексты для российских каналов.",
		User:        sb.String(),
		Temperature: 0.7,
		MaxTokens:   1000,
	})
	if err != nil {
		return MockImprove(text, action, targetTone), nil
	}
	improved := strings.TrimSpace(raw)
	if improved == "" {
		return text, nil
	}
	return improved, nil
}
