package generator

import (
	"encoding/json"
	"fmt"
)

const hashtagsPromptTemplate = `Сгенерируй продающие хештеги для следующего текста.

Текст:
%s

Канал: %s

Верни JSON:
{
  "hashtags": ["#хештег1", "#хештег2"],
  "selling_hashtags": ["#продающий1", "#продающий2"]
}

Требования:
- Обычные хештеги: тематические, популярные, релевантные контенту
- Продающие хештеги: с призывом к действию, создающие срочность
- Всего %d хештегов (примерно поровну обоих типов)
- На русском языке
- Без пробелов внутри хештега`

func BuildHashtagsPrompt(text, channel string, count int) Prompt {
	return Prompt{
		System:      "Ты — SMM-специалист, эксперт по хештегам для российских соцсетей.",
		User:        fmt.Sprintf(hashtagsPromptTemplate, text, channel, count),
		Temperature: 0.7,
		MaxTokens:   500,
	}
}

// ParseHashtags decodes both hashtag groups; unparseable output yields empty
// slices, which the caller treats as a retryable state.
func ParseHashtags(raw string) (tags, selling []string) {
	var decoded struct {
		Hashtags        []string `json:"hashtags"`
		SellingHashtags []string `json:"selling_hashtags"`
	}
	if err := json.Unmarshal([]byte(StripFences(raw)), &decoded); err != nil {
		return nil, nil
	}
	return decoded.Hashtags, decoded.SellingHashtags
}
