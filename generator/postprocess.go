package generator

import (
	"encoding/json"
	"fmt"
	"strings"

	"marketing_content_studio/content"
)

// StripFences removes a leading/trailing markdown code fence from model
// output. Models frequently wrap JSON despite being told not to.
func StripFences(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```json") {
		s = s[7:]
	} else if strings.HasPrefix(s, "```") {
		s = s[3:]
	}
	if strings.HasSuffix(s, "```") {
		s = s[:len(s)-3]
	}
	return strings.TrimSpace(s)
}

// rawVariant tolerates the shapes models actually produce: "text" instead of
// "body", string scores coerced by json.Number is not needed since models emit
// numbers, missing fields.
type rawVariant struct {
	Headline     string   `json:"headline"`
	Body         string   `json:"body"`
	Text         string   `json:"text"`
	CTA          string   `json:"cta"`
	Hashtags     []string `json:"hashtags"`
	ImagePrompt  string   `json:"image_prompt"`
	Score        *float64 `json:"score"`
	Improvements []string `json:"improvements"`
}

func (v rawVariant) toResult() content.ChannelResult {
	body := v.Body
	if body == "" {
		body = v.Text
	}
	// Default only when the key is absent; an explicit 0 stands.
	score := 7.0
	if v.Score != nil {
		score = *v.Score
	}
	r := content.ChannelResult{
		Headline:     v.Headline,
		Body:         body,
		CTA:          v.CTA,
		Hashtags:     v.Hashtags,
		ImagePrompt:  v.ImagePrompt,
		Score:        score,
		Improvements: v.Improvements,
	}
	r.ClampScore()
	return r
}

// decodeVariants accepts a JSON array, a single object, or a bare string.
func decodeVariants(raw json.RawMessage, numVariants int) []content.ChannelResult {
	var out []content.ChannelResult

	var asList []json.RawMessage
	if err := json.Unmarshal(raw, &asList); err != nil {
		asList = []json.RawMessage{raw}
	}

	for _, item := range asList {
		if len(out) == numVariants {
			break
		}
		var s string
		if err := json.Unmarshal(item, &s); err == nil {
			out = append(out, content.ChannelResult{Body: s, Score: 7.0})
			continue
		}
		var v rawVariant
		if err := json.Unmarshal(item, &v); err == nil {
			out = append(out, v.toResult())
		}
	}

	for len(out) < numVariants {
		out = append(out, content.ChannelResult{
			Body:         fmt.Sprintf("Вариант %d", len(out)+1),
			Score:        5.0,
			Improvements: []string{"Дополнительный вариант"},
		})
	}
	return out
}

// ParseResults turns raw model output into per-channel variants. It never
// fails outright: unparseable output degrades to zero-score placeholder rows
// so the caller can surface a retryable state instead of an error page.
func ParseResults(raw string, channels []string, numVariants int) map[string][]content.ChannelResult {
	cleaned := StripFences(raw)

	var decoded map[string]json.RawMessage
	if err := json.Unmarshal([]byte(cleaned), &decoded); err != nil {
		out := make(map[string][]content.ChannelResult, len(channels))
		for _, ch := range channels {
			rows := make([]content.ChannelResult, numVariants)
			for i := range rows {
				rows[i] = content.ChannelResult{
					Body:         "Ошибка парсинга. Попробуйте ещё раз.",
					Score:        0,
					Improvements: []string{"Ошибка: " + truncate(err.Error(), 50)},
				}
			}
			out[ch] = rows
		}
		return out
	}

	out := make(map[string][]content.ChannelResult, len(channels))
	for _, ch := range channels {
		data, ok := matchChannelKey(decoded, ch)
		if !ok {
			rows := make([]content.ChannelResult, numVariants)
			for i := range rows {
				rows[i] = content.ChannelResult{
					Body:         fmt.Sprintf("Не удалось сгенерировать текст для %s", ch),
					Score:        0,
					Improvements: []string{"Попробуйте перегенерировать"},
				}
			}
			out[ch] = rows
			continue
		}
		out[ch] = decodeVariants(data, numVariants)
	}
	return out
}

// ParseChannelResults handles the single-channel streaming shape, where the
// model may return either a bare array or a {channel: [...]} wrapper.
func ParseChannelResults(raw string, channel string, numVariants int) []content.ChannelResult {
	cleaned := StripFences(raw)

	var wrapper map[string]json.RawMessage
	if err := json.Unmarshal([]byte(cleaned), &wrapper); err == nil {
		if data, ok := matchChannelKey(wrapper, channel); ok {
			return decodeVariants(data, numVariants)
		}
	}
	return decodeVariants(json.RawMessage(cleaned), numVariants)
}

// matchChannelKey finds the response key for a channel, tolerating case and
// partial-name mismatches ("телеграм" vs "Telegram" style drift).
func matchChannelKey(decoded map[string]json.RawMessage, channel string) (json.RawMessage, bool) {
	lower := strings.ToLower(channel)
	for key, data := range decoded {
		k := strings.ToLower(key)
		if strings.Contains(k, lower) || strings.Contains(lower, k) {
			return data, true
		}
	}
	return nil, false
}
