package generator

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

const yandexCompletionURL = "https://llm.api.cloud.yandex.net/foundationModels/v1/completion"

// YandexLLM implements LLMClient against the YandexGPT completion API.
type YandexLLM struct {
	APIKey string
	Client *http.Client
}

func NewYandexLLM(apiKey string) (*YandexLLM, error) {
	if apiKey == "" {
		return nil, errors.New("yandex api key missing")
	}
	return &YandexLLM{
		APIKey: apiKey,
		Client: &http.Client{Timeout: 90 * time.Second},
	}, nil
}

type yandexMessage struct {
	Role string `json:"role"`
	Text string `json:"text"`
}

type yandexPayload struct {
	ModelURI          string `json:"modelUri"`
	CompletionOptions struct {
		Stream      bool    `json:"stream"`
		Temperature float64 `json:"temperature"`
		MaxTokens   int     `json:"maxTokens"`
	} `json:"completionOptions"`
	Messages []yandexMessage `json:"messages"`
}

type yandexResponse struct {
	Result struct {
		Alternatives []struct {
			Message yandexMessage `json:"message"`
		} `json:"alternatives"`
	} `json:"result"`
}

func (y *YandexLLM) Complete(ctx context.Context, prompt Prompt) (string, error) {
	payload := yandexPayload{
		ModelURI: fmt.Sprintf("gpt://%s/yandexgpt/latest", y.APIKey),
		Messages: []yandexMessage{
			{Role: "system", Text: prompt.System},
			{Role: "user", Text: prompt.User},
		},
	}
	payload.CompletionOptions.Temperature = prompt.Temperature
	payload.CompletionOptions.MaxTokens = prompt.MaxTokens
	if payload.CompletionOptions.MaxTokens == 0 {
		payload.CompletionOptions.MaxTokens = 2000
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, yandexCompletionURL, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Api-Key "+y.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := y.Client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("yandex completion: status %d: %s", resp.StatusCode, truncate(string(raw), 200))
	}

	var parsed yandexResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return "", fmt.Errorf("yandex completion: decode: %w", err)
	}
	if len(parsed.Result.Alternatives) == 0 {
		return "", errors.New("yandex completion: empty alternatives")
	}
	return parsed.Result.Alternatives[0].Message.Text, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
