package generator

import (
	"context"
	"errors"
	"time"

	"golang.org/x/sync/errgroup"

	"marketing_content_studio/content"
)

// BrandVoiceSource resolves the stored style guideline for a channel, falling
// back to the "general" entry. Implemented by the store; nil means defaults.
type BrandVoiceSource interface {
	BrandVoiceFor(ctx context.Context, channel string) (string, error)
}

// Agent orchestrates prompt building, model calls, and postprocessing for
// every generation-shaped operation.
type Agent struct {
	llm    LLMClient
	voices BrandVoiceSource
	mock   bool
}

// NewAgent wires the model client. llm may be nil only in mock mode.
func NewAgent(llm LLMClient, voices BrandVoiceSource, mock bool) (*Agent, error) {
	if llm == nil && !mock {
		return nil, errors.New("llm client is required")
	}
	return &Agent{llm: llm, voices: voices, mock: mock}, nil
}

func (a *Agent) brandVoice(ctx context.Context, channel string) string {
	if a.voices == nil {
		return ""
	}
	voice, err := a.voices.BrandVoiceFor(ctx, channel)
	if err != nil {
		return ""
	}
	return voice
}

// Generate produces variants for every requested channel in one model round
// trip. Model failures degrade to mock output so the caller always has
// something renderable; the UI marks zero-score rows as retryable.
func (a *Agent) Generate(ctx context.Context, req content.GenerateRequest) (map[string][]content.ChannelResult, error) {
	if a.mock {
		return MockResults(req), nil
	}

	prompt := BuildGeneratePrompt(req, a.brandVoice(ctx, ""))
	raw, err := a.llm.Complete(ctx, prompt)
	if err != nil {
		return MockResults(req), nil
	}
	return ParseResults(raw, req.Channels, req.NumVariants), nil
}

// ChannelEvent is one completed channel from the concurrent generation path.
type ChannelEvent struct {
	Channel  string                  `json:"channel"`
	Variants []content.ChannelResult `json:"variants"`
}

// GenerateStream runs one model call per channel concurrently and emits each
// channel's variants as soon as it completes. The returned channel is closed
// when all channels are done or ctx is cancelled.
func (a *Agent) GenerateStream(ctx context.Context, req content.GenerateRequest) <-chan ChannelEvent {
	events := make(chan ChannelEvent, len(req.Channels))

	go func() {
		defer close(events)
		g, ctx := errgroup.WithContext(ctx)
		for _, ch := range req.Channels {
			ch := ch
			g.Go(func() error {
				variants := a.generateChannel(ctx, req, ch)
				select {
				case events <- ChannelEvent{Channel: ch, Variants: variants}:
				case <-ctx.Done():
					return ctx.Err()
				}
				return nil
			})
		}
		_ = g.Wait()
	}()

	return events
}

func (a *Agent) generateChannel(ctx context.Context, req content.GenerateRequest, channel string) []content.ChannelResult {
	if a.mock {
		return MockChannelResults(channel, req.NumVariants)
	}
	prompt := BuildChannelPrompt(req, a.brandVoice(ctx, channel), channel)
	raw, err := a.llm.Complete(ctx, prompt)
	if err != nil {
		return []content.ChannelResult{{
			Body:  "Ошибка: " + truncate(err.Error(), 50),
			Score: 0,
		}}
	}
	return ParseChannelResults(raw, channel, req.NumVariants)
}

// Series generates count linked posts on one topic for one channel.
func (a *Agent) Series(ctx context.Context, topic, channel string, count int, goal content.Goal, tone content.Tone) ([]content.ChannelResult, error) {
	if a.mock {
		return MockSeries(topic, channel, count), nil
	}
	raw, err := a.llm.Complete(ctx, BuildSeriesPrompt(topic, channel, count, goal, tone))
	if err != nil {
		return MockSeries(topic, channel, count), nil
	}
	return ParseSeries(raw, count), nil
}

// ContentPlan generates a multi-day cross-channel plan anchored at now.
func (a *Agent) ContentPlan(ctx context.Context, product string, days int, channels []string, goal content.Goal, now time.Time) ([]content.ContentPlanItem, error) {
	if a.mock {
		return MockContentPlan(product, days, channels, now), nil
	}
	raw, err := a.llm.Complete(ctx, BuildContentPlanPrompt(product, days, channels, goal))
	if err != nil {
		return MockContentPlan(product, days, channels, now), nil
	}
	return ParseContentPlan(raw, days, channels, now), nil
}

// Audience analyzes the likely target audience of a product.
func (a *Agent) Audience(ctx context.Context, product, description string) (content.AudienceAnalysis, error) {
	if a.mock {
		return MockAudience(product), nil
	}
	raw, err := a.llm.Complete(ctx, BuildAudiencePrompt(product, description))
	if err != nil {
		return MockAudience(product), nil
	}
	return ParseAudience(raw, product), nil
}

// Hashtags generates regular and selling hashtags for a text.
func (a *Agent) Hashtags(ctx context.Context, text, channel string, count int) (tags, selling []string, err error) {
	if a.mock {
		tags, selling = MockHashtags(text, count)
		return tags, selling, nil
	}
	raw, err := a.llm.Complete(ctx, BuildHashtagsPrompt(text, channel, count))
	if err != nil {
		tags, selling = MockHashtags(text, count)
		return tags, selling, nil
	}
	tags, selling = ParseHashtags(raw)
	return tags, selling, nil
}
