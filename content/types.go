package content

import "time"

// ChannelResult is one generated content variant for one channel. Every
// downstream feature (preview, export, scheduling, history) consumes this
// shape unchanged; only Body may be rewritten by an improve action.
type ChannelResult struct {
	Headline     string   `json:"headline,omitempty"`
	Body         string   `json:"body"`
	CTA          string   `json:"cta,omitempty"`
	Hashtags     []string `json:"hashtags,omitempty"`
	ImagePrompt  string   `json:"image_prompt,omitempty"`
	ImageURL     string   `json:"image_url,omitempty"`
	Score        float64  `json:"score"`
	Improvements []string `json:"improvements,omitempty"`
}

// ExportItem pairs a result with the channel it was generated for. Built
// immediately before an export action and discarded after.
type ExportItem struct {
	Channel string        `json:"channel"`
	Result  ChannelResult `json:"result"`
}

type Goal string

const (
	GoalSales        Goal = "продажа"
	GoalAwareness    Goal = "узнаваемость"
	GoalEngagement   Goal = "вовлечение"
	GoalAnnouncement Goal = "анонс"
)

type Tone string

const (
	ToneFormal   Tone = "формальный"
	ToneFriendly Tone = "дружелюбный"
	ToneBold     Tone = "дерзкий"
	ToneExpert   Tone = "экспертный"
)

type PostFormat string

const (
	FormatShort     PostFormat = "short"
	FormatLongread  PostFormat = "longread"
	FormatCaseStudy PostFormat = "case_study"
	FormatStory     PostFormat = "story"
)

// GenerateRequest is the payload of POST /generate and /generate/stream.
type GenerateRequest struct {
	Description string     `json:"description"`
	Channels    []string   `json:"channels"`
	NumVariants int        `json:"num_variants"`
	Goal        Goal       `json:"goal"`
	Tone        Tone       `json:"tone,omitempty"`
	Audience    string     `json:"audience,omitempty"`
	Offer       string     `json:"offer,omitempty"`
	Format      PostFormat `json:"format,omitempty"`
}

// Generation is one stored generation round: the request plus all variants.
type Generation struct {
	ID          int64                      `json:"id"`
	Description string                     `json:"description"`
	Channels    []string                   `json:"channels"`
	Variants    map[string][]ChannelResult `json:"variants"`
	NumVariants int                        `json:"num_variants"`
	IsSaved     bool                       `json:"is_saved"`
	CreatedAt   time.Time                  `json:"created_at"`
}

type PostStatus string

const (
	StatusDraft     PostStatus = "draft"
	StatusScheduled PostStatus = "scheduled"
	StatusPublished PostStatus = "published"
	StatusCancelled PostStatus = "cancelled"
)

// ScheduledPost is a calendar entry. Status transitions are owned by the
// scheduler; clients only create and delete.
type ScheduledPost struct {
	ID            int64         `json:"id"`
	GenerationID  int64         `json:"generation_id,omitempty"`
	Channel       string        `json:"channel"`
	Content       ChannelResult `json:"content"`
	ScheduledDate time.Time     `json:"scheduled_date"`
	Timezone      string        `json:"timezone"`
	Status        PostStatus    `json:"status"`
	CreatedAt     time.Time     `json:"created_at"`
}

// BrandVoice is a stored per-channel stylistic guideline.
type BrandVoice struct {
	ID        int64     `json:"id"`
	Channel   string    `json:"channel"`
	Content   string    `json:"content"`
	Examples  []string  `json:"examples,omitempty"`
	UpdatedAt time.Time `json:"updated_at"`
}

// BrandVoiceExample is a raw text sample used for style inference.
type BrandVoiceExample struct {
	ID           int64     `json:"id"`
	Channel      string    `json:"channel"`
	OriginalText string    `json:"original_text"`
	CreatedAt    time.Time `json:"created_at"`
}

// ContentPlanItem is one day of a bulk multi-channel plan.
type ContentPlanItem struct {
	Day     int           `json:"day"`
	Date    string        `json:"date"`
	Topic   string        `json:"topic"`
	Channel string        `json:"channel"`
	Draft   ChannelResult `json:"draft"`
}

// AudienceAnalysis is the structured output of POST /audience/analyze.
type AudienceAnalysis struct {
	AgeRange           string   `json:"age_range"`
	Gender             string   `json:"gender"`
	Interests          []string `json:"interests"`
	Pains              []string `json:"pains"`
	Triggers           []string `json:"triggers"`
	Channels           []string `json:"channels"`
	ContentPreferences []string `json:"content_preferences"`
}

type ImproveAction string

const (
	ImproveShorten ImproveAction = "shorten"
	ImproveEmoji   ImproveAction = "emoji"
	ImproveTone    ImproveAction = "tone"
	ImproveCTA     ImproveAction = "cta"
)

// ImageSettings configures the image generation backend.
type ImageSettings struct {
	ID        int64     `json:"id"`
	APIKey    string    `json:"api_key,omitempty"`
	Model     string    `json:"model"`
	Enabled   bool      `json:"enabled"`
	UpdatedAt time.Time `json:"updated_at"`
}
