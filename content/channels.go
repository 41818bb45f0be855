package content

import (
	"errors"
	"fmt"
	"unicode/utf8"
)

const (
	ChannelDirect   = "Директ"
	ChannelTelegram = "Telegram"
	ChannelEmail    = "Email"
	ChannelVK       = "VK"
	ChannelZen      = "Дзен"
)

// Channels lists the supported distribution surfaces in display order.
var Channels = []string{ChannelDirect, ChannelTelegram, ChannelEmail, ChannelVK, ChannelZen}

// ChannelConstraints describe per-channel content limits. They are fed into
// prompts verbatim and shown in the UI.
var ChannelConstraints = map[string]string{
	ChannelDirect:   "Длина заголовка до 35 символов, текст до 81 символа.",
	ChannelTelegram: "Длина до 800 символов, можно использовать эмодзи.",
	ChannelEmail:    "Тема до 50 символов, текст до 500 символов.",
	ChannelVK:       "Длина до 500 символов, можно использовать эмодзи.",
	ChannelZen:      "Лонгрид 500-1500 символов, подзаголовки, хештеги.",
}

func ValidChannel(name string) bool {
	_, ok := ChannelConstraints[name]
	return ok
}

var (
	ErrEmptyBody   = errors.New("result body is empty")
	ErrNoChannels  = errors.New("at least one channel is required")
	ErrBadVariants = errors.New("num_variants must be between 1 and 3")
)

// Validate gates export and schedule actions: a result without a body is
// never exported or scheduled. Optional fields degrade by omission.
func (r ChannelResult) Validate() error {
	if r.Body == "" {
		return ErrEmptyBody
	}
	return nil
}

// ClampScore forces Score into [0,10]. Scores pass through from the model
// otherwise untouched.
func (r *ChannelResult) ClampScore() {
	if r.Score < 0 {
		r.Score = 0
	}
	if r.Score > 10 {
		r.Score = 10
	}
}

// Validate checks the request the same way the API boundary does.
func (g GenerateRequest) Validate() error {
	if n := utf8.RuneCountInString(g.Description); n < 10 || n > 1000 {
		return fmt.Errorf("description length must be 10..1000, got %d", n)
	}
	if len(g.Channels) == 0 {
		return ErrNoChannels
	}
	for _, ch := range g.Channels {
		if !ValidChannel(ch) {
			return fmt.Errorf("invalid channel: %s", ch)
		}
	}
	if g.NumVariants < 1 || g.NumVariants > 3 {
		return ErrBadVariants
	}
	return nil
}

// Normalize fills request defaults before validation.
func (g *GenerateRequest) Normalize() {
	if g.Goal == "" {
		g.Goal = GoalSales
	}
	if g.Tone == "" {
		g.Tone = ToneFriendly
	}
	if g.Format == "" {
		g.Format = FormatShort
	}
	if g.NumVariants == 0 {
		g.NumVariants = 1
	}
}
