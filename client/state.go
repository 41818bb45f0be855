package client

import (
	"errors"
	"sync"

	"marketing_content_studio/content"
)

const (
	draftKey       = "generator_draft"
	draftVersion   = 1
	onboardingKey  = "onboarding_done"
	onboardVersion = 1
)

// GeneratorState is the form state plus the last results, persisted on every
// change so a restart restores the working draft.
type GeneratorState struct {
	Description string                             `json:"description"`
	Channels    []string                           `json:"channels"`
	NumVariants int                                `json:"num_variants"`
	Goal        content.Goal                       `json:"goal"`
	Tone        content.Tone                       `json:"tone"`
	Audience    string                             `json:"audience"`
	Offer       string                             `json:"offer"`
	Format      content.PostFormat                 `json:"format"`
	Results     map[string][]content.ChannelResult `json:"results,omitempty"`
}

// DefaultGeneratorState mirrors a fresh form.
func DefaultGeneratorState() GeneratorState {
	return GeneratorState{
		Channels:    []string{content.ChannelTelegram},
		NumVariants: 1,
		Goal:        content.GoalSales,
		Tone:        content.ToneFriendly,
		Format:      content.FormatShort,
	}
}

// LoadDraft restores the saved draft, falling back to defaults when nothing
// usable is stored.
func LoadDraft(store *LocalStore) GeneratorState {
	state := DefaultGeneratorState()
	if !store.Get(draftKey, draftVersion, &state) {
		return DefaultGeneratorState()
	}
	if state.NumVariants < 1 || state.NumVariants > 3 {
		state.NumVariants = 1
	}
	if len(state.Channels) == 0 {
		state.Channels = []string{content.ChannelTelegram}
	}
	return state
}

func SaveDraft(store *LocalStore, state GeneratorState) error {
	return store.Set(draftKey, draftVersion, state)
}

func ClearDraft(store *LocalStore) error {
	return store.Delete(draftKey)
}

// OnboardingDone reports whether the intro has been dismissed.
func OnboardingDone(store *LocalStore) bool {
	var done bool
	return store.Get(onboardingKey, onboardVersion, &done) && done
}

func SetOnboardingDone(store *LocalStore) error {
	return store.Set(onboardingKey, onboardVersion, true)
}

// ResetOnboarding clears only the onboarding flag; the draft survives.
func ResetOnboarding(store *LocalStore) error {
	return store.Delete(onboardingKey)
}

// ErrImproveBusy rejects a second improve on a variant that already has one
// running.
var ErrImproveBusy = errors.New("improve already running for this variant")

// ImproveGuard serializes improve calls per variant slot.
type ImproveGuard struct {
	mu   sync.Mutex
	busy map[string]bool
}

func NewImproveGuard() *ImproveGuard {
	return &ImproveGuard{busy: make(map[string]bool)}
}

// Acquire marks the slot busy, or fails if it already is. The returned
// release func must be called when the improve finishes.
func (g *ImproveGuard) Acquire(slot string) (func(), error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.busy[slot] {
		return nil, ErrImproveBusy
	}
	g.busy[slot] = true
	return func() {
		g.mu.Lock()
		delete(g.busy, slot)
		g.mu.Unlock()
	}, nil
}

// Busy reports whether a slot has an improve in flight.
func (g *ImproveGuard) Busy(slot string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.busy[slot]
}
