package client

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"marketing_content_studio/content"
)

func TestDraftRoundTrip(t *testing.T) {
	store := newTestStore(t)

	state := DefaultGeneratorState()
	state.Description = "Кофейня у метро"
	state.Channels = []string{content.ChannelVK, content.ChannelZen}
	state.NumVariants = 3
	require.NoError(t, SaveDraft(store, state))

	got := LoadDraft(store)
	assert.Equal(t, state, got)
}

func TestLoadDraftCorruptFileFallsBackToDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	store, err := OpenLocalStore(path)
	require.NoError(t, err)

	got := LoadDraft(store)
	assert.Equal(t, DefaultGeneratorState(), got)
}

func TestLoadDraftVersionMismatchFallsBack(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, store.Set(draftKey, 99, GeneratorState{Description: "старый формат"}))

	got := LoadDraft(store)
	assert.Equal(t, DefaultGeneratorState(), got)
}

func TestLoadDraftSanitizesBadValues(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, store.Set(draftKey, draftVersion, GeneratorState{
		Description: "ок",
		NumVariants: 7,
	}))

	got := LoadDraft(store)
	assert.Equal(t, 1, got.NumVariants)
	assert.Equal(t, []string{content.ChannelTelegram}, got.Channels)
	assert.Equal(t, "ок", got.Description)
}

func TestOnboardingResetKeepsDraft(t *testing.T) {
	store := newTestStore(t)

	state := DefaultGeneratorState()
	state.Description = "не потеряй меня"
	require.NoError(t, SaveDraft(store, state))
	require.NoError(t, SetOnboardingDone(store))
	require.True(t, OnboardingDone(store))

	require.NoError(t, ResetOnboarding(store))

	assert.False(t, OnboardingDone(store))
	assert.Equal(t, "не потеряй меня", LoadDraft(store).Description)
}

func TestImproveGuardMutualExclusion(t *testing.T) {
	g := NewImproveGuard()

	release, err := g.Acquire("Telegram/0")
	require.NoError(t, err)
	assert.True(t, g.Busy("Telegram/0"))

	// Same slot is blocked, a different slot is not.
	_, err = g.Acquire("Telegram/0")
	assert.ErrorIs(t, err, ErrImproveBusy)

	other, err := g.Acquire("Telegram/1")
	require.NoError(t, err)
	other()

	release()
	assert.False(t, g.Busy("Telegram/0"))

	_, err = g.Acquire("Telegram/0")
	assert.NoError(t, err)
}
