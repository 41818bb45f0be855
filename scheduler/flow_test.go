package scheduler

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"marketing_content_studio/content"
)

func validInput() ScheduleInput {
	return ScheduleInput{
		Channel:  content.ChannelTelegram,
		Result:   content.ChannelResult{Body: "текст поста", Score: 8},
		Date:     "2100-01-15",
		Timezone: "Europe/Moscow",
	}
}

func TestFlowSuccessResetsToIdle(t *testing.T) {
	f := NewFlow(func(ctx context.Context, post content.ScheduledPost) error {
		return nil
	})
	f.successDelay = 10 * time.Millisecond

	require.NoError(t, f.Submit(context.Background(), validInput()))

	state, err := f.State()
	assert.Equal(t, StateSuccess, state)
	assert.NoError(t, err)

	assert.Eventually(t, func() bool {
		state, _ := f.State()
		return state == StateIdle
	}, time.Second, 5*time.Millisecond)
}

func TestFlowEmptyDateBlocksSilently(t *testing.T) {
	called := false
	f := NewFlow(func(ctx context.Context, post content.ScheduledPost) error {
		called = true
		return nil
	})

	in := validInput()
	in.Date = ""
	err := f.Submit(context.Background(), in)
	assert.ErrorIs(t, err, ErrNoDate)
	assert.False(t, called)

	// No error display: the flow is back at idle, not failed.
	state, stateErr := f.State()
	assert.Equal(t, StateIdle, state)
	assert.NoError(t, stateErr)
}

func TestFlowFailureHeldUntilNextAttempt(t *testing.T) {
	boom := errors.New("db down")
	fail := true
	f := NewFlow(func(ctx context.Context, post content.ScheduledPost) error {
		if fail {
			return boom
		}
		return nil
	})
	f.successDelay = time.Millisecond

	err := f.Submit(context.Background(), validInput())
	assert.ErrorIs(t, err, boom)

	state, stateErr := f.State()
	assert.Equal(t, StateFailed, state)
	assert.ErrorIs(t, stateErr, boom)

	// The next attempt clears the held error.
	fail = false
	require.NoError(t, f.Submit(context.Background(), validInput()))
	state, stateErr = f.State()
	assert.Equal(t, StateSuccess, state)
	assert.NoError(t, stateErr)
}

func TestFlowSingleInFlight(t *testing.T) {
	release := make(chan struct{})
	var calls atomic.Int32
	f := NewFlow(func(ctx context.Context, post content.ScheduledPost) error {
		calls.Add(1)
		<-release
		return nil
	})
	f.successDelay = time.Millisecond

	done := make(chan error, 1)
	go func() { done <- f.Submit(context.Background(), validInput()) }()

	assert.Eventually(t, func() bool {
		state, _ := f.State()
		return state == StateSubmitting
	}, time.Second, time.Millisecond)

	// A second submit while the first runs is rejected outright.
	err := f.Submit(context.Background(), validInput())
	assert.ErrorIs(t, err, ErrInFlight)

	close(release)
	require.NoError(t, <-done)
	assert.Equal(t, int32(1), calls.Load())
}

func TestFlowRejectsEmptyBody(t *testing.T) {
	f := NewFlow(func(ctx context.Context, post content.ScheduledPost) error {
		t.Fatal("submit should not run")
		return nil
	})

	in := validInput()
	in.Result.Body = ""
	err := f.Submit(context.Background(), in)
	assert.ErrorIs(t, err, content.ErrEmptyBody)
}

func TestFlowPastDateFails(t *testing.T) {
	f := NewFlow(func(ctx context.Context, post content.ScheduledPost) error {
		return nil
	})

	in := validInput()
	in.Date = "2020-01-01"
	err := f.Submit(context.Background(), in)
	assert.ErrorIs(t, err, ErrPastDate)

	state, _ := f.State()
	assert.Equal(t, StateFailed, state)
}
