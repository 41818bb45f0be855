package scheduler

import (
	"context"
	"errors"
	"sync"
	"time"

	"marketing_content_studio/content"
)

// FlowState tracks where a scheduling submission is.
type FlowState int

const (
	StateIdle FlowState = iota
	StateValidating
	StateSubmitting
	StateSuccess
	StateFailed
)

func (s FlowState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateValidating:
		return "validating"
	case StateSubmitting:
		return "submitting"
	case StateSuccess:
		return "success"
	case StateFailed:
		return "failed"
	}
	return "unknown"
}

// ErrInFlight is returned while a previous submission is still running.
var ErrInFlight = errors.New("submission already in progress")

// SubmitFunc persists a composed post. The API client backs it with
// CreateScheduledPost against the calendar endpoint.
type SubmitFunc func(ctx context.Context, post content.ScheduledPost) error

// Flow serializes scheduling submissions: one in flight at a time, success
// shown briefly before returning to idle, failures held until the next
// attempt.
type Flow struct {
	submit       SubmitFunc
	successDelay time.Duration
	now          func() time.Time

	mu    sync.Mutex
	state FlowState
	err   error
	timer *time.Timer
}

// ScheduleInput is what the user picked before pressing submit.
type ScheduleInput struct {
	Channel  string
	Result   content.ChannelResult
	Date     string
	Clock    string
	Timezone string
}

func NewFlow(submit SubmitFunc) *Flow {
	return &Flow{
		submit:       submit,
		successDelay: 1500 * time.Millisecond,
		now:          time.Now,
	}
}

// State returns the current state and, in StateFailed, the last error.
func (f *Flow) State() (FlowState, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state, f.err
}

// Submit validates the input, composes the instant, and runs the submitter.
// An empty date returns ErrNoDate without entering the failed state; any
// other failure is held in StateFailed and returned.
func (f *Flow) Submit(ctx context.Context, in ScheduleInput) error {
	f.mu.Lock()
	if f.state == StateValidating || f.state == StateSubmitting {
		f.mu.Unlock()
		return ErrInFlight
	}
	if f.timer != nil {
		f.timer.Stop()
		f.timer = nil
	}
	f.state = StateValidating
	f.err = nil
	f.mu.Unlock()

	if in.Date == "" {
		f.setState(StateIdle, nil)
		return ErrNoDate
	}
	if err := ValidateDate(in.Date, in.Timezone, f.now()); err != nil {
		f.setState(StateFailed, err)
		return err
	}
	when, err := ComposeInstant(in.Date, in.Clock, in.Timezone)
	if err != nil {
		f.setState(StateFailed, err)
		return err
	}
	if err := in.Result.Validate(); err != nil {
		f.setState(StateFailed, err)
		return err
	}

	f.setState(StateSubmitting, nil)
	post := content.ScheduledPost{
		Channel:       in.Channel,
		Content:       in.Result,
		ScheduledDate: when,
		Timezone:      in.Timezone,
		Status:        content.StatusScheduled,
	}
	if err := f.submit(ctx, post); err != nil {
		f.setState(StateFailed, err)
		return err
	}

	f.mu.Lock()
	f.state = StateSuccess
	f.timer = time.AfterFunc(f.successDelay, func() {
		f.setState(StateIdle, nil)
	})
	f.mu.Unlock()
	return nil
}

func (f *Flow) setState(s FlowState, err error) {
	f.mu.Lock()
	f.state = s
	f.err = err
	f.mu.Unlock()
}
