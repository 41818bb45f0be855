package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakePosts struct {
	n   int64
	err error
	got int
}

func (f *fakePosts) PublishDuePosts(ctx context.Context, now time.Time) (int64, error) {
	f.got++
	return f.n, f.err
}

func TestSweepCallsStore(t *testing.T) {
	posts := &fakePosts{n: 2}
	p := NewPublisher(posts, zap.NewNop())

	p.sweep()
	assert.Equal(t, 1, posts.got)

	posts.err = errors.New("db down")
	p.sweep()
	assert.Equal(t, 2, posts.got)
}

func TestPublisherStartStop(t *testing.T) {
	p := NewPublisher(&fakePosts{}, zap.NewNop())
	require.NoError(t, p.Start())
	p.Stop()
}
