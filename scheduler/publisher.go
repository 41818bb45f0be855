package scheduler

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// DuePublisher flips overdue scheduled posts to published.
type DuePublisher interface {
	PublishDuePosts(ctx context.Context, now time.Time) (int64, error)
}

// Publisher runs the due-post sweep once a minute.
type Publisher struct {
	posts DuePublisher
	log   *zap.Logger
	cron  *cron.Cron
}

func NewPublisher(posts DuePublisher, log *zap.Logger) *Publisher {
	return &Publisher{posts: posts, log: log, cron: cron.New()}
}

// Start registers the sweep and launches the cron loop.
func (p *Publisher) Start() error {
	_, err := p.cron.AddFunc("* * * * *", p.sweep)
	if err != nil {
		return err
	}
	p.cron.Start()
	return nil
}

// Stop halts scheduling and waits for a running sweep to finish.
func (p *Publisher) Stop() {
	<-p.cron.Stop().Done()
}

func (p *Publisher) sweep() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	n, err := p.posts.PublishDuePosts(ctx, time.Now())
	if err != nil {
		p.log.Error("publish due posts", zap.Error(err))
		return
	}
	if n > 0 {
		p.log.Info("published due posts", zap.Int64("count", n))
	}
}
