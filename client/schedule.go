package client

import (
	"context"

	"marketing_content_studio/content"
	"marketing_content_studio/scheduler"
)

// NewScheduleFlow builds the schedule submission flow over this client:
// validation and composition run locally, the submit step posts to the
// calendar endpoint. This is the production driver of the flow state machine.
func NewScheduleFlow(c *Client) *scheduler.Flow {
	return scheduler.NewFlow(func(ctx context.Context, post content.ScheduledPost) error {
		_, err := c.CreateScheduledPost(ctx, post)
		return err
	})
}
