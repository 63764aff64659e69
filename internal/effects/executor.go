package effects

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"taskmanager/internal/email"
)

// DirectExecutor sends each email in-process through a Dispatcher. Used
// when no message broker is configured, and in tests.
type DirectExecutor struct {
	dispatcher email.Dispatcher
	logger     *zap.Logger
}

func NewDirectExecutor(dispatcher email.Dispatcher, logger *zap.Logger) *DirectExecutor {
	return &DirectExecutor{dispatcher: dispatcher, logger: logger}
}

func (e *DirectExecutor) Dispatch(ctx context.Context, jobs []EmailJob) {
	for _, job := range jobs {
		if err := Send(ctx, e.dispatcher, job); err != nil {
			e.logger.Error("Email dispatch failed",
				zap.String("template", job.Template),
				zap.Int("notification_id", job.NotificationID),
				zap.Error(err),
			)
		}
	}
}

// Send routes one job to the matching Dispatcher method.
func Send(ctx context.Context, d email.Dispatcher, job EmailJob) error {
	switch {
	case job.Assigned != nil:
		return d.SendAssigned(ctx, *job.Assigned)
	case job.Completed != nil:
		return d.SendCompleted(ctx, *job.Completed)
	case job.Updated != nil:
		return d.SendUpdated(ctx, *job.Updated)
	}
	return fmt.Errorf("email job %d has no payload", job.NotificationID)
}
