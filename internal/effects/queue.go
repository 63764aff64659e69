package effects

import (
	"context"

	"go.uber.org/zap"
)

// EmailPublisher is the slice of the MQ publisher the queue executor
// needs.
type EmailPublisher interface {
	Publish(routingKey string, payload any) error
}

// QueueExecutor hands email jobs to RabbitMQ; the email worker consumes
// them. Publish failure is logged and dropped — the notification record
// is already durable and the mutation must not fail over a side effect.
type QueueExecutor struct {
	publisher EmailPublisher
	logger    *zap.Logger
}

func NewQueueExecutor(publisher EmailPublisher, logger *zap.Logger) *QueueExecutor {
	return &QueueExecutor{publisher: publisher, logger: logger}
}

func (e *QueueExecutor) Dispatch(ctx context.Context, jobs []EmailJob) {
	for _, job := range jobs {
		if err := e.publisher.Publish(RoutingKeyEmail, job); err != nil {
			e.logger.Error("Failed to enqueue email job",
				zap.String("template", job.Template),
				zap.Int("notification_id", job.NotificationID),
				zap.Error(err),
			)
		}
	}
}
