package mqhandler

import (
	"context"
	"encoding/json"

	"go.uber.org/zap"

	"taskmanager/internal/effects"
	"taskmanager/internal/email"
)

// Deduper screens redelivered jobs. Satisfied by util.Deduper.
type Deduper interface {
	AcquireOnce(ctx context.Context, handler string, notificationID int) bool
}

// DeadLetterSink parks messages the handler cannot process.
type DeadLetterSink interface {
	PublishToDLQ(routingKey string, payload []byte, cause string) error
}

// EmailJobHandler consumes queued email jobs and sends them. MQ
// redeliveries are screened by the deduper so a notification is mailed
// at most once. A send failure after that is logged and dropped rather
// than retried here. Unparseable jobs are parked on the DLQ and acked —
// a nack would only make the broker redeliver the same poison message.
type EmailJobHandler struct {
	dispatcher email.Dispatcher
	deduper    Deduper
	dlq        DeadLetterSink
	logger     *zap.Logger
}

func NewEmailJobHandler(dispatcher email.Dispatcher, deduper Deduper, dlq DeadLetterSink, logger *zap.Logger) *EmailJobHandler {
	return &EmailJobHandler{
		dispatcher: dispatcher,
		deduper:    deduper,
		dlq:        dlq,
		logger:     logger,
	}
}

func (h *EmailJobHandler) Handle(ctx context.Context, raw json.RawMessage) error {
	var job effects.EmailJob
	if err := json.Unmarshal(raw, &job); err != nil {
		h.logger.Error("Unparseable email job, parking on DLQ", zap.Error(err))
		if h.dlq != nil {
			if dlqErr := h.dlq.PublishToDLQ(effects.RoutingKeyEmail, raw, err.Error()); dlqErr != nil {
				h.logger.Error("Failed to park email job on DLQ", zap.Error(dlqErr))
			}
		}
		return nil
	}

	if !h.deduper.AcquireOnce(ctx, "email", job.NotificationID) {
		return nil
	}

	if err := effects.Send(ctx, h.dispatcher, job); err != nil {
		h.logger.Error("Failed to send email",
			zap.String("template", job.Template),
			zap.Int("notification_id", job.NotificationID),
			zap.Error(err),
		)
	}
	return nil
}
