package notify

import (
	"context"
	"time"

	"go.uber.org/zap"

	"taskmanager/internal/apperr"
	"taskmanager/internal/model"
	"taskmanager/internal/push"
	"taskmanager/pkg/metrics"
)

// DefaultListLimit caps notification listings when the caller does not
// pass an explicit limit.
const DefaultListLimit = 20

// PushEventName is the event connected clients listen for.
const PushEventName = "notification"

// Store is the persistence surface the fan-out service needs.
type Store interface {
	Create(ctx context.Context, n *model.Notification) error
	ListByUser(ctx context.Context, userID int, unreadOnly bool, limit int) ([]model.Notification, error)
	UnreadCount(ctx context.Context, userID int) (int, error)
	MarkRead(ctx context.Context, userID, id int) (bool, error)
	MarkAllRead(ctx context.Context, userID int) error
	Delete(ctx context.Context, userID, id int) (bool, error)
}

// Service owns notification fan-out: persist first, then publish on the
// recipient's push channel. Notification durability always wins over
// delivery — a dead push channel never rolls back the record.
type Service struct {
	store  Store
	pushCh push.Channel
	logger *zap.Logger
}

func NewService(store Store, pushCh push.Channel, logger *zap.Logger) *Service {
	return &Service{store: store, pushCh: pushCh, logger: logger}
}

// PushPayload is the wire shape of one real-time notification event.
type PushPayload struct {
	ID        int       `json:"id"`
	Type      string    `json:"type"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	TaskID    *int      `json:"taskId"`
	CreatedAt time.Time `json:"createdAt"`
}

// Create persists a notification and publishes it to the recipient.
func (s *Service) Create(ctx context.Context, userID int, notificationType, title, message string, taskID *int) (*model.Notification, error) {
	n := &model.Notification{
		UserID:  userID,
		TaskID:  taskID,
		Type:    notificationType,
		Title:   title,
		Message: message,
	}

	if err := s.store.Create(ctx, n); err != nil {
		return nil, err
	}
	metrics.NotificationsCreated.WithLabelValues(notificationType).Inc()

	payload := PushPayload{
		ID:        n.ID,
		Type:      n.Type,
		Title:     n.Title,
		Message:   n.Message,
		TaskID:    n.TaskID,
		CreatedAt: n.CreatedAt,
	}
	if err := s.pushCh.Publish(ctx, userID, PushEventName, payload); err != nil {
		// Delivery is best effort; the record is already durable.
		s.logger.Error("Push publish failed",
			zap.Int("user_id", userID),
			zap.Int("notification_id", n.ID),
			zap.Error(err),
		)
		metrics.PushPublished.WithLabelValues("failed").Inc()
	} else {
		metrics.PushPublished.WithLabelValues("ok").Inc()
	}

	return n, nil
}

// ListResult pairs a (possibly filtered/truncated) notification page with
// the user's full unread count.
type ListResult struct {
	Notifications []model.Notification `json:"notifications"`
	UnreadCount   int                  `json:"unreadCount"`
}

// List returns the user's notifications newest-first. UnreadCount always
// reflects the total unread notifications for the user, regardless of
// unreadOnly and limit.
func (s *Service) List(ctx context.Context, userID int, unreadOnly bool, limit int) (*ListResult, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}

	notifications, err := s.store.ListByUser(ctx, userID, unreadOnly, limit)
	if err != nil {
		return nil, err
	}

	unreadCount, err := s.store.UnreadCount(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &ListResult{Notifications: notifications, UnreadCount: unreadCount}, nil
}

// MarkRead flips is_read on one owned notification. Marking an already
// read notification again succeeds.
func (s *Service) MarkRead(ctx context.Context, userID, id int) error {
	ok, err := s.store.MarkRead(ctx, userID, id)
	if err != nil {
		return err
	}
	if !ok {
		return apperr.NotFound("notification")
	}
	return nil
}

func (s *Service) MarkAllRead(ctx context.Context, userID int) error {
	return s.store.MarkAllRead(ctx, userID)
}

func (s *Service) Delete(ctx context.Context, userID, id int) error {
	ok, err := s.store.Delete(ctx, userID, id)
	if err != nil {
		return err
	}
	if !ok {
		return apperr.NotFound("notification")
	}
	return nil
}
