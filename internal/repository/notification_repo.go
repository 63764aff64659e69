package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"taskmanager/internal/model"
	"taskmanager/pkg/metrics"
)

type NotificationRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewNotificationRepository(db *pgxpool.Pool, logger *zap.Logger) *NotificationRepository {
	return &NotificationRepository{db: db, logger: logger}
}

func (r *NotificationRepository) Create(ctx context.Context, n *model.Notification) error {
	start := time.Now()
	query := `
        INSERT INTO notifications (user_id, task_id, type, title, message)
        VALUES ($1, $2, $3, $4, $5)
        RETURNING id, is_read, created_at
    `
	err := r.db.QueryRow(ctx, query,
		n.UserID,
		n.TaskID,
		n.Type,
		n.Title,
		n.Message,
	).Scan(&n.ID, &n.IsRead, &n.CreatedAt)
	metrics.RecordDBQueryDuration("insert", "notifications", time.Since(start))
	if err != nil {
		r.logger.Error("Failed to insert notification",
			zap.Error(err),
			zap.Int("user_id", n.UserID),
			zap.String("type", n.Type),
		)
		return err
	}
	r.logger.Info("Notification inserted",
		zap.Int("notification_id", n.ID),
		zap.Int("user_id", n.UserID),
		zap.String("type", n.Type),
	)
	return nil
}

func (r *NotificationRepository) ListByUser(ctx context.Context, userID int, unreadOnly bool, limit int) ([]model.Notification, error) {
	query := `
        SELECT id, user_id, task_id, type, title, message, is_read, created_at
        FROM notifications
        WHERE user_id = $1 AND ($2 = false OR is_read = false)
        ORDER BY created_at DESC
        LIMIT $3
    `
	rows, err := r.db.Query(ctx, query, userID, unreadOnly, limit)
	if err != nil {
		r.logger.Error("Failed to query notifications", zap.Error(err), zap.Int("user_id", userID))
		return nil, err
	}
	defer rows.Close()

	notifications := []model.Notification{}
	for rows.Next() {
		var n model.Notification
		if err := rows.Scan(
			&n.ID, &n.UserID, &n.TaskID, &n.Type, &n.Title,
			&n.Message, &n.IsRead, &n.CreatedAt,
		); err != nil {
			return nil, err
		}
		notifications = append(notifications, n)
	}
	return notifications, rows.Err()
}

func (r *NotificationRepository) UnreadCount(ctx context.Context, userID int) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM notifications WHERE user_id = $1 AND is_read = false`
	if err := r.db.QueryRow(ctx, query, userID).Scan(&count); err != nil {
		r.logger.Error("Failed to count unread notifications", zap.Error(err), zap.Int("user_id", userID))
		return 0, err
	}
	return count, nil
}

// MarkRead flips is_read for one owned notification. Returns false when
// the notification does not exist or belongs to another user.
func (r *NotificationRepository) MarkRead(ctx context.Context, userID, id int) (bool, error) {
	query := `UPDATE notifications SET is_read = true WHERE id = $1 AND user_id = $2`
	result, err := r.db.Exec(ctx, query, id, userID)
	if err != nil {
		r.logger.Error("Failed to mark notification read", zap.Error(err), zap.Int("notification_id", id))
		return false, err
	}
	return result.RowsAffected() > 0, nil
}

func (r *NotificationRepository) MarkAllRead(ctx context.Context, userID int) error {
	query := `UPDATE notifications SET is_read = true WHERE user_id = $1 AND is_read = false`
	if _, err := r.db.Exec(ctx, query, userID); err != nil {
		r.logger.Error("Failed to mark all notifications read", zap.Error(err), zap.Int("user_id", userID))
		return err
	}
	return nil
}

// Delete removes one owned notification. Returns false when nothing
// matched the (id, owner) pair.
func (r *NotificationRepository) Delete(ctx context.Context, userID, id int) (bool, error) {
	query := `DELETE FROM notifications WHERE id = $1 AND user_id = $2`
	result, err := r.db.Exec(ctx, query, id, userID)
	if err != nil {
		r.logger.Error("Failed to delete notification", zap.Error(err), zap.Int("notification_id", id))
		return false, err
	}
	return result.RowsAffected() > 0, nil
}
