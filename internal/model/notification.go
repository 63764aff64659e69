package model

import "time"

// Notification types emitted by the task lifecycle workflow.
const (
	NotificationTaskAssigned  = "task_assigned"
	NotificationTaskCompleted = "task_completed"
	NotificationTaskUpdated   = "task_updated"
)

type Notification struct {
	ID        int       `json:"id"`
	UserID    int       `json:"userId"`
	TaskID    *int      `json:"taskId"`
	Type      string    `json:"type"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	IsRead    bool      `json:"isRead"`
	CreatedAt time.Time `json:"createdAt"`
}
