package effects

import (
	"context"

	"taskmanager/internal/email"
)

// RoutingKeyEmail is the MQ routing key for queued email jobs.
const RoutingKeyEmail = "notification.email"

// EmailJob is one pending email side effect. Exactly one of the payload
// fields is set, matching Template. NotificationID ties the job to the
// persisted notification so delivery can be deduplicated.
type EmailJob struct {
	NotificationID int                   `json:"notificationId"`
	Template       string                `json:"template"`
	Assigned       *email.AssignedEmail  `json:"assigned,omitempty"`
	Completed      *email.CompletedEmail `json:"completed,omitempty"`
	Updated        *email.UpdatedEmail   `json:"updated,omitempty"`
}

// Executor dispatches the post-commit side-effect list of a task
// mutation. Implementations log failures and never report them back:
// by the time an executor runs, the mutation is already committed.
type Executor interface {
	Dispatch(ctx context.Context, jobs []EmailJob)
}
