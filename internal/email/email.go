package email

import (
	"context"
	"time"
)

// Template names, also used as routing metadata by the async dispatcher.
const (
	TemplateAssigned  = "task_assigned"
	TemplateCompleted = "task_completed"
	TemplateUpdated   = "task_updated"
)

// AssignedEmail is sent to the assignee when a task is created for them.
type AssignedEmail struct {
	To              string     `json:"to"`
	ToName          string     `json:"toName"`
	TaskTitle       string     `json:"taskTitle"`
	TaskDescription string     `json:"taskDescription"`
	DueDate         *time.Time `json:"dueDate"`
	Priority        string     `json:"priority"`
	AssignedByName  string     `json:"assignedByName"`
}

// CompletedEmail is sent to the task's creator when the assignee
// completes it.
type CompletedEmail struct {
	To           string `json:"to"`
	ToName       string `json:"toName"`
	AssigneeName string `json:"assigneeName"`
	TaskTitle    string `json:"taskTitle"`
}

// UpdatedEmail is sent to the assignee when an admin edits the task.
type UpdatedEmail struct {
	To        string `json:"to"`
	ToName    string `json:"toName"`
	TaskTitle string `json:"taskTitle"`
	Changes   string `json:"changes"`
}

// Dispatcher formats and sends task lifecycle emails. Implementations
// return an error for logging only; callers never propagate it into the
// originating mutation.
type Dispatcher interface {
	SendAssigned(ctx context.Context, m AssignedEmail) error
	SendCompleted(ctx context.Context, m CompletedEmail) error
	SendUpdated(ctx context.Context, m UpdatedEmail) error
}
