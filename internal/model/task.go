package model

import "time"

const (
	StatusPending    = "pending"
	StatusInProgress = "in-progress"
	StatusCompleted  = "completed"
	StatusCancelled  = "cancelled"
)

const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
	PriorityUrgent = "urgent"
)

func ValidStatus(s string) bool {
	switch s {
	case StatusPending, StatusInProgress, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

func ValidPriority(p string) bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent:
		return true
	}
	return false
}

// UserRef is the embedded view of a user on a task response.
type UserRef struct {
	ID         int    `json:"id"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	EmployeeID string `json:"employeeId,omitempty"`
}

// Task is the unit of work. CompletedAt is non-nil exactly when Status
// is completed; the workflow and a database CHECK both hold that line.
type Task struct {
	ID           int        `json:"id"`
	Title        string     `json:"title"`
	Description  string     `json:"description"`
	Status       string     `json:"status"`
	Priority     string     `json:"priority"`
	DueDate      *time.Time `json:"dueDate"`
	AssignedToID *int       `json:"assignedToId"`
	CreatedByID  int        `json:"createdById"`
	CompletedAt  *time.Time `json:"completedAt"`
	Tags         []string   `json:"tags"`
	Attachments  []string   `json:"attachments"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`

	AssignedTo *UserRef `json:"assignedTo,omitempty"`
	CreatedBy  *UserRef `json:"createdBy,omitempty"`
}
