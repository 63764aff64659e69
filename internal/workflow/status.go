package workflow

import (
	"time"

	"taskmanager/internal/model"
)

// ApplyStatus sets the task's status and re-establishes the completedAt
// invariant (completedAt is non-nil iff status is completed) in one
// place. It reports whether this call transitioned the task into
// completed; setting completed on an already completed task is a no-op
// for the timestamp and reports false.
func ApplyStatus(t *model.Task, newStatus string, now time.Time) bool {
	t.Status = newStatus

	if newStatus == model.StatusCompleted {
		if t.CompletedAt == nil {
			ts := now
			t.CompletedAt = &ts
			return true
		}
		return false
	}

	t.CompletedAt = nil
	return false
}
