package workflow

import "taskmanager/internal/model"

// Mutable task fields, as named in update requests.
const (
	FieldTitle       = "title"
	FieldDescription = "description"
	FieldAssignedTo  = "assignedTo"
	FieldPriority    = "priority"
	FieldDueDate     = "dueDate"
	FieldStatus      = "status"
)

// AllowedFields is the authorization policy for task updates: admins may
// change anything, the assigned employee may change status only, anyone
// else gets nothing. Fields outside the returned set are silently
// ignored, not rejected.
func AllowedFields(role string, isOwner bool) map[string]bool {
	if role == model.RoleAdmin {
		return map[string]bool{
			FieldTitle:       true,
			FieldDescription: true,
			FieldAssignedTo:  true,
			FieldPriority:    true,
			FieldDueDate:     true,
			FieldStatus:      true,
		}
	}
	if isOwner {
		return map[string]bool{FieldStatus: true}
	}
	return map[string]bool{}
}
