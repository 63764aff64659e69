package workflow

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"taskmanager/internal/model"
)

func TestAllowedFields(t *testing.T) {
	tests := []struct {
		name    string
		role    string
		isOwner bool
		want    []string
	}{
		{
			name: "admin gets every field",
			role: model.RoleAdmin,
			want: []string{FieldTitle, FieldDescription, FieldAssignedTo, FieldPriority, FieldDueDate, FieldStatus},
		},
		{
			name:    "owning employee gets status only",
			role:    model.RoleEmployee,
			isOwner: true,
			want:    []string{FieldStatus},
		},
		{
			name: "non-owning employee gets nothing",
			role: model.RoleEmployee,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			allowed := AllowedFields(tt.role, tt.isOwner)
			assert.Len(t, allowed, len(tt.want))
			for _, field := range tt.want {
				assert.True(t, allowed[field], "expected %s to be allowed", field)
			}
		})
	}
}
