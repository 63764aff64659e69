package email

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"taskmanager/internal/config"
)

func demoDispatcher() *SMTPDispatcher {
	return NewSMTPDispatcher(config.EmailConfig{
		DemoMode:  true,
		FromEmail: "noreply@example.com",
		FromName:  "Task Manager",
	}, zap.NewNop())
}

func TestDemoModeSendsNothing(t *testing.T) {
	ctx := context.Background()
	d := demoDispatcher()
	due := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)

	// No SMTP server is configured; demo mode must still succeed for
	// every template.
	require.NoError(t, d.SendAssigned(ctx, AssignedEmail{
		To:              "eli@example.com",
		ToName:          "Eli",
		TaskTitle:       "Prepare quarterly report",
		TaskDescription: "Collect the numbers",
		DueDate:         &due,
		Priority:        "high",
		AssignedByName:  "Ada",
	}))
	require.NoError(t, d.SendCompleted(ctx, CompletedEmail{
		To:           "ada@example.com",
		ToName:       "Ada",
		AssigneeName: "Eli",
		TaskTitle:    "Prepare quarterly report",
	}))
	require.NoError(t, d.SendUpdated(ctx, UpdatedEmail{
		To:        "eli@example.com",
		ToName:    "Eli",
		TaskTitle: "Prepare quarterly report",
		Changes:   "The task details have been updated.",
	}))
}

func TestRenderTemplates(t *testing.T) {
	due := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)

	t.Run("assigned", func(t *testing.T) {
		subject, err := render(assignedTemplate.Subject, AssignedEmail{TaskTitle: "Ship release", AssignedByName: "Ada"})
		require.NoError(t, err)
		assert.Equal(t, "Ada assigned you to Ship release", subject)

		body, err := render(assignedTemplate.TextBody, AssignedEmail{
			ToName:          "Eli",
			TaskTitle:       "Ship release",
			TaskDescription: "Tag and publish",
			DueDate:         &due,
			Priority:        "urgent",
			AssignedByName:  "Ada",
		})
		require.NoError(t, err)
		assert.Contains(t, body, "Ship release")
		assert.Contains(t, body, "April 1, 2026")
	})

	t.Run("assigned without due date omits the line", func(t *testing.T) {
		body, err := render(assignedTemplate.TextBody, AssignedEmail{ToName: "Eli", TaskTitle: "Ship release"})
		require.NoError(t, err)
		assert.NotContains(t, body, "Due Date")
	})

	t.Run("completed", func(t *testing.T) {
		subject, err := render(completedTemplate.Subject, CompletedEmail{TaskTitle: "Ship release"})
		require.NoError(t, err)
		assert.Equal(t, "Task Completed: Ship release", subject)

		body, err := render(completedTemplate.TextBody, CompletedEmail{ToName: "Ada", AssigneeName: "Eli", TaskTitle: "Ship release"})
		require.NoError(t, err)
		assert.Contains(t, body, "Eli completed the task")
	})

	t.Run("updated", func(t *testing.T) {
		body, err := render(updatedTemplate.TextBody, UpdatedEmail{ToName: "Eli", TaskTitle: "Ship release", Changes: "Priority raised."})
		require.NoError(t, err)
		assert.Contains(t, body, "Priority raised.")
	})
}

func TestBuildMIMEMessage(t *testing.T) {
	message := string(buildMIMEMessage("noreply@example.com", "Task Manager", "eli@example.com", "Hello", "plain body", "<p>html body</p>"))

	assert.True(t, strings.HasPrefix(message, "From: Task Manager <noreply@example.com>"))
	assert.Contains(t, message, "To: eli@example.com")
	assert.Contains(t, message, "Subject: Hello")
	assert.Contains(t, message, "Content-Type: multipart/alternative")
	assert.Contains(t, message, "plain body")
	assert.Contains(t, message, "<p>html body</p>")

	// Both parts and the terminator share one boundary.
	assert.Equal(t, 3, strings.Count(message, "\n--"))
	assert.Contains(t, message, "--\n")
}
