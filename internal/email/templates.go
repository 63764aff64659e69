package email

// Subject and body templates, rendered with text/template. Each template
// has an HTML and a plain-text part so the message carries a
// multipart/alternative body.

type emailTemplate struct {
	Subject  string
	HTMLBody string
	TextBody string
}

var assignedTemplate = emailTemplate{
	Subject: `{{.AssignedByName}} assigned you to {{.TaskTitle}}`,
	HTMLBody: `<html>
<body style="font-family: sans-serif; color: #1f2937;">
  <h2>New Task Assigned</h2>
  <p>Hello {{.ToName}},</p>
  <p>{{.AssignedByName}} has assigned you a new task:</p>
  <table cellpadding="4">
    <tr><td><b>Title</b></td><td>{{.TaskTitle}}</td></tr>
    <tr><td><b>Description</b></td><td>{{.TaskDescription}}</td></tr>
    <tr><td><b>Priority</b></td><td>{{.Priority}}</td></tr>
    {{if .DueDate}}<tr><td><b>Due Date</b></td><td>{{.DueDate.Format "January 2, 2006"}}</td></tr>{{end}}
  </table>
  <p>Please log in to the task manager to view the details.</p>
</body>
</html>`,
	TextBody: `Hello {{.ToName}},

{{.AssignedByName}} has assigned you a new task:

  Title:       {{.TaskTitle}}
  Description: {{.TaskDescription}}
  Priority:    {{.Priority}}
{{if .DueDate}}  Due Date:    {{.DueDate.Format "January 2, 2006"}}
{{end}}
Please log in to the task manager to view the details.`,
}

var completedTemplate = emailTemplate{
	Subject: `Task Completed: {{.TaskTitle}}`,
	HTMLBody: `<html>
<body style="font-family: sans-serif; color: #1f2937;">
  <h2>Task Completed</h2>
  <p>Hello {{.ToName}},</p>
  <p>{{.AssigneeName}} completed the task <b>{{.TaskTitle}}</b>.</p>
</body>
</html>`,
	TextBody: `Hello {{.ToName}},

{{.AssigneeName}} completed the task "{{.TaskTitle}}".`,
}

var updatedTemplate = emailTemplate{
	Subject: `Task Updated: {{.TaskTitle}}`,
	HTMLBody: `<html>
<body style="font-family: sans-serif; color: #1f2937;">
  <h2>Task Updated</h2>
  <p>Hello {{.ToName}},</p>
  <p>Your task <b>{{.TaskTitle}}</b> has been updated.</p>
  <p>{{.Changes}}</p>
  <p>Please log in to the task manager to view the updated details.</p>
</body>
</html>`,
	TextBody: `Hello {{.ToName}},

Your task "{{.TaskTitle}}" has been updated.
{{.Changes}}

Please log in to the task manager to view the updated details.`,
}
