package workflow

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"taskmanager/internal/apperr"
	"taskmanager/internal/effects"
	"taskmanager/internal/email"
	"taskmanager/internal/model"
	"taskmanager/internal/repository"
)

// TaskStore is the persistence surface the workflow mutates.
type TaskStore interface {
	Create(ctx context.Context, t *model.Task) error
	GetByID(ctx context.Context, id int) (*model.Task, error)
	Update(ctx context.Context, t *model.Task) error
	Delete(ctx context.Context, id int) (bool, error)
	List(ctx context.Context, filter repository.TaskFilter) ([]model.Task, error)
	CountByStatus(ctx context.Context, assignedToID *int) (*repository.StatusCounts, error)
	CountByEmployee(ctx context.Context) ([]repository.EmployeeStat, error)
}

// UserDirectory resolves assignees and creators.
type UserDirectory interface {
	FindByID(ctx context.Context, id int) (*model.User, error)
}

// Notifier persists a notification and pushes it to its recipient.
type Notifier interface {
	Create(ctx context.Context, userID int, notificationType, title, message string, taskID *int) (*model.Notification, error)
}

// Service is the task lifecycle workflow: it authorizes and validates
// task mutations, keeps the completedAt invariant, and fans each
// mutation out into notification, push and email side effects.
type Service struct {
	tasks    TaskStore
	users    UserDirectory
	notifier Notifier
	executor effects.Executor
	logger   *zap.Logger
}

func NewService(tasks TaskStore, users UserDirectory, notifier Notifier, executor effects.Executor, logger *zap.Logger) *Service {
	return &Service{
		tasks:    tasks,
		users:    users,
		notifier: notifier,
		executor: executor,
		logger:   logger,
	}
}

type CreateTaskInput struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	AssignedTo  int      `json:"assignedTo"`
	Priority    string   `json:"priority"`
	DueDate     string   `json:"dueDate"`
	Tags        []string `json:"tags"`
	Attachments []string `json:"attachments"`
}

// CreateTask persists a new pending task and notifies the assignee.
// Admin only. Validation reports every violated field, not just the
// first one.
func (s *Service) CreateTask(ctx context.Context, requester *model.User, input CreateTaskInput) (*model.Task, error) {
	if !requester.IsAdmin() {
		return nil, apperr.Forbidden("only admins can create tasks")
	}

	var v apperr.Validator
	if input.Title == "" {
		v.Fail(FieldTitle, "title is required")
	}
	if input.Description == "" {
		v.Fail(FieldDescription, "description is required")
	}

	var assignee *model.User
	if input.AssignedTo == 0 {
		v.Fail(FieldAssignedTo, "assignedTo is required")
	} else {
		u, err := s.users.FindByID(ctx, input.AssignedTo)
		if err != nil {
			return nil, err
		}
		if u == nil || !u.IsActive {
			v.Fail(FieldAssignedTo, "assignedTo must reference an active user")
		} else {
			assignee = u
		}
	}

	if !model.ValidPriority(input.Priority) {
		v.Fail(FieldPriority, "priority must be one of low, medium, high, urgent")
	}

	dueDate, err := parseDate(input.DueDate)
	if err != nil {
		v.Fail(FieldDueDate, "dueDate must be a valid date")
	}

	if err := v.Err(); err != nil {
		return nil, err
	}

	task := &model.Task{
		Title:        input.Title,
		Description:  input.Description,
		Status:       model.StatusPending,
		Priority:     input.Priority,
		DueDate:      dueDate,
		AssignedToID: &assignee.ID,
		CreatedByID:  requester.ID,
		Tags:         input.Tags,
		Attachments:  input.Attachments,
	}

	if err := s.tasks.Create(ctx, task); err != nil {
		return nil, err
	}

	created, err := s.tasks.GetByID(ctx, task.ID)
	if err != nil || created == nil {
		// The row is committed; fall back to the unresolved view.
		created = task
	}

	s.fanOut(ctx, s.assignedEffect(ctx, created, assignee, requester))

	return created, nil
}

type UpdateTaskInput struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	AssignedTo  *int    `json:"assignedTo"`
	Priority    *string `json:"priority"`
	DueDate     *string `json:"dueDate"`
	Status      *string `json:"status"`
}

// UpdateTask applies a role-masked mutation and emits at most one of the
// task_completed / task_updated side effects. Fields outside the
// requester's allowed set are dropped silently.
func (s *Service) UpdateTask(ctx context.Context, requester *model.User, taskID int, input UpdateTaskInput) (*model.Task, error) {
	task, err := s.tasks.GetByID(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if task == nil {
		return nil, apperr.NotFound("task")
	}

	isOwner := task.AssignedToID != nil && *task.AssignedToID == requester.ID
	if !requester.IsAdmin() && !isOwner {
		return nil, apperr.Forbidden("task is assigned to someone else")
	}

	allowed := AllowedFields(requester.Role, isOwner)

	var v apperr.Validator
	changed := false

	if input.Title != nil && allowed[FieldTitle] {
		if *input.Title == "" {
			v.Fail(FieldTitle, "title must not be empty")
		} else if *input.Title != task.Title {
			task.Title = *input.Title
			changed = true
		}
	}
	if input.Description != nil && allowed[FieldDescription] {
		if *input.Description == "" {
			v.Fail(FieldDescription, "description must not be empty")
		} else if *input.Description != task.Description {
			task.Description = *input.Description
			changed = true
		}
	}
	if input.AssignedTo != nil && allowed[FieldAssignedTo] {
		u, err := s.users.FindByID(ctx, *input.AssignedTo)
		if err != nil {
			return nil, err
		}
		if u == nil || !u.IsActive {
			v.Fail(FieldAssignedTo, "assignedTo must reference an active user")
		} else if task.AssignedToID == nil || *task.AssignedToID != u.ID {
			task.AssignedToID = &u.ID
			changed = true
		}
	}
	if input.Priority != nil && allowed[FieldPriority] {
		if !model.ValidPriority(*input.Priority) {
			v.Fail(FieldPriority, "priority must be one of low, medium, high, urgent")
		} else if *input.Priority != task.Priority {
			task.Priority = *input.Priority
			changed = true
		}
	}
	if input.DueDate != nil && allowed[FieldDueDate] {
		d, err := parseDate(*input.DueDate)
		if err != nil {
			v.Fail(FieldDueDate, "dueDate must be a valid date")
		} else if !equalTime(task.DueDate, d) {
			task.DueDate = d
			changed = true
		}
	}

	completedNow := false
	if input.Status != nil && allowed[FieldStatus] {
		if !model.ValidStatus(*input.Status) {
			v.Fail(FieldStatus, "status must be one of pending, in-progress, completed, cancelled")
		} else {
			if *input.Status != task.Status {
				changed = true
			}
			completedNow = ApplyStatus(task, *input.Status, time.Now())
		}
	}

	if err := v.Err(); err != nil {
		return nil, err
	}

	if err := s.tasks.Update(ctx, task); err != nil {
		return nil, err
	}

	updated, err := s.tasks.GetByID(ctx, taskID)
	if err != nil || updated == nil {
		updated = task
	}

	// Side effects are mutually exclusive: a completion beats an update,
	// and an employee mutation that does not complete the task stays
	// silent. A repeated completed -> completed call emits nothing.
	if completedNow {
		s.fanOut(ctx, s.completedEffect(ctx, updated, requester))
	} else if requester.IsAdmin() && changed {
		s.fanOut(ctx, s.updatedEffect(ctx, updated))
	}

	return updated, nil
}

// DeleteTask removes the task and, via cascade, its notifications.
func (s *Service) DeleteTask(ctx context.Context, requester *model.User, taskID int) error {
	if !requester.IsAdmin() {
		return apperr.Forbidden("only admins can delete tasks")
	}

	deleted, err := s.tasks.Delete(ctx, taskID)
	if err != nil {
		return err
	}
	if !deleted {
		return apperr.NotFound("task")
	}
	return nil
}

// GetTask returns one task; employees can only read their own.
func (s *Service) GetTask(ctx context.Context, requester *model.User, taskID int) (*model.Task, error) {
	task, err := s.tasks.GetByID(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if task == nil {
		return nil, apperr.NotFound("task")
	}
	if !requester.IsAdmin() {
		if task.AssignedToID == nil || *task.AssignedToID != requester.ID {
			return nil, apperr.Forbidden("task is assigned to someone else")
		}
	}
	return task, nil
}

// ListTasks returns tasks visible to the requester, newest-first.
// Employees are always scoped to their own assignments.
func (s *Service) ListTasks(ctx context.Context, requester *model.User, filter repository.TaskFilter) ([]model.Task, error) {
	if !requester.IsAdmin() {
		filter.AssignedToID = &requester.ID
	}
	return s.tasks.List(ctx, filter)
}

// Stats are the dashboard counters: status totals scoped by role, plus
// the per-employee distribution for admins.
type Stats struct {
	repository.StatusCounts
	EmployeeStats []repository.EmployeeStat `json:"employeeStats"`
}

func (s *Service) TaskStats(ctx context.Context, requester *model.User) (*Stats, error) {
	var scope *int
	if !requester.IsAdmin() {
		scope = &requester.ID
	}

	counts, err := s.tasks.CountByStatus(ctx, scope)
	if err != nil {
		return nil, err
	}

	stats := &Stats{StatusCounts: *counts, EmployeeStats: []repository.EmployeeStat{}}
	if requester.IsAdmin() {
		employeeStats, err := s.tasks.CountByEmployee(ctx)
		if err != nil {
			return nil, err
		}
		stats.EmployeeStats = employeeStats
	}
	return stats, nil
}

// assignedEffect builds the task_assigned notification and email for a
// freshly created task.
func (s *Service) assignedEffect(ctx context.Context, task *model.Task, assignee, creator *model.User) []effects.EmailJob {
	n, err := s.notifier.Create(
		context.WithoutCancel(ctx),
		assignee.ID,
		model.NotificationTaskAssigned,
		"New Task Assigned",
		fmt.Sprintf("You have been assigned a new task: %s", task.Title),
		&task.ID,
	)
	if err != nil {
		s.logger.Error("Failed to create task_assigned notification",
			zap.Int("task_id", task.ID),
			zap.Error(err),
		)
		return nil
	}

	return []effects.EmailJob{{
		NotificationID: n.ID,
		Template:       email.TemplateAssigned,
		Assigned: &email.AssignedEmail{
			To:              assignee.Email,
			ToName:          assignee.Name,
			TaskTitle:       task.Title,
			TaskDescription: task.Description,
			DueDate:         task.DueDate,
			Priority:        task.Priority,
			AssignedByName:  creator.Name,
		},
	}}
}

// completedEffect notifies the task's creator that the assignee finished
// the task.
func (s *Service) completedEffect(ctx context.Context, task *model.Task, requester *model.User) []effects.EmailJob {
	creator, err := s.users.FindByID(ctx, task.CreatedByID)
	if err != nil || creator == nil {
		s.logger.Error("Failed to resolve task creator for completion notice",
			zap.Int("task_id", task.ID),
			zap.Int("created_by_id", task.CreatedByID),
			zap.Error(err),
		)
		return nil
	}

	assigneeName := requester.Name
	if task.AssignedTo != nil {
		assigneeName = task.AssignedTo.Name
	}

	n, err := s.notifier.Create(
		context.WithoutCancel(ctx),
		creator.ID,
		model.NotificationTaskCompleted,
		"Task Completed",
		fmt.Sprintf("%s completed: %s", assigneeName, task.Title),
		&task.ID,
	)
	if err != nil {
		s.logger.Error("Failed to create task_completed notification",
			zap.Int("task_id", task.ID),
			zap.Error(err),
		)
		return nil
	}

	return []effects.EmailJob{{
		NotificationID: n.ID,
		Template:       email.TemplateCompleted,
		Completed: &email.CompletedEmail{
			To:           creator.Email,
			ToName:       creator.Name,
			AssigneeName: assigneeName,
			TaskTitle:    task.Title,
		},
	}}
}

// updatedEffect notifies the assignee about an admin edit. Tasks without
// an assignee produce nothing.
func (s *Service) updatedEffect(ctx context.Context, task *model.Task) []effects.EmailJob {
	if task.AssignedTo == nil {
		return nil
	}

	n, err := s.notifier.Create(
		context.WithoutCancel(ctx),
		task.AssignedTo.ID,
		model.NotificationTaskUpdated,
		"Task Updated",
		fmt.Sprintf("Task %q has been updated", task.Title),
		&task.ID,
	)
	if err != nil {
		s.logger.Error("Failed to create task_updated notification",
			zap.Int("task_id", task.ID),
			zap.Error(err),
		)
		return nil
	}

	return []effects.EmailJob{{
		NotificationID: n.ID,
		Template:       email.TemplateUpdated,
		Updated: &email.UpdatedEmail{
			To:        task.AssignedTo.Email,
			ToName:    task.AssignedTo.Name,
			TaskTitle: task.Title,
			Changes:   "The task details have been updated.",
		},
	}}
}

// fanOut hands email jobs to the executor. The executor never reports
// back; the mutation is already committed.
func (s *Service) fanOut(ctx context.Context, jobs []effects.EmailJob) {
	if len(jobs) == 0 {
		return
	}
	s.executor.Dispatch(context.WithoutCancel(ctx), jobs)
}

// parseDate accepts RFC 3339 timestamps and bare dates. Empty input is a
// parse error: callers that allow absence check before calling.
func parseDate(s string) (*time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return &t, nil
	}
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return &t, nil
	}
	return nil, fmt.Errorf("invalid date %q", s)
}

func equalTime(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Equal(*b)
}
