package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"taskmanager/internal/model"
	"taskmanager/pkg/metrics"
)

type TaskRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewTaskRepository(db *pgxpool.Pool, logger *zap.Logger) *TaskRepository {
	return &TaskRepository{db: db, logger: logger}
}

// TaskFilter narrows List queries. Zero values mean "no filter".
type TaskFilter struct {
	AssignedToID *int
	Status       string
	Priority     string
	Search       string
	Limit        int
}

const taskColumns = `
        t.id, t.title, t.description, t.status, t.priority, t.due_date,
        t.assigned_to_id, t.created_by_id, t.completed_at, t.tags,
        t.attachments, t.created_at, t.updated_at,
        a.id, a.name, a.email, a.employee_id,
        c.id, c.name, c.email`

const taskJoins = `
        FROM tasks t
        LEFT JOIN users a ON a.id = t.assigned_to_id
        LEFT JOIN users c ON c.id = t.created_by_id`

func (r *TaskRepository) Create(ctx context.Context, t *model.Task) error {
	start := time.Now()
	query := `
        INSERT INTO tasks (title, description, status, priority, due_date,
                           assigned_to_id, created_by_id, tags, attachments)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
        RETURNING id, created_at, updated_at
    `
	err := r.db.QueryRow(ctx, query,
		t.Title,
		t.Description,
		t.Status,
		t.Priority,
		t.DueDate,
		t.AssignedToID,
		t.CreatedByID,
		t.Tags,
		t.Attachments,
	).Scan(&t.ID, &t.CreatedAt, &t.UpdatedAt)
	metrics.RecordDBQueryDuration("insert", "tasks", time.Since(start))
	if err != nil {
		r.logger.Error("Failed to insert task",
			zap.Error(err),
			zap.Int("created_by_id", t.CreatedByID),
		)
		return err
	}
	r.logger.Info("Task inserted",
		zap.Int("task_id", t.ID),
		zap.Int("created_by_id", t.CreatedByID),
	)
	return nil
}

// GetByID returns the task with assignee and creator resolved, or
// (nil, nil) when it does not exist.
func (r *TaskRepository) GetByID(ctx context.Context, id int) (*model.Task, error) {
	query := `SELECT` + taskColumns + taskJoins + ` WHERE t.id = $1`

	t, err := r.scanTask(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		r.logger.Error("Failed to query task", zap.Error(err), zap.Int("task_id", id))
		return nil, err
	}
	return t, nil
}

// Update persists every mutable field in a single statement so the
// status / completed_at pair always lands together.
func (r *TaskRepository) Update(ctx context.Context, t *model.Task) error {
	start := time.Now()
	query := `
        UPDATE tasks
        SET title = $2, description = $3, status = $4, priority = $5,
            due_date = $6, assigned_to_id = $7, completed_at = $8,
            tags = $9, attachments = $10, updated_at = NOW()
        WHERE id = $1
        RETURNING updated_at
    `
	err := r.db.QueryRow(ctx, query,
		t.ID,
		t.Title,
		t.Description,
		t.Status,
		t.Priority,
		t.DueDate,
		t.AssignedToID,
		t.CompletedAt,
		t.Tags,
		t.Attachments,
	).Scan(&t.UpdatedAt)
	metrics.RecordDBQueryDuration("update", "tasks", time.Since(start))
	if err != nil {
		r.logger.Error("Failed to update task", zap.Error(err), zap.Int("task_id", t.ID))
		return err
	}
	r.logger.Info("Task updated",
		zap.Int("task_id", t.ID),
		zap.String("status", t.Status),
	)
	return nil
}

// Delete removes the task. Notifications referencing it go with it via
// the ON DELETE CASCADE constraint.
func (r *TaskRepository) Delete(ctx context.Context, id int) (bool, error) {
	result, err := r.db.Exec(ctx, `DELETE FROM tasks WHERE id = $1`, id)
	if err != nil {
		r.logger.Error("Failed to delete task", zap.Error(err), zap.Int("task_id", id))
		return false, err
	}
	deleted := result.RowsAffected() > 0
	if deleted {
		r.logger.Info("Task deleted", zap.Int("task_id", id))
	}
	return deleted, nil
}

func (r *TaskRepository) List(ctx context.Context, filter TaskFilter) ([]model.Task, error) {
	query := `SELECT` + taskColumns + taskJoins + ` WHERE 1=1`
	args := []any{}

	if filter.AssignedToID != nil {
		args = append(args, *filter.AssignedToID)
		query += fmt.Sprintf(" AND t.assigned_to_id = $%d", len(args))
	}
	if filter.Status != "" {
		args = append(args, filter.Status)
		query += fmt.Sprintf(" AND t.status = $%d", len(args))
	}
	if filter.Priority != "" {
		args = append(args, filter.Priority)
		query += fmt.Sprintf(" AND t.priority = $%d", len(args))
	}
	if filter.Search != "" {
		args = append(args, "%"+filter.Search+"%")
		query += fmt.Sprintf(" AND (t.title ILIKE $%d OR t.description ILIKE $%d)", len(args), len(args))
	}

	query += " ORDER BY t.created_at DESC"

	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		r.logger.Error("Failed to query tasks", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	tasks := []model.Task{}
	for rows.Next() {
		t, err := r.scanTask(rows)
		if err != nil {
			r.logger.Error("Failed to scan task row", zap.Error(err))
			return nil, err
		}
		tasks = append(tasks, *t)
	}
	return tasks, rows.Err()
}

// StatusCounts groups task counts by status for the stats endpoint.
type StatusCounts struct {
	Total      int `json:"total"`
	Completed  int `json:"completed"`
	Pending    int `json:"pending"`
	InProgress int `json:"inProgress"`
	Overdue    int `json:"overdue"`
}

// CountByStatus computes counts, optionally scoped to one assignee.
func (r *TaskRepository) CountByStatus(ctx context.Context, assignedToID *int) (*StatusCounts, error) {
	query := `
        SELECT
            COUNT(*),
            COUNT(*) FILTER (WHERE status = 'completed'),
            COUNT(*) FILTER (WHERE status = 'pending'),
            COUNT(*) FILTER (WHERE status = 'in-progress'),
            COUNT(*) FILTER (WHERE status <> 'completed' AND due_date < NOW())
        FROM tasks
        WHERE $1::int IS NULL OR assigned_to_id = $1
    `
	var s StatusCounts
	err := r.db.QueryRow(ctx, query, assignedToID).Scan(
		&s.Total, &s.Completed, &s.Pending, &s.InProgress, &s.Overdue,
	)
	if err != nil {
		r.logger.Error("Failed to count tasks", zap.Error(err))
		return nil, err
	}
	return &s, nil
}

// EmployeeStat is the per-employee slice of the stats endpoint.
type EmployeeStat struct {
	EmployeeID   int    `json:"employeeId"`
	EmployeeName string `json:"employeeName"`
	Total        int    `json:"total"`
	Completed    int    `json:"completed"`
	Pending      int    `json:"pending"`
	InProgress   int    `json:"inProgress"`
}

func (r *TaskRepository) CountByEmployee(ctx context.Context) ([]EmployeeStat, error) {
	query := `
        SELECT u.id, u.name,
            COUNT(t.id),
            COUNT(t.id) FILTER (WHERE t.status = 'completed'),
            COUNT(t.id) FILTER (WHERE t.status = 'pending'),
            COUNT(t.id) FILTER (WHERE t.status = 'in-progress')
        FROM users u
        LEFT JOIN tasks t ON t.assigned_to_id = u.id
        WHERE u.role = 'employee' AND u.is_active
        GROUP BY u.id, u.name
        ORDER BY u.name
    `
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		r.logger.Error("Failed to count tasks by employee", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	stats := []EmployeeStat{}
	for rows.Next() {
		var s EmployeeStat
		if err := rows.Scan(&s.EmployeeID, &s.EmployeeName,
			&s.Total, &s.Completed, &s.Pending, &s.InProgress); err != nil {
			return nil, err
		}
		stats = append(stats, s)
	}
	return stats, rows.Err()
}

func (r *TaskRepository) scanTask(row pgx.Row) (*model.Task, error) {
	var t model.Task
	var aID, cID *int
	var aName, aEmail, aEmployeeID, cName, cEmail *string

	err := row.Scan(
		&t.ID, &t.Title, &t.Description, &t.Status, &t.Priority, &t.DueDate,
		&t.AssignedToID, &t.CreatedByID, &t.CompletedAt, &t.Tags,
		&t.Attachments, &t.CreatedAt, &t.UpdatedAt,
		&aID, &aName, &aEmail, &aEmployeeID,
		&cID, &cName, &cEmail,
	)
	if err != nil {
		return nil, err
	}

	if aID != nil {
		t.AssignedTo = &model.UserRef{ID: *aID, Name: *aName, Email: *aEmail}
		if aEmployeeID != nil {
			t.AssignedTo.EmployeeID = *aEmployeeID
		}
	}
	if cID != nil {
		t.CreatedBy = &model.UserRef{ID: *cID, Name: *cName, Email: *cEmail}
	}
	return &t, nil
}
