package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"taskmanager/internal/model"
)

type UserRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewUserRepository(db *pgxpool.Pool, logger *zap.Logger) *UserRepository {
	return &UserRepository{db: db, logger: logger}
}

const userColumns = `id, name, email, password_hash, employee_id, role, is_active, created_at`

// FindByID returns (nil, nil) when no such user exists.
func (r *UserRepository) FindByID(ctx context.Context, id int) (*model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	u, err := r.scanUser(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		r.logger.Error("Failed to query user", zap.Error(err), zap.Int("user_id", id))
		return nil, err
	}
	return u, nil
}

// FindByEmail returns (nil, nil) when no such user exists.
func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	u, err := r.scanUser(r.db.QueryRow(ctx, query, email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		r.logger.Error("Failed to query user by email", zap.Error(err))
		return nil, err
	}
	return u, nil
}

func (r *UserRepository) FindActiveEmployees(ctx context.Context) ([]model.User, error) {
	query := `
        SELECT ` + userColumns + `
        FROM users
        WHERE role = 'employee' AND is_active
        ORDER BY name
    `
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		r.logger.Error("Failed to query employees", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	users := []model.User{}
	for rows.Next() {
		var u model.User
		var employeeID *string
		if err := rows.Scan(
			&u.ID, &u.Name, &u.Email, &u.PasswordHash, &employeeID,
			&u.Role, &u.IsActive, &u.CreatedAt,
		); err != nil {
			return nil, err
		}
		if employeeID != nil {
			u.EmployeeID = *employeeID
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

func (r *UserRepository) scanUser(row pgx.Row) (*model.User, error) {
	var u model.User
	var employeeID *string
	err := row.Scan(
		&u.ID, &u.Name, &u.Email, &u.PasswordHash, &employeeID,
		&u.Role, &u.IsActive, &u.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	if employeeID != nil {
		u.EmployeeID = *employeeID
	}
	return &u, nil
}
