package auth

import (
	"context"
	"errors"

	"taskmanager/internal/model"
	"taskmanager/internal/util"
)

// ErrInvalidCredentials deliberately covers unknown email, wrong
// password and deactivated accounts alike.
var ErrInvalidCredentials = errors.New("invalid email or password")

// UserStore is the slice of the user directory the auth service needs.
type UserStore interface {
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	FindByID(ctx context.Context, id int) (*model.User, error)
}

type Service struct {
	users     UserStore
	jwtSecret string
}

func NewService(users UserStore, jwtSecret string) *Service {
	return &Service{users: users, jwtSecret: jwtSecret}
}

// Login checks credentials and returns a signed token plus the user.
func (s *Service) Login(ctx context.Context, email, password string) (string, *model.User, error) {
	u, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return "", nil, err
	}
	if u == nil || !u.IsActive {
		return "", nil, ErrInvalidCredentials
	}

	if !util.CheckPassword(password, u.PasswordHash) {
		return "", nil, ErrInvalidCredentials
	}

	token, err := util.GenerateJWT(u.ID, s.jwtSecret)
	if err != nil {
		return "", nil, err
	}

	return token, u, nil
}
