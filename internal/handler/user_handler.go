package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"taskmanager/internal/repository"
)

type UserHandler struct {
	users  *repository.UserRepository
	logger *zap.Logger
}

func NewUserHandler(users *repository.UserRepository, logger *zap.Logger) *UserHandler {
	return &UserHandler{users: users, logger: logger}
}

// ListEmployees feeds the assignment picker; admin only (enforced by the
// route middleware).
func (h *UserHandler) ListEmployees(c *gin.Context) {
	employees, err := h.users.FindActiveEmployees(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, employees)
}
