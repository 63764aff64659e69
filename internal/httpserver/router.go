package httpserver

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"taskmanager/internal/handler"
	"taskmanager/internal/repository"
)

type Router struct {
	Engine *gin.Engine
}

func NewRouter(
	authHandler *handler.AuthHandler,
	taskHandler *handler.TaskHandler,
	notificationHandler *handler.NotificationHandler,
	userHandler *handler.UserHandler,
	users *repository.UserRepository,
	jwtSecret string,
	db *pgxpool.Pool,
	logger *zap.Logger,
) *Router {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(RequestID())
	r.Use(RequestLogger(logger))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})
	r.GET("/readyz", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c, 1*time.Second)
		defer cancel()

		if err := db.Ping(ctx); err != nil {
			c.JSON(500, gin.H{"status": "db_not_ready", "error": err.Error()})
			return
		}
		c.JSON(200, gin.H{"status": "ready"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	r.POST("/api/auth/login", authHandler.Login)

	api := r.Group("/api")
	api.Use(AuthMiddleware(jwtSecret, users))
	{
		api.GET("/auth/me", authHandler.Me)

		api.GET("/tasks", taskHandler.List)
		api.GET("/tasks/stats", taskHandler.Stats)
		api.GET("/tasks/:id", taskHandler.Get)
		api.POST("/tasks", taskHandler.Create)
		api.PUT("/tasks/:id", taskHandler.Update)
		api.DELETE("/tasks/:id", taskHandler.Delete)

		api.GET("/notifications", notificationHandler.List)
		api.PUT("/notifications/read-all", notificationHandler.MarkAllRead)
		api.PUT("/notifications/:id/read", notificationHandler.MarkRead)
		api.DELETE("/notifications/:id", notificationHandler.Delete)

		admin := api.Group("/users")
		admin.Use(AdminOnly())
		{
			admin.GET("/employees", userHandler.ListEmployees)
		}
	}

	return &Router{Engine: r}
}

func (r *Router) Run(port string) error {
	return r.Engine.Run(port)
}
