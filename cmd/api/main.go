package main

import (
	"go.uber.org/zap"

	"taskmanager/internal/auth"
	"taskmanager/internal/config"
	"taskmanager/internal/effects"
	"taskmanager/internal/email"
	"taskmanager/internal/handler"
	"taskmanager/internal/httpserver"
	"taskmanager/internal/notify"
	"taskmanager/internal/push"
	"taskmanager/internal/repository"
	"taskmanager/internal/workflow"
	"taskmanager/pkg/db"
	"taskmanager/pkg/logger"
	"taskmanager/pkg/mq"
	"taskmanager/pkg/redisclient"
)

func main() {
	cfg := config.Load()

	log := logger.NewLogger()
	defer log.Sync()

	log.Info("Starting API server...",
		zap.String("db_host", cfg.DB.Host),
		zap.String("redis_addr", cfg.Redis.Addr),
	)

	dbConn, err := db.NewConnection(cfg.DB, log)
	if err != nil {
		log.Fatal("DB initialization failed", zap.Error(err))
	}
	defer dbConn.Close()

	rdb := redisclient.New(cfg.Redis)
	defer rdb.Close()

	// Without a broker, emails are sent in-process instead of being
	// queued for the worker.
	var executor effects.Executor
	if cfg.MQ.URL != "" {
		publisher, err := mq.NewPublisher(cfg.MQ.URL)
		if err != nil {
			log.Fatal("Failed to init MQ publisher", zap.Error(err))
		}
		defer publisher.Close()
		executor = effects.NewQueueExecutor(publisher, log)
	} else {
		log.Warn("No MQ URL configured, sending emails in-process")
		executor = effects.NewDirectExecutor(email.NewSMTPDispatcher(cfg.Email, log), log)
	}

	// Repositories
	userRepo := repository.NewUserRepository(dbConn, log)
	taskRepo := repository.NewTaskRepository(dbConn, log)
	notificationRepo := repository.NewNotificationRepository(dbConn, log)

	// Services
	pushChannel := push.NewRedisChannel(rdb, log)
	notifyService := notify.NewService(notificationRepo, pushChannel, log)
	workflowService := workflow.NewService(taskRepo, userRepo, notifyService, executor, log)
	authService := auth.NewService(userRepo, cfg.JWT.Secret)

	// Handlers
	authHandler := handler.NewAuthHandler(authService, log)
	taskHandler := handler.NewTaskHandler(workflowService, log)
	notificationHandler := handler.NewNotificationHandler(notifyService, log)
	userHandler := handler.NewUserHandler(userRepo, log)

	router := httpserver.NewRouter(
		authHandler,
		taskHandler,
		notificationHandler,
		userHandler,
		userRepo,
		cfg.JWT.Secret,
		dbConn,
		log,
	)

	if err := router.Run(cfg.Server.Port); err != nil {
		log.Fatal("server start failed", zap.Error(err))
	}
}
