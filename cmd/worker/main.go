package main

import (
	"time"

	"go.uber.org/zap"

	"taskmanager/internal/config"
	"taskmanager/internal/effects"
	"taskmanager/internal/email"
	"taskmanager/internal/mqhandler"
	"taskmanager/internal/util"
	"taskmanager/pkg/logger"
	"taskmanager/pkg/mq"
	"taskmanager/pkg/redisclient"
)

func main() {
	cfg := config.Load()

	log := logger.NewLogger()
	defer log.Sync()

	log.Info("Starting email worker...",
		zap.String("mq_url", cfg.MQ.URL),
		zap.Bool("email_demo_mode", cfg.Email.DemoMode),
	)

	rdb := redisclient.New(cfg.Redis)
	defer rdb.Close()

	deduper := util.NewDeduper(rdb, time.Hour, log)
	dispatcher := email.NewSMTPDispatcher(cfg.Email, log)

	publisher, err := mq.NewPublisher(cfg.MQ.URL)
	if err != nil {
		log.Fatal("failed to init MQ publisher", zap.Error(err))
	}
	defer publisher.Close()

	emailHandler := mqhandler.NewEmailJobHandler(dispatcher, deduper, publisher, log)

	consumer, err := mq.NewConsumer(cfg.MQ.URL, effects.RoutingKeyEmail+".q", effects.RoutingKeyEmail, log)
	if err != nil {
		log.Fatal("failed to init email consumer", zap.Error(err))
	}
	defer consumer.Close()

	consumer.SetHandler(emailHandler.Handle)

	log.Info("Email consumer ready")
	if err := consumer.StartConsuming(); err != nil {
		log.Fatal("email consumer failed", zap.Error(err))
	}
}
