package main

import (
	"context"
	"os"
	"time"

	"go.uber.org/zap"

	"taskmanager/internal/config"
	"taskmanager/pkg/db"
	"taskmanager/pkg/logger"
)

func main() {
	cfg := config.Load()

	log := logger.NewLogger()
	defer log.Sync()

	schemaPath := "migrations/schema.sql"
	if len(os.Args) > 1 {
		schemaPath = os.Args[1]
	}

	schema, err := os.ReadFile(schemaPath)
	if err != nil {
		log.Fatal("Failed to read schema file", zap.String("path", schemaPath), zap.Error(err))
	}

	dbConn, err := db.NewConnection(cfg.DB, log)
	if err != nil {
		log.Fatal("DB initialization failed", zap.Error(err))
	}
	defer dbConn.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if _, err := dbConn.Exec(ctx, string(schema)); err != nil {
		log.Fatal("Failed to apply schema", zap.Error(err))
	}

	log.Info("Schema applied", zap.String("path", schemaPath))
}
