package main

import (
	"os"

	"github.com/sirupsen/logrus"
	"go.uber.org/zap"

	"blogapi/internal/config"
	"blogapi/internal/repository"
	"blogapi/internal/server"
)

func main() {
	logger, err := zap.NewDevelopment()
	if err != nil {
		panic(err) // Should not happen in development
	}
	defer func() {
		_ = logger.Sync() // Flushes buffer, if any
	}()

	log := logrus.New()

	// Load configuration
	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "configs/config.yml"
	}
	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		logger.Fatal("Failed to load config", zap.Error(err))
	}

	// Database connection
	db, err := repository.NewPostgresDB(cfg.Database.URL, logger)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	// Run migrations
	repository.MigrateDB(db, logger)

	// Initialize and run the server
	srv, err := server.NewServer(db, cfg, log, logger)
	if err != nil {
		logger.Fatal("Failed to initialize server", zap.Error(err))
	}
	srv.Run(cfg.Server.Port)
}
