package main

import (
	"flag"
	"kitchenlog/cmd/config"
	migration "kitchenlog/cmd/database/migrate"
	"kitchenlog/internal/utils"
	"kitchenlog/internal/utils/logger"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to the YAML configuration file")
	migrateOnly := flag.Bool("migrate", false, "run database migrations and exit")
	flag.Parse()

	utils.LoadConfig(*configPath)

	log := logger.New(logger.Config{
		Level:  utils.GetConfig("LOG_LEVEL"),
		Format: utils.GetConfig("LOG_FORMAT"),
	})
	defer func() { _ = log.Sync() }()

	db, err := config.ConnectDB()
	if err != nil {
		log.Fatal("failed to connect database", zap.Error(err))
	}
	if err := migration.Migrate(db); err != nil {
		log.Fatal("failed to migrate database", zap.Error(err))
	}
	if *migrateOnly {
		log.Info("migration completed")
		return
	}

	app, err := config.NewApp(db, log)
	if err != nil {
		log.Fatal("failed to build app", zap.Error(err))
	}

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
		<-quit
		log.Info("shutting down")
		if err := app.Shutdown(); err != nil {
			log.Error("shutdown failed", zap.Error(err))
		}
	}()

	addr := ":" + utils.GetConfig("APP_PORT")
	log.Info("starting server", zap.String("addr", addr))
	if err := app.Listen(addr); err != nil {
		log.Fatal("server stopped", zap.Error(err))
	}
}
