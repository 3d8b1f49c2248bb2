package main

import (
	"flag"
	"log"

	"studypulse/internal/config"
	"studypulse/internal/database"
	"studypulse/internal/logger"

	"go.uber.org/zap"
)

func main() {
	migrationsPath := flag.String("path", "database/migrations", "path to migration files")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if err := logger.Initialize(cfg.Logger); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	l := logger.Get()
	defer logger.Sync()

	db, err := database.NewSQLXPostgresDB(cfg.GetDSN())
	if err != nil {
		l.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	if err := database.RunMigrations(db, *migrationsPath); err != nil {
		l.Fatal("Failed to run migrations", zap.Error(err))
	}

	l.Info("Migrations completed successfully", zap.String("path", *migrationsPath))
}
