package main

import (
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"

	"game-pulse/config"
	"game-pulse/storage"
)

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	if err := config.LoadDotEnv(); err != nil {
		logger.Fatal("Failed to load .env", zap.Error(err))
	}
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Invalid configuration", zap.Error(err))
	}

	var (
		dataPath = flag.String("data", cfg.DataPath, "Path to database directory")
		command  = flag.String("cmd", "up", "Migration command: up, down, status, version, reset")
	)
	flag.Parse()

	sqliteStorage := storage.NewSQLiteStorage(*dataPath, logger)
	if _, err := sqliteStorage.GetDB(); err != nil {
		logger.Fatal("Failed to open database", zap.Error(err))
	}
	defer sqliteStorage.Close()

	switch *command {
	case "up":
		if err := os.MkdirAll(*dataPath, 0o755); err != nil {
			logger.Fatal("Failed to create data directory", zap.Error(err))
		}
		if err := sqliteStorage.RunMigrations(); err != nil {
			logger.Fatal("Failed to run migrations", zap.Error(err))
		}
		fmt.Println("Migrations completed successfully")

	case "down":
		if err := sqliteStorage.RollbackMigration(); err != nil {
			logger.Fatal("Failed to rollback migration", zap.Error(err))
		}
		fmt.Println("Migration rolled back successfully")

	case "status":
		migrationManager := sqliteStorage.GetMigrationManager()
		if err := migrationManager.Initialize(); err != nil {
			logger.Fatal("Failed to initialize migration manager", zap.Error(err))
		}
		if err := migrationManager.Status(); err != nil {
			logger.Fatal("Failed to get migration status", zap.Error(err))
		}

	case "version":
		version, err := sqliteStorage.GetDatabaseVersion()
		if err != nil {
			logger.Fatal("Failed to get database version", zap.Error(err))
		}
		fmt.Printf("Database version: %d\n", version)

	case "reset":
		if err := sqliteStorage.ResetDatabase(); err != nil {
			logger.Fatal("Failed to reset database", zap.Error(err))
		}
		fmt.Println("Database reset completed successfully")

	default:
		fmt.Printf("Unknown command: %s\n", *command)
		fmt.Println("Available commands: up, down, status, version, reset")
		os.Exit(1)
	}
}
