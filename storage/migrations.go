package storage

import (
	"database/sql"
	"embed"
	"fmt"

	"github.com/pressly/goose/v3"
	"go.uber.org/zap"
)

//go:embed migrations/*.sql
var embedMigrations embed.FS

const migrationsDir = "migrations"

type MigrationManager struct {
	db     *sql.DB
	logger *zap.Logger
}

func NewMigrationManager(db *sql.DB, logger *zap.Logger) *MigrationManager {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MigrationManager{db: db, logger: logger}
}

func (m *MigrationManager) Initialize() error {
	goose.SetBaseFS(embedMigrations)
	goose.SetLogger(gooseLogger{m.logger.Named("goose").Sugar()})

	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}
	return nil
}

func (m *MigrationManager) Up() error {
	if err := goose.Up(m.db, migrationsDir); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	m.logger.Info("Database migrations completed successfully")
	return nil
}

func (m *MigrationManager) Down() error {
	if err := goose.Down(m.db, migrationsDir); err != nil {
		return fmt.Errorf("failed to rollback migration: %w", err)
	}
	m.logger.Info("Database migration rolled back successfully")
	return nil
}

func (m *MigrationManager) Status() error {
	if err := goose.Status(m.db, migrationsDir); err != nil {
		return fmt.Errorf("failed to get migration status: %w", err)
	}
	return nil
}

func (m *MigrationManager) Version() (int64, error) {
	version, err := goose.GetDBVersion(m.db)
	if err != nil {
		return 0, fmt.Errorf("failed to get database version: %w", err)
	}
	return version, nil
}

func (m *MigrationManager) Reset() error {
	if err := goose.Reset(m.db, migrationsDir); err != nil {
		return fmt.Errorf("failed to reset database: %w", err)
	}
	m.logger.Info("Database reset completed successfully")
	return nil
}

// gooseLogger routes goose output through zap.
type gooseLogger struct {
	s *zap.SugaredLogger
}

func (l gooseLogger) Printf(format string, v ...interface{}) {
	l.s.Infof(format, v...)
}

func (l gooseLogger) Fatalf(format string, v ...interface{}) {
	l.s.Fatalf(format, v...)
}
