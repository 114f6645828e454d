package database

import (
	"database/sql"
	"fmt"

	"go.uber.org/zap"
	_ "modernc.org/sqlite"
)

type DB struct {
	*sql.DB
	logger *zap.Logger
}

func New(storagePath string, logger *zap.Logger) (*DB, error) {
	db, err := sql.Open("sqlite", storagePath+"?_foreign_keys=1&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	database := &DB{
		DB:     db,
		logger: logger,
	}

	if err := database.migrate(); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	logger.Info("Database connection established", zap.String("path", storagePath))
	return database, nil
}

func (db *DB) migrate() error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)`,
		// Raw clock/break events; append-only. Timestamps are stored as
		// UTC-normalized RFC3339 so lexicographic range scans are correct.
		`CREATE TABLE IF NOT EXISTS raw_events (
			id TEXT PRIMARY KEY,
			user_id TEXT NOT NULL,
			company_id TEXT NOT NULL,
			project_id TEXT,
			event_type TEXT NOT NULL,
			timestamp TEXT NOT NULL,
			latitude REAL,
			longitude REAL,
			accuracy REAL,
			entry_method TEXT NOT NULL,
			edited_by TEXT,
			edit_reason TEXT,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE INDEX IF NOT EXISTS idx_raw_events_user_ts ON raw_events(user_id, timestamp)`,
		`CREATE INDEX IF NOT EXISTS idx_raw_events_company_ts ON raw_events(company_id, timestamp)`,
		// Movement telemetry for travel inference.
		`CREATE TABLE IF NOT EXISTS location_samples (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			user_id TEXT NOT NULL,
			timestamp TEXT NOT NULL,
			is_moving INTEGER NOT NULL,
			project_id TEXT,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE INDEX IF NOT EXISTS idx_location_samples_user_ts ON location_samples(user_id, timestamp)`,
	}

	for _, migration := range migrations {
		if _, err := db.Exec(migration); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	}

	db.logger.Info("Database migrations completed")
	return nil
}

func (db *DB) Close() error {
	if err := db.DB.Close(); err != nil {
		return fmt.Errorf("failed to close database: %w", err)
	}
	db.logger.Info("Database connection closed")
	return nil
}
