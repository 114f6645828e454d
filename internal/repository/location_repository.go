package repository

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/fieldsnap/attendance/internal/models"
)

// LocationRepository persists and fetches movement telemetry samples.
type LocationRepository struct {
	db *sql.DB
}

func NewLocationRepository(db *sql.DB) *LocationRepository {
	return &LocationRepository{db: db}
}

// InsertBatch appends a batch of samples in a single transaction.
func (r *LocationRepository) InsertBatch(samples []models.LocationSample) error {
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT INTO location_samples (user_id, timestamp, is_moving, project_id)
		VALUES (?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	for _, s := range samples {
		if _, err := stmt.Exec(s.UserID, s.Timestamp, s.IsMoving, s.ProjectID); err != nil {
			return fmt.Errorf("failed to insert sample: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// ListByUser returns a user's samples with timestamps in [from, to), oldest
// first.
func (r *LocationRepository) ListByUser(userID string, from, to time.Time) ([]models.LocationSample, error) {
	rows, err := r.db.Query(`
		SELECT user_id, timestamp, is_moving, project_id
		FROM location_samples
		WHERE user_id = ? AND timestamp >= ? AND timestamp < ?
		ORDER BY timestamp ASC
	`, userID, encodeTime(from), encodeTime(to))
	if err != nil {
		return nil, fmt.Errorf("failed to query samples: %w", err)
	}
	defer rows.Close()

	var samples []models.LocationSample
	for rows.Next() {
		var s models.LocationSample
		if err := rows.Scan(&s.UserID, &s.Timestamp, &s.IsMoving, &s.ProjectID); err != nil {
			return nil, fmt.Errorf("failed to scan sample: %w", err)
		}
		samples = append(samples, s)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}
	return samples, nil
}
