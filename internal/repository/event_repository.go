package repository

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/fieldsnap/attendance/internal/models"
)

// EventRepository persists and fetches raw attendance events. Timestamps are
// stored as UTC-normalized RFC3339 text; range queries compare
// lexicographically, which is correct for that encoding.
type EventRepository struct {
	db *sql.DB
}

func NewEventRepository(db *sql.DB) *EventRepository {
	return &EventRepository{db: db}
}

// InsertBatch appends a batch of events in a single transaction. Duplicate
// ids are ignored so mobile clients can retry a batch safely.
func (r *EventRepository) InsertBatch(events []models.RawEvent) error {
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT OR IGNORE INTO raw_events
			(id, user_id, company_id, project_id, event_type, timestamp,
			 latitude, longitude, accuracy, entry_method, edited_by, edit_reason)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	for _, ev := range events {
		_, err = stmt.Exec(
			ev.ID,
			ev.UserID,
			ev.CompanyID,
			ev.ProjectID,
			string(ev.Type),
			ev.Timestamp,
			ev.Latitude,
			ev.Longitude,
			ev.Accuracy,
			string(ev.EntryMethod),
			ev.EditedBy,
			ev.EditReason,
		)
		if err != nil {
			return fmt.Errorf("failed to insert event %s: %w", ev.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// ListByUser returns a user's events with timestamps in [from, to), oldest
// first.
func (r *EventRepository) ListByUser(userID string, from, to time.Time) ([]models.RawEvent, error) {
	return r.list(`
		SELECT id, user_id, company_id, project_id, event_type, timestamp,
		       latitude, longitude, accuracy, entry_method, edited_by, edit_reason
		FROM raw_events
		WHERE user_id = ? AND timestamp >= ? AND timestamp < ?
		ORDER BY timestamp ASC
	`, userID, encodeTime(from), encodeTime(to))
}

// ListByCompany returns all of a company's events with timestamps in
// [from, to), oldest first, for the administrative cross-user view.
func (r *EventRepository) ListByCompany(companyID string, from, to time.Time) ([]models.RawEvent, error) {
	return r.list(`
		SELECT id, user_id, company_id, project_id, event_type, timestamp,
		       latitude, longitude, accuracy, entry_method, edited_by, edit_reason
		FROM raw_events
		WHERE company_id = ? AND timestamp >= ? AND timestamp < ?
		ORDER BY timestamp ASC
	`, companyID, encodeTime(from), encodeTime(to))
}

func (r *EventRepository) list(query string, args ...interface{}) ([]models.RawEvent, error) {
	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query events: %w", err)
	}
	defer rows.Close()

	var events []models.RawEvent
	for rows.Next() {
		var ev models.RawEvent
		var eventType, entryMethod string
		err := rows.Scan(
			&ev.ID,
			&ev.UserID,
			&ev.CompanyID,
			&ev.ProjectID,
			&eventType,
			&ev.Timestamp,
			&ev.Latitude,
			&ev.Longitude,
			&ev.Accuracy,
			&entryMethod,
			&ev.EditedBy,
			&ev.EditReason,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan event: %w", err)
		}
		ev.Type = models.EventType(eventType)
		ev.EntryMethod = models.EntryMethod(entryMethod)
		events = append(events, ev)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}
	return events, nil
}

// encodeTime normalizes an instant to the stored RFC3339 UTC encoding.
func encodeTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}
