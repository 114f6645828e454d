package service

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/fieldsnap/attendance/internal/models"
	"github.com/fieldsnap/attendance/internal/reconcile"
	"github.com/fieldsnap/attendance/internal/repository"
)

// IngestService validates and stores raw events and location samples arriving
// from the mobile clients. Events are append-only: nothing here ever mutates
// or deletes an accepted event.
type IngestService struct {
	events    *repository.EventRepository
	locations *repository.LocationRepository
	logger    *zap.Logger
}

func NewIngestService(
	events *repository.EventRepository,
	locations *repository.LocationRepository,
	logger *zap.Logger,
) *IngestService {
	return &IngestService{
		events:    events,
		locations: locations,
		logger:    logger,
	}
}

// Events validates a batch and appends it to the store. Timestamps are
// normalized to UTC RFC3339 at the door; a malformed timestamp rejects the
// whole batch with a ParseError naming the event, since accepting it would
// poison every report that later reads it. Events without an id get one.
func (s *IngestService) Events(events []models.RawEvent) (int, error) {
	for i := range events {
		ev := &events[i]
		if !ev.Type.Valid() {
			return 0, fmt.Errorf("event %s: unknown type %q", ev.ID, ev.Type)
		}
		if ev.UserID == "" || ev.CompanyID == "" {
			return 0, fmt.Errorf("event %s: missing user or company id", ev.ID)
		}
		ts, err := time.Parse(time.RFC3339, ev.Timestamp)
		if err != nil {
			return 0, &reconcile.ParseError{EventID: ev.ID, Value: ev.Timestamp, Err: err}
		}
		ev.Timestamp = ts.UTC().Format(time.RFC3339)
		if ev.ID == "" {
			ev.ID = uuid.NewString()
		}
		if ev.EntryMethod == "" {
			ev.EntryMethod = models.EntryManual
		}
	}

	if err := s.events.InsertBatch(events); err != nil {
		return 0, err
	}
	s.logger.Debug("Events ingested", zap.Int("count", len(events)))
	return len(events), nil
}

// Locations stores a batch of telemetry samples. Malformed samples are
// skipped rather than rejected: telemetry only ever degrades travel
// inference, it never corrupts totals.
func (s *IngestService) Locations(samples []models.LocationSample) (int, error) {
	valid := samples[:0]
	for _, sm := range samples {
		ts, err := time.Parse(time.RFC3339, sm.Timestamp)
		if err != nil || sm.UserID == "" {
			s.logger.Warn("Skipping malformed location sample",
				zap.String("user_id", sm.UserID),
				zap.String("timestamp", sm.Timestamp),
			)
			continue
		}
		sm.Timestamp = ts.UTC().Format(time.RFC3339)
		valid = append(valid, sm)
	}

	if len(valid) == 0 {
		return 0, nil
	}
	if err := s.locations.InsertBatch(valid); err != nil {
		return 0, err
	}
	s.logger.Debug("Location samples ingested", zap.Int("count", len(valid)))
	return len(valid), nil
}
