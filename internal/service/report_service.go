package service

import (
	"bytes"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/fieldsnap/attendance/internal/export"
	"github.com/fieldsnap/attendance/internal/models"
	"github.com/fieldsnap/attendance/internal/reconcile"
	"github.com/fieldsnap/attendance/internal/repository"
)

// ErrInvalidRequest marks caller mistakes (bad dates, unknown timezone,
// unsupported format) so handlers can answer 400 instead of 500.
var ErrInvalidRequest = errors.New("invalid request")

// ReportService fetches a window of stored events and telemetry and runs the
// reconciliation engine over it. All I/O happens here, before the pure
// transform is invoked.
type ReportService struct {
	events    *repository.EventRepository
	locations *repository.LocationRepository
	logger    *zap.Logger
	defaultTZ string
	slack     time.Duration
}

func NewReportService(
	events *repository.EventRepository,
	locations *repository.LocationRepository,
	logger *zap.Logger,
	defaultTZ string,
	fetchSlackHours int,
) *ReportService {
	return &ReportService{
		events:    events,
		locations: locations,
		logger:    logger,
		defaultTZ: defaultTZ,
		slack:     time.Duration(fetchSlackHours) * time.Hour,
	}
}

// WeekReport reconciles one user's events over [start, end] (local dates in
// tz) into day-bucketed shift data plus inferred travel segments.
func (s *ReportService) WeekReport(userID, start, end, tz string) (*models.WeekReport, error) {
	zone, w, err := s.window(start, end, tz)
	if err != nil {
		return nil, err
	}

	// Fetch with slack on both sides so shifts spanning the window edges
	// are present; the engine clamps them back to the window.
	events, err := s.events.ListByUser(userID, w.Start.Add(-s.slack), w.End.Add(s.slack))
	if err != nil {
		return nil, fmt.Errorf("failed to fetch events: %w", err)
	}
	samples, err := s.locations.ListByUser(userID, w.Start.Add(-s.slack), w.End.Add(s.slack))
	if err != nil {
		return nil, fmt.Errorf("failed to fetch location samples: %w", err)
	}

	engine := reconcile.NewEngine(zone, s.logger)
	week, travel, err := engine.Reconcile(events, w, samples)
	if err != nil {
		return nil, err
	}
	return &models.WeekReport{Week: week, Travel: travel}, nil
}

// ExportTimesheet renders the week as CSV or XLSX rows and returns the bytes
// with a suggested filename.
func (s *ReportService) ExportTimesheet(userID, start, end, tz, format string) ([]byte, string, error) {
	zone, w, err := s.window(start, end, tz)
	if err != nil {
		return nil, "", err
	}

	report, err := s.WeekReport(userID, start, end, tz)
	if err != nil {
		return nil, "", err
	}

	abbrev := export.TimezoneAbbrev(w.Start, zone)
	var buf bytes.Buffer
	switch format {
	case "", "csv":
		if err := export.WriteCSV(&buf, report.Week, abbrev); err != nil {
			return nil, "", err
		}
		return buf.Bytes(), fmt.Sprintf("timesheet_%s_%s_%s.csv", userID, start, end), nil
	case "xlsx":
		if err := export.WriteXLSX(&buf, report.Week, abbrev); err != nil {
			return nil, "", err
		}
		return buf.Bytes(), fmt.Sprintf("timesheet_%s_%s_%s.xlsx", userID, start, end), nil
	default:
		return nil, "", fmt.Errorf("%w: unsupported export format %q", ErrInvalidRequest, format)
	}
}

// CompanyTotals re-derives total hours per user across a whole company using
// the administrative LIFO-stack model. Only events inside the window are
// considered; there is no clamping and open shifts contribute nothing, by
// design; this view will disagree with WeekReport for anyone currently on
// the clock.
func (s *ReportService) CompanyTotals(companyID, start, end, tz string) ([]models.UserTotal, error) {
	zone, w, err := s.window(start, end, tz)
	if err != nil {
		return nil, err
	}

	events, err := s.events.ListByCompany(companyID, w.Start, w.End)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch events: %w", err)
	}

	engine := reconcile.NewEngine(zone, s.logger)
	return engine.CrossUserTotals(events)
}

func (s *ReportService) window(start, end, tz string) (*time.Location, reconcile.Window, error) {
	if tz == "" {
		tz = s.defaultTZ
	}
	zone, err := time.LoadLocation(tz)
	if err != nil {
		return nil, reconcile.Window{}, fmt.Errorf("%w: unknown timezone %q", ErrInvalidRequest, tz)
	}
	w, err := reconcile.NewWindow(start, end, zone)
	if err != nil {
		return nil, reconcile.Window{}, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}
	return zone, w, nil
}
