package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/fieldsnap/attendance/internal/reconcile"
	"github.com/fieldsnap/attendance/internal/service"
)

type ReportHandler struct {
	reports *service.ReportService
	logger  *zap.Logger
}

func NewReportHandler(reports *service.ReportService, logger *zap.Logger) *ReportHandler {
	return &ReportHandler{
		reports: reports,
		logger:  logger,
	}
}

func (h *ReportHandler) WeekReport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	q := r.URL.Query()
	userID := q.Get("user_id")
	start := q.Get("start")
	end := q.Get("end")
	if userID == "" || start == "" || end == "" {
		http.Error(w, "Missing user_id, start or end parameter", http.StatusBadRequest)
		return
	}

	report, err := h.reports.WeekReport(userID, start, end, q.Get("tz"))
	if err != nil {
		h.writeReportError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(report)
}

func (h *ReportHandler) ExportTimesheet(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	q := r.URL.Query()
	userID := q.Get("user_id")
	start := q.Get("start")
	end := q.Get("end")
	if userID == "" || start == "" || end == "" {
		http.Error(w, "Missing user_id, start or end parameter", http.StatusBadRequest)
		return
	}

	format := q.Get("format")
	data, filename, err := h.reports.ExportTimesheet(userID, start, end, q.Get("tz"), format)
	if err != nil {
		h.writeReportError(w, err)
		return
	}

	if format == "xlsx" {
		w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	} else {
		w.Header().Set("Content-Type", "text/csv")
	}
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	w.Write(data)
}

func (h *ReportHandler) CompanyTotals(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	q := r.URL.Query()
	companyID := q.Get("company_id")
	start := q.Get("start")
	end := q.Get("end")
	if companyID == "" || start == "" || end == "" {
		http.Error(w, "Missing company_id, start or end parameter", http.StatusBadRequest)
		return
	}

	totals, err := h.reports.CompanyTotals(companyID, start, end, q.Get("tz"))
	if err != nil {
		h.writeReportError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(totals)
}

// writeReportError maps engine errors to responses: a ParseError means the
// stored stream holds a corrupt timestamp and must surface loudly rather
// than as a quietly wrong report.
func (h *ReportHandler) writeReportError(w http.ResponseWriter, err error) {
	if errors.Is(err, service.ErrInvalidRequest) {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	var perr *reconcile.ParseError
	if errors.As(err, &perr) {
		h.logger.Error("Corrupt event timestamp in store", zap.Error(err))
		http.Error(w, perr.Error(), http.StatusUnprocessableEntity)
		return
	}
	h.logger.Error("Failed to build report", zap.Error(err))
	http.Error(w, "Failed to build report", http.StatusInternalServerError)
}
