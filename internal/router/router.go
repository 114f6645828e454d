package router

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/fieldsnap/attendance/internal/handler"
)

func New(eventHandler *handler.EventHandler, reportHandler *handler.ReportHandler, logger *zap.Logger) http.Handler {
	mux := http.NewServeMux()

	// Health check endpoint
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})

	// Ingest endpoints (mobile clients)
	mux.HandleFunc("/api/v1/events", eventHandler.IngestEvents)
	mux.HandleFunc("/api/v1/locations", eventHandler.IngestLocations)

	// Report endpoints
	mux.HandleFunc("/api/v1/reports/week", reportHandler.WeekReport)
	mux.HandleFunc("/api/v1/reports/export", reportHandler.ExportTimesheet)
	mux.HandleFunc("/api/v1/admin/totals", reportHandler.CompanyTotals)

	// Logging middleware
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger.Info("HTTP request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.String("remote_addr", r.RemoteAddr),
		)
		mux.ServeHTTP(w, r)
	})
}
