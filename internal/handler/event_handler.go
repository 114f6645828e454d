package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/fieldsnap/attendance/internal/models"
	"github.com/fieldsnap/attendance/internal/reconcile"
	"github.com/fieldsnap/attendance/internal/service"
)

type EventHandler struct {
	ingest *service.IngestService
	logger *zap.Logger
}

func NewEventHandler(ingest *service.IngestService, logger *zap.Logger) *EventHandler {
	return &EventHandler{
		ingest: ingest,
		logger: logger,
	}
}

func (h *EventHandler) IngestEvents(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req models.BatchEventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Error("Failed to decode request", zap.Error(err))
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if len(req.Events) == 0 {
		http.Error(w, "Empty event batch", http.StatusBadRequest)
		return
	}

	count, err := h.ingest.Events(req.Events)
	if err != nil {
		var perr *reconcile.ParseError
		if errors.As(err, &perr) {
			http.Error(w, perr.Error(), http.StatusBadRequest)
			return
		}
		h.logger.Error("Failed to ingest events", zap.Error(err))
		http.Error(w, "Failed to ingest events", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(map[string]int{"accepted": count})
}

func (h *EventHandler) IngestLocations(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req models.BatchLocationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Error("Failed to decode request", zap.Error(err))
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	count, err := h.ingest.Locations(req.Samples)
	if err != nil {
		h.logger.Error("Failed to ingest location samples", zap.Error(err))
		http.Error(w, "Failed to ingest location samples", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(map[string]int{"accepted": count})
}
