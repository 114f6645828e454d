package models

// EventType identifies what a raw attendance event records.
type EventType string

const (
	EventClockIn    EventType = "clock_in"
	EventClockOut   EventType = "clock_out"
	EventBreakStart EventType = "break_start"
	EventBreakEnd   EventType = "break_end"
)

// Valid reports whether t is one of the four known event types.
func (t EventType) Valid() bool {
	switch t {
	case EventClockIn, EventClockOut, EventBreakStart, EventBreakEnd:
		return true
	}
	return false
}

// EntryMethod records how an event was produced on the device.
type EntryMethod string

const (
	EntryManual               EntryMethod = "manual"
	EntryGeofenceNotification EntryMethod = "geofence_notification"
	EntryGeofenceAuto         EntryMethod = "geofence_auto"
	EntryAdminOverride        EntryMethod = "admin_override"
)

// RawEvent is a single clock/break event as produced by the mobile clients.
// Events are immutable and append-only; timestamps arrive as RFC3339 strings
// and are parsed (and validated) by the reconciliation engine.
type RawEvent struct {
	ID          string      `json:"id"`
	UserID      string      `json:"userId"`
	CompanyID   string      `json:"companyId"`
	ProjectID   *string     `json:"projectId,omitempty"`
	Type        EventType   `json:"type"`
	Timestamp   string      `json:"timestamp"` // RFC3339
	Latitude    *float64    `json:"latitude,omitempty"`
	Longitude   *float64    `json:"longitude,omitempty"`
	Accuracy    *float64    `json:"accuracy,omitempty"`
	EntryMethod EntryMethod `json:"entryMethod"`
	EditedBy    *string     `json:"editedBy,omitempty"`
	EditReason  *string     `json:"editReason,omitempty"`
}

// LocationSample is a movement telemetry point used for travel inference.
type LocationSample struct {
	UserID    string  `json:"userId"`
	Timestamp string  `json:"timestamp"` // RFC3339
	IsMoving  bool    `json:"isMoving"`
	ProjectID *string `json:"projectId,omitempty"`
}

// BatchEventRequest is the ingest payload for a batch of events.
type BatchEventRequest struct {
	Events []RawEvent `json:"events"`
}

// BatchLocationRequest is the ingest payload for a batch of location samples.
type BatchLocationRequest struct {
	Samples []LocationSample `json:"samples"`
}
