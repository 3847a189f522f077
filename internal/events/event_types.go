package events

import (
	"time"

	"github.com/spec-kit/pharmstock-gateway/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventReservationCreated       EventType = "reservation_created"
	EventReservationStatusChanged EventType = "reservation_status_changed"
	EventStockAlertRequested      EventType = "stock_alert_requested"
	EventSessionRevoked           EventType = "session_revoked"
)

// Actor encapsulates actor metadata for an event.
type Actor struct {
	UserID string        `json:"user_id"`
	Roles  []domain.Role `json:"roles,omitempty"`
}

// Event represents a domain event emitted by services.
type Event struct {
	ID            string      `json:"id"`
	Type          EventType   `json:"type"`
	ReservationID string      `json:"reservation_id,omitempty"`
	Actor         Actor       `json:"actor"`
	Timestamp     time.Time   `json:"timestamp"`
	Payload       interface{} `json:"payload"`
}

// ReservationCreatedPayload payload.
type ReservationCreatedPayload struct {
	StockID              string `json:"stock_id"`
	MedicineName         string `json:"medicine_name"`
	RequiresPrescription bool   `json:"requires_prescription"`
	Protocol             string `json:"protocol,omitempty"`
}

// ReservationStatusChangedPayload payload.
type ReservationStatusChangedPayload struct {
	OldStatus domain.ReservationStatus `json:"old_status"`
	NewStatus domain.ReservationStatus `json:"new_status"`
	Reason    string                   `json:"reason,omitempty"`
}

// StockAlertRequestedPayload payload.
type StockAlertRequestedPayload struct {
	StockID      string `json:"stock_id"`
	MedicineName string `json:"medicine_name"`
}

// SessionRevokedPayload payload.
type SessionRevokedPayload struct {
	SessionID string `json:"session_id"`
	Cause     string `json:"cause"`
}
