package domain

import "time"

// ReservationStatus enumerates lifecycle states for medicine reservations.
// State names follow the upstream API's wire values.
type ReservationStatus string

const (
	ReservationStatusPendente  ReservationStatus = "pendente"
	ReservationStatusAprovado  ReservationStatus = "aprovado"
	ReservationStatusConcluido ReservationStatus = "concluido"
	ReservationStatusCancelado ReservationStatus = "cancelado"
)

// IsTerminal reports whether the status permits no further transitions.
func (s ReservationStatus) IsTerminal() bool {
	return s == ReservationStatusConcluido || s == ReservationStatusCancelado
}

// ParseReservationStatus validates a raw status value.
func ParseReservationStatus(raw string) (ReservationStatus, bool) {
	switch ReservationStatus(raw) {
	case ReservationStatusPendente, ReservationStatusAprovado,
		ReservationStatusConcluido, ReservationStatusCancelado:
		return ReservationStatus(raw), true
	default:
		return "", false
	}
}

// ReservationUser identifies the customer who placed a reservation.
type ReservationUser struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// ReservationMedicine is the medicine snapshot embedded in a reservation.
type ReservationMedicine struct {
	MedicineName         string          `json:"medicineName"`
	RequiresPrescription bool            `json:"requiresPrescription"`
	Pharmacy             PharmacySummary `json:"pharmacy"`
}

// PharmacySummary is the pharmacy reference carried by nested resources.
type PharmacySummary struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Reservation is a customer's hold on a medicine stock item.
// PrescriptionURL is meaningful only when the medicine requires a
// prescription; otherwise a generated Protocol token stands in.
type Reservation struct {
	ID              string              `json:"id"`
	User            ReservationUser     `json:"user"`
	Medicine        ReservationMedicine `json:"medicine"`
	Status          ReservationStatus   `json:"status"`
	PrescriptionURL string              `json:"prescriptionUrl,omitempty"`
	Protocol        string              `json:"protocol,omitempty"`
	ExpirationDate  time.Time           `json:"expirationDate"`
}

// OwnedBy reports whether the reservation belongs to the given user.
func (r *Reservation) OwnedBy(userID string) bool {
	return r.User.ID == userID
}
