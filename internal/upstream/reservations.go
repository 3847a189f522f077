package upstream

import (
	"bytes"
	"context"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"

	"github.com/spec-kit/pharmstock-gateway/internal/domain"
)

// CreateReservationInput carries a reservation request. Prescription is
// required by the upstream when the medicine demands one.
type CreateReservationInput struct {
	StockID          string
	UserID           string
	Prescription     io.Reader
	PrescriptionName string
}

// CreateReservation posts a multipart reservation request.
func (c *Client) CreateReservation(ctx context.Context, input CreateReservationInput) (*domain.Reservation, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	if err := writer.WriteField("stockId", input.StockID); err != nil {
		return nil, err
	}
	if err := writer.WriteField("userId", input.UserID); err != nil {
		return nil, err
	}
	if input.Prescription != nil {
		part, err := writer.CreateFormFile("prescription", input.PrescriptionName)
		if err != nil {
			return nil, err
		}
		if _, err := io.Copy(part, input.Prescription); err != nil {
			return nil, err
		}
	}
	if err := writer.Close(); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint("/reservations", nil), bytes.NewReader(buf.Bytes()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	var reservation domain.Reservation
	if err := c.do(req, &reservation); err != nil {
		return nil, err
	}
	return &reservation, nil
}

// GetReservation fetches a single reservation.
func (c *Client) GetReservation(ctx context.Context, reservationID string) (*domain.Reservation, error) {
	var reservation domain.Reservation
	if err := c.getJSON(ctx, "/reservations/"+reservationID, nil, &reservation); err != nil {
		return nil, err
	}
	return &reservation, nil
}

// ListUserReservations returns the reservations owned by a user.
func (c *Client) ListUserReservations(ctx context.Context, userID string) ([]domain.Reservation, error) {
	query := url.Values{"userId": {userID}}
	var reservations []domain.Reservation
	if err := c.getJSON(ctx, "/reservations/user", query, &reservations); err != nil {
		return nil, err
	}
	return reservations, nil
}

// ListReservations returns all reservations visible to management roles.
func (c *Client) ListReservations(ctx context.Context) ([]domain.Reservation, error) {
	var reservations []domain.Reservation
	if err := c.getJSON(ctx, "/reservations", nil, &reservations); err != nil {
		return nil, err
	}
	return reservations, nil
}

// UpdateReservationStatus requests a status mutation. Parameters travel as
// query values per the upstream contract.
func (c *Client) UpdateReservationStatus(ctx context.Context, reservationID string, status domain.ReservationStatus, message string) (*domain.Reservation, error) {
	query := url.Values{
		"reservationId": {reservationID},
		"status":        {string(status)},
	}
	if message != "" {
		query.Set("message", message)
	}
	var reservation domain.Reservation
	if err := c.sendJSON(ctx, http.MethodPatch, "/reservations/status", query, nil, &reservation); err != nil {
		return nil, err
	}
	return &reservation, nil
}

// CancelOwnReservation cancels a reservation on behalf of its owner.
func (c *Client) CancelOwnReservation(ctx context.Context, reservationID, cancelReason string) error {
	query := url.Values{
		"reservationId": {reservationID},
		"cancelReason":  {cancelReason},
	}
	return c.sendJSON(ctx, http.MethodPatch, "/reservations/cancel", query, nil, nil)
}
