package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/pharmstock-gateway/internal/api/dto"
	"github.com/spec-kit/pharmstock-gateway/internal/auth"
	"github.com/spec-kit/pharmstock-gateway/internal/domain"
	"github.com/spec-kit/pharmstock-gateway/internal/service"
)

// ReservationsHandler exposes the reservation workflow endpoints.
type ReservationsHandler struct {
	reservations *service.ReservationService
}

// NewReservationsHandler constructs handler.
func NewReservationsHandler(reservations *service.ReservationService) *ReservationsHandler {
	return &ReservationsHandler{reservations: reservations}
}

// List handles GET /reservations.
func (h *ReservationsHandler) List(c *fiber.Ctx) error {
	identity, ok := auth.IdentityFromContext(c)
	if !ok {
		return fiber.NewError(http.StatusUnauthorized, http.StatusText(http.StatusUnauthorized))
	}
	views, err := h.reservations.List(c.UserContext(), identity)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": views})
}

// Create handles POST /reservations (multipart).
func (h *ReservationsHandler) Create(c *fiber.Ctx) error {
	identity, ok := auth.IdentityFromContext(c)
	if !ok {
		return fiber.NewError(http.StatusUnauthorized, http.StatusText(http.StatusUnauthorized))
	}

	input := service.CreateReservationInput{
		StockID:              c.FormValue("stockId"),
		RequiresPrescription: c.FormValue("requiresPrescription") == "true",
	}
	if file, err := c.FormFile("prescription"); err == nil && file != nil {
		opened, err := file.Open()
		if err != nil {
			return fiber.NewError(http.StatusBadRequest, "unreadable prescription file")
		}
		defer opened.Close()
		input.Prescription = opened
		input.PrescriptionName = file.Filename
	}

	reservation, err := h.reservations.Create(c.UserContext(), identity, input)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": reservation})
}

// UpdateStatus handles PATCH /reservations/:id/status.
func (h *ReservationsHandler) UpdateStatus(c *fiber.Ctx) error {
	identity, ok := auth.IdentityFromContext(c)
	if !ok {
		return fiber.NewError(http.StatusUnauthorized, http.StatusText(http.StatusUnauthorized))
	}

	var req dto.TransitionRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	status, valid := domain.ParseReservationStatus(req.Status)
	if !valid {
		return fiber.NewError(http.StatusBadRequest, "unknown status")
	}

	reservation, err := h.reservations.Get(c.UserContext(), identity, c.Params("id"))
	if err != nil {
		return err
	}

	updated, err := h.reservations.RequestTransition(c.UserContext(), identity, reservation, status, req.Message)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": updated})
}

// CancelOwn handles POST /reservations/:id/cancel.
func (h *ReservationsHandler) CancelOwn(c *fiber.Ctx) error {
	identity, ok := auth.IdentityFromContext(c)
	if !ok {
		return fiber.NewError(http.StatusUnauthorized, http.StatusText(http.StatusUnauthorized))
	}

	reservation, err := h.reservations.Get(c.UserContext(), identity, c.Params("id"))
	if err != nil {
		return err
	}
	if err := h.reservations.CancelOwn(c.UserContext(), identity, reservation); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}
