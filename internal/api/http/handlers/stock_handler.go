package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/pharmstock-gateway/internal/api/dto"
	"github.com/spec-kit/pharmstock-gateway/internal/auth"
	"github.com/spec-kit/pharmstock-gateway/internal/service"
	"github.com/spec-kit/pharmstock-gateway/internal/upstream"
)

// StockHandler exposes medicine listings and stock alerts.
type StockHandler struct {
	stock *service.StockService
}

// NewStockHandler constructs handler.
func NewStockHandler(stock *service.StockService) *StockHandler {
	return &StockHandler{stock: stock}
}

// List handles GET /medicines.
func (h *StockHandler) List(c *fiber.Ctx) error {
	identity, ok := auth.IdentityFromContext(c)
	if !ok {
		return fiber.NewError(http.StatusUnauthorized, http.StatusText(http.StatusUnauthorized))
	}

	views, err := h.stock.List(c.UserContext(), identity, upstream.StockFilter{
		Search:     c.Query("search"),
		Category:   c.Query("category"),
		PharmacyID: c.Query("pharmacyId"),
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": views})
}

// CreateAlert handles POST /medicines/alerts.
func (h *StockHandler) CreateAlert(c *fiber.Ctx) error {
	identity, ok := auth.IdentityFromContext(c)
	if !ok {
		return fiber.NewError(http.StatusUnauthorized, http.StatusText(http.StatusUnauthorized))
	}

	var req dto.StockAlertRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if req.StockID == "" {
		return fiber.NewError(http.StatusBadRequest, "stockId required")
	}

	if err := h.stock.CreateAlert(c.UserContext(), identity, req.StockID); err != nil {
		return err
	}
	return c.SendStatus(http.StatusCreated)
}
