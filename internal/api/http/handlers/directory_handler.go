package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/pharmstock-gateway/internal/auth"
	"github.com/spec-kit/pharmstock-gateway/internal/domain"
	"github.com/spec-kit/pharmstock-gateway/internal/service"
)

// DirectoryHandler exposes pharmacy and employee management.
type DirectoryHandler struct {
	directory *service.DirectoryService
}

// NewDirectoryHandler constructs handler.
func NewDirectoryHandler(directory *service.DirectoryService) *DirectoryHandler {
	return &DirectoryHandler{directory: directory}
}

// ListPharmacies handles GET /pharmacies.
func (h *DirectoryHandler) ListPharmacies(c *fiber.Ctx) error {
	identity, ok := auth.IdentityFromContext(c)
	if !ok {
		return fiber.NewError(http.StatusUnauthorized, http.StatusText(http.StatusUnauthorized))
	}
	views, err := h.directory.Pharmacies(c.UserContext(), identity)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": views})
}

// UpdatePharmacy handles PUT /pharmacies/:id.
func (h *DirectoryHandler) UpdatePharmacy(c *fiber.Ctx) error {
	identity, ok := auth.IdentityFromContext(c)
	if !ok {
		return fiber.NewError(http.StatusUnauthorized, http.StatusText(http.StatusUnauthorized))
	}

	var pharmacy domain.Pharmacy
	if err := c.BodyParser(&pharmacy); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	pharmacy.ID = c.Params("id")

	if err := h.directory.UpdatePharmacy(c.UserContext(), identity, pharmacy); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": pharmacy})
}

// DeletePharmacy handles DELETE /pharmacies/:id.
func (h *DirectoryHandler) DeletePharmacy(c *fiber.Ctx) error {
	identity, ok := auth.IdentityFromContext(c)
	if !ok {
		return fiber.NewError(http.StatusUnauthorized, http.StatusText(http.StatusUnauthorized))
	}
	pharmacy := domain.Pharmacy{ID: c.Params("id")}
	if err := h.directory.DeletePharmacy(c.UserContext(), identity, pharmacy); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

// ListEmployees handles GET /employees.
func (h *DirectoryHandler) ListEmployees(c *fiber.Ctx) error {
	identity, ok := auth.IdentityFromContext(c)
	if !ok {
		return fiber.NewError(http.StatusUnauthorized, http.StatusText(http.StatusUnauthorized))
	}
	employees, err := h.directory.Employees(c.UserContext(), identity)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": employees})
}

// CreateEmployee handles POST /employees.
func (h *DirectoryHandler) CreateEmployee(c *fiber.Ctx) error {
	identity, ok := auth.IdentityFromContext(c)
	if !ok {
		return fiber.NewError(http.StatusUnauthorized, http.StatusText(http.StatusUnauthorized))
	}

	var employee domain.Employee
	if err := c.BodyParser(&employee); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if employee.Name == "" || employee.Email == "" {
		return fiber.NewError(http.StatusBadRequest, "name and email required")
	}

	created, err := h.directory.CreateEmployee(c.UserContext(), identity, employee)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": created})
}

// DeleteEmployee handles DELETE /employees/:id.
func (h *DirectoryHandler) DeleteEmployee(c *fiber.Ctx) error {
	identity, ok := auth.IdentityFromContext(c)
	if !ok {
		return fiber.NewError(http.StatusUnauthorized, http.StatusText(http.StatusUnauthorized))
	}

	if err := h.directory.DeleteEmployee(c.UserContext(), identity, c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}
