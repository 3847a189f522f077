package upstream

import (
	"context"
	"net/http"
	"net/url"

	"github.com/spec-kit/pharmstock-gateway/internal/domain"
)

// ListPharmacies returns all registered pharmacies.
func (c *Client) ListPharmacies(ctx context.Context) ([]domain.Pharmacy, error) {
	var pharmacies []domain.Pharmacy
	if err := c.getJSON(ctx, "/pharmacies", nil, &pharmacies); err != nil {
		return nil, err
	}
	return pharmacies, nil
}

// UpdatePharmacy pushes edits to a pharmacy record.
func (c *Client) UpdatePharmacy(ctx context.Context, pharmacy domain.Pharmacy) error {
	return c.sendJSON(ctx, http.MethodPut, "/pharmacies/"+pharmacy.ID, nil, pharmacy, nil)
}

// DeletePharmacy removes a pharmacy record.
func (c *Client) DeletePharmacy(ctx context.Context, pharmacyID string) error {
	return c.sendJSON(ctx, http.MethodDelete, "/pharmacies/"+pharmacyID, nil, nil, nil)
}

// ListEmployees returns employees, optionally scoped to a pharmacy.
func (c *Client) ListEmployees(ctx context.Context, pharmacyID string) ([]domain.Employee, error) {
	query := url.Values{}
	if pharmacyID != "" {
		query.Set("pharmacyId", pharmacyID)
	}
	var employees []domain.Employee
	if err := c.getJSON(ctx, "/employees", query, &employees); err != nil {
		return nil, err
	}
	return employees, nil
}

// GetEmployee fetches a single staff record by id.
func (c *Client) GetEmployee(ctx context.Context, employeeID string) (*domain.Employee, error) {
	var employee domain.Employee
	if err := c.getJSON(ctx, "/employees/"+employeeID, nil, &employee); err != nil {
		return nil, err
	}
	return &employee, nil
}

// CreateEmployee registers a staff member for a pharmacy.
func (c *Client) CreateEmployee(ctx context.Context, employee domain.Employee) (*domain.Employee, error) {
	var created domain.Employee
	if err := c.sendJSON(ctx, http.MethodPost, "/employees", nil, employee, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// DeleteEmployee removes a staff member.
func (c *Client) DeleteEmployee(ctx context.Context, employeeID string) error {
	return c.sendJSON(ctx, http.MethodDelete, "/employees/"+employeeID, nil, nil, nil)
}
