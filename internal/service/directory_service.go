package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/spec-kit/pharmstock-gateway/internal/authz"
	"github.com/spec-kit/pharmstock-gateway/internal/domain"
	apperrors "github.com/spec-kit/pharmstock-gateway/pkg/util/errorutil"
)

// DirectoryAPI is the slice of the upstream client the directory flows need.
type DirectoryAPI interface {
	ListPharmacies(ctx context.Context) ([]domain.Pharmacy, error)
	UpdatePharmacy(ctx context.Context, pharmacy domain.Pharmacy) error
	DeletePharmacy(ctx context.Context, pharmacyID string) error
	ListEmployees(ctx context.Context, pharmacyID string) ([]domain.Employee, error)
	GetEmployee(ctx context.Context, employeeID string) (*domain.Employee, error)
	CreateEmployee(ctx context.Context, employee domain.Employee) (*domain.Employee, error)
	DeleteEmployee(ctx context.Context, employeeID string) error
}

// DirectoryService serves pharmacy and employee management, gated by the
// same ownership predicate the UI uses.
type DirectoryService struct {
	api    DirectoryAPI
	logger *zap.Logger
}

// NewDirectoryService builds the service.
func NewDirectoryService(api DirectoryAPI, logger *zap.Logger) *DirectoryService {
	return &DirectoryService{api: api, logger: logger}
}

// PharmacyView pairs a pharmacy with the caller's management actions.
type PharmacyView struct {
	domain.Pharmacy
	Actions []authz.Action `json:"actions"`
}

// Pharmacies lists all pharmacies with per-record affordances.
func (s *DirectoryService) Pharmacies(ctx context.Context, id *domain.Identity) ([]PharmacyView, error) {
	pharmacies, err := s.api.ListPharmacies(ctx)
	if err != nil {
		return nil, err
	}
	views := make([]PharmacyView, 0, len(pharmacies))
	for i := range pharmacies {
		views = append(views, PharmacyView{
			Pharmacy: pharmacies[i],
			Actions:  actionSlice(authz.PharmacyActions(id, &pharmacies[i])),
		})
	}
	return views, nil
}

// UpdatePharmacy applies edits when the caller may manage the record.
func (s *DirectoryService) UpdatePharmacy(ctx context.Context, id *domain.Identity, pharmacy domain.Pharmacy) error {
	if !authz.PharmacyActions(id, &pharmacy).Has(authz.ActionEdit) {
		return apperrors.NewForbidden("pharmacy not manageable by caller")
	}
	return s.api.UpdatePharmacy(ctx, pharmacy)
}

// DeletePharmacy removes a pharmacy; cross-pharmacy deletion is admin-only.
func (s *DirectoryService) DeletePharmacy(ctx context.Context, id *domain.Identity, pharmacy domain.Pharmacy) error {
	if !authz.PharmacyActions(id, &pharmacy).Has(authz.ActionDelete) {
		return apperrors.NewForbidden("pharmacy deletion is admin-only")
	}
	return s.api.DeletePharmacy(ctx, pharmacy.ID)
}

// Employees lists staff visible to the caller: admins see all, managers see
// their own pharmacy.
func (s *DirectoryService) Employees(ctx context.Context, id *domain.Identity) ([]domain.Employee, error) {
	switch {
	case id.Roles.Has(domain.RoleAdmin):
		return s.api.ListEmployees(ctx, "")
	case id.Roles.Has(domain.RoleGerente):
		return s.api.ListEmployees(ctx, id.PharmacyID)
	default:
		return nil, apperrors.NewForbidden("employee directory requires a management role")
	}
}

// CreateEmployee registers staff. Managers may only hire into their own
// pharmacy; the scope is forced rather than trusted from input.
func (s *DirectoryService) CreateEmployee(ctx context.Context, id *domain.Identity, employee domain.Employee) (*domain.Employee, error) {
	switch {
	case id.Roles.Has(domain.RoleAdmin):
	case id.Roles.Has(domain.RoleGerente):
		employee.PharmacyID = id.PharmacyID
	default:
		return nil, apperrors.NewForbidden("employee creation requires a management role")
	}
	return s.api.CreateEmployee(ctx, employee)
}

// DeleteEmployee removes staff within the caller's scope. The record is
// resolved upstream first so the ownership check runs against the stored
// pharmacy scope, not anything the caller sent.
func (s *DirectoryService) DeleteEmployee(ctx context.Context, id *domain.Identity, employeeID string) error {
	employee, err := s.api.GetEmployee(ctx, employeeID)
	if err != nil {
		return err
	}
	if !authz.EmployeeActions(id, employee).Has(authz.ActionDelete) {
		return apperrors.NewForbidden("employee not manageable by caller")
	}
	return s.api.DeleteEmployee(ctx, employee.ID)
}
