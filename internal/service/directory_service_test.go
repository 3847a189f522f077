package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/pharmstock-gateway/internal/authz"
	"github.com/spec-kit/pharmstock-gateway/internal/domain"
	apperrors "github.com/spec-kit/pharmstock-gateway/pkg/util/errorutil"
)

type fakeDirectoryAPI struct {
	pharmacies     []domain.Pharmacy
	employees      []domain.Employee
	employee       *domain.Employee
	lastScope      string
	createdEmp     *domain.Employee
	deletedPh      string
	deletedEmp     string
	updateReceived *domain.Pharmacy
}

func (f *fakeDirectoryAPI) ListPharmacies(context.Context) ([]domain.Pharmacy, error) {
	return f.pharmacies, nil
}

func (f *fakeDirectoryAPI) UpdatePharmacy(_ context.Context, pharmacy domain.Pharmacy) error {
	f.updateReceived = &pharmacy
	return nil
}

func (f *fakeDirectoryAPI) DeletePharmacy(_ context.Context, pharmacyID string) error {
	f.deletedPh = pharmacyID
	return nil
}

func (f *fakeDirectoryAPI) ListEmployees(_ context.Context, pharmacyID string) ([]domain.Employee, error) {
	f.lastScope = pharmacyID
	return f.employees, nil
}

func (f *fakeDirectoryAPI) GetEmployee(_ context.Context, employeeID string) (*domain.Employee, error) {
	if f.employee == nil || f.employee.ID != employeeID {
		return nil, apperrors.NewNotFound("employee", nil)
	}
	return f.employee, nil
}

func (f *fakeDirectoryAPI) CreateEmployee(_ context.Context, employee domain.Employee) (*domain.Employee, error) {
	f.createdEmp = &employee
	return &employee, nil
}

func (f *fakeDirectoryAPI) DeleteEmployee(_ context.Context, employeeID string) error {
	f.deletedEmp = employeeID
	return nil
}

func TestPharmacyViewsCarryScopedActions(t *testing.T) {
	api := &fakeDirectoryAPI{pharmacies: []domain.Pharmacy{{ID: "ph-1"}, {ID: "ph-2"}}}
	svc := NewDirectoryService(api, zap.NewNop())

	views, err := svc.Pharmacies(context.Background(), gerenteIdentity("u-ger", "ph-1"))
	require.NoError(t, err)
	require.Len(t, views, 2)
	assert.Contains(t, views[0].Actions, authz.ActionEdit)
	assert.Empty(t, views[1].Actions)
}

func TestUpdatePharmacyOutsideScope(t *testing.T) {
	api := &fakeDirectoryAPI{}
	svc := NewDirectoryService(api, zap.NewNop())

	err := svc.UpdatePharmacy(context.Background(), gerenteIdentity("u-ger", "ph-1"), domain.Pharmacy{ID: "ph-2"})
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, "FORBIDDEN"))
	assert.Nil(t, api.updateReceived)
}

func TestDeletePharmacyAdminOnly(t *testing.T) {
	api := &fakeDirectoryAPI{}
	svc := NewDirectoryService(api, zap.NewNop())

	err := svc.DeletePharmacy(context.Background(), gerenteIdentity("u-ger", "ph-1"), domain.Pharmacy{ID: "ph-1"})
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, "FORBIDDEN"))

	admin := &domain.Identity{UserID: "u-admin", Roles: domain.NewRoleSet(domain.RoleAdmin)}
	require.NoError(t, svc.DeletePharmacy(context.Background(), admin, domain.Pharmacy{ID: "ph-1"}))
	assert.Equal(t, "ph-1", api.deletedPh)
}

func TestEmployeesScopedToManagerPharmacy(t *testing.T) {
	api := &fakeDirectoryAPI{}
	svc := NewDirectoryService(api, zap.NewNop())

	_, err := svc.Employees(context.Background(), gerenteIdentity("u-ger", "ph-1"))
	require.NoError(t, err)
	assert.Equal(t, "ph-1", api.lastScope)

	admin := &domain.Identity{UserID: "u-admin", Roles: domain.NewRoleSet(domain.RoleAdmin)}
	_, err = svc.Employees(context.Background(), admin)
	require.NoError(t, err)
	assert.Equal(t, "", api.lastScope, "admin listing is unscoped")

	_, err = svc.Employees(context.Background(), clienteIdentity("u-cli"))
	assert.True(t, apperrors.IsCode(err, "FORBIDDEN"))
}

func TestCreateEmployeeForcesManagerScope(t *testing.T) {
	api := &fakeDirectoryAPI{}
	svc := NewDirectoryService(api, zap.NewNop())

	created, err := svc.CreateEmployee(context.Background(), gerenteIdentity("u-ger", "ph-1"), domain.Employee{
		Name:       "New Hire",
		PharmacyID: "ph-999",
	})
	require.NoError(t, err)
	assert.Equal(t, "ph-1", created.PharmacyID, "manager cannot hire into another pharmacy")
}

func TestDeleteEmployeeUsesStoredScope(t *testing.T) {
	api := &fakeDirectoryAPI{employee: &domain.Employee{ID: "emp-1", PharmacyID: "ph-2"}}
	svc := NewDirectoryService(api, zap.NewNop())

	err := svc.DeleteEmployee(context.Background(), gerenteIdentity("u-ger", "ph-1"), "emp-1")
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, "FORBIDDEN"))
	assert.Empty(t, api.deletedEmp, "delete must not reach the upstream")
}

func TestDeleteEmployeeWithinScope(t *testing.T) {
	api := &fakeDirectoryAPI{employee: &domain.Employee{ID: "emp-1", PharmacyID: "ph-1"}}
	svc := NewDirectoryService(api, zap.NewNop())

	require.NoError(t, svc.DeleteEmployee(context.Background(), gerenteIdentity("u-ger", "ph-1"), "emp-1"))
	assert.Equal(t, "emp-1", api.deletedEmp)
}

func TestDeleteEmployeeUnknownRecord(t *testing.T) {
	api := &fakeDirectoryAPI{}
	svc := NewDirectoryService(api, zap.NewNop())

	err := svc.DeleteEmployee(context.Background(), gerenteIdentity("u-ger", "ph-1"), "emp-missing")
	assert.True(t, apperrors.IsCode(err, "NOT_FOUND"))
	assert.Empty(t, api.deletedEmp)
}
