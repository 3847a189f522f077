package authz

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/spec-kit/pharmstock-gateway/internal/domain"
)

func identityWith(roles domain.RoleSet, userID, pharmacyID string) *domain.Identity {
	return &domain.Identity{UserID: userID, Roles: roles, PharmacyID: pharmacyID}
}

func TestCanManagePharmacy(t *testing.T) {
	admin := identityWith(domain.NewRoleSet(domain.RoleAdmin), "u-admin", "")
	gerente := identityWith(domain.NewRoleSet(domain.RoleGerente), "u-ger", "ph-1")
	farmacia := identityWith(domain.NewRoleSet(domain.RoleFarmacia), "u-far", "ph-1")
	cliente := identityWith(domain.NewRoleSet(domain.RoleCliente), "u-cli", "")
	unscoped := identityWith(domain.NewRoleSet(domain.RoleGerente), "u-ger2", "")

	assert.True(t, CanManagePharmacy(admin, "ph-1"), "admin bypasses ownership")
	assert.True(t, CanManagePharmacy(admin, "ph-999"))
	assert.True(t, CanManagePharmacy(gerente, "ph-1"))
	assert.True(t, CanManagePharmacy(farmacia, "ph-1"))
	assert.False(t, CanManagePharmacy(gerente, "ph-2"), "manager scoped to own pharmacy")
	assert.False(t, CanManagePharmacy(cliente, "ph-1"))
	assert.False(t, CanManagePharmacy(unscoped, "ph-1"), "missing pharmacyId claim never matches")
	assert.False(t, CanManagePharmacy(nil, "ph-1"))
}

func reservationAt(status domain.ReservationStatus, ownerID, pharmacyID string) *domain.Reservation {
	return &domain.Reservation{
		ID:     "res-1",
		User:   domain.ReservationUser{ID: ownerID},
		Status: status,
		Medicine: domain.ReservationMedicine{
			MedicineName: "Dipirona 500mg",
			Pharmacy:     domain.PharmacySummary{ID: pharmacyID},
		},
	}
}

func TestReservationActionsManager(t *testing.T) {
	gerente := identityWith(domain.NewRoleSet(domain.RoleGerente), "u-ger", "ph-1")

	pending := ReservationActions(gerente, reservationAt(domain.ReservationStatusPendente, "u-cli", "ph-1"))
	assert.True(t, pending.Has(ActionApprove))
	assert.True(t, pending.Has(ActionCancel))
	assert.False(t, pending.Has(ActionConclude))

	approved := ReservationActions(gerente, reservationAt(domain.ReservationStatusAprovado, "u-cli", "ph-1"))
	assert.True(t, approved.Has(ActionConclude))
	assert.True(t, approved.Has(ActionCancel))
	assert.False(t, approved.Has(ActionApprove))

	otherPharmacy := ReservationActions(gerente, reservationAt(domain.ReservationStatusPendente, "u-cli", "ph-2"))
	assert.Empty(t, otherPharmacy)
}

func TestReservationActionsTerminalYieldsNothing(t *testing.T) {
	admin := identityWith(domain.NewRoleSet(domain.RoleAdmin), "u-admin", "")
	for _, status := range []domain.ReservationStatus{domain.ReservationStatusConcluido, domain.ReservationStatusCancelado} {
		assert.Empty(t, ReservationActions(admin, reservationAt(status, "u-cli", "ph-1")))
	}
}

func TestReservationActionsOwner(t *testing.T) {
	owner := identityWith(domain.NewRoleSet(domain.RoleCliente), "u-cli", "")
	stranger := identityWith(domain.NewRoleSet(domain.RoleCliente), "u-other", "")

	set := ReservationActions(owner, reservationAt(domain.ReservationStatusPendente, "u-cli", "ph-1"))
	assert.True(t, set.Has(ActionCancelOwn))
	assert.Len(t, set, 1)

	assert.Empty(t, ReservationActions(owner, reservationAt(domain.ReservationStatusAprovado, "u-cli", "ph-1")))
	assert.Empty(t, ReservationActions(stranger, reservationAt(domain.ReservationStatusPendente, "u-cli", "ph-1")))
}

func TestStockActions(t *testing.T) {
	cliente := identityWith(domain.NewRoleSet(domain.RoleCliente), "u-cli", "")
	gerente := identityWith(domain.NewRoleSet(domain.RoleGerente), "u-ger", "ph-1")

	inStock := &domain.StockItem{MedicineID: "st-1", Quantity: 3, Pharmacy: domain.PharmacySummary{ID: "ph-1"}}
	outOfStock := &domain.StockItem{MedicineID: "st-2", Quantity: 0, Pharmacy: domain.PharmacySummary{ID: "ph-1"}}

	assert.True(t, StockActions(cliente, inStock).Has(ActionReserve))
	assert.True(t, StockActions(cliente, outOfStock).Has(ActionCreateAlert))
	assert.False(t, StockActions(cliente, outOfStock).Has(ActionReserve))

	managed := StockActions(gerente, inStock)
	assert.True(t, managed.Has(ActionEdit))
	assert.True(t, managed.Has(ActionDelete))
	assert.False(t, managed.Has(ActionReserve))
}

func TestPharmacyActions(t *testing.T) {
	admin := identityWith(domain.NewRoleSet(domain.RoleAdmin), "u-admin", "")
	gerente := identityWith(domain.NewRoleSet(domain.RoleGerente), "u-ger", "ph-1")
	cliente := identityWith(domain.NewRoleSet(domain.RoleCliente), "u-cli", "")

	own := &domain.Pharmacy{ID: "ph-1"}
	other := &domain.Pharmacy{ID: "ph-2"}

	assert.True(t, PharmacyActions(admin, other).Has(ActionDelete))

	scoped := PharmacyActions(gerente, own)
	assert.True(t, scoped.Has(ActionEdit))
	assert.False(t, scoped.Has(ActionDelete), "cross-pharmacy management stays admin-only")

	assert.Empty(t, PharmacyActions(gerente, other))
	assert.Empty(t, PharmacyActions(cliente, own))
}

func TestEmployeeActions(t *testing.T) {
	admin := identityWith(domain.NewRoleSet(domain.RoleAdmin), "u-admin", "")
	gerente := identityWith(domain.NewRoleSet(domain.RoleGerente), "u-ger", "ph-1")

	own := &domain.Employee{ID: "emp-1", PharmacyID: "ph-1"}
	other := &domain.Employee{ID: "emp-2", PharmacyID: "ph-2"}

	assert.True(t, EmployeeActions(admin, other).Has(ActionDelete))
	assert.True(t, EmployeeActions(gerente, own).Has(ActionEdit))
	assert.Empty(t, EmployeeActions(gerente, other))
	assert.Empty(t, EmployeeActions(nil, own))
}

func TestUnscopedManagerManagesNothing(t *testing.T) {
	unscoped := identityWith(domain.NewRoleSet(domain.RoleGerente), "u-ger", "")

	assert.Empty(t, EmployeeActions(unscoped, &domain.Employee{ID: "emp-1"}))
	assert.Empty(t, PharmacyActions(unscoped, &domain.Pharmacy{}))
}
