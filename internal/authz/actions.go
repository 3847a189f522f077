// Package authz centralizes the role-gating predicate used across the
// dashboard: given the caller's identity and a resource, which actions are
// visible. It is pure and carries no dependency on the HTTP layer.
package authz

import (
	"github.com/spec-kit/pharmstock-gateway/internal/domain"
)

// Action identifies a user-visible affordance.
type Action string

const (
	ActionApprove     Action = "approve"
	ActionConclude    Action = "conclude"
	ActionCancel      Action = "cancel"
	ActionCancelOwn   Action = "cancel_own"
	ActionReserve     Action = "reserve"
	ActionCreateAlert Action = "create_alert"
	ActionEdit        Action = "edit"
	ActionDelete      Action = "delete"
)

// ActionSet is the set of actions offered to the caller.
type ActionSet map[Action]struct{}

// Has reports membership.
func (s ActionSet) Has(action Action) bool {
	_, ok := s[action]
	return ok
}

func newActionSet(actions ...Action) ActionSet {
	set := make(ActionSet, len(actions))
	for _, a := range actions {
		set[a] = struct{}{}
	}
	return set
}

// CanManagePharmacy reports whether the identity may perform management
// actions scoped to the given pharmacy. ADMIN bypasses the ownership check;
// GERENTE and FARMACIA act only on their own pharmacy, keyed by the
// pharmacyId claim.
func CanManagePharmacy(id *domain.Identity, pharmacyID string) bool {
	if id == nil {
		return false
	}
	if id.Roles.Has(domain.RoleAdmin) {
		return true
	}
	if !id.Roles.Has(domain.RoleGerente) && !id.Roles.Has(domain.RoleFarmacia) {
		return false
	}
	return id.PharmacyID != "" && id.PharmacyID == pharmacyID
}

// ReservationActions computes the transition affordances for a reservation.
// Terminal reservations yield no actions for anyone: the UI shows a static
// status label instead.
func ReservationActions(id *domain.Identity, res *domain.Reservation) ActionSet {
	set := newActionSet()
	if id == nil || res == nil || res.Status.IsTerminal() {
		return set
	}

	if CanManagePharmacy(id, res.Medicine.Pharmacy.ID) {
		switch res.Status {
		case domain.ReservationStatusPendente:
			set[ActionApprove] = struct{}{}
			set[ActionCancel] = struct{}{}
		case domain.ReservationStatusAprovado:
			set[ActionConclude] = struct{}{}
			set[ActionCancel] = struct{}{}
		}
		return set
	}

	if id.Roles.Has(domain.RoleCliente) && res.OwnedBy(id.UserID) &&
		res.Status == domain.ReservationStatusPendente {
		set[ActionCancelOwn] = struct{}{}
	}
	return set
}

// StockActions computes the customer-facing action for a stock item. A zero
// quantity routes to alert creation instead of reservation. Management roles
// see edit/delete within their pharmacy scope.
func StockActions(id *domain.Identity, item *domain.StockItem) ActionSet {
	set := newActionSet()
	if id == nil || item == nil {
		return set
	}
	if CanManagePharmacy(id, item.Pharmacy.ID) {
		set[ActionEdit] = struct{}{}
		set[ActionDelete] = struct{}{}
		return set
	}
	if id.Roles.Has(domain.RoleCliente) {
		if item.Quantity == 0 {
			set[ActionCreateAlert] = struct{}{}
		} else {
			set[ActionReserve] = struct{}{}
		}
	}
	return set
}

// PharmacyActions computes management affordances on a pharmacy record.
// Cross-pharmacy management stays ADMIN-only.
func PharmacyActions(id *domain.Identity, pharmacy *domain.Pharmacy) ActionSet {
	set := newActionSet()
	if id == nil || pharmacy == nil {
		return set
	}
	if id.Roles.Has(domain.RoleAdmin) {
		set[ActionEdit] = struct{}{}
		set[ActionDelete] = struct{}{}
		return set
	}
	if id.Roles.Has(domain.RoleGerente) && CanManagePharmacy(id, pharmacy.ID) {
		set[ActionEdit] = struct{}{}
	}
	return set
}

// EmployeeActions computes management affordances on an employee record.
func EmployeeActions(id *domain.Identity, employee *domain.Employee) ActionSet {
	set := newActionSet()
	if id == nil || employee == nil {
		return set
	}
	if id.Roles.Has(domain.RoleAdmin) ||
		(id.Roles.Has(domain.RoleGerente) && CanManagePharmacy(id, employee.PharmacyID)) {
		set[ActionEdit] = struct{}{}
		set[ActionDelete] = struct{}{}
	}
	return set
}
