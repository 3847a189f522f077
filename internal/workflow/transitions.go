// Package workflow models the reservation lifecycle: which status changes
// are legal, for whom, and under what preconditions. Validation here runs
// before any network call; the upstream API remains authoritative and may
// still reject a legal-looking transition.
package workflow

import (
	"strings"

	"github.com/spec-kit/pharmstock-gateway/internal/domain"
	apperrors "github.com/spec-kit/pharmstock-gateway/pkg/util/errorutil"
)

// DefaultCancelReason is the fixed system reason applied when the owning
// customer cancels their own reservation.
const DefaultCancelReason = "Cancelado pelo cliente"

var managerTransitions = map[domain.ReservationStatus][]domain.ReservationStatus{
	domain.ReservationStatusPendente:  {domain.ReservationStatusAprovado, domain.ReservationStatusCancelado},
	domain.ReservationStatusAprovado:  {domain.ReservationStatusConcluido, domain.ReservationStatusCancelado},
	domain.ReservationStatusConcluido: {},
	domain.ReservationStatusCancelado: {},
}

var ownerTransitions = map[domain.ReservationStatus][]domain.ReservationStatus{
	domain.ReservationStatusPendente: {domain.ReservationStatusCancelado},
}

// AllowedTransitions returns the statuses reachable from the current one for
// the given caller class. Owner transitions apply to the reservation's owning
// customer; everything else requires a manager-class role.
func AllowedTransitions(roles domain.RoleSet, owner bool, from domain.ReservationStatus) []domain.ReservationStatus {
	if roles.ManagerClass() {
		return managerTransitions[from]
	}
	if owner && roles.Has(domain.RoleCliente) {
		return ownerTransitions[from]
	}
	return nil
}

// ValidateTransition checks legality of a requested status change before it
// is sent upstream. Terminal states are absorbing; a manager-initiated
// cancellation requires a non-empty reason.
func ValidateTransition(roles domain.RoleSet, owner bool, from, to domain.ReservationStatus, reason string) error {
	if from.IsTerminal() {
		return apperrors.NewValidationError("reservation already in a terminal status", map[string]any{
			"status": string(from),
		})
	}
	if !transitionAllowed(roles, owner, from, to) {
		return apperrors.NewValidationError("status transition not permitted", map[string]any{
			"from": string(from),
			"to":   string(to),
		})
	}
	if to == domain.ReservationStatusCancelado && roles.ManagerClass() && strings.TrimSpace(reason) == "" {
		return apperrors.NewValidationError("cancellation reason is required", nil)
	}
	return nil
}

func transitionAllowed(roles domain.RoleSet, owner bool, from, to domain.ReservationStatus) bool {
	for _, candidate := range AllowedTransitions(roles, owner, from) {
		if candidate == to {
			return true
		}
	}
	return false
}
