package service

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/pharmstock-gateway/internal/authz"
	"github.com/spec-kit/pharmstock-gateway/internal/domain"
	"github.com/spec-kit/pharmstock-gateway/internal/events"
	"github.com/spec-kit/pharmstock-gateway/internal/upstream"
	"github.com/spec-kit/pharmstock-gateway/internal/workflow"
	apperrors "github.com/spec-kit/pharmstock-gateway/pkg/util/errorutil"
)

// ReservationAPI is the slice of the upstream client the reservation flows need.
type ReservationAPI interface {
	CreateReservation(ctx context.Context, input upstream.CreateReservationInput) (*domain.Reservation, error)
	GetReservation(ctx context.Context, reservationID string) (*domain.Reservation, error)
	ListUserReservations(ctx context.Context, userID string) ([]domain.Reservation, error)
	ListReservations(ctx context.Context) ([]domain.Reservation, error)
	UpdateReservationStatus(ctx context.Context, reservationID string, status domain.ReservationStatus, message string) (*domain.Reservation, error)
	CancelOwnReservation(ctx context.Context, reservationID, cancelReason string) error
}

// ReservationService coordinates the reservation status workflow: client-side
// legality checks run before any upstream call, and the upstream's verdict is
// final (no optimistic state survives a rejection).
type ReservationService struct {
	api        ReservationAPI
	guard      *workflow.InflightGuard
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// NewReservationService builds the service.
func NewReservationService(api ReservationAPI, dispatcher events.Dispatcher, logger *zap.Logger) *ReservationService {
	return &ReservationService{
		api:        api,
		guard:      workflow.NewInflightGuard(),
		dispatcher: dispatcher,
		logger:     logger,
	}
}

// ReservationView pairs a reservation with the actions the caller may take
// on it.
type ReservationView struct {
	domain.Reservation
	Actions []authz.Action `json:"actions"`
}

// CreateReservationInput carries a customer's reservation request.
type CreateReservationInput struct {
	StockID              string
	RequiresPrescription bool
	Prescription         io.Reader
	PrescriptionName     string
}

// List returns the reservations visible to the caller: customers see their
// own, managers see their pharmacy's, admins see everything.
func (s *ReservationService) List(ctx context.Context, id *domain.Identity) ([]ReservationView, error) {
	var (
		reservations []domain.Reservation
		err          error
	)
	switch {
	case id.Roles.ManagerClass():
		reservations, err = s.api.ListReservations(ctx)
		if err == nil && !id.Roles.Has(domain.RoleAdmin) {
			reservations = filterByPharmacy(reservations, id.PharmacyID)
		}
	case id.Roles.Has(domain.RoleCliente):
		reservations, err = s.api.ListUserReservations(ctx, id.UserID)
	default:
		return nil, apperrors.NewForbidden("no role grants reservation access")
	}
	if err != nil {
		return nil, err
	}

	views := make([]ReservationView, 0, len(reservations))
	for i := range reservations {
		views = append(views, ReservationView{
			Reservation: reservations[i],
			Actions:     actionSlice(authz.ReservationActions(id, &reservations[i])),
		})
	}
	return views, nil
}

// Get fetches one reservation, enforcing visibility.
func (s *ReservationService) Get(ctx context.Context, id *domain.Identity, reservationID string) (*domain.Reservation, error) {
	reservation, err := s.api.GetReservation(ctx, reservationID)
	if err != nil {
		return nil, err
	}
	if !s.visible(id, reservation) {
		return nil, apperrors.NewForbidden("reservation not accessible")
	}
	return reservation, nil
}

// Create places a reservation. A prescription file is mandatory when the
// medicine requires one; otherwise a generated protocol token stands in.
func (s *ReservationService) Create(ctx context.Context, id *domain.Identity, input CreateReservationInput) (*domain.Reservation, error) {
	if !id.Roles.Has(domain.RoleCliente) {
		return nil, apperrors.NewForbidden("only customers place reservations")
	}
	if strings.TrimSpace(input.StockID) == "" {
		return nil, apperrors.NewValidationError("stockId is required", nil)
	}
	if input.RequiresPrescription && input.Prescription == nil {
		return nil, apperrors.NewValidationError("prescription file is required for this medicine", nil)
	}

	reservation, err := s.api.CreateReservation(ctx, upstream.CreateReservationInput{
		StockID:          input.StockID,
		UserID:           id.UserID,
		Prescription:     input.Prescription,
		PrescriptionName: input.PrescriptionName,
	})
	if err != nil {
		return nil, err
	}
	if !input.RequiresPrescription && reservation.Protocol == "" {
		reservation.Protocol = generateProtocol()
	}

	s.publish(ctx, events.Event{
		Type:          events.EventReservationCreated,
		ReservationID: reservation.ID,
		Actor:         actorFor(id),
		Payload: events.ReservationCreatedPayload{
			StockID:              input.StockID,
			MedicineName:         reservation.Medicine.MedicineName,
			RequiresPrescription: input.RequiresPrescription,
			Protocol:             reservation.Protocol,
		},
	})
	return reservation, nil
}

// RequestTransition validates a status change client-side and, only when
// legal, forwards it upstream. Illegal requests never reach the network.
func (s *ReservationService) RequestTransition(ctx context.Context, id *domain.Identity, reservation *domain.Reservation, to domain.ReservationStatus, reason string) (*domain.Reservation, error) {
	owner := reservation.OwnedBy(id.UserID)

	if id.Roles.ManagerClass() {
		if !authz.CanManagePharmacy(id, reservation.Medicine.Pharmacy.ID) {
			return nil, apperrors.NewForbidden("reservation outside your pharmacy")
		}
	} else if !owner {
		return nil, apperrors.NewForbidden("reservation not owned by caller")
	}

	if err := workflow.ValidateTransition(id.Roles, owner, reservation.Status, to, reason); err != nil {
		return nil, err
	}

	updated, err := s.api.UpdateReservationStatus(ctx, reservation.ID, to, reason)
	if err != nil {
		return nil, asTransitionError(err)
	}

	s.publish(ctx, events.Event{
		Type:          events.EventReservationStatusChanged,
		ReservationID: reservation.ID,
		Actor:         actorFor(id),
		Payload: events.ReservationStatusChangedPayload{
			OldStatus: reservation.Status,
			NewStatus: updated.Status,
			Reason:    reason,
		},
	})
	return updated, nil
}

// CancelOwn cancels the caller's own pending reservation with the fixed
// system reason. A duplicate submission while the first is outstanding is a
// no-op; the upstream still rejects duplicates on its side.
func (s *ReservationService) CancelOwn(ctx context.Context, id *domain.Identity, reservation *domain.Reservation) error {
	if !id.Roles.Has(domain.RoleCliente) || !reservation.OwnedBy(id.UserID) {
		return apperrors.NewForbidden("reservation not owned by caller")
	}
	if err := workflow.ValidateTransition(id.Roles, true, reservation.Status, domain.ReservationStatusCancelado, workflow.DefaultCancelReason); err != nil {
		return err
	}

	if !s.guard.Begin(reservation.ID) {
		s.logger.Debug("duplicate cancel suppressed", zap.String("reservation_id", reservation.ID))
		return nil
	}
	defer s.guard.End(reservation.ID)

	if err := s.api.CancelOwnReservation(ctx, reservation.ID, workflow.DefaultCancelReason); err != nil {
		return asTransitionError(err)
	}

	s.publish(ctx, events.Event{
		Type:          events.EventReservationStatusChanged,
		ReservationID: reservation.ID,
		Actor:         actorFor(id),
		Payload: events.ReservationStatusChangedPayload{
			OldStatus: reservation.Status,
			NewStatus: domain.ReservationStatusCancelado,
			Reason:    workflow.DefaultCancelReason,
		},
	})
	return nil
}

func (s *ReservationService) visible(id *domain.Identity, reservation *domain.Reservation) bool {
	if id.Roles.Has(domain.RoleAdmin) {
		return true
	}
	if id.Roles.ManagerClass() {
		return authz.CanManagePharmacy(id, reservation.Medicine.Pharmacy.ID)
	}
	return reservation.OwnedBy(id.UserID)
}

func (s *ReservationService) publish(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	_ = s.dispatcher.Publish(ctx, event)
}

// asTransitionError reframes an upstream refusal of a status change. The
// upstream message is surfaced verbatim; auth failures pass through so the
// session layer can react.
func asTransitionError(err error) error {
	var domainErr *apperrors.DomainError
	if !errors.As(err, &domainErr) {
		return err
	}
	if domainErr.Code == "UNAUTHENTICATED" || domainErr.HTTPStatus < http.StatusBadRequest || domainErr.HTTPStatus >= http.StatusInternalServerError {
		return err
	}
	return apperrors.NewTransitionRejected(domainErr.Message, err)
}

func filterByPharmacy(reservations []domain.Reservation, pharmacyID string) []domain.Reservation {
	scoped := make([]domain.Reservation, 0, len(reservations))
	for _, r := range reservations {
		if r.Medicine.Pharmacy.ID == pharmacyID {
			scoped = append(scoped, r)
		}
	}
	return scoped
}

func actionSlice(set authz.ActionSet) []authz.Action {
	ordered := []authz.Action{
		authz.ActionApprove, authz.ActionConclude, authz.ActionCancel,
		authz.ActionCancelOwn, authz.ActionReserve, authz.ActionCreateAlert,
		authz.ActionEdit, authz.ActionDelete,
	}
	out := make([]authz.Action, 0, len(set))
	for _, action := range ordered {
		if set.Has(action) {
			out = append(out, action)
		}
	}
	return out
}

func actorFor(id *domain.Identity) events.Actor {
	return events.Actor{UserID: id.UserID, Roles: id.Roles.Slice()}
}

func generateProtocol() string {
	return "RSV-" + strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
}
