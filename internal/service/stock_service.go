package service

import (
	"context"
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

// StockAPI is the slice of the upstream client the stock flows need.
type StockAPI interface {
	ListStock(ctx context.Context, filter upstream.StockFilter) ([]domain.StockItem, error)
	GetStockItem(ctx context.Context, stockID string) (*domain.StockItem, error)
	CreateStockAlert(ctx context.Context, stockID, userID string) error
}

// StockService serves medicine listings annotated with the caller's derived
// action, and routes out-of-stock interest into alerts.
type StockService struct {
	api        StockAPI
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// NewStockService builds the service.
func NewStockService(api StockAPI, dispatcher events.Dispatcher, logger *zap.Logger) *StockService {
	return &StockService{api: api, dispatcher: dispatcher, logger: logger}
}

// StockView pairs a stock item with the customer-facing action derived from
// its quantity and the management actions the caller holds.
type StockView struct {
	domain.StockItem
	ClientAction workflow.ClientAction `json:"clientAction"`
	Actions      []authz.Action        `json:"actions"`
}

// List returns stock entries with per-item affordances.
func (s *StockService) List(ctx context.Context, id *domain.Identity, filter upstream.StockFilter) ([]StockView, error) {
	items, err := s.api.ListStock(ctx, filter)
	if err != nil {
		return nil, err
	}
	views := make([]StockView, 0, len(items))
	for i := range items {
		views = append(views, StockView{
			StockItem:    items[i],
			ClientAction: workflow.DeriveClientAction(items[i].Quantity),
			Actions:      actionSlice(authz.StockActions(id, &items[i])),
		})
	}
	return views, nil
}

// CreateAlert registers the caller's interest in an out-of-stock medicine.
// The stock entry is re-read upstream so the quantity gate runs against the
// stored record rather than the request payload.
func (s *StockService) CreateAlert(ctx context.Context, id *domain.Identity, stockID string) error {
	if !id.Roles.Has(domain.RoleCliente) {
		return apperrors.NewForbidden("only customers create stock alerts")
	}
	item, err := s.api.GetStockItem(ctx, stockID)
	if err != nil {
		return err
	}
	if workflow.DeriveClientAction(item.Quantity) != workflow.ClientActionCreateAlert {
		return apperrors.NewValidationError("medicine is in stock; reserve it instead", nil)
	}
	if err := s.api.CreateStockAlert(ctx, item.MedicineID, id.UserID); err != nil {
		return err
	}

	if s.dispatcher != nil {
		_ = s.dispatcher.Publish(ctx, events.Event{
			ID:        uuid.NewString(),
			Type:      events.EventStockAlertRequested,
			Actor:     actorFor(id),
			Timestamp: time.Now(),
			Payload: events.StockAlertRequestedPayload{
				StockID:      item.MedicineID,
				MedicineName: item.MedicineName,
			},
		})
	}
	return nil
}
