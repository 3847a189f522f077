package upstream

import (
	"context"
	"net/http"
	"net/url"

	"github.com/spec-kit/pharmstock-gateway/internal/domain"
)

// StockFilter narrows medicine listings.
type StockFilter struct {
	Search     string
	Category   string
	PharmacyID string
}

// ListStock returns medicine stock entries.
func (c *Client) ListStock(ctx context.Context, filter StockFilter) ([]domain.StockItem, error) {
	query := url.Values{}
	if filter.Search != "" {
		query.Set("search", filter.Search)
	}
	if filter.Category != "" {
		query.Set("category", filter.Category)
	}
	if filter.PharmacyID != "" {
		query.Set("pharmacyId", filter.PharmacyID)
	}
	var items []domain.StockItem
	if err := c.getJSON(ctx, "/medicines", query, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// GetStockItem fetches a single stock entry by id.
func (c *Client) GetStockItem(ctx context.Context, stockID string) (*domain.StockItem, error) {
	var item domain.StockItem
	if err := c.getJSON(ctx, "/medicines/"+stockID, nil, &item); err != nil {
		return nil, err
	}
	return &item, nil
}

// CreateStockAlert registers interest in an out-of-stock medicine.
func (c *Client) CreateStockAlert(ctx context.Context, stockID, userID string) error {
	body := map[string]string{"stockId": stockID, "userId": userID}
	return c.sendJSON(ctx, http.MethodPost, "/alerts", nil, body, nil)
}
