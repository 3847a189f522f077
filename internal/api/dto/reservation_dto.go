package dto

// TransitionRequest payload for a status mutation.
type TransitionRequest struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// StockAlertRequest payload for declaring interest in an out-of-stock item.
// Only the id is taken from the client; the current stock record is resolved
// server-side before the alert is created.
type StockAlertRequest struct {
	StockID string `json:"stockId"`
}
