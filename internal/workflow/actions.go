package workflow

// ClientAction is the customer-facing affordance derived from stock levels.
type ClientAction string

const (
	ClientActionReserve     ClientAction = "RESERVE"
	ClientActionCreateAlert ClientAction = "CREATE_ALERT"
)

// DeriveClientAction routes the customer to "reserve" or "create alert"
// based on available quantity. The upstream still validates at
// reservation-creation time; this only drives the initial UI decision.
func DeriveClientAction(stockQuantity int) ClientAction {
	if stockQuantity == 0 {
		return ClientActionCreateAlert
	}
	return ClientActionReserve
}
