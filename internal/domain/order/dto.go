package order

// CreateOrderRequest carries a fully snapshotted order. The server re-computes
// and stores the total from the submitted line items.
type CreateOrderRequest struct {
	ClientName string     `json:"client_name" binding:"required"`
	Items      []LineItem `json:"items" binding:"required"`
	Status     string     `json:"status"`
}
