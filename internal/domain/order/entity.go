package order

import "time"

// LineItem is a denormalized snapshot of a product at order time. The unit
// price is copied, not referenced: later price changes must not affect a
// placed order.
type LineItem struct {
	ProductName string  `json:"product_name"`
	Qty         int     `json:"qty"`
	UnitPrice   float64 `json:"unit_price"`
}

// Order embeds the client display name and line-item snapshot. Total is
// computed once at creation and stored redundantly.
type Order struct {
	ID         int64      `json:"id" db:"id"`
	Reference  string     `json:"reference" db:"reference"`
	ClientName string     `json:"client_name" db:"client_name"`
	Items      []LineItem `json:"items" db:"items"`
	Total      float64    `json:"total" db:"total"`
	Status     string     `json:"status" db:"status"` // Paid, Pending
	PlacedOn   time.Time  `json:"placed_on" db:"placed_on"`
	CreatedAt  time.Time  `json:"created_at" db:"created_at"`
}

const (
	StatusPaid    = "Paid"
	StatusPending = "Pending"
)

// ComputeTotal sums qty times unit price over the line items.
func ComputeTotal(items []LineItem) float64 {
	var total float64
	for _, it := range items {
		total += float64(it.Qty) * it.UnitPrice
	}
	return total
}
