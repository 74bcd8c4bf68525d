package product

import "time"

// Product is an inventory item.
type Product struct {
	ID        int64     `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	Category  string    `json:"category" db:"category"`
	Price     float64   `json:"price" db:"price"`
	Stock     int       `json:"stock" db:"stock"`
	Status    string    `json:"status" db:"status"` // Available, Out of Stock
	AddedOn   time.Time `json:"added_on" db:"added_on"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

const (
	StatusAvailable  = "Available"
	StatusOutOfStock = "Out of Stock"
)
