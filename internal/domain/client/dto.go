package client

// CreateClientRequest carries the fields a new client row needs.
type CreateClientRequest struct {
	Name         string `json:"name" binding:"required"`
	Email        string `json:"email" binding:"required,email"`
	Phone        string `json:"phone"`
	Country      string `json:"country"`
	Status       string `json:"status"`
	LastPurchase string `json:"last_purchase"` // YYYY-MM-DD, optional
}

// UpdateClientRequest patches an existing client. Nil fields are left alone.
type UpdateClientRequest struct {
	Name         *string `json:"name"`
	Email        *string `json:"email"`
	Phone        *string `json:"phone"`
	Country      *string `json:"country"`
	Status       *string `json:"status"`
	LastPurchase *string `json:"last_purchase"`
}
