package client

import (
	"database/sql"
	"time"
)

// Client is a customer account shown on the clients page.
type Client struct {
	ID           int64        `json:"id" db:"id"`
	Name         string       `json:"name" db:"name"`
	Email        string       `json:"email" db:"email"`
	Phone        string       `json:"phone" db:"phone"`
	Country      string       `json:"country" db:"country"`
	Status       string       `json:"status" db:"status"` // Active, Inactive
	LastPurchase sql.NullTime `json:"last_purchase" db:"last_purchase"`
	CreatedAt    time.Time    `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at" db:"updated_at"`
}

const (
	StatusActive   = "Active"
	StatusInactive = "Inactive"
)
