package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"dashflow-service/internal/domain/client"
	xerrors "dashflow-service/internal/pkg/errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type ClientRepository struct {
	db *pgxpool.Pool
}

func NewClientRepository(db *pgxpool.Pool) *ClientRepository {
	return &ClientRepository{db: db}
}

// Create inserts a client and fills in the server-assigned id.
func (r *ClientRepository) Create(ctx context.Context, c *client.Client) error {
	query := `
		INSERT INTO clients (name, email, phone, country, status, last_purchase)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at
	`

	err := r.db.QueryRow(
		ctx, query,
		c.Name, c.Email, c.Phone, c.Country, c.Status, c.LastPurchase,
	).Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create client: %w", err)
	}

	return nil
}

// FindByID retrieves a client by id.
func (r *ClientRepository) FindByID(ctx context.Context, id int64) (*client.Client, error) {
	query := `
		SELECT id, name, email, phone, country, status, last_purchase, created_at, updated_at
		FROM clients
		WHERE id = $1
	`

	var c client.Client
	err := r.db.QueryRow(ctx, query, id).Scan(
		&c.ID, &c.Name, &c.Email, &c.Phone, &c.Country, &c.Status,
		&c.LastPurchase, &c.CreatedAt, &c.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, xerrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find client: %w", err)
	}

	return &c, nil
}

// List returns all clients, optionally narrowed to one status.
func (r *ClientRepository) List(ctx context.Context, status string) ([]*client.Client, error) {
	query := `
		SELECT id, name, email, phone, country, status, last_purchase, created_at, updated_at
		FROM clients
	`
	args := []interface{}{}
	if status != "" {
		query += ` WHERE status = $1`
		args = append(args, status)
	}
	query += ` ORDER BY id`

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list clients: %w", err)
	}
	defer rows.Close()

	var clients []*client.Client
	for rows.Next() {
		var c client.Client
		if err := rows.Scan(
			&c.ID, &c.Name, &c.Email, &c.Phone, &c.Country, &c.Status,
			&c.LastPurchase, &c.CreatedAt, &c.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan client: %w", err)
		}
		clients = append(clients, &c)
	}

	return clients, rows.Err()
}

// Update writes the mutable fields of a client.
func (r *ClientRepository) Update(ctx context.Context, id int64, c *client.Client) error {
	query := `
		UPDATE clients
		SET name = $1, email = $2, phone = $3, country = $4, status = $5,
		    last_purchase = $6, updated_at = $7
		WHERE id = $8
	`

	result, err := r.db.Exec(
		ctx, query,
		c.Name, c.Email, c.Phone, c.Country, c.Status, c.LastPurchase, time.Now(), id,
	)
	if err != nil {
		return fmt.Errorf("failed to update client: %w", err)
	}
	if result.RowsAffected() == 0 {
		return xerrors.ErrNotFound
	}

	return nil
}

// Delete removes a client row.
func (r *ClientRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.Exec(ctx, `DELETE FROM clients WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete client: %w", err)
	}
	if result.RowsAffected() == 0 {
		return xerrors.ErrNotFound
	}
	return nil
}

// CountByStatus counts clients in one status.
func (r *ClientRepository) CountByStatus(ctx context.Context, status string) (int64, error) {
	var count int64
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM clients WHERE status = $1`, status).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count clients: %w", err)
	}
	return count, nil
}
