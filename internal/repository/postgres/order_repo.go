package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"dashflow-service/internal/domain/order"
	xerrors "dashflow-service/internal/pkg/errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type OrderRepository struct {
	db *pgxpool.Pool
}

func NewOrderRepository(db *pgxpool.Pool) *OrderRepository {
	return &OrderRepository{db: db}
}

// Create inserts an order with its JSONB line-item snapshot.
func (r *OrderRepository) Create(ctx context.Context, o *order.Order) error {
	itemsJSON, err := json.Marshal(o.Items)
	if err != nil {
		return fmt.Errorf("failed to marshal order items: %w", err)
	}

	query := `
		INSERT INTO orders (reference, client_name, items, total, status, placed_on)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at
	`

	err = r.db.QueryRow(
		ctx, query,
		o.Reference, o.ClientName, itemsJSON, o.Total, o.Status, o.PlacedOn,
	).Scan(&o.ID, &o.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create order: %w", err)
	}

	return nil
}

// FindByID retrieves an order by id.
func (r *OrderRepository) FindByID(ctx context.Context, id int64) (*order.Order, error) {
	query := `
		SELECT id, reference, client_name, items, total, status, placed_on, created_at
		FROM orders
		WHERE id = $1
	`

	var o order.Order
	var itemsJSON []byte
	err := r.db.QueryRow(ctx, query, id).Scan(
		&o.ID, &o.Reference, &o.ClientName, &itemsJSON, &o.Total, &o.Status, &o.PlacedOn, &o.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, xerrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find order: %w", err)
	}

	if err := json.Unmarshal(itemsJSON, &o.Items); err != nil {
		return nil, fmt.Errorf("failed to unmarshal order items: %w", err)
	}

	return &o, nil
}

// List returns all orders in descending creation order.
func (r *OrderRepository) List(ctx context.Context) ([]*order.Order, error) {
	query := `
		SELECT id, reference, client_name, items, total, status, placed_on, created_at
		FROM orders
		ORDER BY created_at DESC, id DESC
	`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	defer rows.Close()

	var orders []*order.Order
	for rows.Next() {
		var o order.Order
		var itemsJSON []byte
		if err := rows.Scan(
			&o.ID, &o.Reference, &o.ClientName, &itemsJSON, &o.Total, &o.Status, &o.PlacedOn, &o.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}
		if err := json.Unmarshal(itemsJSON, &o.Items); err != nil {
			return nil, fmt.Errorf("failed to unmarshal order items: %w", err)
		}
		orders = append(orders, &o)
	}

	return orders, rows.Err()
}

// Delete removes an order row.
func (r *OrderRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.Exec(ctx, `DELETE FROM orders WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete order: %w", err)
	}
	if result.RowsAffected() == 0 {
		return xerrors.ErrNotFound
	}
	return nil
}
