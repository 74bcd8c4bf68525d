package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"dashflow-service/internal/domain/product"
	xerrors "dashflow-service/internal/pkg/errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type ProductRepository struct {
	db *pgxpool.Pool
}

func NewProductRepository(db *pgxpool.Pool) *ProductRepository {
	return &ProductRepository{db: db}
}

// Create inserts a product and fills in the server-assigned id.
func (r *ProductRepository) Create(ctx context.Context, p *product.Product) error {
	query := `
		INSERT INTO products (name, category, price, stock, status, added_on)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at
	`

	err := r.db.QueryRow(
		ctx, query,
		p.Name, p.Category, p.Price, p.Stock, p.Status, p.AddedOn,
	).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create product: %w", err)
	}

	return nil
}

// FindByID retrieves a product by id.
func (r *ProductRepository) FindByID(ctx context.Context, id int64) (*product.Product, error) {
	query := `
		SELECT id, name, category, price, stock, status, added_on, created_at, updated_at
		FROM products
		WHERE id = $1
	`

	var p product.Product
	err := r.db.QueryRow(ctx, query, id).Scan(
		&p.ID, &p.Name, &p.Category, &p.Price, &p.Stock, &p.Status,
		&p.AddedOn, &p.CreatedAt, &p.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, xerrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find product: %w", err)
	}

	return &p, nil
}

// List returns all products, optionally narrowed to one status.
func (r *ProductRepository) List(ctx context.Context, status string) ([]*product.Product, error) {
	query := `
		SELECT id, name, category, price, stock, status, added_on, created_at, updated_at
		FROM products
	`
	args := []interface{}{}
	if status != "" {
		query += ` WHERE status = $1`
		args = append(args, status)
	}
	query += ` ORDER BY id`

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	defer rows.Close()

	var products []*product.Product
	for rows.Next() {
		var p product.Product
		if err := rows.Scan(
			&p.ID, &p.Name, &p.Category, &p.Price, &p.Stock, &p.Status,
			&p.AddedOn, &p.CreatedAt, &p.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, &p)
	}

	return products, rows.Err()
}

// Update writes the mutable fields of a product.
func (r *ProductRepository) Update(ctx context.Context, id int64, p *product.Product) error {
	query := `
		UPDATE products
		SET name = $1, category = $2, price = $3, stock = $4, status = $5, updated_at = $6
		WHERE id = $7
	`

	result, err := r.db.Exec(ctx, query, p.Name, p.Category, p.Price, p.Stock, p.Status, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to update product: %w", err)
	}
	if result.RowsAffected() == 0 {
		return xerrors.ErrNotFound
	}

	return nil
}

// Delete removes a product row.
func (r *ProductRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}
	if result.RowsAffected() == 0 {
		return xerrors.ErrNotFound
	}
	return nil
}

// CountByStatus counts products in one status.
func (r *ProductRepository) CountByStatus(ctx context.Context, status string) (int64, error) {
	var count int64
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM products WHERE status = $1`, status).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count products: %w", err)
	}
	return count, nil
}
