package postgres

import (
	"context"
	"fmt"

	"dashflow-service/internal/domain/activity"

	"github.com/jackc/pgx/v5/pgxpool"
)

type ActivityRepository struct {
	db *pgxpool.Pool
}

func NewActivityRepository(db *pgxpool.Pool) *ActivityRepository {
	return &ActivityRepository{db: db}
}

// Insert appends one audit entry.
func (r *ActivityRepository) Insert(ctx context.Context, e *activity.Entry) error {
	query := `
		INSERT INTO activity_log (actor, action, detail)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`

	err := r.db.QueryRow(ctx, query, e.Actor, e.Action, e.Detail).Scan(&e.ID, &e.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert activity entry: %w", err)
	}

	return nil
}

// List returns the newest entries first, up to limit.
func (r *ActivityRepository) List(ctx context.Context, limit int) ([]*activity.Entry, error) {
	if limit <= 0 {
		limit = 100
	}

	query := `
		SELECT id, actor, action, detail, created_at
		FROM activity_log
		ORDER BY created_at DESC, id DESC
		LIMIT $1
	`

	rows, err := r.db.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list activity: %w", err)
	}
	defer rows.Close()

	var entries []*activity.Entry
	for rows.Next() {
		var e activity.Entry
		if err := rows.Scan(&e.ID, &e.Actor, &e.Action, &e.Detail, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan activity entry: %w", err)
		}
		entries = append(entries, &e)
	}

	return entries, rows.Err()
}
