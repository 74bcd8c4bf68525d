package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"dashflow-service/internal/dashboard/remote"
)

// EntityTable adapts one REST collection to the remote.Table contract.
type EntityTable[T any] struct {
	client *Client
	path   string
}

func NewTable[T any](client *Client, path string) *EntityTable[T] {
	return &EntityTable[T]{client: client, path: path}
}

func (t *EntityTable[T]) Select(ctx context.Context, filters ...remote.Filter) ([]T, error) {
	path := t.path
	if len(filters) > 0 {
		query := url.Values{}
		for _, f := range filters {
			query.Set(f.Field, f.Value)
		}
		path += "?" + query.Encode()
	}

	var rows []T
	if err := t.client.do(ctx, http.MethodGet, path, nil, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

func (t *EntityTable[T]) Insert(ctx context.Context, data any) error {
	return t.client.do(ctx, http.MethodPost, t.path, data, nil)
}

func (t *EntityTable[T]) Update(ctx context.Context, id int64, patch any) error {
	return t.client.do(ctx, http.MethodPut, fmt.Sprintf("%s/%d", t.path, id), patch, nil)
}

func (t *EntityTable[T]) Delete(ctx context.Context, id int64) error {
	return t.client.do(ctx, http.MethodDelete, fmt.Sprintf("%s/%d", t.path, id), nil, nil)
}
