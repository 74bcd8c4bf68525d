package store

import (
	"context"
	"testing"

	"dashflow-service/internal/dashboard/remote"
	"dashflow-service/internal/domain/client"
	"dashflow-service/internal/domain/order"
	"dashflow-service/internal/domain/product"
	xerrors "dashflow-service/internal/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// filteringTable honors a single status filter like the server does.
type filteringTable[T any] struct {
	rows    []T
	status  func(T) string
	filters []remote.Filter
}

func (f *filteringTable[T]) Select(ctx context.Context, filters ...remote.Filter) ([]T, error) {
	f.filters = filters
	var out []T
	for _, row := range f.rows {
		matched := true
		for _, filter := range filters {
			if filter.Field == "status" && f.status(row) != filter.Value {
				matched = false
			}
		}
		if matched {
			out = append(out, row)
		}
	}
	return out, nil
}

func (f *filteringTable[T]) Insert(ctx context.Context, data any) error            { return nil }
func (f *filteringTable[T]) Update(ctx context.Context, id int64, patch any) error { return nil }
func (f *filteringTable[T]) Delete(ctx context.Context, id int64) error            { return nil }

func TestOrderFormLoadsOnlyValidChoices(t *testing.T) {
	clients := &filteringTable[client.Client]{
		rows: []client.Client{
			{ID: 1, Name: "Acme", Status: client.StatusActive},
			{ID: 2, Name: "Globex", Status: client.StatusInactive},
		},
		status: func(c client.Client) string { return c.Status },
	}
	products := &filteringTable[product.Product]{
		rows: []product.Product{
			{ID: 1, Name: "Widget", Status: product.StatusAvailable},
			{ID: 2, Name: "Gone", Status: product.StatusOutOfStock},
		},
		status: func(p product.Product) string { return p.Status },
	}

	form := NewOrderForm(clients, products)
	data, err := form.Load(context.Background())
	require.NoError(t, err)

	require.Len(t, data.Clients, 1)
	assert.Equal(t, "Acme", data.Clients[0].Name)
	require.Len(t, data.Products, 1)
	assert.Equal(t, "Widget", data.Products[0].Name)
}

func testFormData() *FormData {
	return &FormData{
		Clients: []client.Client{{ID: 1, Name: "Acme", Status: client.StatusActive}},
		Products: []product.Product{
			{ID: 1, Name: "Widget", Price: 9.99, Status: product.StatusAvailable},
		},
	}
}

func TestComposeRequiresClientAndItems(t *testing.T) {
	data := testFormData()

	_, err := data.Compose("", []order.LineItem{{ProductName: "Widget", Qty: 1, UnitPrice: 1}}, "")
	require.ErrorIs(t, err, xerrors.ErrValidation)

	_, err = data.Compose("Acme", nil, "")
	require.ErrorIs(t, err, xerrors.ErrValidation)
}

func TestComposeRejectsChoicesOutsideTheForm(t *testing.T) {
	data := testFormData()
	items := []order.LineItem{{ProductName: "Widget", Qty: 1}}

	_, err := data.Compose("Globex", items, "")
	require.ErrorIs(t, err, xerrors.ErrValidation)

	_, err = data.Compose("Acme", []order.LineItem{{ProductName: "Gone", Qty: 1}}, "")
	require.ErrorIs(t, err, xerrors.ErrValidation)
}

func TestComposeSnapshotsProductPrice(t *testing.T) {
	data := testFormData()

	// No explicit price: the product's current price is snapshotted.
	req, err := data.Compose("Acme", []order.LineItem{{ProductName: "Widget", Qty: 2}}, "")
	require.NoError(t, err)
	require.Len(t, req.Items, 1)
	assert.InDelta(t, 9.99, req.Items[0].UnitPrice, 1e-9)
	assert.InDelta(t, 19.98, order.ComputeTotal(req.Items), 1e-9)

	// An explicit price wins over the catalog price.
	req, err = data.Compose("Acme", []order.LineItem{{ProductName: "Widget", Qty: 1, UnitPrice: 5}}, "")
	require.NoError(t, err)
	assert.InDelta(t, 5, req.Items[0].UnitPrice, 1e-9)
}

func TestComposeDefaultsToPending(t *testing.T) {
	data := testFormData()

	req, err := data.Compose("Acme", []order.LineItem{{ProductName: "Widget", Qty: 2, UnitPrice: 9.99}}, "")
	require.NoError(t, err)
	assert.Equal(t, order.StatusPending, req.Status)
	assert.InDelta(t, 19.98, order.ComputeTotal(req.Items), 1e-9)
}
