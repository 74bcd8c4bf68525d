package store

import (
	"context"
	"errors"
	"sync"
	"testing"

	"dashflow-service/internal/dashboard/remote"
	"dashflow-service/internal/domain/client"
	"dashflow-service/internal/domain/order"
	"dashflow-service/internal/domain/product"
	xerrors "dashflow-service/internal/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// fakeTable mimics a remote table with server-assigned ids.
type fakeTable[T any] struct {
	mu sync.Mutex

	rows      []T
	selectErr error
	insertErr error
	updateErr error
	deleteErr error

	inserts []any
	updates []int64
	deletes []int64

	// onInsert lets a test grow rows the way a server would.
	onInsert func(data any)
	onUpdate func(id int64, patch any)
	onDelete func(id int64)
}

func (f *fakeTable[T]) Select(ctx context.Context, filters ...remote.Filter) ([]T, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.selectErr != nil {
		return nil, f.selectErr
	}
	out := make([]T, len(f.rows))
	copy(out, f.rows)
	return out, nil
}

func (f *fakeTable[T]) Insert(ctx context.Context, data any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.insertErr != nil {
		return f.insertErr
	}
	f.inserts = append(f.inserts, data)
	if f.onInsert != nil {
		f.onInsert(data)
	}
	return nil
}

func (f *fakeTable[T]) Update(ctx context.Context, id int64, patch any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.updateErr != nil {
		return f.updateErr
	}
	f.updates = append(f.updates, id)
	if f.onUpdate != nil {
		f.onUpdate(id, patch)
	}
	return nil
}

func (f *fakeTable[T]) Delete(ctx context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.deletes = append(f.deletes, id)
	if f.onDelete != nil {
		f.onDelete(id)
	}
	return nil
}

func TestListReplacesCollection(t *testing.T) {
	table := &fakeTable[client.Client]{rows: []client.Client{
		{ID: 1, Name: "Acme", Email: "a@acme.com", Status: client.StatusActive},
		{ID: 2, Name: "Globex", Email: "g@globex.com", Status: client.StatusInactive},
	}}
	st := NewClientStore(table, zap.NewNop())

	require.NoError(t, st.List(context.Background()))
	require.Len(t, st.Items(), 2)
	assert.False(t, st.Loading())
	assert.NoError(t, st.Err())
}

func TestListIdempotent(t *testing.T) {
	table := &fakeTable[client.Client]{rows: []client.Client{{ID: 1, Name: "Acme"}}}
	st := NewClientStore(table, zap.NewNop())

	require.NoError(t, st.List(context.Background()))
	first := st.Items()
	require.NoError(t, st.List(context.Background()))
	assert.Equal(t, first, st.Items())
}

func TestListFailureKeepsPreviousCollection(t *testing.T) {
	table := &fakeTable[client.Client]{rows: []client.Client{{ID: 1, Name: "Acme"}}}
	st := NewClientStore(table, zap.NewNop())
	require.NoError(t, st.List(context.Background()))

	table.mu.Lock()
	table.selectErr = errors.New("network down")
	table.mu.Unlock()

	err := st.List(context.Background())
	require.Error(t, err)

	// stale-but-available, never an empty state
	assert.Len(t, st.Items(), 1)
	assert.Error(t, st.Err())
	assert.False(t, st.Loading())

	table.mu.Lock()
	table.selectErr = nil
	table.mu.Unlock()
	require.NoError(t, st.List(context.Background()))
	assert.NoError(t, st.Err())
}

func TestCreateRefetchesWithServerID(t *testing.T) {
	table := &fakeTable[client.Client]{}
	table.onInsert = func(data any) {
		req := data.(*client.CreateClientRequest)
		table.rows = append(table.rows, client.Client{ID: 41, Name: req.Name, Email: req.Email})
	}
	st := NewClientStore(table, zap.NewNop())

	err := st.Create(context.Background(), &client.CreateClientRequest{Name: "Acme", Email: "a@acme.com"})
	require.NoError(t, err)

	items := st.Items()
	require.Len(t, items, 1)
	assert.Equal(t, int64(41), items[0].ID)
	assert.Equal(t, "Acme", items[0].Name)
}

func TestCreateValidationNeverReachesNetwork(t *testing.T) {
	table := &fakeTable[client.Client]{}
	st := NewClientStore(table, zap.NewNop())

	err := st.Create(context.Background(), &client.CreateClientRequest{Name: "", Email: ""})
	require.ErrorIs(t, err, xerrors.ErrValidation)
	assert.Empty(t, table.inserts)
}

func TestCreateFailureLeavesLocalStateUntouched(t *testing.T) {
	table := &fakeTable[client.Client]{rows: []client.Client{{ID: 1, Name: "Acme"}}}
	st := NewClientStore(table, zap.NewNop())
	require.NoError(t, st.List(context.Background()))

	table.mu.Lock()
	table.insertErr = errors.New("boom")
	table.mu.Unlock()

	err := st.Create(context.Background(), &client.CreateClientRequest{Name: "New", Email: "n@x.com"})
	require.Error(t, err)
	assert.Len(t, st.Items(), 1)
}

func TestUpdateRefetches(t *testing.T) {
	table := &fakeTable[client.Client]{rows: []client.Client{{ID: 1, Name: "Acme"}}}
	table.onUpdate = func(id int64, patch any) {
		req := patch.(*client.UpdateClientRequest)
		for i := range table.rows {
			if table.rows[i].ID == id {
				table.rows[i].Name = *req.Name
			}
		}
	}
	st := NewClientStore(table, zap.NewNop())
	require.NoError(t, st.List(context.Background()))

	name := "Acme Corp"
	err := st.Update(context.Background(), 1, &client.UpdateClientRequest{Name: &name})
	require.NoError(t, err)

	items := st.Items()
	require.Len(t, items, 1)
	assert.Equal(t, "Acme Corp", items[0].Name)
	assert.Equal(t, []int64{1}, table.updates)
}

func TestUpdateFailureLeavesLocalStateUntouched(t *testing.T) {
	table := &fakeTable[client.Client]{rows: []client.Client{{ID: 1, Name: "Acme"}}}
	st := NewClientStore(table, zap.NewNop())
	require.NoError(t, st.List(context.Background()))

	table.mu.Lock()
	table.updateErr = errors.New("boom")
	table.mu.Unlock()

	name := "Acme Corp"
	err := st.Update(context.Background(), 1, &client.UpdateClientRequest{Name: &name})
	require.Error(t, err)

	items := st.Items()
	require.Len(t, items, 1)
	assert.Equal(t, "Acme", items[0].Name)
}

func TestDeleteRefetches(t *testing.T) {
	table := &fakeTable[client.Client]{rows: []client.Client{{ID: 1}, {ID: 2}}}
	table.onDelete = func(id int64) {
		kept := table.rows[:0]
		for _, row := range table.rows {
			if row.ID != id {
				kept = append(kept, row)
			}
		}
		table.rows = kept
	}
	st := NewClientStore(table, zap.NewNop())
	require.NoError(t, st.List(context.Background()))

	require.NoError(t, st.Delete(context.Background(), 1))

	items := st.Items()
	require.Len(t, items, 1)
	assert.Equal(t, int64(2), items[0].ID)
}

func TestDeleteFailureLeavesEntityInPlace(t *testing.T) {
	table := &fakeTable[client.Client]{rows: []client.Client{{ID: 1}, {ID: 2}}}
	st := NewClientStore(table, zap.NewNop())
	require.NoError(t, st.List(context.Background()))

	table.mu.Lock()
	table.deleteErr = errors.New("boom")
	table.mu.Unlock()

	require.Error(t, st.Delete(context.Background(), 1))
	assert.Len(t, st.Items(), 2)
}

func TestProductValidation(t *testing.T) {
	table := &fakeTable[product.Product]{}
	st := NewProductStore(table, zap.NewNop())

	err := st.Create(context.Background(), &product.CreateProductRequest{Name: "Widget", Price: 0})
	require.ErrorIs(t, err, xerrors.ErrValidation)

	err = st.Create(context.Background(), &product.CreateProductRequest{Name: "Widget", Price: 9.99, Stock: -1})
	require.ErrorIs(t, err, xerrors.ErrValidation)
	assert.Empty(t, table.inserts)
}

func TestOrderValidation(t *testing.T) {
	table := &fakeTable[order.Order]{}
	st := NewOrderStore(table, zap.NewNop())

	err := st.Create(context.Background(), &order.CreateOrderRequest{ClientName: "Acme"})
	require.ErrorIs(t, err, xerrors.ErrValidation)

	err = st.Create(context.Background(), &order.CreateOrderRequest{
		ClientName: "Acme",
		Items:      []order.LineItem{{ProductName: "Widget", Qty: 0, UnitPrice: 9.99}},
	})
	require.ErrorIs(t, err, xerrors.ErrValidation)
	assert.Empty(t, table.inserts)
}
