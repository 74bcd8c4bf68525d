package store

import (
	"context"

	"dashflow-service/internal/dashboard/remote"
	"dashflow-service/internal/domain/client"
	"dashflow-service/internal/domain/order"
	"dashflow-service/internal/domain/product"
	xerrors "dashflow-service/internal/pkg/errors"

	"golang.org/x/sync/errgroup"
)

// OrderForm gathers what placing an order needs. The prerequisite reads are
// issued fresh every time the form opens, never reused from a possibly stale
// store, so a soon-to-be-inactive client or out-of-stock product is not
// offered at order time.
type OrderForm struct {
	clients  remote.Table[client.Client]
	products remote.Table[product.Product]
}

func NewOrderForm(clients remote.Table[client.Client], products remote.Table[product.Product]) *OrderForm {
	return &OrderForm{clients: clients, products: products}
}

// FormData holds the selectable clients and products for one form opening.
type FormData struct {
	Clients  []client.Client
	Products []product.Product
}

// Load fetches active clients and available products. The two reads have no
// ordering dependency and run concurrently; the order insert itself is
// sequenced strictly after both.
func (f *OrderForm) Load(ctx context.Context) (*FormData, error) {
	var data FormData

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		rows, err := f.clients.Select(gctx, remote.Filter{Field: "status", Value: client.StatusActive})
		if err != nil {
			return err
		}
		data.Clients = rows
		return nil
	})
	g.Go(func() error {
		rows, err := f.products.Select(gctx, remote.Filter{Field: "status", Value: product.StatusAvailable})
		if err != nil {
			return err
		}
		data.Products = rows
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &data, nil
}

// Compose snapshots the chosen client and items into a create request. The
// client and every product must be among the form's fresh choices, and line
// items without an explicit price take the product's current price. The total
// the server stores comes from these items at this moment; later price
// changes do not touch placed orders.
func (d *FormData) Compose(clientName string, items []order.LineItem, status string) (*order.CreateOrderRequest, error) {
	if clientName == "" {
		return nil, xerrors.Validationf("order client is required")
	}
	if len(items) == 0 {
		return nil, xerrors.Validationf("order needs at least one line item")
	}
	if !d.hasClient(clientName) {
		return nil, xerrors.Validationf("client %q is not an active client", clientName)
	}
	if status == "" {
		status = order.StatusPending
	}

	snapshot := make([]order.LineItem, len(items))
	for i, item := range items {
		p, ok := d.productByName(item.ProductName)
		if !ok {
			return nil, xerrors.Validationf("product %q is not available", item.ProductName)
		}
		if item.UnitPrice == 0 {
			item.UnitPrice = p.Price
		}
		snapshot[i] = item
	}

	return &order.CreateOrderRequest{
		ClientName: clientName,
		Items:      snapshot,
		Status:     status,
	}, nil
}

func (d *FormData) hasClient(name string) bool {
	for _, c := range d.Clients {
		if c.Name == name {
			return true
		}
	}
	return false
}

func (d *FormData) productByName(name string) (product.Product, bool) {
	for _, p := range d.Products {
		if p.Name == name {
			return p, true
		}
	}
	return product.Product{}, false
}
