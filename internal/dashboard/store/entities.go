package store

import (
	"dashflow-service/internal/dashboard/remote"
	"dashflow-service/internal/domain/client"
	"dashflow-service/internal/domain/member"
	"dashflow-service/internal/domain/order"
	"dashflow-service/internal/domain/product"
	xerrors "dashflow-service/internal/pkg/errors"

	"go.uber.org/zap"
)

// Typed constructors bind each store to its table and creation rules. The
// rules mirror what the server enforces, so bad input fails before the
// network is touched.

func NewClientStore(table remote.Table[client.Client], logger *zap.Logger) *Store[client.Client] {
	return New("clients", table, validateClient, logger)
}

func NewProductStore(table remote.Table[product.Product], logger *zap.Logger) *Store[product.Product] {
	return New("products", table, validateProduct, logger)
}

func NewOrderStore(table remote.Table[order.Order], logger *zap.Logger) *Store[order.Order] {
	return New("orders", table, validateOrder, logger)
}

func NewMemberStore(table remote.Table[member.TeamMember], logger *zap.Logger) *Store[member.TeamMember] {
	return New("members", table, validateMember, logger)
}

func validateClient(data any) error {
	req, ok := data.(*client.CreateClientRequest)
	if !ok {
		return nil
	}
	if req.Name == "" {
		return xerrors.Validationf("client name is required")
	}
	if req.Email == "" {
		return xerrors.Validationf("client email is required")
	}
	return nil
}

func validateProduct(data any) error {
	req, ok := data.(*product.CreateProductRequest)
	if !ok {
		return nil
	}
	if req.Name == "" {
		return xerrors.Validationf("product name is required")
	}
	if req.Price <= 0 {
		return xerrors.Validationf("product price must be positive")
	}
	if req.Stock < 0 {
		return xerrors.Validationf("product stock cannot be negative")
	}
	return nil
}

func validateOrder(data any) error {
	req, ok := data.(*order.CreateOrderRequest)
	if !ok {
		return nil
	}
	if req.ClientName == "" {
		return xerrors.Validationf("order client is required")
	}
	if len(req.Items) == 0 {
		return xerrors.Validationf("order needs at least one line item")
	}
	for _, item := range req.Items {
		if item.ProductName == "" || item.Qty <= 0 || item.UnitPrice <= 0 {
			return xerrors.Validationf("order line items must carry product, quantity and price")
		}
	}
	return nil
}

func validateMember(data any) error {
	req, ok := data.(*member.CreateMemberRequest)
	if !ok {
		return nil
	}
	if req.Username == "" {
		return xerrors.Validationf("member username is required")
	}
	if req.Email == "" {
		return xerrors.Validationf("member email is required")
	}
	return nil
}
