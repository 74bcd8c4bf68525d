package order

import (
	"context"
	"fmt"
	"time"

	"dashflow-service/internal/domain/order"
	xerrors "dashflow-service/internal/pkg/errors"
	"dashflow-service/internal/repository/postgres"
	activitysvc "dashflow-service/internal/service/activity"

	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"
)

type OrderService struct {
	repo     *postgres.OrderRepository
	activity *activitysvc.ActivityService
	logger   *zap.Logger
}

func NewOrderService(repo *postgres.OrderRepository, activity *activitysvc.ActivityService, logger *zap.Logger) *OrderService {
	return &OrderService{
		repo:     repo,
		activity: activity,
		logger:   logger,
	}
}

// CreateOrder validates the snapshot and inserts it. The stored total is
// recomputed here from the submitted line items, so a tampered or stale
// client-side total never reaches the table.
func (s *OrderService) CreateOrder(ctx context.Context, actor string, req *order.CreateOrderRequest) (*order.Order, error) {
	if req.ClientName == "" {
		return nil, xerrors.Validationf("order requires a client")
	}
	if len(req.Items) == 0 {
		return nil, xerrors.Validationf("order requires at least one line item")
	}
	for _, it := range req.Items {
		if it.ProductName == "" || it.Qty <= 0 || it.UnitPrice < 0 {
			return nil, xerrors.Validationf("order line item is incomplete")
		}
	}

	status := req.Status
	if status == "" {
		status = order.StatusPending
	}

	o := &order.Order{
		Reference:  ulid.Make().String(),
		ClientName: req.ClientName,
		Items:      req.Items,
		Total:      order.ComputeTotal(req.Items),
		Status:     status,
		PlacedOn:   time.Now(),
	}

	if err := s.repo.Create(ctx, o); err != nil {
		s.logger.Error("failed to create order", zap.Error(err))
		return nil, err
	}

	s.activity.Record(ctx, actor, "Process Order", fmt.Sprintf("Order %s created for %s", o.Reference, o.ClientName))
	return o, nil
}

// GetOrder retrieves one order.
func (s *OrderService) GetOrder(ctx context.Context, id int64) (*order.Order, error) {
	return s.repo.FindByID(ctx, id)
}

// ListOrders returns all orders, newest first.
func (s *OrderService) ListOrders(ctx context.Context) ([]*order.Order, error) {
	return s.repo.List(ctx)
}

// DeleteOrder removes an order.
func (s *OrderService) DeleteOrder(ctx context.Context, actor string, id int64) error {
	o, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		s.logger.Error("failed to delete order", zap.Int64("order_id", id), zap.Error(err))
		return err
	}

	s.activity.Record(ctx, actor, "Cancel Order", fmt.Sprintf("Order %s was removed from system", o.Reference))
	return nil
}
