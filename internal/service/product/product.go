package product

import (
	"context"
	"fmt"
	"time"

	"dashflow-service/internal/domain/product"
	xerrors "dashflow-service/internal/pkg/errors"
	"dashflow-service/internal/repository/postgres"
	activitysvc "dashflow-service/internal/service/activity"

	"go.uber.org/zap"
)

type ProductService struct {
	repo     *postgres.ProductRepository
	activity *activitysvc.ActivityService
	logger   *zap.Logger
}

func NewProductService(repo *postgres.ProductRepository, activity *activitysvc.ActivityService, logger *zap.Logger) *ProductService {
	return &ProductService{
		repo:     repo,
		activity: activity,
		logger:   logger,
	}
}

// CreateProduct validates and inserts a new product. The added-on date is
// server-assigned, like the id.
func (s *ProductService) CreateProduct(ctx context.Context, actor string, req *product.CreateProductRequest) (*product.Product, error) {
	if req.Name == "" {
		return nil, xerrors.Validationf("product requires a name")
	}
	if req.Price <= 0 {
		return nil, xerrors.Validationf("product price must be positive")
	}
	if req.Stock < 0 {
		return nil, xerrors.Validationf("product stock cannot be negative")
	}

	status := req.Status
	if status == "" {
		if req.Stock == 0 {
			status = product.StatusOutOfStock
		} else {
			status = product.StatusAvailable
		}
	}

	p := &product.Product{
		Name:     req.Name,
		Category: req.Category,
		Price:    req.Price,
		Stock:    req.Stock,
		Status:   status,
		AddedOn:  time.Now(),
	}

	if err := s.repo.Create(ctx, p); err != nil {
		s.logger.Error("failed to create product", zap.Error(err))
		return nil, err
	}

	s.activity.Record(ctx, actor, "Create Product", fmt.Sprintf("New item in inventory: %s", p.Name))
	return p, nil
}

// GetProduct retrieves one product.
func (s *ProductService) GetProduct(ctx context.Context, id int64) (*product.Product, error) {
	return s.repo.FindByID(ctx, id)
}

// ListProducts returns all products, optionally narrowed to one status.
func (s *ProductService) ListProducts(ctx context.Context, status string) ([]*product.Product, error) {
	return s.repo.List(ctx, status)
}

// UpdateProduct applies a partial patch and writes the row back.
func (s *ProductService) UpdateProduct(ctx context.Context, actor string, id int64, req *product.UpdateProductRequest) (*product.Product, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		p.Name = *req.Name
	}
	if req.Category != nil {
		p.Category = *req.Category
	}
	if req.Price != nil {
		p.Price = *req.Price
	}
	if req.Stock != nil {
		p.Stock = *req.Stock
	}
	if req.Status != nil {
		p.Status = *req.Status
	}

	if p.Name == "" || p.Price <= 0 {
		return nil, xerrors.Validationf("product requires a name and a positive price")
	}

	if err := s.repo.Update(ctx, id, p); err != nil {
		s.logger.Error("failed to update product", zap.Int64("product_id", id), zap.Error(err))
		return nil, err
	}

	s.activity.Record(ctx, actor, "Update Product", fmt.Sprintf("Price or stock updated for: %s", p.Name))
	return p, nil
}

// DeleteProduct removes a product.
func (s *ProductService) DeleteProduct(ctx context.Context, actor string, id int64) error {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		s.logger.Error("failed to delete product", zap.Int64("product_id", id), zap.Error(err))
		return err
	}

	s.activity.Record(ctx, actor, "Delete Product", fmt.Sprintf("Product discontinued: %s", p.Name))
	return nil
}
