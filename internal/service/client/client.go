package client

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"dashflow-service/internal/domain/client"
	xerrors "dashflow-service/internal/pkg/errors"
	"dashflow-service/internal/repository/postgres"
	activitysvc "dashflow-service/internal/service/activity"

	"go.uber.org/zap"
)

type ClientService struct {
	repo     *postgres.ClientRepository
	activity *activitysvc.ActivityService
	logger   *zap.Logger
}

func NewClientService(repo *postgres.ClientRepository, activity *activitysvc.ActivityService, logger *zap.Logger) *ClientService {
	return &ClientService{
		repo:     repo,
		activity: activity,
		logger:   logger,
	}
}

// CreateClient validates and inserts a new client.
func (s *ClientService) CreateClient(ctx context.Context, actor string, req *client.CreateClientRequest) (*client.Client, error) {
	if req.Name == "" || req.Email == "" {
		return nil, xerrors.Validationf("client requires name and email")
	}

	status := req.Status
	if status == "" {
		status = client.StatusActive
	}

	c := &client.Client{
		Name:         req.Name,
		Email:        req.Email,
		Phone:        req.Phone,
		Country:      req.Country,
		Status:       status,
		LastPurchase: parseDate(req.LastPurchase),
	}

	if err := s.repo.Create(ctx, c); err != nil {
		s.logger.Error("failed to create client", zap.Error(err))
		return nil, err
	}

	s.activity.Record(ctx, actor, "Create Client", fmt.Sprintf("New client added: %s", c.Name))
	return c, nil
}

// GetClient retrieves one client.
func (s *ClientService) GetClient(ctx context.Context, id int64) (*client.Client, error) {
	return s.repo.FindByID(ctx, id)
}

// ListClients returns all clients, optionally narrowed to one status.
func (s *ClientService) ListClients(ctx context.Context, status string) ([]*client.Client, error) {
	return s.repo.List(ctx, status)
}

// UpdateClient applies a partial patch and writes the row back.
func (s *ClientService) UpdateClient(ctx context.Context, actor string, id int64, req *client.UpdateClientRequest) (*client.Client, error) {
	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		c.Name = *req.Name
	}
	if req.Email != nil {
		c.Email = *req.Email
	}
	if req.Phone != nil {
		c.Phone = *req.Phone
	}
	if req.Country != nil {
		c.Country = *req.Country
	}
	if req.Status != nil {
		c.Status = *req.Status
	}
	if req.LastPurchase != nil {
		c.LastPurchase = parseDate(*req.LastPurchase)
	}

	if c.Name == "" || c.Email == "" {
		return nil, xerrors.Validationf("client requires name and email")
	}

	if err := s.repo.Update(ctx, id, c); err != nil {
		s.logger.Error("failed to update client", zap.Int64("client_id", id), zap.Error(err))
		return nil, err
	}

	s.activity.Record(ctx, actor, "Update Client", fmt.Sprintf("Information updated for: %s", c.Name))
	return c, nil
}

// DeleteClient removes a client.
func (s *ClientService) DeleteClient(ctx context.Context, actor string, id int64) error {
	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		s.logger.Error("failed to delete client", zap.Int64("client_id", id), zap.Error(err))
		return err
	}

	s.activity.Record(ctx, actor, "Delete Client", fmt.Sprintf("Client removed: %s", c.Name))
	return nil
}

func parseDate(s string) sql.NullTime {
	if s == "" {
		return sql.NullTime{}
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: t, Valid: true}
}
