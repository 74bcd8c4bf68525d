package member

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"dashflow-service/internal/domain/member"
	xerrors "dashflow-service/internal/pkg/errors"
	"dashflow-service/internal/repository/postgres"
	activitysvc "dashflow-service/internal/service/activity"
	authsvc "dashflow-service/internal/service/auth"

	"go.uber.org/zap"
)

type MemberService struct {
	repo     *postgres.MemberRepository
	activity *activitysvc.ActivityService
	auth     *authsvc.AuthService
	logger   *zap.Logger
}

func NewMemberService(repo *postgres.MemberRepository, activity *activitysvc.ActivityService, auth *authsvc.AuthService, logger *zap.Logger) *MemberService {
	return &MemberService{
		repo:     repo,
		activity: activity,
		auth:     auth,
		logger:   logger,
	}
}

// CreateMember validates and inserts a team member row. When the insert is
// the profile step of sign-up it carries the identity id of the fresh
// registration; a plain admin "add user" leaves it zero.
func (s *MemberService) CreateMember(ctx context.Context, actor string, req *member.CreateMemberRequest) (*member.TeamMember, error) {
	if req.Username == "" || req.Email == "" {
		return nil, xerrors.Validationf("team member requires username and email")
	}

	role := req.Role
	if role == "" {
		role = member.RoleAdmin
	}
	status := req.Status
	if status == "" {
		status = member.StatusActive
	}
	name := req.Name
	if name == "" {
		name = req.Username
	}

	m := &member.TeamMember{
		IdentityID: sql.NullInt64{Int64: req.IdentityID, Valid: req.IdentityID != 0},
		Username:   strings.TrimSpace(req.Username),
		Name:       name,
		Email:      req.Email,
		Role:       role,
		Status:     status,
	}

	if err := s.repo.Create(ctx, m); err != nil {
		s.logger.Error("failed to create team member", zap.Error(err))
		return nil, err
	}

	s.activity.Record(ctx, actor, "Create User", fmt.Sprintf("New team member: %s", m.Username))
	return m, nil
}

// GetMember retrieves one team member.
func (s *MemberService) GetMember(ctx context.Context, id int64) (*member.TeamMember, error) {
	return s.repo.FindByID(ctx, id)
}

// ListMembers returns all team members.
func (s *MemberService) ListMembers(ctx context.Context) ([]*member.TeamMember, error) {
	return s.repo.List(ctx)
}

// UpdateMember applies a partial patch and writes the row back.
func (s *MemberService) UpdateMember(ctx context.Context, actor string, id int64, req *member.UpdateMemberRequest) (*member.TeamMember, error) {
	m, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	wasActive := m.Status != member.StatusSuspended

	if req.Username != nil {
		m.Username = *req.Username
	}
	if req.Name != nil {
		m.Name = *req.Name
	}
	if req.Email != nil {
		m.Email = *req.Email
	}
	if req.Role != nil {
		m.Role = *req.Role
	}
	if req.Status != nil {
		m.Status = *req.Status
	}

	if m.Username == "" || m.Email == "" {
		return nil, xerrors.Validationf("team member requires username and email")
	}

	if err := s.repo.Update(ctx, id, m); err != nil {
		s.logger.Error("failed to update team member", zap.Int64("member_id", id), zap.Error(err))
		return nil, err
	}

	// Suspending an account kicks it out everywhere, not just on the
	// next token check.
	if wasActive && m.Status == member.StatusSuspended && m.IdentityID.Valid {
		if err := s.auth.LogoutAll(ctx, m.IdentityID.Int64); err != nil {
			s.logger.Error("failed to revoke sessions of suspended member",
				zap.Int64("member_id", id), zap.Error(err))
		}
	}

	s.activity.Record(ctx, actor, "Update User", fmt.Sprintf("Account updated: %s", m.Username))
	return m, nil
}

// DeleteMember removes a team member.
func (s *MemberService) DeleteMember(ctx context.Context, actor string, id int64) error {
	m, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		s.logger.Error("failed to delete team member", zap.Int64("member_id", id), zap.Error(err))
		return err
	}

	if m.IdentityID.Valid {
		if err := s.auth.LogoutAll(ctx, m.IdentityID.Int64); err != nil {
			s.logger.Error("failed to revoke sessions of removed member",
				zap.Int64("member_id", id), zap.Error(err))
		}
	}

	s.activity.Record(ctx, actor, "Delete User", fmt.Sprintf("Team member removed: %s", m.Username))
	return nil
}
