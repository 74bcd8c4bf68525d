package auth

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"dashflow-service/internal/domain/auth"
	"dashflow-service/internal/domain/member"
	xerrors "dashflow-service/internal/pkg/errors"
	"dashflow-service/internal/pkg/jwt"
	"dashflow-service/internal/pkg/session"
	"dashflow-service/internal/repository/postgres"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

type AuthService struct {
	authRepo       *postgres.AuthRepository
	memberRepo     *postgres.MemberRepository
	jwtManager     *jwt.Manager
	sessionManager *session.Manager
	logger         *zap.Logger
}

func NewAuthService(
	authRepo *postgres.AuthRepository,
	memberRepo *postgres.MemberRepository,
	jwtManager *jwt.Manager,
	sessionManager *session.Manager,
	logger *zap.Logger,
) *AuthService {
	return &AuthService{
		authRepo:       authRepo,
		memberRepo:     memberRepo,
		jwtManager:     jwtManager,
		sessionManager: sessionManager,
		logger:         logger,
	}
}

// ========== Registration ==========

// Register creates a new identity and signs it in. The session is left active
// on purpose: the caller's next step is inserting the profile row, after which
// it signs out again. Duplicate registration is decided here by the database,
// not by the client.
func (s *AuthService) Register(ctx context.Context, req *auth.RegisterRequest) (*auth.LoginResponse, error) {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	identity := &auth.Identity{
		Email:        req.Email,
		PasswordHash: string(hashedPassword),
		Status:       "active",
	}

	if err := s.authRepo.CreateIdentity(ctx, identity); err != nil {
		if errors.Is(err, xerrors.ErrDuplicateEntry) {
			return nil, xerrors.ErrDuplicateEntry
		}
		return nil, fmt.Errorf("failed to create identity: %w", err)
	}

	s.logger.Info("identity registered",
		zap.Int64("identity_id", identity.ID),
		zap.String("email", identity.Email),
	)

	return s.loginWithIdentity(ctx, identity)
}

// ========== Login ==========

// Login authenticates an identity with email/password.
func (s *AuthService) Login(ctx context.Context, req *auth.LoginRequest) (*auth.LoginResponse, error) {
	identity, err := s.authRepo.FindIdentityByEmail(ctx, req.Email)
	if err != nil {
		return nil, xerrors.ErrInvalidCredentials
	}

	if identity.Status != "active" {
		return nil, xerrors.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(identity.PasswordHash), []byte(req.Password)); err != nil {
		return nil, xerrors.ErrInvalidCredentials
	}

	if err := s.authRepo.UpdateIdentityLastLogin(ctx, identity.ID); err != nil {
		s.logger.Error("failed to update last login", zap.Error(err))
	}
	if err := s.memberRepo.TouchLastLogin(ctx, identity.ID); err != nil {
		s.logger.Error("failed to touch member last login", zap.Error(err))
	}

	return s.loginWithIdentity(ctx, identity)
}

// loginWithIdentity issues the token and creates the session records.
func (s *AuthService) loginWithIdentity(ctx context.Context, identity *auth.Identity) (*auth.LoginResponse, error) {
	accessToken, jti, expiresAt, err := s.jwtManager.Generate(identity.ID, identity.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}

	dbSession := &auth.Session{
		IdentityID: identity.ID,
		JTI:        jti,
		ExpiresAt:  expiresAt,
	}
	if err := s.authRepo.CreateSession(ctx, dbSession); err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	sessionData := &session.Data{
		JTI:        jti,
		IdentityID: identity.ID,
		SessionID:  dbSession.ID,
		Email:      identity.Email,
		LoginAt:    time.Now(),
		ExpiresAt:  expiresAt,
		IsActive:   true,
	}
	if err := s.sessionManager.Create(ctx, sessionData); err != nil {
		return nil, fmt.Errorf("failed to create session cache: %w", err)
	}

	if err := s.sessionManager.Publish(ctx, session.EventSignedIn, identity.ID, jti); err != nil {
		s.logger.Error("failed to publish sign-in event", zap.Error(err))
	}

	return &auth.LoginResponse{
		AccessToken: accessToken,
		TokenType:   "Bearer",
		ExpiresAt:   expiresAt,
		UserID:      identity.ID,
		Email:       identity.Email,
	}, nil
}

// ========== Logout ==========

// Logout invalidates the current session and announces it so every connected
// tab of the identity drops back to the login screen.
func (s *AuthService) Logout(ctx context.Context, identityID int64, jti string) error {
	if err := s.sessionManager.Invalidate(ctx, jti); err != nil {
		return fmt.Errorf("failed to invalidate session: %w", err)
	}

	if err := s.sessionManager.Blacklist(ctx, jti, s.jwtManager.TTL); err != nil {
		return fmt.Errorf("failed to blacklist token: %w", err)
	}

	if err := s.sessionManager.Publish(ctx, session.EventSignedOut, identityID, jti); err != nil {
		s.logger.Error("failed to publish sign-out event", zap.Error(err))
	}

	return nil
}

// LogoutAll revokes every active session of an identity at once, used when
// the account is suspended or removed. The published event carries no JTI,
// which tells connected tabs that all of the identity's sessions are gone.
func (s *AuthService) LogoutAll(ctx context.Context, identityID int64) error {
	jtis, err := s.authRepo.InvalidateAllSessions(ctx, identityID)
	if err != nil {
		return fmt.Errorf("failed to invalidate sessions: %w", err)
	}

	for _, jti := range jtis {
		s.sessionManager.Drop(ctx, jti)
		if err := s.sessionManager.Blacklist(ctx, jti, s.jwtManager.TTL); err != nil {
			s.logger.Error("failed to blacklist token",
				zap.String("jti", jti), zap.Error(err))
		}
	}

	if err := s.sessionManager.Publish(ctx, session.EventSignedOut, identityID, ""); err != nil {
		s.logger.Error("failed to publish sign-out event", zap.Error(err))
	}

	return nil
}

// ========== Session ==========

// ValidateToken checks signature, blacklist, and the live session record.
func (s *AuthService) ValidateToken(ctx context.Context, token string) (*jwt.Claims, error) {
	claims, err := s.jwtManager.Verify(token)
	if err != nil {
		return nil, xerrors.ErrSessionExpired
	}

	blacklisted, err := s.sessionManager.IsBlacklisted(ctx, claims.ID)
	if err != nil {
		return nil, fmt.Errorf("blacklist check: %w", err)
	}
	if blacklisted {
		return nil, xerrors.ErrSessionExpired
	}

	if _, err := s.sessionManager.Get(ctx, claims.ID); err != nil {
		return nil, xerrors.ErrSessionExpired
	}

	return claims, nil
}

// GetSession resolves a bearer token to the current session, or to nothing.
// An expired or revoked token is an empty session here, not an error: the
// bootstrap path needs the distinction between "signed out" and "broken".
func (s *AuthService) GetSession(ctx context.Context, token string) (*auth.SessionInfo, error) {
	if token == "" {
		return nil, nil
	}

	claims, err := s.ValidateToken(ctx, token)
	if err != nil {
		if errors.Is(err, xerrors.ErrSessionExpired) {
			return nil, nil
		}
		return nil, err
	}

	return &auth.SessionInfo{
		UserID:    claims.IdentityID,
		Email:     claims.Email,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}

// ResolveEmailByUsername maps a dashboard username to its sign-in email.
func (s *AuthService) ResolveEmailByUsername(ctx context.Context, username string) (string, error) {
	m, err := s.memberRepo.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, xerrors.ErrNotFound) {
			return "", xerrors.ErrUsernameNotFound
		}
		return "", err
	}
	return m.Email, nil
}

// GetProfile returns the team-member profile of an identity.
func (s *AuthService) GetProfile(ctx context.Context, identityID int64) (*member.TeamMember, error) {
	return s.memberRepo.FindByIdentityID(ctx, identityID)
}

// EnsureAdminExists bootstraps a first admin account when credentials are
// configured and the username is still free.
func (s *AuthService) EnsureAdminExists(ctx context.Context, username, email, password string) error {
	if email == "" || password == "" {
		return nil
	}

	if _, err := s.memberRepo.FindByUsername(ctx, username); err == nil {
		return nil
	} else if !errors.Is(err, xerrors.ErrNotFound) {
		return err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash admin password: %w", err)
	}

	identity := &auth.Identity{
		Email:        email,
		PasswordHash: string(hashedPassword),
		Status:       "active",
	}
	if err := s.authRepo.CreateIdentity(ctx, identity); err != nil {
		if errors.Is(err, xerrors.ErrDuplicateEntry) {
			return nil
		}
		return fmt.Errorf("failed to create admin identity: %w", err)
	}

	m := &member.TeamMember{
		IdentityID: sql.NullInt64{Int64: identity.ID, Valid: true},
		Username:   username,
		Name:       username,
		Email:      email,
		Role:       member.RoleAdmin,
		Status:     member.StatusActive,
	}
	if err := s.memberRepo.Create(ctx, m); err != nil {
		return fmt.Errorf("failed to create admin profile: %w", err)
	}

	s.logger.Info("admin account bootstrapped", zap.String("username", username))
	return nil
}
