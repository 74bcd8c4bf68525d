package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"dashflow-service/internal/domain/auth"
	xerrors "dashflow-service/internal/pkg/errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type AuthRepository struct {
	db *pgxpool.Pool
}

func NewAuthRepository(db *pgxpool.Pool) *AuthRepository {
	return &AuthRepository{db: db}
}

// CreateIdentity inserts a new identity and fills in its server-assigned id.
func (r *AuthRepository) CreateIdentity(ctx context.Context, identity *auth.Identity) error {
	query := `
		INSERT INTO identities (email, password_hash, status)
		VALUES ($1, $2, $3)
		RETURNING id, created_at, updated_at
	`

	err := r.db.QueryRow(ctx, query, identity.Email, identity.PasswordHash, identity.Status).
		Scan(&identity.ID, &identity.CreatedAt, &identity.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return xerrors.ErrDuplicateEntry
		}
		return fmt.Errorf("failed to create identity: %w", err)
	}

	return nil
}

// FindIdentityByEmail retrieves an identity by its registered email.
func (r *AuthRepository) FindIdentityByEmail(ctx context.Context, email string) (*auth.Identity, error) {
	query := `
		SELECT id, email, password_hash, status, last_login, created_at, updated_at
		FROM identities
		WHERE email = $1
	`

	var id auth.Identity
	err := r.db.QueryRow(ctx, query, email).Scan(
		&id.ID, &id.Email, &id.PasswordHash, &id.Status, &id.LastLogin, &id.CreatedAt, &id.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, xerrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find identity: %w", err)
	}

	return &id, nil
}

// FindIdentityByID retrieves an identity by id.
func (r *AuthRepository) FindIdentityByID(ctx context.Context, identityID int64) (*auth.Identity, error) {
	query := `
		SELECT id, email, password_hash, status, last_login, created_at, updated_at
		FROM identities
		WHERE id = $1
	`

	var id auth.Identity
	err := r.db.QueryRow(ctx, query, identityID).Scan(
		&id.ID, &id.Email, &id.PasswordHash, &id.Status, &id.LastLogin, &id.CreatedAt, &id.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, xerrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find identity: %w", err)
	}

	return &id, nil
}

// UpdateIdentityLastLogin stamps a successful password authentication.
func (r *AuthRepository) UpdateIdentityLastLogin(ctx context.Context, identityID int64) error {
	query := `UPDATE identities SET last_login = $1, updated_at = $1 WHERE id = $2`
	_, err := r.db.Exec(ctx, query, time.Now(), identityID)
	if err != nil {
		return fmt.Errorf("failed to update last login: %w", err)
	}
	return nil
}

// CreateSession records a new issued token.
func (r *AuthRepository) CreateSession(ctx context.Context, s *auth.Session) error {
	query := `
		INSERT INTO sessions (identity_id, jti, status, expires_at)
		VALUES ($1, $2, 'active', $3)
		RETURNING id, login_at
	`

	err := r.db.QueryRow(ctx, query, s.IdentityID, s.JTI, s.ExpiresAt).Scan(&s.ID, &s.LoginAt)
	if err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}
	s.Status = "active"

	return nil
}

// FindSessionByJTI retrieves a session by its token id.
func (r *AuthRepository) FindSessionByJTI(ctx context.Context, jti string) (*auth.Session, error) {
	query := `
		SELECT id, identity_id, jti, status, login_at, expires_at, logout_at
		FROM sessions
		WHERE jti = $1
	`

	var s auth.Session
	err := r.db.QueryRow(ctx, query, jti).Scan(
		&s.ID, &s.IdentityID, &s.JTI, &s.Status, &s.LoginAt, &s.ExpiresAt, &s.LogoutAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, xerrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find session: %w", err)
	}

	return &s, nil
}

// InvalidateSession marks one session revoked.
func (r *AuthRepository) InvalidateSession(ctx context.Context, jti string) error {
	query := `UPDATE sessions SET status = 'revoked', logout_at = $1 WHERE jti = $2 AND status = 'active'`
	_, err := r.db.Exec(ctx, query, time.Now(), jti)
	if err != nil {
		return fmt.Errorf("failed to invalidate session: %w", err)
	}
	return nil
}

// InvalidateAllSessions revokes every active session of an identity and
// returns the revoked JTIs so the caller can evict and blacklist them.
func (r *AuthRepository) InvalidateAllSessions(ctx context.Context, identityID int64) ([]string, error) {
	query := `
		UPDATE sessions SET status = 'revoked', logout_at = $1
		WHERE identity_id = $2 AND status = 'active'
		RETURNING jti
	`

	rows, err := r.db.Query(ctx, query, time.Now(), identityID)
	if err != nil {
		return nil, fmt.Errorf("failed to invalidate sessions: %w", err)
	}
	defer rows.Close()

	var jtis []string
	for rows.Next() {
		var jti string
		if err := rows.Scan(&jti); err != nil {
			return nil, fmt.Errorf("failed to scan revoked session: %w", err)
		}
		jtis = append(jtis, jti)
	}
	return jtis, rows.Err()
}
