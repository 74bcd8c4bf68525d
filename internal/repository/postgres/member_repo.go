package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"dashflow-service/internal/domain/member"
	xerrors "dashflow-service/internal/pkg/errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type MemberRepository struct {
	db *pgxpool.Pool
}

func NewMemberRepository(db *pgxpool.Pool) *MemberRepository {
	return &MemberRepository{db: db}
}

// Create inserts a team member and fills in the server-assigned id.
func (r *MemberRepository) Create(ctx context.Context, m *member.TeamMember) error {
	query := `
		INSERT INTO team_members (identity_id, username, name, email, role, status, last_login)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at
	`

	err := r.db.QueryRow(
		ctx, query,
		m.IdentityID, m.Username, m.Name, m.Email, m.Role, m.Status, m.LastLogin,
	).Scan(&m.ID, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return xerrors.ErrDuplicateEntry
		}
		return fmt.Errorf("failed to create team member: %w", err)
	}

	return nil
}

// FindByID retrieves a team member by id.
func (r *MemberRepository) FindByID(ctx context.Context, id int64) (*member.TeamMember, error) {
	return r.findOne(ctx, `WHERE id = $1`, id)
}

// FindByUsername backs the username-to-email sign-in lookup.
func (r *MemberRepository) FindByUsername(ctx context.Context, username string) (*member.TeamMember, error) {
	return r.findOne(ctx, `WHERE username = $1`, username)
}

// FindByIdentityID retrieves the profile row of an auth identity.
func (r *MemberRepository) FindByIdentityID(ctx context.Context, identityID int64) (*member.TeamMember, error) {
	return r.findOne(ctx, `WHERE identity_id = $1`, identityID)
}

func (r *MemberRepository) findOne(ctx context.Context, where string, arg interface{}) (*member.TeamMember, error) {
	query := `
		SELECT id, identity_id, username, name, email, role, status, last_login, created_at, updated_at
		FROM team_members ` + where

	var m member.TeamMember
	err := r.db.QueryRow(ctx, query, arg).Scan(
		&m.ID, &m.IdentityID, &m.Username, &m.Name, &m.Email, &m.Role, &m.Status,
		&m.LastLogin, &m.CreatedAt, &m.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, xerrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find team member: %w", err)
	}

	return &m, nil
}

// List returns all team members.
func (r *MemberRepository) List(ctx context.Context) ([]*member.TeamMember, error) {
	query := `
		SELECT id, identity_id, username, name, email, role, status, last_login, created_at, updated_at
		FROM team_members
		ORDER BY id
	`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list team members: %w", err)
	}
	defer rows.Close()

	var members []*member.TeamMember
	for rows.Next() {
		var m member.TeamMember
		if err := rows.Scan(
			&m.ID, &m.IdentityID, &m.Username, &m.Name, &m.Email, &m.Role, &m.Status,
			&m.LastLogin, &m.CreatedAt, &m.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan team member: %w", err)
		}
		members = append(members, &m)
	}

	return members, rows.Err()
}

// Update writes the mutable fields of a team member.
func (r *MemberRepository) Update(ctx context.Context, id int64, m *member.TeamMember) error {
	query := `
		UPDATE team_members
		SET username = $1, name = $2, email = $3, role = $4, status = $5, updated_at = $6
		WHERE id = $7
	`

	result, err := r.db.Exec(ctx, query, m.Username, m.Name, m.Email, m.Role, m.Status, time.Now(), id)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return xerrors.ErrDuplicateEntry
		}
		return fmt.Errorf("failed to update team member: %w", err)
	}
	if result.RowsAffected() == 0 {
		return xerrors.ErrNotFound
	}

	return nil
}

// Delete removes a team member row.
func (r *MemberRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.Exec(ctx, `DELETE FROM team_members WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete team member: %w", err)
	}
	if result.RowsAffected() == 0 {
		return xerrors.ErrNotFound
	}
	return nil
}

// TouchLastLogin stamps the profile row on successful sign-in.
func (r *MemberRepository) TouchLastLogin(ctx context.Context, identityID int64) error {
	query := `UPDATE team_members SET last_login = $1, updated_at = now() WHERE identity_id = $2`
	_, err := r.db.Exec(ctx, query, time.Now(), identityID)
	if err != nil {
		return fmt.Errorf("failed to touch last login: %w", err)
	}
	return nil
}
