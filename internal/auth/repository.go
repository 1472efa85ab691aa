// AngelaMos | 2026
// repository.go

package auth

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/angelamos/promptvault/internal/core"
)

// Repository stores refresh credentials. Tokens are looked up by the
// SHA-256 of the opaque value; the value itself is never persisted.
type Repository interface {
	Create(ctx context.Context, token *RefreshToken) error
	Rotate(ctx context.Context, previousID string, next *RefreshToken) error
	FindByHash(ctx context.Context, tokenHash string) (*RefreshToken, error)
	RevokeByID(ctx context.Context, id string) error
	RevokeByFamilyID(ctx context.Context, familyID string) error
	RevokeAllForUser(ctx context.Context, userID string) error
	PruneExpired(ctx context.Context, before time.Time) (int64, error)
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, token *RefreshToken) error {
	const query = `
		INSERT INTO refresh_tokens
			(id, user_id, token_hash, family_id, expires_at, user_agent, ip_address)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at`

	if err := r.db.GetContext(ctx, &token.CreatedAt, query, insertArgs(token)...); err != nil {
		return fmt.Errorf("insert refresh token: %w", err)
	}
	return nil
}

// Rotate consumes previousID and stores its successor in one statement.
// When previousID was already consumed or revoked nothing is written and
// ErrTokenReuse is returned, so two racing refreshes cannot both win.
func (r *repository) Rotate(
	ctx context.Context,
	previousID string,
	next *RefreshToken,
) error {
	const query = `
		WITH consumed AS (
			UPDATE refresh_tokens
			SET is_used = TRUE, used_at = NOW(), replaced_by_id = $1::uuid
			WHERE id = $8 AND is_used = FALSE AND revoked_at IS NULL
			RETURNING id
		)
		INSERT INTO refresh_tokens
			(id, user_id, token_hash, family_id, expires_at, user_agent, ip_address)
		SELECT $1::uuid, $2::uuid, $3::text, $4::uuid, $5::timestamptz, $6::text, $7::text
		FROM consumed
		RETURNING created_at`

	args := append(insertArgs(next), previousID)

	err := r.db.GetContext(ctx, &next.CreatedAt, query, args...)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("rotate refresh token: %w", ErrTokenReuse)
	}
	if err != nil {
		return fmt.Errorf("rotate refresh token: %w", err)
	}
	return nil
}

func insertArgs(t *RefreshToken) []any {
	return []any{
		t.ID,
		t.UserID,
		t.TokenHash,
		t.FamilyID,
		t.ExpiresAt,
		t.UserAgent,
		t.IPAddress,
	}
}

func (r *repository) FindByHash(
	ctx context.Context,
	tokenHash string,
) (*RefreshToken, error) {
	const query = `
		SELECT id, user_id, token_hash, family_id, expires_at, created_at,
		       is_used, used_at, revoked_at, replaced_by_id, user_agent, ip_address
		FROM refresh_tokens
		WHERE token_hash = $1`

	var token RefreshToken
	switch err := r.db.GetContext(ctx, &token, query, tokenHash); {
	case errors.Is(err, sql.ErrNoRows):
		return nil, fmt.Errorf("refresh token: %w", core.ErrNotFound)
	case err != nil:
		return nil, fmt.Errorf("refresh token: %w", err)
	}
	return &token, nil
}

func (r *repository) RevokeByID(ctx context.Context, id string) error {
	_, err := r.revoke(ctx, "id = $1", id)
	return err
}

func (r *repository) RevokeByFamilyID(ctx context.Context, familyID string) error {
	_, err := r.revoke(ctx, "family_id = $1", familyID)
	return err
}

// RevokeAllForUser ends every session of a user; the user service calls
// it when an admin disables the account.
func (r *repository) RevokeAllForUser(ctx context.Context, userID string) error {
	_, err := r.revoke(ctx, "user_id = $1", userID)
	return err
}

func (r *repository) revoke(ctx context.Context, where string, arg string) (int64, error) {
	query := `UPDATE refresh_tokens SET revoked_at = NOW()
		WHERE revoked_at IS NULL AND ` + where

	res, err := r.db.ExecContext(ctx, query, arg)
	if err != nil {
		return 0, fmt.Errorf("revoke refresh tokens (%s): %w", where, err)
	}
	return res.RowsAffected()
}

// PruneExpired deletes refresh tokens that expired before the cutoff.
func (r *repository) PruneExpired(ctx context.Context, before time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM refresh_tokens WHERE expires_at < $1`, before)
	if err != nil {
		return 0, fmt.Errorf("prune refresh tokens: %w", err)
	}
	return res.RowsAffected()
}
