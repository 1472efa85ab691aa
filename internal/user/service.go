// AngelaMos | 2026
// service.go

package user

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/angelamos/promptvault/internal/auth"
	"github.com/angelamos/promptvault/internal/core"
)

// TokenRevoker ends every session of an account.
type TokenRevoker interface {
	RevokeAllForUser(ctx context.Context, userID string) error
}

type Service struct {
	repo    Repository
	revoker TokenRevoker
	logger  *slog.Logger
}

func NewService(
	repo Repository,
	revoker TokenRevoker,
	logger *slog.Logger,
) *Service {
	return &Service{
		repo:    repo,
		revoker: revoker,
		logger:  logger.With("component", "user"),
	}
}

func (s *Service) GetByID(
	ctx context.Context,
	id string,
) (*auth.UserInfo, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("get user: %w", core.ErrNotFound)
	}

	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	return toUserInfo(user), nil
}

func (s *Service) GetByEmail(
	ctx context.Context,
	email string,
) (*auth.UserInfo, error) {
	user, err := s.repo.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		return nil, err
	}

	return toUserInfo(user), nil
}

func (s *Service) UpdatePassword(
	ctx context.Context,
	userID, passwordHash string,
) error {
	return s.repo.Update(ctx, userID, Patch{PasswordHash: &passwordHash})
}

func (s *Service) Count(ctx context.Context) (int, error) {
	return s.repo.Count(ctx)
}

func (s *Service) GetMe(ctx context.Context, userID string) (*User, error) {
	if userID == "" {
		return nil, fmt.Errorf("get me: %w", core.ErrUnauthorized)
	}

	return s.repo.GetByID(ctx, userID)
}

func (s *Service) ListUsers(
	ctx context.Context,
	params ListUsersParams,
) ([]User, int, error) {
	params.Normalize()
	return s.repo.List(ctx, params)
}

// CreateUser provisions an account. Role defaults to USER.
func (s *Service) CreateUser(
	ctx context.Context,
	req CreateUserRequest,
) (string, error) {
	role := req.Role
	if role == "" {
		role = RoleUser
	}
	if !validRole(role) {
		return "", fmt.Errorf("create user: invalid role %q: %w", role, core.ErrInvalidInput)
	}

	hash, err := core.HashPassword(req.Password)
	if err != nil {
		return "", fmt.Errorf("create user: %w", err)
	}

	user := &User{
		ID:           uuid.New().String(),
		Email:        normalizeEmail(req.Email),
		PasswordHash: hash,
		Role:         role,
	}

	if err := s.repo.Create(ctx, user); err != nil {
		return "", err
	}

	s.logger.Info("user created", "user_id", user.ID, "role", role)

	return user.ID, nil
}

// UpdateUser applies an admin edit. Disabling an account revokes all
// of its refresh tokens so it cannot mint new access tokens.
func (s *Service) UpdateUser(
	ctx context.Context,
	actorID, id string,
	req UpdateUserRequest,
) error {
	if _, err := uuid.Parse(id); err != nil {
		return fmt.Errorf("update user: %w", core.ErrNotFound)
	}

	if actorID == id {
		if req.IsDisabled != nil && *req.IsDisabled {
			return fmt.Errorf("update user: cannot disable yourself: %w", core.ErrForbidden)
		}
		if req.Role != nil && *req.Role != RoleAdmin {
			return fmt.Errorf("update user: cannot demote yourself: %w", core.ErrForbidden)
		}
	}

	var patch Patch

	if req.Password != nil {
		hash, err := core.HashPassword(*req.Password)
		if err != nil {
			return fmt.Errorf("update user: %w", err)
		}
		patch.PasswordHash = &hash
	}

	if req.Role != nil {
		if !validRole(*req.Role) {
			return fmt.Errorf("update user: invalid role %q: %w", *req.Role, core.ErrInvalidInput)
		}
		patch.Role = req.Role
	}

	patch.IsDisabled = req.IsDisabled

	if err := s.repo.Update(ctx, id, patch); err != nil {
		return err
	}

	if req.IsDisabled != nil && *req.IsDisabled && s.revoker != nil {
		if err := s.revoker.RevokeAllForUser(ctx, id); err != nil {
			return fmt.Errorf("update user: revoke sessions: %w", err)
		}
		s.logger.Info("user disabled", "user_id", id)
	}

	return nil
}

func (s *Service) DeleteUser(ctx context.Context, actorID, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return fmt.Errorf("delete user: %w", core.ErrNotFound)
	}

	if actorID == id {
		return fmt.Errorf("delete user: cannot delete yourself: %w", core.ErrForbidden)
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info("user deleted", "user_id", id)

	return nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func validRole(role string) bool {
	return role == RoleAdmin || role == RoleUser
}

func toUserInfo(u *User) *auth.UserInfo {
	return &auth.UserInfo{
		ID:           u.ID,
		Email:        u.Email,
		PasswordHash: u.PasswordHash,
		Role:         u.Role,
		Disabled:     u.IsDisabled,
		CreatedAt:    u.CreatedAt,
	}
}

var _ auth.UserProvider = (*Service)(nil)
