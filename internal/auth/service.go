// AngelaMos | 2026
// service.go

package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/angelamos/promptvault/internal/core"
	"github.com/angelamos/promptvault/internal/middleware"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrTokenReuse         = errors.New("refresh token reuse detected")
)

type UserProvider interface {
	GetByEmail(ctx context.Context, email string) (*UserInfo, error)
	GetByID(ctx context.Context, id string) (*UserInfo, error)
	UpdatePassword(ctx context.Context, userID, passwordHash string) error
}

type Service struct {
	repo      Repository
	jwt       *JWTManager
	users     UserProvider
	blacklist Blacklist
	logger    *slog.Logger
}

func NewService(
	repo Repository,
	jwt *JWTManager,
	users UserProvider,
	blacklist Blacklist,
	logger *slog.Logger,
) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		repo:      repo,
		jwt:       jwt,
		users:     users,
		blacklist: blacklist,
		logger:    logger.With("component", "auth"),
	}
}

// Login answers unknown accounts, disabled accounts and wrong passwords with
// the same error and comparable latency.
func (s *Service) Login(
	ctx context.Context,
	req LoginRequest,
	userAgent, ipAddress string,
) (*AuthResponse, error) {
	user, err := s.users.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(req.Email)))
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			core.BurnPasswordCheck(req.Password)
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("login: %w", err)
	}

	ok, rehash, err := core.VerifyPassword(req.Password, user.PasswordHash)
	if err != nil {
		return nil, fmt.Errorf("verify password: %w", err)
	}
	if !ok || user.Disabled {
		return nil, ErrInvalidCredentials
	}

	if rehash != "" {
		if err := s.users.UpdatePassword(ctx, user.ID, rehash); err != nil {
			s.logger.WarnContext(ctx, "password rehash failed",
				"user_id", user.ID,
				"error", err,
			)
		}
	}

	s.logger.InfoContext(ctx, "login", "user_id", user.ID)
	return s.issue(ctx, user, userAgent, ipAddress, "", "")
}

// Refresh rotates a refresh token. Presenting a consumed token revokes every
// token descended from the same login.
func (s *Service) Refresh(
	ctx context.Context,
	refreshToken, userAgent, ipAddress string,
) (*AuthResponse, error) {
	stored, err := s.repo.FindByHash(ctx, core.HashToken(refreshToken))
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return nil, fmt.Errorf("refresh: %w", core.ErrTokenInvalid)
		}
		return nil, fmt.Errorf("refresh: %w", err)
	}

	if err := stored.State(time.Now()); err != nil {
		if errors.Is(err, ErrTokenReuse) {
			s.revokeFamily(ctx, stored)
		}
		return nil, fmt.Errorf("refresh: %w", err)
	}

	user, err := s.users.GetByID(ctx, stored.UserID)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return nil, fmt.Errorf("refresh: %w", core.ErrTokenInvalid)
		}
		return nil, fmt.Errorf("refresh: %w", err)
	}
	if user.Disabled {
		return nil, fmt.Errorf("refresh: %w", core.ErrTokenRevoked)
	}

	resp, err := s.issue(ctx, user, userAgent, ipAddress, stored.FamilyID, stored.ID)
	if err != nil {
		if errors.Is(err, ErrTokenReuse) {
			s.revokeFamily(ctx, stored)
		}
		return nil, err
	}

	return resp, nil
}

// Logout revokes the presented refresh token, if any, and blacklists the
// access token used to call it.
func (s *Service) Logout(
	ctx context.Context,
	claims *middleware.AccessTokenClaims,
	refreshToken string,
) error {
	if claims == nil {
		return fmt.Errorf("logout: %w", core.ErrUnauthorized)
	}

	if refreshToken != "" {
		stored, err := s.repo.FindByHash(ctx, core.HashToken(refreshToken))
		switch {
		case errors.Is(err, core.ErrNotFound):
		case err != nil:
			return fmt.Errorf("logout: %w", err)
		case stored.UserID != claims.UserID:
			return fmt.Errorf("logout: %w", core.ErrForbidden)
		default:
			if err := s.repo.RevokeByID(ctx, stored.ID); err != nil {
				return fmt.Errorf("logout: %w", err)
			}
		}
	}

	if err := s.blacklist.Revoke(ctx, claims.TokenID, time.Until(claims.ExpiresAt)); err != nil {
		return fmt.Errorf("logout: %w", err)
	}

	s.logger.InfoContext(ctx, "logout", "user_id", claims.UserID)
	return nil
}

// RevokeAllForUser ends every refresh chain of userID. Access tokens already
// issued stay valid until they expire.
func (s *Service) RevokeAllForUser(ctx context.Context, userID string) error {
	if err := s.repo.RevokeAllForUser(ctx, userID); err != nil {
		return err
	}

	s.logger.InfoContext(ctx, "refresh tokens revoked", "user_id", userID)
	return nil
}

// VerifyAccessToken implements middleware.TokenVerifier.
func (s *Service) VerifyAccessToken(
	ctx context.Context,
	token string,
) (*middleware.AccessTokenClaims, error) {
	claims, err := s.jwt.ParseAccessToken(ctx, token)
	if err != nil {
		return nil, err
	}

	revoked, err := s.blacklist.IsRevoked(ctx, claims.TokenID)
	if err != nil {
		s.logger.ErrorContext(ctx, "blacklist lookup failed", "error", err)
		return nil, fmt.Errorf("verify token: %w", core.ErrTokenInvalid)
	}
	if revoked {
		return nil, fmt.Errorf("verify token: %w", core.ErrTokenRevoked)
	}

	return claims, nil
}

func (s *Service) issue(
	ctx context.Context,
	user *UserInfo,
	userAgent, ipAddress, familyID, previousID string,
) (*AuthResponse, error) {
	access, err := s.jwt.CreateAccessToken(user.ID, user.Role)
	if err != nil {
		return nil, fmt.Errorf("create access token: %w", err)
	}

	refresh, err := s.jwt.CreateRefreshToken(familyID)
	if err != nil {
		return nil, fmt.Errorf("create refresh token: %w", err)
	}

	next := &RefreshToken{
		ID:        uuid.New().String(),
		UserID:    user.ID,
		TokenHash: refresh.Hash,
		FamilyID:  refresh.FamilyID,
		ExpiresAt: refresh.ExpiresAt,
		UserAgent: userAgent,
		IPAddress: ipAddress,
	}

	if previousID == "" {
		err = s.repo.Create(ctx, next)
	} else {
		err = s.repo.Rotate(ctx, previousID, next)
	}
	if err != nil {
		return nil, fmt.Errorf("store refresh token: %w", err)
	}

	return &AuthResponse{
		AccessToken:  access.Token,
		RefreshToken: refresh.Token,
		TokenType:    "Bearer",
		ExpiresAt:    access.ExpiresAt,
		User: UserSummary{
			ID:        user.ID,
			Email:     user.Email,
			Role:      user.Role,
			CreatedAt: user.CreatedAt,
		},
	}, nil
}

func (s *Service) revokeFamily(ctx context.Context, token *RefreshToken) {
	s.logger.WarnContext(ctx, "refresh token reuse",
		"user_id", token.UserID,
		"family_id", token.FamilyID,
	)
	if err := s.repo.RevokeByFamilyID(ctx, token.FamilyID); err != nil {
		s.logger.ErrorContext(ctx, "revoke token family failed", "error", err)
	}
}

var _ middleware.TokenVerifier = (*Service)(nil)
