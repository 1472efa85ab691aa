// AngelaMos | 2026
// bootstrap.go

package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/angelamos/promptvault/internal/config"
	"github.com/angelamos/promptvault/internal/settings"
	"github.com/angelamos/promptvault/internal/user"
)

type Users interface {
	Count(ctx context.Context) (int, error)
	CreateUser(ctx context.Context, req user.CreateUserRequest) (string, error)
}

type Categories interface {
	CreateCategory(ctx context.Context, name string) (string, error)
	CreateSection(ctx context.Context, categoryID, name string, sortOrder int) (string, error)
}

type Settings interface {
	Update(ctx context.Context, patch settings.Patch) (*settings.Settings, error)
}

type Result struct {
	Seeded     bool
	AdminID    string
	CategoryID string
}

type Seeder struct {
	users      Users
	categories Categories
	settings   Settings
	config     config.BootstrapConfig
	logger     *slog.Logger
}

func New(
	users Users,
	categories Categories,
	prefs Settings,
	cfg config.BootstrapConfig,
	logger *slog.Logger,
) *Seeder {
	return &Seeder{
		users:      users,
		categories: categories,
		settings:   prefs,
		config:     cfg,
		logger:     logger.With("component", "bootstrap"),
	}
}

// Run seeds the admin account, the default category with its sections and
// the default-category setting. It does nothing once any user exists.
func (s *Seeder) Run(ctx context.Context) (Result, error) {
	n, err := s.users.Count(ctx)
	if err != nil {
		return Result{}, fmt.Errorf("bootstrap: %w", err)
	}
	if n > 0 {
		s.logger.DebugContext(ctx, "bootstrap skipped", "users", n)
		return Result{}, nil
	}

	if s.config.AdminEmail == "" || s.config.AdminPassword == "" {
		return Result{}, errors.New("bootstrap: admin email and password must be configured")
	}

	adminID, err := s.users.CreateUser(ctx, user.CreateUserRequest{
		Email:    s.config.AdminEmail,
		Password: s.config.AdminPassword,
		Role:     user.RoleAdmin,
	})
	if err != nil {
		return Result{}, fmt.Errorf("bootstrap admin: %w", err)
	}

	res := Result{Seeded: true, AdminID: adminID}

	name := s.config.CategoryName
	if name == "" {
		name = "General"
	}

	categoryID, err := s.categories.CreateCategory(ctx, name)
	if err != nil {
		return res, fmt.Errorf("bootstrap category: %w", err)
	}
	res.CategoryID = categoryID

	for i, section := range s.config.SectionNames {
		if _, err := s.categories.CreateSection(ctx, categoryID, section, i); err != nil {
			return res, fmt.Errorf("bootstrap section %q: %w", section, err)
		}
	}

	if _, err := s.settings.Update(ctx, settings.Patch{DefaultCategoryID: &categoryID}); err != nil {
		return res, fmt.Errorf("bootstrap settings: %w", err)
	}

	s.logger.InfoContext(ctx, "bootstrap complete",
		"admin_email", s.config.AdminEmail,
		"category_id", categoryID,
		"sections", len(s.config.SectionNames),
	)

	return res, nil
}
