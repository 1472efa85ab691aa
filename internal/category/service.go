// AngelaMos | 2026
// service.go

package category

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/angelamos/promptvault/internal/core"
)

type Transactor interface {
	WithinTx(ctx context.Context, fn func(repo Repository) error) error
}

type sqlxTransactor struct {
	db *sqlx.DB
}

func NewTransactor(db *sqlx.DB) Transactor {
	return &sqlxTransactor{db: db}
}

func (t *sqlxTransactor) WithinTx(
	ctx context.Context,
	fn func(repo Repository) error,
) error {
	return core.InTx(ctx, t.db, func(tx *sqlx.Tx) error {
		return fn(NewRepository(tx))
	})
}

type Service struct {
	repo   Repository
	tx     Transactor
	logger *slog.Logger
}

func NewService(repo Repository, tx Transactor, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		repo:   repo,
		tx:     tx,
		logger: logger.With("component", "category"),
	}
}

// List returns every category with its sections; categories are shared by
// all users.
func (s *Service) List(ctx context.Context) ([]Category, error) {
	return s.repo.List(ctx)
}

func (s *Service) CreateCategory(ctx context.Context, name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", fmt.Errorf("name is required: %w", core.ErrInvalidInput)
	}

	c := &Category{ID: uuid.New().String(), Name: name}
	if err := s.repo.CreateCategory(ctx, c); err != nil {
		return "", err
	}

	s.logger.InfoContext(ctx, "category created", "category_id", c.ID, "name", name)
	return c.ID, nil
}

func (s *Service) RenameCategory(ctx context.Context, id, name string) error {
	if !validID(id) {
		return fmt.Errorf("rename category: %w", core.ErrNotFound)
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("name is required: %w", core.ErrInvalidInput)
	}
	return s.repo.RenameCategory(ctx, id, name)
}

func (s *Service) DeleteCategory(ctx context.Context, id string) error {
	if !validID(id) {
		return fmt.Errorf("delete category: %w", core.ErrNotFound)
	}
	if err := s.repo.DeleteCategory(ctx, id); err != nil {
		return err
	}

	s.logger.InfoContext(ctx, "category deleted", "category_id", id)
	return nil
}

func (s *Service) CreateSection(
	ctx context.Context,
	categoryID, name string,
	sortOrder int,
) (string, error) {
	if !validID(categoryID) {
		return "", fmt.Errorf("create section: %w", core.ErrNotFound)
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return "", fmt.Errorf("name is required: %w", core.ErrInvalidInput)
	}

	sec := &Section{
		ID:         uuid.New().String(),
		CategoryID: categoryID,
		Name:       name,
		SortOrder:  sortOrder,
	}
	if err := s.repo.CreateSection(ctx, sec); err != nil {
		return "", err
	}

	s.logger.InfoContext(ctx, "section created",
		"section_id", sec.ID,
		"category_id", categoryID,
	)
	return sec.ID, nil
}

func (s *Service) UpdateSection(
	ctx context.Context,
	id string,
	req UpdateSectionRequest,
) error {
	if !validID(id) {
		return fmt.Errorf("update section: %w", core.ErrNotFound)
	}

	if req.Name != nil {
		trimmed := strings.TrimSpace(*req.Name)
		if trimmed == "" {
			return fmt.Errorf("name must not be empty: %w", core.ErrInvalidInput)
		}
		req.Name = &trimmed
	}

	return s.repo.UpdateSection(ctx, id, req.Name, req.SortOrder)
}

// DeleteSection clears entry references and removes the section in one
// transaction.
func (s *Service) DeleteSection(ctx context.Context, id string) error {
	if !validID(id) {
		return fmt.Errorf("delete section: %w", core.ErrNotFound)
	}

	err := s.tx.WithinTx(ctx, func(repo Repository) error {
		if err := repo.DetachSection(ctx, id); err != nil {
			return err
		}
		return repo.DeleteSection(ctx, id)
	})
	if err != nil {
		return err
	}

	s.logger.InfoContext(ctx, "section deleted", "section_id", id)
	return nil
}

func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}
